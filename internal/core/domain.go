package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time-of-day component. Dates are
	// normalized to midnight UTC so comparison is pure calendar ordering.
	Date struct {
		time.Time
	}

	// Money is an exact decimal currency amount stored as integer cents.
	Money struct {
		Cents int64
	}

	// DonationRecord is a single parsed row from an intake CSV file.
	DonationRecord struct {
		DonorID int64
		Name    string
		Amount  Money
		Date    Date
	}

	// LedgerEntry is the persisted lifetime-giving state for one donor.
	LedgerEntry struct {
		DonorID      int64
		Name         string
		Lifetime     Money
		LastDonation Date
	}
)

var (
	ErrInvalidDonorID = errors.New("invalid donor id")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrEmptyName      = errors.New("empty donor name")
)

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the exact sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (r DonationRecord) Validate() error {
	if r.DonorID <= 0 {
		return ErrInvalidDonorID
	}
	if len(strings.TrimSpace(r.Name)) == 0 {
		return ErrEmptyName
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Date.Validate()
}

func (e LedgerEntry) Validate() error {
	if e.DonorID <= 0 {
		return ErrInvalidDonorID
	}
	if err := e.Lifetime.Validate(); err != nil {
		return err
	}
	return e.LastDonation.Validate()
}
