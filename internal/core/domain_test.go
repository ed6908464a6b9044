package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		y  int
		m  int
		d  int
		ok bool
	}{
		{"1/2/2026", 2026, 1, 2, true},
		{"01/02/2026", 2026, 1, 2, true},
		{"12/31/2025", 2025, 12, 31, true},
		{" 1/5/2026 ", 2026, 1, 5, true},
		{"2026-01-02", 0, 0, 0, false},
		{"1/32/2026", 0, 0, 0, false},
		{"13/1/2026", 0, 0, 0, false},
		{"", 0, 0, 0, false},
		{"not a date", 0, 0, 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
			}
			if !got.Equal(NewDate(tc.y, tc.m, tc.d)) {
				t.Fatalf("ParseDate(%q) = %v, want %d-%d-%d", tc.in, got, tc.y, tc.m, tc.d)
			}
		} else if err == nil {
			t.Fatalf("ParseDate(%q) expected error", tc.in)
		}
	}
}

func TestDateISORoundTrip(t *testing.T) {
	d := NewDate(2026, 1, 5)
	if d.ISO() != "2026-01-05" {
		t.Fatalf("expected 2026-01-05, got %s", d.ISO())
	}
	back, err := ParseISODate(d.ISO())
	if err != nil {
		t.Fatalf("ParseISODate: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestMaxDate(t *testing.T) {
	a := NewDate(2026, 1, 2)
	b := NewDate(2026, 1, 5)
	if got := MaxDate(a, b); !got.Equal(b) {
		t.Errorf("MaxDate(a, b) = %v, want %v", got, b)
	}
	if got := MaxDate(b, a); !got.Equal(b) {
		t.Errorf("MaxDate(b, a) = %v, want %v", got, b)
	}
	if got := MaxDate(a, a); !got.Equal(a) {
		t.Errorf("MaxDate(a, a) = %v, want %v", got, a)
	}
}

func TestDonationRecordValidate(t *testing.T) {
	valid := DonationRecord{
		DonorID: 1,
		Name:    "Joe Smith",
		Amount:  Money{Cents: 500},
		Date:    NewDate(2026, 1, 2),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*DonationRecord)
		want   error
	}{
		{"zero donor id", func(r *DonationRecord) { r.DonorID = 0 }, ErrInvalidDonorID},
		{"negative donor id", func(r *DonationRecord) { r.DonorID = -3 }, ErrInvalidDonorID},
		{"blank name", func(r *DonationRecord) { r.Name = "   " }, ErrEmptyName},
		{"negative amount", func(r *DonationRecord) { r.Amount.Cents = -1 }, ErrInvalidAmount},
		{"zero date", func(r *DonationRecord) { r.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Zero amounts are legitimate donations (e.g. in-kind placeholder rows).
	zero := valid
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Errorf("zero amount should validate, got %v", err)
	}
}
