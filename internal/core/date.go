package core

import (
	"strings"
	"time"
)

// csvDateLayout matches the M/d/yyyy format used in intake files.
// Go accepts both one and two digit month/day components for this layout.
const csvDateLayout = "1/2/2006"

// isoDateLayout is the format used when persisting dates.
const isoDateLayout = "2006-01-02"

// ParseDate parses an intake date in M/d/yyyy form, e.g. "1/5/2026".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(csvDateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ParseISODate parses a persisted date in yyyy-MM-dd form.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO renders the date in yyyy-MM-dd form for persistence and display.
func (d Date) ISO() string {
	return d.Format(isoDateLayout)
}
