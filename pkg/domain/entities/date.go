package entities

import (
	"fmt"
	"time"
)

// Date represents a calendar day with no time-of-day or timezone component.
// Equipment scheduling is day-granular; two reservations on the same day
// overlap regardless of clock time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf converts a time.Time to the Date it falls on in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a date in ISO 8601 form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the Date as a UTC midnight time.Time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as ISO 8601 (2006-01-02).
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DateRange represents an inclusive range of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// NewDateRange creates a validated DateRange.
func NewDateRange(start, end Date) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: end date %s before start date %s", ErrInvalidRequest, end, start)
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Contains reports whether d falls within the range, boundaries included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range, boundaries included.
func (r DateRange) Days() int {
	return int(r.End.Time().Sub(r.Start.Time())/(24*time.Hour)) + 1
}

// String formats the range as "start..end".
func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
