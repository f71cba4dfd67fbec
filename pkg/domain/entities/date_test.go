package entities

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	if err != nil {
		t.Fatalf("Failed to parse date: %v", err)
	}
	if d.Year != 2024 || d.Month != time.June || d.Day != 3 {
		t.Errorf("Expected 2024-06-03, got %s", d)
	}

	if _, err := ParseDate("06/03/2024"); err == nil {
		t.Error("Expected error for non-ISO date")
	}
}

func TestNewDateRange_RejectsReversedDates(t *testing.T) {
	_, err := NewDateRange(NewDate(2024, time.June, 5), NewDate(2024, time.June, 1))
	if err == nil {
		t.Fatal("Expected error for end before start")
	}

	// Single-day range is valid
	r, err := NewDateRange(NewDate(2024, time.June, 5), NewDate(2024, time.June, 5))
	if err != nil {
		t.Fatalf("Single-day range should be valid: %v", err)
	}
	if r.Days() != 1 {
		t.Errorf("Expected 1 day, got %d", r.Days())
	}
}

func TestDateRange_Overlaps(t *testing.T) {
	base := DateRange{Start: NewDate(2024, time.June, 10), End: NewDate(2024, time.June, 14)}

	tests := []struct {
		name     string
		other    DateRange
		expected bool
	}{
		{
			name:     "identical",
			other:    DateRange{Start: NewDate(2024, time.June, 10), End: NewDate(2024, time.June, 14)},
			expected: true,
		},
		{
			name:     "contained",
			other:    DateRange{Start: NewDate(2024, time.June, 11), End: NewDate(2024, time.June, 12)},
			expected: true,
		},
		{
			name:     "boundary_day_shared_at_end",
			other:    DateRange{Start: NewDate(2024, time.June, 14), End: NewDate(2024, time.June, 20)},
			expected: true,
		},
		{
			name:     "boundary_day_shared_at_start",
			other:    DateRange{Start: NewDate(2024, time.June, 1), End: NewDate(2024, time.June, 10)},
			expected: true,
		},
		{
			name:     "adjacent_before",
			other:    DateRange{Start: NewDate(2024, time.June, 1), End: NewDate(2024, time.June, 9)},
			expected: false,
		},
		{
			name:     "adjacent_after",
			other:    DateRange{Start: NewDate(2024, time.June, 15), End: NewDate(2024, time.June, 20)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.expected {
				t.Errorf("Overlaps(%s, %s) = %v, expected %v", base, tt.other, got, tt.expected)
			}
			// Overlap is symmetric
			if got := tt.other.Overlaps(base); got != tt.expected {
				t.Errorf("Overlaps(%s, %s) = %v, expected %v", tt.other, base, got, tt.expected)
			}
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: NewDate(2024, time.June, 10), End: NewDate(2024, time.June, 14)}

	if !r.Contains(NewDate(2024, time.June, 10)) {
		t.Error("Start boundary should be contained")
	}
	if !r.Contains(NewDate(2024, time.June, 14)) {
		t.Error("End boundary should be contained")
	}
	if r.Contains(NewDate(2024, time.June, 15)) {
		t.Error("Day after end should not be contained")
	}
	if r.Contains(NewDate(2024, time.June, 9)) {
		t.Error("Day before start should not be contained")
	}
}

func TestDate_NextCrossesMonthBoundary(t *testing.T) {
	next := NewDate(2024, time.June, 30).Next()
	if next != NewDate(2024, time.July, 1) {
		t.Errorf("Expected 2024-07-01, got %s", next)
	}

	// Leap year
	next = NewDate(2024, time.February, 28).Next()
	if next != NewDate(2024, time.February, 29) {
		t.Errorf("Expected 2024-02-29, got %s", next)
	}
}
