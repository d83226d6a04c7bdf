package value

import (
	"fmt"
	"time"
)

// DateValue is a calendar date with exact YYYY-MM-DD round-tripping.
type DateValue struct {
	Year, Month, Day int
}

// TimeValue is a time-of-day with exact HH:MM:SS round-tripping.
type TimeValue struct {
	Hour, Minute, Second int
}

// DateTimeValue is a DateValue and TimeValue joined by 'T', matching
// YYYY-MM-DDTHH:MM:SS.
type DateTimeValue struct {
	Date DateValue
	Time TimeValue
}

func parseDate(s string) (DateValue, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DateValue{}, fmt.Errorf("invalid date value %q: %w", s, err)
	}
	return DateValue{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d DateValue) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0, or 1 using component-wise lexicographic ordering.
func (d DateValue) Compare(other DateValue) int {
	if c := compareInt(d.Year, other.Year); c != 0 {
		return c
	}
	if c := compareInt(d.Month, other.Month); c != 0 {
		return c
	}
	return compareInt(d.Day, other.Day)
}

func parseTime(s string) (TimeValue, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return TimeValue{}, fmt.Errorf("invalid time value %q: %w", s, err)
	}
	return TimeValue{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

func (t TimeValue) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeValue) Compare(other TimeValue) int {
	if c := compareInt(t.Hour, other.Hour); c != 0 {
		return c
	}
	if c := compareInt(t.Minute, other.Minute); c != 0 {
		return c
	}
	return compareInt(t.Second, other.Second)
}

func parseDateTime(s string) (DateTimeValue, error) {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return DateTimeValue{}, fmt.Errorf("invalid datetime value %q: %w", s, err)
	}
	return DateTimeValue{
		Date: DateValue{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time: TimeValue{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()},
	}, nil
}

func (dt DateTimeValue) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

func (dt DateTimeValue) Compare(other DateTimeValue) int {
	if c := dt.Date.Compare(other.Date); c != 0 {
		return c
	}
	return dt.Time.Compare(other.Time)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
