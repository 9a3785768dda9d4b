// internal/calendar/calendar.go
package calendar

import (
	"fmt"
	"time"
)

// Instant is a count of seconds since 1970-01-01T00:00:00Z.
// Proleptic Gregorian, UTC, no leap seconds.
type Instant int64

// SecondsPerDay is the fixed day length used by the DST boundary math.
const SecondsPerDay = 24 * 60 * 60

// Add returns the instant shifted by seconds.
func (i Instant) Add(seconds int64) Instant {
	return i + Instant(seconds)
}

// Time converts the instant to a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.Unix(int64(i), 0).UTC()
}

// DateTime is the calendar breakdown exchanged with the clock sink.
type DateTime struct {
	Year    int
	Month   int // 1-12
	Day     int // 1-31
	Weekday int // 0=Sunday
	Hour    int
	Minute  int
	Second  int
}

// FromInstant breaks an instant down into calendar fields.
func FromInstant(i Instant) DateTime {
	t := i.Time()
	return DateTime{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Weekday: int(t.Weekday()),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
	}
}

// Instant converts calendar fields back to an instant, treating them as UTC.
// Weekday is ignored; it is derived from the date.
func (d DateTime) Instant() Instant {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)
	return Instant(t.Unix())
}

// Validate checks field ranges as a real-time clock would.
func (d DateTime) Validate() error {
	switch {
	case d.Year < 0 || d.Year > 4095:
		return fmt.Errorf("calendar: year %d out of range", d.Year)
	case d.Month < 1 || d.Month > 12:
		return fmt.Errorf("calendar: month %d out of range", d.Month)
	case d.Day < 1 || d.Day > daysIn(d.Year, d.Month):
		return fmt.Errorf("calendar: day %d out of range for %04d-%02d", d.Day, d.Year, d.Month)
	case d.Weekday < 0 || d.Weekday > 6:
		return fmt.Errorf("calendar: weekday %d out of range", d.Weekday)
	case d.Hour < 0 || d.Hour > 23:
		return fmt.Errorf("calendar: hour %d out of range", d.Hour)
	case d.Minute < 0 || d.Minute > 59:
		return fmt.Errorf("calendar: minute %d out of range", d.Minute)
	case d.Second < 0 || d.Second > 59:
		return fmt.Errorf("calendar: second %d out of range", d.Second)
	}
	return nil
}

func daysIn(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String renders the value like asctime(3) without the trailing newline.
func (d DateTime) String() string {
	return fmt.Sprintf("%s %s %2d %02d:%02d:%02d %04d",
		DayName(d.Weekday), MonthName(d.Month), d.Day, d.Hour, d.Minute, d.Second, d.Year)
}

// DateRow renders the first display row, e.g. "Tue 19 Dec 2023".
func DateRow(d DateTime) string {
	return fmt.Sprintf("%s %02d %s %04d", DayName(d.Weekday), d.Day, MonthName(d.Month), d.Year)
}

// TimeRow renders the second display row, e.g. "18:40:00    GMT".
func TimeRow(d DateTime, zone string) string {
	return fmt.Sprintf("%02d:%02d:%02d    %3s", d.Hour, d.Minute, d.Second, zone)
}
