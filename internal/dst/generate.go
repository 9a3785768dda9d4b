// internal/dst/generate.go
package dst

import (
	"errors"
	"time"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// LastSunday returns 00:00 UTC of the last Sunday of month in year.
// It starts from the 31st and steps back by the weekday of that day.
// Only meaningful for 31-day months.
func LastSunday(year int, month time.Month) calendar.Instant {
	last := calendar.Instant(time.Date(year, month, 31, 0, 0, 0, 0, time.UTC).Unix())
	wd := calendar.FromInstant(last).Weekday
	return last.Add(-int64(wd % 7 * calendar.SecondsPerDay))
}

// Transitions returns the March and October boundaries for year.
func Transitions(year int) Window {
	return Window{
		Start: LastSunday(year, time.March),
		End:   LastSunday(year, time.October),
	}
}

// Generate computes count consecutive years starting at startYear.
func Generate(startYear, count int) (*Table, error) {
	if count <= 0 {
		return nil, errors.New("dst: count must be > 0")
	}
	if startYear < 1970 || startYear+count-1 > 2105 {
		// values are stored as unsigned 32-bit seconds
		return nil, errors.New("dst: years must lie within 1970-2105")
	}

	starts := make([]uint32, count)
	ends := make([]uint32, count)
	for i := 0; i < count; i++ {
		w := Transitions(startYear + i)
		starts[i] = uint32(w.Start)
		ends[i] = uint32(w.End)
	}

	return NewTable(startYear, starts, ends)
}
