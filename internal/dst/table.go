// internal/dst/table.go
package dst

import (
	"errors"
	"fmt"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// ErrYearOutOfRange means the table does not cover the requested year.
// Callers must treat it as a configuration error.
var ErrYearOutOfRange = errors.New("dst: year outside table range")

// Window is one year's daylight-saving boundaries.
type Window struct {
	Start calendar.Instant
	End   calendar.Instant
}

// Table holds precomputed transition instants indexed by year-StartYear.
// Immutable after construction.
type Table struct {
	startYear int
	starts    []calendar.Instant
	ends      []calendar.Instant
}

// NewTable builds a table from two parallel sequences.
// Every entry must satisfy start < end.
func NewTable(startYear int, starts, ends []uint32) (*Table, error) {
	if len(starts) == 0 {
		return nil, errors.New("dst: table is empty")
	}
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("dst: start/end length mismatch: %d != %d", len(starts), len(ends))
	}

	t := &Table{
		startYear: startYear,
		starts:    make([]calendar.Instant, len(starts)),
		ends:      make([]calendar.Instant, len(ends)),
	}

	for i := range starts {
		s, e := calendar.Instant(starts[i]), calendar.Instant(ends[i])
		if s >= e {
			return nil, fmt.Errorf("dst: year %d: start %d not before end %d", startYear+i, s, e)
		}
		t.starts[i] = s
		t.ends[i] = e
	}

	return t, nil
}

// StartYear is the first covered year.
func (t *Table) StartYear() int { return t.startYear }

// Count is the number of covered years.
func (t *Table) Count() int { return len(t.starts) }

// LastYear is the last covered year (inclusive).
func (t *Table) LastYear() int { return t.startYear + len(t.starts) - 1 }

// Lookup returns the window for year.
func (t *Table) Lookup(year int) (Window, error) {
	idx := year - t.startYear
	if idx < 0 || idx >= len(t.starts) {
		return Window{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, t.startYear, t.LastYear())
	}
	return Window{Start: t.starts[idx], End: t.ends[idx]}, nil
}

// Contains reports whether instant lies strictly inside the window.
// Both boundaries are outside.
func (w Window) Contains(instant calendar.Instant) bool {
	return instant > w.Start && instant < w.End
}

// Evaluate reports whether instant is inside year's daylight-saving window.
func (t *Table) Evaluate(instant calendar.Instant, year int) (bool, error) {
	w, err := t.Lookup(year)
	if err != nil {
		return false, err
	}
	return w.Contains(instant), nil
}
