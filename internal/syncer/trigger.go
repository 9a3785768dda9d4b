// internal/syncer/trigger.go
package syncer

import "github.com/tamzrod/ntpclock/internal/calendar"

// DefaultSyncHour is the local hour of the daily resync.
const DefaultSyncHour = 3

// Trigger fires once per calendar day when the clock shows Hour.
type Trigger struct {
	Hour int

	marked calendar.DateTime // date of the last scheduled attempt; zero = none
}

// Due reports whether a scheduled attempt should start for d.
func (t *Trigger) Due(d calendar.DateTime) bool {
	return d.Hour == t.Hour && dateOf(d) != t.marked
}

// Mark records that d's date has had its attempt.
func (t *Trigger) Mark(d calendar.DateTime) {
	t.marked = dateOf(d)
}

// Marked returns the date of the last scheduled attempt, other fields zero.
// It is the zero value before the first one.
func (t Trigger) Marked() calendar.DateTime { return t.marked }

// dateOf keys the marker on the full date so a day number repeating a
// month (or a year) later still triggers.
func dateOf(d calendar.DateTime) calendar.DateTime {
	return calendar.DateTime{Year: d.Year, Month: d.Month, Day: d.Day}
}
