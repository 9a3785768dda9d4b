// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At time.Time

	// Clock is what the clock sink showed; zero when Err is set.
	Clock calendar.DateTime

	Err error // non-nil means the poll cycle failed
}
