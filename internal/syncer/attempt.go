// internal/syncer/attempt.go
package syncer

import (
	"net/netip"
	"time"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// State is the orchestrator's position in one sync cycle.
type State uint8

const (
	StateIdle State = iota
	StateResolving
	StateRequesting
	StateAwaitingResponse
	StateApplied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateRequesting:
		return "requesting"
	case StateAwaitingResponse:
		return "awaiting-response"
	case StateApplied:
		return "applied"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome of an attempt.
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Attempt describes one resynchronization cycle. It is discarded by the
// orchestrator once the cycle completes.
type Attempt struct {
	Server      netip.AddrPort // zero until resolution succeeds
	RequestSent bool
	Outcome     Outcome

	// set on success
	Raw     calendar.Instant // transmit time as received
	Applied calendar.Instant // value written to the clock
	DST     bool

	Err error // *Error on failure

	Started  time.Time
	Finished time.Time
}

// HasServer reports whether resolution produced an address.
func (a *Attempt) HasServer() bool { return a.Server.IsValid() }
