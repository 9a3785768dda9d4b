// internal/syncer/errors.go
package syncer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/ntpclock/internal/dst"
	"github.com/tamzrod/ntpclock/internal/ntp"
	"github.com/tamzrod/ntpclock/internal/resolver"
)

// Kind classifies why an attempt failed.
// Values are stable: they are published as the status block error code.
type Kind uint16

const (
	KindNone Kind = iota
	KindNameResolutionFailed
	KindTransportSendFailed
	KindResponseAddressMismatch
	KindResponseLengthInvalid
	KindResponseModeInvalid
	KindResponseStratumZero
	KindDstTableYearOutOfRange
	KindTimedOut
	KindResolutionInFlight
	KindTransportFailed
	KindClockWriteFailed
)

var kindNames = map[Kind]string{
	KindNone:                    "none",
	KindNameResolutionFailed:    "name resolution failed",
	KindTransportSendFailed:     "transport send failed",
	KindResponseAddressMismatch: "response address mismatch",
	KindResponseLengthInvalid:   "response length invalid",
	KindResponseModeInvalid:     "response mode invalid",
	KindResponseStratumZero:     "response stratum zero",
	KindDstTableYearOutOfRange:  "dst table year out of range",
	KindTimedOut:                "timed out",
	KindResolutionInFlight:      "resolution in flight",
	KindTransportFailed:         "transport failed",
	KindClockWriteFailed:        "clock write failed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// ErrTimedOut is wrapped when a bounded wait expires.
var ErrTimedOut = errors.New("syncer: timed out")

// Error is the failure of one attempt.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code exposes Kind as a numeric error code.
func (e *Error) Code() uint16 { return uint16(e.Kind) }

// IsConfigError reports whether err must be escalated to the operator
// rather than retried at the next trigger.
func IsConfigError(err error) bool {
	return errors.Is(err, dst.ErrYearOutOfRange)
}

// KindOf maps an error to its Kind. nil maps to KindNone.
func KindOf(err error) Kind {
	var se *Error
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, resolver.ErrInFlight):
		return KindResolutionInFlight
	case errors.Is(err, resolver.ErrFailed):
		return KindNameResolutionFailed
	case errors.Is(err, ntp.ErrAddressMismatch):
		return KindResponseAddressMismatch
	case errors.Is(err, ntp.ErrLengthInvalid):
		return KindResponseLengthInvalid
	case errors.Is(err, ntp.ErrModeInvalid):
		return KindResponseModeInvalid
	case errors.Is(err, ntp.ErrStratumZero):
		return KindResponseStratumZero
	case errors.Is(err, dst.ErrYearOutOfRange):
		return KindDstTableYearOutOfRange
	case errors.Is(err, ErrTimedOut):
		return KindTimedOut
	}
	return KindTransportFailed
}

func fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
