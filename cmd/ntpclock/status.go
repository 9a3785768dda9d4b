// cmd/ntpclock/status.go
package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tamzrod/ntpclock/internal/status"
	"github.com/tamzrod/ntpclock/internal/syncer"
	"github.com/tamzrod/ntpclock/internal/writer"
)

// statusTracker owns the status snapshot and pushes every change to the
// status writer. A nil tracker means the status block is disabled.
type statusTracker struct {
	w      writer.StatusWriter
	logger *zap.Logger
	snap   status.Snapshot
}

func newStatusTracker(w writer.StatusWriter, logger *zap.Logger) *statusTracker {
	return &statusTracker{
		w:      w,
		logger: logger,
		snap:   status.Snapshot{Health: status.HealthUnknown},
	}
}

// start performs the full block write (identity re-assert) on start.
func (t *statusTracker) start() {
	if t == nil {
		return
	}
	t.flush("status write failed on start")
}

// attempt folds one sync outcome into the snapshot.
func (t *statusTracker) attempt(a *syncer.Attempt) {
	if t == nil || a == nil {
		return
	}

	next := t.snap

	if a.Outcome == syncer.OutcomeSuccess {
		// Recovery / OK
		next.Health = status.HealthOK
		next.LastErrorCode = 0
		next.SecondsInError = 0
		next.LastSync = uint32(a.Applied)
	} else {
		next.Health = status.HealthError
		if syncer.IsConfigError(a.Err) {
			next.Health = status.HealthConfigError
		}
		next.LastErrorCode = errorCode(a.Err)
		// NOTE: seconds_in_error increments on the 1Hz ticker only.
	}

	if next == t.snap {
		return
	}
	t.snap = next
	t.flush("status write failed")
}

// tick counts seconds while the last attempt was not OK.
func (t *statusTracker) tick() {
	if t == nil {
		return
	}
	if t.snap.Health == status.HealthOK || t.snap.Health == status.HealthUnknown {
		return
	}
	if t.snap.SecondsInError >= status.SecondsInErrorMax {
		return
	}
	t.snap.SecondsInError++
	t.flush("status seconds tick write failed")
}

func (t *statusTracker) flush(msg string) {
	if err := t.w.WriteStatus(t.snap); err != nil {
		t.logger.Warn(msg, zap.Error(err))
	}
}

// errorCode extracts a uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns 0xFFFF (unclassified).
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 0xFFFF
}
