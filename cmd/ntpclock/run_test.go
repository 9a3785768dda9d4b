// cmd/ntpclock/run_test.go
package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/poller"
	"github.com/tamzrod/ntpclock/internal/status"
	"github.com/tamzrod/ntpclock/internal/syncer"
	"github.com/tamzrod/ntpclock/internal/writer"
)

// ---- fakes ----

type fakeScheduler struct {
	dst   bool
	ticks []calendar.DateTime
	next  *syncer.Attempt
}

func (f *fakeScheduler) Tick(_ context.Context, now calendar.DateTime) *syncer.Attempt {
	f.ticks = append(f.ticks, now)
	a := f.next
	f.next = nil
	return a
}

func (f *fakeScheduler) DST() bool { return f.dst }

type fakeDisplay struct {
	rows map[int]string
}

func (d *fakeDisplay) Show(row int, text string) error {
	d.rows[row] = text
	return nil
}

type fakeReader struct {
	d calendar.DateTime
}

func (r *fakeReader) Read() (calendar.DateTime, error) { return r.d, nil }

func newTestLoop(t *testing.T, sched *fakeScheduler, disp *fakeDisplay, sw *fakeStatusWriter) *loop {
	t.Helper()

	p, err := poller.New(poller.Config{Interval: time.Second}, &fakeReader{d: calendar.FromInstant(1719795600)})
	require.NoError(t, err)

	return &loop{
		logger:  zap.NewNop(),
		clock:   clock.New(),
		poller:  p,
		syncer:  sched,
		display: writer.New(disp, "GMT", "BST"),
		status:  newStatusTracker(sw, zap.NewNop()),
	}
}

// ---- tests ----

func TestLoop_HandleRendersAndTicks(t *testing.T) {
	sched := &fakeScheduler{dst: true}
	disp := &fakeDisplay{rows: map[int]string{}}
	sw := &fakeStatusWriter{}
	l := newTestLoop(t, sched, disp, sw)

	now := calendar.FromInstant(1719795600) // Mon 1 Jul 2024 01:00:00
	sched.next = &syncer.Attempt{Outcome: syncer.OutcomeSuccess, Applied: 1719795600}

	l.handle(context.Background(), poller.PollResult{Clock: now})

	assert.Equal(t, "Mon 01 Jul 2024", disp.rows[0])
	assert.Equal(t, "01:00:00    BST", disp.rows[1])
	require.Len(t, sched.ticks, 1)
	assert.Equal(t, now, sched.ticks[0])
	require.Len(t, sw.writes, 1)
	assert.Equal(t, status.HealthOK, sw.last().Health)
}

func TestLoop_HandleSkipsFailedRead(t *testing.T) {
	sched := &fakeScheduler{}
	disp := &fakeDisplay{rows: map[int]string{}}
	l := newTestLoop(t, sched, disp, &fakeStatusWriter{})

	l.handle(context.Background(), poller.PollResult{Err: errors.New("bus fault")})

	assert.Empty(t, disp.rows)
	assert.Empty(t, sched.ticks, "no trigger without a clock value")
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	sched := &fakeScheduler{}
	disp := &fakeDisplay{rows: map[int]string{}}
	l := newTestLoop(t, sched, disp, &fakeStatusWriter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
