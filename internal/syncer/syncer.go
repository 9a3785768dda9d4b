// internal/syncer/syncer.go
//
// Package syncer drives one SNTP exchange at a time and writes the
// DST-corrected result into the clock.
//
// Flow: resolve -> request -> response -> DST correction -> clock write.
// The clock is never written on any failure path.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/dst"
	"github.com/tamzrod/ntpclock/internal/ntp"
	"github.com/tamzrod/ntpclock/internal/resolver"
)

// ClockSink is the externally owned real-time clock.
type ClockSink interface {
	Read() (calendar.DateTime, error)
	Write(d calendar.DateTime) error
}

// Resolver starts asynchronous name lookups.
type Resolver interface {
	Resolve(ctx context.Context, host string) (<-chan resolver.Result, error)
}

// Config is the runtime config of the orchestrator.
type Config struct {
	Server   string
	Port     uint16
	SyncHour int

	// DSTOffset is added to the instant inside the daylight-saving window.
	DSTOffset time.Duration

	// Zero means wait forever.
	ResolveTimeout  time.Duration
	ResponseTimeout time.Duration
}

// Context is everything the orchestrator remembers between attempts.
type Context struct {
	Server   netip.AddrPort // last resolved server
	Trigger  Trigger
	DST      bool             // DST flag of the last applied value
	LastSync calendar.Instant // last applied value; 0 = never
	LastErr  error
}

// Syncer is the synchronization orchestrator.
// Not safe for concurrent use: one attempt at a time, from one goroutine.
type Syncer struct {
	cfg    Config
	logger *zap.Logger

	resolver Resolver
	table    *dst.Table
	sink     ClockSink

	state State
	ctx   Context

	// overridden in tests
	Open  OpenFunc
	Clock clock.Clock
}

// New creates a syncer in the Idle state.
func New(cfg Config, logger *zap.Logger, res Resolver, table *dst.Table, sink ClockSink) (*Syncer, error) {
	if cfg.Server == "" {
		return nil, errors.New("syncer: server required")
	}
	if res == nil || table == nil || sink == nil {
		return nil, errors.New("syncer: resolver, dst table and clock sink required")
	}
	if cfg.Port == 0 {
		cfg.Port = ntp.Port
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Syncer{
		cfg:      cfg,
		logger:   logger,
		resolver: res,
		table:    table,
		sink:     sink,
		state:    StateIdle,
		ctx:      Context{Trigger: Trigger{Hour: cfg.SyncHour}},
		Open:     OpenUDP,
		Clock:    clock.New(),
	}, nil
}

// State returns the current state.
func (s *Syncer) State() State { return s.state }

// Context returns a copy of the orchestrator context.
func (s *Syncer) Context() Context { return s.ctx }

// DST reports the DST flag of the last applied value.
func (s *Syncer) DST() bool { return s.ctx.DST }

// Startup runs the one-off attempt made when the clock boots.
// If the clock already shows the sync hour afterwards, today's scheduled
// attempt is considered done.
func (s *Syncer) Startup(ctx context.Context) *Attempt {
	a := s.Sync(ctx)

	if d, err := s.sink.Read(); err == nil && s.ctx.Trigger.Due(d) {
		s.ctx.Trigger.Mark(d)
	}

	return a
}

// Tick runs a scheduled attempt if now is due. It returns nil if not.
// The day is marked regardless of the outcome.
func (s *Syncer) Tick(ctx context.Context, now calendar.DateTime) *Attempt {
	if !s.ctx.Trigger.Due(now) {
		return nil
	}

	a := s.Sync(ctx)
	s.ctx.Trigger.Mark(now)
	return a
}

// Sync runs one full attempt and returns to Idle.
func (s *Syncer) Sync(ctx context.Context) *Attempt {
	a := &Attempt{Outcome: OutcomePending, Started: s.Clock.Now()}

	err := s.run(ctx, a)

	a.Finished = s.Clock.Now()
	s.ctx.LastErr = err

	if err != nil {
		a.Outcome = OutcomeFailed
		a.Err = err
		s.transition(StateFailed)

		if IsConfigError(err) {
			s.logger.Error("dst table does not cover the current year, fix configuration",
				zap.Int("table_start", s.table.StartYear()),
				zap.Int("table_end", s.table.LastYear()),
				zap.Error(err),
			)
		} else {
			s.logger.Warn("time sync failed", zap.Stringer("kind", KindOf(err)), zap.Error(err))
		}
	} else {
		a.Outcome = OutcomeSuccess
		s.transition(StateApplied)
	}

	s.transition(StateIdle)
	return a
}

func (s *Syncer) run(ctx context.Context, a *Attempt) error {
	s.transition(StateResolving)

	addr, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	a.Server = netip.AddrPortFrom(addr, s.cfg.Port)
	s.ctx.Server = a.Server

	s.transition(StateRequesting)

	tr, err := s.Open()
	if err != nil {
		return fail(KindTransportFailed, fmt.Errorf("open transport: %w", err))
	}
	defer tr.Close() //nolint:errcheck

	if err := tr.Send(ctx, a.Server, ntp.EncodeRequest()); err != nil {
		return fail(KindTransportSendFailed, err)
	}
	a.RequestSent = true

	s.transition(StateAwaitingResponse)

	raw, err := s.awaitResponse(ctx, tr, a.Server)
	if err != nil {
		return err
	}
	a.Raw = raw

	// the year comes from the uncorrected instant
	year := calendar.FromInstant(raw).Year
	inDST, err := s.table.Evaluate(raw, year)
	if err != nil {
		return fail(KindDstTableYearOutOfRange, err)
	}

	applied := raw
	if inDST {
		applied = raw.Add(int64(s.cfg.DSTOffset / time.Second))
	}

	d := calendar.FromInstant(applied)
	if err := s.sink.Write(d); err != nil {
		return fail(KindClockWriteFailed, err)
	}

	a.Applied = applied
	a.DST = inDST
	s.ctx.DST = inDST
	s.ctx.LastSync = applied

	s.logger.Info("clock synchronized",
		zap.Stringer("server", a.Server),
		zap.Int64("unix", int64(raw)),
		zap.Bool("dst", inDST),
		zap.Stringer("clock", d),
	)

	return nil
}

// resolve waits for the lookup to complete, bounded by ResolveTimeout.
func (s *Syncer) resolve(ctx context.Context) (netip.Addr, error) {
	done, err := s.resolver.Resolve(ctx, s.cfg.Server)
	if err != nil {
		return netip.Addr{}, fail(KindOf(err), err)
	}

	timeout, stop := s.timeout(s.cfg.ResolveTimeout)
	defer stop()

	select {
	case res := <-done:
		if res.Err != nil {
			return netip.Addr{}, fail(KindNameResolutionFailed, res.Err)
		}
		s.logger.Debug("time server resolved", zap.String("host", res.Host), zap.Stringer("addr", res.Addr))
		return res.Addr, nil
	case <-timeout:
		return netip.Addr{}, fail(KindTimedOut, fmt.Errorf("%w: resolving %s after %s", ErrTimedOut, s.cfg.Server, s.cfg.ResolveTimeout))
	case <-ctx.Done():
		return netip.Addr{}, fail(KindTimedOut, ctx.Err())
	}
}

type received struct {
	dg  Datagram
	err error
}

// awaitResponse decodes the first datagram to arrive, bounded by ResponseTimeout.
func (s *Syncer) awaitResponse(ctx context.Context, tr Transport, server netip.AddrPort) (calendar.Instant, error) {
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	got := make(chan received, 1)
	go func() {
		dg, err := tr.Receive(rctx)
		got <- received{dg: dg, err: err}
	}()

	timeout, stop := s.timeout(s.cfg.ResponseTimeout)
	defer stop()

	select {
	case r := <-got:
		if r.err != nil {
			return 0, fail(KindTransportFailed, r.err)
		}
		raw, err := ntp.DecodeResponse(r.dg.Payload, r.dg.From, server)
		if err != nil {
			return 0, fail(KindOf(err), err)
		}
		return raw, nil
	case <-timeout:
		return 0, fail(KindTimedOut, fmt.Errorf("%w: no response from %s after %s", ErrTimedOut, server, s.cfg.ResponseTimeout))
	case <-ctx.Done():
		return 0, fail(KindTimedOut, ctx.Err())
	}
}

// timeout returns a channel that fires after d, or never when d is zero.
func (s *Syncer) timeout(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := s.Clock.Timer(d)
	return t.C, func() { t.Stop() }
}

func (s *Syncer) transition(next State) {
	if s.state == next {
		return
	}
	s.logger.Debug("sync state", zap.Stringer("from", s.state), zap.Stringer("to", next))
	s.state = next
}
