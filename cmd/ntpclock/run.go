// cmd/ntpclock/run.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/poller"
	"github.com/tamzrod/ntpclock/internal/resolver"
	"github.com/tamzrod/ntpclock/internal/syncer"
	"github.com/tamzrod/ntpclock/internal/writer"
)

func runCommand(c *cli.Context) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := loadConfig(configPath(c))
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.New()

	// --------------------
	// DST table
	// --------------------

	table, err := loadTable(cfg.DST)
	if err != nil {
		return err
	}
	if year := clk.Now().UTC().Year(); year < table.StartYear() || year > table.LastYear() {
		logger.Error("dst table does not cover the current year, sync will fail until it is regenerated",
			zap.Int("year", year),
			zap.Int("table_start", table.StartYear()),
			zap.Int("table_end", table.LastYear()),
		)
	}

	// --------------------
	// Sinks
	// --------------------

	plan := writer.BuildPlan(cfg)

	clients, closeClients, err := writer.BuildEndpointClients(cfg)
	if err != nil {
		return err
	}
	defer closeClients() //nolint:errcheck

	sink, err := buildClockSink(cfg, clients, clk)
	if err != nil {
		return err
	}

	display, err := buildDisplay(cfg, plan, clients, logger)
	if err != nil {
		return err
	}

	var st *statusTracker
	if sw, enabled := writer.NewDeviceStatusWriter(plan, writer.Clients(clients)); enabled {
		st = newStatusTracker(sw, logger.Named("status"))
	}

	// --------------------
	// Sync
	// --------------------

	lookup, err := buildLookup(cfg.Clock)
	if err != nil {
		return err
	}

	s, err := syncer.New(
		syncerConfig(cfg),
		logger.Named("syncer"),
		resolver.New(logger.Named("resolver"), lookup.Lookup),
		table,
		sink,
	)
	if err != nil {
		return err
	}

	p, err := poller.New(poller.Config{Interval: millis(cfg.Clock.PollMs)}, sink)
	if err != nil {
		return err
	}

	logger.Info("ntp clock starting",
		zap.String("server", cfg.Clock.Server),
		zap.Int("sync_hour", *cfg.Clock.SyncHour),
		zap.String("rtc", cfg.RTC.Mode),
		zap.String("display", cfg.Display.Mode),
		zap.Bool("status", st != nil),
	)

	if err := display.Show(0, writer.Banner); err != nil {
		logger.Warn("display banner failed", zap.Error(err))
	}
	st.start()

	if *cfg.Clock.SyncOnStart {
		st.attempt(s.Startup(ctx))
	}

	l := &loop{
		logger:  logger,
		clock:   clk,
		poller:  p,
		syncer:  s,
		display: writer.New(display, cfg.DST.StandardName, cfg.DST.DaylightName),
		status:  st,
	}

	err = l.run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("ntp clock stopped")
		return nil
	}
	return err
}

// scheduler is the part of the orchestrator the loop drives.
type scheduler interface {
	Tick(ctx context.Context, now calendar.DateTime) *syncer.Attempt
	DST() bool
}

// loop wires the 1 Hz clock read to the display, the daily trigger and
// the status block.
type loop struct {
	logger  *zap.Logger
	clock   clock.Clock
	poller  *poller.Poller
	syncer  scheduler
	display writer.Writer
	status  *statusTracker
}

func (l *loop) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	out := make(chan poller.PollResult)

	// poller producer
	g.Go(func() error {
		l.poller.Run(ctx, out)
		return ctx.Err()
	})

	// orchestrator (loop-owned state + 1Hz seconds ticker)
	g.Go(func() error {
		secTicker := l.clock.Ticker(time.Second)
		defer secTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case res := <-out:
				l.handle(ctx, res)

			case <-secTicker.C:
				l.status.tick()
			}
		}
	})

	return g.Wait()
}

func (l *loop) handle(ctx context.Context, res poller.PollResult) {
	if res.Err != nil {
		l.logger.Warn("clock read failed", zap.Error(res.Err))
		return
	}

	// --- display delivery ---
	if err := l.display.Write(res, l.syncer.DST()); err != nil {
		l.logger.Warn("display write failed", zap.Error(err))
	}

	// --- daily trigger ---
	if a := l.syncer.Tick(ctx, res.Clock); a != nil {
		l.status.attempt(a)
	}
}
