// cmd/ntpclock/build.go
package main

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/config"
	"github.com/tamzrod/ntpclock/internal/dst"
	"github.com/tamzrod/ntpclock/internal/resolver"
	"github.com/tamzrod/ntpclock/internal/rtc"
	"github.com/tamzrod/ntpclock/internal/syncer"
	"github.com/tamzrod/ntpclock/internal/writer"
	wmodbus "github.com/tamzrod/ntpclock/internal/writer/modbus"
)

// loadConfig is the load -> validate -> normalize sequence every command uses.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func newLogger(c config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}

	lvl, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl

	return zc.Build()
}

// loadTable reads the generated table file, or generates the table
// in-process when no file is configured.
func loadTable(c config.DSTConfig) (*dst.Table, error) {
	if c.Table != "" {
		return dst.Load(c.Table)
	}
	return dst.Generate(c.StartYear, c.Count)
}

func buildClockSink(cfg *config.Config, clients map[string]*wmodbus.EndpointClient, clk clock.Clock) (syncer.ClockSink, error) {
	switch cfg.RTC.Mode {
	case config.ModeModbus:
		cli := clients[cfg.RTC.Endpoint]
		if cli == nil {
			return nil, fmt.Errorf("rtc: missing client for endpoint %s", cfg.RTC.Endpoint)
		}
		return rtc.NewModbus(cli, cfg.RTC.Unit(), cfg.RTC.Address), nil

	default:
		// software clock seeded from the host
		return rtc.NewMemory(clk, calendar.Instant(clk.Now().Unix())), nil
	}
}

func buildDisplay(cfg *config.Config, plan writer.Plan, clients map[string]*wmodbus.EndpointClient, logger *zap.Logger) (writer.Display, error) {
	if cfg.Display.Mode == config.ModeModbus {
		return writer.NewModbusDisplay(plan, writer.Clients(clients))
	}
	return writer.NewLogDisplay(logger.Named("display")), nil
}

func buildLookup(c config.ClockConfig) (*resolver.DNS, error) {
	// a single exchange never outlives the whole resolution wait
	timeout := 5 * time.Second
	if rt := millis(*c.ResolveTimeoutMs); rt > 0 && rt < timeout {
		timeout = rt
	}
	return resolver.NewDNS(c.Nameservers, timeout)
}

func syncerConfig(cfg *config.Config) syncer.Config {
	return syncer.Config{
		Server:          cfg.Clock.Server,
		Port:            cfg.Clock.Port,
		SyncHour:        *cfg.Clock.SyncHour,
		DSTOffset:       cfg.DST.Offset(),
		ResolveTimeout:  millis(*cfg.Clock.ResolveTimeoutMs),
		ResponseTimeout: millis(*cfg.Clock.ResponseTimeoutMs),
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
