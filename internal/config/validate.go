// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
)

// Validate checks configuration correctness.
// It performs declarative validation only and reports every problem found.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	var errs *multierror.Error
	add := func(format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf(format, args...))
	}

	// ------------------------------------------------------------
	// SYNC
	// ------------------------------------------------------------

	c := cfg.Clock
	if c.Server == "" {
		add("clock.server is required")
	}
	if c.SyncHour != nil && (*c.SyncHour < 0 || *c.SyncHour > 23) {
		add("clock.sync_hour %d must be 0-23", *c.SyncHour)
	}
	if c.ResolveTimeoutMs != nil && *c.ResolveTimeoutMs < 0 {
		add("clock.resolve_timeout_ms must be >= 0 (0 = unbounded)")
	}
	if c.ResponseTimeoutMs != nil && *c.ResponseTimeoutMs < 0 {
		add("clock.response_timeout_ms must be >= 0 (0 = unbounded)")
	}
	if c.PollMs < 0 {
		add("clock.poll_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// DST TABLE
	// ------------------------------------------------------------

	d := cfg.DST
	if d.Table == "" {
		if d.Count < 0 {
			add("dst.count must be > 0")
		}
		if d.StartYear != 0 && d.StartYear < 1970 {
			add("dst.start_year %d must be >= 1970", d.StartYear)
		}
		if d.StartYear != 0 && d.Count > 0 && d.StartYear+d.Count-1 > 2105 {
			add("dst.start_year+count must not pass 2105")
		}
	}
	if d.OffsetS != nil && *d.OffsetS < 0 {
		add("dst.offset_s must be >= 0")
	}

	// ------------------------------------------------------------
	// SINKS
	// ------------------------------------------------------------

	switch cfg.RTC.Mode {
	case "", ModeMemory:
	case ModeModbus:
		validateEndpoint("rtc", cfg.RTC.EndpointConfig, add)
	default:
		add("rtc.mode %q must be %q or %q", cfg.RTC.Mode, ModeModbus, ModeMemory)
	}

	switch cfg.Display.Mode {
	case "", ModeLog:
	case ModeModbus:
		validateEndpoint("display", cfg.Display.EndpointConfig, add)
	default:
		add("display.mode %q must be %q or %q", cfg.Display.Mode, ModeModbus, ModeLog)
	}
	if cfg.Display.Width < 0 || cfg.Display.Width > 40 {
		add("display.width %d must be 1-40", cfg.Display.Width)
	}

	if s := cfg.Status; s != nil {
		validateEndpoint("status", s.EndpointConfig, add)

		// device_name sanity (ASCII only)
		for i := 0; i < len(s.DeviceName); i++ {
			if s.DeviceName[i] > 0x7F {
				add("status.device_name must contain ASCII characters only")
				break
			}
		}
	}

	// ------------------------------------------------------------
	// SHARED ENDPOINTS
	// ------------------------------------------------------------

	// key = endpoint, value = transport of first user
	type owner struct {
		section   string
		transport string
	}
	owners := make(map[string]owner)

	for _, ep := range ModbusEndpoints(cfg) {
		t := ep.cfg.Transport
		if t == "" {
			t = "tcp"
		}
		if prev, ok := owners[ep.cfg.Endpoint]; ok && prev.transport != t {
			add("endpoint %s: transport %q in %s conflicts with %q in %s",
				ep.cfg.Endpoint, t, ep.section, prev.transport, prev.section)
			continue
		}
		owners[ep.cfg.Endpoint] = owner{section: ep.section, transport: t}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if cfg.Log.Level != "" {
		if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
			add("log.level: %v", err)
		}
	}

	return errs.ErrorOrNil()
}

func validateEndpoint(section string, ep EndpointConfig, add func(string, ...any)) {
	if ep.Endpoint == "" {
		add("%s.endpoint is required", section)
	}
	switch ep.Transport {
	case "", "tcp", "rtu":
	default:
		add("%s.transport %q must be tcp or rtu", section, ep.Transport)
	}
	if ep.TimeoutMs < 0 {
		add("%s.timeout_ms must be >= 0", section)
	}
	if ep.BaudRate < 0 {
		add("%s.baud_rate must be >= 0", section)
	}
}

// SectionEndpoint names one Modbus-backed section.
type SectionEndpoint struct {
	section string
	cfg     EndpointConfig
}

// Section is the config section the endpoint belongs to.
func (s SectionEndpoint) Section() string { return s.section }

// Endpoint is the endpoint configuration.
func (s SectionEndpoint) Endpoint() EndpointConfig { return s.cfg }

// ModbusEndpoints lists the sections that talk Modbus, in config order.
func ModbusEndpoints(cfg *Config) []SectionEndpoint {
	var out []SectionEndpoint
	if cfg.RTC.Mode == ModeModbus {
		out = append(out, SectionEndpoint{"rtc", cfg.RTC.EndpointConfig})
	}
	if cfg.Display.Mode == ModeModbus {
		out = append(out, SectionEndpoint{"display", cfg.Display.EndpointConfig})
	}
	if cfg.Status != nil {
		out = append(out, SectionEndpoint{"status", cfg.Status.EndpointConfig})
	}
	return out
}
