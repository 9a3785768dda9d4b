// internal/config/normalize.go
package config

import "github.com/tamzrod/ntpclock/internal/status"

// Defaults applied by Normalize.
const (
	DefaultPort              = 123
	DefaultSyncHour          = 3
	DefaultResolveTimeoutMs  = 30000
	DefaultResponseTimeoutMs = 5000
	DefaultPollMs            = 1000

	DefaultDSTStartYear = 2023
	DefaultDSTCount     = 50
	DefaultDSTOffsetS   = 3600
	DefaultStandardName = "GMT"
	DefaultDaylightName = "BST"

	DefaultDisplayWidth = 16
	DefaultTimeoutMs    = 1000
	DefaultUnitID       = 1
	DefaultLogLevel     = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// SYNC
	// ------------------------------------------------------------

	c := &cfg.Clock
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.SyncHour == nil {
		c.SyncHour = intPtr(DefaultSyncHour)
	}
	if c.SyncOnStart == nil {
		t := true
		c.SyncOnStart = &t
	}
	if c.ResolveTimeoutMs == nil {
		c.ResolveTimeoutMs = intPtr(DefaultResolveTimeoutMs)
	}
	if c.ResponseTimeoutMs == nil {
		c.ResponseTimeoutMs = intPtr(DefaultResponseTimeoutMs)
	}
	if c.PollMs == 0 {
		c.PollMs = DefaultPollMs
	}

	// ------------------------------------------------------------
	// DST TABLE
	// ------------------------------------------------------------

	d := &cfg.DST
	if d.StartYear == 0 {
		d.StartYear = DefaultDSTStartYear
	}
	if d.Count == 0 {
		d.Count = DefaultDSTCount
	}
	if d.OffsetS == nil {
		d.OffsetS = intPtr(DefaultDSTOffsetS)
	}
	if d.StandardName == "" {
		d.StandardName = DefaultStandardName
	}
	if d.DaylightName == "" {
		d.DaylightName = DefaultDaylightName
	}

	// ------------------------------------------------------------
	// SINKS
	// ------------------------------------------------------------

	if cfg.RTC.Mode == "" {
		cfg.RTC.Mode = ModeMemory
	}
	normalizeEndpoint(&cfg.RTC.EndpointConfig)

	if cfg.Display.Mode == "" {
		cfg.Display.Mode = ModeLog
	}
	if cfg.Display.Width == 0 {
		cfg.Display.Width = DefaultDisplayWidth
	}
	normalizeEndpoint(&cfg.Display.EndpointConfig)

	if s := cfg.Status; s != nil {
		normalizeEndpoint(&s.EndpointConfig)

		// Normalize device_name:
		// - ASCII already validated
		// - Truncate to max 16 characters
		if len(s.DeviceName) > status.DeviceNameMaxChars {
			s.DeviceName = s.DeviceName[:status.DeviceNameMaxChars]
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func normalizeEndpoint(ep *EndpointConfig) {
	if ep.Transport == "" {
		ep.Transport = "tcp"
	}
	if ep.TimeoutMs == 0 {
		ep.TimeoutMs = DefaultTimeoutMs
	}
	if ep.UnitID == nil {
		id := uint8(DefaultUnitID)
		ep.UnitID = &id
	}
}

func intPtr(v int) *int { return &v }
