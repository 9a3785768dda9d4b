// internal/config/config.go
package config

import "time"

type Config struct {
	Clock   ClockConfig   `yaml:"clock"`
	DST     DSTConfig     `yaml:"dst"`
	RTC     RTCConfig     `yaml:"rtc"`
	Display DisplayConfig `yaml:"display"`
	Status  *StatusConfig `yaml:"status"` // optional, opt-in
	Log     LogConfig     `yaml:"log"`
}

// ---- SYNC ----

type ClockConfig struct {
	Server      string   `yaml:"server"`
	Port        uint16   `yaml:"port"`
	SyncHour    *int     `yaml:"sync_hour"`
	SyncOnStart *bool    `yaml:"sync_on_start"`
	Nameservers []string `yaml:"nameservers"` // host:port; empty = /etc/resolv.conf

	// 0 = unbounded wait; negative is rejected
	ResolveTimeoutMs  *int `yaml:"resolve_timeout_ms"`
	ResponseTimeoutMs *int `yaml:"response_timeout_ms"`

	PollMs int `yaml:"poll_ms"` // clock read / display refresh interval
}

// ---- DST TABLE ----

type DSTConfig struct {
	Table        string `yaml:"table"` // file from dstgen; empty = generate in-process
	StartYear    int    `yaml:"start_year"`
	Count        int    `yaml:"count"`
	OffsetS      *int   `yaml:"offset_s"` // 0 disables the daylight correction
	StandardName string `yaml:"standard_name"`
	DaylightName string `yaml:"daylight_name"`
}

// Offset is the daylight correction. Normalize must have run.
func (d DSTConfig) Offset() time.Duration {
	if d.OffsetS == nil {
		return DefaultDSTOffsetS * time.Second
	}
	return time.Duration(*d.OffsetS) * time.Second
}

// ---- MODBUS ENDPOINT ----

type EndpointConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Transport string `yaml:"transport"` // tcp | rtu
	BaudRate  int    `yaml:"baud_rate"`
	UnitID    *uint8 `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Unit is the Modbus unit id, 1 when unset.
func (e EndpointConfig) Unit() uint8 {
	if e.UnitID == nil {
		return DefaultUnitID
	}
	return *e.UnitID
}

// ---- CLOCK SINK ----

const (
	ModeModbus = "modbus"
	ModeMemory = "memory"
	ModeLog    = "log"
)

type RTCConfig struct {
	Mode           string `yaml:"mode"` // modbus | memory
	EndpointConfig `yaml:",inline"`
	Address        uint16 `yaml:"address"`
}

// ---- DISPLAY SINK ----

type DisplayConfig struct {
	Mode           string `yaml:"mode"` // modbus | log
	EndpointConfig `yaml:",inline"`
	Address        uint16 `yaml:"address"`
	Width          int    `yaml:"width"`
}

// ---- STATUS BLOCK ----

type StatusConfig struct {
	EndpointConfig `yaml:",inline"`
	BaseSlot       uint16 `yaml:"base_slot"`
	DeviceName     string `yaml:"device_name"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}
