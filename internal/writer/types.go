// internal/writer/types.go
package writer

import "github.com/tamzrod/ntpclock/internal/poller"

// DisplayPlan is the LCD text memory of one display.
// Row r starts at Address + r*RowRegs(Width).
type DisplayPlan struct {
	Endpoint string
	UnitID   uint8
	Address  uint16
	Width    int // characters per row
}

// StatusPlan is the sync status block destination.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one clock.
// A nil member means that output is disabled (or not Modbus-backed).
type Plan struct {
	Display *DisplayPlan
	Status  *StatusPlan
}

// Writer renders poll snapshots onto the display.
type Writer interface {
	Write(res poller.PollResult, dst bool) error
}

// Display is the text sink: a row index and a fixed-width string.
type Display interface {
	Show(row int, text string) error
}
