// internal/rtc/modbus.go
package rtc

import (
	"fmt"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// RegisterClient is the register access the Modbus RTC needs.
type RegisterClient interface {
	ReadRegisters(unitID uint8, addr, qty uint16) ([]uint16, error)
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Modbus is a battery-backed RTC exposed as a holding register block.
type Modbus struct {
	cli    RegisterClient
	unitID uint8
	addr   uint16
}

// NewModbus returns a clock sink over the block at addr on unit unitID.
func NewModbus(cli RegisterClient, unitID uint8, addr uint16) *Modbus {
	return &Modbus{cli: cli, unitID: unitID, addr: addr}
}

func (m *Modbus) Read() (calendar.DateTime, error) {
	regs, err := m.cli.ReadRegisters(m.unitID, m.addr, BlockLen)
	if err != nil {
		return calendar.DateTime{}, fmt.Errorf("rtc: read unit=%d addr=%d: %w", m.unitID, m.addr, err)
	}
	return Decode(regs)
}

// Write sets all fields in one request so the clock never holds a torn value.
func (m *Modbus) Write(d calendar.DateTime) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("rtc: refusing write: %w", err)
	}
	if err := m.cli.WriteRegisters(m.unitID, m.addr, Encode(d)); err != nil {
		return fmt.Errorf("rtc: write unit=%d addr=%d: %w", m.unitID, m.addr, err)
	}
	return nil
}
