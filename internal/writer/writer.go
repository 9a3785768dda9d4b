// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/poller"
)

// EndpointClient is the exact contract the writers use.
// IMPORTANT: There must be NO other version of this interface anywhere.
type EndpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Rows is the number of display rows.
const Rows = 2

// DefaultWidth is the character width of a 16x2 LCD.
const DefaultWidth = 16

// Banner is shown on row 0 before the first clock tick.
const Banner = "===NTP Clock==="

// clockWriter renders the clock onto a Display, row by row,
// and only delivers rows whose text changed.
type clockWriter struct {
	display Display
	zones   [2]string // standard, daylight
	last    [Rows]string
}

// New creates a clock writer. zones are the standard and daylight labels.
func New(display Display, standard, daylight string) Writer {
	return &clockWriter{
		display: display,
		zones:   [2]string{standard, daylight},
	}
}

func (w *clockWriter) Write(res poller.PollResult, dst bool) error {
	if res.Err != nil {
		// keep showing the last-known time
		return nil
	}

	zone := w.zones[0]
	if dst {
		zone = w.zones[1]
	}

	rows := [Rows]string{
		calendar.DateRow(res.Clock),
		calendar.TimeRow(res.Clock, zone),
	}

	var errs *multierror.Error

	for i, text := range rows {
		if w.last[i] == text {
			continue
		}
		if err := w.display.Show(i, text); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("writer: row %d: %w", i, err))
			continue
		}
		w.last[i] = text
	}

	return errs.ErrorOrNil()
}

// ---- Modbus-backed LCD text memory ----

type modbusDisplay struct {
	plan *DisplayPlan
	cli  EndpointClient
}

// NewModbusDisplay writes each row as packed ASCII into holding registers.
func NewModbusDisplay(plan Plan, clients map[string]EndpointClient) (Display, error) {
	if plan.Display == nil {
		return nil, errors.New("writer: display plan missing")
	}
	cli := clients[plan.Display.Endpoint]
	if cli == nil {
		return nil, fmt.Errorf("writer: missing display client for endpoint %s", plan.Display.Endpoint)
	}
	if plan.Display.Width <= 0 {
		return nil, errors.New("writer: display width must be > 0")
	}
	return &modbusDisplay{plan: plan.Display, cli: cli}, nil
}

// RowRegs is the number of registers one row of width characters occupies.
func RowRegs(width int) int {
	return (width + 1) / 2
}

func (d *modbusDisplay) Show(row int, text string) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("writer: row %d out of range", row)
	}

	width := d.plan.Width
	if len(text) < width {
		text += strings.Repeat(" ", width-len(text))
	}

	addr := d.plan.Address + uint16(row*RowRegs(width))
	return d.cli.WriteRegisters(d.plan.UnitID, addr, encodeASCIIRegs(text, width))
}

// ---- diagnostic output ----

type logDisplay struct {
	logger *zap.Logger
}

// NewLogDisplay shows rows as debug log lines.
func NewLogDisplay(logger *zap.Logger) Display {
	return &logDisplay{logger: logger}
}

func (d *logDisplay) Show(row int, text string) error {
	d.logger.Debug("display", zap.Int("row", row), zap.String("text", text))
	return nil
}
