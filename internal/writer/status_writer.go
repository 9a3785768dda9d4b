// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/tamzrod/ntpclock/internal/status"
)

// StatusWriter is the delivery-only contract for sync status.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter is the concrete implementation used by the clock.
type deviceStatusWriter struct {
	plan *StatusPlan
	cli  EndpointClient

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

// NewDeviceStatusWriter builds a status writer if status is enabled.
// If plan.Status is nil, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]EndpointClient) (StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}

	sp := plan.Status
	cli := clients[sp.Endpoint]

	return &deviceStatusWriter{
		plan:     sp,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
		nameRegs: encodeASCIIRegs(sp.DeviceName, status.DeviceNameMaxChars),
	}, true
}

// WriteStatus delivers a sync status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(unitID, baseAddr, sw.fullBlockRegs(s)); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs *multierror.Error

	// Slot 0: health_code
	if sw.last.Health != s.Health {
		if err := sw.cli.WriteRegisters(unitID, baseAddr+status.SlotHealthCode, []uint16{s.Health}); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("slot0 health write failed: %w", err))
		} else {
			sw.last.Health = s.Health
		}
	}

	// Slot 1: last_error_code
	if sw.last.LastErrorCode != s.LastErrorCode {
		if err := sw.cli.WriteRegisters(unitID, baseAddr+status.SlotLastErrorCode, []uint16{s.LastErrorCode}); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("slot1 last_error write failed: %w", err))
		} else {
			sw.last.LastErrorCode = s.LastErrorCode
		}
	}

	// Slot 2: seconds_in_error
	if sw.last.SecondsInError != s.SecondsInError {
		if err := sw.cli.WriteRegisters(unitID, baseAddr+status.SlotSecondsInError, []uint16{s.SecondsInError}); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("slot2 seconds write failed: %w", err))
		} else {
			sw.last.SecondsInError = s.SecondsInError
		}
	}

	// Slots 3-4: last_sync (always together)
	if sw.last.LastSync != s.LastSync {
		regs := status.Encode(s)[status.SlotLastSyncHi : status.SlotLastSyncLo+1]
		if err := sw.cli.WriteRegisters(unitID, baseAddr+status.SlotLastSyncHi, regs); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("slot3-4 last_sync write failed: %w", err))
		} else {
			sw.last.LastSync = s.LastSync
		}
	}

	if errs != nil {
		// Any partial failure introduces doubt, re-assert on next success.
		sw.needFull = true
		return fmt.Errorf("status writer: %w", errs)
	}

	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each clock owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *deviceStatusWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	// Slots 0-4: live status, 5..10 RESERVED → left as zero
	regs := status.Encode(s)

	// Device name always lives at the end of the block
	for i := 0; i < status.SlotDeviceNameSlots && i < len(sw.nameRegs); i++ {
		regs[status.SlotDeviceNameStart+i] = sw.nameRegs[i]
	}

	return regs
}

// encodeASCIIRegs packs up to maxChars ASCII characters into maxChars/2
// registers, zero padded. Each register stores two bytes big-endian.
func encodeASCIIRegs(text string, maxChars int) []uint16 {
	out := make([]uint16, (maxChars+1)/2)

	b := []byte(text)
	if len(b) > maxChars {
		b = b[:maxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < len(out)*2; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
