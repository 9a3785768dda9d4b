// internal/writer/device_status_writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/tamzrod/ntpclock/internal/status"
)

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}

	plan := Plan{
		Status: &StatusPlan{
			Endpoint:   "status-endpoint",
			UnitID:     1,
			BaseSlot:   0,
			DeviceName: "CLOCK-01",
		},
	}

	clients := map[string]EndpointClient{
		"status-endpoint": cli,
	}

	sw, enabled := NewDeviceStatusWriter(plan, clients)
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}

	// ---- first write: FULL ASSERT ----
	first := status.Snapshot{
		Health: status.HealthOK,
	}

	if err := sw.WriteStatus(first); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf(
			"expected full block write (%d regs), got %d",
			status.SlotsPerDevice,
			len(cli.lastRegs),
		)
	}

	expectedNameRegs := encodeASCIIRegs(plan.Status.DeviceName, status.DeviceNameMaxChars)

	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if cli.lastRegs[slot] != expectedNameRegs[i] {
			t.Fatalf(
				"device name slot %d mismatch: got=%d want=%d",
				slot,
				cli.lastRegs[slot],
				expectedNameRegs[i],
			)
		}
	}

	// ---- second write: INCREMENTAL ONLY ----
	second := status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  7,
		SecondsInError: 1,
	}

	if err := sw.WriteStatus(second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	if len(cli.lastRegs) == status.SlotsPerDevice {
		t.Fatalf("device name should not be rewritten on incremental update")
	}
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}

	plan := Plan{
		Status: &StatusPlan{
			Endpoint:   "status-endpoint",
			UnitID:     1,
			BaseSlot:   0,
			DeviceName: "CLOCK-01",
		},
	}

	clients := map[string]EndpointClient{
		"status-endpoint": cli,
	}

	sw, enabled := NewDeviceStatusWriter(plan, clients)
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}

	errSnap := status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  42,
		SecondsInError: 3,
	}

	if err := sw.WriteStatus(errSnap); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}

	// recovery: health, error code and seconds change; seconds is written last
	okSnap := status.Snapshot{
		Health: status.HealthOK,
	}

	if err := sw.WriteStatus(okSnap); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	expectedAddr := plan.Status.BaseSlot*status.SlotsPerDevice + status.SlotSecondsInError

	if cli.lastRegsAddr != expectedAddr {
		t.Fatalf("unexpected write addr: got=%d want=%d", cli.lastRegsAddr, expectedAddr)
	}

	if len(cli.lastRegs) != 1 {
		t.Fatalf("expected 1 register write, got %d", len(cli.lastRegs))
	}

	if cli.lastRegs[0] != 0 {
		t.Fatalf("seconds_in_error not reset: got=%d want=0", cli.lastRegs[0])
	}
}

func TestLastSyncWrittenAsPair(t *testing.T) {
	cli := &fakeEndpointClient{}

	plan := Plan{
		Status: &StatusPlan{Endpoint: "ep", UnitID: 1, BaseSlot: 2},
	}

	sw, _ := NewDeviceStatusWriter(plan, map[string]EndpointClient{"ep": cli})

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("full assert failed: %v", err)
	}

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK, LastSync: 1703011200}); err != nil {
		t.Fatalf("last_sync write failed: %v", err)
	}

	want := uint16(2*status.SlotsPerDevice + status.SlotLastSyncHi)
	if cli.lastRegsAddr != want {
		t.Fatalf("last_sync addr: got=%d want=%d", cli.lastRegsAddr, want)
	}
	if len(cli.lastRegs) != 2 || cli.lastRegs[0] != 0x6581 || cli.lastRegs[1] != 0xE380 {
		t.Fatalf("last_sync regs: got=%#v", cli.lastRegs)
	}
}

func TestFullAssertAfterFailure(t *testing.T) {
	cli := &fakeEndpointClient{}

	plan := Plan{
		Status: &StatusPlan{Endpoint: "ep", UnitID: 1},
	}

	sw, _ := NewDeviceStatusWriter(plan, map[string]EndpointClient{"ep": cli})

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("full assert failed: %v", err)
	}

	cli.fail = errors.New("offline")
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}); err == nil {
		t.Fatalf("expected write failure")
	}

	cli.fail = nil
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}); err != nil {
		t.Fatalf("recovery write failed: %v", err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full re-assert after failure, got %d regs", len(cli.lastRegs))
	}
}

func TestStatusWriterDisabled(t *testing.T) {
	if _, enabled := NewDeviceStatusWriter(Plan{}, nil); enabled {
		t.Fatalf("status writer should be disabled without a plan")
	}
}
