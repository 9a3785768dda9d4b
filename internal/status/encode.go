// internal/status/encode.go
package status

// Encode converts a Snapshot into the live slots of a status block.
// Reserved and device name slots are left zero.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotLastSyncHi] = uint16(s.LastSync >> 16)
	regs[SlotLastSyncLo] = uint16(s.LastSync)

	return regs
}
