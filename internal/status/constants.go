// internal/status/constants.go
package status

// Sync Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per clock.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the sync health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the failure kind of the last attempt.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the clock has been unsynchronized.
const SlotSecondsInError = 2

// SlotLastSyncHi and SlotLastSyncLo hold the last applied Unix instant, big-endian.
const SlotLastSyncHi = 3
const SlotLastSyncLo = 4

// ---- RESERVED RANGE ----

// Slots 5-10 are reserved for future use.
const SlotReservedStart = 5
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// SecondsInErrorMax is where seconds_in_error saturates.
const SecondsInErrorMax = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents boot state, before the first attempt completes.
const HealthUnknown uint16 = 0

// HealthOK represents a clock set by the last attempt.
const HealthOK uint16 = 1

// HealthError represents a failed last attempt; the clock keeps its previous value.
const HealthError uint16 = 2

// HealthConfigError represents a failure the operator must fix (DST table range).
const HealthConfigError uint16 = 3
