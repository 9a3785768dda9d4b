// internal/ntp/codec.go
//
// Package ntp builds SNTP client requests and validates server responses.
// Only the transmit-timestamp seconds are used; no delay or offset math.
package ntp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// Wire constants. These define the protocol and MUST NOT be configurable.
const (
	// Port is the well-known server port.
	Port = 123

	// MessageLen is the fixed size of a request and a response.
	MessageLen = 48

	// EpochOffset is the number of seconds from 1900-01-01 to 1970-01-01.
	EpochOffset = 2208988800

	// RequestHeader is LI=0, VN=3, Mode=3 (client): 00 011 011.
	RequestHeader byte = 0x1B

	// ModeServer is the mode a valid response must carry.
	ModeServer byte = 4

	offsetStratum      = 1
	offsetTransmitSecs = 40

	modeMask byte = 0x07
)

// Rejection reasons, checked in this order.
var (
	ErrAddressMismatch = errors.New("ntp: response source does not match server")
	ErrLengthInvalid   = errors.New("ntp: response length invalid")
	ErrModeInvalid     = errors.New("ntp: response mode is not server")
	ErrStratumZero     = errors.New("ntp: response stratum is zero (unsynchronized)")
)

// EncodeRequest returns a zero-filled client request.
func EncodeRequest() []byte {
	req := make([]byte, MessageLen)
	req[0] = RequestHeader
	return req
}

// DecodeResponse validates a datagram received from src against the server
// the request was sent to, and returns the transmit time as a Unix instant.
func DecodeResponse(payload []byte, src, server netip.AddrPort) (calendar.Instant, error) {
	if src.Addr().Unmap() != server.Addr().Unmap() || src.Port() != server.Port() {
		return 0, fmt.Errorf("%w: got %s want %s", ErrAddressMismatch, src, server)
	}
	if len(payload) != MessageLen {
		return 0, fmt.Errorf("%w: got %d want %d", ErrLengthInvalid, len(payload), MessageLen)
	}
	if mode := payload[0] & modeMask; mode != ModeServer {
		return 0, fmt.Errorf("%w: got %d", ErrModeInvalid, mode)
	}
	if payload[offsetStratum] == 0 {
		return 0, ErrStratumZero
	}

	secs := binary.BigEndian.Uint32(payload[offsetTransmitSecs : offsetTransmitSecs+4])
	return FromNTPSeconds(secs), nil
}

// FromNTPSeconds converts seconds since 1900 to a Unix instant.
func FromNTPSeconds(secs uint32) calendar.Instant {
	return calendar.Instant(int64(secs) - EpochOffset)
}

// ToNTPSeconds converts a Unix instant to seconds since 1900 (era 0).
func ToNTPSeconds(i calendar.Instant) uint32 {
	return uint32(int64(i) + EpochOffset)
}
