// internal/syncer/transport_test.go
package syncer

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/dst"
	"github.com/tamzrod/ntpclock/internal/ntp"
	"github.com/tamzrod/ntpclock/internal/resolver"
)

// ---- loopback time server ----

// serveLoopback answers each request with a server reply carrying secs.
// With answer=false it reads requests and stays silent.
func serveLoopback(t *testing.T, secs uint32, answer bool) (uint16, <-chan []byte) {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	requests := make(chan []byte, 4)

	go func() {
		buf := make([]byte, 512)
		for {
			n, from, err := conn.ReadFromUDPAddrPort(buf)
			if err != nil {
				return
			}
			requests <- append([]byte(nil), buf[:n]...)
			if !answer {
				continue
			}

			b := make([]byte, ntp.MessageLen)
			b[0] = 0x24 // leap 0, version 4, mode 4
			b[1] = 1
			binary.BigEndian.PutUint32(b[40:44], secs)
			_, _ = conn.WriteToUDPAddrPort(b, from)
		}
	}()

	return uint16(conn.LocalAddr().(*net.UDPAddr).Port), requests
}

func newLoopbackSyncer(t *testing.T, port uint16, sink ClockSink) *Syncer {
	t.Helper()

	table, err := dst.Generate(2020, 20)
	require.NoError(t, err)

	noLookup := func(context.Context, string) (netip.Addr, error) {
		return netip.Addr{}, errors.New("address literals only")
	}

	s, err := New(Config{
		Server:          "127.0.0.1",
		Port:            port,
		SyncHour:        DefaultSyncHour,
		DSTOffset:       time.Hour,
		ResolveTimeout:  time.Second,
		ResponseTimeout: 100 * time.Millisecond,
	}, nil, resolver.New(nil, noLookup), table, sink)
	require.NoError(t, err)
	return s
}

// ---- tests ----

func TestUDP_LoopbackExchange(t *testing.T) {
	port, requests := serveLoopback(t, 3912000000, true)
	sink := &fakeSink{}
	s := newLoopbackSyncer(t, port, sink)
	s.cfg.ResponseTimeout = 2 * time.Second

	a := s.Sync(context.Background())

	require.NoError(t, a.Err)
	assert.Equal(t, netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), port), a.Server)
	require.Len(t, sink.writes, 1)
	assert.Equal(t, calendar.FromInstant(1703011200), sink.writes[0])

	select {
	case req := <-requests:
		assert.Equal(t, ntp.EncodeRequest(), req)
	default:
		t.Fatal("server saw no request")
	}
}

func TestUDP_SilentServerTimesOut(t *testing.T) {
	port, requests := serveLoopback(t, 0, false)
	sink := &fakeSink{}
	s := newLoopbackSyncer(t, port, sink)

	start := time.Now()
	a := s.Sync(context.Background())

	assert.Equal(t, KindTimedOut, KindOf(a.Err))
	assert.Less(t, time.Since(start), 2*time.Second, "blocked read was released")
	assert.True(t, a.RequestSent)
	assert.Empty(t, sink.writes)
	assert.Len(t, requests, 1)
}

func TestUDP_ReceiveCancelled(t *testing.T) {
	tr, err := OpenUDP()
	require.NoError(t, err)
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := tr.Receive(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not return after cancel")
	}
}

