// internal/syncer/transport.go
package syncer

import (
	"context"
	"net"
	"net/netip"
	"time"
)

// Datagram is one received packet and its source.
type Datagram struct {
	Payload []byte
	From    netip.AddrPort
}

// Transport is a connectionless datagram endpoint.
type Transport interface {
	Send(ctx context.Context, to netip.AddrPort, payload []byte) error
	Receive(ctx context.Context) (Datagram, error)
	Close() error
}

// OpenFunc creates the transport for one attempt.
type OpenFunc func() (Transport, error)

// udpTransport is an unconnected UDP socket.
type udpTransport struct {
	conn *net.UDPConn
}

// OpenUDP binds an ephemeral UDP port on all interfaces.
func OpenUDP() (Transport, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, err
	}
	return &udpTransport{conn: conn}, nil
}

func (u *udpTransport) Send(ctx context.Context, to netip.AddrPort, payload []byte) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = u.conn.SetWriteDeadline(dl)
	}
	_, err := u.conn.WriteToUDPAddrPort(payload, to)
	return err
}

func (u *udpTransport) Receive(ctx context.Context) (Datagram, error) {
	// unblock the read when ctx ends
	stop := context.AfterFunc(ctx, func() {
		_ = u.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, 512)
	n, from, err := u.conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		if ctx.Err() != nil {
			return Datagram{}, ctx.Err()
		}
		return Datagram{}, err
	}

	return Datagram{Payload: buf[:n], From: netip.AddrPortFrom(from.Addr().Unmap(), from.Port())}, nil
}

func (u *udpTransport) Close() error {
	return u.conn.Close()
}
