// internal/resolver/dns_test.go
package resolver

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a loopback nameserver answering from records.
func startServer(t *testing.T, records map[string]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)

		q := req.Question[0]
		ip, ok := records[q.Name]
		if !ok {
			m.SetRcode(req, dns.RcodeNameError)
		} else {
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.ParseIP(ip),
			})
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: mux, NotifyStartedFunc: func() { close(started) }}

	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	<-started
	return pc.LocalAddr().String()
}

func TestDNS_Lookup(t *testing.T) {
	addr := startServer(t, map[string]string{"uk.pool.ntp.org.": "192.0.2.123"})

	d, err := NewDNS([]string{addr}, time.Second)
	require.NoError(t, err)

	got, err := d.Lookup(context.Background(), "uk.pool.ntp.org")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.0.2.123"), got)
}

func TestDNS_NameError(t *testing.T) {
	addr := startServer(t, nil)

	d, err := NewDNS([]string{addr}, time.Second)
	require.NoError(t, err)

	_, err = d.Lookup(context.Background(), "missing.example")
	assert.ErrorIs(t, err, ErrFailed)
}

func TestDNS_WithResolver(t *testing.T) {
	addr := startServer(t, map[string]string{"time.example.": "198.51.100.4"})

	d, err := NewDNS([]string{addr}, time.Second)
	require.NoError(t, err)

	r := New(nil, d.Lookup)
	ch, err := r.Resolve(context.Background(), "time.example")
	require.NoError(t, err)

	res := wait(t, ch)
	require.NoError(t, res.Err)
	assert.Equal(t, netip.MustParseAddr("198.51.100.4"), res.Addr)
}
