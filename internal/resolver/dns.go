// internal/resolver/dns.go
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

const resolvConf = "/etc/resolv.conf"

// DNS looks up A records against a fixed list of nameservers, in order.
type DNS struct {
	client  *dns.Client
	servers []string
}

// NewDNS builds a lookup over servers ("host:port"). An empty list falls
// back to the nameservers in /etc/resolv.conf.
func NewDNS(servers []string, timeout time.Duration) (*DNS, error) {
	if len(servers) == 0 {
		cc, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return nil, fmt.Errorf("resolver: no nameservers configured: %w", err)
		}
		for _, s := range cc.Servers {
			servers = append(servers, net.JoinHostPort(s, cc.Port))
		}
	}
	if len(servers) == 0 {
		return nil, errors.New("resolver: no nameservers configured")
	}

	return &DNS{
		client:  &dns.Client{Net: "udp", Timeout: timeout},
		servers: append([]string(nil), servers...),
	}, nil
}

// Lookup returns the first IPv4 address in the answer of the first
// nameserver that responds successfully.
func (d *DNS) Lookup(ctx context.Context, host string) (netip.Addr, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error

	for _, server := range d.servers {
		in, _, err := d.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", server, err)
			continue
		}
		if in.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("%s: rcode %s", server, dns.RcodeToString[in.Rcode])
			continue
		}

		for _, rr := range in.Answer {
			if a, ok := rr.(*dns.A); ok {
				if addr, ok := netip.AddrFromSlice(a.A); ok {
					return addr.Unmap(), nil
				}
			}
		}
		lastErr = fmt.Errorf("%s: no A record for %s", server, host)
	}

	return netip.Addr{}, fmt.Errorf("%w: %v", ErrFailed, lastErr)
}
