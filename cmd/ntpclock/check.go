// cmd/ntpclock/check.go
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/beevik/ntp"
	"github.com/benbjohnson/clock"
	"github.com/urfave/cli/v2"

	"github.com/tamzrod/ntpclock/internal/calendar"
	"github.com/tamzrod/ntpclock/internal/config"
	"github.com/tamzrod/ntpclock/internal/dst"
	intntp "github.com/tamzrod/ntpclock/internal/ntp"
	"github.com/tamzrod/ntpclock/internal/syncer"
	"github.com/tamzrod/ntpclock/internal/writer"
)

const checkTimeout = 5 * time.Second

// checkCommand cross-checks the in-repo codec against a reference SNTP
// client and reports the clock without writing to it.
func checkCommand(c *cli.Context) error {
	cfg, err := loadConfig(configPath(c))
	if err != nil {
		return err
	}
	out := c.App.Writer

	table, err := loadTable(cfg.DST)
	if err != nil {
		return err
	}

	// ---- reference query ----
	addr := net.JoinHostPort(cfg.Clock.Server, strconv.Itoa(int(cfg.Clock.Port)))
	resp, err := ntp.QueryWithOptions(addr, ntp.QueryOptions{Timeout: checkTimeout})
	if err != nil {
		return fmt.Errorf("reference query %s: %w", addr, err)
	}
	if err := resp.Validate(); err != nil {
		return fmt.Errorf("reference query %s: %w", addr, err)
	}
	fmt.Fprintf(out, "server      %s stratum=%d rtt=%s offset=%s\n", addr, resp.Stratum, resp.RTT, resp.ClockOffset)

	// ---- in-repo codec ----
	raw, server, err := codecQuery(c.Context, cfg)
	if err != nil {
		return err
	}
	printInstant(out, "codec", raw, table, cfg)
	fmt.Fprintf(out, "            from %s, %s from reference\n", server, raw.Time().Sub(resp.Time.Truncate(time.Second)))

	// ---- clock ----
	clients, closeClients, err := writer.BuildEndpointClients(cfg)
	if err != nil {
		return err
	}
	defer closeClients() //nolint:errcheck

	sink, err := buildClockSink(cfg, clients, clock.New())
	if err != nil {
		return err
	}
	d, err := sink.Read()
	if err != nil {
		return fmt.Errorf("rtc read: %w", err)
	}
	fmt.Fprintf(out, "rtc         %s (%s)\n", d, cfg.RTC.Mode)

	return nil
}

// codecQuery performs one exchange the way the orchestrator does, without
// touching the clock.
func codecQuery(parent context.Context, cfg *config.Config) (calendar.Instant, netip.AddrPort, error) {
	ctx, cancel := context.WithTimeout(parent, checkTimeout)
	defer cancel()

	ip, err := netip.ParseAddr(cfg.Clock.Server)
	if err != nil {
		lookup, err := buildLookup(cfg.Clock)
		if err != nil {
			return 0, netip.AddrPort{}, err
		}
		if ip, err = lookup.Lookup(ctx, cfg.Clock.Server); err != nil {
			return 0, netip.AddrPort{}, err
		}
	}
	server := netip.AddrPortFrom(ip, cfg.Clock.Port)

	tr, err := syncer.OpenUDP()
	if err != nil {
		return 0, server, err
	}
	defer tr.Close() //nolint:errcheck

	if err := tr.Send(ctx, server, intntp.EncodeRequest()); err != nil {
		return 0, server, err
	}
	dg, err := tr.Receive(ctx)
	if err != nil {
		return 0, server, err
	}

	raw, err := intntp.DecodeResponse(dg.Payload, dg.From, server)
	return raw, server, err
}

func printInstant(out io.Writer, label string, raw calendar.Instant, table *dst.Table, cfg *config.Config) {
	d := calendar.FromInstant(raw)

	inDST, err := table.Evaluate(raw, d.Year)
	if err != nil {
		fmt.Fprintf(out, "%-11s %s UTC (dst: %v)\n", label, d, err)
		return
	}

	zone := cfg.DST.StandardName
	if inDST {
		zone = cfg.DST.DaylightName
		d = calendar.FromInstant(raw.Add(int64(cfg.DST.Offset() / time.Second)))
	}
	fmt.Fprintf(out, "%-11s %s %s\n", label, d, zone)
}
