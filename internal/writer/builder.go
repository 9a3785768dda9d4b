// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/ntpclock/internal/config"
	wmodbus "github.com/tamzrod/ntpclock/internal/writer/modbus"
)

// BuildPlan converts the output sections of the config into a Writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(c *cfg.Config) Plan {
	var plan Plan

	if c.Display.Mode == cfg.ModeModbus {
		plan.Display = &DisplayPlan{
			Endpoint: c.Display.Endpoint,
			UnitID:   c.Display.Unit(),
			Address:  c.Display.Address,
			Width:    c.Display.Width,
		}
	}

	if s := c.Status; s != nil {
		plan.Status = &StatusPlan{
			Endpoint:   s.Endpoint,
			UnitID:     s.Unit(),
			BaseSlot:   s.BaseSlot,
			DeviceName: s.DeviceName,
		}
	}

	return plan
}

// BuildEndpointClients creates one client per unique Modbus endpoint.
// The first section naming an endpoint decides its transport settings.
func BuildEndpointClients(c *cfg.Config) (map[string]*wmodbus.EndpointClient, func() error, error) {
	clients := make(map[string]*wmodbus.EndpointClient)
	var closers []func() error

	for _, se := range cfg.ModbusEndpoints(c) {
		ep := se.Endpoint()
		if _, ok := clients[ep.Endpoint]; ok {
			continue
		}

		cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint:  ep.Endpoint,
			Transport: ep.Transport,
			BaudRate:  ep.BaudRate,
			Timeout:   time.Duration(ep.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			for _, fn := range closers {
				_ = fn()
			}
			return nil, nil, err
		}
		clients[ep.Endpoint] = cli
		closers = append(closers, cli.Close)
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return clients, closeAll, nil
}

// Clients narrows concrete endpoint clients to the writer contract.
func Clients(in map[string]*wmodbus.EndpointClient) map[string]EndpointClient {
	out := make(map[string]EndpointClient, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
