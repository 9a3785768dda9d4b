// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// EndpointClient is a single connection to one Modbus endpoint (TCP or RTU).
// It serializes requests because it mutates SlaveId per request.
type EndpointClient struct {
	mu       sync.Mutex
	handler  handler
	setSlave func(uint8)
	client   modbus.Client
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Transports.
const (
	TransportTCP = "tcp"
	TransportRTU = "rtu"
)

type Config struct {
	Endpoint  string // host:port for tcp, serial device for rtu
	Transport string // tcp (default) or rtu
	BaudRate  int
	Timeout   time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	c := &EndpointClient{}

	switch cfg.Transport {
	case "", TransportTCP:
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		c.handler = h
		c.setSlave = func(id uint8) { h.SlaveId = id }

	case TransportRTU:
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		if cfg.BaudRate > 0 {
			h.BaudRate = cfg.BaudRate
		}
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		c.handler = h
		c.setSlave = func(id uint8) { h.SlaveId = id }

	default:
		return nil, fmt.Errorf("writer modbus: unknown transport %q", cfg.Transport)
	}

	if err := c.handler.Connect(); err != nil {
		return nil, err
	}

	c.client = modbus.NewClient(c.handler)
	return c, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadRegisters reads qty holding registers (FC 3).
func (c *EndpointClient) ReadRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(raw) != int(qty)*2 {
		return nil, fmt.Errorf("writer modbus: short read: got %d bytes want %d", len(raw), int(qty)*2)
	}
	return unpackRegisters(raw), nil
}

// WriteRegisters writes holding registers (FC 16).
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	qty := uint16(len(regs))
	payload := packRegisters(regs)

	_, err := c.client.WriteMultipleRegisters(addr, qty, payload)
	return err
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return out
}
