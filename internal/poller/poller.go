// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// ClockReader abstracts the clock sink the poller reads.
type ClockReader interface {
	Read() (calendar.DateTime, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	reader ClockReader

	// overridden in tests
	Clock clock.Clock
}

// New creates a poller with immutable config.
func New(cfg Config, reader ClockReader) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if reader == nil {
		return nil, errors.New("poller: clock reader required")
	}
	return &Poller{cfg: cfg, reader: reader, Clock: clock.New()}, nil
}

// PollOnce performs exactly one read of the clock.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: p.Clock.Now()}

	d, err := p.reader.Read()
	if err != nil {
		res.Err = err
		return res
	}

	res.Clock = d
	return res
}
