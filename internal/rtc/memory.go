// internal/rtc/memory.go
package rtc

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// Memory is a free-running software RTC: it keeps the last written value
// and advances it with the host clock.
type Memory struct {
	clk clock.Clock

	mu    sync.Mutex
	value calendar.Instant
	setAt time.Time
}

// NewMemory starts a software RTC at initial.
func NewMemory(clk clock.Clock, initial calendar.Instant) *Memory {
	if clk == nil {
		clk = clock.New()
	}
	return &Memory{clk: clk, value: initial, setAt: clk.Now()}
}

func (m *Memory) Read() (calendar.DateTime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := int64(m.clk.Since(m.setAt) / time.Second)
	return calendar.FromInstant(m.value.Add(elapsed)), nil
}

func (m *Memory) Write(d calendar.DateTime) error {
	if err := d.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = d.Instant()
	m.setAt = m.clk.Now()
	return nil
}
