// internal/poller/runner.go
package poller

import (
	"context"
)

// Run starts the ticker loop and emits PollResult on the provided channel.
// One goroutine per clock. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := p.Clock.Ticker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- p.PollOnce():
			case <-ctx.Done():
				return
			}
		}
	}
}
