// internal/resolver/resolver.go
//
// Package resolver turns the time-server hostname into an address.
// One lookup may be outstanding at a time; completion is delivered on a channel.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrFailed is returned (wrapped) when a lookup completes without an address.
	ErrFailed = errors.New("resolver: name resolution failed")

	// ErrInFlight is returned when Resolve is called while a lookup is outstanding.
	ErrInFlight = errors.New("resolver: resolution already in flight")
)

// Result is the completion of one lookup. Exactly one of Addr / Err is set.
type Result struct {
	Host string
	Addr netip.Addr
	Err  error
}

// LookupFunc performs one blocking lookup.
type LookupFunc func(ctx context.Context, host string) (netip.Addr, error)

// Resolver serializes lookups behind an in-flight flag.
type Resolver struct {
	logger *zap.Logger
	lookup LookupFunc

	mu       sync.Mutex
	inFlight bool
}

// New creates a resolver around lookup.
func New(logger *zap.Logger, lookup LookupFunc) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger, lookup: lookup}
}

// InFlight reports whether a lookup is outstanding.
func (r *Resolver) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.inFlight
}

// Resolve starts a lookup of host and returns the channel its Result will be
// delivered on. Address literals complete before Resolve returns.
// The in-flight flag is cleared before the Result is sent.
func (r *Resolver) Resolve(ctx context.Context, host string) (<-chan Result, error) {
	done := make(chan Result, 1)

	if addr, err := netip.ParseAddr(host); err == nil {
		done <- Result{Host: host, Addr: addr.Unmap()}
		return done, nil
	}

	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return nil, ErrInFlight
	}
	r.inFlight = true
	r.mu.Unlock()

	go func() {
		addr, err := r.lookup(ctx, host)

		res := Result{Host: host}
		if err != nil {
			if !errors.Is(err, ErrFailed) {
				err = fmt.Errorf("%w: %s: %v", ErrFailed, host, err)
			}
			res.Err = err
			r.logger.Debug("dns lookup failed", zap.String("host", host), zap.Error(err))
		} else {
			res.Addr = addr.Unmap()
			r.logger.Debug("dns lookup done", zap.String("host", host), zap.Stringer("addr", res.Addr))
		}

		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()

		done <- res
	}()

	return done, nil
}
