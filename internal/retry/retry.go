// Package retry runs external lookups under a fixed retry policy:
// rate-limited calls are retried without bound after a pause, transient
// failures a bounded number of times, permanent failures never.
package retry

import (
	"context"
	"fmt"
	"time"
)

// DefaultMaxAttempts bounds the attempts made for a transient failure.
const DefaultMaxAttempts = 8

// Class is the retry treatment of an error.
type Class int

const (
	Permanent Class = iota
	Transient
	RateLimited
)

// Policy configures Do.
type Policy struct {
	// MaxAttempts bounds transient retries. Zero means DefaultMaxAttempts.
	MaxAttempts int
	// Backoff is the pause after a transient failure.
	Backoff time.Duration
	// RateLimitWait is the pause after a rate-limit response.
	RateLimitWait time.Duration
	// OnRetry, when set, is told about every retried error.
	OnRetry func(attempt int, class Class, err error)
}

// DefaultPolicy returns the policy used by the external clients.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   DefaultMaxAttempts,
		Backoff:       2 * time.Second,
		RateLimitWait: 10 * time.Second,
	}
}

// Do calls fn until it succeeds, fails permanently, exhausts the
// transient attempts, or ctx is done. classify decides how each error is
// treated.
func Do(ctx context.Context, p Policy, classify func(error) Class, fn func(context.Context) error) error {
	limit := p.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}

	transient := 0
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var wait time.Duration
		class := classify(err)
		switch class {
		case RateLimited:
			wait = p.RateLimitWait
		case Transient:
			transient++
			if transient >= limit {
				return fmt.Errorf("giving up after %d attempts: %w", transient, err)
			}
			wait = p.Backoff
		default:
			return err
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, class, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
