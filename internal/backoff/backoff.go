// Package backoff implements capped exponential backoff with jitter for
// retrying venue requests and websocket reconnects.
package backoff

import (
	"context"
	"math/rand/v2"
	"time"
)

// Policy computes retry delays. The zero value is not usable; start from
// Default and adjust.
type Policy struct {
	// Initial is the delay before the first retry.
	Initial time.Duration
	// Max caps the delay growth.
	Max time.Duration
	// Factor multiplies the delay after each attempt.
	Factor float64
	// Jitter, in [0, 1], is the fraction of the delay randomized away to
	// avoid thundering herds. 0.2 means delays land in [0.8d, d].
	Jitter float64
}

// Default matches the venue connectors' needs: quick first retry, capped
// at 30s.
func Default() Policy {
	return Policy{
		Initial: 250 * time.Millisecond,
		Max:     30 * time.Second,
		Factor:  2,
		Jitter:  0.2,
	}
}

// Delay returns the backoff for attempt (0-based), jittered.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.Initial
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Factor)
		if d >= p.Max {
			d = p.Max
			break
		}
	}
	if p.Jitter > 0 {
		d -= time.Duration(rand.Float64() * p.Jitter * float64(d))
	}
	return d
}

// Sleep blocks for the attempt's delay or until ctx is done, reporting
// which happened.
func (p Policy) Sleep(ctx context.Context, attempt int) error {
	t := time.NewTimer(p.Delay(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
