// Package ratelimit implements a per-provider token bucket with
// continuous refill, ported directly from the reference rate limiter's
// allowance/last_check algorithm.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket allowing up to Rate acquisitions per Per
// window, amortized (burst-friendly up to Rate tokens).
type Limiter struct {
	rate float64
	per  float64 // seconds

	mu        sync.Mutex
	allowance float64
	lastCheck time.Time

	now func() time.Time
	sleep func(time.Duration)
}

// New builds a Limiter allowing rate tokens per `per` seconds.
func New(rate int, per float64) *Limiter {
	l := &Limiter{
		rate:      float64(rate),
		per:       per,
		allowance: float64(rate),
		lastCheck: time.Now(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
	return l
}

// Acquire blocks until a token is available, or ctx is cancelled first.
// The entire refill-check-sleep sequence is serialized by the internal
// mutex, matching the reference implementation's "mutex held across the
// sleep" requirement.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.now()
	elapsed := current.Sub(l.lastCheck).Seconds()
	l.lastCheck = current

	l.allowance += elapsed * (l.rate / l.per)
	if l.allowance > l.rate {
		l.allowance = l.rate
	}

	if l.allowance < 1.0 {
		waitSeconds := (1.0 - l.allowance) * (l.per / l.rate)
		l.allowance = 0.0
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(waitSeconds * float64(time.Second))):
			}
			return nil
		}
		l.sleep(time.Duration(waitSeconds * float64(time.Second)))
		return nil
	}

	l.allowance -= 1.0
	return nil
}

// TryAcquire is the non-blocking variant: refills the bucket, then
// returns false without consuming a token if none is available.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.now()
	elapsed := current.Sub(l.lastCheck).Seconds()
	l.lastCheck = current

	l.allowance += elapsed * (l.rate / l.per)
	if l.allowance > l.rate {
		l.allowance = l.rate
	}

	if l.allowance < 1.0 {
		return false
	}
	l.allowance -= 1.0
	return true
}

// Reset restores a full bucket and resets the refill clock.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowance = l.rate
	l.lastCheck = l.now()
}
