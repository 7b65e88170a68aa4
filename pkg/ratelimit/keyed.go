// Package ratelimit holds in-process token buckets keyed by caller.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed hands out one token bucket per key. Buckets idle for longer than the
// idle window are dropped on the next sweep.
type Keyed[K comparable] struct {
	mu      sync.Mutex
	buckets map[K]*bucket
	rate    rate.Limit
	burst   int
	idle    time.Duration
	swept   time.Time
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewKeyed[K comparable](r rate.Limit, burst int) *Keyed[K] {
	if burst < 1 {
		burst = 1
	}
	return &Keyed[K]{
		buckets: make(map[K]*bucket),
		rate:    r,
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// Every builds a limiter allowing one event per interval per key.
func Every[K comparable](interval time.Duration, burst int) *Keyed[K] {
	if interval <= 0 {
		return NewKeyed[K](rate.Inf, burst)
	}
	return NewKeyed[K](rate.Every(interval), burst)
}

// Allow reports whether key may proceed now and consumes a token if so.
func (k *Keyed[K]) Allow(key K) bool {
	now := k.now()
	k.mu.Lock()
	defer k.mu.Unlock()

	if now.Sub(k.swept) > k.idle {
		for id, b := range k.buckets {
			if now.Sub(b.lastSeen) > k.idle {
				delete(k.buckets, id)
			}
		}
		k.swept = now
	}

	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.rate, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Len is the number of live buckets.
func (k *Keyed[K]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}
