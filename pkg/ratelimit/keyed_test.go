package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedAllowsBurstPerKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := Every[string](5*time.Second, 2)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"), "keys do not share buckets")

	now = now.Add(5 * time.Second)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
}

func TestKeyedDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := Every[int](time.Second, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow(1)
	limiter.Allow(2)
	assert.Equal(t, 2, limiter.Len())

	now = now.Add(11 * time.Minute)
	limiter.Allow(3)
	assert.Equal(t, 1, limiter.Len())
}

func TestEveryWithoutIntervalNeverLimits(t *testing.T) {
	limiter := Every[string](0, 1)
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("x"))
	}
}
