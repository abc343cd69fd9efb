package redisserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Burst(t *testing.T) {
	l := newRateLimiter(0.001, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, l.allow("10.0.0.1"), "request over burst")
}

func TestRateLimiter_PerClient(t *testing.T) {
	l := newRateLimiter(0.001, 1)

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"), "other clients keep their own bucket")
}

func TestRateLimiter_ZeroBurst(t *testing.T) {
	l := newRateLimiter(0.001, 0)

	assert.True(t, l.allow("c"))
	assert.False(t, l.allow("c"))
}
