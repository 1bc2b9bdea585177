package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookRateLimiterBurstThenDeny(t *testing.T) {
	rl := NewWebhookRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
}

func TestWebhookRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewWebhookRateLimiter(1, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "a throttled source must not affect others")
}

func TestWebhookRateLimiterReset(t *testing.T) {
	rl := NewWebhookRateLimiter(1, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	rl.Reset("10.0.0.1")
	assert.True(t, rl.Allow("10.0.0.1"), "reset restores a full bucket")
}

func TestWebhookRateLimiterStats(t *testing.T) {
	rl := NewWebhookRateLimiter(2, 5)
	rl.Allow("a")
	rl.Allow("b")

	stats := rl.GetStats()
	assert.Equal(t, 2, stats["active_sources"])
	assert.Equal(t, float64(2), stats["rate"])
	assert.Equal(t, float64(5), stats["burst"])
}
