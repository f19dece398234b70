package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := newRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		require.True(t, rl.allow(), "request %d within burst should pass", i)
	}
	require.False(t, rl.allow(), "request beyond burst should be denied")
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	rl := newRateLimiter(2, 100*time.Millisecond)

	require.True(t, rl.allow())
	require.True(t, rl.allow())
	require.False(t, rl.allow())

	time.Sleep(120 * time.Millisecond)

	require.True(t, rl.allow(), "tokens should refill after the interval")
}

func TestRateLimiterCapsAtCapacity(t *testing.T) {
	rl := newRateLimiter(3, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.True(t, rl.allow())
	}
	require.False(t, rl.allow(), "idle time must not accumulate beyond capacity")
}

func TestRateLimiterSanitizesBadArguments(t *testing.T) {
	rl := newRateLimiter(0, -time.Second)

	require.True(t, rl.allow())
	require.False(t, rl.allow())
}
