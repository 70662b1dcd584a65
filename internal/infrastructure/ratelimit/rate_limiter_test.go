package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(rl *RateLimiter, start time.Time) *time.Time {
	now := start
	rl.now = func() time.Time { return now }
	return &now
}

func TestAllowPerClientAndAction(t *testing.T) {
	rl := NewRateLimiter(Limit{PerMinute: 2})
	rl.SetLimit("comment", Limit{PerMinute: 1})
	fixedClock(rl, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	ok, _ := rl.Allow("10.0.0.1", "submit_report")
	assert.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1", "submit_report")
	assert.True(t, ok)
	ok, wait := rl.Allow("10.0.0.1", "submit_report")
	assert.False(t, ok)
	assert.InDelta(t, float64(30*time.Second), float64(wait), float64(time.Millisecond))

	ok, _ = rl.Allow("10.0.0.2", "submit_report")
	assert.True(t, ok, "other clients have their own bucket")

	ok, _ = rl.Allow("10.0.0.1", "comment")
	assert.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1", "comment")
	assert.False(t, ok)
}

func TestAllowRefills(t *testing.T) {
	rl := NewRateLimiter(Limit{PerMinute: 1})
	now := fixedClock(rl, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	ok, _ := rl.Allow("c", "a")
	assert.True(t, ok)
	ok, _ = rl.Allow("c", "a")
	assert.False(t, ok)

	*now = now.Add(61 * time.Second)
	ok, _ = rl.Allow("c", "a")
	assert.True(t, ok)
}

func TestUnlimited(t *testing.T) {
	rl := NewRateLimiter(Limit{})
	for i := 0; i < 100; i++ {
		ok, _ := rl.Allow("c", "a")
		assert.True(t, ok)
	}
}

func TestCleanup(t *testing.T) {
	rl := NewRateLimiter(Limit{PerMinute: 5})
	now := fixedClock(rl, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	rl.Allow("old", "a")
	*now = now.Add(50 * time.Minute)
	rl.Allow("recent", "a")
	*now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.visitors, 1)
}
