package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindow_EnforcesLimit(t *testing.T) {
	l := NewSlidingWindow(2, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("client-a", now))
	assert.True(t, l.Allow("client-a", now))
	assert.False(t, l.Allow("client-a", now))

	// Other clients have their own window.
	assert.True(t, l.Allow("client-b", now))
}

func TestSlidingWindow_WindowExpiry(t *testing.T) {
	l := NewSlidingWindow(1, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("client", now))
	assert.False(t, l.Allow("client", now.Add(30*time.Second)))
	assert.True(t, l.Allow("client", now.Add(61*time.Second)))
}

func TestSlidingWindow_PrunesIdleClients(t *testing.T) {
	l := NewSlidingWindow(1, time.Minute)
	now := time.Now()

	l.Allow("ephemeral", now)
	l.Allow("other", now.Add(2*time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.history["ephemeral"]
	assert.False(t, ok)
}

func TestSlidingWindow_Defaults(t *testing.T) {
	l := NewSlidingWindow(0, 0)
	assert.Equal(t, 10, l.limit)
	assert.Equal(t, time.Minute, l.window)
}
