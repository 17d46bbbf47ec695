package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRateLimiterAllowsUpToMax(t *testing.T) {
	l := NewRateLimiter(5, time.Minute, testLogger())

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow(1, "/viewposts")
		require.True(t, ok, "attempt %d should pass", i+1)
	}

	ok, wait := l.Allow(1, "/viewposts")
	require.False(t, ok)
	require.Greater(t, wait, time.Duration(0))
	require.LessOrEqual(t, wait, time.Minute)
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute, testLogger())
	l.now = func() time.Time { return now }

	ok, _ := l.Allow(1, "/config")
	require.True(t, ok)
	ok, _ = l.Allow(1, "/config")
	require.True(t, ok)
	ok, _ = l.Allow(1, "/config")
	require.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(1, "/config")
	require.True(t, ok)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	l := NewRateLimiter(1, time.Minute, testLogger())

	ok, _ := l.Allow(1, "/viewposts")
	require.True(t, ok)
	ok, _ = l.Allow(1, "/viewposts")
	require.False(t, ok)

	// Same user, different command.
	ok, _ = l.Allow(1, "/config")
	require.True(t, ok)

	// Different user, same command.
	ok, _ = l.Allow(2, "/viewposts")
	require.True(t, ok)
}
