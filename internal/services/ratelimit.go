package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// RateLimiter throttles repeated command invocations per (user, command)
// pair: up to maxAttempts inside a fixed window, with the counter
// resetting once the window elapses.
type RateLimiter struct {
	attempts    *cache.Cache
	maxAttempts int
	window      time.Duration
	mu          sync.Mutex
	now         func() time.Time
	logger      *logrus.Logger
}

type attemptWindow struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a rate limiter allowing maxAttempts per window
func NewRateLimiter(maxAttempts int, window time.Duration, logger *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		attempts:    cache.New(window, 10*time.Minute),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		logger:      logger,
	}
}

// Allow reports whether the attempt is permitted. When blocked, the
// second return value holds the time remaining until the window resets.
func (l *RateLimiter) Allow(userID int64, command string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := fmt.Sprintf("%d_%s", userID, command)
	now := l.now()

	if data, found := l.attempts.Get(key); found {
		w, ok := data.(*attemptWindow)
		if ok && now.Before(w.resetAt) {
			if w.count >= l.maxAttempts {
				l.logger.Debugf("Rate limit hit for %s", key)
				return false, w.resetAt.Sub(now)
			}
			w.count++
			return true, 0
		}
	}

	l.attempts.Set(key, &attemptWindow{count: 1, resetAt: now.Add(l.window)}, l.window)
	return true, 0
}
