package lock

import (
	"context"
	"time"

	"github.com/qiniu/omni-comment/internal/config"
)

// Option configures a Mutex
type Option func(*Mutex)

// WithMaxAttempts sets how many times Acquire tries to create the reaction
func WithMaxAttempts(n int) Option {
	return func(m *Mutex) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithDelay sets the fixed wait between two attempts
func WithDelay(d time.Duration) Option {
	return func(m *Mutex) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithReaction sets the reaction content used as the lock token
func WithReaction(content string) Option {
	return func(m *Mutex) {
		if content != "" {
			m.reaction = content
		}
	}
}

// WithSleep replaces the wait between attempts. Tests use it to avoid real delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(m *Mutex) {
		if sleep != nil {
			m.sleep = sleep
		}
	}
}

// WithConfig applies the lock section of the runtime settings
func WithConfig(cfg config.LockConfig) Option {
	return func(m *Mutex) {
		WithMaxAttempts(cfg.MaxAttempts)(m)
		WithDelay(cfg.Delay)(m)
		WithReaction(cfg.Reaction)(m)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
