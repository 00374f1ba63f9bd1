package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures reaching a remote cache backend.
var ErrNetwork = errors.New("network error")

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth another attempt under a Backoff. It returns
// nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// Backoff retries transient cache failures. Delay is the pause before the
// second attempt and doubles after every further one.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff fills zero Backoff fields.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = DefaultBackoff.Attempts
	}
	if b.Delay <= 0 {
		b.Delay = DefaultBackoff.Delay
	}
	return b
}

// Do calls fn until it succeeds, returns an error that is not transient, or
// the attempts run out. The last error is returned unchanged.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	b = b.withDefaults()
	delay := b.Delay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) || attempt == b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
