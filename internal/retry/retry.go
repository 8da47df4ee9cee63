// Package retry re-runs failed fetches on a fixed delay.
package retry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDelay is the pause between attempts when none is configured.
const DefaultDelay = 3 * time.Second

// ErrExhausted wraps the last error once MaxAttempts is reached.
var ErrExhausted = errors.New("retry attempts exhausted")

// Permanent marks err as not worth retrying; Do returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Policy configures Do. MaxAttempts <= 0 retries until ctx is done.
type Policy struct {
	Delay       time.Duration
	MaxAttempts int
}

// Fixed returns a policy with the given delay and attempt limit.
func Fixed(delay time.Duration, maxAttempts int) Policy {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return Policy{Delay: delay, MaxAttempts: maxAttempts}
}

// Notifier surfaces a failure once and stays quiet until the next success.
// It is safe for concurrent use.
type Notifier struct {
	mu      sync.Mutex
	failing bool
}

// Failed records a failure and reports whether it should be shown.
func (n *Notifier) Failed(err error) bool {
	if err == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failing {
		return false
	}
	n.failing = true
	return true
}

// Succeeded clears the failing state so the next failure is shown again.
func (n *Notifier) Succeeded() {
	n.mu.Lock()
	n.failing = false
	n.mu.Unlock()
}

// Failing reports whether the last recorded outcome was a failure.
func (n *Notifier) Failing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failing
}

// Do calls fn until it succeeds, ctx is done or the attempt limit is hit.
// notify, when set, receives the first failure after each success.
func Do(ctx context.Context, p Policy, fn func(context.Context) error, notify func(error)) error {
	var n Notifier
	delay := p.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			n.Succeeded()
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if n.Failed(err) && notify != nil {
			notify(err)
		}
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return errors.Join(ErrExhausted, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
