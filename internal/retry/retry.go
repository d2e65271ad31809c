// Package retry runs an operation under a bounded exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy holds retry strategy configuration.
type Policy struct {
	// MaxAttempts is the maximum number of attempts, including the first one.
	MaxAttempts int
	// InitialDelay is the wait after the first failed attempt.
	InitialDelay time.Duration
	// Multiplier grows the delay after each failed attempt.
	Multiplier float64
	// MaxDelay caps a single wait.
	MaxDelay time.Duration
}

// DefaultPolicy returns the submission policy: 5 attempts, waiting 5s, 10s, 20s and 40s
// between them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Minute,
	}
}

var (
	// ErrInvalidMaxAttempts indicates a policy that would never run the operation.
	ErrInvalidMaxAttempts = errors.New("MaxAttempts must be greater than 0")
	// ErrInvalidMultiplier indicates a policy whose delays would shrink.
	ErrInvalidMultiplier = errors.New("Multiplier must be at least 1")
)

// Validate validates the policy.
func (p Policy) Validate() error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if p.Multiplier < 1 {
		return ErrInvalidMultiplier
	}
	return nil
}

// Delays returns the waits the policy inserts between attempts.
func (p Policy) Delays() []time.Duration {
	b := p.backOff(context.Background())
	b.Reset()
	var delays []time.Duration
	for next := b.NextBackOff(); next != backoff.Stop; next = b.NextBackOff() {
		delays = append(delays, next)
	}
	return delays
}

// backOff builds a jitter-free exponential schedule that stops after MaxAttempts-1 waits.
func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = backoff.DefaultMaxInterval
	}
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     p.InitialDelay,
		RandomizationFactor: 0,
		Multiplier:          p.Multiplier,
		MaxInterval:         maxDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)
}

// Timer is the wait primitive used between attempts; tests inject a fake one.
type Timer = backoff.Timer

// Notify is called after a failed attempt that will be retried.
type Notify func(attempt int, err error, next time.Duration)

// Do runs op until it succeeds or the policy is exhausted and returns the last error.
// op receives the 1-based attempt number. A nil timer waits in real time.
func Do(ctx context.Context, p Policy, timer Timer, op func(attempt int) error, notify Notify) error {
	if err := p.Validate(); err != nil {
		return err
	}

	attempt := 0
	operation := func() error {
		attempt++
		return op(attempt)
	}
	onRetry := func(err error, next time.Duration) {
		if notify != nil {
			notify(attempt, err, next)
		}
	}

	return backoff.RetryNotifyWithTimer(operation, p.backOff(ctx), onRetry, timer)
}
