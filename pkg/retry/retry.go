// Package retry wraps operations in an unbounded retry loop with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/clock"
)

const (
	defaultMin        = time.Second
	defaultMax        = 10 * time.Second
	defaultMultiplier = 1.5
)

// Policy describes the delay schedule between attempts.
type Policy struct {
	Min        time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultPolicy starts at one second and grows by 1.5x up to ten seconds.
func DefaultPolicy() Policy {
	return Policy{Min: defaultMin, Max: defaultMax, Multiplier: defaultMultiplier}
}

// Validate reports whether the policy can produce a delay schedule.
func (p Policy) Validate() error {
	if p.Min <= 0 {
		return errors.New("retry min delay must be positive")
	}
	if p.Max < p.Min {
		return errors.New("retry max delay must not be less than min delay")
	}
	if p.Multiplier < 1 {
		return errors.New("retry multiplier must be at least 1")
	}
	return nil
}

func (p Policy) next(delay time.Duration) time.Duration {
	next := time.Duration(float64(delay) * p.Multiplier)
	if next > p.Max || next <= 0 {
		return p.Max
	}
	return next
}

// FailureFunc is invoked after every failed attempt, before waiting delay.
type FailureFunc func(operation string, attempt int, delay time.Duration, err error)

// Option configures a Retrier.
type Option func(*Retrier)

// WithSleep replaces the wait function.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(r *Retrier) {
		r.sleep = sleep
	}
}

// WithOnFailure registers a failure callback. Multiple callbacks run in order.
func WithOnFailure(fn FailureFunc) Option {
	return func(r *Retrier) {
		r.onFailure = append(r.onFailure, fn)
	}
}

// Retrier repeats an operation until it succeeds. It never gives up on its own;
// the only way out of a failing loop is cancellation of the caller's context.
type Retrier struct {
	policy    Policy
	sleep     func(context.Context, time.Duration) error
	onFailure []FailureFunc
}

// New constructs a Retrier. An invalid policy falls back to DefaultPolicy.
func New(policy Policy, opts ...Option) *Retrier {
	if policy.Validate() != nil {
		policy = DefaultPolicy()
	}
	r := &Retrier{
		policy: policy,
		sleep:  clock.SleepWithContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it returns nil or ctx is done.
func (r *Retrier) Do(ctx context.Context, operation string, fn func(context.Context) error) error {
	_, err := Value(ctx, r, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Value runs fn until it returns a nil error and hands back its result.
func Value[T any](ctx context.Context, r *Retrier, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	delay := r.policy.Min
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		for _, notify := range r.onFailure {
			notify(operation, attempt, delay, err)
		}
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
		delay = r.policy.next(delay)
	}
}
