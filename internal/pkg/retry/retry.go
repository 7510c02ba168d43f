// Package retry applies the bounded retry policy for failing collaborators.
//
// Only errors wrapping errs.ErrDependency are retried; validation, not-found and
// transition errors are returned on the first attempt.
package retry

import (
	"context"
	"errors"
	"time"

	"brokerage/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how often and how fast a dependency call is retried.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy makes up to 3 attempts with exponential backoff.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// Do runs op until it succeeds, fails with a non-dependency error, or the attempts run out.
func Do(ctx context.Context, policy Policy, op func() error) error {
	_, err := DoValue(ctx, policy, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// DoValue is Do for operations that produce a result.
func DoValue[T any](ctx context.Context, policy Policy, op func() (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		result, err := op()
		if err != nil && !errors.Is(err, errs.ErrDependency) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, policy.backOff(ctx))
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}
