package commands

import (
	"context"

	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/retry"
)

// withStaleRetry runs op under the dependency retry policy. When op loses a conditional
// write to a concurrent writer it is run exactly once more; op reloads the order itself.
func withStaleRetry[T any](ctx context.Context, policy retry.Policy, op func(ctx context.Context) (T, error)) (T, error) {
	run := func() (T, error) {
		return retry.DoValue(ctx, policy, func() (T, error) {
			return op(ctx)
		})
	}

	result, err := run()
	if errs.IsStaleState(err) {
		return run()
	}
	return result, err
}
