package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"brokerage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: record not found)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("clientId", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestObjectAlreadyExistsError(t *testing.T) {
	cause := errors.New("duplicated key not allowed")
	err := errs.NewObjectAlreadyExistsErrorWithCause("order", "123", cause)

	assert.Equal(t,
		"object already exists: param is: order, ID is: 123 (cause: duplicated key not allowed)",
		err.Error())
	assert.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	assert.Equal(t, "object already exists: 123", errs.NewObjectAlreadyExistsError("order", "123").Error())
	assert.False(t, errs.IsValidation(err))
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("price")

		assert.Equal(t, "price", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: price", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("must be positive")
		err := errs.NewValueIsInvalidErrorWithCause("price", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: price (cause: must be positive)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("executed quantity", 150, 0, 100)

		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 100, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t,
			"value is invalid: 150 is executed quantity, min value is 0, max value is 100",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("exceeds requested")
		err := errs.NewValueIsOutOfRangeErrorWithCause("executed quantity", -5, 0, 100, cause)

		assert.Equal(t,
			"value is invalid: -5 is executed quantity, min value is 0, max value is 100 (cause: exceeds requested)",
			err.Error())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("line items")

	assert.Equal(t, "line items", err.ParamName)
	assert.Equal(t, "value is required: line items", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	withCause := errs.NewValueIsRequiredErrorWithCause("line items", errors.New("empty"))
	assert.Equal(t, "value is required: line items (cause: empty)", withCause.Error())
}

func TestTransitionError(t *testing.T) {
	t.Run("NewTransitionError", func(t *testing.T) {
		err := errs.NewTransitionError(errs.ReasonInvalidTransition, "Executed", "Taken")

		assert.Equal(t, errs.ReasonInvalidTransition, err.Reason)
		assert.Equal(t, "transition rejected: invalid-transition from Executed to Taken", err.Error())
		assert.Equal(t, errs.ErrTransition, err.Unwrap())
	})

	t.Run("NewTransitionErrorWithCause", func(t *testing.T) {
		err := errs.NewTransitionErrorWithCause(errs.ReasonStaleState, "Pending", "Taken", errors.New("0 rows"))

		assert.Equal(t, "transition rejected: stale-state from Pending to Taken (cause: 0 rows)", err.Error())
	})

	t.Run("IsStaleState", func(t *testing.T) {
		stale := errs.NewTransitionError(errs.ReasonStaleState, "Pending", "Taken")
		invalid := errs.NewTransitionError(errs.ReasonInvalidTransition, "Pending", "Executed")

		assert.True(t, errs.IsStaleState(fmt.Errorf("wrapped: %w", stale)))
		assert.False(t, errs.IsStaleState(invalid))
		assert.False(t, errs.IsStaleState(errors.New("plain")))
	})
}

func TestDependencyError(t *testing.T) {
	cause := errors.New("connection refused")
	err := errs.NewDependencyError("orders.get", cause)

	assert.Equal(t, "orders.get", err.Operation)
	assert.Equal(t, "dependency failure: orders.get (cause: connection refused)", err.Error())
	require.ErrorIs(t, err, errs.ErrDependency)
	assert.Equal(t, "dependency failure: orders.get", errs.NewDependencyError("orders.get", nil).Error())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errs.IsValidation(errs.NewValueIsRequiredError("client")))
	assert.True(t, errs.IsValidation(errs.NewValueIsInvalidError("price")))
	assert.True(t, errs.IsValidation(errs.NewValueIsOutOfRangeError("qty", 1, 2, 3)))
	assert.True(t, errs.IsValidation(errors.Join(errs.NewValueIsInvalidError("a"), errors.New("b"))))
	assert.False(t, errs.IsValidation(errs.NewObjectNotFoundError("order", "1")))
	assert.False(t, errs.IsValidation(errs.NewDependencyError("orders.get", nil)))
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	assert.Equal(t, "transition rejected", errs.ErrTransition.Error())
	assert.Equal(t, "dependency failure", errs.ErrDependency.Error())
}
