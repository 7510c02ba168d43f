package guard_test

import (
	"errors"
	"testing"

	"brokerage/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	g := guard.NewConstructorGuard()

	require.NoError(t, g.Validate(errors.New("not constructed")))
	require.NoError(t, g.Validate(nil))
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("command not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errCommandNotConstructed := errors.New("CancelCommand must be created via NewCancelCommand")

	type cancelCommand struct {
		reason string
		guard  guard.ConstructorGuard
	}

	newCancelCommand := func(reason string) (cancelCommand, error) {
		if reason == "" {
			return cancelCommand{}, errors.New("reason is required")
		}
		return cancelCommand{reason: reason, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_command_validates", func(t *testing.T) {
		cmd, err := newCancelCommand("client withdrew")
		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))
		assert.Equal(t, "client withdrew", cmd.reason)
	})

	t.Run("literal_command_fails", func(t *testing.T) {
		cmd := cancelCommand{reason: "client withdrew"}
		assert.Equal(t, errCommandNotConstructed, cmd.guard.Validate(errCommandNotConstructed))
	})
}
