package commands_test

import (
	"errors"
	"testing"

	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderDetailsCommand_RequiresAField(t *testing.T) {
	_, err := commands.NewUpdateOrderDetailsCommand(kernel.NewUUID(), order.DetailsPatch{}, commercial)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUpdateOrderDetailsCommandHandler_Handle(t *testing.T) {
	market := "MAE"

	t.Run("pending order is updated", func(t *testing.T) {
		ctx := t.Context()
		stored := storedOrder(t, order.Pending)
		cmd, _ := commands.NewUpdateOrderDetailsCommand(stored.ID(), order.DetailsPatch{Market: &market}, commercial)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once()
		repo.On("Update", ctx, stored).Return(nil).Once()

		h := commands.NewUpdateOrderDetailsCommandHandler(factory, fastPolicy())
		o, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "MAE", o.Market())
		repo.AssertExpectations(t)
	})

	t.Run("taken order is rejected", func(t *testing.T) {
		ctx := t.Context()
		stored := storedOrder(t, order.Taken)
		cmd, _ := commands.NewUpdateOrderDetailsCommand(stored.ID(), order.DetailsPatch{Market: &market}, commercial)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once()

		h := commands.NewUpdateOrderDetailsCommandHandler(factory, fastPolicy())
		_, err := h.Handle(ctx, cmd)

		var transitionErr *errs.TransitionError
		require.True(t, errors.As(err, &transitionErr))
		assert.Equal(t, errs.ReasonInvalidTransition, transitionErr.Reason)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
