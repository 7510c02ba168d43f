package commands

import (
	"context"

	"brokerage/internal/pkg/retry"
)

type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     retry.Policy
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, policy retry.Policy) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle deletes the order. Returns ObjectNotFoundError when it does not exist.
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retry.Do(ctx, h.policy, func() error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		if err := uow.OrderRepository().Delete(ctx, cmd.OrderID()); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
