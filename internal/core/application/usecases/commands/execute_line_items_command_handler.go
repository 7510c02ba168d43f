package commands

import (
	"context"
	"time"

	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/retry"
)

// ExecuteLineItemsCommandHandler records executions and moves the order to Executed or
// PartiallyExecuted. A call that violates any line item's bounds writes nothing.
type ExecuteLineItemsCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     retry.Policy
}

func NewExecuteLineItemsCommandHandler(uowFactory OrderUoWFactory, policy retry.Policy) ExecuteLineItemsCommandHandler {
	return ExecuteLineItemsCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h ExecuteLineItemsCommandHandler) Handle(ctx context.Context, cmd ExecuteLineItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return withStaleRetry(ctx, h.policy, func(ctx context.Context) (*order.Order, error) {
		return h.execute(ctx, cmd)
	})
}

func (h ExecuteLineItemsCommandHandler) execute(ctx context.Context, cmd ExecuteLineItemsCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.ExecuteLineItems(cmd.Executions(), cmd.Actor(), cmd.Note(), time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
