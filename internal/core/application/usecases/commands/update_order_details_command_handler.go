package commands

import (
	"context"
	"time"

	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/retry"
)

// UpdateOrderDetailsCommandHandler patches descriptive fields. The write is conditional on
// the order still being Pending.
type UpdateOrderDetailsCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     retry.Policy
}

func NewUpdateOrderDetailsCommandHandler(uowFactory OrderUoWFactory, policy retry.Policy) UpdateOrderDetailsCommandHandler {
	return UpdateOrderDetailsCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h UpdateOrderDetailsCommandHandler) Handle(ctx context.Context, cmd UpdateOrderDetailsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return withStaleRetry(ctx, h.policy, func(ctx context.Context) (*order.Order, error) {
		return h.update(ctx, cmd)
	})
}

func (h UpdateOrderDetailsCommandHandler) update(ctx context.Context, cmd UpdateOrderDetailsCommand) (*order.Order, error) {
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

	if err = o.UpdateDetails(cmd.Patch(), time.Now()); err != nil {
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
