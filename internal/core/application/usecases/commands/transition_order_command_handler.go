package commands

import (
	"context"
	"time"

	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/retry"
)

// TransitionOrderCommandHandler applies one lifecycle transition.
//
// Every attempt re-reads the order inside a fresh transaction, validates the move against
// the transition table using the persisted status, and writes conditionally on it. A
// stale-state loss is retried once with the reloaded order; the second loss is returned.
//
// Example:
//
//	cmd, _ := NewTransitionOrderCommand(orderID, order.Taken, trader, "")
//	o, err := handler.Handle(ctx, cmd)
//	var te *errs.TransitionError
//	if errors.As(err, &te) {
//	    log.Printf("rejected: %s", te.Reason)
//	}
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     retry.Policy
}

func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory, policy retry.Policy) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return withStaleRetry(ctx, h.policy, func(ctx context.Context) (*order.Order, error) {
		return h.transition(ctx, cmd)
	})
}

func (h TransitionOrderCommandHandler) transition(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
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

	if err = o.Transition(cmd.Target(), cmd.Actor(), cmd.Note(), time.Now()); err != nil {
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
