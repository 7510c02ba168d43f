package commands

import (
	"context"
	"time"

	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/retry"
)

// AddObservationCommandHandler appends an observation without touching the order status.
// The insert does not take part in the conditional status write, so it never loses a race.
type AddObservationCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     retry.Policy
}

func NewAddObservationCommandHandler(uowFactory OrderUoWFactory, policy retry.Policy) AddObservationCommandHandler {
	return AddObservationCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h AddObservationCommandHandler) Handle(ctx context.Context, cmd AddObservationCommand) (*order.Observation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return retry.DoValue(ctx, h.policy, func() (*order.Observation, error) {
		return h.add(ctx, cmd)
	})
}

func (h AddObservationCommandHandler) add(ctx context.Context, cmd AddObservationCommand) (*order.Observation, error) {
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

	obs, err := o.AddObservation(cmd.Author(), cmd.Text(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.AppendObservation(ctx, o.ID(), obs); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return obs, nil
}
