// Package engine exposes the order lifecycle operations behind one interface so
// inbound adapters and decorators do not depend on individual handlers.
package engine

import (
	"context"

	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/application/usecases/queries"
)

// Service is the order desk as seen by inbound adapters.
type Service interface {
	CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand) (queries.OrderResponse, error)
	GetOrder(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error)
	ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderResponse, error)
	Transition(ctx context.Context, cmd commands.TransitionOrderCommand) (queries.OrderResponse, error)
	ExecuteLineItems(ctx context.Context, cmd commands.ExecuteLineItemsCommand) (queries.OrderResponse, error)
	AddObservation(ctx context.Context, cmd commands.AddObservationCommand) (queries.ObservationResponse, error)
	UpdateOrderDetails(ctx context.Context, cmd commands.UpdateOrderDetailsCommand) (queries.OrderResponse, error)
	DeleteOrder(ctx context.Context, cmd commands.DeleteOrderCommand) error
}

// Handlers groups the command and query handlers the engine dispatches to.
type Handlers struct {
	CreateOrder        commands.CreateOrderCommandHandler
	Transition         commands.TransitionOrderCommandHandler
	ExecuteLineItems   commands.ExecuteLineItemsCommandHandler
	AddObservation     commands.AddObservationCommandHandler
	UpdateOrderDetails commands.UpdateOrderDetailsCommandHandler
	DeleteOrder        commands.DeleteOrderCommandHandler
	GetOrder           queries.GetOrderQueryHandler
	ListOrders         queries.ListOrdersQueryHandler
}

// Engine dispatches each operation to its handler and maps aggregates to read models.
type Engine struct {
	h Handlers
}

func New(h Handlers) *Engine {
	return &Engine{h: h}
}

func (e *Engine) CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand) (queries.OrderResponse, error) {
	o, err := e.h.CreateOrder.Handle(ctx, cmd)
	if err != nil {
		return queries.OrderResponse{}, err
	}
	return queries.FromOrder(o), nil
}

func (e *Engine) GetOrder(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error) {
	return e.h.GetOrder.Handle(ctx, query)
}

func (e *Engine) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderResponse, error) {
	return e.h.ListOrders.Handle(ctx, query)
}

func (e *Engine) Transition(ctx context.Context, cmd commands.TransitionOrderCommand) (queries.OrderResponse, error) {
	o, err := e.h.Transition.Handle(ctx, cmd)
	if err != nil {
		return queries.OrderResponse{}, err
	}
	return queries.FromOrder(o), nil
}

func (e *Engine) ExecuteLineItems(
	ctx context.Context,
	cmd commands.ExecuteLineItemsCommand,
) (queries.OrderResponse, error) {
	o, err := e.h.ExecuteLineItems.Handle(ctx, cmd)
	if err != nil {
		return queries.OrderResponse{}, err
	}
	return queries.FromOrder(o), nil
}

func (e *Engine) AddObservation(
	ctx context.Context,
	cmd commands.AddObservationCommand,
) (queries.ObservationResponse, error) {
	obs, err := e.h.AddObservation.Handle(ctx, cmd)
	if err != nil {
		return queries.ObservationResponse{}, err
	}
	return queries.FromObservation(obs), nil
}

func (e *Engine) UpdateOrderDetails(
	ctx context.Context,
	cmd commands.UpdateOrderDetailsCommand,
) (queries.OrderResponse, error) {
	o, err := e.h.UpdateOrderDetails.Handle(ctx, cmd)
	if err != nil {
		return queries.OrderResponse{}, err
	}
	return queries.FromOrder(o), nil
}

func (e *Engine) DeleteOrder(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	return e.h.DeleteOrder.Handle(ctx, cmd)
}

var _ Service = (*Engine)(nil)
