package commands

import (
	"context"
	"errors"
	"time"

	"brokerage/internal/core/domain/model/catalog"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/retry"
)

// CreateOrderCommandHandler resolves the client and every ticker against the catalogs and
// stores the new Pending order with its line items in one transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, retry.DefaultPolicy())
//	o, err := handler.Handle(ctx, cmd)
//	if errs.IsValidation(err) {
//	    // unknown client or ticker, bad quantities
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     retry.Policy
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, policy retry.Policy) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle processes the order creation command. Dependency failures are retried with a
// fresh transaction; an unknown client or ticker is a validation error.
//
// A commit can succeed even though its acknowledgement is lost. The retry then finds the
// order ID taken, and the order stored by the earlier attempt is returned.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := order.AuthorizeCreate(cmd.Actor()); err != nil {
		return nil, err
	}

	o, err := retry.DoValue(ctx, h.policy, func() (*order.Order, error) {
		return h.create(ctx, cmd)
	})
	if errors.Is(err, errs.ErrObjectAlreadyExists) {
		return h.stored(ctx, cmd, err)
	}
	return o, err
}

// stored loads the order an earlier attempt committed. An order with the same ID but
// another client is not ours, and conflict is returned.
func (h CreateOrderCommandHandler) stored(ctx context.Context, cmd CreateOrderCommand, conflict error) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.ClientID().IsEqual(cmd.ClientID()) {
		return nil, conflict
	}
	return o, nil
}

func (h CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	catalogRepo := uow.CatalogRepository()

	client, err := catalogRepo.GetClient(ctx, cmd.ClientID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewValueIsInvalidErrorWithCause("clientID", err)
	}
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(cmd.LineItems()))
	for _, input := range cmd.LineItems() {
		asset, err := catalogRepo.GetAssetByTicker(ctx, catalog.NormalizeTicker(input.Ticker))
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("ticker", err)
		}
		if err != nil {
			return nil, err
		}

		item, err := order.NewLineItem(kernel.NewUUID(), asset.ID(), asset.Ticker(),
			input.Quantity, input.Price, input.MarketOrder)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(cmd.OrderID(), client.ID(), client.Name(), cmd.Side(), items, cmd.Details(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
