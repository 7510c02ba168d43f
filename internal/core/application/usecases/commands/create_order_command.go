package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// LineItemInput is one requested line of a new order. The asset is resolved by ticker.
type LineItemInput struct {
	Ticker      string
	Quantity    decimal.Decimal
	Price       *decimal.Decimal
	MarketOrder bool
}

// CreateOrderCommand represents a commercial's request to open a new order for a client.
//
// Example:
//
//	price := decimal.NewFromInt(500)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), clientID, order.Buy,
//	    []LineItemInput{{Ticker: "GGAL", Quantity: decimal.NewFromInt(100), Price: &price}},
//	    order.Details{Market: "BYMA"}, actor)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	clientID  kernel.UUID
	side      order.Side
	lineItems []LineItemInput
	details   order.Details
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the shape of the request. Catalog references are
// resolved by the handler.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	clientID kernel.UUID,
	side order.Side,
	lineItems []LineItemInput,
	details order.Details,
	actor kernel.Actor,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setClientID(clientID),
		cmd.setSide(side),
		cmd.setLineItems(lineItems),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID       { return c.orderID }
func (c CreateOrderCommand) ClientID() kernel.UUID      { return c.clientID }
func (c CreateOrderCommand) Side() order.Side           { return c.side }
func (c CreateOrderCommand) LineItems() []LineItemInput { return c.lineItems }
func (c CreateOrderCommand) Details() order.Details     { return c.details }
func (c CreateOrderCommand) Actor() kernel.Actor        { return c.actor }

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setClientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredError("clientID")
	}
	c.clientID = id
	return nil
}

func (c *CreateOrderCommand) setSide(side order.Side) error {
	parsed, err := order.ParseSide(string(side))
	if err != nil {
		return err
	}
	c.side = parsed
	return nil
}

func (c *CreateOrderCommand) setLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}

	var itemErrs []error
	for i, item := range items {
		if strings.TrimSpace(item.Ticker) == "" {
			itemErrs = append(itemErrs, errs.NewValueIsRequiredErrorWithCause("ticker", fmt.Errorf("line item %d", i)))
		}
		if !item.Quantity.IsPositive() {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("line item %d: quantity %s must be positive", i, item.Quantity)))
		}
		if item.Price == nil && !item.MarketOrder {
			itemErrs = append(itemErrs, errs.NewValueIsRequiredErrorWithCause("price", fmt.Errorf("line item %d", i)))
		}
		if item.Price != nil && !item.Price.IsPositive() {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause("price",
				fmt.Errorf("line item %d: price %s must be positive", i, *item.Price)))
		}
	}
	if err := errors.Join(itemErrs...); err != nil {
		return err
	}

	c.lineItems = items
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}
