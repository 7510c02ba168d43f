package commands

import (
	"errors"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/guard"
)

var ErrUpdateOrderDetailsCommandIsNotConstructed = errors.New(
	"UpdateOrderDetailsCommand must be created via NewUpdateOrderDetailsCommand constructor",
)

// UpdateOrderDetailsCommand edits market, term or notes of a Pending order.
type UpdateOrderDetailsCommand struct {
	orderID kernel.UUID
	patch   order.DetailsPatch
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewUpdateOrderDetailsCommand(
	orderID kernel.UUID,
	patch order.DetailsPatch,
	actor kernel.Actor,
) (UpdateOrderDetailsCommand, error) {
	var patchErr error
	if patch.Market == nil && patch.Term == nil && patch.Notes == nil {
		patchErr = errs.NewValueIsRequiredError("market, term or notes")
	}

	if err := errors.Join(orderID.Validate(), patchErr); err != nil {
		return UpdateOrderDetailsCommand{}, err
	}

	return UpdateOrderDetailsCommand{
		orderID: orderID,
		patch:   patch,
		actor:   actor.OrSystem(),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderDetailsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderDetailsCommandIsNotConstructed)
}

func (c UpdateOrderDetailsCommand) OrderID() kernel.UUID      { return c.orderID }
func (c UpdateOrderDetailsCommand) Patch() order.DetailsPatch { return c.patch }
func (c UpdateOrderDetailsCommand) Actor() kernel.Actor       { return c.actor }
