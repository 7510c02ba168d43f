package commands

import (
	"errors"
	"strings"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move an order to a target status on behalf of an actor.
// The note, when given, is recorded as an observation.
type TransitionOrderCommand struct {
	orderID kernel.UUID
	target  order.Status
	actor   kernel.Actor
	note    string

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor kernel.Actor,
	note string,
) (TransitionOrderCommand, error) {
	var actorErr error
	if actor.IsZero() {
		actorErr = errs.NewValueIsRequiredError("actor")
	}

	if err := errors.Join(orderID.Validate(), target.Validate(), actorErr); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		target:  target,
		actor:   actor,
		note:    strings.TrimSpace(note),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c TransitionOrderCommand) Target() order.Status { return c.target }
func (c TransitionOrderCommand) Actor() kernel.Actor  { return c.actor }
func (c TransitionOrderCommand) Note() string         { return c.note }
