package commands

import (
	"errors"
	"strings"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/guard"
)

var ErrExecuteLineItemsCommandIsNotConstructed = errors.New(
	"ExecuteLineItemsCommand must be created via NewExecuteLineItemsCommand constructor",
)

// ExecuteLineItemsCommand reports execution progress for line items of a Taken order.
// Each execution carries the new cumulative executed quantity of its line item.
type ExecuteLineItemsCommand struct {
	orderID    kernel.UUID
	executions []order.Execution
	actor      kernel.Actor
	note       string

	guard guard.ConstructorGuard
}

func NewExecuteLineItemsCommand(
	orderID kernel.UUID,
	executions []order.Execution,
	actor kernel.Actor,
	note string,
) (ExecuteLineItemsCommand, error) {
	var execErr, actorErr error
	if len(executions) == 0 {
		execErr = errs.NewValueIsRequiredError("executions")
	}
	if actor.IsZero() {
		actorErr = errs.NewValueIsRequiredError("actor")
	}

	if err := errors.Join(orderID.Validate(), execErr, actorErr); err != nil {
		return ExecuteLineItemsCommand{}, err
	}

	return ExecuteLineItemsCommand{
		orderID:    orderID,
		executions: executions,
		actor:      actor,
		note:       strings.TrimSpace(note),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExecuteLineItemsCommand) Validate() error {
	return c.guard.Validate(ErrExecuteLineItemsCommandIsNotConstructed)
}

func (c ExecuteLineItemsCommand) OrderID() kernel.UUID          { return c.orderID }
func (c ExecuteLineItemsCommand) Executions() []order.Execution { return c.executions }
func (c ExecuteLineItemsCommand) Actor() kernel.Actor           { return c.actor }
func (c ExecuteLineItemsCommand) Note() string                  { return c.note }
