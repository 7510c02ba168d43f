package commands

import (
	"errors"
	"strings"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/guard"
)

var ErrAddObservationCommandIsNotConstructed = errors.New(
	"AddObservationCommand must be created via NewAddObservationCommand constructor",
)

// AddObservationCommand appends a comment to an order. A zero author is recorded as the
// system actor.
type AddObservationCommand struct {
	orderID kernel.UUID
	text    string
	author  kernel.Actor

	guard guard.ConstructorGuard
}

func NewAddObservationCommand(orderID kernel.UUID, text string, author kernel.Actor) (AddObservationCommand, error) {
	text = strings.TrimSpace(text)

	var textErr error
	if text == "" {
		textErr = errs.NewValueIsRequiredError("text")
	}

	if err := errors.Join(orderID.Validate(), textErr); err != nil {
		return AddObservationCommand{}, err
	}

	return AddObservationCommand{
		orderID: orderID,
		text:    text,
		author:  author.OrSystem(),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AddObservationCommand) Validate() error {
	return c.guard.Validate(ErrAddObservationCommandIsNotConstructed)
}

func (c AddObservationCommand) OrderID() kernel.UUID { return c.orderID }
func (c AddObservationCommand) Text() string         { return c.text }
func (c AddObservationCommand) Author() kernel.Actor { return c.author }
