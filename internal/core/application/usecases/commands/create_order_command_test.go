package commands_test

import (
	"testing"

	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLineItems() []commands.LineItemInput {
	price := decimal.NewFromInt(500)
	return []commands.LineItemInput{{Ticker: "GGAL", Quantity: decimal.NewFromInt(100), Price: &price}}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id, clientID := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(id, clientID, order.Buy, validLineItems(),
		order.Details{Market: "BYMA"}, commercial)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, clientID, cmd.ClientID())
	assert.Equal(t, order.Buy, cmd.Side())
	assert.Len(t, cmd.LineItems(), 1)
	assert.Equal(t, "BYMA", cmd.Details().Market)
}

func TestNewCreateOrderCommand_EmptyLineItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), order.Buy, nil, order.Details{}, commercial)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "lineItems")
}

func TestNewCreateOrderCommand_InvalidLineItems(t *testing.T) {
	zero := decimal.Zero
	items := []commands.LineItemInput{
		{Ticker: "", Quantity: decimal.NewFromInt(1), MarketOrder: true},
		{Ticker: "GGAL", Quantity: decimal.NewFromInt(-5), Price: &zero},
		{Ticker: "YPF", Quantity: decimal.NewFromInt(5)},
	}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), order.Sell, items, order.Details{}, commercial)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "line item 0")
	assert.Contains(t, err.Error(), "quantity -5 must be positive")
	assert.Contains(t, err.Error(), "price 0 must be positive")
	assert.Contains(t, err.Error(), "line item 2")
}

func TestNewCreateOrderCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, kernel.UUID{}, order.Side("Hold"), validLineItems(),
		order.Details{}, kernel.Actor{})

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.Contains(t, err.Error(), "clientID")
	assert.Contains(t, err.Error(), "side")
	assert.Contains(t, err.Error(), "actor")
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	cmd := commands.CreateOrderCommand{}

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
