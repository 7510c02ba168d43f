package commands_test

import (
	"testing"
	"time"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	trader, _     = kernel.NewActor("trader-1", "Trader One", kernel.RoleTrader)
	controller, _ = kernel.NewActor("ctrl-1", "Controller One", kernel.RoleController)
	commercial, _ = kernel.NewActor("sales-1", "Commercial One", kernel.RoleCommercial)
)

// fastPolicy keeps retry tests quick.
func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

// storedOrder builds an order as the repository would return it.
func storedOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	price := decimal.NewFromInt(500)
	item, err := order.RestoreLineItem(kernel.NewUUID(), kernel.NewUUID(), "GGAL", 0,
		decimal.NewFromInt(100), &price, false, nil, nil)
	require.NoError(t, err)

	assigned, assignedName := "", ""
	if status != order.Pending {
		assigned, assignedName = trader.ID(), trader.Name()
	}

	o, err := order.RestoreOrder(order.State{
		ID:                 kernel.NewUUID(),
		ClientID:           kernel.NewUUID(),
		ClientName:         "ACME SA",
		Side:               order.Buy,
		Status:             status,
		AssignedTraderID:   assigned,
		AssignedTraderName: assignedName,
		CreatedAt:          time.Now().Add(-time.Hour),
		UpdatedAt:          time.Now().Add(-time.Minute),
	}, []*order.LineItem{item}, nil)
	require.NoError(t, err)
	return o
}

// pendingOrderFor builds a stored Pending order with the given identity.
func pendingOrderFor(t *testing.T, id, clientID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), "GGAL", decimal.NewFromInt(100), nil, true)
	require.NoError(t, err)
	o, err := order.NewOrder(id, clientID, "ACME SA", order.Buy, []*order.LineItem{item}, order.Details{}, time.Now())
	require.NoError(t, err)
	return o
}
