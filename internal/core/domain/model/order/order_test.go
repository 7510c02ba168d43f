package order_test

import (
	"errors"
	"testing"
	"time"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseTime   = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	trader1, _ = kernel.NewActor("trader-1", "Trader One", kernel.RoleTrader)
	trader2, _ = kernel.NewActor("trader-2", "Trader Two", kernel.RoleTrader)
	control, _ = kernel.NewActor("ctrl-1", "Controller", kernel.RoleController)
	sales, _   = kernel.NewActor("sales-1", "Commercial", kernel.RoleCommercial)
)

func newItem(t *testing.T, ticker string, qty, price int64) *order.LineItem {
	t.Helper()
	p := decimal.NewFromInt(price)
	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), ticker, decimal.NewFromInt(qty), &p, false)
	require.NoError(t, err)
	return item
}

func newPendingOrder(t *testing.T, items ...*order.LineItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []*order.LineItem{newItem(t, "GGAL", 100, 500)}
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "ACME SA", order.Buy, items,
		order.Details{Market: "BYMA", Term: "T+1"}, baseTime)
	require.NoError(t, err)
	return o
}

func newTakenOrder(t *testing.T, items ...*order.LineItem) *order.Order {
	t.Helper()
	o := newPendingOrder(t, items...)
	require.NoError(t, o.Take(trader1, baseTime.Add(time.Minute)))
	return o
}

func requireTransitionReason(t *testing.T, err error, reason errs.TransitionReason) {
	t.Helper()
	var transitionErr *errs.TransitionError
	require.True(t, errors.As(err, &transitionErr), "expected TransitionError, got %v", err)
	assert.Equal(t, reason, transitionErr.Reason)
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with ordered line items", func(t *testing.T) {
		first := newItem(t, "GGAL", 100, 500)
		second := newItem(t, "YPF", 5, 30000)

		o := newPendingOrder(t, first, second)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.Unknown, o.PersistedStatus())
		assert.Equal(t, "ACME SA", o.ClientName())
		assert.Equal(t, "BYMA", o.Market())
		assert.Equal(t, "T+1", o.Term())
		require.Len(t, o.LineItems(), 2)
		assert.Equal(t, 0, o.LineItems()[0].Position())
		assert.Equal(t, "YPF", o.LineItems()[1].Ticker())
		assert.Equal(t, 1, o.LineItems()[1].Position())
		assert.Equal(t, baseTime, o.CreatedAt())
		assert.Equal(t, baseTime, o.UpdatedAt())
		assert.Equal(t, int64(1), o.Version())
		assert.Empty(t, o.Observations())
	})

	t.Run("should fail with no line items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "ACME", order.Buy, nil, order.Details{}, baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "lineItems")
	})

	t.Run("should join multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, invalidID, "ACME", order.Side("Hold"), nil, order.Details{}, baseTime)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "clientID")
		assert.Contains(t, err.Error(), "side")
		assert.Contains(t, err.Error(), "lineItems")
	})
}

func TestRestoreOrder(t *testing.T) {
	item := newItem(t, "GGAL", 100, 500)
	obs, err := order.RestoreObservation(kernel.NewUUID(), "", "", "imported", baseTime)
	require.NoError(t, err)

	state := order.State{
		ID:         kernel.NewUUID(),
		ClientID:   kernel.NewUUID(),
		ClientName: "ACME",
		Side:       order.Sell,
		Status:     order.UnderReview,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime.Add(time.Hour),
		Version:    4,
	}

	t.Run("should restore persisted state", func(t *testing.T) {
		o, err := order.RestoreOrder(state, []*order.LineItem{item}, []*order.Observation{obs})

		require.NoError(t, err)
		assert.Equal(t, order.UnderReview, o.Status())
		assert.Equal(t, order.UnderReview, o.PersistedStatus())
		assert.Equal(t, int64(4), o.Version())
		assert.Empty(t, o.NewObservations())
		require.Len(t, o.Observations(), 1)
		assert.Equal(t, kernel.SystemActorID, o.Observations()[0].AuthorID())
	})

	t.Run("should reject out of enum status", func(t *testing.T) {
		bad := state
		bad.Status = order.Status(99)

		_, err := order.RestoreOrder(bad, []*order.LineItem{item}, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Take(t *testing.T) {
	t.Run("should assign trader and move to taken", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Take(trader1, baseTime.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Taken, o.Status())
		id, name := o.AssignedTrader()
		assert.Equal(t, "trader-1", id)
		assert.Equal(t, "Trader One", name)
		assert.Equal(t, baseTime.Add(time.Minute), o.UpdatedAt())
		assert.Empty(t, o.Observations())
	})

	t.Run("second take is an invalid transition", func(t *testing.T) {
		o := newTakenOrder(t)

		err := o.Take(trader2, baseTime.Add(2*time.Minute))

		requireTransitionReason(t, err, errs.ReasonInvalidTransition)
		id, _ := o.AssignedTrader()
		assert.Equal(t, "trader-1", id)
	})

	t.Run("commercial cannot take", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Take(sales, baseTime.Add(time.Minute))

		requireTransitionReason(t, err, errs.ReasonActorNotPermitted)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, baseTime, o.UpdatedAt())
	})

	t.Run("zero actor is rejected", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Take(kernel.Actor{}, baseTime.Add(time.Minute))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should record the given reason", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Cancel(trader1, "client withdrew", baseTime.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Canceled, o.Status())
		require.Len(t, o.NewObservations(), 1)
		assert.Equal(t, "client withdrew", o.NewObservations()[0].Text())
		assert.Equal(t, "trader-1", o.NewObservations()[0].AuthorID())
	})

	t.Run("should generate text when no reason is given", func(t *testing.T) {
		o := newTakenOrder(t)

		err := o.Cancel(control, "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		require.Len(t, o.Observations(), 1)
		assert.Equal(t, "cancel: Taken -> Canceled by Controller", o.Observations()[0].Text())
	})

	t.Run("canceled order freezes line items", func(t *testing.T) {
		o := newTakenOrder(t)
		require.NoError(t, o.Cancel(trader1, "", baseTime.Add(time.Hour)))
		qty := decimal.NewFromInt(10)
		price := decimal.NewFromInt(1)

		err := o.ExecuteLineItems([]order.Execution{{LineItemID: o.LineItems()[0].ID(), Quantity: qty, Price: &price}},
			trader1, "", baseTime.Add(2*time.Hour))

		requireTransitionReason(t, err, errs.ReasonInvalidTransition)
		assert.Nil(t, o.LineItems()[0].ExecutedQuantity())
	})
}

func TestOrder_Execute(t *testing.T) {
	t.Run("should fill all line items at requested price", func(t *testing.T) {
		o := newTakenOrder(t, newItem(t, "GGAL", 100, 500), newItem(t, "YPF", 3, 30000))

		err := o.Execute(trader1, "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, order.Executed, o.Status())
		for _, item := range o.LineItems() {
			assert.True(t, item.IsFullyExecuted())
			assert.True(t, item.ExecutedPrice().Equal(*item.RequestedPrice()))
		}
	})

	t.Run("market item without price cannot be bulk executed", func(t *testing.T) {
		market, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), "AL30", decimal.NewFromInt(10), nil, true)
		require.NoError(t, err)
		o := newTakenOrder(t, newItem(t, "GGAL", 100, 500), market)

		err = o.Execute(trader1, "", baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Taken, o.Status())
		assert.Nil(t, o.LineItems()[0].ExecutedQuantity())
	})

	t.Run("partial execution is not reachable through transition", func(t *testing.T) {
		o := newTakenOrder(t)

		err := o.Transition(order.PartiallyExecuted, trader1, "", baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Taken, o.Status())
	})
}

func TestOrder_ExecuteLineItems(t *testing.T) {
	fill := func(item *order.LineItem, qty, price int64) order.Execution {
		q, p := decimal.NewFromInt(qty), decimal.NewFromInt(price)
		return order.Execution{LineItemID: item.ID(), Quantity: q, Price: &p}
	}

	t.Run("full quantity results in executed", func(t *testing.T) {
		o := newTakenOrder(t)
		item := o.LineItems()[0]

		err := o.ExecuteLineItems([]order.Execution{fill(item, 100, 501)}, trader1, "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, order.Executed, o.Status())
		assert.True(t, o.LineItems()[0].ExecutedPrice().Equal(decimal.NewFromInt(501)))
	})

	t.Run("lower quantity results in partially executed", func(t *testing.T) {
		o := newTakenOrder(t)
		item := o.LineItems()[0]

		err := o.ExecuteLineItems([]order.Execution{fill(item, 60, 500)}, trader1, "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, order.PartiallyExecuted, o.Status())
		assert.True(t, o.LineItems()[0].Remaining().Equal(decimal.NewFromInt(40)))
	})

	t.Run("unmentioned line items keep the order partial", func(t *testing.T) {
		o := newTakenOrder(t, newItem(t, "GGAL", 100, 500), newItem(t, "YPF", 3, 30000))
		first := o.LineItems()[0]

		err := o.ExecuteLineItems([]order.Execution{fill(first, 100, 500)}, trader1, "", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, order.PartiallyExecuted, o.Status())
	})

	t.Run("over execution mutates nothing", func(t *testing.T) {
		o := newTakenOrder(t, newItem(t, "GGAL", 100, 500), newItem(t, "YPF", 3, 30000))
		first, second := o.LineItems()[0], o.LineItems()[1]
		before := o.UpdatedAt()

		err := o.ExecuteLineItems([]order.Execution{fill(first, 100, 500), fill(second, 4, 30000)},
			trader1, "", baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, order.Taken, o.Status())
		assert.Nil(t, o.LineItems()[0].ExecutedQuantity())
		assert.Nil(t, o.LineItems()[1].ExecutedQuantity())
		assert.Equal(t, before, o.UpdatedAt())
	})

	t.Run("unknown and duplicated line items are rejected", func(t *testing.T) {
		o := newTakenOrder(t)
		item := o.LineItems()[0]
		foreign := newItem(t, "BMA", 1, 1)

		err := o.ExecuteLineItems([]order.Execution{fill(item, 10, 500), fill(item, 20, 500), fill(foreign, 1, 1)},
			trader1, "", baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "listed more than once")
		assert.Contains(t, err.Error(), "does not belong to order")
		assert.Equal(t, order.Taken, o.Status())
	})

	t.Run("executions beyond column precision mutate nothing", func(t *testing.T) {
		o := newTakenOrder(t)
		item := o.LineItems()[0]
		tooPrecise := decimal.RequireFromString("10.00000000000000001")
		price := decimal.NewFromInt(500)
		hugePrice := decimal.RequireFromString("100000000000000000000")

		err := o.ExecuteLineItems([]order.Execution{{LineItemID: item.ID(), Quantity: tooPrecise, Price: &price}},
			trader1, "", baseTime.Add(time.Hour))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		err = o.ExecuteLineItems([]order.Execution{{LineItemID: item.ID(), Quantity: decimal.NewFromInt(1), Price: &hugePrice}},
			trader1, "", baseTime.Add(time.Hour))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		assert.Equal(t, order.Taken, o.Status())
		assert.Nil(t, o.LineItems()[0].ExecutedQuantity())
	})

	t.Run("executed quantity cannot decrease", func(t *testing.T) {
		o := newTakenOrder(t)
		item := o.LineItems()[0]
		require.NoError(t, o.ExecuteLineItems([]order.Execution{fill(item, 60, 500)}, trader1, "", baseTime.Add(time.Hour)))
		require.NoError(t, o.FlagForReview(trader1, "client asks to change price", baseTime.Add(2*time.Hour)))
		require.NoError(t, o.ResolveReview(order.Taken, control, "", baseTime.Add(3*time.Hour)))

		err := o.ExecuteLineItems([]order.Execution{fill(item, 50, 500)}, trader1, "", baseTime.Add(4*time.Hour))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		err = o.ExecuteLineItems([]order.Execution{fill(item, 100, 500)}, trader1, "done", baseTime.Add(4*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, order.Executed, o.Status())
	})

	t.Run("requires taken status", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.ExecuteLineItems([]order.Execution{fill(o.LineItems()[0], 100, 500)}, trader1, "", baseTime.Add(time.Hour))

		requireTransitionReason(t, err, errs.ReasonInvalidTransition)
	})

	t.Run("empty executions are rejected", func(t *testing.T) {
		o := newTakenOrder(t)

		err := o.ExecuteLineItems(nil, trader1, "", baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_ReviewCycle(t *testing.T) {
	o := newTakenOrder(t)

	require.NoError(t, o.FlagForReview(trader1, "price moved", baseTime.Add(time.Hour)))
	assert.Equal(t, order.UnderReview, o.Status())

	require.NoError(t, o.ResolveReview(order.Canceled, control, "client withdrew", baseTime.Add(2*time.Hour)))
	assert.Equal(t, order.Canceled, o.Status())

	texts := make([]string, 0, 2)
	for _, obs := range o.Observations() {
		texts = append(texts, obs.Text())
	}
	assert.Equal(t, []string{"price moved", "client withdrew"}, texts)

	err := o.ResolveReview(order.Taken, control, "", baseTime.Add(3*time.Hour))
	requireTransitionReason(t, err, errs.ReasonInvalidTransition)
}

func TestOrder_UpdatedAtIsMonotonic(t *testing.T) {
	o := newPendingOrder(t)
	earlier := baseTime.Add(-time.Hour)

	_, err := o.AddObservation(sales, "first", earlier)
	require.NoError(t, err)
	first := o.UpdatedAt()
	assert.True(t, first.After(baseTime))

	require.NoError(t, o.Take(trader1, earlier))
	assert.True(t, o.UpdatedAt().After(first))
}

func TestOrder_MarkPersisted(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Take(trader1, baseTime.Add(time.Minute)))
	_, err := o.AddObservation(trader1, "client called", baseTime.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, o.NewObservations(), 1)
	stored := baseTime.Add(2 * time.Minute)

	o.MarkPersisted(o.Version()+1, stored)

	assert.Equal(t, int64(2), o.Version())
	assert.Equal(t, order.Taken, o.PersistedStatus())
	assert.Equal(t, stored, o.UpdatedAt())
	assert.Empty(t, o.NewObservations())

	require.NoError(t, o.Cancel(trader1, "", baseTime))
	assert.True(t, o.UpdatedAt().After(stored))
}

func TestOrder_AddObservation(t *testing.T) {
	t.Run("should append without changing status", func(t *testing.T) {
		o := newTakenOrder(t)

		obs, err := o.AddObservation(kernel.Actor{}, "call the client back", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, order.Taken, o.Status())
		assert.Equal(t, kernel.SystemActorID, obs.AuthorID())
		assert.Equal(t, []*order.Observation{obs}, o.NewObservations())
	})

	t.Run("should allow observations on terminal orders", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Cancel(control, "dup", baseTime.Add(time.Minute)))

		_, err := o.AddObservation(control, "duplicate of another order", baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Len(t, o.Observations(), 2)
	})

	t.Run("should reject empty text", func(t *testing.T) {
		o := newPendingOrder(t)

		_, err := o.AddObservation(sales, "   ", baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Empty(t, o.Observations())
		assert.Equal(t, baseTime, o.UpdatedAt())
	})
}

func TestOrder_UpdateDetails(t *testing.T) {
	notes := "call before noon"

	t.Run("should patch pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.UpdateDetails(order.DetailsPatch{Notes: &notes}, baseTime.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, notes, o.Notes())
		assert.Equal(t, "BYMA", o.Market())
	})

	t.Run("should reject once taken", func(t *testing.T) {
		o := newTakenOrder(t)

		err := o.UpdateDetails(order.DetailsPatch{Notes: &notes}, baseTime.Add(time.Hour))

		requireTransitionReason(t, err, errs.ReasonInvalidTransition)
		assert.Empty(t, o.Notes())
	})
}
