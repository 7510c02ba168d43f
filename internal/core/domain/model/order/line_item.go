package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
)

var (
	// ErrLineItemIsNotConstructed is returned when a LineItem was not created through
	// NewLineItem or RestoreLineItem.
	ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")
)

// LineItem is one tradable-asset instruction inside an order.
//
// LineItem follows these invariants:
//   - Requested quantity is strictly positive
//   - Requested price is strictly positive, or absent for a market order
//   - Executed quantity, once present, never exceeds the requested quantity
//   - Executed quantity never decreases
//
// Execution fields are only written by the owning Order.
type LineItem struct {
	id      kernel.UUID
	assetID kernel.UUID
	ticker  string

	// position is the zero-based submission order within the parent order
	position int

	requestedQuantity decimal.Decimal
	requestedPrice    *decimal.Decimal
	marketOrder       bool

	executedQuantity *decimal.Decimal
	executedPrice    *decimal.Decimal

	isConstructed bool
}

// NewLineItem creates an unexecuted line item.
//
// For a market order the price may be nil; when given it must still be positive.
// The ticker is normalized to upper case. Position is assigned by NewOrder.
func NewLineItem(
	id kernel.UUID,
	assetID kernel.UUID,
	ticker string,
	quantity decimal.Decimal,
	price *decimal.Decimal,
	marketOrder bool,
) (*LineItem, error) {
	item := &LineItem{marketOrder: marketOrder, isConstructed: true}

	if err := errors.Join(
		item.setID(id),
		item.setAssetID(assetID),
		item.setTicker(ticker),
		item.setRequestedQuantity(quantity),
		item.setRequestedPrice(price),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreLineItem rebuilds a line item from persisted state.
func RestoreLineItem(
	id kernel.UUID,
	assetID kernel.UUID,
	ticker string,
	position int,
	quantity decimal.Decimal,
	price *decimal.Decimal,
	marketOrder bool,
	executedQuantity *decimal.Decimal,
	executedPrice *decimal.Decimal,
) (*LineItem, error) {
	item, err := NewLineItem(id, assetID, ticker, quantity, price, marketOrder)
	if err != nil {
		return nil, err
	}
	item.position = position

	if executedQuantity != nil {
		if err := item.validateExecution(*executedQuantity, executedPrice); err != nil {
			return nil, err
		}
		item.executedQuantity = copyDecimal(executedQuantity)
		item.executedPrice = copyDecimal(executedPrice)
	}

	return item, nil
}

func (li *LineItem) Validate() error {
	if li == nil || !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

func (li *LineItem) ID() kernel.UUID {
	return li.id
}

func (li *LineItem) AssetID() kernel.UUID {
	return li.assetID
}

func (li *LineItem) Ticker() string {
	return li.ticker
}

func (li *LineItem) Position() int {
	return li.position
}

func (li *LineItem) RequestedQuantity() decimal.Decimal {
	return li.requestedQuantity
}

// RequestedPrice returns nil for a market order submitted without a price.
func (li *LineItem) RequestedPrice() *decimal.Decimal {
	return copyDecimal(li.requestedPrice)
}

func (li *LineItem) IsMarketOrder() bool {
	return li.marketOrder
}

func (li *LineItem) ExecutedQuantity() *decimal.Decimal {
	return copyDecimal(li.executedQuantity)
}

func (li *LineItem) ExecutedPrice() *decimal.Decimal {
	return copyDecimal(li.executedPrice)
}

// Remaining returns the quantity still open for execution.
func (li *LineItem) Remaining() decimal.Decimal {
	if li.executedQuantity == nil {
		return li.requestedQuantity
	}
	return li.requestedQuantity.Sub(*li.executedQuantity)
}

// IsFullyExecuted reports whether executed quantity equals requested quantity.
func (li *LineItem) IsFullyExecuted() bool {
	return li.executedQuantity != nil && li.executedQuantity.Equal(li.requestedQuantity)
}

// validateExecution checks a cumulative executed quantity and its price without mutating the item.
func (li *LineItem) validateExecution(quantity decimal.Decimal, price *decimal.Decimal) error {
	if err := checkPrecision("executedQuantity", quantity); err != nil {
		return err
	}
	if quantity.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("executedQuantity",
			fmt.Errorf("line item %s: executed quantity %s is negative", li.id, quantity))
	}
	if quantity.GreaterThan(li.requestedQuantity) {
		return errs.NewValueIsOutOfRangeError("executedQuantity", quantity.String(), "0", li.requestedQuantity.String())
	}
	if li.executedQuantity != nil && quantity.LessThan(*li.executedQuantity) {
		return errs.NewValueIsInvalidErrorWithCause("executedQuantity",
			fmt.Errorf("line item %s: executed quantity cannot decrease from %s to %s", li.id, *li.executedQuantity, quantity))
	}
	if price == nil {
		return errs.NewValueIsRequiredError("executedPrice")
	}
	if err := checkPrecision("executedPrice", *price); err != nil {
		return err
	}
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("executedPrice",
			fmt.Errorf("line item %s: executed price %s must be positive", li.id, *price))
	}
	return nil
}

func (li *LineItem) execute(quantity decimal.Decimal, price decimal.Decimal) {
	li.executedQuantity = &quantity
	li.executedPrice = &price
}

func (li *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

func (li *LineItem) setAssetID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredError("assetID")
	}
	li.assetID = id
	return nil
}

func (li *LineItem) setTicker(ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return errs.NewValueIsRequiredError("ticker")
	}
	li.ticker = ticker
	return nil
}

func (li *LineItem) setRequestedQuantity(quantity decimal.Decimal) error {
	if err := checkPrecision("quantity", quantity); err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("quantity %s must be positive", quantity))
	}
	li.requestedQuantity = quantity
	return nil
}

func (li *LineItem) setRequestedPrice(price *decimal.Decimal) error {
	if price == nil {
		if !li.marketOrder {
			return errs.NewValueIsRequiredError("price")
		}
		return nil
	}
	if err := checkPrecision("price", *price); err != nil {
		return err
	}
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("price %s must be positive", *price))
	}
	li.requestedPrice = copyDecimal(price)
	return nil
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
