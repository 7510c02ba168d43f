package order

import (
	"fmt"

	"brokerage/internal/pkg/errs"
)

// Side is the operation type of an order.
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// ParseSide accepts exactly "Buy" or "Sell".
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Buy, Sell:
		return Side(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("side", fmt.Errorf("%q is not Buy or Sell", s))
	}
}

func (s Side) String() string {
	return string(s)
}
