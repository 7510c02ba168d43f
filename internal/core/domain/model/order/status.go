package order

import (
	"fmt"

	"brokerage/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions (see transitions.go for roles):
//
//	Pending ──> Taken ──┬──> Executed
//	   │          │     └──> PartiallyExecuted ──┐
//	   │          └──────────────────────────────┴──> UnderReview ──> Taken | Canceled
//	   └──────────────────────> Canceled (from any non-terminal state)
//
// The string form is the only serialization accepted by ParseStatus, both for
// persistence and for API input.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status; the order awaits a trader.
	Pending

	// Taken means a trader has picked the order up.
	Taken

	// Executed means every line item was fully executed. Terminal.
	Executed

	// PartiallyExecuted means at least one line item has an open remainder.
	PartiallyExecuted

	// UnderReview means the order was flagged and awaits resolution.
	UnderReview

	// Canceled is terminal; line items are frozen.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "Unknown",
		Pending:           "Pending",
		Taken:             "Taken",
		Executed:          "Executed",
		PartiallyExecuted: "PartiallyExecuted",
		UnderReview:       "UnderReview",
		Canceled:          "Canceled",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Taken, Executed, PartiallyExecuted, UnderReview, Canceled}
}

// ParseStatus maps a canonical status name to its Status. Matching is exact:
// "pending" or "en_proceso" are rejected.
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Canceled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name, or "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Executed || s == Canceled
}
