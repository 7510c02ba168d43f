// Package ports defines repository interfaces for the order desk domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates together with
// their line items and observations.
type OrderRepository interface {
	// Add persists a new order and its line items.
	// The order must be valid; an ID that is already stored fails with ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, details, line item executions and new observations.
	//
	// The order row is written only if its stored version still equals
	// aggregate.Version() and its status still equals aggregate.PersistedStatus(). When
	// another writer changed it first the call fails with a TransitionError carrying the
	// stale-state reason; when the order no longer exists it fails with an
	// ObjectNotFoundError. On success the aggregate takes the stored version and
	// updated_at, which is strictly later than the previous one.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with line items in submission order and observations in
	// creation order. Returns ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AppendObservation inserts obs and moves the order's updated_at forward without
	// looking at its status. Returns ObjectNotFoundError when the order is absent.
	AppendObservation(ctx context.Context, orderID kernel.UUID, obs *order.Observation) error

	// Delete removes the order; line items and observations go with it.
	// Returns ObjectNotFoundError when absent.
	Delete(ctx context.Context, id kernel.UUID) error
}
