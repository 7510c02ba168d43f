package queries

import (
	"context"

	"brokerage/internal/pkg/retry"

	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads order listings straight from the database, each listing
// from one snapshot.
type ListOrdersQueryHandler struct {
	db     *gorm.DB
	policy retry.Policy
}

func NewListOrdersQueryHandler(db *gorm.DB, policy retry.Policy) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db, policy: policy}
}

// Handle returns the matching orders ordered by creation time, newest first.
// An empty result is an empty slice, never nil.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := query.Filter()

	return retry.DoValue(ctx, h.policy, func() ([]OrderResponse, error) {
		var orders []OrderResponse
		err := readSnapshot(ctx, h.db, func(tx *gorm.DB) error {
			stmt := tx.Table("orders").Select(orderColumns)
			if filter.Status != nil {
				stmt = stmt.Where("status = ?", filter.Status.String())
			}
			if filter.ClientID != nil {
				stmt = stmt.Where("client_id = ?", filter.ClientID.Raw())
			}

			var err error
			orders, err = selectOrders(stmt.Order("created_at DESC, id"), "select orders")
			if err != nil {
				return err
			}

			return loadChildren(ctx, tx, orders)
		})
		if err != nil {
			return nil, err
		}
		return orders, nil
	})
}
