package queries

import (
	"context"

	"brokerage/internal/pkg/errs"
	"brokerage/internal/pkg/retry"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order straight from the database. The order row and
// its children are read from one snapshot.
type GetOrderQueryHandler struct {
	db     *gorm.DB
	policy retry.Policy
}

func NewGetOrderQueryHandler(db *gorm.DB, policy retry.Policy) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, policy: policy}
}

// Handle returns the order or an ObjectNotFoundError. A status value outside the
// lifecycle vocabulary is reported as a validation error rather than passed through.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	return retry.DoValue(ctx, h.policy, func() (OrderResponse, error) {
		var resp OrderResponse
		err := readSnapshot(ctx, h.db, func(tx *gorm.DB) error {
			orders, err := selectOrders(tx.Raw(`
				SELECT `+orderColumns+`
				FROM orders
				WHERE id = ?
			`, query.OrderID().Raw()), "select order")
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				return errs.NewObjectNotFoundError("order", query.OrderID().String())
			}

			if err := loadChildren(ctx, tx, orders); err != nil {
				return err
			}
			resp = orders[0]
			return nil
		})
		return resp, err
	})
}
