package queries

import (
	"context"
	"database/sql"
	"time"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderResponse is the read model of an order with its line items and observations.
type OrderResponse struct {
	ID                 kernel.UUID
	ClientID           kernel.UUID
	ClientName         string
	Side               order.Side
	Status             order.Status
	Market             string
	Term               string
	Notes              string
	AssignedTraderID   string
	AssignedTraderName string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	// AllowedTargets lists the statuses reachable from Status, in lifecycle order.
	AllowedTargets []order.Status
	LineItems      []LineItemResponse
	Observations   []ObservationResponse
}

type LineItemResponse struct {
	ID                kernel.UUID
	Position          int
	AssetID           kernel.UUID
	Ticker            string
	RequestedQuantity decimal.Decimal
	RequestedPrice    *decimal.Decimal
	MarketOrder       bool
	ExecutedQuantity  *decimal.Decimal
	ExecutedPrice     *decimal.Decimal
}

type ObservationResponse struct {
	ID         kernel.UUID
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// FromOrder builds the read model from an aggregate returned by a command.
func FromOrder(o *order.Order) OrderResponse {
	traderID, traderName := o.AssignedTrader()
	resp := OrderResponse{
		ID:                 o.ID(),
		ClientID:           o.ClientID(),
		ClientName:         o.ClientName(),
		Side:               o.Side(),
		Status:             o.Status(),
		Market:             o.Market(),
		Term:               o.Term(),
		Notes:              o.Notes(),
		AssignedTraderID:   traderID,
		AssignedTraderName: traderName,
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		AllowedTargets:     o.AllowedTargets(),
		LineItems:          make([]LineItemResponse, 0, len(o.LineItems())),
		Observations:       make([]ObservationResponse, 0, len(o.Observations())),
	}
	for _, item := range o.LineItems() {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ID:                item.ID(),
			Position:          item.Position(),
			AssetID:           item.AssetID(),
			Ticker:            item.Ticker(),
			RequestedQuantity: item.RequestedQuantity(),
			RequestedPrice:    item.RequestedPrice(),
			MarketOrder:       item.IsMarketOrder(),
			ExecutedQuantity:  item.ExecutedQuantity(),
			ExecutedPrice:     item.ExecutedPrice(),
		})
	}
	for _, obs := range o.Observations() {
		resp.Observations = append(resp.Observations, FromObservation(obs))
	}
	return resp
}

func FromObservation(obs *order.Observation) ObservationResponse {
	return ObservationResponse{
		ID:         obs.ID(),
		AuthorID:   obs.AuthorID(),
		AuthorName: obs.AuthorName(),
		Text:       obs.Text(),
		CreatedAt:  obs.CreatedAt(),
	}
}

const orderColumns = `
	id,
	client_id,
	client_name,
	side,
	status,
	market,
	term,
	notes,
	assigned_trader_id,
	assigned_trader_name,
	created_at,
	updated_at`

// selectOrders runs stmt and scans every row. The rows are closed before it returns, so
// the same transaction can be queried again.
func selectOrders(stmt *gorm.DB, operation string) ([]OrderResponse, error) {
	rows, err := stmt.Rows()
	if err != nil {
		return nil, errs.NewDependencyError(operation, err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]OrderResponse, error) {
	orders := make([]OrderResponse, 0)

	for rows.Next() {
		var resp OrderResponse
		var id, clientID uuid.UUID
		var side, status string

		err := rows.Scan(
			&id,
			&clientID,
			&resp.ClientName,
			&side,
			&status,
			&resp.Market,
			&resp.Term,
			&resp.Notes,
			&resp.AssignedTraderID,
			&resp.AssignedTraderName,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, errs.NewDependencyError("scan order", err)
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.ClientID, err = kernel.UUIDFromBytes(clientID[:]); err != nil {
			return nil, err
		}
		if resp.Side, err = order.ParseSide(side); err != nil {
			return nil, err
		}
		if resp.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		resp.CreatedAt = resp.CreatedAt.UTC()
		resp.UpdatedAt = resp.UpdatedAt.UTC()
		resp.AllowedTargets = order.AllowedTargets(resp.Status)
		resp.LineItems = make([]LineItemResponse, 0)
		resp.Observations = make([]ObservationResponse, 0)

		orders = append(orders, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewDependencyError("scan order", err)
	}

	return orders, nil
}

// readSnapshot runs read in one read-only repeatable-read transaction, so an order row
// and its children come from the same snapshot.
func readSnapshot(ctx context.Context, db *gorm.DB, read func(tx *gorm.DB) error) error {
	var readErr error
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		readErr = read(tx)
		return readErr
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if readErr != nil {
		return readErr
	}
	if err != nil {
		return errs.NewDependencyError("read snapshot", err)
	}
	return nil
}

// loadChildren fills line items and observations of every order in place.
func loadChildren(ctx context.Context, db *gorm.DB, orders []OrderResponse) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	byID := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		raw := orders[i].ID.Raw()
		ids = append(ids, raw)
		byID[raw] = i
	}

	if err := loadLineItems(ctx, db, ids, func(orderID uuid.UUID, item LineItemResponse) {
		idx := byID[orderID]
		orders[idx].LineItems = append(orders[idx].LineItems, item)
	}); err != nil {
		return err
	}

	return loadObservations(ctx, db, ids, func(orderID uuid.UUID, obs ObservationResponse) {
		idx := byID[orderID]
		orders[idx].Observations = append(orders[idx].Observations, obs)
	})
}

func loadLineItems(ctx context.Context, db *gorm.DB, ids []uuid.UUID, add func(uuid.UUID, LineItemResponse)) error {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			position,
			asset_id,
			ticker,
			requested_quantity,
			requested_price,
			market_order,
			executed_quantity,
			executed_price
		FROM order_line_items
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, ids).Rows()
	if err != nil {
		return errs.NewDependencyError("select line items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItemResponse
		var id, orderID, assetID uuid.UUID
		var price, executedQty, executedPrice decimal.NullDecimal

		err = rows.Scan(
			&id,
			&orderID,
			&item.Position,
			&assetID,
			&item.Ticker,
			&item.RequestedQuantity,
			&price,
			&item.MarketOrder,
			&executedQty,
			&executedPrice,
		)
		if err != nil {
			return errs.NewDependencyError("scan line item", err)
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return err
		}
		if item.AssetID, err = kernel.UUIDFromBytes(assetID[:]); err != nil {
			return err
		}
		item.RequestedPrice = nullable(price)
		item.ExecutedQuantity = nullable(executedQty)
		item.ExecutedPrice = nullable(executedPrice)

		add(orderID, item)
	}

	if err = rows.Err(); err != nil {
		return errs.NewDependencyError("scan line item", err)
	}
	return nil
}

func loadObservations(ctx context.Context, db *gorm.DB, ids []uuid.UUID, add func(uuid.UUID, ObservationResponse)) error {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			author_id,
			author_name,
			text,
			created_at
		FROM order_observations
		WHERE order_id IN ?
		ORDER BY created_at, seq
	`, ids).Rows()
	if err != nil {
		return errs.NewDependencyError("select observations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var obs ObservationResponse
		var id, orderID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&obs.AuthorID,
			&obs.AuthorName,
			&obs.Text,
			&obs.CreatedAt,
		)
		if err != nil {
			return errs.NewDependencyError("scan observation", err)
		}

		if obs.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return err
		}
		obs.CreatedAt = obs.CreatedAt.UTC()

		add(orderID, obs)
	}

	if err = rows.Err(); err != nil {
		return errs.NewDependencyError("scan observation", err)
	}
	return nil
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
