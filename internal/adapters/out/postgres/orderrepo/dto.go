// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored in its canonical string form and constrained to the six lifecycle values.
// Version is bumped by every conditional update of the row.
// Line items and observations are deleted together with their order.
type OrderDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ClientName         string    `gorm:"type:varchar(255);not null"`
	Side               string    `gorm:"type:varchar(8);not null;check:chk_orders_side,side IN ('Buy','Sell')"`
	Status             string    `gorm:"type:varchar(32);not null;index;check:chk_orders_status,status IN ('Pending','Taken','Executed','PartiallyExecuted','UnderReview','Canceled')"`
	Market             string    `gorm:"type:varchar(255);not null;default:''"`
	Term               string    `gorm:"type:varchar(255);not null;default:''"`
	Notes              string    `gorm:"type:text;not null;default:''"`
	AssignedTraderID   string    `gorm:"type:varchar(255);not null;default:''"`
	AssignedTraderName string    `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt          time.Time `gorm:"type:timestamptz;not null;index;autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	Version            int64     `gorm:"not null;default:1"`

	LineItems    []LineItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Observations []ObservationDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO stores one line item. Execution columns stay NULL until the item is executed.
type LineItemDTO struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID           `gorm:"type:uuid;not null;index:idx_line_items_order_position,priority:1"`
	Position          int                 `gorm:"not null;index:idx_line_items_order_position,priority:2"`
	AssetID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	Ticker            string              `gorm:"type:varchar(32);not null"`
	RequestedQuantity decimal.Decimal     `gorm:"type:numeric(32,16);not null"`
	RequestedPrice    decimal.NullDecimal `gorm:"type:numeric(32,16)"`
	MarketOrder       bool                `gorm:"not null;default:false"`
	ExecutedQuantity  decimal.NullDecimal `gorm:"type:numeric(32,16)"`
	ExecutedPrice     decimal.NullDecimal `gorm:"type:numeric(32,16)"`
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

// ObservationDTO stores one observation. Seq breaks ties between equal creation times.
type ObservationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq        int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	AuthorID   string    `gorm:"type:varchar(255);not null"`
	AuthorName string    `gorm:"type:varchar(255);not null"`
	Text       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null;autoCreateTime:false"`
}

func (ObservationDTO) TableName() string {
	return "order_observations"
}

// fromDomain converts an order aggregate to its database representation, including
// every line item and observation.
func fromDomain(aggregate *order.Order) OrderDTO {
	traderID, traderName := aggregate.AssignedTrader()

	dto := OrderDTO{
		ID:                 aggregate.ID().Raw(),
		ClientID:           aggregate.ClientID().Raw(),
		ClientName:         aggregate.ClientName(),
		Side:               aggregate.Side().String(),
		Status:             aggregate.Status().String(),
		Market:             aggregate.Market(),
		Term:               aggregate.Term(),
		Notes:              aggregate.Notes(),
		AssignedTraderID:   traderID,
		AssignedTraderName: traderName,
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
		Version:            aggregate.Version(),
	}

	for _, item := range aggregate.LineItems() {
		dto.LineItems = append(dto.LineItems, lineItemFromDomain(dto.ID, item))
	}
	for _, obs := range aggregate.Observations() {
		dto.Observations = append(dto.Observations, observationFromDomain(dto.ID, obs))
	}

	return dto
}

func lineItemFromDomain(orderID uuid.UUID, item *order.LineItem) LineItemDTO {
	return LineItemDTO{
		ID:                item.ID().Raw(),
		OrderID:           orderID,
		Position:          item.Position(),
		AssetID:           item.AssetID().Raw(),
		Ticker:            item.Ticker(),
		RequestedQuantity: item.RequestedQuantity(),
		RequestedPrice:    nullDecimal(item.RequestedPrice()),
		MarketOrder:       item.IsMarketOrder(),
		ExecutedQuantity:  nullDecimal(item.ExecutedQuantity()),
		ExecutedPrice:     nullDecimal(item.ExecutedPrice()),
	}
}

func observationFromDomain(orderID uuid.UUID, obs *order.Observation) ObservationDTO {
	return ObservationDTO{
		ID:         obs.ID().Raw(),
		OrderID:    orderID,
		AuthorID:   obs.AuthorID(),
		AuthorName: obs.AuthorName(),
		Text:       obs.Text(),
		CreatedAt:  obs.CreatedAt(),
	}
}

// toDomain converts a database DTO with preloaded children to an order aggregate.
// A status outside the canonical vocabulary is rejected here.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	side, err := order.ParseSide(dto.Side)
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	observations := make([]*order.Observation, 0, len(dto.Observations))
	for _, obsDTO := range dto.Observations {
		obs, obsErr := observationToDomain(obsDTO)
		if obsErr != nil {
			return nil, obsErr
		}
		observations = append(observations, obs)
	}

	return order.RestoreOrder(order.State{
		ID:                 id,
		ClientID:           clientID,
		ClientName:         dto.ClientName,
		Side:               side,
		Status:             status,
		Details:            order.Details{Market: dto.Market, Term: dto.Term, Notes: dto.Notes},
		AssignedTraderID:   dto.AssignedTraderID,
		AssignedTraderName: dto.AssignedTraderName,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	}, items, observations)
}

func lineItemToDomain(dto LineItemDTO) (*order.LineItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	assetID, err := kernel.UUIDFromBytes(dto.AssetID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreLineItem(id, assetID, dto.Ticker, dto.Position,
		dto.RequestedQuantity, decimalPtr(dto.RequestedPrice), dto.MarketOrder,
		decimalPtr(dto.ExecutedQuantity), decimalPtr(dto.ExecutedPrice))
}

func observationToDomain(dto ObservationDTO) (*order.Observation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return order.RestoreObservation(id, dto.AuthorID, dto.AuthorName, dto.Text, dto.CreatedAt)
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
