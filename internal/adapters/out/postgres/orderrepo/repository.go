package orderrepo

import (
	"context"
	"errors"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// advanceUpdatedAt never moves updated_at back and always changes it.
const advanceUpdatedAt = "GREATEST(updated_at + interval '1 microsecond', ?)"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its line items and observations. An order whose ID is
// already stored fails with an ObjectAlreadyExistsError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", aggregate.ID().String(), err)
		}
		return errs.NewDependencyError("insert order", err)
	}

	aggregate.MarkPersisted(aggregate.Version(), aggregate.UpdatedAt())
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order row conditionally on the version it was loaded with, then the
// execution columns of its line items and any observations appended since loading.
// updated_at moves strictly forward and the stored value is fed back into the aggregate.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	expected := aggregate.PersistedStatus()

	var stored OrderDTO
	result := db.Model(&stored).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "version"}, {Name: "updated_at"}}}).
		Where("id = ? AND version = ? AND status = ?", dto.ID, dto.Version, expected.String()).
		Updates(map[string]any{
			"status":               dto.Status,
			"market":               dto.Market,
			"term":                 dto.Term,
			"notes":                dto.Notes,
			"assigned_trader_id":   dto.AssignedTraderID,
			"assigned_trader_name": dto.AssignedTraderName,
			"updated_at":           gorm.Expr(advanceUpdatedAt, dto.UpdatedAt),
			"version":              gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return errs.NewDependencyError("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewTransitionError(errs.ReasonStaleState, expected.String(), aggregate.Status().String())
	}

	for _, item := range dto.LineItems {
		if !item.ExecutedQuantity.Valid {
			continue
		}
		err := db.Model(&LineItemDTO{}).
			Where("id = ? AND order_id = ?", item.ID, dto.ID).
			Updates(map[string]any{
				"executed_quantity": item.ExecutedQuantity,
				"executed_price":    item.ExecutedPrice,
			}).Error
		if err != nil {
			return errs.NewDependencyError("update line item", err)
		}
	}

	if err := r.insertObservations(ctx, dto.ID, aggregate.NewObservations()); err != nil {
		return err
	}

	aggregate.MarkPersisted(stored.Version, stored.UpdatedAt)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its children in display order.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Observations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, seq ASC")
		}).
		First(&dto, "id = ?", id.Raw()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, errs.NewDependencyError("select order", err)
	}

	return toDomain(dto)
}

// AppendObservation inserts obs and moves updated_at strictly forward. Neither the status
// nor the version is checked or changed.
func (r *GormOrderRepository) AppendObservation(ctx context.Context, orderID kernel.UUID, obs *order.Observation) error {
	if err := obs.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", orderID.Raw()).
		Update("updated_at", gorm.Expr(advanceUpdatedAt, obs.CreatedAt()))
	if result.Error != nil {
		return errs.NewDependencyError("touch order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", orderID.String())
	}

	return r.insertObservations(ctx, orderID.Raw(), []*order.Observation{obs})
}

// Delete removes the order. The foreign keys cascade to line items and observations.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Raw())
	if result.Error != nil {
		return errs.NewDependencyError("delete order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}

func (r *GormOrderRepository) insertObservations(ctx context.Context, orderID uuid.UUID, observations []*order.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	dtos := make([]ObservationDTO, 0, len(observations))
	for _, obs := range observations {
		dtos = append(dtos, observationFromDomain(orderID, obs))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return errs.NewDependencyError("insert observation", err)
	}
	return nil
}

func (r *GormOrderRepository) exists(ctx context.Context, id kernel.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Raw()).Count(&count).Error; err != nil {
		return false, errs.NewDependencyError("select order", err)
	}
	return count > 0, nil
}
