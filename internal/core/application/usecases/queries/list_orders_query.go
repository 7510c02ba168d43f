package queries

import (
	"errors"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersFilter narrows the listing. Nil fields are not filtered on; set
// fields are combined with AND.
type ListOrdersFilter struct {
	Status   *order.Status
	ClientID *kernel.UUID
}

// ListOrdersQuery lists orders newest first.
type ListOrdersQuery struct {
	filter ListOrdersFilter

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(filter ListOrdersFilter) (ListOrdersQuery, error) {
	var err error
	if filter.Status != nil {
		err = errors.Join(err, filter.Status.Validate())
	}
	if filter.ClientID != nil {
		err = errors.Join(err, filter.ClientID.Validate())
	}
	if err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ListOrdersFilter {
	return q.filter
}
