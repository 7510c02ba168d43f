package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order represents one buy/sell instruction for a client. It is the aggregate root that
// owns its line items and observations and drives the lifecycle from Pending to a
// terminal status.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and client reference
//   - Must hold at least one line item
//   - Status is always one of the six lifecycle values
//   - UpdatedAt never moves backwards and changes on every mutation
//   - Status changes follow the transition table in transitions.go
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	id         kernel.UUID
	clientID   kernel.UUID
	clientName string
	side       Side
	status     Status

	market string
	term   string
	notes  string

	// assigned trader is empty until the order is taken
	assignedTraderID   string
	assignedTraderName string

	createdAt time.Time
	updatedAt time.Time

	lineItems    []*LineItem
	observations []*Observation

	// version counts stored writes of the order row; repositories write conditionally on it
	version int64

	// persistedStatus is the status read from storage
	persistedStatus Status

	// persistedObservations counts observations already stored
	persistedObservations int

	isConstructed bool
}

// Details holds the descriptive fields of an order.
type Details struct {
	Market string
	Term   string
	Notes  string
}

// DetailsPatch updates only the non-nil fields.
type DetailsPatch struct {
	Market *string
	Term   *string
	Notes  *string
}

// State is the persisted scalar state of an order, used by RestoreOrder.
type State struct {
	ID                 kernel.UUID
	ClientID           kernel.UUID
	ClientName         string
	Side               Side
	Status             Status
	Details            Details
	AssignedTraderID   string
	AssignedTraderName string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
}

// Execution reports the cumulative executed quantity of one line item and its price.
type Execution struct {
	LineItemID kernel.UUID
	Quantity   decimal.Decimal
	Price      *decimal.Decimal
}

// NewOrder creates a Pending order. This is the only way to create a new valid Order,
// ensuring all business invariants are maintained.
//
// Line items keep the order they are given in; their positions are assigned here.
//
// Example:
//
//	item, _ := order.NewLineItem(kernel.NewUUID(), assetID, "GGAL", decimal.NewFromInt(100), &price, false)
//	o, err := order.NewOrder(kernel.NewUUID(), clientID, "ACME", order.Buy, []*order.LineItem{item}, order.Details{}, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	clientID kernel.UUID,
	clientName string,
	side Side,
	lineItems []*LineItem,
	details Details,
	now time.Time,
) (*Order, error) {
	now = normalizeTime(now)
	order := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setClient(clientID, clientName),
		order.setSide(side),
		order.setLineItems(lineItems),
	); err != nil {
		return nil, err
	}
	order.applyDetails(details)

	return order, nil
}

// RestoreOrder rebuilds an order from persisted state. Line items are expected in
// position order and observations in creation order; ties keep the given order.
func RestoreOrder(state State, lineItems []*LineItem, observations []*Observation) (*Order, error) {
	order := &Order{
		assignedTraderID:   state.AssignedTraderID,
		assignedTraderName: state.AssignedTraderName,
		createdAt:          normalizeTime(state.CreatedAt),
		updatedAt:          normalizeTime(state.UpdatedAt),
		version:            state.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		order.setID(state.ID),
		order.setClient(state.ClientID, state.ClientName),
		order.setSide(state.Side),
		order.setStatus(state.Status),
		order.setLineItems(lineItems),
		order.setObservations(observations),
	); err != nil {
		return nil, err
	}
	order.applyDetails(state.Details)

	order.persistedStatus = order.status
	order.persistedObservations = len(order.observations)

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID       { return o.id }
func (o *Order) ClientID() kernel.UUID { return o.clientID }
func (o *Order) ClientName() string    { return o.clientName }
func (o *Order) Side() Side            { return o.side }
func (o *Order) Status() Status        { return o.status }
func (o *Order) Market() string        { return o.market }
func (o *Order) Term() string          { return o.term }
func (o *Order) Notes() string         { return o.notes }
func (o *Order) CreatedAt() time.Time  { return o.createdAt }
func (o *Order) UpdatedAt() time.Time  { return o.updatedAt }
func (o *Order) Version() int64        { return o.version }

// AssignedTrader returns the trader recorded by the take action, or empty strings.
func (o *Order) AssignedTrader() (id string, name string) {
	return o.assignedTraderID, o.assignedTraderName
}

// LineItems returns the line items in submission order.
func (o *Order) LineItems() []*LineItem {
	return slices.Clone(o.lineItems)
}

// Observations returns every observation in creation order.
func (o *Order) Observations() []*Observation {
	return slices.Clone(o.observations)
}

// NewObservations returns the observations appended since the order was created or restored.
func (o *Order) NewObservations() []*Observation {
	return slices.Clone(o.observations[o.persistedObservations:])
}

// PersistedStatus returns the status the order had when it was loaded.
// It is Unknown for an order that was never stored.
func (o *Order) PersistedStatus() Status {
	return o.persistedStatus
}

// MarkPersisted is called by repositories after a successful conditional write. The
// stored version and updated_at become the baseline of the next write.
func (o *Order) MarkPersisted(version int64, updatedAt time.Time) {
	o.version = version
	o.updatedAt = normalizeTime(updatedAt)
	o.persistedStatus = o.status
	o.persistedObservations = len(o.observations)
}

// AllowedTargets lists the statuses the order can move to from its current status.
func (o *Order) AllowedTargets() []Status {
	return AllowedTargets(o.status)
}

// Take assigns the actor as trader and moves the order from Pending to Taken.
func (o *Order) Take(actor kernel.Actor, now time.Time) error {
	return o.Transition(Taken, actor, "", now)
}

// Cancel moves a non-terminal order to Canceled and records the reason.
func (o *Order) Cancel(actor kernel.Actor, reason string, now time.Time) error {
	return o.Transition(Canceled, actor, reason, now)
}

// Execute fills every line item at its requested price and moves Taken to Executed.
func (o *Order) Execute(actor kernel.Actor, note string, now time.Time) error {
	return o.Transition(Executed, actor, note, now)
}

// FlagForReview moves the order to UnderReview and records why.
func (o *Order) FlagForReview(actor kernel.Actor, note string, now time.Time) error {
	return o.Transition(UnderReview, actor, note, now)
}

// ResolveReview leaves UnderReview towards Taken or Canceled.
func (o *Order) ResolveReview(to Status, actor kernel.Actor, note string, now time.Time) error {
	if o.status != UnderReview {
		return errs.NewTransitionError(errs.ReasonInvalidTransition, o.status.String(), to.String())
	}
	return o.Transition(to, actor, note, now)
}

// Transition moves the order to status `to` on behalf of actor.
//
// This method enforces the following business rules:
//   - The pair (current status, to) must exist in the transition table
//   - The actor's role must be allowed for that row
//   - Side effects of the row are applied (trader assignment, full execution)
//   - An observation is appended when a note is given or the row mandates one
//   - UpdatedAt moves forward
//
// Nothing is mutated when an error is returned. PartiallyExecuted can only be
// reached through ExecuteLineItems.
func (o *Order) Transition(to Status, actor kernel.Actor, note string, now time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("actor")
	}

	t, err := Authorize(o.status, to, actor)
	if err != nil {
		return err
	}

	var fills []Execution
	switch t.Action {
	case ActionExecutePartial:
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New("partial execution requires per line item executions"))
	case ActionExecute:
		if fills, err = o.fullFills(); err != nil {
			return err
		}
	}

	now = o.nextTimestamp(now)
	obs, err := o.observationFor(t, actor, note, now)
	if err != nil {
		return err
	}

	switch t.Action {
	case ActionTake:
		o.assignedTraderID, o.assignedTraderName = actor.ID(), actor.Name()
	case ActionResolveReview:
		if to == Taken && o.assignedTraderID == "" && actor.Role() == kernel.RoleTrader {
			o.assignedTraderID, o.assignedTraderName = actor.ID(), actor.Name()
		}
	}
	o.applyFills(fills)

	o.status = to
	o.appendObservation(obs)
	o.updatedAt = now
	return nil
}

// ExecuteLineItems records execution progress for some or all line items.
//
// Each execution carries the new cumulative executed quantity of its line item, which must
// be positive, not above the requested quantity and not below what was already executed.
// The order must currently be Taken. The resulting status is Executed when every line
// item is fully executed and PartiallyExecuted otherwise. The call is all-or-nothing.
func (o *Order) ExecuteLineItems(executions []Execution, actor kernel.Actor, note string, now time.Time) error {
	if len(executions) == 0 {
		return errs.NewValueIsRequiredError("executions")
	}
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("actor")
	}
	if o.status != Taken {
		return errs.NewTransitionErrorWithCause(errs.ReasonInvalidTransition, o.status.String(), PartiallyExecuted.String(),
			errors.New("line items can only be executed while the order is Taken"))
	}

	byID := make(map[kernel.UUID]*LineItem, len(o.lineItems))
	for _, item := range o.lineItems {
		byID[item.ID()] = item
	}

	seen := make(map[kernel.UUID]struct{}, len(executions))
	fills := make([]Execution, 0, len(executions))
	var validationErrs []error
	for _, ex := range executions {
		item, ok := byID[ex.LineItemID]
		if !ok {
			validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("lineItemID",
				fmt.Errorf("line item %s does not belong to order %s", ex.LineItemID, o.id)))
			continue
		}
		if _, dup := seen[ex.LineItemID]; dup {
			validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("lineItemID",
				fmt.Errorf("line item %s is listed more than once", ex.LineItemID)))
			continue
		}
		seen[ex.LineItemID] = struct{}{}

		if !ex.Quantity.IsPositive() {
			validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("executedQuantity",
				fmt.Errorf("line item %s: executed quantity %s must be positive", ex.LineItemID, ex.Quantity)))
			continue
		}
		if err := item.validateExecution(ex.Quantity, ex.Price); err != nil {
			validationErrs = append(validationErrs, err)
			continue
		}
		fills = append(fills, ex)
	}
	if err := errors.Join(validationErrs...); err != nil {
		return err
	}

	target := Executed
	for _, item := range o.lineItems {
		executed := item.executedQuantity
		if _, ok := seen[item.ID()]; ok {
			for _, f := range fills {
				if f.LineItemID == item.ID() {
					executed = &f.Quantity
				}
			}
		}
		if executed == nil || !executed.Equal(item.requestedQuantity) {
			target = PartiallyExecuted
			break
		}
	}

	t, err := Authorize(o.status, target, actor)
	if err != nil {
		return err
	}

	now = o.nextTimestamp(now)
	obs, err := o.observationFor(t, actor, note, now)
	if err != nil {
		return err
	}

	o.applyFills(fills)
	o.status = target
	o.appendObservation(obs)
	o.updatedAt = now
	return nil
}

// UpdateDetails edits market, term and notes. Only Pending orders are editable.
func (o *Order) UpdateDetails(patch DetailsPatch, now time.Time) error {
	if o.status != Pending {
		return errs.NewTransitionErrorWithCause(errs.ReasonInvalidTransition, o.status.String(), o.status.String(),
			errors.New("order details are editable only while Pending"))
	}

	details := Details{Market: o.market, Term: o.term, Notes: o.notes}
	if patch.Market != nil {
		details.Market = *patch.Market
	}
	if patch.Term != nil {
		details.Term = *patch.Term
	}
	if patch.Notes != nil {
		details.Notes = *patch.Notes
	}
	o.applyDetails(details)
	o.updatedAt = o.nextTimestamp(now)
	return nil
}

// AddObservation appends a free-text observation. The status is never changed and
// the zero actor is recorded as the system actor.
func (o *Order) AddObservation(author kernel.Actor, text string, now time.Time) (*Observation, error) {
	now = o.nextTimestamp(now)
	obs, err := NewObservation(kernel.NewUUID(), author, text, now)
	if err != nil {
		return nil, err
	}
	o.appendObservation(obs)
	o.updatedAt = now
	return obs, nil
}

func (o *Order) fullFills() ([]Execution, error) {
	fills := make([]Execution, 0, len(o.lineItems))
	for _, item := range o.lineItems {
		price := item.requestedPrice
		if price == nil {
			return nil, errs.NewValueIsRequiredErrorWithCause("executedPrice",
				fmt.Errorf("market line item %s has no price; report it through line item executions", item.ID()))
		}
		fills = append(fills, Execution{LineItemID: item.ID(), Quantity: item.requestedQuantity, Price: price})
	}
	return fills, nil
}

func (o *Order) applyFills(fills []Execution) {
	for _, f := range fills {
		for _, item := range o.lineItems {
			if item.ID() == f.LineItemID {
				item.execute(f.Quantity, *f.Price)
			}
		}
	}
}

func (o *Order) observationFor(t Transition, actor kernel.Actor, note string, now time.Time) (*Observation, error) {
	text := strings.TrimSpace(note)
	if text == "" {
		if !t.RecordsObservation {
			return nil, nil
		}
		text = fmt.Sprintf("%s: %s -> %s by %s", t.Action, t.From, t.To, actor.Name())
	}
	return NewObservation(kernel.NewUUID(), actor, text, now)
}

func (o *Order) appendObservation(obs *Observation) {
	if obs != nil {
		o.observations = append(o.observations, obs)
	}
}

// nextTimestamp returns a timestamp strictly after UpdatedAt.
func (o *Order) nextTimestamp(now time.Time) time.Time {
	now = normalizeTime(now)
	if !now.After(o.updatedAt) {
		return o.updatedAt.Add(time.Microsecond)
	}
	return now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClient(clientID kernel.UUID, clientName string) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredError("clientID")
	}
	o.clientID = clientID
	o.clientName = strings.TrimSpace(clientName)
	return nil
}

func (o *Order) setSide(side Side) error {
	if _, err := ParseSide(string(side)); err != nil {
		return err
	}
	o.side = side
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setLineItems(items []*LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		item.position = i
	}
	o.lineItems = slices.Clone(items)
	return nil
}

func (o *Order) setObservations(observations []*Observation) error {
	for _, obs := range observations {
		if err := obs.Validate(); err != nil {
			return err
		}
	}
	o.observations = slices.Clone(observations)
	return nil
}

func (o *Order) applyDetails(d Details) {
	o.market = strings.TrimSpace(d.Market)
	o.term = strings.TrimSpace(d.Term)
	o.notes = strings.TrimSpace(d.Notes)
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
