package order

import (
	"slices"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
)

// Action names the business trigger behind a status change.
type Action string

const (
	ActionTake           Action = "take"
	ActionCancel         Action = "cancel"
	ActionExecute        Action = "execute"
	ActionExecutePartial Action = "execute-partial"
	ActionFlagForReview  Action = "flag-for-review"
	ActionResolveReview  Action = "resolve-review"
)

// Transition is one row of the lifecycle table.
type Transition struct {
	From   Status
	To     Status
	Action Action
	Roles  []kernel.Role
	// RecordsObservation forces an observation even when the caller gives no note.
	RecordsObservation bool
}

type edge struct {
	from Status
	to   Status
}

var (
	traderOrController = []kernel.Role{kernel.RoleTrader, kernel.RoleController}
	traderOnly         = []kernel.Role{kernel.RoleTrader}
	controllerOnly     = []kernel.Role{kernel.RoleController}
)

var transitionTable = map[edge]Transition{
	{Pending, Taken}:    {Action: ActionTake, Roles: traderOnly},
	{Pending, Canceled}: {Action: ActionCancel, Roles: traderOrController, RecordsObservation: true},
	// Controllers may force a review from any non-terminal state.
	{Pending, UnderReview}: {Action: ActionFlagForReview, Roles: controllerOnly, RecordsObservation: true},

	{Taken, Executed}:          {Action: ActionExecute, Roles: traderOnly},
	{Taken, PartiallyExecuted}: {Action: ActionExecutePartial, Roles: traderOnly},
	{Taken, UnderReview}:       {Action: ActionFlagForReview, Roles: traderOrController, RecordsObservation: true},
	{Taken, Canceled}:          {Action: ActionCancel, Roles: traderOrController, RecordsObservation: true},

	{PartiallyExecuted, UnderReview}: {Action: ActionFlagForReview, Roles: traderOrController, RecordsObservation: true},
	{PartiallyExecuted, Canceled}:    {Action: ActionCancel, Roles: traderOrController, RecordsObservation: true},

	{UnderReview, Taken}:    {Action: ActionResolveReview, Roles: traderOrController, RecordsObservation: true},
	{UnderReview, Canceled}: {Action: ActionResolveReview, Roles: traderOrController, RecordsObservation: true},
}

// FindTransition returns the table row for from -> to, if one exists.
func FindTransition(from, to Status) (Transition, bool) {
	t, ok := transitionTable[edge{from, to}]
	if !ok {
		return Transition{}, false
	}
	t.From, t.To = from, to
	return t, true
}

// AllowedTargets lists the statuses reachable from `from` in lifecycle order.
func AllowedTargets(from Status) []Status {
	var targets []Status
	for _, to := range Statuses() {
		if _, ok := transitionTable[edge{from, to}]; ok {
			targets = append(targets, to)
		}
	}
	return targets
}

// Permits reports whether role may trigger t.
func (t Transition) Permits(role kernel.Role) bool {
	return slices.Contains(t.Roles, role)
}

// Authorize resolves from -> to against the table and checks the actor's role.
func Authorize(from, to Status, actor kernel.Actor) (Transition, error) {
	t, ok := FindTransition(from, to)
	if !ok {
		return Transition{}, errs.NewTransitionError(errs.ReasonInvalidTransition, from.String(), to.String())
	}
	if !t.Permits(actor.Role()) {
		return Transition{}, errs.NewTransitionError(errs.ReasonActorNotPermitted, from.String(), to.String())
	}
	return t, nil
}

var creatorRoles = []kernel.Role{kernel.RoleCommercial, kernel.RoleController}

// AuthorizeCreate checks that actor may submit new orders. Creation is reported as a
// move from "none" to Pending.
func AuthorizeCreate(actor kernel.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("actor")
	}
	if !slices.Contains(creatorRoles, actor.Role()) {
		return errs.NewTransitionError(errs.ReasonActorNotPermitted, "none", Pending.String())
	}
	return nil
}
