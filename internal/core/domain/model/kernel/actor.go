package kernel

import (
	"fmt"
	"strings"

	"brokerage/internal/pkg/errs"
)

// Role is what an actor does on the desk. Its string form is the canonical serialization.
type Role string

const (
	// RoleCommercial creates orders on behalf of clients.
	RoleCommercial Role = "Commercial"
	// RoleTrader takes and executes orders.
	RoleTrader Role = "Trader"
	// RoleController supervises the desk and may force review or cancellation.
	RoleController Role = "Controller"
	// RoleSystem authors entries when no authenticated user is known.
	RoleSystem Role = "System"
)

// SystemActorID is the fixed identifier of the system actor.
const SystemActorID = "system"

// ParseRole accepts the canonical role names case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleCommercial, RoleTrader, RoleController, RoleSystem} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Actor is the user (or the system) performing an operation.
type Actor struct {
	id   string
	name string
	role Role
}

// NewActor validates id, name and role.
func NewActor(id, name string, role Role) (Actor, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	if name == "" {
		name = id
	}
	parsed, err := ParseRole(string(role))
	if err != nil {
		return Actor{}, err
	}
	return Actor{id: id, name: name, role: parsed}, nil
}

// SystemActor is used when an entry has no authenticated author.
func SystemActor() Actor {
	return Actor{id: SystemActorID, name: "System", role: RoleSystem}
}

func (a Actor) ID() string   { return a.id }
func (a Actor) Name() string { return a.name }
func (a Actor) Role() Role   { return a.role }

// IsZero reports whether the actor was never constructed.
func (a Actor) IsZero() bool {
	return a.id == ""
}

// OrSystem returns the actor, or the system actor when a is the zero value.
func (a Actor) OrSystem() Actor {
	if a.IsZero() {
		return SystemActor()
	}
	return a
}
