package audit

import (
	"time"

	"salonbook/internal/domain/user"

	"github.com/google/uuid"
)

// Actor identifies who performed a mutation. Both fields are nullable; an
// anonymous or system actor is recorded with nils. Resolution happens at the
// call site (handler/coordinator), never inside the trail itself.
type Actor struct {
	ID   *uuid.UUID
	Type *string
}

func UserActor(id uuid.UUID, role user.Role) Actor {
	t := role.String()
	return Actor{ID: &id, Type: &t}
}

func SystemActor() Actor {
	t := "system"
	return Actor{Type: &t}
}

func Anonymous() Actor {
	return Actor{}
}

// Entry is one append-only audit row. Changes hold the mutated values,
// context holds optional free-form extras (reason, caller id).
type Entry struct {
	ID         uuid.UUID
	ActorID    *uuid.UUID
	ActorType  *string
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Changes    map[string]any
	Context    map[string]any
	EventTime  time.Time
}

// Actions recorded by the coordinators.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionFinish   = "FINISH"
	ActionConfirm  = "CONFIRM"
	ActionCancel   = "CANCEL"
	ActionShip     = "SHIP"
	ActionComplete = "COMPLETE"
	ActionRefund   = "REFUND"
	ActionTopUp    = "TOP_UP"
	ActionSpend    = "SPEND"
	ActionFreeze   = "FREEZE"
	ActionAdjust   = "ADJUST"
)
