package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models returned by the query services. These are flat projections;
// write-side rules live on the domain entities, not here.

type BalanceView struct {
	UserID         uuid.UUID `json:"user_id"`
	BalanceCents   int64     `json:"balance_cents"`
	PendingCents   int64     `json:"pending_cents"`
	AvailableCents int64     `json:"available_cents"`
}

type LedgerEntryView struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	AmountCents int64      `json:"amount_cents"`
	RefKind     *string    `json:"ref_kind,omitempty"`
	RefID       *uuid.UUID `json:"ref_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ProductView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	PriceCents   int64     `json:"price_cents"`
	DisplayStock int32     `json:"display_stock"`
	Status       string    `json:"status"`
}

type ServiceItemView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	DurationMin int32     `json:"duration_min"`
}

type AppointmentItemView struct {
	ServiceID uuid.UUID `json:"service_id"`
	Qty       int32     `json:"qty"`
	UnitCents int64     `json:"unit_cents"`
}

type AppointmentView struct {
	ID               uuid.UUID             `json:"id"`
	UserID           uuid.UUID             `json:"user_id"`
	AppointmentAt    time.Time             `json:"appointment_at"`
	Status           string                `json:"status"`
	TotalCents       int64                 `json:"total_cents"`
	PayMethod        string                `json:"pay_method"`
	BalanceCentsUsed int64                 `json:"balance_cents_used"`
	PaymentRef       *string               `json:"payment_ref,omitempty"`
	Items            []AppointmentItemView `json:"items"`
	CreatedAt        time.Time             `json:"created_at"`
}

type OrderItemView struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int32     `json:"qty"`
	UnitCents int64     `json:"unit_cents"`
}

type OrderView struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	Status           string          `json:"status"`
	TotalCents       int64           `json:"total_cents"`
	Address          string          `json:"address"`
	Phone            string          `json:"phone"`
	PayMethod        string          `json:"pay_method"`
	BalanceCentsUsed int64           `json:"balance_cents_used"`
	PaymentRef       *string         `json:"payment_ref,omitempty"`
	TrackingNo       *string         `json:"tracking_no,omitempty"`
	Items            []OrderItemView `json:"items"`
	CreatedAt        time.Time       `json:"created_at"`
}

type AuditEntryView struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	ActorType  *string        `json:"actor_type,omitempty"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Action     string         `json:"action"`
	Changes    map[string]any `json:"changes"`
	Context    map[string]any `json:"context"`
	EventTime  time.Time      `json:"event_time"`
}

type UserView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
