package shared

import (
	"context"
	"time"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/booking"
	"salonbook/internal/domain/inventory"
	"salonbook/internal/domain/ledger"
	"salonbook/internal/domain/order"

	"github.com/google/uuid"
)

// LedgerRepository is the balance half of the reservation core. Each method
// executes exactly one conditional statement against the caller's
// transaction; multi-step sequences are guarded by LockAccount/LockHold.
type LedgerRepository interface {
	LockAccount(ctx context.Context, userID uuid.UUID) (*ledger.Account, error)
	LockHold(ctx context.Context, userID uuid.UUID) error
	TopUp(ctx context.Context, userID uuid.UUID, amountCents int64) error
	TrySpend(ctx context.Context, userID uuid.UUID, amountCents int64, refKind string, refID uuid.UUID) error
	Freeze(ctx context.Context, userID uuid.UUID, amountCents int64) error
	AdjustPending(ctx context.Context, userID uuid.UUID, deltaCents int64) error
	Refund(ctx context.Context, userID uuid.UUID, amountCents int64, refKind string, refID uuid.UUID) error
}

// InventoryRepository is the stock half, same contract shape as the ledger.
type InventoryRepository interface {
	LockItem(ctx context.Context, itemID uuid.UUID) (*inventory.StockItem, error)
	FreezeStock(ctx context.Context, itemID uuid.UUID, qty int32) error
	AdjustFrozen(ctx context.Context, itemID uuid.UUID, delta int32) error
	ConfirmDeduct(ctx context.Context, itemID uuid.UUID, qty int32) error
	RestoreStock(ctx context.Context, itemID uuid.UUID, qty int32) error
}

type CreateProductInput struct {
	Name       string
	Category   string
	PriceCents int64
}

type UpdateProductInput struct {
	ID         uuid.UUID
	Name       *string
	Category   *string
	PriceCents *int64
	Status     *string
}

type ProductRepository interface {
	Create(ctx context.Context, input CreateProductInput) (uuid.UUID, error)
	Update(ctx context.Context, input UpdateProductInput) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *booking.Appointment) (uuid.UUID, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, version int64) error
	SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error
	ExistsAt(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, shopOrder *order.ShopOrder) (uuid.UUID, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*order.ShopOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, version int64) error
	SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error
	SetTracking(ctx context.Context, id uuid.UUID, trackingNo string, version int64) error
}

// AuditTrail appends inside the same transaction as the mutation it records.
type AuditTrail interface {
	Record(ctx context.Context, actor audit.Actor, entityType string, entityID uuid.UUID, action string, changes, extra map[string]any) error
}

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, role string) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type IdempotencyBegin struct {
	Replay   bool
	ResultID *uuid.UUID
}

type IdempotencyRepository interface {
	Begin(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, now time.Time) (IdempotencyBegin, error)
	Complete(ctx context.Context, key, userID, resultID uuid.UUID) error
}

// Snapshots read inside command transactions to capture prices at hold time.
type ServiceItemSnapshot struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
}

type ProductSnapshot struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	Status     string
}

type TxReads interface {
	ServiceItemByID(ctx context.Context, id uuid.UUID) (*ServiceItemSnapshot, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
}
