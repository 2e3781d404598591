package shared

import "context"

// Tx exposes the repositories bound to one open transaction. Handles are
// lazily constructed; touching none of them still commits cleanly.
type Tx interface {
	Ledger() LedgerRepository
	Inventory() InventoryRepository
	Products() ProductRepository
	Appointments() AppointmentRepository
	Orders() OrderRepository
	Audit() AuditTrail
	Users() UserRepository
	Idempotency() IdempotencyRepository
	Reads() TxReads
}

// UnitOfWork runs fn inside a repeatable-read transaction and retries it on
// serialization or deadlock failures. fn must therefore be side-effect free
// outside the transaction; gateway calls and notifications happen after
// Within returns.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
