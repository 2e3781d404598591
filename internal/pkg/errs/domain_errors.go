package errs

import "errors"

// Sentinel errors shared across usecase layers. Handlers map these to
// machine-readable HTTP codes; everything else surfaces as a 500.
var (
	// Ledger errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountNotFound   = errors.New("savings account not found")
	ErrHoldNotFound      = errors.New("savings hold not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrNegativeHold      = errors.New("hold adjustment would go negative")

	// Inventory errors
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	// Reservation unit errors
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrEmptyLineItems         = errors.New("line items cannot be empty")
	ErrRefundExceedsTotal     = errors.New("refund amount exceeds total")
	ErrDuplicateBooking       = errors.New("duplicate booking for time slot")

	// External collaborators
	ErrGatewayFailure = errors.New("payment gateway call failed")

	// Users
	ErrUserNotFound = errors.New("user not found")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyMismatch    = errors.New("idempotency key reused with different request")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
