package booking

import (
	"errors"
	"time"

	"salonbook/internal/domain/payment"

	"github.com/google/uuid"
)

var (
	ErrEmptyItems             = errors.New("appointment items cannot be empty")
	ErrInvalidQty             = errors.New("item quantity must be positive")
	ErrInvalidStateTransition = errors.New("invalid appointment state transition")
	ErrInvalidRefundAmount    = errors.New("refund amount must be positive")
	ErrRefundExceedsTotal     = errors.New("refund amount exceeds appointment total")
)

// LineItem is one booked service with the unit price captured at booking time.
type LineItem struct {
	ServiceID uuid.UUID
	Qty       int32
	UnitCents int64
}

// ServiceSpec carries the fields of a service item the factory needs.
type ServiceSpec struct {
	ID         uuid.UUID
	PriceCents int64
}

type Appointment struct {
	id               uuid.UUID
	userID           uuid.UUID
	appointmentAt    time.Time
	status           Status
	totalCents       int64
	payMethod        payment.Method
	balanceCentsUsed int64
	paymentRef       *string
	items            []LineItem
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewAppointment creates a held appointment. Total is the sum of captured
// unit prices; for balance payment the whole total is held against the
// owner's pending counter.
func NewAppointment(
	userID uuid.UUID,
	at time.Time,
	specs []ServiceSpec,
	quantities []int32,
	method payment.Method,
	now time.Time,
) (*Appointment, error) {
	if len(specs) == 0 || len(specs) != len(quantities) {
		return nil, ErrEmptyItems
	}

	var total int64
	items := make([]LineItem, 0, len(specs))
	for i, spec := range specs {
		if quantities[i] <= 0 {
			return nil, ErrInvalidQty
		}
		total += spec.PriceCents * int64(quantities[i])
		items = append(items, LineItem{
			ServiceID: spec.ID,
			Qty:       quantities[i],
			UnitCents: spec.PriceCents,
		})
	}

	balanceUsed := int64(0)
	if method == payment.MethodBalance {
		balanceUsed = total
	}

	return &Appointment{
		id:               uuid.New(),
		userID:           userID,
		appointmentAt:    at,
		status:           StatusUnconfirmed,
		totalCents:       total,
		payMethod:        method,
		balanceCentsUsed: balanceUsed,
		items:            items,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructAppointment(
	id, userID uuid.UUID,
	at time.Time,
	status Status,
	totalCents int64,
	method payment.Method,
	balanceCentsUsed int64,
	paymentRef *string,
	items []LineItem,
	version int64,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:               id,
		userID:           userID,
		appointmentAt:    at,
		status:           status,
		totalCents:       totalCents,
		payMethod:        method,
		balanceCentsUsed: balanceCentsUsed,
		paymentRef:       paymentRef,
		items:            items,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Finish commits the hold. Legal only from the unconfirmed (held) state;
// callers treat an already-finished appointment as a replay no-op before
// calling this.
func (a *Appointment) Finish() error {
	if a.status != StatusUnconfirmed {
		return ErrInvalidStateTransition
	}
	a.status = StatusFinished
	return nil
}

// Cancel releases the hold. Legal only from the unconfirmed state; an
// already-cancelled appointment is a replay no-op handled by the caller.
func (a *Appointment) Cancel() error {
	if a.status != StatusUnconfirmed {
		return ErrInvalidStateTransition
	}
	a.status = StatusCancelled
	return nil
}

// Refund is terminal and reachable only from the finished state.
func (a *Appointment) Refund(amountCents int64) error {
	if a.status != StatusFinished {
		return ErrInvalidStateTransition
	}
	if amountCents <= 0 {
		return ErrInvalidRefundAmount
	}
	if amountCents > a.totalCents {
		return ErrRefundExceedsTotal
	}
	a.status = StatusRefunded
	return nil
}

func (a *Appointment) AttachPaymentRef(ref string) {
	a.paymentRef = &ref
}

func (a *Appointment) ID() uuid.UUID             { return a.id }
func (a *Appointment) UserID() uuid.UUID         { return a.userID }
func (a *Appointment) AppointmentAt() time.Time  { return a.appointmentAt }
func (a *Appointment) Status() Status            { return a.status }
func (a *Appointment) TotalCents() int64         { return a.totalCents }
func (a *Appointment) PayMethod() payment.Method { return a.payMethod }
func (a *Appointment) BalanceCentsUsed() int64   { return a.balanceCentsUsed }
func (a *Appointment) PaymentRef() *string       { return a.paymentRef }
func (a *Appointment) Items() []LineItem         { return a.items }
func (a *Appointment) Version() int64            { return a.version }
func (a *Appointment) CreatedAt() time.Time      { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time      { return a.updatedAt }
