package order

import (
	"errors"
	"strings"
	"time"

	"salonbook/internal/domain/payment"

	"github.com/google/uuid"
)

var (
	ErrEmptyItems             = errors.New("order items cannot be empty")
	ErrInvalidQty             = errors.New("item quantity must be positive")
	ErrInvalidStateTransition = errors.New("invalid order state transition")
	ErrInvalidRefundAmount    = errors.New("refund amount must be positive")
	ErrRefundExceedsTotal     = errors.New("refund amount exceeds order total")
	ErrEmptyTrackingNo        = errors.New("tracking number cannot be empty")
)

// LineItem is one ordered product with the unit price captured at order time.
type LineItem struct {
	ProductID uuid.UUID
	Qty       int32
	UnitCents int64
}

// ProductSpec carries the fields of a product the factory needs.
type ProductSpec struct {
	ID         uuid.UUID
	PriceCents int64
}

type ShopOrder struct {
	id               uuid.UUID
	userID           uuid.UUID
	status           Status
	totalCents       int64
	address          string
	phone            string
	payMethod        payment.Method
	balanceCentsUsed int64
	paymentRef       *string
	trackingNo       *string
	items            []LineItem
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewShopOrder creates a held order. Every line item's quantity is frozen
// against product stock by the coordinator; for balance payment the total is
// held against the owner's pending counter.
func NewShopOrder(
	userID uuid.UUID,
	specs []ProductSpec,
	quantities []int32,
	method payment.Method,
	address, phone string,
	now time.Time,
) (*ShopOrder, error) {
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
			ProductID: spec.ID,
			Qty:       quantities[i],
			UnitCents: spec.PriceCents,
		})
	}

	balanceUsed := int64(0)
	if method == payment.MethodBalance {
		balanceUsed = total
	}

	return &ShopOrder{
		id:               uuid.New(),
		userID:           userID,
		status:           StatusPendingConfirm,
		totalCents:       total,
		address:          address,
		phone:            phone,
		payMethod:        method,
		balanceCentsUsed: balanceUsed,
		items:            items,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructShopOrder(
	id, userID uuid.UUID,
	status Status,
	totalCents int64,
	address, phone string,
	method payment.Method,
	balanceCentsUsed int64,
	paymentRef, trackingNo *string,
	items []LineItem,
	version int64,
	createdAt, updatedAt time.Time,
) *ShopOrder {
	return &ShopOrder{
		id:               id,
		userID:           userID,
		status:           status,
		totalCents:       totalCents,
		address:          address,
		phone:            phone,
		payMethod:        method,
		balanceCentsUsed: balanceCentsUsed,
		paymentRef:       paymentRef,
		trackingNo:       trackingNo,
		items:            items,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Confirm commits the holds. Legal only from the pending-confirm (held) state.
func (o *ShopOrder) Confirm() error {
	if o.status != StatusPendingConfirm {
		return ErrInvalidStateTransition
	}
	o.status = StatusAwaiting
	return nil
}

// Cancel releases the holds. Legal only from the pending-confirm state; an
// already-cancelled order is a replay no-op handled by the caller.
func (o *ShopOrder) Cancel() error {
	if o.status != StatusPendingConfirm {
		return ErrInvalidStateTransition
	}
	o.status = StatusCancelled
	return nil
}

// Ship records the tracking number on a confirmed order.
func (o *ShopOrder) Ship(trackingNo string) error {
	if o.status != StatusAwaiting {
		return ErrInvalidStateTransition
	}
	trackingNo = strings.TrimSpace(trackingNo)
	if trackingNo == "" {
		return ErrEmptyTrackingNo
	}
	o.trackingNo = &trackingNo
	return nil
}

// Complete closes out a confirmed order after delivery.
func (o *ShopOrder) Complete() error {
	if o.status != StatusAwaiting {
		return ErrInvalidStateTransition
	}
	o.status = StatusCompleted
	return nil
}

// Refund is terminal and reachable from either post-commit state.
func (o *ShopOrder) Refund(amountCents int64) error {
	if o.status != StatusAwaiting && o.status != StatusCompleted {
		return ErrInvalidStateTransition
	}
	if amountCents <= 0 {
		return ErrInvalidRefundAmount
	}
	if amountCents > o.totalCents {
		return ErrRefundExceedsTotal
	}
	o.status = StatusRefunded
	return nil
}

func (o *ShopOrder) AttachPaymentRef(ref string) {
	o.paymentRef = &ref
}

func (o *ShopOrder) ID() uuid.UUID             { return o.id }
func (o *ShopOrder) UserID() uuid.UUID         { return o.userID }
func (o *ShopOrder) Status() Status            { return o.status }
func (o *ShopOrder) TotalCents() int64         { return o.totalCents }
func (o *ShopOrder) Address() string           { return o.address }
func (o *ShopOrder) Phone() string             { return o.phone }
func (o *ShopOrder) PayMethod() payment.Method { return o.payMethod }
func (o *ShopOrder) BalanceCentsUsed() int64   { return o.balanceCentsUsed }
func (o *ShopOrder) PaymentRef() *string       { return o.paymentRef }
func (o *ShopOrder) TrackingNo() *string       { return o.trackingNo }
func (o *ShopOrder) Items() []LineItem         { return o.items }
func (o *ShopOrder) Version() int64            { return o.version }
func (o *ShopOrder) CreatedAt() time.Time      { return o.createdAt }
func (o *ShopOrder) UpdatedAt() time.Time      { return o.updatedAt }
