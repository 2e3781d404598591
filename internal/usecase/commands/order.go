package commands

import (
	"bytes"
	"context"
	"log/slog"
	"sort"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/order"
	"salonbook/internal/domain/payment"
	"salonbook/internal/pkg/clock"
	"salonbook/internal/pkg/config"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateOrderInput struct {
	UserID         uuid.UUID
	ProductIDs     []uuid.UUID
	Quantities     []int32
	PayMethod      payment.Method
	Address        string
	Phone          string
	IdempotencyKey uuid.UUID
}

// OrderService coordinates shop orders over both reservation sides: product
// stock and, for balance payment, the savings ledger. Inside a transaction
// the account row is always locked before any stock row, and stock rows are
// locked in ascending product id order.
type OrderService struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	sink    NotificationSink
	clock   clock.Clock
	cfg     config.GatewayConfig
}

func NewOrderService(uow shared.UnitOfWork, gateway PaymentGateway, sink NotificationSink, clk clock.Clock, cfg config.GatewayConfig) *OrderService {
	return &OrderService{uow: uow, gateway: gateway, sink: sink, clock: clk, cfg: cfg}
}

// Create places a held order: stock is frozen per line item, and for balance
// payment the total is frozen against the pending counter. Neither freeze
// validates against actual counters; Confirm does.
func (s *OrderService) Create(ctx context.Context, actor audit.Actor, input CreateOrderInput) (uuid.UUID, error) {
	if len(input.ProductIDs) == 0 || len(input.ProductIDs) != len(input.Quantities) {
		return uuid.Nil, errs.ErrEmptyLineItems
	}
	if !input.PayMethod.IsValid() {
		return uuid.Nil, payment.ErrInvalidMethod
	}

	hash := requestHash(input)
	now := s.clock.Now()

	var (
		orderID    uuid.UUID
		totalCents int64
		replayed   bool
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		begin, err := tx.Idempotency().Begin(ctx, input.IdempotencyKey, input.UserID, "orders.create", hash, now)
		if err != nil {
			return err
		}
		if begin.Replay {
			if begin.ResultID == nil {
				return errs.ErrIdempotencyCheckFailed
			}
			orderID = *begin.ResultID
			replayed = true
			return nil
		}

		specs := make([]order.ProductSpec, 0, len(input.ProductIDs))
		for _, productID := range input.ProductIDs {
			snap, err := tx.Reads().ProductByID(ctx, productID)
			if err != nil {
				return err
			}
			if snap.Status != "on" {
				return errs.ErrItemNotFound
			}
			specs = append(specs, order.ProductSpec{ID: snap.ID, PriceCents: snap.PriceCents})
		}

		shopOrder, err := order.NewShopOrder(input.UserID, specs, input.Quantities, input.PayMethod, input.Address, input.Phone, now)
		if err != nil {
			return err
		}

		if shopOrder.BalanceCentsUsed() > 0 {
			if _, err := tx.Ledger().LockAccount(ctx, input.UserID); err != nil {
				return err
			}
			if err := tx.Ledger().Freeze(ctx, input.UserID, shopOrder.BalanceCentsUsed()); err != nil {
				return err
			}
		}

		for _, item := range sortedByProduct(shopOrder.Items()) {
			if _, err := tx.Inventory().LockItem(ctx, item.ProductID); err != nil {
				return err
			}
			if err := tx.Inventory().FreezeStock(ctx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}

		id, err := tx.Orders().Create(ctx, shopOrder)
		if err != nil {
			return err
		}
		orderID = id
		totalCents = shopOrder.TotalCents()

		if err := tx.Audit().Record(ctx, actor, EntityShopOrder, id, audit.ActionCreate, map[string]any{
			"total_cents": shopOrder.TotalCents(),
			"pay_method":  string(shopOrder.PayMethod()),
		}, nil); err != nil {
			return err
		}
		return tx.Idempotency().Complete(ctx, input.IdempotencyKey, input.UserID, id)
	})
	if err != nil {
		return uuid.Nil, err
	}
	if replayed {
		return orderID, nil
	}

	if input.PayMethod == payment.MethodOnline {
		s.initiatePayment(orderID, input.UserID, totalCents)
	}
	notify(ctx, s.sink, input.UserID, "order.created", map[string]any{"order_id": orderID})
	return orderID, nil
}

func (s *OrderService) initiatePayment(orderID, userID uuid.UUID, amountCents int64) {
	gctx, cancel := gatewayContext(s.cfg.Timeout)
	defer cancel()

	ref, err := s.gateway.InitiatePayment(gctx, orderID, amountCents)
	if err != nil {
		slog.Warn("payment initiation failed", "order_id", orderID, "user_id", userID, "error", err)
		return
	}

	err = s.uow.Within(gctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().SetPaymentRef(ctx, orderID, ref)
	})
	if err != nil {
		slog.Warn("failed to persist payment ref", "order_id", orderID, "error", err)
	}
}

// Confirm commits the holds: each frozen quantity moves from pending to an
// actual deduction, and a balance payment is spent for real. Any conditional
// update failing rolls the whole commit back, leaving the holds intact.
// Confirming an already-confirmed order is a replay no-op.
func (s *OrderService) Confirm(ctx context.Context, actor audit.Actor, orderID uuid.UUID) error {
	var (
		replay     bool
		userID     uuid.UUID
		paymentRef *string
		payOnline  bool
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		shopOrder, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		userID = shopOrder.UserID()
		paymentRef = shopOrder.PaymentRef()
		payOnline = shopOrder.PayMethod() == payment.MethodOnline

		if shopOrder.Status() == order.StatusAwaiting {
			replay = true
			return nil
		}
		if err := shopOrder.Confirm(); err != nil {
			return err
		}

		if used := shopOrder.BalanceCentsUsed(); used > 0 {
			if _, err := tx.Ledger().LockAccount(ctx, userID); err != nil {
				return err
			}
			if err := tx.Ledger().AdjustPending(ctx, userID, -used); err != nil {
				return err
			}
			if err := tx.Ledger().TrySpend(ctx, userID, used, RefShopOrder, orderID); err != nil {
				return err
			}
		}

		for _, item := range sortedByProduct(shopOrder.Items()) {
			if _, err := tx.Inventory().LockItem(ctx, item.ProductID); err != nil {
				return err
			}
			if err := tx.Inventory().AdjustFrozen(ctx, item.ProductID, -item.Qty); err != nil {
				return err
			}
			if err := tx.Inventory().ConfirmDeduct(ctx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, orderID, order.StatusAwaiting, shopOrder.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityShopOrder, orderID, audit.ActionConfirm, map[string]any{
			"status": string(order.StatusAwaiting),
		}, nil)
	})
	if err != nil || replay {
		return err
	}

	if payOnline && paymentRef != nil {
		gctx, cancel := gatewayContext(s.cfg.Timeout)
		defer cancel()
		if err := s.gateway.ConfirmPayment(gctx, *paymentRef); err != nil {
			slog.Warn("payment confirmation failed", "order_id", orderID, "error", err)
			return errs.Mark(err, errs.ErrGatewayFailure)
		}
	}
	notify(ctx, s.sink, userID, "order.confirmed", map[string]any{"order_id": orderID})
	return nil
}

// Cancel releases every hold without touching actual counters. Cancelling an
// already-cancelled order is a replay no-op.
func (s *OrderService) Cancel(ctx context.Context, actor audit.Actor, orderID uuid.UUID) error {
	var (
		replay bool
		userID uuid.UUID
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		shopOrder, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		userID = shopOrder.UserID()

		if shopOrder.Status() == order.StatusCancelled {
			replay = true
			return nil
		}
		if err := shopOrder.Cancel(); err != nil {
			return err
		}

		if used := shopOrder.BalanceCentsUsed(); used > 0 {
			if _, err := tx.Ledger().LockAccount(ctx, userID); err != nil {
				return err
			}
			if err := tx.Ledger().AdjustPending(ctx, userID, -used); err != nil {
				return err
			}
		}

		for _, item := range sortedByProduct(shopOrder.Items()) {
			if _, err := tx.Inventory().LockItem(ctx, item.ProductID); err != nil {
				return err
			}
			if err := tx.Inventory().AdjustFrozen(ctx, item.ProductID, -item.Qty); err != nil {
				return err
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, orderID, order.StatusCancelled, shopOrder.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityShopOrder, orderID, audit.ActionCancel, map[string]any{
			"status": string(order.StatusCancelled),
		}, nil)
	})
	if err != nil || replay {
		return err
	}

	notify(ctx, s.sink, userID, "order.cancelled", map[string]any{"order_id": orderID})
	return nil
}

// Ship records the tracking number on a confirmed order.
func (s *OrderService) Ship(ctx context.Context, actor audit.Actor, orderID uuid.UUID, trackingNo string) error {
	var userID uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		shopOrder, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		userID = shopOrder.UserID()

		if err := shopOrder.Ship(trackingNo); err != nil {
			return err
		}
		if err := tx.Orders().SetTracking(ctx, orderID, *shopOrder.TrackingNo(), shopOrder.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityShopOrder, orderID, audit.ActionShip, map[string]any{
			"tracking_no": *shopOrder.TrackingNo(),
		}, nil)
	})
	if err != nil {
		return err
	}

	notify(ctx, s.sink, userID, "order.shipped", map[string]any{"order_id": orderID, "tracking_no": trackingNo})
	return nil
}

// Complete closes out a confirmed order.
func (s *OrderService) Complete(ctx context.Context, actor audit.Actor, orderID uuid.UUID) error {
	var userID uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		shopOrder, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		userID = shopOrder.UserID()

		if err := shopOrder.Complete(); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, orderID, order.StatusCompleted, shopOrder.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityShopOrder, orderID, audit.ActionComplete, map[string]any{
			"status": string(order.StatusCompleted),
		}, nil)
	})
	if err != nil {
		return err
	}

	notify(ctx, s.sink, userID, "order.completed", map[string]any{"order_id": orderID})
	return nil
}

// Refund credits back a confirmed or completed order and returns the ordered
// units to actual stock. Balance refunds re-enter the ledger; online refunds
// go through the gateway after commit.
func (s *OrderService) Refund(ctx context.Context, actor audit.Actor, orderID uuid.UUID, amountCents int64) error {
	var (
		userID     uuid.UUID
		paymentRef *string
		payOnline  bool
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		shopOrder, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		userID = shopOrder.UserID()
		paymentRef = shopOrder.PaymentRef()
		payOnline = shopOrder.PayMethod() == payment.MethodOnline

		if err := shopOrder.Refund(amountCents); err != nil {
			return err
		}

		if shopOrder.PayMethod() == payment.MethodBalance {
			if _, err := tx.Ledger().LockAccount(ctx, userID); err != nil {
				return err
			}
			if err := tx.Ledger().Refund(ctx, userID, amountCents, RefShopOrder, orderID); err != nil {
				return err
			}
		}

		for _, item := range sortedByProduct(shopOrder.Items()) {
			if _, err := tx.Inventory().LockItem(ctx, item.ProductID); err != nil {
				return err
			}
			if err := tx.Inventory().RestoreStock(ctx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, orderID, order.StatusRefunded, shopOrder.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityShopOrder, orderID, audit.ActionRefund, map[string]any{
			"amount_cents": amountCents,
		}, nil)
	})
	if err != nil {
		return err
	}

	if payOnline && paymentRef != nil {
		gctx, cancel := gatewayContext(s.cfg.Timeout)
		defer cancel()
		if err := s.gateway.RefundPayment(gctx, *paymentRef, amountCents); err != nil {
			slog.Warn("gateway refund failed", "order_id", orderID, "error", err)
			return errs.Mark(err, errs.ErrGatewayFailure)
		}
	}
	notify(ctx, s.sink, userID, "order.refunded", map[string]any{
		"order_id":     orderID,
		"amount_cents": amountCents,
	})
	return nil
}

// sortedByProduct returns line items in ascending product id order. Locking
// stock rows in this fixed order keeps concurrent multi-item transactions
// deadlock free.
func sortedByProduct(items []order.LineItem) []order.LineItem {
	out := make([]order.LineItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ProductID[:], out[j].ProductID[:]) < 0
	})
	return out
}
