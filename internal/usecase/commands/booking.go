package commands

import (
	"context"
	"log/slog"
	"time"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/booking"
	"salonbook/internal/domain/payment"
	"salonbook/internal/pkg/clock"
	"salonbook/internal/pkg/config"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookInput struct {
	UserID         uuid.UUID
	AppointmentAt  time.Time
	ServiceIDs     []uuid.UUID
	Quantities     []int32
	PayMethod      payment.Method
	IdempotencyKey uuid.UUID
}

// BookingService coordinates appointment holds against the balance ledger.
// All state moves happen inside one repeatable-read transaction; the payment
// gateway and notifications are contacted only after that transaction has
// committed.
type BookingService struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	sink    NotificationSink
	clock   clock.Clock
	cfg     config.GatewayConfig
}

func NewBookingService(uow shared.UnitOfWork, gateway PaymentGateway, sink NotificationSink, clk clock.Clock, cfg config.GatewayConfig) *BookingService {
	return &BookingService{uow: uow, gateway: gateway, sink: sink, clock: clk, cfg: cfg}
}

// Book creates a held appointment. For balance payment the total is frozen
// against the owner's pending counter; freezing never checks the actual
// balance, so an over-hold is caught at Finish, not here.
func (s *BookingService) Book(ctx context.Context, actor audit.Actor, input BookInput) (uuid.UUID, error) {
	if len(input.ServiceIDs) == 0 || len(input.ServiceIDs) != len(input.Quantities) {
		return uuid.Nil, errs.ErrEmptyLineItems
	}
	if !input.PayMethod.IsValid() {
		return uuid.Nil, payment.ErrInvalidMethod
	}

	hash := requestHash(input)
	now := s.clock.Now()

	var (
		appointmentID uuid.UUID
		totalCents    int64
		replayed      bool
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		begin, err := tx.Idempotency().Begin(ctx, input.IdempotencyKey, input.UserID, "appointments.create", hash, now)
		if err != nil {
			return err
		}
		if begin.Replay {
			if begin.ResultID == nil {
				return errs.ErrIdempotencyCheckFailed
			}
			appointmentID = *begin.ResultID
			replayed = true
			return nil
		}

		taken, err := tx.Appointments().ExistsAt(ctx, input.UserID, input.AppointmentAt)
		if err != nil {
			return err
		}
		if taken {
			return errs.ErrDuplicateBooking
		}

		specs := make([]booking.ServiceSpec, 0, len(input.ServiceIDs))
		for _, serviceID := range input.ServiceIDs {
			snap, err := tx.Reads().ServiceItemByID(ctx, serviceID)
			if err != nil {
				return err
			}
			specs = append(specs, booking.ServiceSpec{ID: snap.ID, PriceCents: snap.PriceCents})
		}

		appointment, err := booking.NewAppointment(input.UserID, input.AppointmentAt, specs, input.Quantities, input.PayMethod, now)
		if err != nil {
			return err
		}

		if appointment.BalanceCentsUsed() > 0 {
			if _, err := tx.Ledger().LockAccount(ctx, input.UserID); err != nil {
				return err
			}
			if err := tx.Ledger().Freeze(ctx, input.UserID, appointment.BalanceCentsUsed()); err != nil {
				return err
			}
		}

		id, err := tx.Appointments().Create(ctx, appointment)
		if err != nil {
			return err
		}
		appointmentID = id
		totalCents = appointment.TotalCents()

		if err := tx.Audit().Record(ctx, actor, EntityAppointment, id, audit.ActionCreate, map[string]any{
			"total_cents":    appointment.TotalCents(),
			"pay_method":     string(appointment.PayMethod()),
			"appointment_at": appointment.AppointmentAt(),
		}, nil); err != nil {
			return err
		}
		return tx.Idempotency().Complete(ctx, input.IdempotencyKey, input.UserID, id)
	})
	if err != nil {
		return uuid.Nil, err
	}
	if replayed {
		return appointmentID, nil
	}

	if input.PayMethod == payment.MethodOnline {
		s.initiatePayment(appointmentID, input.UserID, totalCents)
	}
	notify(ctx, s.sink, input.UserID, "appointment.created", map[string]any{"appointment_id": appointmentID})
	return appointmentID, nil
}

// initiatePayment runs after commit. On gateway failure the appointment
// stands without a payment ref; a later Finish retries nothing here.
func (s *BookingService) initiatePayment(appointmentID, userID uuid.UUID, amountCents int64) {
	gctx, cancel := gatewayContext(s.cfg.Timeout)
	defer cancel()

	ref, err := s.gateway.InitiatePayment(gctx, appointmentID, amountCents)
	if err != nil {
		slog.Warn("payment initiation failed", "appointment_id", appointmentID, "user_id", userID, "error", err)
		return
	}

	err = s.uow.Within(gctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().SetPaymentRef(ctx, appointmentID, ref)
	})
	if err != nil {
		slog.Warn("failed to persist payment ref", "appointment_id", appointmentID, "error", err)
	}
}

// Finish commits the hold: release the pending amount and spend the actual
// balance, or confirm the online payment. Finishing an already-finished
// appointment is a replay no-op.
func (s *BookingService) Finish(ctx context.Context, actor audit.Actor, appointmentID uuid.UUID) error {
	var (
		replay     bool
		userID     uuid.UUID
		paymentRef *string
		payOnline  bool
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		appointment, err := tx.Appointments().FindForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		userID = appointment.UserID()
		paymentRef = appointment.PaymentRef()
		payOnline = appointment.PayMethod() == payment.MethodOnline

		if appointment.Status() == booking.StatusFinished {
			replay = true
			return nil
		}
		if err := appointment.Finish(); err != nil {
			return err
		}

		if used := appointment.BalanceCentsUsed(); used > 0 {
			if _, err := tx.Ledger().LockAccount(ctx, userID); err != nil {
				return err
			}
			if err := tx.Ledger().AdjustPending(ctx, userID, -used); err != nil {
				return err
			}
			if err := tx.Ledger().TrySpend(ctx, userID, used, RefAppointment, appointmentID); err != nil {
				return err
			}
		}

		if err := tx.Appointments().UpdateStatus(ctx, appointmentID, booking.StatusFinished, appointment.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityAppointment, appointmentID, audit.ActionFinish, map[string]any{
			"status": string(booking.StatusFinished),
		}, nil)
	})
	if err != nil || replay {
		return err
	}

	if payOnline && paymentRef != nil {
		gctx, cancel := gatewayContext(s.cfg.Timeout)
		defer cancel()
		if err := s.gateway.ConfirmPayment(gctx, *paymentRef); err != nil {
			slog.Warn("payment confirmation failed", "appointment_id", appointmentID, "error", err)
			return errs.Mark(err, errs.ErrGatewayFailure)
		}
	}
	notify(ctx, s.sink, userID, "appointment.finished", map[string]any{"appointment_id": appointmentID})
	return nil
}

// Cancel releases the hold without touching actual funds. Cancelling an
// already-cancelled appointment is a replay no-op.
func (s *BookingService) Cancel(ctx context.Context, actor audit.Actor, appointmentID uuid.UUID) error {
	var (
		replay bool
		userID uuid.UUID
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		appointment, err := tx.Appointments().FindForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		userID = appointment.UserID()

		if appointment.Status() == booking.StatusCancelled {
			replay = true
			return nil
		}
		if err := appointment.Cancel(); err != nil {
			return err
		}

		if used := appointment.BalanceCentsUsed(); used > 0 {
			if _, err := tx.Ledger().LockAccount(ctx, userID); err != nil {
				return err
			}
			if err := tx.Ledger().AdjustPending(ctx, userID, -used); err != nil {
				return err
			}
		}

		if err := tx.Appointments().UpdateStatus(ctx, appointmentID, booking.StatusCancelled, appointment.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityAppointment, appointmentID, audit.ActionCancel, map[string]any{
			"status": string(booking.StatusCancelled),
		}, nil)
	})
	if err != nil || replay {
		return err
	}

	notify(ctx, s.sink, userID, "appointment.cancelled", map[string]any{"appointment_id": appointmentID})
	return nil
}

// Refund credits back part or all of a finished appointment. Balance refunds
// re-enter the ledger with a REFUND entry; online refunds go through the
// gateway after commit.
func (s *BookingService) Refund(ctx context.Context, actor audit.Actor, appointmentID uuid.UUID, amountCents int64) error {
	var (
		userID     uuid.UUID
		paymentRef *string
		payOnline  bool
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		appointment, err := tx.Appointments().FindForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		userID = appointment.UserID()
		paymentRef = appointment.PaymentRef()
		payOnline = appointment.PayMethod() == payment.MethodOnline

		if err := appointment.Refund(amountCents); err != nil {
			return err
		}

		if appointment.PayMethod() == payment.MethodBalance {
			if _, err := tx.Ledger().LockAccount(ctx, userID); err != nil {
				return err
			}
			if err := tx.Ledger().Refund(ctx, userID, amountCents, RefAppointment, appointmentID); err != nil {
				return err
			}
		}

		if err := tx.Appointments().UpdateStatus(ctx, appointmentID, booking.StatusRefunded, appointment.Version()); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityAppointment, appointmentID, audit.ActionRefund, map[string]any{
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
			slog.Warn("gateway refund failed", "appointment_id", appointmentID, "error", err)
			return errs.Mark(err, errs.ErrGatewayFailure)
		}
	}
	notify(ctx, s.sink, userID, "appointment.refunded", map[string]any{
		"appointment_id": appointmentID,
		"amount_cents":   amountCents,
	})
	return nil
}
