package repository

import (
	"context"
	"time"

	"salonbook/internal/domain/booking"
	"salonbook/internal/domain/payment"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AppointmentQueries interface {
	InsertAppointment(ctx context.Context, db pgq.DBTX, arg pgq.InsertAppointmentParams) (uuid.UUID, error)
	InsertAppointmentItem(ctx context.Context, db pgq.DBTX, arg pgq.InsertAppointmentItemParams) error
	GetAppointmentForUpdate(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.AppointmentRow, error)
	UpdateAppointmentStatus(ctx context.Context, db pgq.DBTX, id uuid.UUID, status string, version int64) (int64, error)
	SetAppointmentPaymentRef(ctx context.Context, db pgq.DBTX, id uuid.UUID, paymentRef string) (int64, error)
	ExistsAppointmentAt(ctx context.Context, db pgq.DBTX, userID uuid.UUID, at time.Time) (bool, error)
	ListAppointmentItems(ctx context.Context, db pgq.DBTX, appointmentID uuid.UUID) ([]pgq.AppointmentItemRow, error)
}

type AppointmentRepository struct {
	queries AppointmentQueries
	db      pgq.DBTX
}

func NewAppointmentRepository(queries AppointmentQueries, db pgq.DBTX) *AppointmentRepository {
	return &AppointmentRepository{queries: queries, db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *booking.Appointment) (uuid.UUID, error) {
	id, err := r.queries.InsertAppointment(ctx, r.db, pgq.InsertAppointmentParams{
		ID:               appointment.ID(),
		UserID:           appointment.UserID(),
		AppointmentAt:    appointment.AppointmentAt(),
		Status:           string(appointment.Status()),
		TotalCents:       appointment.TotalCents(),
		PayMethod:        string(appointment.PayMethod()),
		BalanceCentsUsed: appointment.BalanceCentsUsed(),
	})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert appointment", err)
	}

	for _, item := range appointment.Items() {
		err := r.queries.InsertAppointmentItem(ctx, r.db, pgq.InsertAppointmentItemParams{
			AppointmentID: id,
			ServiceID:     item.ServiceID,
			Qty:           item.Qty,
			UnitCents:     item.UnitCents,
		})
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to insert appointment item", err)
		}
	}
	return id, nil
}

// FindForUpdate loads the appointment with its row lock held, items included.
func (r *AppointmentRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Appointment, error) {
	row, err := r.queries.GetAppointmentForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrAppointmentNotFound
		}
		return nil, infra.WrapRepoErr("failed to lock appointment", err)
	}

	itemRows, err := r.queries.ListAppointmentItems(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointment items", err)
	}
	items := make([]booking.LineItem, 0, len(itemRows))
	for _, ir := range itemRows {
		items = append(items, booking.LineItem{
			ServiceID: ir.ServiceID,
			Qty:       ir.Qty,
			UnitCents: ir.UnitCents,
		})
	}

	return booking.ReconstructAppointment(
		row.ID, row.UserID,
		row.AppointmentAt,
		booking.Status(row.Status),
		row.TotalCents,
		payment.Method(row.PayMethod),
		row.BalanceCentsUsed,
		pgconv.StringPtrFromPgtype(row.PaymentRef),
		items,
		row.Version,
		row.CreatedAt, row.UpdatedAt,
	), nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, version int64) error {
	affected, err := r.queries.UpdateAppointmentStatus(ctx, r.db, id, string(status), version)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("appointment version conflict", errs.ErrDatabaseOperationFailed, infra.KindConflict)
	}
	return nil
}

func (r *AppointmentRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error {
	affected, err := r.queries.SetAppointmentPaymentRef(ctx, r.db, id, ref)
	if err != nil {
		return infra.WrapRepoErr("failed to set appointment payment ref", err)
	}
	if affected == 0 {
		return errs.ErrAppointmentNotFound
	}
	return nil
}

// ExistsAt reports whether the user already holds a live booking at the slot.
func (r *AppointmentRepository) ExistsAt(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	exists, err := r.queries.ExistsAppointmentAt(ctx, r.db, userID, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check appointment slot", err)
	}
	return exists, nil
}
