package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AppointmentRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AppointmentAt    time.Time
	Status           string
	TotalCents       int64
	PayMethod        string
	BalanceCentsUsed int64
	PaymentRef       pgtype.Text
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type AppointmentItemRow struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	ServiceID     uuid.UUID
	Qty           int32
	UnitCents     int64
}

type InsertAppointmentParams struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AppointmentAt    time.Time
	Status           string
	TotalCents       int64
	PayMethod        string
	BalanceCentsUsed int64
}

type InsertAppointmentItemParams struct {
	AppointmentID uuid.UUID
	ServiceID     uuid.UUID
	Qty           int32
	UnitCents     int64
}

const insertAppointment = `
INSERT INTO appointments (id, user_id, appointment_at, status, total_cents, pay_method, balance_cents_used)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`

func (q *Queries) InsertAppointment(ctx context.Context, db DBTX, arg InsertAppointmentParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, insertAppointment,
		arg.ID, arg.UserID, arg.AppointmentAt, arg.Status,
		arg.TotalCents, arg.PayMethod, arg.BalanceCentsUsed).Scan(&id)
	return id, err
}

const insertAppointmentItem = `
INSERT INTO appointment_items (id, appointment_id, service_id, qty, unit_cents)
VALUES (gen_random_uuid(), $1, $2, $3, $4)
`

func (q *Queries) InsertAppointmentItem(ctx context.Context, db DBTX, arg InsertAppointmentItemParams) error {
	_, err := db.Exec(ctx, insertAppointmentItem,
		arg.AppointmentID, arg.ServiceID, arg.Qty, arg.UnitCents)
	return err
}

const getAppointmentForUpdate = `
SELECT id, user_id, appointment_at, status, total_cents, pay_method, balance_cents_used, payment_ref, version, created_at, updated_at
FROM appointments
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetAppointmentForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (AppointmentRow, error) {
	var row AppointmentRow
	err := db.QueryRow(ctx, getAppointmentForUpdate, id).Scan(
		&row.ID, &row.UserID, &row.AppointmentAt, &row.Status, &row.TotalCents,
		&row.PayMethod, &row.BalanceCentsUsed, &row.PaymentRef, &row.Version,
		&row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const getAppointmentByID = `
SELECT id, user_id, appointment_at, status, total_cents, pay_method, balance_cents_used, payment_ref, version, created_at, updated_at
FROM appointments
WHERE id = $1
`

func (q *Queries) GetAppointmentByID(ctx context.Context, db DBTX, id uuid.UUID) (AppointmentRow, error) {
	var row AppointmentRow
	err := db.QueryRow(ctx, getAppointmentByID, id).Scan(
		&row.ID, &row.UserID, &row.AppointmentAt, &row.Status, &row.TotalCents,
		&row.PayMethod, &row.BalanceCentsUsed, &row.PaymentRef, &row.Version,
		&row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const updateAppointmentStatus = `
UPDATE appointments
SET status = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $3
`

// UpdateAppointmentStatus is compared-and-swapped on version; the row is
// already locked when called from a coordinator transaction.
func (q *Queries) UpdateAppointmentStatus(ctx context.Context, db DBTX, id uuid.UUID, status string, version int64) (int64, error) {
	tag, err := db.Exec(ctx, updateAppointmentStatus, id, status, version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setAppointmentPaymentRef = `
UPDATE appointments
SET payment_ref = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $1
`

func (q *Queries) SetAppointmentPaymentRef(ctx context.Context, db DBTX, id uuid.UUID, paymentRef string) (int64, error) {
	tag, err := db.Exec(ctx, setAppointmentPaymentRef, id, paymentRef)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const existsAppointmentAt = `
SELECT EXISTS (
	SELECT 1 FROM appointments
	WHERE user_id = $1 AND appointment_at = $2 AND status = 'unconfirmed'
)
`

func (q *Queries) ExistsAppointmentAt(ctx context.Context, db DBTX, userID uuid.UUID, at time.Time) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, existsAppointmentAt, userID, at).Scan(&exists)
	return exists, err
}

const listAppointmentItems = `
SELECT id, appointment_id, service_id, qty, unit_cents
FROM appointment_items
WHERE appointment_id = $1
ORDER BY service_id
`

func (q *Queries) ListAppointmentItems(ctx context.Context, db DBTX, appointmentID uuid.UUID) ([]AppointmentItemRow, error) {
	rows, err := db.Query(ctx, listAppointmentItems, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AppointmentItemRow
	for rows.Next() {
		var row AppointmentItemRow
		if err := rows.Scan(&row.ID, &row.AppointmentID, &row.ServiceID, &row.Qty, &row.UnitCents); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

const listAppointmentsByUser = `
SELECT id, user_id, appointment_at, status, total_cents, pay_method, balance_cents_used, payment_ref, version, created_at, updated_at
FROM appointments
WHERE user_id = $1
ORDER BY appointment_at DESC
LIMIT $2
`

func (q *Queries) ListAppointmentsByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int32) ([]AppointmentRow, error) {
	rows, err := db.Query(ctx, listAppointmentsByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AppointmentRow
	for rows.Next() {
		var row AppointmentRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.AppointmentAt, &row.Status,
			&row.TotalCents, &row.PayMethod, &row.BalanceCentsUsed, &row.PaymentRef,
			&row.Version, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
