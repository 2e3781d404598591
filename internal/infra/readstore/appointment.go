package readstore

import (
	"context"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"
	"salonbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewAppointmentReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *AppointmentReadStore {
	return &AppointmentReadStore{queries: queries, pool: pool}
}

func (s *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row, err := s.queries.GetAppointmentByID(ctx, s.pool, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrAppointmentNotFound
		}
		return nil, infra.WrapRepoErr("failed to get appointment", err)
	}

	itemRows, err := s.queries.ListAppointmentItems(ctx, s.pool, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointment items", err)
	}

	view := toAppointmentView(row, itemRows)
	return &view, nil
}

func (s *AppointmentReadStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]queries.AppointmentView, error) {
	rows, err := s.queries.ListAppointmentsByUser(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	views := make([]queries.AppointmentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toAppointmentView(row, nil))
	}
	return views, nil
}

func toAppointmentView(row pgq.AppointmentRow, itemRows []pgq.AppointmentItemRow) queries.AppointmentView {
	items := make([]queries.AppointmentItemView, 0, len(itemRows))
	for _, ir := range itemRows {
		items = append(items, queries.AppointmentItemView{
			ServiceID: ir.ServiceID,
			Qty:       ir.Qty,
			UnitCents: ir.UnitCents,
		})
	}
	return queries.AppointmentView{
		ID:               row.ID,
		UserID:           row.UserID,
		AppointmentAt:    row.AppointmentAt,
		Status:           row.Status,
		TotalCents:       row.TotalCents,
		PayMethod:        row.PayMethod,
		BalanceCentsUsed: row.BalanceCentsUsed,
		PaymentRef:       pgconv.StringPtrFromPgtype(row.PaymentRef),
		Items:            items,
		CreatedAt:        row.CreatedAt,
	}
}
