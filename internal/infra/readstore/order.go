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

type OrderReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewOrderReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *OrderReadStore {
	return &OrderReadStore{queries: queries, pool: pool}
}

func (s *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	row, err := s.queries.GetShopOrderByID(ctx, s.pool, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, infra.WrapRepoErr("failed to get shop order", err)
	}

	itemRows, err := s.queries.ListOrderItems(ctx, s.pool, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}

	view := toOrderView(row, itemRows)
	return &view, nil
}

func (s *OrderReadStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]queries.OrderView, error) {
	rows, err := s.queries.ListShopOrdersByUser(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list shop orders", err)
	}
	views := make([]queries.OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toOrderView(row, nil))
	}
	return views, nil
}

func toOrderView(row pgq.ShopOrderRow, itemRows []pgq.OrderItemRow) queries.OrderView {
	items := make([]queries.OrderItemView, 0, len(itemRows))
	for _, ir := range itemRows {
		items = append(items, queries.OrderItemView{
			ProductID: ir.ProductID,
			Qty:       ir.Qty,
			UnitCents: ir.UnitCents,
		})
	}
	return queries.OrderView{
		ID:               row.ID,
		UserID:           row.UserID,
		Status:           row.Status,
		TotalCents:       row.TotalCents,
		Address:          row.Address,
		Phone:            row.Phone,
		PayMethod:        row.PayMethod,
		BalanceCentsUsed: row.BalanceCentsUsed,
		PaymentRef:       pgconv.StringPtrFromPgtype(row.PaymentRef),
		TrackingNo:       pgconv.StringPtrFromPgtype(row.TrackingNo),
		Items:            items,
		CreatedAt:        row.CreatedAt,
	}
}
