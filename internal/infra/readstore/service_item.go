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

type ServiceItemReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewServiceItemReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *ServiceItemReadStore {
	return &ServiceItemReadStore{queries: queries, pool: pool}
}

func (s *ServiceItemReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ServiceItemView, error) {
	row, err := s.queries.GetServiceItemByID(ctx, s.pool, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrItemNotFound
		}
		return nil, infra.WrapRepoErr("failed to get service item", err)
	}
	return &queries.ServiceItemView{
		ID:          row.ID,
		Name:        row.Name,
		PriceCents:  row.PriceCents,
		DurationMin: row.DurationMin,
	}, nil
}

func (s *ServiceItemReadStore) List(ctx context.Context) ([]queries.ServiceItemView, error) {
	rows, err := s.queries.ListServiceItems(ctx, s.pool)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list service items", err)
	}
	views := make([]queries.ServiceItemView, 0, len(rows))
	for _, row := range rows {
		views = append(views, queries.ServiceItemView{
			ID:          row.ID,
			Name:        row.Name,
			PriceCents:  row.PriceCents,
			DurationMin: row.DurationMin,
		})
	}
	return views, nil
}
