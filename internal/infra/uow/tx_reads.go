package uow

import (
	"context"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// txReads executes catalog lookups inside the open transaction so captured
// prices are consistent with the rows being locked.
type txReads struct {
	tx      pgx.Tx
	queries *pgq.Queries
}

func (r *txReads) ServiceItemByID(ctx context.Context, id uuid.UUID) (*shared.ServiceItemSnapshot, error) {
	row, err := r.queries.GetServiceItemByID(ctx, r.tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrItemNotFound
		}
		return nil, infra.WrapRepoErr("failed to get service item", err)
	}
	return &shared.ServiceItemSnapshot{
		ID:         row.ID,
		Name:       row.Name,
		PriceCents: row.PriceCents,
	}, nil
}

func (r *txReads) ProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	row, err := r.queries.GetProductByID(ctx, r.tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrItemNotFound
		}
		return nil, infra.WrapRepoErr("failed to get product", err)
	}
	return &shared.ProductSnapshot{
		ID:         row.ID,
		Name:       row.Name,
		PriceCents: row.PriceCents,
		Status:     row.Status,
	}, nil
}
