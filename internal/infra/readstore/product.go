package readstore

import (
	"context"

	"salonbook/internal/domain/inventory"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"
	"salonbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewProductReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *ProductReadStore {
	return &ProductReadStore{queries: queries, pool: pool}
}

func (s *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	row, err := s.queries.GetProductByID(ctx, s.pool, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrItemNotFound
		}
		return nil, infra.WrapRepoErr("failed to get product", err)
	}
	view := toProductView(row)
	return &view, nil
}

func (s *ProductReadStore) List(ctx context.Context) ([]queries.ProductView, error) {
	rows, err := s.queries.ListProducts(ctx, s.pool)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	views := make([]queries.ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toProductView(row))
	}
	return views, nil
}

// Display stock subtracts pending from actual so shoppers never see units
// already promised to held orders.
func toProductView(row pgq.ProductRow) queries.ProductView {
	item := inventory.StockItem{
		ItemID:       row.ID,
		StockActual:  row.StockActual,
		StockPending: row.StockPending,
	}
	return queries.ProductView{
		ID:           row.ID,
		Name:         row.Name,
		Category:     row.Category,
		PriceCents:   row.PriceCents,
		DisplayStock: item.DisplayStock(),
		Status:       row.Status,
	}
}
