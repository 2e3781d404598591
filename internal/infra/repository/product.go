package repository

import (
	"context"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductQueries interface {
	CreateProduct(ctx context.Context, db pgq.DBTX, arg pgq.CreateProductParams) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, db pgq.DBTX, arg pgq.UpdateProductParams) (int64, error)
}

// ProductRepository covers the admin catalog mutations. Stock counters are
// never touched here; those belong to InventoryRepository.
type ProductRepository struct {
	queries ProductQueries
	db      pgq.DBTX
}

func NewProductRepository(queries ProductQueries, db pgq.DBTX) *ProductRepository {
	return &ProductRepository{queries: queries, db: db}
}

func (r *ProductRepository) Create(ctx context.Context, input shared.CreateProductInput) (uuid.UUID, error) {
	id, err := r.queries.CreateProduct(ctx, r.db, pgq.CreateProductParams{
		Name:       input.Name,
		Category:   input.Category,
		PriceCents: input.PriceCents,
	})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create product", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, input shared.UpdateProductInput) error {
	params := pgq.UpdateProductParams{ID: input.ID}
	if input.Name != nil {
		params.Name = pgtype.Text{String: *input.Name, Valid: true}
	}
	if input.Category != nil {
		params.Category = pgtype.Text{String: *input.Category, Valid: true}
	}
	if input.PriceCents != nil {
		params.PriceCents = pgtype.Int8{Int64: *input.PriceCents, Valid: true}
	}
	if input.Status != nil {
		params.Status = pgtype.Text{String: *input.Status, Valid: true}
	}

	affected, err := r.queries.UpdateProduct(ctx, r.db, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update product", err)
	}
	if affected == 0 {
		return errs.ErrItemNotFound
	}
	return nil
}
