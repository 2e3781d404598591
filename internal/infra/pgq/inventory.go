package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRow struct {
	ID           uuid.UUID
	Name         string
	Category     string
	PriceCents   int64
	StockActual  int32
	StockPending int32
	Status       string
	DeletedAt    pgtype.Timestamptz
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateProductParams struct {
	Name       string
	Category   string
	PriceCents int64
}

type UpdateProductParams struct {
	ID         uuid.UUID
	Name       pgtype.Text
	Category   pgtype.Text
	PriceCents pgtype.Int8
	Status     pgtype.Text
}

const lockProduct = `
SELECT id, name, category, price_cents, stock_actual, stock_pending, status, deleted_at, created_at, updated_at
FROM products
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE
`

// LockProduct takes the pessimistic row lock required before any multi-step
// sequence mixing pending adjustments and actual deductions.
func (q *Queries) LockProduct(ctx context.Context, db DBTX, id uuid.UUID) (ProductRow, error) {
	var row ProductRow
	err := db.QueryRow(ctx, lockProduct, id).Scan(
		&row.ID, &row.Name, &row.Category, &row.PriceCents,
		&row.StockActual, &row.StockPending, &row.Status,
		&row.DeletedAt, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const adjustPendingStock = `
UPDATE products
SET stock_pending = stock_pending + $2,
    updated_at = now()
WHERE id = $1 AND deleted_at IS NULL AND stock_pending + $2 >= 0
`

// AdjustPendingStock applies a signed delta to the hold counter. Freezing
// (positive delta) never checks stock_actual; an item can be over-reserved.
func (q *Queries) AdjustPendingStock(ctx context.Context, db DBTX, id uuid.UUID, delta int32) (int64, error) {
	tag, err := db.Exec(ctx, adjustPendingStock, id, delta)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const tryDeductActualStock = `
UPDATE products
SET stock_actual = stock_actual - $2,
    updated_at = now()
WHERE id = $1 AND deleted_at IS NULL AND stock_actual >= $2
`

// TryDeductActualStock succeeds or fails on stock_actual alone, never on the
// pending counter.
func (q *Queries) TryDeductActualStock(ctx context.Context, db DBTX, id uuid.UUID, qty int32) (int64, error) {
	tag, err := db.Exec(ctx, tryDeductActualStock, id, qty)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const increaseActualStock = `
UPDATE products
SET stock_actual = stock_actual + $2,
    updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) IncreaseActualStock(ctx context.Context, db DBTX, id uuid.UUID, qty int32) (int64, error) {
	tag, err := db.Exec(ctx, increaseActualStock, id, qty)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getProductByID = `
SELECT id, name, category, price_cents, stock_actual, stock_pending, status, deleted_at, created_at, updated_at
FROM products
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) GetProductByID(ctx context.Context, db DBTX, id uuid.UUID) (ProductRow, error) {
	var row ProductRow
	err := db.QueryRow(ctx, getProductByID, id).Scan(
		&row.ID, &row.Name, &row.Category, &row.PriceCents,
		&row.StockActual, &row.StockPending, &row.Status,
		&row.DeletedAt, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const listProducts = `
SELECT id, name, category, price_cents, stock_actual, stock_pending, status, deleted_at, created_at, updated_at
FROM products
WHERE deleted_at IS NULL AND status = 'on'
ORDER BY created_at DESC
`

func (q *Queries) ListProducts(ctx context.Context, db DBTX) ([]ProductRow, error) {
	rows, err := db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProductRow
	for rows.Next() {
		var row ProductRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Category, &row.PriceCents,
			&row.StockActual, &row.StockPending, &row.Status,
			&row.DeletedAt, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

const createProduct = `
INSERT INTO products (id, name, category, price_cents, stock_actual, stock_pending, status)
VALUES (gen_random_uuid(), $1, $2, $3, 0, 0, 'on')
RETURNING id
`

func (q *Queries) CreateProduct(ctx context.Context, db DBTX, arg CreateProductParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, createProduct, arg.Name, arg.Category, arg.PriceCents).Scan(&id)
	return id, err
}

const updateProduct = `
UPDATE products
SET name = COALESCE($2, name),
    category = COALESCE($3, category),
    price_cents = COALESCE($4, price_cents),
    status = COALESCE($5, status),
    updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) UpdateProduct(ctx context.Context, db DBTX, arg UpdateProductParams) (int64, error) {
	tag, err := db.Exec(ctx, updateProduct, arg.ID, arg.Name, arg.Category, arg.PriceCents, arg.Status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
