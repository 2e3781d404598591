package repository

import (
	"context"

	"salonbook/internal/domain/inventory"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type InventoryQueries interface {
	LockProduct(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.ProductRow, error)
	AdjustPendingStock(ctx context.Context, db pgq.DBTX, id uuid.UUID, delta int32) (int64, error)
	TryDeductActualStock(ctx context.Context, db pgq.DBTX, id uuid.UUID, qty int32) (int64, error)
	IncreaseActualStock(ctx context.Context, db pgq.DBTX, id uuid.UUID, qty int32) (int64, error)
}

// InventoryRepository mirrors the ledger side for product stock: pending and
// actual are independent non-negative counters, each moved by one conditional
// statement.
type InventoryRepository struct {
	queries InventoryQueries
	db      pgq.DBTX
}

func NewInventoryRepository(queries InventoryQueries, db pgq.DBTX) *InventoryRepository {
	return &InventoryRepository{queries: queries, db: db}
}

// LockItem takes the product row lock. Callers lock items in ascending id
// order to keep multi-item transactions deadlock-free.
func (r *InventoryRepository) LockItem(ctx context.Context, itemID uuid.UUID) (*inventory.StockItem, error) {
	row, err := r.queries.LockProduct(ctx, r.db, itemID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrItemNotFound
		}
		return nil, infra.WrapRepoErr("failed to lock product", err)
	}
	return &inventory.StockItem{
		ItemID:       row.ID,
		StockActual:  row.StockActual,
		StockPending: row.StockPending,
	}, nil
}

func (r *InventoryRepository) FreezeStock(ctx context.Context, itemID uuid.UUID, qty int32) error {
	quantity, err := inventory.NewQuantity(qty)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	affected, err := r.queries.AdjustPendingStock(ctx, r.db, itemID, quantity.Units())
	if err != nil {
		return infra.WrapRepoErr("failed to freeze stock", err)
	}
	if affected == 0 {
		return errs.ErrItemNotFound
	}
	return nil
}

func (r *InventoryRepository) AdjustFrozen(ctx context.Context, itemID uuid.UUID, delta int32) error {
	affected, err := r.queries.AdjustPendingStock(ctx, r.db, itemID, delta)
	if err != nil {
		return infra.WrapRepoErr("failed to adjust frozen stock", err)
	}
	if affected == 0 {
		return errs.ErrNegativeHold
	}
	return nil
}

// ConfirmDeduct reduces actual stock at commit time. The guard re-checks
// availability even when a matching freeze exists, because freezing never
// validated against the actual counter.
func (r *InventoryRepository) ConfirmDeduct(ctx context.Context, itemID uuid.UUID, qty int32) error {
	quantity, err := inventory.NewQuantity(qty)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	affected, err := r.queries.TryDeductActualStock(ctx, r.db, itemID, quantity.Units())
	if err != nil {
		return infra.WrapRepoErr("failed to deduct stock", err)
	}
	if affected == 0 {
		return errs.ErrInsufficientStock
	}
	return nil
}

func (r *InventoryRepository) RestoreStock(ctx context.Context, itemID uuid.UUID, qty int32) error {
	quantity, err := inventory.NewQuantity(qty)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	affected, err := r.queries.IncreaseActualStock(ctx, r.db, itemID, quantity.Units())
	if err != nil {
		return infra.WrapRepoErr("failed to restore stock", err)
	}
	if affected == 0 {
		return errs.ErrItemNotFound
	}
	return nil
}
