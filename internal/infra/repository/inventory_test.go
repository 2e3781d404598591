//go:build unit

package repository

import (
	"context"
	"testing"

	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockInventoryQueries struct {
	mock.Mock
}

func (m *MockInventoryQueries) LockProduct(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.ProductRow, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(pgq.ProductRow), args.Error(1)
}

func (m *MockInventoryQueries) AdjustPendingStock(ctx context.Context, db pgq.DBTX, id uuid.UUID, delta int32) (int64, error) {
	args := m.Called(ctx, db, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryQueries) TryDeductActualStock(ctx context.Context, db pgq.DBTX, id uuid.UUID, qty int32) (int64, error) {
	args := m.Called(ctx, db, id, qty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryQueries) IncreaseActualStock(ctx context.Context, db pgq.DBTX, id uuid.UUID, qty int32) (int64, error) {
	args := m.Called(ctx, db, id, qty)
	return args.Get(0).(int64), args.Error(1)
}

// pgq.DBTX implementation so the mock can stand in for the transaction handle
func (m *MockInventoryQueries) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockInventoryQueries) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Rows), mockArgs.Error(1)
}

func (m *MockInventoryQueries) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

func TestInventoryLockItem(t *testing.T) {
	itemID := uuid.New()

	t.Run("returns the locked stock counters", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("LockProduct", mock.Anything, mock.Anything, itemID).
			Return(pgq.ProductRow{ID: itemID, StockActual: 7, StockPending: 2}, nil)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		item, err := repo.LockItem(context.Background(), itemID)

		assert.NoError(t, err)
		assert.Equal(t, int32(7), item.StockActual)
		assert.Equal(t, int32(5), item.DisplayStock())
	})

	t.Run("missing row maps to item not found", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("LockProduct", mock.Anything, mock.Anything, itemID).
			Return(pgq.ProductRow{}, pgx.ErrNoRows)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		_, err := repo.LockItem(context.Background(), itemID)

		assert.ErrorIs(t, err, errs.ErrItemNotFound)
	})
}

func TestInventoryFreezeStock(t *testing.T) {
	itemID := uuid.New()

	t.Run("zero rows affected maps to item not found", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("AdjustPendingStock", mock.Anything, mock.Anything, itemID, int32(3)).
			Return(int64(0), nil)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		assert.ErrorIs(t, repo.FreezeStock(context.Background(), itemID, 3), errs.ErrItemNotFound)
	})

	t.Run("non positive quantity rejected without a query", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		repo := NewInventoryRepository(mockQueries, mockQueries)

		assert.ErrorIs(t, repo.FreezeStock(context.Background(), itemID, 0), errs.ErrInvalidAmount)
		mockQueries.AssertNotCalled(t, "AdjustPendingStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInventoryAdjustFrozen(t *testing.T) {
	itemID := uuid.New()

	t.Run("zero rows affected maps to negative hold", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("AdjustPendingStock", mock.Anything, mock.Anything, itemID, int32(-3)).
			Return(int64(0), nil)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		assert.ErrorIs(t, repo.AdjustFrozen(context.Background(), itemID, -3), errs.ErrNegativeHold)
	})
}

func TestInventoryConfirmDeduct(t *testing.T) {
	itemID := uuid.New()

	t.Run("zero rows affected maps to insufficient stock", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("TryDeductActualStock", mock.Anything, mock.Anything, itemID, int32(3)).
			Return(int64(0), nil)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		assert.ErrorIs(t, repo.ConfirmDeduct(context.Background(), itemID, 3), errs.ErrInsufficientStock)
	})

	t.Run("successful deduct", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("TryDeductActualStock", mock.Anything, mock.Anything, itemID, int32(3)).
			Return(int64(1), nil)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		assert.NoError(t, repo.ConfirmDeduct(context.Background(), itemID, 3))
	})
}

func TestInventoryRestoreStock(t *testing.T) {
	itemID := uuid.New()

	t.Run("zero rows affected maps to item not found", func(t *testing.T) {
		mockQueries := new(MockInventoryQueries)
		mockQueries.On("IncreaseActualStock", mock.Anything, mock.Anything, itemID, int32(2)).
			Return(int64(0), nil)

		repo := NewInventoryRepository(mockQueries, mockQueries)
		assert.ErrorIs(t, repo.RestoreStock(context.Background(), itemID, 2), errs.ErrItemNotFound)
	})
}
