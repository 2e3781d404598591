//go:build unit

package repository

import (
	"context"
	"testing"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLedgerQueries struct {
	mock.Mock
}

func (m *MockLedgerQueries) LockSavingsCard(ctx context.Context, db pgq.DBTX, userID uuid.UUID) (pgq.SavingsCardRow, error) {
	args := m.Called(ctx, db, userID)
	return args.Get(0).(pgq.SavingsCardRow), args.Error(1)
}

func (m *MockLedgerQueries) LockSavingsHold(ctx context.Context, db pgq.DBTX, userID uuid.UUID) (pgq.SavingsHoldRow, error) {
	args := m.Called(ctx, db, userID)
	return args.Get(0).(pgq.SavingsHoldRow), args.Error(1)
}

func (m *MockLedgerQueries) TopUpBalance(ctx context.Context, db pgq.DBTX, userID uuid.UUID, amountCents int64) (int64, error) {
	args := m.Called(ctx, db, userID, amountCents)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerQueries) TrySpendBalance(ctx context.Context, db pgq.DBTX, userID uuid.UUID, amountCents int64) (int64, error) {
	args := m.Called(ctx, db, userID, amountCents)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerQueries) UpsertFreezeHold(ctx context.Context, db pgq.DBTX, userID uuid.UUID, amountCents int64) error {
	args := m.Called(ctx, db, userID, amountCents)
	return args.Error(0)
}

func (m *MockLedgerQueries) AdjustHold(ctx context.Context, db pgq.DBTX, userID uuid.UUID, deltaCents int64) (int64, error) {
	args := m.Called(ctx, db, userID, deltaCents)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerQueries) InsertLedgerEntry(ctx context.Context, db pgq.DBTX, arg pgq.InsertLedgerEntryParams) (uuid.UUID, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// pgq.DBTX implementation so the mock can stand in for the transaction handle
func (m *MockLedgerQueries) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockLedgerQueries) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Rows), mockArgs.Error(1)
}

func (m *MockLedgerQueries) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

func TestLedgerLockAccount(t *testing.T) {
	userID := uuid.New()

	t.Run("returns the locked account", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("LockSavingsCard", mock.Anything, mock.Anything, userID).
			Return(pgq.SavingsCardRow{UserID: userID, BalanceCents: 1000, Version: 3}, nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		account, err := repo.LockAccount(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(1000), account.BalanceCents)
		assert.Equal(t, int64(3), account.Version)
		mockQueries.AssertExpectations(t)
	})

	t.Run("missing row maps to account not found", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("LockSavingsCard", mock.Anything, mock.Anything, userID).
			Return(pgq.SavingsCardRow{}, pgx.ErrNoRows)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		_, err := repo.LockAccount(context.Background(), userID)

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})
}

func TestLedgerTrySpend(t *testing.T) {
	userID := uuid.New()
	refID := uuid.New()

	t.Run("spend records a ledger entry", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("TrySpendBalance", mock.Anything, mock.Anything, userID, int64(600)).
			Return(int64(1), nil)
		mockQueries.On("InsertLedgerEntry", mock.Anything, mock.Anything, mock.MatchedBy(func(arg pgq.InsertLedgerEntryParams) bool {
			return arg.Kind == "SPEND" && arg.AmountCents == 600
		})).Return(uuid.New(), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		err := repo.TrySpend(context.Background(), userID, 600, "appointment", refID)

		assert.NoError(t, err)
		mockQueries.AssertExpectations(t)
	})

	t.Run("zero rows affected maps to insufficient funds", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("TrySpendBalance", mock.Anything, mock.Anything, userID, int64(600)).
			Return(int64(0), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		err := repo.TrySpend(context.Background(), userID, 600, "appointment", refID)

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		mockQueries.AssertNotCalled(t, "InsertLedgerEntry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non positive amount rejected without a query", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		repo := NewLedgerRepository(mockQueries, mockQueries)

		assert.ErrorIs(t, repo.TrySpend(context.Background(), userID, 0, "appointment", refID), errs.ErrInvalidAmount)
		mockQueries.AssertNotCalled(t, "TrySpendBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database error wraps as db failure", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("TrySpendBalance", mock.Anything, mock.Anything, userID, int64(600)).
			Return(int64(0), assert.AnError)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		err := repo.TrySpend(context.Background(), userID, 600, "appointment", refID)

		assert.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestLedgerTopUp(t *testing.T) {
	userID := uuid.New()

	t.Run("zero rows affected maps to account not found", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("TopUpBalance", mock.Anything, mock.Anything, userID, int64(500)).
			Return(int64(0), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		assert.ErrorIs(t, repo.TopUp(context.Background(), userID, 500), errs.ErrAccountNotFound)
	})

	t.Run("top up records a TOP_UP entry", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("TopUpBalance", mock.Anything, mock.Anything, userID, int64(500)).
			Return(int64(1), nil)
		mockQueries.On("InsertLedgerEntry", mock.Anything, mock.Anything, mock.MatchedBy(func(arg pgq.InsertLedgerEntryParams) bool {
			return arg.Kind == "TOP_UP" && !arg.RefKind.Valid
		})).Return(uuid.New(), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		assert.NoError(t, repo.TopUp(context.Background(), userID, 500))
		mockQueries.AssertExpectations(t)
	})
}

func TestLedgerAdjustPending(t *testing.T) {
	userID := uuid.New()

	t.Run("zero rows affected maps to negative hold", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("AdjustHold", mock.Anything, mock.Anything, userID, int64(-600)).
			Return(int64(0), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		assert.ErrorIs(t, repo.AdjustPending(context.Background(), userID, -600), errs.ErrNegativeHold)
	})

	t.Run("successful release", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("AdjustHold", mock.Anything, mock.Anything, userID, int64(-600)).
			Return(int64(1), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		assert.NoError(t, repo.AdjustPending(context.Background(), userID, -600))
	})
}

func TestLedgerRefund(t *testing.T) {
	userID := uuid.New()
	refID := uuid.New()

	t.Run("refund records a REFUND entry with reference", func(t *testing.T) {
		mockQueries := new(MockLedgerQueries)
		mockQueries.On("TopUpBalance", mock.Anything, mock.Anything, userID, int64(250)).
			Return(int64(1), nil)
		mockQueries.On("InsertLedgerEntry", mock.Anything, mock.Anything, mock.MatchedBy(func(arg pgq.InsertLedgerEntryParams) bool {
			return arg.Kind == "REFUND" && arg.RefKind.Valid && arg.RefKind.String == "shop_order"
		})).Return(uuid.New(), nil)

		repo := NewLedgerRepository(mockQueries, mockQueries)
		assert.NoError(t, repo.Refund(context.Background(), userID, 250, "shop_order", refID))
		mockQueries.AssertExpectations(t)
	})
}
