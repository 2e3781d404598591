//go:build unit

package repository

import (
	"context"
	"encoding/json"
	"testing"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/user"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuditQueries struct {
	mock.Mock
}

func (m *MockAuditQueries) InsertAuditLog(ctx context.Context, db pgq.DBTX, arg pgq.InsertAuditLogParams) (uuid.UUID, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// pgq.DBTX implementation so the mock can stand in for the transaction handle
func (m *MockAuditQueries) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockAuditQueries) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Rows), mockArgs.Error(1)
}

func (m *MockAuditQueries) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

func TestAuditRecord(t *testing.T) {
	entityID := uuid.New()

	t.Run("anonymous actor writes NULL actor columns", func(t *testing.T) {
		queries := new(MockAuditQueries)
		repo := NewAuditRepository(queries, queries)

		queries.On("InsertAuditLog", mock.Anything, queries, mock.MatchedBy(func(arg pgq.InsertAuditLogParams) bool {
			return !arg.ActorID.Valid && !arg.ActorType.Valid
		})).Return(uuid.New(), nil)

		err := repo.Record(context.Background(), audit.Anonymous(), "appointment", entityID, audit.ActionCancel, nil, nil)
		require.NoError(t, err)
		queries.AssertExpectations(t)
	})

	t.Run("user actor carries id and role", func(t *testing.T) {
		actorID := uuid.New()
		queries := new(MockAuditQueries)
		repo := NewAuditRepository(queries, queries)

		queries.On("InsertAuditLog", mock.Anything, queries, mock.MatchedBy(func(arg pgq.InsertAuditLogParams) bool {
			return arg.ActorID.Valid && uuid.UUID(arg.ActorID.Bytes) == actorID &&
				arg.ActorType.Valid && arg.ActorType.String == "admin"
		})).Return(uuid.New(), nil)

		err := repo.Record(context.Background(), audit.UserActor(actorID, user.RoleAdmin), "appointment", entityID, audit.ActionFinish, map[string]any{"status": "finished"}, nil)
		require.NoError(t, err)
		queries.AssertExpectations(t)
	})

	t.Run("nil maps marshal to empty objects", func(t *testing.T) {
		queries := new(MockAuditQueries)
		repo := NewAuditRepository(queries, queries)

		queries.On("InsertAuditLog", mock.Anything, queries, mock.MatchedBy(func(arg pgq.InsertAuditLogParams) bool {
			return string(arg.Changes) == "{}" && string(arg.Context) == "{}"
		})).Return(uuid.New(), nil)

		err := repo.Record(context.Background(), audit.SystemActor(), "shop_order", entityID, audit.ActionRefund, nil, nil)
		require.NoError(t, err)
		queries.AssertExpectations(t)
	})

	t.Run("changes round-trip as JSON", func(t *testing.T) {
		queries := new(MockAuditQueries)
		repo := NewAuditRepository(queries, queries)

		var captured []byte
		queries.On("InsertAuditLog", mock.Anything, queries, mock.MatchedBy(func(arg pgq.InsertAuditLogParams) bool {
			captured = arg.Changes
			return true
		})).Return(uuid.New(), nil)

		err := repo.Record(context.Background(), audit.SystemActor(), "balance", entityID, audit.ActionTopUp,
			map[string]any{"amount_cents": int64(500)}, nil)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(captured, &decoded))
		assert.Equal(t, float64(500), decoded["amount_cents"])
	})

	t.Run("insert failure wraps as db failure", func(t *testing.T) {
		queries := new(MockAuditQueries)
		repo := NewAuditRepository(queries, queries)

		queries.On("InsertAuditLog", mock.Anything, queries, mock.Anything).
			Return(uuid.Nil, assert.AnError)

		err := repo.Record(context.Background(), audit.Anonymous(), "balance", entityID, audit.ActionTopUp, nil, nil)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
