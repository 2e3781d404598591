package readstore

import (
	"context"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewUserReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{queries: queries, pool: pool}
}

func (s *UserReadStore) FindCredentialsByEmail(ctx context.Context, email string) (*commands.Credentials, error) {
	row, err := s.queries.FindUserByEmail(ctx, s.pool, email)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrUserNotFound
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &commands.Credentials{
		UserID:       row.ID,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		IsActive:     row.IsActive,
	}, nil
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row, err := s.queries.FindUserByID(ctx, s.pool, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrUserNotFound
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &queries.UserView{
		ID:          row.ID,
		Email:       row.Email,
		Role:        row.Role,
		IsActive:    row.IsActive,
		LastLoginAt: pgconv.TimePtrFromPgtype(row.LastLoginAt),
		CreatedAt:   row.CreatedAt,
	}, nil
}
