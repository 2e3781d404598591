package repository

import (
	"context"
	"errors"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserQueries interface {
	CreateUser(ctx context.Context, db pgq.DBTX, arg pgq.CreateUserParams) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, db pgq.DBTX, id uuid.UUID) error
	CreateSavingsCard(ctx context.Context, db pgq.DBTX, userID uuid.UUID) error
}

type UserRepository struct {
	queries UserQueries
	db      pgq.DBTX
}

func NewUserRepository(queries UserQueries, db pgq.DBTX) *UserRepository {
	return &UserRepository{queries: queries, db: db}
}

// Create registers the user and provisions an empty savings card in the same
// transaction.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, role string) (uuid.UUID, error) {
	id, err := r.queries.CreateUser(ctx, r.db, pgq.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}

	if err := r.queries.CreateSavingsCard(ctx, r.db, id); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to provision savings card", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.UpdateLastLogin(ctx, r.db, id); err != nil {
		if pgconv.IsNoRows(err) {
			return errs.ErrUserNotFound
		}
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
