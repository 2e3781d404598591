package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRow struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLoginAt  pgtype.Timestamptz
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
}

const findUserByEmail = `
SELECT id, email, password_hash, role, is_active, last_login_at, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) FindUserByEmail(ctx context.Context, db DBTX, email string) (UserRow, error) {
	var row UserRow
	err := db.QueryRow(ctx, findUserByEmail, email).Scan(
		&row.ID, &row.Email, &row.PasswordHash, &row.Role, &row.IsActive,
		&row.LastLoginAt, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const findUserByID = `
SELECT id, email, password_hash, role, is_active, last_login_at, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) FindUserByID(ctx context.Context, db DBTX, id uuid.UUID) (UserRow, error) {
	var row UserRow
	err := db.QueryRow(ctx, findUserByID, id).Scan(
		&row.ID, &row.Email, &row.PasswordHash, &row.Role, &row.IsActive,
		&row.LastLoginAt, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const createUser = `
INSERT INTO users (id, email, password_hash, role, is_active)
VALUES (gen_random_uuid(), $1, $2, $3, true)
RETURNING id
`

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, createUser, arg.Email, arg.PasswordHash, arg.Role).Scan(&id)
	return id, err
}

const updateLastLogin = `
UPDATE users
SET last_login_at = now(),
    updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateLastLogin(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, updateLastLogin, id)
	return err
}
