package commands

import (
	"context"
	"errors"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/user"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/jwt"
	"salonbook/internal/pkg/password"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrUserInactive       = errs.New("user account is inactive")
)

// Credentials is the minimal projection the login flow reads.
type Credentials struct {
	UserID       uuid.UUID
	PasswordHash string
	Role         string
	IsActive     bool
}

type CredentialsReader interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}

type AuthService struct {
	uow   shared.UnitOfWork
	creds CredentialsReader
	jwt   *jwt.Service
}

func NewAuthService(uow shared.UnitOfWork, creds CredentialsReader, jwtSvc *jwt.Service) *AuthService {
	return &AuthService{uow: uow, creds: creds, jwt: jwtSvc}
}

// Register creates a user and provisions an empty savings card in the same
// transaction.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string, role user.Role) (uuid.UUID, error) {
	hash, err := password.Hash(rawPassword)
	if err != nil {
		return uuid.Nil, err
	}

	var userID uuid.UUID
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Users().Create(ctx, email, hash, role.String())
		if err != nil {
			return err
		}
		userID = id
		return tx.Audit().Record(ctx, audit.UserActor(id, role), EntityUser, id, audit.ActionCreate, map[string]any{
			"email": email,
			"role":  role.String(),
		}, nil)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

// Login verifies the password and returns a signed access token. The
// credential lookup stays outside any transaction; only the last-login stamp
// is written.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	creds, err := s.creds.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !creds.IsActive {
		return "", ErrUserInactive
	}
	if err := password.Verify(creds.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	role, err := user.NewRole(creds.Role)
	if err != nil {
		return "", err
	}
	token, err := s.jwt.GenerateToken(creds.UserID, role)
	if err != nil {
		return "", err
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, creds.UserID)
	})
	if err != nil {
		return "", err
	}
	return token, nil
}
