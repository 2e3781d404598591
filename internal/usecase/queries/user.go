package queries

import (
	"context"

	"github.com/google/uuid"
)

type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
}

type UserQueryService struct {
	reader UserReader
}

func NewUserQueryService(reader UserReader) *UserQueryService {
	return &UserQueryService{reader: reader}
}

func (s *UserQueryService) GetUser(ctx context.Context, id uuid.UUID) (*UserView, error) {
	return s.reader.FindByID(ctx, id)
}
