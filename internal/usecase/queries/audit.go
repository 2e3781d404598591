package queries

import (
	"context"

	"github.com/google/uuid"
)

type AuditReader interface {
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int32) ([]AuditEntryView, error)
}

type AuditQueryService struct {
	reader AuditReader
}

func NewAuditQueryService(reader AuditReader) *AuditQueryService {
	return &AuditQueryService{reader: reader}
}

// ListByEntity returns the trail newest first.
func (s *AuditQueryService) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int32) ([]AuditEntryView, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.reader.ListByEntity(ctx, entityType, entityID, limit)
}
