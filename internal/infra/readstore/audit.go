package readstore

import (
	"context"
	"encoding/json"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/pgconv"
	"salonbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewAuditReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *AuditReadStore {
	return &AuditReadStore{queries: queries, pool: pool}
}

func (s *AuditReadStore) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int32) ([]queries.AuditEntryView, error) {
	rows, err := s.queries.ListAuditByEntity(ctx, s.pool, entityType, entityID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list audit entries", err)
	}

	views := make([]queries.AuditEntryView, 0, len(rows))
	for _, row := range rows {
		var changes, extra map[string]any
		if len(row.Changes) > 0 {
			if err := json.Unmarshal(row.Changes, &changes); err != nil {
				return nil, infra.WrapRepoErr("failed to decode audit changes", err)
			}
		}
		if len(row.Context) > 0 {
			if err := json.Unmarshal(row.Context, &extra); err != nil {
				return nil, infra.WrapRepoErr("failed to decode audit context", err)
			}
		}
		views = append(views, queries.AuditEntryView{
			ID:         row.ID,
			ActorID:    pgconv.UUIDPtrFromPgtype(row.ActorID),
			ActorType:  pgconv.StringPtrFromPgtype(row.ActorType),
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Action:     row.Action,
			Changes:    changes,
			Context:    extra,
			EventTime:  row.EventTime,
		})
	}
	return views, nil
}
