package repository

import (
	"context"
	"encoding/json"

	"salonbook/internal/domain/audit"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AuditQueries interface {
	InsertAuditLog(ctx context.Context, db pgq.DBTX, arg pgq.InsertAuditLogParams) (uuid.UUID, error)
}

// AuditRepository appends to the trail inside the caller's transaction, so a
// rollback discards the audit row together with the mutation it describes.
type AuditRepository struct {
	queries AuditQueries
	db      pgq.DBTX
}

func NewAuditRepository(queries AuditQueries, db pgq.DBTX) *AuditRepository {
	return &AuditRepository{queries: queries, db: db}
}

func (r *AuditRepository) Record(ctx context.Context, actor audit.Actor, entityType string, entityID uuid.UUID, action string, changes, extra map[string]any) error {
	changesJSON, err := marshalJSONB(changes)
	if err != nil {
		return infra.WrapRepoErr("failed to encode audit changes", err)
	}
	extraJSON, err := marshalJSONB(extra)
	if err != nil {
		return infra.WrapRepoErr("failed to encode audit context", err)
	}

	_, err = r.queries.InsertAuditLog(ctx, r.db, pgq.InsertAuditLogParams{
		ActorID:    pgconv.UUIDPtrToPgtype(actor.ID),
		ActorType:  pgconv.StringPtrToPgtype(actor.Type),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changesJSON,
		Context:    extraJSON,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to insert audit log", err)
	}
	return nil
}

func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	return json.Marshal(m)
}
