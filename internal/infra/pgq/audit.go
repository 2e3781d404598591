package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AuditLogRow struct {
	ID         uuid.UUID
	ActorID    pgtype.UUID
	ActorType  pgtype.Text
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Changes    []byte
	Context    []byte
	EventTime  time.Time
}

type InsertAuditLogParams struct {
	ActorID    pgtype.UUID
	ActorType  pgtype.Text
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Changes    []byte
	Context    []byte
}

const insertAuditLog = `
INSERT INTO audit_log (id, actor_id, actor_type, entity_type, entity_id, action, changes, context)
VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
RETURNING id
`

func (q *Queries) InsertAuditLog(ctx context.Context, db DBTX, arg InsertAuditLogParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, insertAuditLog,
		arg.ActorID, arg.ActorType, arg.EntityType, arg.EntityID,
		arg.Action, arg.Changes, arg.Context).Scan(&id)
	return id, err
}

const listAuditByEntity = `
SELECT id, actor_id, actor_type, entity_type, entity_id, action, changes, context, event_time
FROM audit_log
WHERE entity_type = $1 AND entity_id = $2
ORDER BY event_time DESC
LIMIT $3
`

func (q *Queries) ListAuditByEntity(ctx context.Context, db DBTX, entityType string, entityID uuid.UUID, limit int32) ([]AuditLogRow, error) {
	rows, err := db.Query(ctx, listAuditByEntity, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AuditLogRow
	for rows.Next() {
		var row AuditLogRow
		if err := rows.Scan(&row.ID, &row.ActorID, &row.ActorType, &row.EntityType,
			&row.EntityID, &row.Action, &row.Changes, &row.Context, &row.EventTime); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
