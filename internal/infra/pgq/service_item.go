package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ServiceItemRow struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	DurationMin int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const getServiceItemByID = `
SELECT id, name, price_cents, duration_min, created_at, updated_at
FROM service_items
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) GetServiceItemByID(ctx context.Context, db DBTX, id uuid.UUID) (ServiceItemRow, error) {
	var row ServiceItemRow
	err := db.QueryRow(ctx, getServiceItemByID, id).Scan(
		&row.ID, &row.Name, &row.PriceCents, &row.DurationMin, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const listServiceItems = `
SELECT id, name, price_cents, duration_min, created_at, updated_at
FROM service_items
WHERE deleted_at IS NULL
ORDER BY name
`

func (q *Queries) ListServiceItems(ctx context.Context, db DBTX) ([]ServiceItemRow, error) {
	rows, err := db.Query(ctx, listServiceItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ServiceItemRow
	for rows.Next() {
		var row ServiceItemRow
		if err := rows.Scan(&row.ID, &row.Name, &row.PriceCents, &row.DurationMin,
			&row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
