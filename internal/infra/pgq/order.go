package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ShopOrderRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Status           string
	TotalCents       int64
	Address          string
	Phone            string
	PayMethod        string
	BalanceCentsUsed int64
	PaymentRef       pgtype.Text
	TrackingNo       pgtype.Text
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type OrderItemRow struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Qty       int32
	UnitCents int64
}

type InsertShopOrderParams struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Status           string
	TotalCents       int64
	Address          string
	Phone            string
	PayMethod        string
	BalanceCentsUsed int64
}

type InsertOrderItemParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Qty       int32
	UnitCents int64
}

const insertShopOrder = `
INSERT INTO shop_orders (id, user_id, status, total_cents, address, phone, pay_method, balance_cents_used)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`

func (q *Queries) InsertShopOrder(ctx context.Context, db DBTX, arg InsertShopOrderParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, insertShopOrder,
		arg.ID, arg.UserID, arg.Status, arg.TotalCents,
		arg.Address, arg.Phone, arg.PayMethod, arg.BalanceCentsUsed).Scan(&id)
	return id, err
}

const insertOrderItem = `
INSERT INTO order_items (id, order_id, product_id, qty, unit_cents)
VALUES (gen_random_uuid(), $1, $2, $3, $4)
`

func (q *Queries) InsertOrderItem(ctx context.Context, db DBTX, arg InsertOrderItemParams) error {
	_, err := db.Exec(ctx, insertOrderItem, arg.OrderID, arg.ProductID, arg.Qty, arg.UnitCents)
	return err
}

const getShopOrderForUpdate = `
SELECT id, user_id, status, total_cents, address, phone, pay_method, balance_cents_used, payment_ref, tracking_no, version, created_at, updated_at
FROM shop_orders
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetShopOrderForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (ShopOrderRow, error) {
	var row ShopOrderRow
	err := db.QueryRow(ctx, getShopOrderForUpdate, id).Scan(
		&row.ID, &row.UserID, &row.Status, &row.TotalCents, &row.Address, &row.Phone,
		&row.PayMethod, &row.BalanceCentsUsed, &row.PaymentRef, &row.TrackingNo,
		&row.Version, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const getShopOrderByID = `
SELECT id, user_id, status, total_cents, address, phone, pay_method, balance_cents_used, payment_ref, tracking_no, version, created_at, updated_at
FROM shop_orders
WHERE id = $1
`

func (q *Queries) GetShopOrderByID(ctx context.Context, db DBTX, id uuid.UUID) (ShopOrderRow, error) {
	var row ShopOrderRow
	err := db.QueryRow(ctx, getShopOrderByID, id).Scan(
		&row.ID, &row.UserID, &row.Status, &row.TotalCents, &row.Address, &row.Phone,
		&row.PayMethod, &row.BalanceCentsUsed, &row.PaymentRef, &row.TrackingNo,
		&row.Version, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const updateShopOrderStatus = `
UPDATE shop_orders
SET status = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $3
`

func (q *Queries) UpdateShopOrderStatus(ctx context.Context, db DBTX, id uuid.UUID, status string, version int64) (int64, error) {
	tag, err := db.Exec(ctx, updateShopOrderStatus, id, status, version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setShopOrderPaymentRef = `
UPDATE shop_orders
SET payment_ref = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $1
`

func (q *Queries) SetShopOrderPaymentRef(ctx context.Context, db DBTX, id uuid.UUID, paymentRef string) (int64, error) {
	tag, err := db.Exec(ctx, setShopOrderPaymentRef, id, paymentRef)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setShopOrderTracking = `
UPDATE shop_orders
SET tracking_no = $2,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $3
`

func (q *Queries) SetShopOrderTracking(ctx context.Context, db DBTX, id uuid.UUID, trackingNo string, version int64) (int64, error) {
	tag, err := db.Exec(ctx, setShopOrderTracking, id, trackingNo, version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listOrderItems = `
SELECT id, order_id, product_id, qty, unit_cents
FROM order_items
WHERE order_id = $1
ORDER BY product_id
`

// ListOrderItems returns line items in ascending product id order, matching
// the lock acquisition order used by coordinators.
func (q *Queries) ListOrderItems(ctx context.Context, db DBTX, orderID uuid.UUID) ([]OrderItemRow, error) {
	rows, err := db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OrderItemRow
	for rows.Next() {
		var row OrderItemRow
		if err := rows.Scan(&row.ID, &row.OrderID, &row.ProductID, &row.Qty, &row.UnitCents); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

const listShopOrdersByUser = `
SELECT id, user_id, status, total_cents, address, phone, pay_method, balance_cents_used, payment_ref, tracking_no, version, created_at, updated_at
FROM shop_orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`

func (q *Queries) ListShopOrdersByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int32) ([]ShopOrderRow, error) {
	rows, err := db.Query(ctx, listShopOrdersByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ShopOrderRow
	for rows.Next() {
		var row ShopOrderRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Status, &row.TotalCents,
			&row.Address, &row.Phone, &row.PayMethod, &row.BalanceCentsUsed,
			&row.PaymentRef, &row.TrackingNo, &row.Version, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
