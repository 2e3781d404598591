package repository

import (
	"context"

	"salonbook/internal/domain/order"
	"salonbook/internal/domain/payment"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type OrderQueries interface {
	InsertShopOrder(ctx context.Context, db pgq.DBTX, arg pgq.InsertShopOrderParams) (uuid.UUID, error)
	InsertOrderItem(ctx context.Context, db pgq.DBTX, arg pgq.InsertOrderItemParams) error
	GetShopOrderForUpdate(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.ShopOrderRow, error)
	UpdateShopOrderStatus(ctx context.Context, db pgq.DBTX, id uuid.UUID, status string, version int64) (int64, error)
	SetShopOrderPaymentRef(ctx context.Context, db pgq.DBTX, id uuid.UUID, paymentRef string) (int64, error)
	SetShopOrderTracking(ctx context.Context, db pgq.DBTX, id uuid.UUID, trackingNo string, version int64) (int64, error)
	ListOrderItems(ctx context.Context, db pgq.DBTX, orderID uuid.UUID) ([]pgq.OrderItemRow, error)
}

type OrderRepository struct {
	queries OrderQueries
	db      pgq.DBTX
}

func NewOrderRepository(queries OrderQueries, db pgq.DBTX) *OrderRepository {
	return &OrderRepository{queries: queries, db: db}
}

func (r *OrderRepository) Create(ctx context.Context, shopOrder *order.ShopOrder) (uuid.UUID, error) {
	id, err := r.queries.InsertShopOrder(ctx, r.db, pgq.InsertShopOrderParams{
		ID:               shopOrder.ID(),
		UserID:           shopOrder.UserID(),
		Status:           string(shopOrder.Status()),
		TotalCents:       shopOrder.TotalCents(),
		Address:          shopOrder.Address(),
		Phone:            shopOrder.Phone(),
		PayMethod:        string(shopOrder.PayMethod()),
		BalanceCentsUsed: shopOrder.BalanceCentsUsed(),
	})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert shop order", err)
	}

	for _, item := range shopOrder.Items() {
		err := r.queries.InsertOrderItem(ctx, r.db, pgq.InsertOrderItemParams{
			OrderID:   id,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitCents: item.UnitCents,
		})
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to insert order item", err)
		}
	}
	return id, nil
}

// FindForUpdate loads the order with its row lock held. Items come back in
// ascending product id order, matching the stock locking order.
func (r *OrderRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*order.ShopOrder, error) {
	row, err := r.queries.GetShopOrderForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, infra.WrapRepoErr("failed to lock shop order", err)
	}

	itemRows, err := r.queries.ListOrderItems(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	items := make([]order.LineItem, 0, len(itemRows))
	for _, ir := range itemRows {
		items = append(items, order.LineItem{
			ProductID: ir.ProductID,
			Qty:       ir.Qty,
			UnitCents: ir.UnitCents,
		})
	}

	return order.ReconstructShopOrder(
		row.ID, row.UserID,
		order.Status(row.Status),
		row.TotalCents,
		row.Address, row.Phone,
		payment.Method(row.PayMethod),
		row.BalanceCentsUsed,
		pgconv.StringPtrFromPgtype(row.PaymentRef),
		pgconv.StringPtrFromPgtype(row.TrackingNo),
		items,
		row.Version,
		row.CreatedAt, row.UpdatedAt,
	), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, version int64) error {
	affected, err := r.queries.UpdateShopOrderStatus(ctx, r.db, id, string(status), version)
	if err != nil {
		return infra.WrapRepoErr("failed to update shop order status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("shop order version conflict", errs.ErrDatabaseOperationFailed, infra.KindConflict)
	}
	return nil
}

func (r *OrderRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error {
	affected, err := r.queries.SetShopOrderPaymentRef(ctx, r.db, id, ref)
	if err != nil {
		return infra.WrapRepoErr("failed to set shop order payment ref", err)
	}
	if affected == 0 {
		return errs.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) SetTracking(ctx context.Context, id uuid.UUID, trackingNo string, version int64) error {
	affected, err := r.queries.SetShopOrderTracking(ctx, r.db, id, trackingNo, version)
	if err != nil {
		return infra.WrapRepoErr("failed to set shop order tracking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("shop order version conflict", errs.ErrDatabaseOperationFailed, infra.KindConflict)
	}
	return nil
}
