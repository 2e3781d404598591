package request

import "github.com/google/uuid"

type OrderLineItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Qty       int32     `json:"qty" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items     []OrderLineItem `json:"items" binding:"required,min=1,dive"`
	PayMethod string          `json:"pay_method" binding:"required,oneof=balance online"`
	Address   string          `json:"address" binding:"required"`
	Phone     string          `json:"phone" binding:"required"`
}

func (r CreateOrderRequest) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (r CreateOrderRequest) Quantities() []int32 {
	qtys := make([]int32, 0, len(r.Items))
	for _, item := range r.Items {
		qtys = append(qtys, item.Qty)
	}
	return qtys
}

type ShipOrderRequest struct {
	TrackingNo string `json:"tracking_no" binding:"required"`
}
