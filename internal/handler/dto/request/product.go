package request

type CreateProductRequest struct {
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name       *string `json:"name,omitempty"`
	Category   *string `json:"category,omitempty"`
	PriceCents *int64  `json:"price_cents,omitempty"`
	Status     *string `json:"status,omitempty" binding:"omitempty,oneof=on off"`
}
