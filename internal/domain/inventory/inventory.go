package inventory

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Quantity is a positive unit count for stock operations.
type Quantity struct {
	units int32
}

func NewQuantity(units int32) (Quantity, error) {
	if units <= 0 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{units: units}, nil
}

func (q Quantity) Units() int32 {
	return q.units
}

// StockItem is the read-side projection of a product's stock counters.
// Actual and pending are independently non-negative; pending may exceed
// actual because freezing never checks the on-hand count.
type StockItem struct {
	ItemID       uuid.UUID
	StockActual  int32
	StockPending int32
}

// DisplayStock is what availability screens show. It can go negative when an
// item is over-reserved; that is display truth, not an invariant violation.
func (s StockItem) DisplayStock() int32 {
	return s.StockActual - s.StockPending
}
