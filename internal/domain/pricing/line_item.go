package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceLine is a service selected for a garment, with its price frozen when it was attached.
type ServiceLine struct {
	ServiceID   uuid.UUID       `json:"service_id"`
	ServiceName string          `json:"service_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineItem is one garment type in a cart.
type LineItem struct {
	SubItemID      uuid.UUID     `json:"sub_item_id"`
	SubItemName    string        `json:"sub_item_name"`
	DepartmentID   uuid.UUID     `json:"department_id"`
	DepartmentName string        `json:"department_name"`
	Quantity       int           `json:"quantity"`
	Services       []ServiceLine `json:"services"`
}

// UnitTotal is the sum of the selected service prices for a single piece.
func (l LineItem) UnitTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range l.Services {
		sum = sum.Add(s.UnitPrice)
	}
	return sum
}

// LineTotal is quantity × Σ service unit price.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// HasService reports whether the service is already attached.
func (l LineItem) HasService(serviceID uuid.UUID) bool {
	for _, s := range l.Services {
		if s.ServiceID == serviceID {
			return true
		}
	}
	return false
}

// ComputeSubtotal sums every line total. Items with no services contribute zero.
func ComputeSubtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// PiecesCount is the total quantity across all line items.
func PiecesCount(items []LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
