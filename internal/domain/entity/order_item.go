package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderItem es una línea del pedido; el precio queda congelado al crearlo.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string // solo lectura, resuelto por join
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Notes       string
}

// NewOrderItem valida cantidad y precio y calcula TotalPrice.
func NewOrderItem(id, orderID, productID string, quantity int64, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == "" {
		return nil, fmt.Errorf("ítem sin producto")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("cantidad del ítem debe ser positiva: %d", quantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("precio unitario negativo")
	}
	return &OrderItem{
		ID:         id,
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}
