package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de stock.
const (
	MovementIn  = "in"  // entrada
	MovementOut = "out" // salida
)

// StockMovement es un asiento inmutable del libro de stock. Nunca se actualiza ni se borra.
type StockMovement struct {
	ID        string
	ProductID string
	Direction string          // in, out
	Quantity  int64           // siempre > 0; la dirección da el signo
	UnitPrice decimal.Decimal // costo de entrada (in) o precio de venta vigente (out)
	OrderID   string          // vacío si el movimiento no proviene de un pedido
	Reference string
	Notes     string
	CreatedBy string
	MovedAt   time.Time
}

// NewStockMovement valida las invariantes del movimiento antes de persistirlo.
func NewStockMovement(id, productID, direction string, quantity int64, unitPrice decimal.Decimal, at time.Time) (*StockMovement, error) {
	if productID == "" {
		return nil, fmt.Errorf("movimiento sin producto")
	}
	if direction != MovementIn && direction != MovementOut {
		return nil, fmt.Errorf("dirección de movimiento inválida: %q", direction)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("cantidad de movimiento debe ser positiva: %d", quantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("precio unitario negativo")
	}
	return &StockMovement{
		ID:        id,
		ProductID: productID,
		Direction: direction,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		MovedAt:   at,
	}, nil
}

// Signed devuelve la cantidad con signo (+ entrada, - salida).
func (m *StockMovement) Signed() int64 {
	if m.Direction == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
