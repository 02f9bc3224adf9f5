package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario (una sola bodega).
// Quantity y CostPrice solo los modifica el libro de stock; UnitPrice lo administra el maestro de productos.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Description  string
	UnitPrice    decimal.Decimal // precio de venta
	CostPrice    decimal.Decimal // costo promedio ponderado (inicia en 0)
	Quantity     int64           // existencias, nunca negativas
	ReorderLevel int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el producto está en o por debajo del punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.ReorderLevel
}
