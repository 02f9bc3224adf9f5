package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto con su estado de stock.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Quantity     int64           `json:"quantity"`
	ReorderLevel int64           `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
