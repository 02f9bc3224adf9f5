package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Direction string           `json:"direction" validate:"required,oneof=in out"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"` // obligatorio en entradas
	Reference string           `json:"reference" validate:"max=100"`
	Notes     string           `json:"notes" validate:"max=1000"`
}

// MovementQuery filtros de GET /api/inventory/movements (y export).
type MovementQuery struct {
	ProductID string `query:"product_id"`
	Direction string `query:"direction" validate:"omitempty,oneof=in out"`
	OrderID   string `query:"order_id"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// MovementResponse movimiento del libro de stock.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Direction string          `json:"direction"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	OrderID   string          `json:"order_id,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
	MovedAt   time.Time       `json:"moved_at"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo el punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderLevel       int64           `json:"reorder_level"`
	IdealStock         int64           `json:"ideal_stock"`          // ceil(ReorderLevel * 1.5)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
