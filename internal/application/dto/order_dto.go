package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ClientID       string             `json:"client_id" validate:"required"`
	OrderDate      string             `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate   string             `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Items          []OrderItemRequest `json:"items" validate:"dive"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`        // porcentaje
	DiscountAmount decimal.Decimal    `json:"discount_amount"` // monto absoluto
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	PaymentMethod  string             `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer credit_card check online"`
	Notes          string             `json:"notes" validate:"max=2000"`
}

// OrderItemRequest línea del pedido; sin unit_price se congela el precio vigente del producto.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Notes     string           `json:"notes" validate:"max=500"`
}

// CancelOrderRequest body para POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// AdvanceOrderRequest body para POST /api/orders/:id/status.
type AdvanceOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=processing shipped delivered"`
}

// OrderQuery filtros de GET /api/orders.
type OrderQuery struct {
	Status        string `query:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	ClientID      string `query:"client_id"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Search        string `query:"search" validate:"max=50"`
	PageRequest
}

// OrderResponse pedido con sus ítems.
type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	ClientID       string              `json:"client_id"`
	ClientName     string              `json:"client_name,omitempty"`
	OrderDate      string              `json:"order_date"`
	DeliveryDate   string              `json:"delivery_date,omitempty"`
	Status         string              `json:"status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TaxRate        decimal.Decimal     `json:"tax_rate"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PaidAmount     decimal.Decimal     `json:"paid_amount"`
	DueAmount      decimal.Decimal     `json:"due_amount"`
	PaymentStatus  string              `json:"payment_status"`
	PaymentMethod  string              `json:"payment_method"`
	Notes          string              `json:"notes,omitempty"`
	CreatedBy      string              `json:"created_by,omitempty"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	Items          []OrderItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OrderItemResponse línea del pedido en la respuesta.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Notes       string          `json:"notes,omitempty"`
}

// OrderListResponse listado paginado de pedidos (sin ítems).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
