package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido de cliente.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Estados de pago, derivados del saldo pendiente.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Medios de pago aceptados.
const (
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
	PaymentCreditCard   = "credit_card"
	PaymentCheck        = "check"
	PaymentOnline       = "online"
)

// ValidPaymentMethod indica si m es un medio de pago aceptado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCreditCard, PaymentCheck, PaymentOnline:
		return true
	}
	return false
}

// transiciones permitidas (cancelled y delivered son terminales).
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reporta si un pedido puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ClientOrder es la cabecera de un pedido. Los montos se calculan una sola vez al crearlo.
type ClientOrder struct {
	ID             string
	OrderNumber    string
	ClientID       string
	ClientName     string // solo lectura, resuelto por join
	OrderDate      time.Time
	DeliveryDate   *time.Time
	Status         string
	Subtotal       decimal.Decimal
	TaxRate        decimal.Decimal // porcentaje, ej. 19 = 19%
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	DueAmount      decimal.Decimal
	PaymentStatus  string
	PaymentMethod  string
	Notes          string
	CreatedBy      string
	ConfirmedBy    string
	ConfirmedAt    *time.Time
	CancelledBy    string
	CancelledAt    *time.Time
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockCommitted indica si el pedido ya descontó stock (confirmado y aún no despachado).
func (o *ClientOrder) StockCommitted() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusProcessing
}

// IsTerminal indica si el pedido ya no admite transiciones.
func (o *ClientOrder) IsTerminal() bool {
	return o.Status == OrderStatusCancelled || o.Status == OrderStatusDelivered
}
