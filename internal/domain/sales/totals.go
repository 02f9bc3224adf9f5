// Package sales agrupa las reglas puras de pedidos: totales, estado de pago y numeración.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// MoneyPrecision decimales de los montos del pedido.
const MoneyPrecision = 2

var hundred = decimal.NewFromInt(100)

// HasMoneyScale indica si d cabe en MoneyPrecision decimales sin redondear.
// Los ceros a la derecha no cuentan: 1.50 y 1.500 son válidos, 1.005 no.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPrecision))
}

// Totals son los montos derivados de un pedido al momento de crearlo.
type Totals struct {
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Due           decimal.Decimal
	PaymentStatus string
}

// ComputeTotals calcula subtotal = Σ(total_price), impuesto = subtotal*taxRate/100,
// total = subtotal + impuesto - descuento y saldo = total - pagado.
func ComputeTotals(items []*entity.OrderItem, taxRate, discount, paid decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	subtotal = subtotal.Round(MoneyPrecision)
	tax := subtotal.Mul(taxRate).Div(hundred).Round(MoneyPrecision)
	total := subtotal.Add(tax).Sub(discount)
	due := total.Sub(paid)
	return Totals{
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Discount:      discount,
		Total:         total,
		Paid:          paid,
		Due:           due,
		PaymentStatus: PaymentStatus(paid, due),
	}
}

// PaymentStatus deriva el estado de pago: saldo <= 0 pagado, abono > 0 parcial, si no pendiente.
func PaymentStatus(paid, due decimal.Decimal) string {
	switch {
	case due.LessThanOrEqual(decimal.Zero):
		return entity.PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusPending
	}
}
