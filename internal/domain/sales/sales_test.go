package sales_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/sales"
)

func item(t *testing.T, qty int64, price string) *entity.OrderItem {
	t.Helper()
	it, err := entity.NewOrderItem("i", "o", "p", qty, decimal.RequireFromString(price))
	require.NoError(t, err)
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals_Formulas(t *testing.T) {
	items := []*entity.OrderItem{item(t, 2, "10.00"), item(t, 1, "5.50")}
	got := sales.ComputeTotals(items, decimal.NewFromInt(10), decimal.NewFromInt(3), decimal.NewFromInt(5))

	assert.Equal(t, "25.50", got.Subtotal.StringFixed(2))
	assert.Equal(t, "2.55", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "25.05", got.Total.StringFixed(2))
	assert.Equal(t, "20.05", got.Due.StringFixed(2))
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount).Sub(got.Discount)))
	assert.True(t, got.Due.Equal(got.Total.Sub(got.Paid)))
	assert.Equal(t, entity.PaymentStatusPartial, got.PaymentStatus)
}

func TestHasMoneyScale(t *testing.T) {
	assert.True(t, sales.HasMoneyScale(decimal.RequireFromString("3")))
	assert.True(t, sales.HasMoneyScale(decimal.RequireFromString("3.50")))
	assert.True(t, sales.HasMoneyScale(decimal.RequireFromString("3.500")))
	assert.False(t, sales.HasMoneyScale(decimal.RequireFromString("1.005")))
	assert.False(t, sales.HasMoneyScale(decimal.RequireFromString("-0.001")))
}

func TestPaymentStatus(t *testing.T) {
	cases := []struct {
		name      string
		paid, due string
		want      string
	}{
		{"saldo cero pagado", "100", "0", entity.PaymentStatusPaid},
		{"saldo negativo pagado", "120", "-20", entity.PaymentStatusPaid},
		{"abono parcial", "10", "90", entity.PaymentStatusPartial},
		{"sin abono", "0", "100", entity.PaymentStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sales.PaymentStatus(decimal.RequireFromString(tc.paid), decimal.RequireFromString(tc.due))
			assert.Equal(t, tc.want, got)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestMonthPrefix_Formato(t *testing.T) {
	ts := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-202406-", sales.MonthPrefix("ORD", ts))
	assert.Equal(t, "ORD-202406-0001", sales.NextNumber(sales.MonthPrefix("ORD", ts), 0))
}

func TestParseSequence(t *testing.T) {
	n, ok := sales.ParseSequence("ORD-202406-", "ORD-202406-0042")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = sales.ParseSequence("ORD-202406-", "ORD-202405-0042")
	assert.False(t, ok, "otro mes no cuenta")

	_, ok = sales.ParseSequence("ORD-202406-", "ORD-202406-abc")
	assert.False(t, ok)
}

func TestNextNumber_SuperaCuatroDigitos(t *testing.T) {
	assert.Equal(t, "ORD-202406-10000", sales.NextNumber("ORD-202406-", 9999))
	n, ok := sales.ParseSequence("ORD-202406-", "ORD-202406-10000")
	assert.True(t, ok)
	assert.Equal(t, 10000, n)
}
