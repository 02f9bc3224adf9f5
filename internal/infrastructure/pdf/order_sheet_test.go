package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

func TestMoney_FormatoEspanol(t *testing.T) {
	g := NewOrderSheetGenerator("Distribuidora")
	assert.Equal(t, "$1.234.567,50", g.money(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "$0,00", g.money(decimal.Zero))
}

func TestGenerateOrderPDF_DevuelvePDF(t *testing.T) {
	g := NewOrderSheetGenerator("Distribuidora")
	detail := &orders.OrderDetail{
		Order: &entity.ClientOrder{
			OrderNumber:   "ORD-202406-0001",
			OrderDate:     time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			Status:        entity.OrderStatusConfirmed,
			Subtotal:      decimal.NewFromInt(100),
			TaxRate:       decimal.NewFromInt(19),
			TaxAmount:     decimal.NewFromInt(19),
			TotalAmount:   decimal.NewFromInt(119),
			DueAmount:     decimal.NewFromInt(119),
			PaymentMethod: entity.PaymentCash,
		},
		Items: []*entity.OrderItem{{ProductName: "Arroz", Quantity: 2, UnitPrice: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(100)}},
	}

	out, err := g.GenerateOrderPDF(context.Background(), detail, &entity.Client{Name: "Tienda"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
