package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pedidos/internal/domain/inventory"
)

func TestWeightedAverageCost_PromedioPonderado(t *testing.T) {
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(5), 5, decimal.NewFromInt(8))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "esperado 6.00, obtenido %s", got)
}

func TestWeightedAverageCost_SinStockPrevioTomaCostoEntrada(t *testing.T) {
	got := inventory.WeightedAverageCost(0, decimal.NewFromInt(99), 3, decimal.RequireFromString("12.5"))
	assert.Equal(t, "12.5", got.String())
}

func TestWeightedAverageCost_RedondeaACuatroDecimales(t *testing.T) {
	// (1*1 + 2*2) / 3 = 1.6666...
	got := inventory.WeightedAverageCost(1, decimal.NewFromInt(1), 2, decimal.NewFromInt(2))
	assert.Equal(t, "1.6667", got.StringFixed(inventory.CostPrecision))
}

func TestWeightedAverageCost_EntradaCostoCero(t *testing.T) {
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(4), 10, decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(2)))
}
