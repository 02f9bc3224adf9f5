package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/xlsx"
)

func TestExport_UnaFilaPorMovimiento(t *testing.T) {
	at := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
	movs := []*entity.StockMovement{
		{ProductID: "p1", Direction: entity.MovementOut, Quantity: 2, UnitPrice: decimal.RequireFromString("3.5"), Reference: "ORD-202406-0001", MovedAt: at},
		{ProductID: "p1", Direction: entity.MovementIn, Quantity: 10, UnitPrice: decimal.NewFromInt(2), MovedAt: at.Add(-time.Hour)},
	}

	out, err := xlsx.NewMovementExporter(nil).Export(movs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Movimientos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, "2024-06-01 15:04:05", rows[1][0])
	assert.Equal(t, "Salida", rows[1][2])
	assert.Equal(t, "2", rows[1][3])
	assert.Equal(t, "ORD-202406-0001", rows[1][6])
	assert.Equal(t, "Entrada", rows[2][2])
}
