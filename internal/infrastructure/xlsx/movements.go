// Package xlsx exporta consultas del libro de stock a Excel.
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// ContentType del libro generado.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Movimientos"

var headers = []string{"Fecha", "Producto", "Dirección", "Cantidad", "Precio unitario", "Pedido", "Referencia", "Notas", "Usuario"}

// MovementExporter genera el xlsx del historial de movimientos.
type MovementExporter struct {
	loc *time.Location
}

// NewMovementExporter construye el exportador; las fechas se escriben en la zona indicada (nil = UTC).
func NewMovementExporter(loc *time.Location) *MovementExporter {
	return &MovementExporter{loc: loc}
}

// Export escribe una fila por movimiento, en el orden recibido.
func (e *MovementExporter) Export(movements []*entity.StockMovement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", bold)

	for i, m := range movements {
		r := i + 2
		values := []any{
			m.MovedAt.In(e.location()).Format("2006-01-02 15:04:05"),
			m.ProductID,
			directionLabel(m.Direction),
			m.Quantity,
			m.UnitPrice.InexactFloat64(),
			m.OrderID,
			m.Reference,
			m.Notes,
			m.CreatedBy,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", r, err)
		}
	}
	_ = f.SetColWidth(sheetName, "A", "A", 20)
	_ = f.SetColWidth(sheetName, "B", "B", 38)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *MovementExporter) location() *time.Location {
	if e.loc == nil {
		return time.UTC
	}
	return e.loc
}

func directionLabel(d string) string {
	if d == entity.MovementIn {
		return "Entrada"
	}
	return "Salida"
}
