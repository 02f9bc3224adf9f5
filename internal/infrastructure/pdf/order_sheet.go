// Package pdf genera la hoja de pedido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  N° Pedido + Fecha + Estado   │
//	│  CLIENTE: Nombre + NIT/CC + contacto + dirección             │
//	│  TABLA: Cant | Producto | P.Unit | Total                     │
//	│  TOTALES: Subtotal / Impuesto / Descuento / Total / Saldo    │
//	│  FOOTER: QR con el número de pedido                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[string]string{
	entity.OrderStatusPending:    "PENDIENTE",
	entity.OrderStatusConfirmed:  "CONFIRMADO",
	entity.OrderStatusProcessing: "EN PREPARACIÓN",
	entity.OrderStatusShipped:    "DESPACHADO",
	entity.OrderStatusDelivered:  "ENTREGADO",
	entity.OrderStatusCancelled:  "CANCELADO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ orders.OrderSheetGenerator = (*OrderSheetGenerator)(nil)

// OrderSheetGenerator implementa orders.OrderSheetGenerator usando Maroto v2.
type OrderSheetGenerator struct {
	businessName string
	printer      *message.Printer
}

// NewOrderSheetGenerator construye el generador; los montos se formatean en español.
func NewOrderSheetGenerator(businessName string) *OrderSheetGenerator {
	return &OrderSheetGenerator{
		businessName: businessName,
		printer:      message.NewPrinter(language.Spanish),
	}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *OrderSheetGenerator) GenerateOrderPDF(ctx context.Context, detail *orders.OrderDetail, client *entity.Client) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order := detail.Order
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+order.OrderNumber, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(detail.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *OrderSheetGenerator) headerRow(order *entity.ClientOrder) core.Row {
	status := statusLabels[order.Status]
	if status == "" {
		status = order.Status
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pago: "+order.PaymentMethod, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+order.OrderDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Estado: "+status, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 16,
			}),
		),
	)
}

func clientRow(client *entity.Client) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(client.TaxID, "-"),
				nonEmpty(client.Email, "-"),
				nonEmpty(client.Phone, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New("Dirección: "+nonEmpty(client.Address, "-"), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func (g *OrderSheetGenerator) itemRows(items []*entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if it.Notes != "" {
			name += " (" + it.Notes + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money(it.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *OrderSheetGenerator) totalsRow(order *entity.ClientOrder) core.Row {
	lines := []struct {
		label string
		value decimal.Decimal
		grand bool
	}{
		{"Subtotal:", order.Subtotal, false},
		{fmt.Sprintf("Impuesto (%s%%):", order.TaxRate.String()), order.TaxAmount, false},
		{"Descuento:", order.DiscountAmount.Neg(), false},
		{"TOTAL:", order.TotalAmount, true},
		{"Abonado:", order.PaidAmount, false},
		{"SALDO:", order.DueAmount, true},
	}
	labels := col.New(3)
	values := col.New(3)
	for i, l := range lines {
		p := props.Text{Size: 9, Align: align.Right, Top: float64(i) * 5}
		if l.grand {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		lp := p
		lp.Right = 2
		lp.Style = fontstyle.Bold
		labels.Add(text.New(l.label, lp))
		values.Add(text.New(g.money(l.value), p))
	}
	return row.New(float64(len(lines))*5 + 2).Add(col.New(6), labels, values)
}

func footerRow(order *entity.ClientOrder) core.Row {
	legend := "Hoja de pedido. No es documento fiscal."
	if order.Notes != "" {
		legend = "Notas: " + order.Notes + "\n" + legend
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(order.OrderNumber, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(legend, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separadores del español: 1234567.5 → "$1.234.567,50".
func (g *OrderSheetGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
