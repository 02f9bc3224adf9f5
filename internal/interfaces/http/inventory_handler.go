package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MovementExporter convierte un historial en un archivo descargable.
type MovementExporter interface {
	Export(movements []*entity.StockMovement) ([]byte, error)
}

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	ledger   *inventory.Ledger
	exporter MovementExporter
	loc      *time.Location
}

// NewInventoryHandler construye el handler. loc define los límites de día de los filtros from/to.
func NewInventoryHandler(ledger *inventory.Ledger, exporter MovementExporter, loc *time.Location) *InventoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InventoryHandler{ledger: ledger, exporter: exporter, loc: loc}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida de stock
// @Description  Las entradas requieren unit_cost y recalculan el costo promedio ponderado.
// @Description  Las salidas registran el precio de venta vigente y fallan si no hay stock suficiente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, direction (in|out), quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := BindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	actor := GetUserID(c)

	var (
		mov *entity.StockMovement
		err error
	)
	switch in.Direction {
	case entity.MovementIn:
		if in.UnitCost == nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "unit_cost es requerido en entradas",
				Details: map[string]any{"unit_cost": "required"},
			})
		}
		mov, err = h.ledger.RecordIn(c.UserContext(), inventory.InInput{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitCost:  *in.UnitCost,
			Reference: in.Reference,
			Notes:     in.Notes,
			Actor:     actor,
		})
	default:
		mov, err = h.ledger.RecordOut(c.UserContext(), inventory.OutInput{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Reference: in.Reference,
			Notes:     in.Notes,
			Actor:     actor,
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        direction   query  string  false  "in | out"
// @Param        order_id    query  string  false  "ID del pedido"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	f, err := h.movementFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	movs, err := h.ledger.History(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = inventory.DefaultHistoryLimit
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movs)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Count: len(movs)},
	}
	for _, m := range movs {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return c.JSON(out)
}

// ExportMovements godoc
// @Summary      Exportar historial a Excel
// @Description  Mismos filtros que el historial; sin limit exporta hasta 500 movimientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        product_id  query  string  false  "ID del producto"
// @Param        direction   query  string  false  "in | out"
// @Param        order_id    query  string  false  "ID del pedido"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/export [get]
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	f, err := h.movementFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	if f.Limit <= 0 {
		f.Limit = inventory.MaxHistoryLimit
	}
	movs, err := h.ledger.History(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.exporter.Export(movs)
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("movimientos_%s.xlsx", time.Now().In(h.loc).Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

func (h *InventoryHandler) movementFilter(c *fiber.Ctx) (repository.MovementFilter, error) {
	var q dto.MovementQuery
	if err := BindQuery(c, &q); err != nil {
		return repository.MovementFilter{}, err
	}
	from, to, err := parseDateRange(q.From, q.To, h.loc)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	return repository.MovementFilter{
		ProductID: q.ProductID,
		Direction: q.Direction,
		OrderID:   q.OrderID,
		From:      from,
		To:        to,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}, nil
}

// parseDateRange interpreta from/to (YYYY-MM-DD) en loc; to incluye el día completo.
func parseDateRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "from inválido")
		}
		f = &d
	}
	if to != "" {
		d, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "to inválido")
		}
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		t = &d
	}
	return f, t, nil
}
