package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

// OrderHandler maneja el ciclo de vida de los pedidos de cliente (protegido).
type OrderHandler struct {
	lifecycle *orders.Lifecycle
	pdf       *orders.PDFUseCase
	loc       *time.Location
}

// NewOrderHandler construye el handler.
func NewOrderHandler(lifecycle *orders.Lifecycle, pdf *orders.PDFUseCase, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{lifecycle: lifecycle, pdf: pdf, loc: loc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Crea el pedido en estado pending con número ORD-YYYYMM-NNNN. No toca el stock.
// @Description  Con Idempotency-Key (y Redis configurado) un reintento devuelve la misma respuesta.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave de reintento"
// @Param        body             body    dto.CreateOrderRequest  true   "Pedido"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := BindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	input, err := h.createInput(in)
	if err != nil {
		return writeError(c, err)
	}
	input.Actor = GetUserID(c)

	detail, err := h.lifecycle.Create(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderDetailResponse(detail))
}

func (h *OrderHandler) createInput(in dto.CreateOrderRequest) (orders.CreateInput, error) {
	out := orders.CreateInput{
		ClientID:       in.ClientID,
		TaxRate:        in.TaxRate,
		DiscountAmount: in.DiscountAmount,
		PaidAmount:     in.PaidAmount,
		PaymentMethod:  in.PaymentMethod,
		Notes:          in.Notes,
	}
	if in.OrderDate != "" {
		d, err := time.ParseInLocation(dateLayout, in.OrderDate, h.loc)
		if err != nil {
			return out, fiber.NewError(fiber.StatusBadRequest, "order_date inválida")
		}
		out.OrderDate = d
	}
	if in.DeliveryDate != "" {
		d, err := time.ParseInLocation(dateLayout, in.DeliveryDate, h.loc)
		if err != nil {
			return out, fiber.NewError(fiber.StatusBadRequest, "delivery_date inválida")
		}
		out.DeliveryDate = &d
	}
	for _, it := range in.Items {
		out.Items = append(out.Items, orders.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Notes:     it.Notes,
		})
	}
	return out, nil
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status          query  string  false  "pending | confirmed | processing | shipped | delivered | cancelled"
// @Param        client_id       query  string  false  "ID del cliente"
// @Param        payment_status  query  string  false  "pending | partial | paid"
// @Param        from            query  string  false  "Fecha de pedido desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Fecha de pedido hasta, inclusive (YYYY-MM-DD)"
// @Param        search          query  string  false  "Parte del número de pedido"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderQuery
	if err := BindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	from, to, err := parseDateRange(q.From, q.To, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	f := repository.OrderFilter{
		Status:        q.Status,
		ClientID:      q.ClientID,
		PaymentStatus: q.PaymentStatus,
		From:          from,
		To:            to,
		Search:        q.Search,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	list, err := h.lifecycle.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: q.Offset, Count: len(list)},
	}
	for _, o := range list {
		out.Items = append(out.Items, toOrderResponse(o, nil))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido con sus ítems
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.lifecycle.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderDetailResponse(detail))
}

// DownloadPDF godoc
// @Summary      Hoja del pedido en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadOrderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(data)
}

// Confirm godoc
// @Summary      Confirmar pedido
// @Description  Descuenta el stock de todos los ítems o de ninguno.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	order, err := h.lifecycle.Confirm(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order, nil))
}

// Cancel godoc
// @Summary      Cancelar pedido (solo admin)
// @Description  Si el pedido ya había descontado stock, lo repone al precio del ítem.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID del pedido"
// @Param        body  body  dto.CancelOrderRequest  false  "Motivo"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := BindAndValidate(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	order, err := h.lifecycle.Cancel(c.UserContext(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order, nil))
}

// Advance godoc
// @Summary      Avanzar estado del pedido
// @Description  confirmed → processing → shipped → delivered. No afecta el stock.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.AdvanceOrderRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [post]
func (h *OrderHandler) Advance(c *fiber.Ctx) error {
	var in dto.AdvanceOrderRequest
	if err := BindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	order, err := h.lifecycle.Advance(c.UserContext(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order, nil))
}
