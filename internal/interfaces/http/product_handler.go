package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
)

// ProductHandler consultas de productos y su estado de stock (protegido).
// El maestro de productos vive fuera de este servicio: aquí solo se lee.
type ProductHandler struct {
	ledger        *inventory.Ledger
	replenishment *inventory.ReplenishmentUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(ledger *inventory.Ledger, replenishment *inventory.ReplenishmentUseCase) *ProductHandler {
	return &ProductHandler{ledger: ledger, replenishment: replenishment}
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.ledger.Product(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// LowStock godoc
// @Summary      Productos en o bajo el punto de reorden
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.ledger.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Para cada producto en o bajo el punto de reorden sugiere cuánto pedir hasta 1.5 veces el reorden,
// @Description  priorizando por déficit y luego por margen bruto.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/products/replenishment [get]
func (h *ProductHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
