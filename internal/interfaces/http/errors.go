package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
)

// localError guarda el error que originó una respuesta 5xx para el request logger.
const localError = "request_error"

// notFoundCodes código y mensaje por cada sentinel de "no encontrado".
var notFoundCodes = []struct {
	err  error
	code string
	msg  string
}{
	{domain.ErrProductNotFound, "PRODUCT_NOT_FOUND", "producto no encontrado"},
	{domain.ErrOrderNotFound, "ORDER_NOT_FOUND", "pedido no encontrado"},
	{domain.ErrClientNotFound, "CLIENT_NOT_FOUND", "cliente no encontrado"},
	{domain.ErrUserNotFound, "USER_NOT_FOUND", "usuario no encontrado"},
	{domain.ErrNotFound, "NOT_FOUND", "recurso no encontrado"},
}

// mapError traduce un error de la aplicación a status HTTP y cuerpo.
func mapError(err error) (int, dto.ErrorResponse) {
	// primero: una falla de persistencia puede envolver cualquier cosa
	if errors.Is(err, domain.ErrPersistence) {
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "PERSISTENCE_FAILURE", Message: "no se pudo completar la operación, reintente"}
	}

	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: ise.Error(),
			Details: map[string]any{
				"product_id":   ise.ProductID,
				"product_name": ise.ProductName,
				"available":    ise.Available,
				"required":     ise.Required,
			},
		}
	}
	var ite *domain.InvalidTransitionError
	if errors.As(err, &ite) {
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: ite.Error(),
			Details: map[string]any{"from": ite.From, "to": ite.To},
		}
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]any, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fields}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message}
	}

	for _, nf := range notFoundCodes {
		if errors.Is(err, nf.err) {
			return fiber.StatusNotFound, dto.ErrorResponse{Code: nf.code, Message: nf.msg}
		}
	}

	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "EMPTY_ORDER", Message: "el pedido debe tener al menos un ítem"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "el pedido ya está cancelado"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	}
	return "ERROR"
}

// writeError responde con el error mapeado.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler es el manejador global de Fiber para errores no atendidos por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
