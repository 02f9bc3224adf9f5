package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"persistencia", domain.AsPersistence("op", errors.New("conexión cerrada")), fiber.StatusServiceUnavailable, "PERSISTENCE_FAILURE"},
		{"número duplicado agotado", domain.AsPersistence("orders.create", domain.ErrDuplicateOrderNumber), fiber.StatusServiceUnavailable, "PERSISTENCE_FAILURE"},
		{"stock", &domain.InsufficientStockError{ProductID: "p1", Available: 1, Required: 2}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"transición", &domain.InvalidTransitionError{From: "shipped", To: "cancelled"}, fiber.StatusConflict, "INVALID_TRANSITION"},
		{"ya cancelado", domain.ErrAlreadyCancelled, fiber.StatusConflict, "ALREADY_CANCELLED"},
		{"pedido vacío", domain.ErrEmptyOrder, fiber.StatusBadRequest, "EMPTY_ORDER"},
		{"entrada envuelta", fmt.Errorf("%w: cantidad", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{"pedido", domain.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
		{"cliente", domain.ErrClientNotFound, fiber.StatusNotFound, "CLIENT_NOT_FOUND"},
		{"fiber", fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido"), fiber.StatusBadRequest, "INVALID_BODY"},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestMapError_NoExponeErroresInternos(t *testing.T) {
	_, body := mapError(domain.AsPersistence("op", errors.New("password=secreto")))
	assert.NotContains(t, body.Message, "secreto")
}
