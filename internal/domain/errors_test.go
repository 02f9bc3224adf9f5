package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
)

func TestAsPersistence_DejaPasarErroresDeNegocio(t *testing.T) {
	biz := &domain.InsufficientStockError{ProductID: "p", Available: 1, Required: 2}
	assert.Same(t, biz, domain.AsPersistence("op", biz))
	assert.Equal(t, domain.ErrEmptyOrder, domain.AsPersistence("op", domain.ErrEmptyOrder))
	assert.NoError(t, domain.AsPersistence("op", nil))
}

func TestAsPersistence_EnvuelveErroresDeAlmacenamiento(t *testing.T) {
	raw := errors.New("conexión rechazada")
	err := domain.AsPersistence("orders.confirm", raw)

	var pe *domain.PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "orders.confirm", pe.Op)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, raw)
	assert.Same(t, err, domain.AsPersistence("otra", err), "no se envuelve dos veces")
}

func TestAsPersistence_NumeroDuplicadoSigueIdentificable(t *testing.T) {
	err := domain.AsPersistence("orders.create", fmt.Errorf("insert: %w", domain.ErrDuplicateOrderNumber))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, domain.ErrDuplicateOrderNumber)
}

func TestTypedErrors_IsSentinel(t *testing.T) {
	assert.ErrorIs(t, &domain.InvalidTransitionError{From: "cancelled", To: "confirmed"}, domain.ErrInvalidTransition)
	assert.ErrorIs(t, fmt.Errorf("wrap: %w", &domain.InsufficientStockError{}), domain.ErrInsufficientStock)
	assert.False(t, domain.IsBusiness(errors.New("x")))
	assert.True(t, domain.IsBusiness(domain.ErrAlreadyCancelled))
}
