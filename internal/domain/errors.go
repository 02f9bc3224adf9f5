package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrProductNotFound      = errors.New("producto no encontrado")
	ErrOrderNotFound        = errors.New("pedido no encontrado")
	ErrClientNotFound       = errors.New("cliente no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrEmptyOrder           = errors.New("el pedido no tiene ítems")
	ErrAlreadyCancelled     = errors.New("el pedido ya está cancelado")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
	ErrDuplicateOrderNumber = errors.New("número de pedido duplicado")
	ErrPersistence          = errors.New("falla de persistencia")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
)

// InsufficientStockError indica qué producto no alcanza y por cuánto.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int64
	Required    int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, requerido %d", name, e.Available, e.Required)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidTransitionError describe un cambio de estado de pedido no permitido.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("no se puede pasar el pedido de %q a %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// PersistenceError envuelve cualquier error de la capa de almacenamiento,
// incluidos los conflictos de transacción.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", ErrPersistence, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

var businessErrors = []error{
	ErrNotFound,
	ErrProductNotFound,
	ErrOrderNotFound,
	ErrClientNotFound,
	ErrUserNotFound,
	ErrInvalidInput,
	ErrEmptyOrder,
	ErrAlreadyCancelled,
	ErrInsufficientStock,
	ErrInvalidTransition,
	ErrUnauthorized,
	ErrForbidden,
	ErrConflict,
}

// IsBusiness reporta si err es una condición de negocio esperada (nunca se reintenta).
func IsBusiness(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// AsPersistence deja pasar los errores de negocio tal cual y envuelve el resto en *PersistenceError.
func AsPersistence(op string, err error) error {
	if err == nil || IsBusiness(err) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
