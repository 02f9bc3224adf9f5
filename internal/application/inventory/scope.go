package inventory

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

// MovementStore es el adaptador de movimientos: lectura del historial y alta de asientos.
type MovementStore interface {
	repository.StockMovementReader
	repository.StockMovementWriter
}

// Scope agrupa los repositorios atados a una misma unidad de trabajo.
// Las escrituras de cantidad/costo y el alta de movimientos no se exportan:
// solo el Ledger puede usarlas.
type Scope struct {
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Clients   repository.ClientRepository
	Movements repository.StockMovementReader

	stock   repository.StockRepository
	journal repository.StockMovementWriter
}

// NewScope construye el scope. Lo usan los adaptadores de persistencia al abrir cada transacción.
func NewScope(
	products repository.ProductRepository,
	stock repository.StockRepository,
	movements MovementStore,
	orders repository.OrderRepository,
	clients repository.ClientRepository,
) *Scope {
	return &Scope{
		Products:  products,
		Orders:    orders,
		Clients:   clients,
		Movements: movements,
		stock:     stock,
		journal:   movements,
	}
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Ninguna escritura hecha a través del Scope es visible fuera de la transacción antes del Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(s *Scope) error) error
}
