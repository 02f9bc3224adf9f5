package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// MovementFilter filtros conjuntivos del historial; los campos vacíos no filtran.
type MovementFilter struct {
	ProductID string
	Direction string
	OrderID   string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementReader consulta el historial, más reciente primero.
type StockMovementReader interface {
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}

// StockMovementWriter agrega movimientos; no existe Update ni Delete.
type StockMovementWriter interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
}
