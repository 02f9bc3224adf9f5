package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	Status        string
	ClientID      string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Search        string // coincidencia parcial sobre el número de pedido
	Limit         int
	Offset        int
}

// OrderRepository define el puerto de persistencia de pedidos e ítems.
// GetByID y GetForUpdate devuelven (nil, nil) si el pedido no existe.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.ClientOrder) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.ClientOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ClientOrder, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	// UpdateStatus persiste status y los metadatos de confirmación/cancelación.
	UpdateStatus(ctx context.Context, order *entity.ClientOrder) error
	List(ctx context.Context, f OrderFilter) ([]*entity.ClientOrder, error)

	// LockNumberSequence serializa la numeración del mes hasta el fin de la transacción.
	LockNumberSequence(ctx context.Context, monthPrefix string) error
	// LastSequence devuelve el mayor consecutivo numérico con ese prefijo (0 si no hay).
	LastSequence(ctx context.Context, monthPrefix string) (int, error)
}
