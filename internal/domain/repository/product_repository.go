package repository

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de Product.
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// Create da de alta el maestro. Ignora Quantity y CostPrice: el producto nace en cero
	// y la existencia inicial se registra con una entrada del libro.
	Create(ctx context.Context, product *entity.Product) error
}
