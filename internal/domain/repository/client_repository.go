package repository

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// ClientRepository puerto de lectura de clientes (el maestro vive fuera de este servicio).
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) error
}
