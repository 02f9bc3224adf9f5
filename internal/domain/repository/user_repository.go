package repository

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByUsername acepta el nombre de usuario o el email.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
