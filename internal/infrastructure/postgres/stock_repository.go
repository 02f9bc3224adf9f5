package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo escribe las existencias y el costo promedio de products (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// SetLevels fija cantidad y costo. El CHECK (quantity >= 0) de la tabla es la última barrera.
func (r *StockRepo) SetLevels(ctx context.Context, productID string, quantity int64, costPrice decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $2, cost_price = $3, updated_at = now() WHERE id = $1`,
		productID, quantity, costPrice,
	)
	if err != nil {
		return fmt.Errorf("update stock levels: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
