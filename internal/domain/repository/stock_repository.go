package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockRepository es el único puerto que escribe quantity y cost_price de un producto.
// Solo el libro de stock recibe una implementación.
type StockRepository interface {
	SetLevels(ctx context.Context, productID string, quantity int64, costPrice decimal.Decimal) error
}
