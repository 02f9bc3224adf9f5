package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var _ inventory.MovementStore = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, direction, quantity, unit_price, order_id, reference, notes, created_by, moved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Direction, m.Quantity, m.UnitPrice,
		nullString(m.OrderID), nullString(m.Reference), nullString(m.Notes), nullString(m.CreatedBy), m.MovedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List devuelve los movimientos que cumplen todos los filtros, más reciente primero.
// Los empates de moved_at se resuelven por orden de inserción (seq).
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, direction, quantity, unit_price, order_id, reference, notes, created_by, moved_at
		FROM stock_movements WHERE 1 = 1`
	args := []any{}
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Direction != "" {
		add("direction = $%d", f.Direction)
	}
	if f.OrderID != "" {
		add("order_id = $%d", f.OrderID)
	}
	if f.From != nil {
		add("moved_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("moved_at <= $%d", *f.To)
	}
	query += fmt.Sprintf(" ORDER BY moved_at DESC, seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		var orderID, reference, notes, createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.UnitPrice,
			&orderID, &reference, &notes, &createdBy, &m.MovedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.OrderID = derefString(orderID)
		m.Reference = derefString(reference)
		m.Notes = derefString(notes)
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
