package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// constraint UNIQUE (order_number) generada por la migración inicial.
const orderNumberConstraint = "client_orders_order_number_key"

const orderSelect = `
	SELECT o.id, o.order_number, o.client_id, COALESCE(c.name, ''), o.order_date, o.delivery_date, o.status,
	       o.subtotal, o.tax_rate, o.tax_amount, o.discount_amount, o.total_amount, o.paid_amount, o.due_amount,
	       o.payment_status, o.payment_method, o.notes, o.created_by, o.confirmed_by, o.confirmed_at,
	       o.cancelled_by, o.cancelled_at, o.cancel_reason, o.created_at, o.updated_at
	FROM client_orders o
	LEFT JOIN clients c ON c.id = o.client_id`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.ClientOrder) error {
	query := `
		INSERT INTO client_orders (id, order_number, client_id, order_date, delivery_date, status,
			subtotal, tax_rate, tax_amount, discount_amount, total_amount, paid_amount, due_amount,
			payment_status, payment_method, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.ClientID, o.OrderDate, o.DeliveryDate, o.Status,
		o.Subtotal, o.TaxRate, o.TaxAmount, o.DiscountAmount, o.TotalAmount, o.PaidAmount, o.DueAmount,
		o.PaymentStatus, o.PaymentMethod, nullString(o.Notes), nullString(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if violatesConstraint(err, orderNumberConstraint) {
			return fmt.Errorf("insert order %s: %w", o.OrderNumber, domain.ErrDuplicateOrderNumber)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice, nullString(it.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.ClientOrder, error) {
	return r.get(ctx, orderSelect+` WHERE o.id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando su fila (no la del cliente).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ClientOrder, error) {
	return r.get(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE OF o`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.ClientOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListItems devuelve las líneas del pedido con el nombre del producto.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT i.id, i.order_id, i.product_id, COALESCE(p.name, ''), i.quantity, i.unit_price, i.total_price, i.notes
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.seq`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.OrderItem, 0)
	for rows.Next() {
		var it entity.OrderItem
		var notes *string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &notes); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.Notes = derefString(notes)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus persiste status y metadatos de confirmación/cancelación.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.ClientOrder) error {
	query := `
		UPDATE client_orders
		SET status        = $2,
		    confirmed_by  = $3,
		    confirmed_at  = $4,
		    cancelled_by  = $5,
		    cancelled_at  = $6,
		    cancel_reason = $7,
		    updated_at    = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.Status, nullString(o.ConfirmedBy), o.ConfirmedAt,
		nullString(o.CancelledBy), o.CancelledAt, nullString(o.CancelReason), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// List devuelve los pedidos filtrados, más reciente primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.ClientOrder, error) {
	query := orderSelect + ` WHERE 1 = 1`
	args := []any{}
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.Status != "" {
		add("o.status = $%d", f.Status)
	}
	if f.ClientID != "" {
		add("o.client_id = $%d", f.ClientID)
	}
	if f.PaymentStatus != "" {
		add("o.payment_status = $%d", f.PaymentStatus)
	}
	if f.From != nil {
		add("o.order_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("o.order_date <= $%d", *f.To)
	}
	if f.Search != "" {
		add("o.order_number ILIKE '%%' || $%d || '%%'", f.Search)
	}
	query += fmt.Sprintf(" ORDER BY o.created_at DESC, o.order_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ClientOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// LockNumberSequence toma un advisory lock de transacción por prefijo de mes.
func (r *OrderRepo) LockNumberSequence(ctx context.Context, monthPrefix string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, monthPrefix); err != nil {
		return fmt.Errorf("lock order number sequence: %w", err)
	}
	return nil
}

// LastSequence devuelve el mayor sufijo numérico para el prefijo (comparación numérica, no de texto).
func (r *OrderRepo) LastSequence(ctx context.Context, monthPrefix string) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(substr(order_number, length($1) + 1) AS BIGINT)), 0)
		FROM client_orders
		WHERE starts_with(order_number, $1)
		  AND substr(order_number, length($1) + 1) ~ '^[0-9]+$'`
	var last int64
	if err := r.q.QueryRow(ctx, query, monthPrefix).Scan(&last); err != nil {
		return 0, fmt.Errorf("last order sequence: %w", err)
	}
	return int(last), nil
}

func scanOrder(row pgx.Row) (*entity.ClientOrder, error) {
	var o entity.ClientOrder
	var notes, createdBy, confirmedBy, cancelledBy, cancelReason *string
	var deliveryDate, confirmedAt, cancelledAt *time.Time
	err := row.Scan(&o.ID, &o.OrderNumber, &o.ClientID, &o.ClientName, &o.OrderDate, &deliveryDate, &o.Status,
		&o.Subtotal, &o.TaxRate, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.PaidAmount, &o.DueAmount,
		&o.PaymentStatus, &o.PaymentMethod, &notes, &createdBy, &confirmedBy, &confirmedAt,
		&cancelledBy, &cancelledAt, &cancelReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.DeliveryDate = deliveryDate
	o.ConfirmedAt = confirmedAt
	o.CancelledAt = cancelledAt
	o.Notes = derefString(notes)
	o.CreatedBy = derefString(createdBy)
	o.ConfirmedBy = derefString(confirmedBy)
	o.CancelledBy = derefString(cancelledBy)
	o.CancelReason = derefString(cancelReason)
	return &o, nil
}
