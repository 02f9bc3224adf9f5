package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// Límites de paginación del historial.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// InInput entrada de stock (compra, devolución o reversa de un pedido).
type InInput struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
	Reference string
	Notes     string
	Actor     string
	OrderID   string
}

// OutInput salida de stock; el precio del movimiento es el unit_price vigente del producto.
type OutInput struct {
	ProductID string
	Quantity  int64
	Reference string
	Notes     string
	Actor     string
	OrderID   string
}

// Ledger es el libro de stock: registra movimientos y mantiene cantidad y costo promedio.
// Es el único componente que escribe products.quantity y products.cost_price.
type Ledger struct {
	tx     TxRunner
	log    *logger.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewLedger construye el libro de stock.
func NewLedger(tx TxRunner, log *logger.Logger) *Ledger {
	return &Ledger{
		tx:     tx,
		log:    log,
		tracer: otel.Tracer("inventario-pedidos/ledger"),
		now:    time.Now,
	}
}

// RecordIn registra una entrada en su propia transacción.
func (l *Ledger) RecordIn(ctx context.Context, in InInput) (*entity.StockMovement, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.RecordIn", trace.WithAttributes(
		attribute.String("product_id", in.ProductID),
		attribute.Int64("quantity", in.Quantity),
	))
	defer span.End()

	var mov *entity.StockMovement
	err := l.tx.Run(ctx, func(s *Scope) error {
		var err error
		mov, err = l.RecordInTx(ctx, s, in)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.AsPersistence("ledger.record_in", err)
	}
	l.log.Ctx(ctx).Info().
		Str("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Str("unit_cost", in.UnitCost.String()).
		Str("actor", in.Actor).
		Msg("entrada de stock registrada")
	return mov, nil
}

// RecordInTx registra una entrada dentro de la transacción del caller:
// bloquea el producto, agrega el movimiento y recalcula el costo promedio ponderado.
func (l *Ledger) RecordInTx(ctx context.Context, s *Scope, in InInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !in.UnitCost.Equal(in.UnitCost.Round(inventory.CostPrecision)) {
		return nil, fmt.Errorf("%w: costo con más de %d decimales", domain.ErrInvalidInput, inventory.CostPrecision)
	}
	product, err := s.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Quantity > math.MaxInt64-product.Quantity {
		return nil, fmt.Errorf("%w: la existencia resultante excede el máximo", domain.ErrInvalidInput)
	}

	mov, err := l.newMovement(in.ProductID, entity.MovementIn, in.Quantity, in.UnitCost)
	if err != nil {
		return nil, err
	}
	mov.OrderID = in.OrderID
	mov.Reference = in.Reference
	mov.Notes = in.Notes
	mov.CreatedBy = in.Actor
	if err := s.journal.Create(ctx, mov); err != nil {
		return nil, err
	}

	newCost := inventory.WeightedAverageCost(product.Quantity, product.CostPrice, in.Quantity, in.UnitCost)
	newQty := product.Quantity + in.Quantity
	if err := s.stock.SetLevels(ctx, product.ID, newQty, newCost); err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordOut registra una salida en su propia transacción.
func (l *Ledger) RecordOut(ctx context.Context, out OutInput) (*entity.StockMovement, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.RecordOut", trace.WithAttributes(
		attribute.String("product_id", out.ProductID),
		attribute.Int64("quantity", out.Quantity),
	))
	defer span.End()

	var mov *entity.StockMovement
	err := l.tx.Run(ctx, func(s *Scope) error {
		var err error
		mov, err = l.RecordOutTx(ctx, s, out)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.AsPersistence("ledger.record_out", err)
	}
	l.log.Ctx(ctx).Info().
		Str("product_id", out.ProductID).
		Int64("quantity", out.Quantity).
		Str("actor", out.Actor).
		Msg("salida de stock registrada")
	return mov, nil
}

// RecordOutTx ejecuta una salida usando el scope del caller (misma transacción).
// La cantidad disponible se lee con la fila bloqueada, así la verificación y el descuento son atómicos.
func (l *Ledger) RecordOutTx(ctx context.Context, s *Scope, out OutInput) (*entity.StockMovement, error) {
	if out.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := s.Products.GetForUpdate(ctx, out.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if out.Quantity > product.Quantity {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Quantity,
			Required:    out.Quantity,
		}
	}

	mov, err := l.newMovement(out.ProductID, entity.MovementOut, out.Quantity, product.UnitPrice)
	if err != nil {
		return nil, err
	}
	mov.OrderID = out.OrderID
	mov.Reference = out.Reference
	mov.Notes = out.Notes
	mov.CreatedBy = out.Actor
	if err := s.journal.Create(ctx, mov); err != nil {
		return nil, err
	}
	// las salidas no alteran el costo promedio
	if err := s.stock.SetLevels(ctx, product.ID, product.Quantity-out.Quantity, product.CostPrice); err != nil {
		return nil, err
	}
	return mov, nil
}

func (l *Ledger) newMovement(productID, direction string, qty int64, price decimal.Decimal) (*entity.StockMovement, error) {
	mov, err := entity.NewStockMovement(uuid.New().String(), productID, direction, qty, price, l.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return mov, nil
}

// History devuelve los movimientos que cumplen todos los filtros, más reciente primero.
func (l *Ledger) History(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.History")
	defer span.End()

	if f.Direction != "" && f.Direction != entity.MovementIn && f.Direction != entity.MovementOut {
		return nil, domain.ErrInvalidInput
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.ErrInvalidInput
	}
	f.Limit, f.Offset = normalizePage(f.Limit, f.Offset)

	var out []*entity.StockMovement
	err := l.tx.Run(ctx, func(s *Scope) error {
		var err error
		out, err = s.Movements.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, domain.AsPersistence("ledger.history", err)
	}
	return out, nil
}

// Product devuelve el estado actual de un producto.
func (l *Ledger) Product(ctx context.Context, id string) (*entity.Product, error) {
	var p *entity.Product
	err := l.tx.Run(ctx, func(s *Scope) error {
		var err error
		p, err = s.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, domain.AsPersistence("ledger.product", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// LowStock lista los productos con quantity <= reorder_level, menor cantidad primero.
func (l *Ledger) LowStock(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := l.tx.Run(ctx, func(s *Scope) error {
		var err error
		out, err = s.Products.ListLowStock(ctx)
		return err
	})
	if err != nil {
		return nil, domain.AsPersistence("ledger.low_stock", err)
	}
	return out, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
