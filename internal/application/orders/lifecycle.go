package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/domain/sales"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// DefaultNumberRetries reintentos de Create ante un número de pedido duplicado.
const DefaultNumberRetries = 3

// ItemInput línea solicitada. UnitPrice nil toma el precio vigente del producto.
type ItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
	Notes     string
}

// CreateInput datos para crear un pedido en estado pending.
type CreateInput struct {
	ClientID       string
	OrderDate      time.Time
	DeliveryDate   *time.Time
	Items          []ItemInput
	TaxRate        decimal.Decimal
	DiscountAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	PaymentMethod  string
	Notes          string
	Actor          string
}

// OrderDetail pedido con sus ítems.
type OrderDetail struct {
	Order *entity.ClientOrder
	Items []*entity.OrderItem
}

// Lifecycle es dueño de las transiciones del pedido y de su efecto sobre el libro de stock.
// Nunca escribe cantidades directamente: todo pasa por el Ledger dentro de la misma transacción.
type Lifecycle struct {
	tx            inventory.TxRunner
	ledger        *inventory.Ledger
	numbers       *NumberGenerator
	log           *logger.Logger
	tracer        trace.Tracer
	now           func() time.Time
	numberRetries int
}

// NewLifecycle construye el caso de uso de pedidos.
func NewLifecycle(tx inventory.TxRunner, ledger *inventory.Ledger, numbers *NumberGenerator, log *logger.Logger) *Lifecycle {
	return &Lifecycle{
		tx:            tx,
		ledger:        ledger,
		numbers:       numbers,
		log:           log,
		tracer:        otel.Tracer("inventario-pedidos/orders"),
		now:           time.Now,
		numberRetries: DefaultNumberRetries,
	}
}

// WithNumberRetries ajusta los reintentos por número duplicado (mínimo 0).
func (l *Lifecycle) WithNumberRetries(n int) *Lifecycle {
	if n < 0 {
		n = 0
	}
	l.numberRetries = n
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Create registra el pedido y sus ítems. No reserva ni descuenta stock.
func (l *Lifecycle) Create(ctx context.Context, in CreateInput) (*OrderDetail, error) {
	ctx, span := l.tracer.Start(ctx, "orders.Create", trace.WithAttributes(
		attribute.String("client_id", in.ClientID),
		attribute.Int("items", len(in.Items)),
	))
	defer span.End()

	var detail *OrderDetail
	var err error
	for attempt := 0; attempt <= l.numberRetries; attempt++ {
		err = l.tx.Run(ctx, func(s *inventory.Scope) error {
			var txErr error
			detail, txErr = l.CreateTx(ctx, s, in)
			return txErr
		})
		if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
			break
		}
		l.log.Ctx(ctx).Warn().Int("attempt", attempt+1).Msg("número de pedido duplicado, reintentando")
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.AsPersistence("orders.create", err)
	}
	l.log.Ctx(ctx).Info().
		Str("order_id", detail.Order.ID).
		Str("order_number", detail.Order.OrderNumber).
		Str("actor", in.Actor).
		Msg("pedido creado")
	return detail, nil
}

// CreateTx crea el pedido dentro de la transacción del caller.
func (l *Lifecycle) CreateTx(ctx context.Context, s *inventory.Scope, in CreateInput) (*OrderDetail, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TaxRate.IsNegative() || in.DiscountAmount.IsNegative() || in.PaidAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	// los montos se guardan con 2 decimales; redondear después rompería los totales
	for _, amount := range []decimal.Decimal{in.TaxRate, in.DiscountAmount, in.PaidAmount} {
		if !sales.HasMoneyScale(amount) {
			return nil, fmt.Errorf("%w: monto con más de %d decimales", domain.ErrInvalidInput, sales.MoneyPrecision)
		}
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}

	client, err := s.Clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	orderID := uuid.New().String()
	items := make([]*entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		product, err := s.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}
		price := product.UnitPrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		if !sales.HasMoneyScale(price) {
			return nil, fmt.Errorf("%w: precio de %s con más de %d decimales", domain.ErrInvalidInput, product.ID, sales.MoneyPrecision)
		}
		item, err := entity.NewOrderItem(uuid.New().String(), orderID, product.ID, it.Quantity, price)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		item.ProductName = product.Name
		item.Notes = it.Notes
		items = append(items, item)
	}

	totals := sales.ComputeTotals(items, in.TaxRate, in.DiscountAmount, in.PaidAmount)

	number, err := l.numbers.Next(ctx, s)
	if err != nil {
		return nil, err
	}

	now := l.now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	order := &entity.ClientOrder{
		ID:             orderID,
		OrderNumber:    number,
		ClientID:       client.ID,
		ClientName:     client.Name,
		OrderDate:      orderDate,
		DeliveryDate:   in.DeliveryDate,
		Status:         entity.OrderStatusPending,
		Subtotal:       totals.Subtotal,
		TaxRate:        in.TaxRate,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.Discount,
		TotalAmount:    totals.Total,
		PaidAmount:     totals.Paid,
		DueAmount:      totals.Due,
		PaymentStatus:  totals.PaymentStatus,
		PaymentMethod:  method,
		Notes:          in.Notes,
		CreatedBy:      in.Actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := s.Orders.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}
	return &OrderDetail{Order: order, Items: items}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm
// ──────────────────────────────────────────────────────────────────────────────

// Confirm descuenta el stock de todos los ítems y marca el pedido como confirmado, todo o nada.
func (l *Lifecycle) Confirm(ctx context.Context, orderID, actor string) (*entity.ClientOrder, error) {
	ctx, span := l.tracer.Start(ctx, "orders.Confirm", trace.WithAttributes(attribute.String("order_id", orderID)))
	defer span.End()

	var order *entity.ClientOrder
	err := l.tx.Run(ctx, func(s *inventory.Scope) error {
		var txErr error
		order, txErr = l.ConfirmTx(ctx, s, orderID, actor)
		return txErr
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.AsPersistence("orders.confirm", err)
	}
	l.log.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("actor", actor).
		Msg("pedido confirmado")
	return order, nil
}

// ConfirmTx confirma dentro de la transacción del caller. La fila del pedido queda bloqueada,
// así dos confirmaciones concurrentes no pueden ver ambas el estado pending.
func (l *Lifecycle) ConfirmTx(ctx context.Context, s *inventory.Scope, orderID, actor string) (*entity.ClientOrder, error) {
	order, err := s.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != entity.OrderStatusPending {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: entity.OrderStatusConfirmed}
	}
	items, err := s.Orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	// Verificación previa contra el valor vivo, con las filas de producto bloqueadas
	// en orden de id para no generar deadlocks entre pedidos que comparten productos.
	required := make(map[string]int64, len(items))
	for _, it := range items {
		required[it.ProductID] += it.Quantity
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		product, err := s.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}
		if required[id] > product.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Required:    required[id],
			}
		}
	}

	clientName, err := l.clientName(ctx, s, order)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if _, err := l.ledger.RecordOutTx(ctx, s, inventory.OutInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Reference: order.OrderNumber,
			Notes:     "Cliente: " + clientName,
			Actor:     actor,
			OrderID:   order.ID,
		}); err != nil {
			return nil, err
		}
	}

	now := l.now()
	order.Status = entity.OrderStatusConfirmed
	order.ConfirmedBy = actor
	order.ConfirmedAt = &now
	order.UpdatedAt = now
	if err := s.Orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

// Cancel cancela el pedido; si ya había descontado stock lo devuelve con una entrada por ítem.
func (l *Lifecycle) Cancel(ctx context.Context, orderID, actor, reason string) (*entity.ClientOrder, error) {
	ctx, span := l.tracer.Start(ctx, "orders.Cancel", trace.WithAttributes(attribute.String("order_id", orderID)))
	defer span.End()

	var order *entity.ClientOrder
	var restocked bool
	err := l.tx.Run(ctx, func(s *inventory.Scope) error {
		var txErr error
		order, restocked, txErr = l.cancelTx(ctx, s, orderID, actor, reason)
		return txErr
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.AsPersistence("orders.cancel", err)
	}
	l.log.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Bool("restocked", restocked).
		Str("actor", actor).
		Msg("pedido cancelado")
	return order, nil
}

// CancelTx cancela dentro de la transacción del caller.
func (l *Lifecycle) CancelTx(ctx context.Context, s *inventory.Scope, orderID, actor, reason string) (*entity.ClientOrder, error) {
	order, _, err := l.cancelTx(ctx, s, orderID, actor, reason)
	return order, err
}

func (l *Lifecycle) cancelTx(ctx context.Context, s *inventory.Scope, orderID, actor, reason string) (*entity.ClientOrder, bool, error) {
	order, err := s.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, domain.ErrOrderNotFound
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, false, domain.ErrAlreadyCancelled
	}
	if !entity.CanTransition(order.Status, entity.OrderStatusCancelled) {
		return nil, false, &domain.InvalidTransitionError{From: order.Status, To: entity.OrderStatusCancelled}
	}

	// Reversa compensatoria: solo si la confirmación ya descontó stock,
	// al precio registrado en cada ítem y no al costo actual del producto.
	restock := order.StockCommitted()
	if restock {
		items, err := s.Orders.ListItems(ctx, order.ID)
		if err != nil {
			return nil, false, err
		}
		for _, it := range items {
			if _, err := l.ledger.RecordInTx(ctx, s, inventory.InInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitCost:  it.UnitPrice,
				Reference: order.OrderNumber,
				Notes:     cancelNote(reason),
				Actor:     actor,
				OrderID:   order.ID,
			}); err != nil {
				return nil, false, err
			}
		}
	}

	now := l.now()
	order.Status = entity.OrderStatusCancelled
	order.CancelledBy = actor
	order.CancelledAt = &now
	order.CancelReason = reason
	order.UpdatedAt = now
	if err := s.Orders.UpdateStatus(ctx, order); err != nil {
		return nil, false, err
	}
	return order, restock, nil
}

func cancelNote(reason string) string {
	if reason == "" {
		return "Pedido cancelado"
	}
	return "Pedido cancelado: " + reason
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados posteriores y lecturas
// ──────────────────────────────────────────────────────────────────────────────

// Advance mueve el pedido por processing, shipped y delivered. No tiene efecto sobre el stock.
func (l *Lifecycle) Advance(ctx context.Context, orderID, to, actor string) (*entity.ClientOrder, error) {
	switch to {
	case entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusDelivered:
	default:
		return nil, domain.ErrInvalidInput
	}
	ctx, span := l.tracer.Start(ctx, "orders.Advance", trace.WithAttributes(
		attribute.String("order_id", orderID),
		attribute.String("to", to),
	))
	defer span.End()

	var order *entity.ClientOrder
	err := l.tx.Run(ctx, func(s *inventory.Scope) error {
		o, err := s.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if !entity.CanTransition(o.Status, to) {
			return &domain.InvalidTransitionError{From: o.Status, To: to}
		}
		o.Status = to
		o.UpdatedAt = l.now()
		order = o
		return s.Orders.UpdateStatus(ctx, o)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.AsPersistence("orders.advance", err)
	}
	l.log.Ctx(ctx).Info().Str("order_id", order.ID).Str("status", to).Str("actor", actor).Msg("estado de pedido actualizado")
	return order, nil
}

// Get devuelve el pedido con sus ítems.
func (l *Lifecycle) Get(ctx context.Context, orderID string) (*OrderDetail, error) {
	var detail *OrderDetail
	err := l.tx.Run(ctx, func(s *inventory.Scope) error {
		o, err := s.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		items, err := s.Orders.ListItems(ctx, o.ID)
		if err != nil {
			return err
		}
		detail = &OrderDetail{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return nil, domain.AsPersistence("orders.get", err)
	}
	return detail, nil
}

// List devuelve los pedidos que cumplen los filtros, más reciente primero.
func (l *Lifecycle) List(ctx context.Context, f repository.OrderFilter) ([]*entity.ClientOrder, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	var out []*entity.ClientOrder
	err := l.tx.Run(ctx, func(s *inventory.Scope) error {
		var err error
		out, err = s.Orders.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, domain.AsPersistence("orders.list", err)
	}
	return out, nil
}

func (l *Lifecycle) clientName(ctx context.Context, s *inventory.Scope, order *entity.ClientOrder) (string, error) {
	if order.ClientName != "" {
		return order.ClientName, nil
	}
	client, err := s.Clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "", nil
	}
	return client.Name, nil
}
