// Package memory implementa la persistencia en memoria con la misma semántica transaccional
// que el adaptador PostgreSQL: cada unidad de trabajo corre aislada sobre una copia del estado
// y solo la reemplaza si termina sin error. Se usa en tests y con DB_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/domain/sales"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products  map[string]entity.Product
	clients   map[string]entity.Client
	users     map[string]entity.User
	orders    map[string]entity.ClientOrder
	items     map[string][]entity.OrderItem // por order_id
	movements []entity.StockMovement        // orden de inserción
}

func newState() *state {
	return &state{
		products: map[string]entity.Product{},
		clients:  map[string]entity.Client{},
		users:    map[string]entity.User{},
		orders:   map[string]entity.ClientOrder{},
		items:    map[string][]entity.OrderItem{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]entity.Product, len(s.products)),
		clients:   make(map[string]entity.Client, len(s.clients)),
		users:     s.users, // no participan de transacciones
		orders:    make(map[string]entity.ClientOrder, len(s.orders)),
		items:     make(map[string][]entity.OrderItem, len(s.items)),
		movements: make([]entity.StockMovement, len(s.movements), len(s.movements)+8),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.OrderItem(nil), v...)
	}
	copy(c.movements, s.movements)
	return c
}

// Store es el gateway en memoria. Un único mutex serializa las unidades de trabajo,
// lo que equivale a aislamiento serializable.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado; la copia reemplaza al estado vivo solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(sc *inventory.Scope) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	scope := inventory.NewScope(
		&productRepo{st: work},
		&stockRepo{st: work},
		&movementRepo{st: work},
		&orderRepo{st: work},
		&clientRepo{st: work},
	)
	if err := fn(scope); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// AddProduct carga un producto tal cual, con su cantidad y costo. Solo para fixtures de pruebas;
// el código de la aplicación da de alta productos con Scope.Products.Create.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// AddClient da de alta un cliente.
func (s *Store) AddClient(c entity.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.clients[c.ID] = c
}

// SetUnitPrice cambia el precio de venta, como lo haría el maestro de productos.
func (s *Store) SetUnitPrice(productID string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.st.products[productID]; ok {
		p.UnitPrice = price
		s.st.products[productID] = p
	}
}

// Users devuelve el repositorio de usuarios (fuera de transacción).
func (s *Store) Users() repository.UserRepository {
	return &userRepo{store: s}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios atados a la copia de trabajo
// ──────────────────────────────────────────────────────────────────────────────

type productRepo struct{ st *state }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate no necesita bloqueo propio: la unidad de trabajo ya es exclusiva.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0)
	for _, p := range r.st.products {
		if p.IsLowStock() {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return domain.ErrConflict
	}
	// cantidad y costo solo los escribe el libro
	p.Quantity = 0
	p.CostPrice = decimal.Zero
	r.st.products[p.ID] = *p
	return nil
}

type stockRepo struct{ st *state }

func (r *stockRepo) SetLevels(_ context.Context, productID string, quantity int64, cost decimal.Decimal) error {
	p, ok := r.st.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if quantity < 0 {
		// equivalente al CHECK (quantity >= 0) de la tabla
		return fmt.Errorf("cantidad negativa para producto %s: %d", productID, quantity)
	}
	p.Quantity = quantity
	p.CostPrice = cost
	r.st.products[productID] = p
	return nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if _, ok := r.st.products[m.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	out := make([]*entity.StockMovement, 0)
	// recorrido inverso: más reciente primero, empates por orden de inserción
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Direction != "" && m.Direction != f.Direction {
			continue
		}
		if f.OrderID != "" && m.OrderID != f.OrderID {
			continue
		}
		if f.From != nil && m.MovedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovedAt.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovedAt.After(out[j].MovedAt) })
	return page(out, f.Limit, f.Offset), nil
}

type orderRepo struct{ st *state }

func (r *orderRepo) Create(_ context.Context, o *entity.ClientOrder) error {
	for _, existing := range r.st.orders {
		if existing.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicateOrderNumber
		}
	}
	r.st.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	if _, ok := r.st.orders[it.OrderID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.st.items[it.OrderID] = append(r.st.items[it.OrderID], *it)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.ClientOrder, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, nil
	}
	if c, ok := r.st.clients[o.ClientID]; ok {
		o.ClientName = c.Name
	}
	return &o, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ClientOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	src := r.st.items[orderID]
	out := make([]*entity.OrderItem, 0, len(src))
	for _, it := range src {
		it := it
		if p, ok := r.st.products[it.ProductID]; ok {
			it.ProductName = p.Name
		}
		out = append(out, &it)
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, o *entity.ClientOrder) error {
	cur, ok := r.st.orders[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	cur.Status = o.Status
	cur.ConfirmedBy = o.ConfirmedBy
	cur.ConfirmedAt = o.ConfirmedAt
	cur.CancelledBy = o.CancelledBy
	cur.CancelledAt = o.CancelledAt
	cur.CancelReason = o.CancelReason
	cur.UpdatedAt = o.UpdatedAt
	r.st.orders[o.ID] = cur
	return nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.ClientOrder, error) {
	out := make([]*entity.ClientOrder, 0)
	for _, o := range r.st.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ClientID != "" && o.ClientID != f.ClientID {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.From != nil && o.OrderDate.Before(*f.From) {
			continue
		}
		if f.To != nil && o.OrderDate.After(*f.To) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(o.OrderNumber), strings.ToLower(f.Search)) {
			continue
		}
		o := o
		if c, ok := r.st.clients[o.ClientID]; ok {
			o.ClientName = c.Name
		}
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OrderNumber > out[j].OrderNumber
	})
	return page(out, f.Limit, f.Offset), nil
}

// LockNumberSequence no hace nada: Run ya serializa todas las unidades de trabajo.
func (r *orderRepo) LockNumberSequence(_ context.Context, _ string) error { return nil }

func (r *orderRepo) LastSequence(_ context.Context, monthPrefix string) (int, error) {
	last := 0
	for _, o := range r.st.orders {
		if n, ok := sales.ParseSequence(monthPrefix, o.OrderNumber); ok && n > last {
			last = n
		}
	}
	return last, nil
}

type clientRepo struct{ st *state }

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := r.st.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	if _, ok := r.st.clients[c.ID]; ok {
		return domain.ErrConflict
	}
	r.st.clients[c.ID] = *c
	return nil
}

// userRepo toma el mutex del store en cada llamada (no participa de transacciones).
type userRepo struct{ store *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.st.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrConflict
		}
	}
	r.store.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.st.users {
		if strings.EqualFold(u.Username, username) || (u.Email != "" && strings.EqualFold(u.Email, username)) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return in[:0]
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
