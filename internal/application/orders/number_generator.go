package orders

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain/sales"
)

// NumberGenerator asigna números PREFIJO-YYYYMM-NNNN con consecutivo que reinicia cada mes.
// Next debe llamarse dentro de la misma transacción que inserta el pedido.
type NumberGenerator struct {
	prefix string
	loc    *time.Location
	now    func() time.Time
}

// NewNumberGenerator construye el generador. loc define el límite de mes (nil = UTC).
func NewNumberGenerator(prefix string, loc *time.Location) *NumberGenerator {
	if prefix == "" {
		prefix = sales.DefaultOrderPrefix
	}
	if loc == nil {
		loc = time.UTC
	}
	return &NumberGenerator{prefix: prefix, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (g *NumberGenerator) WithClock(now func() time.Time) *NumberGenerator {
	g.now = now
	return g
}

// Next toma el candado de numeración del mes, lee el mayor consecutivo y devuelve el siguiente.
// El candado se libera al terminar la transacción, así dos creaciones concurrentes no leen el mismo máximo.
func (g *NumberGenerator) Next(ctx context.Context, s *inventory.Scope) (string, error) {
	monthPrefix := sales.MonthPrefix(g.prefix, g.now().In(g.loc))
	if err := s.Orders.LockNumberSequence(ctx, monthPrefix); err != nil {
		return "", err
	}
	last, err := s.Orders.LastSequence(ctx, monthPrefix)
	if err != nil {
		return "", err
	}
	return sales.NextNumber(monthPrefix, last), nil
}
