package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-000000000001"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newLedger(t *testing.T, products ...entity.Product) (*inventory.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, p := range products {
		store.AddProduct(p)
	}
	return inventory.NewLedger(store, logger.Nop()), store
}

func product(id string, qty int64, cost, price string) entity.Product {
	return entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		Quantity:     qty,
		CostPrice:    dec(cost),
		UnitPrice:    dec(price),
		ReorderLevel: 5,
	}
}

func history(t *testing.T, l *inventory.Ledger, productID string) []*entity.StockMovement {
	t.Helper()
	movs, err := l.History(context.Background(), repository.MovementFilter{ProductID: productID})
	require.NoError(t, err)
	return movs
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordIn
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordIn_CostoPromedioPonderado(t *testing.T) {
	l, _ := newLedger(t, product("p1", 10, "5.00", "9.00"))
	ctx := context.Background()

	mov, err := l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: 5, UnitCost: dec("8.00"), Reference: "OC-1", Actor: testActor})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementIn, mov.Direction)
	assert.NotEmpty(t, mov.ID)

	p, err := l.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), p.Quantity)
	assert.True(t, p.CostPrice.Equal(dec("6")), "costo esperado 6.00, obtenido %s", p.CostPrice)
	assert.True(t, p.UnitPrice.Equal(dec("9.00")), "la entrada no toca el precio de venta")
}

func TestRecordIn_ProductoInexistente(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.RecordIn(context.Background(), inventory.InInput{ProductID: "nope", Quantity: 1, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRecordIn_EntradaInvalida(t *testing.T) {
	l, _ := newLedger(t, product("p1", 0, "0", "1"))
	ctx := context.Background()

	_, err := l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: 0, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: 1, UnitCost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, history(t, l, "p1"))
}

func TestRecordIn_CostoConMasDeCuatroDecimales(t *testing.T) {
	l, _ := newLedger(t, product("p1", 0, "0", "1"))

	_, err := l.RecordIn(context.Background(), inventory.InInput{ProductID: "p1", Quantity: 1, UnitCost: dec("1.00005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, history(t, l, "p1"))

	// ceros a la derecha no cuentan como decimales
	_, err = l.RecordIn(context.Background(), inventory.InInput{ProductID: "p1", Quantity: 1, UnitCost: dec("1.250000")})
	assert.NoError(t, err)
}

func TestRecordIn_DesbordeDeCantidadEsValidacion(t *testing.T) {
	l, _ := newLedger(t, product("p1", 10, "2", "3"))
	ctx := context.Background()

	_, err := l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: math.MaxInt64 - 9, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrPersistence)

	p, err := l.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Quantity)
	assert.Empty(t, history(t, l, "p1"))

	// justo en el límite todavía entra
	_, err = l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: math.MaxInt64 - 10, UnitCost: dec("2")})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordOut
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordOut_UsaPrecioDeVentaYNoTocaCosto(t *testing.T) {
	l, _ := newLedger(t, product("p1", 10, "5.00", "12.50"))
	ctx := context.Background()

	mov, err := l.RecordOut(ctx, inventory.OutInput{ProductID: "p1", Quantity: 4, Reference: "venta", Actor: testActor})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementOut, mov.Direction)
	assert.True(t, mov.UnitPrice.Equal(dec("12.50")), "la salida registra unit_price, no cost_price")

	p, err := l.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.Quantity)
	assert.True(t, p.CostPrice.Equal(dec("5.00")))
}

func TestRecordOut_StockInsuficienteSinEscriturasParciales(t *testing.T) {
	l, _ := newLedger(t, product("p1", 3, "5.00", "9.00"))
	ctx := context.Background()

	_, err := l.RecordOut(ctx, inventory.OutInput{ProductID: "p1", Quantity: 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "p1", ise.ProductID)
	assert.Equal(t, int64(3), ise.Available)
	assert.Equal(t, int64(4), ise.Required)

	p, err := l.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Quantity)
	assert.True(t, p.CostPrice.Equal(dec("5.00")))
	assert.Empty(t, history(t, l, "p1"), "no debe quedar movimiento")
}

func TestRecordOut_ConcurrenteNuncaDejaNegativo(t *testing.T) {
	l, _ := newLedger(t, product("p1", 10, "1", "1"))
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.RecordOut(ctx, inventory.OutInput{ProductID: "p1", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, insufficient)
	p, err := l.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante: cantidad = Σ entradas - Σ salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_CantidadCuadraConHistorial(t *testing.T) {
	l, _ := newLedger(t, product("p1", 0, "0", "10"))
	ctx := context.Background()

	steps := []struct {
		in  bool
		qty int64
	}{{true, 10}, {false, 3}, {true, 2}, {false, 9}, {false, 5}, {true, 7}}
	for _, s := range steps {
		if s.in {
			_, err := l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: s.qty, UnitCost: dec("2")})
			require.NoError(t, err)
			continue
		}
		_, _ = l.RecordOut(ctx, inventory.OutInput{ProductID: "p1", Quantity: s.qty})
	}

	var sum int64
	for _, m := range history(t, l, "p1") {
		sum += m.Signed()
	}
	p, err := l.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, sum, p.Quantity)
	assert.GreaterOrEqual(t, p.Quantity, int64(0))
}

// ──────────────────────────────────────────────────────────────────────────────
// History
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_FiltrosConjuntivosYOrden(t *testing.T) {
	l, _ := newLedger(t, product("p1", 0, "0", "3"), product("p2", 0, "0", "3"))
	ctx := context.Background()

	_, err := l.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: 5, UnitCost: dec("1"), Reference: "primero"})
	require.NoError(t, err)
	_, err = l.RecordIn(ctx, inventory.InInput{ProductID: "p2", Quantity: 5, UnitCost: dec("1")})
	require.NoError(t, err)
	_, err = l.RecordOut(ctx, inventory.OutInput{ProductID: "p1", Quantity: 2, Reference: "segundo"})
	require.NoError(t, err)

	all := history(t, l, "p1")
	require.Len(t, all, 2)
	assert.Equal(t, "segundo", all[0].Reference, "más reciente primero")
	assert.Equal(t, "primero", all[1].Reference)

	outs, err := l.History(ctx, repository.MovementFilter{ProductID: "p1", Direction: entity.MovementOut})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, int64(2), outs[0].Quantity)

	future := time.Now().Add(time.Hour)
	none, err := l.History(ctx, repository.MovementFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistory_FiltrosInvalidos(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.History(ctx, repository.MovementFilter{Direction: "adjust"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = l.History(ctx, repository.MovementFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_OrdenadoPorCantidad(t *testing.T) {
	a := product("a", 5, "1", "2") // igual al reorden: cuenta como bajo
	b := product("b", 1, "1", "2")
	c := product("c", 50, "1", "2")
	l, _ := newLedger(t, a, b, c)

	low, err := l.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "b", low[0].ID)
	assert.Equal(t, "a", low[1].ID)
}

func TestReplenishment_SugiereHastaUnoYMedioReorden(t *testing.T) {
	p := product("p1", 2, "4.00", "10.00")
	p.ReorderLevel = 10
	l, _ := newLedger(t, p)

	list, err := inventory.NewReplenishmentUseCase(l).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(15), list[0].IdealStock)
	assert.Equal(t, int64(13), list[0].SuggestedOrderQty)
	assert.Equal(t, "52.00", list[0].EstimatedOrderCost.StringFixed(2))
	assert.Equal(t, "60.00", list[0].GrossMarginPct.StringFixed(2))
	assert.Equal(t, 1, list[0].Priority)
}
