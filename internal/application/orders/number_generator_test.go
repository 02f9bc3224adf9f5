package orders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
)

func TestNumberGenerator_ConsecutivoMensual(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "ORD-202406-0001", f.create(t, item("p1", 1)).Order.OrderNumber)
	assert.Equal(t, "ORD-202406-0002", f.create(t, item("p1", 1)).Order.OrderNumber)

	f.clock.Set(time.Date(2024, 7, 1, 0, 0, 1, 0, time.UTC))
	assert.Equal(t, "ORD-202407-0001", f.create(t, item("p1", 1)).Order.OrderNumber, "reinicia con el mes")
}

func TestNumberGenerator_ZonaHorariaDefineElMes(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 2024-07-01 03:00 UTC sigue siendo 30 de junio en Bogotá
	at := time.Date(2024, 7, 1, 3, 0, 0, 0, time.UTC)
	gen := orders.NewNumberGenerator("ORD", bogota).WithClock(func() time.Time { return at })

	store := memory.NewStore()
	var number string
	err = store.Run(context.Background(), func(s *inventory.Scope) error {
		var err error
		number, err = gen.Next(context.Background(), s)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-202406-0001", number)
}

func TestNumberGenerator_UnicosBajoConcurrencia(t *testing.T) {
	f := newFixture(t)

	const n = 30
	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := f.lifecycle.Create(context.Background(), orders.CreateInput{ClientID: "c1", Items: []orders.ItemInput{item("p1", 1)}})
			errs[i] = err
			if err == nil {
				numbers[i] = d.Order.OrderNumber
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "número repetido %s", numbers[i])
		seen[numbers[i]] = true
	}
	assert.True(t, seen["ORD-202406-0001"])
	assert.True(t, seen["ORD-202406-0030"])
}
