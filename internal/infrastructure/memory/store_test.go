package memory_test

import (
	"context"
	"errors"
	"testing"

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

func TestRun_ErrorDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "p1", Name: "Sal", Quantity: 5})
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(s *inventory.Scope) error {
		require.NoError(t, s.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Temporal"}))
		require.NoError(t, s.Products.Create(ctx, &entity.Product{ID: "p2", Name: "Azúcar"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.Run(ctx, func(s *inventory.Scope) error {
		c, err := s.Clients.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Nil(t, c, "el cliente de la transacción fallida no debe existir")
		p, err := s.Products.GetByID(ctx, "p2")
		require.NoError(t, err)
		assert.Nil(t, p)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := store.Run(ctx, func(*inventory.Scope) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestOrders_NumeroDuplicadoYUltimoConsecutivo(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := store.Run(ctx, func(s *inventory.Scope) error {
		require.NoError(t, s.Orders.Create(ctx, &entity.ClientOrder{ID: "o1", OrderNumber: "ORD-202406-0007"}))
		require.NoError(t, s.Orders.Create(ctx, &entity.ClientOrder{ID: "o2", OrderNumber: "ORD-202406-10000"}))
		require.NoError(t, s.Orders.Create(ctx, &entity.ClientOrder{ID: "o3", OrderNumber: "ORD-202405-0099"}))
		assert.ErrorIs(t, s.Orders.Create(ctx, &entity.ClientOrder{ID: "o4", OrderNumber: "ORD-202406-0007"}), domain.ErrDuplicateOrderNumber)

		last, err := s.Orders.LastSequence(ctx, "ORD-202406-")
		require.NoError(t, err)
		assert.Equal(t, 10000, last, "comparación numérica, no lexicográfica")
		return nil
	})
	require.NoError(t, err)
}

func TestMovements_PaginacionMasRecientePrimero(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "p1", Name: "Sal"})
	ledger := inventory.NewLedger(store, logger.Nop())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := ledger.RecordIn(ctx, inventory.InInput{ProductID: "p1", Quantity: int64(i), UnitCost: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	var list []*entity.StockMovement
	err := store.Run(ctx, func(s *inventory.Scope) error {
		var err error
		list, err = s.Movements.List(ctx, repository.MovementFilter{ProductID: "p1", Limit: 2, Offset: 1})
		return err
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(4), list[0].Quantity)
	assert.Equal(t, int64(3), list[1].Quantity)

	err = store.Run(ctx, func(s *inventory.Scope) error {
		var err error
		list, err = s.Movements.List(ctx, repository.MovementFilter{Limit: 10, Offset: 50})
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProducts_CreateNaceSinExistencias(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewLedger(store, logger.Nop())
	ctx := context.Background()

	err := store.Run(ctx, func(s *inventory.Scope) error {
		return s.Products.Create(ctx, &entity.Product{
			ID:        "p9",
			Name:      "Harina",
			Quantity:  500,
			CostPrice: decimal.RequireFromString("9.99"),
		})
	})
	require.NoError(t, err)

	p, err := ledger.Product(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Quantity, "la cantidad solo la escribe el libro")
	assert.True(t, p.CostPrice.IsZero())

	movs, err := ledger.History(ctx, repository.MovementFilter{ProductID: "p9"})
	require.NoError(t, err)
	assert.Empty(t, movs)

	// la existencia inicial entra por una entrada del libro
	_, err = ledger.RecordIn(ctx, inventory.InInput{ProductID: "p9", Quantity: 500, UnitCost: decimal.RequireFromString("9.99")})
	require.NoError(t, err)
	p, err = ledger.Product(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, int64(500), p.Quantity)
	assert.Equal(t, "9.99", p.CostPrice.StringFixed(2))
}
