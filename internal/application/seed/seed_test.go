package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/seed"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

func TestRun_CargaDatosYEsRepetible(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := inventory.NewLedger(store, logger.Nop())
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: "s", ExpMinutes: 5, Issuer: "t"})
	data := seed.Default("admin", "clave-admin-1")

	require.NoError(t, seed.Run(ctx, store, ledger, authUC, data, logger.Nop()))
	require.NoError(t, seed.Run(ctx, store, ledger, authUC, data, logger.Nop()), "segunda corrida sin errores")

	out, err := authUC.Login(ctx, dto.LoginRequest{Username: "admin", Password: "clave-admin-1"})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.User.Role)

	for _, ps := range data.Products {
		p, err := ledger.Product(ctx, seed.ProductID(ps.SKU))
		require.NoError(t, err)
		assert.Equal(t, ps.OpeningQty, p.Quantity, ps.SKU)
		assert.Equal(t, ps.OpeningCost, p.CostPrice.StringFixed(2))

		movs, err := ledger.History(ctx, repository.MovementFilter{ProductID: p.ID})
		require.NoError(t, err)
		assert.Len(t, movs, 1, "la existencia inicial se registra una sola vez")
	}

	// el producto bajo el reorden aparece en la lista de bajo stock
	low, err := ledger.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "ACT-1L", low[0].SKU)
}

func TestIDsDeterministicos(t *testing.T) {
	assert.Equal(t, seed.ProductID("ARZ-500"), seed.ProductID("ARZ-500"))
	assert.NotEqual(t, seed.ProductID("ARZ-500"), seed.ProductID("FRJ-500"))
	assert.NotEqual(t, seed.ProductID("x"), seed.ClientID("x"))
}
