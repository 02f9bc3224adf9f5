// seed aplica las migraciones y carga el usuario administrador más datos de muestra
// (un cliente y tres productos con su existencia inicial registrada en el libro de stock).
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed [--admin-only]
// Se puede correr varias veces; lo que ya existe no se toca.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/seed"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		fmt.Fprintln(os.Stderr, "seed solo aplica con DB_DRIVER=postgres")
		os.Exit(1)
	}
	if cfg.Seed.AdminPassword == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD es requerido")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Named("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	tx := postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log.Named("tx"))
	ledger := inventory.NewLedger(tx, log.Named("ledger"))
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	data := seed.Default(cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if len(os.Args) > 1 && os.Args[1] == "--admin-only" {
		data.ClientName = ""
		data.Products = nil
	}
	if err := seed.Run(ctx, tx, ledger, authUC, data, log.Named("seed")); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	fmt.Printf("Seed completo: admin %q, %d productos de muestra\n", data.AdminUsername, len(data.Products))
}
