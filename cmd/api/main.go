// @title           Inventario y Pedidos API
// @version         1.0
// @description     Libro de stock con costo promedio ponderado y ciclo de vida de pedidos de cliente.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/inventario-pedidos/docs"
	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/application/seed"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/inventario-pedidos/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/inventario-pedidos/internal/interfaces/http"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.App, cfg.Otel)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	// Persistencia: PostgreSQL o memoria (desarrollo)
	var (
		txRunner inventory.TxRunner
		userRepo repository.UserRepository
		checks   []func(context.Context) error
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		txRunner = store
		userRepo = store.Users()
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Named("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log.Named("tx"))
		userRepo = postgres.NewUserRepository(pool)
		checks = append(checks, pool.Ping)
	}

	// Idempotencia de creación de pedidos (opcional)
	var idem httpRouter.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idem = cache.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		log.Info().Msg("REDIS_ADDRESS vacío: Idempotency-Key deshabilitado")
	}

	ledger := inventory.NewLedger(txRunner, log.Named("ledger"))
	replenishmentUC := inventory.NewReplenishmentUseCase(ledger)
	numbers := orders.NewNumberGenerator(cfg.Orders.NumberPrefix, loc)
	lifecycle := orders.NewLifecycle(txRunner, ledger, numbers, log.Named("orders")).
		WithNumberRetries(cfg.Orders.NumberMaxRetries)
	orderPDFUC := orders.NewPDFUseCase(txRunner, infrapdf.NewOrderSheetGenerator(cfg.App.Name))
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.DB.Driver == config.DriverMemory {
		if cfg.Seed.AdminPassword == "" {
			log.Warn().Msg("SEED_ADMIN_PASSWORD vacío: no habrá usuario para iniciar sesión")
		}
		data := seed.Default(cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
		if err := seed.Run(ctx, txRunner, ledger, authUC, data, log.Named("seed")); err != nil {
			log.Fatal().Err(err).Msg("datos de muestra")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, log.Named("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario y Pedidos API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Ledger:        ledger,
		Replenishment: replenishmentUC,
		Lifecycle:     lifecycle,
		OrderPDF:      orderPDFUC,
		Exporter:      xlsx.NewMovementExporter(loc),
		Idempotency:   idem,
		JWTSecret:     cfg.JWT.Secret,
		Location:      loc,
		Logger:        log.Named("http"),
		AppName:       cfg.App.Name,
		HealthCheck: func(ctx context.Context) error {
			for _, check := range checks {
				if err := check(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
