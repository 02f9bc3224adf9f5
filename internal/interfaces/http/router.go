package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Ledger        *inventory.Ledger
	Replenishment *inventory.ReplenishmentUseCase
	Lifecycle     *orders.Lifecycle
	OrderPDF      *orders.PDFUseCase
	Exporter      MovementExporter
	Idempotency   IdempotencyStore // nil = sin idempotencia
	JWTSecret     string
	Location      *time.Location
	Logger        *logger.Logger
	AppName       string
	// HealthCheck verifica dependencias externas (DB, Redis); nil = siempre ok.
	HealthCheck func(ctx context.Context) error
}

// NewApp crea la aplicación Fiber con el manejador de errores, recover y log de peticiones.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	// Products: solo lectura del estado de stock
	productHandler := NewProductHandler(deps.Ledger, deps.Replenishment)
	products := protected.Group("/products")
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/replenishment", productHandler.Replenishment)
	products.Get("/:id", productHandler.GetByID)

	// Libro de stock
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Exporter, deps.Location)
	inv := protected.Group("/inventory")
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/movements/export", inventoryHandler.ExportMovements)

	// Pedidos
	orderHandler := NewOrderHandler(deps.Lifecycle, deps.OrderPDF, deps.Location)
	ord := protected.Group("/orders")
	ord.Post("/", Idempotency(deps.Idempotency, log), orderHandler.Create)
	ord.Get("/", orderHandler.List)
	ord.Get("/:id", orderHandler.GetByID)
	ord.Get("/:id/pdf", orderHandler.DownloadPDF)
	ord.Post("/:id/confirm", orderHandler.Confirm)
	ord.Post("/:id/cancel", RequireRole(RoleAdmin), orderHandler.Cancel)
	ord.Post("/:id/status", orderHandler.Advance)
}
