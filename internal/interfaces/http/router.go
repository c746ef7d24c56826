package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements    movementApplier
	Sales        salesDeducter
	Inventory    inventoryReader
	Transactions transactionStore
	JWTSecret    string
	// RateLimit se aplica a las rutas de mutación; nil desactiva el límite.
	RateLimit fiber.Handler
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	limit := deps.RateLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Inventory (lecturas + descuento por ventas)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory, deps.Sales)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Post("/salesUpdate", limit, inventoryHandler.SalesUpdate)
	invGroup.Get("/productId/:productId/businessEntityId/:businessEntityId", inventoryHandler.GetByProductAndBusinessEntity)
	invGroup.Get("/productId/:id", inventoryHandler.ListByProduct)
	invGroup.Get("/businessEntityId/:businessEntityId", inventoryHandler.ListByBusinessEntity)
	invGroup.Get("/:id", inventoryHandler.GetByID)

	// Inventory transactions (movimientos)
	txGroup := protected.Group("/inventoryTransaction")
	transactionHandler := NewTransactionHandler(deps.Movements, deps.Transactions)
	txGroup.Post("/", limit, transactionHandler.Create)
	txGroup.Get("/", transactionHandler.List)
	txGroup.Get("/withProduct", transactionHandler.ListWithProduct)
	txGroup.Get("/:id", transactionHandler.GetByID)
	txGroup.Put("/:id", RequireRole(RoleAdmin), limit, transactionHandler.Update)
}
