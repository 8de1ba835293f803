package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/garajesoft/taller-api/internal/application/billing"
	"github.com/garajesoft/taller-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BillingUC  *billing.DocumentUseCase
	CustomerUC *billing.CustomerUseCase
	WorkUC     *billing.WorkUseCase
	ItemUC     *inventory.ItemUseCase
	StockUC    *inventory.StockUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Billing (protegido): ciclo de vida de presupuestos y facturas
	billingGroup := protected.Group("/billing")
	billingHandler := NewBillingHandler(deps.BillingUC)
	billingGroup.Post("/", billingHandler.Create)
	billingGroup.Get("/", billingHandler.List)
	billingGroup.Get("/:id", billingHandler.GetByID)
	billingGroup.Put("/:id", billingHandler.Update)
	billingGroup.Post("/:id/issue", billingHandler.Issue)
	billingGroup.Post("/:id/void", billingHandler.Void)
	billingGroup.Post("/:id/convert", billingHandler.Convert)
	billingGroup.Delete("/:id", billingHandler.Delete)

	// Items (protegido)
	items := protected.Group("/items")
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.StockUC)
	items.Post("/", inventoryHandler.CreateItem)
	items.Get("/", inventoryHandler.ListItems)
	items.Get("/:id", inventoryHandler.GetItem)
	items.Put("/:id", inventoryHandler.UpdateItem)
	items.Delete("/:id", inventoryHandler.DeleteItem)

	// Stock moves (protegido): libro de movimientos y consultas de auditoría
	stock := protected.Group("/stock")
	stock.Post("/moves", inventoryHandler.RegisterMove)
	stock.Get("/moves", inventoryHandler.ListMoves)
	stock.Get("/consumption/:billingId", inventoryHandler.DocumentConsumption)

	// Works (protegido, solo lectura)
	works := protected.Group("/works")
	workHandler := NewWorkHandler(deps.WorkUC)
	works.Get("/", workHandler.List)
	works.Get("/:id", workHandler.GetByID)
	works.Get("/:id/materials", workHandler.Materials)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
}
