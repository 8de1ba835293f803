package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/garajesoft/taller-api/internal/application/billing"
	"github.com/garajesoft/taller-api/internal/application/inventory"
	"github.com/garajesoft/taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/garajesoft/taller-api/internal/interfaces/http"
	"github.com/garajesoft/taller-api/pkg/config"
	"github.com/garajesoft/taller-api/pkg/logger"
)

func main() {
	_ = godotenv.Load() // .env opcional en local

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	docRepo := postgres.NewBillingDocumentRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	moveRepo := postgres.NewStockMoveRepository(pool)
	workRepo := postgres.NewWorkRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := inventory.NewStockUseCase(txRunner, itemRepo, moveRepo)
	itemUC := inventory.NewItemUseCase(itemRepo)
	billingUC := billing.NewDocumentUseCase(
		txRunner, stockUC,
		docRepo, storeRepo, customerRepo, settingsRepo,
	)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	workUC := billing.NewWorkUseCase(workRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BillingUC:  billingUC,
		CustomerUC: customerUC,
		WorkUC:     workUC,
		ItemUC:     itemUC,
		StockUC:    stockUC,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
