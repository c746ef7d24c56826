package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/retailpulse-inventory/docs"
	"github.com/jhoicas/retailpulse-inventory/internal/application/dto"
	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/infrastructure/businessentity"
	"github.com/jhoicas/retailpulse-inventory/internal/infrastructure/cache"
	"github.com/jhoicas/retailpulse-inventory/internal/infrastructure/messaging"
	"github.com/jhoicas/retailpulse-inventory/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retailpulse-inventory/internal/interfaces/http"
	"github.com/jhoicas/retailpulse-inventory/pkg/config"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
	"github.com/jhoicas/retailpulse-inventory/pkg/tracing"
)

// @title                       RetailPulse Inventory API
// @version                     1.0
// @description                 Motor de movimientos de stock de RetailPulse.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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
		Msg("iniciando aplicación")

	ctx := context.Background()

	tracer, shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: "1.0",
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar tracing")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	}

	// Caché de vistas: sin REDIS_ADDR las lecturas van siempre a la BD.
	var viewCache inventory.TransactionCache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		viewCache = cache.NewRedisCache(rdb, cfg.Redis.TTL)
	}

	// Eventos post-commit: sin KAFKA_BROKERS no se publica nada.
	var events inventory.EventPublisher = messaging.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka), cfg.Kafka.PublishTimeout)
		defer publisher.Close()
		events = publisher
	}

	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewInventoryRepository(pool)
	txRepo := postgres.NewInventoryTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	entities := businessentity.NewClient(cfg.BusinessEntity, log)

	movementApplier := inventory.NewMovementApplier(
		inventory.NewValidationGate(productRepo),
		txRunner, entities, viewCache, events, tracer, log,
		cfg.Movement.MaxAttempts,
	)
	salesEngine := inventory.NewBulkDeductionEngine(txRunner, viewCache, tracer, log, cfg.Movement.MaxAttempts)
	queryUC := inventory.NewInventoryQueryUseCase(ledgerRepo, entities, viewCache, log)
	transactionUC := inventory.NewTransactionUseCase(txRepo, viewCache, log)

	rateLimit, err := httpRouter.RateLimit(cfg.RateLimit.Rate, log)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.RateLimit.Rate).Msg("RATE_LIMIT inválido")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "RetailPulse Inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements:    movementApplier,
		Sales:        salesEngine,
		Inventory:    queryUC,
		Transactions: transactionUC,
		JWTSecret:    cfg.JWT.Secret,
		RateLimit:    rateLimit,
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
		log.Error().Err(err).Msg("apagado del tracer")
	}

	log.Info().Msg("aplicación detenida")
}
