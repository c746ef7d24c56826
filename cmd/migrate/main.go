// Command migrate aplica las migraciones embebidas sin levantar el servidor HTTP.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/retailpulse-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/retailpulse-inventory/pkg/config"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migraciones")
		return
	}
	log.Info().Msg("migraciones al día")
}
