package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable tabla de control de golang-migrate.
const migrationsTable = "schema_migrations"

// migrationSource abre las migraciones NNN_descripcion.{up,down}.sql de fsys/migrations.
func migrationSource(fsys fs.FS) (source.Driver, error) {
	src, err := iofs.New(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("abrir migraciones: %w", err)
	}
	return src, nil
}

// Migrate aplica las migraciones embebidas pendientes. Sin cambios pendientes no es error.
// golang-migrate serializa migradores concurrentes con un advisory lock.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	src, err := migrationSource(migrationsFS)
	if err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: migrationsTable})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("driver de migraciones: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("inicializar migraciones: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("cerrar migrador")
		}
	}()
	m.Log = migrateLogger{log: log}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("leer versión de migraciones: %w", err)
	}
	if dirty {
		return fmt.Errorf("migración %d quedó a medias; corregir y forzar la versión", version)
	}
	log.Info().Uint("version", version).Msg("esquema al día")
	return nil
}

// migrateLogger adapta logger.Logger a migrate.Logger.
type migrateLogger struct{ log *logger.Logger }

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Debug().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool { return false }
