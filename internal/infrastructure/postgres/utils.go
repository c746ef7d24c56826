package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isConflict errores que se resuelven reintentando la transacción completa.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// wrapErr etiqueta los conflictos como ConcurrencyConflict y envuelve el resto con op.
func wrapErr(op string, err error) error {
	if isConflict(err) {
		return domain.ConcurrencyConflict(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullTime convierte el tiempo cero en NULL para que la BD asigne now().
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func errNoRowsUpdated(table string, id any) error {
	return fmt.Errorf("update %s: no existe el registro %v", table, id)
}
