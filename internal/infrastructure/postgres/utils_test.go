package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
)

func TestWrapErr_ConflictosSonReintentables(t *testing.T) {
	for _, code := range []string{"23505", "40001", "40P01"} {
		err := wrapErr("update inventory", fmt.Errorf("exec: %w", &pgconn.PgError{Code: code}))
		assert.Equal(t, domain.KindConcurrencyConflict, domain.KindOf(err), "código %s", code)
	}
}

func TestWrapErr_OtrosErroresSeEnvuelven(t *testing.T) {
	base := &pgconn.PgError{Code: "23514"} // check_violation
	err := wrapErr("update inventory", base)

	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
	assert.True(t, errors.Is(err, base))
	assert.Contains(t, err.Error(), "update inventory")
}

func TestIsConflict_SoloErroresDePostgres(t *testing.T) {
	assert.True(t, isConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isConflict(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isConflict(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
}

func TestWrapErr_TextoConCodigoNoEsConflicto(t *testing.T) {
	err := wrapErr("get product", errors.New("producto SKU-23505 no disponible"))

	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
}
