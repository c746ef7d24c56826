package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/retailpulse-inventory/internal/interfaces/http"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

func TestRateLimit_Bloquea429(t *testing.T) {
	limit, err := apphttp.RateLimit("2-M", logger.Nop())
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/mutacion", limit, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/mutacion", nil), -1)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if i == 0 {
			assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		}
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, statuses)
}

func TestRateLimit_FormatoInvalido(t *testing.T) {
	_, err := apphttp.RateLimit("cien-por-minuto", logger.Nop())
	assert.Error(t, err)
}
