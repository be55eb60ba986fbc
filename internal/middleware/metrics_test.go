package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetricsRoute(t *testing.T) {
	prom := InitMetrics("communityapi-test")
	app := fiber.New()
	app.Use(MetricsMiddleware(prom))
	RegisterMetricsRoute(prom, app)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
