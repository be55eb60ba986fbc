package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware registers the Prometheus middleware and exposes /metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

// RegisterMetricsRoute exposes the Prometheus scrape endpoint on the app.
func RegisterMetricsRoute(prom *fiberprometheus.FiberPrometheus, app *fiber.App) {
	prom.RegisterAt(app, "/metrics")
}
