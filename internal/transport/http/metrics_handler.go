package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"surveypulse/internal/services"
)

// MetricsHandler exposes the application registry in Prometheus format
func MetricsHandler(metrics *services.Metrics) http.Handler {
	return promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
}
