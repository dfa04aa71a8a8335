package handlers

import (
	"net/http"

	"ledger-core/internal/pkg/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GetMetrics returns the collected request metrics as JSON.
func GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, telemetry.List())
}

// PrometheusMetrics exposes metrics in Prometheus exposition format. The
// runtime gauges are also kept fresh between scrapes by
// telemetry.StartRuntimeCollector; refreshing here too means a scrape
// right after a GC pause never reads stale numbers.
func PrometheusMetrics(c *gin.Context) {
	telemetry.UpdateSystemMetrics()
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
