package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sneakerculture/pkg/logger"
)

// ClaimCounter reports how many order claims are currently held
type ClaimCounter interface {
	ActiveClaims(ctx context.Context) (int, error)
}

// CustomCollector collects metrics that are read on scrape rather than recorded
type CustomCollector struct {
	log    *logger.Logger
	claims ClaimCounter

	activeClaims *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector
func NewCustomCollector(log *logger.Logger, claims ClaimCounter) *CustomCollector {
	return &CustomCollector{
		log:    log,
		claims: claims,

		activeClaims: prometheus.NewDesc(
			"sneakerculture_order_claims_active",
			"Number of order numbers currently guarded against duplicate delivery",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeClaims
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := c.claims.ActiveClaims(ctx)
	if err != nil {
		c.log.Warnw("Failed to collect active order claims", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.activeClaims, prometheus.GaugeValue, float64(count))
}
