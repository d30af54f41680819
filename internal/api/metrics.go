// File path: internal/api/metrics.go
package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// conversionsTotal counts finished conversions by target and outcome.
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowlang_conversions_total",
		Help: "Total conversions by target and outcome",
	}, []string{"target", "outcome"})

	// conversionDuration tracks end-to-end conversion latency.
	conversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flowlang_conversion_duration_seconds",
		Help:    "Conversion duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"target"})
)

func observeConversion(target string, success bool, elapsed time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	conversionsTotal.WithLabelValues(target, outcome).Inc()
	conversionDuration.WithLabelValues(target).Observe(elapsed.Seconds())
}
