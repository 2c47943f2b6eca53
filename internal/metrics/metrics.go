package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cipherbox_resolve_total",
		Help: "Metadata resolution attempts by outcome.",
	}, []string{"status"})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cipherbox_resolve_duration_seconds",
		Help:    "Time from reconciliation start to persisted result.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
	})

	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cipherbox_proxy_requests_total",
		Help: "Upstream proxy resolver calls by resolver and outcome.",
	}, []string{"resolver", "status"})

	MediaItemsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cipherbox_media_items_total",
		Help: "Total number of media items in the catalog.",
	})
)
