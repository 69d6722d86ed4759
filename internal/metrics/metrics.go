// Package metrics provides Prometheus metrics for the Antique Tracker
// backend. Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antique_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "antique_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AI Identification Metrics
	IdentifyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antique_identify_requests_total",
			Help: "Total number of AI identification requests",
		},
		[]string{"result"}, // "success", "failed", "cached"
	)

	IdentifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "antique_identify_duration_seconds",
			Help:    "Time taken to identify an item from a photo",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 90},
		},
	)

	// eBay API Metrics
	EbayRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "antique_ebay_requests_total",
			Help: "Total number of eBay Finding API requests made",
		},
	)

	EbayErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "antique_ebay_errors_total",
			Help: "Total number of failed eBay Finding API requests",
		},
	)

	// Inventory Metrics (refreshed by the snapshot worker)
	InventoryItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "antique_inventory_items_total",
			Help: "Total number of tracked items",
		},
	)

	InventoryUnsoldItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "antique_inventory_unsold_items",
			Help: "Number of items currently unsold",
		},
	)

	InventoryValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "antique_inventory_value_usd",
			Help: "Capital tied up in unsold inventory (sum of purchase prices)",
		},
	)

	RealizedProfitUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "antique_realized_profit_usd",
			Help: "All-time realized profit across sold items",
		},
	)
)
