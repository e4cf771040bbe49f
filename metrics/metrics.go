// Package metrics exposes Prometheus metrics for the pairs-analytics service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairs_ticks_ingested_total",
		Help: "Normalized ticks appended to the hot buffer.",
	}, []string{"symbol"})

	BufferSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pairs_tick_buffer_size",
		Help: "Current number of ticks in the per-symbol buffer.",
	}, []string{"symbol"})

	WSReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairs_ws_reconnects_total",
		Help: "Websocket stream reconnect attempts.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairs_cache_hits_total",
		Help: "Analytics responses served from the result cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairs_cache_misses_total",
		Help: "Analytics requests that recomputed the cold path.",
	})

	AlertsFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairs_zscore_alerts_total",
		Help: "Z-score alerts that breached the threshold.",
	})

	LatestZScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pairs_latest_zscore",
		Help: "Latest computed z-score per pair.",
	}, []string{"pair"})

	SignalQualityScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pairs_signal_quality_score",
		Help: "Signal quality check score (0-4) per pair.",
	}, []string{"pair"})

	ArchivedTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairs_archived_ticks_total",
		Help: "Ticks flushed to the durable store.",
	})
)

// StartMetricsServer serves /metrics on addr in the background.
func StartMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
