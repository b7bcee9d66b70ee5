package documents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// externalCacheLookups counts GetOrCreate calls by outcome ("hit" or "miss")
	externalCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsp_navigator_external_cache_lookups_total",
		Help: "External document cache lookups by result",
	}, []string{"result"})

	// externalTextLoads counts text loads of external documents ("ok" or "error")
	externalTextLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsp_navigator_external_text_loads_total",
		Help: "External document text loads by result",
	}, []string{"result"})

	externalCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lsp_navigator_external_cache_entries",
		Help: "External documents currently cached",
	})
)
