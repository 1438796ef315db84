// Package observability exposes Prometheus metrics for the engine: builds,
// queries, stage timings and cache effectiveness.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the engine's Prometheus metrics on a private registry so
// multiple engine instances (and tests) never collide on registration.
type Collector struct {
	registry *prometheus.Registry

	GraphsBuilt   prometheus.Counter
	QueriesServed *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	NodesPruned prometheus.Counter
	LinksPruned prometheus.Counter
}

// NewCollector creates a collector with the given metric namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	graphsBuilt := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphs_built_total",
		Help:      "Total number of full graphs constructed from source collections",
	})

	queriesServed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ego_queries_total",
		Help:      "Total ego-network queries served, by cache outcome",
	}, []string{"outcome"})

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Cache hits, by cache instance",
	}, []string{"cache"})

	cacheMisses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Cache misses, by cache instance",
	}, []string{"cache"})

	nodesPruned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nodes_pruned_total",
		Help:      "Nodes removed by the graph optimizer",
	})

	linksPruned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_pruned_total",
		Help:      "Links removed by the graph optimizer",
	})

	registry.MustRegister(graphsBuilt, queriesServed, stageDuration,
		cacheHits, cacheMisses, nodesPruned, linksPruned)

	return &Collector{
		registry:      registry,
		GraphsBuilt:   graphsBuilt,
		QueriesServed: queriesServed,
		StageDuration: stageDuration,
		CacheHits:     cacheHits,
		CacheMisses:   cacheMisses,
		NodesPruned:   nodesPruned,
		LinksPruned:   linksPruned,
	}
}

// Registry returns the private registry for exposition by the host
// application; the engine itself serves no HTTP.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveStage records the duration of a pipeline stage.
func (c *Collector) ObserveStage(stage string, start time.Time) {
	c.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
