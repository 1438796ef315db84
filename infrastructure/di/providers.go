// Package di wires the engine's components into a ready-to-use container.
// Caches are explicit instances created here and injected into the
// pipeline; nothing in the engine reaches for global state.
package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/familiarcat/candid-graph-engine/application/services"
	"github.com/familiarcat/candid-graph-engine/infrastructure/cache"
	"github.com/familiarcat/candid-graph-engine/pkg/config"
	"github.com/familiarcat/candid-graph-engine/pkg/observability"
)

// Container holds the assembled engine.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *observability.Collector
	Caches  Caches
	Service *services.VisualizationService
}

// Caches bundles the two cache instances at their different granularities.
type Caches struct {
	FullGraph *cache.ResultCache
	EgoQuery  *cache.ResultCache
}

// Stop terminates the cache sweep goroutines.
func (c Caches) Stop() {
	c.FullGraph.Stop()
	c.EgoQuery.Stop()
}

// SuperSet is the main provider set.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideCaches,
	ProvideGraphBuilder,
	ProvideEgoNetworkProcessor,
	ProvideNodeSorter,
	ProvideGraphOptimizer,
	ProvideVisualizationService,
	wire.Struct(new(Container), "*"),
)

// ProvideLogger builds the zap logger from configuration.
func ProvideLogger(cfg config.Config) (*zap.Logger, error) {
	return observability.NewLogger(string(cfg.Environment), cfg.LogLevel)
}

// ProvideCollector creates the Prometheus metrics collector.
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("graph_engine")
}

// ProvideCaches creates the full-graph and ego-query caches and starts
// their periodic sweeps.
func ProvideCaches(cfg config.Config, logger *zap.Logger) Caches {
	fullGraph := cache.NewResultCache(cfg.Cache.FullGraphMaxItems, logger.Named("full_graph_cache"))
	egoQuery := cache.NewResultCache(cfg.Cache.EgoQueryMaxItems, logger.Named("ego_query_cache"))
	if cfg.Cache.SweepInterval > 0 {
		fullGraph.StartSweep(cfg.Cache.SweepInterval)
		egoQuery.StartSweep(cfg.Cache.SweepInterval)
	}
	return Caches{FullGraph: fullGraph, EgoQuery: egoQuery}
}

// ProvideGraphBuilder creates the graph builder.
func ProvideGraphBuilder(cfg config.Config, logger *zap.Logger) *services.GraphBuilder {
	return services.NewGraphBuilder(cfg.Builder, logger)
}

// ProvideEgoNetworkProcessor creates the ego-network processor.
func ProvideEgoNetworkProcessor(cfg config.Config, logger *zap.Logger) *services.EgoNetworkProcessor {
	return services.NewEgoNetworkProcessor(cfg.Ego, logger)
}

// ProvideNodeSorter creates the node sorter.
func ProvideNodeSorter(logger *zap.Logger) *services.NodeSorter {
	return services.NewNodeSorter(logger)
}

// ProvideGraphOptimizer creates the graph optimizer.
func ProvideGraphOptimizer(logger *zap.Logger) *services.GraphOptimizer {
	return services.NewGraphOptimizer(logger)
}

// ProvideVisualizationService assembles the pipeline facade.
func ProvideVisualizationService(
	cfg config.Config,
	builder *services.GraphBuilder,
	processor *services.EgoNetworkProcessor,
	sorter *services.NodeSorter,
	optimizer *services.GraphOptimizer,
	caches Caches,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.VisualizationService {
	return services.NewVisualizationService(
		cfg, builder, processor, sorter, optimizer,
		caches.FullGraph, caches.EgoQuery, metrics, logger,
	)
}
