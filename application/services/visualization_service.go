package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/familiarcat/candid-graph-engine/domain/core/aggregates"
	"github.com/familiarcat/candid-graph-engine/domain/core/entities"
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
	"github.com/familiarcat/candid-graph-engine/infrastructure/cache"
	"github.com/familiarcat/candid-graph-engine/pkg/config"
	pkgerrors "github.com/familiarcat/candid-graph-engine/pkg/errors"
	"github.com/familiarcat/candid-graph-engine/pkg/observability"
)

// VisualizationOptions is the query surface for an enhanced visualization.
type VisualizationOptions struct {
	SortMethod SortMethod

	// MaxDistance bounds the ego traversal. Nil means the configured
	// default; an explicit zero is a valid root-only query.
	MaxDistance *int

	LayoutType LayoutType
	Filters    []valueobjects.NodeType

	Ascending     bool
	SecondarySort SortMethod
	MaxResults    int
}

// VisualizationService runs the full pipeline (build, ego, sort, optimize)
// with two cache layers and in-flight query de-duplication.
// Two concurrent callers asking for the same query share one computation.
type VisualizationService struct {
	cfg config.Config

	builder   *GraphBuilder
	processor *EgoNetworkProcessor
	sorter    *NodeSorter
	optimizer *GraphOptimizer

	fullGraphCache *cache.ResultCache
	egoQueryCache  *cache.ResultCache
	flight         singleflight.Group

	mu          sync.RWMutex
	collections *entities.Collections

	metrics *observability.Collector
	logger  *zap.Logger
}

// NewVisualizationService wires the pipeline. Cache instances are injected
// explicitly; there is no hidden global cache state. A nil metrics
// collector disables instrumentation.
func NewVisualizationService(
	cfg config.Config,
	builder *GraphBuilder,
	processor *EgoNetworkProcessor,
	sorter *NodeSorter,
	optimizer *GraphOptimizer,
	fullGraphCache *cache.ResultCache,
	egoQueryCache *cache.ResultCache,
	metrics *observability.Collector,
	logger *zap.Logger,
) *VisualizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisualizationService{
		cfg:            cfg,
		builder:        builder,
		processor:      processor,
		sorter:         sorter,
		optimizer:      optimizer,
		fullGraphCache: fullGraphCache,
		egoQueryCache:  egoQueryCache,
		metrics:        metrics,
		logger:         logger,
	}
}

// UpdateCollections replaces the source collections. The full graph is
// recomputed on the next query; ego results computed from the previous
// signature are invalidated by tag.
func (s *VisualizationService) UpdateCollections(collections *entities.Collections) {
	s.mu.Lock()
	previous := s.collections
	s.collections = collections
	s.mu.Unlock()

	if previous != nil {
		oldSignature := previous.Signature()
		s.fullGraphCache.Delete(fullGraphKey(oldSignature))
		s.egoQueryCache.InvalidateTag(oldSignature)
	}
	s.logger.Debug("source collections updated",
		zap.String("signature", s.signature()),
	)
}

func (s *VisualizationService) currentCollections() *entities.Collections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections
}

func (s *VisualizationService) signature() string {
	if c := s.currentCollections(); c != nil {
		return c.Signature()
	}
	return "empty"
}

// BuildGraph returns the full graph for the current collections, cached
// by collection-size signature. The signature is deliberately coarse:
// any size change invalidates, in-place edits are served stale until TTL.
func (s *VisualizationService) BuildGraph(ctx context.Context) *aggregates.Graph {
	signature := s.signature()
	key := fullGraphKey(signature)

	if cached, ok := s.fullGraphCache.Get(key); ok {
		if graph, ok := cached.(*aggregates.Graph); ok {
			s.countCache("full_graph", true)
			return graph
		}
	}
	s.countCache("full_graph", false)

	start := time.Now()
	graph := s.builder.Build(ctx, s.currentCollections())
	s.observeStage("build", start)
	if s.metrics != nil {
		s.metrics.GraphsBuilt.Inc()
	}

	s.fullGraphCache.Set(key, graph, s.cfg.Cache.FullGraphTTL, signature)
	return graph
}

// GenerateEnhancedVisualization produces the ego-centered, sorted,
// size-bounded graph for a root node. Results are cached per query key;
// concurrent identical queries share a single computation.
func (s *VisualizationService) GenerateEnhancedVisualization(ctx context.Context, rootID valueobjects.NodeID, opts VisualizationOptions) (*aggregates.Graph, error) {
	if rootID == "" {
		return nil, pkgerrors.NewValidation("root node id is required")
	}
	maxDistance := s.cfg.Ego.MaxDistance
	if opts.MaxDistance != nil {
		maxDistance = *opts.MaxDistance
	}
	if opts.LayoutType == "" {
		opts.LayoutType = LayoutForce
	}
	if opts.SortMethod == "" {
		opts.SortMethod = SortRelationshipStrength
	}

	signature := s.signature()
	key := egoQueryKey(signature, rootID, maxDistance, opts)

	if cached, ok := s.egoQueryCache.Get(key); ok {
		if graph, ok := cached.(*aggregates.Graph); ok {
			s.countCache("ego_query", true)
			s.countQuery("hit")
			return graph, nil
		}
	}
	s.countCache("ego_query", false)

	result, err, shared := s.flight.Do(key, func() (any, error) {
		queryID := uuid.New().String()
		start := time.Now()
		graph, err := s.computeVisualization(ctx, rootID, maxDistance, opts)
		if err != nil {
			s.logger.Error("visualization query failed",
				zap.String("query_id", queryID),
				zap.String("root", rootID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		s.logger.Debug("visualization query computed",
			zap.String("query_id", queryID),
			zap.String("root", rootID.String()),
			zap.Int("nodes", len(graph.Nodes)),
			zap.Int("links", len(graph.Links)),
			zap.Duration("elapsed", time.Since(start)),
		)
		s.egoQueryCache.Set(key, graph, s.cfg.Cache.EgoQueryTTL, signature)
		return graph, nil
	})
	if err != nil {
		s.countQuery("error")
		return nil, err
	}
	if shared {
		s.countQuery("shared")
	} else {
		s.countQuery("miss")
	}
	return result.(*aggregates.Graph), nil
}

// computeVisualization runs the four pipeline stages synchronously on the
// caller's goroutine. There is no cancellation between stages; cost is
// bounded only by the optimizer's post-hoc pruning.
func (s *VisualizationService) computeVisualization(ctx context.Context, rootID valueobjects.NodeID, maxDistance int, opts VisualizationOptions) (*aggregates.Graph, error) {
	full := s.BuildGraph(ctx)

	start := time.Now()
	ego, err := s.processor.Process(ctx, full, rootID, EgoOptions{
		MaxDistance: maxDistance,
		LayoutType:  opts.LayoutType,
		FilterTypes: opts.Filters,
	})
	if err != nil {
		return nil, fmt.Errorf("ego processing failed: %w", err)
	}
	s.observeStage("ego", start)

	// A missing root returns the full graph unprocessed; it is still
	// sorted and bounded so the renderer gets a usable result.
	if ego == full {
		ego = full.Clone()
	}

	start = time.Now()
	sorted, err := s.sorter.Sort(ego.Nodes, ego.Links, rootID, opts.SortMethod, SortOptions{
		Ascending:     opts.Ascending,
		SecondarySort: opts.SecondarySort,
		MaxResults:    opts.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("node sorting failed: %w", err)
	}
	ego.ReplaceNodes(sorted)
	s.observeStage("sort", start)

	start = time.Now()
	nodesPruned, linksPruned, err := s.optimizer.Optimize(ego, DefaultOptimizerLimits(s.cfg.Optimizer))
	if err != nil {
		return nil, fmt.Errorf("graph optimization failed: %w", err)
	}
	s.observeStage("optimize", start)
	if s.metrics != nil && nodesPruned+linksPruned > 0 {
		s.metrics.NodesPruned.Add(float64(nodesPruned))
		s.metrics.LinksPruned.Add(float64(linksPruned))
	}

	ego.RecomputeStats()
	return ego, nil
}

// GetAvailableSortingMethods exposes the type-appropriate strategy subset.
func (s *VisualizationService) GetAvailableSortingMethods(entityType valueobjects.NodeType) []SortMethod {
	return s.sorter.GetAvailableSortingMethods(entityType)
}

// GetSortingMethodLabel exposes the display label for a method.
func (s *VisualizationService) GetSortingMethodLabel(method SortMethod) string {
	return s.sorter.GetSortingMethodLabel(method)
}

func (s *VisualizationService) observeStage(stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, start)
	}
}

func (s *VisualizationService) countCache(instance string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHits.WithLabelValues(instance).Inc()
	} else {
		s.metrics.CacheMisses.WithLabelValues(instance).Inc()
	}
}

func (s *VisualizationService) countQuery(outcome string) {
	if s.metrics != nil {
		s.metrics.QueriesServed.WithLabelValues(outcome).Inc()
	}
}

func fullGraphKey(signature string) string {
	return "full:" + signature
}

func egoQueryKey(signature string, rootID valueobjects.NodeID, maxDistance int, opts VisualizationOptions) string {
	filters := make([]string, 0, len(opts.Filters))
	for _, f := range opts.Filters {
		filters = append(filters, f.String())
	}
	return fmt.Sprintf("ego:%s|%s|%s|%d|%s|%s|%v|%s|%d",
		signature, rootID, opts.SortMethod, maxDistance, opts.LayoutType,
		strings.Join(filters, ","), opts.Ascending, opts.SecondarySort, opts.MaxResults)
}
