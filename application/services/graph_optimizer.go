package services

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/familiarcat/candid-graph-engine/domain/core/aggregates"
	"github.com/familiarcat/candid-graph-engine/pkg/config"
	pkgerrors "github.com/familiarcat/candid-graph-engine/pkg/errors"
)

// OptimizerLimits are the pruning ceilings for a single optimization run.
type OptimizerLimits struct {
	MaxNodes int `validate:"gt=0"`
	MaxLinks int `validate:"gt=0"`
}

// DefaultOptimizerLimits returns the configured ceilings.
func DefaultOptimizerLimits(cfg config.OptimizerConfig) OptimizerLimits {
	return OptimizerLimits{MaxNodes: cfg.MaxNodes, MaxLinks: cfg.MaxLinks}
}

// GraphOptimizer prunes oversized graphs to bounded node/link counts,
// keeping the most important nodes by a degree-weighted heuristic. This is
// deliberately not true graph centrality; it is a cheap proxy that keeps
// rendering responsive.
type GraphOptimizer struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGraphOptimizer creates a graph optimizer.
func NewGraphOptimizer(logger *zap.Logger) *GraphOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphOptimizer{validate: validator.New(), logger: logger}
}

// Optimize prunes the graph in place when it exceeds the limits, keeping
// the top nodes by importance and then the strongest surviving links.
// Already-bounded graphs pass through untouched, which also makes the
// operation idempotent. Pruned counts are returned for metrics.
func (o *GraphOptimizer) Optimize(graph *aggregates.Graph, limits OptimizerLimits) (nodesPruned, linksPruned int, err error) {
	if err := o.validate.Struct(limits); err != nil {
		return 0, 0, pkgerrors.NewValidationWrap("invalid optimizer limits", err)
	}
	if graph == nil {
		return 0, 0, pkgerrors.NewValidation("graph is required")
	}
	if len(graph.Nodes) <= limits.MaxNodes && len(graph.Links) <= limits.MaxLinks {
		return 0, 0, nil
	}

	original := &aggregates.SizeCounts{
		NodeCount: len(graph.Nodes),
		LinkCount: len(graph.Links),
	}

	if len(graph.Nodes) > limits.MaxNodes {
		nodesPruned = o.pruneNodes(graph, limits.MaxNodes)
	}

	// Links must be re-filtered to surviving endpoints before capping so
	// the strength ranking never resurrects a dangling link.
	graph.RemoveDanglingLinks()
	if len(graph.Links) > limits.MaxLinks {
		o.pruneLinks(graph, limits.MaxLinks)
	}
	linksPruned = original.LinkCount - len(graph.Links)

	graph.Optimized = true
	if graph.OriginalStats == nil {
		graph.OriginalStats = original
	}
	graph.RecomputeStats()

	o.logger.Debug("optimized oversized graph",
		zap.Int("nodes_before", original.NodeCount),
		zap.Int("nodes_after", len(graph.Nodes)),
		zap.Int("links_before", original.LinkCount),
		zap.Int("links_after", len(graph.Links)),
	)
	return nodesPruned, linksPruned, nil
}

// Importance scores a node as declared size plus twice its authoritative
// degree. Synthetic densification links never influence the score.
func (o *GraphOptimizer) Importance(graph *aggregates.Graph, node *aggregates.Node) float64 {
	return node.Size + 2*float64(graph.Degree(node.ID, true))
}

// pruneNodes keeps the top-maxNodes nodes by importance while preserving
// the node list's existing order, so a previously sorted graph stays
// sorted after pruning.
func (o *GraphOptimizer) pruneNodes(graph *aggregates.Graph, maxNodes int) int {
	type scored struct {
		node  *aggregates.Node
		score float64
	}
	ranked := make([]scored, 0, len(graph.Nodes))
	for _, node := range graph.Nodes {
		ranked = append(ranked, scored{node: node, score: o.Importance(graph, node)})
	}
	// The root survives pruning regardless of score; dropping the
	// center of an ego query would orphan the whole result.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].node.IsRoot != ranked[j].node.IsRoot {
			return ranked[i].node.IsRoot
		}
		return ranked[i].score > ranked[j].score
	})

	survivors := make(map[*aggregates.Node]bool, maxNodes)
	for _, entry := range ranked[:maxNodes] {
		survivors[entry.node] = true
	}
	kept := make([]*aggregates.Node, 0, maxNodes)
	for _, node := range graph.Nodes {
		if survivors[node] {
			kept = append(kept, node)
		}
	}
	pruned := len(graph.Nodes) - len(kept)
	graph.ReplaceNodes(kept)
	return pruned
}

// pruneLinks keeps the top-maxLinks links by strength, preserving list
// order among survivors.
func (o *GraphOptimizer) pruneLinks(graph *aggregates.Graph, maxLinks int) {
	ranked := make([]*aggregates.Link, len(graph.Links))
	copy(ranked, graph.Links)
	sort.SliceStable(ranked, func(i, j int) bool {
		return linkStrength(ranked[i]) > linkStrength(ranked[j])
	})
	survivors := make(map[*aggregates.Link]bool, maxLinks)
	for _, link := range ranked[:maxLinks] {
		survivors[link] = true
	}
	kept := make([]*aggregates.Link, 0, maxLinks)
	for _, link := range graph.Links {
		if survivors[link] {
			kept = append(kept, link)
		}
	}
	graph.Links = kept
	graph.RemoveDanglingLinks()
}

// linkStrength defaults missing weights to 1 for ranking purposes.
func linkStrength(link *aggregates.Link) float64 {
	if link.Strength <= 0 {
		return 1
	}
	return link.Strength
}
