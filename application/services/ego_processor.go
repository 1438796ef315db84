package services

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/familiarcat/candid-graph-engine/domain/core/aggregates"
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
	"github.com/familiarcat/candid-graph-engine/pkg/config"
	pkgerrors "github.com/familiarcat/candid-graph-engine/pkg/errors"
)

// LayoutType selects which advisory layout hints are attached.
type LayoutType string

const (
	LayoutRadial       LayoutType = "radial"
	LayoutHierarchical LayoutType = "hierarchical"
	LayoutForce        LayoutType = "force"
)

// EgoOptions configures ego-network derivation. The zero value is invalid;
// use DefaultEgoOptions.
type EgoOptions struct {
	MaxDistance int        `validate:"min=0"`
	LayoutType  LayoutType `validate:"omitempty,oneof=radial hierarchical force"`

	// FilterTypes restricts the node kinds retained around the root.
	// Empty means all kinds.
	FilterTypes []valueobjects.NodeType
}

// DefaultEgoOptions returns the configured defaults.
func DefaultEgoOptions(cfg config.EgoConfig) EgoOptions {
	return EgoOptions{
		MaxDistance: cfg.MaxDistance,
		LayoutType:  LayoutForce,
	}
}

// EgoNetworkProcessor derives a distance-bounded, emphasis-annotated
// subgraph centered on a root node.
type EgoNetworkProcessor struct {
	cfg      config.EgoConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewEgoNetworkProcessor creates an ego-network processor.
func NewEgoNetworkProcessor(cfg config.EgoConfig, logger *zap.Logger) *EgoNetworkProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EgoNetworkProcessor{
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

// Process returns the ego network of rootID. A root absent from the graph
// is non-fatal: the input is returned unchanged with a warning. Malformed
// options are the one hard failure.
func (p *EgoNetworkProcessor) Process(ctx context.Context, graph *aggregates.Graph, rootID valueobjects.NodeID, opts EgoOptions) (*aggregates.Graph, error) {
	if err := p.validate.Struct(opts); err != nil {
		return nil, pkgerrors.NewValidationWrap("invalid ego options", err)
	}
	if graph == nil {
		return nil, pkgerrors.NewValidation("graph is required")
	}
	if !graph.HasNode(rootID) {
		p.logger.Warn("root node not found, returning graph unchanged",
			zap.String("root", rootID.String()),
		)
		return graph, nil
	}

	// Work on a copy so the cached full graph is never annotated.
	ego := graph.Clone()

	distances := p.traverse(ego, rootID, opts.MaxDistance)
	p.bound(ego, rootID, distances, opts.FilterTypes)
	p.emphasize(ego, rootID, distances)
	p.attachLayoutHints(ego, rootID, opts.LayoutType, distances)
	p.annotateStats(ego, rootID, opts.MaxDistance, distances)

	return ego, nil
}

// traverse runs breadth-first search over the undirected adjacency,
// returning hop distances for every node reachable within maxDistance.
func (p *EgoNetworkProcessor) traverse(graph *aggregates.Graph, rootID valueobjects.NodeID, maxDistance int) map[valueobjects.NodeID]int {
	adjacency := graph.Adjacency()
	distances := map[valueobjects.NodeID]int{rootID: 0}
	queue := []valueobjects.NodeID{rootID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		depth := distances[current]
		if depth >= maxDistance {
			continue
		}
		for _, link := range adjacency[current] {
			neighbor, ok := link.Other(current)
			if !ok {
				continue
			}
			if _, visited := distances[neighbor]; visited {
				continue
			}
			distances[neighbor] = depth + 1
			queue = append(queue, neighbor)
		}
	}
	return distances
}

// bound drops nodes beyond the distance horizon or excluded by type
// filters. The root always survives, even when isolated.
func (p *EgoNetworkProcessor) bound(graph *aggregates.Graph, rootID valueobjects.NodeID, distances map[valueobjects.NodeID]int, filterTypes []valueobjects.NodeType) {
	allowed := typeFilterSet(filterTypes)
	retained := make([]*aggregates.Node, 0, len(distances))
	for _, node := range graph.Nodes {
		if node.ID == rootID {
			retained = append(retained, node)
			continue
		}
		if _, reached := distances[node.ID]; !reached {
			continue
		}
		if allowed != nil && !allowed[node.Type] {
			continue
		}
		retained = append(retained, node)
	}
	// ReplaceNodes re-filters links so both endpoints survive.
	graph.ReplaceNodes(retained)
}

// emphasize applies the monotonic distance-based visual emphasis to nodes
// and links.
func (p *EgoNetworkProcessor) emphasize(graph *aggregates.Graph, rootID valueobjects.NodeID, distances map[valueobjects.NodeID]int) {
	for _, node := range graph.Nodes {
		if node.ID == rootID {
			d := 0
			node.Distance = &d
			node.IsRoot = true
			node.Size *= p.cfg.EmphasisMultiplier
			node.Color = node.Type.HighlightColor()
			node.Opacity = 1.0
			continue
		}
		distance, reached := distances[node.ID]
		if !reached {
			// Only the root can be retained while unreached; anything
			// else falls back to the dimmest emphasis.
			node.Opacity = 0.3
			continue
		}
		d := distance
		node.Distance = &d
		node.Size *= math.Max(0.3, 1-0.2*float64(distance))
		node.Opacity = math.Max(0.4, 1-0.2*float64(distance))
	}

	for _, link := range graph.Links {
		if link.Touches(rootID) {
			link.Width *= 1.5
			link.Color = link.Type.HighlightColor()
			link.Opacity = 1.0
			continue
		}
		far := math.Max(float64(distances[link.Source]), float64(distances[link.Target]))
		attenuation := math.Max(0.3, 1-0.15*far)
		link.Width *= attenuation
		link.Opacity *= attenuation
	}
}

// attachLayoutHints adds advisory positioning hints for the renderer.
func (p *EgoNetworkProcessor) attachLayoutHints(graph *aggregates.Graph, rootID valueobjects.NodeID, layout LayoutType, distances map[valueobjects.NodeID]int) {
	if layout == "" {
		layout = LayoutForce
	}
	for _, node := range graph.Nodes {
		distance := distances[node.ID]
		hints := &aggregates.LayoutHints{Layout: string(layout)}

		switch layout {
		case LayoutRadial:
			if node.ID == rootID {
				hints.Pinned = true
			} else {
				// Angle from a hash of the id keeps placement stable
				// across recomputations of the same graph.
				hints.Angle = float64(hashID(node.ID)%3600) / 3600 * 2 * math.Pi
				hints.Radius = float64(distance) * p.cfg.RadialRadiusStep
			}
		case LayoutHierarchical:
			hints.Layer = distance
			hints.Lane = node.Type.Rank()
		case LayoutForce:
			hints.PreferredEdgeLength = p.cfg.ForceEdgeBaseLength * float64(1+distance)
		}
		node.LayoutHints = hints
	}
}

// annotateStats records per-distance node counts, the number of links
// touching the root and the effective traversal bound.
func (p *EgoNetworkProcessor) annotateStats(graph *aggregates.Graph, rootID valueobjects.NodeID, maxDistance int, distances map[valueobjects.NodeID]int) {
	byDistance := make(map[int]int)
	for _, node := range graph.Nodes {
		if node.Distance != nil {
			byDistance[*node.Distance]++
		}
	}
	rootLinks := 0
	for _, link := range graph.Links {
		if link.Touches(rootID) {
			rootLinks++
		}
	}
	graph.RecomputeStats()
	graph.Stats.Ego = &aggregates.EgoStats{
		RootID:          rootID,
		NodesByDistance: byDistance,
		RootLinkCount:   rootLinks,
		MaxDistance:     maxDistance,
	}
}

func typeFilterSet(types []valueobjects.NodeType) map[valueobjects.NodeType]bool {
	if len(types) == 0 {
		return nil
	}
	allowed := make(map[valueobjects.NodeType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return allowed
}
