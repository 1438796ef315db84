package aggregates

import (
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
)

// GraphStats carries derived metrics for a graph. Relationship counts are
// authoritative: synthetic densification links appear only in
// SyntheticLinkCount and never in the per-type distribution.
type GraphStats struct {
	NodeCount          int            `json:"nodeCount"`
	LinkCount          int            `json:"linkCount"`
	SyntheticLinkCount int            `json:"syntheticLinkCount"`
	NodesByType        map[string]int `json:"nodesByType,omitempty"`
	LinksByType        map[string]int `json:"linksByType,omitempty"`
	AverageDegree      float64        `json:"averageDegree"`

	// Ego is populated only on ego-processed graphs.
	Ego *EgoStats `json:"ego,omitempty"`
}

// EgoStats describes the shape of an ego network around its root.
type EgoStats struct {
	RootID          valueobjects.NodeID `json:"rootId"`
	NodesByDistance map[int]int         `json:"nodesByDistance"`
	RootLinkCount   int                 `json:"rootLinkCount"`
	MaxDistance     int                 `json:"maxDistance"`
}

// RecomputeStats rebuilds the derived metrics from the current node and
// link sets. Ego stats, when present, are preserved; the ego stage owns
// them.
func (g *Graph) RecomputeStats() {
	stats := GraphStats{
		NodeCount:   len(g.Nodes),
		NodesByType: make(map[string]int, 6),
		LinksByType: make(map[string]int, 7),
		Ego:         g.Stats.Ego,
	}
	for _, node := range g.Nodes {
		stats.NodesByType[node.Type.String()]++
	}
	authoritative := 0
	for _, link := range g.Links {
		stats.LinkCount++
		if link.Synthetic {
			stats.SyntheticLinkCount++
			continue
		}
		authoritative++
		stats.LinksByType[link.Type.String()]++
	}
	if stats.NodeCount > 0 {
		// Each authoritative link contributes two endpoint incidences.
		stats.AverageDegree = float64(2*authoritative) / float64(stats.NodeCount)
	}
	g.Stats = stats
}

// Density returns links per node, the ratio the densification safeguard
// compares against its threshold. Synthetic links are included because the
// safeguard targets visual connectivity, not authoritative counts.
func (g *Graph) Density() float64 {
	if len(g.Nodes) == 0 {
		return 0
	}
	return float64(len(g.Links)) / float64(len(g.Nodes))
}
