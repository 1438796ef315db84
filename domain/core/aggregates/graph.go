// Package aggregates holds the unified network graph produced by the
// builder and refined by the ego, sorting and optimization stages. The
// exported Node/Link/Graph shapes are the data contract handed to the
// external renderer.
package aggregates

import (
	"github.com/familiarcat/candid-graph-engine/domain/core/entities"
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
)

// Node is a single visualizable entity in the graph.
type Node struct {
	ID      valueobjects.NodeID   `json:"id"`
	Type    valueobjects.NodeType `json:"type"`
	Name    string                `json:"name"`
	Size    float64               `json:"size"`
	Color   string                `json:"color"`
	Opacity float64               `json:"opacity"`

	// Distance is the BFS hop count from the root; nil before ego
	// processing. Distance of zero is equivalent to IsRoot.
	Distance *int `json:"distance,omitempty"`

	IsRoot      bool         `json:"isRoot,omitempty"`
	LayoutHints *LayoutHints `json:"layoutHints,omitempty"`

	// Payload carries the original source record.
	Payload entities.Entity `json:"payload,omitempty"`
}

// LayoutHints are advisory positioning suggestions for the renderer.
// They are never binding; the renderer's physics may override them.
type LayoutHints struct {
	Layout string `json:"layout"`

	// Radial layout: polar position relative to the pinned root.
	Angle  float64 `json:"angle,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Pinned bool    `json:"pinned,omitempty"`

	// Hierarchical layout: distance layer and fixed type lane.
	Layer int `json:"layer,omitempty"`
	Lane  int `json:"lane,omitempty"`

	// Force layout: preferred spring length for incident edges.
	PreferredEdgeLength float64 `json:"preferredEdgeLength,omitempty"`
}

// Link is a relationship between two nodes. Source and Target always
// reference nodes present in the same graph; stages that remove nodes
// drop incident links rather than leaving them dangling.
type Link struct {
	Source   valueobjects.NodeID   `json:"source"`
	Target   valueobjects.NodeID   `json:"target"`
	Type     valueobjects.LinkType `json:"type"`
	Strength float64               `json:"strength"`
	Color    string                `json:"color,omitempty"`
	Label    string                `json:"label,omitempty"`
	Status   string                `json:"status,omitempty"`

	// Synthetic marks densification edges fabricated for visual
	// connectivity. They are excluded from authoritative statistics
	// and from importance scoring.
	Synthetic bool `json:"synthetic,omitempty"`

	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// Touches reports whether the link is incident to the given node.
func (l *Link) Touches(id valueobjects.NodeID) bool {
	return l.Source == id || l.Target == id
}

// Other returns the endpoint opposite to id, and whether id is an endpoint.
func (l *Link) Other(id valueobjects.NodeID) (valueobjects.NodeID, bool) {
	switch id {
	case l.Source:
		return l.Target, true
	case l.Target:
		return l.Source, true
	default:
		return "", false
	}
}

// Graph is the unified node/link network. Nodes are unique by id.
type Graph struct {
	Nodes []*Node    `json:"nodes"`
	Links []*Link    `json:"links"`
	Stats GraphStats `json:"stats"`

	// Optimized and OriginalStats are set when the optimizer pruned
	// the graph to its configured ceilings.
	Optimized     bool        `json:"optimized,omitempty"`
	OriginalStats *SizeCounts `json:"originalStats,omitempty"`

	nodeIndex map[valueobjects.NodeID]*Node
	adjacency map[valueobjects.NodeID][]*Link
}

// SizeCounts records node/link counts at a point in time.
type SizeCounts struct {
	NodeCount int `json:"nodeCount"`
	LinkCount int `json:"linkCount"`
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make([]*Node, 0),
		Links:     make([]*Link, 0),
		nodeIndex: make(map[valueobjects.NodeID]*Node),
	}
}

// AddNode inserts a node, enforcing id uniqueness. Duplicate ids are
// rejected and reported to the caller.
func (g *Graph) AddNode(node *Node) bool {
	if node == nil || node.ID == "" {
		return false
	}
	if _, exists := g.nodeIndex[node.ID]; exists {
		return false
	}
	g.Nodes = append(g.Nodes, node)
	g.nodeIndex[node.ID] = node
	g.adjacency = nil
	return true
}

// AddLink inserts a link when both endpoints are present. Links with a
// missing endpoint are dropped, never left dangling.
func (g *Graph) AddLink(link *Link) bool {
	if link == nil {
		return false
	}
	if !g.HasNode(link.Source) || !g.HasNode(link.Target) {
		return false
	}
	g.Links = append(g.Links, link)
	g.adjacency = nil
	return true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id valueobjects.NodeID) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id valueobjects.NodeID) *Node {
	return g.nodeIndex[id]
}

// Root returns the root node of an ego-processed graph, or nil.
func (g *Graph) Root() *Node {
	for _, node := range g.Nodes {
		if node.IsRoot {
			return node
		}
	}
	return nil
}

// Adjacency returns the undirected adjacency index, building it once per
// graph mutation generation. Traversals use this instead of rescanning
// the flat link list.
func (g *Graph) Adjacency() map[valueobjects.NodeID][]*Link {
	if g.adjacency != nil {
		return g.adjacency
	}
	adj := make(map[valueobjects.NodeID][]*Link, len(g.Nodes))
	for _, link := range g.Links {
		adj[link.Source] = append(adj[link.Source], link)
		adj[link.Target] = append(adj[link.Target], link)
	}
	g.adjacency = adj
	return adj
}

// Degree returns the number of links incident to a node. Synthetic
// densification links are excluded when authoritativeOnly is set.
func (g *Graph) Degree(id valueobjects.NodeID, authoritativeOnly bool) int {
	count := 0
	for _, link := range g.Adjacency()[id] {
		if authoritativeOnly && link.Synthetic {
			continue
		}
		count++
	}
	return count
}

// RemoveDanglingLinks drops every link whose endpoints are not both
// present, returning the number removed.
func (g *Graph) RemoveDanglingLinks() int {
	kept := g.Links[:0]
	removed := 0
	for _, link := range g.Links {
		if g.HasNode(link.Source) && g.HasNode(link.Target) {
			kept = append(kept, link)
		} else {
			removed++
		}
	}
	g.Links = kept
	g.adjacency = nil
	return removed
}

// ReplaceNodes swaps the node set for a filtered subset and drops links
// that no longer have both endpoints.
func (g *Graph) ReplaceNodes(nodes []*Node) {
	g.Nodes = nodes
	g.nodeIndex = make(map[valueobjects.NodeID]*Node, len(nodes))
	for _, node := range nodes {
		g.nodeIndex[node.ID] = node
	}
	g.adjacency = nil
	g.RemoveDanglingLinks()
}

// Clone returns a graph whose Node and Link records are value copies, so
// downstream stages can annotate emphasis without mutating cached input.
// Payloads are shared; source records are treated as immutable.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Nodes:         make([]*Node, 0, len(g.Nodes)),
		Links:         make([]*Link, 0, len(g.Links)),
		Stats:         g.Stats,
		Optimized:     g.Optimized,
		nodeIndex:     make(map[valueobjects.NodeID]*Node, len(g.Nodes)),
		OriginalStats: g.OriginalStats,
	}
	for _, node := range g.Nodes {
		copied := *node
		if node.LayoutHints != nil {
			hints := *node.LayoutHints
			copied.LayoutHints = &hints
		}
		if node.Distance != nil {
			d := *node.Distance
			copied.Distance = &d
		}
		clone.Nodes = append(clone.Nodes, &copied)
		clone.nodeIndex[copied.ID] = &copied
	}
	for _, link := range g.Links {
		copied := *link
		clone.Links = append(clone.Links, &copied)
	}
	return clone
}
