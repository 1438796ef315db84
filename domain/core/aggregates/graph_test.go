package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
)

func testNode(t *testing.T, nodeType valueobjects.NodeType, key string) *Node {
	t.Helper()
	id, err := valueobjects.NewNodeID(nodeType, key)
	require.NoError(t, err)
	return &Node{ID: id, Type: nodeType, Name: key, Size: 10, Opacity: 0.9}
}

func TestGraph_AddNode_RejectsDuplicates(t *testing.T) {
	g := NewGraph()
	company := testNode(t, valueobjects.NodeTypeCompany, "acme")

	assert.True(t, g.AddNode(company))
	assert.False(t, g.AddNode(company), "same id must be rejected")
	assert.False(t, g.AddNode(nil))
	assert.Len(t, g.Nodes, 1)
	assert.True(t, g.HasNode(company.ID))
	assert.Same(t, company, g.NodeByID(company.ID))
}

func TestGraph_AddLink_DropsMissingEndpoints(t *testing.T) {
	g := NewGraph()
	company := testNode(t, valueobjects.NodeTypeCompany, "acme")
	authority := testNode(t, valueobjects.NodeTypeAuthority, "ceo")
	require.True(t, g.AddNode(company))

	dangling := &Link{Source: company.ID, Target: authority.ID, Type: valueobjects.LinkTypeEmployment}
	assert.False(t, g.AddLink(dangling), "target is not in the graph yet")
	assert.Empty(t, g.Links)

	require.True(t, g.AddNode(authority))
	assert.True(t, g.AddLink(dangling))
	assert.Len(t, g.Links, 1)
}

func TestGraph_Adjacency_RebuildsAfterMutation(t *testing.T) {
	g := NewGraph()
	a := testNode(t, valueobjects.NodeTypeCompany, "a")
	b := testNode(t, valueobjects.NodeTypeAuthority, "b")
	c := testNode(t, valueobjects.NodeTypePosition, "c")
	for _, n := range []*Node{a, b, c} {
		require.True(t, g.AddNode(n))
	}
	require.True(t, g.AddLink(&Link{Source: a.ID, Target: b.ID, Type: valueobjects.LinkTypeEmployment, Strength: 3}))

	adj := g.Adjacency()
	assert.Len(t, adj[a.ID], 1)
	assert.Len(t, adj[b.ID], 1)
	assert.Empty(t, adj[c.ID])

	// A second link invalidates the cached index.
	require.True(t, g.AddLink(&Link{Source: b.ID, Target: c.ID, Type: valueobjects.LinkTypeHiring, Strength: 1}))
	adj = g.Adjacency()
	assert.Len(t, adj[b.ID], 2)
	assert.Len(t, adj[c.ID], 1)
}

func TestGraph_Degree_AuthoritativeExcludesSynthetic(t *testing.T) {
	g := NewGraph()
	seeker := testNode(t, valueobjects.NodeTypeJobSeeker, "alice")
	skill := testNode(t, valueobjects.NodeTypeSkill, "go")
	require.True(t, g.AddNode(seeker))
	require.True(t, g.AddNode(skill))
	require.True(t, g.AddLink(&Link{Source: seeker.ID, Target: skill.ID, Type: valueobjects.LinkTypeHas, Strength: 0.8}))
	require.True(t, g.AddLink(&Link{Source: seeker.ID, Target: skill.ID, Type: valueobjects.LinkTypeHas, Strength: 0.5, Synthetic: true}))

	assert.Equal(t, 2, g.Degree(seeker.ID, false))
	assert.Equal(t, 1, g.Degree(seeker.ID, true))
}

func TestGraph_ReplaceNodes_DropsDanglingLinks(t *testing.T) {
	g := NewGraph()
	a := testNode(t, valueobjects.NodeTypeCompany, "a")
	b := testNode(t, valueobjects.NodeTypeAuthority, "b")
	c := testNode(t, valueobjects.NodeTypePosition, "c")
	for _, n := range []*Node{a, b, c} {
		require.True(t, g.AddNode(n))
	}
	require.True(t, g.AddLink(&Link{Source: a.ID, Target: b.ID, Type: valueobjects.LinkTypeEmployment}))
	require.True(t, g.AddLink(&Link{Source: b.ID, Target: c.ID, Type: valueobjects.LinkTypeHiring}))

	g.ReplaceNodes([]*Node{a, b})

	require.Len(t, g.Links, 1)
	assert.Equal(t, a.ID, g.Links[0].Source)
	assert.False(t, g.HasNode(c.ID))
	assert.Nil(t, g.NodeByID(c.ID))
}

func TestGraph_Clone_IsolatesNodeAndLinkRecords(t *testing.T) {
	g := NewGraph()
	root := testNode(t, valueobjects.NodeTypeJobSeeker, "alice")
	other := testNode(t, valueobjects.NodeTypeSkill, "go")
	d := 1
	other.Distance = &d
	other.LayoutHints = &LayoutHints{Layout: "radial", Radius: 120}
	require.True(t, g.AddNode(root))
	require.True(t, g.AddNode(other))
	require.True(t, g.AddLink(&Link{Source: root.ID, Target: other.ID, Type: valueobjects.LinkTypeHas, Strength: 0.5}))

	clone := g.Clone()
	clone.Nodes[0].Size = 99
	clone.Links[0].Strength = 42
	*clone.Nodes[1].Distance = 7
	clone.Nodes[1].LayoutHints.Radius = 1

	assert.Equal(t, float64(10), root.Size)
	assert.Equal(t, float64(0.5), g.Links[0].Strength)
	assert.Equal(t, 1, *other.Distance)
	assert.Equal(t, float64(120), other.LayoutHints.Radius)
	assert.Same(t, clone.Nodes[0], clone.NodeByID(root.ID), "clone index must point at the copied records")
}

func TestGraph_RecomputeStats(t *testing.T) {
	g := NewGraph()
	company := testNode(t, valueobjects.NodeTypeCompany, "acme")
	authority := testNode(t, valueobjects.NodeTypeAuthority, "ceo")
	seeker := testNode(t, valueobjects.NodeTypeJobSeeker, "alice")
	for _, n := range []*Node{company, authority, seeker} {
		require.True(t, g.AddNode(n))
	}
	require.True(t, g.AddLink(&Link{Source: company.ID, Target: authority.ID, Type: valueobjects.LinkTypeEmployment, Strength: 3}))
	require.True(t, g.AddLink(&Link{Source: seeker.ID, Target: authority.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.87}))
	require.True(t, g.AddLink(&Link{Source: seeker.ID, Target: company.ID, Type: valueobjects.LinkTypeHas, Strength: 0.5, Synthetic: true}))

	g.RecomputeStats()

	assert.Equal(t, 3, g.Stats.NodeCount)
	assert.Equal(t, 3, g.Stats.LinkCount)
	assert.Equal(t, 1, g.Stats.SyntheticLinkCount)
	assert.Equal(t, map[string]int{"company": 1, "authority": 1, "jobSeeker": 1}, g.Stats.NodesByType)
	assert.Equal(t, map[string]int{"employment": 1, "match": 1}, g.Stats.LinksByType, "synthetic links stay out of the per-type distribution")
	assert.InDelta(t, 4.0/3.0, g.Stats.AverageDegree, 1e-9)
	assert.InDelta(t, 1.0, g.Density(), 1e-9, "density counts synthetic links")
}

func TestGraph_Root(t *testing.T) {
	g := NewGraph()
	assert.Nil(t, g.Root())

	plain := testNode(t, valueobjects.NodeTypeCompany, "acme")
	root := testNode(t, valueobjects.NodeTypeJobSeeker, "alice")
	root.IsRoot = true
	require.True(t, g.AddNode(plain))
	require.True(t, g.AddNode(root))

	assert.Same(t, root, g.Root())
}
