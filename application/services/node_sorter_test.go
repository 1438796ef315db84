package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/familiarcat/candid-graph-engine/domain/core/aggregates"
	"github.com/familiarcat/candid-graph-engine/domain/core/entities"
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
)

func newTestSorter() *NodeSorter {
	return NewNodeSorter(zap.NewNop())
}

func seekerNode(t *testing.T, key, name string) *aggregates.Node {
	t.Helper()
	id, err := valueobjects.NewNodeID(valueobjects.NodeTypeJobSeeker, key)
	require.NoError(t, err)
	return &aggregates.Node{ID: id, Type: valueobjects.NodeTypeJobSeeker, Name: name, Size: 10}
}

func nodeNames(nodes []*aggregates.Node) []string {
	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = node.Name
	}
	return names
}

func TestNodeSorter_AlphabeticalWithRootFirst(t *testing.T) {
	nodes := []*aggregates.Node{
		seekerNode(t, "zeta", "Zeta"),
		seekerNode(t, "alpha", "Alpha"),
		seekerNode(t, "mid", "Mid"),
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "jobSeeker-mid", SortAlphabetical, SortOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"Mid", "Alpha", "Zeta"}, nodeNames(sorted),
		"root leads, the rest stay alphabetical")
}

func TestNodeSorter_AlphabeticalIsCaseInsensitive(t *testing.T) {
	nodes := []*aggregates.Node{
		seekerNode(t, "b", "banana"),
		seekerNode(t, "a", "Apple"),
		seekerNode(t, "c", "Cherry"),
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "", SortAlphabetical, SortOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "banana", "Cherry"}, nodeNames(sorted))
}

func TestNodeSorter_RelationshipStrength(t *testing.T) {
	root := seekerNode(t, "root", "Root")
	weak := seekerNode(t, "weak", "Weak")
	strong := seekerNode(t, "strong", "Strong")
	stranger := seekerNode(t, "stranger", "Stranger")
	links := []*aggregates.Link{
		{Source: root.ID, Target: weak.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.2},
		{Source: strong.ID, Target: root.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.9},
	}

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{weak, stranger, strong, root},
		links, root.ID, SortRelationshipStrength, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "Strong", "Weak", "Stranger"}, nodeNames(sorted))
}

func TestNodeSorter_RelationshipStrengthIgnoresSyntheticLinks(t *testing.T) {
	root := seekerNode(t, "root", "Root")
	a := seekerNode(t, "a", "A")
	b := seekerNode(t, "b", "B")
	links := []*aggregates.Link{
		{Source: root.ID, Target: a.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.3},
		{Source: root.ID, Target: b.ID, Type: valueobjects.LinkTypeHas, Strength: 0.9, Synthetic: true},
		{Source: root.ID, Target: b.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.1},
	}

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{b, a, root}, links, root.ID, SortRelationshipStrength, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "A", "B"}, nodeNames(sorted),
		"synthetic strength does not count toward ranking")
}

func TestNodeSorter_EntityType(t *testing.T) {
	company := &aggregates.Node{ID: "company-acme", Type: valueobjects.NodeTypeCompany, Name: "Acme"}
	seeker := seekerNode(t, "alice", "Alice")
	skill := &aggregates.Node{ID: "skill-go", Type: valueobjects.NodeTypeSkill, Name: "Go"}

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{seeker, skill, company}, nil, "", SortEntityType, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Go", "Alice"}, nodeNames(sorted),
		"companies rank before skills, skills before job seekers")
}

func TestNodeSorter_Temporal(t *testing.T) {
	older := seekerNode(t, "older", "Older")
	older.Payload = &entities.JobSeeker{Key: "older", Name: "Older", CreatedAt: "2023-01-01T00:00:00Z"}
	newer := seekerNode(t, "newer", "Newer")
	newer.Payload = &entities.JobSeeker{Key: "newer", Name: "Newer", CreatedAt: "2025-01-01T00:00:00Z"}
	undated := seekerNode(t, "undated", "Undated")

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{undated, older, newer}, nil, "", SortTemporal, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Newer", "Older", "Undated"}, nodeNames(sorted),
		"most recent first, records without a timestamp last")
}

func TestNodeSorter_Distance(t *testing.T) {
	near := seekerNode(t, "near", "Near")
	far := seekerNode(t, "far", "Far")
	unreached := seekerNode(t, "unreached", "Unreached")
	one, three := 1, 3
	near.Distance = &one
	far.Distance = &three

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{far, unreached, near}, nil, "", SortDistance, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Near", "Far", "Unreached"}, nodeNames(sorted))
}

func TestNodeSorter_MatchScore(t *testing.T) {
	root := seekerNode(t, "root", "Root")
	high := &aggregates.Node{ID: "authority-high", Type: valueobjects.NodeTypeAuthority, Name: "High"}
	low := &aggregates.Node{ID: "authority-low", Type: valueobjects.NodeTypeAuthority, Name: "Low"}
	links := []*aggregates.Link{
		{Source: root.ID, Target: low.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.40},
		{Source: root.ID, Target: high.ID, Type: valueobjects.LinkTypeMatch, Strength: 0.95},
		// A stronger non-match link must not affect the match ranking.
		{Source: root.ID, Target: low.ID, Type: valueobjects.LinkTypePreference, Strength: 1.0},
	}

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{low, high, root}, links, root.ID, SortMatchScore, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "High", "Low"}, nodeNames(sorted))
}

func TestNodeSorter_HierarchyLevel(t *testing.T) {
	ic := &aggregates.Node{
		ID: "authority-ic", Type: valueobjects.NodeTypeAuthority, Name: "IC",
		Payload: &entities.Authority{Key: "ic", Name: "IC", HierarchyLevel: "Individual"},
	}
	csuite := &aggregates.Node{
		ID: "authority-ceo", Type: valueobjects.NodeTypeAuthority, Name: "CEO",
		Payload: &entities.Authority{Key: "ceo", Name: "CEO", HierarchyLevel: "C-Suite"},
	}
	unknown := &aggregates.Node{ID: "authority-x", Type: valueobjects.NodeTypeAuthority, Name: "X"}

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{ic, unknown, csuite}, nil, "", SortHierarchyLevel, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"CEO", "IC", "X"}, nodeNames(sorted),
		"seniority descends, unknown levels last")
}

func TestNodeSorter_CustomImportance(t *testing.T) {
	minor := seekerNode(t, "minor", "Minor")
	minor.Payload = &entities.JobSeeker{Key: "minor", Name: "Minor", Attributes: map[string]any{"importance": 1.0}}
	major := seekerNode(t, "major", "Major")
	major.Payload = &entities.JobSeeker{Key: "major", Name: "Major", Attributes: map[string]any{"importance": 9.0}}
	unrated := seekerNode(t, "unrated", "Unrated")

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{minor, unrated, major}, nil, "", SortCustomImportance, SortOptions{},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Major", "Minor", "Unrated"}, nodeNames(sorted))
}

func TestNodeSorter_CustomImportanceField(t *testing.T) {
	a := seekerNode(t, "a", "A")
	a.Payload = &entities.JobSeeker{Key: "a", Name: "A", Attributes: map[string]any{"priority": 2.0}}
	b := seekerNode(t, "b", "B")
	b.Payload = &entities.JobSeeker{Key: "b", Name: "B", Attributes: map[string]any{"priority": 7.0}}

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{a, b}, nil, "", SortCustomImportance,
		SortOptions{ImportanceField: "priority"},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, nodeNames(sorted))
}

func TestNodeSorter_UnknownMethodFailsSoft(t *testing.T) {
	nodes := []*aggregates.Node{
		seekerNode(t, "b", "B"),
		seekerNode(t, "root", "Root"),
		seekerNode(t, "a", "A"),
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "jobSeeker-root", "sideways", SortOptions{})

	require.NoError(t, err, "unknown methods degrade to input order")
	assert.Equal(t, []string{"Root", "B", "A"}, nodeNames(sorted))
}

func TestNodeSorter_AscendingReversesOrder(t *testing.T) {
	nodes := []*aggregates.Node{
		seekerNode(t, "zeta", "Zeta"),
		seekerNode(t, "alpha", "Alpha"),
		seekerNode(t, "mid", "Mid"),
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "", SortAlphabetical, SortOptions{Ascending: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Mid", "Alpha"}, nodeNames(sorted))
}

func TestNodeSorter_AscendingKeepsRootFirst(t *testing.T) {
	nodes := []*aggregates.Node{
		seekerNode(t, "zeta", "Zeta"),
		seekerNode(t, "root", "Mid"),
		seekerNode(t, "alpha", "Alpha"),
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "jobSeeker-root", SortAlphabetical, SortOptions{Ascending: true})

	require.NoError(t, err)
	assert.Equal(t, "Mid", sorted[0].Name, "direction never displaces the root")
	assert.Equal(t, []string{"Mid", "Zeta", "Alpha"}, nodeNames(sorted))
}

func TestNodeSorter_SecondarySortBreaksTies(t *testing.T) {
	// All three are companies, so entity_type ties across the board and the
	// secondary alphabetical order decides.
	nodes := []*aggregates.Node{
		{ID: "company-c", Type: valueobjects.NodeTypeCompany, Name: "Charlie"},
		{ID: "company-a", Type: valueobjects.NodeTypeCompany, Name: "Alpha"},
		{ID: "company-b", Type: valueobjects.NodeTypeCompany, Name: "Bravo"},
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "", SortEntityType, SortOptions{
		SecondarySort: SortAlphabetical,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, nodeNames(sorted))
}

func TestNodeSorter_SecondaryAppliesOnlyWithinTies(t *testing.T) {
	company := &aggregates.Node{ID: "company-z", Type: valueobjects.NodeTypeCompany, Name: "Zulu"}
	seekerA := seekerNode(t, "a", "Alpha")
	seekerB := seekerNode(t, "b", "Bravo")

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{seekerB, company, seekerA}, nil, "", SortEntityType,
		SortOptions{SecondarySort: SortAlphabetical},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Zulu", "Alpha", "Bravo"}, nodeNames(sorted),
		"the primary type order is never disturbed across classes")
}

func TestNodeSorter_FilterTypesAndMaxResults(t *testing.T) {
	nodes := []*aggregates.Node{
		seekerNode(t, "c", "Carol"),
		{ID: "company-acme", Type: valueobjects.NodeTypeCompany, Name: "Acme"},
		seekerNode(t, "a", "Alice"),
		seekerNode(t, "b", "Bob"),
	}

	sorted, err := newTestSorter().Sort(nodes, nil, "", SortAlphabetical, SortOptions{
		FilterTypes: []valueobjects.NodeType{valueobjects.NodeTypeJobSeeker},
		MaxResults:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, nodeNames(sorted))
}

func TestNodeSorter_InvalidOptions(t *testing.T) {
	_, err := newTestSorter().Sort(nil, nil, "", SortAlphabetical, SortOptions{MaxResults: -1})
	assert.Error(t, err)
}

func TestNodeSorter_SortIsStable(t *testing.T) {
	first := seekerNode(t, "first", "Same")
	second := seekerNode(t, "second", "Same")
	third := seekerNode(t, "third", "Same")

	sorted, err := newTestSorter().Sort(
		[]*aggregates.Node{first, second, third}, nil, "", SortAlphabetical, SortOptions{},
	)

	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Same(t, first, sorted[0])
	assert.Same(t, second, sorted[1])
	assert.Same(t, third, sorted[2])
}

func TestNodeSorter_GetAvailableSortingMethods(t *testing.T) {
	s := newTestSorter()

	seeker := s.GetAvailableSortingMethods(valueobjects.NodeTypeJobSeeker)
	require.NotEmpty(t, seeker)
	assert.Equal(t, SortMatchScore, seeker[0], "job seekers lead with match score")
	assert.NotContains(t, seeker, SortHierarchyLevel)

	authority := s.GetAvailableSortingMethods(valueobjects.NodeTypeAuthority)
	assert.Equal(t, SortHierarchyLevel, authority[0])

	unknown := s.GetAvailableSortingMethods("widget")
	assert.Len(t, unknown, 8, "unknown kinds get the full strategy set")
}

func TestNodeSorter_GetSortingMethodLabel(t *testing.T) {
	s := newTestSorter()

	assert.Equal(t, "Relationship Strength", s.GetSortingMethodLabel(SortRelationshipStrength))
	assert.Equal(t, "Most Recent", s.GetSortingMethodLabel(SortTemporal))
	assert.Equal(t, "sideways", s.GetSortingMethodLabel("sideways"))
}
