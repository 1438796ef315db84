package services

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/familiarcat/candid-graph-engine/domain/core/aggregates"
	"github.com/familiarcat/candid-graph-engine/domain/core/entities"
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
	pkgerrors "github.com/familiarcat/candid-graph-engine/pkg/errors"
)

// SortMethod names a node ranking strategy relative to the root.
type SortMethod string

const (
	SortRelationshipStrength SortMethod = "relationship_strength"
	SortEntityType           SortMethod = "entity_type"
	SortAlphabetical         SortMethod = "alphabetical"
	SortTemporal             SortMethod = "temporal"
	SortDistance             SortMethod = "distance"
	SortCustomImportance     SortMethod = "custom_importance"
	SortMatchScore           SortMethod = "match_score"
	SortHierarchyLevel       SortMethod = "hierarchy_level"
)

// IsValid checks if the method is one of the eight known strategies
func (m SortMethod) IsValid() bool {
	_, ok := sortMethodLabels[m]
	return ok
}

var sortMethodLabels = map[SortMethod]string{
	SortRelationshipStrength: "Relationship Strength",
	SortEntityType:           "Entity Type",
	SortAlphabetical:         "Alphabetical",
	SortTemporal:             "Most Recent",
	SortDistance:             "Network Distance",
	SortCustomImportance:     "Importance",
	SortMatchScore:           "Match Score",
	SortHierarchyLevel:       "Hierarchy Level",
}

// SortOptions tunes a sorting run.
type SortOptions struct {
	// Ascending reverses the final order after the secondary sort is
	// applied. The root, when present, stays first either way.
	Ascending bool

	// SecondarySort breaks ties in the primary order. Ties are true
	// equivalence classes under the primary comparator, compared
	// lexicographically, not positional buckets.
	SecondarySort SortMethod

	// FilterTypes restricts the input set before sorting.
	FilterTypes []valueobjects.NodeType

	// MaxResults truncates after sorting; zero means unlimited.
	MaxResults int `validate:"min=0"`

	// TimestampField is the payload field read by temporal sorting.
	TimestampField string

	// ImportanceField is the payload field read by custom importance.
	ImportanceField string
}

const (
	defaultTimestampField  = "createdAt"
	defaultImportanceField = "importance"
)

// NodeSorter orders a node set using one of eight pluggable strategies.
type NodeSorter struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewNodeSorter creates a node sorter.
func NewNodeSorter(logger *zap.Logger) *NodeSorter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeSorter{validate: validator.New(), logger: logger}
}

// Sort orders nodes by the given method relative to the root. An
// unrecognized method fails soft: it logs a warning and returns the input
// order. The root node, when present and not filtered out, is always
// first regardless of method and direction.
func (s *NodeSorter) Sort(nodes []*aggregates.Node, links []*aggregates.Link, rootID valueobjects.NodeID, method SortMethod, opts SortOptions) ([]*aggregates.Node, error) {
	if err := s.validate.Struct(opts); err != nil {
		return nil, pkgerrors.NewValidationWrap("invalid sort options", err)
	}

	working := filterByType(nodes, opts.FilterTypes)

	if !method.IsValid() {
		s.logger.Warn("unrecognized sort method, returning input order",
			zap.String("method", string(method)),
		)
		return truncate(rootFirst(working, rootID), opts.MaxResults), nil
	}

	rank := newRankContext(working, links, rootID, opts)
	primary := rank.comparator(method)
	secondary := rank.comparator(opts.SecondarySort)

	sort.SliceStable(working, func(i, j int) bool {
		if c := primary(working[i], working[j]); c != 0 {
			return c < 0
		}
		if secondary != nil {
			if c := secondary(working[i], working[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	if opts.Ascending {
		reverseNodes(working)
	}

	return truncate(rootFirst(working, rootID), opts.MaxResults), nil
}

// GetAvailableSortingMethods returns the type-appropriate subset of
// strategies for an entity kind. Unknown kinds get the full set.
func (s *NodeSorter) GetAvailableSortingMethods(entityType valueobjects.NodeType) []SortMethod {
	switch entityType {
	case valueobjects.NodeTypeJobSeeker:
		return []SortMethod{
			SortMatchScore, SortRelationshipStrength, SortDistance,
			SortAlphabetical, SortTemporal, SortCustomImportance,
		}
	case valueobjects.NodeTypeAuthority:
		return []SortMethod{
			SortHierarchyLevel, SortRelationshipStrength, SortMatchScore,
			SortDistance, SortAlphabetical, SortEntityType,
		}
	case valueobjects.NodeTypeCompany:
		return []SortMethod{
			SortRelationshipStrength, SortEntityType, SortDistance,
			SortAlphabetical, SortTemporal,
		}
	case valueobjects.NodeTypePosition:
		return []SortMethod{
			SortTemporal, SortRelationshipStrength, SortDistance,
			SortAlphabetical,
		}
	case valueobjects.NodeTypeSkill:
		return []SortMethod{
			SortRelationshipStrength, SortCustomImportance, SortDistance,
			SortAlphabetical,
		}
	default:
		return []SortMethod{
			SortRelationshipStrength, SortEntityType, SortAlphabetical,
			SortTemporal, SortDistance, SortCustomImportance,
			SortMatchScore, SortHierarchyLevel,
		}
	}
}

// GetSortingMethodLabel returns the display label for a method, or the
// raw method name when unknown.
func (s *NodeSorter) GetSortingMethodLabel(method SortMethod) string {
	if label, ok := sortMethodLabels[method]; ok {
		return label
	}
	return string(method)
}

// rankContext precomputes per-node ranking inputs so comparators stay
// allocation-free during the sort.
type rankContext struct {
	opts         SortOptions
	rootStrength map[valueobjects.NodeID]float64
	matchScore   map[valueobjects.NodeID]float64
}

func newRankContext(nodes []*aggregates.Node, links []*aggregates.Link, rootID valueobjects.NodeID, opts SortOptions) *rankContext {
	rank := &rankContext{
		opts:         opts,
		rootStrength: make(map[valueobjects.NodeID]float64),
		matchScore:   make(map[valueobjects.NodeID]float64),
	}
	for _, link := range links {
		if !link.Touches(rootID) {
			continue
		}
		other, ok := link.Other(rootID)
		if !ok || link.Synthetic {
			continue
		}
		rank.rootStrength[other] += link.Strength
		if link.Type == valueobjects.LinkTypeMatch && link.Strength > rank.matchScore[other] {
			rank.matchScore[other] = link.Strength
		}
	}
	return rank
}

// comparator returns a three-way compare for the method, or nil for an
// empty/unknown method (used for the optional secondary sort).
func (r *rankContext) comparator(method SortMethod) func(a, b *aggregates.Node) int {
	switch method {
	case SortRelationshipStrength:
		return func(a, b *aggregates.Node) int {
			return compareFloat(r.rootStrength[b.ID], r.rootStrength[a.ID])
		}
	case SortEntityType:
		return func(a, b *aggregates.Node) int {
			return a.Type.Rank() - b.Type.Rank()
		}
	case SortAlphabetical:
		return func(a, b *aggregates.Node) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortTemporal:
		field := r.opts.TimestampField
		if field == "" {
			field = defaultTimestampField
		}
		return func(a, b *aggregates.Node) int {
			ta := payloadTime(a, field)
			tb := payloadTime(b, field)
			switch {
			case ta.After(tb):
				return -1
			case tb.After(ta):
				return 1
			default:
				return 0
			}
		}
	case SortDistance:
		return func(a, b *aggregates.Node) int {
			return compareFloat(nodeDistance(a), nodeDistance(b))
		}
	case SortCustomImportance:
		field := r.opts.ImportanceField
		if field == "" {
			field = defaultImportanceField
		}
		return func(a, b *aggregates.Node) int {
			return compareFloat(payloadNumber(b, field), payloadNumber(a, field))
		}
	case SortMatchScore:
		return func(a, b *aggregates.Node) int {
			return compareFloat(r.matchScore[b.ID], r.matchScore[a.ID])
		}
	case SortHierarchyLevel:
		return func(a, b *aggregates.Node) int {
			return hierarchyRank(a) - hierarchyRank(b)
		}
	default:
		return nil
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// nodeDistance orders unreached nodes after every reached one.
func nodeDistance(node *aggregates.Node) float64 {
	if node.Distance == nil {
		return float64(int(^uint(0) >> 1))
	}
	return float64(*node.Distance)
}

func payloadTime(node *aggregates.Node, field string) time.Time {
	if node.Payload == nil {
		return time.Time{}
	}
	if raw, ok := node.Payload.Attribute(field); ok {
		return entities.TimeValue(raw)
	}
	return time.Time{}
}

func payloadNumber(node *aggregates.Node, field string) float64 {
	if node.Payload == nil {
		return 0
	}
	raw, ok := node.Payload.Attribute(field)
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func hierarchyRank(node *aggregates.Node) int {
	if node.Payload == nil {
		return valueobjects.HierarchyLevel("").Rank()
	}
	if raw, ok := node.Payload.Attribute("hierarchyLevel"); ok {
		if s, ok := raw.(string); ok {
			return valueobjects.HierarchyLevel(s).Rank()
		}
	}
	return valueobjects.HierarchyLevel("").Rank()
}

func filterByType(nodes []*aggregates.Node, types []valueobjects.NodeType) []*aggregates.Node {
	allowed := typeFilterSet(types)
	filtered := make([]*aggregates.Node, 0, len(nodes))
	for _, node := range nodes {
		if allowed == nil || allowed[node.Type] {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

// rootFirst moves the root node to the front, preserving the relative
// order of everything else.
func rootFirst(nodes []*aggregates.Node, rootID valueobjects.NodeID) []*aggregates.Node {
	for i, node := range nodes {
		if node.ID == rootID {
			if i == 0 {
				return nodes
			}
			reordered := make([]*aggregates.Node, 0, len(nodes))
			reordered = append(reordered, node)
			reordered = append(reordered, nodes[:i]...)
			return append(reordered, nodes[i+1:]...)
		}
	}
	return nodes
}

func truncate(nodes []*aggregates.Node, maxResults int) []*aggregates.Node {
	if maxResults > 0 && len(nodes) > maxResults {
		return nodes[:maxResults]
	}
	return nodes
}

func reverseNodes(nodes []*aggregates.Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
