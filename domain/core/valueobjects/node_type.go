package valueobjects

// NodeType identifies which of the six source collections a node came from.
type NodeType string

const (
	// NodeTypeCompany represents a hiring company
	NodeTypeCompany NodeType = "company"

	// NodeTypeAuthority represents a hiring authority within a company
	NodeTypeAuthority NodeType = "authority"

	// NodeTypeJobSeeker represents a candidate
	NodeTypeJobSeeker NodeType = "jobSeeker"

	// NodeTypeSkill represents a skill shared by seekers and positions
	NodeTypeSkill NodeType = "skill"

	// NodeTypePosition represents an open position
	NodeTypePosition NodeType = "position"

	// NodeTypeMatch represents a seeker/authority match record
	NodeTypeMatch NodeType = "match"
)

// IsValid checks if the node type is one of the six known kinds
func (t NodeType) IsValid() bool {
	switch t {
	case NodeTypeCompany, NodeTypeAuthority, NodeTypeJobSeeker,
		NodeTypeSkill, NodeTypePosition, NodeTypeMatch:
		return true
	default:
		return false
	}
}

// String returns the string representation of the node type
func (t NodeType) String() string {
	return string(t)
}

// typeRank is the fixed display precedence used by entity-type sorting and
// hierarchical layout lanes. Unknown types rank after all known ones.
var typeRank = map[NodeType]int{
	NodeTypeCompany:   0,
	NodeTypeAuthority: 1,
	NodeTypePosition:  2,
	NodeTypeSkill:     3,
	NodeTypeJobSeeker: 4,
	NodeTypeMatch:     5,
}

// Rank returns the fixed precedence of the type; unknown types sort last.
func (t NodeType) Rank() int {
	if r, ok := typeRank[t]; ok {
		return r
	}
	return len(typeRank)
}

// Color returns the base color token for the node type.
func (t NodeType) Color() string {
	switch t {
	case NodeTypeCompany:
		return "#4C6EF5"
	case NodeTypeAuthority:
		return "#9775FA"
	case NodeTypeJobSeeker:
		return "#2FB380"
	case NodeTypeSkill:
		return "#F59F00"
	case NodeTypePosition:
		return "#E8590C"
	case NodeTypeMatch:
		return "#E64980"
	default:
		return "#868E96"
	}
}

// HighlightColor returns the saturated/brightened variant used for root
// nodes and root-adjacent links.
func (t NodeType) HighlightColor() string {
	switch t {
	case NodeTypeCompany:
		return "#748FFC"
	case NodeTypeAuthority:
		return "#B197FC"
	case NodeTypeJobSeeker:
		return "#51CF9A"
	case NodeTypeSkill:
		return "#FFC034"
	case NodeTypePosition:
		return "#FF8747"
	case NodeTypeMatch:
		return "#FF7DAB"
	default:
		return "#ADB5BD"
	}
}
