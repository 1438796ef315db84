package valueobjects

// LinkType represents the kind of relationship a link encodes.
type LinkType string

const (
	// LinkTypeEmployment connects a company to a hiring authority
	LinkTypeEmployment LinkType = "employment"

	// LinkTypeHiring connects an authority to a position it hires for
	LinkTypeHiring LinkType = "hiring"

	// LinkTypeOffers connects a position to the company offering it
	LinkTypeOffers LinkType = "offers"

	// LinkTypeRequires connects a position to a required skill
	LinkTypeRequires LinkType = "requires"

	// LinkTypeHas connects a job seeker to a skill they hold
	LinkTypeHas LinkType = "has"

	// LinkTypePreference connects an authority to a preferred skill
	LinkTypePreference LinkType = "preference"

	// LinkTypeMatch connects a job seeker to a matched authority
	LinkTypeMatch LinkType = "match"
)

// IsValid checks if the link type is a known relationship kind
func (t LinkType) IsValid() bool {
	switch t {
	case LinkTypeEmployment, LinkTypeHiring, LinkTypeOffers,
		LinkTypeRequires, LinkTypeHas, LinkTypePreference, LinkTypeMatch:
		return true
	default:
		return false
	}
}

// String returns the string representation of the link type
func (t LinkType) String() string {
	return string(t)
}

// Color returns the base color token for the link type.
func (t LinkType) Color() string {
	switch t {
	case LinkTypeEmployment:
		return "#748FFC"
	case LinkTypeHiring:
		return "#B197FC"
	case LinkTypeOffers:
		return "#FFA94D"
	case LinkTypeRequires:
		return "#FFD43B"
	case LinkTypeHas:
		return "#69DB7C"
	case LinkTypePreference:
		return "#66D9E8"
	case LinkTypeMatch:
		return "#FAA2C1"
	default:
		return "#CED4DA"
	}
}

// HighlightColor returns the enhanced variant used for root-adjacent links.
func (t LinkType) HighlightColor() string {
	switch t {
	case LinkTypeMatch:
		return "#F06595"
	default:
		return "#FCC419"
	}
}
