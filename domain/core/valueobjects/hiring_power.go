package valueobjects

// HiringPower is the decision-making tier of a hiring authority.
type HiringPower string

const (
	HiringPowerUltimate HiringPower = "Ultimate"
	HiringPowerHigh     HiringPower = "High"
	HiringPowerMedium   HiringPower = "Medium"
	HiringPowerLow      HiringPower = "Low"
)

// EmploymentStrength returns the employment-link strength for the tier:
// 3 for Ultimate, 2 for High, 1 for everything else.
func (p HiringPower) EmploymentStrength() float64 {
	switch p {
	case HiringPowerUltimate:
		return 3
	case HiringPowerHigh:
		return 2
	default:
		return 1
	}
}

// PreferenceStrength returns the skill-preference link strength:
// 1.0 for Ultimate/High tiers, 0.7 otherwise.
func (p HiringPower) PreferenceStrength() float64 {
	switch p {
	case HiringPowerUltimate, HiringPowerHigh:
		return 1.0
	default:
		return 0.7
	}
}

// SizeFactor scales an authority node's base size by tier.
func (p HiringPower) SizeFactor() float64 {
	switch p {
	case HiringPowerUltimate:
		return 1.5
	case HiringPowerHigh:
		return 1.25
	default:
		return 1.0
	}
}

// HierarchyLevel is an authority's organizational level, used by the
// hierarchy_level sorting strategy.
type HierarchyLevel string

const (
	HierarchyCSuite     HierarchyLevel = "C-Suite"
	HierarchyExecutive  HierarchyLevel = "Executive"
	HierarchyDirector   HierarchyLevel = "Director"
	HierarchyManager    HierarchyLevel = "Manager"
	HierarchyIndividual HierarchyLevel = "Individual"
)

var hierarchyRank = map[HierarchyLevel]int{
	HierarchyCSuite:     0,
	HierarchyExecutive:  1,
	HierarchyDirector:   2,
	HierarchyManager:    3,
	HierarchyIndividual: 4,
}

// Rank returns the ordering position of the level; unknown levels sort last.
func (l HierarchyLevel) Rank() int {
	if r, ok := hierarchyRank[l]; ok {
		return r
	}
	return len(hierarchyRank)
}
