package entities

import (
	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
)

// Company is a hiring company record.
type Company struct {
	Key        string
	Name       string
	Industry   string
	CreatedAt  any
	Attributes map[string]any
}

func (c *Company) EntityKey() string   { return c.Key }
func (c *Company) DisplayName() string { return c.Name }

func (c *Company) Attribute(name string) (any, bool) {
	return attributeOf(map[string]any{
		"name":      c.Name,
		"industry":  c.Industry,
		"createdAt": c.CreatedAt,
	}, c.Attributes, name)
}

// Authority is a hiring authority record. CompanyRef arrives in any of the
// three cross-reference encodings and is resolved at build time.
type Authority struct {
	Key              string
	Name             string
	HiringPower      valueobjects.HiringPower
	HierarchyLevel   valueobjects.HierarchyLevel
	CompanyRef       any
	SkillPreferences []any
	CreatedAt        any
	Attributes       map[string]any
}

func (a *Authority) EntityKey() string   { return a.Key }
func (a *Authority) DisplayName() string { return a.Name }

func (a *Authority) Attribute(name string) (any, bool) {
	return attributeOf(map[string]any{
		"name":           a.Name,
		"hiringPower":    string(a.HiringPower),
		"hierarchyLevel": string(a.HierarchyLevel),
		"createdAt":      a.CreatedAt,
	}, a.Attributes, name)
}

// JobSeeker is a candidate record. Skills is a skill-name list;
// SkillLevels optionally maps skill names to a 0-10 proficiency.
type JobSeeker struct {
	Key         string
	Name        string
	Skills      []string
	SkillLevels map[string]float64
	CreatedAt   any
	Attributes  map[string]any
}

func (j *JobSeeker) EntityKey() string   { return j.Key }
func (j *JobSeeker) DisplayName() string { return j.Name }

func (j *JobSeeker) Attribute(name string) (any, bool) {
	return attributeOf(map[string]any{
		"name":      j.Name,
		"createdAt": j.CreatedAt,
	}, j.Attributes, name)
}

// SkillLevel returns the seeker's proficiency for a skill, defaulting to 5.
func (j *JobSeeker) SkillLevel(skill string) float64 {
	if level, ok := j.SkillLevels[skill]; ok && level > 0 {
		return level
	}
	return 5
}

// Skill is a skill record. Demand feeds the skill node's display size.
type Skill struct {
	Key        string
	Name       string
	Demand     float64
	CreatedAt  any
	Attributes map[string]any
}

func (s *Skill) EntityKey() string   { return s.Key }
func (s *Skill) DisplayName() string { return s.Name }

func (s *Skill) Attribute(name string) (any, bool) {
	return attributeOf(map[string]any{
		"name":      s.Name,
		"demand":    s.Demand,
		"createdAt": s.CreatedAt,
	}, s.Attributes, name)
}

// Position is an open position record.
type Position struct {
	Key            string
	Title          string
	AuthorityRef   any
	CompanyRef     any
	RequiredSkills []any
	CreatedAt      any
	Attributes     map[string]any
}

func (p *Position) EntityKey() string   { return p.Key }
func (p *Position) DisplayName() string { return p.Title }

func (p *Position) Attribute(name string) (any, bool) {
	return attributeOf(map[string]any{
		"title":     p.Title,
		"name":      p.Title,
		"createdAt": p.CreatedAt,
	}, p.Attributes, name)
}

// Match is a seeker/authority match record. Score is the 0-100 match
// percentage; nil scores default to 50 at build time.
type Match struct {
	Key          string
	JobSeekerRef any
	AuthorityRef any
	Score        *float64
	Status       string
	CreatedAt    any
	Attributes   map[string]any
}

func (m *Match) EntityKey() string { return m.Key }

func (m *Match) DisplayName() string {
	return "Match " + m.Key
}

func (m *Match) Attribute(name string) (any, bool) {
	typed := map[string]any{
		"status":    m.Status,
		"createdAt": m.CreatedAt,
	}
	if m.Score != nil {
		typed["score"] = *m.Score
	}
	return attributeOf(typed, m.Attributes, name)
}

// ScoreOrDefault returns the match score, defaulting to 50 when absent or
// out of the 0-100 range.
func (m *Match) ScoreOrDefault() float64 {
	if m.Score != nil && *m.Score >= 0 && *m.Score <= 100 {
		return *m.Score
	}
	return 50
}
