// Package entities defines the six loosely-structured source collections
// the engine consumes. Records arrive from an external fetch collaborator
// with inconsistent cross-reference encodings; the typed fields here carry
// the known structure and Attributes carries everything else.
package entities

import (
	"fmt"
	"time"

	"github.com/familiarcat/candid-graph-engine/domain/core/valueobjects"
)

// Entity is implemented by all six source record kinds.
type Entity interface {
	// EntityKey returns the record's key within its source collection.
	EntityKey() string

	// DisplayName returns the human-readable label for the record.
	DisplayName() string

	// Attribute looks up a named field, checking well-known typed fields
	// before the loose Attributes map. Used by configurable-field sorting.
	Attribute(name string) (any, bool)
}

// Collections bundles the six source arrays handed to the graph builder.
type Collections struct {
	Companies   []*Company
	Authorities []*Authority
	JobSeekers  []*JobSeeker
	Skills      []*Skill
	Positions   []*Position
	Matches     []*Match
}

// Signature returns a per-kind size signature. Any change in collection
// sizes changes the signature; in-place edits that keep sizes constant do
// not, which is the accepted staleness window of the full-graph cache.
func (c *Collections) Signature() string {
	return fmt.Sprintf("c%d-a%d-j%d-s%d-p%d-m%d",
		len(c.Companies), len(c.Authorities), len(c.JobSeekers),
		len(c.Skills), len(c.Positions), len(c.Matches))
}

// Total returns the total record count across all six collections.
func (c *Collections) Total() int {
	return len(c.Companies) + len(c.Authorities) + len(c.JobSeekers) +
		len(c.Skills) + len(c.Positions) + len(c.Matches)
}

// attributeOf resolves a named field against a set of typed values and a
// loose attribute map, preferring the typed values.
func attributeOf(typed map[string]any, attrs map[string]any, name string) (any, bool) {
	if v, ok := typed[name]; ok {
		return v, true
	}
	if attrs != nil {
		if v, ok := attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// TimeValue converts the loosely-typed timestamp representations seen in
// source records (time.Time, RFC 3339 string, unix millis) to time.Time.
// Unrecognized values map to the zero time, which temporal sorting treats
// as the epoch.
func TimeValue(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	case float64:
		return time.UnixMilli(int64(t))
	case int64:
		return time.UnixMilli(t)
	}
	return time.Time{}
}

// NodeIDFor builds the kind-prefixed node id for an entity key. It is the
// single place where collection keys are mapped into graph ids.
func NodeIDFor(t valueobjects.NodeType, key string) valueobjects.NodeID {
	id, err := valueobjects.NewNodeID(t, key)
	if err != nil {
		return ""
	}
	return id
}
