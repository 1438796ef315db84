package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "github.com/familiarcat/candid-graph-engine/pkg/errors"
)

// NodeID is a globally unique, kind-prefixed node identifier
// (e.g. "company-acme"). The prefix keeps keys from different source
// collections from colliding in the unified graph.
type NodeID string

// NewNodeID creates a node id from a type and a source-collection key
func NewNodeID(nodeType NodeType, key string) (NodeID, error) {
	if key == "" {
		return "", pkgerrors.NewValidation("node key is required")
	}
	if !nodeType.IsValid() {
		return "", pkgerrors.NewValidation(fmt.Sprintf("unknown node type %q", nodeType))
	}
	return NodeID(string(nodeType) + "-" + key), nil
}

// String returns the string representation
func (id NodeID) String() string {
	return string(id)
}

// Type extracts the kind prefix, or empty string if the id is unprefixed.
func (id NodeID) Type() NodeType {
	prefix, _, ok := strings.Cut(string(id), "-")
	if !ok {
		return ""
	}
	t := NodeType(prefix)
	if !t.IsValid() {
		return ""
	}
	return t
}

// Key extracts the source-collection key portion of the id.
func (id NodeID) Key() string {
	if _, key, ok := strings.Cut(string(id), "-"); ok {
		return key
	}
	return string(id)
}
