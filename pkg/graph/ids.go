package graph

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// NodeID is a content-addressed identifier for graph nodes. It is the
// hex-encoded xxhash of the node's path (e.g. "defpart/front").
type NodeID string

// ZeroID is the empty NodeID.
const ZeroID NodeID = ""

// NewNodeID derives a NodeID from a node path. Equal paths always produce
// equal IDs, so re-evaluating the same source yields the same graph.
func NewNodeID(path string) NodeID {
	return NodeID(fmt.Sprintf("%016x", xxhash.Sum64String(path)))
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first 8 characters of the ID for log and error messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

func (id NodeID) String() string {
	return string(id)
}
