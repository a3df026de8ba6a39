package pipeline

import (
	"fmt"
	"sync/atomic"
)

// registrySeq tags every Registry so that IDs issued by one registry are
// rejected by another. Zero is never used as a tag.
var registrySeq atomic.Uint64

// ID is an opaque handle to a pipeline stored in a Registry.
//
// The zero ID is never issued and never resolves.
type ID struct {
	owner uint64
	index uint32
}

// Index returns the issuance position of the ID within its registry:
// the first pipeline created is 0, the second 1, and so on.
func (id ID) Index() int {
	return int(id.index)
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return id.owner == 0
}

// String returns a short form for logs and error messages.
func (id ID) String() string {
	if id.IsZero() {
		return "pipeline(zero)"
	}
	return fmt.Sprintf("pipeline(%d)", id.index)
}
