package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Identifier Allocator
// =============================================================================

// Identifier prefixes. Prefixes exist for readability only; uniqueness comes
// from the shared counter.
const (
	shapeIDPrefix      = "shape_"
	connectionIDPrefix = "conn_"
)

// idAllocator produces unique cell identifiers within one Document.
// A single monotonic counter is shared by both namespaces, so no two calls
// ever return the same value regardless of kind.
//
// The allocator is not safe for concurrent use on its own; the owning
// Document serializes access.
type idAllocator struct {
	next int
}

func newIDAllocator() idAllocator {
	return idAllocator{next: 1}
}

// nextID returns a fresh identifier for the given cell kind.
func (a *idAllocator) nextID(kind CellKind) string {
	prefix := shapeIDPrefix
	if kind == KindConnection {
		prefix = connectionIDPrefix
	}
	id := fmt.Sprintf("%s%d", prefix, a.next)
	a.next++
	return id
}

// advancePast moves the counter beyond any numeric suffix found in id.
// Called for every identifier adopted from parsed XML so that subsequent
// allocations never collide with pre-existing cells.
func (a *idAllocator) advancePast(id string) {
	idx := strings.LastIndexByte(id, '_')
	if idx < 0 || idx == len(id)-1 {
		return
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return
	}
	if n >= a.next {
		a.next = n + 1
	}
}
