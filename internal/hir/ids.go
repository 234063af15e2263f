package hir

// NodeID identifies an IR node for cross-referencing. It is a handle, never an
// ownership link. Zero means "no id".
type NodeID uint64

// IDAllocator hands out node ids for one unification session
type IDAllocator struct {
	next NodeID
}

// NewIDAllocator creates an allocator whose first id is 1
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1} // 0 is reserved for "no id"
}

// Next returns a fresh id. Ids are never reused until Reset.
func (a *IDAllocator) Next() NodeID {
	if a.next == 0 {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// Peek returns the id the next call to Next will hand out
func (a *IDAllocator) Peek() NodeID {
	if a.next == 0 {
		return 1
	}
	return a.next
}

// Reset restarts numbering at 1. Only safe once every tree built from the
// previous ids has been discarded.
func (a *IDAllocator) Reset() {
	a.next = 1
}
