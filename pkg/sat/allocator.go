package sat

import "fmt"

// Allocator issues fresh variable ids for a whole compilation session. Ids are handed out
// monotonically and never reused, 0 is never issued.
//
// An Allocator is not safe for concurrent use; parallel encoders take disjoint blocks through
// Reserve and allocate from those instead.
type Allocator struct {
	next int64
	// limit is the first id outside the block owned by this allocator (0 means unbounded)
	limit int64
}

// NewAllocator returns an allocator whose first issued id is next
func NewAllocator(next int64) *Allocator {
	if next < 1 {
		next = 1
	}
	return &Allocator{next: next}
}

// Next issues a single fresh id
func (allocator *Allocator) Next() int64 {
	return allocator.Allocate(1)[0]
}

// Allocate issues count consecutive fresh ids
func (allocator *Allocator) Allocate(count int) []int64 {
	if count < 0 {
		panic(fmt.Sprintf("cannot allocate a negative number of variables: %d", count))
	}
	if allocator.limit != 0 && allocator.next+int64(count) > allocator.limit {
		panic(fmt.Sprintf("reserved block exhausted: need %d ids from %d, block ends at %d", count, allocator.next, allocator.limit))
	}

	ids := make([]int64, count)
	for i := range ids {
		ids[i] = allocator.next + int64(i)
	}
	allocator.next += int64(count)
	return ids
}

// Peek returns the id the next allocation would start at
func (allocator *Allocator) Peek() int64 {
	return allocator.next
}

// Last returns the id just below Peek, the highest one issued when the allocator started at 1
func (allocator *Allocator) Last() int64 {
	return allocator.next - 1
}

// Reserve carves a block of count ids out of this allocator and returns an allocator that owns
// exactly that block. Ids of the block that are never allocated stay unused.
func (allocator *Allocator) Reserve(count int) *Allocator {
	start := allocator.next
	allocator.Allocate(count)
	return &Allocator{next: start, limit: start + int64(count)}
}
