package structure

import "errors"

// NullIndex marks an empty slot reference.
const NullIndex int32 = -1

var (
	// ErrArenaExhausted is returned when the arena has no capacity left.
	// The arena never grows; size it generously at construction.
	ErrArenaExhausted = errors.New("structure: arena exhausted")

	// ErrStaleHandle is returned when a handle refers to a slot that has
	// been recycled since the handle was issued.
	ErrStaleHandle = errors.New("structure: stale handle")
)

// Arena is a bump allocator over one pre-sized slab of T.
// Individual slots are never returned to the arena; recycling is the
// NodePool's job. Reset invalidates every slot at once.
type Arena[T any] struct {
	slots  []T
	offset int32
}

// NewArena creates an arena with a fixed capacity.
func NewArena[T any](capacity int32) *Arena[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Arena[T]{
		slots: make([]T, capacity),
	}
}

// Alloc claims the next unused slot and returns its index.
func (a *Arena[T]) Alloc() (int32, error) {
	if a.offset >= int32(len(a.slots)) {
		return NullIndex, ErrArenaExhausted
	}
	idx := a.offset
	a.offset++
	return idx, nil
}

// At returns the slot at idx. The index must have been issued by Alloc.
func (a *Arena[T]) At(idx int32) *T {
	return &a.slots[idx]
}

// Reset rewinds the arena, invalidating all previously issued slots.
func (a *Arena[T]) Reset() {
	clear(a.slots)
	a.offset = 0
}

// Cap returns the total slot capacity.
func (a *Arena[T]) Cap() int32 {
	return int32(len(a.slots))
}

// Used returns the number of slots ever bump-allocated.
func (a *Arena[T]) Used() int32 {
	return a.offset
}

// Handle is a generation-checked reference to a pooled slot. A handle
// issued before the slot was recycled fails validation instead of
// silently aliasing the slot's new occupant.
type Handle struct {
	idx int32
	gen uint32
}

// NilHandle is the zero reference.
var NilHandle = Handle{idx: NullIndex}

// Valid reports whether the handle refers to any slot at all.
// It does not check the generation; Deref does.
func (h Handle) Valid() bool {
	return h.idx != NullIndex
}

// NodePool recycles arena slots for one node type through a free list.
// Get pops the free list when possible and falls back to bump
// allocation; Put clears the slot, bumps its generation, and pushes it
// onto the free list. Free-list links and generations live in parallel
// slices since T is opaque to the pool.
type NodePool[T any] struct {
	arena    *Arena[T]
	nextFree []int32
	gens     []uint32
	freeHead int32
	live     int32
}

// NewNodePool creates a pool over a fresh arena of the given capacity.
func NewNodePool[T any](capacity int32) *NodePool[T] {
	arena := NewArena[T](capacity)
	links := make([]int32, arena.Cap())
	for i := range links {
		links[i] = NullIndex
	}
	return &NodePool[T]{
		arena:    arena,
		nextFree: links,
		gens:     make([]uint32, arena.Cap()),
		freeHead: NullIndex,
	}
}

// Get returns a cleared slot, recycled if any has been freed.
func (p *NodePool[T]) Get() (Handle, *T, error) {
	var idx int32
	if p.freeHead != NullIndex {
		idx = p.freeHead
		p.freeHead = p.nextFree[idx]
		p.nextFree[idx] = NullIndex
		var zero T
		*p.arena.At(idx) = zero
	} else {
		var err error
		idx, err = p.arena.Alloc()
		if err != nil {
			return NilHandle, nil, err
		}
	}
	p.live++
	return Handle{idx: idx, gen: p.gens[idx]}, p.arena.At(idx), nil
}

// Put returns a slot to the free list and invalidates outstanding
// handles to it.
func (p *NodePool[T]) Put(h Handle) error {
	if !h.Valid() || h.gen != p.gens[h.idx] {
		return ErrStaleHandle
	}
	p.gens[h.idx]++
	p.nextFree[h.idx] = p.freeHead
	p.freeHead = h.idx
	p.live--
	return nil
}

// Deref resolves a handle, failing on recycled slots.
func (p *NodePool[T]) Deref(h Handle) (*T, bool) {
	if !h.Valid() || h.gen != p.gens[h.idx] {
		return nil, false
	}
	return p.arena.At(h.idx), true
}

// at resolves a raw slot index without a generation check. Callers
// inside the package must only pass indices of live slots.
func (p *NodePool[T]) at(idx int32) *T {
	return p.arena.At(idx)
}

// handleAt issues a handle for a live slot index.
func (p *NodePool[T]) handleAt(idx int32) Handle {
	return Handle{idx: idx, gen: p.gens[idx]}
}

// Live returns the number of slots currently checked out.
func (p *NodePool[T]) Live() int32 {
	return p.live
}

// Reset tears down the pool and its arena. All handles become stale.
func (p *NodePool[T]) Reset() {
	p.arena.Reset()
	for i := range p.nextFree {
		p.nextFree[i] = NullIndex
		p.gens[i]++
	}
	p.freeHead = NullIndex
	p.live = 0
}
