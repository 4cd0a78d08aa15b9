package structure

import "math/rand"

// Skip list geometry. Heights are drawn by repeated coin flips with
// probability 1/HeightP, capped at MaxHeight.
const (
	MaxHeight = 16
	HeightP   = 4
)

// node is one element of the ordered index. Nodes live in the pool's
// arena; forward pointers are slot indices, not Go pointers.
type node[V any] struct {
	key     int64
	height  int32
	forward [MaxHeight]int32
	value   V
}

// SkipList is an ordered map from int64 key to V, backed by an
// arena-pooled probabilistic skip list. A hash index gives O(1) point
// lookup and a cached tail gives O(1) access to the maximum key.
//
// The value returned by InsertOrGet points into the arena and stays
// valid until the node is deleted.
type SkipList[V any] struct {
	pool   *NodePool[node[V]]
	lookup map[int64]Handle
	head   int32
	tail   int32
	level  int32
	count  int
	rng    *rand.Rand
}

// NewSkipList creates a skip list able to hold capacity nodes.
func NewSkipList[V any](capacity int32, seed int64) *SkipList[V] {
	// one extra slot for the head sentinel
	pool := NewNodePool[node[V]](capacity + 1)

	sl := &SkipList[V]{
		pool:   pool,
		lookup: make(map[int64]Handle, capacity),
		tail:   NullIndex,
		level:  1,
		rng:    rand.New(rand.NewSource(seed)),
	}

	h, sentinel, err := pool.Get()
	if err != nil {
		panic(err) // capacity+1 >= 1, cannot happen
	}
	sl.head = h.idx
	sentinel.height = MaxHeight
	for i := range sentinel.forward {
		sentinel.forward[i] = NullIndex
	}
	return sl
}

// randomHeight draws a node height in [1, MaxHeight].
func (sl *SkipList[V]) randomHeight() int32 {
	height := int32(1)
	for height < MaxHeight && sl.rng.Intn(HeightP) == 0 {
		height++
	}
	return height
}

// descend walks from the top level down, recording at each level the
// last node whose successor key is not less than key.
func (sl *SkipList[V]) descend(key int64, update *[MaxHeight]int32) int32 {
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for next := sl.pool.at(x).forward[i]; next != NullIndex && sl.pool.at(next).key < key; next = sl.pool.at(x).forward[i] {
			x = next
		}
		update[i] = x
	}
	return sl.pool.at(x).forward[0]
}

// InsertOrGet returns the node for key, creating it if absent. The
// returned value pointer is default-initialized on creation and is the
// caller's to populate. Errors only on arena exhaustion.
func (sl *SkipList[V]) InsertOrGet(key int64) (Handle, *V, error) {
	if h, ok := sl.lookup[key]; ok {
		n, ok := sl.pool.Deref(h)
		if !ok {
			// lookup and pool disagree; the index is corrupt
			return NilHandle, nil, ErrStaleHandle
		}
		return h, &n.value, nil
	}

	var update [MaxHeight]int32
	sl.descend(key, &update)

	height := sl.randomHeight()
	h, n, err := sl.pool.Get()
	if err != nil {
		return NilHandle, nil, err
	}
	if height > sl.level {
		for i := sl.level; i < height; i++ {
			update[i] = sl.head
		}
		sl.level = height
	}
	n.key = key
	n.height = height
	for i := range n.forward {
		n.forward[i] = NullIndex
	}
	for i := int32(0); i < height; i++ {
		pred := sl.pool.at(update[i])
		n.forward[i] = pred.forward[i]
		pred.forward[i] = h.idx
	}

	sl.lookup[key] = h
	if n.forward[0] == NullIndex {
		sl.tail = h.idx
	}
	sl.count++
	return h, &n.value, nil
}

// Get returns the node for key without inserting.
func (sl *SkipList[V]) Get(key int64) (Handle, *V, bool) {
	h, ok := sl.lookup[key]
	if !ok {
		return NilHandle, nil, false
	}
	n, ok := sl.pool.Deref(h)
	if !ok {
		return NilHandle, nil, false
	}
	return h, &n.value, true
}

// Delete unlinks the node for key and recycles it. Returns false if no
// node carries exactly that key. A slot the pool refuses to take back
// means the lookup index and the pool disagree; that error must reach
// the caller.
func (sl *SkipList[V]) Delete(key int64) (bool, error) {
	var update [MaxHeight]int32
	target := sl.descend(key, &update)

	if target == NullIndex || sl.pool.at(target).key != key {
		return false, nil
	}

	if sl.pool.at(target).forward[0] == NullIndex {
		// removing the tail; predecessor becomes the new tail
		if update[0] == sl.head && sl.count == 1 {
			sl.tail = NullIndex
		} else {
			sl.tail = update[0]
		}
	}

	for i := int32(0); i < sl.level; i++ {
		pred := sl.pool.at(update[i])
		if pred.forward[i] != target {
			break
		}
		pred.forward[i] = sl.pool.at(target).forward[i]
	}

	for sl.level > 1 && sl.pool.at(sl.head).forward[sl.level-1] == NullIndex {
		sl.level--
	}

	// recycle through the handle issued at insert time; its generation
	// check catches a slot freed behind the index's back
	h, ok := sl.lookup[key]
	delete(sl.lookup, key)
	sl.count--
	if !ok || h.idx != target {
		return true, ErrStaleHandle
	}
	if err := sl.pool.Put(h); err != nil {
		return true, err
	}
	return true, nil
}

// Head returns the minimum-key node.
func (sl *SkipList[V]) Head() (Handle, bool) {
	first := sl.pool.at(sl.head).forward[0]
	if first == NullIndex {
		return NilHandle, false
	}
	return sl.pool.handleAt(first), true
}

// Max returns the cached maximum-key node.
func (sl *SkipList[V]) Max() (Handle, bool) {
	if sl.tail == NullIndex {
		return NilHandle, false
	}
	return sl.pool.handleAt(sl.tail), true
}

// Next returns the level-0 successor of h.
func (sl *SkipList[V]) Next(h Handle) (Handle, bool) {
	n, ok := sl.pool.Deref(h)
	if !ok {
		return NilHandle, false
	}
	succ := n.forward[0]
	if succ == NullIndex {
		return NilHandle, false
	}
	return sl.pool.handleAt(succ), true
}

// Key returns the key stored at h.
func (sl *SkipList[V]) Key(h Handle) (int64, bool) {
	n, ok := sl.pool.Deref(h)
	if !ok {
		return 0, false
	}
	return n.key, true
}

// Value returns the value stored at h.
func (sl *SkipList[V]) Value(h Handle) (*V, bool) {
	n, ok := sl.pool.Deref(h)
	if !ok {
		return nil, false
	}
	return &n.value, true
}

// Len returns the number of nodes, excluding the sentinel.
func (sl *SkipList[V]) Len() int {
	return sl.count
}

// Keys returns all keys in ascending order. Intended for tests and
// diagnostics.
func (sl *SkipList[V]) Keys() []int64 {
	keys := make([]int64, 0, sl.count)
	for x := sl.pool.at(sl.head).forward[0]; x != NullIndex; x = sl.pool.at(x).forward[0] {
		keys = append(keys, sl.pool.at(x).key)
	}
	return keys
}
