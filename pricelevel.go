package match

// PriceLevel is the FIFO of resting orders at one price, kept as an
// intrusive doubly-linked list. The order pointer itself is the stable
// position handle for O(1) removal and in-place shrink. The aggregate
// quantity and count are maintained incrementally so FOK pre-screening
// never iterates orders.
//
// The price is set when the level is created and never changes; the
// ordered index keys levels by price, so mutating it would corrupt the
// index. PriceLevel values live inline in skip list arena nodes and
// must stay self-contained.
type PriceLevel struct {
	price    Price
	head     *Order
	tail     *Order
	count    int32
	totalQty Quantity
}

// Price returns the level's immutable price.
func (pl *PriceLevel) Price() Price {
	return pl.price
}

// AddOrder appends the order at the FIFO tail.
func (pl *PriceLevel) AddOrder(order *Order) {
	order.prev = pl.tail
	order.next = nil
	if pl.tail != nil {
		pl.tail.next = order
	}
	pl.tail = order
	if pl.head == nil {
		pl.head = order
	}

	pl.count++
	pl.totalQty += order.Quantity
}

// RemoveOrder unlinks the order from the FIFO. The order must be a
// member of this level.
func (pl *PriceLevel) RemoveOrder(order *Order) {
	if order.prev != nil {
		order.prev.next = order.next
	} else {
		pl.head = order.next
	}
	if order.next != nil {
		order.next.prev = order.prev
	} else {
		pl.tail = order.prev
	}
	order.next = nil
	order.prev = nil

	pl.count--
	pl.totalQty -= order.Quantity
}

// ReduceOrder shrinks the order's quantity in place, preserving its
// FIFO position. Increases must go through cancel-and-resubmit so time
// priority is never kept across a size increase.
func (pl *PriceLevel) ReduceOrder(order *Order, newQty Quantity) ModifyResult {
	if newQty > order.Quantity {
		return ModifyQtyIncreaseNotAllowed
	}
	pl.totalQty -= order.Quantity - newQty
	order.Quantity = newQty
	return ModifySuccess
}

// Front returns the oldest resting order, or nil if the level is empty.
func (pl *PriceLevel) Front() *Order {
	return pl.head
}

// TotalQuantity returns the aggregate outstanding quantity.
func (pl *PriceLevel) TotalQuantity() Quantity {
	return pl.totalQty
}

// Count returns the number of resting orders.
func (pl *PriceLevel) Count() int32 {
	return pl.count
}

// Summary snapshots the level for callers outside the book.
func (pl *PriceLevel) Summary() LevelSummary {
	return LevelSummary{
		Price:    pl.price,
		TotalQty: pl.totalQty,
		Orders:   pl.count,
	}
}
