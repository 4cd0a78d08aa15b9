package match

import (
	"time"

	"github.com/lobworks/matchbook/structure"
)

// DefaultMaxPriceLevels is the per-side index capacity used when the
// symbol config does not set one. The arena behind each index never
// grows, so this bounds the number of distinct live prices per side.
const DefaultMaxPriceLevels = 4096

// orderRef ties a resting order to the level holding it, giving cancel
// and modify O(1) access without walking the index.
type orderRef struct {
	level *PriceLevel
	order *Order
}

// OrderBook is the authoritative book for one instrument. Bids and asks
// are separate skip lists; bid keys are sign-negated so ascending key
// order is best-first on both sides and Head is always the best level.
//
// The book performs no internal locking. All mutation must be
// serialized per instrument by the caller (the engine's shard mutex).
type OrderBook struct {
	symbol string
	bids   *structure.SkipList[PriceLevel]
	asks   *structure.SkipList[PriceLevel]
	orders map[OrderID]orderRef
}

// NewOrderBook creates an empty book with the given per-side level
// capacity.
func NewOrderBook(symbol string, maxLevels int32) *OrderBook {
	if maxLevels <= 0 {
		maxLevels = DefaultMaxPriceLevels
	}
	seed := time.Now().UnixNano()
	return &OrderBook{
		symbol: symbol,
		bids:   structure.NewSkipList[PriceLevel](maxLevels, seed),
		asks:   structure.NewSkipList[PriceLevel](maxLevels, seed+1),
		orders: make(map[OrderID]orderRef),
	}
}

// Symbol returns the instrument name the book was created for.
func (book *OrderBook) Symbol() string {
	return book.symbol
}

// sideIndex returns the index holding resting orders of the given side.
func (book *OrderBook) sideIndex(side Side) *structure.SkipList[PriceLevel] {
	if side == Buy {
		return book.bids
	}
	return book.asks
}

// levelKey maps a price to its index key. Bid keys are negated so the
// highest bid sorts first.
func levelKey(side Side, price Price) int64 {
	if side == Buy {
		return -int64(price)
	}
	return int64(price)
}

// AddOrder rests a limit order in the book, creating its price level if
// needed. The returned error is fatal (arena exhaustion); every other
// failure is a BookResult.
func (book *OrderBook) AddOrder(order *Order) (BookResult, error) {
	if order.Quantity <= 0 {
		return BookInvalidQty, nil
	}
	if order.Price <= 0 {
		return BookPriceOutOfRange, nil
	}
	if order.Kind != Limit {
		// market orders never rest
		return BookTypeNotSupported, nil
	}
	if _, exists := book.orders[order.ID]; exists {
		return BookDuplicateOrder, nil
	}

	index := book.sideIndex(order.Side)
	_, level, err := index.InsertOrGet(levelKey(order.Side, order.Price))
	if err != nil {
		return BookSuccess, err
	}
	if level.Count() == 0 {
		// freshly created node: fix the level price once
		level.price = order.Price
	}

	level.AddOrder(order)
	book.orders[order.ID] = orderRef{level: level, order: order}
	return BookSuccess, nil
}

// CancelOrder removes the order and destroys its level the moment the
// level empties. A level the index cannot delete indicates a corrupted
// index and is fatal.
func (book *OrderBook) CancelOrder(id OrderID) (BookResult, error) {
	ref, ok := book.orders[id]
	if !ok {
		return BookOrderNotFound, nil
	}

	side := ref.order.Side
	price := ref.level.Price()
	ref.level.RemoveOrder(ref.order)
	delete(book.orders, id)

	if ref.level.Count() == 0 {
		ok, err := book.sideIndex(side).Delete(levelKey(side, price))
		if err != nil {
			return BookSuccess, err
		}
		if !ok {
			return BookSuccess, ErrIndexCorrupted
		}
	}
	return BookSuccess, nil
}

// ModifyOrder shrinks a resting order in place. A newQty of zero is a
// cancel. Quantity increases are refused here; they lose time priority
// and must go through the engine's replace path.
func (book *OrderBook) ModifyOrder(id OrderID, newQty Quantity) (ModifyResult, error) {
	ref, ok := book.orders[id]
	if !ok {
		return ModifyOrderNotFound, nil
	}
	if newQty < 0 {
		return ModifyRejected, nil
	}
	if newQty == 0 {
		res, err := book.CancelOrder(id)
		if err != nil {
			return ModifyRejected, err
		}
		if res != BookSuccess {
			return ModifyRejected, nil
		}
		return ModifySuccess, nil
	}
	return ref.level.ReduceOrder(ref.order, newQty), nil
}

// bestLevel returns the head level of an index.
func (book *OrderBook) bestLevel(index *structure.SkipList[PriceLevel]) *PriceLevel {
	h, ok := index.Head()
	if !ok {
		return nil
	}
	level, ok := index.Value(h)
	if !ok {
		return nil
	}
	return level
}

// BestBid returns the highest-priced bid level.
func (book *OrderBook) BestBid() (LevelSummary, bool) {
	level := book.bestLevel(book.bids)
	if level == nil {
		return LevelSummary{}, false
	}
	return level.Summary(), true
}

// BestAsk returns the lowest-priced ask level.
func (book *OrderBook) BestAsk() (LevelSummary, bool) {
	level := book.bestLevel(book.asks)
	if level == nil {
		return LevelSummary{}, false
	}
	return level.Summary(), true
}

// FindOrder returns the current state of a resting order.
func (book *OrderBook) FindOrder(id OrderID) (OrderSnapshot, bool) {
	ref, ok := book.orders[id]
	if !ok {
		return OrderSnapshot{}, false
	}
	o := ref.order
	return OrderSnapshot{
		ID:        o.ID,
		Price:     o.Price,
		Quantity:  o.Quantity,
		Kind:      o.Kind,
		TIF:       o.TIF,
		Side:      o.Side,
		Timestamp: o.Timestamp,
	}, true
}

// Depth returns up to limit level summaries, best price first. A limit
// of zero or less returns every level.
func (book *OrderBook) Depth(side Side, limit int) []LevelSummary {
	index := book.sideIndex(side)
	if limit <= 0 {
		limit = index.Len()
	}
	result := make([]LevelSummary, 0, limit)

	h, ok := index.Head()
	for ok && len(result) < limit {
		level, valid := index.Value(h)
		if !valid {
			break
		}
		result = append(result, level.Summary())
		h, ok = index.Next(h)
	}
	return result
}

// OrderCount returns the number of resting orders across both sides.
func (book *OrderBook) OrderCount() int {
	return len(book.orders)
}

// LevelCount returns the number of live price levels on one side.
func (book *OrderBook) LevelCount(side Side) int {
	return book.sideIndex(side).Len()
}
