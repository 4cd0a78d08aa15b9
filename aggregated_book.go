package match

import (
	"sync"

	"github.com/igrmk/treemap/v2"
)

// DepthChange describes how a single event moves aggregated liquidity:
// which side, at which price, and by how much. A zero SizeDiff means
// the event carries no depth impact.
type DepthChange struct {
	Side     Side
	Price    Price
	SizeDiff Quantity
}

// CalculateDepthChange derives the depth delta of one event.
// For trade_executed the event's Side is the aggressor's, so the
// liquidity leaves the opposite side. For order_modified the delta is
// Quantity minus OldQuantity; the engine only emits in-place shrinks
// as modifications, so the diff is never positive there.
func CalculateDepthChange(ev Event) DepthChange {
	switch ev.Type {
	case EventOrderAdded:
		return DepthChange{
			Side:     ev.Side,
			Price:    ev.Price,
			SizeDiff: ev.Quantity,
		}
	case EventOrderCanceled:
		return DepthChange{
			Side:     ev.Side,
			Price:    ev.Price,
			SizeDiff: -ev.Quantity,
		}
	case EventTradeExecuted:
		return DepthChange{
			Side:     ev.Side.Opposite(),
			Price:    ev.Price,
			SizeDiff: -ev.Quantity,
		}
	case EventOrderModified:
		return DepthChange{
			Side:     ev.Side,
			Price:    ev.Price,
			SizeDiff: ev.Quantity - ev.OldQuantity,
		}
	}
	return DepthChange{}
}

// AggregatedBook maintains a simplified view of one instrument's book,
// tracking only price levels and their aggregated sizes. It is built
// for downstream consumers that rebuild book state from the event
// stream rather than reading the engine directly.
type AggregatedBook struct {
	mu     sync.RWMutex
	symbol string
	asks   *treemap.TreeMap[Price, Quantity]
	bids   *treemap.TreeMap[Price, Quantity]
}

// NewAggregatedBook creates an empty aggregated view for one symbol.
// Both sides sort ascending; bid iteration walks from the reverse end.
func NewAggregatedBook(symbol string) *AggregatedBook {
	return &AggregatedBook{
		symbol: symbol,
		asks:   treemap.New[Price, Quantity](),
		bids:   treemap.New[Price, Quantity](),
	}
}

func (ab *AggregatedBook) Symbol() string {
	return ab.symbol
}

// Apply folds one event into the aggregated state. Events for other
// symbols and events without depth impact are ignored.
func (ab *AggregatedBook) Apply(ev Event) {
	if ev.Symbol != ab.symbol {
		return
	}
	change := CalculateDepthChange(ev)
	if change.SizeDiff == 0 {
		return
	}

	ab.mu.Lock()
	defer ab.mu.Unlock()

	tree := ab.asks
	if change.Side == Buy {
		tree = ab.bids
	}
	current, _ := tree.Get(change.Price)
	next := current + change.SizeDiff
	if next <= 0 {
		tree.Del(change.Price)
		return
	}
	tree.Set(change.Price, next)
}

// Depth returns the aggregated size at a specific price level.
func (ab *AggregatedBook) Depth(side Side, price Price) Quantity {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	tree := ab.asks
	if side == Buy {
		tree = ab.bids
	}
	qty, _ := tree.Get(price)
	return qty
}

// BestBid returns the highest bid level with liquidity.
func (ab *AggregatedBook) BestBid() (LevelSummary, bool) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()
	it := ab.bids.Reverse()
	if !it.Valid() {
		return LevelSummary{}, false
	}
	return LevelSummary{Price: it.Key(), TotalQty: it.Value()}, true
}

// BestAsk returns the lowest ask level with liquidity.
func (ab *AggregatedBook) BestAsk() (LevelSummary, bool) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()
	it := ab.asks.Iterator()
	if !it.Valid() {
		return LevelSummary{}, false
	}
	return LevelSummary{Price: it.Key(), TotalQty: it.Value()}, true
}

// Levels returns up to limit levels of one side, best first. A limit
// of zero or less returns every level.
func (ab *AggregatedBook) Levels(side Side, limit int) []LevelSummary {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	var out []LevelSummary
	if side == Buy {
		for it := ab.bids.Reverse(); it.Valid(); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, LevelSummary{Price: it.Key(), TotalQty: it.Value()})
		}
		return out
	}
	for it := ab.asks.Iterator(); it.Valid(); it.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, LevelSummary{Price: it.Key(), TotalQty: it.Value()})
	}
	return out
}
