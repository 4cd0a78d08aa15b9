package match

import (
	"sync"
	"sync/atomic"
	"time"
)

// idGenerator issues process-unique order and trade ids. It is owned by
// the engine instance, so two engines never share counter state. The
// counters are atomic so submissions on different instruments can draw
// ids without coordination; ids are monotonic and never reused.
type idGenerator struct {
	orderID atomic.Uint64
	tradeID atomic.Uint64
}

func (g *idGenerator) nextOrderID() OrderID {
	return OrderID(g.orderID.Add(1))
}

func (g *idGenerator) nextTradeID() TradeID {
	return TradeID(g.tradeID.Add(1))
}

// bookShard pairs a book with the mutex serializing all mutation of
// that instrument. Cancel-then-resubmit inside ModifyOrder runs under
// one acquisition, so no observer sees the order absent without also
// seeing its replacement.
type bookShard struct {
	mu   sync.Mutex
	book *OrderBook
}

// MatchingEngine owns one order book per configured instrument and
// runs the matching algorithm. The symbol set is fixed at construction;
// the config source is consumed once and never re-read.
type MatchingEngine struct {
	shards    map[SymbolID]*bookShard
	symbolIDs map[string]SymbolID
	routes    sync.Map // OrderID -> *bookShard, resting orders only
	ids       idGenerator
	sink      EventSink
}

// NewMatchingEngine builds the engine from a validated config. Symbol
// ids are assigned in config order starting at 1.
func NewMatchingEngine(cfg Config, sink EventSink) *MatchingEngine {
	if sink == nil {
		sink = NewDiscardSink()
	}

	engine := &MatchingEngine{
		shards:    make(map[SymbolID]*bookShard, len(cfg.Symbols)),
		symbolIDs: make(map[string]SymbolID, len(cfg.Symbols)),
		sink:      sink,
	}
	for i, sc := range cfg.Symbols {
		id := SymbolID(i + 1)
		engine.shards[id] = &bookShard{book: NewOrderBook(sc.Name, sc.MaxPriceLevels)}
		engine.symbolIDs[sc.Name] = id
	}
	return engine
}

// ResolveSymbol maps an instrument name to its id.
func (engine *MatchingEngine) ResolveSymbol(name string) (SymbolID, bool) {
	id, ok := engine.symbolIDs[name]
	return id, ok
}

// SubmitOrder issues a fresh order id and runs the incoming order
// through matching. The error return carries only fatal conditions
// (index corruption, arena exhaustion); everything recoverable is an
// outcome code.
func (engine *MatchingEngine) SubmitOrder(symbol SymbolID, price Price, qty Quantity, side Side, kind OrderKind, tif TimeInForce) (SubmitResult, error) {
	shard, ok := engine.shards[symbol]
	if !ok {
		return SubmitResult{Match: MatchResult{Outcome: EngineSymbolNotFound}}, nil
	}
	if qty <= 0 || side != Buy && side != Sell || kind == Limit && price <= 0 {
		return SubmitResult{Match: MatchResult{Outcome: EngineFailed}}, nil
	}

	order := &Order{
		ID:        engine.ids.nextOrderID(),
		Price:     price,
		Quantity:  qty,
		Kind:      kind,
		TIF:       tif,
		Side:      side,
		Timestamp: time.Now().UnixNano(),
	}

	logger.Info("order submitted",
		"symbol", shard.book.Symbol(),
		"order_id", uint64(order.ID),
		"side", side.String(),
		"qty", int64(qty),
		"price", int64(price))

	shard.mu.Lock()
	res, err := engine.fillOrder(shard, order)
	shard.mu.Unlock()

	return SubmitResult{OrderID: order.ID, Match: res}, err
}

// isPriceMoreAggressive reports whether price crosses other for the
// given side. Equal prices always cross.
func isPriceMoreAggressive(price, other Price, side Side) bool {
	if price == other {
		return true
	}
	if side == Buy {
		return price > other
	}
	return price < other
}

// canFillAll is the FOK pre-screen. It walks the opposing side from
// best to worst, accumulating resting liquidity, without mutating the
// book. The walk stops where the fill loop would stop: at the first
// level a limit price cannot cross.
func (engine *MatchingEngine) canFillAll(book *OrderBook, incoming *Order) bool {
	opposing := book.sideIndex(incoming.Side.Opposite())
	remaining := incoming.Quantity

	h, ok := opposing.Head()
	for ok && remaining > 0 {
		level, valid := opposing.Value(h)
		if !valid {
			return false
		}
		if incoming.Kind == Limit && !isPriceMoreAggressive(incoming.Price, level.Price(), incoming.Side) {
			return false
		}
		remaining -= level.TotalQuantity()
		h, ok = opposing.Next(h)
	}
	return remaining <= 0
}

// fillOrder runs the matching algorithm for one incoming order against
// its book. The shard mutex must be held.
//
// FOK orders are pre-screened so they either fill completely or leave
// the book untouched. The loop fills against the opposing best level's
// front order at the resting price until the remainder is zero, the
// spread stops crossing, or the opposing side empties. A GTC limit
// remainder rests; market, IOC and FOK remainders are discarded.
func (engine *MatchingEngine) fillOrder(shard *bookShard, incoming *Order) (MatchResult, error) {
	book := shard.book
	res := MatchResult{Outcome: EngineSuccess}

	if incoming.TIF == FOK {
		if !engine.canFillAll(book, incoming) {
			logger.Info("fok pre-screen failed",
				"symbol", book.Symbol(),
				"order_id", uint64(incoming.ID))
			res.Outcome = EngineNotEnoughLiquidity
			return res, nil
		}
	}

	for incoming.Quantity > 0 {
		var best *PriceLevel
		if incoming.Side == Buy {
			best = book.bestLevel(book.asks)
		} else {
			best = book.bestLevel(book.bids)
		}
		if best == nil {
			// opposing side exhausted with quantity outstanding
			res.Outcome = EngineNotEnoughLiquidity
			break
		}

		if incoming.Kind == Limit && !isPriceMoreAggressive(incoming.Price, best.Price(), incoming.Side) {
			break
		}

		resting := best.Front()
		fillQty := min(incoming.Quantity, resting.Quantity)
		execPrice := best.Price()
		now := time.Now().UnixNano()

		trade := Trade{
			ID:       engine.ids.nextTradeID(),
			Symbol:   book.Symbol(),
			Price:    execPrice,
			Quantity: fillQty,
			Aggressor: Fill{
				OrderID:  incoming.ID,
				Quantity: fillQty,
				Price:    execPrice,
				Time:     now,
				Side:     incoming.Side,
			},
			Resting: Fill{
				OrderID:  resting.ID,
				Quantity: fillQty,
				Price:    execPrice,
				Time:     now,
				Side:     resting.Side,
			},
		}

		incoming.Quantity -= fillQty
		restingID := resting.ID
		if fillQty == resting.Quantity {
			bres, err := book.CancelOrder(restingID)
			if err != nil {
				return res, err
			}
			if bres != BookSuccess {
				return res, ErrIndexCorrupted
			}
			engine.routes.Delete(restingID)
		} else {
			mres, err := book.ModifyOrder(restingID, resting.Quantity-fillQty)
			if err != nil {
				return res, err
			}
			if mres != ModifySuccess {
				return res, ErrIndexCorrupted
			}
		}

		res.Trades = append(res.Trades, trade)
		engine.sink.Emit(Event{
			ID:        newEventID(),
			Type:      EventTradeExecuted,
			Symbol:    book.Symbol(),
			OrderID:   incoming.ID,
			TradeID:   trade.ID,
			Side:      incoming.Side,
			Price:     execPrice,
			Quantity:  fillQty,
			Timestamp: now,
		})
	}

	if incoming.TIF == GTC && incoming.Kind == Limit && incoming.Quantity > 0 {
		bres, err := book.AddOrder(incoming)
		if err != nil {
			return res, err
		}
		if bres != BookSuccess {
			// fresh engine-issued id; any rejection here is a bug
			return res, ErrIndexCorrupted
		}
		engine.routes.Store(incoming.ID, shard)
		engine.sink.Emit(Event{
			ID:        newEventID(),
			Type:      EventOrderAdded,
			Symbol:    book.Symbol(),
			OrderID:   incoming.ID,
			Side:      incoming.Side,
			Price:     incoming.Price,
			Quantity:  incoming.Quantity,
			Timestamp: time.Now().UnixNano(),
		})
	}

	return res, nil
}

// CancelOrder removes a resting order wherever it rests.
func (engine *MatchingEngine) CancelOrder(id OrderID) (EngineResult, error) {
	value, ok := engine.routes.Load(id)
	if !ok {
		return EngineOrderNotFound, nil
	}
	shard := value.(*bookShard)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	snap, found := shard.book.FindOrder(id)
	if !found {
		engine.routes.Delete(id)
		return EngineOrderNotFound, nil
	}

	bres, err := shard.book.CancelOrder(id)
	if err != nil {
		return EngineFailed, err
	}
	if bres != BookSuccess {
		return EngineOrderNotFound, nil
	}
	engine.routes.Delete(id)

	engine.sink.Emit(Event{
		ID:        newEventID(),
		Type:      EventOrderCanceled,
		Symbol:    shard.book.Symbol(),
		OrderID:   id,
		Side:      snap.Side,
		Price:     snap.Price,
		Quantity:  snap.Quantity,
		Timestamp: time.Now().UnixNano(),
	})
	return EngineSuccess, nil
}

// ModifyOrder changes a resting order's quantity and optionally its
// price. A price change or a quantity increase forfeits time priority:
// the original is canceled and a fresh order carrying the same id is
// resubmitted through full matching, all under the instrument's lock,
// and the outcome is Replaced. A pure shrink keeps priority. newQty of
// zero cancels. A request changing nothing is a no-op.
func (engine *MatchingEngine) ModifyOrder(id OrderID, newQty Quantity, newPrice *Price) (ModifyResult, error) {
	value, ok := engine.routes.Load(id)
	if !ok {
		return ModifyOrderNotFound, nil
	}
	shard := value.(*bookShard)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	snap, found := shard.book.FindOrder(id)
	if !found {
		engine.routes.Delete(id)
		return ModifyOrderNotFound, nil
	}

	if newQty < 0 {
		return ModifyRejected, nil
	}

	price := snap.Price
	if newPrice != nil {
		price = *newPrice
	}

	switch {
	case price == snap.Price && newQty == snap.Quantity:
		return ModifySuccess, nil

	case newQty == 0:
		bres, err := shard.book.CancelOrder(id)
		if err != nil {
			return ModifyRejected, err
		}
		if bres != BookSuccess {
			return ModifyOrderNotFound, nil
		}
		engine.routes.Delete(id)
		engine.sink.Emit(Event{
			ID:        newEventID(),
			Type:      EventOrderCanceled,
			Symbol:    shard.book.Symbol(),
			OrderID:   id,
			Side:      snap.Side,
			Price:     snap.Price,
			Quantity:  snap.Quantity,
			Timestamp: time.Now().UnixNano(),
		})
		return ModifySuccess, nil

	case price != snap.Price || newQty > snap.Quantity:
		if price <= 0 {
			return ModifyRejected, nil
		}

		bres, err := shard.book.CancelOrder(id)
		if err != nil {
			return ModifyRejected, err
		}
		if bres != BookSuccess {
			return ModifyRejected, ErrIndexCorrupted
		}
		engine.routes.Delete(id)

		// stream consumers see the replace as a cancel followed by
		// the replacement's own add and trade events
		engine.sink.Emit(Event{
			ID:        newEventID(),
			Type:      EventOrderCanceled,
			Symbol:    shard.book.Symbol(),
			OrderID:   id,
			Side:      snap.Side,
			Price:     snap.Price,
			Quantity:  snap.Quantity,
			Timestamp: time.Now().UnixNano(),
		})

		replacement := &Order{
			ID:        id,
			Price:     price,
			Quantity:  newQty,
			Kind:      snap.Kind,
			TIF:       snap.TIF,
			Side:      snap.Side,
			Timestamp: time.Now().UnixNano(),
		}

		logger.Info("order replaced",
			"symbol", shard.book.Symbol(),
			"order_id", uint64(id),
			"price", int64(price),
			"qty", int64(newQty))

		if _, err := engine.fillOrder(shard, replacement); err != nil {
			return ModifyRejected, err
		}
		return ModifyReplaced, nil

	default:
		mres, err := shard.book.ModifyOrder(id, newQty)
		if err != nil || mres != ModifySuccess {
			return mres, err
		}
		engine.sink.Emit(Event{
			ID:          newEventID(),
			Type:        EventOrderModified,
			Symbol:      shard.book.Symbol(),
			OrderID:     id,
			Side:        snap.Side,
			Price:       snap.Price,
			Quantity:    newQty,
			OldQuantity: snap.Quantity,
			Timestamp:   time.Now().UnixNano(),
		})
		return ModifySuccess, nil
	}
}

// BestBid returns the best bid level of an instrument.
func (engine *MatchingEngine) BestBid(symbol SymbolID) (LevelSummary, bool) {
	shard, ok := engine.shards[symbol]
	if !ok {
		return LevelSummary{}, false
	}
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.book.BestBid()
}

// BestAsk returns the best ask level of an instrument.
func (engine *MatchingEngine) BestAsk(symbol SymbolID) (LevelSummary, bool) {
	shard, ok := engine.shards[symbol]
	if !ok {
		return LevelSummary{}, false
	}
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.book.BestAsk()
}

// FindOrder returns a snapshot of a resting order.
func (engine *MatchingEngine) FindOrder(id OrderID) (OrderSnapshot, bool) {
	value, ok := engine.routes.Load(id)
	if !ok {
		return OrderSnapshot{}, false
	}
	shard := value.(*bookShard)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.book.FindOrder(id)
}

// Depth returns up to limit levels per side, best first.
func (engine *MatchingEngine) Depth(symbol SymbolID, limit int) (bids, asks []LevelSummary, ok bool) {
	shard, found := engine.shards[symbol]
	if !found {
		return nil, nil, false
	}
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.book.Depth(Buy, limit), shard.book.Depth(Sell, limit), true
}
