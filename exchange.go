package match

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Instrument carries the listing terms of one tradable symbol. Prices
// and quantities cross the exchange boundary as decimals and live
// inside the engine as integer multiples of TickSize and LotSize.
type Instrument struct {
	ID       SymbolID
	Name     string
	TickSize decimal.Decimal
	LotSize  decimal.Decimal
}

// OrderRequest is a client-facing submission. RequestID is assigned by
// the caller (or left as uuid.Nil to have the exchange assign one) and
// echoed back on the response for correlation.
type OrderRequest struct {
	RequestID uuid.UUID
	Symbol    string
	Side      Side
	Kind      OrderKind
	TIF       TimeInForce
	Price     decimal.Decimal
	Quantity  decimal.Decimal
}

// TradeQuote is one fill expressed in decimal listing units.
type TradeQuote struct {
	TradeID  TradeID
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// OrderResponse reports the outcome of a submission.
type OrderResponse struct {
	RequestID uuid.UUID
	OrderID   OrderID
	Outcome   EngineResult
	Trades    []TradeQuote
}

// Exchange wraps a MatchingEngine with decimal price and quantity
// handling. All conversion between listing units and engine ticks
// happens here; the engine below never sees a decimal.
type Exchange struct {
	engine  *MatchingEngine
	sink    *RingSink
	byName  map[string]*Instrument
	bySymID map[SymbolID]*Instrument
}

// NewExchange builds an exchange and its engine from a validated
// config.
func NewExchange(cfg Config) (*Exchange, error) {
	sink := NewRingSink(cfg.EventBufferSize)
	engine := NewMatchingEngine(cfg, sink)

	ex := &Exchange{
		engine:  engine,
		sink:    sink,
		byName:  make(map[string]*Instrument, len(cfg.Symbols)),
		bySymID: make(map[SymbolID]*Instrument, len(cfg.Symbols)),
	}
	for _, sc := range cfg.Symbols {
		id, ok := engine.ResolveSymbol(sc.Name)
		if !ok {
			return nil, fmt.Errorf("%w: symbol %q not registered", ErrInvalidParam, sc.Name)
		}
		tick, err := decimal.NewFromString(sc.TickSize)
		if err != nil {
			return nil, fmt.Errorf("symbol %q tick_size: %w", sc.Name, err)
		}
		lot, err := decimal.NewFromString(sc.LotSize)
		if err != nil {
			return nil, fmt.Errorf("symbol %q lot_size: %w", sc.Name, err)
		}
		inst := &Instrument{ID: id, Name: sc.Name, TickSize: tick, LotSize: lot}
		ex.byName[sc.Name] = inst
		ex.bySymID[id] = inst
	}
	return ex, nil
}

// Engine exposes the underlying engine for tick-level access.
func (ex *Exchange) Engine() *MatchingEngine {
	return ex.engine
}

// Events exposes the exchange's event ring.
func (ex *Exchange) Events() *RingSink {
	return ex.sink
}

// Instrument returns the listing terms for a symbol name.
func (ex *Exchange) Instrument(name string) (*Instrument, bool) {
	inst, ok := ex.byName[name]
	return inst, ok
}

// priceToTicks converts a decimal price to engine ticks. The price
// must be an exact positive multiple of the tick size.
func (inst *Instrument) priceToTicks(price decimal.Decimal) (Price, bool) {
	if price.Sign() <= 0 || !price.Mod(inst.TickSize).IsZero() {
		return 0, false
	}
	return Price(price.Div(inst.TickSize).IntPart()), true
}

// qtyToLots converts a decimal quantity to engine lots.
func (inst *Instrument) qtyToLots(qty decimal.Decimal) (Quantity, bool) {
	if qty.Sign() <= 0 || !qty.Mod(inst.LotSize).IsZero() {
		return 0, false
	}
	return Quantity(qty.Div(inst.LotSize).IntPart()), true
}

// PriceFromTicks converts engine ticks back to a decimal price.
func (inst *Instrument) PriceFromTicks(p Price) decimal.Decimal {
	return inst.TickSize.Mul(decimal.NewFromInt(int64(p)))
}

// QtyFromLots converts engine lots back to a decimal quantity.
func (inst *Instrument) QtyFromLots(q Quantity) decimal.Decimal {
	return inst.LotSize.Mul(decimal.NewFromInt(int64(q)))
}

// Submit validates a request, converts it to ticks and lots, and runs
// it through the engine. Prices off the tick grid and quantities off
// the lot grid are rejected before the engine sees them.
func (ex *Exchange) Submit(req OrderRequest) (OrderResponse, error) {
	resp := OrderResponse{RequestID: req.RequestID}
	if resp.RequestID == uuid.Nil {
		resp.RequestID = uuid.New()
	}

	inst, ok := ex.byName[req.Symbol]
	if !ok {
		resp.Outcome = EngineSymbolNotFound
		return resp, nil
	}

	qty, ok := inst.qtyToLots(req.Quantity)
	if !ok {
		resp.Outcome = EngineFailed
		return resp, nil
	}

	var price Price
	if req.Kind == Limit {
		price, ok = inst.priceToTicks(req.Price)
		if !ok {
			resp.Outcome = EngineFailed
			return resp, nil
		}
	}

	logger.Info("exchange submit",
		"request_id", resp.RequestID.String(),
		"symbol", req.Symbol,
		"side", req.Side.String(),
		"price", req.Price.String(),
		"qty", req.Quantity.String())

	result, err := ex.engine.SubmitOrder(inst.ID, price, qty, req.Side, req.Kind, req.TIF)
	if err != nil {
		resp.Outcome = EngineFailed
		return resp, err
	}

	resp.OrderID = result.OrderID
	resp.Outcome = result.Match.Outcome
	for _, trade := range result.Match.Trades {
		resp.Trades = append(resp.Trades, TradeQuote{
			TradeID:  trade.ID,
			Price:    inst.PriceFromTicks(trade.Price),
			Quantity: inst.QtyFromLots(trade.Quantity),
		})
	}
	return resp, nil
}

// Cancel removes a resting order.
func (ex *Exchange) Cancel(id OrderID) (EngineResult, error) {
	return ex.engine.CancelOrder(id)
}

// Modify changes a resting order's quantity and optionally its price,
// both in decimal listing units. The symbol name locates the listing
// terms for conversion.
func (ex *Exchange) Modify(symbol string, id OrderID, newQty decimal.Decimal, newPrice *decimal.Decimal) (ModifyResult, error) {
	inst, ok := ex.byName[symbol]
	if !ok {
		return ModifyOrderNotFound, nil
	}

	var lots Quantity
	if newQty.Sign() != 0 {
		lots, ok = inst.qtyToLots(newQty)
		if !ok {
			return ModifyRejected, nil
		}
	}

	var ticks *Price
	if newPrice != nil {
		p, ok := inst.priceToTicks(*newPrice)
		if !ok {
			return ModifyRejected, nil
		}
		ticks = &p
	}
	return ex.engine.ModifyOrder(id, lots, ticks)
}

// Quote is one side of the top of book in decimal listing units.
type Quote struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// TopOfBook returns the best bid and ask as decimal quotes. A missing
// side comes back as a zero Quote with its flag false.
func (ex *Exchange) TopOfBook(symbol string) (bid Quote, bidOK bool, ask Quote, askOK bool) {
	inst, found := ex.byName[symbol]
	if !found {
		return
	}
	if level, ok := ex.engine.BestBid(inst.ID); ok {
		bid = Quote{Price: inst.PriceFromTicks(level.Price), Quantity: inst.QtyFromLots(level.TotalQty)}
		bidOK = true
	}
	if level, ok := ex.engine.BestAsk(inst.ID); ok {
		ask = Quote{Price: inst.PriceFromTicks(level.Price), Quantity: inst.QtyFromLots(level.TotalQty)}
		askOK = true
	}
	return
}
