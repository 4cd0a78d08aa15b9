package match

// SymbolID identifies one instrument inside the engine. External symbol
// names are mapped to ids by the Exchange facade.
type SymbolID uint32

type (
	OrderID uint64
	TradeID uint64
)

// Price is an integer number of ticks; Quantity an integer number of
// lots. Decimal conversion happens at the exchange boundary only.
type (
	Price    int64
	Quantity int64
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type OrderKind string

const (
	Market OrderKind = "market"
	Limit  OrderKind = "limit"
)

// TimeInForce controls what happens to the unfilled remainder of an
// order after matching.
type TimeInForce string

const (
	GTC TimeInForce = "gtc" // rest the remainder in the book
	IOC TimeInForce = "ioc" // discard the remainder
	FOK TimeInForce = "fok" // all-or-nothing, never rests
)

// Order is one live order. While resting its Quantity only ever
// decreases; an order with zero quantity must not exist in any level.
// The intrusive next/prev links are owned by the price level FIFO.
type Order struct {
	ID        OrderID
	Price     Price
	Quantity  Quantity
	Kind      OrderKind
	TIF       TimeInForce
	Side      Side
	Timestamp int64 // unix nano, creation time

	next *Order
	prev *Order
}

// OrderSnapshot is a read-only copy of an order's current state.
type OrderSnapshot struct {
	ID        OrderID
	Price     Price
	Quantity  Quantity
	Kind      OrderKind
	TIF       TimeInForce
	Side      Side
	Timestamp int64
}

// Fill is one side's share of a single matching event.
type Fill struct {
	OrderID  OrderID
	Quantity Quantity
	Price    Price
	Time     int64
	Side     Side
}

// Trade records one matching event between an aggressor and a resting
// order. Execution is always at the resting price.
type Trade struct {
	ID       TradeID
	Symbol   string
	Price    Price
	Quantity Quantity

	Aggressor Fill
	Resting   Fill
}

// LevelSummary describes one price level without exposing its orders.
type LevelSummary struct {
	Price    Price
	TotalQty Quantity
	Orders   int32
}

// EngineResult is the outcome of an engine-level operation.
type EngineResult int8

const (
	EngineSuccess EngineResult = iota
	EngineSymbolNotFound
	EngineOrderNotFound
	EngineNotEnoughLiquidity
	EngineFailed
)

func (r EngineResult) String() string {
	switch r {
	case EngineSuccess:
		return "success"
	case EngineSymbolNotFound:
		return "symbol_not_found"
	case EngineOrderNotFound:
		return "order_not_found"
	case EngineNotEnoughLiquidity:
		return "not_enough_liquidity"
	case EngineFailed:
		return "failed"
	}
	return "unknown"
}

// BookResult is the outcome of a book-level operation.
type BookResult int8

const (
	BookSuccess BookResult = iota
	BookInvalidQty
	BookDuplicateOrder
	BookOrderNotFound
	BookPriceOutOfRange
	BookTypeNotSupported
)

func (r BookResult) String() string {
	switch r {
	case BookSuccess:
		return "success"
	case BookInvalidQty:
		return "invalid_qty"
	case BookDuplicateOrder:
		return "duplicate_order"
	case BookOrderNotFound:
		return "order_not_found"
	case BookPriceOutOfRange:
		return "price_out_of_range"
	case BookTypeNotSupported:
		return "type_not_supported"
	}
	return "unknown"
}

// ModifyResult is the outcome of a modify request.
type ModifyResult int8

const (
	ModifySuccess ModifyResult = iota
	ModifyReplaced
	ModifyOrderNotFound
	ModifyRejected
	ModifyQtyIncreaseNotAllowed
)

func (r ModifyResult) String() string {
	switch r {
	case ModifySuccess:
		return "success"
	case ModifyReplaced:
		return "replaced"
	case ModifyOrderNotFound:
		return "order_not_found"
	case ModifyRejected:
		return "rejected"
	case ModifyQtyIncreaseNotAllowed:
		return "qty_increase_not_allowed"
	}
	return "unknown"
}

// MatchResult is the ordered trade sequence of one matching pass.
// Trades already produced are final even when the outcome is
// NotEnoughLiquidity.
type MatchResult struct {
	Trades  []Trade
	Outcome EngineResult
}

// SubmitResult pairs the issued order id with the matching outcome.
type SubmitResult struct {
	OrderID OrderID
	Match   MatchResult
}
