package match

import (
	"sync"

	"github.com/rs/xid"
)

type EventType string

const (
	EventOrderAdded    EventType = "order_added"
	EventOrderModified EventType = "order_modified"
	EventOrderCanceled EventType = "order_canceled"
	EventTradeExecuted EventType = "trade_executed"
)

// Event is one structured domain event for downstream audit. For
// trade_executed the Side is the aggressor's and Quantity the fill
// size; for order_modified OldQuantity carries the pre-modify size so
// consumers can derive the depth delta.
type Event struct {
	ID          xid.ID
	Type        EventType
	Symbol      string
	OrderID     OrderID
	TradeID     TradeID
	Side        Side
	Price       Price
	Quantity    Quantity
	OldQuantity Quantity
	Timestamp   int64 // unix nano
}

// newEventID issues a globally unique, sortable event id.
func newEventID() xid.ID {
	return xid.New()
}

// EventSink receives domain events from the matching path. Emit must
// never block and must tolerate loss; the matching path fires and
// forgets.
type EventSink interface {
	Emit(Event)
}

// RingSink is a fixed-capacity overwrite-on-full ring. When the ring is
// full the oldest unconsumed event is dropped, so a slow or absent
// consumer can never stall matching. Dropped counts the overwrites.
type RingSink struct {
	mu      sync.Mutex
	buf     []Event
	read    uint64
	write   uint64
	dropped uint64
}

// NewRingSink creates a ring holding up to capacity events.
func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = 1024
	}
	return &RingSink{
		buf: make([]Event, capacity),
	}
}

// Emit records the event, overwriting the oldest one when full.
func (r *RingSink) Emit(ev Event) {
	r.mu.Lock()
	size := uint64(len(r.buf))
	if r.write-r.read == size {
		r.read++
		r.dropped++
	}
	r.buf[r.write%size] = ev
	r.write++
	r.mu.Unlock()
}

// Consume pops the oldest event, if any.
func (r *RingSink) Consume() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.read == r.write {
		return Event{}, false
	}
	ev := r.buf[r.read%uint64(len(r.buf))]
	r.read++
	return ev, true
}

// Len returns the number of unconsumed events.
func (r *RingSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.write - r.read)
}

// Dropped returns how many events were overwritten before consumption.
func (r *RingSink) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// MemorySink stores every event, useful for testing.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		events: make([]Event, 0),
	}
}

func (m *MemorySink) Emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Count returns the number of events stored.
func (m *MemorySink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Get returns the event at the specified index.
func (m *MemorySink) Get(index int) Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[index]
}

// Events returns a copy of all events stored.
func (m *MemorySink) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]Event, len(m.events))
	copy(events, m.events)
	return events
}

// DiscardSink drops all events, useful for benchmarking.
type DiscardSink struct{}

func NewDiscardSink() *DiscardSink {
	return &DiscardSink{}
}

func (DiscardSink) Emit(Event) {}
