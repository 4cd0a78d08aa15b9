package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T) *OrderBook {
	t.Helper()
	return NewOrderBook("TEST", 64)
}

func restingOrder(id OrderID, side Side, price Price, qty Quantity) *Order {
	return &Order{ID: id, Price: price, Quantity: qty, Kind: Limit, TIF: GTC, Side: side}
}

func TestOrderBook_AddOrderValidation(t *testing.T) {
	book := newTestBook(t)

	res, err := book.AddOrder(restingOrder(1, Buy, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, BookInvalidQty, res)

	res, err = book.AddOrder(restingOrder(2, Buy, -5, 10))
	require.NoError(t, err)
	assert.Equal(t, BookPriceOutOfRange, res)

	market := restingOrder(3, Buy, 100, 10)
	market.Kind = Market
	res, err = book.AddOrder(market)
	require.NoError(t, err)
	assert.Equal(t, BookTypeNotSupported, res)

	res, err = book.AddOrder(restingOrder(4, Buy, 100, 10))
	require.NoError(t, err)
	assert.Equal(t, BookSuccess, res)

	res, err = book.AddOrder(restingOrder(4, Sell, 110, 10))
	require.NoError(t, err)
	assert.Equal(t, BookDuplicateOrder, res)

	assert.Equal(t, 1, book.OrderCount())
}

func TestOrderBook_BestBidBestAsk(t *testing.T) {
	book := newTestBook(t)

	_, ok := book.BestBid()
	assert.False(t, ok)
	_, ok = book.BestAsk()
	assert.False(t, ok)

	for i, price := range []Price{90, 95, 85} {
		res, err := book.AddOrder(restingOrder(OrderID(i+1), Buy, price, 10))
		require.NoError(t, err)
		require.Equal(t, BookSuccess, res)
	}
	for i, price := range []Price{110, 105, 120} {
		res, err := book.AddOrder(restingOrder(OrderID(i+10), Sell, price, 10))
		require.NoError(t, err)
		require.Equal(t, BookSuccess, res)
	}

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, Price(95), bid.Price)

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.Equal(t, Price(105), ask.Price)

	assert.Equal(t, 3, book.LevelCount(Buy))
	assert.Equal(t, 3, book.LevelCount(Sell))
}

func TestOrderBook_LevelAggregation(t *testing.T) {
	book := newTestBook(t)

	for i := 1; i <= 3; i++ {
		res, err := book.AddOrder(restingOrder(OrderID(i), Buy, 100, Quantity(i*10)))
		require.NoError(t, err)
		require.Equal(t, BookSuccess, res)
	}

	assert.Equal(t, 1, book.LevelCount(Buy))
	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, Quantity(60), bid.TotalQty)
	assert.Equal(t, int32(3), bid.Orders)
}

func TestOrderBook_CancelOrder(t *testing.T) {
	book := newTestBook(t)

	res, err := book.AddOrder(restingOrder(1, Buy, 100, 10))
	require.NoError(t, err)
	require.Equal(t, BookSuccess, res)
	res, err = book.AddOrder(restingOrder(2, Buy, 100, 20))
	require.NoError(t, err)
	require.Equal(t, BookSuccess, res)

	res, err = book.CancelOrder(1)
	require.NoError(t, err)
	assert.Equal(t, BookSuccess, res)
	assert.Equal(t, 1, book.OrderCount())

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, Quantity(20), bid.TotalQty)

	// cancel is idempotent at the result level
	res, err = book.CancelOrder(1)
	require.NoError(t, err)
	assert.Equal(t, BookOrderNotFound, res)

	// last order at the price removes the level
	res, err = book.CancelOrder(2)
	require.NoError(t, err)
	assert.Equal(t, BookSuccess, res)
	assert.Equal(t, 0, book.LevelCount(Buy))
	_, ok = book.BestBid()
	assert.False(t, ok)
}

func TestOrderBook_ModifyOrder(t *testing.T) {
	book := newTestBook(t)

	res, err := book.AddOrder(restingOrder(1, Sell, 105, 50))
	require.NoError(t, err)
	require.Equal(t, BookSuccess, res)

	mres, err := book.ModifyOrder(1, 30)
	require.NoError(t, err)
	assert.Equal(t, ModifySuccess, mres)

	snap, ok := book.FindOrder(1)
	require.True(t, ok)
	assert.Equal(t, Quantity(30), snap.Quantity)

	mres, err = book.ModifyOrder(1, 40)
	require.NoError(t, err)
	assert.Equal(t, ModifyQtyIncreaseNotAllowed, mres)

	// zero quantity cancels
	mres, err = book.ModifyOrder(1, 0)
	require.NoError(t, err)
	assert.Equal(t, ModifySuccess, mres)
	_, ok = book.FindOrder(1)
	assert.False(t, ok)

	mres, err = book.ModifyOrder(99, 10)
	require.NoError(t, err)
	assert.Equal(t, ModifyOrderNotFound, mres)
}

func TestOrderBook_FindOrder(t *testing.T) {
	book := newTestBook(t)

	order := restingOrder(7, Sell, 200, 15)
	order.Timestamp = 12345
	res, err := book.AddOrder(order)
	require.NoError(t, err)
	require.Equal(t, BookSuccess, res)

	snap, ok := book.FindOrder(7)
	require.True(t, ok)
	assert.Equal(t, OrderID(7), snap.ID)
	assert.Equal(t, Price(200), snap.Price)
	assert.Equal(t, Quantity(15), snap.Quantity)
	assert.Equal(t, Sell, snap.Side)
	assert.Equal(t, int64(12345), snap.Timestamp)

	_, ok = book.FindOrder(8)
	assert.False(t, ok)
}

func TestOrderBook_Depth(t *testing.T) {
	book := newTestBook(t)

	for i, price := range []Price{90, 95, 85, 80} {
		res, err := book.AddOrder(restingOrder(OrderID(i+1), Buy, price, 10))
		require.NoError(t, err)
		require.Equal(t, BookSuccess, res)
	}
	for i, price := range []Price{110, 105, 120} {
		res, err := book.AddOrder(restingOrder(OrderID(i+10), Sell, price, 10))
		require.NoError(t, err)
		require.Equal(t, BookSuccess, res)
	}

	bids := book.Depth(Buy, 3)
	require.Len(t, bids, 3)
	assert.Equal(t, Price(95), bids[0].Price)
	assert.Equal(t, Price(90), bids[1].Price)
	assert.Equal(t, Price(85), bids[2].Price)

	asks := book.Depth(Sell, 0)
	require.Len(t, asks, 3)
	assert.Equal(t, Price(105), asks[0].Price)
	assert.Equal(t, Price(120), asks[2].Price)
}

func TestOrderBook_LevelCapacity(t *testing.T) {
	book := NewOrderBook("TINY", 4)

	for i := 0; i < 4; i++ {
		res, err := book.AddOrder(restingOrder(OrderID(i+1), Buy, Price(100+i), 10))
		require.NoError(t, err)
		require.Equal(t, BookSuccess, res)
	}

	// a fifth distinct price level exceeds the arena
	_, err := book.AddOrder(restingOrder(50, Buy, 300, 10))
	assert.Error(t, err)

	// but another order at an existing level still fits
	res, err := book.AddOrder(restingOrder(51, Buy, 100, 10))
	require.NoError(t, err)
	assert.Equal(t, BookSuccess, res)
}
