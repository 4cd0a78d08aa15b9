package match

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLadder(t *testing.T) {
	inst := &Instrument{
		ID:       1,
		Name:     "BTC-USDT",
		TickSize: decimal.RequireFromString("0.5"),
		LotSize:  decimal.RequireFromString("0.001"),
	}

	out := RenderLadder(inst, nil, nil)
	assert.Contains(t, out, "BTC-USDT")
	assert.Contains(t, out, "empty book")

	bids := []LevelSummary{{Price: 100000, TotalQty: 500, Orders: 2}}
	asks := []LevelSummary{{Price: 100002, TotalQty: 250, Orders: 1}}
	out = RenderLadder(inst, bids, asks)
	assert.Contains(t, out, "50000")
	assert.Contains(t, out, "50001")
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "0.25")
}

func TestRenderDepthChart(t *testing.T) {
	inst := &Instrument{
		ID:       1,
		Name:     "TEST",
		TickSize: decimal.NewFromInt(1),
		LotSize:  decimal.NewFromInt(1),
	}

	view := NewAggregatedBook("TEST")
	out := RenderDepthChart(inst, view, 5)
	assert.Contains(t, out, "no depth")

	view.Apply(Event{Type: EventOrderAdded, Symbol: "TEST", Side: Buy, Price: 95, Quantity: 40})
	view.Apply(Event{Type: EventOrderAdded, Symbol: "TEST", Side: Sell, Price: 105, Quantity: 10})

	out = RenderDepthChart(inst, view, 5)
	require.True(t, strings.Contains(out, "95"))
	require.True(t, strings.Contains(out, "105"))
	// the larger level draws the longer bar
	lines := strings.Split(out, "\n")
	var bidBar, askBar int
	for _, line := range lines {
		n := strings.Count(line, "█")
		if strings.Contains(line, "95") {
			bidBar = n
		}
		if strings.Contains(line, "105") {
			askBar = n
		}
	}
	assert.Greater(t, bidBar, askBar)
}
