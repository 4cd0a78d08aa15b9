package match

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	renderHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	renderTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	renderBuyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	renderSellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	renderDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderLadder formats a two-sided depth ladder for terminal output,
// bids and asks side by side, best levels on the top row. Prices are
// converted through the instrument's listing terms.
func RenderLadder(inst *Instrument, bids, asks []LevelSummary) string {
	var b strings.Builder

	b.WriteString(renderTitleStyle.Render(inst.Name))
	b.WriteString("\n")
	b.WriteString(renderHeaderStyle.Render(
		fmt.Sprintf("%12s %10s │ %-10s %-12s", "BidQty", "Bid", "Ask", "AskQty")))
	b.WriteString("\n")

	rows := max(len(bids), len(asks))
	if rows == 0 {
		b.WriteString(renderDimStyle.Render("(empty book)"))
		b.WriteString("\n")
		return b.String()
	}

	for i := 0; i < rows; i++ {
		bidPart := fmt.Sprintf("%12s %10s", "", "")
		askPart := fmt.Sprintf("%-10s %-12s", "", "")
		if i < len(bids) {
			bidPart = fmt.Sprintf("%12s %10s",
				inst.QtyFromLots(bids[i].TotalQty).String(),
				inst.PriceFromTicks(bids[i].Price).String())
		}
		if i < len(asks) {
			askPart = fmt.Sprintf("%-10s %-12s",
				inst.PriceFromTicks(asks[i].Price).String(),
				inst.QtyFromLots(asks[i].TotalQty).String())
		}
		b.WriteString(renderBuyStyle.Render(bidPart))
		b.WriteString(" │ ")
		b.WriteString(renderSellStyle.Render(askPart))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDepthChart formats a horizontal bar chart of aggregated depth,
// asks above the spread, bids below, bar length proportional to the
// largest level shown.
func RenderDepthChart(inst *Instrument, view *AggregatedBook, limit int) string {
	const barWidth = 40

	bids := view.Levels(Buy, limit)
	asks := view.Levels(Sell, limit)

	var maxQty Quantity
	for _, lv := range bids {
		maxQty = max(maxQty, lv.TotalQty)
	}
	for _, lv := range asks {
		maxQty = max(maxQty, lv.TotalQty)
	}

	var b strings.Builder
	b.WriteString(renderTitleStyle.Render(inst.Name + " depth"))
	b.WriteString("\n")
	if maxQty == 0 {
		b.WriteString(renderDimStyle.Render("(no depth)"))
		b.WriteString("\n")
		return b.String()
	}

	bar := func(qty Quantity) string {
		n := int(int64(qty) * barWidth / int64(maxQty))
		if n == 0 {
			n = 1
		}
		return strings.Repeat("█", n)
	}

	// asks print worst first so the best ask sits just above the spread
	for i := len(asks) - 1; i >= 0; i-- {
		line := fmt.Sprintf("%10s %10s %s",
			inst.PriceFromTicks(asks[i].Price).String(),
			inst.QtyFromLots(asks[i].TotalQty).String(),
			bar(asks[i].TotalQty))
		b.WriteString(renderSellStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(renderDimStyle.Render(strings.Repeat("─", barWidth+22)))
	b.WriteString("\n")
	for _, lv := range bids {
		line := fmt.Sprintf("%10s %10s %s",
			inst.PriceFromTicks(lv.Price).String(),
			inst.QtyFromLots(lv.TotalQty).String(),
			bar(lv.TotalQty))
		b.WriteString(renderBuyStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
