package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/shopspring/decimal"

	match "github.com/lobworks/matchbook"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (defaults to a single built-in symbol)")
		depth      = flag.Int("depth", 8, "levels per side to display")
		orders     = flag.Int("orders", 200, "random orders to submit")
		seed       = flag.Int64("seed", 1, "rng seed for the scripted flow")
		verbose    = flag.Bool("v", false, "log engine activity")
	)
	flag.Parse()

	if !*verbose {
		match.SetLogger(slog.New(slog.DiscardHandler))
	}

	cfg := match.DefaultConfig()
	if *configPath != "" {
		loaded, err := match.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ex, err := match.NewExchange(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "exchange:", err)
		os.Exit(1)
	}

	symbol := cfg.Symbols[0].Name
	inst, _ := ex.Instrument(symbol)
	rng := rand.New(rand.NewSource(*seed))

	var trades int
	for i := 0; i < *orders; i++ {
		side := match.Buy
		// keep a persistent spread: bids cluster low, asks high
		px := 95 + rng.Intn(8)
		if rng.Intn(2) == 1 {
			side = match.Sell
			px = 98 + rng.Intn(8)
		}
		tif := match.GTC
		switch rng.Intn(10) {
		case 0:
			tif = match.IOC
		case 1:
			tif = match.FOK
		}

		resp, err := ex.Submit(match.OrderRequest{
			Symbol:   symbol,
			Side:     side,
			Kind:     match.Limit,
			TIF:      tif,
			Price:    decimal.NewFromInt(int64(px)),
			Quantity: decimal.NewFromInt(int64(1 + rng.Intn(50))),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(1)
		}
		trades += len(resp.Trades)
	}

	// fold the event stream into an aggregated view, the way a
	// downstream market data consumer would
	view := match.NewAggregatedBook(symbol)
	var drained int
	var tail []match.Event
	for {
		ev, ok := ex.Events().Consume()
		if !ok {
			break
		}
		view.Apply(ev)
		drained++
		tail = append(tail, ev)
		if len(tail) > 5 {
			tail = tail[1:]
		}
	}

	bids, asks, _ := ex.Engine().Depth(inst.ID, *depth)
	fmt.Println(match.RenderLadder(inst, bids, asks))
	fmt.Println(match.RenderDepthChart(inst, view, *depth))

	for _, ev := range tail {
		fmt.Printf("%s %s order=%d price=%s qty=%s\n",
			ev.ID, ev.Type, uint64(ev.OrderID),
			inst.PriceFromTicks(ev.Price), inst.QtyFromLots(ev.Quantity))
	}
	fmt.Printf("orders=%d trades=%d events=%d dropped=%d\n",
		*orders, trades, drained, ex.Events().Dropped())
}
