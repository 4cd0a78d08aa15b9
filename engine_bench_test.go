package match

import (
	"math/rand"
	"testing"
)

func benchEngine(b *testing.B) (*MatchingEngine, SymbolID) {
	b.Helper()
	cfg := Config{
		Symbols: []SymbolConfig{
			{Name: "BENCH", TickSize: "1", LotSize: "1", MaxPriceLevels: 4096},
		},
	}
	engine := NewMatchingEngine(cfg, NewDiscardSink())
	sym, _ := engine.ResolveSymbol("BENCH")
	return engine, sym
}

func BenchmarkSubmitRestingOrders(b *testing.B) {
	engine, sym := benchEngine(b)
	rng := rand.New(rand.NewSource(1))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		// bids far below asks so nothing ever crosses
		_, err := engine.SubmitOrder(sym, Price(1+rng.Intn(2000)), 1, Buy, Limit, GTC)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmitMatchingFlow(b *testing.B) {
	engine, sym := benchEngine(b)
	rng := rand.New(rand.NewSource(1))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		px := Price(1000 + rng.Intn(20))
		_, err := engine.SubmitOrder(sym, px, 1, Sell, Limit, GTC)
		if err != nil {
			b.Fatal(err)
		}
		_, err = engine.SubmitOrder(sym, px, 1, Buy, Limit, IOC)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCancelOrder(b *testing.B) {
	engine, sym := benchEngine(b)

	ids := make([]OrderID, b.N)
	for i := 0; i < b.N; i++ {
		res, err := engine.SubmitOrder(sym, Price(1+i%4000), 1, Buy, Limit, GTC)
		if err != nil {
			b.Fatal(err)
		}
		ids[i] = res.OrderID
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := engine.CancelOrder(ids[i]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkModifyShrink(b *testing.B) {
	engine, sym := benchEngine(b)

	res, err := engine.SubmitOrder(sym, 100, Quantity(b.N)+1, Buy, Limit, GTC)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := engine.ModifyOrder(res.OrderID, Quantity(b.N-i), nil); err != nil {
			b.Fatal(err)
		}
	}
}
