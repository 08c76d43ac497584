package market

import (
	"context"
	"testing"
)

func TestStaticSourceReferencePrices(t *testing.T) {
	source := NewStaticSource()
	ctx := context.Background()

	tests := []struct {
		symbol string
		price  float64
		change float64
	}{
		{"RELIANCE", 2856.45, 12.35},
		{"TCS", 3850.20, 45.60},
		{"INFY", 1850.75, -23.40},
		{"SBIN", 650.45, -3.20},
		{"AAPL", 182.63, 1.24},
	}

	for _, tt := range tests {
		quote := source.Quote(ctx, tt.symbol)
		if quote.Price != tt.price {
			t.Errorf("%s price = %.2f, want %.2f", tt.symbol, quote.Price, tt.price)
		}
		if quote.Change != tt.change {
			t.Errorf("%s change = %.2f, want %.2f", tt.symbol, quote.Change, tt.change)
		}
		if quote.Symbol != tt.symbol {
			t.Errorf("symbol = %s, want %s", quote.Symbol, tt.symbol)
		}
	}
}

func TestStaticSourceUnknownSymbol(t *testing.T) {
	source := NewStaticSource()

	quote := source.Quote(context.Background(), "UNLISTED")
	if quote.Price != 100 || quote.Change != 0 {
		t.Errorf("unknown symbol quote = %.2f/%.2f, want 100/0", quote.Price, quote.Change)
	}
	if quote.Name != "UNLISTED" {
		t.Errorf("unknown symbol name = %q, want the symbol itself", quote.Name)
	}
}

func TestStaticSourceQuotesBatch(t *testing.T) {
	source := NewStaticSource()

	quotes := source.Quotes(context.Background(), PopularStocks)
	if len(quotes) != len(PopularStocks) {
		t.Fatalf("got %d quotes, want %d", len(quotes), len(PopularStocks))
	}
	for i, quote := range quotes {
		if quote.Symbol != PopularStocks[i] {
			t.Errorf("quote %d symbol = %s, want %s", i, quote.Symbol, PopularStocks[i])
		}
	}
}

func TestStockName(t *testing.T) {
	if got := StockName("TCS"); got != "Tata Consultancy Services" {
		t.Errorf("StockName(TCS) = %q", got)
	}
	if got := StockName("ZZZZ"); got != "ZZZZ" {
		t.Errorf("StockName(ZZZZ) = %q, want the symbol itself", got)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(182.6349); got != 182.63 {
		t.Errorf("round2(182.6349) = %v", got)
	}
	if got := round2(182.638); got != 182.64 {
		t.Errorf("round2(182.638) = %v", got)
	}
}
