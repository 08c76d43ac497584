// Package market provides best-effort price quotes and the market mood
// snapshot.
package market

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"equiverse/internal/logging"
	"equiverse/internal/models"
)

// QuoteSource serves price quotes. Implementations never fail: when
// live data is unavailable they fall back to static reference prices.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) models.Quote
	Quotes(ctx context.Context, symbols []string) []models.Quote
}

// PopularStocks is the default watchlist.
var PopularStocks = []string{
	"RELIANCE", "TCS", "INFY", "HDFCBANK", "ICICIBANK", "SBIN",
	"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN",
}

type fallbackEntry struct {
	price  float64
	change float64
}

var fallbackPrices = map[string]fallbackEntry{
	"RELIANCE":  {2856.45, 12.35},
	"TCS":       {3850.20, 45.60},
	"INFY":      {1850.75, -23.40},
	"HDFCBANK":  {1650.30, 8.90},
	"ICICIBANK": {1050.80, 5.25},
	"SBIN":      {650.45, -3.20},
	"AAPL":      {182.63, 1.24},
	"MSFT":      {407.51, 2.89},
	"GOOGL":     {138.25, 0.85},
	"TSLA":      {245.12, -5.67},
	"AMZN":      {175.34, 1.23},
}

var stockNames = map[string]string{
	"RELIANCE":  "Reliance Industries",
	"TCS":       "Tata Consultancy Services",
	"INFY":      "Infosys",
	"HDFCBANK":  "HDFC Bank",
	"ICICIBANK": "ICICI Bank",
	"SBIN":      "State Bank of India",
	"AAPL":      "Apple Inc.",
	"MSFT":      "Microsoft Corporation",
	"GOOGL":     "Alphabet Inc.",
	"TSLA":      "Tesla Inc.",
	"AMZN":      "Amazon.com Inc.",
}

// StockName returns the display name for a symbol, or the symbol itself.
func StockName(symbol string) string {
	if name, ok := stockNames[symbol]; ok {
		return name
	}
	return symbol
}

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// YahooSource fetches quotes from the Yahoo Finance chart endpoint.
type YahooSource struct {
	client *resty.Client
	logger zerolog.Logger

	// exchange suffix appended to bare symbols
	suffix string

	now func() time.Time
}

// NewYahooSource creates a Yahoo-backed quote source.
func NewYahooSource(timeout time.Duration, suffix string, logger zerolog.Logger) *YahooSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	return &YahooSource{
		client: client,
		logger: logger,
		suffix: suffix,
		now:    time.Now,
	}
}

// Quote returns the latest price for a symbol, falling back to static
// reference data when the live lookup fails.
func (y *YahooSource) Quote(ctx context.Context, symbol string) models.Quote {
	start := y.now()

	formatted := symbol
	if !strings.Contains(symbol, ".") && y.suffix != "" {
		formatted = symbol + y.suffix
	}

	var payload chartResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval": "1m",
			"range":    "1d",
		}).
		SetResult(&payload).
		Get(fmt.Sprintf(yahooChartURL, formatted))

	if err != nil || !resp.IsSuccess() || len(payload.Chart.Result) == 0 {
		logging.LogQuoteFetch(y.logger, symbol, y.now().Sub(start), true)
		return y.fallback(symbol)
	}

	meta := payload.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price == 0 {
		price = meta.PreviousClose
	}
	if price == 0 || meta.PreviousClose == 0 {
		logging.LogQuoteFetch(y.logger, symbol, y.now().Sub(start), true)
		return y.fallback(symbol)
	}

	change := price - meta.PreviousClose
	changePercent := change / meta.PreviousClose * 100

	logging.LogQuoteFetch(y.logger, symbol, y.now().Sub(start), false)

	return models.Quote{
		Symbol:        symbol,
		Name:          StockName(symbol),
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: fmt.Sprintf("%.2f%%", changePercent),
		LastUpdated:   y.now(),
	}
}

// Quotes returns quotes for all symbols.
func (y *YahooSource) Quotes(ctx context.Context, symbols []string) []models.Quote {
	out := make([]models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		out = append(out, y.Quote(ctx, symbol))
	}
	return out
}

func (y *YahooSource) fallback(symbol string) models.Quote {
	entry, ok := fallbackPrices[symbol]
	if !ok {
		entry = fallbackEntry{price: 100, change: 0}
	}

	return models.Quote{
		Symbol:        symbol,
		Name:          StockName(symbol),
		Price:         entry.price,
		Change:        entry.change,
		ChangePercent: fmt.Sprintf("%.2f%%", entry.change/entry.price*100),
		LastUpdated:   y.now(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StaticSource serves only the static reference prices. Used in tests
// and offline mode.
type StaticSource struct {
	now func() time.Time
}

// NewStaticSource creates an offline quote source.
func NewStaticSource() *StaticSource {
	return &StaticSource{now: time.Now}
}

// Quote returns the static reference quote for a symbol.
func (s *StaticSource) Quote(ctx context.Context, symbol string) models.Quote {
	entry, ok := fallbackPrices[symbol]
	if !ok {
		entry = fallbackEntry{price: 100, change: 0}
	}
	return models.Quote{
		Symbol:        symbol,
		Name:          StockName(symbol),
		Price:         entry.price,
		Change:        entry.change,
		ChangePercent: fmt.Sprintf("%.2f%%", entry.change/entry.price*100),
		LastUpdated:   s.now(),
	}
}

// Quotes returns static quotes for all symbols.
func (s *StaticSource) Quotes(ctx context.Context, symbols []string) []models.Quote {
	out := make([]models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		out = append(out, s.Quote(ctx, symbol))
	}
	return out
}

var (
	_ QuoteSource = (*YahooSource)(nil)
	_ QuoteSource = (*StaticSource)(nil)
)
