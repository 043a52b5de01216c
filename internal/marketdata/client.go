package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"swing-trade-engine/internal/logger"
)

const (
	defaultBaseURL   = "https://www.alphavantage.co"
	defaultBenchmark = "^GSPC"
	newsArticleLimit = "20"
)

// Client fetches the raw payloads that make up a Snapshot. It performs no
// retries and keeps no cache; a rate-limited or failed endpoint surfaces as
// an error and the caller decides what to do.
type Client struct {
	http      *resty.Client
	apiKey    string
	benchmark string
}

// NewClient creates a provider client with the given API key.
func NewClient(apiKey string) *Client {
	c := resty.New()
	c.SetBaseURL(defaultBaseURL)
	c.SetTimeout(30 * time.Second)
	return &Client{http: c, apiKey: apiKey, benchmark: defaultBenchmark}
}

// SetBaseURL overrides the provider endpoint (tests, proxies).
func (c *Client) SetBaseURL(u string) { c.http.SetBaseURL(u) }

// SetBenchmark overrides the benchmark index symbol.
func (c *Client) SetBenchmark(symbol string) {
	if symbol != "" {
		c.benchmark = symbol
	}
}

// FetchSnapshot pulls every data source for one symbol concurrently and
// assembles the immutable snapshot the analyzer consumes.
func (c *Client) FetchSnapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("market data API key not configured")
	}

	op := logger.StartOperation(ctx, "fetch_snapshot", "symbol", symbol)
	ctx = op.Context()

	snap := &Snapshot{}
	fetches := []struct {
		name   string
		params map[string]string
		into   any
	}{
		{"daily", map[string]string{"function": "TIME_SERIES_DAILY_ADJUSTED", "symbol": symbol, "outputsize": "compact"}, &snap.Daily},
		{"rsi", map[string]string{"function": "RSI", "symbol": symbol, "interval": "daily", "time_period": "14", "series_type": "close"}, &snap.RSI},
		{"macd", map[string]string{"function": "MACD", "symbol": symbol, "interval": "daily"}, &snap.MACD},
		{"obv", map[string]string{"function": "OBV", "symbol": symbol, "interval": "daily"}, &snap.OBV},
		{"adx", map[string]string{"function": "ADX", "symbol": symbol, "interval": "daily", "time_period": "14"}, &snap.ADX},
		{"bbands", map[string]string{"function": "BBANDS", "symbol": symbol, "interval": "daily", "time_period": "20"}, &snap.BBands},
		{"overview", map[string]string{"function": "OVERVIEW", "symbol": symbol}, &snap.Overview},
		{"earnings", map[string]string{"function": "EARNINGS", "symbol": symbol}, &snap.Earnings},
		{"news", map[string]string{"function": "NEWS_SENTIMENT", "tickers": symbol, "limit": newsArticleLimit}, &snap.News},
		{"sector", map[string]string{"function": "SECTOR"}, &snap.Sector},
		{"quote", map[string]string{"function": "GLOBAL_QUOTE", "symbol": symbol}, &snap.Quote},
		{"benchmark_quote", map[string]string{"function": "GLOBAL_QUOTE", "symbol": c.benchmark}, &snap.BenchmarkQuote},
		{"benchmark_sma", map[string]string{"function": "SMA", "symbol": c.benchmark, "interval": "daily", "time_period": "200", "series_type": "close"}, &snap.BenchmarkSMA},
		{"options", map[string]string{"function": "HISTORICAL_OPTIONS", "symbol": symbol, "date": "latest"}, &snap.Options},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, f := range fetches {
		wg.Add(1)
		go func(name string, params map[string]string, into any) {
			defer wg.Done()
			if err := c.fetch(ctx, params, into); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("fetch %s: %w", name, err)
				}
				mu.Unlock()
			}
		}(f.name, f.params, f.into)
	}
	wg.Wait()

	if firstErr != nil {
		op.EndWithError(firstErr)
		return nil, firstErr
	}
	op.End()
	return snap, nil
}

func (c *Client) fetch(ctx context.Context, params map[string]string, into any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("apikey", c.apiKey).
		SetQueryParams(params).
		Get("/query")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// LoadSnapshot reads a previously saved snapshot from disk, for offline
// analysis and fixtures.
func LoadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// SaveSnapshot writes a snapshot to disk as JSON.
func SaveSnapshot(path string, snap *Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
