package marketdata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldRecord is one observation of a date-keyed series: named fields whose
// values the provider delivers as strings or numbers. Accessors default to
// zero on missing or unparseable fields so a thin series degrades instead of
// failing.
type FieldRecord map[string]any

// Float returns the named field as a float64, 0 when absent or invalid.
func (r FieldRecord) Float(key string) float64 {
	v, ok := r[key]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Int returns the named field truncated to an integer, 0 when absent or invalid.
func (r FieldRecord) Int(key string) int64 {
	return int64(r.Float(key))
}

// Num parses a provider numeric-as-string value, 0 on absence or garbage.
func Num(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// SeriesPayload is a raw provider response holding one or more top-level
// tables ("Meta Data", "Technical Analysis: RSI", "Time Series (Daily)", ...).
// Tables are decoded lazily because the interesting key differs per endpoint.
type SeriesPayload map[string]json.RawMessage

// Table decodes the date-keyed table under the given top-level key.
// Returns nil when the key is absent or not table-shaped.
func (p SeriesPayload) Table(key string) map[string]FieldRecord {
	if p == nil {
		return nil
	}
	raw, ok := p[key]
	if !ok {
		return nil
	}
	var table map[string]FieldRecord
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil
	}
	return table
}

// Recognized top-level table keys.
const (
	DailySeriesKey        = "Time Series (Daily)"
	TechnicalAnalysisKey  = "Technical Analysis: " // prefix, indicator name appended
	GlobalQuoteKey        = "Global Quote"
	SectorRealTimeRankKey = "Rank A: Real-Time Performance"
)

// Daily series field names.
const (
	FieldOpen   = "1. open"
	FieldHigh   = "2. high"
	FieldLow    = "3. low"
	FieldClose  = "4. close"
	FieldVolume = "6. volume"
)

// Indicator field names.
const (
	FieldRSI        = "RSI"
	FieldMACD       = "MACD"
	FieldMACDSignal = "MACD_Signal"
	FieldOBV        = "OBV"
	FieldADX        = "ADX"
	FieldSMA        = "SMA"
	FieldLowerBand  = "Lower Band"
)

// Overview is the company fundamentals payload. The provider sends every
// numeric as a string; absent fields decode to "".
type Overview struct {
	Symbol                     string `json:"Symbol"`
	Name                       string `json:"Name"`
	Sector                     string `json:"Sector"`
	FiftyDayMovingAverage      string `json:"50DayMovingAverage"`
	TwoHundredDayMovingAverage string `json:"200DayMovingAverage"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	ReturnOnEquityTTM          string `json:"ReturnOnEquityTTM"`
	AnalystTargetPrice         string `json:"AnalystTargetPrice"`
}

// Earnings is the reported-earnings payload.
type Earnings struct {
	Symbol            string             `json:"symbol"`
	QuarterlyEarnings []QuarterlyEarning `json:"quarterlyEarnings"`
}

// QuarterlyEarning is one reported quarter, most recent first.
type QuarterlyEarning struct {
	FiscalDateEnding   string `json:"fiscalDateEnding"`
	ReportedEPS        string `json:"reportedEPS"`
	EstimatedEPS       string `json:"estimatedEPS"`
	Surprise           string `json:"surprise"`
	SurprisePercentage string `json:"surprisePercentage"`
}

// GlobalQuote is a realtime quote payload.
type GlobalQuote struct {
	Quote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
		Volume string `json:"06. volume"`
	} `json:"Global Quote"`
}

// Price returns the quote price, 0 when the quote is missing.
func (q *GlobalQuote) Price() float64 {
	if q == nil {
		return 0
	}
	return Num(q.Quote.Price)
}

// NewsFeed is the news-sentiment payload.
type NewsFeed struct {
	Items string        `json:"items"`
	Feed  []NewsArticle `json:"feed"`
}

// NewsArticle is one scored article with per-ticker sentiment breakdowns.
type NewsArticle struct {
	Title                 string            `json:"title"`
	TimePublished         string            `json:"time_published"`
	OverallSentimentScore float64           `json:"overall_sentiment_score"`
	OverallSentimentLabel string            `json:"overall_sentiment_label"`
	TickerSentiment       []TickerSentiment `json:"ticker_sentiment"`
}

// TickerSentiment is one ticker's sentiment inside an article.
type TickerSentiment struct {
	Ticker         string `json:"ticker"`
	RelevanceScore string `json:"relevance_score"`
	SentimentScore string `json:"ticker_sentiment_score"`
	SentimentLabel string `json:"ticker_sentiment_label"`
}

// SectorPerformance is the sector performance table payload.
type SectorPerformance struct {
	RealTimeRank map[string]string `json:"Rank A: Real-Time Performance"`
}

// Rank returns the performance rank for a sector, "N/A" when absent.
func (s *SectorPerformance) Rank(sector string) string {
	if s == nil || sector == "" {
		return "N/A"
	}
	if r, ok := s.RealTimeRank[sector]; ok && r != "" {
		return r
	}
	return "N/A"
}

// OptionsPayload is the options chain payload, nearest expiry first.
type OptionsPayload struct {
	Options []OptionChain `json:"options"`
}

// OptionChain is one expiry's contracts.
type OptionChain struct {
	Expiration string           `json:"expiration"`
	Calls      []OptionContract `json:"calls"`
	Puts       []OptionContract `json:"puts"`
}

// OptionContract is a single listed contract.
type OptionContract struct {
	Strike       string `json:"strike"`
	OpenInterest string `json:"open_interest"`
	Volume       string `json:"volume"`
}

// Snapshot is the complete bundle of raw data for one symbol at query time.
// It is created fresh per query by the data collaborator; the engine only
// reads it. Any slot may be nil and the analysis degrades per field.
type Snapshot struct {
	Daily  SeriesPayload `json:"daily"`
	RSI    SeriesPayload `json:"rsi"`
	MACD   SeriesPayload `json:"macd"`
	OBV    SeriesPayload `json:"obv"`
	ADX    SeriesPayload `json:"adx"`
	BBands SeriesPayload `json:"bbands"`

	Overview *Overview          `json:"overview"`
	Earnings *Earnings          `json:"earnings"`
	News     *NewsFeed          `json:"news"`
	Sector   *SectorPerformance `json:"sector"`

	Quote          *GlobalQuote  `json:"global_quote"`
	BenchmarkQuote *GlobalQuote  `json:"benchmark_quote"`
	BenchmarkSMA   SeriesPayload `json:"benchmark_sma"`

	Options *OptionsPayload `json:"options"`
}

// DailyTable returns the daily OHLCV table, nil when the slot is absent.
func (s *Snapshot) DailyTable() map[string]FieldRecord {
	if s == nil {
		return nil
	}
	return s.Daily.Table(DailySeriesKey)
}
