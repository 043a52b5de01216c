// Package scoring reduces a normalized set of market signals to a bounded
// composite score, a verdict and a suggested price band.
package scoring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"swing-trade-engine/internal/candles"
	"swing-trade-engine/internal/interfaces"
	"swing-trade-engine/internal/marketdata"
	"swing-trade-engine/internal/series"
	"swing-trade-engine/internal/types"
)

// Signals are the normalized values extracted from one snapshot. They feed
// the score and are carried into the result for display and audit.
type Signals struct {
	Price      float64
	SP500Price float64
	SP200SMA   float64
	MarketUp   bool

	Pattern string

	RSI         float64
	MACDBull    bool
	ADX         float64
	OnLowerBand bool

	VolAvg20 float64
	VolToday float64
	VolSurge bool
	OBVBull  bool

	SMA50   float64
	SMA200  float64
	AboveMA bool

	EarningsQoQ   float64
	ReturnOnEq    float64
	AnalystTarget float64

	AvgSentiment float64
	SectorRank   string

	OIChange int64
}

// Derive extracts every signal from the snapshot. Missing inputs degrade to
// zero values; nothing here returns an error.
func Derive(snap *marketdata.Snapshot, symbol string, det interfaces.PatternDetector) Signals {
	var sig Signals

	sig.Price = snap.Quote.Price()
	sig.SP500Price = snap.BenchmarkQuote.Price()
	sig.SP200SMA = series.Latest(snap.BenchmarkSMA, marketdata.FieldSMA).Current.Float(marketdata.FieldSMA)
	sig.MarketUp = sig.SP500Price > sig.SP200SMA

	daily := snap.DailyTable()
	sig.Pattern = candles.Classify(daily, det)

	sig.RSI = series.Latest(snap.RSI, marketdata.FieldRSI).Current.Float(marketdata.FieldRSI)

	macd := series.Latest(snap.MACD, marketdata.FieldMACD)
	sig.MACDBull = macd.Current.Float(marketdata.FieldMACD) > macd.Current.Float(marketdata.FieldMACDSignal) &&
		macd.Previous.Float(marketdata.FieldMACD) <= macd.Previous.Float(marketdata.FieldMACDSignal)

	sig.ADX = series.Latest(snap.ADX, marketdata.FieldADX).Current.Float(marketdata.FieldADX)

	dates := series.DescendingDates(daily)
	var lastClose float64
	if len(dates) > 0 {
		lastClose = daily[dates[0]].Float(marketdata.FieldClose)
		sig.VolToday = daily[dates[0]].Float(marketdata.FieldVolume)
	}

	bb := series.Latest(snap.BBands, "BBANDS")
	sig.OnLowerBand = lastClose <= bb.Current.Float(marketdata.FieldLowerBand)

	n := len(dates)
	if n > 20 {
		n = 20
	}
	var volSum float64
	for _, d := range dates[:n] {
		volSum += daily[d].Float(marketdata.FieldVolume)
	}
	// fixed 20-day denominator even on a short series
	sig.VolAvg20 = volSum / 20
	sig.VolSurge = sig.VolToday > sig.VolAvg20*volSurgeMultiple

	obv := series.Latest(snap.OBV, marketdata.FieldOBV)
	sig.OBVBull = obv.Current.Float(marketdata.FieldOBV) > obv.Previous.Float(marketdata.FieldOBV)

	if ov := snap.Overview; ov != nil {
		sig.SMA50 = marketdata.Num(ov.FiftyDayMovingAverage)
		sig.SMA200 = marketdata.Num(ov.TwoHundredDayMovingAverage)
		sig.EarningsQoQ = marketdata.Num(ov.QuarterlyEarningsGrowthYOY)
		sig.ReturnOnEq = marketdata.Num(ov.ReturnOnEquityTTM)
		sig.AnalystTarget = marketdata.Num(ov.AnalystTargetPrice)
		sig.SectorRank = snap.Sector.Rank(ov.Sector)
	} else {
		sig.SectorRank = "N/A"
	}
	sig.AboveMA = sig.Price > sig.SMA50 && sig.SMA50 > sig.SMA200
	if sig.AnalystTarget <= 0 {
		sig.AnalystTarget = sig.Price * exitTarget
	}

	sig.AvgSentiment = averageSentiment(snap.News, symbol)
	sig.OIChange = nearestCallsOpenInterest(snap.Options)

	return sig
}

// averageSentiment is the mean sentiment score of articles whose per-ticker
// breakdown includes the queried symbol, 0 when no article matches.
func averageSentiment(news *marketdata.NewsFeed, symbol string) float64 {
	if news == nil {
		return 0
	}
	var sum float64
	var n int
	for _, article := range news.Feed {
		for _, ts := range article.TickerSentiment {
			if ts.Ticker == symbol {
				sum += marketdata.Num(ts.SentimentScore)
				n++
				break
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// nearestCallsOpenInterest sums open interest across the nearest expiring
// call chain, 0 when the chain is absent.
func nearestCallsOpenInterest(opts *marketdata.OptionsPayload) int64 {
	if opts == nil || len(opts.Options) == 0 {
		return 0
	}
	var total int64
	for _, call := range opts.Options[0].Calls {
		total += int64(marketdata.Num(call.OpenInterest))
	}
	return total
}

// Weights are the points each triggered condition contributes. The defaults
// sum to 100, which bounds the composite score.
type Weights struct {
	RSIOversold    int `yaml:"rsi_oversold"`
	MACDCrossover  int `yaml:"macd_crossover"`
	ADXTrend       int `yaml:"adx_trend"`
	LowerBand      int `yaml:"lower_band"`
	VolumeOBV      int `yaml:"volume_obv"`
	AboveMA        int `yaml:"above_ma"`
	EarningsGrowth int `yaml:"earnings_growth"`
	Sentiment      int `yaml:"sentiment"`
	MarketSector   int `yaml:"market_sector"`
}

// DefaultWeights returns the standard condition weights.
func DefaultWeights() Weights {
	return Weights{
		RSIOversold:    12,
		MACDCrossover:  15,
		ADXTrend:       10,
		LowerBand:      8,
		VolumeOBV:      12,
		AboveMA:        10,
		EarningsGrowth: 10,
		Sentiment:      8,
		MarketSector:   15,
	}
}

// Total returns the maximum attainable score.
func (w Weights) Total() int {
	return w.RSIOversold + w.MACDCrossover + w.ADXTrend + w.LowerBand +
		w.VolumeOBV + w.AboveMA + w.EarningsGrowth + w.Sentiment + w.MarketSector
}

// Signal trigger thresholds.
const (
	rsiOversoldBelow = 35.0
	adxTrendingAbove = 25.0
	earningsQoQAbove = 0.25
	sentimentAtLeast = 0.5
	entryDiscount    = 0.94
	exitTarget       = 1.35
	volSurgeMultiple = 1.5
	sectorTopKeyword = "Top"
)

// Verdict thresholds, evaluated highest first; boundary scores map to the
// higher tier.
const (
	strongBuyAt = 85
	buyAt       = 70
	holdAt      = 50
	sellAt      = 30
)

// Model turns signals into a scored result.
type Model struct {
	weights Weights
}

// NewModel creates a scoring model with the given weights.
func NewModel(w Weights) *Model {
	return &Model{weights: w}
}

// Score sums the weighted conditions, maps the verdict and derives the
// entry/exit band. Each condition contributes independently, at most once.
func (m *Model) Score(symbol string, sig Signals) types.AnalysisResult {
	w := m.weights

	score := 0
	if sig.RSI < rsiOversoldBelow {
		score += w.RSIOversold
	}
	if sig.MACDBull {
		score += w.MACDCrossover
	}
	if sig.ADX > adxTrendingAbove {
		score += w.ADXTrend
	}
	if sig.OnLowerBand {
		score += w.LowerBand
	}
	if sig.VolSurge && sig.OBVBull {
		score += w.VolumeOBV
	}
	if sig.AboveMA {
		score += w.AboveMA
	}
	if sig.EarningsQoQ > earningsQoQAbove {
		score += w.EarningsGrowth
	}
	if sig.AvgSentiment >= sentimentAtLeast {
		score += w.Sentiment
	}
	if sig.MarketUp && strings.Contains(sig.SectorRank, sectorTopKeyword) {
		score += w.MarketSector
	}

	entry := sig.Price * entryDiscount
	exit := sig.Price * exitTarget
	potential := "0.0"
	if entry > 0 {
		potential = FormatPercent((sig.AnalystTarget-entry)/entry*100, 1)
	}

	return types.AnalysisResult{
		Symbol:       symbol,
		Score:        score,
		Verdict:      VerdictFor(score),
		RSI:          sig.RSI,
		MACDBull:     sig.MACDBull,
		ADX:          sig.ADX,
		Pattern:      sig.Pattern,
		VolSurge:     sig.VolSurge,
		OBVBull:      sig.OBVBull,
		AboveMA:      sig.AboveMA,
		EarningsQoQ:  FormatPercent(sig.EarningsQoQ*100, 1),
		AvgSentiment: decimal.NewFromFloat(sig.AvgSentiment).StringFixed(2),
		MarketUp:     sig.MarketUp,
		SectorRank:   sig.SectorRank,
		OIChange:     sig.OIChange,
		Entry:        entry,
		Exit:         exit,
		Potential:    potential,
		Price:        FormatPrice(sig.Price),
	}
}

// VerdictFor maps a composite score to its verdict label.
func VerdictFor(score int) string {
	switch {
	case score >= strongBuyAt:
		return types.VerdictStrongBuy
	case score >= buyAt:
		return types.VerdictBuy
	case score >= holdAt:
		return types.VerdictHold
	case score >= sellAt:
		return types.VerdictSell
	default:
		return types.VerdictStrongSell
	}
}

// FormatPrice renders a currency value with 2 decimals.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent renders a percentage with the given precision.
func FormatPercent(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Describe summarizes a result in one line, for logs.
func Describe(r types.AnalysisResult) string {
	return fmt.Sprintf("%s score=%d verdict=%s price=%s", r.Symbol, r.Score, r.Verdict, r.Price)
}
