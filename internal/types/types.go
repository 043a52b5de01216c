package types

// Candle is one trading period's price action.
type Candle struct {
	Open, High, Low, Close float64
}

// Verdict labels, highest conviction first.
const (
	VerdictStrongBuy  = "STRONG BUY"
	VerdictBuy        = "BUY"
	VerdictHold       = "HOLD"
	VerdictSell       = "SELL"
	VerdictStrongSell = "STRONG SELL"
)

// AnalysisResult is the single record produced per (symbol, snapshot) pair.
// On failure only Error is set; on success Error is empty and every other
// field is populated.
type AnalysisResult struct {
	Error string `json:"error,omitempty"`

	Symbol  string `json:"symbol,omitempty"`
	Score   int    `json:"score"`
	Verdict string `json:"verdict,omitempty"`

	RSI      float64 `json:"rsi"`
	MACDBull bool    `json:"macd_bull"`
	ADX      float64 `json:"adx"`
	Pattern  string  `json:"pattern,omitempty"`

	VolSurge bool `json:"vol_surge"`
	OBVBull  bool `json:"obv_bull"`
	AboveMA  bool `json:"above_ma"`

	EarningsQoQ  string `json:"earnings_qoq,omitempty"`  // percent, 1 decimal
	AvgSentiment string `json:"avg_sentiment,omitempty"` // 2 decimals

	MarketUp   bool   `json:"market_up"`
	SectorRank string `json:"sector_rank,omitempty"`
	OIChange   int64  `json:"oi_change"`

	Entry     float64 `json:"entry"`
	Exit      float64 `json:"exit"`
	Potential string  `json:"potential,omitempty"` // percent, 1 decimal
	Price     string  `json:"price,omitempty"`     // currency, 2 decimals
}

// IsError reports whether the result carries an error descriptor instead of
// a full analysis.
func (r AnalysisResult) IsError() bool { return r.Error != "" }
