package candles

import (
	"math"

	"swing-trade-engine/internal/types"
)

// Candle geometry helpers shared by the rules.

func bodySize(c types.Candle) float64 { return math.Abs(c.Close - c.Open) }

func candleRange(c types.Candle) float64 { return c.High - c.Low }

func upperShadow(c types.Candle) float64 { return c.High - math.Max(c.Open, c.Close) }

func lowerShadow(c types.Candle) float64 { return math.Min(c.Open, c.Close) - c.Low }

func isBullish(c types.Candle) bool { return c.Close > c.Open }

func isBearish(c types.Candle) bool { return c.Close < c.Open }

func isSmallBody(c types.Candle) bool {
	rng := candleRange(c)
	return rng > 0 && bodySize(c) <= 0.3*rng
}

// Rule is a single candlestick formation: a name, the number of candles it
// needs at the end of the window, and its predicate over those candles
// (chronological, oldest first).
type Rule struct {
	Name  string
	Bars  int
	Match func(w []types.Candle) bool
}

// RuleDetector evaluates an ordered rule set over the window tail. It is the
// default PatternDetector; swap the rule slice to change the vocabulary
// without touching scoring.
type RuleDetector struct {
	rules []Rule
}

// NewRuleDetector builds a detector over the standard rule set.
func NewRuleDetector() *RuleDetector {
	return &RuleDetector{rules: StandardRules()}
}

// NewRuleDetectorWith builds a detector over a custom rule set.
func NewRuleDetectorWith(rules []Rule) *RuleDetector {
	return &RuleDetector{rules: rules}
}

// Detect returns the names of every rule matching the end of the window, in
// rule-set order.
func (d *RuleDetector) Detect(window []types.Candle) []string {
	var matched []string
	for _, r := range d.rules {
		if len(window) < r.Bars {
			continue
		}
		if r.Match(window[len(window)-r.Bars:]) {
			matched = append(matched, r.Name)
		}
	}
	return matched
}

// StandardRules is the default formation vocabulary: classic single, two and
// three candle reversal/continuation patterns. Every predicate requires a
// nonzero range so a flat window matches nothing.
func StandardRules() []Rule {
	return []Rule{
		{Name: "Hammer", Bars: 1, Match: func(w []types.Candle) bool {
			c := w[0]
			body := bodySize(c)
			return body > 0 &&
				lowerShadow(c) >= 2*body &&
				upperShadow(c) <= 0.1*candleRange(c)
		}},
		{Name: "Inverted Hammer", Bars: 2, Match: func(w []types.Candle) bool {
			prev, c := w[0], w[1]
			body := bodySize(c)
			return isBearish(prev) && body > 0 &&
				upperShadow(c) >= 2*body &&
				lowerShadow(c) <= 0.1*candleRange(c)
		}},
		{Name: "Shooting Star", Bars: 2, Match: func(w []types.Candle) bool {
			prev, c := w[0], w[1]
			body := bodySize(c)
			return isBullish(prev) && isBearish(c) && body > 0 &&
				upperShadow(c) >= 2*body &&
				lowerShadow(c) <= 0.1*candleRange(c)
		}},
		{Name: "Doji", Bars: 1, Match: func(w []types.Candle) bool {
			c := w[0]
			rng := candleRange(c)
			return rng > 0 && bodySize(c) <= 0.1*rng
		}},
		{Name: "Bullish Engulfing", Bars: 2, Match: func(w []types.Candle) bool {
			prev, c := w[0], w[1]
			return isBearish(prev) && isBullish(c) &&
				bodySize(prev) > 0 &&
				c.Open <= prev.Close && c.Close >= prev.Open &&
				bodySize(c) > bodySize(prev)
		}},
		{Name: "Bearish Engulfing", Bars: 2, Match: func(w []types.Candle) bool {
			prev, c := w[0], w[1]
			return isBullish(prev) && isBearish(c) &&
				bodySize(prev) > 0 &&
				c.Open >= prev.Close && c.Close <= prev.Open &&
				bodySize(c) > bodySize(prev)
		}},
		{Name: "Piercing Line", Bars: 2, Match: func(w []types.Candle) bool {
			prev, c := w[0], w[1]
			mid := (prev.Open + prev.Close) / 2
			return isBearish(prev) && isBullish(c) &&
				bodySize(prev) > 0 &&
				c.Open < prev.Close &&
				c.Close > mid && c.Close < prev.Open
		}},
		{Name: "Dark Cloud Cover", Bars: 2, Match: func(w []types.Candle) bool {
			prev, c := w[0], w[1]
			mid := (prev.Open + prev.Close) / 2
			return isBullish(prev) && isBearish(c) &&
				bodySize(prev) > 0 &&
				c.Open > prev.Close &&
				c.Close < mid && c.Close > prev.Open
		}},
		{Name: "Morning Star", Bars: 3, Match: func(w []types.Candle) bool {
			a, b, c := w[0], w[1], w[2]
			mid := (a.Open + a.Close) / 2
			return isBearish(a) && bodySize(a) > 0 &&
				isSmallBody(b) && bodySize(b) < bodySize(a) &&
				isBullish(c) && c.Close > mid
		}},
		{Name: "Evening Star", Bars: 3, Match: func(w []types.Candle) bool {
			a, b, c := w[0], w[1], w[2]
			mid := (a.Open + a.Close) / 2
			return isBullish(a) && bodySize(a) > 0 &&
				isSmallBody(b) && bodySize(b) < bodySize(a) &&
				isBearish(c) && c.Close < mid
		}},
		{Name: "Three White Soldiers", Bars: 3, Match: func(w []types.Candle) bool {
			a, b, c := w[0], w[1], w[2]
			return isBullish(a) && isBullish(b) && isBullish(c) &&
				b.Close > a.Close && c.Close > b.Close &&
				b.Open > a.Open && c.Open > b.Open
		}},
		{Name: "Three Black Crows", Bars: 3, Match: func(w []types.Candle) bool {
			a, b, c := w[0], w[1], w[2]
			return isBearish(a) && isBearish(b) && isBearish(c) &&
				b.Close < a.Close && c.Close < b.Close &&
				b.Open < a.Open && c.Open < b.Open
		}},
	}
}
