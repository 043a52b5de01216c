// Package candles classifies short-term candlestick formations over the
// most recent daily trading window.
package candles

import (
	"strings"

	"swing-trade-engine/internal/interfaces"
	"swing-trade-engine/internal/marketdata"
	"swing-trade-engine/internal/series"
	"swing-trade-engine/internal/types"
)

const (
	// WindowSize is the number of most recent trading days classified.
	WindowSize = 5

	// LabelNone is returned when no formation matches.
	LabelNone = "None"
	// LabelError is returned when rule evaluation fails internally.
	LabelError = "Error detecting patterns"
)

// Window builds the chronological classification window from a date-keyed
// daily table: the most recent WindowSize records, oldest first. Missing or
// unparseable OHLC fields default to 0.
func Window(daily map[string]marketdata.FieldRecord) []types.Candle {
	dates := series.DescendingDates(daily)
	if len(dates) > WindowSize {
		dates = dates[:WindowSize]
	}
	window := make([]types.Candle, len(dates))
	for i, d := range dates {
		rec := daily[d]
		// dates are most-recent-first; fill the window back to front so the
		// result reads oldest to newest
		window[len(dates)-1-i] = types.Candle{
			Open:  rec.Float(marketdata.FieldOpen),
			High:  rec.Float(marketdata.FieldHigh),
			Low:   rec.Float(marketdata.FieldLow),
			Close: rec.Float(marketdata.FieldClose),
		}
	}
	return window
}

// Classify runs the detector over the recent daily window and returns the
// matched formations as a comma-joined label, LabelNone when nothing
// matches, or LabelError when the rule engine faults. A classification
// failure never propagates; scoring continues with the degraded label.
func Classify(daily map[string]marketdata.FieldRecord, det interfaces.PatternDetector) (label string) {
	defer func() {
		if r := recover(); r != nil {
			label = LabelError
		}
	}()

	patterns := det.Detect(Window(daily))
	if len(patterns) == 0 {
		return LabelNone
	}
	return strings.Join(patterns, ", ")
}
