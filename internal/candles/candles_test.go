package candles

import (
	"testing"

	"swing-trade-engine/internal/marketdata"
	"swing-trade-engine/internal/types"
)

func dailyRecord(open, high, low, close string) marketdata.FieldRecord {
	return marketdata.FieldRecord{
		marketdata.FieldOpen:  open,
		marketdata.FieldHigh:  high,
		marketdata.FieldLow:   low,
		marketdata.FieldClose: close,
	}
}

func TestWindowChronological(t *testing.T) {
	daily := map[string]marketdata.FieldRecord{
		"2025-01-06": dailyRecord("1", "1", "1", "1"),
		"2025-01-07": dailyRecord("2", "2", "2", "2"),
		"2025-01-08": dailyRecord("3", "3", "3", "3"),
		"2025-01-09": dailyRecord("4", "4", "4", "4"),
		"2025-01-10": dailyRecord("5", "5", "5", "5"),
		"2025-01-13": dailyRecord("6", "6", "6", "6"),
		"2025-01-14": dailyRecord("7", "7", "7", "7"),
	}

	w := Window(daily)
	if len(w) != WindowSize {
		t.Fatalf("expected %d candles, got %d", WindowSize, len(w))
	}
	// the 5 most recent days, oldest first
	if w[0].Close != 3 || w[4].Close != 7 {
		t.Errorf("window not chronological: first=%.0f last=%.0f", w[0].Close, w[4].Close)
	}
}

func TestWindowDefaultsMissingFields(t *testing.T) {
	daily := map[string]marketdata.FieldRecord{
		"2025-01-10": {marketdata.FieldClose: "bogus"},
	}

	w := Window(daily)
	if len(w) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(w))
	}
	if w[0] != (types.Candle{}) {
		t.Errorf("expected zero candle for unparseable fields, got %+v", w[0])
	}
}

func TestClassifyFlatWindowIsNone(t *testing.T) {
	daily := map[string]marketdata.FieldRecord{}
	dates := []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10"}
	for _, d := range dates {
		daily[d] = dailyRecord("100", "100", "100", "100")
	}

	if got := Classify(daily, NewRuleDetector()); got != LabelNone {
		t.Errorf("expected %q on a flat window, got %q", LabelNone, got)
	}
}

func TestClassifyEmptySeriesIsNone(t *testing.T) {
	if got := Classify(nil, NewRuleDetector()); got != LabelNone {
		t.Errorf("expected %q on empty input, got %q", LabelNone, got)
	}
}

func TestClassifyHammer(t *testing.T) {
	daily := map[string]marketdata.FieldRecord{
		"2025-01-06": dailyRecord("100", "100", "100", "100"),
		"2025-01-07": dailyRecord("100", "100", "100", "100"),
		"2025-01-08": dailyRecord("100", "100", "100", "100"),
		"2025-01-09": dailyRecord("99", "100", "99", "100"),
		"2025-01-10": dailyRecord("100", "101.05", "96", "101"),
	}

	if got := Classify(daily, NewRuleDetector()); got != "Hammer" {
		t.Errorf("expected Hammer, got %q", got)
	}
}

func TestDetectBullishEngulfing(t *testing.T) {
	window := []types.Candle{
		{Open: 100, High: 100.5, Low: 98.8, Close: 99},
		{Open: 98.5, High: 101.5, Low: 98.3, Close: 101},
	}

	got := NewRuleDetector().Detect(window)
	if !contains(got, "Bullish Engulfing") {
		t.Errorf("expected Bullish Engulfing in %v", got)
	}
}

func TestDetectThreeWhiteSoldiers(t *testing.T) {
	window := []types.Candle{
		{Open: 100, High: 102.2, Low: 99.8, Close: 102},
		{Open: 101, High: 104.2, Low: 100.8, Close: 104},
		{Open: 103, High: 106.2, Low: 102.8, Close: 106},
	}

	got := NewRuleDetector().Detect(window)
	if !contains(got, "Three White Soldiers") {
		t.Errorf("expected Three White Soldiers in %v", got)
	}
}

type panicDetector struct{}

func (panicDetector) Detect(window []types.Candle) []string {
	panic("rule engine blew up")
}

func TestClassifyRecoversDetectorFault(t *testing.T) {
	daily := map[string]marketdata.FieldRecord{
		"2025-01-10": dailyRecord("100", "101", "99", "100.5"),
	}

	if got := Classify(daily, panicDetector{}); got != LabelError {
		t.Errorf("expected %q after detector fault, got %q", LabelError, got)
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
