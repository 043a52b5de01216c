package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"swing-trade-engine/internal/candles"
	"swing-trade-engine/internal/marketdata"
	"swing-trade-engine/internal/scoring"
	"swing-trade-engine/internal/types"
)

func seriesPayload(t *testing.T, key string, table map[string]marketdata.FieldRecord) marketdata.SeriesPayload {
	t.Helper()
	b, err := json.Marshal(table)
	if err != nil {
		t.Fatal(err)
	}
	return marketdata.SeriesPayload{key: b}
}

func testSnapshot(t *testing.T) *marketdata.Snapshot {
	t.Helper()

	daily := map[string]marketdata.FieldRecord{}
	for i := 1; i <= 5; i++ {
		daily[fmt.Sprintf("2025-02-%02d", i)] = marketdata.FieldRecord{
			marketdata.FieldOpen:   "99",
			marketdata.FieldHigh:   "101",
			marketdata.FieldLow:    "98",
			marketdata.FieldClose:  "100",
			marketdata.FieldVolume: "500000",
		}
	}

	quote := &marketdata.GlobalQuote{}
	quote.Quote.Price = "100"

	return &marketdata.Snapshot{
		Daily: seriesPayload(t, marketdata.DailySeriesKey, daily),
		RSI: seriesPayload(t, "Technical Analysis: RSI", map[string]marketdata.FieldRecord{
			"2025-02-05": {"RSI": "20"},
		}),
		ADX: seriesPayload(t, "Technical Analysis: ADX", map[string]marketdata.FieldRecord{
			"2025-02-05": {"ADX": "30"},
		}),
		Quote: quote,
	}
}

func TestAnalyzeMissingDailyData(t *testing.T) {
	ctx := context.Background()
	a := Default()

	for name, snap := range map[string]*marketdata.Snapshot{
		"nil snapshot": nil,
		"nil daily":    {Quote: &marketdata.GlobalQuote{}},
	} {
		res := a.Analyze(ctx, snap, "AAPL")
		if res.Error != ErrMissingData {
			t.Errorf("%s: expected %q, got %q", name, ErrMissingData, res.Error)
		}
		if res.Score != 0 || res.Verdict != "" || res.Price != "" || res.Pattern != "" {
			t.Errorf("%s: error result must carry no analysis fields: %+v", name, res)
		}
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	res := Default().Analyze(context.Background(), testSnapshot(t), "AAPL")

	if res.IsError() {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	// rsi<35 and adx>25 are the only triggered conditions
	want := scoring.DefaultWeights().RSIOversold + scoring.DefaultWeights().ADXTrend
	if res.Score != want {
		t.Errorf("expected score %d, got %d", want, res.Score)
	}
	if res.Verdict != types.VerdictStrongSell {
		t.Errorf("expected %s, got %s", types.VerdictStrongSell, res.Verdict)
	}
	if res.Entry != 100*0.94 {
		t.Errorf("expected entry 94, got %f", res.Entry)
	}
	if res.Exit != 100*1.35 {
		t.Errorf("expected exit 135, got %f", res.Exit)
	}
	if res.Price != "100.00" {
		t.Errorf("expected price 100.00, got %s", res.Price)
	}
	if res.Pattern != candles.LabelNone {
		t.Errorf("expected pattern %q, got %q", candles.LabelNone, res.Pattern)
	}
}

type faultyDetector struct{}

func (faultyDetector) Detect(window []types.Candle) []string {
	panic("malformed candle data")
}

func TestAnalyzePatternFaultDegradesLabelOnly(t *testing.T) {
	a := New(scoring.DefaultWeights(), faultyDetector{})
	res := a.Analyze(context.Background(), testSnapshot(t), "AAPL")

	if res.IsError() {
		t.Fatalf("pattern fault must not abort the analysis: %s", res.Error)
	}
	if res.Pattern != candles.LabelError {
		t.Errorf("expected %q, got %q", candles.LabelError, res.Pattern)
	}
	want := scoring.DefaultWeights().RSIOversold + scoring.DefaultWeights().ADXTrend
	if res.Score != want {
		t.Errorf("expected score %d despite pattern fault, got %d", want, res.Score)
	}
}

func TestAnalyzeConcurrentSnapshots(t *testing.T) {
	a := Default()
	snap := testSnapshot(t)
	done := make(chan types.AnalysisResult, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- a.Analyze(context.Background(), snap, "AAPL")
		}()
	}
	for i := 0; i < 8; i++ {
		res := <-done
		if res.IsError() {
			t.Errorf("unexpected error: %s", res.Error)
		}
	}
}
