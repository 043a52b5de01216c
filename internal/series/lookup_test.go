package series

import (
	"encoding/json"
	"testing"

	"swing-trade-engine/internal/marketdata"
)

func payload(t *testing.T, key string, table map[string]marketdata.FieldRecord) marketdata.SeriesPayload {
	t.Helper()
	b, err := json.Marshal(table)
	if err != nil {
		t.Fatal(err)
	}
	return marketdata.SeriesPayload{key: b}
}

func TestLatestEmptySeries(t *testing.T) {
	for _, p := range []marketdata.SeriesPayload{
		nil,
		{},
		payload(t, "Meta Data", map[string]marketdata.FieldRecord{}),
	} {
		got := Latest(p, "RSI")
		if got.Current == nil || got.Previous == nil || got.TwoAgo == nil {
			t.Fatalf("expected empty records, got nil positions: %+v", got)
		}
		if len(got.Current) != 0 || len(got.Previous) != 0 || len(got.TwoAgo) != 0 {
			t.Errorf("expected all positions empty, got %+v", got)
		}
		if got.Current.Float("RSI") != 0 {
			t.Errorf("expected 0 default on empty record, got %f", got.Current.Float("RSI"))
		}
	}
}

func TestLatestOrdering(t *testing.T) {
	p := payload(t, "Technical Analysis: RSI", map[string]marketdata.FieldRecord{
		"2025-01-08": {"RSI": "55.0"},
		"2025-01-10": {"RSI": "60.0"},
		"2025-01-09": {"RSI": "57.5"},
		"2025-01-07": {"RSI": "50.0"},
	})

	got := Latest(p, "RSI")
	if v := got.Current.Float("RSI"); v != 60.0 {
		t.Errorf("current: expected 60.0, got %f", v)
	}
	if v := got.Previous.Float("RSI"); v != 57.5 {
		t.Errorf("previous: expected 57.5, got %f", v)
	}
	if v := got.TwoAgo.Float("RSI"); v != 55.0 {
		t.Errorf("two ago: expected 55.0, got %f", v)
	}
}

func TestLatestShortSeries(t *testing.T) {
	p := payload(t, "Technical Analysis: ADX", map[string]marketdata.FieldRecord{
		"2025-01-10": {"ADX": "28.0"},
		"2025-01-09": {"ADX": "26.0"},
	})

	got := Latest(p, "ADX")
	if v := got.Current.Float("ADX"); v != 28.0 {
		t.Errorf("current: expected 28.0, got %f", v)
	}
	if v := got.Previous.Float("ADX"); v != 26.0 {
		t.Errorf("previous: expected 26.0, got %f", v)
	}
	if len(got.TwoAgo) != 0 {
		t.Errorf("two ago: expected empty record, got %+v", got.TwoAgo)
	}
}

func TestLatestDailyFallback(t *testing.T) {
	p := payload(t, marketdata.DailySeriesKey, map[string]marketdata.FieldRecord{
		"2025-01-10": {"4. close": "101.5"},
		"2025-01-09": {"4. close": "100.0"},
	})

	got := Latest(p, "RSI")
	if v := got.Current.Float("4. close"); v != 101.5 {
		t.Errorf("expected daily table fallback, got %f", v)
	}
}

func TestDescendingDatesSkipsMalformedKeys(t *testing.T) {
	table := map[string]marketdata.FieldRecord{
		"2025-01-10":       {"v": "1"},
		"not-a-date":       {"v": "2"},
		"2025-13-40":       {"v": "3"},
		"2025-01-09 16:00": {"v": "4"},
		"2025-01-09":       {"v": "5"},
	}

	dates := DescendingDates(table)
	if len(dates) != 2 {
		t.Fatalf("expected 2 valid dates, got %d: %v", len(dates), dates)
	}
	if dates[0] != "2025-01-10" || dates[1] != "2025-01-09" {
		t.Errorf("unexpected order: %v", dates)
	}
}
