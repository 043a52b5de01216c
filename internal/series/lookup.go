// Package series locates the most recent observations of a named indicator
// inside a date-keyed provider payload.
package series

import (
	"sort"
	"time"

	"swing-trade-engine/internal/marketdata"
)

// Triple holds the three most recent observations of a series. Positions
// beyond the end of a short series are empty records, never nil lookups
// that could fault downstream.
type Triple struct {
	Current  marketdata.FieldRecord
	Previous marketdata.FieldRecord
	TwoAgo   marketdata.FieldRecord
}

// Latest returns the 3 most recent observations for an indicator. The table
// is searched first under "Technical Analysis: <indicator>", then under the
// daily price key; an unrecognized or absent payload yields empty records.
func Latest(p marketdata.SeriesPayload, indicator string) Triple {
	table := p.Table(marketdata.TechnicalAnalysisKey + indicator)
	if table == nil {
		table = p.Table(marketdata.DailySeriesKey)
	}
	dates := DescendingDates(table)

	t := Triple{
		Current:  marketdata.FieldRecord{},
		Previous: marketdata.FieldRecord{},
		TwoAgo:   marketdata.FieldRecord{},
	}
	if len(dates) > 0 {
		t.Current = table[dates[0]]
	}
	if len(dates) > 1 {
		t.Previous = table[dates[1]]
	}
	if len(dates) > 2 {
		t.TwoAgo = table[dates[2]]
	}
	return t
}

// DescendingDates returns the table's date keys most-recent-first. Keys must
// be ISO 8601 calendar dates, where lexicographic order equals chronological
// order; anything else is dropped rather than silently mis-sorted.
func DescendingDates(table map[string]marketdata.FieldRecord) []string {
	if len(table) == 0 {
		return nil
	}
	dates := make([]string, 0, len(table))
	for k := range table {
		if isISODate(k) {
			dates = append(dates, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

func isISODate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
