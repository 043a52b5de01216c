// Package analysis assembles the per-indicator lookups, the candlestick
// classifier and the scoring model against one instrument snapshot.
package analysis

import (
	"context"
	"fmt"

	"swing-trade-engine/internal/candles"
	"swing-trade-engine/internal/interfaces"
	"swing-trade-engine/internal/logger"
	"swing-trade-engine/internal/marketdata"
	"swing-trade-engine/internal/scoring"
	"swing-trade-engine/internal/types"
)

// ErrMissingData is the structured message returned when the daily price
// series is absent. It is the single hard precondition; everything else
// degrades per field.
const ErrMissingData = "Missing essential data for analysis"

// Analyzer reduces one snapshot to one result. It is stateless apart from
// its configuration and safe for concurrent use across snapshots.
type Analyzer struct {
	model    *scoring.Model
	detector interfaces.PatternDetector
}

// New creates an analyzer. A nil detector falls back to the standard rule set.
func New(weights scoring.Weights, det interfaces.PatternDetector) *Analyzer {
	if det == nil {
		det = candles.NewRuleDetector()
	}
	return &Analyzer{model: scoring.NewModel(weights), detector: det}
}

// Default creates an analyzer with the standard weights and rule set.
func Default() *Analyzer {
	return New(scoring.DefaultWeights(), nil)
}

// Analyze derives every signal from the snapshot and scores it. It always
// returns a value: a full result on success, an error descriptor when the
// daily series is missing or an unexpected fault occurs. Nothing escapes
// this boundary.
func (a *Analyzer) Analyze(ctx context.Context, snap *marketdata.Snapshot, symbol string) (res types.AnalysisResult) {
	if snap == nil || snap.Daily == nil {
		logger.Warn(ctx, "daily price series missing", "symbol", symbol)
		return types.AnalysisResult{Error: ErrMissingData}
	}

	op := logger.StartOperation(ctx, "analyze", "symbol", symbol)
	ctx = op.Context()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			op.EndWithError(err)
			res = types.AnalysisResult{Error: fmt.Sprintf("Analysis failed: %v. Data may be incomplete.", r)}
		}
	}()

	sig := scoring.Derive(snap, symbol, a.detector)
	res = a.model.Score(symbol, sig)

	logger.Verdict(ctx, symbol, res.Verdict, res.Score,
		"pattern", res.Pattern,
		"market_up", res.MarketUp,
		"sector_rank", res.SectorRank,
	)
	op.End("score", res.Score)
	return res
}
