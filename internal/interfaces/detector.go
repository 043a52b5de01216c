package interfaces

import (
	"swing-trade-engine/internal/types"
)

// PatternDetector labels candlestick formations over a chronological window
// of candles. Implementations may panic on malformed input; callers contain
// that at the classification boundary.
type PatternDetector interface {
	Detect(window []types.Candle) []string
}
