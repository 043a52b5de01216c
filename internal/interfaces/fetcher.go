package interfaces

import (
	"context"

	"swing-trade-engine/internal/marketdata"
)

// SnapshotFetcher supplies the raw data bundle for one symbol. The analyzer
// never fetches anything itself.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, symbol string) (*marketdata.Snapshot, error)
}
