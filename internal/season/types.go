package season

import (
	"context"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

// Options narrows the events that count towards a season table.
type Options struct {
	// Year keeps events dated in that calendar year. Zero keeps every year.
	Year int
	// OOMOnly keeps events flagged as Order of Merit events.
	OOMOnly bool
}

// ResultsReader is the read side of the results ledger.
type ResultsReader interface {
	ReadResults(ctx context.Context, societyID, eventID string) ([]oom.ResultRecord, error)
}

// DefaultConcurrency bounds the concurrent ledger reads of one aggregation.
const DefaultConcurrency = 8
