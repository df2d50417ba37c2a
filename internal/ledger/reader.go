package ledger

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/oom"
)

// Reader fetches stored results back from the document store.
type Reader struct {
	store DocumentStore
}

// NewReader creates a results ledger reader.
func NewReader(store DocumentStore) *Reader {
	return &Reader{store: store}
}

// ReadResults returns the stored results of an event ordered by position. Malformed fields are
// coerced and documents without a recoverable member id are dropped; only a store failure is
// reported as an error.
func (r *Reader) ReadResults(ctx context.Context, societyID, eventID string) ([]oom.ResultRecord, error) {
	if strings.TrimSpace(eventID) == "" {
		return []oom.ResultRecord{}, nil
	}
	collection := ResultsCollection(societyID, eventID)
	docs, err := r.store.ReadDocuments(ctx, collection)
	if err != nil {
		return nil, &PersistenceError{Op: "read results of event " + eventID, Collection: collection, Err: err}
	}

	results := make([]oom.ResultRecord, 0, len(docs))
	for _, doc := range docs {
		rec, ok := DecodeResult(doc)
		if !ok {
			log.Warn("Dropping result document without member id", "collection", collection, "id", doc.ID)
			continue
		}
		results = append(results, rec)
	}

	slices.SortStableFunc(results, func(a, b oom.ResultRecord) int {
		// Unknown positions sort last.
		pa, pb := a.Position, b.Position
		if pa == 0 {
			pa = math.MaxInt
		}
		if pb == 0 {
			pb = math.MaxInt
		}
		if c := cmp.Compare(pa, pb); c != 0 {
			return c
		}
		return cmp.Compare(a.MemberID, b.MemberID)
	})
	return results, nil
}
