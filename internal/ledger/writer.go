package ledger

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/oom"
)

// Writer is the only component that writes result documents.
type Writer struct {
	store DocumentStore
}

// NewWriter creates a results ledger writer.
func NewWriter(store DocumentStore) *Writer {
	return &Writer{store: store}
}

// Publish replaces the stored results of an event with the ones computed from its scores and
// returns how many were written. Publishing the same scores again yields the same set.
// An event without an id, scores or a usable leaderboard writes nothing and is not an error.
func (w *Writer) Publish(ctx context.Context, societyID string, event *oom.Event, roster oom.Roster) (int, error) {
	if event == nil || strings.TrimSpace(event.ID) == "" || len(event.Scores) == 0 {
		log.Debug("Nothing to publish", "societyID", societyID)
		return 0, nil
	}

	results := oom.BuildResults(event, roster)
	if len(results) == 0 {
		log.Info("Event has no rankable scores, nothing to publish", "societyID", societyID, "eventID", event.ID)
		return 0, nil
	}

	collection := ResultsCollection(societyID, event.ID)
	docs := make([]Document, 0, len(results))
	for _, rec := range results {
		docs = append(docs, EncodeResult(rec))
	}

	if err := w.store.ReplaceAll(ctx, collection, docs); err != nil {
		log.Error("Failed to publish results", "error", err, "societyID", societyID, "eventID", event.ID)
		return 0, &PersistenceError{Op: "publish results for event " + event.ID, Collection: collection, Err: err}
	}
	log.Info("Published event results", "societyID", societyID, "eventID", event.ID, "written", len(docs))
	return len(docs), nil
}

// Unpublish deletes every stored result of an event and returns how many were removed.
func (w *Writer) Unpublish(ctx context.Context, societyID, eventID string) (int, error) {
	if strings.TrimSpace(eventID) == "" {
		return 0, nil
	}
	collection := ResultsCollection(societyID, eventID)

	deleted, err := w.store.DeleteCollection(ctx, collection)
	if err != nil {
		log.Error("Failed to unpublish results", "error", err, "societyID", societyID, "eventID", eventID)
		return 0, &PersistenceError{Op: "unpublish results for event " + eventID, Collection: collection, Err: err}
	}
	log.Info("Unpublished event results", "societyID", societyID, "eventID", eventID, "deleted", deleted)
	return deleted, nil
}

// Restore replaces the stored results of an event with records taken from a backup.
// Records without a member id are skipped. A member listed more than once keeps the record with
// the best position, so the restored set has one document per member.
func (w *Writer) Restore(ctx context.Context, societyID, eventID string, records []oom.ResultRecord) (int, error) {
	if strings.TrimSpace(eventID) == "" {
		return 0, nil
	}
	docs := make([]Document, 0, len(records))
	seen := make(map[string]int, len(records))
	for _, rec := range records {
		rec.MemberID = strings.TrimSpace(rec.MemberID)
		if rec.MemberID == "" {
			log.Warn("Skipping backup record without member id", "eventID", eventID)
			continue
		}
		if i, dup := seen[rec.MemberID]; dup {
			log.Warn("Duplicate member in backup", "eventID", eventID, "memberID", rec.MemberID)
			if betterPosition(rec.Position, asCount(docs[i].Fields[FieldPosition])) {
				docs[i] = EncodeResult(rec)
			}
			continue
		}
		seen[rec.MemberID] = len(docs)
		docs = append(docs, EncodeResult(rec))
	}
	collection := ResultsCollection(societyID, eventID)
	if err := w.store.ReplaceAll(ctx, collection, docs); err != nil {
		return 0, &PersistenceError{Op: "restore results for event " + eventID, Collection: collection, Err: err}
	}
	log.Info("Restored event results", "societyID", societyID, "eventID", eventID, "written", len(docs))
	return len(docs), nil
}

// betterPosition reports whether position a ranks above b. Unknown positions rank last.
func betterPosition(a, b int) bool {
	if a <= 0 {
		return false
	}
	return b <= 0 || a < b
}
