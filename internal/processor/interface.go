package processor

import (
	"context"

	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/mauv0809/fairway-oom/internal/oom"
)

// Store defines the society data operations required by the processor.
type Store interface {
	GetEvent(ctx context.Context, societyID, eventID string) (*oom.Event, error)
	ListEvents(ctx context.Context, societyID string) ([]oom.Event, error)
	GetRoster(ctx context.Context, societyID string) (oom.Roster, error)
	SetEventStatus(ctx context.Context, societyID, eventID string, status oom.EventStatus) error
	RecordScore(ctx context.Context, societyID, eventID string, rec oom.ScoreRecord) error
}

// ResultsWriter is the write side of the results ledger.
type ResultsWriter interface {
	Publish(ctx context.Context, societyID string, event *oom.Event, roster oom.Roster) (int, error)
	Unpublish(ctx context.Context, societyID, eventID string) (int, error)
	Restore(ctx context.Context, societyID, eventID string, records []oom.ResultRecord) (int, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
