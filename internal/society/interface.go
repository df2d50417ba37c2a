package society

import (
	"context"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

// SocietyStore holds the members, events and raw scores of golf societies. Every call is
// scoped by society id.
type SocietyStore interface {
	AddMember(ctx context.Context, societyID, name string, handicapIndex *float64) (oom.Member, error)
	GetRoster(ctx context.Context, societyID string) (oom.Roster, error)
	CreateEvent(ctx context.Context, event oom.Event) (oom.Event, error)
	GetEvent(ctx context.Context, societyID, eventID string) (*oom.Event, error)
	ListEvents(ctx context.Context, societyID string) ([]oom.Event, error)
	SetEventStatus(ctx context.Context, societyID, eventID string, status oom.EventStatus) error
	RecordScore(ctx context.Context, societyID, eventID string, rec oom.ScoreRecord) error
	DeleteScore(ctx context.Context, societyID, eventID, memberID string) error
}
