package society

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/fairway-oom/internal/oom"
)

var _ SocietyStore = (*store)(nil)

type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New creates a new SocietyStore.
func New(db *sql.DB) SocietyStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// AddMember registers a member and returns it with its generated id.
func (s *store) AddMember(ctx context.Context, societyID, name string, handicapIndex *float64) (oom.Member, error) {
	name = strings.TrimSpace(name)
	if societyID == "" || name == "" {
		return oom.Member{}, fmt.Errorf("add member: society and name are required: %w", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	member := oom.Member{ID: uuid.NewString(), Name: name, HandicapIndex: handicapIndex}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members (id, society_id, name, handicap_index, created_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, societyID, member.Name, nullFloat(handicapIndex), s.now().Unix())
	if err != nil {
		return oom.Member{}, fmt.Errorf("add member: %w", err)
	}
	log.Debug("Added member", "societyID", societyID, "memberID", member.ID, "name", member.Name)
	return member, nil
}

// GetRoster returns every member of the society ordered by name.
func (s *store) GetRoster(ctx context.Context, societyID string) (oom.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, handicap_index FROM members WHERE society_id = ? ORDER BY name, id", societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := oom.Roster{}
	for rows.Next() {
		var (
			m        oom.Member
			handicap sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.Name, &handicap); err != nil {
			log.Error("Failed to scan member row", "error", err)
			continue
		}
		m.HandicapIndex = floatPtr(handicap)
		roster = append(roster, m)
	}
	return roster, rows.Err()
}

// CreateEvent stores a new event. Missing ids are generated; new events start as drafts
// unless a status is given.
func (s *store) CreateEvent(ctx context.Context, event oom.Event) (oom.Event, error) {
	event.Name = strings.TrimSpace(event.Name)
	if event.SocietyID == "" || event.Name == "" {
		return oom.Event{}, fmt.Errorf("create event: society and name are required: %w", ErrInvalid)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.ScoringMode == "" {
		event.ScoringMode = oom.ModeStableford
	} else {
		event.ScoringMode = oom.ParseScoringMode(string(event.ScoringMode))
	}
	if event.Status == "" {
		event.Status = oom.StatusDraft
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, society_id, name, event_date, scoring_mode, status, oom_eligible, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.SocietyID, event.Name, event.Date, event.ScoringMode, event.Status, event.OOMEligible, s.now().Unix())
	if err != nil {
		return oom.Event{}, fmt.Errorf("create event: %w", err)
	}
	event.Scores = nil
	log.Info("Created event", "societyID", event.SocietyID, "eventID", event.ID, "name", event.Name, "mode", event.ScoringMode)
	return event, nil
}

// GetEvent returns the event with its score map.
func (s *store) GetEvent(ctx context.Context, societyID, eventID string) (*oom.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getEventLocked(ctx, societyID, eventID)
}

func (s *store) getEventLocked(ctx context.Context, societyID, eventID string) (*oom.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, society_id, name, event_date, scoring_mode, status, oom_eligible
		FROM events
		WHERE society_id = ? AND id = ?
	`, societyID, eventID)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, gross, net, stableford FROM scores WHERE event_id = ?", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	event.Scores = make(map[string]oom.ScoreRecord)
	for rows.Next() {
		var (
			rec                    oom.ScoreRecord
			gross, net, stableford sql.NullFloat64
		)
		if err := rows.Scan(&rec.MemberID, &gross, &net, &stableford); err != nil {
			log.Error("Failed to scan score row", "error", err, "eventID", eventID)
			continue
		}
		rec.Gross = floatPtr(gross)
		rec.Net = floatPtr(net)
		rec.Stableford = floatPtr(stableford)
		event.Scores[rec.MemberID] = rec
	}
	return &event, rows.Err()
}

// ListEvents returns the events of the society without their scores, oldest first.
func (s *store) ListEvents(ctx context.Context, societyID string) ([]oom.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, society_id, name, event_date, scoring_mode, status, oom_eligible
		FROM events
		WHERE society_id = ?
		ORDER BY event_date, created_at, id
	`, societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []oom.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			log.Error("Failed to scan event row", "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// SetEventStatus moves an event between draft and published.
func (s *store) SetEventStatus(ctx context.Context, societyID, eventID string, status oom.EventStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE events SET status = ? WHERE society_id = ? AND id = ?", status, societyID, eventID)
	if err != nil {
		return err
	}
	return requireRow(res, "event "+eventID)
}

// RecordScore enters or replaces a participant's score after checking it against the event's
// scoring mode.
func (s *store) RecordScore(ctx context.Context, societyID, eventID string, rec oom.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.getEventLocked(ctx, societyID, eventID)
	if err != nil {
		return err
	}
	if err := oom.ValidateScore(event, rec); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scores (event_id, member_id, gross, net, stableford, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, member_id) DO UPDATE SET
			gross = excluded.gross,
			net = excluded.net,
			stableford = excluded.stableford,
			updated_at = excluded.updated_at;
	`, eventID, rec.MemberID, nullFloat(rec.Gross), nullFloat(rec.Net), nullFloat(rec.Stableford), s.now().Unix())
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	log.Debug("Recorded score", "societyID", societyID, "eventID", eventID, "memberID", rec.MemberID)
	return nil
}

// DeleteScore removes a participant's score from an event.
func (s *store) DeleteScore(ctx context.Context, societyID, eventID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM scores
		WHERE member_id = ? AND event_id IN (SELECT id FROM events WHERE society_id = ? AND id = ?)
	`, memberID, societyID, eventID)
	if err != nil {
		return err
	}
	return requireRow(res, "score of "+memberID)
}

func scanEvent(scanner interface{ Scan(...any) error }) (oom.Event, error) {
	var (
		event oom.Event
		mode  string
	)
	if err := scanner.Scan(&event.ID, &event.SocietyID, &event.Name, &event.Date, &mode, &event.Status, &event.OOMEligible); err != nil {
		return oom.Event{}, err
	}
	event.ScoringMode = oom.ParseScoringMode(mode)
	return event, nil
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
