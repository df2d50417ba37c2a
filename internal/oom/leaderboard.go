package oom

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// ErrNoScore is returned when a score record carries no usable value.
	ErrNoScore = errors.New("score record has no usable score")
	// ErrScoreModeMismatch is returned when a score record does not match the event's scoring mode.
	ErrScoreModeMismatch = errors.New("score record does not match the event scoring mode")
)

// ParseScoringMode normalizes a user or storage supplied scoring mode.
// Unrecognized values fall back to strokeplay.
func ParseScoringMode(s string) ScoringMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stableford":
		return ModeStableford
	case "both", "mixed":
		return ModeBoth
	default:
		return ModeStrokeplay
	}
}

func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// resolveScore picks the one authoritative value of a record for the given event mode.
func resolveScore(mode ScoringMode, rec ScoreRecord) (float64, ScoringMode, bool) {
	if (mode == ModeStableford || mode == ModeBoth) && usable(rec.Stableford) {
		return *rec.Stableford, ModeStableford, true
	}
	if usable(rec.Net) {
		return *rec.Net, ModeStrokeplay, true
	}
	if usable(rec.Gross) {
		return *rec.Gross, ModeStrokeplay, true
	}
	return 0, "", false
}

// effectiveMode is the single ranking direction of a leaderboard. A declared stableford or
// strokeplay event ranks by its declared mode; a mixed event ranks by stableford as soon as
// one record carries a stableford total.
func effectiveMode(declared ScoringMode, entries []LeaderboardEntry) ScoringMode {
	switch declared {
	case ModeStableford, ModeStrokeplay:
		return declared
	}
	for _, e := range entries {
		if e.ScoreType == ModeStableford {
			return ModeStableford
		}
	}
	return ModeStrokeplay
}

// ComputeLeaderboard ranks the scores of a single event. It never fails: an event without
// usable scores yields an empty leaderboard.
//
// Ties are not shared. Equal scores keep their pre-sort order, which is member id ascending,
// and receive consecutive positions.
func ComputeLeaderboard(event *Event) []LeaderboardEntry {
	if event == nil || len(event.Scores) == 0 {
		return []LeaderboardEntry{}
	}

	ids := make([]string, 0, len(event.Scores))
	for id := range event.Scores {
		if id != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	resolved := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		value, mode, ok := resolveScore(event.ScoringMode, event.Scores[id])
		if !ok {
			log.Debug("Skipping score record without a usable value", "eventID", event.ID, "memberID", id)
			continue
		}
		resolved = append(resolved, LeaderboardEntry{MemberID: id, Score: value, ScoreType: mode})
	}
	if len(resolved) == 0 {
		return []LeaderboardEntry{}
	}

	mode := effectiveMode(event.ScoringMode, resolved)
	entries := make([]LeaderboardEntry, 0, len(resolved))
	for _, e := range resolved {
		if e.ScoreType != mode {
			log.Warn("Excluding score that does not match the event scoring mode", "eventID", event.ID, "memberID", e.MemberID, "score_type", e.ScoreType, "mode", mode)
			continue
		}
		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		if mode == ModeStableford {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Score, b.Score)
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// ValidateScore checks a score record at entry time against the event's declared mode and,
// for mixed events, against the scores already entered.
func ValidateScore(event *Event, rec ScoreRecord) error {
	if event == nil {
		return fmt.Errorf("validate score: %w", ErrNoScore)
	}
	if strings.TrimSpace(rec.MemberID) == "" {
		return fmt.Errorf("validate score: member id is required")
	}
	_, mode, ok := resolveScore(event.ScoringMode, rec)
	if !ok {
		if event.ScoringMode == ModeStrokeplay && usable(rec.Stableford) {
			return fmt.Errorf("member %s: stableford total on a strokeplay event: %w", rec.MemberID, ErrScoreModeMismatch)
		}
		return fmt.Errorf("member %s: %w", rec.MemberID, ErrNoScore)
	}

	switch event.ScoringMode {
	case ModeStableford:
		if mode != ModeStableford {
			return fmt.Errorf("member %s: stroke score on a stableford event: %w", rec.MemberID, ErrScoreModeMismatch)
		}
	case ModeBoth:
		for id, other := range event.Scores {
			if id == rec.MemberID {
				continue
			}
			if _, otherMode, ok := resolveScore(event.ScoringMode, other); ok && otherMode != mode {
				return fmt.Errorf("member %s: event already holds %s scores: %w", rec.MemberID, otherMode, ErrScoreModeMismatch)
			}
		}
	}
	return nil
}
