package oom

import "time"

// ScoringMode is the declared ranking direction of an event.
type ScoringMode string

const (
	// ModeStableford ranks higher totals first.
	ModeStableford ScoringMode = "stableford"
	// ModeStrokeplay ranks lower totals first.
	ModeStrokeplay ScoringMode = "strokeplay"
	// ModeBoth accepts either kind of record, preferring stableford.
	ModeBoth ScoringMode = "both"
)

// EventStatus is the publication status of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
)

// ScoreRecord is the raw score entered for one participant of an event.
type ScoreRecord struct {
	MemberID   string   `json:"member_id"`
	Gross      *float64 `json:"gross,omitempty"`
	Net        *float64 `json:"net,omitempty"`
	Stableford *float64 `json:"stableford,omitempty"`
}

// Event is a single scored competition.
type Event struct {
	ID          string                 `json:"id"`
	SocietyID   string                 `json:"society_id"`
	Name        string                 `json:"name"`
	Date        string                 `json:"date"`
	ScoringMode ScoringMode            `json:"scoring_mode"`
	Status      EventStatus            `json:"status"`
	OOMEligible bool                   `json:"oom_eligible"`
	Scores      map[string]ScoreRecord `json:"scores,omitempty"`
}

// LeaderboardEntry is one row of a computed event leaderboard. Never persisted.
type LeaderboardEntry struct {
	MemberID  string      `json:"member_id"`
	Position  int         `json:"position"`
	Score     float64     `json:"score"`
	ScoreType ScoringMode `json:"score_type"`
}

// ResultRecord is the durable result of one participant in one event.
type ResultRecord struct {
	MemberID   string      `json:"memberId"`
	MemberName string      `json:"memberName"`
	Points     int         `json:"points"`
	Position   int         `json:"position"`
	Score      float64     `json:"score"`
	ScoreType  ScoringMode `json:"scoreType"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// SeasonEntry is one row of the season standings. Rank is positional.
type SeasonEntry struct {
	Rank          int      `json:"rank"`
	MemberID      string   `json:"member_id"`
	MemberName    string   `json:"member_name"`
	TotalPoints   int      `json:"total_points"`
	Wins          int      `json:"wins"`
	Appearances   int      `json:"appearances"`
	HandicapIndex *float64 `json:"handicap_index,omitempty"`
}

// Member is a society member or guest as known to the roster.
type Member struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	HandicapIndex *float64 `json:"handicap_index,omitempty"`
}

// Roster is the participant directory used to denormalize names.
type Roster []Member

// Lookup returns the member with the given id.
func (r Roster) Lookup(memberID string) (Member, bool) {
	for _, m := range r {
		if m.ID == memberID {
			return m, true
		}
	}
	return Member{}, false
}

// Index builds an id keyed view of the roster.
func (r Roster) Index() map[string]Member {
	idx := make(map[string]Member, len(r))
	for _, m := range r {
		idx[m.ID] = m
	}
	return idx
}

// UnknownMemberName is used when a participant is not on the roster.
const UnknownMemberName = "Unknown"

// BuildResults turns an event's leaderboard into result records with points and denormalized
// names. Participants missing from the roster are named UnknownMemberName.
func BuildResults(event *Event, roster Roster) []ResultRecord {
	board := ComputeLeaderboard(event)
	if len(board) == 0 {
		return []ResultRecord{}
	}
	names := roster.Index()
	results := make([]ResultRecord, 0, len(board))
	for _, entry := range board {
		name := UnknownMemberName
		if m, ok := names[entry.MemberID]; ok && m.Name != "" {
			name = m.Name
		}
		results = append(results, ResultRecord{
			MemberID:   entry.MemberID,
			MemberName: name,
			Points:     PointsForPosition(entry.Position),
			Position:   entry.Position,
			Score:      entry.Score,
			ScoreType:  entry.ScoreType,
		})
	}
	return results
}
