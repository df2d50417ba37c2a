package ledger

import (
	"fmt"
	"time"
)

// Document is one stored record. UpdatedAt is assigned by the store on write.
type Document struct {
	ID        string
	Fields    map[string]any
	UpdatedAt time.Time
}

// Field names of a result document.
const (
	FieldMemberID   = "memberId"
	FieldMemberName = "memberName"
	FieldPoints     = "points"
	FieldPosition   = "position"
	FieldScore      = "score"
	FieldScoreType  = "scoreType"
	FieldUpdatedAt  = "updatedAt"
)

// ResultsCollection is the collection path holding the results of one event of one society.
func ResultsCollection(societyID, eventID string) string {
	return fmt.Sprintf("societies/%s/events/%s/results", societyID, eventID)
}
