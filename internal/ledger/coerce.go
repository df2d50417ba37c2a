package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

// Documents may come from older versions, manual edits or backups, so every field is read
// leniently: a wrong type becomes the zero value instead of an error.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// asCount reads a non-negative integer.
func asCount(v any) int {
	f := math.Round(asFloat(v))
	if f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func asScoreType(v any) oom.ScoringMode {
	if strings.EqualFold(asString(v), string(oom.ModeStableford)) {
		return oom.ModeStableford
	}
	return oom.ModeStrokeplay
}

// DecodeResult coerces a stored document into a result record. It reports false when the
// member id cannot be recovered from either the fields or the document id.
func DecodeResult(doc Document) (oom.ResultRecord, bool) {
	fields := doc.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	memberID := asString(fields[FieldMemberID])
	if memberID == "" {
		memberID = strings.TrimSpace(doc.ID)
	}
	if memberID == "" {
		return oom.ResultRecord{}, false
	}
	name := asString(fields[FieldMemberName])
	if name == "" {
		name = oom.UnknownMemberName
	}
	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		if s := asString(fields[FieldUpdatedAt]); s != "" {
			if parsed, err := time.Parse(time.RFC3339, s); err == nil {
				updatedAt = parsed
			}
		}
	}
	return oom.ResultRecord{
		MemberID:   memberID,
		MemberName: name,
		Points:     asCount(fields[FieldPoints]),
		Position:   asCount(fields[FieldPosition]),
		Score:      asFloat(fields[FieldScore]),
		ScoreType:  asScoreType(fields[FieldScoreType]),
		UpdatedAt:  updatedAt,
	}, true
}

// EncodeResult is the document form of a result record.
func EncodeResult(rec oom.ResultRecord) Document {
	return Document{
		ID: rec.MemberID,
		Fields: map[string]any{
			FieldMemberID:   rec.MemberID,
			FieldMemberName: rec.MemberName,
			FieldPoints:     rec.Points,
			FieldPosition:   rec.Position,
			FieldScore:      rec.Score,
			FieldScoreType:  string(rec.ScoreType),
		},
	}
}
