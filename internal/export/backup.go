package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mauv0809/fairway-oom/internal/ledger"
	"github.com/mauv0809/fairway-oom/internal/oom"
)

// Backup is the portable JSON form of one event's published results.
type Backup struct {
	SocietyID  string             `json:"societyId"`
	EventID    string             `json:"eventId"`
	ExportedAt time.Time          `json:"exportedAt"`
	Results    []oom.ResultRecord `json:"results"`
}

// rawBackup keeps results untyped so hand-edited backups are coerced like stored documents.
type rawBackup struct {
	SocietyID  json.RawMessage  `json:"societyId"`
	EventID    json.RawMessage  `json:"eventId"`
	ExportedAt string           `json:"exportedAt"`
	Results    []map[string]any `json:"results"`
}

// WriteBackup encodes b as indented JSON.
func WriteBackup(w io.Writer, b Backup) error {
	if b.Results == nil {
		b.Results = []oom.ResultRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup document. Result fields of the wrong type are coerced and
// results without a member id are dropped; only malformed JSON is an error.
func ReadBackup(r io.Reader) (Backup, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw rawBackup
	if err := dec.Decode(&raw); err != nil {
		return Backup{}, fmt.Errorf("decode backup: %w", err)
	}

	b := Backup{
		SocietyID: rawString(raw.SocietyID),
		EventID:   rawString(raw.EventID),
		Results:   make([]oom.ResultRecord, 0, len(raw.Results)),
	}
	if t, err := time.Parse(time.RFC3339Nano, raw.ExportedAt); err == nil {
		b.ExportedAt = t
	}
	for _, fields := range raw.Results {
		rec, ok := ledger.DecodeResult(ledger.Document{Fields: fields})
		if !ok {
			continue
		}
		b.Results = append(b.Results, rec)
	}
	return b, nil
}

// rawString accepts ids written as strings or numbers.
func rawString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String()
	}
	return ""
}
