package metrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// counterTimeout bounds a single counter statement; counting never holds up a publish.
const counterTimeout = 2 * time.Second

// ledgerCounters are the lifetime ledger operations served at /stats. They are always
// reported, at zero until the first operation of their kind.
var ledgerCounters = []string{KeyResultsPublished, KeyResultsUnpublished, KeyResultsRestored}

// counterStore keeps how often results were published, unpublished and restored in the
// activity_counters table, so the numbers outlive the Prometheus registry.
type counterStore struct {
	db *sql.DB
}

var _ MetricsStore = (*counterStore)(nil)

func New(db *sql.DB) MetricsStore {
	return &counterStore{db: db}
}

// Increment bumps a counter by one. A failed write is logged and dropped.
func (s *counterStore) Increment(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		log.Warn("Ignoring activity counter without a key")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = activity_counters.value + 1;
	`, key)
	if err != nil {
		log.Error("Failed to count ledger activity", "error", err, "key", key)
		return
	}
	log.Debug("Counted ledger activity", "key", key)
}

// GetAll returns every stored counter plus the ledger counters not yet incremented.
func (s *counterStore) GetAll() (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM activity_counters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(ledgerCounters))
	for _, key := range ledgerCounters {
		counts[key] = 0
	}
	for rows.Next() {
		var (
			key   string
			value int
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counts[key] = value
	}
	return counts, rows.Err()
}
