package season

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"golang.org/x/sync/errgroup"
)

// Aggregator builds season standings from the results stored in the ledger.
type Aggregator struct {
	reader      ResultsReader
	metrics     metrics.Metrics
	concurrency int
}

// NewAggregator creates an aggregator reading at most concurrency events at a time.
func NewAggregator(reader ResultsReader, metrics metrics.Metrics, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		reader:      reader,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// Aggregate computes the season table of a society. Events that fail to read are logged and
// contribute nothing; the table is still returned.
func (a *Aggregator) Aggregate(ctx context.Context, societyID string, events []oom.Event, roster oom.Roster, opts Options) []oom.SeasonEntry {
	start := time.Now()
	defer func() {
		a.metrics.IncSeasonAggregations()
		a.metrics.ObserveAggregationDuration(time.Since(start).Seconds())
	}()

	selected := SelectEvents(events, opts)
	if len(selected) == 0 {
		return []oom.SeasonEntry{}
	}

	perEvent := make([][]oom.ResultRecord, len(selected))
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)
	for i, ev := range selected {
		g.Go(func() error {
			results, err := a.reader.ReadResults(ctx, societyID, ev.ID)
			if err != nil {
				log.Warn("Skipping event results in season aggregation", "error", err, "societyID", societyID, "eventID", ev.ID)
				a.metrics.IncAggregationReadFailed()
				return nil
			}
			perEvent[i] = results
			return nil
		})
	}
	_ = g.Wait()

	table := Tally(perEvent, roster)
	log.Debug("Aggregated season", "societyID", societyID, "events", len(selected), "entries", len(table), "year", opts.Year, "oomOnly", opts.OOMOnly)
	return table
}

// FromEvents computes the season table straight from event scores, without the ledger.
func FromEvents(events []oom.Event, roster oom.Roster, opts Options) []oom.SeasonEntry {
	selected := SelectEvents(events, opts)
	perEvent := make([][]oom.ResultRecord, 0, len(selected))
	for i := range selected {
		perEvent = append(perEvent, oom.BuildResults(&selected[i], roster))
	}
	return Tally(perEvent, roster)
}

// Tally accumulates per-event results into a ranked season table. Participants with no
// points are left out.
func Tally(perEvent [][]oom.ResultRecord, roster oom.Roster) []oom.SeasonEntry {
	members := roster.Index()
	totals := make(map[string]*oom.SeasonEntry)
	for _, results := range perEvent {
		for _, rec := range results {
			if rec.MemberID == "" {
				continue
			}
			entry, ok := totals[rec.MemberID]
			if !ok {
				entry = &oom.SeasonEntry{MemberID: rec.MemberID}
				totals[rec.MemberID] = entry
			}
			entry.TotalPoints += rec.Points
			entry.Appearances++
			if rec.Position == 1 {
				entry.Wins++
			}
			if entry.MemberName == "" && rec.MemberName != "" && rec.MemberName != oom.UnknownMemberName {
				entry.MemberName = rec.MemberName
			}
		}
	}

	table := make([]oom.SeasonEntry, 0, len(totals))
	for id, entry := range totals {
		if entry.TotalPoints == 0 {
			continue
		}
		if m, ok := members[id]; ok {
			if m.Name != "" {
				entry.MemberName = m.Name
			}
			entry.HandicapIndex = m.HandicapIndex
		}
		if entry.MemberName == "" {
			entry.MemberName = oom.UnknownMemberName
		}
		table = append(table, *entry)
	}

	slices.SortFunc(table, compareEntries)
	for i := range table {
		table[i].Rank = i + 1
	}
	return table
}

func compareEntries(a, b oom.SeasonEntry) int {
	if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Appearances, b.Appearances); c != 0 {
		return c
	}
	if c := cmp.Compare(a.MemberName, b.MemberName); c != 0 {
		return c
	}
	return cmp.Compare(a.MemberID, b.MemberID)
}
