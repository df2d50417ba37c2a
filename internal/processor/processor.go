package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/export"
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/pubsub"
	"github.com/mauv0809/fairway-oom/internal/season"
	"github.com/mauv0809/fairway-oom/internal/society"
)

// New creates a new Processor. Season aggregations read at most concurrency events at a time.
func New(store Store, writer ResultsWriter, reader season.ResultsReader, notifier Notifier, metrics metrics.Metrics, counters metrics.MetricsStore, pubsub pubsub.PubSubClient, concurrency int) *Processor {
	return &Processor{
		store:      store,
		writer:     writer,
		reader:     reader,
		aggregator: season.NewAggregator(reader, metrics, concurrency),
		pubsub:     pubsub,
		notifier:   notifier,
		metrics:    metrics,
		counters:   counters,
	}
}

// PublishEvent writes the results of an event to the ledger and marks it published. The event
// status only changes after the ledger write succeeded, so a failed publish leaves the event as
// it was. An event without rankable scores writes nothing and keeps its status.
func (p *Processor) PublishEvent(ctx context.Context, societyID, eventID string, dryRun bool) (PublishOutcome, error) {
	event, err := p.store.GetEvent(ctx, societyID, eventID)
	if err != nil {
		return PublishOutcome{}, err
	}
	roster, err := p.store.GetRoster(ctx, societyID)
	if err != nil {
		return PublishOutcome{}, fmt.Errorf("load roster: %w", err)
	}

	outcome := PublishOutcome{EventID: eventID, DryRun: dryRun, Results: oom.BuildResults(event, roster)}
	if dryRun {
		log.Info("[Dry Run] Would publish event results", "societyID", societyID, "eventID", eventID, "results", len(outcome.Results))
		return outcome, nil
	}

	written, err := p.writer.Publish(ctx, societyID, event, roster)
	if err != nil {
		p.metrics.IncPublishFailed()
		return PublishOutcome{}, err
	}
	outcome.Written = written
	if written == 0 {
		log.Info("Nothing to publish", "societyID", societyID, "eventID", eventID)
		return outcome, nil
	}

	if err := p.store.SetEventStatus(ctx, societyID, eventID, oom.StatusPublished); err != nil {
		return PublishOutcome{}, fmt.Errorf("results written but status not updated, publish again: %w", err)
	}
	event.Status = oom.StatusPublished

	p.metrics.IncResultsPublished()
	p.metrics.AddResultDocsWritten(written)
	p.counters.Increment(metrics.KeyResultsPublished)

	p.announce(ctx, pubsub.EventResultsPublished, societyID, event, written)
	if !p.AsyncNotify {
		if err := p.notifier.SendResultsNotification(*event, outcome.Results, false); err != nil {
			log.Error("Failed to send results notification", "error", err, "eventID", eventID)
		}
	}
	return outcome, nil
}

// UnpublishEvent removes the results of an event from the ledger and returns it to draft.
func (p *Processor) UnpublishEvent(ctx context.Context, societyID, eventID string, dryRun bool) (int, error) {
	event, err := p.store.GetEvent(ctx, societyID, eventID)
	if err != nil {
		return 0, err
	}
	if dryRun {
		log.Info("[Dry Run] Would unpublish event results", "societyID", societyID, "eventID", eventID)
		return 0, nil
	}

	deleted, err := p.writer.Unpublish(ctx, societyID, eventID)
	if err != nil {
		return 0, err
	}
	if err := p.store.SetEventStatus(ctx, societyID, eventID, oom.StatusDraft); err != nil {
		return deleted, fmt.Errorf("results removed but status not updated: %w", err)
	}

	p.metrics.IncResultsUnpublished()
	p.counters.Increment(metrics.KeyResultsUnpublished)
	p.announce(ctx, pubsub.EventResultsUnpublished, societyID, event, deleted)
	return deleted, nil
}

// RestoreResults writes the results of a backup back to the ledger. The backup must belong to
// an existing event of the society.
func (p *Processor) RestoreResults(ctx context.Context, societyID string, backup export.Backup, dryRun bool) (int, error) {
	if backup.SocietyID != "" && backup.SocietyID != societyID {
		return 0, fmt.Errorf("backup belongs to society %s, not %s", backup.SocietyID, societyID)
	}
	if _, err := p.store.GetEvent(ctx, societyID, backup.EventID); err != nil {
		return 0, err
	}
	if dryRun {
		log.Info("[Dry Run] Would restore event results", "societyID", societyID, "eventID", backup.EventID, "results", len(backup.Results))
		return 0, nil
	}

	written, err := p.writer.Restore(ctx, societyID, backup.EventID, backup.Results)
	if err != nil {
		return 0, err
	}
	status := oom.StatusDraft
	if written > 0 {
		status = oom.StatusPublished
	}
	if err := p.store.SetEventStatus(ctx, societyID, backup.EventID, status); err != nil {
		return written, fmt.Errorf("results restored but status not updated: %w", err)
	}
	p.metrics.AddResultDocsWritten(written)
	p.counters.Increment(metrics.KeyResultsRestored)
	return written, nil
}

// ExportResults builds the backup document of an event's stored results.
func (p *Processor) ExportResults(ctx context.Context, societyID, eventID string) (export.Backup, error) {
	if _, err := p.store.GetEvent(ctx, societyID, eventID); err != nil {
		return export.Backup{}, err
	}
	results, err := p.reader.ReadResults(ctx, societyID, eventID)
	if err != nil {
		return export.Backup{}, err
	}
	return export.Backup{
		SocietyID:  societyID,
		EventID:    eventID,
		ExportedAt: time.Now().UTC(),
		Results:    results,
	}, nil
}

// EventResults returns the stored results of an event.
func (p *Processor) EventResults(ctx context.Context, societyID, eventID string) ([]oom.ResultRecord, error) {
	if _, err := p.store.GetEvent(ctx, societyID, eventID); err != nil {
		return nil, err
	}
	return p.reader.ReadResults(ctx, societyID, eventID)
}

// PreviewResults computes the leaderboard of an event with points, without writing anything.
func (p *Processor) PreviewResults(ctx context.Context, societyID, eventID string) ([]oom.ResultRecord, error) {
	event, err := p.store.GetEvent(ctx, societyID, eventID)
	if err != nil {
		return nil, err
	}
	roster, err := p.store.GetRoster(ctx, societyID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return oom.BuildResults(event, roster), nil
}

// Season computes the Order of Merit table of a society from the ledger.
func (p *Processor) Season(ctx context.Context, societyID string, opts season.Options) ([]oom.SeasonEntry, error) {
	events, err := p.store.ListEvents(ctx, societyID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	roster, err := p.store.GetRoster(ctx, societyID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return p.aggregator.Aggregate(ctx, societyID, events, roster, opts), nil
}

// PreviewSeason computes the season table from the scores currently entered, as if every
// event were published now. Nothing is read from or written to the ledger.
func (p *Processor) PreviewSeason(ctx context.Context, societyID string, opts season.Options) ([]oom.SeasonEntry, error) {
	listed, err := p.store.ListEvents(ctx, societyID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	roster, err := p.store.GetRoster(ctx, societyID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	events := make([]oom.Event, 0, len(listed))
	for _, ev := range listed {
		full, err := p.store.GetEvent(ctx, societyID, ev.ID)
		if err != nil {
			return nil, fmt.Errorf("load event %s: %w", ev.ID, err)
		}
		full.Status = oom.StatusPublished
		events = append(events, *full)
	}
	return season.FromEvents(events, roster, opts), nil
}

// AnnounceSeason posts the season table to Slack.
func (p *Processor) AnnounceSeason(ctx context.Context, societyID string, opts season.Options, dryRun bool) ([]oom.SeasonEntry, error) {
	table, err := p.Season(ctx, societyID, opts)
	if err != nil {
		return nil, err
	}
	if err := p.notifier.SendSeasonStandings(SeasonTitle(opts), table, dryRun); err != nil {
		return table, err
	}
	return table, nil
}

// NotifyResults posts the stored results of an event to Slack. It is the consumer side of the
// results-published message.
func (p *Processor) NotifyResults(ctx context.Context, societyID, eventID string, dryRun bool) error {
	event, err := p.store.GetEvent(ctx, societyID, eventID)
	if err != nil {
		return err
	}
	results, err := p.reader.ReadResults(ctx, societyID, eventID)
	if err != nil {
		return err
	}
	return p.notifier.SendResultsNotification(*event, results, dryRun)
}

// ImportScores records the rows of an uploaded score sheet. Rows are matched to the roster by
// member id or by name, tolerating small spelling differences.
func (p *Processor) ImportScores(ctx context.Context, societyID, eventID string, rows []export.ScoreRow, dryRun bool) (ImportReport, error) {
	event, err := p.store.GetEvent(ctx, societyID, eventID)
	if err != nil {
		return ImportReport{}, err
	}
	roster, err := p.store.GetRoster(ctx, societyID)
	if err != nil {
		return ImportReport{}, fmt.Errorf("load roster: %w", err)
	}

	// A dry run validates every row against a private copy of the event, so rows are checked
	// against each other the same way RecordScore would check them.
	preview := *event
	preview.Scores = make(map[string]oom.ScoreRecord, len(event.Scores)+len(rows))
	for id, rec := range event.Scores {
		preview.Scores[id] = rec
	}

	var report ImportReport
	for _, row := range rows {
		member, suggestions := society.MatchMember(roster, row.Member)
		if member == nil {
			report.Unknown = append(report.Unknown, row.Member)
			for _, s := range suggestions {
				if report.Suggestions == nil {
					report.Suggestions = map[string][]string{}
				}
				report.Suggestions[row.Member] = append(report.Suggestions[row.Member], s.Member.Name)
			}
			continue
		}
		rec := oom.ScoreRecord{MemberID: member.ID, Gross: row.Gross, Net: row.Net, Stableford: row.Stableford}
		if dryRun {
			if err := oom.ValidateScore(&preview, rec); err != nil {
				report.Rejected = append(report.Rejected, fmt.Sprintf("%s: %v", row.Member, err))
				continue
			}
			preview.Scores[rec.MemberID] = rec
			report.Recorded++
			continue
		}
		if err := p.store.RecordScore(ctx, societyID, eventID, rec); err != nil {
			log.Warn("Rejected imported score", "error", err, "eventID", eventID, "member", row.Member)
			report.Rejected = append(report.Rejected, fmt.Sprintf("%s: %v", row.Member, err))
			continue
		}
		report.Recorded++
	}
	log.Info("Imported scores", "societyID", societyID, "eventID", eventID, "recorded", report.Recorded, "unknown", len(report.Unknown), "rejected", len(report.Rejected))
	return report, nil
}

// announce sends the results message. A failure is logged and never fails the publish.
func (p *Processor) announce(ctx context.Context, topic pubsub.EventType, societyID string, event *oom.Event, count int) {
	msg := pubsub.ResultsMessage{
		SocietyID: societyID,
		EventID:   event.ID,
		EventName: event.Name,
		Count:     count,
		At:        time.Now().UTC(),
	}
	if err := p.pubsub.SendMessage(ctx, topic, msg); err != nil {
		log.Warn("Failed to announce results change", "error", err, "topic", topic, "eventID", event.ID)
	}
}

// SeasonTitle names a season table for messages and exports.
func SeasonTitle(opts season.Options) string {
	title := "Order of Merit"
	if opts.Year != 0 {
		title = fmt.Sprintf("%s %d", title, opts.Year)
	}
	if !opts.OOMOnly {
		title += " (all events)"
	}
	return title
}
