package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/fairway-oom/internal/export"
	"github.com/mauv0809/fairway-oom/internal/ledger"
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/pubsub"
	"github.com/mauv0809/fairway-oom/internal/season"
	"github.com/mauv0809/fairway-oom/internal/society"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

type fixture struct {
	store    *society.MockStore
	docs     *ledger.MockStore
	notif    *notifier.Mock
	metr     *metrics.Mock
	counters *metrics.MockStore
	pubsub   *pubsub.MockPubSubClient
	p        *Processor
}

func newFixture() *fixture {
	fx := &fixture{
		store:    society.NewMock(),
		docs:     ledger.NewMock(),
		notif:    notifier.NewMock(),
		metr:     metrics.NewMock(),
		counters: metrics.NewMockStore(),
		pubsub:   pubsub.NewMock(),
	}
	fx.p = New(fx.store, ledger.NewWriter(fx.docs), ledger.NewReader(fx.docs), fx.notif, fx.metr, fx.counters, fx.pubsub, 2)

	fx.store.GetEventFunc = func(ctx context.Context, societyID, eventID string) (*oom.Event, error) {
		if eventID != "E1" {
			return nil, society.ErrNotFound
		}
		return &oom.Event{
			ID: "E1", SocietyID: societyID, Name: "Spring Stableford", Date: "2024-05-12",
			ScoringMode: oom.ModeStableford, Status: oom.StatusDraft, OOMEligible: true,
			Scores: map[string]oom.ScoreRecord{
				"A": {MemberID: "A", Stableford: f(38)},
				"B": {MemberID: "B", Stableford: f(42)},
				"C": {MemberID: "C", Stableford: f(30)},
			},
		}, nil
	}
	fx.store.GetRosterFunc = func(ctx context.Context, societyID string) (oom.Roster, error) {
		return oom.Roster{{ID: "A", Name: "Alice"}, {ID: "B", Name: "Bob"}, {ID: "C", Name: "Cara"}}, nil
	}
	return fx
}

func TestProcessor_PublishEvent(t *testing.T) {
	t.Run("writes results, marks the event published and notifies", func(t *testing.T) {
		fx := newFixture()

		outcome, err := fx.p.PublishEvent(context.Background(), "soc", "E1", false)
		require.NoError(t, err)
		assert.Equal(t, 3, outcome.Written)
		require.Len(t, outcome.Results, 3)
		assert.Equal(t, "B", outcome.Results[0].MemberID)

		require.Len(t, fx.docs.ReplaceAllCalls, 1)
		assert.Equal(t, "societies/soc/events/E1/results", fx.docs.ReplaceAllCalls[0].Collection)
		require.Len(t, fx.store.SetEventStatusCalls, 1)
		assert.Equal(t, oom.StatusPublished, fx.store.SetEventStatusCalls[0].Status)

		assert.Equal(t, 1, fx.metr.ResultsPublished())
		assert.Equal(t, 3, fx.metr.ResultDocsWritten())
		counts, _ := fx.counters.GetAll()
		assert.Equal(t, 1, counts[metrics.KeyResultsPublished])

		require.Len(t, fx.pubsub.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventResultsPublished, fx.pubsub.SendMessageCalls[0].Topic)
		msg := fx.pubsub.SendMessageCalls[0].Data.(pubsub.ResultsMessage)
		assert.Equal(t, "soc", msg.SocietyID)
		assert.Equal(t, 3, msg.Count)

		require.Len(t, fx.notif.SendResultsNotificationCalls, 1)
		assert.Equal(t, oom.StatusPublished, fx.notif.SendResultsNotificationCalls[0].Event.Status)
	})

	t.Run("leaves notification to pubsub when async", func(t *testing.T) {
		fx := newFixture()
		fx.p.AsyncNotify = true

		_, err := fx.p.PublishEvent(context.Background(), "soc", "E1", false)
		require.NoError(t, err)
		assert.Len(t, fx.pubsub.SendMessageCalls, 1)
		assert.Empty(t, fx.notif.SendResultsNotificationCalls)
	})

	t.Run("failed ledger write keeps the event status", func(t *testing.T) {
		fx := newFixture()
		fx.docs.ReplaceAllFunc = func(ctx context.Context, collection string, docs []ledger.Document) error {
			return errors.New("database is locked")
		}

		_, err := fx.p.PublishEvent(context.Background(), "soc", "E1", false)
		var perr *ledger.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Empty(t, fx.store.SetEventStatusCalls)
		assert.Empty(t, fx.pubsub.SendMessageCalls)
		assert.Empty(t, fx.notif.SendResultsNotificationCalls)
		assert.Equal(t, 1, fx.metr.PublishFailed())
	})

	t.Run("dry run computes without writing", func(t *testing.T) {
		fx := newFixture()

		outcome, err := fx.p.PublishEvent(context.Background(), "soc", "E1", true)
		require.NoError(t, err)
		assert.True(t, outcome.DryRun)
		assert.Len(t, outcome.Results, 3)
		assert.Zero(t, outcome.Written)
		assert.Empty(t, fx.docs.ReplaceAllCalls)
		assert.Empty(t, fx.store.SetEventStatusCalls)
	})

	t.Run("unknown event", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.p.PublishEvent(context.Background(), "soc", "nope", false)
		assert.ErrorIs(t, err, society.ErrNotFound)
	})

	t.Run("event without scores publishes nothing", func(t *testing.T) {
		fx := newFixture()
		fx.store.GetEventFunc = func(ctx context.Context, societyID, eventID string) (*oom.Event, error) {
			return &oom.Event{ID: eventID, ScoringMode: oom.ModeStableford}, nil
		}

		outcome, err := fx.p.PublishEvent(context.Background(), "soc", "E2", false)
		require.NoError(t, err)
		assert.Zero(t, outcome.Written)
		assert.Empty(t, fx.store.SetEventStatusCalls)
		assert.Zero(t, fx.metr.ResultsPublished())
	})
}

func TestProcessor_UnpublishEvent(t *testing.T) {
	fx := newFixture()
	fx.docs.DeleteCollectionFunc = func(ctx context.Context, collection string) (int, error) {
		return 2, nil
	}

	deleted, err := fx.p.UnpublishEvent(context.Background(), "soc", "E1", false)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	require.Len(t, fx.store.SetEventStatusCalls, 1)
	assert.Equal(t, oom.StatusDraft, fx.store.SetEventStatusCalls[0].Status)
	require.Len(t, fx.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventResultsUnpublished, fx.pubsub.SendMessageCalls[0].Topic)
	assert.Equal(t, 1, fx.metr.ResultsUnpublished())
}

func TestProcessor_RestoreResults(t *testing.T) {
	fx := newFixture()
	backup := export.Backup{SocietyID: "soc", EventID: "E1", Results: []oom.ResultRecord{
		{MemberID: "A", MemberName: "Alice", Position: 1, Points: 25},
	}}

	written, err := fx.p.RestoreResults(context.Background(), "soc", backup, false)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	require.Len(t, fx.docs.ReplaceAllCalls, 1)
	assert.Equal(t, oom.StatusPublished, fx.store.SetEventStatusCalls[0].Status)

	_, err = fx.p.RestoreResults(context.Background(), "other", backup, false)
	assert.ErrorContains(t, err, "belongs to society soc")
}

func TestProcessor_Season(t *testing.T) {
	fx := newFixture()
	fx.store.ListEventsFunc = func(ctx context.Context, societyID string) ([]oom.Event, error) {
		return []oom.Event{
			{ID: "E1", Date: "2024-05-12", Status: oom.StatusPublished, OOMEligible: true},
			{ID: "E2", Date: "2024-06-12", Status: oom.StatusDraft, OOMEligible: true},
		}, nil
	}
	fx.docs.ReadDocumentsFunc = func(ctx context.Context, collection string) ([]ledger.Document, error) {
		assert.Equal(t, "societies/soc/events/E1/results", collection)
		return []ledger.Document{
			ledger.EncodeResult(oom.ResultRecord{MemberID: "B", MemberName: "Bob", Position: 1, Points: 25}),
			ledger.EncodeResult(oom.ResultRecord{MemberID: "A", MemberName: "Alice", Position: 2, Points: 18}),
		}, nil
	}

	table, err := fx.p.AnnounceSeason(context.Background(), "soc", season.Options{Year: 2024, OOMOnly: true}, true)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "B", table[0].MemberID)
	assert.Equal(t, 1, fx.metr.SeasonAggregations())

	require.Len(t, fx.notif.SendSeasonStandingsCalls, 1)
	assert.Equal(t, "Order of Merit 2024", fx.notif.SendSeasonStandingsCalls[0].Title)
	assert.True(t, fx.notif.SendSeasonStandingsCalls[0].DryRun)
}

func TestProcessor_ImportScores(t *testing.T) {
	fx := newFixture()
	fx.store.RecordScoreFunc = func(ctx context.Context, societyID, eventID string, rec oom.ScoreRecord) error {
		if rec.Stableford == nil {
			return oom.ErrScoreModeMismatch
		}
		return nil
	}

	report, err := fx.p.ImportScores(context.Background(), "soc", "E1", []export.ScoreRow{
		{Member: "alice", Stableford: f(36)},
		{Member: "B", Stableford: f(40)},
		{Member: "Cara", Gross: f(95)},
		{Member: "Stranger", Stableford: f(20)},
		{Member: "Bo", Stableford: f(25)},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Recorded)
	assert.Equal(t, []string{"Stranger", "Bo"}, report.Unknown)
	assert.Equal(t, map[string][]string{"Bo": {"Bob"}}, report.Suggestions)
	require.Len(t, report.Rejected, 1)
	assert.Contains(t, report.Rejected[0], "Cara")

	require.Len(t, fx.store.RecordScoreCalls, 3)
	assert.Equal(t, "A", fx.store.RecordScoreCalls[0].Record.MemberID)
}

func TestProcessor_ImportScores_DryRunValidates(t *testing.T) {
	t.Run("rejects the rows a real import would reject", func(t *testing.T) {
		fx := newFixture()

		report, err := fx.p.ImportScores(context.Background(), "soc", "E1", []export.ScoreRow{
			{Member: "alice", Stableford: f(36)},
			{Member: "B", Stableford: f(40)},
			{Member: "Cara", Gross: f(95)},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Recorded)
		require.Len(t, report.Rejected, 1)
		assert.Contains(t, report.Rejected[0], "Cara")
		assert.Contains(t, report.Rejected[0], "stableford event")
		assert.Empty(t, fx.store.RecordScoreCalls)
	})

	t.Run("checks rows of a mixed event against each other", func(t *testing.T) {
		fx := newFixture()
		fx.store.GetEventFunc = func(ctx context.Context, societyID, eventID string) (*oom.Event, error) {
			return &oom.Event{ID: eventID, SocietyID: societyID, ScoringMode: oom.ModeBoth, Status: oom.StatusDraft}, nil
		}

		report, err := fx.p.ImportScores(context.Background(), "soc", "E2", []export.ScoreRow{
			{Member: "Alice", Stableford: f(36)},
			{Member: "Bob", Gross: f(88)},
			{Member: "Cara", Stableford: f(31)},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Recorded)
		require.Len(t, report.Rejected, 1)
		assert.Contains(t, report.Rejected[0], "Bob")
		assert.Empty(t, fx.store.RecordScoreCalls)
	})
}

func TestSeasonTitle(t *testing.T) {
	assert.Equal(t, "Order of Merit 2024", SeasonTitle(season.Options{Year: 2024, OOMOnly: true}))
	assert.Equal(t, "Order of Merit (all events)", SeasonTitle(season.Options{}))
}
