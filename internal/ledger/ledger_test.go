package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/fairway-oom/internal/database"
	"github.com/mauv0809/fairway-oom/internal/ledger"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const society = "soc-1"

func f(v float64) *float64 { return &v }

// setupTestDB creates an in-memory SQLite database with the ledger schema.
func setupTestDB(t *testing.T) (*sql.DB, *ledger.SQLDocumentStore) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return db, ledger.NewSQLDocumentStore(db)
}

func scenarioEvent() *oom.Event {
	return &oom.Event{
		ID:          "E1",
		ScoringMode: oom.ModeStableford,
		Status:      oom.StatusPublished,
		Date:        "2024-05-12",
		OOMEligible: true,
		Scores: map[string]oom.ScoreRecord{
			"A": {MemberID: "A", Stableford: f(38)},
			"B": {MemberID: "B", Stableford: f(42)},
			"C": {MemberID: "C", Stableford: f(30)},
		},
	}
}

var roster = oom.Roster{{ID: "A", Name: "Alice"}, {ID: "B", Name: "Bob"}, {ID: "C", Name: "Cara"}}

// stripTimes drops the store assigned timestamps so result sets can be compared.
func stripTimes(records []oom.ResultRecord) []oom.ResultRecord {
	out := make([]oom.ResultRecord, len(records))
	for i, r := range records {
		r.UpdatedAt = time.Time{}
		out[i] = r
	}
	return out
}

func TestPublishAndReadResults(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	written, err := writer.Publish(ctx, society, scenarioEvent(), roster)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	results, err := reader.ReadResults(ctx, society, "E1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "B", results[0].MemberID)
	assert.Equal(t, "Bob", results[0].MemberName)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 25, results[0].Points)
	assert.Equal(t, 42.0, results[0].Score)
	assert.Equal(t, oom.ModeStableford, results[0].ScoreType)
	assert.False(t, results[0].UpdatedAt.IsZero(), "the store assigns updatedAt")

	assert.Equal(t, "A", results[1].MemberID)
	assert.Equal(t, 18, results[1].Points)
	assert.Equal(t, "C", results[2].MemberID)
	assert.Equal(t, 15, results[2].Points)
}

func TestPublish_IsIdempotent(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	_, err := writer.Publish(ctx, society, scenarioEvent(), roster)
	require.NoError(t, err)
	first, err := reader.ReadResults(ctx, society, "E1")
	require.NoError(t, err)

	_, err = writer.Publish(ctx, society, scenarioEvent(), roster)
	require.NoError(t, err)
	second, err := reader.ReadResults(ctx, society, "E1")
	require.NoError(t, err)

	assert.Equal(t, stripTimes(first), stripTimes(second))
}

func TestPublish_ReplacesWholeSet(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	_, err := writer.Publish(ctx, society, scenarioEvent(), roster)
	require.NoError(t, err)

	edited := scenarioEvent()
	delete(edited.Scores, "C")
	edited.Scores["A"] = oom.ScoreRecord{MemberID: "A", Stableford: f(44)}
	written, err := writer.Publish(ctx, society, edited, roster)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	results, err := reader.ReadResults(ctx, society, "E1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].MemberID)
	assert.Equal(t, 25, results[0].Points)
	assert.Equal(t, "B", results[1].MemberID)
}

func TestPublish_ScopedBySociety(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	_, err := writer.Publish(ctx, "soc-a", scenarioEvent(), roster)
	require.NoError(t, err)

	results, err := reader.ReadResults(ctx, "soc-b", "E1")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPublish_NothingToWrite(t *testing.T) {
	store := ledger.NewMock()
	writer := ledger.NewWriter(store)
	ctx := context.Background()

	cases := map[string]*oom.Event{
		"nil event":      nil,
		"missing id":     {Scores: scenarioEvent().Scores},
		"no scores":      {ID: "E1"},
		"no usable rows": {ID: "E1", ScoringMode: oom.ModeStableford, Scores: map[string]oom.ScoreRecord{"A": {}}},
	}
	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			written, err := writer.Publish(ctx, society, event, roster)
			require.NoError(t, err)
			assert.Zero(t, written)
		})
	}
	assert.Empty(t, store.ReplaceAllCalls, "nothing should reach the store")
}

func TestPublish_UnknownMember(t *testing.T) {
	store := ledger.NewMock()
	writer := ledger.NewWriter(store)

	_, err := writer.Publish(context.Background(), society, scenarioEvent(), oom.Roster{{ID: "A", Name: "Alice"}})
	require.NoError(t, err)
	require.Len(t, store.ReplaceAllCalls, 1)

	call := store.ReplaceAllCalls[0]
	assert.Equal(t, "societies/soc-1/events/E1/results", call.Collection)
	names := map[string]any{}
	for _, doc := range call.Docs {
		names[doc.ID] = doc.Fields[ledger.FieldMemberName]
	}
	assert.Equal(t, map[string]any{"A": "Alice", "B": "Unknown", "C": "Unknown"}, names)
}

func TestPublish_PersistenceError(t *testing.T) {
	cause := errors.New("quota exceeded")
	store := ledger.NewMock()
	store.ReplaceAllFunc = func(ctx context.Context, collection string, docs []ledger.Document) error {
		return cause
	}
	writer := ledger.NewWriter(store)

	written, err := writer.Publish(context.Background(), society, scenarioEvent(), roster)
	require.Error(t, err)
	assert.Zero(t, written)
	assert.ErrorIs(t, err, cause)

	var perr *ledger.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "societies/soc-1/events/E1/results", perr.Collection)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "publish results for event E1")
}

func TestUnpublish(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	_, err := writer.Publish(ctx, society, scenarioEvent(), roster)
	require.NoError(t, err)

	deleted, err := writer.Unpublish(ctx, society, "E1")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	results, err := reader.ReadResults(ctx, society, "E1")
	require.NoError(t, err)
	assert.Empty(t, results)

	deleted, err = writer.Unpublish(ctx, society, "E1")
	require.NoError(t, err)
	assert.Zero(t, deleted, "unpublishing twice is harmless")
}

func TestUnpublish_PersistenceError(t *testing.T) {
	store := ledger.NewMock()
	store.DeleteCollectionFunc = func(ctx context.Context, collection string) (int, error) {
		return 0, errors.New("permission denied")
	}
	writer := ledger.NewWriter(store)

	_, err := writer.Unpublish(context.Background(), society, "E1")
	var perr *ledger.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"societies/" + society + "/events/E1/results"}, store.DeleteCollectionCalls)
	assert.Empty(t, store.ReadDocumentsCalls, "unpublish deletes without reading first")
	assert.Empty(t, store.BulkDeleteCalls)
}

func TestRestore_DuplicateMember(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	written, err := writer.Restore(ctx, society, "E9", []oom.ResultRecord{
		{MemberID: "A", MemberName: "Alice", Points: 18, Position: 2},
		{MemberID: "B", MemberName: "Bob", Points: 15, Position: 3},
		{MemberID: " A ", MemberName: "Alice", Points: 25, Position: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written, "one document per member")

	results, err := reader.ReadResults(ctx, society, "E9")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].MemberID)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 25, results[0].Points)
	assert.Equal(t, "B", results[1].MemberID)
}

func TestRestore(t *testing.T) {
	_, store := setupTestDB(t)
	writer := ledger.NewWriter(store)
	reader := ledger.NewReader(store)
	ctx := context.Background()

	written, err := writer.Restore(ctx, society, "E9", []oom.ResultRecord{
		{MemberID: "X", MemberName: "Xena", Points: 18, Position: 2, Score: 70, ScoreType: oom.ModeStrokeplay},
		{MemberID: "", MemberName: "Ghost", Points: 1, Position: 10},
		{MemberID: "Y", MemberName: "Yuri", Points: 25, Position: 1, Score: 68, ScoreType: oom.ModeStrokeplay},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	results, err := reader.ReadResults(ctx, society, "E9")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Y", results[0].MemberID)
	assert.Equal(t, "X", results[1].MemberID)
}

func TestReadResults_MalformedDocuments(t *testing.T) {
	db, store := setupTestDB(t)
	reader := ledger.NewReader(store)
	collection := ledger.ResultsCollection(society, "E5")

	rows := []struct{ id, fields string }{
		{"m1", `{"memberId": "m1", "memberName": "Mo", "points": "18", "position": 2.0, "score": "36", "scoreType": "STABLEFORD"}`},
		{"m2", `{"memberId": 77, "points": 25, "position": 1, "score": null}`},
		{"m3", `not json at all`},
		{" ", `{"memberName": "Nobody", "points": 10, "position": 5}`},
		{"m4", `{"memberId": "m4", "memberName": ["odd"], "points": -4, "position": "third", "scoreType": 7}`},
	}
	for _, row := range rows {
		_, err := db.Exec("INSERT INTO ledger_documents (collection, id, fields, updated_at) VALUES (?, ?, ?, 0)", collection, row.id, row.fields)
		require.NoError(t, err)
	}

	results, err := reader.ReadResults(context.Background(), society, "E5")
	require.NoError(t, err)
	require.Len(t, results, 4, "the document without any member id is dropped")

	assert.Equal(t, "77", results[0].MemberID)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 25, results[0].Points)
	assert.Equal(t, oom.UnknownMemberName, results[0].MemberName)
	assert.Zero(t, results[0].Score)

	assert.Equal(t, "m1", results[1].MemberID)
	assert.Equal(t, 18, results[1].Points)
	assert.Equal(t, 36.0, results[1].Score)
	assert.Equal(t, oom.ModeStableford, results[1].ScoreType)

	// Unknown positions sort last, by member id.
	assert.Equal(t, "m3", results[2].MemberID)
	assert.Zero(t, results[2].Position)
	assert.Equal(t, "m4", results[3].MemberID)
	assert.Zero(t, results[3].Points)
	assert.Equal(t, oom.UnknownMemberName, results[3].MemberName)
	assert.Equal(t, oom.ModeStrokeplay, results[3].ScoreType)
}

func TestReadResults_EmptyInputs(t *testing.T) {
	_, store := setupTestDB(t)
	reader := ledger.NewReader(store)

	results, err := reader.ReadResults(context.Background(), society, "")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, err = reader.ReadResults(context.Background(), society, "never-published")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReadResults_StoreFailure(t *testing.T) {
	store := ledger.NewMock()
	store.ReadDocumentsFunc = func(ctx context.Context, collection string) ([]ledger.Document, error) {
		return nil, errors.New("network unreachable")
	}
	reader := ledger.NewReader(store)

	_, err := reader.ReadResults(context.Background(), society, "E1")
	var perr *ledger.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "network unreachable")
}
