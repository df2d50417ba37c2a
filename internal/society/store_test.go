package society_test

import (
	"context"
	"testing"

	"github.com/mauv0809/fairway-oom/internal/database"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/society"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) society.SocietyStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return society.New(db)
}

func TestAddMemberAndGetRoster(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	bob, err := store.AddMember(ctx, "soc", "Bob", nil)
	require.NoError(t, err)
	alice, err := store.AddMember(ctx, "soc", "  Alice ", f(9.8))
	require.NoError(t, err)
	_, err = store.AddMember(ctx, "other", "Olga", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, bob.ID)
	assert.NotEqual(t, bob.ID, alice.ID)

	roster, err := store.GetRoster(ctx, "soc")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Alice", roster[0].Name)
	require.NotNil(t, roster[0].HandicapIndex)
	assert.Equal(t, 9.8, *roster[0].HandicapIndex)
	assert.Nil(t, roster[1].HandicapIndex)

	_, err = store.AddMember(ctx, "soc", " ", nil)
	assert.ErrorIs(t, err, society.ErrInvalid)
}

func TestCreateAndGetEvent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	event, err := store.CreateEvent(ctx, oom.Event{SocietyID: "soc", Name: "Spring Medal", Date: "2024-04-14", ScoringMode: "Strokeplay", OOMEligible: true})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, oom.StatusDraft, event.Status)
	assert.Equal(t, oom.ModeStrokeplay, event.ScoringMode)

	got, err := store.GetEvent(ctx, "soc", event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Medal", got.Name)
	assert.Equal(t, "2024-04-14", got.Date)
	assert.True(t, got.OOMEligible)
	assert.Empty(t, got.Scores)

	_, err = store.GetEvent(ctx, "other", event.ID)
	assert.ErrorIs(t, err, society.ErrNotFound)

	_, err = store.CreateEvent(ctx, oom.Event{SocietyID: "soc"})
	assert.ErrorIs(t, err, society.ErrInvalid)
}

func TestListEventsAndStatus(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	late, err := store.CreateEvent(ctx, oom.Event{ID: "late", SocietyID: "soc", Name: "Autumn", Date: "2024-09-01"})
	require.NoError(t, err)
	_, err = store.CreateEvent(ctx, oom.Event{ID: "early", SocietyID: "soc", Name: "Spring", Date: "2024-03-01"})
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, "soc")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "early", events[0].ID)
	assert.Equal(t, "late", events[1].ID)

	require.NoError(t, store.SetEventStatus(ctx, "soc", late.ID, oom.StatusPublished))
	got, err := store.GetEvent(ctx, "soc", late.ID)
	require.NoError(t, err)
	assert.Equal(t, oom.StatusPublished, got.Status)

	err = store.SetEventStatus(ctx, "other", late.ID, oom.StatusDraft)
	assert.ErrorIs(t, err, society.ErrNotFound)
}

func TestRecordScore(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	event, err := store.CreateEvent(ctx, oom.Event{ID: "E1", SocietyID: "soc", Name: "Stableford Cup", Date: "2024-05-12", ScoringMode: oom.ModeStableford})
	require.NoError(t, err)

	require.NoError(t, store.RecordScore(ctx, "soc", event.ID, oom.ScoreRecord{MemberID: "A", Stableford: f(38), Gross: f(88)}))
	require.NoError(t, store.RecordScore(ctx, "soc", event.ID, oom.ScoreRecord{MemberID: "B", Stableford: f(40)}))
	require.NoError(t, store.RecordScore(ctx, "soc", event.ID, oom.ScoreRecord{MemberID: "B", Stableford: f(42)}))

	got, err := store.GetEvent(ctx, "soc", event.ID)
	require.NoError(t, err)
	require.Len(t, got.Scores, 2)
	assert.Equal(t, 42.0, *got.Scores["B"].Stableford)
	assert.Equal(t, 88.0, *got.Scores["A"].Gross)
	assert.Nil(t, got.Scores["A"].Net)

	err = store.RecordScore(ctx, "soc", event.ID, oom.ScoreRecord{MemberID: "C", Gross: f(90)})
	assert.ErrorIs(t, err, oom.ErrScoreModeMismatch)

	err = store.RecordScore(ctx, "soc", event.ID, oom.ScoreRecord{MemberID: "C"})
	assert.ErrorIs(t, err, oom.ErrNoScore)

	err = store.RecordScore(ctx, "soc", "missing", oom.ScoreRecord{MemberID: "C", Stableford: f(30)})
	assert.ErrorIs(t, err, society.ErrNotFound)
}

func TestDeleteScore(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	_, err := store.CreateEvent(ctx, oom.Event{ID: "E1", SocietyID: "soc", Name: "Medal", Date: "2024-05-12", ScoringMode: oom.ModeStrokeplay})
	require.NoError(t, err)
	require.NoError(t, store.RecordScore(ctx, "soc", "E1", oom.ScoreRecord{MemberID: "A", Gross: f(80)}))

	assert.ErrorIs(t, store.DeleteScore(ctx, "other", "E1", "A"), society.ErrNotFound)
	require.NoError(t, store.DeleteScore(ctx, "soc", "E1", "A"))
	assert.ErrorIs(t, store.DeleteScore(ctx, "soc", "E1", "A"), society.ErrNotFound)

	got, err := store.GetEvent(ctx, "soc", "E1")
	require.NoError(t, err)
	assert.Empty(t, got.Scores)
}
