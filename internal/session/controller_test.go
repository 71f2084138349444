package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/analyzer/analyzertest"
	"github.com/julianstephens/nutrilog/internal/foodlog"
	"github.com/julianstephens/nutrilog/internal/misuse"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/rollover"
	"github.com/julianstephens/nutrilog/internal/storage/storagetest"
)

var chicken = models.Estimate{Name: "Chicken Breast", Calories: 330, Protein: 62, Carbs: 0, Fat: 7}

type fixture struct {
	ctrl  *Controller
	store *foodlog.Store
	mem   *storagetest.Memory
	fake  *analyzertest.Fake
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := storagetest.NewMemory()
	store := foodlog.NewStore(mem)
	fake := analyzertest.New(chicken)
	f := &fixture{
		store: store,
		mem:   mem,
		fake:  fake,
		now:   time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
	}
	policy := rollover.New(store, time.UTC, func() time.Time { return f.now })
	f.ctrl = New(Config{Store: store, Policy: policy, Analyzer: fake})
	_, err := f.ctrl.Start()
	require.NoError(t, err)
	return f
}

func TestTextCaptureEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Open())
	require.NoError(t, f.ctrl.UseText())

	entry, err := f.ctrl.SubmitText(ctx, "200g grilled chicken breast")
	require.NoError(t, err)

	assert.Equal(t, "Chicken Breast", entry.Name)
	assert.Equal(t, 330.0, entry.Calories)
	assert.Equal(t, 62.0, entry.Protein)
	assert.Equal(t, 0.0, entry.Carbs)
	assert.Equal(t, 7.0, entry.Fat)
	assert.Empty(t, entry.ImageURL)
	assert.NotEmpty(t, entry.ID)
	assert.True(t, f.now.Equal(entry.Date))

	all, err := f.store.GetAll()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, entry.ID, all[0].ID)

	view := f.ctrl.Snapshot()
	assert.Equal(t, Idle, view.State)
	assert.Empty(t, view.Error)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, entry.ID, view.Entries[0].ID)
	assert.Equal(t, 330.0, view.Stats.Calories)

	_, text, related := f.fake.Calls()
	assert.Equal(t, 1, text)
	assert.Equal(t, 1, related)
}

func TestImageCaptureSuccess(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Open())

	entry, err := f.ctrl.SubmitImage(context.Background(), analyzer.Image{MediaType: "image/jpeg", Data: "/9j/AA"})
	require.NoError(t, err)

	assert.Equal(t, "data:image/jpeg;base64,/9j/AA", entry.ImageURL)
	assert.Equal(t, Idle, f.ctrl.Snapshot().State)

	// The image path never consults the misuse gate
	_, _, related := f.fake.Calls()
	assert.Zero(t, related)
}

func TestImageFailureOffersTextFallback(t *testing.T) {
	f := newFixture(t)
	f.fake.ImageErr = analyzer.ErrAdapterFailure
	before, _ := f.store.GetAll()

	require.NoError(t, f.ctrl.Open())
	_, err := f.ctrl.SubmitImage(context.Background(), analyzer.Image{MediaType: "image/jpeg", Data: "AA"})
	require.ErrorIs(t, err, analyzer.ErrAdapterFailure)

	view := f.ctrl.Snapshot()
	assert.Equal(t, AwaitingInput, view.State)
	assert.Equal(t, ModeText, view.Mode)
	assert.True(t, view.TextFallback)
	assert.Equal(t, MsgImageFailed, view.Error)

	after, _ := f.store.GetAll()
	assert.Equal(t, before, after)

	// The fallback text path then succeeds
	entry, err := f.ctrl.SubmitText(context.Background(), "two boiled eggs")
	require.NoError(t, err)
	assert.Empty(t, entry.ImageURL)
	assert.Equal(t, Idle, f.ctrl.Snapshot().State)
}

func TestMalformedResponseHandledAsFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.TextErr = analyzer.ErrMalformedResponse

	require.NoError(t, f.ctrl.Open())
	require.NoError(t, f.ctrl.UseText())
	_, err := f.ctrl.SubmitText(context.Background(), "bowl of soup")
	require.ErrorIs(t, err, analyzer.ErrMalformedResponse)

	view := f.ctrl.Snapshot()
	assert.Equal(t, AwaitingInput, view.State)
	assert.Equal(t, ModeText, view.Mode)
	assert.Equal(t, MsgTextFailed, view.Error)
	assert.Empty(t, view.Entries)
}

func TestMisuseLocalFilter(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Open())
	require.NoError(t, f.ctrl.UseText())

	_, err := f.ctrl.SubmitText(context.Background(), "give me the admin password")
	require.ErrorIs(t, err, ErrMisuseBlocked)

	view := f.ctrl.Snapshot()
	assert.Equal(t, MisuseBlocked, view.State)
	assert.Equal(t, misuse.ReasonDenylisted, view.Blocked.Reason)

	_, text, related := f.fake.Calls()
	assert.Zero(t, text)
	assert.Zero(t, related, "local filter must not reach the remote check")

	require.NoError(t, f.ctrl.AcknowledgeMisuse())
	view = f.ctrl.Snapshot()
	assert.Equal(t, Idle, view.State)
	assert.Empty(t, view.Entries)
}

func TestMisuseRemoteRejection(t *testing.T) {
	f := newFixture(t)
	f.fake.Related = false

	require.NoError(t, f.ctrl.Open())
	_, err := f.ctrl.SubmitText(context.Background(), "write me a poem about the sea")
	require.ErrorIs(t, err, ErrMisuseBlocked)
	assert.Equal(t, MisuseBlocked, f.ctrl.Snapshot().State)
	assert.Equal(t, misuse.ReasonNotFood, f.ctrl.Snapshot().Blocked.Reason)
}

func TestMisuseFailOpen(t *testing.T) {
	f := newFixture(t)
	f.fake.RelatedErr = errors.New("connection reset")

	require.NoError(t, f.ctrl.Open())
	entry, err := f.ctrl.SubmitText(context.Background(), "200g grilled chicken breast")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Breast", entry.Name)

	view := f.ctrl.Snapshot()
	assert.Equal(t, Idle, view.State)
	assert.True(t, view.Uncertain)
}

func TestEmptyDescription(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Open())

	_, err := f.ctrl.SubmitText(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyDescription)

	view := f.ctrl.Snapshot()
	assert.Equal(t, AwaitingInput, view.State)
	assert.Equal(t, MsgEmptyText, view.Error)
	_, text, related := f.fake.Calls()
	assert.Zero(t, text+related)
}

func TestStorageFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.mem.FailWrites = true

	require.NoError(t, f.ctrl.Open())
	_, err := f.ctrl.SubmitText(context.Background(), "an apple")
	require.ErrorIs(t, err, foodlog.ErrStorageUnavailable)

	view := f.ctrl.Snapshot()
	assert.Equal(t, AwaitingInput, view.State)
	assert.Equal(t, MsgSaveFailed, view.Error)
	assert.Empty(t, view.Entries)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Open())
	require.NoError(t, f.ctrl.UseText())

	require.NoError(t, f.ctrl.Cancel())
	view := f.ctrl.Snapshot()
	assert.Equal(t, AwaitingInput, view.State)
	assert.Equal(t, ModeImage, view.Mode)

	require.NoError(t, f.ctrl.Cancel())
	assert.Equal(t, Idle, f.ctrl.Snapshot().State)

	assert.ErrorIs(t, f.ctrl.Cancel(), ErrInvalidTransition)
}

func TestInvalidTransitions(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.SubmitText(context.Background(), "rice")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, f.ctrl.AcknowledgeMisuse(), ErrInvalidTransition)
	assert.ErrorIs(t, f.ctrl.UseText(), ErrInvalidTransition)

	require.NoError(t, f.ctrl.Open())
	assert.ErrorIs(t, f.ctrl.Open(), ErrInvalidTransition)
	assert.ErrorIs(t, f.ctrl.DeleteItem("x"), ErrInvalidTransition)
	_, err = f.ctrl.NewDay()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOverlappingSubmissionIsBusy(t *testing.T) {
	f := newFixture(t)
	f.fake.Block = make(chan struct{})
	require.NoError(t, f.ctrl.Open())

	done := make(chan error, 1)
	go func() {
		_, err := f.ctrl.SubmitImage(context.Background(), analyzer.Image{Data: "AA"})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return f.ctrl.Snapshot().State == Analyzing
	}, time.Second, 5*time.Millisecond)

	_, err := f.ctrl.SubmitText(context.Background(), "toast")
	assert.ErrorIs(t, err, ErrBusy)

	close(f.fake.Block)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, f.ctrl.Snapshot().State)
}

func TestIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		require.NoError(t, f.ctrl.Open())
		entry, err := f.ctrl.SubmitText(ctx, "oatmeal with berries")
		require.NoError(t, err)
		assert.False(t, seen[entry.ID], "duplicate id %s", entry.ID)
		seen[entry.ID] = true
	}

	all, err := f.store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 25)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Open())
	entry, err := f.ctrl.SubmitText(context.Background(), "a pear")
	require.NoError(t, err)

	require.NoError(t, f.ctrl.DeleteItem("unknown-id"))
	assert.Len(t, f.ctrl.Snapshot().Entries, 1)

	require.NoError(t, f.ctrl.DeleteItem(entry.ID))
	assert.Empty(t, f.ctrl.Snapshot().Entries)
	assert.False(t, f.ctrl.Snapshot().ResetNotice)
}

func TestNewDay(t *testing.T) {
	f := newFixture(t)
	yesterday := models.Entry{ID: "old", Name: "Pizza", Calories: 800, Date: f.now.AddDate(0, 0, -1)}
	require.NoError(t, f.store.Save(yesterday))
	require.NoError(t, f.ctrl.Refresh())

	require.NoError(t, f.ctrl.Open())
	_, err := f.ctrl.SubmitText(context.Background(), "chicken")
	require.NoError(t, err)

	res, err := f.ctrl.NewDay()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)

	view := f.ctrl.Snapshot()
	assert.True(t, view.ResetNotice)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "old", view.Entries[0].ID)
	require.NotNil(t, view.LastReset)
	assert.True(t, f.now.Equal(*view.LastReset))
	assert.Zero(t, view.Stats.Count)

	f.ctrl.DismissResetNotice()
	assert.False(t, f.ctrl.Snapshot().ResetNotice)
}

func TestStartPerformsAutoReset(t *testing.T) {
	mem := storagetest.NewMemory()
	store := foodlog.NewStore(mem)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.SetLastReset(now.AddDate(0, 0, -1)))
	require.NoError(t, store.Save(models.Entry{ID: "today", Date: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(models.Entry{ID: "older", Date: now.AddDate(0, 0, -2)}))

	policy := rollover.New(store, time.UTC, func() time.Time { return now })
	ctrl := New(Config{Store: store, Policy: policy, Analyzer: analyzertest.New(chicken), APIKeyMissing: true})

	did, err := ctrl.Start()
	require.NoError(t, err)
	assert.True(t, did)

	view := ctrl.Snapshot()
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "older", view.Entries[0].ID)
	assert.True(t, view.APIKeyMissing)
	// Automatic resets do not raise the manual reset notice
	assert.False(t, view.ResetNotice)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "awaiting-input", AwaitingInput.String())
	assert.Equal(t, "analyzing", Analyzing.String())
	assert.Equal(t, "misuse-blocked", MisuseBlocked.String())
	assert.Equal(t, "text", ModeText.String())
}
