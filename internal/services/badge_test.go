package services

import (
	"context"
	"sync"
	"testing"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	apperrors "github.com/ebarcelosf/Activelearn-hub/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedFeed struct {
	mu      sync.Mutex
	entries []string
}

func (f *recordedFeed) Log(ctx context.Context, actorID string, eventType models.FeedEventType, targetID, message string) {
	f.mu.Lock()
	f.entries = append(f.entries, string(eventType)+":"+targetID)
	f.mu.Unlock()
}

func TestCheckTrigger_CustomCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := MustCatalog([]BadgeDefinition{{ID: "explorer", Name: "Explorer", XP: 50, Trigger: TriggerProjectCreated}})
	ledger := newMemLedger()
	engine := NewEngine(catalog, ledger, nil, nil, nil)

	granted, err := engine.CheckTrigger(ctx, "u1", TriggerProjectCreated, nil)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "explorer", granted[0].ID)

	earned, err := ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, earned, 1)
	assert.Equal(t, 50, TotalXP(catalog, earned))
	assert.Equal(t, 1, Level(TotalXP(catalog, earned)))

	pending := engine.Notifier().Pending("u1")
	require.Len(t, pending, 1)
	assert.Equal(t, "explorer", pending[0].BadgeID)
	assert.Equal(t, 50, pending[0].XP)
}

func TestCheckTrigger_Idempotent(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := NewEngine(DefaultCatalog(), ledger, nil, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := engine.CheckTrigger(ctx, "u1", TriggerProjectCreated, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, ledger.count("u1"))
	assert.Len(t, engine.Notifier().Pending("u1"), 1)
}

func TestCheckTrigger_NoOps(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := NewEngine(DefaultCatalog(), ledger, nil, nil, nil)

	granted, err := engine.CheckTrigger(ctx, "u1", "unknown_trigger", nil)
	assert.NoError(t, err)
	assert.Empty(t, granted)

	granted, err = engine.CheckTrigger(ctx, "", TriggerProjectCreated, nil)
	assert.NoError(t, err)
	assert.Empty(t, granted)

	granted, err = engine.CheckTrigger(ctx, "u1", "   ", nil)
	assert.NoError(t, err)
	assert.Empty(t, granted)

	assert.Zero(t, ledger.count("u1"))
}

func TestCheckTrigger_RequirementGatesGrant(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	engine := NewEngine(DefaultCatalog(), ledger, nil, nil, nil)

	granted, err := engine.CheckTrigger(ctx, "u1", TriggerMultipleResources, Payload{KeyResourcesCount: 2})
	require.NoError(t, err)
	assert.Empty(t, granted)

	granted, err = engine.CheckTrigger(ctx, "u1", TriggerMultipleResources, Payload{KeyResourcesCount: float64(3)})
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "pesquisador", granted[0].ID)
}

func TestCheckTrigger_ActCompletedWithoutFullCycle(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	phases := fakePhases{"u1/p1": {Engage: true, Investigate: false, Act: true}}
	engine := NewEngine(DefaultCatalog(), ledger, nil, phases, nil)

	granted, err := engine.CheckTrigger(ctx, "u1", TriggerActCompleted, Payload{KeyProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeImplementador}, ids(granted))

	has, _ := ledger.HasEarned(ctx, "u1", BadgeMestreCBL)
	assert.False(t, has)
}

func TestCheckTrigger_ActCompletedFullCycle(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	phases := fakePhases{"u1/p1": {Engage: true, Investigate: true, Act: true}}
	engine := NewEngine(DefaultCatalog(), ledger, nil, phases, nil)

	granted, err := engine.CheckTrigger(ctx, "u1", TriggerActCompleted, Payload{KeyProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeImplementador, BadgeMestreCBL}, ids(granted))

	// a second completion grants nothing new
	granted, err = engine.CheckTrigger(ctx, "u1", TriggerActCompleted, Payload{KeyProjectID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, granted)
	assert.Equal(t, 2, ledger.count("u1"))
}

func TestCheckTrigger_CycleOnForeignProject(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	phases := fakePhases{"owner/p1": {Engage: true, Investigate: true, Act: true}}
	engine := NewEngine(DefaultCatalog(), ledger, nil, phases, nil)

	granted, err := engine.CheckTrigger(ctx, "u2", TriggerCycleCompleted, Payload{KeyProjectID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, granted)
	assert.Zero(t, ledger.count("u2"))

	granted, err = engine.CheckTrigger(ctx, "owner", TriggerCycleCompleted, Payload{KeyProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeMestreCBL}, ids(granted))
}

func TestCheckTrigger_ClientCycleFlagIgnored(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	phases := fakePhases{"u1/p1": {Engage: true}}
	engine := NewEngine(DefaultCatalog(), ledger, nil, phases, nil)

	granted, err := engine.CheckTrigger(ctx, "u1", TriggerCycleCompleted, Payload{
		KeyProjectID:          "p1",
		KeyAllPhasesCompleted: true,
	})
	require.NoError(t, err)
	assert.Empty(t, granted)

	// unknown project and missing project id resolve to false too
	granted, err = engine.CheckTrigger(ctx, "u1", TriggerCycleCompleted, Payload{KeyProjectID: "missing", KeyAllPhasesCompleted: true})
	require.NoError(t, err)
	assert.Empty(t, granted)

	granted, err = engine.CheckTrigger(ctx, "u1", TriggerCycleCompleted, Payload{KeyAllPhasesCompleted: true})
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestCheckTrigger_LedgerFailure(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	ledger.failOn = "explorador"
	feed := &recordedFeed{}
	engine := NewEngine(DefaultCatalog(), ledger, nil, nil, feed)

	granted, err := engine.CheckTrigger(ctx, "u1", TriggerProjectCreated, nil)
	require.ErrorIs(t, err, ErrGrantFailed)
	assert.Empty(t, granted)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
	assert.Equal(t, "failed to grant badge", appErr.Message)

	assert.Zero(t, ledger.count("u1"))
	assert.Empty(t, engine.Notifier().Pending("u1"))
	assert.Empty(t, feed.entries)
}

func TestGrant_ConcurrentCallsGrantOnce(t *testing.T) {
	ctx := context.Background()
	ledger := staleLedger{newMemLedger()}
	engine := NewEngine(DefaultCatalog(), ledger, nil, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := engine.Grant(ctx, "u1", "explorador")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, ledger.inserts)
	assert.Len(t, engine.Notifier().Pending("u1"), 1)
}

func TestGrant_UnknownBadge(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), newMemLedger(), nil, nil, nil)

	ok, err := engine.Grant(context.Background(), "u1", "nope")
	assert.False(t, ok)
	appErr, isApp := apperrors.As(err)
	require.True(t, isApp)
	assert.Equal(t, 404, appErr.Code)
}

func TestGrant_BypassesRequirement(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), newMemLedger(), nil, nil, nil)

	ok, err := engine.Grant(context.Background(), "u1", BadgeMestreCBL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGrant_WritesFeed(t *testing.T) {
	feed := &recordedFeed{}
	engine := NewEngine(DefaultCatalog(), newMemLedger(), nil, nil, feed)

	_, err := engine.Grant(context.Background(), "u1", "explorador")
	require.NoError(t, err)
	assert.Equal(t, []string{"ACHIEVEMENT:explorador"}, feed.entries)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(DefaultCatalog(), newMemLedger(), nil, nil, nil)
	_, err := engine.Grant(ctx, "u1", "explorador")
	require.NoError(t, err)
	_, err = engine.Grant(ctx, "u1", "engajado")
	require.NoError(t, err)

	profile, err := engine.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"explorador", "engajado"}, []string{profile.Earned[0].ID, profile.Earned[1].ID})
	assert.Equal(t, 150, profile.Summary.TotalXP)
	assert.Equal(t, 2, profile.Summary.Level)
	assert.Equal(t, 25, profile.Summary.Progress)
	assert.Len(t, profile.Categories["engage"].Earned, 1)
	assert.Len(t, profile.Categories["engage"].Unearned, 3)

	empty, err := engine.Profile(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Earned)
	assert.Equal(t, 1, empty.Summary.Level)
}
