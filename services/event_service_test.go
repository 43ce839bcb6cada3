package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftday/models"
	"draftday/repositories"
	"draftday/utils"
)

var base = time.UnixMilli(1_700_000_000_000)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEventService(t *testing.T) (*eventService, repositories.EventRepository) {
	t.Helper()
	repo := repositories.NewMemoryEventRepository(24 * time.Hour)
	svc := NewEventService(repo, nil, testLogger()).(*eventService)
	svc.now = func() time.Time { return base }
	return svc, repo
}

func seedEvent(t *testing.T, svc *eventService, eventType models.EventType, players int) *models.EventSession {
	t.Helper()
	event := &models.EventSession{ID: "evt-1", Type: eventType}
	for i := 0; i < players; i++ {
		event.Players = append(event.Players, models.Player{
			ID:         fmt.Sprintf("p%d", i+1),
			Name:       fmt.Sprintf("Player %d", i+1),
			SeatNumber: i + 1,
			IsHost:     i == 0,
		})
	}
	created, err := svc.CreateEvent(context.Background(), event)
	require.NoError(t, err)
	return created
}

func TestCreateEventFillsDefaults(t *testing.T) {
	svc, repo := newTestEventService(t)
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, &models.EventSession{ID: "evt-1"})
	require.NoError(t, err)

	assert.Equal(t, models.EventTypeDraft, created.Type)
	assert.Equal(t, models.PhaseSetup, created.CurrentPhase)
	assert.Equal(t, models.DefaultSettings(), created.Settings)
	assert.Equal(t, models.EpochMillis(base), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.True(t, utils.IsValidEventCode(created.EventCode))

	id, err := repo.GetEventIDByCode(ctx, created.EventCode)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
}

func TestCreateEventRequiresID(t *testing.T) {
	svc, _ := newTestEventService(t)

	_, err := svc.CreateEvent(context.Background(), &models.EventSession{})
	assert.ErrorIs(t, err, ErrEventIDRequired)

	_, err = svc.CreateEvent(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEventBodyRequired)
}

func TestCreateEventRejectsTakenCode(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, &models.EventSession{ID: "evt-1", EventCode: "ABCD"})
	require.NoError(t, err)

	_, err = svc.CreateEvent(ctx, &models.EventSession{ID: "evt-2", EventCode: "abcd"})
	assert.ErrorIs(t, err, ErrEventCodeConflict)
}

func TestCreateEventRejectsMalformedCode(t *testing.T) {
	svc, _ := newTestEventService(t)

	_, err := svc.CreateEvent(context.Background(), &models.EventSession{ID: "evt-1", EventCode: "A1!"})
	assert.ErrorIs(t, err, ErrInvalidEventCode)
}

func TestGetEventByCodeNormalizesInput(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, &models.EventSession{ID: "evt-1", EventCode: "WXYZ"})
	require.NoError(t, err)

	event, err := svc.GetEventByCode(ctx, "  wxyz ")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", event.ID)

	_, err = svc.GetEventByCode(ctx, "QQQQ")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestGetEventByCodeDropsStaleMapping(t *testing.T) {
	svc, repo := newTestEventService(t)
	ctx := context.Background()

	// The event record expired but its code pointer survived.
	require.NoError(t, repo.PutCode(ctx, "ABCD", "gone"))

	_, err := svc.GetEventByCode(ctx, "ABCD")
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, err = repo.GetEventIDByCode(ctx, "ABCD")
	assert.ErrorIs(t, err, repositories.ErrCodeNotFound)
}

func TestChangeEventCodeRemapsPointer(t *testing.T) {
	svc, repo := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 2)
	oldCode := created.EventCode

	updated, err := svc.ChangeEventCode(ctx, created.ID, "ZZZZ")
	require.NoError(t, err)
	assert.Equal(t, "ZZZZ", updated.EventCode)

	id, err := repo.GetEventIDByCode(ctx, "ZZZZ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	_, err = repo.GetEventIDByCode(ctx, oldCode)
	assert.ErrorIs(t, err, repositories.ErrCodeNotFound)
}

func TestStartEventTwiceFails(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 4)

	started, err := svc.StartEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseDrafting, started.CurrentPhase)

	_, err = svc.StartEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrOperationNotApplied)
}

func TestPlayerOperationsRoundTrip(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 2)

	withNew, err := svc.AddPlayer(ctx, created.ID, "Casey")
	require.NoError(t, err)
	require.Len(t, withNew.Players, 3)
	newID := withNew.Players[2].ID

	_, err = svc.AddPlayer(ctx, created.ID, "  ")
	assert.ErrorIs(t, err, ErrPlayerNameRequired)

	renamed, err := svc.RenamePlayer(ctx, created.ID, newID, "Casey Jr")
	require.NoError(t, err)
	assert.Equal(t, "Casey Jr", renamed.FindPlayer(newID).Name)

	_, err = svc.RemovePlayer(ctx, created.ID, "p1")
	assert.ErrorIs(t, err, ErrHostNotRemovable)

	removed, err := svc.RemovePlayer(ctx, created.ID, newID)
	require.NoError(t, err)
	assert.Len(t, removed.Players, 2)

	_, err = svc.RemovePlayer(ctx, created.ID, newID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestSyncToStageRefusedJumpLeavesEventUntouched(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeSealed, 4)

	_, err := svc.SyncToStage(ctx, created.ID, "draft:pack1_active")
	assert.ErrorIs(t, err, ErrStageNotAllowed)

	event, err := svc.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSetup, event.CurrentPhase)
	assert.Nil(t, event.Draft)
}

func TestSyncToStageAppliesAllowedJump(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 4)

	event, err := svc.SyncToStage(ctx, created.ID, "draft:pack1_active")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseDrafting, event.CurrentPhase)
	require.NotNil(t, event.Draft)
	assert.True(t, event.Draft.IsRunning())
}

func TestSyncToStageRejectsMalformedToken(t *testing.T) {
	svc, _ := newTestEventService(t)
	created := seedEvent(t, svc, models.EventTypeDraft, 4)

	_, err := svc.SyncToStage(context.Background(), created.ID, "draft:pack9_active")
	assert.ErrorIs(t, err, ErrInvalidStageToken)
}

func TestStageListsTransitionVerdicts(t *testing.T) {
	svc, _ := newTestEventService(t)
	created := seedEvent(t, svc, models.EventTypeSealed, 4)

	info, err := svc.Stage(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "setup:configuring", info.Stage)
	require.NotEmpty(t, info.Transitions)

	for _, entry := range info.Transitions {
		// Sealed events never offer draft stages.
		assert.NotContains(t, entry.Stage, "draft:")
	}
}

func TestGeneratePairingsIdempotentAtServiceBoundary(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 4)

	first, err := svc.GeneratePairings(ctx, created.ID, 1)
	require.NoError(t, err)
	require.Len(t, first.Rounds, 1)
	matchIDs := []string{first.Rounds[0].Matches[0].ID, first.Rounds[0].Matches[1].ID}

	// Retrying the same round is a success and keeps the original pairings.
	second, err := svc.GeneratePairings(ctx, created.ID, 1)
	require.NoError(t, err)
	require.Len(t, second.Rounds, 1)
	assert.Equal(t, matchIDs[0], second.Rounds[0].Matches[0].ID)
	assert.Equal(t, matchIDs[1], second.Rounds[0].Matches[1].ID)

	_, err = svc.GeneratePairings(ctx, created.ID, 99)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestSetMatchResultValidatesFirst(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 4)
	event, err := svc.GeneratePairings(ctx, created.ID, 1)
	require.NoError(t, err)
	matchID := event.Rounds[0].Matches[0].ID

	_, err = svc.SetMatchResult(ctx, created.ID, matchID, &models.MatchResult{PlayerAWins: 3, PlayerBWins: 3})
	assert.ErrorIs(t, err, ErrInvalidMatchResult)

	updated, err := svc.SetMatchResult(ctx, created.ID, matchID, &models.MatchResult{PlayerAWins: 2, PlayerBWins: 1})
	require.NoError(t, err)
	match, _ := updated.FindMatch(matchID)
	require.NotNil(t, match.Result)
	assert.Equal(t, 2, match.Result.PlayerAWins)

	_, err = svc.SetMatchResult(ctx, created.ID, "missing", nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestStandingsComeFromStoredRounds(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	created := seedEvent(t, svc, models.EventTypeDraft, 4)
	event, err := svc.GeneratePairings(ctx, created.ID, 1)
	require.NoError(t, err)

	_, err = svc.SetMatchResult(ctx, created.ID, event.Rounds[0].Matches[0].ID, &models.MatchResult{PlayerAWins: 2})
	require.NoError(t, err)

	standings, err := svc.Standings(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.Equal(t, 3, standings[0].Points)
}

func TestOperationsOnMissingEvent(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()

	_, err := svc.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.StartEvent(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Standings(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
