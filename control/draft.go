package control

import (
	"strings"
	"time"

	"draftday/models"
)

func packElapsedSeconds(draft *models.DraftState, now time.Time) int {
	if draft.PackStartedAt == nil {
		return 0
	}
	elapsed := (models.EpochMillis(now) - *draft.PackStartedAt) / 1000
	if elapsed < 0 {
		return 0
	}
	return int(elapsed)
}

// AdvanceToNextPack closes the current pack and opens the next one with a
// fresh, auto-started pick timer. Finishing pack 3 completes the draft and
// moves the event into deckbuilding.
func AdvanceToNextPack(event *models.EventSession, now time.Time) bool {
	if event.CurrentPhase != models.PhaseDrafting || event.Draft == nil || event.Draft.IsComplete {
		return false
	}
	draft := event.Draft

	draft.AppendLog(models.DraftLogEntry{
		At:             models.EpochMillis(now),
		Type:           models.LogPackCompleted,
		Pack:           draft.CurrentPack,
		ElapsedSeconds: packElapsedSeconds(draft, now),
	})

	if draft.CurrentPack >= 3 {
		draft.IsComplete = true
		draft.Pause(now)
		draft.AppendLog(models.DraftLogEntry{
			At:   models.EpochMillis(now),
			Type: models.LogDraftCompleted,
		})
		event.CurrentPhase = models.PhaseDeckbuilding
		ensureDeckbuildingState(event)
		event.Touch(now)
		return true
	}

	draft.CurrentPack++
	draft.PassDirection = models.PassDirectionForPack(draft.CurrentPack)
	ms := models.EpochMillis(now)
	draft.PackStartedAt = &ms
	draft.StartedAt = &ms
	draft.PausedAt = nil
	draft.IsPaused = false
	draft.DurationSeconds = event.Settings.DraftPickSeconds
	draft.AppendLog(models.DraftLogEntry{
		At:   models.EpochMillis(now),
		Type: models.LogPackStarted,
		Pack: draft.CurrentPack,
	})
	event.Touch(now)
	return true
}

// CompleteDraft marks the draft finished, pausing the timer and logging a
// final pack-completed entry when a pack was still in progress.
func CompleteDraft(event *models.EventSession, now time.Time) bool {
	if event.Draft == nil || event.Draft.IsComplete {
		return false
	}
	draft := event.Draft
	if draft.PackStartedAt != nil {
		draft.AppendLog(models.DraftLogEntry{
			At:             models.EpochMillis(now),
			Type:           models.LogPackCompleted,
			Pack:           draft.CurrentPack,
			ElapsedSeconds: packElapsedSeconds(draft, now),
		})
	}
	draft.IsComplete = true
	draft.Pause(now)
	draft.AppendLog(models.DraftLogEntry{
		At:   models.EpochMillis(now),
		Type: models.LogDraftCompleted,
	})
	event.Touch(now)
	return true
}

// AppendDraftLog adds a free-form note to the draft event log.
func AppendDraftLog(event *models.EventSession, message string, now time.Time) bool {
	message = strings.TrimSpace(message)
	if event.Draft == nil || message == "" {
		return false
	}
	event.Draft.AppendLog(models.DraftLogEntry{
		At:      models.EpochMillis(now),
		Type:    models.LogNote,
		Message: message,
	})
	event.Touch(now)
	return true
}
