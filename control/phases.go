package control

import (
	"time"

	"draftday/models"
	"draftday/sequence"
)

func ensureDraftState(event *models.EventSession) *models.DraftState {
	if event.Draft == nil {
		event.Draft = &models.DraftState{
			TimerState: models.TimerState{
				DurationSeconds: event.Settings.DraftPickSeconds,
				IsPaused:        true,
			},
			CurrentPack:   1,
			PassDirection: models.PassDirectionForPack(1),
		}
	}
	return event.Draft
}

func ensureDeckbuildingState(event *models.EventSession) *models.DeckbuildingState {
	if event.Deckbuilding == nil {
		event.Deckbuilding = &models.DeckbuildingState{
			TimerState: models.TimerState{
				DurationSeconds: event.Settings.DeckbuildingMinutes * 60,
				IsPaused:        true,
			},
		}
	}
	return event.Deckbuilding
}

// StartEvent leaves setup: draft events enter drafting, sealed events skip
// straight to deckbuilding. The seeded timer starts paused. No-op outside
// setup.
func StartEvent(event *models.EventSession, now time.Time) bool {
	if event.CurrentPhase != models.PhaseSetup {
		return false
	}
	if event.Type == models.EventTypeDraft {
		event.CurrentPhase = models.PhaseDrafting
		ensureDraftState(event)
	} else {
		event.CurrentPhase = models.PhaseDeckbuilding
		ensureDeckbuildingState(event)
	}
	event.Touch(now)
	return true
}

// AdvanceToPhase sets currentPhase directly and seeds the target sub-state.
// Used for direct admin navigation; it does not consult the guard.
func AdvanceToPhase(event *models.EventSession, phase models.Phase, now time.Time) bool {
	if !phase.Valid() {
		return false
	}
	event.CurrentPhase = phase
	switch phase {
	case models.PhaseDrafting:
		ensureDraftState(event)
	case models.PhaseDeckbuilding:
		ensureDeckbuildingState(event)
	case models.PhaseRounds:
		if event.CurrentRound == 0 {
			event.CurrentRound = 1
		}
	}
	event.Touch(now)
	return true
}

// applySub reconciles a timer with the requested paused/active sub-state:
// "active" arms the clock (resuming a paused one so remaining time is kept),
// "paused" freezes it at now.
func applySub(timer *models.TimerState, sub sequence.SubState, now time.Time) {
	switch sub {
	case sequence.SubActive:
		if timer.StartedAt == nil {
			timer.Start(now)
		} else {
			timer.Resume(now)
		}
	case sequence.SubPaused:
		timer.Pause(now)
	}
}

// SyncToStage is the admin "event sequence" jump: it reconstructs
// currentPhase and the relevant sub-state to match the requested stage, both
// forward and backward. It intentionally does not re-validate against the
// guard — callers check CanTransition first.
func SyncToStage(event *models.EventSession, stage sequence.Stage, now time.Time) bool {
	switch stage.Kind {
	case sequence.KindSetup:
		event.CurrentPhase = models.PhaseSetup

	case sequence.KindDraft:
		event.CurrentPhase = models.PhaseDrafting
		draft := ensureDraftState(event)
		if stage.Sub == sequence.SubComplete {
			draft.IsComplete = true
			draft.Pause(now)
			break
		}
		draft.IsComplete = false
		draft.CurrentPack = stage.Number
		draft.PassDirection = models.PassDirectionForPack(stage.Number)
		applySub(&draft.TimerState, stage.Sub, now)
		if stage.Sub == sequence.SubActive && draft.PackStartedAt == nil {
			ms := models.EpochMillis(now)
			draft.PackStartedAt = &ms
		}

	case sequence.KindDeckbuilding:
		event.CurrentPhase = models.PhaseDeckbuilding
		deck := ensureDeckbuildingState(event)
		if stage.Sub == sequence.SubComplete {
			deck.IsComplete = true
			deck.Pause(now)
			break
		}
		deck.IsComplete = false
		applySub(&deck.TimerState, stage.Sub, now)

	case sequence.KindRound:
		event.CurrentPhase = models.PhaseRounds
		if event.RoundByNumber(stage.Number) == nil {
			appendRound(event, stage.Number)
		}
		event.CurrentRound = stage.Number
		// Any other in-flight round is frozen before this one takes over.
		for i := range event.Rounds {
			if event.Rounds[i].RoundNumber != stage.Number && event.Rounds[i].IsRunning() {
				event.Rounds[i].Pause(now)
			}
		}
		round := event.RoundByNumber(stage.Number)
		if stage.Sub == sequence.SubComplete {
			round.IsComplete = true
			round.Pause(now)
			break
		}
		round.IsComplete = false
		applySub(&round.TimerState, stage.Sub, now)

	case sequence.KindComplete:
		event.CurrentPhase = models.PhaseComplete

	default:
		return false
	}
	event.Touch(now)
	return true
}
