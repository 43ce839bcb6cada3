package control

import (
	"time"

	"draftday/models"
)

// activeTimer resolves which timer the current phase controls. Returns nil
// when the phase has no timer (setup/complete) or its sub-state is absent.
func activeTimer(event *models.EventSession) *models.TimerState {
	switch event.CurrentPhase {
	case models.PhaseDrafting:
		if event.Draft != nil {
			return &event.Draft.TimerState
		}
	case models.PhaseDeckbuilding:
		if event.Deckbuilding != nil {
			return &event.Deckbuilding.TimerState
		}
	case models.PhaseRounds:
		if round := event.RoundByNumber(event.CurrentRound); round != nil {
			return &round.TimerState
		}
	}
	return nil
}

// timerFloor is the adjustment floor for the current phase: pick timers can
// go down to 10s, round and deckbuilding timers stop at 60s.
func timerFloor(event *models.EventSession) int {
	if event.CurrentPhase == models.PhaseDrafting {
		return models.MinPickTimerSeconds
	}
	return models.MinPhaseTimerSeconds
}

// StartTimer arms the current phase's timer. The very first start of the
// draft timer also stamps packStartedAt and logs the draft opening.
func StartTimer(event *models.EventSession, now time.Time) bool {
	timer := activeTimer(event)
	if timer == nil {
		return false
	}
	firstDraftStart := event.CurrentPhase == models.PhaseDrafting && timer.StartedAt == nil
	if timer.StartedAt == nil {
		timer.Start(now)
	} else {
		timer.Resume(now)
	}
	if firstDraftStart {
		ms := models.EpochMillis(now)
		if event.Draft.PackStartedAt == nil {
			event.Draft.PackStartedAt = &ms
		}
		event.Draft.AppendLog(models.DraftLogEntry{
			At:   ms,
			Type: models.LogDraftStarted,
			Pack: event.Draft.CurrentPack,
		})
	}
	event.Touch(now)
	return true
}

func PauseTimer(event *models.EventSession, now time.Time) bool {
	timer := activeTimer(event)
	if timer == nil {
		return false
	}
	timer.Pause(now)
	event.Touch(now)
	return true
}

func ResumeTimer(event *models.EventSession, now time.Time) bool {
	timer := activeTimer(event)
	if timer == nil {
		return false
	}
	timer.Resume(now)
	event.Touch(now)
	return true
}

// AdjustTimer shifts the duration by delta seconds, clamped at the phase
// floor no matter how negative the delta.
func AdjustTimer(event *models.EventSession, delta int, now time.Time) bool {
	timer := activeTimer(event)
	if timer == nil {
		return false
	}
	timer.Adjust(delta, timerFloor(event))
	event.Touch(now)
	return true
}

// ResetTimer clears the clock and restores the phase default duration. In the
// rounds phase only the current, not-yet-complete round can be reset.
func ResetTimer(event *models.EventSession, now time.Time) bool {
	switch event.CurrentPhase {
	case models.PhaseDrafting:
		if event.Draft == nil {
			return false
		}
		event.Draft.Reset(event.Settings.DraftPickSeconds)
	case models.PhaseDeckbuilding:
		if event.Deckbuilding == nil {
			return false
		}
		event.Deckbuilding.Reset(event.Settings.DeckbuildingMinutes * 60)
	case models.PhaseRounds:
		round := event.RoundByNumber(event.CurrentRound)
		if round == nil || round.IsComplete {
			return false
		}
		round.Reset(event.Settings.RoundTimerMinutes * 60)
	default:
		return false
	}
	event.Touch(now)
	return true
}

// MarkDeckbuildingComplete flips the completion flag, pausing the timer so
// the frozen clock survives a later un-complete.
func MarkDeckbuildingComplete(event *models.EventSession, complete bool, now time.Time) bool {
	if event.Deckbuilding == nil {
		return false
	}
	event.Deckbuilding.IsComplete = complete
	if complete {
		event.Deckbuilding.Pause(now)
	}
	event.Touch(now)
	return true
}
