package sequence

import (
	"time"

	"draftday/models"
)

func subFor(paused bool) SubState {
	if paused {
		return SubPaused
	}
	return SubActive
}

// DeriveStage maps an event record to its single canonical stage. Pure: the
// only clock input is now, used for timer-implied completion.
//
// A round whose matches all carry results derives as complete even before
// finalizeRound is called, and deckbuilding derives as complete when its
// timer ran out even without the explicit flag. Both rules are shared with
// the transition guard so the two can never disagree.
func DeriveStage(event *models.EventSession, now time.Time) Stage {
	switch event.CurrentPhase {
	case models.PhaseDrafting:
		draft := event.Draft
		if draft == nil {
			return DraftPack(1, SubPaused)
		}
		if draft.IsComplete {
			return DraftComplete()
		}
		pack := draft.CurrentPack
		if pack < 1 {
			pack = 1
		}
		return DraftPack(pack, subFor(draft.IsPaused))
	case models.PhaseDeckbuilding:
		deck := event.Deckbuilding
		if deck == nil {
			return Deckbuilding(SubPaused)
		}
		if deck.Finished(now) {
			return Deckbuilding(SubComplete)
		}
		return Deckbuilding(subFor(deck.IsPaused))
	case models.PhaseRounds:
		n := event.CurrentRound
		if n < 1 {
			n = 1
		}
		round := event.RoundByNumber(n)
		if round == nil {
			return Round(n, SubPaused)
		}
		if round.AllMatchesResolved() {
			return Round(n, SubComplete)
		}
		return Round(n, subFor(round.IsPaused))
	case models.PhaseComplete:
		return Complete()
	default:
		return Setup()
	}
}
