package sequence

import (
	"fmt"
	"time"

	"draftday/models"
)

const minPlayers = 2

// TransitionCheck is the guard's verdict. Reason is only set when the
// transition is refused.
type TransitionCheck struct {
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
	IsBackward bool   `json:"isBackward"`
}

func allowed(backward bool) TransitionCheck {
	return TransitionCheck{Allowed: true, IsBackward: backward}
}

func refused(backward bool, reason string) TransitionCheck {
	return TransitionCheck{Allowed: false, Reason: reason, IsBackward: backward}
}

func draftFinished(event *models.EventSession) bool {
	return event.Draft != nil && event.Draft.IsComplete
}

func deckbuildingFinished(event *models.EventSession, now time.Time) bool {
	return event.Deckbuilding != nil && event.Deckbuilding.Finished(now)
}

func roundResolved(event *models.EventSession, n int) bool {
	round := event.RoundByNumber(n)
	return round != nil && round.AllMatchesResolved()
}

// CanTransition validates a requested jump from current to target. It never
// mutates the event. The controller's SyncToStage does not call it again;
// callers are expected to consult the guard before committing (policy, not an
// enforced invariant).
func CanTransition(event *models.EventSession, current, target Stage, now time.Time) TransitionCheck {
	backward := target.IsBackwardFrom(current)

	// Re-requesting the stage the event is already in is a no-op.
	if current == target {
		return allowed(false)
	}

	switch target.Kind {
	case KindSetup:
		return allowed(backward)

	case KindDraft:
		if event.Type == models.EventTypeSealed {
			return refused(backward, "sealed events have no draft")
		}
		if len(event.Players) < minPlayers {
			return refused(backward, "need at least 2 players")
		}
		return allowed(backward)

	case KindDeckbuilding:
		if len(event.Players) < minPlayers {
			return refused(backward, "need at least 2 players")
		}
		if !backward && event.Type == models.EventTypeDraft && !draftFinished(event) {
			return refused(backward, "draft is not complete")
		}
		return allowed(backward)

	case KindRound:
		if len(event.Players) < minPlayers {
			return refused(backward, "need at least 2 players")
		}
		if !backward {
			if !deckbuildingFinished(event, now) {
				return refused(backward, "deckbuilding is not complete")
			}
			if target.Number > 1 && !roundResolved(event, target.Number-1) {
				return refused(backward, fmt.Sprintf("round %d has unreported matches", target.Number-1))
			}
		}
		return allowed(backward)

	case KindComplete:
		if !event.RoundsComplete() {
			return refused(backward, "not all rounds have results")
		}
		return allowed(backward)
	}

	return refused(backward, "unknown stage")
}
