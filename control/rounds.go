package control

import (
	"time"

	"draftday/models"
	"draftday/swiss"
	"draftday/utils"
)

// appendRound builds round n from the Swiss engine and appends it. Byes get
// their automatic 2-0 at creation so they always count as resolved.
func appendRound(event *models.EventSession, n int) *models.Round {
	pairings := swiss.GeneratePairings(event.Players, event.Rounds)
	matches := make([]models.Match, 0, len(pairings))
	for i, pairing := range pairings {
		match := models.Match{
			ID:          utils.NewID(),
			TableNumber: i + 1,
			PlayerAID:   pairing.PlayerAID,
			PlayerBID:   pairing.PlayerBID,
		}
		if match.IsBye() {
			match.Result = models.ByeResult()
		}
		matches = append(matches, match)
	}
	event.Rounds = append(event.Rounds, models.Round{
		TimerState: models.TimerState{
			DurationSeconds: event.Settings.RoundTimerMinutes * 60,
			IsPaused:        true,
		},
		RoundNumber: n,
		Matches:     matches,
	})
	return &event.Rounds[len(event.Rounds)-1]
}

// GeneratePairings creates round n. Idempotent per round number: a round that
// already exists is left untouched.
func GeneratePairings(event *models.EventSession, n int, now time.Time) bool {
	if n < 1 || n > event.Settings.TotalRounds {
		return false
	}
	if event.RoundByNumber(n) != nil {
		return false
	}
	appendRound(event, n)
	if event.CurrentPhase == models.PhaseRounds && n > event.CurrentRound {
		event.CurrentRound = n
	}
	event.Touch(now)
	return true
}

// UpdateMatchResult overwrites (or clears, with nil) a match result by id
// across all rounds. This is the admin correction path; the report audit
// stamps are dropped because the value no longer came from a participant.
func UpdateMatchResult(event *models.EventSession, matchID string, result *models.MatchResult, now time.Time) bool {
	match, _ := event.FindMatch(matchID)
	if match == nil {
		return false
	}
	match.Result = result
	match.ReportedBy = nil
	match.ReportedAt = nil
	event.Touch(now)
	return true
}

// FinalizeRound closes the current round. The event flips to complete when
// this was the last configured round, otherwise it stays in rounds awaiting
// the next pairing generation.
func FinalizeRound(event *models.EventSession, now time.Time) bool {
	round := event.RoundByNumber(event.CurrentRound)
	if round == nil {
		return false
	}
	round.IsComplete = true
	round.Pause(now)
	if event.CurrentRound >= event.Settings.TotalRounds {
		event.CurrentPhase = models.PhaseComplete
	}
	event.Touch(now)
	return true
}
