package models

type Round struct {
	TimerState
	RoundNumber int     `json:"roundNumber"`
	Matches     []Match `json:"matches"`
	IsComplete  bool    `json:"isComplete"`
}

// AllMatchesResolved reports whether every match of the round has a recorded
// result. Byes carry an automatic result from the moment the round is
// generated, so they always count as resolved.
func (r *Round) AllMatchesResolved() bool {
	for i := range r.Matches {
		if !r.Matches[i].Resolved() {
			return false
		}
	}
	return true
}

type Match struct {
	ID          string       `json:"id"`
	TableNumber int          `json:"tableNumber"`
	PlayerAID   string       `json:"playerAId"`
	PlayerBID   *string      `json:"playerBId"` // nil означает бай
	Result      *MatchResult `json:"result,omitempty"`
	ReportedBy  *string      `json:"reportedBy,omitempty"`
	ReportedAt  *int64       `json:"reportedAt,omitempty"` // epoch ms
}

func (m *Match) IsBye() bool {
	return m.PlayerBID == nil
}

func (m *Match) Resolved() bool {
	return m.IsBye() || m.Result != nil
}

// HasPlayer reports whether the given player takes part in the match.
func (m *Match) HasPlayer(playerID string) bool {
	if m.PlayerAID == playerID {
		return true
	}
	return m.PlayerBID != nil && *m.PlayerBID == playerID
}

// MatchResult records game wins for both sides of a best-of-three. A nil
// *MatchResult on the match is the only "not yet decided" state; a
// constructed result always describes an actual outcome.
type MatchResult struct {
	PlayerAWins int  `json:"playerAWins"`
	PlayerBWins int  `json:"playerBWins"`
	IsDraw      bool `json:"isDraw"`
}

// ByeResult is the automatic 2-0 awarded to a bye recipient.
func ByeResult() *MatchResult {
	return &MatchResult{PlayerAWins: 2, PlayerBWins: 0}
}

// Validate rejects every ambiguous encoding: 0-0 without a draw flag would be
// indistinguishable from "never played", a draw is only the 1-1 split, and a
// non-draw needs a strict winner.
func (r MatchResult) Validate() bool {
	if r.PlayerAWins < 0 || r.PlayerAWins > 3 || r.PlayerBWins < 0 || r.PlayerBWins > 3 {
		return false
	}
	if r.PlayerAWins+r.PlayerBWins > 3 {
		return false
	}
	if r.IsDraw {
		return r.PlayerAWins == 1 && r.PlayerBWins == 1
	}
	return r.PlayerAWins != r.PlayerBWins
}
