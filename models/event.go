package models

import "time"

// EventType определяет формат лимитед-ивента.
type EventType string

const (
	EventTypeDraft  EventType = "draft"
	EventTypeSealed EventType = "sealed"
)

// Phase представляет крупные фазы ивента, соответствующие currentPhase.
type Phase string

const (
	PhaseSetup        Phase = "setup"
	PhaseDrafting     Phase = "drafting"
	PhaseDeckbuilding Phase = "deckbuilding"
	PhaseRounds       Phase = "rounds"
	PhaseComplete     Phase = "complete"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseSetup, PhaseDrafting, PhaseDeckbuilding, PhaseRounds, PhaseComplete:
		return true
	}
	return false
}

// Settings is fixed at event creation.
type Settings struct {
	RoundTimerMinutes   int `json:"roundTimerMinutes"`
	DraftPickSeconds    int `json:"draftPickSeconds"`
	DeckbuildingMinutes int `json:"deckbuildingMinutes"`
	TotalRounds         int `json:"totalRounds"`
}

func DefaultSettings() Settings {
	return Settings{
		RoundTimerMinutes:   50,
		DraftPickSeconds:    60,
		DeckbuildingMinutes: 30,
		TotalRounds:         3,
	}
}

type Player struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SeatNumber int      `json:"seatNumber"`
	IsHost     bool     `json:"isHost"`
	DeckColors []string `json:"deckColors,omitempty"`
}

type PassDirection string

const (
	PassLeft  PassDirection = "left"
	PassRight PassDirection = "right"
)

// PassDirectionForPack derives the pass direction from the pack number:
// packs 1 and 3 pass left, pack 2 passes right.
func PassDirectionForPack(pack int) PassDirection {
	if pack == 2 {
		return PassRight
	}
	return PassLeft
}

type DraftLogEntry struct {
	At             int64  `json:"at"` // epoch ms, monotonic within one event log
	Type           string `json:"type"`
	Pack           int    `json:"pack,omitempty"`
	ElapsedSeconds int    `json:"elapsedSeconds,omitempty"`
	Message        string `json:"message,omitempty"`
}

const (
	LogDraftStarted   = "draft_started"
	LogDraftCompleted = "draft_completed"
	LogPackStarted    = "pack_started"
	LogPackCompleted  = "pack_completed"
	LogNote           = "note"
)

type DraftState struct {
	TimerState
	CurrentPack   int             `json:"currentPack"`
	PassDirection PassDirection   `json:"passDirection"`
	IsComplete    bool            `json:"isComplete"`
	PackStartedAt *int64          `json:"packStartedAt,omitempty"`
	EventLog      []DraftLogEntry `json:"eventLog"`
}

// AppendLog appends an entry, forcing timestamps to stay monotonic even when
// two entries land within the same millisecond.
func (d *DraftState) AppendLog(entry DraftLogEntry) {
	if n := len(d.EventLog); n > 0 && entry.At <= d.EventLog[n-1].At {
		entry.At = d.EventLog[n-1].At + 1
	}
	d.EventLog = append(d.EventLog, entry)
}

type DeckbuildingState struct {
	TimerState
	IsComplete bool `json:"isComplete"`
}

// Finished reports whether deckbuilding is over, either via the explicit flag
// or because the timer ran out.
func (d *DeckbuildingState) Finished(now time.Time) bool {
	return d.IsComplete || d.IsExpired(now)
}

// EventSession is the aggregate root. All mutation goes through the control
// package; everything else treats it as read-only.
type EventSession struct {
	ID           string             `json:"id"`
	EventCode    string             `json:"eventCode"`
	CreatedAt    int64              `json:"createdAt"` // epoch ms
	UpdatedAt    int64              `json:"updatedAt"` // epoch ms
	Type         EventType          `json:"type"`
	Players      []Player           `json:"players"`
	CurrentPhase Phase              `json:"currentPhase"`
	CurrentRound int                `json:"currentRound"`
	Draft        *DraftState        `json:"draftState,omitempty"`
	Deckbuilding *DeckbuildingState `json:"deckbuildingState,omitempty"`
	Rounds       []Round            `json:"rounds"`
	Settings     Settings           `json:"settings"`
}

// Touch refreshes UpdatedAt. Every controller mutation calls it.
func (e *EventSession) Touch(now time.Time) {
	e.UpdatedAt = EpochMillis(now)
}

func (e *EventSession) FindPlayer(playerID string) *Player {
	for i := range e.Players {
		if e.Players[i].ID == playerID {
			return &e.Players[i]
		}
	}
	return nil
}

// RoundByNumber returns the round with the given 1-indexed number, or nil.
func (e *EventSession) RoundByNumber(n int) *Round {
	for i := range e.Rounds {
		if e.Rounds[i].RoundNumber == n {
			return &e.Rounds[i]
		}
	}
	return nil
}

// FindMatch locates a match by id across all rounds and returns it together
// with its round number.
func (e *EventSession) FindMatch(matchID string) (*Match, int) {
	for i := range e.Rounds {
		for j := range e.Rounds[i].Matches {
			if e.Rounds[i].Matches[j].ID == matchID {
				return &e.Rounds[i].Matches[j], e.Rounds[i].RoundNumber
			}
		}
	}
	return nil, 0
}

// RoundsComplete reports whether rounds 1..totalRounds all exist and every
// match in them has a recorded result.
func (e *EventSession) RoundsComplete() bool {
	for n := 1; n <= e.Settings.TotalRounds; n++ {
		round := e.RoundByNumber(n)
		if round == nil || !round.AllMatchesResolved() {
			return false
		}
	}
	return true
}
