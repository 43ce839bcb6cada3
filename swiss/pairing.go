// Package swiss contains the pure tournament math: round pairings and
// standings. It never touches storage and never mutates the event record.
package swiss

import (
	"sort"

	"draftday/models"
)

const (
	WinPoints  = 3
	DrawPoints = 1
)

// Pairing is one table of a generated round. A nil PlayerBID is a bye.
type Pairing struct {
	PlayerAID string
	PlayerBID *string
}

type record struct {
	points    int
	opponents map[string]bool
	hadBye    bool
}

// history folds all prior rounds into per-player points, opponents faced and
// bye bookkeeping. A bye counts as a win whether or not its automatic result
// was stored.
func history(rounds []models.Round) map[string]*record {
	records := make(map[string]*record)
	get := func(id string) *record {
		rec, ok := records[id]
		if !ok {
			rec = &record{opponents: make(map[string]bool)}
			records[id] = rec
		}
		return rec
	}

	for i := range rounds {
		for j := range rounds[i].Matches {
			match := &rounds[i].Matches[j]
			a := get(match.PlayerAID)
			if match.IsBye() {
				a.points += WinPoints
				a.hadBye = true
				continue
			}
			b := get(*match.PlayerBID)
			a.opponents[*match.PlayerBID] = true
			b.opponents[match.PlayerAID] = true
			result := match.Result
			if result == nil {
				continue
			}
			switch {
			case result.IsDraw:
				a.points += DrawPoints
				b.points += DrawPoints
			case result.PlayerAWins > result.PlayerBWins:
				a.points += WinPoints
			default:
				b.points += WinPoints
			}
		}
	}
	return records
}

// GeneratePairings builds the next round from the roster and prior rounds.
//
// Players are sorted by points descending, seat number ascending, which keeps
// the output reproducible. On an odd count the lowest-ranked player without a
// prior bye sits out (lowest-ranked overall once everyone has had one). The
// rest are paired greedily top-down, preferring opponents not yet faced and
// falling back to a rematch rather than deadlocking.
func GeneratePairings(players []models.Player, rounds []models.Round) []Pairing {
	if len(players) == 0 {
		return nil
	}

	records := history(rounds)
	rec := func(id string) *record {
		if r, ok := records[id]; ok {
			return r
		}
		return &record{opponents: map[string]bool{}}
	}

	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := rec(sorted[i].ID).points, rec(sorted[j].ID).points
		if pi != pj {
			return pi > pj
		}
		return sorted[i].SeatNumber < sorted[j].SeatNumber
	})

	var byeID string
	if len(sorted)%2 == 1 {
		idx := len(sorted) - 1
		for i := len(sorted) - 1; i >= 0; i-- {
			if !rec(sorted[i].ID).hadBye {
				idx = i
				break
			}
		}
		byeID = sorted[idx].ID
		sorted = append(sorted[:idx], sorted[idx+1:]...)
	}

	pairings := make([]Pairing, 0, len(sorted)/2+1)
	used := make(map[string]bool, len(sorted))

	for i := range sorted {
		a := sorted[i]
		if used[a.ID] {
			continue
		}
		used[a.ID] = true

		opponent := -1
		for j := i + 1; j < len(sorted); j++ {
			if used[sorted[j].ID] || rec(a.ID).opponents[sorted[j].ID] {
				continue
			}
			opponent = j
			break
		}
		if opponent == -1 {
			// Everyone left already faced this player; take the next free
			// player in order and accept the rematch.
			for j := i + 1; j < len(sorted); j++ {
				if !used[sorted[j].ID] {
					opponent = j
					break
				}
			}
		}
		if opponent == -1 {
			continue
		}
		used[sorted[opponent].ID] = true
		bID := sorted[opponent].ID
		pairings = append(pairings, Pairing{PlayerAID: a.ID, PlayerBID: &bID})
	}

	if byeID != "" {
		pairings = append(pairings, Pairing{PlayerAID: byeID})
	}
	return pairings
}
