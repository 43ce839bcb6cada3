package swiss

import (
	"sort"

	"draftday/models"
)

// OMWFloor is the minimum match-win fraction an opponent contributes to the
// opponent match win percentage tiebreaker.
const OMWFloor = 1.0 / 3.0

type PlayerStanding struct {
	Rank        int     `json:"rank"`
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	Points      int     `json:"points"`
	OpponentWin float64 `json:"opponentMatchWinPct"`
	GameWin     float64 `json:"gameWinPct"`
}

type tally struct {
	wins, losses, draws   int
	gamesWon, gamesPlayed int
	matches               int // includes byes
	opponents             []string
}

// CalculateStandings ranks all players from the recorded round history.
// Points desc, then opponent match win % desc, then game win % desc; equal
// lines keep roster (seat) order and ranks are dense 1..N with no shared
// rank numbers.
func CalculateStandings(players []models.Player, rounds []models.Round) []PlayerStanding {
	tallies := make(map[string]*tally, len(players))
	for i := range players {
		tallies[players[i].ID] = &tally{}
	}
	get := func(id string) *tally {
		t, ok := tallies[id]
		if !ok {
			t = &tally{}
			tallies[id] = t
		}
		return t
	}

	for i := range rounds {
		for j := range rounds[i].Matches {
			match := &rounds[i].Matches[j]
			a := get(match.PlayerAID)
			if match.IsBye() {
				// Automatic 2-0 win for the bye, no opponent recorded.
				a.wins++
				a.matches++
				a.gamesWon += 2
				a.gamesPlayed += 2
				continue
			}
			result := match.Result
			if result == nil {
				continue
			}
			b := get(*match.PlayerBID)
			a.matches++
			b.matches++
			a.opponents = append(a.opponents, *match.PlayerBID)
			b.opponents = append(b.opponents, match.PlayerAID)

			games := result.PlayerAWins + result.PlayerBWins
			a.gamesWon += result.PlayerAWins
			a.gamesPlayed += games
			b.gamesWon += result.PlayerBWins
			b.gamesPlayed += games

			switch {
			case result.IsDraw:
				a.draws++
				b.draws++
			case result.PlayerAWins > result.PlayerBWins:
				a.wins++
				b.losses++
			default:
				b.wins++
				a.losses++
			}
		}
	}

	points := func(t *tally) int { return WinPoints*t.wins + DrawPoints*t.draws }

	matchWinFraction := func(id string) float64 {
		t := get(id)
		if t.matches == 0 {
			return 0
		}
		return float64(points(t)) / float64(WinPoints*t.matches)
	}

	standings := make([]PlayerStanding, 0, len(players))
	for i := range players {
		player := &players[i]
		t := get(player.ID)

		var omw float64
		if len(t.opponents) > 0 {
			for _, opp := range t.opponents {
				fraction := matchWinFraction(opp)
				if fraction < OMWFloor {
					fraction = OMWFloor
				}
				omw += fraction
			}
			omw /= float64(len(t.opponents))
		}

		var gameWin float64
		if t.gamesPlayed > 0 {
			gameWin = float64(t.gamesWon) / float64(t.gamesPlayed)
		}

		standings = append(standings, PlayerStanding{
			PlayerID:    player.ID,
			PlayerName:  player.Name,
			Wins:        t.wins,
			Losses:      t.losses,
			Draws:       t.draws,
			Points:      points(t),
			OpponentWin: omw,
			GameWin:     gameWin,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].OpponentWin != standings[j].OpponentWin {
			return standings[i].OpponentWin > standings[j].OpponentWin
		}
		return standings[i].GameWin > standings[j].GameWin
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
