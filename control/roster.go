// Package control is the event state controller: the only code allowed to
// mutate an EventSession. Every operation takes the record and an explicit
// "now", bumps updatedAt when it changes anything, and reports a missing
// target by returning without mutation. Persistence is the caller's job.
package control

import (
	"math/rand"
	"strings"
	"time"

	"draftday/models"
	"draftday/utils"
)

// reindexSeats restores the dense 1..N seat sequence after any roster change.
func reindexSeats(event *models.EventSession) {
	for i := range event.Players {
		event.Players[i].SeatNumber = i + 1
	}
}

// AddPlayer appends a player at the next seat. Empty names are rejected.
func AddPlayer(event *models.EventSession, name string, now time.Time) *models.Player {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	event.Players = append(event.Players, models.Player{
		ID:   utils.NewID(),
		Name: name,
	})
	reindexSeats(event)
	event.Touch(now)
	return &event.Players[len(event.Players)-1]
}

// RemovePlayer drops the player and closes the seat gap. The host cannot be
// removed.
func RemovePlayer(event *models.EventSession, playerID string, now time.Time) bool {
	for i := range event.Players {
		if event.Players[i].ID != playerID {
			continue
		}
		if event.Players[i].IsHost {
			return false
		}
		event.Players = append(event.Players[:i], event.Players[i+1:]...)
		reindexSeats(event)
		event.Touch(now)
		return true
	}
	return false
}

// RenamePlayer trims and applies the new name; empty names are rejected.
func RenamePlayer(event *models.EventSession, playerID, name string, now time.Time) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	player := event.FindPlayer(playerID)
	if player == nil {
		return false
	}
	player.Name = name
	event.Touch(now)
	return true
}

// ShufflePlayers randomly permutes seating and re-indexes seats 1..N.
func ShufflePlayers(event *models.EventSession, now time.Time) {
	rand.Shuffle(len(event.Players), func(i, j int) {
		event.Players[i], event.Players[j] = event.Players[j], event.Players[i]
	})
	reindexSeats(event)
	event.Touch(now)
}
