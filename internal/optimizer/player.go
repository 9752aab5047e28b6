package optimizer

import (
	"math"
	"time"
)

// Player is a single roster record. Index is the stable identifier assigned
// by the optimizer when the roster is adopted; it never comes from source
// data. ExternalID carries the source's own id column when one was declared.
type Player struct {
	Index      int       `json:"index"`
	ExternalID string    `json:"external_id,omitempty"`
	Name       string    `json:"name"`
	Position   Position  `json:"position"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent,omitempty"`
	Salary     int       `json:"salary"`
	Points     float64   `json:"points"`
	GameTime   time.Time `json:"game_time,omitempty"`
	Week       int       `json:"week,omitempty"`
	Home       bool      `json:"home,omitempty"`
}

// modelable reports whether the record may be handed to the model builder.
// Records with non-positive salary or missing points are dropped before any
// variable is created for them.
func (p Player) modelable() bool {
	return p.Salary > 0 && !math.IsNaN(p.Points)
}

// adoptRoster deep-copies the caller's players, normalizes positions and
// assigns stable indices. The copy guarantees concurrent optimizer instances
// never share mutable roster state.
func adoptRoster(players []Player) []Player {
	roster := make([]Player, len(players))
	copy(roster, players)
	for i := range roster {
		roster[i].Index = i
		roster[i].Position = NormalizePosition(string(roster[i].Position))
	}
	return roster
}

func rosterWeeks(players []Player) []int {
	seen := make(map[int]bool)
	weeks := make([]int, 0, 2)
	for _, p := range players {
		if !seen[p.Week] {
			seen[p.Week] = true
			weeks = append(weeks, p.Week)
		}
	}
	return weeks
}

func rosterHasTeam(players []Player, team string) bool {
	for _, p := range players {
		if p.Team == team {
			return true
		}
	}
	return false
}
