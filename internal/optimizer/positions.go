package optimizer

import (
	"regexp"
	"strings"
)

// Position is a normalized NFL roster position.
type Position string

const (
	QB              Position = "QB"
	RB              Position = "RB"
	WR              Position = "WR"
	TE              Position = "TE"
	DST             Position = "DST"
	PositionUnknown Position = "UNKNOWN"

	// FlexSlot is a lineup slot label, not a roster position. It is assigned
	// during lineup reconstruction and never appears on a Player.
	FlexSlot = "FLEX"
)

var nonWord = regexp.MustCompile(`\W|_`)

// NormalizePosition maps a free-text position string to the closed Position
// enum. Matching is case-insensitive and ignores punctuation and underscores,
// so "d/st", "Defense" and "DST" all normalize to DST. Unrecognized strings
// normalize to PositionUnknown.
func NormalizePosition(position string) Position {
	normalized := nonWord.ReplaceAllString(position, "")
	switch strings.ToUpper(normalized) {
	case "QB", "QUARTERBACK":
		return QB
	case "RB", "RUNNINGBACK":
		return RB
	case "WR", "WIDERECEIVER":
		return WR
	case "TE", "TIGHTEND":
		return TE
	case "DST", "DEFENSE", "DEF", "DEFENSESPECIALTEAMS", "D":
		return DST
	default:
		return PositionUnknown
	}
}

// slotOrder fixes the presentation order of lineup slots.
var slotOrder = map[string]int{
	string(QB):  0,
	string(RB):  1,
	string(WR):  2,
	string(TE):  3,
	FlexSlot:    4,
	string(DST): 5,
}
