package optimizer

import (
	"fmt"
	"time"
)

// SlateKind enumerates the supported game slates. A slate narrows the roster
// to players whose game falls inside a named temporal window; predicates are
// evaluated against the player's game weekday and hour of day.
type SlateKind int

const (
	SlateAll SlateKind = iota
	SlateSunday
	SlateSundayEarly
	SlateSundayEarlyAndLate
	SlateSundayAndMonday
	SlateMonday
	SlateMondayAndThursday
)

// Slate is a temporal filter over games. The Monday/Thursday slate pairs
// Monday games of one week with Thursday games of the following week; Weeks
// carries the two distinct week values in ascending order and is unused by
// every other kind.
type Slate struct {
	Kind  SlateKind
	Weeks [2]int
}

func (s Slate) Name() string {
	switch s.Kind {
	case SlateAll:
		return "all"
	case SlateSunday:
		return "sunday"
	case SlateSundayEarly:
		return "sunday_early"
	case SlateSundayEarlyAndLate:
		return "sunday_early_and_late"
	case SlateSundayAndMonday:
		return "sunday_and_monday"
	case SlateMonday:
		return "monday"
	case SlateMondayAndThursday:
		return "monday_and_thursday"
	default:
		return "unknown"
	}
}

// ParseSlateKind maps a slate name to its kind.
func ParseSlateKind(name string) (SlateKind, error) {
	switch name {
	case "all":
		return SlateAll, nil
	case "sunday":
		return SlateSunday, nil
	case "sunday_early":
		return SlateSundayEarly, nil
	case "sunday_early_and_late":
		return SlateSundayEarlyAndLate, nil
	case "sunday_and_monday":
		return SlateSundayAndMonday, nil
	case "monday":
		return SlateMonday, nil
	case "monday_and_thursday":
		return SlateMondayAndThursday, nil
	default:
		return SlateAll, fmt.Errorf("unknown slate %q", name)
	}
}

// Matches reports whether a player's game falls inside the slate window.
func (s Slate) Matches(p Player) bool {
	day := p.GameTime.Weekday()
	hour := p.GameTime.Hour()
	switch s.Kind {
	case SlateAll:
		return true
	case SlateSunday:
		return day == time.Sunday
	case SlateSundayEarly:
		return day == time.Sunday && hour == 13
	case SlateSundayEarlyAndLate:
		return day == time.Sunday && (hour == 13 || hour == 16)
	case SlateSundayAndMonday:
		return day == time.Sunday || day == time.Monday
	case SlateMonday:
		return day == time.Monday
	case SlateMondayAndThursday:
		return (p.Week == s.Weeks[0] && day == time.Monday) ||
			(p.Week == s.Weeks[1] && day == time.Thursday)
	default:
		return false
	}
}
