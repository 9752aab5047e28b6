package optimizer

import (
	"fmt"
	"strings"
)

// PositionBounds is an inclusive min/max count for one position.
type PositionBounds struct {
	Min int
	Max int
}

// Site is a fantasy platform profile: roster size, salary cap and the
// per-position count bounds the model builder enforces on every solve.
type Site struct {
	Name       string
	SalaryCap  int
	RosterSize int
	Positions  map[Position]PositionBounds
}

func nflPositionBounds() map[Position]PositionBounds {
	return map[Position]PositionBounds{
		QB:  {Min: 1, Max: 1},
		RB:  {Min: 2, Max: 3},
		WR:  {Min: 3, Max: 4},
		TE:  {Min: 1, Max: 2},
		DST: {Min: 1, Max: 1},
	}
}

// SiteDraftKings is the DraftKings NFL classic profile.
func SiteDraftKings() Site {
	return Site{Name: "DraftKings", SalaryCap: 50_000, RosterSize: 9, Positions: nflPositionBounds()}
}

// SiteFanDuel is the FanDuel NFL full-roster profile.
func SiteFanDuel() Site {
	return Site{Name: "FanDuel", SalaryCap: 60_000, RosterSize: 9, Positions: nflPositionBounds()}
}

// SiteYahoo is the Yahoo NFL salary-cap profile.
func SiteYahoo() Site {
	return Site{Name: "Yahoo", SalaryCap: 200, RosterSize: 9, Positions: nflPositionBounds()}
}

// ParseSite resolves a site from its full name or abbreviation,
// case-insensitively.
func ParseSite(name string) (Site, error) {
	switch strings.ToLower(name) {
	case "draftkings", "dk":
		return SiteDraftKings(), nil
	case "fanduel", "fd":
		return SiteFanDuel(), nil
	case "yahoo", "yh":
		return SiteYahoo(), nil
	default:
		return Site{}, fmt.Errorf("unknown site %q", name)
	}
}

// requiredPositions returns the profile's positions in fixed presentation
// order so model construction is reproducible.
func (s Site) requiredPositions() []Position {
	ordered := []Position{QB, RB, WR, TE, DST}
	out := make([]Position, 0, len(s.Positions))
	for _, pos := range ordered {
		if _, ok := s.Positions[pos]; ok {
			out = append(out, pos)
		}
	}
	return out
}
