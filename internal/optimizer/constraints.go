package optimizer

import (
	"fmt"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
)

// ConstraintKind tags the closed set of constraint variants.
type ConstraintKind int

const (
	KindLineupSize ConstraintKind = iota
	KindSalaryCap
	KindTeamFilter
	KindPlayerFilter
	KindPositionStack
	KindGameSlate
)

// CapDirection distinguishes a salary ceiling from a salary floor.
type CapDirection int

const (
	CapMax CapDirection = iota
	CapMin
)

// TeamFilterMode selects how a team filter binds the lineup.
type TeamFilterMode int

const (
	TeamOnlyInclude TeamFilterMode = iota
	TeamMaxN
	TeamMinN
)

// PlayerFilterMode forces a player in or out of the lineup.
type PlayerFilterMode int

const (
	PlayerInclude PlayerFilterMode = iota
	PlayerExclude
)

// StackKind enumerates the supported stacking rules.
type StackKind int

const (
	StackQBReceiver StackKind = iota
	StackRBDST
)

// Constraint is one tagged variant of the closed constraint set. Only the
// fields relevant to its Kind are populated. Constraints reference the
// roster lazily: emission is evaluated against whichever roster subset the
// model builder passes in, and conflicts are detected by kind and parameter
// comparison, never object identity.
type Constraint struct {
	Kind ConstraintKind

	// KindLineupSize
	Size int

	// KindSalaryCap
	Bound     int
	Direction CapDirection

	// KindTeamFilter
	Teams    []string // only-include list
	Team     string   // max-n / min-n target, also the stack team
	Count    int      // max-n / min-n bound
	teamMode TeamFilterMode

	// KindPlayerFilter
	PlayerKey  string
	PlayerByID bool
	PlayerMode PlayerFilterMode

	// KindPositionStack
	Stack            StackKind
	ReceiverPosition Position // optional explicit receiver position
	Receivers        int      // optional receiver count; 0 means default of 1

	// KindGameSlate
	Slate Slate
}

// validate checks the candidate against every constraint already in the set.
// It is a pure function: neither the candidate nor the existing set is
// mutated. The returned reason is empty when the candidate is accepted.
func (c Constraint) validate(existing []Constraint) (string, bool) {
	for _, prior := range existing {
		if reason := conflict(c, prior); reason != "" {
			return reason, false
		}
	}
	return "", true
}

// conflict is the explicit conflict matrix, keyed on the (candidate kind,
// existing kind) pair. An empty string means no conflict.
func conflict(candidate, existing Constraint) string {
	switch candidate.Kind {
	case KindSalaryCap:
		if existing.Kind != KindSalaryCap {
			return ""
		}
		if candidate.Direction == CapMax && existing.Direction == CapMin && existing.Bound > candidate.Bound {
			return fmt.Sprintf("minimum salary %d already exceeds maximum %d", existing.Bound, candidate.Bound)
		}
		if candidate.Direction == CapMin && existing.Direction == CapMax && existing.Bound < candidate.Bound {
			return fmt.Sprintf("maximum salary %d is already below minimum %d", existing.Bound, candidate.Bound)
		}

	case KindTeamFilter:
		switch candidate.Mode() {
		case TeamMinN:
			if existing.Kind == KindTeamFilter && existing.Mode() == TeamMinN && existing.Team == candidate.Team {
				return fmt.Sprintf("a minimum player count for %s is already set", candidate.Team)
			}
			if existing.Kind == KindTeamFilter && existing.Mode() == TeamMaxN && existing.Team == candidate.Team && existing.Count < candidate.Count {
				return fmt.Sprintf("max players from %s is already set to %d", candidate.Team, existing.Count)
			}
		case TeamMaxN:
			if existing.Kind == KindTeamFilter && existing.Mode() == TeamMaxN && existing.Team == candidate.Team {
				return fmt.Sprintf("a maximum player count for %s is already set", candidate.Team)
			}
			if existing.Kind == KindTeamFilter && existing.Mode() == TeamMinN && existing.Team == candidate.Team && existing.Count > candidate.Count {
				return fmt.Sprintf("min players from %s is already set to %d", candidate.Team, existing.Count)
			}
		}

	case KindPlayerFilter:
		if existing.Kind == KindPlayerFilter &&
			existing.PlayerMode != candidate.PlayerMode &&
			existing.PlayerByID == candidate.PlayerByID &&
			existing.PlayerKey == candidate.PlayerKey {
			if candidate.PlayerMode == PlayerInclude {
				return fmt.Sprintf("player %s is already excluded", candidate.PlayerKey)
			}
			return fmt.Sprintf("player %s is already included", candidate.PlayerKey)
		}

	case KindPositionStack:
		if existing.Kind == KindPositionStack && existing.Stack == candidate.Stack {
			return fmt.Sprintf("a %s stack is already included for this lineup", stackName(candidate.Stack))
		}
		if existing.Kind == KindTeamFilter && existing.Mode() == TeamMaxN && existing.Team == candidate.Team && existing.Count < 2 {
			return fmt.Sprintf("max players from %s is already set to %d", candidate.Team, existing.Count)
		}

	case KindGameSlate:
		if existing.Kind == KindGameSlate {
			return "a game slate is already included for this lineup"
		}
	}
	return ""
}

// onlyIncludeConflict covers the one rule that needs the whole existing set
// at once: an only-include list whose every team is already forced to zero
// would produce an infeasible model.
func onlyIncludeConflict(candidate Constraint, existing []Constraint) string {
	if candidate.Kind != KindTeamFilter || candidate.Mode() != TeamOnlyInclude {
		return ""
	}
	zeroed := make(map[string]bool)
	for _, prior := range existing {
		if prior.Kind == KindTeamFilter && prior.Mode() == TeamMaxN && prior.Count == 0 {
			zeroed[prior.Team] = true
		}
	}
	if len(zeroed) == 0 {
		return ""
	}
	for _, team := range candidate.Teams {
		if !zeroed[team] {
			return ""
		}
	}
	return "every team in the include list is already excluded"
}

// Mode reports the team-filter mode of a KindTeamFilter constraint. A
// populated Teams list marks only-include; otherwise the constraint was
// constructed as max-n or min-n and teamMode records which.
func (c Constraint) Mode() TeamFilterMode {
	if len(c.Teams) > 0 {
		return TeamOnlyInclude
	}
	return c.teamMode
}

func stackName(k StackKind) string {
	if k == StackRBDST {
		return "RB/DST"
	}
	return "QB/receiver"
}

// emit translates the constraint into linear rows over the modeled roster
// subset. Variable i corresponds to players[i].
func (c Constraint) emit(players []Player) []solver.Row {
	switch c.Kind {
	case KindLineupSize:
		return []solver.Row{sumRow(players, func(Player) bool { return true }, 1, solver.Equal, float64(c.Size))}

	case KindSalaryCap:
		op := solver.LessEq
		if c.Direction == CapMin {
			op = solver.GreaterEq
		}
		terms := make([]solver.Term, 0, len(players))
		for i, p := range players {
			terms = append(terms, solver.Term{Var: i, Coeff: float64(p.Salary)})
		}
		return []solver.Row{{Terms: terms, Op: op, Bound: float64(c.Bound)}}

	case KindTeamFilter:
		switch c.Mode() {
		case TeamOnlyInclude:
			included := make(map[string]bool, len(c.Teams))
			for _, t := range c.Teams {
				included[t] = true
			}
			return []solver.Row{sumRow(players, func(p Player) bool { return !included[p.Team] }, 1, solver.Equal, 0)}
		case TeamMaxN:
			return []solver.Row{sumRow(players, func(p Player) bool { return p.Team == c.Team }, 1, solver.LessEq, float64(c.Count))}
		default:
			return []solver.Row{sumRow(players, func(p Player) bool { return p.Team == c.Team }, 1, solver.GreaterEq, float64(c.Count))}
		}

	case KindPlayerFilter:
		match := func(p Player) bool {
			if c.PlayerByID {
				return p.ExternalID == c.PlayerKey
			}
			return p.Name == c.PlayerKey
		}
		if c.PlayerMode == PlayerInclude {
			return []solver.Row{sumRow(players, match, 1, solver.GreaterEq, 1)}
		}
		return []solver.Row{sumRow(players, match, 1, solver.Equal, 0)}

	case KindPositionStack:
		if c.Stack == StackRBDST {
			return []solver.Row{
				sumRow(players, func(p Player) bool { return p.Team == c.Team && p.Position == RB }, 1, solver.GreaterEq, 1),
				sumRow(players, func(p Player) bool { return p.Team == c.Team && p.Position == DST }, 1, solver.Equal, 1),
			}
		}
		receivers := []Position{WR, TE}
		if c.ReceiverPosition != "" {
			receivers = []Position{c.ReceiverPosition}
		}
		n := c.Receivers
		if n == 0 {
			n = 1
		}
		isReceiver := func(p Player) bool {
			if p.Team != c.Team {
				return false
			}
			for _, pos := range receivers {
				if p.Position == pos {
					return true
				}
			}
			return false
		}
		return []solver.Row{
			sumRow(players, func(p Player) bool { return p.Team == c.Team && p.Position == QB }, 1, solver.GreaterEq, 1),
			sumRow(players, isReceiver, 1, solver.GreaterEq, float64(n)),
		}

	case KindGameSlate:
		// The builder has already narrowed the roster to the slate window;
		// this row pins the lineup to exactly Count players from it.
		return []solver.Row{sumRow(players, c.Slate.Matches, 1, solver.Equal, float64(c.Count))}
	}
	return nil
}

func sumRow(players []Player, match func(Player) bool, coeff float64, op solver.Op, bound float64) solver.Row {
	row := solver.Row{Op: op, Bound: bound}
	for i, p := range players {
		if match(p) {
			row.Terms = append(row.Terms, solver.Term{Var: i, Coeff: coeff})
		}
	}
	return row
}
