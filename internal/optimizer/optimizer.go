// Package optimizer builds optimal fantasy lineups under a composable set of
// business constraints. A LineupOptimizer owns a private roster copy and an
// ordered constraint set; Optimize translates both into an integer program,
// hands it to the solver and reconstructs a presentable lineup from the
// assignment.
package optimizer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
	"github.com/stitts-dev/lineup-optimizer/pkg/logger"
)

// LineupOptimizer generates optimal lineups for a roster. It is synchronous
// and owns its state exclusively: the roster is deep-copied at construction
// and the constraint set is never exposed for external mutation, so separate
// instances may solve concurrently.
type LineupOptimizer struct {
	roster       []Player
	constraints  constraintSet
	solver       solver.Solver
	solveTimeout time.Duration
	log          *logrus.Entry
}

// Option configures a LineupOptimizer.
type Option func(*LineupOptimizer)

// WithSolver swaps the default branch-and-bound solver for another
// implementation of the solver contract.
func WithSolver(s solver.Solver) Option {
	return func(o *LineupOptimizer) { o.solver = s }
}

// WithSolveTimeout bounds each solve call. Zero means no deadline.
func WithSolveTimeout(d time.Duration) Option {
	return func(o *LineupOptimizer) { o.solveTimeout = d }
}

// WithLogger attaches a scoped log entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(o *LineupOptimizer) { o.log = entry }
}

// New builds an optimizer over a deep copy of the given players. Positions
// are normalized on the copy; indices are assigned here and stay stable for
// the optimizer's lifetime. Duplicate non-empty external ids are rejected
// because player filters may address players by id.
func New(players []Player, opts ...Option) (*LineupOptimizer, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: empty roster", ErrInvalidRoster)
	}
	o := &LineupOptimizer{roster: adoptRoster(players)}
	for _, opt := range opts {
		opt(o)
	}
	if o.solver == nil {
		o.solver = solver.NewBranchBound()
	}
	if o.log == nil {
		o.log = logger.WithService("lineup-optimizer")
	}

	seen := make(map[string]bool)
	for _, p := range o.roster {
		if p.ExternalID == "" {
			continue
		}
		if seen[p.ExternalID] {
			return nil, fmt.Errorf("%w: duplicate player id %q", ErrInvalidRoster, p.ExternalID)
		}
		seen[p.ExternalID] = true
	}
	return o, nil
}

// Roster returns a copy of the adopted roster.
func (o *LineupOptimizer) Roster() []Player {
	out := make([]Player, len(o.roster))
	copy(out, o.roster)
	return out
}

// Constraints returns a copy of the active constraint set, in insertion
// order.
func (o *LineupOptimizer) Constraints() []Constraint {
	out := make([]Constraint, len(o.constraints.items))
	copy(out, o.constraints.items)
	return out
}

// ClearConstraints empties the constraint set.
func (o *LineupOptimizer) ClearConstraints() {
	o.constraints.clear()
}

// SetOnlyIncludeTeams restricts the lineup to players from the given teams.
func (o *LineupOptimizer) SetOnlyIncludeTeams(teams []string) error {
	if len(teams) == 0 {
		return fmt.Errorf("included teams must not be empty")
	}
	return o.constraints.add(Constraint{Kind: KindTeamFilter, Teams: teams})
}

// SetExcludeTeams bars every listed team by capping each at zero players.
// Partial additions roll back if any team's cap is rejected.
func (o *LineupOptimizer) SetExcludeTeams(teams []string) error {
	if len(teams) == 0 {
		return fmt.Errorf("teams to exclude must not be empty")
	}
	added := 0
	for _, team := range teams {
		if err := o.SetMaxPlayersFromTeam(team, 0); err != nil {
			o.constraints.popN(added)
			return err
		}
		added++
	}
	return nil
}

// SetMustIncludeTeam requires at least one player from the given team.
func (o *LineupOptimizer) SetMustIncludeTeam(team string) error {
	return o.SetMinPlayersFromTeam(team, 1)
}

// SetMustIncludePlayer requires the named player in the lineup.
func (o *LineupOptimizer) SetMustIncludePlayer(name string) error {
	return o.addPlayerFilter(name, false, PlayerInclude)
}

// SetMustIncludePlayerID requires the player with the given external id.
func (o *LineupOptimizer) SetMustIncludePlayerID(id string) error {
	return o.addPlayerFilter(id, true, PlayerInclude)
}

// SetExcludePlayer bars the named player from the lineup.
func (o *LineupOptimizer) SetExcludePlayer(name string) error {
	return o.addPlayerFilter(name, false, PlayerExclude)
}

// SetExcludePlayerID bars the player with the given external id.
func (o *LineupOptimizer) SetExcludePlayerID(id string) error {
	return o.addPlayerFilter(id, true, PlayerExclude)
}

func (o *LineupOptimizer) addPlayerFilter(key string, byID bool, mode PlayerFilterMode) error {
	if key == "" {
		return fmt.Errorf("player identifier must not be empty")
	}
	found := false
	for _, p := range o.roster {
		if byID && p.ExternalID == key || !byID && p.Name == key {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("player %q not found in roster", key)
	}
	return o.constraints.add(Constraint{
		Kind:       KindPlayerFilter,
		PlayerKey:  key,
		PlayerByID: byID,
		PlayerMode: mode,
	})
}

// SetMaxPlayersFromTeam caps how many players the lineup may draw from a
// team.
func (o *LineupOptimizer) SetMaxPlayersFromTeam(team string, n int) error {
	if n < 0 {
		return fmt.Errorf("invalid maximum players %d", n)
	}
	if !rosterHasTeam(o.roster, team) {
		return fmt.Errorf("team %q not found in roster", team)
	}
	return o.constraints.add(Constraint{Kind: KindTeamFilter, Team: team, Count: n, teamMode: TeamMaxN})
}

// SetMinPlayersFromTeam requires at least n players from a team. A zero
// minimum is a no-op.
func (o *LineupOptimizer) SetMinPlayersFromTeam(team string, n int) error {
	if n < 0 {
		return fmt.Errorf("invalid minimum players %d", n)
	}
	if !rosterHasTeam(o.roster, team) {
		return fmt.Errorf("team %q not found in roster", team)
	}
	if n == 0 {
		return nil
	}
	return o.constraints.add(Constraint{Kind: KindTeamFilter, Team: team, Count: n, teamMode: TeamMinN})
}

// SetNumPlayersFromTeam pins the lineup to exactly n players from a team.
// Internally a max and a min are added; the max rolls back if the min is
// rejected, leaving the set as before the call.
func (o *LineupOptimizer) SetNumPlayersFromTeam(team string, n int) error {
	if err := o.SetMaxPlayersFromTeam(team, n); err != nil {
		return err
	}
	if err := o.SetMinPlayersFromTeam(team, n); err != nil {
		o.constraints.pop()
		return err
	}
	return nil
}

// SetMaxSalary caps the lineup's total salary below the site cap.
func (o *LineupOptimizer) SetMaxSalary(n int) error {
	if n <= 0 {
		return fmt.Errorf("invalid maximum salary %d", n)
	}
	return o.constraints.add(Constraint{Kind: KindSalaryCap, Bound: n, Direction: CapMax})
}

// SetMinSalary sets a floor on the lineup's total salary.
func (o *LineupOptimizer) SetMinSalary(n int) error {
	if n <= 0 {
		return fmt.Errorf("invalid minimum salary %d", n)
	}
	return o.constraints.add(Constraint{Kind: KindSalaryCap, Bound: n, Direction: CapMin})
}

// StackOption tunes a QB/receiver stack.
type StackOption func(*Constraint)

// StackReceiverPosition restricts the stacked receiver to one position,
// WR or TE.
func StackReceiverPosition(pos Position) StackOption {
	return func(c *Constraint) { c.ReceiverPosition = pos }
}

// StackReceiverCount requires n receivers of any eligible position.
func StackReceiverCount(n int) StackOption {
	return func(c *Constraint) { c.Receivers = n }
}

// SetQBReceiverStack requires a QB and receiver(s) from the same team. The
// receiver position and receiver count options are mutually exclusive.
func (o *LineupOptimizer) SetQBReceiverStack(team string, opts ...StackOption) error {
	if !rosterHasTeam(o.roster, team) {
		return fmt.Errorf("team %q not found in roster", team)
	}
	c := Constraint{Kind: KindPositionStack, Stack: StackQBReceiver, Team: team}
	for _, opt := range opts {
		opt(&c)
	}
	if c.ReceiverPosition != "" && c.Receivers != 0 {
		return fmt.Errorf("%w: receiver position and receiver count are mutually exclusive", ErrInvalidConstraint)
	}
	if c.ReceiverPosition != "" && c.ReceiverPosition != WR && c.ReceiverPosition != TE {
		return fmt.Errorf("receiver position %s is not valid", c.ReceiverPosition)
	}
	if c.Receivers < 0 {
		return fmt.Errorf("invalid receiver count %d", c.Receivers)
	}
	return o.constraints.add(c)
}

// SetRBDSTStack requires an RB and the DST from the same team.
func (o *LineupOptimizer) SetRBDSTStack(team string) error {
	if !rosterHasTeam(o.roster, team) {
		return fmt.Errorf("team %q not found in roster", team)
	}
	return o.constraints.add(Constraint{Kind: KindPositionStack, Stack: StackRBDST, Team: team})
}

// SetGameSlate narrows optimization to games in the named temporal window.
// The Monday/Thursday slate requires the roster to span exactly two distinct
// week values; anything else is a data-validation failure, not a constraint
// conflict.
func (o *LineupOptimizer) SetGameSlate(kind SlateKind) error {
	slate := Slate{Kind: kind}
	if kind == SlateMondayAndThursday {
		weeks := rosterWeeks(o.roster)
		if len(weeks) != 2 {
			return fmt.Errorf("%w: the Monday/Thursday slate needs a roster spanning exactly two weeks, found %d", ErrInvalidRoster, len(weeks))
		}
		sort.Ints(weeks)
		slate.Weeks = [2]int{weeks[0], weeks[1]}
	}
	return o.constraints.add(Constraint{Kind: KindGameSlate, Slate: slate})
}

// Optimize builds the integer program for the given site and current
// constraint set, solves it and reconstructs the lineup. Any solver status
// other than optimal surfaces as an unsolvable-lineup error; there is no
// retry, relaxation or partial-solution fallback.
func (o *LineupOptimizer) Optimize(ctx context.Context, site Site) (*OptimizedLineup, error) {
	runID := uuid.New().String()
	log := o.log.WithFields(logrus.Fields{
		"optimization_id": runID,
		"site":            site.Name,
	})

	model, modeled, err := buildModel(o.roster, site, o.constraints.items)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"players":     len(modeled),
		"constraints": len(o.constraints.items),
		"rows":        len(model.Rows),
	}).Debug("Built optimization model")

	if o.solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.solveTimeout)
		defer cancel()
	}

	started := time.Now()
	sol, err := o.solver.Solve(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsolvable, err)
	}
	if sol.Status != solver.StatusOptimal {
		return nil, fmt.Errorf("%w: no optimal solution under current constraints (status %s)", ErrUnsolvable, sol.Status)
	}

	lineup := reconstructLineup(site, modeled, sol.Values)
	log.WithFields(logrus.Fields{
		"points":   lineup.Points,
		"salary":   lineup.Salary,
		"solve_ms": time.Since(started).Milliseconds(),
	}).Info("Lineup optimized")
	return lineup, nil
}
