package optimizer

import (
	"fmt"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
)

// buildModel translates a roster, site profile and constraint set into a
// complete integer program. The emitted model is reproducible for fixed
// inputs: records are visited in roster order and constraints in insertion
// order. The returned slice holds the modeled roster subset; variable i of
// the model corresponds to element i of that slice.
func buildModel(roster []Player, site Site, constraints []Constraint) (*solver.Model, []Player, error) {
	modeled := make([]Player, 0, len(roster))
	for _, p := range roster {
		if p.modelable() {
			modeled = append(modeled, p)
		}
	}

	if slate, ok := activeSlate(constraints); ok {
		filtered := modeled[:0:0]
		for _, p := range modeled {
			if slate.Matches(p) {
				filtered = append(filtered, p)
			}
		}
		modeled = filtered
	}

	for _, pos := range site.requiredPositions() {
		if countPosition(modeled, pos) == 0 {
			return nil, nil, fmt.Errorf("%w: no eligible players at required position %s", ErrInvalidRoster, pos)
		}
	}

	m := solver.New(len(modeled))
	for i, p := range modeled {
		m.Names[i] = fmt.Sprintf("%s_%d", p.Position, p.Index)
		m.Objective[i] = p.Points
	}

	for _, pos := range site.requiredPositions() {
		bounds := site.Positions[pos]
		at := func(p Player) bool { return p.Position == pos }
		m.Rows = append(m.Rows,
			sumRow(modeled, at, 1, solver.GreaterEq, float64(bounds.Min)),
			sumRow(modeled, at, 1, solver.LessEq, float64(bounds.Max)),
		)
	}

	// The lineup size and site salary cap are always present, independent of
	// user-added constraints.
	m.Rows = append(m.Rows, Constraint{Kind: KindLineupSize, Size: site.RosterSize}.emit(modeled)...)
	m.Rows = append(m.Rows, Constraint{Kind: KindSalaryCap, Bound: site.SalaryCap, Direction: CapMax}.emit(modeled)...)

	for _, c := range constraints {
		if c.Kind == KindGameSlate && c.Count == 0 {
			c.Count = site.RosterSize
		}
		m.Rows = append(m.Rows, c.emit(modeled)...)
	}

	return m, modeled, nil
}

func activeSlate(constraints []Constraint) (Slate, bool) {
	for _, c := range constraints {
		if c.Kind == KindGameSlate {
			return c.Slate, true
		}
	}
	return Slate{}, false
}

func countPosition(players []Player, pos Position) int {
	n := 0
	for _, p := range players {
		if p.Position == pos {
			n++
		}
	}
	return n
}
