package solver

import "context"

// Status is the solve outcome vocabulary shared with the engine. Anything
// other than StatusOptimal is surfaced by the engine as an unsolvable
// lineup; the engine never retries or relaxes.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusNotSolved
	StatusUndefined
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusNotSolved:
		return "not-solved"
	default:
		return "undefined"
	}
}

// Solution is a solve result. Values holds a 0/1 assignment per decision
// variable and is only meaningful when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Solver is the narrow interface the engine depends on, so the default
// implementation can be swapped or mocked without touching the engine.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
