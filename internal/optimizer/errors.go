package optimizer

import "errors"

// The three failure kinds the engine surfaces. Callers distinguish them with
// errors.Is; the wrapped message carries the specific reason.
var (
	// ErrInvalidRoster marks malformed or incomplete roster data: missing
	// columns, missing required positions, non-distinct declared ids.
	ErrInvalidRoster = errors.New("invalid roster")

	// ErrInvalidConstraint marks a proposed constraint that conflicts with
	// the existing set or carries mutually exclusive parameters. The
	// constraint set is left unchanged.
	ErrInvalidConstraint = errors.New("invalid constraint")

	// ErrUnsolvable marks a solver run that ended with any status other
	// than optimal. The constraint set may be individually valid yet
	// jointly infeasible.
	ErrUnsolvable = errors.New("unsolvable lineup")
)
