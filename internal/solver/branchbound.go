package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// lpTol is the simplex optimality tolerance.
	lpTol = 1e-10
	// intTol is how far a relaxed value may sit from 0 or 1 and still count
	// as integral.
	intTol = 1e-6
	// boundTol guards incumbent pruning against LP round-off.
	boundTol = 1e-9
)

// BranchBound is the default solver: depth-first branch and bound over the
// LP relaxation, solved with gonum's simplex. Branching always fixes the
// lowest-index fractional variable and explores the 1-branch first, so the
// search order (and therefore the returned assignment on objective ties) is
// deterministic.
type BranchBound struct{}

// NewBranchBound returns the default branch-and-bound solver.
func NewBranchBound() *BranchBound {
	return &BranchBound{}
}

// Solve runs the search. A context deadline or cancellation ends the search
// with StatusNotSolved; an infeasible root relaxation or an exhausted search
// with no incumbent yields StatusInfeasible.
func (s *BranchBound) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if m == nil || m.Vars == 0 {
		return &Solution{Status: StatusInfeasible}, nil
	}
	if len(m.Objective) != m.Vars {
		return nil, fmt.Errorf("objective has %d coefficients for %d variables", len(m.Objective), m.Vars)
	}

	st := &bbState{model: m, fixed: make([]int8, m.Vars)}
	for i := range st.fixed {
		st.fixed[i] = -1
	}

	status, err := st.search(ctx)
	if err != nil {
		return nil, err
	}
	if status != StatusOptimal {
		return &Solution{Status: status}, nil
	}
	if !st.haveBest {
		return &Solution{Status: StatusInfeasible}, nil
	}
	return &Solution{
		Status:    StatusOptimal,
		Objective: st.bestObj,
		Values:    st.bestValues,
	}, nil
}

type bbState struct {
	model      *Model
	fixed      []int8 // -1 free, otherwise the fixed 0/1 value
	haveBest   bool
	bestObj    float64
	bestValues []float64
}

func (st *bbState) search(ctx context.Context) (Status, error) {
	select {
	case <-ctx.Done():
		return StatusNotSolved, nil
	default:
	}

	rel, err := st.solveRelaxation()
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return StatusOptimal, nil // prune this branch
		}
		if errors.Is(err, lp.ErrUnbounded) {
			return StatusUnbounded, nil
		}
		return StatusUndefined, fmt.Errorf("lp relaxation: %w", err)
	}

	if st.haveBest && rel.objective <= st.bestObj+boundTol {
		return StatusOptimal, nil
	}

	branch := -1
	for i := 0; i < st.model.Vars; i++ {
		if st.fixed[i] >= 0 {
			continue
		}
		v := rel.values[i]
		if math.Abs(v-math.Round(v)) > intTol {
			branch = i
			break
		}
	}

	if branch < 0 {
		st.record(rel.values)
		return StatusOptimal, nil
	}

	for _, v := range []int8{1, 0} {
		st.fixed[branch] = v
		status, err := st.search(ctx)
		st.fixed[branch] = -1
		if err != nil || status != StatusOptimal {
			return status, err
		}
	}
	return StatusOptimal, nil
}

// record rounds a fully integral relaxation into a candidate assignment and
// keeps it when it beats the incumbent. The objective is recomputed from the
// model coefficients so the reported value carries no LP drift.
func (st *bbState) record(values []float64) {
	assign := make([]float64, st.model.Vars)
	obj := 0.0
	for i := range assign {
		v := math.Round(values[i])
		if st.fixed[i] >= 0 {
			v = float64(st.fixed[i])
		}
		assign[i] = v
		obj += st.model.Objective[i] * v
	}
	if !st.haveBest || obj > st.bestObj {
		st.haveBest = true
		st.bestObj = obj
		st.bestValues = assign
	}
}

type relaxation struct {
	objective float64   // maximization value including fixed contributions
	values    []float64 // per model variable; fixed variables at their value
}

// reducedRow is a model row after substituting fixed variables: coefficients
// over free columns only, with the bound shifted by the fixed contribution.
type reducedRow struct {
	coeffs map[int]float64 // free column -> coefficient
	op     Op
	bound  float64
	sig    string
}

// solveRelaxation solves the LP relaxation of the model under the current
// variable fixings. The LP is assembled directly in standard form: free
// variables plus one slack column per inequality and one per upper bound
// x <= 1. Rows with a negative right-hand side are negated so the simplex
// sees a non-negative b.
func (st *bbState) solveRelaxation() (*relaxation, error) {
	m := st.model

	freeCols := make([]int, 0, m.Vars)
	colOf := make(map[int]int, m.Vars)
	fixedObj := 0.0
	for i := 0; i < m.Vars; i++ {
		if st.fixed[i] >= 0 {
			fixedObj += m.Objective[i] * float64(st.fixed[i])
			continue
		}
		colOf[i] = len(freeCols)
		freeCols = append(freeCols, i)
	}
	nFree := len(freeCols)

	rows := make([]reducedRow, 0, len(m.Rows))
	seen := make(map[string]bool, len(m.Rows))
	for _, row := range m.Rows {
		rr := reducedRow{coeffs: make(map[int]float64), op: row.Op, bound: row.Bound}
		for _, t := range row.Terms {
			if st.fixed[t.Var] >= 0 {
				rr.bound -= t.Coeff * float64(st.fixed[t.Var])
				continue
			}
			rr.coeffs[colOf[t.Var]] += t.Coeff
		}
		if len(rr.coeffs) == 0 {
			if !constantRowFeasible(rr.op, rr.bound) {
				return nil, lp.ErrInfeasible
			}
			continue
		}
		rr.sig = rr.signature()
		if seen[rr.sig] {
			continue
		}
		seen[rr.sig] = true
		rows = append(rows, rr)
	}

	if nFree == 0 {
		return &relaxation{objective: fixedObj, values: st.fixedValues()}, nil
	}

	slacks := nFree // one per upper-bound row
	for _, rr := range rows {
		if rr.op != Equal {
			slacks++
		}
	}
	nCols := nFree + slacks
	nRows := len(rows) + nFree

	a := mat.NewDense(nRows, nCols, nil)
	b := make([]float64, nRows)
	c := make([]float64, nCols)
	for j, orig := range freeCols {
		c[j] = -m.Objective[orig] // simplex minimizes
	}

	slack := nFree
	for r, rr := range rows {
		for col, coeff := range rr.coeffs {
			a.Set(r, col, coeff)
		}
		b[r] = rr.bound
		switch rr.op {
		case LessEq:
			a.Set(r, slack, 1)
			slack++
		case GreaterEq:
			a.Set(r, slack, -1)
			slack++
		}
		if b[r] < 0 {
			negateRow(a, r, nCols)
			b[r] = -b[r]
		}
	}
	for j := 0; j < nFree; j++ {
		r := len(rows) + j
		a.Set(r, j, 1)
		a.Set(r, slack, 1)
		slack++
		b[r] = 1
	}

	optF, optX, err := lp.Simplex(c, a, b, lpTol, nil)
	if err != nil {
		return nil, err
	}

	values := st.fixedValues()
	for j, orig := range freeCols {
		values[orig] = optX[j]
	}
	return &relaxation{objective: fixedObj - optF, values: values}, nil
}

func (st *bbState) fixedValues() []float64 {
	values := make([]float64, st.model.Vars)
	for i, f := range st.fixed {
		if f >= 0 {
			values[i] = float64(f)
		}
	}
	return values
}

func constantRowFeasible(op Op, bound float64) bool {
	switch op {
	case LessEq:
		return bound >= -boundTol
	case GreaterEq:
		return bound <= boundTol
	default:
		return math.Abs(bound) <= boundTol
	}
}

func negateRow(a *mat.Dense, r, cols int) {
	for j := 0; j < cols; j++ {
		a.Set(r, j, -a.At(r, j))
	}
}

func (rr reducedRow) signature() string {
	row := Row{Op: rr.op, Bound: rr.bound}
	for col, coeff := range rr.coeffs {
		row.Terms = append(row.Terms, Term{Var: col, Coeff: coeff})
	}
	return row.signature()
}
