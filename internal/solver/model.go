// Package solver defines the contract between the lineup engine and the
// mixed-integer solver: a model of binary decision variables with linear
// constraints and a maximization objective, a solve status vocabulary, and a
// default branch-and-bound implementation over gonum's LP simplex.
package solver

import (
	"fmt"
	"sort"
	"strings"
)

// Op is a linear constraint comparison operator.
type Op int

const (
	LessEq Op = iota
	GreaterEq
	Equal
)

func (op Op) String() string {
	switch op {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	default:
		return "?"
	}
}

// Term is one variable coefficient in a linear constraint row.
type Term struct {
	Var   int
	Coeff float64
}

// Row is a single linear constraint: sum(Terms) Op Bound.
type Row struct {
	Terms []Term
	Op    Op
	Bound float64
}

// Model is a complete integer program: Vars binary decision variables, an
// objective vector to maximize, and constraint rows in insertion order. For
// fixed inputs the model content is reproducible byte for byte.
type Model struct {
	Vars      int
	Names     []string
	Objective []float64
	Rows      []Row
}

// New returns an empty model with n binary decision variables.
func New(n int) *Model {
	return &Model{
		Vars:      n,
		Names:     make([]string, n),
		Objective: make([]float64, n),
	}
}

// AddRow appends a constraint row. Rows with no terms are legal; they become
// trivially satisfiable or infeasible depending on Op and Bound.
func (m *Model) AddRow(terms []Term, op Op, bound float64) {
	m.Rows = append(m.Rows, Row{Terms: terms, Op: op, Bound: bound})
}

// signature is a canonical textual form of a row, used to drop structural
// duplicates before the LP sees them (duplicate rows make the constraint
// matrix rank-deficient).
func (r Row) signature() string {
	terms := make([]Term, len(r.Terms))
	copy(terms, r.Terms)
	sort.Slice(terms, func(i, j int) bool { return terms[i].Var < terms[j].Var })
	var b strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&b, "%d:%.9g,", t.Var, t.Coeff)
	}
	fmt.Fprintf(&b, "%s%.9g", r.Op, r.Bound)
	return b.String()
}
