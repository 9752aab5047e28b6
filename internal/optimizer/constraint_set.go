package optimizer

import "fmt"

// constraintSet is the ordered, mutable collection of user constraints.
// Candidates are appended only after passing validation against every
// member; a rejected candidate leaves the set untouched.
type constraintSet struct {
	items []Constraint
}

func (s *constraintSet) add(c Constraint) error {
	if reason := onlyIncludeConflict(c, s.items); reason != "" {
		return fmt.Errorf("%w: %s", ErrInvalidConstraint, reason)
	}
	if reason, ok := c.validate(s.items); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidConstraint, reason)
	}
	s.items = append(s.items, c)
	return nil
}

// pop removes the most recently added constraint. Compound operations use it
// to roll back partial additions when a later piece is rejected.
func (s *constraintSet) pop() {
	if len(s.items) > 0 {
		s.items = s.items[:len(s.items)-1]
	}
}

// popN rolls back the last n additions.
func (s *constraintSet) popN(n int) {
	for i := 0; i < n; i++ {
		s.pop()
	}
}

func (s *constraintSet) clear() {
	s.items = nil
}

func (s *constraintSet) slate() (Slate, bool) {
	for _, c := range s.items {
		if c.Kind == KindGameSlate {
			return c.Slate, true
		}
	}
	return Slate{}, false
}
