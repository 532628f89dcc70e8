package presolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

// fingerprint builds a stable string key for a constraint's normalized
// (sorted by variable id) term list, sense, and right-hand side, used to
// detect duplicate constraints regardless of term order.
func fingerprint(c *model.Constraint) string {
	terms := append([]model.Term(nil), c.LHS.Terms...)
	sort.Slice(terms, func(i, j int) bool { return terms[i].Var < terms[j].Var })
	var b strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&b, "%d:%d,", t.Var, t.Coef)
	}
	fmt.Fprintf(&b, "|%d|%d|%d", c.Sense, c.RHS-c.LHS.Constant, c.LHS.Constant)
	return b.String()
}

func removeDuplicateConstraints(m *model.Model) int {
	seen := make(map[string]model.ConstraintID)
	removed := 0
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled {
			continue
		}
		fp := fingerprint(c)
		if _, ok := seen[fp]; ok {
			c.Enabled = false
			removed++
			continue
		}
		seen[fp] = c.ID
	}
	return removed
}

// eliminateRedundantConstraints disables constraints that are already
// satisfied for every value the referenced variables could possibly take,
// i.e. the constraint's worst case (by interval arithmetic) still holds.
func eliminateRedundantConstraints(m *model.Model) int {
	disabled := 0
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled || c.Sense == model.Equal {
			continue
		}
		var lo, hi int64
		for _, t := range c.LHS.Terms {
			v := m.Variable(t.Var)
			a, b := t.Coef*v.Lower, t.Coef*v.Upper
			if a > b {
				a, b = b, a
			}
			lo += a
			hi += b
		}
		lo += c.LHS.Constant
		hi += c.LHS.Constant

		switch c.Sense {
		case model.LessEq:
			if hi <= c.RHS {
				c.Enabled = false
				disabled++
			}
		case model.GreaterEq:
			if lo >= c.RHS {
				c.Enabled = false
				disabled++
			}
		}
	}
	return disabled
}

// extractImplicitEqualities finds pairs of enabled constraints with the
// same normalized term set where one is <= rhs and the other is >= the
// same rhs, and collapses them into a single Equal constraint.
func extractImplicitEqualities(m *model.Model) int {
	type key struct {
		terms string
		rhs   int64
	}
	le := make(map[key]model.ConstraintID)
	ge := make(map[key]model.ConstraintID)

	termKey := func(c *model.Constraint) string {
		terms := append([]model.Term(nil), c.LHS.Terms...)
		sort.Slice(terms, func(i, j int) bool { return terms[i].Var < terms[j].Var })
		var b strings.Builder
		for _, t := range terms {
			fmt.Fprintf(&b, "%d:%d,", t.Var, t.Coef)
		}
		return b.String()
	}

	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled {
			continue
		}
		k := key{terms: termKey(c), rhs: c.RHS - c.LHS.Constant}
		switch c.Sense {
		case model.LessEq:
			le[k] = c.ID
		case model.GreaterEq:
			ge[k] = c.ID
		}
	}

	extracted := 0
	for k, leID := range le {
		geID, ok := ge[k]
		if !ok {
			continue
		}
		leC := m.Constraint(leID)
		geC := m.Constraint(geID)
		if !leC.Enabled || !geC.Enabled {
			continue
		}
		leC.Sense = model.Equal
		geC.Enabled = false
		extracted++
	}
	return extracted
}

// extractDependentVariables solves any remaining two-term equality
// constraint with a unit coefficient for one of its variables, marking
// that variable Dependent* and recording the defining constraint. Only
// variables not already fixed or dependent are eligible, and only one
// defining equality is taken per variable (first one found).
func extractDependentVariables(m *model.Model) int {
	extracted := 0
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled || c.Sense != model.Equal || len(c.LHS.Terms) != 2 {
			continue
		}
		for _, t := range c.LHS.Terms {
			if t.Coef != 1 && t.Coef != -1 {
				continue
			}
			v := m.Variable(t.Var)
			if v.Fixed || v.Sense.IsDependent() {
				continue
			}
			if isBinaryRange(v) {
				v.Sense = model.DependentBinary
			} else {
				v.Sense = model.DependentInteger
			}
			v.DependentDef = c.ID
			extracted++
			break
		}
	}
	return extracted
}

func isBinaryRange(v *model.Variable) bool {
	return v.Lower == 0 && v.Upper == 1
}
