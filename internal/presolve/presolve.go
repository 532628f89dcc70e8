// Package presolve tightens bounds, fixes variables, removes redundant or
// duplicate constraints, extracts implicit equalities and dependent
// variables, and corrects initial values, all run once to a fixpoint
// before search begins.
package presolve

import (
	"fmt"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

// Options toggles each presolve pass; all default to enabled, matching
// a Preprocess configuration group.
type Options struct {
	EnableBoundTightening      bool
	EnableFixOnTightBound      bool
	EnableDuplicateRemoval     bool
	EnableRedundantElimination bool
	EnableImplicitEquality     bool
	EnableDependentExtraction  bool
	EnableInitialValueCorrect  bool
	MaxPasses                  int
}

// DefaultOptions returns every pass enabled (the "[all
// true]" default.
func DefaultOptions() Options {
	return Options{
		EnableBoundTightening:      true,
		EnableFixOnTightBound:      true,
		EnableDuplicateRemoval:     true,
		EnableRedundantElimination: true,
		EnableImplicitEquality:     true,
		EnableDependentExtraction:  true,
		EnableInitialValueCorrect:  true,
		MaxPasses:                  50,
	}
}

// Report summarizes what a Run call changed, useful for verbose logging.
type Report struct {
	BoundsTightened     int
	VariablesFixed      int
	ConstraintsRemoved  int
	ConstraintsDisabled int
	EqualitiesExtracted int
	DependentVariables  int
	Passes              int
}

// Run applies every enabled pass to m to a fixpoint. Returns an error
// (matched by the caller against an infeasibility signal) if interval
// propagation proves an empty feasible region.
func Run(m *model.Model, opt Options) (*Report, error) {
	rep := &Report{}
	if opt.MaxPasses <= 0 {
		opt.MaxPasses = 50
	}

	for pass := 0; pass < opt.MaxPasses; pass++ {
		rep.Passes++
		changed := false

		if opt.EnableBoundTightening {
			n, err := tightenBounds(m)
			if err != nil {
				return rep, err
			}
			rep.BoundsTightened += n
			changed = changed || n > 0
		}

		if opt.EnableFixOnTightBound {
			n := fixOnTightBound(m)
			rep.VariablesFixed += n
			changed = changed || n > 0
		}

		if opt.EnableImplicitEquality {
			n := extractImplicitEqualities(m)
			rep.EqualitiesExtracted += n
			changed = changed || n > 0
		}

		if opt.EnableDuplicateRemoval {
			n := removeDuplicateConstraints(m)
			rep.ConstraintsRemoved += n
			changed = changed || n > 0
		}

		if opt.EnableRedundantElimination {
			n := eliminateRedundantConstraints(m)
			rep.ConstraintsDisabled += n
			changed = changed || n > 0
		}

		if !changed {
			break
		}
	}

	if opt.EnableDependentExtraction {
		rep.DependentVariables = extractDependentVariables(m)
	}

	if opt.EnableInitialValueCorrect {
		correctInitialValues(m)
	}

	return rep, nil
}

// otherTermsRange returns the [min, max] reachable sum of every term in c
// except the one touching skip, given current variable bounds.
func otherTermsRange(m *model.Model, c *model.Constraint, skip model.VariableID) (int64, int64) {
	var lo, hi int64
	for _, t := range c.LHS.Terms {
		if t.Var == skip {
			continue
		}
		v := m.Variable(t.Var)
		a, b := t.Coef*v.Lower, t.Coef*v.Upper
		if a > b {
			a, b = b, a
		}
		lo += a
		hi += b
	}
	return lo, hi
}

func ceilDiv(a, b int64) int64 {
	if b < 0 {
		a, b = -a, -b
	}
	if a >= 0 {
		return (a + b - 1) / b
	}
	return -((-a) / b)
}

func floorDiv(a, b int64) int64 {
	if b < 0 {
		a, b = -a, -b
	}
	if a >= 0 {
		return a / b
	}
	return -((-a + b - 1) / b)
}

// tightenBounds performs one interval-arithmetic pass over every enabled
// constraint, narrowing each referenced variable's [Lower, Upper] to the
// range that remains feasible given the other terms' current ranges.
func tightenBounds(m *model.Model) (int, error) {
	tightened := 0
	for ci := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(ci))
		if !c.Enabled {
			continue
		}
		rhs := c.RHS - c.LHS.Constant
		for _, t := range c.LHS.Terms {
			v := m.Variable(t.Var)
			if v.Fixed || t.Coef == 0 {
				continue
			}
			otherLo, otherHi := otherTermsRange(m, c, t.Var)

			var newLo, newHi = v.Lower, v.Upper
			switch c.Sense {
			case model.LessEq:
				bound := rhs - otherLo // coef*x <= bound
				if t.Coef > 0 {
					newHi = min64(newHi, floorDiv(bound, t.Coef))
				} else {
					newLo = max64(newLo, ceilDiv(bound, t.Coef))
				}
			case model.GreaterEq:
				bound := rhs - otherHi // coef*x >= bound
				if t.Coef > 0 {
					newLo = max64(newLo, ceilDiv(bound, t.Coef))
				} else {
					newHi = min64(newHi, floorDiv(bound, t.Coef))
				}
			case model.Equal:
				boundLo := rhs - otherHi
				boundHi := rhs - otherLo
				if t.Coef > 0 {
					newLo = max64(newLo, ceilDiv(boundLo, t.Coef))
					newHi = min64(newHi, floorDiv(boundHi, t.Coef))
				} else {
					newLo = max64(newLo, ceilDiv(boundHi, t.Coef))
					newHi = min64(newHi, floorDiv(boundLo, t.Coef))
				}
			}

			if newLo > v.Lower {
				v.Lower = newLo
				tightened++
			}
			if newHi < v.Upper {
				v.Upper = newHi
				tightened++
			}
			if v.Lower > v.Upper {
				return tightened, fmt.Errorf("presolve: variable %q has empty domain [%d, %d] after tightening via constraint %q",
					v.Name, v.Lower, v.Upper, c.Name)
			}
		}
	}
	return tightened, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func fixOnTightBound(m *model.Model) int {
	fixed := 0
	for i := range m.Variables() {
		v := m.Variable(model.VariableID(i))
		if !v.Fixed && v.Lower == v.Upper {
			v.Fixed = true
			v.Value = v.Lower
			fixed++
		}
	}
	return fixed
}

func correctInitialValues(m *model.Model) {
	for i := range m.Variables() {
		v := m.Variable(model.VariableID(i))
		if v.Value < v.Lower {
			v.Value = v.Lower
		}
		if v.Value > v.Upper {
			v.Value = v.Upper
		}
	}
	valueOf := func(id model.VariableID) int64 { return m.Variable(id).Value }
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		c.LHS.Recompute(valueOf)
		c.RefreshViolation()
	}
	m.Objective().Expr.Recompute(valueOf)
}
