// Package classify labels each constraint with the structural shape
// (a closed tag set) that the move catalogue dispatches on, and
// marks which variables belong to a Selection group.
package classify

import (
	"github.com/go-metaheuristics/tabumh/internal/model"
)

func isBinary(m *model.Model, id model.VariableID) bool {
	v := m.Variable(id)
	return v.Lower == 0 && v.Upper == 1
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func gcd(a, b int64) int64 {
	a, b = abs64(a), abs64(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Run classifies every enabled constraint in m, writing its Shape field.
func Run(m *model.Model) {
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled {
			continue
		}
		c.Shape = shapeOf(m, c)
		if c.Shape == model.ShapeSelection {
			markSelectionGroup(m, c)
		}
	}
}

func markSelectionGroup(m *model.Model, c *model.Constraint) {
	for _, t := range c.LHS.Terms {
		v := m.Variable(t.Var)
		if v.Sense != model.Selection {
			v.Sense = model.Selection
		}
		v.SelectionGroup = c.ID
	}
}

func shapeOf(m *model.Model, c *model.Constraint) model.ShapeTag {
	terms := c.LHS.Terms
	switch len(terms) {
	case 1:
		return model.ShapeSingleton
	case 2:
		return shapeOfBinomial(m, c)
	default:
		return shapeOfMultinomial(m, c)
	}
}

func shapeOfBinomial(m *model.Model, c *model.Constraint) model.ShapeTag {
	terms := c.LHS.Terms
	a, b := terms[0], terms[1]
	bothBinary := isBinary(m, a.Var) && isBinary(m, b.Var)
	rhs := c.RHS - c.LHS.Constant

	if c.Sense == model.LessEq && a.Coef == 1 && b.Coef == -1 && rhs == 0 {
		return model.ShapePrecedence
	}
	if c.Sense == model.GreaterEq && a.Coef == -1 && b.Coef == 1 && rhs == 0 {
		return model.ShapePrecedence
	}

	if c.Sense == model.Equal {
		switch {
		case a.Coef == 1 && b.Coef == 1 && rhs == 1 && bothBinary:
			return model.ShapeExclusiveOR
		case a.Coef == 1 && b.Coef == -1 && rhs == 0 && bothBinary:
			return model.ShapeExclusiveNOR
		case a.Coef == 1 && b.Coef == -1 && rhs == 0:
			return model.ShapeBalancedIntegers
		case a.Coef == 1 && b.Coef == 1 && rhs == 0:
			return model.ShapeInvertedIntegers
		case a.Coef == 1 && b.Coef == 1:
			return model.ShapeConstantSumIntegers
		case a.Coef == 1 && b.Coef == -1:
			return model.ShapeConstantDifferenceIntegers
		case a.Coef != b.Coef && abs64(a.Coef) > 1 && abs64(b.Coef) > 1 && a.Coef == -b.Coef:
			return model.ShapeConstantDifferenceIntegers
		}
		if isRatioPattern(a.Coef, b.Coef, rhs) {
			return model.ShapeConstantRatioIntegers
		}
		if g := gcd(a.Coef, b.Coef); g != 0 && rhs%g == 0 {
			return model.ShapeAggregation
		}
	}

	if (bothBinary || isBinary(m, a.Var) != isBinary(m, b.Var)) && !bothBinary {
		return model.ShapeVariableBound
	}
	return model.ShapeGeneralLinear
}

// isRatioPattern matches a*x - b*y = 0 with a,b > 1 and a != b, i.e. the
// constraint a*x = b*y.
func isRatioPattern(a, b, rhs int64) bool {
	return rhs == 0 && a > 1 && b < -1 && a != -b
}

func shapeOfMultinomial(m *model.Model, c *model.Constraint) model.ShapeTag {
	terms := c.LHS.Terms
	rhs := c.RHS - c.LHS.Constant

	allBinary := true
	for _, t := range terms {
		if !isBinary(m, t.Var) {
			allBinary = false
			break
		}
	}

	if len(terms) == 3 && c.Sense == model.Equal && allBinary && isTrinomialExclusiveNOR(terms, rhs) {
		return model.ShapeTrinomialExclusiveNOR
	}

	if c.Sense == model.Equal && allBinary && rhs == 1 && allCoefOne(terms) {
		return model.ShapeSelection
	}

	if c.Sense == model.Equal && allBinary && rhs == 0 && isSoftSelectionGate(terms) {
		return model.ShapeSoftSelection
	}

	if c.Sense == model.LessEq && allBinary {
		return model.ShapeInvariantKnapsack
	}

	return model.ShapeGeneralLinear
}

func allCoefOne(terms []model.Term) bool {
	for _, t := range terms {
		if t.Coef != 1 {
			return false
		}
	}
	return true
}

// isTrinomialExclusiveNOR matches x+y-2z=0 in any term order: exactly two
// coefficients are +1 and one is -2.
func isTrinomialExclusiveNOR(terms []model.Term, rhs int64) bool {
	if rhs != 0 || len(terms) != 3 {
		return false
	}
	ones, twos := 0, 0
	for _, t := range terms {
		switch t.Coef {
		case 1:
			ones++
		case -2:
			twos++
		}
	}
	return ones == 2 && twos == 1
}

// isSoftSelectionGate matches sum(x_i) - y = 0: every coefficient is +1
// except exactly one which is -1 (the gate variable).
func isSoftSelectionGate(terms []model.Term) bool {
	ones, negOnes := 0, 0
	for _, t := range terms {
		switch t.Coef {
		case 1:
			ones++
		case -1:
			negOnes++
		default:
			return false
		}
	}
	return negOnes == 1 && ones == len(terms)-1
}
