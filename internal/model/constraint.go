package model

// Constraint holds a left-hand expression related to a right-hand scalar
// by Sense, plus the search-time state the tabu search and penalty
// controller maintain between iterations.
type Constraint struct {
	ID      ConstraintID
	Name    string
	LHS     Expression
	Sense   ConstraintSense
	RHS     int64
	Enabled bool
	Shape   ShapeTag

	// GlobalPenalty and LocalPenalty are the coefficients §4.6 tightens
	// and relaxes between episodes; LocalPenalty is the within-episode
	// shadow of GlobalPenalty.
	GlobalPenalty float64
	LocalPenalty  float64

	// TabuTenure is not read by any move generator or by the tabu search;
	// tabu state is tracked per variable in tabusearch.Memory.
	TabuTenure int

	// Violation and Improvable are recomputed after every move
	// application; see Violation().
	violation   int64
	improvable  bool
}

// Violation returns max(0, LHS - RHS) for <=, max(0, RHS - LHS) for >=,
// and |LHS - RHS| for =.
func (c *Constraint) Violation() int64 {
	lhs := c.LHS.Value()
	switch c.Sense {
	case LessEq:
		if d := lhs - c.RHS; d > 0 {
			return d
		}
		return 0
	case GreaterEq:
		if d := c.RHS - lhs; d > 0 {
			return d
		}
		return 0
	default: // Equal
		d := lhs - c.RHS
		if d < 0 {
			d = -d
		}
		return d
	}
}

// RefreshViolation recomputes and caches the violation and improvable
// flags from the current LHS value; call after any move is applied.
func (c *Constraint) RefreshViolation() {
	c.violation = c.Violation()
	c.improvable = c.violation == 0
}

// CachedViolation returns the violation computed at the last
// RefreshViolation call.
func (c *Constraint) CachedViolation() int64 {
	return c.violation
}

// IsSatisfied reports whether the cached violation is zero.
func (c *Constraint) IsSatisfied() bool {
	return c.violation == 0
}

// HypotheticalViolation computes the violation that would result if LHS
// took newLHS, without mutating any cached state. Used by the evaluator to
// score candidate moves.
func (c *Constraint) HypotheticalViolation(newLHS int64) int64 {
	switch c.Sense {
	case LessEq:
		if d := newLHS - c.RHS; d > 0 {
			return d
		}
		return 0
	case GreaterEq:
		if d := c.RHS - newLHS; d > 0 {
			return d
		}
		return 0
	default:
		d := newLHS - c.RHS
		if d < 0 {
			d = -d
		}
		return d
	}
}
