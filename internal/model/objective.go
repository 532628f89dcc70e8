package model

// Objective is a single linear expression canonicalized to minimization:
// a Maximize objective has its coefficients and constant negated at
// construction time, and OriginalSense records the user-facing sense for
// reporting.
type Objective struct {
	Expr          Expression
	OriginalSense ObjectiveSense
}

// Value returns the cached (minimization-canonical) objective value.
func (o *Objective) Value() int64 {
	return o.Expr.Value()
}

// Reported returns the objective value in the user-facing sense: negated
// back if the original objective was Maximize.
func (o *Objective) Reported() int64 {
	if o.OriginalSense == Maximize {
		return -o.Expr.Value()
	}
	return o.Expr.Value()
}
