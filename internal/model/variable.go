package model

// ConstraintRef records that a variable participates in a constraint with
// a given linear coefficient, precomputed so the evaluator never has to
// rescan a constraint's term list to find a variable's sensitivity.
type ConstraintRef struct {
	Constraint ConstraintID
	Coef       int64
}

// Variable is an integer-valued scalar decision variable.
//
// Invariants enforced by Model methods: Lower <= Value <= Upper; a fixed
// variable has Lower == Upper == Value; a Selection variable is binary and
// belongs to exactly one Selection-shaped constraint; a Dependent
// variable's DependentDef names the extracted equality that determines it.
type Variable struct {
	ID    VariableID
	Name  string
	Lower int64
	Upper int64
	Value int64
	Fixed bool
	Sense VariableSense

	// Constraints this variable appears in, with its coefficient in each.
	Refs []ConstraintRef

	// SelectionGroup is the constraint ID of the Selection constraint this
	// variable belongs to, valid only when Sense == Selection.
	SelectionGroup ConstraintID

	// DependentDef, when Sense.IsDependent(), names the constraint whose
	// equality determines this variable's value.
	DependentDef ConstraintID
}

// InBounds reports whether Value lies within [Lower, Upper].
func (v *Variable) InBounds() bool {
	return v.Value >= v.Lower && v.Value <= v.Upper
}

// IsFixedRange reports whether the variable's bounds have collapsed to a
// single point, regardless of the Fixed flag (used by move generators to
// skip producing univariate moves for it).
func (v *Variable) IsFixedRange() bool {
	return v.Lower == v.Upper
}

// CoefIn returns the coefficient of this variable in constraint c, and
// whether it appears there at all.
func (v *Variable) CoefIn(c ConstraintID) (int64, bool) {
	for _, r := range v.Refs {
		if r.Constraint == c {
			return r.Coef, true
		}
	}
	return 0, false
}
