package model

// ExprBuilder is a small fluent convenience for assembling the term list of
// a constraint or objective before it is installed on the model; it is a
// model-construction convenience, not part of the search engine itself.
type ExprBuilder struct {
	terms    []Term
	constant int64
}

// Expr starts a new expression builder.
func Expr() *ExprBuilder {
	return &ExprBuilder{}
}

// Add appends coef*variable to the expression.
func (b *ExprBuilder) Add(v VariableID, coef int64) *ExprBuilder {
	b.terms = append(b.terms, Term{Var: v, Coef: coef})
	return b
}

// Plus adds a constant offset.
func (b *ExprBuilder) Plus(c int64) *ExprBuilder {
	b.constant += c
	return b
}

// Terms returns the accumulated term list.
func (b *ExprBuilder) Terms() []Term {
	return b.terms
}

// Constant returns the accumulated constant offset.
func (b *ExprBuilder) Constant() int64 {
	return b.constant
}

// LessEq installs this expression as a constraint on m with sense <=.
func (b *ExprBuilder) LessEq(m *Model, name string, rhs int64) (ConstraintID, error) {
	return m.AddConstraint(name, b.terms, b.constant, LessEq, rhs)
}

// Eq installs this expression as a constraint on m with sense =.
func (b *ExprBuilder) Eq(m *Model, name string, rhs int64) (ConstraintID, error) {
	return m.AddConstraint(name, b.terms, b.constant, Equal, rhs)
}

// GreaterEq installs this expression as a constraint on m with sense >=.
func (b *ExprBuilder) GreaterEq(m *Model, name string, rhs int64) (ConstraintID, error) {
	return m.AddConstraint(name, b.terms, b.constant, GreaterEq, rhs)
}

// Minimize installs this expression as m's objective, minimized.
func (b *ExprBuilder) Minimize(m *Model) error {
	return m.SetObjective(b.terms, b.constant, Minimize)
}

// Maximize installs this expression as m's objective, maximized.
func (b *ExprBuilder) Maximize(m *Model) error {
	return m.SetObjective(b.terms, b.constant, Maximize)
}
