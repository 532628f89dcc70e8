package model

import (
	"fmt"

	"github.com/go-metaheuristics/tabumh/internal/util"
)

// Model is the arena holding every variable and constraint. Variables and
// constraints are appended during construction and referenced thereafter
// by stable VariableID/ConstraintID indices rather than pointers, so the
// model can be frozen without any risk of index invalidation.
type Model struct {
	Name string

	variables   []Variable
	constraints []Constraint
	objective   Objective

	varNames *util.BiMap
	conNames *util.BiMap

	frozen   bool
	consumed bool
}

// New returns an empty, mutable model ready for AddVariable/AddConstraint
// calls.
func New(name string) *Model {
	return &Model{
		Name:     name,
		varNames: util.NewBiMap(),
		conNames: util.NewBiMap(),
	}
}

// AddVariable appends a new variable and returns its stable ID. Returns an
// error if the model is already frozen, the name is already used, or
// lower > upper.
func (m *Model) AddVariable(name string, lower, upper, initial int64, sense VariableSense) (VariableID, error) {
	if m.frozen {
		return 0, fmt.Errorf("model: cannot add variable %q to a frozen model", name)
	}
	if lower > upper {
		return 0, fmt.Errorf("model: variable %q has lower %d > upper %d", name, lower, upper)
	}
	id := VariableID(len(m.variables))
	if err := m.varNames.Put(name, int(id)); err != nil {
		return 0, fmt.Errorf("model: %w", err)
	}
	if initial < lower {
		initial = lower
	}
	if initial > upper {
		initial = upper
	}
	m.variables = append(m.variables, Variable{
		ID:    id,
		Name:  name,
		Lower: lower,
		Upper: upper,
		Value: initial,
		Fixed: lower == upper,
		Sense: sense,
	})
	return id, nil
}

// AddConstraint appends a new constraint over the given terms and returns
// its stable ID, wiring each referenced variable's Refs slice.
func (m *Model) AddConstraint(name string, terms []Term, constant int64, sense ConstraintSense, rhs int64) (ConstraintID, error) {
	if m.frozen {
		return 0, fmt.Errorf("model: cannot add constraint %q to a frozen model", name)
	}
	id := ConstraintID(len(m.constraints))
	if err := m.conNames.Put(name, int(id)); err != nil {
		return 0, fmt.Errorf("model: %w", err)
	}
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.variables) {
			return 0, fmt.Errorf("model: constraint %q references unknown variable id %d", name, t.Var)
		}
	}
	c := Constraint{
		ID:      id,
		Name:    name,
		LHS:     Expression{Terms: append([]Term(nil), terms...), Constant: constant},
		Sense:   sense,
		RHS:     rhs,
		Enabled: true,
		Shape:   ShapeUnclassified,
	}
	m.constraints = append(m.constraints, c)
	for _, t := range terms {
		v := &m.variables[t.Var]
		v.Refs = append(v.Refs, ConstraintRef{Constraint: id, Coef: t.Coef})
	}
	return id, nil
}

// SetObjective installs the objective expression, negating it internally
// if sense is Maximize so the rest of the engine only ever minimizes.
func (m *Model) SetObjective(terms []Term, constant int64, sense ObjectiveSense) error {
	if m.frozen {
		return fmt.Errorf("model: cannot set objective on a frozen model")
	}
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.variables) {
			return fmt.Errorf("model: objective references unknown variable id %d", t.Var)
		}
	}
	cTerms := append([]Term(nil), terms...)
	cConst := constant
	if sense == Maximize {
		for i := range cTerms {
			cTerms[i].Coef = -cTerms[i].Coef
		}
		cConst = -cConst
	}
	m.objective = Objective{
		Expr:          Expression{Terms: cTerms, Constant: cConst},
		OriginalSense: sense,
	}
	return nil
}

// Freeze seals the model: variable and constraint counts become immutable,
// and all cached expression values are computed from scratch once. After
// Freeze, only numeric state (values, penalties, tabu tenure) may mutate.
func (m *Model) Freeze() error {
	if m.frozen {
		return fmt.Errorf("model: already frozen")
	}
	valueOf := func(id VariableID) int64 { return m.variables[id].Value }
	for i := range m.constraints {
		m.constraints[i].LHS.Recompute(valueOf)
		m.constraints[i].RefreshViolation()
	}
	m.objective.Expr.Recompute(valueOf)
	m.frozen = true
	return nil
}

// Consume marks the model as having been passed to a solve call. A second
// Consume call reports a precondition failure, rejecting any attempt to solve the
// same model object twice.
func (m *Model) Consume() error {
	if m.consumed {
		return fmt.Errorf("model: model already consumed by a previous solve call")
	}
	m.consumed = true
	return nil
}

// Frozen reports whether Freeze has been called.
func (m *Model) Frozen() bool { return m.frozen }

// NumVariables returns the number of variables in the arena.
func (m *Model) NumVariables() int { return len(m.variables) }

// NumConstraints returns the number of constraints in the arena.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// Variable returns a pointer into the arena for id. The pointer is stable
// for the model's lifetime once frozen.
func (m *Model) Variable(id VariableID) *Variable { return &m.variables[id] }

// Constraint returns a pointer into the arena for id.
func (m *Model) Constraint(id ConstraintID) *Constraint { return &m.constraints[id] }

// Objective returns a pointer to the (canonicalized) objective.
func (m *Model) Objective() *Objective { return &m.objective }

// VariableByName resolves a variable ID from its name.
func (m *Model) VariableByName(name string) (VariableID, bool) {
	idx, ok := m.varNames.Index(name)
	return VariableID(idx), ok
}

// ConstraintByName resolves a constraint ID from its name.
func (m *Model) ConstraintByName(name string) (ConstraintID, bool) {
	idx, ok := m.conNames.Index(name)
	return ConstraintID(idx), ok
}

// Variables returns the full variable arena for read-only iteration.
func (m *Model) Variables() []Variable { return m.variables }

// Constraints returns the full constraint arena for read-only iteration.
func (m *Model) Constraints() []Constraint { return m.constraints }

// ApplyAlteration sets variable id to newValue and incrementally updates
// every constraint (and the objective) that references it. It does not
// check tabu status or bounds; callers (internal/tabusearch,
// internal/localsearch) are responsible for only applying admissible
// moves.
func (m *Model) ApplyAlteration(id VariableID, newValue int64) {
	v := &m.variables[id]
	delta := newValue - v.Value
	if delta == 0 {
		return
	}
	v.Value = newValue
	for _, ref := range v.Refs {
		c := &m.constraints[ref.Constraint]
		c.LHS.ApplyDelta(ref.Coef * delta)
		c.RefreshViolation()
	}
	if coef, ok := m.objectiveCoef(id); ok {
		m.objective.Expr.ApplyDelta(coef * delta)
	}
}

func (m *Model) objectiveCoef(id VariableID) (int64, bool) {
	for _, t := range m.objective.Expr.Terms {
		if t.Var == id {
			return t.Coef, true
		}
	}
	return 0, false
}

// TotalViolation sums the cached violation of every enabled constraint.
func (m *Model) TotalViolation() int64 {
	var total int64
	for i := range m.constraints {
		if m.constraints[i].Enabled {
			total += m.constraints[i].CachedViolation()
		}
	}
	return total
}

// IsFeasible reports whether TotalViolation is zero.
func (m *Model) IsFeasible() bool {
	return m.TotalViolation() == 0
}

// Snapshot captures every variable's current value, keyed by VariableID
// position, for move round-trips and incumbent storage.
func (m *Model) Snapshot() []int64 {
	vals := make([]int64, len(m.variables))
	for i := range m.variables {
		vals[i] = m.variables[i].Value
	}
	return vals
}

// Restore resets every variable to the values in snap (as produced by
// Snapshot) and recomputes all caches from scratch.
func (m *Model) Restore(snap []int64) {
	for i := range m.variables {
		m.variables[i].Value = snap[i]
	}
	valueOf := func(id VariableID) int64 { return m.variables[id].Value }
	for i := range m.constraints {
		m.constraints[i].LHS.Recompute(valueOf)
		m.constraints[i].RefreshViolation()
	}
	m.objective.Expr.Recompute(valueOf)
}
