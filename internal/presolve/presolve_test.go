package presolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

func TestInfeasibleByPresolve(t *testing.T) {
	m := model.New("infeasible")
	x, err := m.AddVariable("x", 0, 1, 0, model.Integer)
	require.NoError(t, err)
	_, err = model.Expr().Add(x, 1).Eq(m, "fix2", 2)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	_, err = Run(m, DefaultOptions())
	require.Error(t, err)
}

func TestBoundTighteningFixesVariable(t *testing.T) {
	m := model.New("tighten")
	x, err := m.AddVariable("x", 0, 10, 0, model.Integer)
	require.NoError(t, err)
	_, err = model.Expr().Add(x, 1).Eq(m, "fix5", 5)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	rep, err := Run(m, DefaultOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, rep.VariablesFixed, 1)
	require.True(t, m.Variable(x).Fixed)
	require.Equal(t, int64(5), m.Variable(x).Value)
}

func TestDuplicateConstraintRemoved(t *testing.T) {
	m := model.New("dup")
	x, err := m.AddVariable("x", 0, 10, 0, model.Integer)
	require.NoError(t, err)
	c1, err := model.Expr().Add(x, 1).LessEq(m, "c1", 8)
	require.NoError(t, err)
	_, err = model.Expr().Add(x, 1).LessEq(m, "c2", 8)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	opt := DefaultOptions()
	opt.EnableRedundantElimination = false // tightening x to 8 makes c1 redundant otherwise
	rep, err := Run(m, opt)
	require.NoError(t, err)
	require.GreaterOrEqual(t, rep.ConstraintsRemoved, 1)
	require.True(t, m.Constraint(c1).Enabled)
}

func TestImplicitEqualityExtraction(t *testing.T) {
	m := model.New("impleq")
	x, err := m.AddVariable("x", 0, 10, 0, model.Integer)
	require.NoError(t, err)
	le, err := model.Expr().Add(x, 1).LessEq(m, "le", 5)
	require.NoError(t, err)
	ge, err := model.Expr().Add(x, 1).GreaterEq(m, "ge", 5)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	rep, err := Run(m, DefaultOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, rep.EqualitiesExtracted, 1)
	require.Equal(t, model.Equal, m.Constraint(le).Sense)
	require.False(t, m.Constraint(ge).Enabled)
}

func TestInitialValueCorrection(t *testing.T) {
	m := model.New("init")
	x, err := m.AddVariable("x", 0, 10, 0, model.Integer)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	m.Variable(x).Value = 999 // simulate an out-of-range user-supplied start
	_, err = Run(m, DefaultOptions())
	require.NoError(t, err)
	require.LessOrEqual(t, m.Variable(x).Value, m.Variable(x).Upper)
}
