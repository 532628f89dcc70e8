package classify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

func TestSelectionConstraintClassified(t *testing.T) {
	m := model.New("sel")
	x0, _ := m.AddVariable("x0", 0, 1, 0, model.Binary)
	x1, _ := m.AddVariable("x1", 0, 1, 1, model.Binary)
	x2, _ := m.AddVariable("x2", 0, 1, 0, model.Binary)

	c, err := model.Expr().Add(x0, 1).Add(x1, 1).Add(x2, 1).Eq(m, "select", 1)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	Run(m)
	require.Equal(t, model.ShapeSelection, m.Constraint(c).Shape)
	require.Equal(t, model.Selection, m.Variable(x0).Sense)
	require.Equal(t, c, m.Variable(x0).SelectionGroup)
}

func TestExclusiveOR(t *testing.T) {
	m := model.New("xor")
	x, _ := m.AddVariable("x", 0, 1, 0, model.Binary)
	y, _ := m.AddVariable("y", 0, 1, 1, model.Binary)
	c, err := model.Expr().Add(x, 1).Add(y, 1).Eq(m, "xor", 1)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	Run(m)
	require.Equal(t, model.ShapeExclusiveOR, m.Constraint(c).Shape)
}

func TestPrecedence(t *testing.T) {
	m := model.New("prec")
	x, _ := m.AddVariable("x", 0, 10, 0, model.Integer)
	y, _ := m.AddVariable("y", 0, 10, 0, model.Integer)
	c, err := model.Expr().Add(x, 1).Add(y, -1).LessEq(m, "prec", 0)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	Run(m)
	require.Equal(t, model.ShapePrecedence, m.Constraint(c).Shape)
}

func TestInvariantKnapsack(t *testing.T) {
	m := model.New("knap")
	items := make([]model.VariableID, 3)
	b := model.Expr()
	for i := range items {
		v, _ := m.AddVariable(fmt.Sprintf("x%d", i), 0, 1, 0, model.Binary)
		items[i] = v
		b = b.Add(v, 1)
	}
	c, err := b.LessEq(m, "cap", 2)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	Run(m)
	require.Equal(t, model.ShapeInvariantKnapsack, m.Constraint(c).Shape)
}

func TestSingleton(t *testing.T) {
	m := model.New("single")
	x, _ := m.AddVariable("x", 0, 10, 0, model.Integer)
	c, err := model.Expr().Add(x, 3).LessEq(m, "s", 9)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	Run(m)
	require.Equal(t, model.ShapeSingleton, m.Constraint(c).Shape)
}
