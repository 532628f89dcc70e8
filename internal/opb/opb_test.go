package opb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

func TestReadParsesObjectiveAndConstraints(t *testing.T) {
	const src = `* comment line
min: +1 x1 -2 x2;
+1 x1 +1 x2 >= 1;
+1 x1 = 1;
`
	m, err := Read(strings.NewReader(src), "sample")
	require.NoError(t, err)
	require.Equal(t, 2, m.NumVariables())
	require.Equal(t, 2, m.NumConstraints())

	x1, ok := m.VariableByName("x1")
	require.True(t, ok)
	require.Equal(t, model.Binary, m.Variable(x1).Sense)

	c1, ok := m.ConstraintByName("c1")
	require.True(t, ok)
	require.Equal(t, model.GreaterEq, m.Constraint(c1).Sense)
	require.Equal(t, int64(1), m.Constraint(c1).RHS)

	c2, ok := m.ConstraintByName("c2")
	require.True(t, ok)
	require.Equal(t, model.Equal, m.Constraint(c2).Sense)
}

func TestReadLinearizesProductTerm(t *testing.T) {
	const src = `min: +1 x1 x2;
+1 x1 >= 0;
`
	m, err := Read(strings.NewReader(src), "product")
	require.NoError(t, err)

	// x1, x2, and one fresh linearization variable.
	require.Equal(t, 3, m.NumVariables())
	_, ok := m.VariableByName("_lin1")
	require.True(t, ok)

	// The objective's product term plus three linearizing constraints
	// plus the one explicit constraint.
	require.Equal(t, 4, m.NumConstraints())
}

func TestReadAcceptsSoftLine(t *testing.T) {
	const src = `min: +1 x1;
soft: 10;
+1 x1 >= 1;
`
	m, err := Read(strings.NewReader(src), "wbo")
	require.NoError(t, err)
	require.Equal(t, 1, m.NumConstraints())
}

func TestReadRejectsMissingOperator(t *testing.T) {
	const src = `min: +1 x1;
+1 x1 1;
`
	_, err := Read(strings.NewReader(src), "bad")
	require.Error(t, err)
}

func TestReadRejectsTripleProduct(t *testing.T) {
	const src = `min: +1 x1 x2 x3;
+1 x1 >= 0;
`
	_, err := Read(strings.NewReader(src), "bad-product")
	require.Error(t, err)
}
