package mps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

const fixedSample = `NAME          TESTPROB
ROWS
 N  COST
 L  LIM1
 G  LIM2
 E  MYEQN
COLUMNS
    MARKER1   'MARKER'                 'INTORG'
    X1        COST            1.0   LIM1            1.0
    X1        LIM2            1.0
    MARKER2   'MARKER'                 'INTEND'
    X2        COST            2.0   LIM1            1.0
    X2        MYEQN           1.0
    X3        COST           -1.0   LIM2            1.0
    X3        MYEQN           1.0
RHS
    RHS       LIM1            4.0   LIM2            1.0
    RHS       MYEQN           3.0
BOUNDS
 UP BND       X1              4.0
 FR BND       X3
ENDATA
`

func TestReadParsesRowsColumnsRHSAndBounds(t *testing.T) {
	m, err := Read(strings.NewReader(fixedSample), "testprob")
	require.NoError(t, err)
	require.Equal(t, 3, m.NumVariables())
	require.Equal(t, 3, m.NumConstraints())

	x1, ok := m.VariableByName("X1")
	require.True(t, ok)
	v1 := m.Variable(x1)
	require.Equal(t, int64(0), v1.Lower)
	require.Equal(t, int64(4), v1.Upper)
	require.Equal(t, model.Integer, v1.Sense)

	x3, ok := m.VariableByName("X3")
	require.True(t, ok)
	v3 := m.Variable(x3)
	require.Equal(t, -infinity, v3.Lower)
	require.Equal(t, infinity, v3.Upper)

	lim1, ok := m.ConstraintByName("LIM1")
	require.True(t, ok)
	c := m.Constraint(lim1)
	require.Equal(t, model.LessEq, c.Sense)
	require.Equal(t, int64(4), c.RHS)

	// MYEQN is an equality row with no RANGES entry, so it stays a
	// single constraint rather than being split into two.
	myeqn, ok := m.ConstraintByName("MYEQN")
	require.True(t, ok)
	ce := m.Constraint(myeqn)
	require.Equal(t, model.Equal, ce.Sense)
	require.Equal(t, int64(3), ce.RHS)

	obj := m.Objective()
	require.Len(t, obj.Expr.Terms, 3)
}

func TestReadAppliesRangesAsTwoSidedConstraints(t *testing.T) {
	const src = `NAME
ROWS
 N  COST
 L  CAP
COLUMNS
    X1        COST            1.0   CAP             1.0
RHS
    RHS       CAP            10.0
RANGES
    RNG       CAP             4.0
ENDATA
`
	m, err := Read(strings.NewReader(src), "ranged")
	require.NoError(t, err)
	require.Equal(t, 2, m.NumConstraints())

	lo, ok := m.ConstraintByName("CAP_lo")
	require.True(t, ok)
	hi, ok := m.ConstraintByName("CAP_hi")
	require.True(t, ok)

	cl := m.Constraint(lo)
	ch := m.Constraint(hi)
	require.Equal(t, model.GreaterEq, cl.Sense)
	require.Equal(t, int64(6), cl.RHS)
	require.Equal(t, model.LessEq, ch.Sense)
	require.Equal(t, int64(10), ch.RHS)
}

func TestReadBVMarksBinaryWithUnitBounds(t *testing.T) {
	const src = `NAME
ROWS
 N  COST
 L  ONE
COLUMNS
    Y         COST            1.0   ONE             1.0
RHS
    RHS       ONE             1.0
BOUNDS
 BV BND       Y
ENDATA
`
	m, err := Read(strings.NewReader(src), "binaryrow")
	require.NoError(t, err)
	y, ok := m.VariableByName("Y")
	require.True(t, ok)
	v := m.Variable(y)
	require.Equal(t, model.Binary, v.Sense)
	require.Equal(t, int64(0), v.Lower)
	require.Equal(t, int64(1), v.Upper)
}

func TestReadRejectsUnknownRow(t *testing.T) {
	const src = `NAME
ROWS
 N  COST
COLUMNS
    X1        COST            1.0   GHOST           1.0
ENDATA
`
	_, err := Read(strings.NewReader(src), "bad")
	require.Error(t, err)
}

func TestReadRejectsUnknownRowType(t *testing.T) {
	const src = `NAME
ROWS
 Z  COST
ENDATA
`
	_, err := Read(strings.NewReader(src), "bad")
	require.Error(t, err)
}
