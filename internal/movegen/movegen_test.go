package movegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/classify"
	"github.com/go-metaheuristics/tabumh/internal/model"
)

func buildSelectionModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("sel")
	x0, _ := m.AddVariable("x0", 0, 1, 1, model.Binary)
	x1, _ := m.AddVariable("x1", 0, 1, 0, model.Binary)
	x2, _ := m.AddVariable("x2", 0, 1, 0, model.Binary)
	_, err := model.Expr().Add(x0, 1).Add(x1, 1).Add(x2, 1).Eq(m, "select", 1)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())
	classify.Run(m)
	return m
}

func TestBinaryGeneratorFlipsEachVariable(t *testing.T) {
	m := buildSelectionModel(t)
	g := &BinaryGenerator{}
	g.Setup(m)
	g.UpdateMoves(m, UpdateOptions{})
	require.Len(t, g.Moves(), 3)
	for _, mv := range g.Moves() {
		require.Len(t, mv.Alterations, 1)
		require.True(t, mv.WouldStayInBounds(m))
	}
}

func TestIntegerGeneratorDeduplicates(t *testing.T) {
	m := model.New("int")
	x, err := m.AddVariable("x", 0, 1, 0, model.Integer)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())
	_ = x

	g := &IntegerGenerator{}
	g.Setup(m)
	g.UpdateMoves(m, UpdateOptions{})
	seen := map[int64]bool{}
	for _, mv := range g.Moves() {
		require.Len(t, mv.Alterations, 1)
		v := mv.Alterations[0].NewValue
		require.False(t, seen[v], "duplicate candidate value %d", v)
		seen[v] = true
	}
}

func TestSelectionGeneratorSwapsSelected(t *testing.T) {
	m := buildSelectionModel(t)
	g := &SelectionGenerator{mode: SelectionDefined}
	g.Setup(m)
	g.UpdateMoves(m, UpdateOptions{})
	require.Len(t, g.Moves(), 2) // 2 other members besides selected x0
	for _, mv := range g.Moves() {
		require.Len(t, mv.Alterations, 2)
	}
}

func TestFixedVariableProducesNoUnivariateMoves(t *testing.T) {
	m := model.New("fixed")
	_, err := m.AddVariable("x", 3, 3, 3, model.Integer)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())

	g := &IntegerGenerator{}
	g.Setup(m)
	g.UpdateMoves(m, UpdateOptions{})
	require.Empty(t, g.Moves())
}

func TestCatalogueUpdateAllIsDisjoint(t *testing.T) {
	m := buildSelectionModel(t)
	cat := NewCatalogue()
	cat.SetupAll(m)
	require.NoError(t, cat.UpdateAll(context.Background(), m, UpdateOptions{}))

	all := cat.AllMoves()
	require.NotEmpty(t, all)
	for _, mv := range all {
		require.True(t, mv.WouldStayInBounds(m))
	}
}

func TestCatalogueUpdateAllHonorsParallelismHintOverNumWorkers(t *testing.T) {
	m := buildSelectionModel(t)
	cat := NewCatalogue()
	cat.NumWorkers = 1
	cat.SetupAll(m)
	require.NoError(t, cat.UpdateAll(context.Background(), m, UpdateOptions{ParallelismHint: 4}))

	all := cat.AllMoves()
	require.NotEmpty(t, all)
}

func TestShapeSpecificMovesPreserveViolation(t *testing.T) {
	m := model.New("precedence")
	x, _ := m.AddVariable("x", 0, 10, 3, model.Integer)
	y, _ := m.AddVariable("y", 0, 10, 7, model.Integer)
	_, err := model.Expr().Add(x, 1).Add(y, -1).LessEq(m, "prec", 0)
	require.NoError(t, err)
	require.NoError(t, m.Freeze())
	classify.Run(m)

	g := &PrecedenceGenerator{}
	g.Setup(m)
	g.UpdateMoves(m, UpdateOptions{})
	require.NotEmpty(t, g.Moves())

	c := m.Constraint(0)
	before := c.CachedViolation()
	mv := g.Moves()[0]
	for _, a := range mv.Alterations {
		m.ApplyAlteration(a.Var, a.NewValue)
	}
	require.Equal(t, before, c.CachedViolation())
}
