package localsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/movegen"
)

// buildDescentModel builds min x s.t. x in [0,5], starting at x=5, with no
// constraints, so the unique steepest-descent optimum is x=0.
func buildDescentModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("descent")
	x, err := m.AddVariable("x", 0, 5, 5, model.Integer)
	require.NoError(t, err)
	require.NoError(t, model.Expr().Add(x, 1).Minimize(m))
	require.NoError(t, m.Freeze())
	return m
}

func TestRunDescendsToLocalOptimum(t *testing.T) {
	m := buildDescentModel(t)
	cat := movegen.NewCatalogue()
	cat.SetupAll(m)
	ev := evaluate.New(evaluate.ScreeningOff)
	localPenalty := make([]float64, m.NumConstraints())
	globalPenalty := make([]float64, m.NumConstraints())

	res, err := Run(context.Background(), m, cat, ev, localPenalty, globalPenalty, Options{})
	require.NoError(t, err)
	require.True(t, res.Improved)
	require.Equal(t, int64(0), m.Variable(0).Value)
}

func TestRunStopsAtLocalOptimumWithoutFurtherMoves(t *testing.T) {
	m := model.New("flat")
	_, err := m.AddVariable("x", 0, 5, 0, model.Integer)
	require.NoError(t, err)
	require.NoError(t, model.Expr().Minimize(m))
	require.NoError(t, m.Freeze())

	cat := movegen.NewCatalogue()
	cat.SetupAll(m)
	ev := evaluate.New(evaluate.ScreeningOff)
	localPenalty := make([]float64, m.NumConstraints())
	globalPenalty := make([]float64, m.NumConstraints())

	res, err := Run(context.Background(), m, cat, ev, localPenalty, globalPenalty, Options{})
	require.NoError(t, err)
	require.False(t, res.Improved)
	require.Equal(t, 0, res.MovesApplied)
}

func TestRunRespectsMaxIterations(t *testing.T) {
	m := buildDescentModel(t)
	cat := movegen.NewCatalogue()
	cat.SetupAll(m)
	ev := evaluate.New(evaluate.ScreeningOff)
	localPenalty := make([]float64, m.NumConstraints())
	globalPenalty := make([]float64, m.NumConstraints())

	res, err := Run(context.Background(), m, cat, ev, localPenalty, globalPenalty, Options{MaxIterations: 1})
	require.NoError(t, err)
	require.Equal(t, 1, res.MovesApplied)
	require.Equal(t, int64(2), m.Variable(0).Value)
}
