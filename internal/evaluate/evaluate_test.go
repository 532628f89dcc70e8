package evaluate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

func buildEvalModel(t *testing.T) (*model.Model, model.VariableID, model.VariableID, model.ConstraintID) {
	t.Helper()
	m := model.New("eval")
	x, err := m.AddVariable("x", -100, 100, 0, model.Integer)
	require.NoError(t, err)
	y, err := m.AddVariable("y", -100, 100, 0, model.Integer)
	require.NoError(t, err)
	c, err := model.Expr().Add(x, 66).Add(y, 14).GreaterEq(m, "c1", 1430)
	require.NoError(t, err)
	require.NoError(t, model.Expr().Add(x, 1).Add(y, 10).Minimize(m))
	require.NoError(t, m.Freeze())
	return m, x, y, c
}

func TestEvaluateMatchesActualApplication(t *testing.T) {
	m, x, _, c := buildEvalModel(t)
	localPenalty := make([]float64, m.NumConstraints())
	globalPenalty := make([]float64, m.NumConstraints())
	localPenalty[c] = 1000
	globalPenalty[c] = 1000

	ev := New(ScreeningOff)
	base := ComputeBaseline(m, localPenalty, globalPenalty)
	mv := model.Move{Alterations: []model.Alteration{{Var: x, NewValue: 7}}}
	score := ev.Evaluate(m, mv, localPenalty, globalPenalty, base)

	m.ApplyAlteration(x, 7)
	require.Equal(t, m.Constraint(c).CachedViolation(), score.TotalViolation)
	require.Equal(t, m.Objective().Value(), -score.ObjectiveImprovement)
}

func TestEvaluateBatchMatchesSingleEvaluate(t *testing.T) {
	m, x, y, _ := buildEvalModel(t)
	localPenalty := make([]float64, m.NumConstraints())
	globalPenalty := make([]float64, m.NumConstraints())

	ev := New(ScreeningOff)
	moves := []model.Move{
		{Alterations: []model.Alteration{{Var: x, NewValue: 7}}},
		{Alterations: []model.Alteration{{Var: y, NewValue: 70}}},
		{Alterations: []model.Alteration{{Var: x, NewValue: -5}}},
	}

	batch, err := ev.EvaluateBatch(context.Background(), m, moves, localPenalty, globalPenalty, 2)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	base := ComputeBaseline(m, localPenalty, globalPenalty)
	for i, mv := range moves {
		single := ev.Evaluate(m, mv, localPenalty, globalPenalty, base)
		require.Equal(t, single, batch[i])
	}
}

func TestScreeningAggressiveFiltersNonImproving(t *testing.T) {
	ev := New(ScreeningAggressive)
	scores := []model.SolutionScore{
		{IsObjectiveImprovable: true},
		{IsObjectiveImprovable: false},
	}
	admissible := ev.Filter(scores, true)
	require.Equal(t, []int{0}, admissible)
}

func TestScreeningOffAdmitsEverything(t *testing.T) {
	ev := New(ScreeningOff)
	scores := make([]model.SolutionScore, 5)
	admissible := ev.Filter(scores, true)
	require.Len(t, admissible, 5)
}

func TestParallelismRaisesWorkersAboveThreshold(t *testing.T) {
	p := NewParallelism(8, 1.0)
	require.Equal(t, 1, p.WorkersFor(10))
	workers := p.WorkersFor(1000)
	require.Greater(t, workers, 1)
}
