package tabusearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/classify"
	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/movegen"
	"github.com/go-metaheuristics/tabumh/internal/util"
)

func buildThresholdModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("threshold")
	x, err := m.AddVariable("x", 0, 10, 0, model.Integer)
	require.NoError(t, err)
	_, err = model.Expr().Add(x, 1).GreaterEq(m, "reach5", 5)
	require.NoError(t, err)
	require.NoError(t, model.Expr().Add(x, 1).Minimize(m))
	require.NoError(t, m.Freeze())
	classify.Run(m)
	return m
}

func TestRunReachesFeasibleOptimum(t *testing.T) {
	m := buildThresholdModel(t)
	cat := movegen.NewCatalogue()
	cat.SetupAll(m)
	ev := evaluate.New(evaluate.ScreeningOff)

	localPenalty := make([]float64, m.NumConstraints())
	globalPenalty := make([]float64, m.NumConstraints())
	for i := range localPenalty {
		localPenalty[i] = 1000
		globalPenalty[i] = 1000
	}

	opts := DefaultOptions()
	opts.IterationMax = 50
	opts.NumberOfInitialModification = 0
	rng := util.NewRNG(1)

	res, err := Run(context.Background(), m, cat, ev, localPenalty, globalPenalty, opts, rng, 0, false)
	require.NoError(t, err)
	require.Equal(t, int64(0), res.BestViolation)
	require.Equal(t, int64(5), res.BestObjective)
	require.NotEmpty(t, res.TrendObjective)
}

func TestMemoryTabuModeAllVersusAny(t *testing.T) {
	mem := NewMemory(5)
	mem.Mark(0, 0)
	mv := model.Move{Alterations: []model.Alteration{{Var: 0}, {Var: 1}}}

	require.False(t, mem.IsMoveTabu(mv, 1, TabuModeAll))
	require.True(t, mem.IsMoveTabu(mv, 1, TabuModeAny))

	mem.Mark(1, 0)
	require.True(t, mem.IsMoveTabu(mv, 1, TabuModeAll))
}

func TestIsVariableTabuExpiresAfterTenure(t *testing.T) {
	mem := NewMemory(3)
	mem.Mark(0, 10)
	require.True(t, mem.IsVariableTabu(0, 11))
	require.True(t, mem.IsVariableTabu(0, 12))
	require.False(t, mem.IsVariableTabu(0, 13))
}

func TestPruneMovesZeroThresholdKeepsEverything(t *testing.T) {
	moves := []model.Move{
		{RelatedConstraints: []model.ConstraintID{0}},
		{RelatedConstraints: []model.ConstraintID{0}},
	}
	require.Len(t, pruneMoves(moves, 0, 1), 2)
}

func TestPruneMovesDropsFullyOverlappingMovesPastPreserveFloor(t *testing.T) {
	moves := []model.Move{
		{RelatedConstraints: []model.ConstraintID{0, 1}},
		{RelatedConstraints: []model.ConstraintID{0, 1}},
		{RelatedConstraints: []model.ConstraintID{2}},
	}
	pruned := pruneMoves(moves, 1.0, 0)
	require.Len(t, pruned, 2)
	require.Equal(t, []model.ConstraintID{0, 1}, pruned[0].RelatedConstraints)
	require.Equal(t, []model.ConstraintID{2}, pruned[1].RelatedConstraints)
}

func TestPruneMovesPreserveRateFloorsKeepCount(t *testing.T) {
	moves := []model.Move{
		{RelatedConstraints: []model.ConstraintID{0}},
		{RelatedConstraints: []model.ConstraintID{0}},
		{RelatedConstraints: []model.ConstraintID{0}},
	}
	pruned := pruneMoves(moves, 1.0, 1)
	require.Len(t, pruned, 3)
}
