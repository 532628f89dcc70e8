package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/result"
)

// buildKnapsackModel builds a small 0/1 knapsack: maximize value subject to
// a weight cap, with a known optimum (items 0 and 2, value 8).
func buildKnapsackModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("knapsack")
	x0, err := m.AddVariable("x0", 0, 1, 0, model.Binary)
	require.NoError(t, err)
	x1, err := m.AddVariable("x1", 0, 1, 0, model.Binary)
	require.NoError(t, err)
	x2, err := m.AddVariable("x2", 0, 1, 0, model.Binary)
	require.NoError(t, err)

	_, err = model.Expr().Add(x0, 3).Add(x1, 4).Add(x2, 2).LessEq(m, "cap", 5)
	require.NoError(t, err)

	require.NoError(t, model.Expr().Add(x0, 5).Add(x1, 6).Add(x2, 3).Maximize(m))
	return m
}

func smallOptions() Options {
	opt := DefaultOptions()
	for i := range opt.TabuVariants {
		opt.TabuVariants[i].IterationMax = 200
		opt.TabuVariants[i].TimeMax = 2 * time.Second
	}
	opt.OuterIterationMax = 10
	opt.OuterTimeMax = 10 * time.Second
	return opt
}

func TestSolveFindsFeasibleSolutionOnKnapsack(t *testing.T) {
	m := buildKnapsackModel(t)
	res, err := Solve(context.Background(), m, smallOptions())
	require.NoError(t, err)
	require.True(t, res.Solution.IsFeasible)
	require.Greater(t, res.Solution.Objective, int64(0))
	require.LessOrEqual(t, res.Solution.Objective, int64(8))
}

func TestSolveRejectsDoubleConsume(t *testing.T) {
	m := buildKnapsackModel(t)
	_, err := Solve(context.Background(), m, smallOptions())
	require.NoError(t, err)

	_, err = Solve(context.Background(), m, smallOptions())
	require.Error(t, err)
}

func TestSolveRequiresAtLeastOneTabuVariant(t *testing.T) {
	m := buildKnapsackModel(t)
	opt := smallOptions()
	opt.TabuVariants = nil
	_, err := Solve(context.Background(), m, opt)
	require.Error(t, err)
}

// TestFinalizeReportsInfeasibleWhenNoFeasibleSolutionWasEverFound covers
// the best-known-but-violated branch: a solve that never reaches zero
// violation must report StatusInfeasible, not StatusFeasible.
func TestFinalizeReportsInfeasibleWhenNoFeasibleSolutionWasEverFound(t *testing.T) {
	m := buildKnapsackModel(t)
	require.NoError(t, m.Freeze())

	incumbent := result.New()
	incumbent.Update(m.Snapshot(), 5, 2, 5, 5)

	res, err := finalize(m, incumbent, result.NewHistory(10), &Result{}, false, nil, nil)
	require.NoError(t, err)
	require.Equal(t, result.StatusInfeasible, res.Solution.Status)
	require.False(t, res.Solution.IsFeasible)
}

// TestFinalizeReportsOptimalOnlyWhenTargetReached verifies that a feasible
// incumbent is labeled StatusFeasible by default and StatusOptimal only
// when finalize is told the target objective was actually reached.
func TestFinalizeReportsOptimalOnlyWhenTargetReached(t *testing.T) {
	m := buildKnapsackModel(t)
	require.NoError(t, m.Freeze())

	incumbent := result.New()
	incumbent.Update(m.Snapshot(), 5, 0, 5, 5)

	res, err := finalize(m, incumbent, result.NewHistory(10), &Result{}, false, nil, nil)
	require.NoError(t, err)
	require.Equal(t, result.StatusFeasible, res.Solution.Status)

	res, err = finalize(m, incumbent, result.NewHistory(10), &Result{}, true, nil, nil)
	require.NoError(t, err)
	require.Equal(t, result.StatusOptimal, res.Solution.Status)
}
