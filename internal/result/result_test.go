package result

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/util"
)

func TestIncumbentHolderMonotonicGlobalImprovement(t *testing.T) {
	h := New()

	status := h.Update([]int64{1, 2}, 10, 3, 13, 13)
	require.Equal(t, UpdateLocalImproved|UpdateGlobalImproved, status)
	require.False(t, h.HasFeasible())

	// Worse augmented objective must not move the global incumbent; being
	// the first feasible candidate, it still becomes the feasible incumbent.
	status = h.Update([]int64{5, 5}, 20, 0, 20, 20)
	require.Equal(t, UpdateFeasibleImproved, status)
	require.Equal(t, int64(10), h.GlobalObjective())

	// A feasible, better candidate moves both records.
	status = h.Update([]int64{0, 0}, 5, 0, 5, 5)
	require.Equal(t, UpdateLocalImproved|UpdateGlobalImproved|UpdateFeasibleImproved, status)
	require.True(t, h.HasFeasible())
	require.Equal(t, int64(5), h.FeasibleObjective())
	require.Equal(t, int64(5), h.GlobalObjective())
}

func TestHistoryDedupesAndEvicts(t *testing.T) {
	h := NewHistory(2)
	require.True(t, h.Add([]int64{1, 1}, 2))
	require.False(t, h.Add([]int64{1, 1}, 2))
	require.True(t, h.Add([]int64{2, 2}, 4))
	require.Equal(t, 2, h.Len())

	require.True(t, h.Add([]int64{3, 3}, 6))
	require.Equal(t, 2, h.Len())
	sols := h.Solutions()
	require.Equal(t, int64(4), sols[0].Objective)
	require.Equal(t, int64(6), sols[1].Objective)

	rng := util.NewRNG(1)
	sample, ok := h.Sample(rng)
	require.True(t, ok)
	require.Contains(t, []int64{4, 6}, sample.Objective)
}

func TestSolverErrorUnwrap(t *testing.T) {
	err := NewError(ErrInfeasibleModel, "empty domain", nil)
	require.Equal(t, "InfeasibleModel: empty domain", err.Error())
	require.Nil(t, err.Unwrap())
}
