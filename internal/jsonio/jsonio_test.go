package jsonio

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/result"
)

func buildSmallModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("small")
	x0, err := m.AddVariable("x0", 0, 1, 1, model.Binary)
	require.NoError(t, err)
	x1, err := m.AddVariable("x1", 0, 1, 0, model.Binary)
	require.NoError(t, err)
	_, err = model.Expr().Add(x0, 1).Add(x1, 1).LessEq(m, "cap", 1)
	require.NoError(t, err)
	require.NoError(t, model.Expr().Add(x0, 2).Add(x1, 3).Minimize(m))
	require.NoError(t, m.Freeze())
	return m
}

func TestBuildAndWriteNamedSolution(t *testing.T) {
	m := buildSmallModel(t)
	sol := result.Solution{
		Name:           "small",
		Objective:      2,
		TotalViolation: 0,
		IsFeasible:     true,
		Variables:      []int64{1, 0},
	}
	doc := BuildNamedSolution(m, sol)
	require.Equal(t, "small", doc.Name)
	require.True(t, doc.IsFeasible)
	require.Contains(t, doc.Variables, "x0")
	require.Equal(t, []int64{1}, doc.Variables["x0"].Values)
	require.Contains(t, doc.Constraints, "cap")

	var buf bytes.Buffer
	require.NoError(t, WriteNamedSolution(&buf, doc))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "small", decoded["name"])
}

func TestBuildAndWriteHistory(t *testing.T) {
	h := result.NewHistory(10)
	h.Add([]int64{1, 0}, 2)
	h.Add([]int64{0, 1}, 3)

	doc := BuildHistory("small", 2, 1, h)
	require.Equal(t, 2, len(doc.Solutions))
	require.Equal(t, 2, doc.NumberOfVariables)

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, doc))
	require.Contains(t, buf.String(), "\"solutions\"")
}

func TestTrendWriterEmitsHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTrendWriter(&buf)
	require.NoError(t, tw.WriteRow(result.TrendPoint{Iteration: 1, Objective: 5, BestObjective: 5, PenaltyScale: 1.5}))
	require.NoError(t, tw.WriteRow(result.TrendPoint{Iteration: 2, Objective: 4, BestObjective: 4, PenaltyScale: 1.5}))

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	require.Equal(t, trendHeader, string(lines[0]))
}
