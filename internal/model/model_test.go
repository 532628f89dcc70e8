package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSimpleModel(t *testing.T) (*Model, VariableID, VariableID, ConstraintID) {
	t.Helper()
	m := New("simple")
	x, err := m.AddVariable("x", -100, 100, 0, Integer)
	require.NoError(t, err)
	y, err := m.AddVariable("y", -100, 100, 0, Integer)
	require.NoError(t, err)

	c, err := Expr().Add(x, 66).Add(y, 14).GreaterEq(m, "c1", 1430)
	require.NoError(t, err)

	require.NoError(t, Expr().Add(x, 1).Add(y, 10).Minimize(m))
	require.NoError(t, m.Freeze())
	return m, x, y, c
}

func TestFreezeRecomputesCaches(t *testing.T) {
	m, _, _, c := buildSimpleModel(t)
	require.Equal(t, int64(0), m.Constraint(c).LHS.Value())
	require.True(t, m.Constraint(c).CachedViolation() > 0)
}

func TestApplyAlterationIncrementallyUpdatesConstraintAndObjective(t *testing.T) {
	m, x, y, c := buildSimpleModel(t)

	m.ApplyAlteration(x, 7)
	m.ApplyAlteration(y, 70)

	require.Equal(t, int64(66*7+14*70), m.Constraint(c).LHS.Value())
	require.Equal(t, int64(0), m.Constraint(c).CachedViolation())
	require.True(t, m.IsFeasible())
	require.Equal(t, int64(7+10*70), m.Objective().Value())
}

func TestExpressionCacheMatchesRecompute(t *testing.T) {
	m, x, y, c := buildSimpleModel(t)
	m.ApplyAlteration(x, 3)
	m.ApplyAlteration(y, -5)

	valueOf := func(id VariableID) int64 { return m.Variable(id).Value }
	got := m.Constraint(c).LHS.Value()
	want := m.Constraint(c).LHS.Recompute(valueOf)
	require.Equal(t, want, got)
}

func TestMoveInverseRestoresState(t *testing.T) {
	m, x, _, c := buildSimpleModel(t)
	before := m.Constraint(c).LHS.Value()

	mv := Move{Alterations: []Alteration{{Var: x, NewValue: 42}}}
	valueOf := func(id VariableID) int64 { return m.Variable(id).Value }
	inv := mv.InverseFrom(valueOf)

	for _, a := range mv.Alterations {
		m.ApplyAlteration(a.Var, a.NewValue)
	}
	require.NotEqual(t, before, m.Constraint(c).LHS.Value())

	for _, a := range inv.Alterations {
		m.ApplyAlteration(a.Var, a.NewValue)
	}
	require.Equal(t, before, m.Constraint(c).LHS.Value())
}

func TestFixedRangeVariableReportsFixedRange(t *testing.T) {
	m := New("fixed")
	x, err := m.AddVariable("x", 2, 2, 2, Integer)
	require.NoError(t, err)
	require.True(t, m.Variable(x).IsFixedRange())
}

func TestAddVariableRejectsInvertedBounds(t *testing.T) {
	m := New("bad")
	_, err := m.AddVariable("x", 5, 1, 1, Integer)
	require.Error(t, err)
}

func TestConsumeRejectsSecondCall(t *testing.T) {
	m, _, _, _ := buildSimpleModel(t)
	require.NoError(t, m.Consume())
	require.Error(t, m.Consume())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m, x, y, c := buildSimpleModel(t)
	snap := m.Snapshot()

	m.ApplyAlteration(x, 7)
	m.ApplyAlteration(y, 70)
	require.NotEqual(t, snap, m.Snapshot())

	m.Restore(snap)
	require.Equal(t, snap, m.Snapshot())
	require.Equal(t, int64(0), m.Constraint(c).LHS.Value())
}

func TestSaturatingAddClampsAtIntHalfMax(t *testing.T) {
	sum, ok := SaturatingAdd(IntHalfMax-1, 10)
	require.False(t, ok)
	require.Equal(t, int64(IntHalfMax), sum)

	sum, ok = SaturatingAdd(-IntHalfMax+1, -10)
	require.False(t, ok)
	require.Equal(t, int64(-IntHalfMax), sum)

	sum, ok = SaturatingAdd(3, 4)
	require.True(t, ok)
	require.Equal(t, int64(7), sum)
}

func TestExpressionRecomputeFlagsSaturation(t *testing.T) {
	e := &Expression{Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}}
	valueOf := func(VariableID) int64 { return IntHalfMax }

	e.Recompute(valueOf)
	require.True(t, e.Saturated)
	require.Equal(t, int64(IntHalfMax), e.Value())
}
