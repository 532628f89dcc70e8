package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionFindUniteAndSame(t *testing.T) {
	uf := NewUnionFind[string]()
	require.False(t, uf.Same("a", "b"))

	uf.Union("a", "b")
	require.True(t, uf.Same("a", "b"))
	require.False(t, uf.Same("a", "c"))

	uf.Union("b", "c")
	require.True(t, uf.Same("a", "c"))
	require.Equal(t, 3, uf.Size("a"))
}

func TestBiMapRoundTrip(t *testing.T) {
	m := NewBiMap()
	require.NoError(t, m.Put("x1", 0))
	require.NoError(t, m.Put("x2", 1))

	idx, ok := m.Index("x2")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	name, ok := m.Name(0)
	require.True(t, ok)
	require.Equal(t, "x1", name)

	require.Error(t, m.Put("x1", 2))
}

func TestRingQueueEvictsOldest(t *testing.T) {
	q := NewRingQueue[float64](3)
	q.Push(1)
	q.Push(2)
	q.Push(3)
	q.Push(4) // evicts 1

	min, ok := q.Min()
	require.True(t, ok)
	require.Equal(t, 2.0, min)

	max, ok := q.Max()
	require.True(t, ok)
	require.Equal(t, 4.0, max)

	require.InDelta(t, 3.0, q.Average(), 1e-9)
	require.Equal(t, 3, q.Size())
}

func TestRangeTracksMinMax(t *testing.T) {
	r := NewRange()
	r.Update(-3)
	r.Update(5)
	r.Update(1)

	require.Equal(t, -3.0, r.Min())
	require.Equal(t, 5.0, r.Max())
	require.Equal(t, 5.0, r.MaxAbs())
	require.Equal(t, 8.0, r.Width())
}

func TestUCB1PullsEachArmAtLeastOnce(t *testing.T) {
	b := NewUCB1(3, 1)
	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		arm := b.Select()
		seen[arm] = true
		b.Update(arm, 1.0)
	}
	require.Len(t, seen, 3)
}

func TestUCB1PrefersHigherReward(t *testing.T) {
	b := NewUCB1(2, 1)
	b.Update(0, 0.1)
	b.Update(1, 10.0)
	for i := 0; i < 50; i++ {
		arm := b.Select()
		if arm == 0 {
			b.Update(0, 0.1)
		} else {
			b.Update(1, 10.0)
		}
	}
	require.Equal(t, 1, b.Select())
}

func TestRNGDeterministicForSameSeed(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestParseVerbosityAcceptsKnownLevelsCaseInsensitively(t *testing.T) {
	level, ok := ParseVerbosity("Debug")
	require.True(t, ok)
	require.Equal(t, VerboseDebug, level)

	level, ok = ParseVerbosity("")
	require.True(t, ok)
	require.Equal(t, VerboseOff, level)

	_, ok = ParseVerbosity("loud")
	require.False(t, ok)
}

func TestLoggerGatesByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Level: VerboseOuter, Out: &buf}

	l.Warning("w")
	l.Outer("o")
	l.Full("f")
	l.Debug("d")

	require.Contains(t, buf.String(), "w")
	require.Contains(t, buf.String(), "o")
	require.NotContains(t, buf.String(), "f")
	require.NotContains(t, buf.String(), "d")
}

func TestNilLoggerIsSafeToCall(t *testing.T) {
	var l *Logger
	require.NotPanics(t, func() { l.Outer("anything") })
}
