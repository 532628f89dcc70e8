package auxio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadNamesAndValues(t *testing.T) {
	const src = "# comment\nx1 3\nx2 -4\n"
	got, err := ReadNamesAndValues(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"x1": 3, "x2": -4}, got)
}

func TestReadNamesAndValuesRejectsMalformedLine(t *testing.T) {
	_, err := ReadNamesAndValues(strings.NewReader("x1 3 4\n"))
	require.Error(t, err)
}

func TestReadNames(t *testing.T) {
	const src = "x1\nx2\n\nx3\n"
	got, err := ReadNames(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{"x1": {}, "x2": {}, "x3": {}}, got)
}

func TestReadNamePairs(t *testing.T) {
	const src = "x1 x2\nx3 x4\n"
	got, err := ReadNamePairs(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, []NamePair{{First: "x1", Second: "x2"}, {First: "x3", Second: "x4"}}, got)
}

func TestReadSolutionHintsSameGrammarAsNamesAndValues(t *testing.T) {
	const src = "x1 1\nx2 0\n"
	got, err := ReadSolutionHints(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"x1": 1, "x2": 0}, got)
}
