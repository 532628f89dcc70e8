package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const smallMPS = `NAME          TESTPROB
ROWS
 N  COST
 G  LIM1
 G  LIM2
COLUMNS
    MARKER1   'MARKER'                 'INTORG'
    X1        COST            1.0   LIM1            66.0
    X1        LIM2           -82.0
    X2        COST           10.0   LIM1            14.0
    X2        LIM2            28.0
    MARKER2   'MARKER'                 'INTEND'
RHS
    RHS       LIM1            1430.0   LIM2          1306.0
BOUNDS
 LO BND       X1              -100.0
 UP BND       X1              100.0
 LO BND       X2              -100.0
 UP BND       X2              100.0
ENDATA
`

func newTestApp() *cli.Command {
	return &cli.Command{
		Name:     "tabumh",
		Commands: []*cli.Command{solveCommand},
	}
}

func TestSolveCommandRequiresExactlyOneInputFormat(t *testing.T) {
	app := newTestApp()
	err := app.Run(context.Background(), []string{"tabumh", "solve"})
	require.Error(t, err)
}

func TestSolveCommandSolvesSimpleMPSModel(t *testing.T) {
	dir := t.TempDir()
	mpsPath := filepath.Join(dir, "simple.mps")
	require.NoError(t, os.WriteFile(mpsPath, []byte(smallMPS), 0o644))

	jsonPath := filepath.Join(dir, "out.json")

	app := newTestApp()
	err := app.Run(context.Background(), []string{
		"tabumh", "solve",
		"--mps", mpsPath,
		"--time-max", "2",
		"--iteration-max", "20",
		"--quiet",
		"--json-out", jsonPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "\"name\"")
}

func TestSolveCommandRejectsBothMPSAndOPB(t *testing.T) {
	dir := t.TempDir()
	mpsPath := filepath.Join(dir, "simple.mps")
	require.NoError(t, os.WriteFile(mpsPath, []byte(smallMPS), 0o644))

	app := newTestApp()
	err := app.Run(context.Background(), []string{
		"tabumh", "solve",
		"--mps", mpsPath,
		"--opb", mpsPath,
	})
	require.Error(t, err)
}

func TestSolveCommandRejectsInvalidVerboseLevel(t *testing.T) {
	dir := t.TempDir()
	mpsPath := filepath.Join(dir, "simple.mps")
	require.NoError(t, os.WriteFile(mpsPath, []byte(smallMPS), 0o644))

	app := newTestApp()
	err := app.Run(context.Background(), []string{
		"tabumh", "solve",
		"--mps", mpsPath,
		"--verbose", "loud",
	})
	require.Error(t, err)
}

func TestSolveCommandAppliesConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	mpsPath := filepath.Join(dir, "simple.mps")
	require.NoError(t, os.WriteFile(mpsPath, []byte(smallMPS), 0o644))

	configPath := filepath.Join(dir, "solve.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"general": {"seed": 7, "iteration_max": 5}
	}`), 0o644))

	jsonPath := filepath.Join(dir, "out.json")

	app := newTestApp()
	err := app.Run(context.Background(), []string{
		"tabumh", "solve",
		"--mps", mpsPath,
		"--config", configPath,
		"--iteration-max", "20",
		"--time-max", "2",
		"--quiet",
		"--json-out", jsonPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "\"name\"")
}

func TestSolveCommandRejectsMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	mpsPath := filepath.Join(dir, "simple.mps")
	require.NoError(t, os.WriteFile(mpsPath, []byte(smallMPS), 0o644))

	app := newTestApp()
	err := app.Run(context.Background(), []string{
		"tabumh", "solve",
		"--mps", mpsPath,
		"--config", filepath.Join(dir, "missing.json"),
	})
	require.Error(t, err)
}

func TestModelNameFromPathStripsDirAndExtension(t *testing.T) {
	require.Equal(t, "simple", modelNameFromPath("/a/b/simple.mps"))
	require.Equal(t, "simple", modelNameFromPath("simple.opb"))
}
