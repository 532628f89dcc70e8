package main

import "github.com/urfave/cli/v3"

// appFlagsMap centralizes flag definitions so solveCommand can select
// exactly the ones it needs, the same pattern cmd/keycraft/flags.go uses
// for its own command set.
var appFlagsMap = map[string]cli.Flag{
	"mps": &cli.StringFlag{
		Name:  "mps",
		Usage: "read the model from an MPS file (fixed or free format)",
	},
	"opb": &cli.StringFlag{
		Name:  "opb",
		Usage: "read the model from an OPB/PB pseudo-Boolean file",
	},
	"fixed-names": &cli.StringFlag{
		Name:  "fixed-names",
		Usage: "whitespace-separated file naming variables to additionally fix at their current value",
	},
	"hints": &cli.StringFlag{
		Name:  "hints",
		Usage: "solution-hint file (\"variable_name value\" per line) seeding the initial assignment",
	},
	"seed": &cli.Int64Flag{
		Name:  "seed",
		Usage: "RNG seed",
		Value: 1,
	},
	"iteration-max": &cli.IntFlag{
		Name:  "iteration-max",
		Usage: "maximum outer controller iterations",
		Value: 200,
	},
	"time-max": &cli.Float64Flag{
		Name:  "time-max",
		Usage: "wall-clock budget in seconds",
		Value: 300,
	},
	"target-objective": &cli.Int64Flag{
		Name:  "target-objective",
		Usage: "stop as soon as this objective value is reached (default: unset, runs to the time/iteration limit)",
	},
	"use-target-objective": &cli.BoolFlag{
		Name:  "use-target-objective",
		Usage: "enable the --target-objective early stop",
	},
	"screening": &cli.StringFlag{
		Name:  "screening",
		Usage: "improvability screening mode: off, soft, aggressive, intensive, automatic",
		Value: "automatic",
	},
	"tabu-mode": &cli.StringFlag{
		Name:  "tabu-mode",
		Usage: "tabu predicate over a move's altered variables: all, any",
		Value: "all",
	},
	"lagrange": &cli.BoolFlag{
		Name:  "lagrange",
		Usage: "run a Lagrangian dual subgradient ascent before search to seed penalty coefficients",
	},
	"warm-start": &cli.BoolFlag{
		Name:  "warm-start",
		Usage: "seed the initial solution with a simulated-annealing warm start before search",
	},
	"local-search": &cli.BoolFlag{
		Name:  "local-search",
		Usage: "run steepest-descent local-search polish after each episode",
		Value: true,
	},
	"json-out": &cli.StringFlag{
		Name:  "json-out",
		Usage: "write the NamedSolution JSON document to this file",
	},
	"history-out": &cli.StringFlag{
		Name:  "history-out",
		Usage: "write the feasible-solution history JSON document to this file",
	},
	"trend-out": &cli.StringFlag{
		Name:  "trend-out",
		Usage: "write the per-outer-iteration trend file (tab-separated) to this file",
	},
	"quiet": &cli.BoolFlag{
		Name:  "quiet",
		Usage: "suppress the console summary table",
	},
	"verbose": &cli.StringFlag{
		Name:  "verbose",
		Usage: "diagnostic output level: off, warning, outer, full, debug",
		Value: "off",
	},
	"config": &cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file supplying a baseline for general/preprocess/penalty/tabu_search/lagrange/warm_start groups; explicit flags still override it",
	},
}

// flagsSlice converts selected appFlagsMap keys into a cli.Flag slice,
// the same helper cmd/keycraft/main.go uses for per-command flag subsets.
func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := appFlagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}
