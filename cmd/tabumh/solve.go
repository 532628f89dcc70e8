package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-metaheuristics/tabumh/internal/auxio"
	"github.com/go-metaheuristics/tabumh/internal/config"
	"github.com/go-metaheuristics/tabumh/internal/controller"
	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/jsonio"
	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/mps"
	"github.com/go-metaheuristics/tabumh/internal/opb"
	"github.com/go-metaheuristics/tabumh/internal/report"
	"github.com/go-metaheuristics/tabumh/internal/result"
	"github.com/go-metaheuristics/tabumh/internal/tabusearch"
	"github.com/go-metaheuristics/tabumh/internal/util"
	"github.com/urfave/cli/v3"
)

// solveCommand defines the "solve" CLI command: read a model from an
// MPS or OPB/PB file, run the tabu-search core, and write the result.
var solveCommand = &cli.Command{
	Name:  "solve",
	Usage: "solve an MPS or OPB/PB model with penalty-augmented tabu search",
	Flags: flagsSlice(
		"mps", "opb", "fixed-names", "hints",
		"seed", "iteration-max", "time-max", "target-objective", "use-target-objective",
		"screening", "tabu-mode", "lagrange", "warm-start", "local-search",
		"json-out", "history-out", "trend-out", "quiet", "verbose", "config",
	),
	Before: validateSolveFlags,
	Action: solveAction,
}

func validateSolveFlags(ctx context.Context, c *cli.Command) (context.Context, error) {
	mpsFile, opbFile := c.String("mps"), c.String("opb")
	if (mpsFile == "") == (opbFile == "") {
		return ctx, fmt.Errorf("solve: exactly one of --mps or --opb is required")
	}
	if c.Float64("time-max") <= 0 {
		return ctx, fmt.Errorf("solve: --time-max must be > 0")
	}
	switch strings.ToLower(c.String("screening")) {
	case "off", "soft", "aggressive", "intensive", "automatic":
	default:
		return ctx, fmt.Errorf("solve: invalid --screening %q", c.String("screening"))
	}
	switch strings.ToLower(c.String("tabu-mode")) {
	case "all", "any":
	default:
		return ctx, fmt.Errorf("solve: invalid --tabu-mode %q", c.String("tabu-mode"))
	}
	if _, ok := util.ParseVerbosity(c.String("verbose")); !ok {
		return ctx, fmt.Errorf("solve: invalid --verbose %q", c.String("verbose"))
	}
	return ctx, nil
}

func solveAction(ctx context.Context, c *cli.Command) error {
	m, err := loadModel(c)
	if err != nil {
		return err
	}

	if fixedNames := c.String("fixed-names"); fixedNames != "" {
		if err := applyFixedNames(m, fixedNames); err != nil {
			return err
		}
	}
	if hints := c.String("hints"); hints != "" {
		if err := applyHints(m, hints); err != nil {
			return err
		}
	}

	opt, err := optionsFromFlags(c, m)
	if err != nil {
		return err
	}

	var trendWriter *jsonio.TrendWriter
	if trendPath := c.String("trend-out"); trendPath != "" {
		f, err := os.Create(trendPath)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		defer util.CloseFile(f)
		trendWriter = jsonio.NewTrendWriter(f)
		opt.OnTrendPoint = func(p result.TrendPoint) {
			util.Must0(trendWriter.WriteRow(p))
		}
	}

	res, err := controller.Solve(ctx, m, opt)
	if res == nil {
		return fmt.Errorf("solve: %w", err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "solve: %v, reporting best solution found\n", err)
	}

	sol := res.Solution
	sol.Name = modelDisplayName(c)
	m.Restore(sol.Variables)

	if !c.Bool("quiet") {
		report.WriteSummary(os.Stdout, sol)
		report.WriteVariables(os.Stdout, m, sol)
		if !sol.IsFeasible {
			report.WriteViolatedConstraints(os.Stdout, m)
		}
	}

	if jsonPath := c.String("json-out"); jsonPath != "" {
		if err := writeJSON(jsonPath, jsonio.BuildNamedSolution(m, sol)); err != nil {
			return err
		}
	}
	if historyPath := c.String("history-out"); historyPath != "" {
		doc := jsonio.BuildHistory(sol.Name, m.NumVariables(), m.NumConstraints(), res.History)
		if err := writeJSON(historyPath, doc); err != nil {
			return err
		}
	}

	return nil
}

func loadModel(c *cli.Command) (*model.Model, error) {
	if mpsFile := c.String("mps"); mpsFile != "" {
		f, err := os.Open(mpsFile)
		if err != nil {
			return nil, fmt.Errorf("solve: %w", err)
		}
		defer util.CloseFile(f)
		return mps.Read(f, modelNameFromPath(mpsFile))
	}
	opbFile := c.String("opb")
	f, err := os.Open(opbFile)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	defer util.CloseFile(f)
	return opb.Read(f, modelNameFromPath(opbFile))
}

func modelNameFromPath(path string) string {
	name := path
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

func modelDisplayName(c *cli.Command) string {
	if mpsFile := c.String("mps"); mpsFile != "" {
		return modelNameFromPath(mpsFile)
	}
	return modelNameFromPath(c.String("opb"))
}

// applyFixedNames reads a whitespace-separated name set and fixes each
// named variable at its current value, mirroring the "auxiliary
// fixed-variable input file" external collaborator described alongside
// MPS/OPB input.
func applyFixedNames(m *model.Model, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	defer util.CloseFile(f)
	names, err := auxio.ReadNames(f)
	if err != nil {
		return err
	}
	for name := range names {
		id, ok := m.VariableByName(name)
		if !ok {
			return fmt.Errorf("solve: fixed-names: unknown variable %q", name)
		}
		v := m.Variable(id)
		v.Lower, v.Upper = v.Value, v.Value
		v.Fixed = true
	}
	return nil
}

// applyHints reads a solution-hint file and seeds each named variable's
// starting value, clamped into its bounds the way the presolver's
// initial-value correction pass does for user-supplied starts.
func applyHints(m *model.Model, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	defer util.CloseFile(f)
	hints, err := auxio.ReadSolutionHints(f)
	if err != nil {
		return err
	}
	for name, value := range hints {
		id, ok := m.VariableByName(name)
		if !ok {
			return fmt.Errorf("solve: hints: unknown variable %q", name)
		}
		v := m.Variable(id)
		if value < v.Lower {
			value = v.Lower
		}
		if value > v.Upper {
			value = v.Upper
		}
		v.Value = value
	}
	return nil
}

func writeJSON(path string, doc any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	defer util.CloseFile(f)
	switch d := doc.(type) {
	case jsonio.NamedSolutionDoc:
		return jsonio.WriteNamedSolution(f, d)
	case jsonio.HistoryDoc:
		return jsonio.WriteHistory(f, d)
	default:
		return fmt.Errorf("solve: unsupported document type %T", doc)
	}
}

// optionsFromFlags builds controller.Options from, in precedence order
// low to high: controller.DefaultOptions, an optional --config JSON
// document, then any flag the user actually passed (c.IsSet), the same
// override-only-if-set idiom cmd/keycraft/helpers.go uses for
// --row-load/--finger-load/--pinky-penalties over their config defaults.
func optionsFromFlags(c *cli.Command, m *model.Model) (controller.Options, error) {
	opt := controller.DefaultOptions()

	if configPath := c.String("config"); configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return opt, fmt.Errorf("solve: %w", err)
		}
		doc, err := config.Load(f)
		util.CloseFile(f)
		if err != nil {
			return opt, err
		}
		opt, err = config.Apply(opt, doc)
		if err != nil {
			return opt, err
		}
	}

	if c.IsSet("seed") {
		opt.Seed = c.Int64("seed")
	}
	if c.IsSet("iteration-max") {
		opt.OuterIterationMax = c.Int("iteration-max")
	}
	if c.IsSet("time-max") {
		opt.OuterTimeMax = time.Duration(c.Float64("time-max") * float64(time.Second))
	}

	if c.Bool("use-target-objective") {
		opt.UseTargetObjective = true
		target := c.Int64("target-objective")
		if m.Objective().OriginalSense == model.Maximize {
			target = -target
		}
		opt.TargetObjectiveValue = target
	}

	if c.IsSet("screening") {
		screening := map[string]evaluate.ScreeningMode{
			"off":        evaluate.ScreeningOff,
			"soft":       evaluate.ScreeningSoft,
			"aggressive": evaluate.ScreeningAggressive,
			"intensive":  evaluate.ScreeningIntensive,
			"automatic":  evaluate.ScreeningAutomatic,
		}[strings.ToLower(c.String("screening"))]
		opt.Screening = screening
	}

	if c.IsSet("tabu-mode") {
		tabuMode := tabusearch.TabuModeAll
		if strings.ToLower(c.String("tabu-mode")) == "any" {
			tabuMode = tabusearch.TabuModeAny
		}
		for i := range opt.TabuVariants {
			opt.TabuVariants[i].TabuMode = tabuMode
		}
	}

	if c.IsSet("lagrange") {
		opt.UseLagrange = c.Bool("lagrange")
	}
	if c.IsSet("warm-start") {
		opt.UseWarmStart = c.Bool("warm-start")
	}
	if c.IsSet("local-search") {
		opt.UseLocalSearch = c.Bool("local-search")
	}

	if c.IsSet("verbose") {
		level, _ := util.ParseVerbosity(c.String("verbose"))
		opt.Logger = util.NewLogger(level)
	}

	return opt, nil
}
