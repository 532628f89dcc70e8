package controller

import (
	"time"

	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/lagrange"
	"github.com/go-metaheuristics/tabumh/internal/localsearch"
	"github.com/go-metaheuristics/tabumh/internal/penalty"
	"github.com/go-metaheuristics/tabumh/internal/presolve"
	"github.com/go-metaheuristics/tabumh/internal/result"
	"github.com/go-metaheuristics/tabumh/internal/tabusearch"
	"github.com/go-metaheuristics/tabumh/internal/util"
	"github.com/go-metaheuristics/tabumh/internal/warmstart"
)

// Options parameterizes a full Solve call: one outer controller loop over
// repeated tabu-search episodes, with optional Lagrangian seeding, warm
// start, and local-search polish.
type Options struct {
	Presolve presolve.Options

	// TabuVariants is the set of tabu-search parameter tuples the UCB1
	// bandit chooses among, one per outer iteration. Must be non-empty;
	// DefaultOptions supplies a small spread of
	// tenure/initial-modification/pruning combinations.
	TabuVariants []tabusearch.Options
	BanditDecay  float64

	Penalty penalty.Options

	UseLagrange     bool
	LagrangeOptions lagrange.Options

	UseWarmStart bool
	WarmStart    warmstart.Options

	UseLocalSearch     bool
	LocalSearchOptions localsearch.Options

	Screening evaluate.ScreeningMode

	// UseAutomaticEvaluationParallelism enables evaluate.Parallelism's
	// decaying-threshold worker-count heuristic for move-batch scoring
	// (spec's is_enabled_automatic_move_evaluation_parallelization); off by
	// default, in which case move batches are scored on a single worker.
	UseAutomaticEvaluationParallelism bool
	// EvaluationMaxWorkers bounds the worker pool evaluate.Parallelism may
	// grow to; 0 means GOMAXPROCS.
	EvaluationMaxWorkers int
	// EvaluationParallelismDecay smooths the moving-average move-count
	// evaluate.Parallelism tracks (spec's decay_factor_move_evaluation).
	EvaluationParallelismDecay float64

	OuterIterationMax int
	OuterTimeMax      time.Duration

	// UseTargetObjective enables an early stop: once the global incumbent's
	// feasible objective reaches TargetObjectiveValue (at or below it,
	// since the model is canonicalized to minimization), the outer loop
	// stops and reports StatusOptimal instead of running to the
	// iteration/time limit.
	UseTargetObjective   bool
	TargetObjectiveValue int64

	HistoryCapacity int
	Seed            int64

	// FeasibilityShrinkFactor scales the penalty floor ShrinkOnFeasibility
	// uses once any feasible solution has been found: minimum is the
	// smallest LocalPenalty observed across constraints times this factor.
	FeasibilityShrinkFactor float64

	// OnTrendPoint, if set, is called once per outer iteration with the
	// episode's resulting objective/violation and the running incumbent,
	// letting a caller stream an optional per-iteration trend file without
	// this package depending on internal/jsonio (cmd/tabumh wires the two
	// together).
	OnTrendPoint func(result.TrendPoint)

	// Logger receives one Outer-level line per outer iteration and a
	// Warning-level line on every outer iteration in which the objective
	// expression's Saturated flag is set (constraint expressions are not
	// checked).
	// Nil disables all output, equivalent to util.VerboseOff.
	Logger *util.Logger
}

// DefaultOptions returns a small, always-terminating configuration: three
// tabu-search variants spanning conservative to aggressive tenure, no
// Lagrangian relaxation or warm start (both opt-in, since they add
// meaningful runtime), local-search polish enabled.
func DefaultOptions() Options {
	base := tabusearch.DefaultOptions()
	aggressive := base
	aggressive.InitialTabuTenure = 15
	aggressive.TenureMin = 5
	aggressive.TenureMax = 50
	conservative := base
	conservative.InitialTabuTenure = 3
	conservative.TenureMin = 1
	conservative.TenureMax = 10

	return Options{
		Presolve:                presolve.DefaultOptions(),
		TabuVariants:            []tabusearch.Options{conservative, base, aggressive},
		BanditDecay:             0.98,
		Penalty:                 penalty.DefaultOptions(),
		UseLagrange:             false,
		LagrangeOptions:         lagrange.DefaultOptions(),
		UseWarmStart:            false,
		WarmStart:               warmstart.DefaultOptions(),
		UseLocalSearch:          true,
		LocalSearchOptions:      localsearch.Options{},
		Screening:                         evaluate.ScreeningAutomatic,
		UseAutomaticEvaluationParallelism: false,
		EvaluationParallelismDecay:        0.2,
		OuterIterationMax:       200,
		OuterTimeMax:            5 * time.Minute,
		HistoryCapacity:         50,
		Seed:                    1,
		FeasibilityShrinkFactor: 2,
		Logger:                  util.NewLogger(util.VerboseOff),
	}
}
