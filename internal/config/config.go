// Package config loads a solver configuration document (JSON) into a flat
// set of fields and applies it on top of controller.DefaultOptions,
// mirroring cmd/keycraft/experiment.go's os.ReadFile+json.Unmarshal idiom
// for loading external documents (that package reads layout/author JSON
// files the same direct way). This is the file-based counterpart to
// cmd/tabumh's flags: a solve invocation may combine a --config file with
// individual flag overrides, the file supplying a baseline and flags
// taking precedence field-by-field.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-metaheuristics/tabumh/internal/controller"
	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/lagrange"
	"github.com/go-metaheuristics/tabumh/internal/penalty"
	"github.com/go-metaheuristics/tabumh/internal/presolve"
	"github.com/go-metaheuristics/tabumh/internal/tabusearch"
	"github.com/go-metaheuristics/tabumh/internal/util"
	"github.com/go-metaheuristics/tabumh/internal/warmstart"
)

// Document is the on-disk shape of a solver configuration file: one field
// per configuration group named in spec.md §6 (General, Preprocess,
// Penalty, Tabu-search, Lagrange, WarmStart, Parallel). Every field is a pointer so
// a document can omit a group entirely and leave controller.DefaultOptions
// untouched for it.
type Document struct {
	General    *General    `json:"general,omitempty"`
	Preprocess *Preprocess `json:"preprocess,omitempty"`
	Penalty    *Penalty    `json:"penalty,omitempty"`
	TabuSearch *TabuSearch `json:"tabu_search,omitempty"`
	Lagrange   *Lagrange   `json:"lagrange,omitempty"`
	WarmStart  *WarmStart  `json:"warm_start,omitempty"`
	Parallel   *Parallel   `json:"parallel,omitempty"`
}

type General struct {
	Seed              *int64   `json:"seed,omitempty"`
	IterationMax      *int     `json:"iteration_max,omitempty"`
	TimeMaxSeconds     *float64 `json:"time_max_seconds,omitempty"`
	Screening         *string  `json:"screening,omitempty"`
	UseLagrange       *bool    `json:"use_lagrange,omitempty"`
	UseWarmStart      *bool    `json:"use_warm_start,omitempty"`
	UseLocalSearch    *bool    `json:"use_local_search,omitempty"`
	TargetObjective   *int64   `json:"target_objective,omitempty"`
	HistoryCapacity   *int     `json:"history_capacity,omitempty"`
	Verbose           *string  `json:"verbose,omitempty"`
}

type Preprocess struct {
	EnableBoundTightening      *bool `json:"enable_bound_tightening,omitempty"`
	EnableFixOnTightBound      *bool `json:"enable_fix_on_tight_bound,omitempty"`
	EnableDuplicateRemoval     *bool `json:"enable_duplicate_removal,omitempty"`
	EnableRedundantElimination *bool `json:"enable_redundant_elimination,omitempty"`
	EnableImplicitEquality     *bool `json:"enable_implicit_equality,omitempty"`
	EnableDependentExtraction  *bool `json:"enable_dependent_extraction,omitempty"`
	EnableInitialValueCorrect  *bool `json:"enable_initial_value_correct,omitempty"`
	MaxPasses                  *int  `json:"max_passes,omitempty"`
}

type Penalty struct {
	InitialCoefficient         *float64 `json:"initial_coefficient,omitempty"`
	TighteningRate             *float64 `json:"tightening_rate,omitempty"`
	RelaxingRate               *float64 `json:"relaxing_rate,omitempty"`
	RelaxingRateMin            *float64 `json:"relaxing_rate_min,omitempty"`
	RelaxingRateMax            *float64 `json:"relaxing_rate_max,omitempty"`
	RelaxingRateIncreaseFactor *float64 `json:"relaxing_rate_increase_factor,omitempty"`
	RelaxingRateDecreaseFactor *float64 `json:"relaxing_rate_decrease_factor,omitempty"`
	InnerStagnationThreshold   *int     `json:"inner_stagnation_threshold,omitempty"`
	OuterStagnationThreshold   *int     `json:"outer_stagnation_threshold,omitempty"`
	GroupByShape               *bool    `json:"group_by_shape,omitempty"`
	FloorCoefficient           *float64 `json:"floor_coefficient,omitempty"`
	CeilingCoefficient         *float64 `json:"ceiling_coefficient,omitempty"`
}

// TabuSearch configures the base variant in controller.Options.TabuVariants;
// DefaultOptions' conservative/aggressive spread is derived from it by the
// same offsets DefaultOptions itself applies.
type TabuSearch struct {
	IterationMax                  *int     `json:"iteration_max,omitempty"`
	TimeMaxSeconds                 *float64 `json:"time_max_seconds,omitempty"`
	InitialTabuTenure              *int64   `json:"initial_tabu_tenure,omitempty"`
	TabuMode                       *string  `json:"tabu_mode,omitempty"`
	TenureMin                      *int64   `json:"tenure_min,omitempty"`
	TenureMax                      *int64   `json:"tenure_max,omitempty"`
	AutomaticTabuTenureAdjustment  *bool    `json:"automatic_tabu_tenure_adjustment,omitempty"`
	OscillationWindow              *int     `json:"oscillation_window,omitempty"`
	AutomaticBreak                 *bool    `json:"automatic_break,omitempty"`
	AutomaticBreakWindow           *int     `json:"automatic_break_window,omitempty"`
	IgnoreTabuIfGlobalIncumbent    *bool    `json:"ignore_tabu_if_global_incumbent,omitempty"`
	NumberOfInitialModification    *int     `json:"number_of_initial_modification,omitempty"`
	PruningRateThreshold           *float64 `json:"pruning_rate_threshold,omitempty"`
	MovePreserveRate               *float64 `json:"move_preserve_rate,omitempty"`
}

type Lagrange struct {
	IterationMax       *int     `json:"iteration_max,omitempty"`
	TimeMaxSeconds     *float64 `json:"time_max_seconds,omitempty"`
	StepSizeExtendRate *float64 `json:"step_size_extend_rate,omitempty"`
	StepSizeReduceRate *float64 `json:"step_size_reduce_rate,omitempty"`
	Tolerance          *float64 `json:"tolerance,omitempty"`
	QueueSize          *float64 `json:"queue_size,omitempty"`
	LogInterval        *int     `json:"log_interval,omitempty"`
}

type WarmStart struct {
	Generations      *uint   `json:"generations,omitempty"`
	AcceptSchedule   *string `json:"accept_schedule,omitempty"`
	MutationsPerStep *int    `json:"mutations_per_step,omitempty"`
}

type Parallel struct {
	MoveUpdateThreads       *int     `json:"move_update_threads,omitempty"`
	UseAutomaticEvaluation  *bool    `json:"use_automatic_evaluation_parallelism,omitempty"`
	EvaluationMaxWorkers    *int     `json:"evaluation_max_workers,omitempty"`
	EvaluationDecayFactor   *float64 `json:"evaluation_decay_factor,omitempty"`
}

// Load reads and unmarshals a Document from r.
func Load(r io.Reader) (Document, error) {
	var doc Document
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("config: %w", err)
	}
	return doc, nil
}

var screeningModes = map[string]evaluate.ScreeningMode{
	"off":        evaluate.ScreeningOff,
	"soft":       evaluate.ScreeningSoft,
	"aggressive": evaluate.ScreeningAggressive,
	"intensive":  evaluate.ScreeningIntensive,
	"automatic":  evaluate.ScreeningAutomatic,
}

func tabuMode(s string) (tabusearch.TabuMode, error) {
	switch s {
	case "all":
		return tabusearch.TabuModeAll, nil
	case "any":
		return tabusearch.TabuModeAny, nil
	default:
		return 0, fmt.Errorf("config: invalid tabu_mode %q", s)
	}
}

// Apply overlays doc onto base, returning the merged options. Groups the
// document omits leave base untouched for every field in that group;
// every individually-set pointer field overrides the corresponding base
// field. The TabuSearch group rebuilds opt.TabuVariants' conservative/base/
// aggressive spread the same way controller.DefaultOptions derives it, so
// a file-supplied tenure baseline still fans out into a bandit spread
// instead of collapsing to a single variant.
func Apply(base controller.Options, doc Document) (controller.Options, error) {
	opt := base

	if g := doc.General; g != nil {
		if g.Seed != nil {
			opt.Seed = *g.Seed
		}
		if g.IterationMax != nil {
			opt.OuterIterationMax = *g.IterationMax
		}
		if g.TimeMaxSeconds != nil {
			opt.OuterTimeMax = time.Duration(*g.TimeMaxSeconds * float64(time.Second))
		}
		if g.Screening != nil {
			mode, ok := screeningModes[*g.Screening]
			if !ok {
				return opt, fmt.Errorf("config: invalid screening %q", *g.Screening)
			}
			opt.Screening = mode
		}
		if g.UseLagrange != nil {
			opt.UseLagrange = *g.UseLagrange
		}
		if g.UseWarmStart != nil {
			opt.UseWarmStart = *g.UseWarmStart
		}
		if g.UseLocalSearch != nil {
			opt.UseLocalSearch = *g.UseLocalSearch
		}
		if g.TargetObjective != nil {
			opt.UseTargetObjective = true
			opt.TargetObjectiveValue = *g.TargetObjective
		}
		if g.HistoryCapacity != nil {
			opt.HistoryCapacity = *g.HistoryCapacity
		}
		if g.Verbose != nil {
			level, ok := util.ParseVerbosity(*g.Verbose)
			if !ok {
				return opt, fmt.Errorf("config: invalid verbose %q", *g.Verbose)
			}
			opt.Logger = util.NewLogger(level)
		}
	}

	if p := doc.Preprocess; p != nil {
		applyPreprocess(&opt.Presolve, p)
	}

	if p := doc.Penalty; p != nil {
		applyPenalty(&opt.Penalty, p)
	}

	if l := doc.Lagrange; l != nil {
		applyLagrange(&opt.LagrangeOptions, l)
	}

	if w := doc.WarmStart; w != nil {
		applyWarmStart(&opt.WarmStart, w)
	}

	if ts := doc.TabuSearch; ts != nil {
		variant, err := applyTabuSearch(tabusearch.DefaultOptions(), ts)
		if err != nil {
			return opt, err
		}
		aggressive := variant
		aggressive.InitialTabuTenure = variant.InitialTabuTenure + 8
		aggressive.TenureMin = variant.TenureMin + 2
		aggressive.TenureMax = variant.TenureMax + 20
		conservative := variant
		conservative.InitialTabuTenure = max64(1, variant.InitialTabuTenure-4)
		conservative.TenureMin = max64(1, variant.TenureMin-2)
		conservative.TenureMax = max64(conservative.TenureMin+1, variant.TenureMax-20)
		opt.TabuVariants = []tabusearch.Options{conservative, variant, aggressive}
	}

	// Parallel is applied last so MoveUpdateThreads lands on whatever
	// TabuVariants spread the TabuSearch group (or the base) produced,
	// instead of being wiped out by a later variant rebuild.
	if par := doc.Parallel; par != nil {
		if par.UseAutomaticEvaluation != nil {
			opt.UseAutomaticEvaluationParallelism = *par.UseAutomaticEvaluation
		}
		if par.EvaluationMaxWorkers != nil {
			opt.EvaluationMaxWorkers = *par.EvaluationMaxWorkers
		}
		if par.EvaluationDecayFactor != nil {
			opt.EvaluationParallelismDecay = *par.EvaluationDecayFactor
		}
		if par.MoveUpdateThreads != nil {
			for i := range opt.TabuVariants {
				opt.TabuVariants[i].MoveUpdateParallelismHint = *par.MoveUpdateThreads
			}
		}
	}

	return opt, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func applyPreprocess(opt *presolve.Options, p *Preprocess) {
	if p.EnableBoundTightening != nil {
		opt.EnableBoundTightening = *p.EnableBoundTightening
	}
	if p.EnableFixOnTightBound != nil {
		opt.EnableFixOnTightBound = *p.EnableFixOnTightBound
	}
	if p.EnableDuplicateRemoval != nil {
		opt.EnableDuplicateRemoval = *p.EnableDuplicateRemoval
	}
	if p.EnableRedundantElimination != nil {
		opt.EnableRedundantElimination = *p.EnableRedundantElimination
	}
	if p.EnableImplicitEquality != nil {
		opt.EnableImplicitEquality = *p.EnableImplicitEquality
	}
	if p.EnableDependentExtraction != nil {
		opt.EnableDependentExtraction = *p.EnableDependentExtraction
	}
	if p.EnableInitialValueCorrect != nil {
		opt.EnableInitialValueCorrect = *p.EnableInitialValueCorrect
	}
	if p.MaxPasses != nil {
		opt.MaxPasses = *p.MaxPasses
	}
}

func applyPenalty(opt *penalty.Options, p *Penalty) {
	if p.InitialCoefficient != nil {
		opt.InitialCoefficient = *p.InitialCoefficient
	}
	if p.TighteningRate != nil {
		opt.TighteningRate = *p.TighteningRate
	}
	if p.RelaxingRate != nil {
		opt.RelaxingRate = *p.RelaxingRate
	}
	if p.RelaxingRateMin != nil {
		opt.RelaxingRateMin = *p.RelaxingRateMin
	}
	if p.RelaxingRateMax != nil {
		opt.RelaxingRateMax = *p.RelaxingRateMax
	}
	if p.RelaxingRateIncreaseFactor != nil {
		opt.RelaxingRateIncreaseFactor = *p.RelaxingRateIncreaseFactor
	}
	if p.RelaxingRateDecreaseFactor != nil {
		opt.RelaxingRateDecreaseFactor = *p.RelaxingRateDecreaseFactor
	}
	if p.InnerStagnationThreshold != nil {
		opt.InnerStagnationThreshold = *p.InnerStagnationThreshold
	}
	if p.OuterStagnationThreshold != nil {
		opt.OuterStagnationThreshold = *p.OuterStagnationThreshold
	}
	if p.GroupByShape != nil {
		opt.GroupByShape = *p.GroupByShape
	}
	if p.FloorCoefficient != nil {
		opt.FloorCoefficient = *p.FloorCoefficient
	}
	if p.CeilingCoefficient != nil {
		opt.CeilingCoefficient = *p.CeilingCoefficient
	}
}

func applyLagrange(opt *lagrange.Options, l *Lagrange) {
	if l.IterationMax != nil {
		opt.IterationMax = *l.IterationMax
	}
	if l.TimeMaxSeconds != nil {
		opt.TimeMax = time.Duration(*l.TimeMaxSeconds * float64(time.Second))
	}
	if l.StepSizeExtendRate != nil {
		opt.StepSizeExtendRate = *l.StepSizeExtendRate
	}
	if l.StepSizeReduceRate != nil {
		opt.StepSizeReduceRate = *l.StepSizeReduceRate
	}
	if l.Tolerance != nil {
		opt.Tolerance = *l.Tolerance
	}
	if l.QueueSize != nil {
		opt.SetQueueSize(*l.QueueSize)
	}
	if l.LogInterval != nil {
		opt.LogInterval = *l.LogInterval
	}
}

func applyWarmStart(opt *warmstart.Options, w *WarmStart) {
	if w.Generations != nil {
		opt.Generations = *w.Generations
	}
	if w.AcceptSchedule != nil {
		opt.AcceptSchedule = warmstart.AcceptSchedule(*w.AcceptSchedule)
	}
	if w.MutationsPerStep != nil {
		opt.MutationsPerStep = *w.MutationsPerStep
	}
}

func applyTabuSearch(base tabusearch.Options, ts *TabuSearch) (tabusearch.Options, error) {
	opt := base
	if ts.IterationMax != nil {
		opt.IterationMax = *ts.IterationMax
	}
	if ts.TimeMaxSeconds != nil {
		opt.TimeMax = time.Duration(*ts.TimeMaxSeconds * float64(time.Second))
	}
	if ts.InitialTabuTenure != nil {
		opt.InitialTabuTenure = *ts.InitialTabuTenure
	}
	if ts.TabuMode != nil {
		mode, err := tabuMode(*ts.TabuMode)
		if err != nil {
			return opt, err
		}
		opt.TabuMode = mode
	}
	if ts.TenureMin != nil {
		opt.TenureMin = *ts.TenureMin
	}
	if ts.TenureMax != nil {
		opt.TenureMax = *ts.TenureMax
	}
	if ts.AutomaticTabuTenureAdjustment != nil {
		opt.AutomaticTabuTenureAdjustment = *ts.AutomaticTabuTenureAdjustment
	}
	if ts.OscillationWindow != nil {
		opt.OscillationWindow = *ts.OscillationWindow
	}
	if ts.AutomaticBreak != nil {
		opt.AutomaticBreak = *ts.AutomaticBreak
	}
	if ts.AutomaticBreakWindow != nil {
		opt.AutomaticBreakWindow = *ts.AutomaticBreakWindow
	}
	if ts.IgnoreTabuIfGlobalIncumbent != nil {
		opt.IgnoreTabuIfGlobalIncumbent = *ts.IgnoreTabuIfGlobalIncumbent
	}
	if ts.NumberOfInitialModification != nil {
		opt.NumberOfInitialModification = *ts.NumberOfInitialModification
	}
	if ts.PruningRateThreshold != nil {
		opt.PruningRateThreshold = *ts.PruningRateThreshold
	}
	if ts.MovePreserveRate != nil {
		opt.MovePreserveRate = *ts.MovePreserveRate
	}
	return opt, nil
}
