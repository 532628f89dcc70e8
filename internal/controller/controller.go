// Package controller runs the outer solve loop: presolve, classify, an
// optional Lagrangian dual seed and simulated-annealing warm start, then
// repeated penalty-augmented tabu-search episodes with a UCB1 bandit
// choosing each episode's parameters and an optional local-search polish
// between episodes, until a global stopping condition is hit. Grounded
// on bls.go's Optimize outer loop (steepest-descent phase, perturbation
// phase, omega/L/T stagnation escalation), generalized from a single
// scalar jump magnitude to a discrete bandit over tabu-search parameter
// tuples plus a penalty controller in place of the perturbation step.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/go-metaheuristics/tabumh/internal/classify"
	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/lagrange"
	"github.com/go-metaheuristics/tabumh/internal/localsearch"
	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/movegen"
	"github.com/go-metaheuristics/tabumh/internal/penalty"
	"github.com/go-metaheuristics/tabumh/internal/presolve"
	"github.com/go-metaheuristics/tabumh/internal/result"
	"github.com/go-metaheuristics/tabumh/internal/tabusearch"
	"github.com/go-metaheuristics/tabumh/internal/util"
	"github.com/go-metaheuristics/tabumh/internal/warmstart"
)

// Result is what a Solve call returns: the best solution found
// (feasible-preferred) with its terminal status, the feasible-solution
// archive, the number of outer iterations run, and the Lagrangian dual and
// presolve reports. The per-iteration trend is not stored here; it is
// streamed through Options.OnTrendPoint.
type Result struct {
	Solution        result.Solution
	History         *result.History
	OuterIterations int
	LagrangeDual    *lagrange.Result
	PresolveReport  *presolve.Report
}

// Solve runs the full controller loop over m, which must not have been
// passed to a previous Solve call (model.Consume enforces this).
func Solve(ctx context.Context, m *model.Model, opt Options) (*Result, error) {
	if err := m.Consume(); err != nil {
		return nil, result.NewError(result.ErrInternalInvariant, err.Error(), err)
	}
	if len(opt.TabuVariants) == 0 {
		return nil, result.NewError(result.ErrValidation, "controller: Options.TabuVariants must be non-empty", nil)
	}

	presolveReport, err := presolve.Run(m, opt.Presolve)
	if err != nil {
		return nil, result.NewError(result.ErrInfeasibleModel, err.Error(), err)
	}

	classify.Run(m)
	if err := m.Freeze(); err != nil {
		return nil, result.NewError(result.ErrInternalInvariant, err.Error(), err)
	}

	cat := movegen.NewCatalogue()
	cat.SetupAll(m)
	ev := evaluate.New(opt.Screening)
	if opt.UseAutomaticEvaluationParallelism {
		ev.Parallelism = evaluate.NewParallelism(opt.EvaluationMaxWorkers, opt.EvaluationParallelismDecay)
	}

	penaltyCtrl := penalty.New(m, opt.Penalty)

	res := &Result{PresolveReport: presolveReport}

	if opt.UseLagrange {
		lagOpt := opt.LagrangeOptions
		lagOpt.TimeOffset = 0
		lagOpt.Logger = opt.Logger
		lr, err := lagrange.Run(ctx, m, lagOpt)
		if err != nil {
			return nil, err
		}
		penaltyCtrl.SeedFromLagrange(m, lr.Lambda)
		res.LagrangeDual = lr
	}

	if opt.UseWarmStart {
		values, err := warmstart.Seed(m, penalty.LocalPenalties(m), penalty.GlobalPenalties(m), opt.WarmStart)
		if err != nil {
			return nil, err
		}
		m.Restore(values)
	}

	bandit := util.NewUCB1(len(opt.TabuVariants), opt.BanditDecay)
	rng := util.NewRNG(opt.Seed)
	incumbent := result.New()
	history := result.NewHistory(opt.HistoryCapacity)

	targetReached := false
	start := time.Now()
	for res.OuterIterations = 0; opt.OuterIterationMax <= 0 || res.OuterIterations < opt.OuterIterationMax; res.OuterIterations++ {
		if opt.OuterTimeMax > 0 && time.Since(start) >= opt.OuterTimeMax {
			break
		}
		select {
		case <-ctx.Done():
			return finalize(m, incumbent, history, res, false, presolveReport, ctx.Err())
		default:
		}

		arm := bandit.Select()
		variant := opt.TabuVariants[arm]

		epResult, err := tabusearch.Run(ctx, m, cat, ev, penalty.LocalPenalties(m), penalty.GlobalPenalties(m),
			variant, rng, incumbent.GlobalObjective(), incumbent.HasGlobal())
		if err != nil {
			return finalize(m, incumbent, history, res, false, presolveReport, err)
		}

		m.Restore(epResult.BestSnapshot)

		if opt.UseLocalSearch {
			if _, err := localsearch.Run(ctx, m, cat, ev, penalty.LocalPenalties(m), penalty.GlobalPenalties(m), opt.LocalSearchOptions); err != nil {
				return finalize(m, incumbent, history, res, false, presolveReport, err)
			}
		}

		snapshot := m.Snapshot()
		objective := m.Objective().Value()
		violation := m.TotalViolation()
		localAug := augmentedObjective(m, penalty.LocalPenalties(m))
		globalAug := augmentedObjective(m, penalty.GlobalPenalties(m))

		status := incumbent.Update(snapshot, objective, violation, localAug, globalAug)
		improved := status != result.UpdateNone

		penaltyCtrl.UpdateAfterEpisode(m)
		penaltyCtrl.AdaptRelaxingRate(globalAug)

		reward := 0.0
		if improved {
			reward = 1.0
		}
		bandit.Update(arm, reward)

		if violation == 0 {
			history.Add(snapshot, objective)
			penaltyCtrl.ShrinkOnFeasibility(m, minLocalPenalty(m)*opt.FeasibilityShrinkFactor)
		}

		resetInner, resetOuter := penaltyCtrl.NoteStagnation(improved)
		_ = resetInner
		if resetOuter {
			if sample, ok := history.Sample(rng); ok {
				m.Restore(sample.Snapshot)
			}
			penaltyCtrl.ResetToInitial(m)
		}

		if m.Objective().Expr.Saturated {
			opt.Logger.Warning("controller: objective accumulation saturated at ±%d on iteration %d", model.IntHalfMax, res.OuterIterations)
		}

		opt.Logger.Outer("iteration %d: objective=%d violation=%d arm=%d reward=%.0f", res.OuterIterations, objective, violation, arm, reward)

		if opt.OnTrendPoint != nil {
			bestObjective, bestViolation := objective, violation
			if incumbent.HasGlobal() {
				bestObjective, bestViolation = incumbent.GlobalObjective(), incumbent.GlobalViolation()
			}
			opt.OnTrendPoint(result.TrendPoint{
				Iteration:     res.OuterIterations,
				Objective:     objective,
				Violation:     violation,
				BestObjective: bestObjective,
				BestViolation: bestViolation,
				PenaltyScale:  averagePenalty(penalty.GlobalPenalties(m)),
			})
		}

		if opt.UseTargetObjective && incumbent.HasFeasible() && incumbent.FeasibleObjective() <= opt.TargetObjectiveValue {
			targetReached = true
			break
		}
	}

	return finalize(m, incumbent, history, res, targetReached, presolveReport, nil)
}

func augmentedObjective(m *model.Model, penalties []float64) float64 {
	violations := make([]float64, m.NumConstraints())
	for i := range m.Constraints() {
		violations[i] = float64(m.Constraint(model.ConstraintID(i)).CachedViolation())
	}
	return model.AugmentedObjective(m.Objective().Value(), penalties, violations)
}

func averagePenalty(penalties []float64) float64 {
	if len(penalties) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range penalties {
		sum += p
	}
	return sum / float64(len(penalties))
}

func minLocalPenalty(m *model.Model) float64 {
	min := -1.0
	for i := range m.Constraints() {
		p := m.Constraint(model.ConstraintID(i)).LocalPenalty
		if min < 0 || p < min {
			min = p
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

// reportObjective converts a canonical (minimization) objective value back
// to the model's original user-facing sense.
func reportObjective(m *model.Model, canonical int64) int64 {
	if m.Objective().OriginalSense == model.Maximize {
		return -canonical
	}
	return canonical
}

func finalize(m *model.Model, incumbent *result.IncumbentHolder, history *result.History, res *Result, targetReached bool, _ *presolve.Report, solveErr error) (*Result, error) {
	res.History = history

	switch {
	case incumbent.HasFeasible():
		status := result.StatusFeasible
		if targetReached {
			status = result.StatusOptimal
		}
		res.Solution = result.Solution{
			Status:         status,
			Objective:      reportObjective(m, incumbent.FeasibleObjective()),
			TotalViolation: 0,
			IsFeasible:     true,
			Variables:      incumbent.FeasibleSnapshot(),
		}
	case incumbent.HasGlobal():
		res.Solution = result.Solution{
			Status:         result.StatusInfeasible,
			Objective:      reportObjective(m, incumbent.GlobalObjective()),
			TotalViolation: incumbent.GlobalViolation(),
			IsFeasible:     false,
			Variables:      incumbent.GlobalSnapshot(),
		}
	default:
		res.Solution = result.Solution{
			Status:     result.StatusInfeasible,
			Variables:  m.Snapshot(),
			IsFeasible: false,
		}
	}

	if solveErr != nil {
		if res.Solution.Status != result.StatusOptimal {
			res.Solution.Status = result.StatusError
		}
		return res, fmt.Errorf("controller: solve interrupted: %w", solveErr)
	}
	return res, nil
}
