// Package localsearch polishes a tabu-search episode's local optimum with
// a steepest-descent pass over univariate moves: repeatedly apply the
// single best-improving Binary or Integer move until none remains.
// Grounded on keycraft's BLS steepestDescentSequential (best-improvement
// strategy, re-evaluate after each applied move), generalized from
// key-pair swaps to the move catalogue's generic univariate families.
package localsearch

import (
	"context"

	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/movegen"
)

// Options parameterizes a Run call.
type Options struct {
	// MaxIterations bounds the number of moves applied in one descent;
	// 0 means run to a local optimum with no cap.
	MaxIterations int
}

// Result summarizes what a Run call did.
type Result struct {
	MovesApplied int
	Improved     bool
}

// Run repeatedly finds and applies the single best-improving move drawn
// from cat.Binary and cat.Integer against m's current state, stopping
// when no move strictly improves the local-augmented objective or
// opt.MaxIterations is reached. It mutates m in place; callers that want
// to keep the pre-polish state should Snapshot first.
func Run(ctx context.Context, m *model.Model, cat *movegen.Catalogue, ev *evaluate.Evaluator, localPenalty, globalPenalty []float64, opt Options) (*Result, error) {
	res := &Result{}
	updOpt := movegen.UpdateOptions{AcceptAll: true}

	for opt.MaxIterations <= 0 || res.MovesApplied < opt.MaxIterations {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		cat.Binary.UpdateMoves(m, updOpt)
		cat.Integer.UpdateMoves(m, updOpt)

		base := evaluate.ComputeBaseline(m, localPenalty, globalPenalty)

		var (
			found    bool
			bestMove model.Move
			bestAug  = base.LocalAugmented
		)
		for _, mv := range cat.Binary.Moves() {
			if !mv.WouldStayInBounds(m) {
				continue
			}
			score := ev.Evaluate(m, mv, localPenalty, globalPenalty, base)
			if score.LocalAugmentedObjective < bestAug {
				bestAug = score.LocalAugmentedObjective
				bestMove = mv
				found = true
			}
		}
		for _, mv := range cat.Integer.Moves() {
			if !mv.WouldStayInBounds(m) {
				continue
			}
			score := ev.Evaluate(m, mv, localPenalty, globalPenalty, base)
			if score.LocalAugmentedObjective < bestAug {
				bestAug = score.LocalAugmentedObjective
				bestMove = mv
				found = true
			}
		}

		if !found {
			break
		}
		for _, a := range bestMove.Alterations {
			m.ApplyAlteration(a.Var, a.NewValue)
		}
		res.MovesApplied++
		res.Improved = true
	}
	return res, nil
}
