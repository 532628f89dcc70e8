package tabusearch

import (
	"context"
	"math"
	"time"

	"github.com/go-metaheuristics/tabumh/internal/evaluate"
	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/movegen"
	"github.com/go-metaheuristics/tabumh/internal/util"
)

// Result summarizes one completed episode.
type Result struct {
	BestSnapshot   []int64
	BestObjective  int64
	BestViolation  int64
	Iterations     int
	BrokeEarly     bool
	TrendObjective []int64
	TrendViolation []int64
}

// Run executes one tabu-search episode starting from m's current state,
// mutating m in place, and returns the best local solution visited.
// globalIncumbentObjective/hasGlobalIncumbent feed the aspiration rule.
func Run(
	ctx context.Context,
	m *model.Model,
	cat *movegen.Catalogue,
	ev *evaluate.Evaluator,
	localPenalty, globalPenalty []float64,
	opts Options,
	rng *util.RNG,
	globalIncumbentObjective int64,
	hasGlobalIncumbent bool,
) (*Result, error) {
	mem := NewMemory(opts.InitialTabuTenure)
	window := opts.OscillationWindow
	if window <= 0 {
		window = 1
	}
	scoreHistory := util.NewRingQueue[float64](window)

	initialModification(m, rng, opts.NumberOfInitialModification)

	res := &Result{
		BestSnapshot:  m.Snapshot(),
		BestObjective: m.Objective().Value(),
		BestViolation: m.TotalViolation(),
	}

	var iteration int64
	noImprovementStreak := 0
	start := time.Now()

	for iteration < int64(opts.IterationMax) {
		if opts.TimeMax > 0 && time.Since(start) >= opts.TimeMax {
			break
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		updOpt := movegen.UpdateOptions{AcceptAll: true, ParallelismHint: opts.MoveUpdateParallelismHint}
		if err := cat.UpdateAll(ctx, m, updOpt); err != nil {
			return res, err
		}
		moves := cat.AllMoves()
		if len(moves) == 0 {
			break
		}
		moves = pruneMoves(moves, opts.PruningRateThreshold, opts.MovePreserveRate)

		scores, err := ev.EvaluateBatch(ctx, m, moves, localPenalty, globalPenalty, 0)
		if err != nil {
			return res, err
		}
		admissible := ev.Filter(scores, m.IsFeasible())

		bestIdx := -1
		var bestAug float64
		for _, idx := range admissible {
			mv := moves[idx]
			sc := scores[idx]

			if mem.IsMoveTabu(mv, iteration, opts.TabuMode) {
				newObjective := m.Objective().Value() - sc.ObjectiveImprovement
				aspired := opts.IgnoreTabuIfGlobalIncumbent && hasGlobalIncumbent &&
					sc.IsFeasible && newObjective < globalIncumbentObjective
				if !aspired {
					continue
				}
			}
			if bestIdx == -1 || sc.LocalAugmentedObjective < bestAug {
				bestIdx = idx
				bestAug = sc.LocalAugmentedObjective
			}
		}
		if bestIdx == -1 {
			break
		}

		chosen := moves[bestIdx]
		chosenScore := scores[bestIdx]
		for _, a := range chosen.Alterations {
			m.ApplyAlteration(a.Var, a.NewValue)
		}
		mem.ApplyTenure(chosen, iteration)
		iteration++
		res.Iterations++

		scoreHistory.Push(chosenScore.LocalAugmentedObjective)
		newObj := m.Objective().Value()
		newViol := m.TotalViolation()
		res.TrendObjective = append(res.TrendObjective, newObj)
		res.TrendViolation = append(res.TrendViolation, newViol)

		if betterSolution(newViol, newObj, res.BestViolation, res.BestObjective) {
			res.BestViolation = newViol
			res.BestObjective = newObj
			res.BestSnapshot = m.Snapshot()
			noImprovementStreak = 0
		} else {
			noImprovementStreak++
		}

		if opts.AutomaticTabuTenureAdjustment {
			adjustTenure(mem, scoreHistory, opts)
		}

		if opts.AutomaticBreak && noImprovementStreak >= opts.AutomaticBreakWindow {
			res.BrokeEarly = true
			break
		}
	}

	return res, nil
}

// pruneMoves discards moves whose RelatedConstraints footprint overlaps an
// already-kept move's footprint by threshold or more, once at least
// ceil(preserveRate*len(moves)) moves have already been kept. threshold<=0
// disables pruning entirely.
func pruneMoves(moves []model.Move, threshold, preserveRate float64) []model.Move {
	if threshold <= 0 || len(moves) == 0 {
		return moves
	}
	minKeep := int(math.Ceil(preserveRate * float64(len(moves))))

	kept := make([]model.Move, 0, len(moves))
	keptSets := make([]map[model.ConstraintID]struct{}, 0, len(moves))
	for _, mv := range moves {
		set := constraintSet(mv.RelatedConstraints)
		if len(kept) >= minKeep && overlapsAny(set, keptSets, threshold) {
			continue
		}
		kept = append(kept, mv)
		keptSets = append(keptSets, set)
	}
	return kept
}

func constraintSet(ids []model.ConstraintID) map[model.ConstraintID]struct{} {
	set := make(map[model.ConstraintID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// overlapsAny reports whether set's overlap fraction (shared / |set|) with
// any member of kept reaches threshold. An empty set never overlaps.
func overlapsAny(set map[model.ConstraintID]struct{}, kept []map[model.ConstraintID]struct{}, threshold float64) bool {
	if len(set) == 0 {
		return false
	}
	for _, other := range kept {
		shared := 0
		for id := range set {
			if _, ok := other[id]; ok {
				shared++
			}
		}
		if float64(shared)/float64(len(set)) >= threshold {
			return true
		}
	}
	return false
}

// betterSolution reports whether (violA, objA) dominates (violB, objB)
// under feasibility-first, then-objective lexicographic order.
func betterSolution(violA, objA, violB, objB int64) bool {
	if violA != violB {
		return violA < violB
	}
	return objA < objB
}

// adjustTenure grows the tabu tenure when the recent local_augmented
// history shows low oscillation amplitude (the search is settled) and
// shrinks it when amplitude is high (the search is cycling), clamped to
// [TenureMin, TenureMax].
func adjustTenure(mem *Memory, history *util.RingQueue[float64], opts Options) {
	if history.Size() < history.MaxSize() {
		return
	}
	lo, _ := history.Min()
	hi, _ := history.Max()
	amplitude := hi - lo
	avg := history.Average()
	normalized := amplitude
	if avg != 0 {
		normalized = amplitude / math.Abs(avg)
	}

	tenure := mem.Tenure()
	if normalized < 0.01 {
		tenure++
	} else {
		tenure--
	}
	if opts.TenureMin > 0 && tenure < opts.TenureMin {
		tenure = opts.TenureMin
	}
	if opts.TenureMax > 0 && tenure > opts.TenureMax {
		tenure = opts.TenureMax
	}
	mem.SetTenure(tenure)
}

// initialModification randomly perturbs count distinct non-fixed
// variables at episode start so consecutive episodes do not retrace the
// same basin.
func initialModification(m *model.Model, rng *util.RNG, count int) {
	if count <= 0 {
		return
	}
	candidates := make([]model.VariableID, 0, m.NumVariables())
	for i := 0; i < m.NumVariables(); i++ {
		id := model.VariableID(i)
		if !m.Variable(id).Fixed {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	for _, id := range candidates[:count] {
		v := m.Variable(id)
		span := v.Upper - v.Lower + 1
		newValue := v.Lower + int64(rng.IntN(int(span)))
		m.ApplyAlteration(id, newValue)
	}
}
