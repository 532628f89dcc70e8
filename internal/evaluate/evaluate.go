// Package evaluate scores candidate moves: incremental Δobjective and
// Δviolation per affected constraint, in time linear in the number of
// affected constraints, plus improvability screening.
package evaluate

import (
	"sync/atomic"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

// ScreeningMode restricts the neighborhood to moves that could plausibly
// improve the search, trading neighborhood breadth for iteration speed.
type ScreeningMode int

const (
	ScreeningOff ScreeningMode = iota
	ScreeningSoft
	ScreeningAggressive
	ScreeningIntensive
	ScreeningAutomatic
)

// Stats tracks running evaluator statistics atomically, so the parallel
// evaluation region never needs a lock to update them.
type Stats struct {
	evaluated int64
	filtered  int64
	tabu      int64
}

func (s *Stats) recordEvaluated() { atomic.AddInt64(&s.evaluated, 1) }
func (s *Stats) recordFiltered()  { atomic.AddInt64(&s.filtered, 1) }
func (s *Stats) recordTabu()      { atomic.AddInt64(&s.tabu, 1) }

// Evaluated returns the total number of moves scored since the Evaluator
// was created.
func (s *Stats) Evaluated() int64 { return atomic.LoadInt64(&s.evaluated) }

// Filtered returns how many moves improvability screening discarded.
func (s *Stats) Filtered() int64 { return atomic.LoadInt64(&s.filtered) }

// Evaluator scores candidate moves against a model's current state.
type Evaluator struct {
	Screening ScreeningMode

	// Parallelism, when set, lets EvaluateBatch pick its own worker count
	// from the observed move-batch size instead of using the caller's
	// fixed workers argument whenever that argument is 0.
	Parallelism *Parallelism

	stats Stats
}

// New returns an Evaluator using the given screening mode.
func New(mode ScreeningMode) *Evaluator {
	return &Evaluator{Screening: mode}
}

// Stats returns the running evaluation statistics.
func (e *Evaluator) Stats() *Stats { return &e.stats }

func (e *Evaluator) deltaObjective(m *model.Model, mv model.Move) int64 {
	var delta int64
	obj := m.Objective()
	for _, a := range mv.Alterations {
		v := m.Variable(a.Var)
		for _, t := range obj.Expr.Terms {
			if t.Var == a.Var {
				delta += t.Coef * (a.NewValue - v.Value)
				break
			}
		}
	}
	return delta
}

// scratch is a per-worker map reused across evaluations in a batch, keyed
// by constraint id, so parallel workers never share mutable state.
type scratch struct {
	lhsDelta map[model.ConstraintID]int64
}

func newScratch() *scratch {
	return &scratch{lhsDelta: make(map[model.ConstraintID]int64, 16)}
}

func (s *scratch) reset() {
	for k := range s.lhsDelta {
		delete(s.lhsDelta, k)
	}
}

// Baseline captures the current model state's total violation and
// augmented objectives, computed once per tabu-search iteration (not once
// per candidate move) so Evaluate can add only the affected constraints'
// delta rather than re-summing every constraint.
type Baseline struct {
	TotalViolation  int64
	LocalAugmented  float64
	GlobalAugmented float64
}

// ComputeBaseline sums the current per-constraint penalty*violation over
// every enabled constraint; call once before evaluating a batch of moves.
func ComputeBaseline(m *model.Model, localPenalty, globalPenalty []float64) Baseline {
	b := Baseline{TotalViolation: m.TotalViolation()}
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled {
			continue
		}
		v := float64(c.CachedViolation())
		b.LocalAugmented += localPenalty[c.ID] * v
		b.GlobalAugmented += globalPenalty[c.ID] * v
	}
	return b
}

// Evaluate scores a single candidate move against m's current state,
// using localPenalty/globalPenalty indexed by ConstraintID and a Baseline
// computed once for the whole batch this move belongs to.
func (e *Evaluator) Evaluate(m *model.Model, mv model.Move, localPenalty, globalPenalty []float64, base Baseline) model.SolutionScore {
	s := newScratch()
	return e.evaluateWith(m, mv, localPenalty, globalPenalty, base, s)
}

func (e *Evaluator) evaluateWith(m *model.Model, mv model.Move, localPenalty, globalPenalty []float64, base Baseline, s *scratch) model.SolutionScore {
	e.stats.recordEvaluated()
	s.reset()

	for _, a := range mv.Alterations {
		v := m.Variable(a.Var)
		delta := a.NewValue - v.Value
		if delta == 0 {
			continue
		}
		for _, ref := range v.Refs {
			s.lhsDelta[ref.Constraint] += ref.Coef * delta
		}
	}

	deltaObj := e.deltaObjective(m, mv)

	// Start from the batch baseline and patch in only the constraints
	// this move actually touches, so cost stays linear in the number of
	// affected constraints rather than the full constraint count.
	totalViolation := base.TotalViolation
	localAug := base.LocalAugmented
	globalAug := base.GlobalAugmented
	feasibilityImprovable := false

	for cid, dl := range s.lhsDelta {
		c := m.Constraint(model.ConstraintID(cid))
		if !c.Enabled {
			continue
		}
		oldViol := c.CachedViolation()
		newLHS := c.LHS.Value() + dl
		newViol := c.HypotheticalViolation(newLHS)

		totalViolation += newViol - oldViol
		localAug += localPenalty[cid] * float64(newViol-oldViol)
		globalAug += globalPenalty[cid] * float64(newViol-oldViol)
		if newViol < oldViol {
			feasibilityImprovable = true
		}
	}

	localAug += float64(deltaObj)
	globalAug += float64(deltaObj)

	return model.SolutionScore{
		ObjectiveImprovement:     -deltaObj,
		TotalViolation:           totalViolation,
		LocalAugmentedObjective:  localAug,
		GlobalAugmentedObjective: globalAug,
		IsFeasible:               totalViolation == 0,
		IsObjectiveImprovable:    deltaObj < 0,
		IsFeasibilityImprovable:  feasibilityImprovable,
	}
}
