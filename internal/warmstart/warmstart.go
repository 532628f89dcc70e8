// Package warmstart seeds a model's initial variable assignment with a
// simulated-annealing search over the penalty-augmented objective, run
// before the tabu-search controller's first episode. Grounded on
// keycraft's internal/keycraft/optimisation.go: the same eaopt.Genome
// interface and eaopt.ModSimulatedAnnealing acceptance-schedule model,
// retargeted from layout-swap genomes to the MILP's variable vector.
package warmstart

import (
	"math"
	"math/rand"

	"github.com/MaxHalford/eaopt"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

// AcceptSchedule names one of keycraft's getAcceptFunc policies.
type AcceptSchedule string

const (
	AcceptAlways   AcceptSchedule = "always"
	AcceptNever    AcceptSchedule = "never"
	AcceptDropSlow AcceptSchedule = "drop-slow"
	AcceptLinear   AcceptSchedule = "linear"
	AcceptDropFast AcceptSchedule = "drop-fast"
)

// acceptFunc mirrors keycraft's getAcceptFunc, unchanged in behavior:
// only the name of the unused e0/e1 energy arguments differs.
func acceptFunc(schedule AcceptSchedule) func(g, ng uint, e0, e1 float64) float64 {
	switch schedule {
	case AcceptAlways:
		return func(g, ng uint, e0, e1 float64) float64 { return 1.0 }
	case AcceptNever:
		return func(g, ng uint, e0, e1 float64) float64 { return 0.0 }
	case AcceptLinear:
		return func(g, ng uint, e0, e1 float64) float64 { return 1.0 - float64(g)/float64(ng) }
	case AcceptDropFast:
		return func(g, ng uint, e0, e1 float64) float64 {
			t := 1.0 - float64(g)/float64(ng)
			return math.Exp(-3.0 * (1 - t))
		}
	default: // AcceptDropSlow
		return func(g, ng uint, e0, e1 float64) float64 {
			t := 1.0 - float64(g)/float64(ng)
			return (math.Cos(t*math.Pi) + 1.0) / 2.0
		}
	}
}

// Options parameterizes a Seed call.
type Options struct {
	Generations    uint
	AcceptSchedule AcceptSchedule
	// MutationsPerStep bounds how many variables a single Mutate call
	// perturbs; keycraft's Mutate always swaps exactly one pair, but a
	// MILP assignment benefits from perturbing a handful of variables at
	// once so the annealer can escape a single-variable local optimum.
	MutationsPerStep int
}

// DefaultOptions runs a short anneal: enough generations to diversify the
// tabu search's starting point without dominating the overall time
// budget.
func DefaultOptions() Options {
	return Options{
		Generations:      200,
		AcceptSchedule:   AcceptDropSlow,
		MutationsPerStep: 1,
	}
}

// genome adapts a model's variable vector to eaopt.Genome. It never
// mutates m itself: Evaluate/Mutate/Clone all work against the private
// values slice, so the live model's incremental caches are never
// disturbed during the anneal.
type genome struct {
	m             *model.Model
	values        []int64
	localPenalty  []float64
	globalPenalty []float64
	mutations     int
}

func (g *genome) Evaluate() (float64, error) {
	objCoef := make(map[model.VariableID]int64, len(g.m.Objective().Expr.Terms))
	for _, t := range g.m.Objective().Expr.Terms {
		objCoef[t.Var] = t.Coef
	}
	obj := g.m.Objective().Expr.Constant
	for v, coef := range objCoef {
		obj += coef * g.values[v]
	}

	violations := make([]float64, g.m.NumConstraints())
	for i := range g.m.Constraints() {
		c := g.m.Constraint(model.ConstraintID(i))
		if !c.Enabled {
			continue
		}
		lhs := c.LHS.Constant
		for _, t := range c.LHS.Terms {
			lhs += t.Coef * g.values[t.Var]
		}
		violations[i] = float64(c.HypotheticalViolation(lhs))
	}
	return model.AugmentedObjective(obj, g.localPenalty, violations), nil
}

func (g *genome) Mutate(rng *rand.Rand) {
	n := len(g.values)
	if n == 0 {
		return
	}
	for i := 0; i < g.mutations; i++ {
		vid := model.VariableID(rng.Intn(n))
		v := g.m.Variable(vid)
		if v.IsFixedRange() {
			continue
		}
		span := v.Upper - v.Lower
		if span <= 0 {
			continue
		}
		g.values[vid] = v.Lower + int64(rng.Int63n(span+1))
	}
}

// Crossover does nothing: the single-genome anneal has no second parent
// to recombine with, matching keycraft's own no-op Crossover.
func (g *genome) Crossover(_ eaopt.Genome, _ *rand.Rand) {}

func (g *genome) Clone() eaopt.Genome {
	cc := &genome{
		m:             g.m,
		values:        append([]int64(nil), g.values...),
		localPenalty:  g.localPenalty,
		globalPenalty: g.globalPenalty,
		mutations:     g.mutations,
	}
	return cc
}

// Seed runs a simulated anneal over m's variable assignment, seeded from
// m's current values, and returns the best assignment found without
// mutating m. Callers apply the result via model.ApplyAlteration (or
// Restore) themselves.
func Seed(m *model.Model, localPenalty, globalPenalty []float64, opt Options) ([]int64, error) {
	cfg := eaopt.NewDefaultGAConfig()
	cfg.NGenerations = opt.Generations
	cfg.Model = eaopt.ModSimulatedAnnealing{Accept: acceptFunc(opt.AcceptSchedule)}

	mutations := opt.MutationsPerStep
	if mutations <= 0 {
		mutations = 1
	}

	start := &genome{
		m:             m,
		values:        m.Snapshot(),
		localPenalty:  localPenalty,
		globalPenalty: globalPenalty,
		mutations:     mutations,
	}

	ga, err := cfg.NewGA()
	if err != nil {
		return nil, err
	}
	newGenome := func(rng *rand.Rand) eaopt.Genome { return start }
	if err := ga.Minimize(newGenome); err != nil {
		return nil, err
	}

	best := ga.HallOfFame[0].Genome.(*genome)
	return best.values, nil
}
