// Package penalty adapts each constraint's penalty coefficient between
// tabu-search episodes: tightening for constraints violated in the
// episode's best local solution, relaxing for constraints never violated,
// with an adaptive relaxing rate and stagnation-triggered resets.
package penalty

import "github.com/go-metaheuristics/tabumh/internal/model"

// Options parameterizes the penalty controller.
type Options struct {
	InitialCoefficient float64
	TighteningRate     float64
	RelaxingRate       float64

	RelaxingRateMin         float64
	RelaxingRateMax         float64
	RelaxingRateIncreaseFactor float64
	RelaxingRateDecreaseFactor float64

	// InnerStagnationThreshold/OuterStagnationThreshold count
	// non-improving outer iterations before NoteStagnation reports a
	// reset is due; 0 disables the corresponding breaker.
	InnerStagnationThreshold int
	OuterStagnationThreshold int

	// GroupByShape shares a single coefficient across every constraint of
	// the same classified shape, averaging their individually-adapted
	// values each update.
	GroupByShape bool

	FloorCoefficient   float64
	CeilingCoefficient float64
}

// DefaultOptions matches spec.md §6: initial 1e7, tightening 1.1,
// relaxing 0.9.
func DefaultOptions() Options {
	return Options{
		InitialCoefficient:         1e7,
		TighteningRate:             1.1,
		RelaxingRate:               0.9,
		RelaxingRateMin:            0.5,
		RelaxingRateMax:            0.999,
		RelaxingRateIncreaseFactor: 1.02,
		RelaxingRateDecreaseFactor: 0.98,
		InnerStagnationThreshold:   20,
		OuterStagnationThreshold:   200,
		FloorCoefficient:           1e-4,
		CeilingCoefficient:         1e15,
	}
}

// Controller owns the mutable state the adaptation rules above the raw
// per-constraint coefficients need: which constraints have never been
// violated, the currently-adapted relaxing rate, and stagnation counters.
type Controller struct {
	opt Options

	neverViolated []bool
	relaxingRate  float64

	innerStagnation int
	outerStagnation int
	hasLastOuter    bool
	lastGlobalAug   float64
}

// New returns a Controller over m, seeding every constraint's
// LocalPenalty/GlobalPenalty to opt.InitialCoefficient.
func New(m *model.Model, opt Options) *Controller {
	c := &Controller{
		opt:           opt,
		relaxingRate:  opt.RelaxingRate,
		neverViolated: make([]bool, m.NumConstraints()),
	}
	for i := range c.neverViolated {
		c.neverViolated[i] = true
	}
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		cons.GlobalPenalty = opt.InitialCoefficient
		cons.LocalPenalty = opt.InitialCoefficient
	}
	return c
}

func (c *Controller) clamp(v float64) float64 {
	if c.opt.FloorCoefficient > 0 && v < c.opt.FloorCoefficient {
		v = c.opt.FloorCoefficient
	}
	if c.opt.CeilingCoefficient > 0 && v > c.opt.CeilingCoefficient {
		v = c.opt.CeilingCoefficient
	}
	return v
}

// SeedFromLagrange sets each constraint's penalty to
// max(InitialCoefficient, |lambda_c|), per spec.md §4.7: the optional
// Lagrange dual's multipliers seed the penalty controller's starting
// coefficients.
func (c *Controller) SeedFromLagrange(m *model.Model, lambda []float64) {
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		abs := lambda[i]
		if abs < 0 {
			abs = -abs
		}
		if abs > c.opt.InitialCoefficient {
			cons.GlobalPenalty = c.clamp(abs)
			cons.LocalPenalty = c.clamp(abs)
		}
	}
}

// UpdateAfterEpisode tightens the local penalty of every constraint whose
// cached violation is nonzero and relaxes every constraint that has never
// been violated in this solve, then mirrors LocalPenalty into
// GlobalPenalty. Call once per controller outer iteration, after the tabu-
// search episode and before the next one starts.
func (c *Controller) UpdateAfterEpisode(m *model.Model) {
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		violated := cons.CachedViolation() != 0
		switch {
		case violated:
			c.neverViolated[i] = false
			cons.LocalPenalty = c.clamp(cons.LocalPenalty * c.opt.TighteningRate)
		case c.neverViolated[i]:
			cons.LocalPenalty = c.clamp(cons.LocalPenalty * c.relaxingRate)
		}
		cons.GlobalPenalty = cons.LocalPenalty
	}
	if c.opt.GroupByShape {
		c.applyGroupPenalty(m)
	}
}

func (c *Controller) applyGroupPenalty(m *model.Model) {
	sums := make(map[model.ShapeTag]float64)
	counts := make(map[model.ShapeTag]int)
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		sums[cons.Shape] += cons.LocalPenalty
		counts[cons.Shape]++
	}
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		avg := sums[cons.Shape] / float64(counts[cons.Shape])
		cons.LocalPenalty = avg
		cons.GlobalPenalty = avg
	}
}

// ShrinkOnFeasibility pulls every constraint's penalty down to at most
// minimum, once a feasible solution has been found: there is no longer a
// need for a feasibility-pressure coefficient larger than whatever kept
// the incumbent feasible.
func (c *Controller) ShrinkOnFeasibility(m *model.Model, minimum float64) {
	minimum = c.clamp(minimum)
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		if cons.LocalPenalty > minimum {
			cons.LocalPenalty = minimum
			cons.GlobalPenalty = minimum
		}
	}
}

// AdaptRelaxingRate adjusts the relaxing rate itself toward
// RelaxingRateMax when the previous outer iteration improved the global
// augmented objective, and toward RelaxingRateMin otherwise, clamped to
// [RelaxingRateMin, RelaxingRateMax].
func (c *Controller) AdaptRelaxingRate(globalAugmented float64) {
	if c.hasLastOuter {
		if globalAugmented < c.lastGlobalAug {
			c.relaxingRate *= c.opt.RelaxingRateIncreaseFactor
		} else {
			c.relaxingRate *= c.opt.RelaxingRateDecreaseFactor
		}
		if c.relaxingRate < c.opt.RelaxingRateMin {
			c.relaxingRate = c.opt.RelaxingRateMin
		}
		if c.relaxingRate > c.opt.RelaxingRateMax {
			c.relaxingRate = c.opt.RelaxingRateMax
		}
	}
	c.lastGlobalAug = globalAugmented
	c.hasLastOuter = true
}

// RelaxingRate returns the currently-adapted relaxing rate.
func (c *Controller) RelaxingRate() float64 { return c.relaxingRate }

// NoteStagnation records whether the just-finished outer iteration
// improved, and reports whether the inner and/or outer stagnation
// breaker threshold was just reached (and resets the corresponding
// counter when it is).
func (c *Controller) NoteStagnation(improved bool) (resetInner, resetOuter bool) {
	if improved {
		c.innerStagnation = 0
		c.outerStagnation = 0
		return false, false
	}
	c.innerStagnation++
	c.outerStagnation++

	resetInner = c.opt.InnerStagnationThreshold > 0 && c.innerStagnation >= c.opt.InnerStagnationThreshold
	resetOuter = c.opt.OuterStagnationThreshold > 0 && c.outerStagnation >= c.opt.OuterStagnationThreshold
	if resetInner {
		c.innerStagnation = 0
	}
	if resetOuter {
		c.outerStagnation = 0
	}
	return resetInner, resetOuter
}

// ResetToInitial resets every constraint's penalty to
// opt.InitialCoefficient and forgets which constraints have never been
// violated, used by the stagnation breaker alongside a diversification
// restart from the feasible-solution history archive.
func (c *Controller) ResetToInitial(m *model.Model) {
	for i := range m.Constraints() {
		cons := m.Constraint(model.ConstraintID(i))
		cons.GlobalPenalty = c.opt.InitialCoefficient
		cons.LocalPenalty = c.opt.InitialCoefficient
	}
	for i := range c.neverViolated {
		c.neverViolated[i] = true
	}
	c.relaxingRate = c.opt.RelaxingRate
}

// LocalPenalties returns every constraint's current LocalPenalty, indexed
// by ConstraintID, for the evaluator and tabu-search episode.
func LocalPenalties(m *model.Model) []float64 {
	out := make([]float64, m.NumConstraints())
	for i := range out {
		out[i] = m.Constraint(model.ConstraintID(i)).LocalPenalty
	}
	return out
}

// GlobalPenalties returns every constraint's current GlobalPenalty,
// indexed by ConstraintID.
func GlobalPenalties(m *model.Model) []float64 {
	out := make([]float64, m.NumConstraints())
	for i := range out {
		out[i] = m.Constraint(model.ConstraintID(i)).GlobalPenalty
	}
	return out
}
