// Package lagrange runs a subgradient ascent on the Lagrangian dual of
// the box-relaxed model: each constraint's violation is priced into the
// objective by a multiplier λ_c, and minimizing the resulting relaxed
// objective decomposes into one independent choice per variable between
// its lower and upper bound. No LP simplex is needed (the decision
// variables stay integer-bounded throughout), matching spec.md's
// Non-goal excluding an LP solver while still producing a valid dual
// bound and multipliers to seed the penalty controller.
package lagrange

import (
	"context"
	"math"
	"time"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/util"
)

// Options mirrors the original LagrangeDualOption field set (field names
// and defaults grounded on original_source/cppmh/solver/lagrange_dual/lagrange_dual_option.h).
type Options struct {
	IterationMax       int
	TimeMax            time.Duration
	TimeOffset         time.Duration
	StepSizeExtendRate float64
	StepSizeReduceRate float64
	Tolerance          float64
	// QueueSize is stored as an int, rounded from any floating-point
	// config input at load time: the original option type declares
	// queue_size as a double but only ever uses it as an integer queue
	// length (spec.md §9 Open Questions).
	QueueSize   int
	LogInterval int

	// Logger, if set, receives one Full-level line every LogInterval
	// iterations reporting the current dual bound and step size.
	Logger *util.Logger
}

// DefaultOptions matches LagrangeDualOptionConstant's defaults.
func DefaultOptions() Options {
	return Options{
		IterationMax:       10000,
		TimeMax:            120 * time.Second,
		StepSizeExtendRate: 1.05,
		StepSizeReduceRate: 0.95,
		Tolerance:          0.001,
		QueueSize:          100,
		LogInterval:        10,
	}
}

// SetQueueSize rounds v to the nearest integer and stores it.
func (o *Options) SetQueueSize(v float64) {
	o.QueueSize = int(math.Round(v))
}

// Result holds the multipliers and best dual bound a Run call produced.
type Result struct {
	Lambda     []float64 // per ConstraintID
	DualBound  int64     // a valid lower bound on the minimized objective
	Iterations int
}

func evalExpr(terms []model.Term, constant int64, x []int64) int64 {
	total := constant
	for _, t := range terms {
		total += t.Coef * x[t.Var]
	}
	return total
}

// constraintSign returns +1 for <= and =, -1 for >=, so that
// sign*(lhs-rhs) <= 0 characterizes feasibility uniformly and the
// corresponding multiplier can be kept non-negative.
func constraintSign(c *model.Constraint) float64 {
	if c.Sense == model.GreaterEq {
		return -1
	}
	return 1
}

// minimize picks, for each variable, the bound extreme that minimizes its
// effective Lagrangian coefficient: objective coefficient plus the
// signed, weighted sum of this variable's coefficient across every
// constraint it appears in.
func minimize(m *model.Model, objCoef []int64, lambda []float64) []int64 {
	n := m.NumVariables()
	x := make([]int64, n)
	for i := 0; i < n; i++ {
		v := m.Variable(model.VariableID(i))
		eff := float64(objCoef[i])
		for _, ref := range v.Refs {
			c := m.Constraint(ref.Constraint)
			if !c.Enabled {
				continue
			}
			eff += lambda[c.ID] * constraintSign(c) * float64(ref.Coef)
		}
		if eff >= 0 {
			x[i] = v.Lower
		} else {
			x[i] = v.Upper
		}
	}
	return x
}

// lagrangianValue computes L(x, λ) = obj(x) + Σ λ_c * g_c(x) and each
// constraint's subgradient component g_c(x) = sign_c*(lhs_c(x) - rhs_c).
func lagrangianValue(m *model.Model, x []int64, lambda []float64) (float64, []float64) {
	obj := m.Objective()
	bound := float64(evalExpr(obj.Expr.Terms, obj.Expr.Constant, x))

	n := m.NumConstraints()
	subgrad := make([]float64, n)
	for i := 0; i < n; i++ {
		c := m.Constraint(model.ConstraintID(i))
		if !c.Enabled {
			subgrad[i] = 0
			continue
		}
		lhs := evalExpr(c.LHS.Terms, c.LHS.Constant, x)
		sign := constraintSign(c)
		g := sign * float64(lhs-c.RHS)
		subgrad[i] = g
		bound += lambda[i] * g
	}
	return bound, subgrad
}

func objectiveCoefs(m *model.Model) []int64 {
	coefs := make([]int64, m.NumVariables())
	for _, t := range m.Objective().Expr.Terms {
		coefs[t.Var] = t.Coef
	}
	return coefs
}

// Run performs subgradient ascent over m's frozen state without mutating
// it (the model's live cached expression values are never touched), and
// returns the resulting multipliers and best dual bound. Stops at
// IterationMax, TimeMax, or once the moving window of recent Lagrangian
// values stabilizes within Tolerance.
func Run(ctx context.Context, m *model.Model, opt Options) (*Result, error) {
	objCoef := objectiveCoefs(m)
	n := m.NumConstraints()
	lambda := make([]float64, n)

	stepSize := 1.0
	bestBound := math.Inf(-1)
	queue := util.NewRingQueue[float64](opt.QueueSize)
	start := time.Now()

	iter := 0
	for ; iter < opt.IterationMax; iter++ {
		if opt.TimeMax > 0 && time.Since(start)+opt.TimeOffset >= opt.TimeMax {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		x := minimize(m, objCoef, lambda)
		bound, subgrad := lagrangianValue(m, x, lambda)

		if bound > bestBound {
			bestBound = bound
			stepSize *= opt.StepSizeExtendRate
		} else {
			stepSize *= opt.StepSizeReduceRate
		}

		normSq := 0.0
		for _, g := range subgrad {
			normSq += g * g
		}
		if normSq > 1e-12 {
			scale := stepSize / math.Sqrt(normSq)
			for c := 0; c < n; c++ {
				cons := m.Constraint(model.ConstraintID(c))
				lambda[c] += scale * subgrad[c]
				if cons.Sense != model.Equal && lambda[c] < 0 {
					lambda[c] = 0
				}
			}
		}

		if opt.LogInterval > 0 && iter%opt.LogInterval == 0 {
			opt.Logger.Full("lagrange: iteration %d bound=%.2f step=%.6g", iter, bound, stepSize)
		}

		queue.Push(bound)
		if queue.Size() == queue.MaxSize() {
			lo, _ := queue.Min()
			hi, _ := queue.Max()
			scale := math.Max(1, math.Abs(queue.Average()))
			if hi-lo < opt.Tolerance*scale {
				iter++
				break
			}
		}
	}

	return &Result{Lambda: lambda, DualBound: int64(math.Ceil(bestBound)), Iterations: iter}, nil
}
