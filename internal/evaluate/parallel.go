package evaluate

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

// Parallelism decides how many workers EvaluateBatch should use. It
// raises the pool size when the average move count across recent batches
// exceeds a decaying threshold, so small neighborhoods stay
// single-threaded and only large ones pay for worker dispatch.
type Parallelism struct {
	MaxWorkers   int
	DecayFactor  float64
	avgMoveCount float64
	threshold    float64
}

// NewParallelism returns a Parallelism policy bounded at maxWorkers, using
// decay as the exponential-moving-average smoothing constant applied to
// the observed move count.
func NewParallelism(maxWorkers int, decay float64) *Parallelism {
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	if decay <= 0 || decay > 1 {
		decay = 0.2
	}
	return &Parallelism{MaxWorkers: maxWorkers, DecayFactor: decay, threshold: 64}
}

// WorkersFor observes moveCount and returns the worker count to use for a
// batch of that size.
func (p *Parallelism) WorkersFor(moveCount int) int {
	p.avgMoveCount = p.DecayFactor*float64(moveCount) + (1-p.DecayFactor)*p.avgMoveCount
	if p.avgMoveCount <= p.threshold {
		return 1
	}
	scale := p.avgMoveCount / p.threshold
	workers := int(scale)
	if workers < 1 {
		workers = 1
	}
	if workers > p.MaxWorkers {
		workers = p.MaxWorkers
	}
	return workers
}

// EvaluateBatch scores every move in moves against m's current state. It
// partitions moves into contiguous, disjoint chunks (one per worker) and
// writes each chunk's scores into its own slice region — no locking is
// needed because chunks never overlap.
func (e *Evaluator) EvaluateBatch(ctx context.Context, m *model.Model, moves []model.Move, localPenalty, globalPenalty []float64, workers int) ([]model.SolutionScore, error) {
	if workers <= 0 {
		if e.Parallelism != nil {
			workers = e.Parallelism.WorkersFor(len(moves))
		} else {
			workers = 1
		}
	}
	if workers > len(moves) {
		workers = len(moves)
	}
	if workers == 0 {
		return nil, nil
	}

	base := ComputeBaseline(m, localPenalty, globalPenalty)
	scores := make([]model.SolutionScore, len(moves))
	chunkSize := (len(moves) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(moves) {
			break
		}
		end := start + chunkSize
		if end > len(moves) {
			end = len(moves)
		}
		start, end := start, end
		g.Go(func() error {
			s := newScratch()
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				scores[i] = e.evaluateWith(m, moves[i], localPenalty, globalPenalty, base, s)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
