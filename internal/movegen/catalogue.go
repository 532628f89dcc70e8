package movegen

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/go-metaheuristics/tabumh/internal/model"
)

// Catalogue owns one generator per move family and runs their Setup /
// UpdateMoves calls across a bounded worker pool. Each generator writes
// into its own pre-allocated slot (baseGenerator.moves/flags), so the
// fork/join region needs no locking — exactly the disjoint-slot shape
// the design requires.
type Catalogue struct {
	Binary                     *BinaryGenerator
	Integer                    *IntegerGenerator
	Selection                  *SelectionGenerator
	ExclusiveOR                Generator
	ExclusiveNOR               Generator
	InvertedIntegers           Generator
	BalancedIntegers           Generator
	ConstantSumIntegers        Generator
	ConstantDifferenceIntegers Generator
	ConstantRatioIntegers      *ConstantRatioGenerator
	Aggregation                *AggregationGenerator
	Precedence                 *PrecedenceGenerator
	VariableBound              *VariableBoundGenerator
	SoftSelection              *SoftSelectionGenerator
	TrinomialExclusiveNOR      *TrinomialExclusiveNORGenerator
	Chain                      *ChainGenerator
	TwoFlip                    *TwoFlipGenerator
	UserDefined                *UserDefinedGenerator

	// NumWorkers bounds the worker pool used by UpdateAll; 0 means
	// GOMAXPROCS.
	NumWorkers int
}

// NewCatalogue wires up all 18 move families with their default state.
func NewCatalogue() *Catalogue {
	c := &Catalogue{
		Binary:                     &BinaryGenerator{},
		Integer:                    &IntegerGenerator{},
		Selection:                  &SelectionGenerator{mode: SelectionDefined},
		ExclusiveOR:                NewExclusiveOR(),
		ExclusiveNOR:               NewExclusiveNOR(),
		InvertedIntegers:           NewInvertedIntegers(),
		BalancedIntegers:           NewBalancedIntegers(),
		ConstantSumIntegers:        NewConstantSumIntegers(),
		ConstantDifferenceIntegers: NewConstantDifferenceIntegers(),
		ConstantRatioIntegers:      &ConstantRatioGenerator{},
		Aggregation:                &AggregationGenerator{},
		Precedence:                 &PrecedenceGenerator{},
		VariableBound:              &VariableBoundGenerator{},
		SoftSelection:              &SoftSelectionGenerator{},
		TrinomialExclusiveNOR:      &TrinomialExclusiveNORGenerator{},
		Chain:                      &ChainGenerator{},
		TwoFlip:                    &TwoFlipGenerator{},
		UserDefined:                &UserDefinedGenerator{},
	}
	c.Chain.SetSources(c.Binary, c.Integer)
	return c
}

// all returns every family as a plain Generator slice, in a fixed order
// used for both Setup and the fork/join region of UpdateAll.
func (c *Catalogue) all() []Generator {
	return []Generator{
		c.Binary, c.Integer, c.Selection,
		c.ExclusiveOR, c.ExclusiveNOR, c.InvertedIntegers, c.BalancedIntegers,
		c.ConstantSumIntegers, c.ConstantDifferenceIntegers, c.ConstantRatioIntegers,
		c.Aggregation, c.Precedence, c.VariableBound, c.SoftSelection,
		c.TrinomialExclusiveNOR, c.Chain, c.TwoFlip, c.UserDefined,
	}
}

// SetupAll binds every generator to the current (presolved, classified)
// model; called once before the first UpdateAll.
func (c *Catalogue) SetupAll(m *model.Model) {
	for _, g := range c.all() {
		g.Setup(m)
	}
}

// UpdateAll rebuilds every generator's move list. Every family except
// Chain writes only to its own storage, so those run in the move-update
// fork/join region, implemented with errgroup instead of a raw
// WaitGroup+channel; Chain reads the Binary/Integer lists and runs after.
func (c *Catalogue) UpdateAll(ctx context.Context, m *model.Model, opt UpdateOptions) error {
	gens := c.all()
	workers := opt.ParallelismHint
	if workers <= 0 {
		workers = c.NumWorkers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(gens) {
		workers = len(gens)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, gen := range gens {
		gen := gen
		if gen == Generator(c.Chain) {
			continue
		}
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			gen.UpdateMoves(m, opt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	c.Chain.UpdateMoves(m, opt)
	return nil
}

// AllMoves concatenates every family's current move list, in the same
// fixed family order as all().
func (c *Catalogue) AllMoves() []model.Move {
	var total int
	gens := c.all()
	for _, g := range gens {
		total += len(g.Moves())
	}
	out := make([]model.Move, 0, total)
	for _, g := range gens {
		out = append(out, g.Moves()...)
	}
	return out
}
