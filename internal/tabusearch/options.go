// Package tabusearch runs one episode of penalty-augmented tabu search
// over a frozen model: update move generators, evaluate candidates,
// select the best non-tabu (or aspiration-admitted) move, apply it, and
// adjust tabu memory, repeating until an iteration cap, a time budget,
// or an automatic-break stagnation window is hit.
package tabusearch

import "time"

// TabuMode decides whether a multi-variable move is tabu when all of its
// altered variables are tabu versus when any one of them is.
type TabuMode int

const (
	TabuModeAll TabuMode = iota
	TabuModeAny
)

// Options parameterizes a single episode.
type Options struct {
	IterationMax int
	TimeMax      time.Duration

	InitialTabuTenure int64
	TabuMode          TabuMode

	// TenureMin/TenureMax bound automatic tenure adjustment; ignored
	// unless AutomaticTabuTenureAdjustment is set.
	TenureMin int64
	TenureMax int64

	AutomaticTabuTenureAdjustment bool
	// OscillationWindow sizes the recent-score queue tenure adjustment
	// reads its oscillation amplitude ((max-min)/|average|) from.
	OscillationWindow int

	AutomaticBreak bool
	// AutomaticBreakWindow is the number of consecutive non-improving
	// iterations (no improvement of the episode's own best solution: lower
	// violation, or equal violation and lower objective) that ends the
	// episode early when AutomaticBreak is set.
	AutomaticBreakWindow int

	IgnoreTabuIfGlobalIncumbent bool

	NumberOfInitialModification int

	// PruningRateThreshold discards candidate moves whose RelatedConstraints
	// overlap fraction with already-kept moves reaches the threshold;
	// 0 disables pruning.
	PruningRateThreshold float64

	// MovePreserveRate floors how much of a move batch pruning is allowed
	// to discard: the first ceil(MovePreserveRate*len(moves)) moves (by
	// generator order) always survive pruning regardless of overlap.
	MovePreserveRate float64

	// MoveUpdateParallelismHint is forwarded to movegen.UpdateOptions.ParallelismHint
	// for this episode's move-catalogue updates; 0 lets the catalogue choose
	// (its own NumWorkers, or GOMAXPROCS).
	MoveUpdateParallelismHint int
}

// DefaultOptions returns a conservative, always-terminating configuration.
func DefaultOptions() Options {
	return Options{
		IterationMax:                10000,
		TimeMax:                     30 * time.Second,
		InitialTabuTenure:           7,
		TabuMode:                    TabuModeAll,
		TenureMin:                   3,
		TenureMax:                   30,
		OscillationWindow:           20,
		AutomaticBreak:              true,
		AutomaticBreakWindow:        500,
		IgnoreTabuIfGlobalIncumbent: true,
		NumberOfInitialModification: 0,
		PruningRateThreshold:        0,
		MovePreserveRate:            1,
	}
}
