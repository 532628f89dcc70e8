package movegen

import (
	"sort"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/util"
)

// ChainGenerator composes multi-variable moves at runtime from pairs of
// univariate moves (drawn from Binary/Integer source generators) that
// share no variable and each touch at least one violated constraint
// (whether the pair reduces any violation is not checked); when the
// resulting pool exceeds Budget it is trimmed either by OverlapRate
// (keep the lowest per-variable touch rate) or by Shuffle.
type ChainGenerator struct {
	baseGenerator
	sources    []Generator
	Budget     int
	ReduceMode ChainReduceMode
	rng        *util.RNG
}

func (g *ChainGenerator) Name() string { return "Chain" }

// SetSources installs the univariate generators whose moves are combined
// into chains.
func (g *ChainGenerator) SetSources(sources ...Generator) {
	g.sources = sources
}

// SetRNG installs the seeded RNG used by the Shuffle reduce mode.
func (g *ChainGenerator) SetRNG(rng *util.RNG) {
	g.rng = rng
}

func (g *ChainGenerator) Setup(m *model.Model) {
	if g.Budget == 0 {
		g.Budget = 200
	}
	if g.rng == nil {
		g.rng = util.NewRNG(1)
	}
}

func (g *ChainGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(g.Budget)

	violated := make(map[model.ConstraintID]bool)
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.CachedViolation() > 0 {
			violated[c.ID] = true
		}
	}
	if len(violated) == 0 {
		return
	}

	var candidates []model.Move
	for _, src := range g.sources {
		for _, mv := range src.Moves() {
			if !mv.IsAvailable {
				continue
			}
			touches := false
			for _, rc := range mv.RelatedConstraints {
				if violated[rc] {
					touches = true
					break
				}
			}
			if touches {
				candidates = append(candidates, mv)
			}
		}
	}

	touchCount := make(map[model.VariableID]int)
	for _, mv := range candidates {
		for _, a := range mv.Alterations {
			touchCount[a.Var]++
		}
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if sharesVariable(a, b) {
				continue
			}
			if !reducesDistinctViolations(a, b, violated) {
				continue
			}
			chain := model.Move{
				Alterations:        append(append([]model.Alteration{}, a.Alterations...), b.Alterations...),
				Type:               model.MoveChain,
				RelatedConstraints: mergeConstraintIDs(a.RelatedConstraints, b.RelatedConstraints),
				IsAvailable:        true,
				OverlapRate:        overlapRate(a, b, touchCount),
			}
			g.push(chain)
		}
	}

	if len(g.moves) > g.Budget {
		g.trim(m)
	}
}

func sharesVariable(a, b model.Move) bool {
	for _, x := range a.Alterations {
		for _, y := range b.Alterations {
			if x.Var == y.Var {
				return true
			}
		}
	}
	return false
}

func reducesDistinctViolations(a, b model.Move, violated map[model.ConstraintID]bool) bool {
	touchesA, touchesB := false, false
	for _, rc := range a.RelatedConstraints {
		if violated[rc] {
			touchesA = true
		}
	}
	for _, rc := range b.RelatedConstraints {
		if violated[rc] {
			touchesB = true
		}
	}
	return touchesA && touchesB
}

func mergeConstraintIDs(a, b []model.ConstraintID) []model.ConstraintID {
	seen := make(map[model.ConstraintID]bool, len(a)+len(b))
	out := make([]model.ConstraintID, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func overlapRate(a, b model.Move, touchCount map[model.VariableID]int) float64 {
	total := 0
	overlap := 0
	for _, al := range a.Alterations {
		total++
		if touchCount[al.Var] > 1 {
			overlap++
		}
	}
	for _, al := range b.Alterations {
		total++
		if touchCount[al.Var] > 1 {
			overlap++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(overlap) / float64(total)
}

// trim reduces g.moves (and parallel g.flags) down to g.Budget entries.
func (g *ChainGenerator) trim(m *model.Model) {
	switch g.ReduceMode {
	case ChainReduceShuffle:
		idx := make([]int, len(g.moves))
		for i := range idx {
			idx[i] = i
		}
		g.rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		idx = idx[:g.Budget]
		sort.Ints(idx)
		newMoves := make([]model.Move, g.Budget)
		newFlags := make([]bool, g.Budget)
		for i, k := range idx {
			newMoves[i] = g.moves[k]
			newFlags[i] = g.flags[k]
		}
		g.moves, g.flags = newMoves, newFlags
	default: // ChainReduceOverlapRate
		type idxMove struct {
			idx int
			ov  float64
		}
		ranked := make([]idxMove, len(g.moves))
		for i, mv := range g.moves {
			ranked[i] = idxMove{i, mv.OverlapRate}
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].ov < ranked[j].ov })
		newMoves := make([]model.Move, g.Budget)
		newFlags := make([]bool, g.Budget)
		for i := 0; i < g.Budget; i++ {
			newMoves[i] = g.moves[ranked[i].idx]
			newFlags[i] = g.flags[ranked[i].idx]
		}
		g.moves, g.flags = newMoves, newFlags
	}
}
