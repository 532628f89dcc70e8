package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// UpdaterFunc is an externally installed move-updater closure: given the
// current model, it returns the current candidate move list for this
// family.
type UpdaterFunc func(m *model.Model) []model.Move

// UserDefinedGenerator delegates move generation entirely to an installed
// UpdaterFunc, letting callers extend the catalogue without modifying this
// package.
type UserDefinedGenerator struct {
	baseGenerator
	Update UpdaterFunc
}

func (g *UserDefinedGenerator) Name() string { return "UserDefined" }

func (g *UserDefinedGenerator) Setup(m *model.Model) {}

func (g *UserDefinedGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	if g.Update == nil {
		g.reset(0)
		return
	}
	moves := g.Update(m)
	g.reset(len(moves))
	for _, mv := range moves {
		if mv.Type == 0 && len(mv.Alterations) > 0 {
			mv.Type = model.MoveUserDefined
		}
		g.push(mv)
	}
}
