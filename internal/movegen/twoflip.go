package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// TwoFlipGenerator enumerates explicitly registered flippable binary
// pairs: flipping both members together (0,1)->(1,0) or (1,0)->(0,1).
// Pairs come only from callers of AddPair; nothing in this module calls
// it, so the family emits no moves unless a caller registers pairs.
type TwoFlipGenerator struct {
	baseGenerator
	pairs [][2]model.VariableID
}

func (g *TwoFlipGenerator) Name() string { return "TwoFlip" }

// AddPair registers a and b as a flippable pair.
func (g *TwoFlipGenerator) AddPair(a, b model.VariableID) {
	g.pairs = append(g.pairs, [2]model.VariableID{a, b})
}

func (g *TwoFlipGenerator) Setup(m *model.Model) {}

func (g *TwoFlipGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.pairs))
	for _, pair := range g.pairs {
		a, b := m.Variable(pair[0]), m.Variable(pair[1])
		if a.Fixed || b.Fixed {
			continue
		}
		if a.Value == b.Value {
			continue
		}
		g.push(model.Move{
			Alterations: []model.Alteration{
				{Var: a.ID, NewValue: b.Value},
				{Var: b.ID, NewValue: a.Value},
			},
			Type:               model.MoveTwoFlip,
			RelatedConstraints: relatedOf(m, a.ID, b.ID),
			IsAvailable:        true,
		})
	}
}
