package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// SelectionGenerator emits, for each Selection-shaped constraint, a swap
// (selected -> 0, other -> 1) for every other member of the group.
type SelectionGenerator struct {
	baseGenerator
	groups []model.ConstraintID
	mode   SelectionMode
}

func (g *SelectionGenerator) Name() string { return "Selection" }

func (g *SelectionGenerator) SetMode(mode SelectionMode) { g.mode = mode }

func (g *SelectionGenerator) Setup(m *model.Model) {
	g.groups = g.groups[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapeSelection {
			g.groups = append(g.groups, c.ID)
		}
	}
}

func (g *SelectionGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	if g.mode == SelectionOff {
		g.reset(0)
		return
	}
	g.reset(len(g.groups) * 4)
	for _, cid := range g.groups {
		c := m.Constraint(cid)
		if !c.Enabled {
			continue
		}
		var selected model.VariableID
		found := false
		members := make([]model.VariableID, 0, len(c.LHS.Terms))
		for _, t := range c.LHS.Terms {
			members = append(members, t.Var)
			if m.Variable(t.Var).Value == 1 {
				selected = t.Var
				found = true
			}
		}
		if !found {
			continue
		}
		for _, other := range members {
			if other == selected {
				continue
			}
			if m.Variable(other).Fixed || m.Variable(selected).Fixed {
				continue
			}
			related := relatedOf(m, selected, other)
			g.push(model.Move{
				Alterations: []model.Alteration{
					{Var: selected, NewValue: 0},
					{Var: other, NewValue: 1},
				},
				Type:               model.MoveSelection,
				RelatedConstraints: related,
				IsAvailable:        true,
			})
		}
	}
}
