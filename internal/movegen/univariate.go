package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// BinaryGenerator flips each non-fixed binary variable.
type BinaryGenerator struct {
	baseGenerator
	vars []model.VariableID
}

func (g *BinaryGenerator) Name() string { return "Binary" }

func (g *BinaryGenerator) Setup(m *model.Model) {
	g.vars = g.vars[:0]
	for i := range m.Variables() {
		v := m.Variable(model.VariableID(i))
		if v.Sense == model.Binary && !v.Fixed && !v.IsFixedRange() {
			g.vars = append(g.vars, v.ID)
		}
	}
}

func (g *BinaryGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.vars))
	for _, vid := range g.vars {
		v := m.Variable(vid)
		if v.Fixed {
			continue
		}
		newVal := int64(1)
		if v.Value == 1 {
			newVal = 0
		}
		g.push(model.Move{
			Alterations:        []model.Alteration{{Var: vid, NewValue: newVal}},
			Type:               model.MoveBinary,
			RelatedConstraints: relatedOf(m, vid),
			IsAvailable:        true,
		})
	}
}

// IntegerGenerator emits v+1, v-1, (v+upper)/2, (v+lower)/2 (clipped,
// deduplicated) for every non-fixed Integer variable.
type IntegerGenerator struct {
	baseGenerator
	vars []model.VariableID
}

func (g *IntegerGenerator) Name() string { return "Integer" }

func (g *IntegerGenerator) Setup(m *model.Model) {
	g.vars = g.vars[:0]
	for i := range m.Variables() {
		v := m.Variable(model.VariableID(i))
		if v.Sense == model.Integer && !v.Fixed && !v.IsFixedRange() {
			g.vars = append(g.vars, v.ID)
		}
	}
}

func (g *IntegerGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.vars) * 4)
	for _, vid := range g.vars {
		v := m.Variable(vid)
		if v.Fixed {
			continue
		}
		candidates := [4]int64{
			clip(v.Value+1, v.Lower, v.Upper),
			clip(v.Value-1, v.Lower, v.Upper),
			clip((v.Value+v.Upper)/2, v.Lower, v.Upper),
			clip((v.Value+v.Lower)/2, v.Lower, v.Upper),
		}
		seen := make(map[int64]bool, 4)
		related := relatedOf(m, vid)
		for _, cand := range candidates {
			if cand == v.Value || seen[cand] {
				continue
			}
			seen[cand] = true
			g.push(model.Move{
				Alterations:        []model.Alteration{{Var: vid, NewValue: cand}},
				Type:               model.MoveInteger,
				RelatedConstraints: related,
				IsAvailable:        true,
			})
		}
	}
}
