package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// ConstantRatioGenerator walks the integer lattice satisfying a*x = b*y
// exactly, stepping x by multiples of b/gcd(a,b) and y by the
// corresponding multiple of a/gcd(a,b) so the ratio constraint stays
// exact by construction.
type ConstantRatioGenerator struct {
	baseGenerator
	members []model.ConstraintID
	steps   int64
}

func (g *ConstantRatioGenerator) Name() string { return "ConstantRatioIntegers" }

func (g *ConstantRatioGenerator) Setup(m *model.Model) {
	g.steps = 3
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapeConstantRatioIntegers {
			g.members = append(g.members, c.ID)
		}
	}
}

func gcdAbs(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func (g *ConstantRatioGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * int(g.steps) * 2)
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled || len(c.LHS.Terms) != 2 {
			continue
		}
		tx, ty := c.LHS.Terms[0], c.LHS.Terms[1]
		a, b := tx.Coef, -ty.Coef // a*x - b'*y = 0 with b' = -ty.Coef
		g3 := gcdAbs(a, b)
		stepX := b / g3
		stepY := a / g3
		x, y := m.Variable(tx.Var), m.Variable(ty.Var)
		if x.Fixed || y.Fixed {
			continue
		}
		for k := int64(1); k <= g.steps; k++ {
			for _, sign := range [2]int64{1, -1} {
				nx := x.Value + sign*k*stepX
				ny := y.Value + sign*k*stepY
				if nx < x.Lower || nx > x.Upper || ny < y.Lower || ny > y.Upper {
					continue
				}
				g.push(model.Move{
					Alterations: []model.Alteration{
						{Var: x.ID, NewValue: nx},
						{Var: y.ID, NewValue: ny},
					},
					Type:               model.MoveConstantRatioIntegers,
					RelatedConstraints: relatedOf(m, x.ID, y.ID),
					IsAvailable:        true,
				})
			}
		}
	}
}
