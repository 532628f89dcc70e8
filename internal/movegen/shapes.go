package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// shapePairGenerator handles the binomial equality shapes whose moves are
// a coordinated (x+dx, y+dy) shift that preserves the constraint's
// equality exactly: ExclusiveOR/NOR, InvertedIntegers, BalancedIntegers,
// ConstantSumIntegers, ConstantDifferenceIntegers. Each shift pair is
// feasibility-neutral for its originating constraint by construction.
type shapePairGenerator struct {
	baseGenerator
	shape   model.ShapeTag
	moveTyp model.MoveType
	deltas  [][2]int64
	members []model.ConstraintID
}

func newShapePairGenerator(shape model.ShapeTag, typ model.MoveType, deltas [][2]int64) *shapePairGenerator {
	return &shapePairGenerator{shape: shape, moveTyp: typ, deltas: deltas}
}

func (g *shapePairGenerator) Name() string { return g.moveTyp.String() }

func (g *shapePairGenerator) Setup(m *model.Model) {
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == g.shape {
			g.members = append(g.members, c.ID)
		}
	}
}

func (g *shapePairGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * len(g.deltas))
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled || len(c.LHS.Terms) != 2 {
			continue
		}
		tx, ty := c.LHS.Terms[0], c.LHS.Terms[1]
		x, y := m.Variable(tx.Var), m.Variable(ty.Var)
		if x.Fixed || y.Fixed {
			continue
		}
		for _, d := range g.deltas {
			nx := x.Value + d[0]
			ny := y.Value + d[1]
			if nx < x.Lower || nx > x.Upper || ny < y.Lower || ny > y.Upper {
				continue
			}
			g.push(model.Move{
				Alterations: []model.Alteration{
					{Var: x.ID, NewValue: nx},
					{Var: y.ID, NewValue: ny},
				},
				Type:               g.moveTyp,
				RelatedConstraints: relatedOf(m, x.ID, y.ID),
				IsAvailable:        true,
			})
		}
	}
}

// NewExclusiveOR flips the pair between (1,0) and (0,1).
func NewExclusiveOR() Generator {
	return newShapePairGenerator(model.ShapeExclusiveOR, model.MoveExclusiveOR, [][2]int64{{1, -1}, {-1, 1}})
}

// NewExclusiveNOR flips the pair between (0,0) and (1,1) via a unit
// co-shift of both variables in the same direction.
func NewExclusiveNOR() Generator {
	return newShapePairGenerator(model.ShapeExclusiveNOR, model.MoveExclusiveNOR, [][2]int64{{1, 1}, {-1, -1}})
}

// NewInvertedIntegers shifts by ±k symmetrically: x+y=0 stays satisfied
// under (x+k, y-k).
func NewInvertedIntegers() Generator {
	return newShapePairGenerator(model.ShapeInvertedIntegers, model.MoveInvertedIntegers, [][2]int64{{1, -1}, {-1, 1}})
}

// NewBalancedIntegers shares a ±k shift: x-y=0 stays satisfied under
// (x+k, y+k).
func NewBalancedIntegers() Generator {
	return newShapePairGenerator(model.ShapeBalancedIntegers, model.MoveBalancedIntegers, [][2]int64{{1, 1}, {-1, -1}})
}

// NewConstantSumIntegers preserves x+y=c under (x+1, y-1) and (x-1, y+1).
func NewConstantSumIntegers() Generator {
	return newShapePairGenerator(model.ShapeConstantSumIntegers, model.MoveConstantSumIntegers, [][2]int64{{1, -1}, {-1, 1}})
}

// NewConstantDifferenceIntegers preserves x-y=c under (x+1, y+1) and
// (x-1, y-1).
func NewConstantDifferenceIntegers() Generator {
	return newShapePairGenerator(model.ShapeConstantDifferenceIntegers, model.MoveConstantDifferenceIntegers, [][2]int64{{1, 1}, {-1, -1}})
}

// PrecedenceGenerator co-shifts (x+delta, y+delta) for x<=y, delta in
// {+1,-1}, which keeps x-y unchanged and therefore keeps the constraint's
// violation unchanged.
type PrecedenceGenerator struct {
	baseGenerator
	members []model.ConstraintID
}

func (g *PrecedenceGenerator) Name() string { return "Precedence" }

func (g *PrecedenceGenerator) Setup(m *model.Model) {
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapePrecedence {
			g.members = append(g.members, c.ID)
		}
	}
}

func (g *PrecedenceGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * 2)
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled || len(c.LHS.Terms) != 2 {
			continue
		}
		tx, ty := c.LHS.Terms[0], c.LHS.Terms[1]
		x, y := m.Variable(tx.Var), m.Variable(ty.Var)
		if x.Fixed || y.Fixed {
			continue
		}
		for _, delta := range [2]int64{1, -1} {
			nx, ny := x.Value+delta, y.Value+delta
			if nx < x.Lower || nx > x.Upper || ny < y.Lower || ny > y.Upper {
				continue
			}
			g.push(model.Move{
				Alterations: []model.Alteration{
					{Var: x.ID, NewValue: nx},
					{Var: y.ID, NewValue: ny},
				},
				Type:               model.MovePrecedence,
				RelatedConstraints: relatedOf(m, x.ID, y.ID),
				IsAvailable:        true,
			})
		}
	}
}

// AggregationGenerator enumerates integer pairs near the current (x, y)
// satisfying a*x + b*y = c exactly, for constraints shaped a*x+b*y=c.
type AggregationGenerator struct {
	baseGenerator
	members []model.ConstraintID
	radius  int64
}

func (g *AggregationGenerator) Name() string { return "Aggregation" }

func (g *AggregationGenerator) Setup(m *model.Model) {
	g.radius = 5
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapeAggregation {
			g.members = append(g.members, c.ID)
		}
	}
}

func (g *AggregationGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * 4)
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled || len(c.LHS.Terms) != 2 {
			continue
		}
		tx, ty := c.LHS.Terms[0], c.LHS.Terms[1]
		x, y := m.Variable(tx.Var), m.Variable(ty.Var)
		if x.Fixed || y.Fixed || tx.Coef == 0 || ty.Coef == 0 {
			continue
		}
		rhs := c.RHS - c.LHS.Constant
		for dx := -g.radius; dx <= g.radius; dx++ {
			nx := x.Value + dx
			if nx < x.Lower || nx > x.Upper || dx == 0 {
				continue
			}
			remainder := rhs - tx.Coef*nx
			if remainder%ty.Coef != 0 {
				continue
			}
			ny := remainder / ty.Coef
			if ny < y.Lower || ny > y.Upper || ny == y.Value {
				continue
			}
			g.push(model.Move{
				Alterations: []model.Alteration{
					{Var: x.ID, NewValue: nx},
					{Var: y.ID, NewValue: ny},
				},
				Type:               model.MoveAggregation,
				RelatedConstraints: relatedOf(m, x.ID, y.ID),
				IsAvailable:        true,
			})
		}
	}
}

// VariableBoundGenerator handles a*x + b*y <> c where exactly one of x,y
// is binary: it emits a move that toggles the binary gate, enabling or
// disabling that term's contribution. The integer partner keeps its
// current value; no move adjusts it.
type VariableBoundGenerator struct {
	baseGenerator
	members []model.ConstraintID
}

func (g *VariableBoundGenerator) Name() string { return "VariableBound" }

func (g *VariableBoundGenerator) Setup(m *model.Model) {
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapeVariableBound {
			g.members = append(g.members, c.ID)
		}
	}
}

func (g *VariableBoundGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * 2)
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled || len(c.LHS.Terms) != 2 {
			continue
		}
		for _, t := range c.LHS.Terms {
			v := m.Variable(t.Var)
			if v.Fixed || v.Upper != 1 || v.Lower != 0 {
				continue
			}
			newVal := int64(1)
			if v.Value == 1 {
				newVal = 0
			}
			g.push(model.Move{
				Alterations:        []model.Alteration{{Var: v.ID, NewValue: newVal}},
				Type:               model.MoveVariableBound,
				RelatedConstraints: relatedOf(m, v.ID),
				IsAvailable:        true,
			})
		}
	}
}

// TrinomialExclusiveNORGenerator toggles x+y=2z, binary, between the
// all-0 and all-1 assignment.
type TrinomialExclusiveNORGenerator struct {
	baseGenerator
	members []model.ConstraintID
}

func (g *TrinomialExclusiveNORGenerator) Name() string { return "TrinomialExclusiveNOR" }

func (g *TrinomialExclusiveNORGenerator) Setup(m *model.Model) {
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapeTrinomialExclusiveNOR {
			g.members = append(g.members, c.ID)
		}
	}
}

func (g *TrinomialExclusiveNORGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * 2)
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled || len(c.LHS.Terms) != 3 {
			continue
		}
		vars := [3]model.VariableID{c.LHS.Terms[0].Var, c.LHS.Terms[1].Var, c.LHS.Terms[2].Var}
		anyFixed := false
		for _, vid := range vars {
			if m.Variable(vid).Fixed {
				anyFixed = true
			}
		}
		if anyFixed {
			continue
		}
		for _, target := range [2]int64{0, 1} {
			alts := make([]model.Alteration, 3)
			for i, vid := range vars {
				alts[i] = model.Alteration{Var: vid, NewValue: target}
			}
			g.push(model.Move{
				Alterations:        alts,
				Type:               model.MoveTrinomialExclusiveNOR,
				RelatedConstraints: relatedOf(m, vars[0], vars[1], vars[2]),
				IsAvailable:        true,
			})
		}
	}
}

// SoftSelectionGenerator handles sum(x_i) = y, binary: a one-hot swap
// among the x_i combined with toggling the gate y to match whether any
// x_i remains selected.
type SoftSelectionGenerator struct {
	baseGenerator
	members []model.ConstraintID
}

func (g *SoftSelectionGenerator) Name() string { return "SoftSelection" }

func (g *SoftSelectionGenerator) Setup(m *model.Model) {
	g.members = g.members[:0]
	for i := range m.Constraints() {
		c := m.Constraint(model.ConstraintID(i))
		if c.Enabled && c.Shape == model.ShapeSoftSelection {
			g.members = append(g.members, c.ID)
		}
	}
}

func (g *SoftSelectionGenerator) UpdateMoves(m *model.Model, opt UpdateOptions) {
	g.reset(len(g.members) * 4)
	for _, cid := range g.members {
		c := m.Constraint(cid)
		if !c.Enabled {
			continue
		}
		var gate model.VariableID
		members := make([]model.VariableID, 0, len(c.LHS.Terms)-1)
		for _, t := range c.LHS.Terms {
			if t.Coef == -1 {
				gate = t.Var
			} else {
				members = append(members, t.Var)
			}
		}
		gv := m.Variable(gate)
		if gv.Fixed {
			continue
		}
		var selected model.VariableID
		found := false
		for _, mv := range members {
			if m.Variable(mv).Value == 1 {
				selected = mv
				found = true
				break
			}
		}
		for _, other := range members {
			if found && other == selected {
				continue
			}
			if m.Variable(other).Fixed {
				continue
			}
			alts := []model.Alteration{{Var: other, NewValue: 1}}
			if found {
				alts = append(alts, model.Alteration{Var: selected, NewValue: 0})
			}
			alts = append(alts, model.Alteration{Var: gate, NewValue: 1})
			g.push(model.Move{
				Alterations:        alts,
				Type:               model.MoveSoftSelection,
				RelatedConstraints: relatedOf(m, append([]model.VariableID{other, gate}, members...)...),
				IsAvailable:        true,
			})
		}
	}
}
