package movegen

import "github.com/go-metaheuristics/tabumh/internal/model"

// Generator is implemented by every move family. Each variant owns its own
// state (the constraints/variables it was set up against and a
// pre-allocated scratch slice for its move list) rather than relying on
// virtual dispatch over a shared representation — the tagged-sum-type
// shape each move family needs, expressed as one interface with one
// struct type per family instead of an enum-of-closures.
type Generator interface {
	// Setup binds the generator to the current model, scanning for the
	// variables/constraints whose shape it applies to. Called once after
	// presolve and classification, before the first UpdateMoves.
	Setup(m *model.Model)

	// UpdateMoves rebuilds this generator's move list in place.
	UpdateMoves(m *model.Model, opt UpdateOptions)

	// Moves returns the current candidate list.
	Moves() []model.Move

	// Flags returns a 0/1 admissibility bitmap parallel to Moves().
	Flags() []bool

	// Name identifies the family for logging and statistics.
	Name() string
}

// baseGenerator factors the moves/flags storage shared by every concrete
// family so each one only needs to implement Setup/UpdateMoves/Name.
type baseGenerator struct {
	moves []model.Move
	flags []bool
}

func (b *baseGenerator) Moves() []model.Move { return b.moves }
func (b *baseGenerator) Flags() []bool       { return b.flags }

func (b *baseGenerator) reset(capHint int) {
	if cap(b.moves) < capHint {
		b.moves = make([]model.Move, 0, capHint)
	} else {
		b.moves = b.moves[:0]
	}
	if cap(b.flags) < capHint {
		b.flags = make([]bool, 0, capHint)
	} else {
		b.flags = b.flags[:0]
	}
}

func (b *baseGenerator) push(mv model.Move) {
	b.moves = append(b.moves, mv)
	b.flags = append(b.flags, mv.IsAvailable)
}

// clip clamps v into [lo, hi].
func clip(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func relatedOf(m *model.Model, vars ...model.VariableID) []model.ConstraintID {
	seen := make(map[model.ConstraintID]bool)
	var out []model.ConstraintID
	for _, vid := range vars {
		for _, ref := range m.Variable(vid).Refs {
			if !seen[ref.Constraint] {
				seen[ref.Constraint] = true
				out = append(out, ref.Constraint)
			}
		}
	}
	return out
}
