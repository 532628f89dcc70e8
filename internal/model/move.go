package model

// MoveType tags which move-generator family produced a move, matching the
// closed tag set of the original solver's neighborhood module.
type MoveType int

const (
	MoveBinary MoveType = iota
	MoveInteger
	MoveSelection
	MoveExclusiveOR
	MoveExclusiveNOR
	MoveInvertedIntegers
	MoveBalancedIntegers
	MoveConstantSumIntegers
	MoveConstantDifferenceIntegers
	MoveConstantRatioIntegers
	MoveAggregation
	MovePrecedence
	MoveVariableBound
	MoveSoftSelection
	MoveTrinomialExclusiveNOR
	MoveChain
	MoveTwoFlip
	MoveUserDefined
	MoveGeneral
)

func (t MoveType) String() string {
	names := [...]string{
		"Binary", "Integer", "Selection", "ExclusiveOR", "ExclusiveNOR",
		"InvertedIntegers", "BalancedIntegers", "ConstantSumIntegers",
		"ConstantDifferenceIntegers", "ConstantRatioIntegers", "Aggregation",
		"Precedence", "VariableBound", "SoftSelection",
		"TrinomialExclusiveNOR", "Chain", "TwoFlip", "UserDefined", "General",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return "Unknown"
	}
	return names[t]
}

// Alteration is one (variable, new value) pair of a candidate move.
type Alteration struct {
	Var      VariableID
	NewValue int64
}

// Move is a candidate change to the model: a set of variable alterations
// (size 1..N) produced by one move-generator family, the constraints
// touched by those alterations, and search bookkeeping fields.
type Move struct {
	Alterations        []Alteration
	Type               MoveType
	RelatedConstraints []ConstraintID
	IsAvailable        bool

	// OverlapRate is the fraction of this move's variables that are also
	// touched by other currently queued moves; the chain generator's
	// OverlapRate trim sorts by it and keeps the lowest-rate moves.
	OverlapRate float64
}

// InverseFrom returns the move that undoes this one, given the pre-move
// value of every altered variable (as looked up via valueOf, called
// *before* the move is applied).
func (mv Move) InverseFrom(valueOf func(VariableID) int64) Move {
	inv := Move{
		Type:               mv.Type,
		RelatedConstraints: mv.RelatedConstraints,
		IsAvailable:        mv.IsAvailable,
		OverlapRate:        mv.OverlapRate,
		Alterations:        make([]Alteration, len(mv.Alterations)),
	}
	for i, a := range mv.Alterations {
		inv.Alterations[i] = Alteration{Var: a.Var, NewValue: valueOf(a.Var)}
	}
	return inv
}

// WouldStayInBounds reports whether applying this move to m would keep
// every altered variable within its [Lower, Upper] bounds.
func (mv Move) WouldStayInBounds(m *Model) bool {
	for _, a := range mv.Alterations {
		v := m.Variable(a.Var)
		if a.NewValue < v.Lower || a.NewValue > v.Upper {
			return false
		}
	}
	return true
}

// TouchesVariable reports whether v is among this move's alterations.
func (mv Move) TouchesVariable(v VariableID) bool {
	for _, a := range mv.Alterations {
		if a.Var == v {
			return true
		}
	}
	return false
}
