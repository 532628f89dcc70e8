package tabusearch

import "github.com/go-metaheuristics/tabumh/internal/model"

// TabuEntry pairs a variable with the iteration at which it was last
// perturbed; the variable remains tabu until its tenure expires.
type TabuEntry struct {
	Var                  model.VariableID
	LastPerturbIteration int64
}

// Memory tracks, per variable, the iteration at which it was last altered
// and the tenure currently in force.
type Memory struct {
	lastMoved map[model.VariableID]int64
	tenure    int64
}

// NewMemory returns an empty tabu memory using the given initial tenure.
func NewMemory(initialTenure int64) *Memory {
	return &Memory{lastMoved: make(map[model.VariableID]int64), tenure: initialTenure}
}

// Tenure returns the tenure currently in force.
func (m *Memory) Tenure() int64 { return m.tenure }

// SetTenure overrides the tenure in force (used by automatic adjustment).
func (m *Memory) SetTenure(t int64) { m.tenure = t }

// Mark records that v was altered at iteration.
func (m *Memory) Mark(v model.VariableID, iteration int64) {
	m.lastMoved[v] = iteration
}

// IsVariableTabu reports whether v is still within its tenure window at
// iteration.
func (m *Memory) IsVariableTabu(v model.VariableID, iteration int64) bool {
	last, ok := m.lastMoved[v]
	if !ok {
		return false
	}
	return iteration-last < m.tenure
}

// IsMoveTabu reports whether mv is tabu at iteration under mode: All
// requires every altered variable to be tabu, Any requires only one.
func (m *Memory) IsMoveTabu(mv model.Move, iteration int64, mode TabuMode) bool {
	if len(mv.Alterations) == 0 {
		return false
	}
	switch mode {
	case TabuModeAny:
		for _, a := range mv.Alterations {
			if m.IsVariableTabu(a.Var, iteration) {
				return true
			}
		}
		return false
	default: // TabuModeAll
		for _, a := range mv.Alterations {
			if !m.IsVariableTabu(a.Var, iteration) {
				return false
			}
		}
		return true
	}
}

// ApplyTenure marks every altered variable of mv as tabu as of iteration.
func (m *Memory) ApplyTenure(mv model.Move, iteration int64) {
	for _, a := range mv.Alterations {
		m.Mark(a.Var, iteration)
	}
}
