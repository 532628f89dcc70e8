package evaluate

import "github.com/go-metaheuristics/tabumh/internal/model"

// Filter returns the indices of moves admissible under the evaluator's
// current screening mode. currentlyFeasible selects which dimension
// "improvable" means: objective when the incumbent is feasible, else
// feasibility (the most violated constraint group).
func (e *Evaluator) Filter(scores []model.SolutionScore, currentlyFeasible bool) []int {
	mode := e.Screening
	if mode == ScreeningAutomatic {
		mode = e.chooseAutomaticMode()
	}

	admissible := make([]int, 0, len(scores))
	for i, sc := range scores {
		if e.passesScreen(mode, sc, currentlyFeasible) {
			admissible = append(admissible, i)
		} else {
			e.stats.recordFiltered()
		}
	}
	return admissible
}

func (e *Evaluator) passesScreen(mode ScreeningMode, sc model.SolutionScore, currentlyFeasible bool) bool {
	switch mode {
	case ScreeningOff:
		return true
	case ScreeningSoft:
		if currentlyFeasible {
			return sc.IsObjectiveImprovable || sc.TotalViolation == 0
		}
		return sc.IsFeasibilityImprovable || sc.TotalViolation == 0
	case ScreeningAggressive:
		if currentlyFeasible {
			return sc.IsObjectiveImprovable
		}
		return sc.IsFeasibilityImprovable
	case ScreeningIntensive:
		return (currentlyFeasible && sc.IsObjectiveImprovable) ||
			(!currentlyFeasible && sc.IsFeasibilityImprovable && sc.IsObjectiveImprovable)
	default:
		return true
	}
}

// chooseAutomaticMode picks Soft, Aggressive, or Off from the ratio of
// filtered to evaluated moves accumulated since the Evaluator was created
// (the counts are not reset between episodes): a rate above 0.6 (the
// screen discards most moves) relaxes to Off, a rate below 0.1 tightens
// to Aggressive.
func (e *Evaluator) chooseAutomaticMode() ScreeningMode {
	evaluated := e.stats.Evaluated()
	if evaluated == 0 {
		return ScreeningSoft
	}
	rate := float64(e.stats.Filtered()) / float64(evaluated)
	switch {
	case rate < 0.1:
		return ScreeningAggressive
	case rate > 0.6:
		return ScreeningOff
	default:
		return ScreeningSoft
	}
}
