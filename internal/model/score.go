package model

// SolutionScore summarizes a candidate or current solution's quality. The
// augmented objective equals objective plus the sum of penalty_c times
// violation_c over every constraint.
type SolutionScore struct {
	Objective                int64
	ObjectiveImprovement     int64
	TotalViolation           int64
	LocalPenalty             float64
	GlobalPenalty            float64
	LocalAugmentedObjective  float64
	GlobalAugmentedObjective float64
	IsFeasible               bool
	IsObjectiveImprovable    bool
	IsFeasibilityImprovable  bool
}

// AugmentedObjective computes objective + sum(penalty_c * violation_c)
// over the given per-constraint penalties and violations, which must be
// the same length and in constraint-ID order.
func AugmentedObjective(objective int64, penalties, violations []float64) float64 {
	total := float64(objective)
	for i, p := range penalties {
		total += p * violations[i]
	}
	return total
}
