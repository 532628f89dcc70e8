package util

import "math"

// UCB1 selects among a fixed set of discrete arms (here, tabu-search
// parameter settings) by upper-confidence-bound, with an exponential decay
// applied to accumulated statistics so the bandit can track a
// non-stationary reward signal across controller episodes.
type UCB1 struct {
	decay   float64
	pulls   []float64
	rewards []float64
	total   float64
}

// NewUCB1 returns a bandit over numArms arms. decay in (0, 1] scales
// historical statistics by decay after each pull; decay == 1 disables
// decay (stationary UCB1).
func NewUCB1(numArms int, decay float64) *UCB1 {
	if decay <= 0 || decay > 1 {
		decay = 1
	}
	return &UCB1{
		decay:   decay,
		pulls:   make([]float64, numArms),
		rewards: make([]float64, numArms),
	}
}

// Select returns the index of the arm to pull next. Arms never pulled are
// preferred in index order (standard UCB1 initialization).
func (b *UCB1) Select() int {
	for i, p := range b.pulls {
		if p == 0 {
			return i
		}
	}
	best, bestScore := 0, math.Inf(-1)
	for i := range b.pulls {
		mean := b.rewards[i] / b.pulls[i]
		bonus := math.Sqrt(2 * math.Log(b.total+1) / b.pulls[i])
		score := mean + bonus
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// Update records a reward observation for arm, decaying prior statistics
// first.
func (b *UCB1) Update(arm int, reward float64) {
	if b.decay != 1 {
		for i := range b.pulls {
			b.pulls[i] *= b.decay
			b.rewards[i] *= b.decay
		}
		b.total *= b.decay
	}
	b.pulls[arm]++
	b.rewards[arm] += reward
	b.total++
}

// NumArms returns the number of arms the bandit manages.
func (b *UCB1) NumArms() int {
	return len(b.pulls)
}
