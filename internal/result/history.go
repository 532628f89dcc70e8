package result

import (
	"strconv"
	"strings"

	"github.com/go-metaheuristics/tabumh/internal/util"
)

// FeasibleSolution is one archived entry: a variable assignment known to
// satisfy every enabled constraint, plus its objective value.
type FeasibleSolution struct {
	Snapshot  []int64
	Objective int64
}

// History is a bounded FIFO of distinct feasible solutions, used by the
// penalty controller's stagnation breaker to seed diversification
// restarts. Distinctness is by exact variable-assignment fingerprint, so
// revisiting the same feasible point does not grow the archive or evict
// older, different solutions.
type History struct {
	capacity int
	order    []string
	byKey    map[string]FeasibleSolution
}

// NewHistory returns an empty History retaining at most capacity
// solutions.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{capacity: capacity, byKey: make(map[string]FeasibleSolution, capacity)}
}

func fingerprint(snapshot []int64) string {
	var b strings.Builder
	for i, v := range snapshot {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}

// Add inserts snapshot if it is not already present, evicting the oldest
// entry once the archive is at capacity. Returns whether it was added.
func (h *History) Add(snapshot []int64, objective int64) bool {
	key := fingerprint(snapshot)
	if _, ok := h.byKey[key]; ok {
		return false
	}
	if len(h.order) >= h.capacity {
		oldest := h.order[0]
		h.order = h.order[1:]
		delete(h.byKey, oldest)
	}
	h.order = append(h.order, key)
	h.byKey[key] = FeasibleSolution{Snapshot: append([]int64(nil), snapshot...), Objective: objective}
	return true
}

// Len returns the number of archived solutions.
func (h *History) Len() int { return len(h.order) }

// Solutions returns every archived solution, oldest first.
func (h *History) Solutions() []FeasibleSolution {
	out := make([]FeasibleSolution, 0, len(h.order))
	for _, key := range h.order {
		out = append(out, h.byKey[key])
	}
	return out
}

// Sample draws a uniformly random archived solution, used by the penalty
// controller to restart from the diversification archive on outer
// stagnation. Returns false if the archive is empty.
func (h *History) Sample(rng *util.RNG) (FeasibleSolution, bool) {
	if len(h.order) == 0 {
		return FeasibleSolution{}, false
	}
	idx := rng.IntN(len(h.order))
	return h.byKey[h.order[idx]], true
}
