// Package jsonio writes the result types in internal/result out to the
// external JSON/text shapes spec.md §6 specifies: a NamedSolution
// document, a feasible-solution history document, and a tab-separated
// per-iteration trend file. Grounded on bls_logger.go's
// encoding/json-with-struct-tags idiom (JSONL event writer) rather than
// original_source/cppmh/solver/history.h's hand-rolled ofstream << "\""
// writer: this repo follows the teacher's library choice even where the
// original hand-rolled its own JSON.
package jsonio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/result"
)

// variableEntry is one named variable's value under NamedSolutionDoc.
// Shape is always empty since internal/model's variables are scalar, not
// the multi-dimensional arrays spec.md's original supported; Values holds
// exactly one element per variable (see DESIGN.md's Open Questions note).
type variableEntry struct {
	Values []int64 `json:"values"`
	Shape  []int   `json:"shape"`
}

type constraintEntry struct {
	LHSValue   int64 `json:"lhs_value"`
	RHS        int64 `json:"rhs"`
	IsFeasible bool  `json:"is_feasible"`
}

// NamedSolutionDoc is the top-level NamedSolution JSON document per
// spec.md §6.
type NamedSolutionDoc struct {
	Name           string                     `json:"name"`
	Objective      float64                    `json:"objective"`
	IsFeasible     bool                       `json:"is_feasible"`
	TotalViolation int64                      `json:"total_violation"`
	Variables      map[string]variableEntry   `json:"variables"`
	Constraints    map[string]constraintEntry `json:"constraints"`
	Violations     map[string]int64           `json:"violations"`
}

// BuildNamedSolution assembles a NamedSolutionDoc from a solved model and
// its recorded solution, using m's variable/constraint names as keys and
// m's current numeric state (the caller is expected to have restored sol
// into m beforehand, the way cmd/tabumh does before writing it).
func BuildNamedSolution(m *model.Model, sol result.Solution) NamedSolutionDoc {
	doc := NamedSolutionDoc{
		Name:           sol.Name,
		Objective:      float64(sol.Objective),
		IsFeasible:     sol.IsFeasible,
		TotalViolation: sol.TotalViolation,
		Variables:      make(map[string]variableEntry, m.NumVariables()),
		Constraints:    make(map[string]constraintEntry, m.NumConstraints()),
		Violations:     make(map[string]int64),
	}
	for i := 0; i < m.NumVariables(); i++ {
		v := m.Variable(model.VariableID(i))
		val := v.Value
		if i < len(sol.Variables) {
			val = sol.Variables[i]
		}
		doc.Variables[v.Name] = variableEntry{Values: []int64{val}, Shape: []int{}}
	}
	for i := 0; i < m.NumConstraints(); i++ {
		c := m.Constraint(model.ConstraintID(i))
		viol := c.CachedViolation()
		doc.Constraints[c.Name] = constraintEntry{
			LHSValue:   c.LHS.Value(),
			RHS:        c.RHS,
			IsFeasible: viol == 0,
		}
		if viol != 0 {
			doc.Violations[c.Name] = viol
		}
	}
	return doc
}

// WriteNamedSolution marshals doc as indented JSON to w.
func WriteNamedSolution(w io.Writer, doc NamedSolutionDoc) error {
	return writeIndentedJSON(w, doc)
}

// historySolutionEntry is one element of HistoryDoc.Solutions.
type historySolutionEntry struct {
	IsFeasible bool    `json:"is_feasible"`
	Objective  int64   `json:"objective"`
	Variables  []int64 `json:"variables"`
}

// HistoryDoc is the feasible-solution history JSON document per spec.md
// §6.
type HistoryDoc struct {
	Name                string                 `json:"name"`
	NumberOfVariables   int                    `json:"number_of_variables"`
	NumberOfConstraints int                    `json:"number_of_constraints"`
	Solutions           []historySolutionEntry `json:"solutions"`
}

// BuildHistory assembles a HistoryDoc from a model's dimensions and its
// feasible-solution archive.
func BuildHistory(name string, numVariables, numConstraints int, h *result.History) HistoryDoc {
	entries := h.Solutions()
	doc := HistoryDoc{
		Name:                name,
		NumberOfVariables:   numVariables,
		NumberOfConstraints: numConstraints,
		Solutions:           make([]historySolutionEntry, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Solutions = append(doc.Solutions, historySolutionEntry{
			IsFeasible: true,
			Objective:  e.Objective,
			Variables:  e.Snapshot,
		})
	}
	return doc
}

// WriteHistory marshals doc as indented JSON to w.
func WriteHistory(w io.Writer, doc HistoryDoc) error {
	return writeIndentedJSON(w, doc)
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return result.NewError(result.ErrInternalInvariant, fmt.Sprintf("jsonio: encode failed: %v", err), err)
	}
	return nil
}

// TrendWriter streams result.TrendPoint rows as a tab-separated file, one
// header line followed by one row per WriteRow call, matching spec.md
// §6's trend-file contract.
type TrendWriter struct {
	w           io.Writer
	wroteHeader bool
}

// NewTrendWriter returns a TrendWriter that writes to w. The header row is
// emitted on the first WriteRow call.
func NewTrendWriter(w io.Writer) *TrendWriter {
	return &TrendWriter{w: w}
}

var trendHeader = strings.Join([]string{
	"iteration", "objective", "violation", "best_objective", "best_violation", "penalty_scale",
}, "\t")

// WriteRow appends one trend row, writing the header first if this is the
// first call.
func (t *TrendWriter) WriteRow(p result.TrendPoint) error {
	if !t.wroteHeader {
		if _, err := fmt.Fprintln(t.w, trendHeader); err != nil {
			return result.NewError(result.ErrInternalInvariant, err.Error(), err)
		}
		t.wroteHeader = true
	}
	row := strings.Join([]string{
		strconv.Itoa(p.Iteration),
		strconv.FormatInt(p.Objective, 10),
		strconv.FormatInt(p.Violation, 10),
		strconv.FormatInt(p.BestObjective, 10),
		strconv.FormatInt(p.BestViolation, 10),
		strconv.FormatFloat(p.PenaltyScale, 'g', -1, 64),
	}, "\t")
	if _, err := fmt.Fprintln(t.w, row); err != nil {
		return result.NewError(result.ErrInternalInvariant, err.Error(), err)
	}
	return nil
}
