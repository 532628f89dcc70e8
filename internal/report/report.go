// Package report renders a result.Solution as console tables: one
// summary table for the terminal status/objective/violation, and one
// per-variable value table. Grounded on internal/tui/view.go's
// table.NewWriter/SetColumnConfigs/AppendHeader/AppendRow shape and
// internal/tui/styles.go's EmptyStyle, reused here for a plain
// two-column key/value summary and a wide variable table instead of a
// keyboard-layout grid.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/result"
)

// EmptyStyle returns a table style with no surrounding box, matching the
// teacher's console-report look.
func EmptyStyle() table.Style {
	s := table.StyleDefault
	s.Box = table.BoxStyle{
		BottomLeft:       s.Box.BottomLeft,
		BottomRight:      s.Box.BottomRight,
		BottomSeparator:  s.Box.BottomSeparator,
		Left:             " ",
		LeftSeparator:    s.Box.LeftSeparator,
		MiddleHorizontal: " ",
		MiddleSeparator:  s.Box.MiddleSeparator,
		MiddleVertical:   " ",
		Right:            " ",
		RightSeparator:   s.Box.RightSeparator,
		TopLeft:          s.Box.TopLeft,
		TopRight:         s.Box.TopRight,
		TopSeparator:     s.Box.TopSeparator,
		UnfinishedRow:    " ",
	}
	return s
}

// WriteSummary renders the solve's terminal status, objective, and
// violation as a two-column key/value table.
func WriteSummary(w io.Writer, sol result.Solution) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(EmptyStyle())
	tw.AppendHeader(table.Row{"field", "value"})
	tw.AppendRow(table.Row{"status", sol.Status.String()})
	tw.AppendRow(table.Row{"objective", sol.Objective})
	tw.AppendRow(table.Row{"feasible", sol.IsFeasible})
	tw.AppendRow(table.Row{"total violation", sol.TotalViolation})
	tw.Render()
}

// WriteVariables renders every variable's name and final value, sorted by
// name, as a two-column table.
func WriteVariables(w io.Writer, m *model.Model, sol result.Solution) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(EmptyStyle())
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.AppendHeader(table.Row{"variable", "value"})

	type row struct {
		name string
		val  int64
	}
	rows := make([]row, 0, m.NumVariables())
	for i := 0; i < m.NumVariables(); i++ {
		v := m.Variable(model.VariableID(i))
		val := v.Value
		if i < len(sol.Variables) {
			val = sol.Variables[i]
		}
		rows = append(rows, row{name: v.Name, val: val})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	for _, r := range rows {
		tw.AppendRow(table.Row{r.name, r.val})
	}
	tw.Render()
}

// WriteViolatedConstraints renders every constraint with nonzero current
// violation, sorted by name. Returns the count written, useful for a
// one-line "N constraints violated" summary.
func WriteViolatedConstraints(w io.Writer, m *model.Model) int {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(EmptyStyle())
	tw.AppendHeader(table.Row{"constraint", "lhs", "rhs", "violation"})

	type row struct {
		name             string
		lhs, rhs, amount int64
	}
	var rows []row
	for i := 0; i < m.NumConstraints(); i++ {
		c := m.Constraint(model.ConstraintID(i))
		if v := c.CachedViolation(); v != 0 {
			rows = append(rows, row{name: c.Name, lhs: c.LHS.Value(), rhs: c.RHS, amount: v})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	for _, r := range rows {
		tw.AppendRow(table.Row{r.name, r.lhs, r.rhs, r.amount})
	}
	if len(rows) > 0 {
		tw.Render()
	} else {
		fmt.Fprintln(w, "no violated constraints")
	}
	return len(rows)
}
