// Package mps reads MPS-format linear/integer programs (fixed or free
// layout) into a *model.Model. Grounded on spec.md §6's external-interface
// contract: sections NAME, OBJSENSE, OBJNAME, ROWS, COLUMNS, RHS, RANGES,
// BOUNDS, ENDATA; row types N/L/E/G; bound types BV/FR/MI/PL/LO/LI/UP/UI/FX.
// No example repo ships an MPS reader; the line/field grammar below follows
// the format's own published grammar rather than any example's shape, the
// way internal/presolve follows spec.md's numbered steps directly.
package mps

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/result"
)

// infinity bounds a free variable's range to a value comfortably inside
// int64 arithmetic headroom (alterations and deltas must not overflow).
const infinity = int64(1) << 40

type rowType int

const (
	rowObjective rowType = iota
	rowLessEq
	rowEqual
	rowGreaterEq
)

// termRef defers variable-ID resolution until every COLUMNS card has been
// seen and variables have been registered in first-appearance order.
type termRef struct {
	col  string
	coef int64
}

type row struct {
	name  string
	kind  rowType
	terms []termRef
	rhs   int64
	rng   *int64
	hasRHS bool
}

type column struct {
	name        string
	lower       int64
	upper       int64
	hasUpper    bool
	hasLower    bool
	integer     bool
	fixedBinary bool
}

func newColumn(name string) *column {
	return &column{name: name, lower: 0, upper: infinity}
}

// Read parses an MPS file from r and returns the resulting model. The
// caller runs presolve/classify/Freeze via internal/controller afterward.
func Read(r io.Reader, name string) (*model.Model, error) {
	m := model.New(name)

	var (
		rows     []*row
		rowIndex = map[string]int{}
		cols     = map[string]*column{}
		colOrder []string
		objName  string
		objSense = model.Minimize
		inIntOrg bool
		section  string
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	getColumn := func(name string) *column {
		c, ok := cols[name]
		if !ok {
			c = newColumn(name)
			cols[name] = c
			colOrder = append(colOrder, name)
		}
		return c
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			fields := strings.Fields(line)
			section = strings.ToUpper(fields[0])
			if section == "OBJSENSE" && len(fields) > 1 && isMaxSense(fields[1]) {
				objSense = model.Maximize
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch section {
		case "OBJSENSE":
			if isMaxSense(fields[0]) {
				objSense = model.Maximize
			}
		case "OBJNAME":
			objName = fields[0]
		case "ROWS":
			if len(fields) < 2 {
				return nil, parseErr("ROWS: expected <type> <name>, got %q", line)
			}
			kind, err := parseRowType(fields[0])
			if err != nil {
				return nil, err
			}
			rw := &row{name: fields[1], kind: kind}
			rowIndex[rw.name] = len(rows)
			rows = append(rows, rw)
			if kind == rowObjective && objName == "" {
				objName = rw.name
			}
		case "COLUMNS":
			if isMarkerLine(fields) {
				inIntOrg = isIntorgMarker(fields)
				continue
			}
			if len(fields) < 3 {
				return nil, parseErr("COLUMNS: expected <col> <row> <value> [...], got %q", line)
			}
			colName := fields[0]
			col := getColumn(colName)
			col.integer = col.integer || inIntOrg
			for i := 1; i+1 < len(fields); i += 2 {
				rowName := fields[i]
				val, err := parseNumber(fields[i+1])
				if err != nil {
					return nil, parseErr("COLUMNS: bad value for %s/%s: %v", colName, rowName, err)
				}
				ri, ok := rowIndex[rowName]
				if !ok {
					return nil, parseErr("COLUMNS: row %q not declared in ROWS", rowName)
				}
				rows[ri].terms = append(rows[ri].terms, termRef{col: colName, coef: val})
			}
		case "RHS":
			for i := 1; i+1 < len(fields); i += 2 {
				rowName, valStr := fields[i], fields[i+1]
				ri, ok := rowIndex[rowName]
				if !ok {
					continue
				}
				v, err := parseNumber(valStr)
				if err != nil {
					return nil, parseErr("RHS: bad value for %s: %v", rowName, err)
				}
				rows[ri].rhs = v
				rows[ri].hasRHS = true
			}
		case "RANGES":
			for i := 1; i+1 < len(fields); i += 2 {
				rowName, valStr := fields[i], fields[i+1]
				ri, ok := rowIndex[rowName]
				if !ok {
					continue
				}
				v, err := parseNumber(valStr)
				if err != nil {
					return nil, parseErr("RANGES: bad value for %s: %v", rowName, err)
				}
				rows[ri].rng = &v
			}
		case "BOUNDS":
			if len(fields) < 3 {
				return nil, parseErr("BOUNDS: expected <type> <bndset> <col> [value], got %q", line)
			}
			boundType, colName := strings.ToUpper(fields[0]), fields[2]
			col := getColumn(colName)
			var val int64
			var err error
			if len(fields) >= 4 {
				val, err = parseNumber(fields[3])
				if err != nil {
					return nil, parseErr("BOUNDS: bad value for %s: %v", colName, err)
				}
			}
			if err := applyBound(col, boundType, val); err != nil {
				return nil, err
			}
		case "ENDATA", "NAME":
		default:
		}
	}
	if err := sc.Err(); err != nil {
		return nil, parseErr("scan failed: %v", err)
	}

	varID := make(map[string]model.VariableID, len(colOrder))
	for _, name := range colOrder {
		col := cols[name]
		sense := model.Integer
		if col.fixedBinary || (col.integer && col.lower == 0 && col.upper == 1 && !col.hasUpper) {
			sense = model.Binary
			if !col.hasUpper {
				col.upper = 1
			}
		}
		id, err := m.AddVariable(name, col.lower, col.upper, clampInitial(col.lower, col.upper), sense)
		if err != nil {
			return nil, result.NewError(result.ErrParse, err.Error(), err)
		}
		varID[name] = id
	}

	resolve := func(refs []termRef) ([]model.Term, error) {
		out := make([]model.Term, 0, len(refs))
		for _, tr := range refs {
			id, ok := varID[tr.col]
			if !ok {
				return nil, parseErr("COLUMNS: column %q never registered", tr.col)
			}
			out = append(out, model.Term{Var: id, Coef: tr.coef})
		}
		return out, nil
	}

	for _, rw := range rows {
		terms, err := resolve(rw.terms)
		if err != nil {
			return nil, err
		}
		switch rw.kind {
		case rowObjective:
			if rw.name != objName {
				continue
			}
			if err := m.SetObjective(terms, 0, objSense); err != nil {
				return nil, result.NewError(result.ErrParse, err.Error(), err)
			}
		default:
			sense := mapRowSense(rw.kind)
			if err := addRangedRow(m, rw, terms, sense); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func mapRowSense(k rowType) model.ConstraintSense {
	switch k {
	case rowLessEq:
		return model.LessEq
	case rowGreaterEq:
		return model.GreaterEq
	default:
		return model.Equal
	}
}

func addRangedRow(m *model.Model, rw *row, terms []model.Term, sense model.ConstraintSense) error {
	if rw.rng == nil {
		if _, err := m.AddConstraint(rw.name, terms, 0, sense, rw.rhs); err != nil {
			return result.NewError(result.ErrParse, err.Error(), err)
		}
		return nil
	}
	lo, hi := rangedBounds(sense, rw.rhs, *rw.rng)
	if _, err := m.AddConstraint(rw.name+"_lo", terms, 0, model.GreaterEq, lo); err != nil {
		return result.NewError(result.ErrParse, err.Error(), err)
	}
	if _, err := m.AddConstraint(rw.name+"_hi", terms, 0, model.LessEq, hi); err != nil {
		return result.NewError(result.ErrParse, err.Error(), err)
	}
	return nil
}

// rangedBounds computes [lo, hi] for a RANGES-modified row per the MPS
// standard's range semantics.
func rangedBounds(sense model.ConstraintSense, rhs, rng int64) (int64, int64) {
	absR := rng
	if absR < 0 {
		absR = -absR
	}
	switch sense {
	case model.LessEq:
		return rhs - absR, rhs
	case model.GreaterEq:
		return rhs, rhs + absR
	default: // Equal
		if rng >= 0 {
			return rhs, rhs + rng
		}
		return rhs + rng, rhs
	}
}

func clampInitial(lower, upper int64) int64 {
	if lower > 0 {
		return lower
	}
	if upper < 0 {
		return upper
	}
	return 0
}

// applyBound mutates col per one BOUNDS card. BV fixes [0,1] and marks the
// column integer; FR/MI/PL clear one or both finite sides; LO/LI/UP/UI set
// one side to val; FX fixes both sides to val.
func applyBound(col *column, boundType string, val int64) error {
	switch boundType {
	case "BV":
		col.lower, col.upper = 0, 1
		col.hasLower, col.hasUpper = true, true
		col.integer = true
		col.fixedBinary = true
	case "FR":
		col.lower, col.upper = -infinity, infinity
		col.hasLower, col.hasUpper = true, true
	case "MI":
		col.lower = -infinity
		col.hasLower = true
	case "PL":
		col.upper = infinity
		col.hasUpper = true
	case "LO":
		col.lower = val
		col.hasLower = true
	case "LI":
		col.lower = val
		col.hasLower = true
		col.integer = true
	case "UP":
		col.upper = val
		col.hasUpper = true
		if val < 0 && !col.hasLower {
			col.lower = -infinity
		}
	case "UI":
		col.upper = val
		col.hasUpper = true
		col.integer = true
	case "FX":
		col.lower, col.upper = val, val
		col.hasLower, col.hasUpper = true, true
	default:
		return parseErr("BOUNDS: unknown bound type %q", boundType)
	}
	return nil
}

func isMaxSense(s string) bool {
	return strings.EqualFold(s, "MAX") || strings.EqualFold(s, "MAXIMIZE")
}

func isMarkerLine(fields []string) bool {
	for _, f := range fields {
		if strings.Contains(f, "'MARKER'") {
			return true
		}
	}
	return false
}

func isIntorgMarker(fields []string) bool {
	for _, f := range fields {
		if strings.Contains(f, "'INTORG'") {
			return true
		}
	}
	return false
}

func parseRowType(s string) (rowType, error) {
	switch strings.ToUpper(s) {
	case "N":
		return rowObjective, nil
	case "L":
		return rowLessEq, nil
	case "E":
		return rowEqual, nil
	case "G":
		return rowGreaterEq, nil
	default:
		return 0, parseErr("ROWS: unknown row type %q", s)
	}
}

func parseNumber(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 1) {
		return infinity, nil
	}
	if math.IsInf(f, -1) {
		return -infinity, nil
	}
	return int64(math.Round(f)), nil
}

func parseErr(format string, args ...any) error {
	return result.NewError(result.ErrParse, fmt.Sprintf(format, args...), nil)
}
