// Package opb reads OPB/PB pseudo-Boolean format (DIMACS/OPB dialect) into
// a *model.Model. Grounded on spec.md §6's contract and
// original_source/printemps/pb/*.h for the exact line grammar: a `min:`
// objective line, constraint lines ending `>= n;` or `= n;`, an optional
// WBO-style `soft: k;` top-cost line, and product terms x_i*x_j linearized
// via a fresh binary z with the three standard AND-linearizing
// constraints, the way printemps's PB reader expands nonlinear terms
// before they reach its solver core.
package opb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-metaheuristics/tabumh/internal/model"
	"github.com/go-metaheuristics/tabumh/internal/result"
)

// term is one monomial of a parsed line: coefficient times the product of
// one or two variable names (two names means a linearization candidate).
type term struct {
	coef  int64
	names []string
}

// Read parses an OPB/PB source into a model. A `soft:` WBO top-cost line
// is checked to hold a number and is otherwise discarded; the returned
// model carries no soft-constraint information.
func Read(r io.Reader, name string) (*model.Model, error) {
	m := model.New(name)

	varID := map[string]model.VariableID{}
	getVar := func(name string) (model.VariableID, error) {
		if id, ok := varID[name]; ok {
			return id, nil
		}
		id, err := m.AddVariable(name, 0, 1, 0, model.Binary)
		if err != nil {
			return 0, result.NewError(result.ErrParse, err.Error(), err)
		}
		varID[name] = id
		return id, nil
	}

	linCount := 0
	freshLinearizationVar := func() (model.VariableID, error) {
		linCount++
		return getVar(fmt.Sprintf("_lin%d", linCount))
	}

	var objTerms []term
	var haveObjective bool
	var constraints [][2]any // {terms []term, clause string} pairs, processed after scan

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		line = strings.TrimSuffix(line, ";")

		switch {
		case strings.HasPrefix(line, "min:"):
			terms, err := parseTerms(strings.TrimSpace(strings.TrimPrefix(line, "min:")))
			if err != nil {
				return nil, err
			}
			objTerms = terms
			haveObjective = true
		case strings.HasPrefix(line, "soft:"):
			// WBO top-cost: parsed to validate the number, then discarded;
			// spec.md §6 lists it as part of the format without requiring
			// WBO semantics from the core.
			if _, err := parseNumber(strings.TrimSpace(strings.TrimPrefix(line, "soft:"))); err != nil {
				return nil, err
			}
		default:
			body, sense, rhs, err := splitConstraint(line)
			if err != nil {
				return nil, err
			}
			terms, err := parseTerms(body)
			if err != nil {
				return nil, err
			}
			constraints = append(constraints, [2]any{terms, struct {
				sense model.ConstraintSense
				rhs   int64
			}{sense, rhs}})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, result.NewError(result.ErrParse, fmt.Sprintf("scan failed: %v", err), nil)
	}

	resolveLinear := func(ts []term) ([]model.Term, int64, error) {
		var out []model.Term
		var constant int64
		for _, t := range ts {
			switch len(t.names) {
			case 0:
				constant += t.coef
			case 1:
				id, err := getVar(t.names[0])
				if err != nil {
					return nil, 0, err
				}
				out = append(out, model.Term{Var: id, Coef: t.coef})
			case 2:
				zid, err := freshLinearizationVar()
				if err != nil {
					return nil, 0, err
				}
				if err := addLinearizationConstraints(m, getVar, zid, t.names); err != nil {
					return nil, 0, err
				}
				out = append(out, model.Term{Var: zid, Coef: t.coef})
			default:
				return nil, 0, result.NewError(result.ErrParse, "opb: products of more than two literals are unsupported", nil)
			}
		}
		return out, constant, nil
	}

	if haveObjective {
		terms, constant, err := resolveLinear(objTerms)
		if err != nil {
			return nil, err
		}
		if err := m.SetObjective(terms, constant, model.Minimize); err != nil {
			return nil, result.NewError(result.ErrParse, err.Error(), err)
		}
	} else if err := m.SetObjective(nil, 0, model.Minimize); err != nil {
		return nil, result.NewError(result.ErrParse, err.Error(), err)
	}

	for i, entry := range constraints {
		ts := entry[0].([]term)
		cl := entry[1].(struct {
			sense model.ConstraintSense
			rhs   int64
		})
		terms, constant, err := resolveLinear(ts)
		if err != nil {
			return nil, err
		}
		if _, err := m.AddConstraint(fmt.Sprintf("c%d", i+1), terms, constant, cl.sense, cl.rhs); err != nil {
			return nil, result.NewError(result.ErrParse, err.Error(), err)
		}
	}

	return m, nil
}

// addLinearizationConstraints adds the three standard constraints binding
// z = names[0] AND names[1]: z <= a, z <= b, z >= a + b - 1.
func addLinearizationConstraints(m *model.Model, getVar func(string) (model.VariableID, error), z model.VariableID, names []string) error {
	a, err := getVar(names[0])
	if err != nil {
		return err
	}
	b, err := getVar(names[1])
	if err != nil {
		return err
	}
	if _, err := m.AddConstraint(fmt.Sprintf("_lin%d_a", z), []model.Term{{Var: z, Coef: 1}, {Var: a, Coef: -1}}, 0, model.LessEq, 0); err != nil {
		return result.NewError(result.ErrParse, err.Error(), err)
	}
	if _, err := m.AddConstraint(fmt.Sprintf("_lin%d_b", z), []model.Term{{Var: z, Coef: 1}, {Var: b, Coef: -1}}, 0, model.LessEq, 0); err != nil {
		return result.NewError(result.ErrParse, err.Error(), err)
	}
	if _, err := m.AddConstraint(fmt.Sprintf("_lin%d_c", z), []model.Term{{Var: z, Coef: 1}, {Var: a, Coef: -1}, {Var: b, Coef: -1}}, 0, model.GreaterEq, -1); err != nil {
		return result.NewError(result.ErrParse, err.Error(), err)
	}
	return nil
}

// splitConstraint separates a constraint line's LHS from its sense and RHS.
func splitConstraint(line string) (body string, sense model.ConstraintSense, rhs int64, err error) {
	for _, op := range []struct {
		token string
		sense model.ConstraintSense
	}{
		{">=", model.GreaterEq},
		{"=", model.Equal},
	} {
		if idx := strings.Index(line, op.token); idx >= 0 {
			rhsStr := strings.TrimSpace(line[idx+len(op.token):])
			val, perr := parseNumber(rhsStr)
			if perr != nil {
				return "", 0, 0, perr
			}
			return strings.TrimSpace(line[:idx]), op.sense, val, nil
		}
	}
	return "", 0, 0, result.NewError(result.ErrParse, fmt.Sprintf("opb: no relational operator in line %q", line), nil)
}

// parseTerms tokenizes a sequence of `[+-]k lit [lit] ...` monomials.
func parseTerms(body string) ([]term, error) {
	fields := strings.Fields(body)
	var out []term
	i := 0
	for i < len(fields) {
		coef, err := parseNumber(fields[i])
		if err != nil {
			return nil, result.NewError(result.ErrParse, fmt.Sprintf("opb: expected coefficient, got %q", fields[i]), err)
		}
		i++
		var names []string
		for i < len(fields) && isLiteral(fields[i]) {
			names = append(names, fields[i])
			i++
		}
		if len(names) == 0 {
			return nil, result.NewError(result.ErrParse, fmt.Sprintf("opb: coefficient %q has no literal", fields[i-1]), nil)
		}
		out = append(out, term{coef: coef, names: names})
	}
	return out, nil
}

func isLiteral(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return !(c == '+' || c == '-' || (c >= '0' && c <= '9'))
}

func parseNumber(s string) (int64, error) {
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, result.NewError(result.ErrParse, fmt.Sprintf("opb: bad integer %q", s), err)
	}
	return v, nil
}
