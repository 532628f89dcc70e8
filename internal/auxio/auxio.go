// Package auxio reads the small whitespace-separated auxiliary file
// formats spec.md §6 lists alongside MPS/OPB: name/value maps, name sets,
// name-pair sequences, and variable-assignment solution hints. Grounded
// on the teacher's plain-line config readers (cmd/keycraft/flags.go
// reads one token per line for word lists) — the same bufio.Scanner
// line-at-a-time idiom, generalized from word lists to key/value and
// pair records.
package auxio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-metaheuristics/tabumh/internal/result"
)

func scanLines(r io.Reader) (*bufio.Scanner, func() error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc, sc.Err
}

func isBlankOrComment(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// ReadNamesAndValues reads "key value" per non-empty line into a map.
func ReadNamesAndValues(r io.Reader) (map[string]int64, error) {
	sc, errFn := scanLines(r)
	out := map[string]int64{}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if isBlankOrComment(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, parseErr("auxio: expected \"name value\", got %q", line)
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, parseErr("auxio: bad value in %q: %v", line, err)
		}
		out[fields[0]] = v
	}
	if err := errFn(); err != nil {
		return nil, parseErr("auxio: scan failed: %v", err)
	}
	return out, nil
}

// ReadNames reads one token per non-empty line into a set.
func ReadNames(r io.Reader) (map[string]struct{}, error) {
	sc, errFn := scanLines(r)
	out := map[string]struct{}{}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if isBlankOrComment(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 1 {
			return nil, parseErr("auxio: expected a single token, got %q", line)
		}
		out[fields[0]] = struct{}{}
	}
	if err := errFn(); err != nil {
		return nil, parseErr("auxio: scan failed: %v", err)
	}
	return out, nil
}

// NamePair is one "first second" line of a ReadNamePairs file.
type NamePair struct {
	First, Second string
}

// ReadNamePairs reads "first second" per non-empty line into an ordered
// sequence of pairs.
func ReadNamePairs(r io.Reader) ([]NamePair, error) {
	sc, errFn := scanLines(r)
	var out []NamePair
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if isBlankOrComment(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, parseErr("auxio: expected \"first second\", got %q", line)
		}
		out = append(out, NamePair{First: fields[0], Second: fields[1]})
	}
	if err := errFn(); err != nil {
		return nil, parseErr("auxio: scan failed: %v", err)
	}
	return out, nil
}

// ReadSolutionHints reads "variable_name value" per non-empty line, the
// same grammar as ReadNamesAndValues but named separately per spec.md §6
// since it serves a distinct role (seeding an initial assignment rather
// than a generic name/value map).
func ReadSolutionHints(r io.Reader) (map[string]int64, error) {
	return ReadNamesAndValues(r)
}

func parseErr(format string, args ...any) error {
	return result.NewError(result.ErrParse, fmt.Sprintf(format, args...), nil)
}
