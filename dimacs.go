package craig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDIMACS reads a formula in the DIMACS CNF text format, building
// each clause as its terminating 0 is reached. keepMinimal controls
// whether the resulting CNF is eagerly minimized.
//
// A few relaxations of the strict format are accepted: comment lines
// (leading 'c') may appear anywhere rather than only in the preamble,
// the problem line may be absent, a clause may span several lines or
// share a line with others, a final clause may omit its terminating 0,
// and a line holding a single '%' ends the formula (some benchmark
// suites attach trailers after it).
//
// DIMACS variable 1 is this package's reserved constant, so clauses
// mentioning it fold under the usual rules: a positive occurrence makes
// the clause valid (and the CNF drops it), a negative occurrence is
// erased. The problem-line clause count is checked against the number of
// clauses as written, before any such folding.
func ParseDIMACS(r io.Reader, keepMinimal bool) (CNF, error) {
	declVars, declClauses := -1, -1
	numWritten := 0
	var cur []Literal
	var clauses []Clause

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
scan:
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "" || line[0] == 'c':
			continue
		case line == "%":
			break scan
		case line[0] == 'p':
			if numWritten > 0 || len(cur) > 0 {
				return CNF{}, dimacsError(lineNo, "problem line appears after clause data")
			}
			if declVars >= 0 {
				return CNF{}, dimacsError(lineNo, "second problem line")
			}
			var err error
			declVars, declClauses, err = parseProblemLine(line, lineNo)
			if err != nil {
				return CNF{}, err
			}
			continue
		}
		for _, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return CNF{}, dimacsError(lineNo, fmt.Sprintf("bad literal %q", field))
			}
			if n == 0 {
				clauses = append(clauses, NewClauseSlice(cur))
				cur = cur[:0]
				numWritten++
				continue
			}
			v := n
			if v < 0 {
				v = -v
			}
			if declVars > 0 && v > declVars {
				return CNF{}, dimacsError(lineNo, fmt.Sprintf("variable %d exceeds the declared maximum %d", v, declVars))
			}
			cur = append(cur, Literal(n))
		}
	}
	if err := s.Err(); err != nil {
		return CNF{}, err
	}
	if len(cur) > 0 {
		clauses = append(clauses, NewClauseSlice(cur))
		numWritten++
	}
	if declClauses >= 0 && numWritten != declClauses {
		return CNF{}, dimacsError(lineNo, fmt.Sprintf("problem line declares %d clauses but %d were written", declClauses, numWritten))
	}
	return NewCNF(keepMinimal, clauses...), nil
}

func parseProblemLine(line string, lineNo int) (vars, clauses int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "p" {
		return 0, 0, dimacsError(lineNo, fmt.Sprintf("malformed problem line %q", line))
	}
	if fields[1] != "cnf" {
		return 0, 0, dimacsError(lineNo, fmt.Sprintf("unsupported format %q, want cnf", fields[1]))
	}
	vars, err = strconv.Atoi(fields[2])
	if err != nil || vars < 0 {
		return 0, 0, dimacsError(lineNo, fmt.Sprintf("bad variable count %q", fields[2]))
	}
	clauses, err = strconv.Atoi(fields[3])
	if err != nil || clauses < 0 {
		return 0, 0, dimacsError(lineNo, fmt.Sprintf("bad clause count %q", fields[3]))
	}
	return vars, clauses, nil
}

func dimacsError(lineNo int, msg string) *ParseError {
	return &ParseError{Format: "dimacs", Pos: fmt.Sprintf("line %d", lineNo), Msg: msg}
}

// WriteDIMACS writes cnf to w in DIMACS CNF format, with a problem line
// computed from the highest variable present and the clause count.
func WriteDIMACS(w io.Writer, cnf CNF) error {
	maxVar := 0
	for l := range cnf.Variables() {
		if v := l.Variable(); v > maxVar {
			maxVar = v
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", maxVar, cnf.Len())
	for _, cl := range cnf.Clauses() {
		parts := make([]string, 0, cl.Len()+1)
		for _, l := range cl.Literals() {
			parts = append(parts, strconv.Itoa(int(l)))
		}
		parts = append(parts, "0")
		fmt.Fprintln(bw, strings.Join(parts, " "))
	}
	return bw.Flush()
}
