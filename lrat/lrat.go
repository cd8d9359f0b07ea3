// Package lrat reads and writes the LRAT (Linear RAT) proof format emitted
// by solvers that implement craig.Solver's TraceProof contract.
//
// Only the subset of LRAT this module's interpolation engine needs is
// supported: RAT hints are accepted but unused (the interpolation
// algorithm only ever resolves on the positive parent hints; the negative
// RAT hints in a step's hint list are dropped), and deletion lines ("d" as the
// second token) are recognized and skipped rather than acted on, since
// this package never holds more than one in-memory copy of the proof.
package lrat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/craig"
)

// ProofClause is one derivation step: Clause, at Index, derived by
// resolving Parents (themselves either earlier ProofClause indices or
// indices into the original input CNF) in order.
type ProofClause struct {
	Index   int
	Clause  craig.Clause
	Parents []int
}

// ReadProof reads every derivation line from r, in file order, skipping
// deletion lines. Parent hints that are negative (RAT hints) are dropped;
// this engine never consumes them.
func ReadProof(r io.Reader) ([]ProofClause, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var steps []ProofClause
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &craig.ParseError{Format: "lrat", Pos: fmt.Sprintf("line %d", lineNo), Msg: "too few fields"}
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &craig.ParseError{Format: "lrat", Pos: fmt.Sprintf("line %d", lineNo), Msg: "malformed index: " + err.Error()}
		}
		if fields[1] == "d" {
			// Deletion line: "<idx> d <idx>* 0". Nothing to track since
			// this package never retains superseded clauses past the
			// single read pass.
			continue
		}
		step, err := parseDerivation(idx, fields[1:], lineNo)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func parseDerivation(idx int, rest []string, lineNo int) (ProofClause, error) {
	sep := -1
	for i, f := range rest {
		if f == "0" {
			sep = i
			break
		}
	}
	if sep == -1 {
		return ProofClause{}, &craig.ParseError{Format: "lrat", Pos: fmt.Sprintf("line %d", lineNo), Msg: "missing literal terminator"}
	}
	litFields, tail := rest[:sep], rest[sep+1:]
	lits := make([]int, len(litFields))
	for i, f := range litFields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return ProofClause{}, &craig.ParseError{Format: "lrat", Pos: fmt.Sprintf("line %d", lineNo), Msg: "malformed literal: " + err.Error()}
		}
		lits[i] = n
	}

	tailSep := -1
	for i, f := range tail {
		if f == "0" {
			tailSep = i
			break
		}
	}
	if tailSep == -1 {
		return ProofClause{}, &craig.ParseError{Format: "lrat", Pos: fmt.Sprintf("line %d", lineNo), Msg: "missing hint terminator"}
	}
	var parents []int
	for _, f := range tail[:tailSep] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return ProofClause{}, &craig.ParseError{Format: "lrat", Pos: fmt.Sprintf("line %d", lineNo), Msg: "malformed hint: " + err.Error()}
		}
		// RAT hints are negative (the clause index they resolve against
		// is encoded as -index); this engine only follows plain
		// resolution hints, so drop anything negative.
		if n > 0 {
			parents = append(parents, n)
		}
	}

	return ProofClause{Index: idx, Clause: craig.NewClause(lits...), Parents: parents}, nil
}

// WriteLine writes one derivation line in LRAT text format: "<index>
// <literals> 0 <parents> 0\n".
func WriteLine(w io.Writer, step ProofClause) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", step.Index)
	for _, l := range step.Clause.Literals() {
		fmt.Fprintf(&b, " %d", int(l))
	}
	b.WriteString(" 0")
	for _, p := range step.Parents {
		fmt.Fprintf(&b, " %d", p)
	}
	b.WriteString(" 0\n")
	_, err := io.WriteString(w, b.String())
	return err
}
