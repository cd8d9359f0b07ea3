// Package aiger parses sequential circuits in the ASCII AIGER format and
// symbolically unrolls them into per-tick CNF formulas using a
// switching-variable scheme that lets a bounded model checking loop
// extend the unrolling incrementally without re-asserting already-solved
// ticks.
package aiger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/craig"
)

// A Circuit is a parsed AIGER sequential circuit with exactly one output
// (a "bad state" detector), ready to be unrolled tick by tick into CNF.
type Circuit struct {
	maxVar       int // = header M + 2: room for the TRUE symbol and the per-tick switching variable
	switchingVar int // == maxVar

	latches  [][2]craig.Literal // (next_state, current_state), unshifted
	output   craig.Literal      // bad-state literal, unshifted
	andGates [][3]craig.Literal // (out, in1, in2), unshifted

	// b accumulates ClausesSystem(t) for every t > 1 unrolled so far, for
	// callers building a McMillan-style A/B partition across ticks.
	b craig.CNF
}

// Parse reads an ASCII AIGER circuit from r.
func Parse(r io.Reader) (*Circuit, error) {
	s := bufio.NewScanner(r)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, &craig.ParseError{Format: "aiger", Msg: "empty input"}
	}
	header := strings.Fields(s.Text())
	if len(header) != 6 {
		return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("header has %d fields, want 6", len(header))}
	}
	if header[0] != "aag" {
		return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("unsupported format signifier %q, want \"aag\" (ASCII AIGER)", header[0])}
	}
	m, err := atoiField(header[1], "M")
	if err != nil {
		return nil, err
	}
	numInputs, err := atoiField(header[2], "I")
	if err != nil {
		return nil, err
	}
	numLatches, err := atoiField(header[3], "L")
	if err != nil {
		return nil, err
	}
	numOutputs, err := atoiField(header[4], "O")
	if err != nil {
		return nil, err
	}
	if numOutputs != 1 {
		return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("only a single bad-state output is supported, header declares %d", numOutputs)}
	}
	numAndGates, err := atoiField(header[5], "A")
	if err != nil {
		return nil, err
	}

	c := &Circuit{maxVar: m + 2}
	c.switchingVar = c.maxVar

	for i := 0; i < numInputs; i++ {
		if !s.Scan() {
			return nil, &craig.ParseError{Format: "aiger", Msg: "truncated input section"}
		}
	}

	for i := 0; i < numLatches; i++ {
		fields, err := parseLine(s, "latch")
		if err != nil {
			return nil, err
		}
		if len(fields) != 2 {
			return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("latch line %d has %d fields, want 2", i, len(fields))}
		}
		c.latches = append(c.latches, [2]craig.Literal{fields[0], fields[1]})
	}

	outFields, err := parseLine(s, "output")
	if err != nil {
		return nil, err
	}
	if len(outFields) != 1 {
		return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("output line has %d fields, want 1", len(outFields))}
	}
	c.output = outFields[0]

	for i := 0; i < numAndGates; i++ {
		fields, err := parseLine(s, "and gate")
		if err != nil {
			return nil, err
		}
		if len(fields) != 3 {
			return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("and gate line %d has %d fields, want 3", i, len(fields))}
		}
		c.andGates = append(c.andGates, [3]craig.Literal{fields[0], fields[1], fields[2]})
	}

	if err := s.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func atoiField(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("malformed header field %s: %s", name, err)}
	}
	return n, nil
}

func parseLine(s *bufio.Scanner, what string) ([]craig.Literal, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("truncated %s section", what)}
	}
	fields := strings.Fields(s.Text())
	lits := make([]craig.Literal, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &craig.ParseError{Format: "aiger", Msg: fmt.Sprintf("malformed %s literal: %s", what, err)}
		}
		lits[i] = parseVariable(n)
	}
	return lits, nil
}

// parseVariable remaps an AIGER literal to DIMACS convention: AIGER 0 (the
// constant FALSE) becomes DIMACS −1, AIGER 1 (constant TRUE) becomes +1,
// and every other AIGER literal n is shifted by one variable (even n, a
// positive occurrence of variable n/2, becomes +(n/2+1); odd n, a negated
// occurrence, becomes −(n/2+1)) to make room for the reserved TRUE
// variable at DIMACS 1.
func parseVariable(n int) craig.Literal {
	switch {
	case n == 0:
		return craig.False
	case n == 1:
		return craig.True
	case n%2 == 0:
		return craig.NewLiteral(n/2 + 1)
	default:
		return craig.NewLiteral(-(n/2 + 1))
	}
}

// B returns the CNF accumulated so far from ClausesSystem calls at tick >
// 1, for callers that want to partition the unrolling into an A/B pair by
// tick for interpolation.
func (c *Circuit) B() craig.CNF { return c.b }

// SwitchingVariable returns the DIMACS variable reserved for the
// per-tick switch (maxvar).
func (c *Circuit) SwitchingVariable() int { return c.switchingVar }

// LiteralAt returns the literal corresponding to ℓ (as it appears in the
// static circuit description) unrolled to tick. TRUE and FALSE are left
// unshifted; every other literal's variable is folded into [1, maxvar]
// before the tick offset is added, so variable slots are reused cyclically
// across ticks with a fresh copy each time.
func (c *Circuit) LiteralAt(l craig.Literal, tick int) craig.Literal {
	if tick < 0 {
		panic("craig/aiger: negative tick")
	}
	if l.IsTrue() || l.IsFalse() {
		return l
	}
	variableAt0 := (l.Variable()-1)%c.maxVar + 1
	variableAtTick := variableAt0 + tick*c.maxVar
	return craig.NewLiteral(l.Polarity() * variableAtTick)
}

// ClausesGates returns the Tseitin clauses enforcing, for every AND gate
// (o, a, b), that o ↔ a ∧ b at tick.
func (c *Circuit) ClausesGates(tick int) craig.CNF {
	var clauses []craig.Clause
	for _, g := range c.andGates {
		output := c.LiteralAt(g[0], tick)
		in1 := c.LiteralAt(g[1], tick)
		in2 := c.LiteralAt(g[2], tick)
		clauses = append(clauses,
			craig.NewClauseSlice([]craig.Literal{output.Negate(), in1}),
			craig.NewClauseSlice([]craig.Literal{output.Negate(), in2}),
			craig.NewClauseSlice([]craig.Literal{output, in1.Negate(), in2.Negate()}),
		)
	}
	return craig.NewCNF(false, clauses...)
}

// ClausesLatches returns the clauses governing latch state at tick: the
// initialization clauses (every latch's current-state literal forced
// false) at tick 0, or the transition clauses enforcing cur@tick ↔
// next@(tick-1) otherwise.
func (c *Circuit) ClausesLatches(tick int) craig.CNF {
	if tick == 0 {
		clauses := make([]craig.Clause, len(c.latches))
		for i, l := range c.latches {
			clauses[i] = craig.NewClauseSlice([]craig.Literal{c.LiteralAt(l[1], 0).Negate()})
		}
		return craig.NewCNF(false, clauses...)
	}
	var clauses []craig.Clause
	for _, l := range c.latches {
		cur := c.LiteralAt(l[1], tick)
		next := c.LiteralAt(l[0], tick-1)
		clauses = append(clauses,
			craig.NewClauseSlice([]craig.Literal{cur.Negate(), next}),
			craig.NewClauseSlice([]craig.Literal{cur, next.Negate()}),
		)
	}
	return craig.NewCNF(false, clauses...)
}

// ClausesSystem is ClausesGates(tick) ∧ ClausesLatches(tick). For tick > 1
// it is folded into the running B accumulation (see B).
func (c *Circuit) ClausesSystem(tick int) craig.CNF {
	clauses := c.ClausesGates(tick).And(c.ClausesLatches(tick))
	if tick > 1 {
		c.b = c.b.And(clauses)
	}
	return clauses
}

// CNFAt shifts every literal of cnf to tick, clause by clause.
func (c *Circuit) CNFAt(cnf craig.CNF, tick int) craig.CNF {
	clauses := make([]craig.Clause, 0, cnf.Len())
	for _, cl := range cnf.Clauses() {
		lits := cl.Literals()
		shifted := make([]craig.Literal, len(lits))
		for i, l := range lits {
			shifted[i] = c.LiteralAt(l, tick)
		}
		clauses = append(clauses, craig.NewClauseSlice(shifted))
	}
	return craig.NewCNF(cnf.KeepMinimal(), clauses...)
}

// ClauseOutput returns the bad-state literal at tick as a unit clause.
func (c *Circuit) ClauseOutput(tick int) craig.Clause {
	return craig.NewClauseSlice([]craig.Literal{c.LiteralAt(c.output, tick)})
}

// ApplySwitch guards every clause of cnf behind tick's switching literal
// by adding switch_tick to each clause: the result is satisfied for free
// whenever switch_tick is true, and enforces cnf whenever it is false.
func (c *Circuit) ApplySwitch(cnf craig.CNF, tick int) craig.CNF {
	sw := craig.NewLiteral(c.switchingVar * (tick + 1))
	return cnf.Or(craig.NewCNF(false, craig.NewClauseSlice([]craig.Literal{sw})))
}

// Assumptions returns the assumption literals for an incremental solve up
// through tick: every earlier switch enabled, and tick's switch disabled
// so it can still be revised (by asserting it true) on a later call.
func (c *Circuit) Assumptions(tick int) []craig.Literal {
	lits := make([]craig.Literal, 0, tick+1)
	for i := 0; i < tick; i++ {
		lits = append(lits, craig.NewLiteral(c.switchingVar*(i+1)))
	}
	lits = append(lits, craig.NewLiteral(-c.switchingVar*(tick+1)))
	return lits
}
