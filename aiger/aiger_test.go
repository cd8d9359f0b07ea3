package aiger

import (
	"strings"
	"testing"

	"github.com/cespare/craig"
)

// TestParseAndGateUnrolling: header "aag 3 1 0 1 1", AND line "6 2 4"
// (v3 = v1 ∧ v2), output "6". At tick 0, ClausesGates(0) should yield
// ¬v3∨v1, ¬v3∨v2, v3∨¬v1∨¬v2 over the remapped variables.
func TestParseAndGateUnrolling(t *testing.T) {
	src := strings.Join([]string{
		"aag 3 1 0 1 1",
		"2",  // input
		"6",  // output
		"6 2 4", // and gate: out=6(var3), in1=2(var1), in2=4(var2)
	}, "\n") + "\n"

	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	// AIGER var1 -> DIMACS +2, var2 -> DIMACS +3, var3 -> DIMACS +4 (shift
	// by one to make room for the reserved TRUE variable at 1).
	gates := c.ClausesGates(0)
	want := craig.NewCNF(false,
		craig.NewClause(-4, 2),
		craig.NewClause(-4, 3),
		craig.NewClause(4, -2, -3),
	)
	if gates.Len() != want.Len() {
		t.Fatalf("ClausesGates(0) = %v, want %v", gates, want)
	}
	for _, cl := range want.Clauses() {
		if !gates.Contains(cl) {
			t.Errorf("missing expected gate clause %v in %v", cl, gates)
		}
	}

	out := c.ClauseOutput(0)
	wantOut := craig.NewClause(4)
	if !out.Equal(wantOut) {
		t.Fatalf("ClauseOutput(0) = %v, want %v", out, wantOut)
	}
}

// TestParseLatchInitialization covers a single latch with next-state
// literal 4 (DIMACS v3) and current-state literal 2 (DIMACS v2): at tick
// 0 the current-state literal must be forced false, and at tick 1 the
// current state must mirror tick 0's next state.
func TestParseLatchInitialization(t *testing.T) {
	src := strings.Join([]string{
		"aag 2 0 1 1 0",
		"4 2", // latch: next=4 (v3), current=2 (v2)
		"4",   // output
	}, "\n") + "\n"

	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	init := c.ClausesLatches(0)
	want := craig.NewCNF(false, craig.NewClause(-2))
	if init.Len() != 1 || !init.Contains(want.Clauses()[0]) {
		t.Fatalf("ClausesLatches(0) = %v, want %v", init, want)
	}

	// maxvar = 4, so v2@1 is 6 and v3@0 is 3: cur@1 ↔ next@0 is the
	// clause pair (¬6∨3), (6∨¬3).
	trans := c.ClausesLatches(1)
	if trans.Len() != 2 || !trans.Contains(craig.NewClause(-6, 3)) || !trans.Contains(craig.NewClause(6, -3)) {
		t.Fatalf("ClausesLatches(1) = %v, want (¬6∨3) ∧ (6∨¬3)", trans)
	}
}

func TestLiteralAtPreservesConstants(t *testing.T) {
	src := "aag 1 0 0 1 0\n1\n"
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.LiteralAt(craig.True, 5); got != craig.True {
		t.Errorf("LiteralAt(TRUE, 5) = %v, want TRUE", got)
	}
	if got := c.LiteralAt(craig.False, 5); got != craig.False {
		t.Errorf("LiteralAt(FALSE, 5) = %v, want FALSE", got)
	}
}

func TestLiteralAtInjectiveAcrossTicks(t *testing.T) {
	src := strings.Join([]string{"aag 3 1 0 1 1", "2", "6", "6 2 4"}, "\n") + "\n"
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[craig.Literal]bool)
	for tick := 0; tick < 4; tick++ {
		for _, v := range []int{2, 3, 4} {
			l := c.LiteralAt(craig.NewLiteral(v), tick)
			if seen[l] {
				t.Fatalf("LiteralAt(%d, %d) = %v collides with an earlier (var, tick)", v, tick, l)
			}
			seen[l] = true
			if neg := c.LiteralAt(craig.NewLiteral(-v), tick); neg != l.Negate() {
				t.Errorf("LiteralAt(-%d, %d) = %v, want %v (polarity should be preserved)", v, tick, neg, l.Negate())
			}
		}
	}
}

func TestAssumptionsAndSwitch(t *testing.T) {
	src := "aag 1 0 0 1 0\n1\n"
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	a := c.Assumptions(2)
	want := []craig.Literal{
		craig.NewLiteral(c.SwitchingVariable() * 1),
		craig.NewLiteral(c.SwitchingVariable() * 2),
		craig.NewLiteral(-c.SwitchingVariable() * 3),
	}
	if len(a) != len(want) {
		t.Fatalf("Assumptions(2) = %v, want %v", a, want)
	}
	for i := range want {
		if a[i] != want[i] {
			t.Errorf("Assumptions(2)[%d] = %v, want %v", i, a[i], want[i])
		}
	}

	switched := c.ApplySwitch(craig.NewCNF(false, craig.NewClause(2, 3)), 1)
	swLit := craig.NewLiteral(c.SwitchingVariable() * 2)
	for _, cl := range switched.Clauses() {
		found := false
		for _, l := range cl.Literals() {
			if l == swLit {
				found = true
			}
		}
		if !found {
			t.Errorf("clause %v missing switch literal %v", cl, swLit)
		}
	}
}

func TestCNFAtShiftsWholeFormula(t *testing.T) {
	src := strings.Join([]string{"aag 3 1 0 1 1", "2", "6", "6 2 4"}, "\n") + "\n"
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	cnf := craig.NewCNF(false, craig.NewClause(2, -3))
	got := c.CNFAt(cnf, 1)
	// maxvar = 5, so tick 1 shifts every variable up by 5.
	want := craig.NewClause(7, -8)
	if got.Len() != 1 || !got.Contains(want) {
		t.Fatalf("CNFAt = %v, want {%v}", got, want)
	}
}

func TestParseRejectsMultipleOutputs(t *testing.T) {
	if _, err := Parse(strings.NewReader("aag 1 0 0 2 0\n1\n2\n")); err == nil {
		t.Fatal("expected an error for a circuit declaring more than one output")
	}
}
