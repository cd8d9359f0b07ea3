package interpolant

import (
	"path/filepath"
	"testing"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/cespare/craig"
	"github.com/cespare/craig/refsolver"
)

// giniUnsat reports whether cnf is unsatisfiable, using
// github.com/go-air/gini as a SAT engine wholly independent of refsolver —
// an external check that the interpolant this package computes actually
// has the two defining properties (A ⊨ I and I ∧ B is unsat), rather than
// merely being consistent with this module's own solver.
func giniUnsat(t *testing.T, cnf craig.CNF) bool {
	t.Helper()
	g := gini.New()
	// Variable 1 is craig's reserved constant (True = +1, False = -1), so
	// pin it true; the trivially-unsat CNF is the single clause {False}.
	g.Add(z.Var(1).Pos())
	g.Add(z.LitNull)
	for _, cl := range cnf.Clauses() {
		for _, l := range cl.Literals() {
			if l.Polarity() < 0 {
				g.Add(z.Var(l.Variable()).Neg())
			} else {
				g.Add(z.Var(l.Variable()).Pos())
			}
		}
		g.Add(z.LitNull)
	}
	switch g.Solve() {
	case 1:
		return false
	case -1:
		return true
	default:
		t.Fatal("gini.Solve returned an undetermined result for a non-assumption-bearing problem")
		return false
	}
}

// TestInterpolantSatisfiesDefiningProperty runs the interpolation engine
// end to end through refsolver.Solver, then checks the two properties
// that define a Craig interpolant — A implies I, and I together with B is
// unsatisfiable — using gini as an oracle independent of this module.
func TestInterpolantSatisfiesDefiningProperty(t *testing.T) {
	a := craig.NewCNF(false,
		craig.NewClause(2, 3),
		craig.NewClause(-2, 4),
		craig.NewClause(-3, 4),
	)
	b := craig.NewCNF(false,
		craig.NewClause(-4, 5),
		craig.NewClause(-4, -5),
	)
	colored := craig.NewColoredCNF(false, a, b)

	dir := t.TempDir()
	s := refsolver.New()
	defer s.Release()

	got, err := Interpolant(colored, s, filepath.Join(dir, "proof.lrat"))
	if err != nil {
		t.Fatal(err)
	}

	// Every variable of the interpolant must be shared between A and B.
	bVars := b.Variables()
	for l := range got.Variables() {
		if _, ok := bVars[l]; !ok {
			t.Errorf("interpolant %v mentions %v, which is not a variable of B", got, l)
		}
		if _, ok := a.Variables()[l]; !ok {
			t.Errorf("interpolant %v mentions %v, which is not a variable of A", got, l)
		}
	}

	// A ⊨ I  iff  A ∧ ¬I is unsat.
	if !giniUnsat(t, a.And(got.Negate())) {
		t.Errorf("A does not imply the computed interpolant %v", got)
	}
	// I ∧ B must be unsat.
	if !giniUnsat(t, got.And(b)) {
		t.Errorf("interpolant %v is not inconsistent with B", got)
	}
}
