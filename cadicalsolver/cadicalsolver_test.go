//go:build cadical

package cadicalsolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/craig"
	"github.com/cespare/craig/lrat"
)

func TestSolverSatisfiable(t *testing.T) {
	s := New()
	defer s.Release()
	s.AddFormula(craig.NewCNF(false, craig.NewClause(2, 3), craig.NewClause(-2, 3)))
	result, err := s.Solve(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != craig.ResultSat {
		t.Fatalf("Solve() = %v, want SAT", result)
	}
}

func TestSolverUnsatWithProof(t *testing.T) {
	dir := t.TempDir()
	proofPath := filepath.Join(dir, "proof.lrat")

	s := New()
	defer s.Release()
	s.AddFormula(craig.NewCNF(false,
		craig.NewClause(2),
		craig.NewClause(-2, 3),
		craig.NewClause(-3),
	))
	if err := s.TraceProof(proofPath); err != nil {
		t.Fatal(err)
	}
	result, err := s.Solve(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != craig.ResultUnsat {
		t.Fatalf("Solve() = %v, want UNSAT", result)
	}
	if err := s.FlushProofTrace(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(proofPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	steps, err := lrat.ReadProof(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) == 0 {
		t.Fatal("expected at least one derivation step")
	}
}

func TestImpliesUsesCadical(t *testing.T) {
	hypothesis := craig.NewCNF(false, craig.NewClause(2))
	conclusion := craig.NewCNF(false, craig.NewClause(2, 3))
	ok, err := craig.Implies(hypothesis, conclusion, func() craig.Solver { return New() })
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected (2) to imply (2 ∨ 3)")
	}
}
