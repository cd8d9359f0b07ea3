package interpolant

import (
	"path/filepath"
	"testing"

	"github.com/cespare/craig"
	"github.com/cespare/craig/lrat"
	"github.com/cespare/craig/refsolver"
)

// TestInterpolantTextbookExample runs the full pipeline (solve, trace,
// read proof, label) on the textbook example with a = 2, b = 3, ...: the
// interpolant of this particular A/B pair is exactly the two unit clauses
// (¬3) and (5).
func TestInterpolantTextbookExample(t *testing.T) {
	a := craig.NewCNF(false,
		craig.NewClause(-2, 5),
		craig.NewClause(-2, 3, -5),
		craig.NewClause(-2, -3),
		craig.NewClause(2, -3),
		craig.NewClause(2, 3, 5),
	)
	b := craig.NewCNF(false, craig.NewClause(3, -5))
	colored := craig.NewColoredCNF(false, a, b)

	s := refsolver.New()
	defer s.Release()
	got, err := Interpolant(colored, s, filepath.Join(t.TempDir(), "proof.lrat"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 || !got.Contains(craig.NewClause(-3)) || !got.Contains(craig.NewClause(5)) {
		t.Fatalf("interpolant = %v, want (¬3) ∧ (5)", got)
	}
}

// TestFromProofHandWrittenRefutation walks a small refutation by hand:
// A = {(2), (¬2∨3)}, B = {(¬3)}. A alone is satisfiable (2=true, 3=true);
// combined with B it is not. The interpolant should be the shared-variable
// clause (3): A implies it and it contradicts B.
func TestFromProofHandWrittenRefutation(t *testing.T) {
	a := craig.NewCNF(false, craig.NewClause(2), craig.NewClause(-2, 3))
	b := craig.NewCNF(false, craig.NewClause(-3))
	colored := craig.NewColoredCNF(false, a, b)
	combined := colored.Combined()

	steps := []lrat.ProofClause{
		{Index: 4, Clause: craig.NewClause(3), Parents: []int{1, 2}},
		{Index: 5, Clause: craig.NewClauseSlice(nil), Parents: []int{4, 3}},
	}

	got, err := FromProof(combined, colored, steps)
	if err != nil {
		t.Fatal(err)
	}
	want := craig.NewCNF(true, craig.NewClause(3))
	if !got.Implies(want) || !want.Implies(got) {
		t.Fatalf("interpolant = %v, want %v", got, want)
	}
}

// TestFromProofSharedUnitConflict: A = {(2)}, B = {(¬2)}. The only
// refutation resolves the two units on the shared variable 2, and the
// interpolant is A's own unit (2).
func TestFromProofSharedUnitConflict(t *testing.T) {
	a := craig.NewCNF(false, craig.NewClause(2))
	b := craig.NewCNF(false, craig.NewClause(-2))
	colored := craig.NewColoredCNF(false, a, b)
	combined := colored.Combined()

	steps := []lrat.ProofClause{
		{Index: 3, Clause: craig.NewClauseSlice(nil), Parents: []int{1, 2}},
	}

	got, err := FromProof(combined, colored, steps)
	if err != nil {
		t.Fatal(err)
	}
	want := craig.NewCNF(true, craig.NewClause(2))
	if !got.Implies(want) || !want.Implies(got) {
		t.Fatalf("interpolant = %v, want %v", got, want)
	}
}

// TestFromProofBAlreadyUnsat: when B alone is unsatisfiable, the
// interpolant must be trivially valid (A implies TRUE unconditionally).
func TestFromProofBAlreadyUnsat(t *testing.T) {
	a := craig.NewCNF(false, craig.NewClause(4))
	b := craig.NewCNF(false, craig.NewClause(2), craig.NewClause(-2))
	colored := craig.NewColoredCNF(false, a, b)
	combined := colored.Combined()

	steps := []lrat.ProofClause{
		{Index: 4, Clause: craig.NewClauseSlice(nil), Parents: []int{2, 3}},
	}

	got, err := FromProof(combined, colored, steps)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsTrivialValid() {
		t.Fatalf("interpolant = %v, want trivially valid (TRUE)", got)
	}
}

// TestFromProofAAlreadyUnsat: when A alone is unsatisfiable, the
// interpolant must be trivially unsat (⊥), since A implies everything and
// in particular nothing can be consistent with a B that's false.
func TestFromProofAAlreadyUnsat(t *testing.T) {
	a := craig.NewCNF(false, craig.NewClause(2), craig.NewClause(-2))
	b := craig.NewCNF(false, craig.NewClause(3))
	colored := craig.NewColoredCNF(false, a, b)
	combined := colored.Combined()

	steps := []lrat.ProofClause{
		{Index: 4, Clause: craig.NewClauseSlice(nil), Parents: []int{2, 1}},
	}

	got, err := FromProof(combined, colored, steps)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsTrivialUnsat() {
		t.Fatalf("interpolant = %v, want trivially unsat (FALSE)", got)
	}
}

// TestFromProofTrivialRefutationNoSteps covers the case where an input
// clause is already the empty clause (as refsolver.buildProof returns when
// keepMinimal has already collapsed the formula before the solver ever
// saw it) and the proof has no derivation steps at all.
func TestFromProofTrivialRefutationNoSteps(t *testing.T) {
	a := craig.NewCNF(true, craig.NewClause(2), craig.NewClause(-2))
	b := craig.NewCNF(false, craig.NewClause(3))
	colored := craig.NewColoredCNF(false, a, b)
	combined := colored.Combined()

	got, err := FromProof(combined, colored, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsTrivialUnsat() {
		t.Fatalf("interpolant = %v, want trivially unsat (FALSE), since A alone is already unsat", got)
	}
}

func TestFromProofRejectsUnknownColorCount(t *testing.T) {
	single := craig.NewColoredCNF(false, craig.NewCNF(false, craig.NewClause(2)))
	if _, err := FromProof(single.Combined(), single, nil); err == nil {
		t.Fatal("expected error for a non-two-color partition")
	}
}

func TestFromProofRejectsAmbiguousPivot(t *testing.T) {
	a := craig.NewCNF(false, craig.NewClause(2, 3))
	b := craig.NewCNF(false, craig.NewClause(-2, -3))
	colored := craig.NewColoredCNF(false, a, b)
	combined := colored.Combined()
	steps := []lrat.ProofClause{
		{Index: 3, Clause: craig.NewClauseSlice(nil), Parents: []int{1, 2}},
	}
	if _, err := FromProof(combined, colored, steps); err == nil {
		t.Fatal("expected an error: parents share two opposite-polarity pairs, pivot is ambiguous")
	}
}
