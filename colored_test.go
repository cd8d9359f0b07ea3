package craig

import "testing"

func TestColoredCNFPartition(t *testing.T) {
	a := NewCNF(false, NewClause(2, 3), NewClause(-2))
	b := NewCNF(false, NewClause(-3, 4))
	colored := NewColoredCNF(false, a, b)

	if colored.NumColors() != 2 {
		t.Fatalf("NumColors = %d, want 2", colored.NumColors())
	}
	if got := colored.ColorOf(NewClause(3, 2)); got != 0 {
		t.Errorf("ColorOf(2∨3) = %d, want 0", got)
	}
	if got := colored.ColorOf(NewClause(4, -3)); got != 1 {
		t.Errorf("ColorOf(¬3∨4) = %d, want 1", got)
	}
	if got := colored.ColorOf(NewClause(9)); got != -1 {
		t.Errorf("ColorOf(9) = %d, want -1 (belongs to no color)", got)
	}

	// Combined preserves solver-add order: color 0's clauses first.
	combined := colored.Combined().Clauses()
	if len(combined) != 3 {
		t.Fatalf("Combined has %d clauses, want 3", len(combined))
	}
	if !combined[0].Equal(NewClause(2, 3)) || !combined[2].Equal(NewClause(-3, 4)) {
		t.Errorf("Combined order = %v, want color 0's clauses before color 1's", combined)
	}

	vars := colored.Color(1).Variables()
	for _, want := range []Literal{3, -3, 4, -4} {
		if _, ok := vars[want]; !ok {
			t.Errorf("color 1 variables missing %v", want)
		}
	}
}
