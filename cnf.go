package craig

import "strings"

// A CNF is an ordered, deduplicating set of clauses interpreted
// conjunctively. The insertion order of distinct clauses is preserved and
// is load-bearing: the interpolation engine assigns LRAT indices to input
// clauses in solver-add order, so callers that feed a CNF to a Solver and
// later need to map LRAT indices back to clauses must see the same order
// both times. Map iteration order in Go is not stable across calls, so
// CNF keeps an explicit slice rather than relying on a bare set.
//
// Invariants enforced at construction:
//   - Clauses equal to {True} are omitted (they contribute nothing to a
//     conjunction).
//   - If any clause is {False}, the whole CNF collapses to the single
//     empty clause (trivially unsat).
//   - If KeepMinimal is set, unit propagation and subsumption removal run
//     eagerly after the trivial collapses above.
type CNF struct {
	order       []Clause
	index       map[string]int // clause key -> position in order
	keepMinimal bool
}

// NewCNF builds a CNF from clauses, applying the trivial collapses (and,
// if keepMinimal, full minimization) described on the CNF type.
func NewCNF(keepMinimal bool, clauses ...Clause) CNF {
	c := CNF{keepMinimal: keepMinimal}
	c.addAll(clauses)
	if keepMinimal {
		c.minimize()
	}
	return c
}

// NewCNFFromInts builds a CNF from raw DIMACS-style integer clauses, a
// convenience for callers that assemble formulas programmatically.
func NewCNFFromInts(keepMinimal bool, clauses [][]int) CNF {
	cls := make([]Clause, len(clauses))
	for i, ints := range clauses {
		cls[i] = NewClause(ints...)
	}
	return NewCNF(keepMinimal, cls...)
}

// collapseToUnsat replaces the CNF's contents with the single empty
// clause, the canonical trivially-unsat representation.
func (c *CNF) collapseToUnsat() {
	c.order = []Clause{unsatClause}
	c.index = map[string]int{unsatClauseKey: 0}
}

func (c *CNF) isCollapsedUnsat() bool {
	return len(c.order) == 1 && c.order[0].IsUnsat()
}

func (c *CNF) addAll(clauses []Clause) {
	if c.isCollapsedUnsat() {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int, len(clauses))
	}
	for _, cl := range clauses {
		if cl.IsUnsat() {
			c.collapseToUnsat()
			return
		}
		if cl.IsValid() {
			continue
		}
		if _, ok := c.index[cl.key]; ok {
			continue
		}
		c.index[cl.key] = len(c.order)
		c.order = append(c.order, cl)
	}
}

// Clauses returns the CNF's clauses in insertion order.
func (c CNF) Clauses() []Clause {
	out := make([]Clause, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of clauses.
func (c CNF) Len() int { return len(c.order) }

// KeepMinimal reports whether c was constructed with eager minimization.
func (c CNF) KeepMinimal() bool { return c.keepMinimal }

// IsTrivialValid reports whether c has no clauses (the empty conjunction,
// trivially true).
func (c CNF) IsTrivialValid() bool { return len(c.order) == 0 }

// IsTrivialUnsat reports whether c is exactly the single empty clause.
func (c CNF) IsTrivialUnsat() bool { return c.isCollapsedUnsat() }

// Contains reports whether cl (after normalization) is a member of c.
func (c CNF) Contains(cl Clause) bool {
	_, ok := c.index[cl.key]
	return ok
}

// And returns the conjunction of c and other: the union of their clauses.
func (c CNF) And(other CNF) CNF {
	result := CNF{keepMinimal: c.keepMinimal || other.keepMinimal}
	result.addAll(c.order)
	result.addAll(other.order)
	if result.keepMinimal {
		result.minimize()
	}
	return result
}

// AndClause returns the conjunction of c with a single additional clause.
func (c CNF) AndClause(cl Clause) CNF {
	result := CNF{keepMinimal: c.keepMinimal}
	result.addAll(c.order)
	result.addAll([]Clause{cl})
	if result.keepMinimal {
		result.minimize()
	}
	return result
}

// Or returns the disjunction of c and other by cross-product distribution:
// {x ∪ y : x ∈ c, y ∈ other}.
func (c CNF) Or(other CNF) CNF {
	result := CNF{keepMinimal: c.keepMinimal || other.keepMinimal}
	var combined []Clause
	for _, x := range c.order {
		for _, y := range other.order {
			combined = append(combined, x.Or(y))
		}
	}
	result.addAll(combined)
	if result.keepMinimal {
		result.minimize()
	}
	return result
}

// Negate returns ¬c, computed by De Morgan dualization: each clause is
// negated into a unit-clause CNF, and those are disjoined together in
// sequence, starting from the neutral element for disjunction (the
// trivially-unsat CNF, since False ∨ x ≡ x).
func (c CNF) Negate() CNF {
	result := NewCNF(c.keepMinimal, unsatClause)
	for _, cl := range c.order {
		result = result.Or(cl.Negate())
	}
	return result
}

// Variables returns the union of every clause's Variables() (both
// polarities of every variable appearing anywhere in c).
func (c CNF) Variables() map[Literal]struct{} {
	vars := make(map[Literal]struct{})
	for _, cl := range c.order {
		for l := range cl.Variables() {
			vars[l] = struct{}{}
		}
	}
	return vars
}

// Implies reports whether every clause of other is subsumed by some clause
// of c.
func (c CNF) Implies(other CNF) bool {
	for _, cl := range other.order {
		if !c.impliesClause(cl) {
			return false
		}
	}
	return true
}

func (c CNF) impliesClause(cl Clause) bool {
	for _, self := range c.order {
		if self.Implies(cl) {
			return true
		}
	}
	return false
}

// minimize applies distributeUnits then removeImplied, in place.
func (c *CNF) minimize() {
	c.distributeUnits()
	if c.isCollapsedUnsat() {
		return
	}
	c.removeImplied()
}

// distributeUnits runs unit propagation to a fixpoint: repeatedly finds
// all unit clauses, checks for a complementary pair (collapsing the whole
// CNF to unsat if found), drops every clause satisfied by a unit, strips
// falsified literals from the rest, and loops until no new unit clauses
// appear. The units discovered across every round are then reinserted as
// singleton clauses.
func (c *CNF) distributeUnits() {
	accumulated := make(map[Literal]struct{})
	newUnits := c.findUnitLiterals(c.order)
	clauses := c.order
	for len(newUnits) > 0 {
		for l := range newUnits {
			accumulated[l] = struct{}{}
		}
		for l := range newUnits {
			if _, ok := accumulated[l.Negate()]; ok {
				c.collapseToUnsat()
				return
			}
		}
		var next []Clause
		for _, cl := range clauses {
			nc := cl.distributeUnits(newUnits)
			switch {
			case nc.IsValid():
				// satisfied by a unit; drop
			case nc.IsUnsat():
				c.collapseToUnsat()
				return
			default:
				next = append(next, nc)
			}
		}
		clauses = next
		newUnits = c.findUnitLiterals(clauses)
	}
	for l := range accumulated {
		clauses = append(clauses, NewClauseSlice([]Literal{l}))
	}
	c.order = nil
	c.index = make(map[string]int, len(clauses))
	c.addAll(clauses)
}

func (c *CNF) findUnitLiterals(clauses []Clause) map[Literal]struct{} {
	units := make(map[Literal]struct{})
	for _, cl := range clauses {
		if l, ok := cl.UnitLiteral(); ok {
			units[l] = struct{}{}
		}
	}
	return units
}

// removeImplied drops any clause that is a strict superset of another
// clause in the set (subsumption removal). O(n²), acceptable for the
// label and interpolant sizes this engine produces.
func (c *CNF) removeImplied() {
	kept := make([]Clause, 0, len(c.order))
	for i, cl := range c.order {
		subsumed := false
		for j, other := range c.order {
			if i == j {
				continue
			}
			if other.Implies(cl) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, cl)
		}
	}
	c.order = nil
	c.index = make(map[string]int, len(kept))
	c.addAll(kept)
}

func (c CNF) String() string {
	if c.IsTrivialValid() {
		return "⊤"
	}
	parts := make([]string, len(c.order))
	for i, cl := range c.order {
		parts[i] = "(" + cl.String() + ")"
	}
	return strings.Join(parts, " ∧ ")
}
