package craig

import (
	"sort"
	"strconv"
	"strings"
)

// validClauseKey and unsatClauseKey are the canonical keys of the two
// degenerate clauses, used to recognize them cheaply.
const (
	validClauseKey = "T"
	unsatClauseKey = "F"
)

// A Clause is an immutable, disjunctively-interpreted set of literals,
// normalized at construction per the collapse rules below. The zero value
// is not a valid Clause; use NewClause or NewClauseSlice.
//
// Normalization invariants (enforced by every constructor):
//   - If any literal is True, the clause collapses to {True} (valid).
//   - If a literal and its negation are both present, it collapses to
//     {True} (a tautology).
//   - If, after dropping False literals, nothing remains, the clause
//     collapses to {False} (the empty disjunction, unsat).
//   - Otherwise False literals are dropped and duplicates fused.
//
// Clauses are stored as a canonically sorted, deduplicated slice so that
// two clauses with the same literals are byte-identical and hash/compare
// cheaply.
type Clause struct {
	lits []Literal // sorted ascending by signed value; canonical
	key  string
}

var validClause = Clause{lits: []Literal{True}, key: validClauseKey}
var unsatClause = Clause{lits: []Literal{False}, key: unsatClauseKey}

// NewClause builds a Clause from DIMACS integers. A zero literal is a
// contract violation.
func NewClause(ints ...int) Clause {
	lits := make([]Literal, len(ints))
	for i, n := range ints {
		lits[i] = NewLiteral(n)
	}
	return NewClauseSlice(lits)
}

// NewClauseSlice builds a Clause from literals already constructed.
func NewClauseSlice(lits []Literal) Clause {
	set := make(map[Literal]struct{}, len(lits))
	for _, l := range lits {
		if l.IsTrue() {
			return validClause
		}
		if l.IsFalse() {
			continue
		}
		set[l] = struct{}{}
	}
	for l := range set {
		if _, ok := set[l.Negate()]; ok {
			return validClause
		}
	}
	if len(set) == 0 {
		return unsatClause
	}
	sorted := make([]Literal, 0, len(set))
	for l := range set {
		sorted = append(sorted, l)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return Clause{lits: sorted, key: clauseKey(sorted)}
}

func clauseKey(sorted []Literal) string {
	var b strings.Builder
	for i, l := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(l)))
	}
	return b.String()
}

// Literals returns a copy of the clause's literals in canonical order.
func (c Clause) Literals() []Literal {
	out := make([]Literal, len(c.lits))
	copy(out, c.lits)
	return out
}

// Len returns the number of literals in the clause.
func (c Clause) Len() int { return len(c.lits) }

// IsValid reports whether c is the trivially-valid clause {True}.
func (c Clause) IsValid() bool { return c.key == validClauseKey }

// IsUnsat reports whether c is the empty, trivially-unsatisfiable clause
// {False}.
func (c Clause) IsUnsat() bool { return c.key == unsatClauseKey }

// UnitLiteral returns the clause's sole literal and true, if the clause has
// exactly one literal; otherwise it returns the zero Literal and false.
func (c Clause) UnitLiteral() (Literal, bool) {
	if len(c.lits) != 1 {
		return 0, false
	}
	return c.lits[0], true
}

// Equal reports whether c and other contain exactly the same literals.
func (c Clause) Equal(other Clause) bool { return c.key == other.key }

// Or returns the disjunction of c and other: the union of their literals,
// renormalized.
func (c Clause) Or(other Clause) Clause {
	return NewClauseSlice(append(c.Literals(), other.lits...))
}

// OrLiteral returns the disjunction of c with a single literal.
func (c Clause) OrLiteral(l Literal) Clause {
	return NewClauseSlice(append(c.Literals(), l))
}

// Negate returns ¬c as a CNF: if c is valid, ¬c is the unsat CNF; if c is
// unsat, ¬c is the trivially-valid (empty) CNF; otherwise ¬c is the CNF of
// unit clauses {¬ℓ : ℓ ∈ c}.
func (c Clause) Negate() CNF {
	if c.IsValid() {
		return NewCNF(false, unsatClause)
	}
	if c.IsUnsat() {
		return NewCNF(false)
	}
	units := make([]Clause, len(c.lits))
	for i, l := range c.lits {
		units[i] = NewClauseSlice([]Literal{l.Negate()})
	}
	return NewCNF(false, units...)
}

// Variables returns the set of both polarities of every variable appearing
// in c: for each literal ℓ in c, both ℓ and ¬ℓ are present in the result.
// This matches the shape the interpolation engine needs when intersecting
// a clause against "the variables shared with B" (a set that must match
// either polarity of a shared variable).
func (c Clause) Variables() map[Literal]struct{} {
	vars := make(map[Literal]struct{}, 2*len(c.lits))
	for _, l := range c.lits {
		vars[l] = struct{}{}
		vars[l.Negate()] = struct{}{}
	}
	return vars
}

// Resolvant returns the unique variable v such that some literal on v
// appears in c and its negation appears in other, or 0 if there is no such
// variable or more than one (ambiguous, multi-pivot resolution — the
// caller must treat this as a proof error rather than guess a pivot).
func (c Clause) Resolvant(other Clause) int {
	possible := 0
	otherSet := other.litSet()
	for _, l := range c.lits {
		if _, ok := otherSet[l.Negate()]; ok {
			if possible != 0 {
				return 0
			}
			possible = l.Variable()
		}
	}
	return possible
}

func (c Clause) litSet() map[Literal]struct{} {
	set := make(map[Literal]struct{}, len(c.lits))
	for _, l := range c.lits {
		set[l] = struct{}{}
	}
	return set
}

// ResolveOn returns the clause obtained by resolving c and other on
// variable v: the union of their literals, minus both polarities of v. The
// caller is trusted to have obtained v from Resolvant (or an externally
// verified LRAT proof); ResolveOn does not re-check that v is a valid
// pivot, since LRAT proofs are externally verifiable and re-checking here
// would only duplicate that verification.
func (c Clause) ResolveOn(other Clause, v int) Clause {
	lits := make([]Literal, 0, len(c.lits)+len(other.lits))
	for _, l := range c.lits {
		if l.Variable() != v {
			lits = append(lits, l)
		}
	}
	for _, l := range other.lits {
		if l.Variable() != v {
			lits = append(lits, l)
		}
	}
	return NewClauseSlice(lits)
}

// Intersection restricts c to the literals present in vars.
func (c Clause) Intersection(vars map[Literal]struct{}) Clause {
	var lits []Literal
	for _, l := range c.lits {
		if _, ok := vars[l]; ok {
			lits = append(lits, l)
		}
	}
	return NewClauseSlice(lits)
}

// Implies reports whether c subsumes other: every literal of c is also a
// literal of other (c ⊆ other as sets, so c is the more general clause).
func (c Clause) Implies(other Clause) bool {
	otherSet := other.litSet()
	for _, l := range c.lits {
		if _, ok := otherSet[l]; !ok {
			return false
		}
	}
	return true
}

// distributeUnits returns the clause obtained by applying the given set of
// unit literals to c: if c contains one of the units, it is satisfied and
// collapses to the valid clause; literals whose negation is a unit are
// false and dropped.
func (c Clause) distributeUnits(units map[Literal]struct{}) Clause {
	lits := make([]Literal, 0, len(c.lits))
	for _, l := range c.lits {
		if _, ok := units[l]; ok {
			return validClause
		}
		if _, ok := units[l.Negate()]; !ok {
			lits = append(lits, l)
		}
	}
	return NewClauseSlice(lits)
}

func (c Clause) String() string {
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ∨ ")
}
