package craig

// A ColoredCNF partitions a CNF into an ordered list of color classes
// C0, C1, ..., Ck-1. Each class is itself a CNF (and so exposes its own
// Variables()); the combined CNF is the union of every class's clauses, in
// the order the classes were given (color 0 first, then color 1, ...) —
// this is the "solver-add order" that the interpolation engine's LRAT
// indexing depends on.
//
// For interpolation only the two-color case matters: color 0 is the A
// part, color 1 is the B part.
type ColoredCNF struct {
	classes  []CNF
	combined CNF
}

// NewColoredCNF builds a ColoredCNF from an ordered list of color classes.
func NewColoredCNF(keepMinimal bool, classes ...CNF) ColoredCNF {
	var all []Clause
	for _, cnf := range classes {
		all = append(all, cnf.Clauses()...)
	}
	return ColoredCNF{
		classes:  classes,
		combined: NewCNF(keepMinimal, all...),
	}
}

// NumColors returns the number of color classes.
func (c ColoredCNF) NumColors() int { return len(c.classes) }

// Color returns the CNF of color class i.
func (c ColoredCNF) Color(i int) CNF { return c.classes[i] }

// Combined returns the union of every color class's clauses, in
// solver-add order (class 0's clauses, then class 1's, ...).
func (c ColoredCNF) Combined() CNF { return c.combined }

// ColorOf reports the index of the color class cl belongs to (by set
// membership on the normalized clause), or -1 if cl belongs to none.
func (c ColoredCNF) ColorOf(cl Clause) int {
	for i, cnf := range c.classes {
		if cnf.Contains(cl) {
			return i
		}
	}
	return -1
}
