package refsolver

// The decision procedure below is a watched-literal Davis-Putnam
// backtracking solver following the 2001 paper "Chaff: Engineering an
// Efficient SAT Solver". It answers the SAT/UNSAT question and reports
// decision/implication counts; it is not the source of the LRAT proof
// (see proof.go for that), which this package derives separately by
// resolution so that every emitted step has the single unambiguous pivot
// the interpolation engine requires.

import (
	"container/heap"
	"sort"
)

type dpllState struct {
	sourceVars []sourceVar
	simpleSat  assnVal
	simplified [][]int

	origVars []int

	assignments []assnVal
	watches     [][]int

	unassigned litHeap

	decisions    []decision
	implications []literal
	propIndex    int

	clauses []dpllClause

	numDecisions    int64
	numImplications int64
}

type sourceVar struct {
	v    int
	assn assnVal
	i    int
}

type dpllClause struct {
	lits []literal
}

type litHeap struct {
	watches [][]int
	lits    []litHeapItem
	m       map[literal]int
}

type litHeapItem struct {
	lit literal
	i   int
}

func (h *litHeap) Len() int { return len(h.lits) }

func (h *litHeap) Less(i, j int) bool {
	lit0, lit1 := h.lits[i].lit, h.lits[j].lit
	return len(h.watches[lit0]) > len(h.watches[lit1])
}

func (h *litHeap) Swap(i, j int) {
	e0, e1 := h.lits[i], h.lits[j]
	e0.i = j
	e1.i = i
	h.lits[i] = e1
	h.lits[j] = e0
	h.m[e0.lit] = j
	h.m[e1.lit] = i
}

func (h *litHeap) Push(x interface{}) {
	elt := x.(litHeapItem)
	h.m[elt.lit] = len(h.lits)
	elt.i = len(h.lits)
	h.lits = append(h.lits, elt)
}

func (h *litHeap) Pop() interface{} {
	elt := h.lits[len(h.lits)-1]
	h.lits = h.lits[:len(h.lits)-1]
	elt.i = -1
	delete(h.m, elt.lit)
	return elt
}

func newDPLLState(problem [][]int) *dpllState {
	sv := simplify(problem)
	if sv.simpleSat != unassigned {
		return sv
	}
	vars := make(map[int]int)
	for _, cls := range sv.simplified {
		for _, v := range cls {
			v = abs(v)
			if _, ok := vars[v]; !ok {
				sv.origVars = append(sv.origVars, v)
				vars[v] = 0
			}
		}
	}
	sort.Ints(sv.origVars)
	for i, v := range sv.origVars {
		vars[v] = i
	}
	for i, v := range sv.sourceVars {
		if v.assn == unassigned {
			sv.sourceVars[i].i = vars[v.v]
		}
	}
	sv.watches = make([][]int, len(sv.origVars)*2)
	sv.assignments = make([]assnVal, len(sv.origVars))
	sv.clauses = make([]dpllClause, len(sv.simplified))
	for i, cls := range sv.simplified {
		for j, v := range cls {
			neg := false
			if v < 0 {
				neg = true
				v = -v
			}
			lit := literal(vars[v]) << 1
			if neg {
				lit ^= 1
			}
			sv.clauses[i].lits = append(sv.clauses[i].lits, lit)
			if j < 2 {
				sv.watches[lit] = append(sv.watches[lit], i)
			}
		}
	}
	sv.unassigned.watches = sv.watches
	sv.unassigned.m = make(map[literal]int)
	for lit, watches := range sv.watches {
		if len(watches) > 0 {
			sv.pushUnassigned(literal(lit))
		}
	}
	return sv
}

// simplify does a round of trivial simplifications on problem by looking
// for empty and unit clauses, assigning these, and then iterating until a
// fixpoint is located.
func simplify(problem [][]int) *dpllState {
	var sv dpllState
	vars := make(map[int]assnVal)
	sv.simplified = make([][]int, len(problem))
	for i, cls := range problem {
		seen := make(map[int]struct{})
		var clause1 []int
		for _, v := range cls {
			if v == 0 {
				panic("zero var passed to Solve")
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			clause1 = append(clause1, v)
			vars[abs(v)] = unassigned
		}
		sv.simplified[i] = clause1
	}
	changed := true
	for changed {
		if len(sv.simplified) == 0 {
			sv.simpleSat = assnTrue
			for v, assn := range vars {
				if assn == unassigned {
					vars[v] = assnTrue
				}
			}
			break
		}
		changed = false
		var i int
	clauseLoop:
		for _, cls := range sv.simplified {
			if len(cls) == 0 {
				sv.simpleSat = assnFalse
				return &sv
			}
			if len(cls) == 1 {
				v := cls[0]
				assn := assnTrue
				if v < 0 {
					assn = assnFalse
					v = -v
				}
				if vars[v] != unassigned && vars[v] != assn {
					sv.simpleSat = assnFalse
					return &sv
				}
				vars[v] = assn
				changed = true
				continue clauseLoop
			}
			var j int
			for _, v := range cls {
				assn := vars[abs(v)]
				if assn == unassigned {
					cls[j] = v
					j++
					continue
				}
				changed = true
				if (assn == assnTrue) == (v > 0) {
					continue clauseLoop
				}
			}
			sv.simplified[i] = cls[:j]
			i++
		}
		sv.simplified = sv.simplified[:i]
	}
	sv.sourceVars = make([]sourceVar, 0, len(vars))
	for v, assn := range vars {
		sv.sourceVars = append(sv.sourceVars, sourceVar{v: v, assn: assn})
	}
	sort.Slice(sv.sourceVars, func(i, j int) bool {
		return sv.sourceVars[i].v < sv.sourceVars[j].v
	})
	return &sv
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// dpllSolve determines whether a boolean formula in raw DIMACS-style int
// clauses is satisfiable. The stats returned are purely informational.
func dpllSolve(problem [][]int) (sat bool, stats map[string]interface{}) {
	sv := newDPLLState(problem)
	ok := sv.solve()
	stats = map[string]interface{}{
		"solved by simplification": sv.simpleSat != unassigned,
		"num decisions":             sv.numDecisions,
		"num implications":          sv.numImplications,
	}
	return ok, stats
}

type literal uint32

const litNone literal = 1<<32 - 1

func (l literal) assn() assnVal {
	return assnVal(l&1) + 1
}

type assnVal uint8

const (
	unassigned      assnVal = 0
	assnTrue        assnVal = 1
	assnFalse       assnVal = 2
	assnTrueSecond  assnVal = 5
	assnFalseSecond assnVal = 6
)

func (a assnVal) inv() assnVal { return a ^ 3 }

func (a assnVal) String() string {
	switch a {
	case unassigned:
		return "unassigned"
	case assnTrue, assnTrueSecond:
		return "true"
	case assnFalse, assnFalseSecond:
		return "false"
	default:
		panic("unreached")
	}
}

type decision struct {
	implicationIdx int
	lit            literal
}

func (sv *dpllState) solve() bool {
	switch sv.simpleSat {
	case assnTrue:
		return true
	case assnFalse:
		return false
	}

	for {
		lit, ok := sv.popUnassigned()
		if !ok {
			return true
		}
		if sv.assignments[lit>>1] != unassigned {
			continue
		}
		sv.deleteUnassigned(lit ^ 1)
		v := lit >> 1
		sv.assignments[v] = lit.assn()
		sv.numDecisions++
		sv.decisions = append(sv.decisions, decision{
			implicationIdx: len(sv.implications),
			lit:            lit,
		})
		sv.propIndex = len(sv.implications)
		sv.implications = append(sv.implications, lit)

		for !sv.bcp() {
			if !sv.resolveConflict() {
				return false
			}
		}
	}
}

// bcp carries out boolean constraint propagation, returning true once
// there are no more implications to propagate or false on conflict.
func (sv *dpllState) bcp() bool {
	for {
		imps := sv.implications[sv.propIndex:]
		if len(imps) == 0 {
			return true
		}
		sv.propIndex = len(sv.implications)
		for _, impliedLit := range imps {
			neg := impliedLit ^ 1
			watches := sv.watches[neg]
		watchesLoop:
			for i := 0; i < len(watches); {
				clauseIdx := watches[i]
				cls := sv.clauses[clauseIdx]
				if cls.lits[0] == neg {
					cls.lits[0], cls.lits[1] = cls.lits[1], cls.lits[0]
				} else if cls.lits[1] != neg {
					panic("bad watch var state")
				}
				lit0 := cls.lits[0]
				if sv.assignments[lit0>>1]&3 == lit0.assn() {
					i++
					continue
				}
				for j := 2; j < len(cls.lits); j++ {
					lit := cls.lits[j]
					assn := sv.assignments[lit>>1] & 3
					if assn == lit.assn().inv() {
						continue
					}
					sv.watches[lit] = append(sv.watches[lit], clauseIdx)
					if assn == unassigned {
						sv.updateUnassigned(lit)
					}
					watches[i], watches[len(watches)-1] = watches[len(watches)-1], watches[i]
					watches = watches[:len(watches)-1]
					sv.watches[neg] = watches
					cls.lits[1], cls.lits[j] = cls.lits[j], cls.lits[1]
					continue watchesLoop
				}
				i++
				otherWatch := cls.lits[0]
				v := int(otherWatch >> 1)
				if sv.assignments[v] != unassigned {
					return false
				}
				sv.assignments[v] = otherWatch.assn()
				sv.deleteUnassigned(otherWatch)
				sv.numImplications++
				sv.implications = append(sv.implications, otherWatch)
			}
		}
	}
}

// resolveConflict tries to fix the current conflict by flipping the most
// recently made decision that hasn't been tried both ways.
func (sv *dpllState) resolveConflict() bool {
	di := -1
	var d decision
	for i := len(sv.decisions) - 1; i >= 0; i-- {
		d = sv.decisions[i]
		if sv.assignments[d.lit>>1]&4 == 0 {
			di = i
			break
		}
	}
	if di == -1 {
		return false
	}
	for i := len(sv.implications) - 1; i > d.implicationIdx; i-- {
		lit := sv.implications[i]
		sv.pushUnassigned(lit)
		sv.assignments[lit>>1] = unassigned
	}
	sv.implications = sv.implications[:d.implicationIdx+1]
	sv.implications[len(sv.implications)-1] ^= 1
	sv.decisions = sv.decisions[:di+1]
	sv.decisions[di].lit ^= 1
	sv.assignments[d.lit>>1] ^= 7
	sv.propIndex = d.implicationIdx
	return true
}

func (sv *dpllState) pushUnassigned(lit literal) {
	if _, ok := sv.unassigned.m[lit]; ok {
		panic("push of literal that's already in the unassigned queue")
	}
	heap.Push(&sv.unassigned, litHeapItem{lit: lit})
}

func (sv *dpllState) popUnassigned() (literal, bool) {
	if len(sv.unassigned.lits) == 0 {
		return 0, false
	}
	e := heap.Pop(&sv.unassigned).(litHeapItem)
	return e.lit, true
}

func (sv *dpllState) deleteUnassigned(lit literal) {
	i, ok := sv.unassigned.m[lit]
	if !ok {
		return
	}
	heap.Remove(&sv.unassigned, i)
}

func (sv *dpllState) updateUnassigned(lit literal) {
	if i, ok := sv.unassigned.m[lit]; ok {
		heap.Fix(&sv.unassigned, i)
	} else {
		heap.Push(&sv.unassigned, litHeapItem{lit: lit})
	}
}
