package refsolver

import (
	"fmt"
	"sort"

	"github.com/cespare/craig"
	"github.com/cespare/craig/lrat"
)

// buildProof derives an LRAT refutation of clauses (assumed, by the
// caller having already run dpllSolve and gotten false, to be
// unsatisfiable) by classical Davis-Putnam variable elimination: pick the
// lowest-numbered remaining variable, resolve every clause containing it
// positively against every clause containing it negatively, drop
// tautological resolvents, and repeat until the empty clause appears or no
// variables remain.
//
// Every resolution step requires a unique pivot, the same restriction the
// interpolation engine's own replay of the proof depends on (a clause pair
// with more than one opposite-polarity variable has an ambiguous
// Resolvant, and the engine cannot assign it a label). Pairs that would
// need such a step are skipped rather than resolved. Such a pair opposes
// in at least two variables, so its resolvent on v is a tautology, and
// skipping it is the usual tautology deletion: elimination stays
// refutation-complete. Running out of variables without the empty clause
// therefore means the clauses are satisfiable, and buildProof returns an
// error rather than a proof.
func buildProof(clauses []craig.Clause) ([]lrat.ProofClause, error) {
	byIndex := make(map[int]craig.Clause, len(clauses))
	alive := make(map[int]bool, len(clauses))
	for i, cl := range clauses {
		idx := i + 1
		if cl.IsUnsat() {
			// Already refuted by one of the input clauses directly; no
			// derivation steps are needed.
			return nil, nil
		}
		if cl.IsValid() {
			// A valid clause can never contribute to a refutation; it
			// keeps its index but takes no part in elimination.
			continue
		}
		byIndex[idx] = cl
		alive[idx] = true
	}
	nextIndex := len(clauses) + 1
	var proof []lrat.ProofClause

	for {
		v, ok := lowestLiveVariable(byIndex, alive)
		if !ok {
			return proof, fmt.Errorf("craig/refsolver: exhausted all variables without deriving the empty clause (the clauses are satisfiable)")
		}

		var pos, neg []int
		for idx, live := range alive {
			if !live {
				continue
			}
			cl := byIndex[idx]
			if hasLiteral(cl, craig.Literal(v)) {
				pos = append(pos, idx)
			}
			if hasLiteral(cl, craig.Literal(-v)) {
				neg = append(neg, idx)
			}
		}
		sort.Ints(pos)
		sort.Ints(neg)
		for _, idx := range pos {
			alive[idx] = false
		}
		for _, idx := range neg {
			alive[idx] = false
		}

		for _, pi := range pos {
			for _, ni := range neg {
				pc, nc := byIndex[pi], byIndex[ni]
				if pc.Resolvant(nc) != v {
					continue
				}
				rc := pc.ResolveOn(nc, v)
				if rc.IsValid() {
					continue
				}
				idx := nextIndex
				nextIndex++
				proof = append(proof, lrat.ProofClause{Index: idx, Clause: rc, Parents: []int{pi, ni}})
				byIndex[idx] = rc
				alive[idx] = true
				if rc.IsUnsat() {
					return proof, nil
				}
			}
		}
	}
}

func lowestLiveVariable(byIndex map[int]craig.Clause, alive map[int]bool) (int, bool) {
	found := false
	min := 0
	for idx, live := range alive {
		if !live {
			continue
		}
		for _, l := range byIndex[idx].Literals() {
			v := l.Variable()
			if !found || v < min {
				min = v
				found = true
			}
		}
	}
	return min, found
}

func hasLiteral(cl craig.Clause, l craig.Literal) bool {
	for _, x := range cl.Literals() {
		if x == l {
			return true
		}
	}
	return false
}
