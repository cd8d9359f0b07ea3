// Package interpolant computes Craig interpolants from the resolution
// refutation of an unsatisfiable two-colored CNF, following the labeled-
// clause scheme of Pudlak and McMillan: every clause of the refutation DAG
// is annotated with a label CNF over the shared (B) variables, leaves are
// labeled directly from their color, and internal nodes fold their
// parents' labels together with ∧ or ∨ depending on whether the
// resolution pivot is a B variable.
package interpolant

import (
	"fmt"
	"os"

	"github.com/cespare/craig"
	"github.com/cespare/craig/lrat"
)

// Interpolant computes the Craig interpolant of colored, an unsatisfiable
// two-colored CNF whose color 0 is the A side and color 1 is the B side.
// It adds colored's combined clauses to solver, arranges for an LRAT proof
// to be written to proofPath, and solves. If the formula turns out to be
// satisfiable, it returns a *craig.SatisfiableError (there is no
// interpolant to compute). The caller owns solver's lifetime beyond this
// call (Interpolant does not Release it).
//
// colored must have been built with keepMinimal=false: the LRAT proof's
// clause indices are positional in colored.Combined()'s clause order, and
// minimization can drop or reorder clauses, which would desynchronize that
// correspondence.
func Interpolant(colored craig.ColoredCNF, solver craig.Solver, proofPath string) (craig.CNF, error) {
	if colored.NumColors() != 2 {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: need exactly 2 colors, got %d", colored.NumColors())
	}
	combined := colored.Combined()
	solver.AddFormula(combined)
	if err := solver.TraceProof(proofPath); err != nil {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: trace proof: %w", err)
	}
	result, err := solver.Solve(nil, nil)
	if err != nil {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: solve: %w", err)
	}
	switch result {
	case craig.ResultSat:
		return craig.CNF{}, &craig.SatisfiableError{}
	case craig.ResultUnsat:
	default:
		return craig.CNF{}, fmt.Errorf("craig/interpolant: solver returned %v, want SAT or UNSAT", result)
	}
	if err := solver.FlushProofTrace(); err != nil {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: flush proof: %w", err)
	}

	f, err := os.Open(proofPath)
	if err != nil {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: open proof: %w", err)
	}
	defer f.Close()
	steps, err := lrat.ReadProof(f)
	if err != nil {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: read proof: %w", err)
	}
	return FromProof(combined, colored, steps)
}

type node struct {
	clause  craig.Clause
	parents []int // nil for a leaf (an input clause)
	label   craig.CNF
	done    bool
}

// FromProof computes the interpolant directly from an already-parsed
// refutation, given the combined input CNF (clauses 1..N in solver-add
// order) and the color partition they came from. It is the core of
// Interpolant, split out so a hand-built or solver-independent proof can
// be checked without going through an actual craig.Solver.
func FromProof(combined craig.CNF, colored craig.ColoredCNF, steps []lrat.ProofClause) (craig.CNF, error) {
	if colored.NumColors() != 2 {
		return craig.CNF{}, fmt.Errorf("craig/interpolant: need exactly 2 colors, got %d", colored.NumColors())
	}
	inputs := combined.Clauses()
	nodes := make(map[int]*node, len(inputs)+len(steps))
	for i, cl := range inputs {
		nodes[i+1] = &node{clause: cl}
	}
	var last int
	for _, step := range steps {
		if len(step.Parents) == 0 {
			return craig.CNF{}, &craig.ParseError{Format: "lrat", Msg: fmt.Sprintf("derivation %d has no parents", step.Index)}
		}
		nodes[step.Index] = &node{clause: step.Clause, parents: step.Parents}
		if step.Index > last {
			last = step.Index
		}
	}
	bVars := colored.Color(1).Variables()

	if last == 0 {
		// A trivial refutation: one of the input clauses was already the
		// empty clause (keepMinimal collapsed it, or the caller handed us
		// a directly-unsat input), so the solver never needed to emit any
		// derivation steps. The interpolant is just that leaf's label.
		for _, n := range nodes {
			if n.clause.IsUnsat() {
				return leafLabel(n.clause, colored, bVars), nil
			}
		}
		return craig.CNF{}, &craig.ParseError{Format: "lrat", Msg: "empty proof and no input clause is already unsatisfiable"}
	}

	root := last
	for idx, n := range nodes {
		if n.parents != nil && n.clause.IsUnsat() {
			root = idx
		}
	}

	if err := labelIterative(nodes, root, colored, bVars); err != nil {
		return craig.CNF{}, err
	}
	return nodes[root].label, nil
}

// labelIterative computes nodes[root].label using an explicit stack so
// that deep refutation DAGs (long resolution chains) don't recurse on the
// Go call stack.
func labelIterative(nodes map[int]*node, root int, colored craig.ColoredCNF, bVars map[craig.Literal]struct{}) error {
	stack := []int{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		n, ok := nodes[top]
		if !ok {
			return &craig.ParseError{Format: "lrat", Msg: fmt.Sprintf("proof references unknown clause index %d", top)}
		}
		if n.done {
			stack = stack[:len(stack)-1]
			continue
		}
		if n.parents == nil {
			n.label = leafLabel(n.clause, colored, bVars)
			n.done = true
			stack = stack[:len(stack)-1]
			continue
		}
		allReady := true
		for _, p := range n.parents {
			pn, ok := nodes[p]
			if !ok {
				return &craig.ParseError{Format: "lrat", Msg: fmt.Sprintf("proof step %d references unknown parent %d", top, p)}
			}
			if !pn.done {
				stack = append(stack, p)
				allReady = false
			}
		}
		if !allReady {
			continue
		}
		label, err := foldParents(top, n, nodes, bVars)
		if err != nil {
			return err
		}
		n.label = label
		n.done = true
		stack = stack[:len(stack)-1]
	}
	return nil
}

func leafLabel(cl craig.Clause, colored craig.ColoredCNF, bVars map[craig.Literal]struct{}) craig.CNF {
	if colored.Color(1).Contains(cl) {
		return craig.NewCNF(true)
	}
	return craig.NewCNF(true, cl.Intersection(bVars))
}

func foldParents(selfIndex int, n *node, nodes map[int]*node, bVars map[craig.Literal]struct{}) (craig.CNF, error) {
	k := len(n.parents)
	last := nodes[n.parents[k-1]]
	accClause, accLabel := last.clause, last.label
	for i := k - 2; i >= 0; i-- {
		p := nodes[n.parents[i]]
		pivot := accClause.Resolvant(p.clause)
		if pivot == 0 {
			return craig.CNF{}, &craig.ParseError{Format: "lrat", Msg: fmt.Sprintf("proof step %d: parents %d and %d do not resolve on a unique pivot", selfIndex, n.parents[i], n.parents[k-1])}
		}
		accClause = accClause.ResolveOn(p.clause, pivot)
		if _, isB := bVars[craig.Literal(pivot)]; isB {
			accLabel = accLabel.And(p.label)
		} else {
			accLabel = accLabel.Or(p.label)
		}
	}
	return accLabel, nil
}
