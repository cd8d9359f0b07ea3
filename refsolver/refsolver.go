// Package refsolver provides craig's default, in-process Solver: a
// watched-literal Davis-Putnam backtracking engine for the SAT/UNSAT
// decision, paired with an independent Davis-Putnam resolution prover
// used only to emit the LRAT proof an UNSAT result needs. It has no
// external dependencies and is always available, unlike
// craig/cadicalsolver which requires libcadical to be installed.
package refsolver

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cespare/craig"
	"github.com/cespare/craig/lrat"
)

// Solver is a craig.Solver backed by dpllState for the SAT/UNSAT decision
// and buildProof for LRAT proof construction.
type Solver struct {
	clauses   []craig.Clause
	options   map[string]int
	proofPath string
	proofBuf  bytes.Buffer
	lastStats map[string]interface{}
}

// New returns a Solver with no clauses added yet.
func New() *Solver {
	return &Solver{options: make(map[string]int)}
}

var _ craig.Solver = (*Solver)(nil)

func (s *Solver) SetOption(name string, value int) {
	s.options[name] = value
}

func (s *Solver) TraceProof(filename string) error {
	if filename == "" {
		return fmt.Errorf("craig/refsolver: empty proof trace filename")
	}
	s.proofPath = filename
	return nil
}

func (s *Solver) AddClause(c craig.Clause) {
	s.clauses = append(s.clauses, c)
}

func (s *Solver) AddFormula(f craig.CNF) {
	s.clauses = append(s.clauses, f.Clauses()...)
}

// Stats returns the decision/implication counters from the most recent
// Solve call. The contents are purely informational.
func (s *Solver) Stats() map[string]interface{} {
	return s.lastStats
}

func (s *Solver) Solve(assumptions []craig.Literal, constraint *craig.Clause) (craig.SolveResult, error) {
	working := make([]craig.Clause, len(s.clauses), len(s.clauses)+len(assumptions)+1)
	copy(working, s.clauses)
	for _, a := range assumptions {
		working = append(working, craig.NewClauseSlice([]craig.Literal{a}))
	}
	if constraint != nil {
		working = append(working, *constraint)
	}

	// The decision engine has no notion of the reserved constant variable
	// 1, so the two degenerate clauses are translated structurally: the
	// unsat clause {False} becomes the empty clause (which simplify
	// immediately refutes) and the valid clause {True} is dropped. All
	// other normalized clauses never contain variable 1.
	var problem [][]int
	for _, cl := range working {
		if cl.IsValid() {
			continue
		}
		if cl.IsUnsat() {
			problem = append(problem, nil)
			continue
		}
		lits := cl.Literals()
		ints := make([]int, len(lits))
		for j, l := range lits {
			ints[j] = int(l)
		}
		problem = append(problem, ints)
	}

	sat, stats := dpllSolve(problem)
	s.lastStats = stats
	if sat {
		return craig.ResultSat, nil
	}

	if s.proofPath != "" {
		proof, err := buildProof(working)
		if err != nil {
			return craig.ResultUnsat, err
		}
		s.proofBuf.Reset()
		for _, step := range proof {
			if err := lrat.WriteLine(&s.proofBuf, step); err != nil {
				return craig.ResultUnsat, err
			}
		}
		if err := s.FlushProofTrace(); err != nil {
			return craig.ResultUnsat, err
		}
	}
	return craig.ResultUnsat, nil
}

func (s *Solver) FlushProofTrace() error {
	if s.proofPath == "" {
		return nil
	}
	f, err := os.Create(s.proofPath)
	if err != nil {
		return fmt.Errorf("craig/refsolver: flush proof trace: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(s.proofBuf.Bytes()); err != nil {
		return fmt.Errorf("craig/refsolver: flush proof trace: %w", err)
	}
	return nil
}

func (s *Solver) Release() error {
	return nil
}
