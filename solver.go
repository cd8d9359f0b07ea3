package craig

// SolveResult is the three-valued outcome of a Solve call, matching the
// {10 = SAT, 20 = UNSAT} convention of the solver ABI translated into a
// small Go enum (callers never need to remember the magic numbers).
type SolveResult int

const (
	ResultUnknown SolveResult = 0
	ResultSat     SolveResult = 10
	ResultUnsat   SolveResult = 20
)

func (r SolveResult) String() string {
	switch r {
	case ResultSat:
		return "SAT"
	case ResultUnsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Solver is the contract the interpolation engine needs from a CDCL SAT
// solver: incremental clause/assumption addition and, on UNSAT, an LRAT
// proof file covering exactly the clauses added, indexed starting at 1 in
// addition order.
//
// Construction is left to each implementation's own constructor (there is
// no Init method), and errors are returned rather than encoded as magic
// sentinel values.
type Solver interface {
	// SetOption configures a solver option (e.g. "quiet", "lrat",
	// "binary") before solving begins.
	SetOption(name string, value int)

	// TraceProof arranges for an LRAT proof to be written to filename if
	// the next Solve call (or a subsequent one) returns ResultUnsat.
	TraceProof(filename string) error

	// AddClause adds a single clause to the solver's database. Clauses
	// must be added in the same order the caller will later use to
	// interpret LRAT parent indices (see ColoredCNF.Combined).
	AddClause(c Clause)

	// AddFormula adds every clause of f, in f's iteration order.
	AddFormula(f CNF)

	// Solve runs the solver under the given assumption literals and
	// optional extra constraint clause (nil for none), returning whether
	// the combined problem is satisfiable.
	Solve(assumptions []Literal, constraint *Clause) (SolveResult, error)

	// FlushProofTrace ensures any buffered proof output has been written
	// to the file named by TraceProof. Called automatically by Solve on
	// UNSAT, but exposed for callers that need to force a flush earlier.
	FlushProofTrace() error

	// Release frees the solver's resources. Safe to call more than once.
	Release() error
}

// Implies reports whether hypothesis logically implies conclusion, i.e.
// whether hypothesis ∧ ¬conclusion is unsatisfiable. It is a one-shot
// check: newSolver is called once to obtain a fresh Solver, which is
// released before Implies returns.
func Implies(hypothesis, conclusion CNF, newSolver func() Solver) (bool, error) {
	s := newSolver()
	defer s.Release()
	s.AddFormula(hypothesis)
	s.AddFormula(conclusion.Negate())
	result, err := s.Solve(nil, nil)
	if err != nil {
		return false, err
	}
	return result == ResultUnsat, nil
}
