// Command craig is a toy SAT/BMC tool: "solve" reads a bare DIMACS CNF
// formula and reports SAT/UNSAT; "bmc" drives an AIGER sequential circuit
// through bounded model checking, extracting a Craig interpolant when the
// depth bound is exhausted without finding a bad state.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kr/pretty"

	"github.com/cespare/craig"
	"github.com/cespare/craig/aiger"
	"github.com/cespare/craig/interpolant"
	"github.com/cespare/craig/refsolver"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "solve":
		err = runSolve(os.Args[2:])
	case "bmc":
		err = runBMC(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `craig: a toy SAT solver and AIGER bounded model checker.

Usage:

  craig solve [-v] [input.cnf]
  craig bmc [-v] [-depth N] input.aag

solve reads a single problem specification in the DIMACS CNF format and
prints a single line, SAT or UNSAT; no satisfying assignment is printed.

bmc reads an ASCII AIGER sequential circuit and unrolls it tick by tick
looking for a reachable bad state, from tick 0 through tick -depth
(default 10).

If no input file is given, solve reads from standard input.
`)
}

func runSolve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose mode")
	fs.Parse(args)

	var r io.Reader = os.Stdin
	if fs.NArg() >= 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	cnf, err := craig.ParseDIMACS(r, false)
	if err != nil {
		return fmt.Errorf("reading input file as DIMACS CNF: %w", err)
	}

	s := refsolver.New()
	defer s.Release()
	s.AddFormula(cnf)
	result, err := s.Solve(nil, nil)
	if err != nil {
		return err
	}
	if *verbose {
		printStats(s.Stats())
	}
	if result == craig.ResultUnsat {
		fmt.Println("UNSAT")
		return nil
	}
	fmt.Println("SAT")
	return nil
}

func runBMC(args []string) error {
	fs := flag.NewFlagSet("bmc", flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose mode")
	depth := fs.Int("depth", 10, "maximum unrolling depth")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	circuit, err := aiger.Parse(f)
	if err != nil {
		return fmt.Errorf("reading input file as AIGER: %w", err)
	}

	// The unrolled transition system accumulates across ticks; each tick's
	// bad-state clause is guarded by that tick's switching variable so a
	// later iteration can retire it. Assumptions(tick) satisfies every
	// earlier guarded output clause and forces only the current one.
	unrolled := craig.NewCNF(false)
	var systems []craig.CNF
	for tick := 0; tick <= *depth; tick++ {
		sys := circuit.ClausesSystem(tick)
		systems = append(systems, sys)
		bad := craig.NewCNF(false, circuit.ClauseOutput(tick))
		unrolled = unrolled.And(sys).And(circuit.ApplySwitch(bad, tick))

		s := refsolver.New()
		s.AddFormula(unrolled)
		result, err := s.Solve(circuit.Assumptions(tick), nil)
		if err != nil {
			s.Release()
			return err
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "tick %d: %v\n", tick, result)
			printStats(s.Stats())
		}
		s.Release()

		if result == craig.ResultSat {
			fmt.Printf("reachable bad state at tick %d\n", tick)
			return nil
		}
	}
	if *depth < 1 {
		fmt.Println("no bad state found at tick 0")
		return nil
	}

	// No counterexample up to depth: compute an interpolant between the
	// first unrolling step (A) and the rest of the unrolling plus the
	// final bad-state clause (B), as a certificate over the shared
	// tick-1 frontier in the McMillan BMC/interpolation style.
	a := systems[0].And(systems[1])
	b := circuit.B().AndClause(circuit.ClauseOutput(*depth))
	colored := craig.NewColoredCNF(false, a, b)

	dir, err := os.MkdirTemp("", "craig-bmc")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	s := refsolver.New()
	defer s.Release()
	interp, err := interpolant.Interpolant(colored, s, dir+"/proof.lrat")
	if err != nil {
		if _, ok := err.(*craig.SatisfiableError); ok {
			fmt.Println("no bad state found within depth, and the unrolling is satisfiable (inconclusive)")
			return nil
		}
		return err
	}
	fmt.Printf("no bad state found within depth %d; interpolant: %v\n", *depth, interp)
	return nil
}

func printStats(stats map[string]interface{}) {
	pretty.Fprintf(os.Stderr, "%# v\n", stats)
}
