//go:build cadical

// Package cadicalsolver binds craig.Solver to libcadical through cgo,
// using CaDiCaL's native LRAT proof tracing. It requires libcadical's C
// wrapper (ccadical.h / -lcadical) to be available at link time, so it is
// gated behind the "cadical" build tag; craig/refsolver is the default
// Solver when that tag isn't set.
package cadicalsolver

/*
#cgo LDFLAGS: -lcadical
#include <stdlib.h>
#include "ccadical.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/cespare/craig"
)

// Solver is a craig.Solver backed by an in-process CCaDiCaL instance.
type Solver struct {
	ptr       unsafe.Pointer
	proofPath string
	released  bool
}

var _ craig.Solver = (*Solver)(nil)

// New initializes a fresh CaDiCaL instance.
func New() *Solver {
	return &Solver{ptr: C.ccadical_init()}
}

// SetOption sets a CaDiCaL option, e.g. SetOption("quiet", 1) or
// SetOption("lrat", 1) before any clause is added.
func (s *Solver) SetOption(name string, value int) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.ccadical_set_option(s.ptr, cname, C.int(value))
}

// TraceProof arranges for a proof to be written to filename, forcing the
// "quiet" and "lrat" options on first — an LRAT proof (rather than DRAT)
// is the only format the interpolation engine reads.
func (s *Solver) TraceProof(filename string) error {
	s.SetOption("quiet", 1)
	s.SetOption("lrat", 1)
	s.proofPath = filename
	cname := C.CString(filename)
	defer C.free(unsafe.Pointer(cname))
	if !bool(C.ccadical_trace_proof(s.ptr, cname)) {
		return fmt.Errorf("craig/cadicalsolver: trace_proof(%q) failed", filename)
	}
	return nil
}

// AddClause pushes every literal of c followed by a terminating 0,
// exactly as the C API expects.
func (s *Solver) AddClause(c craig.Clause) {
	for _, l := range c.Literals() {
		C.ccadical_add(s.ptr, C.int(l))
	}
	C.ccadical_add(s.ptr, 0)
}

// AddFormula adds every clause of f in f's clause order.
func (s *Solver) AddFormula(f craig.CNF) {
	for _, c := range f.Clauses() {
		s.AddClause(c)
	}
}

// Solve pushes the optional constraint clause via ccadical_constrain
// (terminated by 0) before the assumptions go in via ccadical_assume,
// then solves.
func (s *Solver) Solve(assumptions []craig.Literal, constraint *craig.Clause) (craig.SolveResult, error) {
	if constraint != nil {
		for _, l := range constraint.Literals() {
			C.ccadical_constrain(s.ptr, C.int(l))
		}
		C.ccadical_constrain(s.ptr, 0)
	}
	for _, l := range assumptions {
		C.ccadical_assume(s.ptr, C.int(l))
	}
	ret := int(C.ccadical_solve(s.ptr))
	switch ret {
	case int(craig.ResultSat):
		return craig.ResultSat, nil
	case int(craig.ResultUnsat):
		if s.proofPath != "" {
			C.ccadical_flush_proof_trace(s.ptr)
		}
		return craig.ResultUnsat, nil
	default:
		return craig.ResultUnknown, fmt.Errorf("craig/cadicalsolver: ccadical_solve returned %d", ret)
	}
}

// FlushProofTrace forces buffered proof lines out to the trace file.
// Solve already calls this on UNSAT (assumptions and constraints leave
// the trailing proof lines unflushed otherwise), so this is for callers
// that need to force it earlier.
func (s *Solver) FlushProofTrace() error {
	if s.proofPath == "" {
		return nil
	}
	C.ccadical_flush_proof_trace(s.ptr)
	return nil
}

// Release frees the underlying CaDiCaL instance. Safe to call more than
// once.
func (s *Solver) Release() error {
	if s.released {
		return nil
	}
	C.ccadical_release(s.ptr)
	s.released = true
	return nil
}
