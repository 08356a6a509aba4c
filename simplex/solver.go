// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/feldspar-lp/feldspar/lp"
)

// Solve optimizes the model with the given settings and returns the
// result. A nil settings uses the defaults. The returned error mirrors any
// non-Optimal status with the matching sentinel from package lp; the
// Result is populated in every case, and for limit exits reflects the last
// completed pivot.
func Solve(model *lp.LP, set *lp.Settings) (*lp.Result, error) {
	s, err := New(model, set)
	if err != nil {
		return &lp.Result{Status: lp.InvalidInput, Message: err.Error()}, err
	}
	return s.Solve()
}

// SolveFrom optimizes the model starting from an interior-point primal x
// and optional duals pi, converting the point to a vertex basis by
// crossover before the simplex phases run.
func SolveFrom(model *lp.LP, set *lp.Settings, x, pi []float64) (*lp.Result, error) {
	s, err := New(model, set)
	if err != nil {
		return &lp.Result{Status: lp.InvalidInput, Message: err.Error()}, err
	}
	s.warmX = append([]float64(nil), x...)
	if pi != nil {
		s.warmPi = append([]float64(nil), pi...)
	}
	return s.Solve()
}

// New validates the model and builds a Solver for it. The model must not be
// mutated while the Solver is alive.
func New(model *lp.LP, set *lp.Settings) (*Solver, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		model: model,
		set:   normalizeSettings(set),
	}
	s.m = model.NumConstraints()
	s.n = model.NumVariables()
	s.ncol = s.n + s.m
	s.a = model.Matrix()

	if err := noNaN(model.RHS()); err != nil {
		return nil, err
	}

	inf := s.set.Infinity
	s.cost = make([]float64, s.ncol)
	copy(s.cost, model.Costs())
	s.c1 = make([]float64, s.ncol)
	s.lower = make([]float64, s.ncol)
	s.upper = make([]float64, s.ncol)
	for j := 0; j < s.n; j++ {
		s.lower[j] = normalizeBound(model.Lower()[j], inf)
		s.upper[j] = normalizeBound(model.Upper()[j], inf)
	}
	for i, sense := range model.Senses() {
		jl := s.n + i
		switch sense {
		case lp.LE:
			s.lower[jl], s.upper[jl] = 0, math.Inf(1)
		case lp.GE:
			s.lower[jl], s.upper[jl] = math.Inf(-1), 0
		default:
			s.lower[jl], s.upper[jl] = 0, 0
		}
	}
	s.origLower = append([]float64(nil), s.lower...)
	s.origUpper = append([]float64(nil), s.upper...)
	s.rhs = append([]float64(nil), model.RHS()...)

	s.status = make([]varStatus, s.ncol)
	s.header = make([]int, s.m)
	s.row = make([]int, s.ncol)
	s.x = make([]float64, s.ncol)
	s.pi = make([]float64, s.m)
	s.d = make([]float64, s.ncol)
	s.xi = make([]float64, s.ncol)

	s.wCol = make([]float64, s.m)
	s.beta = make([]float64, s.m)
	s.aRow = make([]float64, s.ncol)
	s.tmpM = make([]float64, s.m)
	s.tmpM2 = make([]float64, s.m)

	s.factor = newBasisFactor(s.m, s.set.PivotFloor)
	s.pricer = newPricer(s.set.Pricing, s.ncol)

	s.maxIter = s.set.MaxIter
	if s.maxIter <= 0 {
		s.maxIter = 2 * s.ncol * 100
		if s.maxIter == 0 {
			s.maxIter = 100
		}
	}
	s.workThreshold = 50 * float64(s.a.NumNonzeros()+s.ncol+1)
	s.gate.env = s.set.Env.TerminateFlag()
	return s, nil
}

func normalizeSettings(set *lp.Settings) lp.Settings {
	def := lp.DefaultSettings()
	if set == nil {
		return *def
	}
	out := *set
	if out.FeasTol == 0 {
		out.FeasTol = def.FeasTol
	}
	if out.OptTol == 0 {
		out.OptTol = def.OptTol
	}
	if out.PivotFloor == 0 {
		out.PivotFloor = def.PivotFloor
	}
	if out.Infinity == 0 {
		out.Infinity = def.Infinity
	}
	if out.MaxEtaUpdates == 0 {
		out.MaxEtaUpdates = def.MaxEtaUpdates
	}
	if out.RefineIters == 0 {
		out.RefineIters = def.RefineIters
	}
	if out.RefineTol == 0 {
		out.RefineTol = def.RefineTol
	}
	return out
}

// Terminate requests cooperative termination. It is the only method safe
// to call from another goroutine while Solve runs; the solve returns with
// status UserTerminated and the solution of the last completed pivot.
func (s *Solver) Terminate() {
	s.gate.signal()
}

// Solve runs the full orchestration: crash basis, factorize, phase 1,
// perturb, phase 2, unperturb and clean up, refine, extract.
func (s *Solver) Solve() (*lp.Result, error) {
	s.start = time.Now()
	if s.set.TimeLimit > 0 {
		s.deadline = s.start.Add(s.set.TimeLimit)
	}
	s.logf(1, "solve started", "rows", s.m, "cols", s.n, "nonzeros", s.a.NumNonzeros())

	status := s.optimize()
	res := s.extract(status)
	if s.set.PostOptimize != nil {
		s.set.PostOptimize(res)
	}
	s.logf(1, "solve finished", "status", res.Status.String(), "objective", res.Obj, "iterations", res.Iterations)
	return res, res.Status.Err()
}

func (s *Solver) optimize() lp.Status {
	if s.m == 0 {
		return s.solveUnconstrained()
	}

	// SETUP and CRASH.
	if s.warmX != nil {
		s.pricer.init(s)
		if err := s.crossoverFrom(s.warmX, s.warmPi); err != nil {
			s.errs.setRoot(err.Error())
			return failureStatus(err)
		}
	} else {
		s.crashBasis()
		if err := s.refactorize(); err != nil {
			s.errs.setRoot(err.Error())
			return lp.NumericBreakdown
		}
		s.pricer.init(s)
	}

	// Phase 1: feasibility.
	if s.callPre() {
		return lp.UserTerminated
	}
	if s.infeasibility() > s.feasTol() {
		st, err := s.runPhase(phase1, 0)
		if st != lp.NotTerminated {
			if err != nil && s.errs.empty() {
				s.errs.setRoot(err.Error())
			}
			return st
		}
	}

	// Phase 2 under perturbed bounds.
	if s.callPre() {
		return lp.UserTerminated
	}
	s.perturbBounds()
	st, _ := s.runPhase(phase2, 0)
	s.unperturb()
	if st != lp.Optimal {
		return st
	}

	// CLEANUP: removing the perturbation may leave small infeasibilities
	// or fresh attractive columns; a bounded re-optimization restores the
	// exact optimum.
	for round := 0; round < 2; round++ {
		if s.infeasibility() > s.feasTol() {
			st, _ = s.runPhase(phase1, cleanupIters)
			if st != lp.NotTerminated {
				return st
			}
		}
		st, _ = s.runPhase(phase2, cleanupIters)
		if st != lp.NotTerminated && st != lp.Optimal {
			return st
		}
		if st == lp.Optimal && s.infeasibility() <= s.feasTol() {
			break
		}
	}

	// A stall during cleanup may have perturbed again; refinement and
	// extraction must see the exact bounds.
	s.unperturb()

	// REFINE.
	if err := s.refine(); err != nil {
		return lp.NumericBreakdown
	}
	return lp.Optimal
}

// solveUnconstrained handles m = 0: every variable goes to the bound that
// minimizes its term, and an improving direction with no finite bound makes
// the program unbounded.
func (s *Solver) solveUnconstrained() lp.Status {
	tol := s.optTol()
	for j := 0; j < s.n; j++ {
		c, lo, hi := s.cost[j], s.lower[j], s.upper[j]
		switch {
		case c > tol:
			if math.IsInf(lo, -1) {
				return lp.Unbounded
			}
			s.x[j] = lo
		case c < -tol:
			if math.IsInf(hi, 1) {
				return lp.Unbounded
			}
			s.x[j] = hi
		default:
			switch {
			case !math.IsInf(lo, -1):
				s.x[j] = lo
			case !math.IsInf(hi, 1):
				s.x[j] = hi
			default:
				s.x[j] = 0
			}
		}
	}
	return lp.Optimal
}

// callPre runs the pre-optimize hook for a phase transition. It reports
// whether termination was requested.
func (s *Solver) callPre() bool {
	if s.set.PreOptimize == nil {
		return s.gate.poll()
	}
	interim := &lp.Result{Status: lp.NotTerminated, Stats: s.stats}
	if s.set.PreOptimize(interim) {
		s.gate.signal()
	}
	return s.gate.poll()
}

// extract copies the solution out of the solver state. For failure and
// limit statuses the values reflect the last completed pivot.
func (s *Solver) extract(status lp.Status) *lp.Result {
	if s.m > 0 && s.factor.lu != nil {
		// Report duals for the true objective regardless of the phase the
		// solve ended in.
		s.curPhase = phase2
		s.computeDuals()
	}
	res := &lp.Result{
		X:      append([]float64(nil), s.x[:s.n]...),
		Dual:   append([]float64(nil), s.pi...),
		Status: status,
		Stats:  s.stats,
	}
	for j := 0; j < s.n; j++ {
		res.Obj += s.cost[j] * s.x[j]
	}
	res.Message = s.errs.String()
	res.Runtime = time.Since(s.start)
	return res
}

func failureStatus(err error) lp.Status {
	if err == nil {
		return lp.Optimal
	}
	for st := lp.Optimal; st <= lp.OutOfMemory; st++ {
		if e := st.Err(); e != nil && errors.Is(err, e) {
			return st
		}
	}
	return lp.NumericBreakdown
}

// errorBuffer stores the single most recent informational error message,
// truncated to a fixed capacity. Once a root cause is recorded the buffer
// locks so nested errors raised during error handling cannot overwrite it.
type errorBuffer struct {
	mu     sync.Mutex
	locked bool
	n      int
	buf    [512]byte
}

func (e *errorBuffer) set(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked {
		return
	}
	e.n = copy(e.buf[:], msg)
}

func (e *errorBuffer) setRoot(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked {
		return
	}
	e.n = copy(e.buf[:], msg)
	e.locked = true
}

func (e *errorBuffer) empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.n == 0
}

func (e *errorBuffer) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.buf[:e.n])
}
