// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"errors"
	"math"
	"time"

	"github.com/feldspar-lp/feldspar/lp"
)

const (
	// stallWindow is the iteration spacing of progress snapshots.
	stallWindow = 50
	// maxStalls before the driver gives up on numerical grounds.
	maxStalls = 4
)

// infeasibility returns the largest bound violation among the basic
// variables.
func (s *Solver) infeasibility() float64 {
	worst := 0.0
	for _, j := range s.header {
		if v := boundDist(s.x[j], s.lower[j], s.upper[j]); v > worst {
			worst = v
		}
	}
	return worst
}

// updatePhase1Cost rebuilds the composite infeasibility objective: the
// gradient is −1 for a basic variable below its lower bound, +1 above its
// upper bound, and 0 elsewhere.
func (s *Solver) updatePhase1Cost() {
	for j := range s.c1 {
		s.c1[j] = 0
	}
	tol := s.feasTol()
	for _, j := range s.header {
		switch {
		case s.x[j] < s.lower[j]-tol:
			s.c1[j] = -1
		case s.x[j] > s.upper[j]+tol:
			s.c1[j] = 1
		}
	}
}

// phaseObjective is the quantity whose decrease measures progress: the sum
// of infeasibilities in phase 1, the true objective in phase 2.
func (s *Solver) phaseObjective(ph phase) float64 {
	if ph == phase1 {
		sum := 0.0
		for _, j := range s.header {
			sum += boundDist(s.x[j], s.lower[j], s.upper[j])
		}
		return sum
	}
	obj := 0.0
	for j := 0; j < s.n; j++ {
		obj += s.cost[j] * s.x[j]
	}
	return obj
}

// checkStop is the per-iteration limit probe: terminate flags first, then
// the iteration and wall-time caps.
func (s *Solver) checkStop() lp.Status {
	if s.gate.poll() {
		return lp.UserTerminated
	}
	if s.iter >= s.maxIter {
		return lp.IterationLimit
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return lp.TimeLimit
	}
	return lp.NotTerminated
}

// ftranColumn computes w = B⁻¹·a_q for internal column q.
func (s *Solver) ftranColumn(q int, w []float64) {
	rhs := s.tmpM
	for i := range rhs {
		rhs[i] = 0
	}
	rows, vals := s.columnEntries(q)
	for k, i := range rows {
		rhs[i] = vals[k]
	}
	s.factor.ftran(w, rhs)
}

// runPhase iterates pricing, ratio test and pivot until the phase
// terminates. iterCap, when positive, additionally bounds the iterations
// spent inside this call (used for post-perturbation cleanup).
//
// The return status means: NotTerminated — phase 1 reached feasibility or
// iterCap ran out; Optimal — phase 2 converged; any other status is
// terminal for the whole solve.
func (s *Solver) runPhase(ph phase, iterCap int) (lp.Status, error) {
	s.curPhase = ph
	s.computeDuals()

	stallObj := s.phaseObjective(ph)
	lastStall := s.iter
	stalls := 0
	local := 0

	for {
		if st := s.checkStop(); st != lp.NotTerminated {
			return st, nil
		}
		if iterCap > 0 && local >= iterCap {
			return lp.NotTerminated, nil
		}

		if s.refactorPending || s.factor.etaLen() >= s.set.MaxEtaUpdates || s.work > s.workThreshold {
			if err := s.refactorize(); err != nil {
				s.errs.setRoot(err.Error())
				return lp.NumericBreakdown, err
			}
		}

		if ph == phase1 {
			if s.infeasibility() <= s.feasTol() {
				return lp.NotTerminated, nil
			}
			s.computeDuals()
		}

		q, ok := s.pricer.selectEnter(s)
		if !ok {
			// Nothing attractive, including the full-scan fallback. Confirm
			// on a fresh factorization before declaring the phase done.
			if s.factor.etaLen() > 0 {
				if err := s.refactorize(); err != nil {
					s.errs.setRoot(err.Error())
					return lp.NumericBreakdown, err
				}
				continue
			}
			if ph == phase1 {
				// Optimal under the infeasibility objective with residual
				// infeasibility: no feasible point exists.
				return lp.Infeasible, lp.ErrInfeasible
			}
			return lp.Optimal, nil
		}

		sigma := s.enterDirection(q)
		s.ftranColumn(q, s.wCol)
		rr := s.harrisRatio(q, sigma, s.wCol)
		if rr.unbounded {
			if ph == phase2 {
				return lp.Unbounded, lp.ErrUnbounded
			}
			// Phase 1 directions always block at a violated bound; an
			// unbounded ray here means the duals have decayed numerically.
			s.errs.setRoot("phase 1 produced an unblocked direction")
			return lp.NumericBreakdown, lp.ErrNumeric
		}

		err := s.applyStep(q, sigma, rr)
		if err != nil {
			if errors.Is(err, lp.ErrInfeasible) {
				return lp.Infeasible, err
			}
			// Recoverable numeric fault: refactor and retry the pivot once.
			if err = s.retryPivot(q); err != nil {
				if ph == phase2 && !s.perturbed {
					// One perturbation attempt before surrendering.
					s.perturbBounds()
					continue
				}
				s.errs.setRoot(err.Error())
				return lp.NumericBreakdown, err
			}
		}

		s.iter++
		local++
		s.stats.Iterations = s.iter
		if ph == phase1 {
			s.stats.Phase1Iterations++
		}

		if s.iter-lastStall >= stallWindow {
			obj := s.phaseObjective(ph)
			improve := stallObj - obj
			if improve < stallTol(stallObj) {
				stalls++
				s.logf(2, "stall detected", "phase", int(ph), "iter", s.iter, "objective", obj)
				if err := s.refactorize(); err != nil {
					s.errs.setRoot(err.Error())
					return lp.NumericBreakdown, err
				}
				if stalls >= 2 && ph == phase2 {
					s.perturbBounds()
				}
				if stalls >= maxStalls {
					s.errs.setRoot("no objective progress despite refactorization and perturbation")
					return lp.NumericBreakdown, lp.ErrNumeric
				}
			} else {
				stalls = 0
			}
			stallObj = obj
			lastStall = s.iter
		}
	}
}

func stallTol(obj float64) float64 {
	return 1e-9 * (1 + math.Abs(obj))
}

// applyStep dispatches a ratio-test outcome to the flip or pivot path.
func (s *Solver) applyStep(q int, sigma float64, rr ratioResult) error {
	if rr.flip {
		return s.applyFlip(q, sigma, s.wCol, rr.step)
	}
	return s.applyPivot(q, sigma, s.wCol, rr)
}

// retryPivot refactorizes and re-attempts the pivot for entering variable
// q from scratch. It is called after a pivot was refused on numeric
// grounds; a second refusal propagates.
func (s *Solver) retryPivot(q int) error {
	if err := s.refactorize(); err != nil {
		return err
	}
	if !s.attractive(q) {
		// The fresh duals no longer rate q as improving; let the next
		// pricing pass choose again.
		return nil
	}
	sigma := s.enterDirection(q)
	s.ftranColumn(q, s.wCol)
	rr := s.harrisRatio(q, sigma, s.wCol)
	if rr.unbounded {
		return lp.ErrNumeric
	}
	return s.applyStep(q, sigma, rr)
}
