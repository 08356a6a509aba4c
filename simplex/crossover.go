// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"fmt"
	"math"

	"github.com/feldspar-lp/feldspar/lp"
)

const (
	// tinyTol is the movement threshold below which a snapped variable is
	// simply assigned its bound.
	tinyTol = 1e-10
	// maxPushIters caps the superbasic push loop; leftovers are forced to
	// their chosen bound and any residual infeasibility is left to phase 1.
	maxPushIters = 1000
)

// crossoverFrom seeds the solver from an interior-point primal x0 (and
// optional duals pi0), producing a basis with exactly m basic variables and
// everything else on a bound: bounds are snapped in two passes, a basis is
// constructed from slacks and superbasics, and the remaining superbasics
// are pushed to bounds with ratio-tested steps.
func (s *Solver) crossoverFrom(x0, pi0 []float64) error {
	if len(x0) != s.n {
		return fmt.Errorf("%w: interior point has length %d, want %d", lp.ErrInvalidInput, len(x0), s.n)
	}
	if pi0 != nil && len(pi0) != s.m {
		return fmt.Errorf("%w: dual point has length %d, want %d", lp.ErrInvalidInput, len(pi0), s.m)
	}
	if err := noNaN(x0); err != nil {
		return err
	}

	copy(s.x[:s.n], x0)
	if pi0 != nil {
		copy(s.pi, pi0)
	}
	// Row activities determine the logical values.
	act := s.tmpM
	s.a.MulVec(act, x0)
	for i := 0; i < s.m; i++ {
		s.x[s.n+i] = s.rhs[i] - act[i]
	}

	s.snapClassify()
	if err := s.snapMove(); err != nil {
		return err
	}
	s.buildCrossoverBasis()

	if err := s.refactorize(); err != nil {
		// A degenerate superbasic selection can be singular; the all-slack
		// basis is always factorizable and phase 1 recovers from it.
		s.logf(1, "crossover basis singular, falling back to slack basis")
		s.crashBasis()
		if err := s.refactorize(); err != nil {
			return err
		}
	}
	return s.pushSuperbasics()
}

// snapClassify is the first bound-snap pass: statuses only, no movement.
func (s *Solver) snapClassify() {
	snapTol := s.feasTol()
	for j := 0; j < s.ncol; j++ {
		lo, hi := s.lower[j], s.upper[j]
		x := s.x[j]
		switch {
		case lo == hi:
			s.status[j] = atFixed
		case math.IsInf(lo, -1) && math.IsInf(hi, 1):
			// Free variables are natural basis candidates; they are held
			// superbasic until basis construction places them.
			s.status[j] = superbasic
		case x-lo < snapTol:
			s.status[j] = atLower
		case hi-x < snapTol:
			s.status[j] = atUpper
		default:
			s.status[j] = superbasic
		}
		s.row[j] = -1
	}
}

// snapMove is the second bound-snap pass: every variable classified onto a
// bound but still away from it is moved there through the bound-move path.
// Any error aborts immediately.
func (s *Solver) snapMove() error {
	for j := 0; j < s.ncol; j++ {
		var target float64
		switch s.status[j] {
		case atLower, atFixed:
			target = s.lower[j]
		case atUpper:
			target = s.upper[j]
		default:
			continue
		}
		if math.Abs(s.x[j]-target) <= tinyTol {
			s.x[j] = target
			continue
		}
		if err := s.boundMove(j, target); err != nil {
			return err
		}
	}
	return nil
}

// boundMove shifts nonbasic variable j to target before a basis exists,
// absorbing the change into the row activities through the logical values.
func (s *Solver) boundMove(j int, target float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fmt.Errorf("%w: bound move of variable %d to non-finite target", lp.ErrInvalidInput, j)
	}
	delta := target - s.x[j]
	if delta == 0 {
		return nil
	}
	if j < s.n {
		rows, vals := s.a.Column(j)
		for k, i := range rows {
			s.x[s.n+i] -= vals[k] * delta
		}
	}
	s.x[j] = target
	return nil
}

// buildCrossoverBasis fills the basis header: slacks for inequality rows,
// superbasic columns for equality rows, and remaining superbasics or the
// row's own slack (as an artificial) for anything still empty.
func (s *Solver) buildCrossoverBasis() {
	senses := s.model.Senses()
	for i := 0; i < s.m; i++ {
		s.header[i] = -1
	}
	for i := 0; i < s.m; i++ {
		if senses[i] == lp.EQ {
			continue
		}
		s.place(i, s.n+i)
	}
	for i := 0; i < s.m; i++ {
		if s.header[i] >= 0 {
			continue
		}
		cols, _ := s.a.Row(i)
		for _, j := range cols {
			if s.status[j] == superbasic && s.row[j] < 0 {
				s.place(i, j)
				break
			}
		}
	}
	next := 0
	for i := 0; i < s.m; i++ {
		if s.header[i] >= 0 {
			continue
		}
		for ; next < s.ncol; next++ {
			if s.status[next] == superbasic && s.row[next] < 0 {
				break
			}
		}
		if next < s.ncol {
			s.place(i, next)
			continue
		}
		// No superbasic left: the row's slack serves as an artificial even
		// when fixed at zero; phase 1 prices it out.
		s.place(i, s.n+i)
	}
}

func (s *Solver) place(i, j int) {
	s.header[i] = j
	s.row[j] = i
	s.status[j] = basic
}

// pushSuperbasics drives each remaining superbasic variable to its nearer
// bound: either it jumps all the way (no basis change) or a ratio-tested
// pivot brings it into the basis. Leftovers beyond the push cap are forced
// onto the bound, accepting residual infeasibility for phase 1 to clean.
func (s *Solver) pushSuperbasics() error {
	pushes := 0
	for j := 0; j < s.ncol; j++ {
		if s.status[j] != superbasic {
			continue
		}
		if s.gate.poll() {
			return nil
		}
		target, st := s.nearerBound(j)
		delta := target - s.x[j]
		if math.Abs(delta) <= tinyTol {
			s.x[j] = target
			s.status[j] = st
			continue
		}
		if pushes >= maxPushIters {
			s.forceToBound(j, target, st)
			continue
		}
		pushes++

		sigma := 1.0
		if delta < 0 {
			sigma = -1
		}
		s.ftranColumn(j, s.wCol)
		rr := s.harrisRatio(j, sigma, s.wCol)
		if rr.unbounded || rr.flip || rr.step >= math.Abs(delta) {
			// The full move fits before any basic blocks.
			for i := 0; i < s.m; i++ {
				if s.wCol[i] == 0 {
					continue
				}
				s.x[s.header[i]] -= sigma * math.Abs(delta) * s.wCol[i]
			}
			s.x[j] = target
			s.status[j] = st
			continue
		}
		if err := s.applyPivot(j, sigma, s.wCol, rr); err != nil {
			if rerr := s.retryPivot(j); rerr != nil {
				return rerr
			}
		}
	}
	return nil
}

func (s *Solver) nearerBound(j int) (float64, varStatus) {
	lo, hi := s.lower[j], s.upper[j]
	switch {
	case math.IsInf(lo, -1) && math.IsInf(hi, 1):
		return 0, atFree
	case math.IsInf(lo, -1):
		return hi, atUpper
	case math.IsInf(hi, 1):
		return lo, atLower
	case s.x[j]-lo <= hi-s.x[j]:
		return lo, atLower
	default:
		return hi, atUpper
	}
}

func (s *Solver) forceToBound(j int, target float64, st varStatus) {
	// Forced moves skip the ratio test; the basics absorb the shift and may
	// leave their bounds, which phase 1 repairs.
	delta := target - s.x[j]
	s.ftranColumn(j, s.wCol)
	for i := 0; i < s.m; i++ {
		if s.wCol[i] == 0 {
			continue
		}
		s.x[s.header[i]] -= delta * s.wCol[i]
	}
	s.x[j] = target
	s.status[j] = st
}
