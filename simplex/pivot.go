// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"fmt"
	"math"

	"github.com/feldspar-lp/feldspar/lp"
)

// pivotCtx carries what the pricing update needs to know about an applied
// pivot. For a bound flip r is −1 and only q is meaningful.
type pivotCtx struct {
	q     int // entering variable
	r     int // leaving basis position
	leave int // leaving variable
	pivot float64
	dq    float64 // reduced cost of q before the pivot

	w       []float64 // pivot column B⁻¹·a_q
	beta    []float64 // BTRAN(e_r)
	aRow    []float64 // pivot row over all columns
	btranW  []float64 // BTRAN(w), steepest edge only
	ftranER []float64 // FTRAN(e_r), steepest edge only
}

// applyFlip moves entering variable q across to its opposite bound without
// a basis change. The implied-bound check runs first so the flip cannot
// create an infeasible program.
func (s *Solver) applyFlip(q int, sigma float64, w []float64, step float64) error {
	lo, hi := s.impliedBounds(q)
	if lo > hi+s.feasTol() {
		s.errs.setRoot(fmt.Sprintf("bound flip of variable %d implies empty domain [%g, %g]", q, lo, hi))
		return lp.ErrInfeasible
	}

	for i := 0; i < s.m; i++ {
		if w[i] == 0 {
			continue
		}
		jb := s.header[i]
		s.x[jb] -= sigma * step * w[i]
	}
	if sigma > 0 {
		s.x[q] = s.upper[q]
		s.status[q] = atUpper
	} else {
		s.x[q] = s.lower[q]
		s.status[q] = atLower
	}
	s.stats.BoundFlips++
	s.work += float64(nnz(w))
	// Reduced costs and edge weights are unchanged by a flip, but cached
	// candidate lists refer to the old partition. A ctx with r = −1 tells
	// the pricer exactly that.
	s.pricer.update(s, &pivotCtx{q: q, r: -1})
	return nil
}

// applyPivot executes the basis change for entering variable q at basis
// row rr.r: primal update, header swap, eta append, dual and pricing
// updates, and the work-counter bump. A pivot below the guard magnitude
// schedules a refactorization before the next iteration.
func (s *Solver) applyPivot(q int, sigma float64, w []float64, rr ratioResult) error {
	r := rr.r
	leave := s.header[r]
	step := rr.step

	ctx := pivotCtx{
		q:     q,
		r:     r,
		leave: leave,
		pivot: rr.pivot,
		dq:    s.d[q],
		w:     w,
	}

	// The pivot row and the dual direction come from the outgoing basis,
	// so they must be formed before the eta is appended.
	for i := range s.beta {
		s.beta[i] = 0
	}
	er := s.tmpM2
	for i := range er {
		er[i] = 0
	}
	er[r] = 1
	s.factor.btran(s.beta, er)
	s.a.MulVecT(s.aRow[:s.n], s.beta)
	for i := 0; i < s.m; i++ {
		s.aRow[s.n+i] = s.beta[i]
	}
	ctx.beta = s.beta
	ctx.aRow = s.aRow

	if s.pricer.needsRho() {
		ctx.btranW = make([]float64, s.m)
		s.factor.btran(ctx.btranW, w)
		ctx.ftranER = make([]float64, s.m)
		er[r] = 1
		s.factor.ftran(ctx.ftranER, er)
	}

	// Primal update: basics move against the entering direction, the
	// leaving variable lands exactly on its blocking bound.
	for i := 0; i < s.m; i++ {
		if w[i] == 0 || i == r {
			continue
		}
		jb := s.header[i]
		s.x[jb] -= sigma * step * w[i]
	}
	s.x[q] += sigma * step

	if s.lower[leave] == s.upper[leave] {
		s.status[leave] = atFixed
		s.x[leave] = s.lower[leave]
	} else if rr.leaveAtUpper {
		s.status[leave] = atUpper
		s.x[leave] = s.upper[leave]
	} else {
		s.status[leave] = atLower
		s.x[leave] = s.lower[leave]
	}
	s.row[leave] = -1
	s.header[r] = q
	s.row[q] = r
	s.status[q] = basic

	if err := s.factor.pushEta(r, w, s.iter); err != nil {
		return err
	}
	if math.Abs(rr.pivot) < s.pivotGuard() {
		s.refactorPending = true
	}

	// Dual update: d_j ← d_j − (d_q/α_r)·α^r_j for the nonbasic columns;
	// the leaving variable picks up −d_q/α_r, the entering one drops to 0.
	ratio := ctx.dq / rr.pivot
	for j := 0; j < s.ncol; j++ {
		if s.status[j] == basic {
			continue
		}
		if arj := s.aRow[j]; arj != 0 {
			s.d[j] -= ratio * arj
		}
	}
	s.d[q] = 0

	s.pricer.update(s, &ctx)
	s.work += float64(nnz(w) + nnz(s.aRow))
	return nil
}

func nnz(v []float64) int {
	n := 0
	for _, e := range v {
		if e != 0 {
			n++
		}
	}
	return n
}
