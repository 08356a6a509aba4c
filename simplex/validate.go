// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"fmt"
	"math"

	"github.com/feldspar-lp/feldspar/lp"
)

// finiteArray returns nil if every element of v is finite, and otherwise an
// InvalidInput error naming the first offending position.
func finiteArray(v []float64) error {
	for i, e := range v {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return fmt.Errorf("%w: non-finite value %g at index %d", lp.ErrInvalidInput, e, i)
		}
	}
	return nil
}

// noNaN returns nil if no element of v is NaN. Infinities are accepted.
func noNaN(v []float64) error {
	for i, e := range v {
		if math.IsNaN(e) {
			return fmt.Errorf("%w: NaN at index %d", lp.ErrInvalidInput, i)
		}
	}
	return nil
}

// pivotOK reports whether a is a usable pivot at tolerance tol.
func pivotOK(a, tol float64) bool {
	return !math.IsNaN(a) && math.Abs(a) >= tol
}

// impliedBounds tightens the working bounds of variable j by propagating
// every row that mentions it. For each such row, the activity range of the
// remaining variables (including the row's logical) brackets what a_ij·x_j
// may be; intersecting over rows yields the implied interval. A returned
// lo > hi signals that no feasible value for j exists. The result is used
// before a bound flip so the flip can never make the program infeasible.
func (s *Solver) impliedBounds(j int) (lo, hi float64) {
	lo, hi = s.lower[j], s.upper[j]
	if j >= s.n {
		// Logical columns appear in exactly their own row; nothing beyond
		// the row itself constrains them more tightly than their bounds.
		return lo, hi
	}
	rows, vals := s.a.Column(j)
	for t, i := range rows {
		aij := vals[t]
		if aij == 0 {
			continue
		}
		sumLo, sumHi := s.rowActivityRange(i, j)
		// a_ij·x_j = b_i − rest, so x_j ranges over
		// (b_i − sumHi)/a_ij .. (b_i − sumLo)/a_ij, order by sign.
		rlo := (s.rhs[i] - sumHi) / aij
		rhi := (s.rhs[i] - sumLo) / aij
		if aij < 0 {
			rlo, rhi = rhi, rlo
		}
		if rlo > lo {
			lo = rlo
		}
		if rhi < hi {
			hi = rhi
		}
	}
	return lo, hi
}

// rowActivityRange brackets Σ_{k≠skip} a_ik·x_k + s_i over the working
// bounds of the participating variables.
func (s *Solver) rowActivityRange(i, skip int) (sumLo, sumHi float64) {
	cols, vals := s.a.Row(i)
	for t, k := range cols {
		if k == skip {
			continue
		}
		a := vals[t]
		if a == 0 {
			continue
		}
		lo, hi := s.lower[k], s.upper[k]
		if a >= 0 {
			sumLo += a * lo
			sumHi += a * hi
		} else {
			sumLo += a * hi
			sumHi += a * lo
		}
	}
	// The row's logical variable.
	sl := s.n + i
	sumLo += s.lower[sl]
	sumHi += s.upper[sl]
	return sumLo, sumHi
}
