// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"fmt"

	"github.com/feldspar-lp/feldspar/lp"
	"github.com/feldspar-lp/feldspar/sparse"
)

// residual computes r = b − A·x − s into out, the defect of the internal
// equality system including the logical columns.
func (s *Solver) residual(out []float64) {
	copy(out, s.rhs)
	for j := 0; j < s.ncol; j++ {
		xj := s.x[j]
		if xj == 0 {
			continue
		}
		rows, vals := s.columnEntries(j)
		for k, i := range rows {
			out[i] -= vals[k] * xj
		}
	}
}

// refine runs iterative refinement on the basic values: solve B·d = r and
// apply x_B ← x_B + d until the residual norm is below the refinement
// tolerance or the pass limit is reached. A residual that stops shrinking
// is a numerical failure.
func (s *Solver) refine() error {
	res := s.tmpM
	dvec := s.tmpM2
	prev := 0.0
	for pass := 0; pass < s.set.RefineIters; pass++ {
		s.residual(res)
		norm := sparse.InfNorm(res)
		if norm <= s.set.RefineTol {
			return nil
		}
		if pass > 0 && norm > 0.5*prev {
			s.errs.setRoot(fmt.Sprintf("refinement residual %.3e did not shrink from %.3e", norm, prev))
			return lp.ErrNumeric
		}
		prev = norm
		s.factor.ftran(dvec, res)
		for r, j := range s.header {
			s.x[j] += dvec[r]
		}
		s.logf(2, "refinement pass", "pass", pass, "residual", norm)
	}
	return nil
}
