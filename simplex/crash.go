// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import "math"

// crashBasis installs the all-logical starting basis: every row's slack is
// basic, every structural variable sits at its nearest finite bound, free
// variables at zero. The basis matrix is then the identity up to the slack
// signs, so the first factorization is trivial.
func (s *Solver) crashBasis() {
	for j := 0; j < s.ncol; j++ {
		s.row[j] = -1
	}
	for i := 0; i < s.m; i++ {
		jl := s.n + i
		s.header[i] = jl
		s.row[jl] = i
		s.status[jl] = basic
	}
	for j := 0; j < s.n; j++ {
		lo, hi := s.lower[j], s.upper[j]
		switch {
		case lo == hi:
			s.status[j] = atFixed
			s.x[j] = lo
		case !math.IsInf(lo, -1) && !math.IsInf(hi, 1):
			if math.Abs(lo) <= math.Abs(hi) {
				s.status[j] = atLower
				s.x[j] = lo
			} else {
				s.status[j] = atUpper
				s.x[j] = hi
			}
		case !math.IsInf(lo, -1):
			s.status[j] = atLower
			s.x[j] = lo
		case !math.IsInf(hi, 1):
			s.status[j] = atUpper
			s.x[j] = hi
		default:
			s.status[j] = atFree
			s.x[j] = 0
		}
	}
}
