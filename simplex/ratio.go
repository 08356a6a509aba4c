// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import "math"

// ratioResult is the outcome of the ratio test for one entering variable.
type ratioResult struct {
	unbounded bool
	// flip means the entering variable reaches its opposite bound before
	// any basic variable blocks; the basis is unchanged.
	flip bool
	// r is the leaving basis position when a basic variable blocks.
	r int
	// step is the nonnegative step length θ.
	step float64
	// pivot is the pivot column entry w[r].
	pivot float64
	// leaveAtUpper records which bound the leaving variable lands on.
	leaveAtUpper bool
}

// blockingTarget returns the bound that basic variable jb first crosses
// when moving in direction sign(delta), and whether that bound is finite.
// A variable outside its bounds blocks at the violated bound it is moving
// back toward, which is what lets phase 1 drive infeasibilities to zero.
func (s *Solver) blockingTarget(jb int, delta float64) (target float64, atUpper, ok bool) {
	lo, hi := s.lower[jb], s.upper[jb]
	if delta > 0 {
		if s.x[jb] < lo-s.feasTol() {
			return lo, false, true
		}
		return hi, true, !math.IsInf(hi, 1)
	}
	if s.x[jb] > hi+s.feasTol() {
		return hi, true, true
	}
	return lo, false, !math.IsInf(lo, -1)
}

// harrisRatio selects the leaving variable for entering variable q moving
// in direction sigma with pivot column w = B⁻¹·a_q. Pass 1 scans at a
// relaxed threshold for the minimum blocking step; pass 2 re-scans the
// candidates within the feasibility tolerance of that minimum and keeps
// the one with the largest pivot magnitude.
func (s *Solver) harrisRatio(q int, sigma float64, w []float64) ratioResult {
	feasTol := s.feasTol()
	tau := 10 * feasTol

	// The entering variable's own opposite bound caps the step.
	span := math.Inf(1)
	if st := s.status[q]; st == atLower || st == atUpper {
		if lo, hi := s.lower[q], s.upper[q]; !math.IsInf(lo, -1) && !math.IsInf(hi, 1) {
			span = hi - lo
		}
	}

	// Pass 1: minimum step under the relaxed threshold. Slightly negative
	// ratios are kept to tolerate infeasibility noise.
	thetaMin := math.Inf(1)
	any := false
	for i := 0; i < s.m; i++ {
		delta := -sigma * w[i]
		if math.Abs(delta) <= tau {
			continue
		}
		target, _, ok := s.blockingTarget(s.header[i], delta)
		if !ok {
			continue
		}
		theta := (target - s.x[s.header[i]]) / delta
		if theta < -feasTol {
			continue
		}
		any = true
		if theta < thetaMin {
			thetaMin = theta
		}
	}

	if !any {
		if math.IsInf(span, 1) {
			return ratioResult{unbounded: true}
		}
		return ratioResult{flip: true, r: -1, step: span}
	}
	if span <= thetaMin {
		return ratioResult{flip: true, r: -1, step: span}
	}

	// Pass 2: among the near-minimal ratios, maximize the pivot magnitude.
	// With a degenerate θ_min of zero this still picks the largest pivot
	// among the degenerate candidates.
	best, bestMag := -1, 0.0
	var bestTheta float64
	var bestUpper bool
	for i := 0; i < s.m; i++ {
		delta := -sigma * w[i]
		if math.Abs(delta) <= tau {
			continue
		}
		target, atUpper, ok := s.blockingTarget(s.header[i], delta)
		if !ok {
			continue
		}
		theta := (target - s.x[s.header[i]]) / delta
		if theta < -feasTol || theta > thetaMin+feasTol {
			continue
		}
		if mag := math.Abs(delta); mag > bestMag {
			best, bestMag = i, mag
			bestTheta = theta
			bestUpper = atUpper
		}
	}

	step := bestTheta
	if step < 0 {
		step = 0
	}
	return ratioResult{
		r:            best,
		step:         step,
		pivot:        w[best],
		leaveAtUpper: bestUpper,
	}
}
