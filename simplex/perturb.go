// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"
	"os"
	"time"

	"golang.org/x/exp/rand"
)

// cleanupIters bounds the iterations spent restoring exact feasibility
// after perturbations are removed.
const cleanupIters = 100

// perturbSeed derives the stream seed: the configured seed when
// nonnegative, otherwise a hash of the wall clock and the process id.
func (s *Solver) perturbSeed() uint64 {
	if s.set.Seed >= 0 {
		return uint64(s.set.Seed)
	}
	h := uint64(time.Now().UnixNano()) + uint64(os.Getpid())<<32
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// perturbBounds shifts the finite bounds of every non-fixed variable by a
// bounded draw |ξ_j| ≤ 10·feasTol (both bounds by the same draw), snaps the nonbasic values onto the shifted bounds and
// recomputes the basic values. The shift is deterministic for a fixed seed.
// Fixed variables keep their exact bound so equalities stay equalities.
func (s *Solver) perturbBounds() {
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.perturbSeed()))
	}
	scale := 10 * s.feasTol()
	for j := 0; j < s.ncol; j++ {
		if s.status[j] == atFixed || s.lower[j] == s.upper[j] {
			continue
		}
		// The increment is recorded before the working bounds move, so
		// repeated perturbations accumulate in both the bounds and ξ.
		xi := (2*s.rng.Float64() - 1) * scale
		s.xi[j] += xi
		if !math.IsInf(s.lower[j], -1) {
			s.lower[j] += xi
		}
		if !math.IsInf(s.upper[j], 1) {
			s.upper[j] += xi
		}
	}
	s.snapNonbasic()
	s.computeBasicValues()
	s.pricer.invalidate()
	s.perturbed = true
	s.stats.Perturbations++
	s.logf(2, "bounds perturbed", "scale", scale)
}

// unperturb restores the exact bounds and snaps the nonbasic variables
// back onto them. The caller runs a bounded cleanup afterwards if the
// restored basic values drifted out of feasibility.
func (s *Solver) unperturb() {
	if !s.perturbed {
		return
	}
	copy(s.lower, s.origLower)
	copy(s.upper, s.origUpper)
	for j := range s.xi {
		s.xi[j] = 0
	}
	s.snapNonbasic()
	s.computeBasicValues()
	s.pricer.invalidate()
	s.perturbed = false
}

// snapNonbasic places every nonbasic variable exactly on the bound its
// status names.
func (s *Solver) snapNonbasic() {
	for j, st := range s.status {
		switch st {
		case atLower, atFixed:
			s.x[j] = s.lower[j]
		case atUpper:
			s.x[j] = s.upper[j]
		case atFree:
			s.x[j] = 0
		}
	}
}
