// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"
	"testing"

	"github.com/feldspar-lp/feldspar/lp"
)

// ratioFixture builds a 2-row solver with the slack basis factorized, so
// the pivot column equals the entering column and the ratio test can be
// exercised directly.
func ratioFixture(t *testing.T) *Solver {
	t.Helper()
	p := lp.New()
	x := p.AddVariable(-1, 0, 5)
	y := p.AddVariable(-1, 0, lp.Inf)
	p.AddConstraint(lp.LE, 4, []int{x, y}, []float64{1, 1})
	p.AddConstraint(lp.LE, 9, []int{x, y}, []float64{1, 3})
	s, err := New(p, testSettings())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.crashBasis()
	if err := s.refactorize(); err != nil {
		t.Fatalf("refactorize: %v", err)
	}
	return s
}

func TestHarrisRatioBasicBlocks(t *testing.T) {
	s := ratioFixture(t)
	// Entering y upward: slack 1 blocks at 4/1, slack 2 at 9/3 = 3.
	s.ftranColumn(1, s.wCol)
	rr := s.harrisRatio(1, 1, s.wCol)
	if rr.unbounded || rr.flip {
		t.Fatalf("unexpected outcome %+v", rr)
	}
	if rr.r != 1 {
		t.Errorf("leaving row = %d, want 1", rr.r)
	}
	if math.Abs(rr.step-3) > 1e-12 {
		t.Errorf("step = %v, want 3", rr.step)
	}
	if rr.pivot != 3 {
		t.Errorf("pivot = %v, want 3", rr.pivot)
	}
}

func TestHarrisRatioBoundFlip(t *testing.T) {
	s := ratioFixture(t)
	// Shrink x's span so its own opposite bound binds before any basic:
	// x ∈ [0, 2] while the slacks allow steps of 4 and 9.
	s.upper[0] = 2
	s.ftranColumn(0, s.wCol)
	rr := s.harrisRatio(0, 1, s.wCol)
	if !rr.flip {
		t.Fatalf("outcome %+v, want bound flip", rr)
	}
	if math.Abs(rr.step-2) > 1e-12 {
		t.Errorf("flip step = %v, want 2", rr.step)
	}
}

func TestHarrisRatioUnbounded(t *testing.T) {
	s := ratioFixture(t)
	// An all-zero pivot column: no basic variable moves when y enters
	// upward, and y has no finite upper bound, so nothing blocks.
	for i := range s.wCol {
		s.wCol[i] = 0
	}
	rr := s.harrisRatio(1, 1, s.wCol)
	if !rr.unbounded {
		t.Fatalf("outcome %+v, want unbounded for all-zero pivot column", rr)
	}
}

func TestHarrisRatioDegeneratePrefersLargePivot(t *testing.T) {
	s := ratioFixture(t)
	// Both slacks start exactly at zero step for the entering column when
	// the right-hand sides are zeroed: the second pass must still choose
	// the larger pivot magnitude.
	s.x[s.n] = 0   // slack 1 value
	s.x[s.n+1] = 0 // slack 2 value
	s.ftranColumn(1, s.wCol) // column (1, 3)
	rr := s.harrisRatio(1, 1, s.wCol)
	if rr.unbounded || rr.flip {
		t.Fatalf("unexpected outcome %+v", rr)
	}
	if rr.step != 0 {
		t.Errorf("degenerate step = %v, want 0", rr.step)
	}
	if rr.r != 1 || math.Abs(rr.pivot) != 3 {
		t.Errorf("degenerate pivot row %d (|α| = %v), want row 1 (|α| = 3)", rr.r, math.Abs(rr.pivot))
	}
}

func TestBlockingTargetInfeasibleSide(t *testing.T) {
	s := ratioFixture(t)
	// A basic variable above its upper bound moving down blocks at that
	// upper bound, restoring feasibility.
	jb := s.n // slack 1, bounds [0, ∞)
	s.upper[jb] = 1
	s.x[jb] = 3
	target, atUp, ok := s.blockingTarget(jb, -1)
	if !ok || !atUp || target != 1 {
		t.Errorf("blockingTarget = (%v, %v, %v), want (1, true, true)", target, atUp, ok)
	}
	// A variable below its lower bound moving up blocks at that lower
	// bound for the same reason.
	s.x[jb] = -2
	target, atUp, ok = s.blockingTarget(jb, 1)
	if !ok || atUp || target != 0 {
		t.Errorf("blockingTarget = (%v, %v, %v), want (0, false, true)", target, atUp, ok)
	}
}
