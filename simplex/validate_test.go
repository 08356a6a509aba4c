// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"
	"strings"
	"testing"

	"github.com/feldspar-lp/feldspar/lp"
)

func TestFiniteArray(t *testing.T) {
	if err := finiteArray([]float64{1, -2, 0}); err != nil {
		t.Errorf("finite slice rejected: %v", err)
	}
	err := finiteArray([]float64{1, math.NaN(), 0})
	if err == nil {
		t.Fatal("NaN accepted")
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error %q lacks the position hint", err)
	}
	if err := finiteArray([]float64{math.Inf(1)}); err == nil {
		t.Error("Inf accepted by finiteArray")
	}
}

func TestNoNaN(t *testing.T) {
	if err := noNaN([]float64{1, math.Inf(1), math.Inf(-1)}); err != nil {
		t.Errorf("infinities rejected by noNaN: %v", err)
	}
	if err := noNaN([]float64{0, math.NaN()}); err == nil {
		t.Error("NaN accepted by noNaN")
	}
}

func TestPivotOK(t *testing.T) {
	if !pivotOK(1e-3, 1e-10) {
		t.Error("sound pivot rejected")
	}
	if pivotOK(1e-12, 1e-10) {
		t.Error("sub-floor pivot accepted")
	}
	if pivotOK(math.NaN(), 1e-10) {
		t.Error("NaN pivot accepted")
	}
}

func TestImpliedBounds(t *testing.T) {
	// x + y ≤ 4 with y ≥ 0 implies x ≤ 4.
	p := lp.New()
	x := p.AddVariable(0, 0, lp.Inf)
	y := p.AddVariable(0, 0, lp.Inf)
	p.AddConstraint(lp.LE, 4, []int{x, y}, []float64{1, 1})
	s, err := New(p, testSettings())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lo, hi := s.impliedBounds(x)
	if lo != 0 {
		t.Errorf("implied lower = %v, want 0", lo)
	}
	if hi != 4 {
		t.Errorf("implied upper = %v, want 4", hi)
	}
}

func TestImpliedBoundsInfeasible(t *testing.T) {
	// x = 5 forced by an equality while x ≤ 3 by its own bound: the
	// implied interval is empty.
	p := lp.New()
	x := p.AddVariable(0, 0, 3)
	p.AddConstraint(lp.EQ, 5, []int{x}, []float64{1})
	s, err := New(p, testSettings())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lo, hi := s.impliedBounds(x)
	if lo <= hi {
		t.Errorf("implied interval [%v, %v] not empty", lo, hi)
	}
}
