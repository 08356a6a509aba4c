// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/feldspar-lp/feldspar/lp"
)

func testSettings() *lp.Settings {
	set := lp.DefaultSettings()
	set.Seed = 1
	set.Verbose = 0
	return set
}

func solveChecked(t *testing.T, model *lp.LP, set *lp.Settings) (*Solver, *lp.Result) {
	t.Helper()
	if set == nil {
		set = testSettings()
	}
	s, err := New(model, set)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, _ := s.Solve()
	if res.Status == lp.Optimal && model.NumConstraints() > 0 {
		if err := s.checkBasis(); err != nil {
			t.Errorf("basis invariant violated after solve: %v", err)
		}
	}
	return s, res
}

func TestTrivialSingleVariable(t *testing.T) {
	// min x, x ≥ 0, no constraints.
	p := lp.New()
	p.AddVariable(1, 0, lp.Inf)
	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if res.Obj != 0 || res.X[0] != 0 {
		t.Errorf("got obj %v, x %v; want 0, [0]", res.Obj, res.X)
	}
}

func TestTwoByTwoFeasible(t *testing.T) {
	// min x₁+x₂ s.t. x₁+x₂ ≥ 1, x ≥ 0. Either unit vertex is optimal and
	// the dual is π = [1].
	p := lp.New()
	x1 := p.AddVariable(1, 0, lp.Inf)
	x2 := p.AddVariable(1, 0, lp.Inf)
	p.AddConstraint(lp.GE, 1, []int{x1, x2}, []float64{1, 1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if math.Abs(res.Obj-1) > 1e-8 {
		t.Errorf("obj = %v, want 1", res.Obj)
	}
	atVertex := floats.EqualApprox(res.X, []float64{1, 0}, 1e-8) ||
		floats.EqualApprox(res.X, []float64{0, 1}, 1e-8)
	if !atVertex {
		t.Errorf("x = %v, want a unit vertex", res.X)
	}
	if math.Abs(res.Dual[0]-1) > 1e-8 {
		t.Errorf("dual = %v, want [1]", res.Dual)
	}
}

func TestSingleEqualityConvergesQuickly(t *testing.T) {
	// n=1 with one equality: at most two pivots.
	p := lp.New()
	x := p.AddVariable(1, 0, 10)
	p.AddConstraint(lp.EQ, 5, []int{x}, []float64{1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if math.Abs(res.X[0]-5) > 1e-8 || math.Abs(res.Obj-5) > 1e-8 {
		t.Errorf("x = %v, obj = %v; want 5, 5", res.X, res.Obj)
	}
	if res.Iterations > 2 {
		t.Errorf("took %d iterations, want ≤ 2", res.Iterations)
	}
}

func TestInfeasible(t *testing.T) {
	// min 0 s.t. x ≤ −1, x ≥ 0.
	p := lp.New()
	x := p.AddVariable(0, 0, lp.Inf)
	p.AddConstraint(lp.LE, -1, []int{x}, []float64{1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Infeasible {
		t.Fatalf("status = %v, want Infeasible", res.Status)
	}
}

func TestUnboundedNoConstraints(t *testing.T) {
	// min −x, x ≥ 0: the bound column alone carries the ray.
	p := lp.New()
	p.AddVariable(-1, 0, lp.Inf)
	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Unbounded {
		t.Fatalf("status = %v, want Unbounded", res.Status)
	}
}

func TestUnboundedRay(t *testing.T) {
	// min −x with x absent from the only row: the first pricing choice
	// yields an all-zero pivot column.
	p := lp.New()
	p.AddVariable(-1, 0, lp.Inf)
	y := p.AddVariable(0, 0, lp.Inf)
	p.AddConstraint(lp.LE, 1, []int{y}, []float64{1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Unbounded {
		t.Fatalf("status = %v, want Unbounded", res.Status)
	}
}

func TestEmptyModel(t *testing.T) {
	p := lp.New()
	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal || res.Obj != 0 {
		t.Errorf("status = %v, obj = %v; want Optimal, 0", res.Status, res.Obj)
	}
}

func TestNoVariables(t *testing.T) {
	// m > 0, n = 0: feasibility of the slacks decides.
	feas := lp.New()
	feas.AddConstraint(lp.LE, 1, nil, nil)
	_, res := solveChecked(t, feas, nil)
	if res.Status != lp.Optimal || res.Obj != 0 {
		t.Errorf("feasible empty: status = %v, obj = %v; want Optimal, 0", res.Status, res.Obj)
	}

	infeas := lp.New()
	infeas.AddConstraint(lp.GE, 1, nil, nil)
	_, res = solveChecked(t, infeas, nil)
	if res.Status != lp.Infeasible {
		t.Errorf("infeasible empty: status = %v, want Infeasible", res.Status)
	}
}

// productMix is max 3x+5y s.t. x ≤ 4, 2y ≤ 12, 3x+2y ≤ 18, x,y ≥ 0, in
// minimization form. The optimum is (2, 6) with value −36.
func productMix() *lp.LP {
	p := lp.New()
	x := p.AddVariable(-3, 0, lp.Inf)
	y := p.AddVariable(-5, 0, lp.Inf)
	p.AddConstraint(lp.LE, 4, []int{x}, []float64{1})
	p.AddConstraint(lp.LE, 12, []int{y}, []float64{2})
	p.AddConstraint(lp.LE, 18, []int{x, y}, []float64{3, 2})
	return p
}

func TestProductMix(t *testing.T) {
	_, res := solveChecked(t, productMix(), nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if math.Abs(res.Obj+36) > 1e-7 {
		t.Errorf("obj = %v, want -36", res.Obj)
	}
	if !floats.EqualApprox(res.X, []float64{2, 6}, 1e-7) {
		t.Errorf("x = %v, want [2 6]", res.X)
	}
}

func TestPricingStrategiesAgree(t *testing.T) {
	for _, pricing := range []lp.Pricing{
		lp.PricingAuto, lp.PricingPartial, lp.PricingSteepestEdge,
		lp.PricingDevex, lp.PricingDantzig,
	} {
		set := testSettings()
		set.Pricing = pricing
		_, res := solveChecked(t, productMix(), set)
		if res.Status != lp.Optimal {
			t.Errorf("pricing %d: status = %v, want Optimal", pricing, res.Status)
			continue
		}
		if math.Abs(res.Obj+36) > 1e-7 {
			t.Errorf("pricing %d: obj = %v, want -36", pricing, res.Obj)
		}
	}
}

func TestBealeDegenerate(t *testing.T) {
	// Beale's cycling example; the perturbation must engage and the
	// optimum is −1/20.
	p := lp.New()
	x1 := p.AddVariable(-0.75, 0, lp.Inf)
	x2 := p.AddVariable(150, 0, lp.Inf)
	x3 := p.AddVariable(-0.02, 0, lp.Inf)
	x4 := p.AddVariable(6, 0, lp.Inf)
	p.AddConstraint(lp.LE, 0, []int{x1, x2, x3, x4}, []float64{0.25, -60, -0.04, 9})
	p.AddConstraint(lp.LE, 0, []int{x1, x2, x3, x4}, []float64{0.5, -90, -0.02, 3})
	p.AddConstraint(lp.LE, 1, []int{x3}, []float64{1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if math.Abs(res.Obj+0.05) > 1e-6 {
		t.Errorf("obj = %v, want -0.05", res.Obj)
	}
	if res.Perturbations < 1 {
		t.Errorf("perturbations = %d, want ≥ 1", res.Perturbations)
	}
}

func TestTotallyDegenerate(t *testing.T) {
	// All right-hand sides zero: the slack basis is feasible, so phase 1
	// finishes without a pivot, and phase 2 must break the stall.
	p := lp.New()
	x := p.AddVariable(-1, 0, 10)
	y := p.AddVariable(0, 0, 10)
	p.AddConstraint(lp.LE, 0, []int{x, y}, []float64{1, -1})
	p.AddConstraint(lp.LE, 0, []int{x, y}, []float64{1, 1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if res.Phase1Iterations != 0 {
		t.Errorf("phase 1 took %d iterations, want 0", res.Phase1Iterations)
	}
	if math.Abs(res.Obj) > 1e-6 {
		t.Errorf("obj = %v, want 0", res.Obj)
	}
}

func TestBoundedVariables(t *testing.T) {
	// min −x−y s.t. x+y ≤ 3, x ∈ [0,2], y ∈ [0,2]: optimum uses a bound
	// flip territory with x+y on the row bound.
	p := lp.New()
	x := p.AddVariable(-1, 0, 2)
	y := p.AddVariable(-1, 0, 2)
	p.AddConstraint(lp.LE, 3, []int{x, y}, []float64{1, 1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if math.Abs(res.Obj+3) > 1e-7 {
		t.Errorf("obj = %v, want -3", res.Obj)
	}
	if math.Abs(res.X[0]+res.X[1]-3) > 1e-7 {
		t.Errorf("x = %v, want to exhaust the row", res.X)
	}
}

func TestFreeVariable(t *testing.T) {
	// min x with x free s.t. x ≥ −7 (as a row): optimum −7.
	p := lp.New()
	x := p.AddVariable(1, -lp.Inf, lp.Inf)
	p.AddConstraint(lp.GE, -7, []int{x}, []float64{1})

	_, res := solveChecked(t, p, nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	if math.Abs(res.X[0]+7) > 1e-7 {
		t.Errorf("x = %v, want -7", res.X)
	}
}

func TestIterationLimit(t *testing.T) {
	set := testSettings()
	set.MaxIter = 1
	s, err := New(productMix(), set)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, _ := s.Solve()
	if res.Status != lp.IterationLimit {
		t.Fatalf("status = %v, want IterationLimit", res.Status)
	}
	// Partial results reflect the last completed pivot.
	if len(res.X) != 2 || len(res.Dual) != 3 {
		t.Errorf("partial result shapes: x %d, dual %d", len(res.X), len(res.Dual))
	}
}

func TestTimeLimit(t *testing.T) {
	set := testSettings()
	set.TimeLimit = 1 // one nanosecond
	_, res := solveChecked(t, productMix(), set)
	if res.Status != lp.TimeLimit {
		t.Fatalf("status = %v, want TimeLimit", res.Status)
	}
}

func TestPreOptimizeStops(t *testing.T) {
	set := testSettings()
	calls := 0
	set.PreOptimize = func(*lp.Result) bool {
		calls++
		return true
	}
	_, res := solveChecked(t, productMix(), set)
	if res.Status != lp.UserTerminated {
		t.Fatalf("status = %v, want UserTerminated", res.Status)
	}
	if calls != 1 {
		t.Errorf("pre-optimize hook ran %d times, want 1", calls)
	}
}

func TestEnvTerminate(t *testing.T) {
	env := lp.NewEnv()
	env.Terminate()
	set := testSettings()
	set.Env = env
	_, res := solveChecked(t, productMix(), set)
	if res.Status != lp.UserTerminated {
		t.Fatalf("status = %v, want UserTerminated", res.Status)
	}
}

func TestInvalidInput(t *testing.T) {
	nan := lp.New()
	nan.AddVariable(math.NaN(), 0, 1)
	if _, err := New(nan, nil); err == nil {
		t.Error("NaN objective accepted")
	}

	crossed := lp.New()
	crossed.AddVariable(0, 2, 1)
	if _, err := New(crossed, nil); err == nil {
		t.Error("crossed bounds accepted")
	}

	integer := lp.New()
	j := integer.AddVariable(1, 0, 1)
	integer.SetVariableType(j, lp.Integer)
	res, err := Solve(integer, nil)
	if err == nil || res.Status != lp.InvalidInput {
		t.Errorf("integer model: status = %v, err = %v; want InvalidInput", res.Status, err)
	}
}

func TestReducedCostInvariant(t *testing.T) {
	s, res := solveChecked(t, productMix(), nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	// Basic reduced costs are exactly zeroed in the maintained vector and
	// tiny after a fresh dual recomputation.
	s.computeDuals()
	for r, j := range s.header {
		if math.Abs(s.d[j]) > 1e-10 {
			t.Errorf("reduced cost of basic variable %d (row %d) = %v", j, r, s.d[j])
		}
	}
}

func TestResidualAfterRefine(t *testing.T) {
	s, res := solveChecked(t, productMix(), nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	r := make([]float64, s.m)
	s.residual(r)
	for i, v := range r {
		if math.Abs(v) > s.set.RefineTol*1e3 {
			t.Errorf("residual[%d] = %v after refinement", i, v)
		}
	}
}

func TestNonbasicExactlyAtBounds(t *testing.T) {
	s, res := solveChecked(t, productMix(), nil)
	if res.Status != lp.Optimal {
		t.Fatalf("status = %v, want Optimal", res.Status)
	}
	for j, st := range s.status {
		switch st {
		case atLower:
			if s.x[j] != s.lower[j] {
				t.Errorf("variable %d at lower: x = %v, bound = %v", j, s.x[j], s.lower[j])
			}
		case atUpper:
			if s.x[j] != s.upper[j] {
				t.Errorf("variable %d at upper: x = %v, bound = %v", j, s.x[j], s.upper[j])
			}
		}
	}
}

func TestSnapshotDiff(t *testing.T) {
	s, _ := solveChecked(t, productMix(), nil)
	a := s.snapshot()
	b := s.snapshot()
	if !equalSnapshots(a, b) {
		t.Error("identical snapshots compare unequal")
	}
	if d := diffSnapshots(a, b); len(d) != 0 {
		t.Errorf("diff of identical snapshots = %v, want empty", d)
	}
	b.status[0] = superbasic
	if equalSnapshots(a, b) {
		t.Error("distinct snapshots compare equal")
	}
	if d := diffSnapshots(a, b); len(d) != 1 || d[0] != 0 {
		t.Errorf("diff = %v, want [0]", d)
	}
}
