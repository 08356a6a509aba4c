// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"log/slog"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/feldspar-lp/feldspar/lp"
	"github.com/feldspar-lp/feldspar/sparse"
)

// varStatus is the position of a variable relative to the current basis.
type varStatus int8

const (
	basic varStatus = iota
	atLower
	atUpper
	atFree
	atFixed
	superbasic
)

func (v varStatus) String() string {
	switch v {
	case basic:
		return "BASIC"
	case atLower:
		return "AT_LOWER"
	case atUpper:
		return "AT_UPPER"
	case atFree:
		return "FREE"
	case atFixed:
		return "FIXED"
	case superbasic:
		return "SUPERBASIC"
	}
	return "varStatus(?)"
}

type phase int

const (
	phase1 phase = 1
	phase2 phase = 2
)

// Solver holds the mutable state of one optimization. A Solver is owned by
// the goroutine that calls Solve; only Terminate may be called concurrently.
//
// Columns 0..n-1 are the structural variables of the model; columns n..n+m-1
// are the logical (slack) variables, one per row, so that internally every
// row reads A_i·x + s_i = b_i with the slack bounds encoding the sense.
type Solver struct {
	model *lp.LP
	set   lp.Settings
	a     *sparse.Matrix

	m, n, ncol int

	cost         []float64 // real objective, logical entries zero
	c1           []float64 // phase-1 objective over basic positions
	lower, upper []float64 // working bounds, ±Inf for infinite
	origLower    []float64 // bounds before perturbation
	origUpper    []float64
	rhs          []float64

	status []varStatus
	header []int // basis header: header[r] = variable basic in row r
	row    []int // inverse: row[j] = r if basic, else -1

	x  []float64 // primal values, nonbasic entries exactly at bound
	pi []float64 // dual row values
	d  []float64 // reduced costs, basic entries zero

	factor *basisFactor
	pricer pricer

	curPhase        phase
	iter            int
	work            float64
	workThreshold   float64
	refactorPending bool
	perturbed       bool
	xi              []float64

	// warmX/warmPi hold an interior point to cross over from.
	warmX  []float64
	warmPi []float64

	rng  *rand.Rand
	gate gate
	errs errorBuffer

	stats    lp.Stats
	start    time.Time
	deadline time.Time
	maxIter  int

	// scratch
	wCol  []float64 // pivot column, length m
	beta  []float64 // BTRAN(e_r), length m
	aRow  []float64 // pivot row over all columns, length ncol
	tmpM  []float64
	tmpM2 []float64

	logicalRow [1]int
	logicalVal [1]float64
}

// columnEntries returns the nonzeros of internal column j. The returned
// slices are only valid until the next call.
func (s *Solver) columnEntries(j int) (rows []int, vals []float64) {
	if j < s.n {
		return s.a.Column(j)
	}
	s.logicalRow[0] = j - s.n
	s.logicalVal[0] = 1
	return s.logicalRow[:], s.logicalVal[:]
}

// columnDot returns the inner product of internal column j with a dense
// vector of length m.
func (s *Solver) columnDot(j int, v []float64) float64 {
	if j < s.n {
		return s.a.ColumnDot(j, v)
	}
	return v[j-s.n]
}

func (s *Solver) feasTol() float64 { return s.set.FeasTol }
func (s *Solver) optTol() float64  { return s.set.OptTol }

// pivotGuard is the magnitude below which an accepted pivot schedules a
// refactorization before the next iteration.
func (s *Solver) pivotGuard() float64 { return 10 * s.set.PivotFloor }

// boundDist returns the infeasibility of value v against bounds lo, hi:
// zero inside the bounds, positive outside.
func boundDist(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	}
	return 0
}

// logf emits a progress record when a logger is configured and the verbosity
// admits the level (1 normal, 2 debug).
func (s *Solver) logf(level int, msg string, args ...any) {
	lg := s.logger()
	if lg == nil || s.set.Verbose < level {
		return
	}
	if level >= 2 {
		lg.Debug(msg, args...)
		return
	}
	lg.Info(msg, args...)
}

func (s *Solver) logger() *slog.Logger {
	if s.set.Logger != nil {
		return s.set.Logger
	}
	return s.set.Env.Logger()
}

// normalizeBound converts sentinel-magnitude bounds to IEEE infinities for
// internal arithmetic.
func normalizeBound(v, inf float64) float64 {
	if v >= inf {
		return math.Inf(1)
	}
	if v <= -inf {
		return math.Inf(-1)
	}
	return v
}
