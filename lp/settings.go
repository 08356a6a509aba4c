// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

import (
	"log/slog"
	"time"
)

// Pricing selects the entering-variable strategy.
type Pricing int

const (
	// PricingAuto uses Dantzig pricing for small models and steepest edge
	// otherwise.
	PricingAuto Pricing = iota
	// PricingPartial scans ~√n rotating sections with a full-scan fallback.
	PricingPartial
	// PricingSteepestEdge normalizes reduced costs by approximate edge
	// lengths maintained with the Goldfarb–Reid recurrence.
	PricingSteepestEdge
	// PricingDevex uses reference-framework weights approximating steepest
	// edge.
	PricingDevex
	// PricingDantzig selects the largest reduced-cost violation.
	PricingDantzig
)

// Settings holds the solver tunables. A zero tolerance, cap or limit field
// (FeasTol, OptTol, PivotFloor, Infinity, MaxIter, TimeLimit, MaxEtaUpdates,
// RefineIters, RefineTol) selects its default. Seed and Verbose are taken as
// given — zero is a concrete seed and the silent log level — so start from
// DefaultSettings to get the automatic seed and normal verbosity.
type Settings struct {
	// FeasTol is the primal feasibility tolerance. Default 1e-6.
	FeasTol float64
	// OptTol is the dual (reduced-cost) tolerance. Default 1e-6.
	OptTol float64
	// PivotFloor is the minimum acceptable pivot magnitude. Default 1e-10.
	PivotFloor float64
	// Infinity overrides the bound sentinel magnitude. Default Inf.
	Infinity float64

	// MaxIter caps simplex iterations. Default 2·(n+m)·100.
	MaxIter int
	// TimeLimit caps wall time. Zero means no limit.
	TimeLimit time.Duration

	// Pricing selects the entering-variable strategy.
	Pricing Pricing
	// MaxEtaUpdates is the eta-file length that forces a refactorization.
	// Default 100.
	MaxEtaUpdates int
	// RefineIters bounds iterative refinement passes. Default 2.
	RefineIters int
	// RefineTol is the residual norm below which refinement stops.
	// Default 1e-9.
	RefineTol float64

	// Seed seeds the perturbation stream. A negative seed derives one from
	// the wall clock and process id. Default -1.
	Seed int64

	// Verbose selects the log level: 0 silent, 1 normal, 2 debug. Logging
	// requires a non-nil Logger.
	Verbose int
	// Logger receives progress records. Nil disables logging regardless of
	// Verbose.
	Logger *slog.Logger

	// Env is the shared environment whose terminate flag and parameter
	// table the solve observes. May be nil.
	Env *Env

	// PreOptimize, if non-nil, is called from the optimization goroutine at
	// each phase transition before the phase runs, at most once per
	// transition. Returning true sets the terminate flag.
	PreOptimize func(*Result) (stop bool)
	// PostOptimize, if non-nil, is called once with the final result before
	// Solve returns.
	PostOptimize func(*Result)
}

// DefaultSettings returns the documented defaults. MaxIter is left zero so
// the solver can derive 2·(n+m)·100 from the model dimensions.
func DefaultSettings() *Settings {
	return &Settings{
		FeasTol:       1e-6,
		OptTol:        1e-6,
		PivotFloor:    1e-10,
		Infinity:      Inf,
		MaxEtaUpdates: 100,
		RefineIters:   2,
		RefineTol:     1e-9,
		Seed:          -1,
		Verbose:       1,
	}
}
