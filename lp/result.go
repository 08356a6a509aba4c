// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

import "time"

// Result is the outcome of a solve. For limit exits (IterationLimit,
// TimeLimit, UserTerminated, NumericBreakdown) X, Dual and Obj reflect the
// last completed pivot.
type Result struct {
	// X is the primal solution, one value per variable.
	X []float64
	// Dual holds the dual row values π, one per constraint.
	Dual []float64
	// Obj is cᵀx.
	Obj float64
	// Status is the authoritative verdict.
	Status Status
	// Message is the informational text stored in the error buffer, if any.
	Message string

	Stats
}

// Stats collects counters from a solve.
type Stats struct {
	// Iterations is the total number of simplex iterations.
	Iterations int
	// Phase1Iterations counts the iterations spent restoring feasibility.
	Phase1Iterations int
	// Refactorizations counts full basis refactorizations.
	Refactorizations int
	// Perturbations counts anti-cycling perturbations applied.
	Perturbations int
	// BoundFlips counts pivots resolved as bound flips without a basis
	// change.
	BoundFlips int
	// Runtime is the wall time of the solve.
	Runtime time.Duration
}
