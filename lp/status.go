// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

//go:generate stringer -type=Status

// Status is the verdict of a solve. The caller sees exactly one.
type Status int

const (
	// NotTerminated is the zero value; a solve in progress or a Result
	// that has not been produced by a solve carries it.
	NotTerminated Status = iota
	// Optimal means phase 2 converged with residuals within tolerance.
	Optimal
	// Infeasible means phase 1 finished with remaining infeasibility.
	Infeasible
	// Unbounded means the ratio test found no leaving variable in phase 2.
	Unbounded
	// InfeasibleOrUnbounded means phase 1 could not distinguish the two.
	InfeasibleOrUnbounded
	// IterationLimit means the iteration cap was reached.
	IterationLimit
	// TimeLimit means the wall-time cap was reached.
	TimeLimit
	// UserTerminated means a terminate flag was observed.
	UserTerminated
	// NumericBreakdown means the basis stayed singular after a refactor
	// retry, or iterative refinement failed to shrink residuals.
	NumericBreakdown
	// InvalidInput means the model was malformed (NaN entries, mismatched
	// dimensions, crossed finite bounds, unsupported variable types).
	InvalidInput
	// OutOfMemory means an allocation failed in a core subsystem.
	OutOfMemory
)

// Done reports whether s is a terminal status.
func (s Status) Done() bool { return s != NotTerminated }

// Limit reports whether s is a graceful limit exit for which partial results
// reflecting the last completed pivot are available.
func (s Status) Limit() bool {
	switch s {
	case IterationLimit, TimeLimit, UserTerminated, NumericBreakdown:
		return true
	}
	return false
}

// Err returns the sentinel error corresponding to a failure status, or nil
// for Optimal and NotTerminated.
func (s Status) Err() error {
	switch s {
	case Infeasible:
		return ErrInfeasible
	case Unbounded:
		return ErrUnbounded
	case InfeasibleOrUnbounded:
		return ErrInfeasibleOrUnbounded
	case IterationLimit:
		return ErrIterationLimit
	case TimeLimit:
		return ErrTimeLimit
	case UserTerminated:
		return ErrTerminated
	case NumericBreakdown:
		return ErrNumeric
	case InvalidInput:
		return ErrInvalidInput
	case OutOfMemory:
		return ErrOutOfMemory
	}
	return nil
}
