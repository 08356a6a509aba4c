// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

import "errors"

var (
	ErrInfeasible            = errors.New("lp: problem is infeasible")
	ErrUnbounded             = errors.New("lp: problem is unbounded")
	ErrInfeasibleOrUnbounded = errors.New("lp: problem is infeasible or unbounded")
	ErrIterationLimit        = errors.New("lp: iteration limit reached")
	ErrTimeLimit             = errors.New("lp: time limit reached")
	ErrTerminated            = errors.New("lp: terminated by user")
	ErrNumeric               = errors.New("lp: numerical breakdown")
	ErrSingular              = errors.New("lp: basis is singular")
	ErrInvalidInput          = errors.New("lp: invalid input")
	ErrOutOfMemory           = errors.New("lp: out of memory")
)
