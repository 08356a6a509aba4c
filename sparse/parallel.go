// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MulVecTConcurrent computes y = Aᵀ·x like MulVecT, splitting the column
// range across up to workers goroutines. workers < 1 uses GOMAXPROCS. Each
// output element is written by exactly one goroutine, so no synchronization
// of y is needed. The simplex engine itself is single-threaded; this entry
// point is the opt-in parallel primitive for large pricing scans.
func (a *Matrix) MulVecTConcurrent(y, x []float64, workers int) {
	if len(x) != a.m || len(y) != a.n {
		panic("sparse: dimension mismatch")
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || a.n < 2*workers {
		a.MulVecT(y, x)
		return
	}
	var g errgroup.Group
	chunk := (a.n + workers - 1) / workers
	for lo := 0; lo < a.n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, a.n)
		g.Go(func() error {
			for j := lo; j < hi; j++ {
				var sum float64
				for k := a.colStarts[j]; k < a.colStarts[j+1]; k++ {
					sum += a.colVals[k] * x[a.rowIdx[k]]
				}
				y[j] = sum
			}
			return nil
		})
	}
	// Workers never fail; Wait is used purely as a barrier.
	_ = g.Wait()
}
