// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse provides the column- and row-major projections of a sparse
// constraint matrix together with the matrix-vector primitives used by the
// simplex engine.
package sparse // import "github.com/feldspar-lp/feldspar/sparse"

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Matrix is a read-only m×n sparse matrix held simultaneously in compressed
// sparse column (CSC) and compressed sparse row (CSR) form. The two
// projections are built from the same entry stream and agree
// entry-for-entry. Index lists within a single column or row are sorted
// ascending.
type Matrix struct {
	m, n int

	// CSC projection.
	colStarts []int
	rowIdx    []int
	colVals   []float64

	// CSR projection.
	rowStarts []int
	colIdx    []int
	rowVals   []float64
}

// NewCSC builds a Matrix from compressed sparse column data. The slices are
// retained by the Matrix and must not be modified afterwards. Row indices
// within each column must be sorted ascending and in range; NewCSC panics
// otherwise. The CSR projection is derived with a single O(nnz) bucket pass.
func NewCSC(m, n int, colStarts, rowIdx []int, vals []float64) *Matrix {
	if len(colStarts) != n+1 {
		panic("sparse: bad column start slice")
	}
	nnz := colStarts[n]
	if len(rowIdx) != nnz || len(vals) != nnz {
		panic("sparse: bad nonzero slice length")
	}
	a := &Matrix{
		m:         m,
		n:         n,
		colStarts: colStarts,
		rowIdx:    rowIdx,
		colVals:   vals,
	}

	// Bucket pass: count entries per row, prefix-sum into row starts, then
	// scatter. Walking columns in order places column indices within each
	// row in ascending order.
	a.rowStarts = make([]int, m+1)
	for _, i := range rowIdx {
		if i < 0 || i >= m {
			panic("sparse: row index out of range")
		}
		a.rowStarts[i+1]++
	}
	for i := 0; i < m; i++ {
		a.rowStarts[i+1] += a.rowStarts[i]
	}
	a.colIdx = make([]int, nnz)
	a.rowVals = make([]float64, nnz)
	next := make([]int, m)
	copy(next, a.rowStarts[:m])
	for j := 0; j < n; j++ {
		last := -1
		for k := colStarts[j]; k < colStarts[j+1]; k++ {
			i := rowIdx[k]
			if i <= last {
				panic("sparse: column row indices not sorted")
			}
			last = i
			a.colIdx[next[i]] = j
			a.rowVals[next[i]] = vals[k]
			next[i]++
		}
	}
	return a
}

// Dims returns the dimensions of the matrix.
func (a *Matrix) Dims() (m, n int) { return a.m, a.n }

// NumNonzeros returns the number of stored entries.
func (a *Matrix) NumNonzeros() int { return a.colStarts[a.n] }

// Column returns the nonzeros of column j. The slices alias the matrix
// storage and must not be modified.
func (a *Matrix) Column(j int) (rows []int, vals []float64) {
	s, e := a.colStarts[j], a.colStarts[j+1]
	return a.rowIdx[s:e], a.colVals[s:e]
}

// Row returns the nonzeros of row i. The slices alias the matrix storage and
// must not be modified.
func (a *Matrix) Row(i int) (cols []int, vals []float64) {
	s, e := a.rowStarts[i], a.rowStarts[i+1]
	return a.colIdx[s:e], a.rowVals[s:e]
}

// MulVec computes y = A·x, accumulating into a dense y of length m in a
// single pass over the CSC entries. y is zeroed first.
func (a *Matrix) MulVec(y, x []float64) {
	if len(x) != a.n || len(y) != a.m {
		panic("sparse: dimension mismatch")
	}
	for i := range y {
		y[i] = 0
	}
	for j := 0; j < a.n; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for k := a.colStarts[j]; k < a.colStarts[j+1]; k++ {
			y[a.rowIdx[k]] += a.colVals[k] * xj
		}
	}
}

// MulVecT computes y = Aᵀ·x, accumulating into a dense y of length n in a
// single pass over the CSC entries. y is zeroed first.
func (a *Matrix) MulVecT(y, x []float64) {
	if len(x) != a.m || len(y) != a.n {
		panic("sparse: dimension mismatch")
	}
	for j := 0; j < a.n; j++ {
		var sum float64
		for k := a.colStarts[j]; k < a.colStarts[j+1]; k++ {
			sum += a.colVals[k] * x[a.rowIdx[k]]
		}
		y[j] = sum
	}
}

// ColumnDot returns A_{·j}·x for a dense x of length m.
func (a *Matrix) ColumnDot(j int, x []float64) float64 {
	var sum float64
	for k := a.colStarts[j]; k < a.colStarts[j+1]; k++ {
		sum += a.colVals[k] * x[a.rowIdx[k]]
	}
	return sum
}

// Dot returns the dense inner product of x and y.
func Dot(x, y []float64) float64 {
	return floats.Dot(x, y)
}

// TwoNorm returns √Σv_i².
func TwoNorm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// InfNorm returns max |v_i|, or 0 for an empty v.
func InfNorm(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}
