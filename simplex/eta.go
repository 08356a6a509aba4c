// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"fmt"
	"math"

	"github.com/feldspar-lp/feldspar/lp"
)

// eta is one product-form update of the basis inverse: the pivot column
// w = B⁻¹·a_q recorded for a pivot in basis position row, so that the new
// inverse is E⁻¹·B⁻¹ with E the identity carrying w in column row.
type eta struct {
	row   int
	pivot float64 // w[row]
	idx   []int   // positions ≠ row with a nonzero
	val   []float64
	iter  int // solver iteration at creation
}

// basisFactor is the basis representation: an LU factorization of a
// historical basis extended by the eta file of pivots applied since.
// Append order defines the meaning of the inverse and is never reordered.
type basisFactor struct {
	m          int
	lu         *factorization
	etas       []eta
	pivotFloor float64

	work []float64
}

func newBasisFactor(m int, pivotFloor float64) *basisFactor {
	return &basisFactor{m: m, pivotFloor: pivotFloor, work: make([]float64, m)}
}

// refactor discards the eta file and factorizes the current basis afresh.
// It fails only if the basis is numerically singular.
func (f *basisFactor) refactor(column func(k int) (rows []int, vals []float64)) error {
	lu, err := luFactorize(f.m, column, f.pivotFloor)
	if err != nil {
		return err
	}
	f.lu = lu
	f.etas = f.etas[:0]
	return nil
}

// etaLen returns the number of updates since the last refactorization.
func (f *basisFactor) etaLen() int { return len(f.etas) }

// ftran solves B·x = v. v is indexed by constraint row, x by basis
// position. x and v may alias.
func (f *basisFactor) ftran(x, v []float64) {
	f.lu.solve(x, v, f.work)
	for t := range f.etas {
		e := &f.etas[t]
		xr := x[e.row]
		if xr == 0 {
			continue
		}
		xr /= e.pivot
		for k, i := range e.idx {
			x[i] -= e.val[k] * xr
		}
		x[e.row] = xr
	}
}

// btran solves Bᵀ·y = c. c is indexed by basis position, y by constraint
// row. y and c may alias.
func (f *basisFactor) btran(y, c []float64) {
	w := f.work
	copy(w[:f.m], c[:f.m])
	for t := len(f.etas) - 1; t >= 0; t-- {
		e := &f.etas[t]
		sum := w[e.row]
		for k, i := range e.idx {
			sum -= e.val[k] * w[i]
		}
		w[e.row] = sum / e.pivot
	}
	f.lu.solveTrans(y, w, w)
}

// pushEta records the basis update for a pivot in basis position r with
// pivot column w (the FTRAN of the entering column). The pivot element must
// clear the pivot floor; otherwise the update is refused and the caller is
// expected to refactorize and retry.
func (f *basisFactor) pushEta(r int, w []float64, iter int) error {
	piv := w[r]
	if math.IsNaN(piv) || math.Abs(piv) < f.pivotFloor {
		return fmt.Errorf("%w: pivot %.3e in basis row %d below floor %.1e", lp.ErrNumeric, piv, r, f.pivotFloor)
	}
	const dropTol = 1e-14
	e := eta{row: r, pivot: piv, iter: iter}
	for i, v := range w {
		if i == r || math.Abs(v) <= dropTol {
			continue
		}
		e.idx = append(e.idx, i)
		e.val = append(e.val, v)
	}
	f.etas = append(f.etas, e)
	return nil
}
