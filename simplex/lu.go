// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"fmt"
	"math"

	"github.com/feldspar-lp/feldspar/lp"
)

// luEntry is one off-diagonal nonzero of a triangular factor, with its row
// in pivot coordinates.
type luEntry struct {
	idx int
	val float64
}

// factorization holds P·B = L·U for a basis matrix B, with L unit lower
// triangular and U upper triangular, both stored column-wise in pivot
// coordinates. The factorization is produced by left-looking column
// elimination with pivoting on the largest remaining magnitude; the pivot
// choice is deterministic, so factorizing the same basis twice yields
// identical factors.
type factorization struct {
	m     int
	lcols [][]luEntry // entries below the unit diagonal, idx > column
	ucols [][]luEntry // entries above the diagonal, idx < column
	udiag []float64
	p     []int // p[k] = original row pivoted at position k
	pinv  []int
}

// luFactorize factorizes the m×m matrix whose column k is given by
// column(k) as sparse (rows, values) pairs. Entries with magnitude below
// dropTol after elimination are discarded. A pivot column whose largest
// remaining magnitude falls below stabFloor makes the matrix numerically
// singular.
func luFactorize(m int, column func(k int) (rows []int, vals []float64), stabFloor float64) (*factorization, error) {
	f := &factorization{
		m:     m,
		lcols: make([][]luEntry, m),
		ucols: make([][]luEntry, m),
		udiag: make([]float64, m),
		p:     make([]int, m),
		pinv:  make([]int, m),
	}
	for i := range f.pinv {
		f.pinv[i] = -1
	}

	x := make([]float64, m)
	const dropTol = 1e-14

	for k := 0; k < m; k++ {
		rows, vals := column(k)
		for t, i := range rows {
			x[i] = vals[t]
		}

		// Left-looking update: apply the previous columns of L in pivot
		// order. Only columns whose pivot row carries a nonzero fire.
		for j := 0; j < k; j++ {
			v := x[f.p[j]]
			if v == 0 {
				continue
			}
			for _, e := range f.lcols[j] {
				x[e.idx] -= e.val * v
			}
		}

		// Pivot on the largest magnitude among unpivoted rows.
		ipiv, amax := -1, 0.0
		for i := 0; i < m; i++ {
			if f.pinv[i] >= 0 {
				continue
			}
			if a := math.Abs(x[i]); a > amax {
				amax = a
				ipiv = i
			}
		}
		if ipiv < 0 || amax < stabFloor {
			for i := range x {
				x[i] = 0
			}
			return nil, fmt.Errorf("%w: no acceptable pivot in column %d (max %.3e)", lp.ErrSingular, k, amax)
		}

		// Harvest U from pivoted rows and L from the remainder.
		for j := 0; j < k; j++ {
			if v := x[f.p[j]]; math.Abs(v) > dropTol {
				f.ucols[k] = append(f.ucols[k], luEntry{idx: j, val: v})
			}
		}
		piv := x[ipiv]
		f.udiag[k] = piv
		for i := 0; i < m; i++ {
			if f.pinv[i] >= 0 || i == ipiv {
				continue
			}
			if v := x[i]; math.Abs(v) > dropTol {
				f.lcols[k] = append(f.lcols[k], luEntry{idx: i, val: v / piv})
			}
		}

		f.p[k] = ipiv
		f.pinv[ipiv] = k
		for i := range x {
			x[i] = 0
		}
	}

	// Remap the L row indices from original to pivot coordinates. Every row
	// has been pivoted by now, so the map is total.
	for k := 0; k < m; k++ {
		col := f.lcols[k]
		for t := range col {
			col[t].idx = f.pinv[col[t].idx]
		}
	}
	return f, nil
}

// solve computes x = U⁻¹·L⁻¹·P·v in place on the scratch vector w and
// writes the result, indexed by basis position, into out. v is indexed by
// constraint row. out and v may alias.
func (f *factorization) solve(out, v, w []float64) {
	m := f.m
	for k := 0; k < m; k++ {
		w[k] = v[f.p[k]]
	}
	for k := 0; k < m; k++ {
		vk := w[k]
		if vk == 0 {
			continue
		}
		for _, e := range f.lcols[k] {
			w[e.idx] -= e.val * vk
		}
	}
	for k := m - 1; k >= 0; k-- {
		vk := w[k] / f.udiag[k]
		w[k] = vk
		if vk == 0 {
			continue
		}
		for _, e := range f.ucols[k] {
			w[e.idx] -= e.val * vk
		}
	}
	copy(out, w[:m])
}

// solveTrans computes y = Pᵀ·L⁻ᵀ·U⁻ᵀ·c on the scratch vector w, writing the
// result, indexed by constraint row, into out. c is indexed by basis
// position. out and c may alias.
func (f *factorization) solveTrans(out, c, w []float64) {
	m := f.m
	copy(w[:m], c[:m])
	for k := 0; k < m; k++ {
		sum := w[k]
		for _, e := range f.ucols[k] {
			sum -= e.val * w[e.idx]
		}
		w[k] = sum / f.udiag[k]
	}
	for k := m - 1; k >= 0; k-- {
		sum := w[k]
		for _, e := range f.lcols[k] {
			sum -= e.val * w[e.idx]
		}
		w[k] = sum
	}
	for k := 0; k < m; k++ {
		out[f.p[k]] = w[k]
	}
}
