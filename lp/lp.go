// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

import (
	"fmt"
	"math"

	"github.com/feldspar-lp/feldspar/sparse"
)

// Inf is the bound sentinel magnitude. Any bound with absolute value of at
// least Inf is treated as infinite.
const Inf = 1e100

// Sense is the relational sense of a constraint row.
type Sense byte

const (
	LE Sense = '<'
	EQ Sense = '='
	GE Sense = '>'
)

// VarType describes the domain of a variable. Only Continuous variables are
// honored by the solver; models containing any other type are declined with
// an InvalidInput status.
type VarType byte

const (
	Continuous VarType = 'C'
	Integer    VarType = 'I'
	Binary     VarType = 'B'
)

type nonzero struct {
	row int
	val float64
}

// LP is a linear program. The zero value is an empty model ready for use;
// New is provided for symmetry with the rest of the module.
type LP struct {
	cost, lower, upper []float64
	vtype              []VarType
	senses             []Sense
	rhs                []float64
	cols               [][]nonzero
	nnz                int
}

// New returns an empty model.
func New() *LP {
	return &LP{}
}

// NewFromCSC assembles a model from compressed sparse column data. The
// slices are copied. colStarts must have length n+1, rowIdx and vals length
// colStarts[n], c, l, u length n, and senses, b length m. Row indices within
// a column need not be sorted. NewFromCSC returns an error for mismatched
// dimensions or out-of-range indices; numeric validation (NaN scanning,
// bound consistency) is deferred to Validate.
func NewFromCSC(m, n int, colStarts, rowIdx []int, vals, c, l, u []float64, senses []Sense, b []float64) (*LP, error) {
	if len(colStarts) != n+1 {
		return nil, fmt.Errorf("lp: colStarts has length %d, want %d", len(colStarts), n+1)
	}
	nnz := colStarts[n]
	if len(rowIdx) != nnz || len(vals) != nnz {
		return nil, fmt.Errorf("lp: nonzero slices have lengths %d and %d, want %d", len(rowIdx), len(vals), nnz)
	}
	if len(c) != n || len(l) != n || len(u) != n {
		return nil, fmt.Errorf("lp: variable slices must have length %d", n)
	}
	if len(senses) != m || len(b) != m {
		return nil, fmt.Errorf("lp: constraint slices must have length %d", m)
	}
	p := New()
	for i := 0; i < m; i++ {
		p.senses = append(p.senses, senses[i])
		p.rhs = append(p.rhs, b[i])
	}
	for j := 0; j < n; j++ {
		p.AddVariable(c[j], l[j], u[j])
		for k := colStarts[j]; k < colStarts[j+1]; k++ {
			i := rowIdx[k]
			if i < 0 || i >= m {
				return nil, fmt.Errorf("lp: row index %d out of range in column %d", i, j)
			}
			p.cols[j] = append(p.cols[j], nonzero{row: i, val: vals[k]})
			p.nnz++
		}
		sortColumn(p.cols[j])
	}
	return p, nil
}

func sortColumn(col []nonzero) {
	// Columns are typically nearly sorted; insertion sort keeps the common
	// case linear.
	for i := 1; i < len(col); i++ {
		for k := i; k > 0 && col[k].row < col[k-1].row; k-- {
			col[k], col[k-1] = col[k-1], col[k]
		}
	}
}

// NumVariables returns the number of variables in the model.
func (p *LP) NumVariables() int { return len(p.cost) }

// NumConstraints returns the number of constraint rows in the model.
func (p *LP) NumConstraints() int { return len(p.rhs) }

// NumNonzeros returns the number of stored coefficients.
func (p *LP) NumNonzeros() int { return p.nnz }

// AddVariable appends a continuous variable with the given objective
// coefficient and bounds, returning its index.
func (p *LP) AddVariable(cost, lower, upper float64) int {
	p.cost = append(p.cost, cost)
	p.lower = append(p.lower, lower)
	p.upper = append(p.upper, upper)
	p.vtype = append(p.vtype, Continuous)
	p.cols = append(p.cols, nil)
	return len(p.cost) - 1
}

// SetVariableType sets the domain of variable j.
func (p *LP) SetVariableType(j int, t VarType) {
	p.vtype[j] = t
}

// SetBounds replaces the bounds of variable j.
func (p *LP) SetBounds(j int, lower, upper float64) {
	p.lower[j] = lower
	p.upper[j] = upper
}

// AddConstraint appends a constraint row Σ val[k]·x[idx[k]] sense rhs and
// returns its index. Duplicate indices within one call are summed.
func (p *LP) AddConstraint(sense Sense, rhs float64, idx []int, val []float64) int {
	if len(idx) != len(val) {
		panic("lp: mismatched index and value slices")
	}
	i := len(p.rhs)
	p.senses = append(p.senses, sense)
	p.rhs = append(p.rhs, rhs)
	for k, j := range idx {
		col := p.cols[j]
		if len(col) != 0 && col[len(col)-1].row == i {
			col[len(col)-1].val += val[k]
			p.cols[j] = col
			continue
		}
		p.cols[j] = append(col, nonzero{row: i, val: val[k]})
		p.nnz++
	}
	return i
}

// Costs returns the objective coefficients. The slice is owned by the model
// and must not be modified.
func (p *LP) Costs() []float64 { return p.cost }

// Lower returns the variable lower bounds. The slice is owned by the model
// and must not be modified.
func (p *LP) Lower() []float64 { return p.lower }

// Upper returns the variable upper bounds. The slice is owned by the model
// and must not be modified.
func (p *LP) Upper() []float64 { return p.upper }

// Senses returns the constraint senses. The slice is owned by the model and
// must not be modified.
func (p *LP) Senses() []Sense { return p.senses }

// RHS returns the constraint right-hand sides. The slice is owned by the
// model and must not be modified.
func (p *LP) RHS() []float64 { return p.rhs }

// VarTypes returns the variable domains. The slice is owned by the model and
// must not be modified.
func (p *LP) VarTypes() []VarType { return p.vtype }

// Matrix assembles the constraint matrix in its column- and row-major
// projections. The result does not alias the model and reflects the model at
// the time of the call.
func (p *LP) Matrix() *sparse.Matrix {
	m, n := p.NumConstraints(), p.NumVariables()
	colStarts := make([]int, n+1)
	rowIdx := make([]int, 0, p.nnz)
	vals := make([]float64, 0, p.nnz)
	for j, col := range p.cols {
		colStarts[j] = len(rowIdx)
		for _, e := range col {
			rowIdx = append(rowIdx, e.row)
			vals = append(vals, e.val)
		}
	}
	colStarts[n] = len(rowIdx)
	return sparse.NewCSC(m, n, colStarts, rowIdx, vals)
}

// IsInf reports whether v is at or beyond the infinite-bound sentinel.
func IsInf(v float64) bool {
	return v >= Inf || v <= -Inf
}

// Validate checks the model against the solver input contract: finite
// dimensions, no NaN anywhere, lower ≤ upper for every finite-finite bound
// pair, recognized senses, and continuous variables only. The first
// violation found is returned as an error wrapping ErrInvalidInput.
func (p *LP) Validate() error {
	for j := range p.cost {
		if math.IsNaN(p.cost[j]) {
			return fmt.Errorf("%w: NaN objective coefficient for variable %d", ErrInvalidInput, j)
		}
		if math.IsNaN(p.lower[j]) || math.IsNaN(p.upper[j]) {
			return fmt.Errorf("%w: NaN bound for variable %d", ErrInvalidInput, j)
		}
		if !IsInf(p.lower[j]) && !IsInf(p.upper[j]) && p.lower[j] > p.upper[j] {
			return fmt.Errorf("%w: variable %d has lower bound %g above upper bound %g", ErrInvalidInput, j, p.lower[j], p.upper[j])
		}
		if p.vtype[j] != Continuous {
			return fmt.Errorf("%w: variable %d has type %q; integer models are not supported", ErrInvalidInput, j, p.vtype[j])
		}
	}
	for i := range p.rhs {
		if math.IsNaN(p.rhs[i]) {
			return fmt.Errorf("%w: NaN right-hand side for constraint %d", ErrInvalidInput, i)
		}
		switch p.senses[i] {
		case LE, EQ, GE:
		default:
			return fmt.Errorf("%w: constraint %d has unknown sense %q", ErrInvalidInput, i, p.senses[i])
		}
	}
	for j, col := range p.cols {
		for _, e := range col {
			if math.IsNaN(e.val) {
				return fmt.Errorf("%w: NaN coefficient at row %d, column %d", ErrInvalidInput, e.row, j)
			}
		}
	}
	return nil
}
