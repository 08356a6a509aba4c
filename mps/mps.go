// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mps reads linear programs in MPS format. Both the classic fixed
// column layout and the common free (whitespace-delimited) variant are
// accepted, since the fields are tokenized rather than sliced by position.
// Supported sections: NAME, ROWS, COLUMNS (with INTORG/INTEND markers),
// RHS, RANGES, BOUNDS and ENDATA.
package mps // import "github.com/feldspar-lp/feldspar/mps"

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/feldspar-lp/feldspar/lp"
)

// Model is a parsed MPS file: the assembled program plus the names that the
// format carries and the solver does not.
type Model struct {
	LP        *lp.LP
	Name      string
	Objective string
	RowNames  []string
	ColNames  []string
}

type rowInfo struct {
	name  string
	sense lp.Sense
	rhs   float64
	// ranged rows carry a second implied inequality
	hasRange bool
	rng      float64
}

type colInfo struct {
	name    string
	cost    float64
	lower   float64
	upper   float64
	hasLo   bool
	integer bool
	rows    []int
	vals    []float64
}

type parser struct {
	name     string
	objName  string
	objSeen  bool
	rows     []rowInfo
	rowIdx   map[string]int
	cols     []colInfo
	colIdx   map[string]int
	inSec    string
	integers bool // inside INTORG..INTEND
}

// ReadFile reads an MPS model from a file.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses an MPS model from r.
func Read(r io.Reader) (*Model, error) {
	p := &parser{
		rowIdx: make(map[string]int),
		colIdx: make(map[string]int),
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if len(line) == 0 || line[0] == '*' {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			if err := p.section(line); err != nil {
				return nil, fmt.Errorf("mps: line %d: %w", lineno, err)
			}
			if p.inSec == "ENDATA" {
				break
			}
			continue
		}
		if err := p.data(strings.Fields(line)); err != nil {
			return nil, fmt.Errorf("mps: line %d: %w", lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !p.objSeen {
		return nil, fmt.Errorf("mps: no objective (N) row")
	}
	return p.assemble()
}

func (p *parser) section(line string) error {
	fields := strings.Fields(line)
	sec := strings.ToUpper(fields[0])
	switch sec {
	case "NAME":
		if len(fields) > 1 {
			p.name = fields[1]
		}
	case "ROWS", "COLUMNS", "RHS", "RANGES", "BOUNDS", "ENDATA", "OBJSENSE":
	default:
		return fmt.Errorf("unknown section %q", fields[0])
	}
	p.inSec = sec
	return nil
}

func (p *parser) data(f []string) error {
	switch p.inSec {
	case "ROWS":
		return p.rowLine(f)
	case "COLUMNS":
		return p.colLine(f)
	case "RHS":
		return p.rhsLine(f)
	case "RANGES":
		return p.rangeLine(f)
	case "BOUNDS":
		return p.boundLine(f)
	case "OBJSENSE":
		// Minimization is the house convention; MAX is not translated.
		if len(f) > 0 && strings.EqualFold(f[0], "MAX") {
			return fmt.Errorf("maximization models are not supported")
		}
		return nil
	}
	return fmt.Errorf("data outside a section")
}

func (p *parser) rowLine(f []string) error {
	if len(f) < 2 {
		return fmt.Errorf("short ROWS line")
	}
	name := f[1]
	switch strings.ToUpper(f[0]) {
	case "N":
		// The first N row is the objective. Later free rows are not
		// registered, so a COLUMNS, RHS or RANGES entry naming one is
		// rejected as an unknown row.
		if !p.objSeen {
			p.objName = name
			p.objSeen = true
		}
		return nil
	case "L":
		p.addRow(name, lp.LE)
	case "G":
		p.addRow(name, lp.GE)
	case "E":
		p.addRow(name, lp.EQ)
	default:
		return fmt.Errorf("unknown row sense %q", f[0])
	}
	return nil
}

func (p *parser) addRow(name string, sense lp.Sense) {
	p.rowIdx[name] = len(p.rows)
	p.rows = append(p.rows, rowInfo{name: name, sense: sense})
}

func (p *parser) colLine(f []string) error {
	if len(f) >= 3 && strings.ToUpper(f[1]) == "'MARKER'" {
		switch strings.ToUpper(f[2]) {
		case "'INTORG'":
			p.integers = true
		case "'INTEND'":
			p.integers = false
		}
		return nil
	}
	if len(f) < 3 || len(f)%2 == 0 {
		return fmt.Errorf("malformed COLUMNS line")
	}
	name := f[0]
	ci, ok := p.colIdx[name]
	if !ok {
		ci = len(p.cols)
		p.colIdx[name] = ci
		p.cols = append(p.cols, colInfo{name: name, upper: lp.Inf, integer: p.integers})
	}
	col := &p.cols[ci]
	for k := 1; k+1 < len(f); k += 2 {
		v, err := strconv.ParseFloat(f[k+1], 64)
		if err != nil {
			return fmt.Errorf("bad coefficient %q: %v", f[k+1], err)
		}
		if f[k] == p.objName {
			col.cost += v
			continue
		}
		ri, ok := p.rowIdx[f[k]]
		if !ok {
			return fmt.Errorf("unknown row %q", f[k])
		}
		col.rows = append(col.rows, ri)
		col.vals = append(col.vals, v)
	}
	return nil
}

func (p *parser) rhsLine(f []string) error {
	if len(f) < 3 || len(f)%2 == 0 {
		return fmt.Errorf("malformed RHS line")
	}
	for k := 1; k+1 < len(f); k += 2 {
		v, err := strconv.ParseFloat(f[k+1], 64)
		if err != nil {
			return fmt.Errorf("bad RHS value %q: %v", f[k+1], err)
		}
		if f[k] == p.objName {
			// Objective constants are not representable in the model and
			// are dropped.
			continue
		}
		ri, ok := p.rowIdx[f[k]]
		if !ok {
			return fmt.Errorf("unknown row %q", f[k])
		}
		p.rows[ri].rhs = v
	}
	return nil
}

func (p *parser) rangeLine(f []string) error {
	if len(f) < 3 || len(f)%2 == 0 {
		return fmt.Errorf("malformed RANGES line")
	}
	for k := 1; k+1 < len(f); k += 2 {
		v, err := strconv.ParseFloat(f[k+1], 64)
		if err != nil {
			return fmt.Errorf("bad range value %q: %v", f[k+1], err)
		}
		ri, ok := p.rowIdx[f[k]]
		if !ok {
			return fmt.Errorf("unknown row %q", f[k])
		}
		p.rows[ri].hasRange = true
		p.rows[ri].rng = v
	}
	return nil
}

func (p *parser) boundLine(f []string) error {
	if len(f) < 3 {
		return fmt.Errorf("short BOUNDS line")
	}
	typ := strings.ToUpper(f[0])
	ci, ok := p.colIdx[f[2]]
	if !ok {
		return fmt.Errorf("unknown column %q", f[2])
	}
	col := &p.cols[ci]
	var v float64
	if len(f) >= 4 {
		parsed, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return fmt.Errorf("bad bound value %q: %v", f[3], err)
		}
		v = parsed
	}
	switch typ {
	case "LO":
		col.lower = v
		col.hasLo = true
	case "UP":
		col.upper = v
		// The classic quirk: a negative upper bound on a column whose
		// lower bound was never set opens the lower bound.
		if v < 0 && !col.hasLo {
			col.lower = -lp.Inf
		}
	case "FX":
		col.lower, col.upper = v, v
		col.hasLo = true
	case "FR":
		col.lower, col.upper = -lp.Inf, lp.Inf
	case "MI":
		col.lower = -lp.Inf
	case "PL":
		col.upper = lp.Inf
	case "BV":
		col.lower, col.upper = 0, 1
		col.integer = true
	case "LI":
		col.lower = v
		col.hasLo = true
		col.integer = true
	case "UI":
		col.upper = v
		col.integer = true
	default:
		return fmt.Errorf("unknown bound type %q", f[0])
	}
	return nil
}

func (p *parser) assemble() (*Model, error) {
	prog := lp.New()
	model := &Model{
		LP:        prog,
		Name:      p.name,
		Objective: p.objName,
	}
	for ci := range p.cols {
		col := &p.cols[ci]
		j := prog.AddVariable(col.cost, col.lower, col.upper)
		if col.integer {
			prog.SetVariableType(j, lp.Integer)
		}
		model.ColNames = append(model.ColNames, col.name)
	}

	// Per-row coefficient lists, gathered from the column-wise input.
	idx := make([][]int, len(p.rows))
	val := make([][]float64, len(p.rows))
	for ci := range p.cols {
		col := &p.cols[ci]
		for k, ri := range col.rows {
			idx[ri] = append(idx[ri], ci)
			val[ri] = append(val[ri], col.vals[k])
		}
	}
	for ri := range p.rows {
		row := &p.rows[ri]
		if row.hasRange && row.sense == lp.EQ {
			// A ranged equality is the interval [rhs, rhs+rng] (or its
			// mirror for negative ranges), emitted as a pair of
			// single-sense rows.
			lo, hi := row.rhs, row.rhs+row.rng
			if row.rng < 0 {
				lo, hi = row.rhs+row.rng, row.rhs
			}
			prog.AddConstraint(lp.GE, lo, idx[ri], val[ri])
			model.RowNames = append(model.RowNames, row.name)
			prog.AddConstraint(lp.LE, hi, idx[ri], val[ri])
			model.RowNames = append(model.RowNames, row.name+".rng")
			continue
		}
		prog.AddConstraint(row.sense, row.rhs, idx[ri], val[ri])
		model.RowNames = append(model.RowNames, row.name)
		if !row.hasRange {
			continue
		}
		// An inequality with a range implies the companion inequality
		// closing the interval from the other side.
		if row.sense == lp.LE {
			prog.AddConstraint(lp.GE, row.rhs-math.Abs(row.rng), idx[ri], val[ri])
		} else {
			prog.AddConstraint(lp.LE, row.rhs+math.Abs(row.rng), idx[ri], val[ri])
		}
		model.RowNames = append(model.RowNames, row.name+".rng")
	}
	return model, nil
}
