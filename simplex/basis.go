// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import "fmt"

// basisSnapshot is a copy of the basis header and variable statuses, used
// for stall detection and debugging.
type basisSnapshot struct {
	header []int
	status []varStatus
}

func (s *Solver) snapshot() basisSnapshot {
	snap := basisSnapshot{
		header: make([]int, len(s.header)),
		status: make([]varStatus, len(s.status)),
	}
	copy(snap.header, s.header)
	copy(snap.status, s.status)
	return snap
}

// equalSnapshots reports whether two snapshots describe the same basis.
func equalSnapshots(a, b basisSnapshot) bool {
	if len(a.header) != len(b.header) || len(a.status) != len(b.status) {
		return false
	}
	for i := range a.header {
		if a.header[i] != b.header[i] {
			return false
		}
	}
	for j := range a.status {
		if a.status[j] != b.status[j] {
			return false
		}
	}
	return true
}

// diffSnapshots returns the variables whose status differs between two
// snapshots.
func diffSnapshots(a, b basisSnapshot) []int {
	var diff []int
	for j := range a.status {
		if a.status[j] != b.status[j] {
			diff = append(diff, j)
		}
	}
	return diff
}

// checkBasis verifies the header/status invariants: exactly m basic
// variables, header and row maps inverse to each other, and every nonbasic
// variable with finite bounds sitting exactly on one of them.
func (s *Solver) checkBasis() error {
	nbasic := 0
	for r, j := range s.header {
		if s.status[j] != basic {
			return fmt.Errorf("simplex: header row %d holds variable %d with status %v", r, j, s.status[j])
		}
		if s.row[j] != r {
			return fmt.Errorf("simplex: variable %d maps to row %d, header says %d", j, s.row[j], r)
		}
	}
	for j, st := range s.status {
		switch st {
		case basic:
			nbasic++
		case atLower:
			if s.x[j] != s.lower[j] {
				return fmt.Errorf("simplex: variable %d at lower has value %g, bound %g", j, s.x[j], s.lower[j])
			}
		case atUpper:
			if s.x[j] != s.upper[j] {
				return fmt.Errorf("simplex: variable %d at upper has value %g, bound %g", j, s.x[j], s.upper[j])
			}
		case atFixed:
			if s.x[j] != s.lower[j] {
				return fmt.Errorf("simplex: fixed variable %d has value %g, bound %g", j, s.x[j], s.lower[j])
			}
		}
	}
	if nbasic != s.m {
		return fmt.Errorf("simplex: %d basic variables, want %d", nbasic, s.m)
	}
	return nil
}

// refactorize rebuilds the LU factorization of the current basis,
// recomputes the basic values and duals from scratch, and invalidates
// pricing state. It is idempotent.
func (s *Solver) refactorize() error {
	err := s.factor.refactor(func(k int) ([]int, []float64) {
		return s.columnEntries(s.header[k])
	})
	if err != nil {
		return err
	}
	s.stats.Refactorizations++
	s.work = 0
	s.refactorPending = false
	s.computeBasicValues()
	s.computeDuals()
	if s.pricer != nil {
		s.pricer.invalidate()
	}
	return nil
}

// computeBasicValues solves for the values of the basic variables from the
// right-hand side and the nonbasic values.
func (s *Solver) computeBasicValues() {
	rhs := s.tmpM
	copy(rhs, s.rhs)
	for j, st := range s.status {
		if st == basic || s.x[j] == 0 {
			continue
		}
		rows, vals := s.columnEntries(j)
		for k, i := range rows {
			rhs[i] -= vals[k] * s.x[j]
		}
	}
	vb := s.tmpM2
	s.factor.ftran(vb, rhs)
	for r, j := range s.header {
		s.x[j] = vb[r]
	}
}

// computeDuals recomputes π and the reduced costs for the current phase
// objective.
func (s *Solver) computeDuals() {
	cost := s.cost
	if s.curPhase == phase1 {
		s.updatePhase1Cost()
		cost = s.c1
	}
	cb := s.tmpM
	for r, j := range s.header {
		cb[r] = cost[j]
	}
	s.factor.btran(s.pi, cb)

	// d = c − Aᵀπ over the structural columns; logical column n+i has
	// reduced cost −π_i.
	s.a.MulVecT(s.d[:s.n], s.pi)
	for j := 0; j < s.n; j++ {
		s.d[j] = cost[j] - s.d[j]
	}
	for i := 0; i < s.m; i++ {
		s.d[s.n+i] = cost[s.n+i] - s.pi[i]
	}
	for _, j := range s.header {
		s.d[j] = 0
	}
}
