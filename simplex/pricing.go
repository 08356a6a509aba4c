// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"

	"github.com/feldspar-lp/feldspar/lp"
)

// pricer selects the entering variable each iteration. Implementations
// keep their own state (candidate sections, edge weights) and are told
// about every applied pivot and every event that invalidates cached state
// (refactorization, bound or objective change).
type pricer interface {
	init(s *Solver)
	selectEnter(s *Solver) (q int, ok bool)
	update(s *Solver, ctx *pivotCtx)
	invalidate()
	// needsRho reports whether the pivot executor must supply the BTRAN of
	// the pivot column and the FTRAN of e_r for the weight update.
	needsRho() bool
}

func newPricer(p lp.Pricing, ncol int) pricer {
	switch p {
	case lp.PricingPartial:
		return &partialPricer{}
	case lp.PricingSteepestEdge:
		return &sePricer{}
	case lp.PricingDevex:
		return &devexPricer{}
	case lp.PricingDantzig:
		return dantzigPricer{}
	}
	// Auto: Dantzig for small models, steepest edge otherwise.
	if ncol < 1000 {
		return dantzigPricer{}
	}
	return &sePricer{}
}

// attractive reports whether nonbasic variable j can improve the current
// phase objective at the dual tolerance.
func (s *Solver) attractive(j int) bool {
	d := s.d[j]
	switch s.status[j] {
	case atLower:
		return d < -s.optTol()
	case atUpper:
		return d > s.optTol()
	case atFree, superbasic:
		return math.Abs(d) > s.optTol()
	}
	return false
}

// enterDirection returns +1 if entering variable q increases from its
// current value and −1 if it decreases.
func (s *Solver) enterDirection(q int) float64 {
	if s.status[q] == atUpper {
		return -1
	}
	if s.status[q] == atFree || s.status[q] == superbasic {
		if s.d[q] > 0 {
			return -1
		}
		return 1
	}
	return 1
}

// dantzigPricer scans every nonbasic variable for the largest reduced-cost
// violation.
type dantzigPricer struct{}

func (dantzigPricer) init(*Solver)              {}
func (dantzigPricer) update(*Solver, *pivotCtx) {}
func (dantzigPricer) invalidate()               {}
func (dantzigPricer) needsRho() bool            { return false }

func (dantzigPricer) selectEnter(s *Solver) (int, bool) {
	best, bestMag := -1, 0.0
	for j := 0; j < s.ncol; j++ {
		if !s.attractive(j) {
			continue
		}
		if mag := math.Abs(s.d[j]); mag > bestMag {
			best, bestMag = j, mag
		}
	}
	s.work += float64(s.ncol)
	return best, best >= 0
}

// partialPricer scans ~√n rotating sections; if the current section holds
// no attractive variable, a full second pass runs before the phase may be
// declared done.
type partialPricer struct {
	nsec, size int
	cur        int
	cached     int // -1 forces re-derivation of the section geometry
}

func (p *partialPricer) init(s *Solver) {
	p.cached = -1
	p.rebuild(s)
}

func (p *partialPricer) rebuild(s *Solver) {
	p.nsec = int(math.Sqrt(float64(s.ncol)))
	if p.nsec < 1 {
		p.nsec = 1
	}
	p.size = (s.ncol + p.nsec - 1) / p.nsec
	p.cur = 0
	p.cached = s.ncol
}

func (p *partialPricer) invalidate()               { p.cached = -1 }
func (p *partialPricer) update(*Solver, *pivotCtx) {}
func (p *partialPricer) needsRho() bool            { return false }

func (p *partialPricer) selectEnter(s *Solver) (int, bool) {
	if p.cached != s.ncol {
		p.rebuild(s)
	}
	lo := p.cur * p.size
	hi := lo + p.size
	if hi > s.ncol {
		hi = s.ncol
	}
	p.cur = (p.cur + 1) % p.nsec

	best, bestMag := -1, 0.0
	for j := lo; j < hi; j++ {
		if !s.attractive(j) {
			continue
		}
		if mag := math.Abs(s.d[j]); mag > bestMag {
			best, bestMag = j, mag
		}
	}
	s.work += float64(hi - lo)
	if best >= 0 {
		return best, true
	}
	// Second pass over everything before declaring the phase done.
	return dantzigPricer{}.selectEnter(s)
}

// smallGamma is the floor below which a steepest-edge weight is considered
// corrupt and reset.
const smallGamma = 1e-10

// sePricer implements steepest-edge pricing with weights maintained by the
// Goldfarb–Reid recurrence.
type sePricer struct {
	gamma []float64
	stale bool
}

func (p *sePricer) init(s *Solver) {
	p.gamma = make([]float64, s.ncol)
	p.reset()
}

func (p *sePricer) reset() {
	for j := range p.gamma {
		p.gamma[j] = 1
	}
	p.stale = false
}

func (p *sePricer) invalidate()    { p.stale = true }
func (p *sePricer) needsRho() bool { return true }

func (p *sePricer) selectEnter(s *Solver) (int, bool) {
	if p.stale {
		p.reset()
	}
	best, bestScore := -1, 0.0
	for j := 0; j < s.ncol; j++ {
		if !s.attractive(j) {
			continue
		}
		g := p.gamma[j]
		if g <= smallGamma {
			g = 1
			p.gamma[j] = 1
		}
		if score := s.d[j] * s.d[j] / g; score > bestScore {
			best, bestScore = j, score
		}
	}
	s.work += float64(s.ncol)
	return best, best >= 0
}

func (p *sePricer) update(s *Solver, ctx *pivotCtx) {
	if p.stale || ctx.r < 0 {
		return
	}
	ar := ctx.pivot
	tau := p.gamma[ctx.q] / (ar * ar)
	for j := 0; j < s.ncol; j++ {
		if s.status[j] == basic || j == ctx.q {
			continue
		}
		arj := ctx.aRow[j]
		if arj == 0 {
			continue
		}
		rho := s.columnDot(j, ctx.btranW) / ar
		g := p.gamma[j] - 2*arj*rho + arj*arj*tau
		if g < 1 {
			g = 1
		}
		p.gamma[j] = g
	}
	// The leaving variable's weight is computed explicitly from the r-th
	// column of the old inverse rather than carried through the recurrence.
	var norm2 float64
	for _, v := range ctx.ftranER {
		norm2 += v * v
	}
	g := norm2 / (ar * ar)
	if g < 1 {
		g = 1
	}
	p.gamma[ctx.leave] = g
}

// devexPricer approximates steepest edge with reference-framework weights.
// The update needs only the pivot row, making it cheaper than true
// steepest edge at the cost of a looser approximation.
type devexPricer struct {
	w     []float64
	stale bool
}

func (p *devexPricer) init(s *Solver) {
	p.w = make([]float64, s.ncol)
	p.reset()
}

func (p *devexPricer) reset() {
	for j := range p.w {
		p.w[j] = 1
	}
	p.stale = false
}

func (p *devexPricer) invalidate()    { p.stale = true }
func (p *devexPricer) needsRho() bool { return false }

func (p *devexPricer) selectEnter(s *Solver) (int, bool) {
	if p.stale {
		p.reset()
	}
	best, bestScore := -1, 0.0
	for j := 0; j < s.ncol; j++ {
		if !s.attractive(j) {
			continue
		}
		if score := s.d[j] * s.d[j] / p.w[j]; score > bestScore {
			best, bestScore = j, score
		}
	}
	s.work += float64(s.ncol)
	return best, best >= 0
}

func (p *devexPricer) update(s *Solver, ctx *pivotCtx) {
	if p.stale || ctx.r < 0 {
		return
	}
	ar := ctx.pivot
	wq := p.w[ctx.q]
	if wq < 1 {
		wq = 1
	}
	for j := 0; j < s.ncol; j++ {
		if s.status[j] == basic || j == ctx.q {
			continue
		}
		arj := ctx.aRow[j]
		if arj == 0 {
			continue
		}
		if cand := (arj / ar) * (arj / ar) * wq; cand > p.w[j] {
			p.w[j] = cand
		}
	}
	if cand := wq / (ar * ar); cand > 1 {
		p.w[ctx.leave] = cand
	} else {
		p.w[ctx.leave] = 1
	}
}
