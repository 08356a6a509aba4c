// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import "sync/atomic"

// gate is the termination probe polled from the hot loop. It reads, in
// order, the solver's own flag, the shared environment flag, and an
// optional external flag. There are no locks; eventual consistency is
// sufficient, since every long-running loop polls at least once per
// iteration. signal writes every flag that exists, so polling any one of
// them observes the stop within a single probe.
type gate struct {
	local atomic.Bool
	env   *atomic.Bool
	ext   *atomic.Bool
}

// poll reports whether termination has been requested. The common case
// returns false after a single load.
func (g *gate) poll() bool {
	if g.local.Load() {
		return true
	}
	if g.env != nil && g.env.Load() {
		return true
	}
	if g.ext != nil && g.ext.Load() {
		return true
	}
	return false
}

// signal requests termination through every reachable flag. Nil flags are
// tolerated.
func (g *gate) signal() {
	g.local.Store(true)
	if g.env != nil {
		g.env.Store(true)
	}
	if g.ext != nil {
		g.ext.Store(true)
	}
}
