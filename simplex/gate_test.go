// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"sync/atomic"
	"testing"

	"github.com/feldspar-lp/feldspar/lp"
)

func TestGatePollOrder(t *testing.T) {
	var g gate
	if g.poll() {
		t.Error("fresh gate reports termination")
	}

	g.local.Store(true)
	if !g.poll() {
		t.Error("local flag not observed")
	}
	g.local.Store(false)

	var env atomic.Bool
	g.env = &env
	env.Store(true)
	if !g.poll() {
		t.Error("environment flag not observed")
	}
	env.Store(false)

	var ext atomic.Bool
	g.ext = &ext
	ext.Store(true)
	if !g.poll() {
		t.Error("external flag not observed")
	}
}

func TestGateSignalWritesAll(t *testing.T) {
	var g gate
	var env, ext atomic.Bool
	g.env = &env
	g.ext = &ext
	g.signal()
	if !g.local.Load() || !env.Load() || !ext.Load() {
		t.Error("signal did not reach every flag")
	}
	// Signalling with absent flags must not panic.
	var bare gate
	bare.signal()
	if !bare.poll() {
		t.Error("bare gate did not observe its own signal")
	}
}

func TestTerminateDuringSolve(t *testing.T) {
	s, err := New(productMix(), testSettings())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Terminate()
	res, _ := s.Solve()
	if res.Status != lp.UserTerminated {
		t.Errorf("status = %v, want UserTerminated", res.Status)
	}
}
