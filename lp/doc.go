// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lp defines linear programming models of the form
//
//	minimize    cᵀx
//	subject to  Ax {≤,=,≥} b
//	            l ≤ x ≤ u
//
// together with the solver settings, statuses and results shared by the
// solving packages. The model is assembled through the builder API (New,
// AddVariable, AddConstraint) or directly from compressed sparse column
// data (NewFromCSC), and is immutable to the solver once handed to it.
package lp // import "github.com/feldspar-lp/feldspar/lp"
