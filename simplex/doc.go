// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simplex implements a revised primal simplex method for sparse
// linear programs with general bounds.
//
// The engine maintains the basis inverse as a sparse LU factorization
// extended by an eta file of product-form updates, one per pivot. Entering
// variables are selected by Dantzig, partial, steepest-edge or devex
// pricing; leaving variables by a Harris two-pass ratio test. Feasibility is
// restored in phase 1 under a composite infeasibility objective, and a
// bounded deterministic perturbation of the bounds guards phase 2 against
// cycling. Interior-point solutions can be converted to vertex bases through
// the crossover entry point SolveFrom.
//
// The solver is single-threaded per model. Cancellation is cooperative: a
// terminate flag (the solver's own, the shared environment's, or an external
// one) is polled every iteration and once per superbasic variable in the
// crossover push loop. Pricing scans and the crossover bound-snap passes do
// not poll it.
package simplex // import "github.com/feldspar-lp/feldspar/simplex"
