// Copyright ©2026 The Feldspar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex_test

import (
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/feldspar-lp/feldspar/lp"
	"github.com/feldspar-lp/feldspar/simplex"
)

// Example_iterationGrowth solves a family of growing transportation-style
// programs and plots iterations against size. It illustrates how the
// solver's counters combine with gonum/plot for quick engine diagnostics.
func Example_iterationGrowth() {
	pts := make(plotter.XYs, 0, 8)
	for size := 2; size <= 16; size *= 2 {
		p := lp.New()
		for j := 0; j < size; j++ {
			p.AddVariable(float64(j%3)-1, 0, 10)
		}
		for i := 0; i < size; i++ {
			idx := []int{i, (i + 1) % size}
			p.AddConstraint(lp.LE, 5, idx, []float64{1, 2})
		}
		set := lp.DefaultSettings()
		set.Seed = 1
		set.Verbose = 0
		res, err := simplex.Solve(p, set)
		if err != nil {
			log.Fatal(err)
		}
		pts = append(pts, plotter.XY{X: float64(size), Y: float64(res.Iterations)})
	}

	pl := plot.New()
	pl.Title.Text = "simplex iterations by model size"
	pl.X.Label.Text = "columns"
	pl.Y.Label.Text = "iterations"
	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatal(err)
	}
	pl.Add(line, plotter.NewGrid())

	dir, err := os.MkdirTemp("", "trace")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)
	if err := pl.Save(12*vg.Centimeter, 8*vg.Centimeter, filepath.Join(dir, "iters.png")); err != nil {
		log.Fatal(err)
	}
}
