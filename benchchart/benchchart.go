// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders the fixed set of comparison charts from
// benchmark measurements.
//
// Each report builder aggregates the parallel rows (the sequential
// baseline is excluded), lays out four panels on one canvas, and
// writes a PNG. Builders are idempotent: rendering the same rows to
// the same path overwrites the file with the same content.
package benchchart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/perftools/scaleplot/benchcsv"
)

// A Config selects the implementation labels the reports compare.
// The zero Config uses the measurement labels of the original
// benchmark suite.
type Config struct {
	// Baseline is the sequential label excluded from every chart.
	Baseline string

	// Base and Optimized are the two parallel labels compared by
	// the improvement panels. When empty, they default to the
	// first and last remaining labels in sorted order.
	Base, Optimized string
}

// DefaultConfig matches the labels emitted by the benchmarked
// program.
var DefaultConfig = Config{
	Baseline:  "SECUENCIAL",
	Base:      "PARALELO_BASE",
	Optimized: "PARALELO_OPTIMIZADO",
}

// A Report is one named chart builder.
type Report struct {
	// Name is the output file name, fixed per report.
	Name string

	// Title heads every panel of the report.
	Title string

	Build func(rows []benchcsv.Row, cfg Config, path string) error
}

// Reports lists the five comparison charts in generation order.
var Reports = []Report{
	{"openmp_advanced_analysis.png", "Advanced OpenMP Clauses", OpenMPAdvanced},
	{"data_structures_analysis.png", "Data Structure Optimization", DataStructures},
	{"memory_access_analysis.png", "Memory Access Optimization", MemoryAccess},
	{"other_mechanisms_analysis.png", "Other Optimization Mechanisms", OtherMechanisms},
	{"speedup_comparison.png", "Base vs Optimized", SpeedupComparison},
}

// WriteAll renders every report into dir, creating it if absent.
// Charts already written remain on disk if a later one fails.
func WriteAll(rows []benchcsv.Row, cfg Config, dir string, logf func(format string, args ...interface{})) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for _, r := range Reports {
		path := filepath.Join(dir, r.Name)
		if err := r.Build(rows, cfg, path); err != nil {
			return fmt.Errorf("rendering %s: %w", r.Name, err)
		}
		if logf != nil {
			logf("wrote %s", path)
		}
	}
	return nil
}

// resolve fills Config defaults from the rows: the baseline label
// from DefaultConfig and the base/optimized pair from the sorted
// remaining labels.
func (cfg Config) resolve(rows []benchcsv.Row) Config {
	if cfg.Baseline == "" {
		cfg.Baseline = DefaultConfig.Baseline
	}
	if cfg.Base == "" || cfg.Optimized == "" {
		labels := parallelLabels(rows, cfg.Baseline)
		if cfg.Base == "" && len(labels) > 0 {
			cfg.Base = labels[0]
		}
		if cfg.Optimized == "" && len(labels) > 0 {
			cfg.Optimized = labels[len(labels)-1]
		}
	}
	return cfg
}

// Canvas geometry matches the original report layout: a 2x2 panel
// grid on a 16x12 inch canvas at 300 DPI.
const (
	gridWidth  = 16 * vg.Inch
	gridHeight = 12 * vg.Inch
	gridDPI    = 300
)

// writeGrid lays the panels out in a 2x2 grid and writes the whole
// canvas to path as a PNG. The parent directory is created if absent.
func writeGrid(plots [2][2]*plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(gridWidth, gridHeight),
		vgimg.UseDPI(gridDPI),
		vgimg.UseBackgroundColor(color.White),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Millimeter * 6, PadY: vg.Millimeter * 6,
		PadTop: vg.Millimeter * 4, PadBottom: vg.Millimeter * 4,
		PadLeft: vg.Millimeter * 4, PadRight: vg.Millimeter * 4,
	}

	rows := [][]*plot.Plot{
		{plots[0][0], plots[0][1]},
		{plots[1][0], plots[1][1]},
	}
	canvases := plot.Align(rows, tiles, dc)
	for r := range rows {
		for c := range rows[r] {
			if rows[r][c] != nil {
				rows[r][c].Draw(canvases[r][c])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatSeconds(v float64) string    { return fmt.Sprintf("%.3fs", v) }
func formatPercent(v float64) string    { return fmt.Sprintf("%.1f%%", v) }
func formatMultiplier(v float64) string { return fmt.Sprintf("%.2fx", v) }
