// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"

	"github.com/perftools/scaleplot/benchagg"
	"github.com/perftools/scaleplot/benchcsv"
)

var errNoParallelRows = errors.New("no parallel measurements after excluding the baseline")

// OpenMPAdvanced renders the advanced-clauses report: thread scaling
// of speedup and efficiency, speedup per problem size, and mean run
// time per implementation.
func OpenMPAdvanced(rows []benchcsv.Row, cfg Config, path string) error {
	cfg = cfg.resolve(rows)
	par := benchagg.Exclude(rows, cfg.Baseline)
	if len(par) == 0 {
		return errNoParallelRows
	}
	const title = "Advanced OpenMP Clauses"

	a := newPanel(title, "Speedup vs Number of Threads", "Number of Threads", "Speedup")
	if err := lineSeries(a, benchagg.MeanSeries(par, benchagg.ColNumThreads, benchagg.ColSpeedup)); err != nil {
		return err
	}

	b := newPanel(title, "Efficiency vs Number of Threads", "Number of Threads", "Efficiency (%)")
	if err := lineSeries(b, benchagg.MeanSeries(par, benchagg.ColNumThreads, benchagg.ColEfficiency)); err != nil {
		return err
	}

	c := newPanel(title, "Speedup vs Number of Circles", "Number of Circles", "Speedup")
	if err := groupedBars(c, benchagg.Keys(par, benchagg.ColNumCircles),
		benchagg.MeanSeries(par, benchagg.ColNumCircles, benchagg.ColSpeedup)); err != nil {
		return err
	}

	d := newPanel(title, "Run Time by Implementation", "", "Mean Run Time (s)")
	times := sortByValue(benchagg.MeanByImplementation(par, benchagg.ColExecutionTime), true)
	names, values := splitImplValues(times)
	if err := valueBars(d, names, values, plotutil.Color(0), formatSeconds); err != nil {
		return err
	}

	return writeGrid([2][2]*plot.Plot{{a, b}, {c, d}}, path)
}

// DataStructures renders the data-structure optimization report:
// improvement per problem size, efficiency ranking, thread scaling,
// and per-configuration speedup.
func DataStructures(rows []benchcsv.Row, cfg Config, path string) error {
	cfg = cfg.resolve(rows)
	par := benchagg.Exclude(rows, cfg.Baseline)
	if len(par) == 0 {
		return errNoParallelRows
	}
	const title = "Data Structure Optimization"

	a := newPanel(title, "Improvement vs Problem Size", "Number of Circles", "Improvement (%)")
	keys, pcts := benchagg.Improvement(par, cfg.Base, cfg.Optimized, benchagg.ColNumCircles, benchagg.ColSpeedup)
	if err := valueBars(a, intLabels(keys), pcts, plotutil.Color(2), formatPercent); err != nil {
		return err
	}

	b := newPanel(title, "Efficiency by Implementation", "Mean Efficiency (%)", "")
	effs := sortByValue(benchagg.MeanByImplementation(par, benchagg.ColEfficiency), false)
	names, values := splitImplValues(effs)
	if err := hbars(b, names, values, plotutil.Color(0), formatPercent); err != nil {
		return err
	}

	c := newPanel(title, "Scalability vs Number of Threads", "Number of Threads", "Speedup")
	if err := lineSeries(c, benchagg.MeanSeries(par, benchagg.ColNumThreads, benchagg.ColSpeedup)); err != nil {
		return err
	}

	d := newPanel(title, "Speedup by Configuration", "Number of Circles", "Mean Speedup")
	if err := groupedBars(d, benchagg.Keys(par, benchagg.ColNumCircles),
		benchagg.MeanSeries(par, benchagg.ColNumCircles, benchagg.ColSpeedup)); err != nil {
		return err
	}

	return writeGrid([2][2]*plot.Plot{{a, b}, {c, d}}, path)
}

// MemoryAccess renders the memory-access optimization report: run
// time scaling, improvement per thread count, efficiency per problem
// size, and speedup ranking.
func MemoryAccess(rows []benchcsv.Row, cfg Config, path string) error {
	cfg = cfg.resolve(rows)
	par := benchagg.Exclude(rows, cfg.Baseline)
	if len(par) == 0 {
		return errNoParallelRows
	}
	const title = "Memory Access Optimization"

	a := newPanel(title, "Run Time vs Number of Threads", "Number of Threads", "Run Time (s)")
	if err := lineSeries(a, benchagg.MeanSeries(par, benchagg.ColNumThreads, benchagg.ColExecutionTime)); err != nil {
		return err
	}

	b := newPanel(title, "Improvement vs Number of Threads", "Number of Threads", "Improvement (%)")
	keys, pcts := benchagg.Improvement(par, cfg.Base, cfg.Optimized, benchagg.ColNumThreads, benchagg.ColSpeedup)
	if err := valueBars(b, intLabels(keys), pcts, plotutil.Color(3), formatPercent); err != nil {
		return err
	}

	c := newPanel(title, "Efficiency vs Problem Size", "Number of Circles", "Efficiency (%)")
	if err := groupedBars(c, benchagg.Keys(par, benchagg.ColNumCircles),
		benchagg.MeanSeries(par, benchagg.ColNumCircles, benchagg.ColEfficiency)); err != nil {
		return err
	}

	d := newPanel(title, "Throughput by Implementation", "Mean Speedup", "")
	ups := sortByValue(benchagg.MeanByImplementation(par, benchagg.ColSpeedup), false)
	names, values := splitImplValues(ups)
	if err := hbars(d, names, values, plotutil.Color(0), formatMultiplier); err != nil {
		return err
	}

	return writeGrid([2][2]*plot.Plot{{a, b}, {c, d}}, path)
}

// OtherMechanisms renders the remaining-mechanisms report: thread and
// size scaling, peak speedup ranking, and the scalability heat map.
func OtherMechanisms(rows []benchcsv.Row, cfg Config, path string) error {
	cfg = cfg.resolve(rows)
	par := benchagg.Exclude(rows, cfg.Baseline)
	if len(par) == 0 {
		return errNoParallelRows
	}
	const title = "Other Optimization Mechanisms"

	a := newPanel(title, "Speedup vs Number of Threads", "Number of Threads", "Speedup")
	if err := lineSeries(a, benchagg.MeanSeries(par, benchagg.ColNumThreads, benchagg.ColSpeedup)); err != nil {
		return err
	}

	b := newPanel(title, "Efficiency vs Problem Size", "Number of Circles", "Efficiency (%)")
	if err := lineSeries(b, benchagg.MeanSeries(par, benchagg.ColNumCircles, benchagg.ColEfficiency)); err != nil {
		return err
	}

	c := newPanel(title, "Peak Speedup by Implementation", "Max Speedup", "")
	peaks := sortByValue(benchagg.MaxByImplementation(par, benchagg.ColSpeedup), false)
	names, values := splitImplValues(peaks)
	if err := hbars(c, names, values, plotutil.Color(0), formatMultiplier); err != nil {
		return err
	}

	d := newPanel(title, "Scalability Heat Map", "Number of Circles", "Number of Threads")
	m := benchagg.PivotMean(par, benchagg.ColNumThreads, benchagg.ColNumCircles, benchagg.ColSpeedup)
	if err := heatmap(d, m, func(v float64) string { return fmt.Sprintf("%.2f", v) }); err != nil {
		return err
	}

	return writeGrid([2][2]*plot.Plot{{a, b}, {c, d}}, path)
}

// SpeedupComparison renders the overall base-vs-optimized report.
func SpeedupComparison(rows []benchcsv.Row, cfg Config, path string) error {
	cfg = cfg.resolve(rows)
	par := benchagg.Exclude(rows, cfg.Baseline)
	if len(par) == 0 {
		return errNoParallelRows
	}
	const title = "Base vs Optimized"

	a := newPanel(title, "Mean Speedup", "Mean Speedup", "")
	ups := sortByValue(benchagg.MeanByImplementation(par, benchagg.ColSpeedup), false)
	names, values := splitImplValues(ups)
	if err := hbars(a, names, values, plotutil.Color(0), formatMultiplier); err != nil {
		return err
	}

	b := newPanel(title, "Speedup vs Number of Threads", "Number of Threads", "Speedup")
	if err := lineSeries(b, benchagg.MeanSeries(par, benchagg.ColNumThreads, benchagg.ColSpeedup)); err != nil {
		return err
	}

	c := newPanel(title, "Speedup vs Number of Circles", "Number of Circles", "Speedup")
	if err := groupedBars(c, benchagg.Keys(par, benchagg.ColNumCircles),
		benchagg.MeanSeries(par, benchagg.ColNumCircles, benchagg.ColSpeedup)); err != nil {
		return err
	}

	// Overall improvement between the configured pair.
	baseMean, optMean := pairMeans(par, cfg.Base, cfg.Optimized)
	subtitle := "Final Comparison"
	if baseMean > 0 {
		subtitle = fmt.Sprintf("Final Comparison, Improvement: %.1f%%", (optMean-baseMean)/baseMean*100)
	}
	d := newPanel(title, subtitle, "", "Mean Speedup")
	if err := valueBars(d, []string{cfg.Base, cfg.Optimized}, []float64{baseMean, optMean},
		plotutil.Color(1), formatMultiplier); err != nil {
		return err
	}

	return writeGrid([2][2]*plot.Plot{{a, b}, {c, d}}, path)
}

// pairMeans returns the mean speedup of the two compared labels.
func pairMeans(rows []benchcsv.Row, base, opt string) (baseMean, optMean float64) {
	for _, iv := range benchagg.MeanByImplementation(rows, benchagg.ColSpeedup) {
		switch iv.Implementation {
		case base:
			baseMean = iv.Value
		case opt:
			optMean = iv.Value
		}
	}
	return
}
