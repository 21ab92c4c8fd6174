// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"math"
	"reflect"
	"testing"

	"github.com/perftools/scaleplot/benchcsv"
)

// fixture is a balanced parallel measurement set with means chosen to
// be exact in binary floating point.
var fixture = []benchcsv.Row{
	{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 4.0, Speedup: 1.5, Efficiency: 75.0},
	{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 3.0, Speedup: 2.5, Efficiency: 125.0},
	{Implementation: "PARALELO_BASE", NumThreads: 4, NumCircles: 1000, ExecutionTime: 2.0, Speedup: 3.0, Efficiency: 75.0},
	{Implementation: "PARALELO_BASE", NumThreads: 4, NumCircles: 1000, ExecutionTime: 1.5, Speedup: 5.0, Efficiency: 125.0},
	{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 2000, ExecutionTime: 8.0, Speedup: 2.0, Efficiency: 100.0},
	{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 2, NumCircles: 1000, ExecutionTime: 3.0, Speedup: 2.0, Efficiency: 100.0},
	{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 2, NumCircles: 1000, ExecutionTime: 1.5, Speedup: 4.0, Efficiency: 200.0},
	{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 4, NumCircles: 1000, ExecutionTime: 1.0, Speedup: 5.0, Efficiency: 125.0},
	{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 4, NumCircles: 1000, ExecutionTime: 0.5, Speedup: 7.0, Efficiency: 175.0},
	{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 2, NumCircles: 2000, ExecutionTime: 5.0, Speedup: 3.0, Efficiency: 150.0},
}

// reversed returns rows in reverse order, for order-independence
// checks.
func reversed(rows []benchcsv.Row) []benchcsv.Row {
	out := make([]benchcsv.Row, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out
}

func TestExclude(t *testing.T) {
	rows := append([]benchcsv.Row{{Implementation: "SECUENCIAL", NumThreads: 1, NumCircles: 1000, ExecutionTime: 10.0, Speedup: 1.0, Efficiency: 100.0}}, fixture...)
	got := Exclude(rows, "SECUENCIAL")
	if !reflect.DeepEqual(got, fixture) {
		t.Errorf("got %d rows, want the %d parallel rows", len(got), len(fixture))
	}
	if got := Exclude(rows, "NO_SUCH_LABEL"); len(got) != len(rows) {
		t.Errorf("excluding an absent label dropped %d rows", len(rows)-len(got))
	}
}

func TestMeanByImplementationSingleLabel(t *testing.T) {
	rows := []benchcsv.Row{
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 4.0, Speedup: 1.5, Efficiency: 75.0},
		{Implementation: "PARALELO_BASE", NumThreads: 4, NumCircles: 1000, ExecutionTime: 2.0, Speedup: 2.5, Efficiency: 62.5},
	}
	got := MeanByImplementation(rows, ColSpeedup)
	if len(got) != 1 {
		t.Fatalf("got %d groups, want 1", len(got))
	}
	if got[0].Implementation != "PARALELO_BASE" || got[0].Value != 2.0 {
		t.Errorf("got %+v, want {PARALELO_BASE 2}", got[0])
	}
}

func TestMeanOfSingleRow(t *testing.T) {
	rows := fixture[:1]
	got := MeanByImplementation(rows, ColSpeedup)
	if len(got) != 1 || got[0].Value != rows[0].Speedup {
		t.Errorf("got %+v, want mean equal to the row's speedup %v", got, rows[0].Speedup)
	}
}

func TestMeanByImplementation(t *testing.T) {
	check := func(metric string, wantBase, wantOpt float64) {
		t.Helper()
		got := MeanByImplementation(fixture, metric)
		want := []ImplValue{
			{"PARALELO_BASE", wantBase},
			{"PARALELO_OPTIMIZADO", wantOpt},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", metric, got, want)
		}
	}
	check(ColSpeedup, 2.8, 4.2)
	check(ColEfficiency, 100.0, 150.0)
}

func TestMaxByImplementation(t *testing.T) {
	got := MaxByImplementation(fixture, ColSpeedup)
	want := []ImplValue{
		{"PARALELO_BASE", 5.0},
		{"PARALELO_OPTIMIZADO", 7.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMinByImplementation(t *testing.T) {
	got := MinByImplementation(fixture, ColSpeedup)
	want := []ImplValue{
		{"PARALELO_BASE", 1.5},
		{"PARALELO_OPTIMIZADO", 2.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMeanSeries(t *testing.T) {
	got := MeanSeries(fixture, ColNumThreads, ColSpeedup)
	want := []Series{
		{"PARALELO_BASE", []int{2, 4}, []float64{2.0, 4.0}},
		{"PARALELO_OPTIMIZADO", []int{2, 4}, []float64{3.0, 6.0}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrderIndependence(t *testing.T) {
	fwd := MeanSeries(fixture, ColNumThreads, ColSpeedup)
	rev := MeanSeries(reversed(fixture), ColNumThreads, ColSpeedup)
	if !reflect.DeepEqual(fwd, rev) {
		t.Errorf("series depend on row order:\nfwd: %v\nrev: %v", fwd, rev)
	}

	fwdM := MeanByImplementation(fixture, ColEfficiency)
	revM := MeanByImplementation(reversed(fixture), ColEfficiency)
	if !reflect.DeepEqual(fwdM, revM) {
		t.Errorf("means depend on row order:\nfwd: %v\nrev: %v", fwdM, revM)
	}
}

func TestKeys(t *testing.T) {
	if got, want := Keys(fixture, ColNumThreads), []int{2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := Keys(fixture, ColNumCircles), []int{1000, 2000}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPivotMean(t *testing.T) {
	m := PivotMean(fixture, ColNumThreads, ColNumCircles, ColSpeedup)
	if !reflect.DeepEqual(m.RowKeys, []int{2, 4}) || !reflect.DeepEqual(m.ColKeys, []int{1000, 2000}) {
		t.Fatalf("got keys %v x %v, want [2 4] x [1000 2000]", m.RowKeys, m.ColKeys)
	}
	// Threads=2, circles=1000: mean of 1.5, 2.5, 2.0, 4.0.
	if got := m.Values[0][0]; got != 2.5 {
		t.Errorf("cell (2,1000): got %v, want 2.5", got)
	}
	// Threads=4, circles=1000: mean of 3.0, 5.0, 5.0, 7.0.
	if got := m.Values[1][0]; got != 5.0 {
		t.Errorf("cell (4,1000): got %v, want 5", got)
	}
	// Threads=2, circles=2000: mean of 2.0, 3.0.
	if got := m.Values[0][1]; got != 2.5 {
		t.Errorf("cell (2,2000): got %v, want 2.5", got)
	}
	// No measurements at threads=4, circles=2000.
	if got := m.Values[1][1]; !math.IsNaN(got) {
		t.Errorf("cell (4,2000): got %v, want NaN", got)
	}
}

func TestImprovement(t *testing.T) {
	keys, pcts := Improvement(fixture, "PARALELO_BASE", "PARALELO_OPTIMIZADO", ColNumCircles, ColSpeedup)
	if !reflect.DeepEqual(keys, []int{1000, 2000}) {
		t.Fatalf("got keys %v, want [1000 2000]", keys)
	}
	// Circles=1000: base mean 3.0, optimized mean 4.5.
	if pcts[0] != 50.0 {
		t.Errorf("circles=1000: got %v%%, want 50%%", pcts[0])
	}
	// Circles=2000: base 2.0, optimized 3.0.
	if pcts[1] != 50.0 {
		t.Errorf("circles=2000: got %v%%, want 50%%", pcts[1])
	}
}

func TestImprovementMissingBase(t *testing.T) {
	rows := []benchcsv.Row{{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 2, NumCircles: 1000, ExecutionTime: 1.0, Speedup: 4.0, Efficiency: 200.0}}
	_, pcts := Improvement(rows, "PARALELO_BASE", "PARALELO_OPTIMIZADO", ColNumCircles, ColSpeedup)
	if pcts[0] != 0 {
		t.Errorf("got %v%%, want 0%% when the base label has no rows", pcts[0])
	}
}

func TestImprovementMissingOptimized(t *testing.T) {
	rows := []benchcsv.Row{
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 4.0, Speedup: 2.0, Efficiency: 100.0},
		{Implementation: "PARALELO_OPTIMIZADO", NumThreads: 2, NumCircles: 1000, ExecutionTime: 2.0, Speedup: 3.0, Efficiency: 150.0},
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 2000, ExecutionTime: 8.0, Speedup: 2.0, Efficiency: 100.0},
	}
	keys, pcts := Improvement(rows, "PARALELO_BASE", "PARALELO_OPTIMIZADO", ColNumCircles, ColSpeedup)
	if !reflect.DeepEqual(keys, []int{1000, 2000}) {
		t.Fatalf("got keys %v, want [1000 2000]", keys)
	}
	if pcts[0] != 50.0 {
		t.Errorf("circles=1000: got %v%%, want 50%%", pcts[0])
	}
	// No optimized rows at 2000 circles: no NaN, no bogus percentage.
	if pcts[1] != 0 {
		t.Errorf("circles=2000: got %v%%, want 0%% when the optimized label has no rows", pcts[1])
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1.0, 2.0, 3.0, 6.0})
	want := Summary{N: 4, Mean: 3.0, Min: 1.0, Max: 6.0}
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestTrimOutliers(t *testing.T) {
	vals := []float64{10, 11, 12, 13, 14, 100}
	got := TrimOutliers(vals)
	for _, v := range got {
		if v == 100 {
			t.Errorf("outlier 100 survived trimming: %v", got)
		}
	}
	if len(got) != 5 {
		t.Errorf("got %d values, want 5", len(got))
	}
}

func TestTrimOutlierRows(t *testing.T) {
	rows := []benchcsv.Row{
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 5.0, Speedup: 2.0, Efficiency: 100.0},
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 5.1, Speedup: 2.1, Efficiency: 105.0},
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 4.9, Speedup: 1.9, Efficiency: 95.0},
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 5.0, Speedup: 2.0, Efficiency: 100.0},
		{Implementation: "PARALELO_BASE", NumThreads: 2, NumCircles: 1000, ExecutionTime: 0.1, Speedup: 50.0, Efficiency: 2500.0},
	}
	got := TrimOutlierRows(rows)
	if len(got) != 4 {
		t.Fatalf("got %d rows, want 4", len(got))
	}
	for _, r := range got {
		if r.Speedup == 50.0 {
			t.Errorf("outlier run survived trimming")
		}
	}

	// Groups too small to establish quartiles are kept whole.
	small := rows[:3]
	if got := TrimOutlierRows(small); len(got) != 3 {
		t.Errorf("got %d rows, want all 3 of a small group", len(got))
	}
}
