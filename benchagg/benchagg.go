// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg groups and aggregates benchmark measurements.
//
// All functions are pure: they take a slice of rows and return
// aggregated views without retaining or mutating their input. Group
// keys in every result are sorted, so results do not depend on the
// order of rows in the source file.
package benchagg

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/perftools/scaleplot/benchcsv"
)

// Column names understood by the grouping helpers. The key columns
// are the categorical dimensions; the metric columns are numeric.
const (
	ColImplementation = "Implementation"
	ColNumThreads     = "NumThreads"
	ColNumCircles     = "NumCircles"
	ColExecutionTime  = "ExecutionTime"
	ColSpeedup        = "Speedup"
	ColEfficiency     = "Efficiency"
)

// Exclude returns the rows whose implementation label differs from
// label. It is used to drop the sequential baseline before charting.
func Exclude(rows []benchcsv.Row, label string) []benchcsv.Row {
	var out []benchcsv.Row
	for _, r := range rows {
		if r.Implementation != label {
			out = append(out, r)
		}
	}
	return out
}

// Table converts rows into a go-gg column table with one column per
// Row field, suitable for grouping with ggstat.
func Table(rows []benchcsv.Row) *table.Table {
	n := len(rows)
	impls := make([]string, n)
	threads := make([]int, n)
	circles := make([]int, n)
	times := make([]float64, n)
	speedups := make([]float64, n)
	effs := make([]float64, n)
	for i, r := range rows {
		impls[i] = r.Implementation
		threads[i] = r.NumThreads
		circles[i] = r.NumCircles
		times[i] = r.ExecutionTime
		speedups[i] = r.Speedup
		effs[i] = r.Efficiency
	}
	return new(table.Builder).
		Add(ColImplementation, impls).
		Add(ColNumThreads, threads).
		Add(ColNumCircles, circles).
		Add(ColExecutionTime, times).
		Add(ColSpeedup, speedups).
		Add(ColEfficiency, effs).
		Done()
}

// aggMean is a ggstat.Aggregator like ggstat.AggMean, except that it
// sums the values of each group in sorted order, so aggregated means
// are bit-for-bit independent of row order in the source file.
func aggMean(col string) ggstat.Aggregator {
	return func(input table.Grouping, output *table.Builder) {
		gids := input.Tables()
		means := make([]float64, len(gids))
		for i, gid := range gids {
			means[i] = sortedMean(input.Table(gid).MustColumn(col).([]float64))
		}
		output.Add("mean "+col, means)
	}
}

func sortedMean(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	var sum float64
	for _, x := range sorted {
		sum += x
	}
	return sum / float64(len(sorted))
}

// An ImplValue is one implementation label with an aggregated metric
// value.
type ImplValue struct {
	Implementation string
	Value          float64
}

// MeanByImplementation computes the mean of metric per implementation
// label. Results are sorted by label.
func MeanByImplementation(rows []benchcsv.Row, metric string) []ImplValue {
	return byImplementation(rows, metric, aggMean(metric), "mean ")
}

// MaxByImplementation computes the maximum of metric per
// implementation label. Results are sorted by label.
func MaxByImplementation(rows []benchcsv.Row, metric string) []ImplValue {
	return byImplementation(rows, metric, ggstat.AggMax(metric), "max ")
}

// MinByImplementation computes the minimum of metric per
// implementation label. Results are sorted by label.
func MinByImplementation(rows []benchcsv.Row, metric string) []ImplValue {
	return byImplementation(rows, metric, ggstat.AggMin(metric), "min ")
}

func byImplementation(rows []benchcsv.Row, metric string, agg ggstat.Aggregator, prefix string) []ImplValue {
	if len(rows) == 0 {
		return nil
	}
	g := ggstat.Agg(ColImplementation)(agg).F(Table(rows))
	g = table.SortBy(g, ColImplementation)
	t := g.Table(g.Tables()[0])
	impls := t.MustColumn(ColImplementation).([]string)
	vals := t.MustColumn(prefix + metric).([]float64)
	out := make([]ImplValue, len(impls))
	for i := range impls {
		out[i] = ImplValue{impls[i], vals[i]}
	}
	return out
}

// A Series is the aggregated metric for one implementation across the
// sorted distinct values of a key column.
type Series struct {
	Implementation string
	Xs             []int
	Ys             []float64
}

// MeanSeries computes, for each implementation label, the mean of
// metric at each distinct value of the key column. Series are sorted
// by label and points by key value, so the result is independent of
// row order. Implementations missing a key value simply have no point
// there.
func MeanSeries(rows []benchcsv.Row, key, metric string) []Series {
	g := ggstat.Agg(key, ColImplementation)(aggMean(metric)).F(Table(rows))
	g = table.SortBy(g, ColImplementation, key)
	t := g.Table(g.Tables()[0])
	xs := t.MustColumn(key).([]int)
	impls := t.MustColumn(ColImplementation).([]string)
	vals := t.MustColumn("mean " + metric).([]float64)

	var out []Series
	for i := range xs {
		if len(out) == 0 || out[len(out)-1].Implementation != impls[i] {
			out = append(out, Series{Implementation: impls[i]})
		}
		s := &out[len(out)-1]
		s.Xs = append(s.Xs, xs[i])
		s.Ys = append(s.Ys, vals[i])
	}
	return out
}

// Keys returns the sorted distinct values of an integer key column.
func Keys(rows []benchcsv.Row, key string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range rows {
		v := intKey(r, key)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func intKey(r benchcsv.Row, key string) int {
	switch key {
	case ColNumThreads:
		return r.NumThreads
	case ColNumCircles:
		return r.NumCircles
	}
	panic("benchagg: unknown key column " + key)
}

// A Matrix is a mean-aggregated metric over two integer key columns.
// Cells with no measurements are NaN.
type Matrix struct {
	RowKeys []int // sorted distinct row-key values
	ColKeys []int // sorted distinct column-key values
	Values  [][]float64
}

// PivotMean computes the mean of metric for every (rowKey, colKey)
// pair present in rows.
func PivotMean(rows []benchcsv.Row, rowKey, colKey, metric string) *Matrix {
	m := &Matrix{
		RowKeys: Keys(rows, rowKey),
		ColKeys: Keys(rows, colKey),
	}
	rowIdx := make(map[int]int, len(m.RowKeys))
	for i, v := range m.RowKeys {
		rowIdx[v] = i
	}
	colIdx := make(map[int]int, len(m.ColKeys))
	for i, v := range m.ColKeys {
		colIdx[v] = i
	}
	m.Values = make([][]float64, len(m.RowKeys))
	for i := range m.Values {
		m.Values[i] = make([]float64, len(m.ColKeys))
		for j := range m.Values[i] {
			m.Values[i][j] = math.NaN()
		}
	}

	// Groups exist only for (rowKey, colKey) pairs with measurements,
	// so every aggregated tuple fills exactly one cell.
	g := ggstat.Agg(rowKey, colKey)(aggMean(metric)).F(Table(rows))
	t := g.Table(g.Tables()[0])
	rks := t.MustColumn(rowKey).([]int)
	cks := t.MustColumn(colKey).([]int)
	vals := t.MustColumn("mean " + metric).([]float64)
	for i := range rks {
		m.Values[rowIdx[rks[i]]][colIdx[cks[i]]] = vals[i]
	}
	return m
}

// Improvement computes the percent change in the mean of metric from
// the base implementation to the optimized one at each distinct value
// of the key column: (opt-base)/base*100, or 0 when the base mean is
// not positive or either label has no measurements there. Key values
// are sorted ascending.
func Improvement(rows []benchcsv.Row, base, opt, key, metric string) ([]int, []float64) {
	keys := Keys(rows, key)
	pcts := make([]float64, len(keys))
	for i, k := range keys {
		var baseVals, optVals []float64
		for _, r := range rows {
			if intKey(r, key) != k {
				continue
			}
			switch r.Implementation {
			case base:
				baseVals = append(baseVals, metricValue(r, metric))
			case opt:
				optVals = append(optVals, metricValue(r, metric))
			}
		}
		if len(baseVals) == 0 || len(optVals) == 0 {
			continue
		}
		baseMean := sortedMean(baseVals)
		optMean := sortedMean(optVals)
		if baseMean > 0 {
			pcts[i] = (optMean - baseMean) / baseMean * 100
		}
	}
	return keys, pcts
}

func metricValue(r benchcsv.Row, metric string) float64 {
	switch metric {
	case ColExecutionTime:
		return r.ExecutionTime
	case ColSpeedup:
		return r.Speedup
	case ColEfficiency:
		return r.Efficiency
	}
	panic("benchagg: unknown metric column " + metric)
}

// A Summary holds the basic statistics of one group of measurements.
type Summary struct {
	N    int
	Mean float64
	Min  float64
	Max  float64
}

// Summarize computes the summary statistics of values.
func Summarize(values []float64) Summary {
	min, max := stats.Bounds(values)
	return Summary{
		N:    len(values),
		Mean: stats.Mean(values),
		Min:  min,
		Max:  max,
	}
}

// TrimOutlierRows drops rows whose speedup is an outlier within its
// (implementation, threads, circles) group by the interquartile range
// rule, preserving row order. Groups too small to establish quartiles
// are kept whole.
func TrimOutlierRows(rows []benchcsv.Row) []benchcsv.Row {
	type groupKey struct {
		impl             string
		threads, circles int
	}
	groups := make(map[groupKey][]float64)
	for _, r := range rows {
		k := groupKey{r.Implementation, r.NumThreads, r.NumCircles}
		groups[k] = append(groups[k], r.Speedup)
	}

	bounds := make(map[groupKey][2]float64, len(groups))
	for k, vals := range groups {
		if len(vals) < 4 {
			continue
		}
		s := stats.Sample{Xs: vals}
		q1, q3 := s.Quantile(0.25), s.Quantile(0.75)
		bounds[k] = [2]float64{q1 - 1.5*(q3-q1), q3 + 1.5*(q3-q1)}
	}

	var out []benchcsv.Row
	for _, r := range rows {
		k := groupKey{r.Implementation, r.NumThreads, r.NumCircles}
		if b, ok := bounds[k]; ok && (r.Speedup < b[0] || r.Speedup > b[1]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TrimOutliers returns values with outliers removed by the
// interquartile range rule: values outside [Q1-1.5*IQR, Q3+1.5*IQR]
// are dropped.
func TrimOutliers(values []float64) []float64 {
	s := stats.Sample{Xs: values}
	q1, q3 := s.Quantile(0.25), s.Quantile(0.75)
	lo, hi := q1-1.5*(q3-q1), q3+1.5*(q3-q1)
	var out []float64
	for _, v := range values {
		if lo <= v && v <= hi {
			out = append(out, v)
		}
	}
	return out
}
