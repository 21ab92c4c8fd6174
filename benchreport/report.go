// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchreport formats per-implementation summaries of
// benchmark measurements as text or HTML tables.
package benchreport

import (
	"fmt"
	"io"

	"github.com/perftools/scaleplot/benchagg"
	"github.com/perftools/scaleplot/benchcsv"
)

// An ImplSummary aggregates all measurements of one implementation.
type ImplSummary struct {
	Implementation string
	Baseline       bool // true for the sequential baseline label
	Runs           int
	MeanSpeedup    float64
	MaxSpeedup     float64
	MeanEfficiency float64
	MeanTime       float64 // seconds
}

// Summarize computes one summary per implementation label, sorted by
// label. The baseline label is included and marked.
func Summarize(rows []benchcsv.Row, baseline string) []ImplSummary {
	meanUp := benchagg.MeanByImplementation(rows, benchagg.ColSpeedup)
	maxUp := toMap(benchagg.MaxByImplementation(rows, benchagg.ColSpeedup))
	meanEff := toMap(benchagg.MeanByImplementation(rows, benchagg.ColEfficiency))
	meanTime := toMap(benchagg.MeanByImplementation(rows, benchagg.ColExecutionTime))
	runs := make(map[string]int)
	for _, r := range rows {
		runs[r.Implementation]++
	}

	out := make([]ImplSummary, len(meanUp))
	for i, iv := range meanUp {
		out[i] = ImplSummary{
			Implementation: iv.Implementation,
			Baseline:       iv.Implementation == baseline,
			Runs:           runs[iv.Implementation],
			MeanSpeedup:    iv.Value,
			MaxSpeedup:     maxUp[iv.Implementation],
			MeanEfficiency: meanEff[iv.Implementation],
			MeanTime:       meanTime[iv.Implementation],
		}
	}
	return out
}

func toMap(vals []benchagg.ImplValue) map[string]float64 {
	m := make(map[string]float64, len(vals))
	for _, v := range vals {
		m[v.Implementation] = v.Value
	}
	return m
}

func (s ImplSummary) name() string {
	if s.Baseline {
		return s.Implementation + " (baseline)"
	}
	return s.Implementation
}

// FormatText writes the summaries as an aligned text table.
func FormatText(w io.Writer, summaries []ImplSummary) {
	rows := make([][]string, 0, len(summaries)+1)
	rows = append(rows, []string{"implementation", "runs", "speedup", "max", "efficiency", "time"})
	for _, s := range summaries {
		rows = append(rows, []string{
			s.name(),
			fmt.Sprint(s.Runs),
			fmt.Sprintf("%.2fx", s.MeanSpeedup),
			fmt.Sprintf("%.2fx", s.MaxSpeedup),
			fmt.Sprintf("%.1f%%", s.MeanEfficiency),
			fmt.Sprintf("%.3fs", s.MeanTime),
		})
	}

	// Compute the maximum width of each column.
	max := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > max[i] {
				max[i] = len(cell)
			}
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if i == 0 {
				fmt.Fprintf(w, "%-*s", max[i], cell)
			} else {
				fmt.Fprintf(w, "  %*s", max[i], cell)
			}
		}
		fmt.Fprint(w, "\n")
	}
}
