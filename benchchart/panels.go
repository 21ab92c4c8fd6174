// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"image/color"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/perftools/scaleplot/benchagg"
	"github.com/perftools/scaleplot/benchcsv"
)

// parallelLabels returns the sorted distinct implementation labels
// other than the baseline.
func parallelLabels(rows []benchcsv.Row, baseline string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range rows {
		if r.Implementation != baseline && !seen[r.Implementation] {
			seen[r.Implementation] = true
			labels = append(labels, r.Implementation)
		}
	}
	sort.Strings(labels)
	return labels
}

// newPanel returns an empty titled panel with a light grid, shared by
// every panel of every report.
func newPanel(title, subtitle, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title + "\n" + subtitle
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{0xdd}
	grid.Horizontal.Color = color.Gray{0xdd}
	p.Add(grid)
	return p
}

// lineSeries adds one line-with-points series per implementation.
func lineSeries(p *plot.Plot, series []benchagg.Series) error {
	for i, s := range series {
		pts := make(plotter.XYs, len(s.Xs))
		for j := range s.Xs {
			pts[j] = plotter.XY{X: float64(s.Xs[j]), Y: s.Ys[j]}
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		points.Shape = plotutil.Shape(i)
		points.Color = line.Color
		p.Add(line, points)
		p.Legend.Add(s.Implementation, line, points)
	}
	p.Legend.Top = true
	return nil
}

// valueBars adds a single bar series over nominal categories with a
// formatted value label above each bar. A nil format omits labels.
func valueBars(p *plot.Plot, names []string, values []float64, clr color.Color, format func(float64) string) error {
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(28))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = clr
	p.Add(bars)
	p.NominalX(names...)

	if format == nil {
		return nil
	}
	labels := make([]string, len(values))
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		labels[i] = format(v)
		xys[i] = plotter.XY{X: float64(i), Y: v}
	}
	return addLabels(p, xys, labels, draw.XCenter, draw.YBottom)
}

// hbars adds a horizontal bar series with a formatted value label to
// the right of each bar.
func hbars(p *plot.Plot, names []string, values []float64, clr color.Color, format func(float64) string) error {
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(28))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = clr
	p.Add(bars)
	p.NominalY(names...)

	labels := make([]string, len(values))
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		labels[i] = format(v)
		xys[i] = plotter.XY{X: v, Y: float64(i)}
	}
	return addLabels(p, xys, labels, draw.XLeft, draw.YCenter)
}

// groupedBars adds one bar series per implementation, side by side
// within each nominal key category.
func groupedBars(p *plot.Plot, keys []int, series []benchagg.Series) error {
	w := vg.Points(18)
	for i, s := range series {
		vals := alignValues(keys, s)
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = w*vg.Length(i) - w*vg.Length(len(series))/2 + w/2
		p.Add(bars)
		p.Legend.Add(s.Implementation, bars)
	}
	p.Legend.Top = true
	p.NominalX(intLabels(keys)...)
	return nil
}

// alignValues spreads a series over the full key set, using zero for
// keys the series has no measurement at.
func alignValues(keys []int, s benchagg.Series) plotter.Values {
	vals := make(plotter.Values, len(keys))
	for i, k := range keys {
		for j, x := range s.Xs {
			if x == k {
				vals[i] = s.Ys[j]
				break
			}
		}
	}
	return vals
}

func intLabels(keys []int) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strconv.Itoa(k)
	}
	return names
}

// addLabels places formatted value labels at the given points.
func addLabels(p *plot.Plot, xys plotter.XYs, text []string, xAlign draw.XAlignment, yAlign draw.YAlignment) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(11)
		labels.TextStyle[i].XAlign = xAlign
		labels.TextStyle[i].YAlign = yAlign
	}
	p.Add(labels)
	return nil
}

// heatGrid adapts a benchagg.Matrix to the plotter grid interface.
// Cells are laid out by index so rows and columns are evenly spaced
// regardless of the key values.
type heatGrid struct {
	m *benchagg.Matrix
}

func (g heatGrid) Dims() (c, r int)   { return len(g.m.ColKeys), len(g.m.RowKeys) }
func (g heatGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }

// heatmap adds an annotated heat map of the matrix, with the column
// keys on X and the row keys on Y.
func heatmap(p *plot.Plot, m *benchagg.Matrix, format func(float64) string) error {
	pal := moreland.SmoothBlueRed().Palette(255)
	p.Add(plotter.NewHeatMap(heatGrid{m}, pal))

	p.X.Tick.Marker = indexTicks(m.ColKeys)
	p.Y.Tick.Marker = indexTicks(m.RowKeys)

	// Annotate each defined cell with its value.
	var xys plotter.XYs
	var text []string
	for r := range m.RowKeys {
		for c := range m.ColKeys {
			v := m.Values[r][c]
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			text = append(text, format(v))
		}
	}
	return addLabels(p, xys, text, draw.XCenter, draw.YCenter)
}

// indexTicks labels integer positions 0..n-1 with the given keys.
func indexTicks(keys []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(keys))
	for i, k := range keys {
		ticks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(k)}
	}
	return plot.ConstantTicks(ticks)
}

// sortByValue orders implementation values ascending or descending by
// value for the ranked bar panels.
func sortByValue(vals []benchagg.ImplValue, descending bool) []benchagg.ImplValue {
	out := make([]benchagg.ImplValue, len(vals))
	copy(out, vals)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Value > out[j].Value
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// splitImplValues separates labels and values for the bar helpers.
func splitImplValues(vals []benchagg.ImplValue) (names []string, values []float64) {
	names = make([]string, len(vals))
	values = make([]float64, len(vals))
	for i, v := range vals {
		names[i] = v.Implementation
		values[i] = v.Value
	}
	return
}
