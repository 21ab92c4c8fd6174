// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("summary").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Parallel Benchmark Summary</title>
<style>
.scaleplot { border-collapse: collapse; }
.scaleplot th:nth-child(1) { text-align: left; }
.scaleplot td, .scaleplot th { padding: 0.2em 1em; }
.scaleplot tbody td:nth-child(1n+2) { text-align: right; }
.scaleplot tr th { border-top: 1px solid #666; border-bottom: 1px solid #ccc; }
.scaleplot .baseline td { color: #666; }
</style>
</head>
<body>
<table class='scaleplot'>
<tr><th>implementation<th>runs<th>speedup<th>max<th>efficiency<th>time
<tbody>
{{range . -}}
<tr{{if .Baseline}} class='baseline'{{end}}><td>{{.Name}}<td>{{.Runs}}<td>{{.MeanSpeedup}}<td>{{.MaxSpeedup}}<td>{{.MeanEfficiency}}<td>{{.MeanTime}}
{{end -}}
</tbody>
</table>
</body>
</html>
`))

// htmlRow is one preformatted table row for htmlTemplate.
type htmlRow struct {
	Name           string
	Baseline       bool
	Runs           int
	MeanSpeedup    string
	MaxSpeedup     string
	MeanEfficiency string
	MeanTime       string
}

// FormatHTML writes the summaries as a standalone HTML page.
func FormatHTML(w io.Writer, summaries []ImplSummary) error {
	rows := make([]htmlRow, len(summaries))
	for i, s := range summaries {
		rows[i] = htmlRow{
			Name:           s.name(),
			Baseline:       s.Baseline,
			Runs:           s.Runs,
			MeanSpeedup:    fmt.Sprintf("%.2fx", s.MeanSpeedup),
			MaxSpeedup:     fmt.Sprintf("%.2fx", s.MaxSpeedup),
			MeanEfficiency: fmt.Sprintf("%.1f%%", s.MeanEfficiency),
			MeanTime:       fmt.Sprintf("%.3fs", s.MeanTime),
		}
	}
	return htmlTemplate.Execute(w, rows)
}
