// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcsv reads CSV files of parallel-benchmark measurements.
//
// Each record describes one timed run of one implementation of the
// benchmarked program at a given thread count and problem size. The
// reader validates the header, parses every row eagerly, and returns
// an immutable in-memory table. Parse failures are reported as
// *LoadError values carrying the file name and line number.
//
// This package is designed to be used with the higher-level packages
// benchagg, benchchart, and benchreport.
package benchcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// A Row is a single benchmark measurement.
type Row struct {
	// Implementation is the categorical label distinguishing the
	// sequential, base-parallel, and optimized-parallel variants
	// of the benchmarked program.
	Implementation string

	// NumThreads is the number of worker threads used for the run.
	NumThreads int

	// NumCircles is the problem size (number of simulated circles).
	NumCircles int

	// ExecutionTime is the wall-clock run time in seconds.
	ExecutionTime float64

	// Speedup is the ratio of sequential run time to this run's time.
	Speedup float64

	// Efficiency is Speedup divided by NumThreads, as a percentage.
	Efficiency float64
}

// A Table is a set of measurement rows read from one file.
//
// A Table is read-only after loading. Callers share Tables freely;
// none of the packages in this module mutate one.
type Table struct {
	// Rows are the measurements in file order.
	Rows []Row

	// Cols are the column names from the file header, in file
	// order, including any extra columns beyond the required set.
	Cols []string
}

// RequiredCols lists the columns a measurement file must provide.
// Extra columns are allowed and ignored.
var RequiredCols = []string{
	"Implementation",
	"NumThreads",
	"NumCircles",
	"ExecutionTime",
	"Speedup",
	"Efficiency",
}

// A LoadError reports a problem with the contents of a measurement
// file at a particular line.
type LoadError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// Pos returns the position of the error as a file name and a 1-based
// line number within that file.
func (e *LoadError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

// newLoadError converts a csv.Reader error into a *LoadError,
// unwrapping the reader's own position prefix when present.
func newLoadError(fileName string, line int, err error) *LoadError {
	if pe, ok := err.(*csv.ParseError); ok {
		return &LoadError{fileName, pe.Line, pe.Err.Error()}
	}
	return &LoadError{fileName, line, err.Error()}
}

// ReadFile reads the measurement table from the named CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading measurements: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read reads a measurement table in CSV form from r. fileName is used
// in error messages; it is purely diagnostic.
func Read(r io.Reader, fileName string) (*Table, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &LoadError{fileName, 1, "empty file"}
	}
	if err != nil {
		return nil, newLoadError(fileName, 1, err)
	}

	// Build the column index and check for the required set.
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, name := range RequiredCols {
		if _, ok := colIdx[name]; !ok {
			return nil, &LoadError{fileName, 1, fmt.Sprintf("missing %s column", name)}
		}
	}

	t := &Table{Cols: header}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newLoadError(fileName, line, err)
		}
		// The reader skips blank lines, so the physical line of the
		// record comes from the reader, not from counting records.
		line, _ = cr.FieldPos(0)

		var row Row
		var perr *LoadError
		field := func(name string) string { return rec[colIdx[name]] }
		atoi := func(name string) int {
			v, err := strconv.Atoi(field(name))
			if err != nil && perr == nil {
				perr = &LoadError{fileName, line, fmt.Sprintf("parsing %s: %s", name, err.(*strconv.NumError).Err)}
			}
			return v
		}
		atof := func(name string) float64 {
			v, err := strconv.ParseFloat(field(name), 64)
			if err != nil && perr == nil {
				perr = &LoadError{fileName, line, fmt.Sprintf("parsing %s: %s", name, err.(*strconv.NumError).Err)}
			}
			return v
		}

		row.Implementation = field("Implementation")
		row.NumThreads = atoi("NumThreads")
		row.NumCircles = atoi("NumCircles")
		row.ExecutionTime = atof("ExecutionTime")
		row.Speedup = atof("Speedup")
		row.Efficiency = atof("Efficiency")
		if perr != nil {
			return nil, perr
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Len returns the number of measurement rows in the table.
func (t *Table) Len() int { return len(t.Rows) }

// Implementations returns the distinct implementation labels in
// first-seen order.
func (t *Table) Implementations() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		if !seen[r.Implementation] {
			seen[r.Implementation] = true
			labels = append(labels, r.Implementation)
		}
	}
	return labels
}
