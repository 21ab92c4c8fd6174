// Copyright 2024 The scaleplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scaleplot renders comparison charts from a CSV of parallel-benchmark
// measurements.
//
// Usage:
//
//	scaleplot [-o dir] [-baseline label] [-base label] [-optimized label]
//	          [-summary] [-html file] [-trim] [results.csv]
//
// The input file must be a CSV with the columns Implementation,
// NumThreads, NumCircles, ExecutionTime, Speedup, and Efficiency; one
// row per timed run. If no file is named, scaleplot reads
// data/main_optimized.csv.
//
// Scaleplot writes five PNG reports into the output directory
// (default "charts"), creating it if necessary:
//
//	openmp_advanced_analysis.png   thread scaling of speedup and efficiency
//	data_structures_analysis.png   improvement per problem size
//	memory_access_analysis.png     run-time scaling and improvement per thread count
//	other_mechanisms_analysis.png  peak speedup and the scalability heat map
//	speedup_comparison.png         overall base vs optimized comparison
//
// Every chart excludes the sequential baseline label (-baseline,
// default SECUENCIAL). The improvement panels compare the -base and
// -optimized labels; when not set, they default to the first and last
// parallel labels in sorted order.
//
// The -summary flag prints a per-implementation summary table to
// standard output, and -html writes the same table as an HTML page.
// The -trim flag removes per-configuration outlier runs using the
// interquartile range rule before aggregation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/perftools/scaleplot/benchagg"
	"github.com/perftools/scaleplot/benchchart"
	"github.com/perftools/scaleplot/benchcsv"
	"github.com/perftools/scaleplot/benchreport"
)

const defaultInput = "data/main_optimized.csv"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: scaleplot [options] [results.csv]\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagOut       = flag.String("o", "charts", "write charts into `dir`")
	flagBaseline  = flag.String("baseline", "SECUENCIAL", "sequential baseline `label` excluded from charts")
	flagBase      = flag.String("base", "", "base-parallel `label` for improvement panels")
	flagOptimized = flag.String("optimized", "", "optimized-parallel `label` for improvement panels")
	flagSummary   = flag.Bool("summary", false, "print a per-implementation summary table")
	flagHTML      = flag.String("html", "", "write the summary table as HTML to `file`")
	flagTrim      = flag.Bool("trim", false, "remove per-configuration outlier runs (IQR rule)")
)

func main() {
	log.SetPrefix("scaleplot: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
	}
	input := defaultInput
	if flag.NArg() == 1 {
		input = flag.Arg(0)
	}

	t, err := benchcsv.ReadFile(input)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d measurements from %s", t.Len(), input)
	log.Printf("implementations: %s", strings.Join(t.Implementations(), ", "))

	rows := t.Rows
	if *flagTrim {
		rows = benchagg.TrimOutlierRows(rows)
		if dropped := t.Len() - len(rows); dropped > 0 {
			log.Printf("trimmed %d outlier runs", dropped)
		}
	}

	cfg := benchchart.Config{
		Baseline:  *flagBaseline,
		Base:      *flagBase,
		Optimized: *flagOptimized,
	}
	if err := benchchart.WriteAll(rows, cfg, *flagOut, log.Printf); err != nil {
		log.Fatal(err)
	}

	if *flagSummary || *flagHTML != "" {
		summaries := benchreport.Summarize(rows, *flagBaseline)
		if *flagSummary {
			benchreport.FormatText(os.Stdout, summaries)
		}
		if *flagHTML != "" {
			f, err := os.Create(*flagHTML)
			if err != nil {
				log.Fatal(err)
			}
			if err := benchreport.FormatHTML(f, summaries); err != nil {
				f.Close()
				log.Fatal(err)
			}
			if err := f.Close(); err != nil {
				log.Fatal(err)
			}
			log.Printf("wrote %s", *flagHTML)
		}
	}
}
