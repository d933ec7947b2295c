// Command timesheet reshapes a raw time-tracking export for client review:
// financial columns are dropped, a weekday is derived from each entry's date,
// and the cleaned records are written as CSV, as a workbook, or both.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tabetl/internal/config"
	"tabetl/internal/metrics"
	"tabetl/internal/metrics/datadog"
	csvparser "tabetl/internal/parser/csv"
	"tabetl/internal/sink"
	"tabetl/internal/timesheet"
	"tabetl/internal/transform"
)

func main() {
	var (
		inPath    string
		csvPath   string
		xlsxPath  string
		sheetName string
		metricsB  string
	)

	flag.StringVar(&inPath, "in", "", "raw timesheet CSV (prompted for when omitted)")
	flag.StringVar(&csvPath, "csv", "", "cleaned CSV to write (omit to skip)")
	flag.StringVar(&xlsxPath, "xlsx", "", "cleaned workbook to write (omit to skip)")
	flag.StringVar(&sheetName, "sheet", "Timesheet", "workbook sheet name")
	flag.StringVar(&metricsB, "metrics-backend", "none", "metrics backend (none, datadog)")
	keepMeta := flag.Bool("keep-meta", false, "keep bookkeeping columns, only strip financial ones")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	closeMetrics := setupMetrics(metricsB, "timesheet")
	defer closeMetrics()

	if inPath == "" {
		var err error
		inPath, err = promptPath("timesheet CSV")
		if err != nil {
			fatalf("read input path: %v", err)
		}
	}
	if csvPath == "" && xlsxPath == "" {
		fatalf("nothing to do: give -csv and/or -xlsx")
	}

	start := time.Now()

	f, err := os.Open(inPath)
	if err != nil {
		fatalf("open input: %v", err)
	}
	defer f.Close()

	header, rows, err := csvparser.ReadRows(f, config.Options{"trim_space": true})
	if err != nil {
		fatalf("%v", err)
	}
	metrics.IncCounter(metrics.RowsRead, float64(len(rows)))

	spec := transform.PlanSpec{OnMissing: transform.OnMissingReject}
	var plan *transform.Plan
	if *keepMeta {
		plan, err = timesheet.StripFinancialPlan(header, spec)
	} else {
		plan, err = timesheet.CleanPlan(header, spec)
	}
	if err != nil {
		fatalf("%v", err)
	}

	records, err := plan.Apply(rows, nil)
	if err != nil {
		fatalf("%v", err)
	}
	if !*keepMeta {
		timesheet.SortByDate(records)
	}
	metrics.IncCounter(metrics.RowsWritten, float64(len(records)-1))

	if csvPath != "" {
		if err := (&sink.CSV{Path: csvPath}).Write(records); err != nil {
			fatalf("%v", err)
		}
	}
	if xlsxPath != "" {
		if err := (&sink.Workbook{Path: xlsxPath, Sheet: sheetName}).Write(records); err != nil {
			fatalf("%v", err)
		}
	}
	metrics.ObserveDuration("run_duration_seconds", time.Since(start).Seconds())

	if *verbose {
		log.Printf("timesheet: %d entries cleaned, csv=%q xlsx=%q", len(records)-1, csvPath, xlsxPath)
	}
}

func promptPath(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s path: ", label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	p := strings.TrimSpace(line)
	if p == "" {
		return "", fmt.Errorf("no path given")
	}
	return p, nil
}

func setupMetrics(backendName, job string) func() {
	switch backendName {
	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: job,
			Tags:    datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return func() {}
		}
		metrics.SetBackend(b)
		return func() {
			if err := b.Close(); err != nil {
				log.Printf("metrics: datadog close/flush error: %v", err)
			}
		}
	case "", "none":
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
