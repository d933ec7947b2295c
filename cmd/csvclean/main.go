// Command csvclean repairs a legacy-encoded schedule export: the file is
// decoded from its Windows single-byte encoding, the byte-order-mark
// artifact is stripped, blank rows (no conductor sizes) are dropped, and the
// result is rewritten as clean UTF-8 CSV.
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
	"tabetl/internal/schedule"
	"tabetl/internal/sink"
	"tabetl/internal/transform"
)

func main() {
	var (
		inPath   string
		outPath  string
		encoding string
		metricsB string
	)

	flag.StringVar(&inPath, "in", "", "legacy CSV to repair (prompted for when omitted)")
	flag.StringVar(&outPath, "out", "", "UTF-8 CSV to write (default <in>_utf8.csv)")
	flag.StringVar(&encoding, "encoding", "windows-1252", "source encoding (windows-1252, windows-1250, utf-8)")
	flag.StringVar(&metricsB, "metrics-backend", "none", "metrics backend (none, datadog)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	closeMetrics := setupMetrics(metricsB, "csvclean")
	defer closeMetrics()

	if inPath == "" {
		var err error
		inPath, err = promptPath("legacy CSV")
		if err != nil {
			fatalf("read input path: %v", err)
		}
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, ".csv")
		outPath = strings.TrimSuffix(outPath, ".CSV") + "_utf8.csv"
	}

	start := time.Now()

	f, err := os.Open(inPath)
	if err != nil {
		fatalf("open input: %v", err)
	}
	defer f.Close()

	// The header row flows through the same filter as data rows, exactly as
	// the historical cleanup did; a real header always has sized columns.
	_, rows, err := csvparser.ReadRows(f, config.Options{
		"has_header": false,
		"encoding":   encoding,
	})
	if err != nil {
		fatalf("%v", err)
	}
	metrics.IncCounter(metrics.RowsRead, float64(len(rows)))

	filter := transform.BlankRowFilter(schedule.BlankRowFields...)
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		keep, err := filter(row)
		if err != nil {
			fatalf("%v", err)
		}
		if keep {
			out = append(out, row.V)
		}
	}
	metrics.IncCounter(metrics.RowsWritten, float64(len(out)))
	metrics.IncCounter(metrics.RowsDropped, float64(len(rows)-len(out)))

	if err := (&sink.CSV{Path: outPath}).Write(out); err != nil {
		fatalf("%v", err)
	}
	metrics.ObserveDuration("run_duration_seconds", time.Since(start).Seconds())

	if *verbose {
		log.Printf("csvclean: %d rows in, %d rows out, %s", len(rows), len(out), outPath)
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
