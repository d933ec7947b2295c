// Command efli loads a cable-schedule CSV into a scratch relational table and
// prints the earth-fault-loop-impedance report: for every row with a cable
// reference, the cable code, the cable configuration, and their product,
// ordered by cable reference.
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
	"tabetl/internal/storage"
	_ "tabetl/internal/storage/all"
	"tabetl/internal/transform"
)

func main() {
	var (
		inPath      string
		storageKind string
		dsn         string
		table       string
		metricsB    string
	)

	flag.StringVar(&inPath, "in", "", "schedule CSV to load (prompted for when omitted)")
	flag.StringVar(&storageKind, "storage", "sqlite", "storage backend (sqlite, postgres, mssql)")
	flag.StringVar(&dsn, "dsn", ":memory:", "backend DSN")
	flag.StringVar(&table, "table", "cable_schedule", "scratch table name")
	flag.StringVar(&metricsB, "metrics-backend", "none", "metrics backend (none, datadog)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	closeMetrics := setupMetrics(metricsB, "efli")
	defer closeMetrics()

	if inPath == "" {
		var err error
		inPath, err = promptPath("schedule CSV")
		if err != nil {
			fatalf("read input path: %v", err)
		}
	}

	start := time.Now()
	ctx := context.Background()

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

	filter := transform.BlankRowFilter(schedule.BlankRowFields...)
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		keep, err := filter(row)
		if err != nil {
			fatalf("%v", err)
		}
		if keep {
			data = append(data, row.V)
		}
	}
	metrics.IncCounter(metrics.RowsDropped, float64(len(rows)-len(data)))

	repo, err := storage.New(ctx, storage.Config{Kind: storageKind, DSN: dsn})
	if err != nil {
		fatalf("%v", err)
	}
	defer repo.Close()

	if err := repo.EnsureScheduleTable(ctx, table, header); err != nil {
		fatalf("%v", err)
	}
	if err := repo.InsertRows(ctx, table, header, data); err != nil {
		fatalf("%v", err)
	}
	metrics.IncCounter(metrics.RowsWritten, float64(len(data)))

	pairs, err := storage.FaultLoopReport(ctx, repo, table)
	if err != nil {
		fatalf("%v", err)
	}
	for _, p := range pairs {
		fmt.Println(p)
	}
	metrics.ObserveDuration("run_duration_seconds", time.Since(start).Seconds())

	if *verbose {
		log.Printf("efli: %d rows loaded into %s/%s, %d report rows", len(data), storageKind, table, len(pairs))
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
