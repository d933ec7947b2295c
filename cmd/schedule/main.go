// Command schedule reformats a cable-schedule export into the PowerCAD
// import layout: pass-through columns, run-level constants, and the vendor
// string → PowerCAD code rewrites for cable type and installation method.
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
		cfgPath    string
		inPath     string
		outPath    string
		pf         string
		switchgear string
		breaker    string
		onMissing  string
		metricsB   string
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON; overrides -in, -out and -on-missing")
	flag.StringVar(&inPath, "in", "", "schedule export CSV (prompted for when omitted)")
	flag.StringVar(&outPath, "out", "powercad_import.csv", "PowerCAD import CSV to write")
	flag.StringVar(&pf, "pf", "0.9", "switchboard power factor applied to every row")
	flag.StringVar(&switchgear, "switchgear", "", "switchgear manufacturer applied to every row")
	flag.StringVar(&breaker, "breaker", "", "protective device manufacturer applied to every row")
	flag.StringVar(&onMissing, "on-missing", "copy", "lookup fallback policy: copy, reject or flag")
	flag.StringVar(&metricsB, "metrics-backend", "none", "metrics backend (none, datadog)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	closeMetrics := setupMetrics(metricsB, "schedule")
	defer closeMetrics()

	readOpts := config.Options{"trim_space": true}
	sinks := []config.Sink{{Kind: "csv", Path: outPath}}
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
		for _, issue := range config.ValidatePipeline(cfg) {
			if issue.Severity == config.SeverityError {
				fatalf("config: %s: %s", issue.Path, issue.Message)
			}
			log.Printf("config: warning: %s: %s", issue.Path, issue.Message)
		}
		inPath = cfg.Source.Path
		if len(cfg.Source.Options) > 0 {
			readOpts = cfg.Source.Options
		}
		if cfg.Lookup.OnMissing != "" {
			onMissing = cfg.Lookup.OnMissing
		}
		if len(cfg.Sinks) > 0 {
			sinks = cfg.Sinks
		}
	}

	if inPath == "" {
		var err error
		inPath, err = promptPath("cable schedule export")
		if err != nil {
			fatalf("read input path: %v", err)
		}
	}

	start := time.Now()

	f, err := os.Open(inPath)
	if err != nil {
		fatalf("open input: %v", err)
	}
	defer f.Close()

	header, rows, err := csvparser.ReadRows(f, readOpts)
	if err != nil {
		fatalf("%v", err)
	}
	if err := schedule.ValidateHeader(header); err != nil {
		fatalf("%v", err)
	}
	metrics.IncCounter(metrics.RowsRead, float64(len(rows)))

	plan, err := schedule.Plan(schedule.RunParams{
		PowerFactor:                  pf,
		SwitchgearManufacturer:       switchgear,
		ProtectiveDeviceManufacturer: breaker,
	}, transform.PlanSpec{
		OnMissing: transform.OnMissing(onMissing),
		OnUnmapped: func(line int, field, value string) {
			metrics.IncCounter(metrics.LookupUnmapped, 1)
			log.Printf("line %d: %s: no PowerCAD code for %q; copied through", line, field, value)
		},
	})
	if err != nil {
		fatalf("%v", err)
	}

	out, err := plan.Apply(rows, schedule.SizeFilter())
	if err != nil {
		fatalf("%v", err)
	}
	written := len(out) - 1
	metrics.IncCounter(metrics.RowsWritten, float64(written))
	metrics.IncCounter(metrics.RowsDropped, float64(len(rows)-written))

	for _, s := range sinks {
		var dst sink.Sink
		switch s.Kind {
		case "csv":
			dst = &sink.CSV{Path: s.Path}
		case "workbook":
			dst = &sink.Workbook{Path: s.Path, Sheet: s.Sheet}
		default:
			fatalf("unknown sink kind %q", s.Kind)
		}
		if err := dst.Write(out); err != nil {
			fatalf("%v", err)
		}
	}
	metrics.ObserveDuration("run_duration_seconds", time.Since(start).Seconds())

	if *verbose {
		log.Printf("schedule: %d rows in, %d rows out, %d sink(s)", len(rows), written, len(sinks))
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
