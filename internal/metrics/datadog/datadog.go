// Package datadog implements a Datadog backend for the internal/metrics
// package.
//
// The backend buffers observations in memory, submits them on a periodic
// ticker, and submits one final time on Close(). Short-lived tool runs get a
// single tail submission; longer ones get an actual time series.
//
// Concurrency model:
//   - pipeline code can call IncCounter/ObserveDuration at any time
//   - Flush snapshots and resets the buffers under a mutex, then submits
//     outside the lock
//   - Close stops the flush loop, then flushes once more
package datadog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Empty means "tabetl".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod"}).
	Tags []string

	// FlushEvery controls the submission interval. <= 0 means 60 seconds.
	FlushEvery time.Duration

	// Unexported test seams. Production code never sets these; tests use
	// them to avoid real submissions and nondeterministic clocks.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal slice of the Datadog SDK the backend
// needs. The SDK only exposes a concrete *datadogV2.MetricsApi; depending on
// this small interface instead keeps unit tests off the network.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	sub metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu        sync.Mutex
	counters  map[string]float64
	durations map[string][]float64
}

// NewBackend creates the backend and starts its periodic flush goroutine.
// Credentials come from the environment (DD_API_KEY etc.) via the SDK's
// default context.
func NewBackend(ctx context.Context, opt Options) (*Backend, error) {
	job := strings.TrimSpace(opt.JobName)
	if job == "" {
		job = "tabetl"
	}

	flushEvery := opt.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	sub := opt.submitter
	if sub == nil {
		client := dd.NewAPIClient(dd.NewConfiguration())
		sub = datadogV2.NewMetricsApi(client)
		ctx = dd.NewDefaultContext(ctx)
	}

	now := opt.now
	if now == nil {
		now = time.Now
	}
	newTicker := opt.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	tags := append([]string{"job:" + job, resolveEnvTag()}, opt.Tags...)
	sort.Strings(tags)

	b := &Backend{
		sub:        sub,
		ctx:        ctx,
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		baseTags:   tags,
		now:        now,
		newTicker:  newTicker,
		counters:   map[string]float64{},
		durations:  map[string][]float64{},
	}
	go b.loop()
	return b, nil
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

func (b *Backend) IncCounter(name string, delta float64) {
	b.mu.Lock()
	b.counters[name] += delta
	b.mu.Unlock()
}

func (b *Backend) ObserveDuration(name string, seconds float64) {
	b.mu.Lock()
	b.durations[name] = append(b.durations[name], seconds)
	b.mu.Unlock()
}

// Flush submits everything buffered since the previous flush. Buffers are
// reset even if the submission fails; dropped points beat double counting.
func (b *Backend) Flush() error {
	b.mu.Lock()
	counters := b.counters
	durations := b.durations
	b.counters = map[string]float64{}
	b.durations = map[string][]float64{}
	b.mu.Unlock()

	if len(counters) == 0 && len(durations) == 0 {
		return nil
	}

	ts := b.now().Unix()
	series := make([]datadogV2.MetricSeries, 0, len(counters)+len(durations))

	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := counters[name]
		series = append(series, datadogV2.MetricSeries{
			Metric: "tabetl." + name,
			Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
			Points: []datadogV2.MetricPoint{{
				Timestamp: dd.PtrInt64(ts),
				Value:     dd.PtrFloat64(v),
			}},
			Tags: b.baseTags,
		})
	}

	dnames := make([]string, 0, len(durations))
	for name := range durations {
		dnames = append(dnames, name)
	}
	sort.Strings(dnames)
	for _, name := range dnames {
		samples := durations[name]
		var sum float64
		for _, s := range samples {
			sum += s
		}
		avg := sum / float64(len(samples))
		series = append(series, datadogV2.MetricSeries{
			Metric: "tabetl." + name,
			Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
			Points: []datadogV2.MetricPoint{{
				Timestamp: dd.PtrInt64(ts),
				Value:     dd.PtrFloat64(avg),
			}},
			Tags: b.baseTags,
		})
	}

	_, _, err := b.sub.SubmitMetrics(b.ctx, datadogV2.MetricPayload{Series: series})
	if err != nil {
		return fmt.Errorf("datadog submit: %w", err)
	}
	return nil
}

// Close stops the background flush loop and performs one final Flush().
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// ParseTagsCSV turns "a:b,c:d" into a tag slice, skipping empty entries.
func ParseTagsCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
