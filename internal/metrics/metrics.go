// Package metrics is a tiny facade between the pipeline code and whatever
// metrics backend a run selects. Core code only ever calls the package-level
// functions; with no backend configured they are no-ops.
package metrics

import "sync"

// Counter names used across the tools.
const (
	RowsRead       = "rows_read"
	RowsDropped    = "rows_dropped"
	RowsWritten    = "rows_written"
	LookupUnmapped = "lookup_unmapped"
)

// Backend receives metric observations. Implementations buffer internally;
// Flush submits whatever has accumulated.
type Backend interface {
	IncCounter(name string, delta float64)
	ObserveDuration(name string, seconds float64)
	Flush() error
}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a backend. Pass nil to restore the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

func IncCounter(name string, delta float64)        { current().IncCounter(name, delta) }
func ObserveDuration(name string, seconds float64) { current().ObserveDuration(name, seconds) }
func Flush() error                                 { return current().Flush() }

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64)      {}
func (nopBackend) ObserveDuration(string, float64) {}
func (nopBackend) Flush() error                    { return nil }
