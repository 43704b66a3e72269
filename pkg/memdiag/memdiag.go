// Package memdiag reports process memory against the trace index budget.
//
// Reports are Debug events; set SEGYIO_MEM_DEBUG=1 to raise them to Info.
package memdiag

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/humanfmt"
	"github.com/eunmann/segyio/pkg/membudget"
)

// EnvVar raises memory reports to Info level when set to "1".
const EnvVar = "SEGYIO_MEM_DEBUG"

// Stats holds memory statistics from runtime.
type Stats struct {
	// HeapAlloc is bytes allocated on heap.
	HeapAlloc uint64

	// HeapSys is bytes obtained from OS for heap.
	HeapSys uint64

	// Sys is bytes obtained from OS.
	Sys uint64

	// NumGC is the number of completed GC cycles.
	NumGC uint32
}

// Read reads current memory statistics.
func Read() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		HeapAlloc: m.HeapAlloc,
		HeapSys:   m.HeapSys,
		Sys:       m.Sys,
		NumGC:     m.NumGC,
	}
}

// Report describes one measurement.
type Report struct {
	Reason     string
	Stats      Stats
	Budget     membudget.Budget
	IndexBytes uint64
	InMemory   bool
}

// OverBudget reports whether an in-memory index outgrew its budget. That can
// only happen when the strategy was forced to Memory.
func (r Report) OverBudget() bool {
	return r.InMemory && !r.Budget.Fits(r.IndexBytes)
}

// Measure reads the runtime statistics for an index of indexBytes.
func Measure(reason string, budget membudget.Budget, indexBytes uint64, inMemory bool) Report {
	return Report{
		Reason:     reason,
		Stats:      Read(),
		Budget:     budget,
		IndexBytes: indexBytes,
		InMemory:   inMemory,
	}
}

// Log emits r on log. It warns when the index is over budget.
func (r Report) Log(log zerolog.Logger) {
	e := log.Debug()
	if os.Getenv(EnvVar) == "1" {
		e = log.Info()
	}
	e.Str("reason", r.Reason).
		Uint64("heap_alloc", r.Stats.HeapAlloc).
		Str("heap_alloc_h", humanfmt.BytesUint64(r.Stats.HeapAlloc)).
		Str("heap_sys_h", humanfmt.BytesUint64(r.Stats.HeapSys)).
		Str("sys_total_h", humanfmt.BytesUint64(r.Stats.Sys)).
		Uint64("index_bytes", r.IndexBytes).
		Bool("index_in_memory", r.InMemory).
		Uint64("budget_bytes", r.Budget.Total()).
		Str("budget_source", string(r.Budget.Source())).
		Uint32("num_gc", r.Stats.NumGC).
		Msg("memory stats")

	if r.OverBudget() {
		log.Warn().
			Str("index_bytes_h", humanfmt.BytesUint64(r.IndexBytes)).
			Str("budget_h", humanfmt.BytesUint64(r.Budget.Total())).
			Msg("in-memory trace index exceeds the memory budget")
	}
}
