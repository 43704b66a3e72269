package traceindex

import (
	"fmt"
	"strings"

	"github.com/eunmann/segyio/pkg/membudget"
)

// Strategy selects where index items are kept.
type Strategy int

const (
	// Auto keeps the index in memory unless its worst-case size exceeds
	// the memory budget.
	Auto Strategy = iota
	// Memory keeps the index in a slice; fast, lost on close.
	Memory
	// Sidecar keeps the index in a file next to the SEG-Y file.
	Sidecar
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Memory:
		return "memory"
	case Sidecar:
		return "sidecar"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy accepts "auto", "memory" or "sidecar".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "memory", "mem":
		return Memory, nil
	case "sidecar", "file", "disk":
		return Sidecar, nil
	}
	return Auto, fmt.Errorf("unknown index strategy %q (want auto, memory or sidecar)", s)
}

// WorstCaseBytes is the in-memory index size for dataBytes of trace data if
// every trace were header-only.
func WorstCaseBytes(dataBytes int64) uint64 {
	if dataBytes <= 0 {
		return 0
	}
	return uint64(dataBytes/traceHeaderSize+1) * ItemSize
}

// ChooseStrategy resolves s against the trace data size and the memory
// budget. Non-Auto strategies are returned unchanged.
func ChooseStrategy(s Strategy, dataBytes int64, budget membudget.Budget) Strategy {
	if s != Auto {
		return s
	}
	if !budget.Fits(WorstCaseBytes(dataBytes)) {
		return Sidecar
	}
	return Memory
}

// NewStore opens a store for a resolved strategy. For Sidecar, reuse keeps
// the records already in sidecarPath so Indexer.Resume can validate them;
// otherwise the sidecar starts empty.
func NewStore(s Strategy, sidecarPath string, reuse bool) (Store, error) {
	switch s {
	case Memory:
		return NewMemoryStore(), nil
	case Sidecar:
		if reuse {
			return OpenFileStore(sidecarPath)
		}
		return CreateFileStore(sidecarPath)
	}
	return nil, fmt.Errorf("index strategy %s must be resolved before opening a store", s)
}
