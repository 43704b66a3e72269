// Package sysmem detects how much memory the process may use: physical RAM,
// lowered to the cgroup limit when running inside a memory-limited container.
package sysmem

import (
	"strconv"
	"strings"
)

// DefaultMemoryBytes is assumed when detection fails.
const DefaultMemoryBytes uint64 = 4 * 1024 * 1024 * 1024

// Result holds the result of memory detection.
type Result struct {
	// TotalBytes is the usable memory in bytes.
	TotalBytes uint64

	// Reliable indicates whether the value was obtained from
	// a platform-specific method (true) or is a fallback default (false).
	Reliable bool

	// Limited is true when a container limit below physical RAM applied.
	Limited bool
}

// Total returns the usable memory, or DefaultMemoryBytes with Reliable=false
// when nothing could be detected.
func Total() Result {
	physical, ok := physicalMemory()
	limit, limited := memoryLimit()
	return combine(physical, ok, limit, limited)
}

// combine applies a container limit to the physical reading.
func combine(physical uint64, ok bool, limit uint64, limited bool) Result {
	switch {
	case ok && physical > 0 && limited && limit < physical:
		return Result{TotalBytes: limit, Reliable: true, Limited: true}
	case ok && physical > 0:
		return Result{TotalBytes: physical, Reliable: true}
	case limited && limit > 0:
		return Result{TotalBytes: limit, Reliable: true, Limited: true}
	}
	return Result{TotalBytes: DefaultMemoryBytes}
}

// parseLimit parses a cgroup memory limit file. "max" and absurdly large
// values (cgroup v1's "unlimited") report no limit.
func parseLimit(content string) (uint64, bool) {
	s := strings.TrimSpace(content)
	if s == "" || s == "max" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 || v >= 1<<62 {
		return 0, false
	}
	return v, true
}
