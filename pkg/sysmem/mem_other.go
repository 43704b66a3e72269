//go:build !linux && !darwin && !windows && !freebsd && !openbsd && !netbsd && !dragonfly

package sysmem

// physicalMemory is unknown here; Total falls back to DefaultMemoryBytes.
func physicalMemory() (uint64, bool) {
	return 0, false
}
