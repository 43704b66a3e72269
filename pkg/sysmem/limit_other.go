//go:build !linux

package sysmem

// memoryLimit reports no container limit outside Linux.
func memoryLimit() (uint64, bool) {
	return 0, false
}
