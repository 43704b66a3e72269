//go:build linux

package sysmem

import (
	"os"

	"golang.org/x/sys/unix"
)

func physicalMemory() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return uint64(info.Totalram) * uint64(info.Unit), true
}

// cgroupLimitFiles are checked in order: cgroup v2, then v1.
var cgroupLimitFiles = []string{
	"/sys/fs/cgroup/memory.max",
	"/sys/fs/cgroup/memory/memory.limit_in_bytes",
}

// memoryLimit returns the container memory limit, if any.
func memoryLimit() (uint64, bool) {
	for _, path := range cgroupLimitFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if v, ok := parseLimit(string(data)); ok {
			return v, true
		}
	}
	return 0, false
}
