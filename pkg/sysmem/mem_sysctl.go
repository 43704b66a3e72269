//go:build darwin || freebsd || openbsd || netbsd || dragonfly

package sysmem

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// physmemSysctls lists the sysctl names reporting physical memory in bytes,
// tried in order.
var physmemSysctls = map[string][]string{
	"darwin":    {"hw.memsize"},
	"freebsd":   {"hw.physmem", "hw.realmem"},
	"openbsd":   {"hw.physmem64", "hw.physmem"},
	"netbsd":    {"hw.physmem64", "hw.physmem"},
	"dragonfly": {"hw.physmem"},
}

func physicalMemory() (uint64, bool) {
	for _, name := range physmemSysctls[runtime.GOOS] {
		if mem, err := unix.SysctlUint64(name); err == nil && mem > 0 {
			return mem, true
		}
	}
	return 0, false
}
