//go:build linux

package config

import "golang.org/x/sys/unix"

// totalSystemMemory returns the host's physical memory in bytes, or zero when
// it cannot be determined.
func totalSystemMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
