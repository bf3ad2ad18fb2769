//go:build !linux

package config

import "github.com/shirou/gopsutil/v4/mem"

// totalSystemMemory returns the host's physical memory in bytes, or zero when
// it cannot be determined.
func totalSystemMemory() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Total
}
