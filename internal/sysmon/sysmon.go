// Package sysmon samples system-wide resource usage for the dashboard's
// metrics panel. Long-running bead computations saturate cores and grow the
// heap; these readings put that pressure on screen next to the evaluation
// history.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of host-wide resource usage. Fields a platform
// cannot report stay zero.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0, delta since the previous Sample call
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64 // one-minute load average, 0 where unsupported
}

// Sample collects a snapshot. Sampling never fails the caller: each probe
// that errors leaves its field at zero.
func Sample() Stats {
	return Stats{
		CPUPercent: cpuPercent(),
		MemPercent: memPercent(),
		Load1:      loadOne(),
	}
}

// cpuPercent reads aggregate CPU usage since the previous call
// (interval 0 keeps the probe non-blocking).
func cpuPercent() float64 {
	pcts, err := cpu.Percent(0, false)
	if err != nil || len(pcts) == 0 {
		return 0
	}
	return pcts[0]
}

func memPercent() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return 0
	}
	return vm.UsedPercent
}

func loadOne() float64 {
	avg, err := load.Avg()
	if err != nil || avg == nil {
		return 0
	}
	return avg.Load1
}
