package metrics

import "runtime"

// MemorySnapshot is one reading of the Go runtime's memory state, taken for
// the heap gauge and the dashboard's metrics panel. Bead pools dominate the
// heap during large computations, so HeapAlloc tracks working-set size
// closely.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in live objects
	HeapSys      uint64 // heap bytes obtained from the OS
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // live heap objects
	Goroutines   int
}

// HeapGrowth returns the heap-in-use change since an earlier snapshot,
// negative when the GC has reclaimed more than was allocated.
func (s MemorySnapshot) HeapGrowth(prev MemorySnapshot) int64 {
	return int64(s.HeapAlloc) - int64(prev.HeapAlloc)
}

// Collector reads runtime memory statistics on demand.
type Collector struct{}

// NewCollector creates a Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Snapshot takes a reading.
func (c *Collector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
		Goroutines:   runtime.NumGoroutine(),
	}
}
