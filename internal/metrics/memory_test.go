package metrics

import "testing"

func TestCollectorSnapshot(t *testing.T) {
	t.Parallel()

	snap := NewCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want at least the test goroutine", snap.Goroutines)
	}
}

func TestHeapGrowth(t *testing.T) {
	t.Parallel()

	before := MemorySnapshot{HeapAlloc: 1000}
	after := MemorySnapshot{HeapAlloc: 1500}
	if got := after.HeapGrowth(before); got != 500 {
		t.Errorf("HeapGrowth = %d, want 500", got)
	}
	if got := before.HeapGrowth(after); got != -500 {
		t.Errorf("HeapGrowth = %d, want -500", got)
	}

	c := NewCollector()
	a := c.Snapshot()
	b := c.Snapshot()
	if b.Sys < a.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
}
