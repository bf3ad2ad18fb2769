// This file provides buffer pooling for bead stores to reduce GC pressure
// during iterative algorithms (division, Newton iterations, CORDIC loops)
// that allocate and release many short-lived Numbers.

package abacus

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Digit and Bead Slice Pools
// ─────────────────────────────────────────────────────────────────────────────

// digitPoolSizes defines power-of-four size classes: 64 .. 16M digits.
// A 16M-digit operand at 4 bytes per digit is 64MB, beyond which pooling
// stops paying for itself.
var digitPoolSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

var digitPools = [...]sync.Pool{
	{New: func() any { return make([]uint32, 64) }},
	{New: func() any { return make([]uint32, 256) }},
	{New: func() any { return make([]uint32, 1024) }},
	{New: func() any { return make([]uint32, 4096) }},
	{New: func() any { return make([]uint32, 16384) }},
	{New: func() any { return make([]uint32, 65536) }},
	{New: func() any { return make([]uint32, 262144) }},
	{New: func() any { return make([]uint32, 1048576) }},
	{New: func() any { return make([]uint32, 4194304) }},
	{New: func() any { return make([]uint32, 16777216) }},
}

var beadPool = sync.Pool{New: func() any { return make([]Bead, 0, 64) }}

// digitPoolIndex maps a size to its pool class, or -1 when too large.
// Size classes are powers of 4 starting at 4^3, so bits.Len maps directly.
func digitPoolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > digitPoolSizes[len(digitPoolSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// acquireDigits returns a zeroed digit slice of exactly the given length,
// backed by a pooled buffer when the size class allows.
func acquireDigits(size int) []uint32 {
	idx := digitPoolIndex(size)
	if idx < 0 {
		return make([]uint32, size)
	}
	s := digitPools[idx].Get().([]uint32)
	if cap(s) < size {
		return make([]uint32, size)
	}
	s = s[:size]
	clear(s)
	return s
}

// releaseDigits returns a digit slice to its pool. Nil and oversize slices
// are dropped for the GC.
func releaseDigits(s []uint32) {
	if s == nil {
		return
	}
	idx := digitPoolIndex(cap(s))
	if idx < 0 || digitPoolSizes[idx] != cap(s) {
		return
	}
	digitPools[idx].Put(s[:cap(s)])
}

// acquireBeads returns an empty bead slice with at least the given capacity.
func acquireBeads(capacity int) []Bead {
	s := beadPool.Get().([]Bead)
	if cap(s) < capacity {
		beadPool.Put(s[:0])
		return make([]Bead, 0, capacity)
	}
	return s[:0]
}

// releaseBeads returns a bead slice to the pool.
func releaseBeads(s []Bead) {
	if s == nil {
		return
	}
	beadPool.Put(s[:0])
}
