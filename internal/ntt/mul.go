package ntt

import (
	"math/bits"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ctxKey identifies a cached context by transform length and digit base.
type ctxKey struct {
	size int
	base uint32
}

// ctxCache holds Ready contexts. They are immutable, so a cache hit is safe
// to share across goroutines. Failed setups are not cached; callers fall
// back and retry on the next multiplication.
var ctxCache sync.Map // ctxKey -> *Context

// contextFor returns a Ready context for the given length and base, building
// and caching one on first use.
func contextFor(size int, base uint32) (*Context, error) {
	key := ctxKey{size: size, base: base}
	if v, ok := ctxCache.Load(key); ok {
		return v.(*Context), nil
	}
	c, err := NewContext(size, base, 0)
	if err != nil {
		return nil, err
	}
	actual, _ := ctxCache.LoadOrStore(key, c)
	return actual.(*Context), nil
}

// MulDigits multiplies two little-endian digit vectors in the given base and
// returns the carry-propagated product digits. The transform length is the
// smallest power of two covering the combined length; both forward
// transforms run concurrently.
func MulDigits(a, b []uint32, base uint32) ([]uint32, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	need := len(a) + len(b)
	size := 1 << uint(bits.Len(uint(need-1)))
	if size < 2 {
		size = 2
	}
	c, err := contextFor(size, base)
	if err != nil {
		return nil, err
	}

	fa := make([]uint64, size)
	fb := make([]uint64, size)
	for i, d := range a {
		fa[i] = uint64(d)
	}
	for i, d := range b {
		fb[i] = uint64(d)
	}

	var g errgroup.Group
	g.Go(func() error { return c.Forward(fa) })
	g.Go(func() error { return c.Forward(fb) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := c.Prime()
	for i := range fa {
		fa[i] = mulMod(fa[i], fb[i], p)
	}
	if err := c.Inverse(fa); err != nil {
		return nil, err
	}

	// Each coefficient is an exact convolution column; one carry pass turns
	// the columns back into digits.
	out := make([]uint32, need+1)
	var carry uint64
	for i := 0; i < len(out); i++ {
		var col uint64
		if i < size {
			col = fa[i]
		}
		col += carry
		out[i] = uint32(col % uint64(base))
		carry = col / uint64(base)
	}
	return out, nil
}
