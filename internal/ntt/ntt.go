package ntt

import (
	"math/bits"

	numerr "github.com/crystalline/abacus/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Context State Machine
// ─────────────────────────────────────────────────────────────────────────────

// State identifies how far a Context has progressed through setup.
type State int

// Context setup states, in order.
const (
	Uninitialized State = iota
	PrimeChosen
	RootsPrecomputed
	Ready
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case PrimeChosen:
		return "PrimeChosen"
	case RootsPrecomputed:
		return "RootsPrecomputed"
	case Ready:
		return "Ready"
	default:
		return "State(?)"
	}
}

// maxLog2Size bounds the transform length: the prime c*2^k+1 must leave room
// for c >= 3 below 2^64.
const maxLog2Size = 57

// Context carries the field parameters and root tables for one transform
// length. Immutable once Ready.
type Context struct {
	state State
	size  int
	log2  uint

	prime   uint64
	root    uint64 // primitive size-th root of unity mod prime
	rootInv uint64
	sizeInv uint64

	// stageRoots[j] is the root of order 2^(j+1) used at butterfly stage j.
	stageRoots    []uint64
	stageRootsInv []uint64
}

// State returns the setup stage the context has reached.
func (c *Context) State() State { return c.state }

// Prime returns the chosen working prime (0 before PrimeChosen).
func (c *Context) Prime() uint64 { return c.prime }

// Size returns the transform length.
func (c *Context) Size() int { return c.size }

// NewContext builds a transform context for vectors of the given length
// (a power of two) over digits in [0, base). primeHint, when non-zero, is
// tried before the search; it must satisfy the same congruence and overflow
// constraints as a discovered prime.
//
// The context advances Uninitialized -> PrimeChosen -> RootsPrecomputed ->
// Ready; on error the returned context is left in the last state reached so
// callers can inspect how far setup got.
func NewContext(size int, base uint32, primeHint uint64) (*Context, error) {
	c := &Context{state: Uninitialized, size: size}
	if size < 2 || size&(size-1) != 0 {
		return c, numerr.NTTError{Subcode: numerr.NTTSizeNotSupported,
			Message: "transform length must be a power of two >= 2"}
	}
	c.log2 = uint(bits.TrailingZeros(uint(size)))
	if c.log2 > maxLog2Size {
		return c, numerr.NTTError{Subcode: numerr.NTTSizeNotSupported,
			Message: "transform length too large for 64-bit arithmetic"}
	}

	if err := c.choosePrime(base, primeHint); err != nil {
		return c, err
	}
	if err := c.findRoot(); err != nil {
		return c, err
	}
	c.precomputeStages()
	c.state = Ready
	return c, nil
}

// choosePrime finds the smallest prime p = c*2^k + 1 exceeding the
// coefficient bound (base-1)^2 * 2^k, so that no convolution column can wrap
// mod p.
func (c *Context) choosePrime(base uint32, primeHint uint64) error {
	sq := uint64(base-1) * uint64(base-1)
	if c.log2+uint(bits.Len64(sq)) >= 63 {
		return numerr.NTTError{Subcode: numerr.NTTSizeNotSupported,
			Message: "coefficient bound exceeds 64-bit arithmetic"}
	}
	bound := sq << c.log2

	usable := func(p uint64) bool {
		return p > bound && (p-1)>>c.log2<<c.log2 == p-1 && isPrime(p)
	}
	if primeHint != 0 && usable(primeHint) {
		c.prime = primeHint
		c.state = PrimeChosen
		return nil
	}

	// c0 is the smallest multiplier clearing the bound.
	c0 := bound>>c.log2 + 1
	const searchSpan = 1 << 20
	for mult := c0; mult < c0+searchSpan; mult++ {
		if mult > (1<<63)>>c.log2 {
			break
		}
		p := mult<<c.log2 + 1
		if isPrime(p) {
			c.prime = p
			c.state = PrimeChosen
			return nil
		}
	}
	return numerr.NTTError{Subcode: numerr.NTTPrimeSearchExhausted,
		Message: "no prime c*2^k+1 within search span"}
}

// findRoot locates a generator of the multiplicative group mod prime and
// derives from it a primitive size-th root of unity.
func (c *Context) findRoot() error {
	p := c.prime
	factors := primeFactors(p - 1)
	for g := uint64(2); g < 1000; g++ {
		ok := true
		for _, q := range factors {
			if powMod(g, (p-1)/q, p) == 1 {
				ok = false
				break
			}
		}
		if ok {
			c.root = powMod(g, (p-1)>>c.log2, p)
			c.rootInv = powMod(c.root, p-2, p)
			c.sizeInv = powMod(uint64(c.size), p-2, p)
			c.state = RootsPrecomputed
			return nil
		}
	}
	return numerr.NTTError{Subcode: numerr.NTTNoPrimitiveRoot,
		Message: "no generator found below 1000"}
}

// precomputeStages tabulates the per-stage twiddle roots for both transform
// directions.
func (c *Context) precomputeStages() {
	c.stageRoots = make([]uint64, c.log2)
	c.stageRootsInv = make([]uint64, c.log2)
	for j := uint(0); j < c.log2; j++ {
		// Stage j butterflies span blocks of length 2^(j+1).
		shift := c.log2 - j - 1
		c.stageRoots[j] = powMod(c.root, 1<<shift, c.prime)
		c.stageRootsInv[j] = powMod(c.rootInv, 1<<shift, c.prime)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Transforms
// ─────────────────────────────────────────────────────────────────────────────

// Forward runs the in-place forward transform over dst, which must have the
// context's length and hold values below the prime.
func (c *Context) Forward(dst []uint64) error {
	return c.transform(dst, c.stageRoots)
}

// Inverse runs the in-place inverse transform over dst, scaling by the
// modular inverse of the length.
func (c *Context) Inverse(dst []uint64) error {
	if err := c.transform(dst, c.stageRootsInv); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = mulMod(dst[i], c.sizeInv, c.prime)
	}
	return nil
}

// transform is the iterative Cooley-Tukey kernel shared by both directions.
func (c *Context) transform(dst []uint64, stageRoots []uint64) error {
	if c.state != Ready {
		return numerr.NTTError{Subcode: numerr.NTTSizeNotSupported,
			Message: "context not ready: " + c.state.String()}
	}
	if len(dst) != c.size {
		return numerr.NTTError{Subcode: numerr.NTTSizeNotSupported,
			Message: "vector length does not match context"}
	}
	p := c.prime
	bitReverse(dst, c.log2)
	for j := 0; j < len(stageRoots); j++ {
		span := 1 << uint(j+1)
		half := span >> 1
		wl := stageRoots[j]
		for start := 0; start < c.size; start += span {
			w := uint64(1)
			for i := 0; i < half; i++ {
				u := dst[start+i]
				v := mulMod(dst[start+i+half], w, p)
				dst[start+i] = addMod(u, v, p)
				dst[start+i+half] = subMod(u, v, p)
				w = mulMod(w, wl, p)
			}
		}
	}
	return nil
}

// bitReverse permutes dst into bit-reversed index order.
func bitReverse(dst []uint64, log2 uint) {
	n := len(dst)
	for i := 0; i < n; i++ {
		r := int(bits.Reverse64(uint64(i)) >> (64 - log2))
		if i < r {
			dst[i], dst[r] = dst[r], dst[i]
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Modular Arithmetic
// ─────────────────────────────────────────────────────────────────────────────

func addMod(a, b, m uint64) uint64 {
	s := a + b
	if s >= m || s < a {
		s -= m
	}
	return s
}

func subMod(a, b, m uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + (m - b)
}

// mulMod multiplies mod m via the full 128-bit product. Safe for any m
// below 2^64 since both factors are reduced first.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a%m, b%m)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// powMod computes a^e mod m by binary exponentiation.
func powMod(a, e, m uint64) uint64 {
	out := uint64(1)
	a %= m
	for e > 0 {
		if e&1 == 1 {
			out = mulMod(out, a, m)
		}
		a = mulMod(a, a, m)
		e >>= 1
	}
	return out
}

// isPrime is a deterministic Miller-Rabin test for 64-bit integers using the
// standard witness set.
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, p := range [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		if n == p {
			return true
		}
		if n%p == 0 {
			return false
		}
	}
	d := n - 1
	r := uint(0)
	for d&1 == 0 {
		d >>= 1
		r++
	}
	for _, a := range [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		x := powMod(a, d, n)
		if x == 1 || x == n-1 {
			continue
		}
		composite := true
		for i := uint(1); i < r; i++ {
			x = mulMod(x, x, n)
			if x == n-1 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// primeFactors returns the distinct prime factors of n by trial division.
// n here is p-1 = c*2^k with c below 2^21, so this stays cheap.
func primeFactors(n uint64) []uint64 {
	var out []uint64
	if n&1 == 0 {
		out = append(out, 2)
		for n&1 == 0 {
			n >>= 1
		}
	}
	for f := uint64(3); f*f <= n; f += 2 {
		if n%f == 0 {
			out = append(out, f)
			for n%f == 0 {
				n /= f
			}
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}
