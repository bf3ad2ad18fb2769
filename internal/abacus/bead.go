package abacus

// ─────────────────────────────────────────────────────────────────────────────
// Bead Storage Layouts
// ─────────────────────────────────────────────────────────────────────────────

// Bead is one positional digit together with the exponent giving its weight
// base^Exp.
type Bead struct {
	// Value is the digit, in [0, base).
	Value uint32
	// Exp is the signed positional exponent.
	Exp int32
}

// storageLayout selects between the two bead store representations.
type storageLayout uint8

const (
	layoutDense storageLayout = iota
	layoutSparse
)

// SparseDensityThreshold is the non-zero density below which
// OptimizeRepresentation switches a store to the sparse layout. At or above
// it, the dense layout wins: a dense digit costs 4 bytes, a sparse bead 8.
const SparseDensityThreshold = 0.30

// beadStore is the digit storage of a Number.
//
// Dense layout: digits[i] holds the digit with exponent minExp+int32(i);
// every exponent in the span is present, zeros included.
// Sparse layout: beads holds only non-zero digits, in ascending exponent
// order with no duplicates.
type beadStore struct {
	layout storageLayout
	minExp int32    // dense only: exponent of digits[0]
	digits []uint32 // dense payload
	beads  []Bead   // sparse payload
}

// isZero reports whether the store holds no non-zero bead.
func (s *beadStore) isZero() bool {
	if s.layout == layoutSparse {
		return len(s.beads) == 0
	}
	for _, d := range s.digits {
		if d != 0 {
			return false
		}
	}
	return true
}

// span returns the lowest and highest exponents carrying a non-zero digit.
// ok is false for a zero store.
func (s *beadStore) span() (lo, hi int32, ok bool) {
	if s.layout == layoutSparse {
		if len(s.beads) == 0 {
			return 0, 0, false
		}
		return s.beads[0].Exp, s.beads[len(s.beads)-1].Exp, true
	}
	lo, hi = 0, 0
	found := false
	for i, d := range s.digits {
		if d == 0 {
			continue
		}
		exp := s.minExp + int32(i)
		if !found {
			lo = exp
			found = true
		}
		hi = exp
	}
	return lo, hi, found
}

// beadCount returns the number of stored beads (zeros included for dense).
func (s *beadStore) beadCount() int {
	if s.layout == layoutSparse {
		return len(s.beads)
	}
	return len(s.digits)
}

// nonZeroCount returns the number of non-zero beads.
func (s *beadStore) nonZeroCount() int {
	if s.layout == layoutSparse {
		return len(s.beads)
	}
	n := 0
	for _, d := range s.digits {
		if d != 0 {
			n++
		}
	}
	return n
}

// get returns the digit at the given exponent, or 0 if absent.
func (s *beadStore) get(exp int32) uint32 {
	if s.layout == layoutDense {
		i := exp - s.minExp
		if i < 0 || int(i) >= len(s.digits) {
			return 0
		}
		return s.digits[i]
	}
	// Binary search over ascending beads.
	lo, hi := 0, len(s.beads)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case s.beads[mid].Exp == exp:
			return s.beads[mid].Value
		case s.beads[mid].Exp < exp:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// set writes the digit at the given exponent, extending the store as needed.
// The value must already be reduced modulo the base.
func (s *beadStore) set(exp int32, value uint32) {
	if s.layout == layoutDense {
		s.setDense(exp, value)
		return
	}
	s.setSparse(exp, value)
}

func (s *beadStore) setDense(exp int32, value uint32) {
	if len(s.digits) == 0 {
		if value == 0 {
			return
		}
		s.minExp = exp
		s.digits = append(s.digits, value)
		return
	}
	i := exp - s.minExp
	switch {
	case i >= 0 && int(i) < len(s.digits):
		s.digits[i] = value
	case i >= 0:
		// Grow upward, zero-filling the gap.
		for int32(len(s.digits)) < i {
			s.digits = append(s.digits, 0)
		}
		s.digits = append(s.digits, value)
	default:
		// Grow downward: prepend -i zeros.
		pad := int(-i)
		grown := make([]uint32, pad+len(s.digits))
		copy(grown[pad:], s.digits)
		grown[0] = value
		s.digits = grown
		s.minExp = exp
	}
}

func (s *beadStore) setSparse(exp int32, value uint32) {
	lo, hi := 0, len(s.beads)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.beads[mid].Exp < exp {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.beads) && s.beads[lo].Exp == exp {
		if value == 0 {
			s.beads = append(s.beads[:lo], s.beads[lo+1:]...)
		} else {
			s.beads[lo].Value = value
		}
		return
	}
	if value == 0 {
		return
	}
	s.beads = append(s.beads, Bead{})
	copy(s.beads[lo+1:], s.beads[lo:])
	s.beads[lo] = Bead{Value: value, Exp: exp}
}

// forEachAsc calls fn for every non-zero bead in ascending exponent order.
func (s *beadStore) forEachAsc(fn func(Bead)) {
	if s.layout == layoutSparse {
		for _, b := range s.beads {
			fn(b)
		}
		return
	}
	for i, d := range s.digits {
		if d != 0 {
			fn(Bead{Value: d, Exp: s.minExp + int32(i)})
		}
	}
}

// densify converts the store to the dense layout in place. A zero store
// becomes an empty dense store.
func (s *beadStore) densify() {
	if s.layout == layoutDense {
		return
	}
	if len(s.beads) == 0 {
		s.layout = layoutDense
		s.minExp = 0
		s.digits = s.digits[:0]
		return
	}
	lo := s.beads[0].Exp
	hi := s.beads[len(s.beads)-1].Exp
	span := int(hi-lo) + 1
	digits := acquireDigits(span)
	for _, b := range s.beads {
		digits[b.Exp-lo] = b.Value
	}
	releaseBeads(s.beads)
	s.beads = nil
	s.layout = layoutDense
	s.minExp = lo
	s.digits = digits
}

// sparsify converts the store to the sparse layout in place, dropping zero
// beads.
func (s *beadStore) sparsify() {
	if s.layout == layoutSparse {
		return
	}
	beads := acquireBeads(s.nonZeroCount())
	for i, d := range s.digits {
		if d != 0 {
			beads = append(beads, Bead{Value: d, Exp: s.minExp + int32(i)})
		}
	}
	releaseDigits(s.digits)
	s.digits = nil
	s.layout = layoutSparse
	s.beads = beads
}

// density returns the non-zero bead count over the numeral's exponent span.
// The span is anchored at the radix point: a lone bead at exponent 500 is
// one populated position out of 501, not a full single-digit numeral.
// ok is false for a zero store.
func (s *beadStore) density() (d float64, ok bool) {
	lo, hi, ok := s.span()
	if !ok {
		return 0, false
	}
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	span := int(hi-lo) + 1
	return float64(s.nonZeroCount()) / float64(span), true
}

// optimize applies the density rule: sparse below SparseDensityThreshold,
// dense at or above it. Zero stores canonicalize to empty sparse.
func (s *beadStore) optimize() {
	density, ok := s.density()
	if !ok {
		s.release()
		s.layout = layoutSparse
		return
	}
	if density < SparseDensityThreshold {
		s.sparsify()
	} else {
		s.densify()
		s.trimDense()
	}
}

// trimDense removes leading and trailing zero digits from a dense store.
func (s *beadStore) trimDense() {
	if s.layout != layoutDense {
		return
	}
	hi := len(s.digits)
	for hi > 0 && s.digits[hi-1] == 0 {
		hi--
	}
	lo := 0
	for lo < hi && s.digits[lo] == 0 {
		lo++
	}
	if lo == 0 && hi == len(s.digits) {
		return
	}
	copy(s.digits, s.digits[lo:hi])
	s.digits = s.digits[:hi-lo]
	s.minExp += int32(lo)
	if len(s.digits) == 0 {
		s.minExp = 0
	}
}

// clone returns a deep copy of the store.
func (s *beadStore) clone() beadStore {
	out := beadStore{layout: s.layout, minExp: s.minExp}
	if s.layout == layoutDense {
		out.digits = append(acquireDigits(0), s.digits...)
	} else {
		out.beads = append(acquireBeads(0), s.beads...)
	}
	return out
}

// release returns the store's buffers to the pools and empties it.
func (s *beadStore) release() {
	releaseDigits(s.digits)
	releaseBeads(s.beads)
	s.digits = nil
	s.beads = nil
	s.minExp = 0
}

// memBytes estimates the heap footprint of the store payload.
func (s *beadStore) memBytes() uint64 {
	if s.layout == layoutSparse {
		return uint64(cap(s.beads)) * 8
	}
	return uint64(cap(s.digits)) * 4
}
