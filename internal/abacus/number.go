package abacus

import (
	"math"
	"strings"
	"sync/atomic"

	numerr "github.com/crystalline/abacus/internal/errors"
	"github.com/crystalline/abacus/internal/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Number
// ─────────────────────────────────────────────────────────────────────────────

// Base bounds supported by the kernel.
const (
	MinBase = 2
	MaxBase = 256
)

// DefaultBeadLimit caps a single Number at 64M beads (256MB dense) unless the
// application configures otherwise.
const DefaultBeadLimit = 64 << 20

var beadLimit atomic.Uint64

var log logging.Logger = logging.NewNopLogger()

func init() { beadLimit.Store(DefaultBeadLimit) }

// SetLogger installs the logger used for kernel diagnostics, such as the
// schoolbook fallback after an NTT setup failure.
func SetLogger(l logging.Logger) {
	if l != nil {
		log = l
	}
}

// SetBeadLimit sets the per-Number bead ceiling. Zero restores the default.
func SetBeadLimit(limit uint64) {
	if limit == 0 {
		limit = DefaultBeadLimit
	}
	beadLimit.Store(limit)
}

// BeadLimit returns the current per-Number bead ceiling.
func BeadLimit() uint64 { return beadLimit.Load() }

// checkBeads verifies a prospective bead count against the ceiling.
func checkBeads(n uint64) error {
	if limit := beadLimit.Load(); n > limit {
		return numerr.AllocError{Requested: n, Limit: limit}
	}
	return nil
}

// ValidBase reports whether base lies in the supported range.
func ValidBase(base uint32) bool { return base >= MinBase && base <= MaxBase }

// Number is an arbitrary-precision signed value in an arbitrary base.
//
// A Number is logically immutable to everyone but the destination side of an
// operation: z.Add(a, b) writes z and only reads a and b. The zero value is
// not usable; construct through New or the From* constructors.
type Number struct {
	base     uint32
	negative bool
	store    beadStore
	prec     int32
	released bool
}

// New returns the number zero in the given base.
func New(base uint32) (*Number, error) {
	if !ValidBase(base) {
		return nil, numerr.InvalidBaseError{Base: base}
	}
	return &Number{base: base, store: beadStore{layout: layoutSparse}}, nil
}

// FromUint64 constructs a Number from an unsigned integer by repeated
// division by the base.
func FromUint64(v uint64, base uint32) (*Number, error) {
	n, err := New(base)
	if err != nil {
		return nil, err
	}
	n.setUint(v)
	return n, nil
}

// FromInt64 constructs a Number from a signed integer.
func FromInt64(v int64, base uint32) (*Number, error) {
	n, err := New(base)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		n.negative = true
		// Two's complement: -MinInt64 overflows int64 but not uint64.
		n.setUint(uint64(-(v + 1)) + 1)
	} else {
		n.setUint(uint64(v))
	}
	return n, nil
}

// setUint fills a zero store with the digits of v, least significant first.
func (n *Number) setUint(v uint64) {
	if v == 0 {
		return
	}
	digits := acquireDigits(maxDigitsUint64(n.base))
	i := 0
	for v > 0 {
		digits[i] = uint32(v % uint64(n.base))
		v /= uint64(n.base)
		i++
	}
	n.store = beadStore{layout: layoutDense, minExp: 0, digits: digits[:i]}
	n.store.optimize()
	n.prec = 0
}

// maxDigitsUint64 bounds the digit count of a uint64 in the given base.
func maxDigitsUint64(base uint32) int {
	if base >= 16 {
		return 17
	}
	if base >= 4 {
		return 33
	}
	return 64
}

// FromFloat64 constructs a Number from a float: the integer part by repeated
// division, the fractional part by repeated multiplication emitting one bead
// per step up to prec beads. The last bead is rounded half-to-even against
// the digit that would have followed.
func FromFloat64(v float64, base uint32, prec int32) (*Number, error) {
	if !ValidBase(base) {
		return nil, numerr.InvalidBaseError{Base: base}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, numerr.NewDomainError("FromFloat64", "value %v is not finite", v)
	}
	if prec < 0 {
		prec = 0
	}
	n := &Number{base: base, store: beadStore{layout: layoutSparse}, prec: prec}
	negative := math.Signbit(v)
	v = math.Abs(v)
	intPart, frac := math.Modf(v)

	m := mag{}
	if intPart > 0 {
		// Digit extraction by exact float remainder keeps working past the
		// uint64 range (a float64 can reach ~1e308).
		b := float64(base)
		var ds []uint32
		for intPart > 0 {
			d := math.Mod(intPart, b)
			ds = append(ds, uint32(d))
			intPart = math.Floor((intPart - d) / b)
		}
		digits := acquireDigits(len(ds))
		copy(digits, ds)
		m = mag{digits: digits, minExp: 0}.trim()
	}
	for k := int32(1); k <= prec && frac != 0; k++ {
		frac *= float64(base)
		d := math.Floor(frac)
		frac -= d
		if d != 0 {
			one := mag{digits: []uint32{uint32(d)}, minExp: -k}
			merged := addMag(m, one, base)
			releaseDigits(m.digits)
			m = merged
		}
	}
	if frac != 0 {
		next := uint32(math.Floor(frac * float64(base)))
		sticky := frac*float64(base)-math.Floor(frac*float64(base)) != 0
		var rounded mag
		roundHalfEven(m, base, -prec, next, sticky, &rounded)
		releaseDigits(m.digits)
		m = rounded
	}
	if err := n.setMag(m, negative); err != nil {
		return nil, err
	}
	return n, nil
}

// Set copies a's value into z, adopting a's base and precision hint.
func (z *Number) Set(a *Number) error {
	if err := checkUsable(z, a); err != nil {
		return err
	}
	if z == a {
		return nil
	}
	ma, owned := a.magView()
	defer releaseView(ma, owned)
	z.base = a.base
	z.prec = a.prec
	return z.setMag(ma.clone(), a.IsNegative())
}

// Truncate drops beads below base^(-prec), cutting the value toward zero.
// Iterative consumers use it to shed guard digits between steps.
func (n *Number) Truncate(prec int32) error {
	if err := checkUsable(n); err != nil {
		return err
	}
	lo, _, ok := n.store.span()
	if !ok || lo >= -prec {
		return nil
	}
	m, owned := n.magView()
	cut := int(-prec - m.minExp)
	var kept mag
	if cut < len(m.digits) {
		kept = mag{digits: m.digits[cut:], minExp: -prec}.trim()
	}
	res := kept.clone()
	releaseView(m, owned)
	return n.setMag(res, n.negative)
}

// Copy returns an independent deep copy.
func (n *Number) Copy() *Number {
	return &Number{
		base:     n.base,
		negative: n.negative,
		store:    n.store.clone(),
		prec:     n.prec,
	}
}

// Release returns the Number's buffers to the pools. The Number must not be
// used afterwards; operations on a released Number fail with ErrReleased.
func (n *Number) Release() {
	if n.released {
		return
	}
	n.store.release()
	n.released = true
}

// checkUsable validates that every listed Number is live.
func checkUsable(nums ...*Number) error {
	for _, n := range nums {
		if n == nil || n.released {
			return numerr.ErrReleased
		}
	}
	return nil
}

// sameBase validates that all operands share the destination's base.
func (n *Number) sameBase(op string, others ...*Number) error {
	for _, o := range others {
		if o.base != n.base {
			return numerr.ArgMismatchError{Op: op, BaseA: n.base, BaseB: o.base}
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Magnitude Bridge
// ─────────────────────────────────────────────────────────────────────────────

// magView exposes the store as a trimmed magnitude. For a dense store the
// view aliases the live digits and owned is false; the caller must not hold
// it across a write to n. Sparse stores are densified into a pooled buffer
// the caller releases.
func (n *Number) magView() (m mag, owned bool) {
	if n.store.layout == layoutDense {
		return mag{digits: n.store.digits, minExp: n.store.minExp}.trim(), false
	}
	lo, hi, ok := n.store.span()
	if !ok {
		return mag{}, false
	}
	digits := acquireDigits(int(hi-lo) + 1)
	for _, b := range n.store.beads {
		digits[b.Exp-lo] = b.Value
	}
	return mag{digits: digits, minExp: lo}, true
}

// releaseView releases a magView buffer when it was owned.
func releaseView(m mag, owned bool) {
	if owned {
		releaseDigits(m.digits)
	}
}

// setMag installs a magnitude as the Number's new value, taking ownership of
// its pooled digit buffer, and canonicalizes: sign normalization for zero,
// density rule, bead ceiling. On error the Number is untouched and the
// buffer is released.
func (n *Number) setMag(m mag, negative bool) error {
	m = m.trim()
	if err := checkBeads(uint64(len(m.digits))); err != nil {
		releaseDigits(m.digits)
		return err
	}
	old := n.store
	if m.isZero() {
		releaseDigits(m.digits)
		n.store = beadStore{layout: layoutSparse}
		n.negative = false
	} else {
		n.store = beadStore{layout: layoutDense, minExp: m.minExp, digits: m.digits}
		n.store.optimize()
		n.negative = negative
	}
	old.release()
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Introspection
// ─────────────────────────────────────────────────────────────────────────────

// Base returns the positional radix.
func (n *Number) Base() uint32 { return n.base }

// Precision returns the fractional precision hint.
func (n *Number) Precision() int32 { return n.prec }

// SetPrecision updates the fractional precision hint carried into operations
// with non-terminating expansions.
func (n *Number) SetPrecision(prec int32) {
	if prec >= 0 {
		n.prec = prec
	}
}

// IsZero reports whether the value is zero.
func (n *Number) IsZero() bool { return n.store.isZero() }

// IsNegative reports whether the value is strictly negative.
func (n *Number) IsNegative() bool { return n.negative && !n.store.isZero() }

// IsSparse reports whether the store currently uses the sparse layout.
func (n *Number) IsSparse() bool { return n.store.layout == layoutSparse }

// Sparsity returns the non-zero bead density over the numeral's exponent
// span, anchored at the radix point: 1.0 for a fully populated numeral,
// approaching 0 for a lone high-exponent bead. A zero Number reports 0.
func (n *Number) Sparsity() float64 {
	d, ok := n.store.density()
	if !ok {
		return 0
	}
	return d
}

// Span returns the lowest and highest exponents carrying a non-zero bead.
// ok is false for zero.
func (n *Number) Span() (lo, hi int32, ok bool) { return n.store.span() }

// IsInteger reports whether the value has no fractional beads.
func (n *Number) IsInteger() bool { return n.isInteger() }

// MemoryUsage estimates the heap bytes held by the Number's store.
func (n *Number) MemoryUsage() uint64 { return n.store.memBytes() }

// Sparsify forces the sparse layout.
func (n *Number) Sparsify() { n.store.sparsify() }

// Densify forces the dense layout.
func (n *Number) Densify() { n.store.densify() }

// OptimizeRepresentation applies the density rule: sparse when fewer than
// 30% of positions in the span are non-zero, dense otherwise.
func (n *Number) OptimizeRepresentation() {
	before := n.store.layout
	n.store.optimize()
	if n.store.layout != before {
		layout := "dense"
		if n.store.layout == layoutSparse {
			layout = "sparse"
		}
		log.Debug("representation optimized",
			logging.String("layout", layout),
			logging.Float64("sparsity", n.Sparsity()))
	}
}

// Equal reports definitional equality: identical base, sign and digits,
// except that zero equals zero regardless of sign.
func (n *Number) Equal(o *Number) bool {
	if n.base != o.base {
		return false
	}
	if n.store.isZero() && o.store.isZero() {
		return true
	}
	if n.IsNegative() != o.IsNegative() {
		return false
	}
	ma, ownA := n.magView()
	mb, ownB := o.magView()
	eq := cmpMag(ma, mb) == 0
	releaseView(ma, ownA)
	releaseView(mb, ownB)
	return eq
}

// ─────────────────────────────────────────────────────────────────────────────
// Conversions Out
// ─────────────────────────────────────────────────────────────────────────────

// Uint64 converts the integer part to uint64. Negative values and values
// above MaxUint64 fail with Overflow. Fractional beads are truncated.
func (n *Number) Uint64() (uint64, error) {
	if n.IsNegative() {
		return 0, numerr.OverflowError{Target: "uint64", Message: "value is negative"}
	}
	return n.absUint64("uint64", math.MaxUint64)
}

// Int64 converts the integer part to int64, failing with Overflow outside
// [MinInt64, MaxInt64]. Fractional beads are truncated.
func (n *Number) Int64() (int64, error) {
	if n.IsNegative() {
		u, err := n.absUint64("int64", 1<<63)
		if err != nil {
			return 0, err
		}
		return -int64(u-1) - 1, nil
	}
	u, err := n.absUint64("int64", math.MaxInt64)
	if err != nil {
		return 0, err
	}
	return int64(u), nil
}

// absUint64 accumulates the non-negative-exponent beads into a uint64,
// failing with Overflow past limit.
func (n *Number) absUint64(target string, limit uint64) (uint64, error) {
	var out uint64
	var fail bool
	_, hi, ok := n.store.span()
	if !ok {
		return 0, nil
	}
	for exp := hi; exp >= 0 && !fail; exp-- {
		d := uint64(n.store.get(exp))
		if out > (limit-d)/uint64(n.base) {
			fail = true
			break
		}
		out = out*uint64(n.base) + d
	}
	if fail {
		return 0, numerr.OverflowError{Target: target, Message: "magnitude too large"}
	}
	return out, nil
}

// Float64 converts to the nearest float64. It never fails; values beyond
// the float range saturate to infinity.
func (n *Number) Float64() float64 {
	var out float64
	b := float64(n.base)
	n.store.forEachAsc(func(bd Bead) {
		out += float64(bd.Value) * math.Pow(b, float64(bd.Exp))
	})
	if n.negative {
		out = -out
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Text Formatting and Parsing
// ─────────────────────────────────────────────────────────────────────────────

const lowerDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// String renders the value in its own base: alphanumeric digits up to base
// 36, colon-separated decimal digit values above.
func (n *Number) String() string {
	return n.format(n.base, func(exp int32) uint32 { return n.store.get(exp) })
}

// format renders digits fetched by get, spanning at least exponent 0 down to
// the lowest non-zero bead.
func (n *Number) format(base uint32, get func(int32) uint32) string {
	lo, hi, ok := n.store.span()
	if !ok {
		return "0"
	}
	if hi < 0 {
		hi = 0
	}
	var sb strings.Builder
	if n.negative {
		sb.WriteByte('-')
	}
	writeDigit := func(d uint32, first bool) {
		if base <= 36 {
			sb.WriteByte(lowerDigits[d])
			return
		}
		if !first {
			sb.WriteByte(':')
		}
		sb.WriteString(formatUint32(d))
	}
	for exp := hi; exp >= 0; exp-- {
		writeDigit(get(exp), exp == hi)
	}
	if lo < 0 {
		sb.WriteByte('.')
		for exp := int32(-1); exp >= lo; exp-- {
			writeDigit(get(exp), exp == -1)
		}
	}
	return sb.String()
}

// formatUint32 is strconv.Itoa for the narrow digit range without the import.
func formatUint32(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Text renders the value converted exactly into baseOut. The integer part
// rebases by repeated division; the fractional part by repeated
// multiplication, emitting up to the Number's precision hint in output
// digits (non-terminating expansions truncate there).
func (n *Number) Text(baseOut uint32) (string, error) {
	if err := checkUsable(n); err != nil {
		return "", err
	}
	if !ValidBase(baseOut) {
		return "", numerr.InvalidBaseError{Base: baseOut}
	}
	if baseOut == n.base {
		return n.String(), nil
	}
	if n.IsZero() {
		return "0", nil
	}
	m, owned := n.magView()
	defer releaseView(m, owned)

	// Split at the radix point.
	intPart := m
	fracPart := mag{}
	if m.minExp < 0 {
		cut := -m.minExp
		if int(cut) >= len(m.digits) {
			intPart = mag{}
			fracPart = m
		} else {
			fracPart = mag{digits: m.digits[:cut], minExp: m.minExp}.trim()
			intPart = mag{digits: m.digits[cut:], minExp: 0}.trim()
		}
	}

	var intDigits []uint32
	work := intPart.clone()
	divisor := smallMag(baseOut, n.base)
	for !work.isZero() {
		q, r := divMag(work, divisor, n.base, 0)
		d, _ := magUint64(r, n.base)
		intDigits = append(intDigits, uint32(d))
		releaseDigits(work.digits)
		releaseDigits(r.digits)
		work = q
	}
	releaseDigits(work.digits)
	releaseDigits(divisor.digits)

	var sb strings.Builder
	if n.negative {
		sb.WriteByte('-')
	}
	writeDigit := func(d uint32, first bool) {
		if baseOut <= 36 {
			sb.WriteByte(lowerDigits[d])
			return
		}
		if !first {
			sb.WriteByte(':')
		}
		sb.WriteString(formatUint32(d))
	}
	if len(intDigits) == 0 {
		writeDigit(0, true)
	}
	for i := len(intDigits) - 1; i >= 0; i-- {
		writeDigit(intDigits[i], i == len(intDigits)-1)
	}

	if !fracPart.isZero() {
		outPrec := n.prec
		if outPrec <= 0 {
			outPrec = int32(-fracPart.minExp) + 1
		}
		sb.WriteByte('.')
		f := fracPart.clone()
		for k := int32(0); k < outPrec && !f.isZero(); k++ {
			scaled := mulDigit(f, baseOut, n.base)
			releaseDigits(f.digits)
			// Digits at exponent >= 0 form the emitted output digit.
			d := uint32(0)
			if !scaled.isZero() && scaled.maxExp() >= 0 {
				for exp := scaled.maxExp(); exp >= 0; exp-- {
					d = d*n.base + scaled.get(exp)
				}
			}
			writeDigit(d, k == 0)
			// Keep only the fractional residue.
			f = scaled
			if !f.isZero() && f.maxExp() >= 0 {
				cut := -f.minExp
				if cut <= 0 {
					releaseDigits(f.digits)
					f = mag{}
				} else {
					kept := mag{digits: acquireDigits(int(cut)), minExp: f.minExp}
					copy(kept.digits, f.digits[:cut])
					releaseDigits(f.digits)
					f = kept.trim()
				}
			}
		}
		releaseDigits(f.digits)
	}
	return sb.String(), nil
}

// smallMag builds the magnitude of a small value v in the given base.
func smallMag(v uint32, base uint32) mag {
	digits := acquireDigits(8)
	i := 0
	for v > 0 {
		digits[i] = v % base
		v /= base
		i++
	}
	return mag{digits: digits[:i], minExp: 0}.trim()
}

// magUint64 folds a small magnitude into a uint64, saturating on overflow.
func magUint64(m mag, base uint32) (uint64, bool) {
	if m.isZero() {
		return 0, true
	}
	var out uint64
	for exp := m.maxExp(); exp >= m.minExp; exp-- {
		d := uint64(m.get(exp))
		if out > (math.MaxUint64-d)/uint64(base) {
			return math.MaxUint64, false
		}
		out = out*uint64(base) + d
	}
	return out, true
}

// Parse constructs a Number from a textual literal in the given base. Up to
// base 36 digits are alphanumeric (case-insensitive); above 36 each digit is
// its decimal value, digits separated by colons ("1:23:7.45:0"). A single
// '.' separates the integer and fractional parts; a leading '-' or '+' sets
// the sign.
func Parse(text string, base uint32, prec int32) (*Number, error) {
	if !ValidBase(base) {
		return nil, numerr.InvalidBaseError{Base: base}
	}
	if prec < 0 {
		prec = 0
	}
	orig := text
	offset := 0
	negative := false
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		negative = text[0] == '-'
		text = text[1:]
		offset = 1
	}
	if len(text) == 0 {
		return nil, numerr.ParseError{Input: orig, Base: base, Pos: offset}
	}

	intText := text
	fracText := ""
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		intText, fracText = text[:dot], text[dot+1:]
		if strings.IndexByte(fracText, '.') >= 0 {
			return nil, numerr.ParseError{Input: orig, Base: base, Pos: offset + dot + 1 + strings.IndexByte(fracText, '.')}
		}
	}

	intDigits, err := parseDigits(orig, intText, base, offset)
	if err != nil {
		return nil, err
	}
	fracOffset := offset + len(intText) + 1
	fracDigits, err := parseDigits(orig, fracText, base, fracOffset)
	if err != nil {
		return nil, err
	}
	if len(intDigits) == 0 && len(fracDigits) == 0 {
		return nil, numerr.ParseError{Input: orig, Base: base, Pos: offset}
	}

	n := &Number{base: base, store: beadStore{layout: layoutSparse}, prec: prec}
	total := len(intDigits) + len(fracDigits)
	if err := checkBeads(uint64(total)); err != nil {
		return nil, err
	}
	digits := acquireDigits(total)
	// Little-endian: fractional digits first (deepest last in text), then
	// integer digits reversed.
	for i, d := range fracDigits {
		digits[len(fracDigits)-1-i] = d
	}
	for i, d := range intDigits {
		digits[total-1-i] = d
	}
	m := mag{digits: digits, minExp: -int32(len(fracDigits))}
	if err := n.setMag(m, negative); err != nil {
		return nil, err
	}
	return n, nil
}

// parseDigits parses one side of the radix point into most-significant-first
// digit values. Empty text yields no digits.
func parseDigits(orig, text string, base uint32, offset int) ([]uint32, error) {
	if text == "" {
		return nil, nil
	}
	if base <= 36 {
		out := make([]uint32, 0, len(text))
		for i := 0; i < len(text); i++ {
			d, ok := digitValue(text[i])
			if !ok || d >= base {
				return nil, numerr.ParseError{Input: orig, Base: base, Pos: offset + i}
			}
			out = append(out, d)
		}
		return out, nil
	}
	parts := strings.Split(text, ":")
	out := make([]uint32, 0, len(parts))
	pos := offset
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return nil, numerr.ParseError{Input: orig, Base: base, Pos: pos}
		}
		var v uint32
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return nil, numerr.ParseError{Input: orig, Base: base, Pos: pos + i}
			}
			v = v*10 + uint32(p[i]-'0')
		}
		if v >= base {
			return nil, numerr.ParseError{Input: orig, Base: base, Pos: pos}
		}
		out = append(out, v)
		pos += len(p) + 1
	}
	return out, nil
}

// digitValue maps an ASCII digit character to its value for bases up to 36.
func digitValue(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'z':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}
