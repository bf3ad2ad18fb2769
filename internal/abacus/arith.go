package abacus

import (
	"sync/atomic"

	numerr "github.com/crystalline/abacus/internal/errors"
	"github.com/crystalline/abacus/internal/logging"
	"github.com/crystalline/abacus/internal/ntt"
)

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication Dispatch
// ─────────────────────────────────────────────────────────────────────────────

// DefaultNTTThreshold is the digit count above which multiplication switches
// to the number-theoretic transform.
const DefaultNTTThreshold = 256

var nttThreshold atomic.Int64

func init() { nttThreshold.Store(DefaultNTTThreshold) }

// SetNTTThreshold sets the per-operand digit count at which multiplication
// uses the NTT path. Zero restores the default; a negative value disables
// the NTT path entirely.
func SetNTTThreshold(threshold int) {
	if threshold == 0 {
		threshold = DefaultNTTThreshold
	}
	nttThreshold.Store(int64(threshold))
}

// mulPathObserver, when set, is told which multiplication path ran:
// "schoolbook", "ntt", or "fallback" (NTT setup failed mid-dispatch).
var mulPathObserver atomic.Value // func(string)

// SetMulPathObserver installs a callback invoked with the multiplication
// path chosen for each product. Used by the metrics layer.
func SetMulPathObserver(fn func(path string)) {
	if fn == nil {
		fn = func(string) {}
	}
	mulPathObserver.Store(fn)
}

func observeMulPath(path string) {
	if fn, ok := mulPathObserver.Load().(func(string)); ok {
		fn(path)
	}
}

// mulMag multiplies two magnitudes, dispatching to the NTT above the
// threshold and falling back to schoolbook when NTT setup fails.
func mulMag(a, b mag, base uint32) mag {
	threshold := nttThreshold.Load()
	if threshold > 0 && int64(len(a.digits)) >= threshold && int64(len(b.digits)) >= threshold {
		prod, err := ntt.MulDigits(a.digits, b.digits, base)
		if err == nil {
			observeMulPath("ntt")
			return mag{digits: prod, minExp: a.minExp + b.minExp}.trim()
		}
		log.Error("ntt multiply failed, using schoolbook", err,
			logging.Int("len_a", len(a.digits)),
			logging.Int("len_b", len(b.digits)))
		observeMulPath("fallback")
	} else {
		observeMulPath("schoolbook")
	}
	return mulSchool(a, b, base)
}

// ─────────────────────────────────────────────────────────────────────────────
// Signed Arithmetic
// ─────────────────────────────────────────────────────────────────────────────

// inheritPrec propagates the dominant operand's precision hint.
func (z *Number) inheritPrec(a, b *Number) {
	p := a.prec
	if b.prec > p {
		p = b.prec
	}
	z.prec = p
}

// addSigned computes a + (bNeg ? -|b| : |b|) into z. Both Sub and Add reduce
// to it. z may alias either operand: results are computed into fresh buffers
// and installed last.
func (z *Number) addSigned(op string, a, b *Number, bNeg bool) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	if err := a.sameBase(op, b); err != nil {
		return err
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	defer releaseView(mb, ownB)
	defer releaseView(ma, ownA)

	aNeg := a.IsNegative()
	effBNeg := b.IsNegative() != bNeg
	if b.IsZero() {
		effBNeg = false
	}

	var res mag
	var neg bool
	if aNeg == effBNeg {
		res = addMag(ma, mb, a.base)
		neg = aNeg
	} else {
		switch cmpMag(ma, mb) {
		case 0:
			res, neg = mag{}, false
		case 1:
			res, neg = subMag(ma, mb, a.base), aNeg
		default:
			res, neg = subMag(mb, ma, a.base), effBNeg
		}
	}
	z.base = a.base
	z.inheritPrec(a, b)
	return z.setMag(res, neg)
}

// Add sets z = a + b. Operands must share a base; z may alias either.
func (z *Number) Add(a, b *Number) error {
	return z.addSigned("Add", a, b, false)
}

// Sub sets z = a - b. Operands must share a base; z may alias either.
func (z *Number) Sub(a, b *Number) error {
	return z.addSigned("Sub", a, b, true)
}

// Neg sets z = -a. Zero stays positive.
func (z *Number) Neg(a *Number) error {
	if err := checkUsable(z, a); err != nil {
		return err
	}
	neg := !a.IsNegative() && !a.IsZero()
	ma, ownA := a.magView()
	defer releaseView(ma, ownA)
	z.base = a.base
	z.prec = a.prec
	return z.setMag(ma.clone(), neg)
}

// Abs sets z = |a|.
func (z *Number) Abs(a *Number) error {
	if err := checkUsable(z, a); err != nil {
		return err
	}
	ma, ownA := a.magView()
	defer releaseView(ma, ownA)
	z.base = a.base
	z.prec = a.prec
	return z.setMag(ma.clone(), false)
}

// Mul sets z = a * b. The sign is the XOR of the operand signs. Above the
// configured digit threshold the product runs through the NTT helper.
func (z *Number) Mul(a, b *Number) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	if err := a.sameBase("Mul", b); err != nil {
		return err
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	res := mulMag(ma, mb, a.base)
	neg := a.IsNegative() != b.IsNegative()
	releaseView(mb, ownB)
	releaseView(ma, ownA)
	z.base = a.base
	z.inheritPrec(a, b)
	return z.setMag(res, neg)
}

// Cmp compares a and b: -1 if a < b, 0 if equal, 1 if a > b.
func (a *Number) Cmp(b *Number) (int, error) {
	if err := checkUsable(a, b); err != nil {
		return 0, err
	}
	if err := a.sameBase("Cmp", b); err != nil {
		return 0, err
	}
	aNeg, bNeg := a.IsNegative(), b.IsNegative()
	if aNeg != bNeg {
		if aNeg {
			return -1, nil
		}
		return 1, nil
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	c := cmpMag(ma, mb)
	releaseView(mb, ownB)
	releaseView(ma, ownA)
	if aNeg {
		c = -c
	}
	return c, nil
}

// Shift sets z = a * base^k (a pure exponent shift, no digit work).
func (z *Number) Shift(a *Number, k int32) error {
	if err := checkUsable(z, a); err != nil {
		return err
	}
	ma, ownA := a.magView()
	defer releaseView(ma, ownA)
	z.base = a.base
	z.prec = a.prec
	return z.setMag(ma.clone().shifted(k), a.IsNegative())
}

// ─────────────────────────────────────────────────────────────────────────────
// Division
// ─────────────────────────────────────────────────────────────────────────────

// DivRem sets z = a quo b (truncated toward zero) and, when rem is non-nil,
// rem = a - z*b. The quotient sign is the XOR of the operand signs; the
// remainder sign follows the dividend. Fails with DivideByZero when b is
// zero.
func (z *Number) DivRem(a, b, rem *Number) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	if rem != nil {
		if err := checkUsable(rem); err != nil {
			return err
		}
	}
	if err := a.sameBase("Div", b); err != nil {
		return err
	}
	if b.IsZero() {
		return numerr.ErrDivideByZero
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	q, r := divMag(ma, mb, a.base, 0)
	releaseView(mb, ownB)
	releaseView(ma, ownA)

	qNeg := a.IsNegative() != b.IsNegative()
	rNeg := a.IsNegative()
	if rem != nil {
		rem.base = a.base
		rem.inheritPrec(a, b)
		if err := rem.setMag(r, rNeg); err != nil {
			releaseDigits(q.digits)
			return err
		}
	} else {
		releaseDigits(r.digits)
	}
	z.base = a.base
	z.inheritPrec(a, b)
	return z.setMag(q, qNeg)
}

// Div sets z = a quo b, discarding the remainder.
func (z *Number) Div(a, b *Number) error {
	return z.DivRem(a, b, nil)
}

// Rem sets z = a - (a quo b)*b.
func (z *Number) Rem(a, b *Number) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	q, err := New(a.base)
	if err != nil {
		return err
	}
	defer q.Release()
	return q.DivRem(a, b, z)
}

// DivFrac sets z = a / b extended past the radix point to prec fractional
// digits. The expansion terminates early when exact; otherwise the last
// retained digit is rounded half-to-even against the next digit that would
// have been produced.
func (z *Number) DivFrac(a, b *Number, prec int32) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	if err := a.sameBase("DivFrac", b); err != nil {
		return err
	}
	if b.IsZero() {
		return numerr.ErrDivideByZero
	}
	if prec < 0 {
		prec = 0
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	// One guard digit below the requested precision feeds the rounding.
	q, r := divMag(ma, mb, a.base, -(prec + 1))
	releaseView(mb, ownB)
	releaseView(ma, ownA)

	next := q.get(-(prec + 1))
	sticky := !r.isZero()
	releaseDigits(r.digits)

	kept := q
	if !q.isZero() && q.minExp <= -(prec+1) {
		cut := int(-prec - q.minExp)
		if cut >= len(q.digits) {
			kept = mag{}
		} else {
			kept = mag{digits: q.digits[cut:], minExp: -prec}.trim()
		}
	}
	var res mag
	roundHalfEven(kept, a.base, -prec, next, sticky, &res)
	releaseDigits(q.digits)

	z.base = a.base
	z.prec = prec
	return z.setMag(res, a.IsNegative() != b.IsNegative())
}
