package abacus

import (
	"math"

	numerr "github.com/crystalline/abacus/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Newton-Raphson Roots
// ─────────────────────────────────────────────────────────────────────────────

// halveMag returns floor(m / 2) as an owned magnitude.
func halveMag(m mag, base uint32) mag {
	two := mag{digits: smallDigits(2, base), minExp: 0}
	q, r := divMag(m, two, base, 0)
	releaseDigits(r.digits)
	return q
}

// powMagUint raises m to the k-th power by repeated squaring. Returns an
// owned magnitude; k = 0 yields 1.
func powMagUint(m mag, k uint32, base uint32) mag {
	acc := mag{digits: acquireDigits(1), minExp: 0}
	acc.digits[0] = 1
	sq := m.clone().trim()
	for k > 0 {
		if k&1 == 1 {
			p := mulMag(acc, sq, base)
			releaseDigits(acc.digits)
			acc = p
		}
		k >>= 1
		if k > 0 {
			p := mulMag(sq, sq, base)
			releaseDigits(sq.digits)
			sq = p
		}
	}
	releaseDigits(sq.digits)
	return acc.trim()
}

// onePlus returns m + 1 as an owned magnitude.
func onePlus(m mag, base uint32) mag {
	one := mag{digits: []uint32{1}, minExp: 0}
	return addMag(m, one, base)
}

// irootMag computes floor(n^(1/k)) for a non-zero integer magnitude by the
// Newton iteration x' = ((k-1)*x + n/x^(k-1)) / k, seeded from a power of
// the base guaranteed to lie above the root. Convergence is monotone
// downward, so the loop stops the first time an iterate fails to decrease.
// The candidate is then floor-verified against n.
func irootMag(n mag, k uint32, base uint32) mag {
	intDigits := n.maxExp() + 1
	guessExp := int32((int64(intDigits) + int64(k) - 1) / int64(k))
	x := mag{digits: acquireDigits(1), minExp: guessExp}
	x.digits[0] = 1
	x = x.trim()

	kMag := mag{digits: smallDigits(k, base), minExp: 0}
	km1Mag := mag{digits: smallDigits(k-1, base), minExp: 0}

	for {
		// t = n / x^(k-1)
		xp := powMagUint(x, k-1, base)
		t, r := divMag(n, xp, base, 0)
		releaseDigits(r.digits)
		releaseDigits(xp.digits)
		// s = (k-1)*x + t
		kx := mulMag(km1Mag, x, base)
		s := addMag(kx, t, base)
		releaseDigits(kx.digits)
		releaseDigits(t.digits)
		// x' = s / k
		next, r2 := divMag(s, kMag, base, 0)
		releaseDigits(r2.digits)
		releaseDigits(s.digits)
		if cmpMag(next, x) >= 0 {
			releaseDigits(next.digits)
			break
		}
		releaseDigits(x.digits)
		x = next
	}

	// Floor verification: x^k <= n < (x+1)^k.
	for {
		xp := powMagUint(x, k, base)
		over := cmpMag(xp, n) > 0
		releaseDigits(xp.digits)
		if !over {
			break
		}
		one := mag{digits: []uint32{1}, minExp: 0}
		dec := subMag(x, one, base)
		releaseDigits(x.digits)
		x = dec
	}
	for {
		x1 := onePlus(x, base)
		xp := powMagUint(x1, k, base)
		fits := cmpMag(xp, n) <= 0
		releaseDigits(xp.digits)
		if !fits {
			releaseDigits(x1.digits)
			break
		}
		releaseDigits(x.digits)
		x = x1
	}
	return x
}

// intPartMag truncates a magnitude to its non-negative exponents.
func intPartMag(m mag) mag {
	if m.isZero() || m.minExp >= 0 {
		return m
	}
	cut := int(-m.minExp)
	if cut >= len(m.digits) {
		return mag{}
	}
	return mag{digits: m.digits[cut:], minExp: 0}.trim()
}

// Sqrt sets z = floor(sqrt(a)) for non-negative a, discarding any
// fractional beads of the operand first. Fails with DomainError on negative
// input.
func (z *Number) Sqrt(a *Number) error {
	return z.Root(a, 2)
}

// Root sets z = floor(a^(1/k)) for k >= 1 and non-negative a. k = 1 copies
// the integer part of a.
func (z *Number) Root(a *Number, k uint32) error {
	if err := checkUsable(z, a); err != nil {
		return err
	}
	if k == 0 {
		return numerr.NewDomainError("Root", "zeroth root is undefined")
	}
	if a.IsNegative() {
		return numerr.NewDomainError("Root", "negative operand")
	}
	ma, ownA := a.magView()
	defer releaseView(ma, ownA)
	n := intPartMag(ma)
	z.base = a.base
	z.prec = a.prec
	if n.isZero() {
		return z.setMag(mag{}, false)
	}
	if k == 1 {
		return z.setMag(n.clone(), false)
	}
	return z.setMag(irootMag(n, k, a.base), false)
}

// SqrtFrac sets z = sqrt(a) to prec fractional digits by Newton iteration
// on the fractional divide, seeded from the integer square root. It stops
// when successive iterates differ by less than base^(-prec). If the
// iteration cap is reached first, z holds the best iterate and
// ErrPrecisionUnderflow is returned.
func (z *Number) SqrtFrac(a *Number, prec int32) error {
	if err := checkUsable(z, a); err != nil {
		return err
	}
	if a.IsNegative() {
		return numerr.NewDomainError("SqrtFrac", "negative operand")
	}
	if prec < 0 {
		prec = 0
	}
	if a.IsZero() {
		z.base = a.base
		z.prec = prec
		return z.setMag(mag{}, false)
	}

	guard := prec + 2
	x, err := New(a.base)
	if err != nil {
		return err
	}
	defer x.Release()
	if err := x.Sqrt(a); err != nil {
		return err
	}
	if x.IsZero() {
		// Operand below 1: seed from above.
		om := mag{digits: acquireDigits(1), minExp: 0}
		om.digits[0] = 1
		if err := x.setMag(om, false); err != nil {
			return err
		}
	}

	two, err := FromUint64(2, a.base)
	if err != nil {
		return err
	}
	defer two.Release()
	eps, err := New(a.base)
	if err != nil {
		return err
	}
	defer eps.Release()
	em := mag{digits: acquireDigits(1), minExp: -prec}
	em.digits[0] = 1
	if err := eps.setMag(em, false); err != nil {
		return err
	}

	t, err := New(a.base)
	if err != nil {
		return err
	}
	defer t.Release()
	diff, err := New(a.base)
	if err != nil {
		return err
	}
	defer diff.Release()

	// The cap scales with the bit size of the target precision: Newton
	// doubles correct digits per step, so 2*log2(prec in bits) plus slack
	// covers any convergent case.
	bitsNeeded := float64(prec+1) * math.Log2(float64(a.base))
	maxIter := 2*int(math.Ceil(math.Log2(bitsNeeded+2))) + 8

	converged := false
	for i := 0; i < maxIter; i++ {
		if err := t.DivFrac(a, x, guard); err != nil {
			return err
		}
		if err := t.Add(t, x); err != nil {
			return err
		}
		if err := t.DivFrac(t, two, guard); err != nil {
			return err
		}
		if err := diff.Sub(t, x); err != nil {
			return err
		}
		if err := diff.Abs(diff); err != nil {
			return err
		}
		if err := x.Set(t); err != nil {
			return err
		}
		c, err := diff.Cmp(eps)
		if err != nil {
			return err
		}
		if c < 0 {
			converged = true
			break
		}
	}

	// Truncate the guard digits back to the requested precision.
	xm, owned := x.magView()
	kept := xm
	if !xm.isZero() && xm.minExp < -prec {
		cut := int(-prec - xm.minExp)
		if cut >= len(xm.digits) {
			kept = mag{}
		} else {
			kept = mag{digits: xm.digits[cut:], minExp: -prec}.trim()
		}
	}
	res := kept.clone()
	releaseView(xm, owned)
	z.base = a.base
	z.prec = prec
	if err := z.setMag(res, false); err != nil {
		return err
	}
	if !converged {
		return numerr.ErrPrecisionUnderflow
	}
	return nil
}
