package abacus

import (
	numerr "github.com/crystalline/abacus/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Number-Theoretic Operations
// ─────────────────────────────────────────────────────────────────────────────

// isInteger reports whether n has no fractional beads.
func (n *Number) isInteger() bool {
	lo, _, ok := n.store.span()
	return !ok || lo >= 0
}

// requireIntegers validates that every operand is an integer.
func requireIntegers(nums ...*Number) error {
	for _, n := range nums {
		if !n.isInteger() {
			return numerr.ErrNotInteger
		}
	}
	return nil
}

// gcdMag computes the greatest common divisor of two magnitudes by the
// Euclidean remainder loop. Returns an owned magnitude.
func gcdMag(a, b mag, base uint32) mag {
	x := a.clone().trim()
	y := b.clone().trim()
	for !y.isZero() {
		q, r := divMag(x, y, base, 0)
		releaseDigits(q.digits)
		releaseDigits(x.digits)
		x = y
		y = r
	}
	releaseDigits(y.digits)
	return x
}

// GCD sets z to the greatest common divisor of a and b, always non-negative,
// with GCD(0, n) = |n|. Fails with ErrNotInteger when an operand has
// fractional beads.
func (z *Number) GCD(a, b *Number) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	if err := a.sameBase("GCD", b); err != nil {
		return err
	}
	if err := requireIntegers(a, b); err != nil {
		return err
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	g := gcdMag(ma, mb, a.base)
	releaseView(mb, ownB)
	releaseView(ma, ownA)
	z.base = a.base
	z.inheritPrec(a, b)
	return z.setMag(g, false)
}

// LCM sets z to the least common multiple of a and b, always non-negative,
// with LCM(0, 0) = 0.
func (z *Number) LCM(a, b *Number) error {
	if err := checkUsable(z, a, b); err != nil {
		return err
	}
	if err := a.sameBase("LCM", b); err != nil {
		return err
	}
	if err := requireIntegers(a, b); err != nil {
		return err
	}
	if a.IsZero() && b.IsZero() {
		z.base = a.base
		z.inheritPrec(a, b)
		return z.setMag(mag{}, false)
	}
	ma, ownA := a.magView()
	mb, ownB := b.magView()
	g := gcdMag(ma, mb, a.base)
	// lcm = (|a| / gcd) * |b|, dividing first to keep intermediates small.
	q, r := divMag(ma, g, a.base, 0)
	releaseDigits(r.digits)
	releaseDigits(g.digits)
	l := mulMag(q, mb, a.base)
	releaseDigits(q.digits)
	releaseView(mb, ownB)
	releaseView(ma, ownA)
	z.base = a.base
	z.inheritPrec(a, b)
	return z.setMag(l, false)
}

// Coprime reports whether gcd(a, b) == 1.
func (a *Number) Coprime(b *Number) (bool, error) {
	g, err := New(a.Base())
	if err != nil {
		return false, err
	}
	defer g.Release()
	if err := g.GCD(a, b); err != nil {
		return false, err
	}
	one := mag{digits: []uint32{1}, minExp: 0}
	gm, owned := g.magView()
	coprime := cmpMag(gm, one) == 0
	releaseView(gm, owned)
	return coprime, nil
}

// PowMod sets z = a^e mod m by repeated squaring with reduction after every
// step. All operands must be integers; e must be non-negative and m
// non-zero.
func (z *Number) PowMod(a, e, m *Number) error {
	if err := checkUsable(z, a, e, m); err != nil {
		return err
	}
	if err := a.sameBase("PowMod", e, m); err != nil {
		return err
	}
	if err := requireIntegers(a, e, m); err != nil {
		return err
	}
	if e.IsNegative() {
		return numerr.NewDomainError("PowMod", "negative exponent")
	}
	if m.IsZero() {
		return numerr.ErrDivideByZero
	}

	me, ownE := e.magView()
	expBits := magBits(me, a.base)
	releaseView(me, ownE)

	ma, ownA := a.magView()
	mm, ownM := m.magView()
	defer releaseView(mm, ownM)

	// acc = 1, sq = a mod m.
	acc := mag{digits: acquireDigits(1), minExp: 0}
	acc.digits[0] = 1
	_, sq := divMag(ma, mm, a.base, 0)
	releaseView(ma, ownA)

	reduce := func(x mag) mag {
		q, r := divMag(x, mm, a.base, 0)
		releaseDigits(q.digits)
		releaseDigits(x.digits)
		return r
	}
	for _, bit := range expBits {
		if bit {
			p := mulMag(acc, sq, a.base)
			releaseDigits(acc.digits)
			acc = reduce(p)
		}
		p := mulMag(sq, sq, a.base)
		releaseDigits(sq.digits)
		sq = reduce(p)
	}
	releaseDigits(sq.digits)

	// Remainder sign follows the dividend: negative base with odd exponent.
	neg := a.IsNegative() && len(expBits) > 0 && expBits[0]
	z.base = a.base
	z.prec = 0
	return z.setMag(acc, neg)
}

// magBits expands a magnitude into its binary bits, least significant first,
// by repeated halving.
func magBits(m mag, base uint32) []bool {
	var bits []bool
	two := mag{digits: smallDigits(2, base), minExp: 0}
	x := m.clone().trim()
	for !x.isZero() {
		q, r := divMag(x, two, base, 0)
		bits = append(bits, !r.isZero())
		releaseDigits(r.digits)
		releaseDigits(x.digits)
		x = q
	}
	releaseDigits(x.digits)
	return bits
}

// smallDigits renders a small value as digits in the given base.
func smallDigits(v uint32, base uint32) []uint32 {
	var out []uint32
	for v > 0 {
		out = append(out, v%base)
		v /= base
	}
	return out
}
