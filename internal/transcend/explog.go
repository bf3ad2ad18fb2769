package transcend

import (
	"github.com/crystalline/abacus/internal/abacus"
	numerr "github.com/crystalline/abacus/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Exponential
// ─────────────────────────────────────────────────────────────────────────────

// Exp sets z = e^x to prec fractional digits: the argument is reduced to
// r in (-ln2/2, ln2/2] via e^x = 2^k * e^r, the Taylor series of e^r is
// summed until the next term vanishes, and the 2^k factor is applied last.
func Exp(z, x *abacus.Number, prec int32) error {
	if prec < 0 {
		prec = 0
	}
	base := x.Base()
	work := prec + guardDigits

	ln2, err := Ln2(base, work)
	if err != nil {
		return err
	}
	defer ln2.Release()

	// k = round(x / ln2); r = x - k*ln2.
	k, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer k.Release()
	if err := k.DivFrac(x, ln2, 0); err != nil {
		return err
	}
	shift, err := k.Int64()
	if err != nil {
		return numerr.WrapError(err, "Exp: range reduction exponent")
	}
	r := x.Copy()
	defer r.Release()
	if !k.IsZero() {
		if err := k.Mul(k, ln2); err != nil {
			return err
		}
		if err := r.Sub(r, k); err != nil {
			return err
		}
	}

	sum, err := taylorExp(r, work)
	if err != nil {
		return err
	}
	defer sum.Release()

	if err := applyPow2(sum, shift, work); err != nil {
		return err
	}
	if err := z.Set(sum); err != nil {
		return err
	}
	if err := z.Truncate(prec); err != nil {
		return err
	}
	z.SetPrecision(prec)
	return nil
}

// taylorExp sums 1 + r + r^2/2! + ... at the working precision.
func taylorExp(r *abacus.Number, work int32) (*abacus.Number, error) {
	base := r.Base()
	one, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer one.Release()
	n, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer n.Release()
	term := one.Copy()
	defer term.Release()

	sum := one.Copy()
	fail := func(err error) (*abacus.Number, error) {
		sum.Release()
		return nil, err
	}
	for {
		// term <- term * r / n
		if err := n.Add(n, one); err != nil {
			return fail(err)
		}
		if err := term.Mul(term, r); err != nil {
			return fail(err)
		}
		if err := term.DivFrac(term, n, work); err != nil {
			return fail(err)
		}
		if term.IsZero() {
			break
		}
		if err := sum.Add(sum, term); err != nil {
			return fail(err)
		}
	}
	return sum, nil
}

// applyPow2 multiplies n by 2^shift in place, dividing for negative shifts.
func applyPow2(n *abacus.Number, shift int64, work int32) error {
	if shift == 0 {
		return nil
	}
	base := n.Base()
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		return err
	}
	defer two.Release()
	mag := shift
	if mag < 0 {
		mag = -mag
	}
	pow, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer pow.Release()
	if err := PowUint(pow, two, uint64(mag)); err != nil {
		return err
	}
	if shift > 0 {
		return n.Mul(n, pow)
	}
	return n.DivFrac(n, pow, work)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logarithm
// ─────────────────────────────────────────────────────────────────────────────

// Ln sets z = ln(x) for x > 0 to prec fractional digits. The positional
// exponent k with x = m * base^k, m in [1, base), comes straight off the
// representation; m is then halved into [1, 2) and fed to the atanh series,
// and k*ln(base) plus the halving steps times ln(2) are folded back in.
func Ln(z, x *abacus.Number, prec int32) error {
	if prec < 0 {
		prec = 0
	}
	if x.IsZero() || x.IsNegative() {
		return numerr.NewDomainError("Ln", "operand must be positive")
	}
	base := x.Base()
	work := prec + guardDigits

	// m = x * base^-k so that m is in [1, base).
	_, hi, _ := x.Span()
	k := int64(hi)
	m, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer m.Release()
	if err := m.Shift(x, int32(-k)); err != nil {
		return err
	}

	// Halve m into [1, 2).
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		return err
	}
	defer two.Release()
	halvings := int64(0)
	for {
		c, err := m.Cmp(two)
		if err != nil {
			return err
		}
		if c < 0 {
			break
		}
		if err := m.DivFrac(m, two, work); err != nil {
			return err
		}
		halvings++
	}

	res, err := lnMantissa(m, work)
	if err != nil {
		return err
	}
	defer res.Release()

	if halvings != 0 {
		ln2, err := Ln2(base, work)
		if err != nil {
			return err
		}
		defer ln2.Release()
		hn, err := abacus.FromInt64(halvings, base)
		if err != nil {
			return err
		}
		defer hn.Release()
		if err := hn.Mul(hn, ln2); err != nil {
			return err
		}
		if err := res.Add(res, hn); err != nil {
			return err
		}
	}
	if k != 0 {
		lnb, err := LnBase(base, work)
		if err != nil {
			return err
		}
		defer lnb.Release()
		kn, err := abacus.FromInt64(k, base)
		if err != nil {
			return err
		}
		defer kn.Release()
		if err := kn.Mul(kn, lnb); err != nil {
			return err
		}
		if err := res.Add(res, kn); err != nil {
			return err
		}
	}

	if err := z.Set(res); err != nil {
		return err
	}
	if err := z.Truncate(prec); err != nil {
		return err
	}
	z.SetPrecision(prec)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Powers
// ─────────────────────────────────────────────────────────────────────────────

// PowUint sets z = x^e by repeated squaring. The result is exact; no
// precision argument applies.
func PowUint(z, x *abacus.Number, e uint64) error {
	base := x.Base()
	acc, err := abacus.FromUint64(1, base)
	if err != nil {
		return err
	}
	defer acc.Release()
	sq := x.Copy()
	defer sq.Release()
	for e > 0 {
		if e&1 == 1 {
			if err := acc.Mul(acc, sq); err != nil {
				return err
			}
		}
		e >>= 1
		if e > 0 {
			if err := sq.Mul(sq, sq); err != nil {
				return err
			}
		}
	}
	return z.Set(acc)
}

// Pow sets z = x^y to prec fractional digits. Integer exponents go through
// exact repeated squaring (with a final fractional divide when negative);
// everything else is exp(y * ln x), which requires x > 0.
func Pow(z, x, y *abacus.Number, prec int32) error {
	if prec < 0 {
		prec = 0
	}
	base := x.Base()
	if y.Base() != base {
		return numerr.ArgMismatchError{Op: "Pow", BaseA: base, BaseB: y.Base()}
	}

	if y.IsInteger() {
		yAbs, err := abacus.New(base)
		if err != nil {
			return err
		}
		defer yAbs.Release()
		if err := yAbs.Abs(y); err != nil {
			return err
		}
		if e, err := yAbs.Uint64(); err == nil {
			if y.IsNegative() {
				if x.IsZero() {
					return numerr.ErrDivideByZero
				}
				p, err := abacus.New(base)
				if err != nil {
					return err
				}
				defer p.Release()
				if err := PowUint(p, x, e); err != nil {
					return err
				}
				one, err := abacus.FromUint64(1, base)
				if err != nil {
					return err
				}
				defer one.Release()
				if err := z.DivFrac(one, p, prec); err != nil {
					return err
				}
				z.SetPrecision(prec)
				return nil
			}
			return PowUint(z, x, e)
		}
		// Exponent beyond uint64: fall through to the exp/ln path.
	}

	if x.IsZero() || x.IsNegative() {
		return numerr.NewDomainError("Pow",
			"non-integer exponent requires a positive base operand")
	}
	work := prec + guardDigits
	lnx, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer lnx.Release()
	if err := Ln(lnx, x, work); err != nil {
		return err
	}
	if err := lnx.Mul(lnx, y); err != nil {
		return err
	}
	if err := lnx.Truncate(work); err != nil {
		return err
	}
	return Exp(z, lnx, prec)
}
