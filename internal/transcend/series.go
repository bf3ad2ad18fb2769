package transcend

import (
	"github.com/crystalline/abacus/internal/abacus"
)

// ─────────────────────────────────────────────────────────────────────────────
// Series Summation
// ─────────────────────────────────────────────────────────────────────────────

// sumOddPowers sums t^(2n+1)/(2n+1) for n = 0, 1, ... at the given working
// precision, with alternating signs when alternate is true (the arctangent
// series) or all-positive otherwise (the atanh series). |t| must be below 1.
// The loop ends when the next term vanishes at the working precision.
func sumOddPowers(t *abacus.Number, work int32, alternate bool) (*abacus.Number, error) {
	base := t.Base()
	tsq, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer tsq.Release()
	if err := tsq.Mul(t, t); err != nil {
		return nil, err
	}
	if err := tsq.Truncate(work); err != nil {
		return nil, err
	}

	upow := t.Copy()
	defer upow.Release()
	den, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer den.Release()
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		return nil, err
	}
	defer two.Release()
	term, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer term.Release()

	sum, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*abacus.Number, error) {
		sum.Release()
		return nil, err
	}
	negate := false
	for {
		if err := term.DivFrac(upow, den, work); err != nil {
			return fail(err)
		}
		if term.IsZero() {
			break
		}
		var err error
		if negate {
			err = sum.Sub(sum, term)
		} else {
			err = sum.Add(sum, term)
		}
		if err != nil {
			return fail(err)
		}
		if alternate {
			negate = !negate
		}
		if err := upow.Mul(upow, tsq); err != nil {
			return fail(err)
		}
		if err := upow.Truncate(work); err != nil {
			return fail(err)
		}
		if upow.IsZero() {
			break
		}
		if err := den.Add(den, two); err != nil {
			return fail(err)
		}
	}
	return sum, nil
}

// atanhSeries returns atanh(u) = sum(u^(2n+1)/(2n+1)) for |u| < 1.
func atanhSeries(u *abacus.Number, work int32) (*abacus.Number, error) {
	return sumOddPowers(u, work, false)
}

// atanSeries returns atan(t) = sum((-1)^n t^(2n+1)/(2n+1)) for |t| < 1.
func atanSeries(t *abacus.Number, work int32) (*abacus.Number, error) {
	return sumOddPowers(t, work, true)
}

// atanInv returns atan(1/q) for an integer q >= 2 by summing the arctangent
// series with exact integer denominators (2n+1)*q^(2n+1).
func atanInv(q uint64, base uint32, work int32) (*abacus.Number, error) {
	one, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer one.Release()
	qn, err := abacus.FromUint64(q, base)
	if err != nil {
		return nil, err
	}
	defer qn.Release()
	qsq, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer qsq.Release()
	if err := qsq.Mul(qn, qn); err != nil {
		return nil, err
	}

	// pw = q^(2n+1), odd = 2n+1, den = odd * pw.
	pw := qn.Copy()
	defer pw.Release()
	odd, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer odd.Release()
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		return nil, err
	}
	defer two.Release()
	den, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer den.Release()
	term, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer term.Release()

	sum, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*abacus.Number, error) {
		sum.Release()
		return nil, err
	}
	negate := false
	for {
		if err := den.Mul(odd, pw); err != nil {
			return fail(err)
		}
		if err := term.DivFrac(one, den, work); err != nil {
			return fail(err)
		}
		if term.IsZero() {
			break
		}
		var err error
		if negate {
			err = sum.Sub(sum, term)
		} else {
			err = sum.Add(sum, term)
		}
		if err != nil {
			return fail(err)
		}
		negate = !negate
		if err := pw.Mul(pw, qsq); err != nil {
			return fail(err)
		}
		if err := odd.Add(odd, two); err != nil {
			return fail(err)
		}
	}
	return sum, nil
}

// lnMantissa returns ln(m) for m in [1, 2) via 2*atanh((m-1)/(m+1)).
func lnMantissa(m *abacus.Number, work int32) (*abacus.Number, error) {
	base := m.Base()
	one, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer one.Release()
	num, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer num.Release()
	den, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer den.Release()
	if err := num.Sub(m, one); err != nil {
		return nil, err
	}
	if err := den.Add(m, one); err != nil {
		return nil, err
	}
	u, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer u.Release()
	if err := u.DivFrac(num, den, work); err != nil {
		return nil, err
	}

	s, err := atanhSeries(u, work)
	if err != nil {
		return nil, err
	}
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		s.Release()
		return nil, err
	}
	defer two.Release()
	if err := s.Mul(two, s); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}
