package transcend

import (
	"sync"

	"github.com/crystalline/abacus/internal/abacus"
)

// ─────────────────────────────────────────────────────────────────────────────
// Lazy Constants Table
// ─────────────────────────────────────────────────────────────────────────────

// guardDigits is the extra fractional precision carried through internal
// series so that truncation to the requested precision stays within one ulp.
const guardDigits = 8

type constKind uint8

const (
	kindPi constKind = iota
	kindE
	kindLn2
	kindLnBase
	kindPhi
)

type constKey struct {
	kind constKind
	base uint32
}

type constEntry struct {
	prec int32
	num  *abacus.Number // immutable once stored
}

var (
	constMu    sync.RWMutex
	constTable = map[constKey]constEntry{}
)

// constant returns a copy of the named constant in the given base, truncated
// to prec fractional digits. The master value is computed on first request
// and upgraded in place whenever a higher precision is asked for.
func constant(kind constKind, base uint32, prec int32,
	compute func(base uint32, prec int32) (*abacus.Number, error)) (*abacus.Number, error) {
	if prec < 0 {
		prec = 0
	}
	key := constKey{kind: kind, base: base}

	constMu.RLock()
	entry, ok := constTable[key]
	constMu.RUnlock()
	if ok && entry.prec >= prec {
		out := entry.num.Copy()
		if err := out.Truncate(prec); err != nil {
			out.Release()
			return nil, err
		}
		return out, nil
	}

	master, err := compute(base, prec)
	if err != nil {
		return nil, err
	}
	constMu.Lock()
	if cur, ok := constTable[key]; !ok || cur.prec < prec {
		constTable[key] = constEntry{prec: prec, num: master}
	} else {
		// Another goroutine upgraded first; keep theirs.
		master.Release()
		master = cur.num
	}
	constMu.Unlock()

	out := master.Copy()
	if err := out.Truncate(prec); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// Pi returns pi to prec fractional digits, by Machin's formula
// 16*atan(1/5) - 4*atan(1/239).
func Pi(base uint32, prec int32) (*abacus.Number, error) {
	return constant(kindPi, base, prec, computePi)
}

// E returns Euler's number to prec fractional digits, from the factorial
// series sum(1/n!).
func E(base uint32, prec int32) (*abacus.Number, error) {
	return constant(kindE, base, prec, computeE)
}

// Ln2 returns the natural logarithm of 2 to prec fractional digits, from
// 2*atanh(1/3).
func Ln2(base uint32, prec int32) (*abacus.Number, error) {
	return constant(kindLn2, base, prec, computeLn2)
}

// LnBase returns the natural logarithm of the base itself, used by Ln when
// folding the positional exponent back in.
func LnBase(base uint32, prec int32) (*abacus.Number, error) {
	return constant(kindLnBase, base, prec, computeLnBase)
}

// Phi returns the golden ratio (1+sqrt(5))/2 to prec fractional digits.
func Phi(base uint32, prec int32) (*abacus.Number, error) {
	return constant(kindPhi, base, prec, computePhi)
}

// ─────────────────────────────────────────────────────────────────────────────
// Constant Producers
// ─────────────────────────────────────────────────────────────────────────────

func computePi(base uint32, prec int32) (*abacus.Number, error) {
	work := prec + guardDigits
	t5, err := atanInv(5, base, work)
	if err != nil {
		return nil, err
	}
	defer t5.Release()
	t239, err := atanInv(239, base, work)
	if err != nil {
		return nil, err
	}
	defer t239.Release()

	sixteen, err := abacus.FromUint64(16, base)
	if err != nil {
		return nil, err
	}
	defer sixteen.Release()
	four, err := abacus.FromUint64(4, base)
	if err != nil {
		return nil, err
	}
	defer four.Release()

	pi, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	if err := pi.Mul(sixteen, t5); err != nil {
		pi.Release()
		return nil, err
	}
	if err := t239.Mul(four, t239); err != nil {
		pi.Release()
		return nil, err
	}
	if err := pi.Sub(pi, t239); err != nil {
		pi.Release()
		return nil, err
	}
	if err := pi.Truncate(prec); err != nil {
		pi.Release()
		return nil, err
	}
	return pi, nil
}

func computeE(base uint32, prec int32) (*abacus.Number, error) {
	work := prec + guardDigits
	one, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer one.Release()
	fact, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer fact.Release()
	n, err := abacus.FromUint64(0, base)
	if err != nil {
		return nil, err
	}
	defer n.Release()
	term, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer term.Release()

	sum, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	for {
		if err := term.DivFrac(one, fact, work); err != nil {
			sum.Release()
			return nil, err
		}
		if term.IsZero() {
			break
		}
		if err := sum.Add(sum, term); err != nil {
			sum.Release()
			return nil, err
		}
		if err := n.Add(n, one); err != nil {
			sum.Release()
			return nil, err
		}
		if err := fact.Mul(fact, n); err != nil {
			sum.Release()
			return nil, err
		}
	}
	if err := sum.Truncate(prec); err != nil {
		sum.Release()
		return nil, err
	}
	return sum, nil
}

func computeLn2(base uint32, prec int32) (*abacus.Number, error) {
	work := prec + guardDigits
	one, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer one.Release()
	three, err := abacus.FromUint64(3, base)
	if err != nil {
		return nil, err
	}
	defer three.Release()
	u, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer u.Release()
	if err := u.DivFrac(one, three, work); err != nil {
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
	if err := s.Truncate(prec); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func computeLnBase(base uint32, prec int32) (*abacus.Number, error) {
	work := prec + guardDigits

	// base = 2^s * m with m in [1, 2); ln(base) = s*ln2 + 2*atanh((m-1)/(m+1)).
	s := int64(0)
	rest := uint64(base)
	for rest >= 2 {
		rest >>= 1
		s++
	}
	pow2 := uint64(1) << uint(s)

	bn, err := abacus.FromUint64(uint64(base), base)
	if err != nil {
		return nil, err
	}
	defer bn.Release()
	den, err := abacus.FromUint64(pow2, base)
	if err != nil {
		return nil, err
	}
	defer den.Release()
	m, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer m.Release()
	if err := m.DivFrac(bn, den, work); err != nil {
		return nil, err
	}

	lnm, err := lnMantissa(m, work)
	if err != nil {
		return nil, err
	}

	ln2, err := Ln2(base, work)
	if err != nil {
		lnm.Release()
		return nil, err
	}
	defer ln2.Release()
	sn, err := abacus.FromInt64(s, base)
	if err != nil {
		lnm.Release()
		return nil, err
	}
	defer sn.Release()
	if err := sn.Mul(sn, ln2); err != nil {
		lnm.Release()
		return nil, err
	}
	if err := lnm.Add(lnm, sn); err != nil {
		lnm.Release()
		return nil, err
	}
	if err := lnm.Truncate(prec); err != nil {
		lnm.Release()
		return nil, err
	}
	return lnm, nil
}

func computePhi(base uint32, prec int32) (*abacus.Number, error) {
	work := prec + guardDigits
	five, err := abacus.FromUint64(5, base)
	if err != nil {
		return nil, err
	}
	defer five.Release()
	root, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	if err := root.SqrtFrac(five, work); err != nil {
		root.Release()
		return nil, err
	}
	one, err := abacus.FromUint64(1, base)
	if err != nil {
		root.Release()
		return nil, err
	}
	defer one.Release()
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		root.Release()
		return nil, err
	}
	defer two.Release()
	if err := root.Add(root, one); err != nil {
		root.Release()
		return nil, err
	}
	if err := root.DivFrac(root, two, prec); err != nil {
		root.Release()
		return nil, err
	}
	return root, nil
}
