// This file implements sign-free magnitude arithmetic on little-endian digit
// slices. Every Number operation reduces to these helpers; signs and
// canonicalization are handled one layer up in arith.go.

package abacus

// mag is an unsigned magnitude: digits[i] carries weight base^(minExp+i).
// A trimmed mag has no leading or trailing zero digits; zero is an empty
// slice.
type mag struct {
	digits []uint32
	minExp int32
}

// isZero reports whether the magnitude is zero.
func (m mag) isZero() bool { return len(m.digits) == 0 }

// maxExp returns the exponent of the most significant digit.
// Only meaningful for non-zero magnitudes.
func (m mag) maxExp() int32 { return m.minExp + int32(len(m.digits)) - 1 }

// get returns the digit at the given exponent, or 0 if outside the span.
func (m mag) get(exp int32) uint32 {
	i := exp - m.minExp
	if i < 0 || int(i) >= len(m.digits) {
		return 0
	}
	return m.digits[i]
}

// trim strips leading and trailing zero digits, adjusting minExp.
func (m mag) trim() mag {
	hi := len(m.digits)
	for hi > 0 && m.digits[hi-1] == 0 {
		hi--
	}
	lo := 0
	for lo < hi && m.digits[lo] == 0 {
		lo++
	}
	if lo == hi {
		return mag{}
	}
	return mag{digits: m.digits[lo:hi], minExp: m.minExp + int32(lo)}
}

// clone copies the magnitude into a pooled buffer.
func (m mag) clone() mag {
	out := mag{digits: acquireDigits(len(m.digits)), minExp: m.minExp}
	copy(out.digits, m.digits)
	return out
}

// shifted returns the magnitude scaled by base^n (exponent shift, no copy).
func (m mag) shifted(n int32) mag {
	if m.isZero() {
		return m
	}
	return mag{digits: m.digits, minExp: m.minExp + n}
}

// cmpMag compares two magnitudes: -1 if a < b, 0 if equal, 1 if a > b.
func cmpMag(a, b mag) int {
	if a.isZero() && b.isZero() {
		return 0
	}
	if a.isZero() {
		return -1
	}
	if b.isZero() {
		return 1
	}
	if a.maxExp() != b.maxExp() {
		if a.maxExp() > b.maxExp() {
			return 1
		}
		return -1
	}
	lo := a.minExp
	if b.minExp < lo {
		lo = b.minExp
	}
	for exp := a.maxExp(); exp >= lo; exp-- {
		da, db := a.get(exp), b.get(exp)
		if da != db {
			if da > db {
				return 1
			}
			return -1
		}
	}
	return 0
}

// addMag returns a + b. The result is trimmed and pool-backed.
func addMag(a, b mag, base uint32) mag {
	lo := a.minExp
	if b.minExp < lo || a.isZero() {
		lo = b.minExp
	}
	if b.isZero() {
		lo = a.minExp
	}
	if a.isZero() && b.isZero() {
		return mag{}
	}
	hi := a.maxExp()
	if a.isZero() || (!b.isZero() && b.maxExp() > hi) {
		hi = b.maxExp()
	}
	out := mag{digits: acquireDigits(int(hi-lo) + 2), minExp: lo}
	var carry uint32
	for i := range out.digits {
		exp := lo + int32(i)
		sum := a.get(exp) + b.get(exp) + carry
		out.digits[i] = sum % base
		carry = sum / base
	}
	// Buffer has one slot past hi; carry out of it is impossible.
	return out.trim()
}

// subMag returns a - b for |a| >= |b|. The result is trimmed and pool-backed.
func subMag(a, b mag, base uint32) mag {
	if b.isZero() {
		return a.clone().trim()
	}
	lo := a.minExp
	if b.minExp < lo {
		lo = b.minExp
	}
	hi := a.maxExp()
	out := mag{digits: acquireDigits(int(hi-lo) + 1), minExp: lo}
	var borrow int64
	for i := range out.digits {
		exp := lo + int32(i)
		diff := int64(a.get(exp)) - int64(b.get(exp)) - borrow
		if diff < 0 {
			diff += int64(base)
			borrow = 1
		} else {
			borrow = 0
		}
		out.digits[i] = uint32(diff)
	}
	return out.trim()
}

// mulDigit returns a * d for a small scalar d. Result is trimmed. d may
// exceed the base (rebasing multiplies by the target base), so the carry
// tail gets as many slots as d has digits.
func mulDigit(a mag, d uint32, base uint32) mag {
	if d == 0 || a.isZero() {
		return mag{}
	}
	tail := 1
	for v := uint64(d); v >= uint64(base); v /= uint64(base) {
		tail++
	}
	out := mag{digits: acquireDigits(len(a.digits) + tail), minExp: a.minExp}
	var carry uint64
	for i, ad := range a.digits {
		p := uint64(ad)*uint64(d) + carry
		out.digits[i] = uint32(p % uint64(base))
		carry = p / uint64(base)
	}
	for i := len(a.digits); carry > 0; i++ {
		out.digits[i] = uint32(carry % uint64(base))
		carry /= uint64(base)
	}
	return out.trim()
}

// mulSchool returns a * b by schoolbook convolution: digit products are
// accumulated into 64-bit columns, then carried in a single pass. With
// base <= 256 each product is < 2^16, so overflow would need 2^48 columns.
func mulSchool(a, b mag, base uint32) mag {
	if a.isZero() || b.isZero() {
		return mag{}
	}
	n, m := len(a.digits), len(b.digits)
	cols := make([]uint64, n+m)
	for i, ad := range a.digits {
		if ad == 0 {
			continue
		}
		av := uint64(ad)
		for j, bd := range b.digits {
			cols[i+j] += av * uint64(bd)
		}
	}
	out := mag{digits: acquireDigits(n + m + 1), minExp: a.minExp + b.minExp}
	var carry uint64
	for i, c := range cols {
		c += carry
		out.digits[i] = uint32(c % uint64(base))
		carry = c / uint64(base)
	}
	idx := n + m
	for carry > 0 {
		out.digits[idx] = uint32(carry % uint64(base))
		carry /= uint64(base)
		idx++
	}
	return out.trim()
}

// divMag computes long division of a by b (both non-zero, b != 0), producing
// quotient digits down to exponent lowExp. Returns the quotient and the
// remainder scaled so that a = q*b + r holds exactly.
//
// The quotient digit at each step is found by binary search over [0, base),
// the classic trial-digit refinement of schoolbook long division.
func divMag(a, b mag, base uint32, lowExp int32) (q, r mag) {
	if a.isZero() {
		return mag{}, mag{}
	}
	// Quotient exponents run from qHi down to lowExp.
	qHi := a.maxExp() - b.maxExp() + 1
	if qHi < lowExp {
		return mag{}, a.clone().trim()
	}
	q = mag{digits: acquireDigits(int(qHi-lowExp) + 1), minExp: lowExp}
	r = mag{}
	// folded is the lowest dividend exponent merged into the running
	// remainder so far.
	folded := a.maxExp() + 1
	for exp := qHi; exp >= lowExp; exp-- {
		// The trial subtraction at this step reaches down to the shifted
		// divisor's lowest weight, so the remainder must hold the exact
		// dividend prefix down to exp + b.minExp before any comparison.
		need := exp + b.minExp
		if need < a.minExp {
			need = a.minExp
		}
		if need < folded {
			prefix := mag{digits: a.digits[need-a.minExp : folded-a.minExp], minExp: need}.trim()
			if !prefix.isZero() {
				merged := addMag(r, prefix, base)
				releaseDigits(r.digits)
				r = merged
			}
			folded = need
		}
		// Binary search for the largest qd with b*qd*base^exp <= r.
		bShift := b.shifted(exp)
		var qd uint32
		lo, hi := uint32(0), base-1
		for lo <= hi {
			mid := (lo + hi) / 2
			trial := mulDigit(bShift, mid, base)
			c := cmpMag(trial, r)
			releaseDigits(trial.digits)
			if c <= 0 {
				qd = mid
				lo = mid + 1
			} else {
				if mid == 0 {
					break
				}
				hi = mid - 1
			}
		}
		if qd != 0 {
			sub := mulDigit(bShift, qd, base)
			next := subMag(r, sub, base)
			releaseDigits(sub.digits)
			releaseDigits(r.digits)
			r = next
			q.digits[exp-lowExp] = qd
		}
	}
	// Dividend digits below the last fold point were never consumed by a
	// quotient step; they belong to the remainder.
	if folded > a.minExp {
		tail := mag{digits: a.digits[:folded-a.minExp], minExp: a.minExp}.trim()
		if !tail.isZero() {
			merged := addMag(r, tail, base)
			releaseDigits(r.digits)
			r = merged
		}
	}
	return q.trim(), r.trim()
}

// roundHalfEven rounds m (whose last retained digit sits at exponent
// roundExp) using the first dropped digit and a sticky flag covering
// everything below it. Ties (possible only for even bases) round the
// retained digit to even.
func roundHalfEven(m mag, base uint32, roundExp int32, next uint32, sticky bool, out *mag) {
	half := base / 2
	roundUp := false
	switch {
	case base%2 == 0 && next == half:
		if sticky {
			roundUp = true
		} else {
			roundUp = m.get(roundExp)%2 == 1
		}
	default:
		roundUp = next > half || (base%2 == 1 && 2*next > base)
	}
	if !roundUp {
		*out = m.clone().trim()
		return
	}
	one := mag{digits: []uint32{1}, minExp: roundExp}
	*out = addMag(m, one, base)
}
