package transcend

import (
	"math"
	"sync"

	"github.com/crystalline/abacus/internal/abacus"
	numerr "github.com/crystalline/abacus/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// CORDIC Engine
// ─────────────────────────────────────────────────────────────────────────────

// The rotation engine runs on halving shift factors 2^-k in every base: the
// classic convergence argument needs consecutive shift ratios of at most 2,
// which base^-k breaks for any base above 2. The iteration count therefore
// scales with log2(base) to reach the same fractional precision.

// cordicTable holds the per-base shift factors 2^-k, their arctangents, and
// the cumulative gain correction. Immutable once published.
type cordicTable struct {
	prec  int32
	shift []*abacus.Number // 2^-k
	angle []*abacus.Number // atan(2^-k)
	scale *abacus.Number   // product of cos(atan(2^-k))
}

var (
	cordicMu     sync.RWMutex
	cordicTables = map[uint32]*cordicTable{}
)

// cordicIterations returns the step count needed for work fractional digits
// in the given base.
func cordicIterations(base uint32, work int32) int {
	return int(math.Ceil(float64(work)*math.Log2(float64(base)))) + 2
}

// cordicFor returns the table for the base, building or upgrading it when
// the cached one is too short for the working precision.
func cordicFor(base uint32, work int32) (*cordicTable, error) {
	cordicMu.RLock()
	t, ok := cordicTables[base]
	cordicMu.RUnlock()
	if ok && t.prec >= work {
		return t, nil
	}

	t, err := buildCordicTable(base, work)
	if err != nil {
		return nil, err
	}
	cordicMu.Lock()
	if cur, ok := cordicTables[base]; ok && cur.prec >= work {
		t = cur
	} else {
		cordicTables[base] = t
	}
	cordicMu.Unlock()
	return t, nil
}

func buildCordicTable(base uint32, work int32) (*cordicTable, error) {
	steps := cordicIterations(base, work)
	t := &cordicTable{prec: work}

	one, err := abacus.FromUint64(1, base)
	if err != nil {
		return nil, err
	}
	defer one.Release()
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		return nil, err
	}
	defer two.Release()
	four, err := abacus.FromUint64(4, base)
	if err != nil {
		return nil, err
	}
	defer four.Release()
	pi, err := Pi(base, work)
	if err != nil {
		return nil, err
	}
	defer pi.Release()

	// gainSq accumulates the product of (1 + 2^-2k).
	gainSq := one.Copy()
	defer gainSq.Release()
	sq, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer sq.Release()

	tk := one.Copy()
	for k := 0; k < steps; k++ {
		t.shift = append(t.shift, tk.Copy())

		var ang *abacus.Number
		if k == 0 {
			ang, err = abacus.New(base)
			if err == nil {
				err = ang.DivFrac(pi, four, work)
			}
		} else {
			ang, err = atanSeries(tk, work)
		}
		if err != nil {
			tk.Release()
			return nil, err
		}
		t.angle = append(t.angle, ang)

		if err := sq.Mul(tk, tk); err != nil {
			tk.Release()
			return nil, err
		}
		if err := sq.Add(sq, one); err != nil {
			tk.Release()
			return nil, err
		}
		if err := gainSq.Mul(gainSq, sq); err != nil {
			tk.Release()
			return nil, err
		}
		if err := gainSq.Truncate(work); err != nil {
			tk.Release()
			return nil, err
		}

		if err := tk.DivFrac(tk, two, work+4); err != nil {
			tk.Release()
			return nil, err
		}
	}
	tk.Release()

	// scale = 1 / sqrt(product(1 + 2^-2k))
	root, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer root.Release()
	if err := root.SqrtFrac(gainSq, work); err != nil {
		return nil, err
	}
	scale, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	if err := scale.DivFrac(one, root, work); err != nil {
		scale.Release()
		return nil, err
	}
	t.scale = scale
	return t, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Rotation Mode: Sin and Cos
// ─────────────────────────────────────────────────────────────────────────────

// SinCos computes the sine and cosine of angle (radians) to prec fractional
// digits in a single rotation pass.
func SinCos(sin, cos, angle *abacus.Number, prec int32) error {
	if prec < 0 {
		prec = 0
	}
	base := angle.Base()
	work := prec + guardDigits
	table, err := cordicFor(base, work)
	if err != nil {
		return err
	}

	z, flip, err := reduceAngle(angle, work)
	if err != nil {
		return err
	}
	defer z.Release()

	x := table.scale.Copy()
	defer x.Release()
	y, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer y.Release()
	xs, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer xs.Release()
	ys, err := abacus.New(base)
	if err != nil {
		return err
	}
	defer ys.Release()

	for k := range table.angle {
		down := z.IsNegative()
		if err := xs.Mul(y, table.shift[k]); err != nil {
			return err
		}
		if err := ys.Mul(x, table.shift[k]); err != nil {
			return err
		}
		if err := xs.Truncate(work); err != nil {
			return err
		}
		if err := ys.Truncate(work); err != nil {
			return err
		}
		if down {
			if err := x.Add(x, xs); err != nil {
				return err
			}
			if err := y.Sub(y, ys); err != nil {
				return err
			}
			if err := z.Add(z, table.angle[k]); err != nil {
				return err
			}
		} else {
			if err := x.Sub(x, xs); err != nil {
				return err
			}
			if err := y.Add(y, ys); err != nil {
				return err
			}
			if err := z.Sub(z, table.angle[k]); err != nil {
				return err
			}
		}
	}

	if flip {
		if err := x.Neg(x); err != nil {
			return err
		}
		if err := y.Neg(y); err != nil {
			return err
		}
	}
	if cos != nil {
		if err := cos.Set(x); err != nil {
			return err
		}
		if err := cos.Truncate(prec); err != nil {
			return err
		}
		cos.SetPrecision(prec)
	}
	if sin != nil {
		if err := sin.Set(y); err != nil {
			return err
		}
		if err := sin.Truncate(prec); err != nil {
			return err
		}
		sin.SetPrecision(prec)
	}
	return nil
}

// Sin sets z to the sine of angle (radians) to prec fractional digits.
func Sin(z, angle *abacus.Number, prec int32) error {
	return SinCos(z, nil, angle, prec)
}

// Cos sets z to the cosine of angle (radians) to prec fractional digits.
func Cos(z, angle *abacus.Number, prec int32) error {
	return SinCos(nil, z, angle, prec)
}

// reduceAngle folds angle into [-pi/2, pi/2]: first modulo 2*pi to [-pi, pi],
// then across pi with a sign flip of both results. The returned Number is
// owned by the caller.
func reduceAngle(angle *abacus.Number, work int32) (*abacus.Number, bool, error) {
	base := angle.Base()
	pi, err := Pi(base, work)
	if err != nil {
		return nil, false, err
	}
	defer pi.Release()
	two, err := abacus.FromUint64(2, base)
	if err != nil {
		return nil, false, err
	}
	defer two.Release()
	twoPi, err := abacus.New(base)
	if err != nil {
		return nil, false, err
	}
	defer twoPi.Release()
	if err := twoPi.Mul(pi, two); err != nil {
		return nil, false, err
	}

	z := angle.Copy()
	cleanup := func(err error) (*abacus.Number, bool, error) {
		z.Release()
		return nil, false, err
	}

	// Nearest multiple of 2*pi: fractional divide at precision 0 rounds
	// half-to-even, which is exactly round-to-nearest here.
	q, err := abacus.New(base)
	if err != nil {
		return cleanup(err)
	}
	defer q.Release()
	if err := q.DivFrac(z, twoPi, 0); err != nil {
		return cleanup(err)
	}
	if !q.IsZero() {
		if err := q.Mul(q, twoPi); err != nil {
			return cleanup(err)
		}
		if err := z.Sub(z, q); err != nil {
			return cleanup(err)
		}
	}

	halfPi, err := abacus.New(base)
	if err != nil {
		return cleanup(err)
	}
	defer halfPi.Release()
	if err := halfPi.DivFrac(pi, two, work); err != nil {
		return cleanup(err)
	}

	flip := false
	c, err := cmpAbs(z, halfPi)
	if err != nil {
		return cleanup(err)
	}
	if c > 0 {
		flip = true
		if z.IsNegative() {
			err = z.Add(z, pi)
		} else {
			err = z.Sub(z, pi)
		}
		if err != nil {
			return cleanup(err)
		}
	}
	return z, flip, nil
}

// cmpAbs compares |a| against |b|.
func cmpAbs(a, b *abacus.Number) (int, error) {
	aa, err := abacus.New(a.Base())
	if err != nil {
		return 0, err
	}
	defer aa.Release()
	bb, err := abacus.New(b.Base())
	if err != nil {
		return 0, err
	}
	defer bb.Release()
	if err := aa.Abs(a); err != nil {
		return 0, err
	}
	if err := bb.Abs(b); err != nil {
		return 0, err
	}
	return aa.Cmp(bb)
}

// ─────────────────────────────────────────────────────────────────────────────
// Vectoring Mode: Atan2
// ─────────────────────────────────────────────────────────────────────────────

// Atan2 sets z to the angle of the point (x, y) in [-pi, pi] to prec
// fractional digits. Atan2 of the origin is zero.
func Atan2(z, y, x *abacus.Number, prec int32) error {
	if prec < 0 {
		prec = 0
	}
	base := x.Base()
	if y.Base() != base {
		return numerr.ArgMismatchError{Op: "Atan2", BaseA: y.Base(), BaseB: base}
	}
	work := prec + guardDigits

	if x.IsZero() && y.IsZero() {
		zero, err := abacus.New(base)
		if err != nil {
			return err
		}
		defer zero.Release()
		if err := z.Set(zero); err != nil {
			return err
		}
		z.SetPrecision(prec)
		return nil
	}

	pi, err := Pi(base, work)
	if err != nil {
		return err
	}
	defer pi.Release()

	xNeg, yNeg := x.IsNegative(), y.IsNegative()

	// Axis cases resolve without iteration.
	if x.IsZero() {
		two, err := abacus.FromUint64(2, base)
		if err != nil {
			return err
		}
		defer two.Release()
		if err := z.DivFrac(pi, two, prec); err != nil {
			return err
		}
		if yNeg {
			if err := z.Neg(z); err != nil {
				return err
			}
		}
		z.SetPrecision(prec)
		return nil
	}
	if y.IsZero() {
		if xNeg {
			if err := z.Set(pi); err != nil {
				return err
			}
			if err := z.Truncate(prec); err != nil {
				return err
			}
		} else {
			zero, err := abacus.New(base)
			if err != nil {
				return err
			}
			defer zero.Release()
			if err := z.Set(zero); err != nil {
				return err
			}
		}
		z.SetPrecision(prec)
		return nil
	}

	phi, err := vectorAngle(x, y, work)
	if err != nil {
		return err
	}
	defer phi.Release()

	// Quadrant fix-up from the operand signs.
	switch {
	case !xNeg && !yNeg:
		err = z.Set(phi)
	case !xNeg && yNeg:
		err = z.Neg(phi)
	case xNeg && !yNeg:
		err = z.Sub(pi, phi)
	default:
		err = z.Sub(phi, pi)
	}
	if err != nil {
		return err
	}
	if err := z.Truncate(prec); err != nil {
		return err
	}
	z.SetPrecision(prec)
	return nil
}

// vectorAngle runs CORDIC vectoring on (|x|, |y|), returning
// atan(|y|/|x|) in [0, pi/2).
func vectorAngle(x, y *abacus.Number, work int32) (*abacus.Number, error) {
	base := x.Base()
	table, err := cordicFor(base, work)
	if err != nil {
		return nil, err
	}

	vx, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer vx.Release()
	vy, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer vy.Release()
	if err := vx.Abs(x); err != nil {
		return nil, err
	}
	if err := vy.Abs(y); err != nil {
		return nil, err
	}

	xs, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer xs.Release()
	ys, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	defer ys.Release()

	angle, err := abacus.New(base)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*abacus.Number, error) {
		angle.Release()
		return nil, err
	}
	for k := range table.angle {
		if err := xs.Mul(vy, table.shift[k]); err != nil {
			return fail(err)
		}
		if err := ys.Mul(vx, table.shift[k]); err != nil {
			return fail(err)
		}
		if err := xs.Truncate(work); err != nil {
			return fail(err)
		}
		if err := ys.Truncate(work); err != nil {
			return fail(err)
		}
		if vy.IsNegative() {
			if err := vx.Sub(vx, xs); err != nil {
				return fail(err)
			}
			if err := vy.Add(vy, ys); err != nil {
				return fail(err)
			}
			if err := angle.Sub(angle, table.angle[k]); err != nil {
				return fail(err)
			}
		} else {
			if err := vx.Add(vx, xs); err != nil {
				return fail(err)
			}
			if err := vy.Sub(vy, ys); err != nil {
				return fail(err)
			}
			if err := angle.Add(angle, table.angle[k]); err != nil {
				return fail(err)
			}
		}
	}
	return angle, nil
}
