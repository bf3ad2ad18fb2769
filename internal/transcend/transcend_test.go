package transcend

import (
	"errors"
	"testing"

	"github.com/crystalline/abacus/internal/abacus"
	numerr "github.com/crystalline/abacus/internal/errors"
)

// within fails unless got is inside 10^-tolDigits of the decimal literal.
func within(t *testing.T, got *abacus.Number, want string, tolDigits int32) {
	t.Helper()
	w, err := abacus.Parse(want, 10, 40)
	if err != nil {
		t.Fatalf("Parse(%q): %v", want, err)
	}
	defer w.Release()
	diff, err := abacus.New(10)
	if err != nil {
		t.Fatal(err)
	}
	defer diff.Release()
	if err := diff.Sub(got, w); err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if err := diff.Abs(diff); err != nil {
		t.Fatalf("Abs: %v", err)
	}
	one, err := abacus.FromUint64(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer one.Release()
	eps, err := abacus.New(10)
	if err != nil {
		t.Fatal(err)
	}
	defer eps.Release()
	if err := eps.Shift(one, -tolDigits); err != nil {
		t.Fatalf("Shift: %v", err)
	}
	c, err := diff.Cmp(eps)
	if err != nil {
		t.Fatalf("Cmp: %v", err)
	}
	if c > 0 {
		t.Errorf("got %s, want within 10^-%d of %s (off by %s)",
			got.String(), tolDigits, want, diff.String())
	}
}

func decimal(t *testing.T, text string) *abacus.Number {
	t.Helper()
	n, err := abacus.Parse(text, 10, 40)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return n
}

func TestPi(t *testing.T) {
	t.Parallel()

	pi, err := Pi(10, 30)
	if err != nil {
		t.Fatalf("Pi: %v", err)
	}
	defer pi.Release()
	if got := pi.String(); got != "3.141592653589793238462643383279" {
		t.Errorf("Pi(10, 30) = %s", got)
	}

	// The cached master serves lower precisions by truncation.
	short, err := Pi(10, 5)
	if err != nil {
		t.Fatalf("Pi: %v", err)
	}
	defer short.Release()
	if got := short.String(); got != "3.14159" {
		t.Errorf("Pi(10, 5) = %s", got)
	}

	bin, err := Pi(2, 8)
	if err != nil {
		t.Fatalf("Pi base 2: %v", err)
	}
	defer bin.Release()
	if got := bin.String(); got != "11.001001" {
		t.Errorf("Pi(2, 8) = %s", got)
	}
}

func TestE(t *testing.T) {
	t.Parallel()

	e, err := E(10, 20)
	if err != nil {
		t.Fatalf("E: %v", err)
	}
	defer e.Release()
	if got := e.String(); got != "2.71828182845904523536" {
		t.Errorf("E(10, 20) = %s", got)
	}
}

func TestLn2AndLnBase(t *testing.T) {
	t.Parallel()

	ln2, err := Ln2(10, 20)
	if err != nil {
		t.Fatalf("Ln2: %v", err)
	}
	defer ln2.Release()
	if got := ln2.String(); got != "0.69314718055994530941" {
		t.Errorf("Ln2(10, 20) = %s", got)
	}

	ln10, err := LnBase(10, 15)
	if err != nil {
		t.Fatalf("LnBase: %v", err)
	}
	defer ln10.Release()
	if got := ln10.String(); got != "2.302585092994045" {
		t.Errorf("LnBase(10, 15) = %s", got)
	}
}

func TestPhi(t *testing.T) {
	t.Parallel()

	phi, err := Phi(10, 20)
	if err != nil {
		t.Fatalf("Phi: %v", err)
	}
	defer phi.Release()
	if got := phi.String(); got != "1.6180339887498948482" {
		t.Errorf("Phi(10, 20) = %s", got)
	}
}

func TestSinCosKnownValues(t *testing.T) {
	t.Parallel()

	angle := decimal(t, "1")
	defer angle.Release()
	sin, err := abacus.New(10)
	if err != nil {
		t.Fatal(err)
	}
	defer sin.Release()
	cos, err := abacus.New(10)
	if err != nil {
		t.Fatal(err)
	}
	defer cos.Release()

	if err := SinCos(sin, cos, angle, 12); err != nil {
		t.Fatalf("SinCos: %v", err)
	}
	within(t, sin, "0.8414709848078965", 9)
	within(t, cos, "0.5403023058681397", 9)

	zero := decimal(t, "0")
	defer zero.Release()
	if err := Sin(sin, zero, 12); err != nil {
		t.Fatalf("Sin: %v", err)
	}
	if !sin.IsZero() {
		t.Errorf("sin(0) = %s, want 0", sin.String())
	}
	if err := Cos(cos, zero, 12); err != nil {
		t.Fatalf("Cos: %v", err)
	}
	within(t, cos, "1", 9)
}

func TestSinCosPythagoreanIdentity(t *testing.T) {
	t.Parallel()

	angle := decimal(t, "0.7")
	defer angle.Release()
	sin, _ := abacus.New(10)
	defer sin.Release()
	cos, _ := abacus.New(10)
	defer cos.Release()
	if err := SinCos(sin, cos, angle, 14); err != nil {
		t.Fatalf("SinCos: %v", err)
	}

	sum, _ := abacus.New(10)
	defer sum.Release()
	sq, _ := abacus.New(10)
	defer sq.Release()
	if err := sq.Mul(sin, sin); err != nil {
		t.Fatal(err)
	}
	if err := sum.Set(sq); err != nil {
		t.Fatal(err)
	}
	if err := sq.Mul(cos, cos); err != nil {
		t.Fatal(err)
	}
	if err := sum.Add(sum, sq); err != nil {
		t.Fatal(err)
	}
	within(t, sum, "1", 10)
}

func TestSinAngleReduction(t *testing.T) {
	t.Parallel()

	// 2*pi + 0.5 folds back to 0.5.
	big := decimal(t, "6.783185307179586")
	defer big.Release()
	small := decimal(t, "0.5")
	defer small.Release()

	s1, _ := abacus.New(10)
	defer s1.Release()
	s2, _ := abacus.New(10)
	defer s2.Release()
	if err := Sin(s1, big, 12); err != nil {
		t.Fatalf("Sin: %v", err)
	}
	if err := Sin(s2, small, 12); err != nil {
		t.Fatalf("Sin: %v", err)
	}
	within(t, s1, s2.String(), 9)

	// Negative angle: sine is odd.
	neg := decimal(t, "-0.5")
	defer neg.Release()
	if err := Sin(s1, neg, 12); err != nil {
		t.Fatalf("Sin: %v", err)
	}
	if err := s2.Neg(s2); err != nil {
		t.Fatal(err)
	}
	within(t, s1, s2.String(), 9)
}

func TestAtan2(t *testing.T) {
	t.Parallel()

	z, _ := abacus.New(10)
	defer z.Release()
	one := decimal(t, "1")
	defer one.Release()
	negOne := decimal(t, "-1")
	defer negOne.Release()
	zero := decimal(t, "0")
	defer zero.Release()

	// Origin and axes.
	if err := Atan2(z, zero, zero, 10); err != nil {
		t.Fatalf("Atan2(0, 0): %v", err)
	}
	if !z.IsZero() {
		t.Errorf("atan2(0, 0) = %s, want 0", z.String())
	}
	if err := Atan2(z, zero, one, 10); err != nil {
		t.Fatalf("Atan2(0, 1): %v", err)
	}
	if !z.IsZero() {
		t.Errorf("atan2(0, 1) = %s, want 0", z.String())
	}
	if err := Atan2(z, one, zero, 10); err != nil {
		t.Fatalf("Atan2(1, 0): %v", err)
	}
	if got := z.String(); got != "1.5707963268" {
		t.Errorf("atan2(1, 0) = %s, want 1.5707963268", got)
	}
	if err := Atan2(z, negOne, zero, 10); err != nil {
		t.Fatalf("Atan2(-1, 0): %v", err)
	}
	if got := z.String(); got != "-1.5707963268" {
		t.Errorf("atan2(-1, 0) = %s, want -1.5707963268", got)
	}
	if err := Atan2(z, zero, negOne, 10); err != nil {
		t.Fatalf("Atan2(0, -1): %v", err)
	}
	if got := z.String(); got != "3.1415926535" {
		t.Errorf("atan2(0, -1) = %s, want 3.1415926535", got)
	}

	// Quadrants.
	if err := Atan2(z, one, one, 12); err != nil {
		t.Fatalf("Atan2(1, 1): %v", err)
	}
	within(t, z, "0.7853981633974483", 9)
	if err := Atan2(z, one, negOne, 12); err != nil {
		t.Fatalf("Atan2(1, -1): %v", err)
	}
	within(t, z, "2.356194490192345", 9)
	if err := Atan2(z, negOne, negOne, 12); err != nil {
		t.Fatalf("Atan2(-1, -1): %v", err)
	}
	within(t, z, "-2.356194490192345", 9)
}

func TestExp(t *testing.T) {
	t.Parallel()

	z, _ := abacus.New(10)
	defer z.Release()

	zero := decimal(t, "0")
	defer zero.Release()
	if err := Exp(z, zero, 10); err != nil {
		t.Fatalf("Exp(0): %v", err)
	}
	if got := z.String(); got != "1" {
		t.Errorf("exp(0) = %s, want 1", got)
	}

	one := decimal(t, "1")
	defer one.Release()
	if err := Exp(z, one, 12); err != nil {
		t.Fatalf("Exp(1): %v", err)
	}
	within(t, z, "2.718281828459045", 9)

	negOne := decimal(t, "-1")
	defer negOne.Release()
	if err := Exp(z, negOne, 12); err != nil {
		t.Fatalf("Exp(-1): %v", err)
	}
	within(t, z, "0.3678794411714423", 9)

	ten := decimal(t, "10")
	defer ten.Release()
	if err := Exp(z, ten, 8); err != nil {
		t.Fatalf("Exp(10): %v", err)
	}
	within(t, z, "22026.465794806718", 4)
}

func TestLn(t *testing.T) {
	t.Parallel()

	z, _ := abacus.New(10)
	defer z.Release()

	x := decimal(t, "5")
	defer x.Release()
	if err := Ln(z, x, 12); err != nil {
		t.Fatalf("Ln(5): %v", err)
	}
	within(t, z, "1.6094379124341003", 9)

	small := decimal(t, "0.25")
	defer small.Release()
	if err := Ln(z, small, 12); err != nil {
		t.Fatalf("Ln(0.25): %v", err)
	}
	within(t, z, "-1.3862943611198906", 9)

	one := decimal(t, "1")
	defer one.Release()
	if err := Ln(z, one, 10); err != nil {
		t.Fatalf("Ln(1): %v", err)
	}
	within(t, z, "0", 9)
}

func TestLnExpRoundTrip(t *testing.T) {
	t.Parallel()

	x := decimal(t, "7.25")
	defer x.Release()
	lnx, _ := abacus.New(10)
	defer lnx.Release()
	back, _ := abacus.New(10)
	defer back.Release()
	if err := Ln(lnx, x, 16); err != nil {
		t.Fatalf("Ln: %v", err)
	}
	if err := Exp(back, lnx, 12); err != nil {
		t.Fatalf("Exp: %v", err)
	}
	within(t, back, "7.25", 9)
}

func TestLnDomainErrors(t *testing.T) {
	t.Parallel()

	z, _ := abacus.New(10)
	defer z.Release()
	zero := decimal(t, "0")
	defer zero.Release()
	neg := decimal(t, "-3")
	defer neg.Release()

	var domain numerr.DomainError
	if err := Ln(z, zero, 4); !errors.As(err, &domain) {
		t.Errorf("Ln(0): %v, want DomainError", err)
	}
	if err := Ln(z, neg, 4); !errors.As(err, &domain) {
		t.Errorf("Ln(-3): %v, want DomainError", err)
	}
}

func TestPow(t *testing.T) {
	t.Parallel()

	z, _ := abacus.New(10)
	defer z.Release()
	two := decimal(t, "2")
	defer two.Release()

	// Integer exponents are exact.
	ten := decimal(t, "10")
	defer ten.Release()
	if err := Pow(z, two, ten, 0); err != nil {
		t.Fatalf("Pow(2, 10): %v", err)
	}
	if got := z.String(); got != "1024" {
		t.Errorf("2^10 = %s, want 1024", got)
	}

	negTwo := decimal(t, "-2")
	defer negTwo.Release()
	if err := Pow(z, two, negTwo, 4); err != nil {
		t.Fatalf("Pow(2, -2): %v", err)
	}
	if got := z.String(); got != "0.25" {
		t.Errorf("2^-2 = %s, want 0.25", got)
	}

	// Fractional exponent goes through exp/ln.
	nine := decimal(t, "9")
	defer nine.Release()
	half := decimal(t, "0.5")
	defer half.Release()
	if err := Pow(z, nine, half, 10); err != nil {
		t.Fatalf("Pow(9, 0.5): %v", err)
	}
	within(t, z, "3", 6)

	// Negative base rejects non-integer exponents.
	var domain numerr.DomainError
	if err := Pow(z, negTwo, half, 4); !errors.As(err, &domain) {
		t.Errorf("Pow(-2, 0.5): %v, want DomainError", err)
	}

	// Zero to a negative power divides by zero.
	zero := decimal(t, "0")
	defer zero.Release()
	if err := Pow(z, zero, negTwo, 4); !errors.Is(err, numerr.ErrDivideByZero) {
		t.Errorf("Pow(0, -2): %v, want ErrDivideByZero", err)
	}
}

func TestPowUint(t *testing.T) {
	t.Parallel()

	z, _ := abacus.New(10)
	defer z.Release()
	three := decimal(t, "3")
	defer three.Release()

	if err := PowUint(z, three, 0); err != nil {
		t.Fatalf("PowUint: %v", err)
	}
	if got := z.String(); got != "1" {
		t.Errorf("3^0 = %s, want 1", got)
	}
	if err := PowUint(z, three, 20); err != nil {
		t.Fatalf("PowUint: %v", err)
	}
	if got := z.String(); got != "3486784401" {
		t.Errorf("3^20 = %s, want 3486784401", got)
	}
}
