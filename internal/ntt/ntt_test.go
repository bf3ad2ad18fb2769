package ntt

import (
	"errors"
	"math/rand"
	"testing"

	numerr "github.com/crystalline/abacus/internal/errors"
)

func TestNewContextStates(t *testing.T) {
	t.Parallel()

	c, err := NewContext(64, 10, 0)
	if err != nil {
		t.Fatalf("NewContext(64, 10): %v", err)
	}
	if c.State() != Ready {
		t.Errorf("state = %s, want Ready", c.State())
	}
	if c.Size() != 64 {
		t.Errorf("Size() = %d, want 64", c.Size())
	}
	p := c.Prime()
	if (p-1)%64 != 0 {
		t.Errorf("prime %d is not 1 mod 64", p)
	}
	if p <= 81*64 {
		t.Errorf("prime %d does not clear the coefficient bound %d", p, 81*64)
	}
	if !isPrime(p) {
		t.Errorf("chosen modulus %d is composite", p)
	}
}

func TestNewContextRejectsBadSizes(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 3, 100} {
		c, err := NewContext(size, 10, 0)
		var ne numerr.NTTError
		if !errors.As(err, &ne) || ne.Subcode != numerr.NTTSizeNotSupported {
			t.Errorf("NewContext(%d): %v, want NTTSizeNotSupported", size, err)
		}
		if c.State() != Uninitialized {
			t.Errorf("NewContext(%d) left state %s, want Uninitialized", size, c.State())
		}
	}
}

func TestNewContextHonorsPrimeHint(t *testing.T) {
	t.Parallel()

	// 673 = 84*8 + 1 is prime and clears the base-10 bound 81*8.
	c, err := NewContext(8, 10, 673)
	if err != nil {
		t.Fatalf("NewContext with hint: %v", err)
	}
	if c.Prime() != 673 {
		t.Errorf("Prime() = %d, want the hinted 673", c.Prime())
	}

	// A hint failing the congruence is ignored, not fatal.
	c, err = NewContext(8, 10, 677)
	if err != nil {
		t.Fatalf("NewContext with bad hint: %v", err)
	}
	if c.Prime() == 677 {
		t.Error("unusable hint 677 was accepted")
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    State
		want string
	}{
		{Uninitialized, "Uninitialized"},
		{PrimeChosen, "PrimeChosen"},
		{RootsPrecomputed, "RootsPrecomputed"},
		{Ready, "Ready"},
		{State(42), "State(?)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestForwardInverseRoundTrip(t *testing.T) {
	t.Parallel()

	const size = 128
	c, err := NewContext(size, 256, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	orig := make([]uint64, size)
	for i := range orig {
		orig[i] = rng.Uint64() % c.Prime()
	}
	vec := append([]uint64(nil), orig...)

	if err := c.Forward(vec); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := c.Inverse(vec); err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	for i := range orig {
		if vec[i] != orig[i] {
			t.Fatalf("round trip differs at %d: %d != %d", i, vec[i], orig[i])
		}
	}
}

func TestTransformLengthMismatch(t *testing.T) {
	t.Parallel()

	c, err := NewContext(16, 10, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	var ne numerr.NTTError
	if err := c.Forward(make([]uint64, 8)); !errors.As(err, &ne) {
		t.Errorf("Forward with short vector: %v, want NTTError", err)
	}
}

// mulRef is the quadratic convolution reference.
func mulRef(a, b []uint32, base uint32) []uint32 {
	out := make([]uint32, len(a)+len(b)+1)
	var carry uint64
	for i := 0; i < len(out); i++ {
		col := carry
		for j := 0; j <= i && j < len(a); j++ {
			if i-j < len(b) {
				col += uint64(a[j]) * uint64(b[i-j])
			}
		}
		out[i] = uint32(col % uint64(base))
		carry = col / uint64(base)
	}
	return out
}

// trimZeros drops high-order zero digits for comparison.
func trimZeros(d []uint32) []uint32 {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	return d[:n]
}

func TestMulDigits(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	for _, base := range []uint32{2, 10, 256} {
		for _, n := range []int{1, 7, 100, 1000} {
			a := make([]uint32, n)
			b := make([]uint32, n+3)
			for i := range a {
				a[i] = rng.Uint32() % base
			}
			for i := range b {
				b[i] = rng.Uint32() % base
			}
			a[n-1] = base - 1
			b[len(b)-1] = base - 1

			got, err := MulDigits(a, b, base)
			if err != nil {
				t.Fatalf("MulDigits(base %d, len %d): %v", base, n, err)
			}
			want := mulRef(a, b, base)
			g, w := trimZeros(got), trimZeros(want)
			if len(g) != len(w) {
				t.Fatalf("base %d len %d: product has %d digits, want %d", base, n, len(g), len(w))
			}
			for i := range g {
				if g[i] != w[i] {
					t.Fatalf("base %d len %d: digit %d is %d, want %d", base, n, i, g[i], w[i])
				}
			}
		}
	}
}

func TestMulDigitsEmptyOperand(t *testing.T) {
	t.Parallel()

	out, err := MulDigits(nil, []uint32{1, 2}, 10)
	if err != nil || out != nil {
		t.Errorf("MulDigits(nil, x) = (%v, %v), want (nil, nil)", out, err)
	}
}
