package abacus

import (
	"math"
	"strings"
	"testing"
)

// mustParse parses a literal or fails the test.
func mustParse(t *testing.T, text string, base uint32, prec int32) *Number {
	t.Helper()
	n, err := Parse(text, base, prec)
	if err != nil {
		t.Fatalf("Parse(%q, %d) failed: %v", text, base, err)
	}
	return n
}

// mustNew creates an empty destination or fails the test.
func mustNew(t *testing.T, base uint32) *Number {
	t.Helper()
	n, err := New(base)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", base, err)
	}
	return n
}

func TestParseStringRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		base uint32
		want string
	}{
		{"decimal integer", "12345", 10, "12345"},
		{"negative decimal", "-987", 10, "-987"},
		{"leading zeros collapse", "000042", 10, "42"},
		{"hex digits", "deadBEEF", 16, "deadbeef"},
		{"binary", "101101", 2, "101101"},
		{"fractional", "3.25", 10, "3.25"},
		{"trailing fraction zeros drop", "1.500", 10, "1.5"},
		{"sexagesimal", "1:30", 60, "1:30"},
		{"sexagesimal fraction", "0.30", 60, "0.30"},
		{"base 256 digits", "255:0:17", 256, "255:0:17"},
		{"negative zero normalizes", "-0", 10, "0"},
		{"explicit plus", "+7", 10, "7"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := mustParse(t, tt.text, tt.base, 8)
			defer n.Release()
			if got := n.String(); got != tt.want {
				t.Errorf("Parse(%q, %d).String() = %q, want %q", tt.text, tt.base, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		base uint32
	}{
		{"empty", "", 10},
		{"bare sign", "-", 10},
		{"digit out of base", "19", 8},
		{"letter in decimal", "1a", 10},
		{"two radix points", "1.2.3", 10},
		{"sexagesimal digit too large", "61:0", 60},
		{"empty colon group", "1::2", 60},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if n, err := Parse(tt.text, tt.base, 0); err == nil {
				n.Release()
				t.Errorf("Parse(%q, %d) succeeded, want error", tt.text, tt.base)
			}
		})
	}
}

func TestInvalidBase(t *testing.T) {
	t.Parallel()
	for _, base := range []uint32{0, 1, 257, 1000} {
		if _, err := New(base); err == nil {
			t.Errorf("New(%d) succeeded, want InvalidBaseError", base)
		}
	}
}

func TestUint64Conversions(t *testing.T) {
	t.Parallel()

	for _, base := range []uint32{2, 10, 16, 60, 256} {
		for _, v := range []uint64{0, 1, 255, 3600, math.MaxUint64} {
			n, err := FromUint64(v, base)
			if err != nil {
				t.Fatalf("FromUint64(%d, %d): %v", v, base, err)
			}
			got, err := n.Uint64()
			if err != nil {
				t.Fatalf("Uint64() for %d in base %d: %v", v, base, err)
			}
			if got != v {
				t.Errorf("base %d: round trip %d -> %d", base, v, got)
			}
			n.Release()
		}
	}
}

func TestInt64Conversions(t *testing.T) {
	t.Parallel()

	for _, v := range []int64{0, 1, -1, 42, -9000, math.MaxInt64, math.MinInt64} {
		n, err := FromInt64(v, 10)
		if err != nil {
			t.Fatalf("FromInt64(%d): %v", v, err)
		}
		got, err := n.Int64()
		if err != nil {
			t.Fatalf("Int64() for %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
		n.Release()
	}

	neg := mustParse(t, "-5", 10, 0)
	defer neg.Release()
	if _, err := neg.Uint64(); err == nil {
		t.Error("Uint64() on negative value succeeded, want OverflowError")
	}
}

func TestFromFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		base uint32
		prec int32
		want string
	}{
		{3.25, 10, 2, "3.25"},
		{-0.5, 10, 1, "-0.5"},
		{1024, 2, 0, "10000000000"},
		{0.5, 2, 4, "0.1"},
		{1e21, 10, 0, "1" + strings.Repeat("0", 21)},
	}
	for _, tt := range tests {
		tt := tt
		n, err := FromFloat64(tt.v, tt.base, tt.prec)
		if err != nil {
			t.Fatalf("FromFloat64(%v, %d, %d): %v", tt.v, tt.base, tt.prec, err)
		}
		if got := n.String(); got != tt.want {
			t.Errorf("FromFloat64(%v, %d, %d) = %q, want %q", tt.v, tt.base, tt.prec, got, tt.want)
		}
		n.Release()
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if n, err := FromFloat64(bad, 10, 0); err == nil {
			n.Release()
			t.Errorf("FromFloat64(%v) succeeded, want error", bad)
		}
	}
}

func TestFloat64(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "2.5", 10, 4)
	defer n.Release()
	if got := n.Float64(); got != 2.5 {
		t.Errorf("Float64() = %v, want 2.5", got)
	}
}

func TestTextRebase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		base    uint32
		prec    int32
		baseOut uint32
		want    string
	}{
		{"decimal to hex", "255", 10, 0, 16, "ff"},
		{"hex to decimal", "ff", 16, 0, 10, "255"},
		{"decimal to binary fraction", "0.5", 10, 4, 2, "0.1"},
		{"binary to decimal", "101.01", 2, 4, 10, "5.25"},
		{"same base is identity", "1:30", 60, 0, 60, "1:30"},
		{"negative survives", "-255", 10, 0, 16, "-ff"},
		{"minutes to decimal", "1:30", 60, 0, 10, "90"},
		{"non-terminating truncates", "0.1", 3, 4, 10, "0.3333"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := mustParse(t, tt.text, tt.base, tt.prec)
			defer n.Release()
			got, err := n.Text(tt.baseOut)
			if err != nil {
				t.Fatalf("Text(%d): %v", tt.baseOut, err)
			}
			if got != tt.want {
				t.Errorf("Text(%d) of %q base %d = %q, want %q", tt.baseOut, tt.text, tt.base, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "3.14159", 10, 8)
	defer n.Release()
	if err := n.Truncate(2); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if got := n.String(); got != "3.14" {
		t.Errorf("after Truncate(2): %q, want %q", got, "3.14")
	}
	// Truncating away every fractional digit leaves the integer part.
	if err := n.Truncate(0); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if got := n.String(); got != "3" {
		t.Errorf("after Truncate(0): %q, want %q", got, "3")
	}
}

func TestEqualAndCopy(t *testing.T) {
	t.Parallel()
	a := mustParse(t, "123.45", 10, 4)
	defer a.Release()
	b := a.Copy()
	defer b.Release()

	if !a.Equal(b) {
		t.Error("copy is not Equal to original")
	}
	if err := b.Add(b, b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.Equal(b) {
		t.Error("mutating the copy changed the original's equality")
	}
	if got := a.String(); got != "123.45" {
		t.Errorf("original changed after copy mutation: %q", got)
	}
}

func TestReleaseSemantics(t *testing.T) {
	t.Parallel()
	a := mustParse(t, "7", 10, 0)
	a.Release()
	z := mustNew(t, 10)
	defer z.Release()
	if err := z.Add(a, a); err == nil {
		t.Error("operation on released operand succeeded, want ErrReleased")
	}
	// Double release is a no-op.
	a.Release()
}

func TestSparseLayoutSwitch(t *testing.T) {
	t.Parallel()

	one := mustParse(t, "1", 10, 0)
	defer one.Release()
	big := mustNew(t, 10)
	defer big.Release()

	// A single bead at exponent 500 is far below the density threshold.
	if err := big.Shift(one, 500); err != nil {
		t.Fatalf("Shift: %v", err)
	}
	if !big.IsSparse() {
		t.Errorf("single bead at exponent 500 stored densely (density %.3f)", big.Sparsity())
	}
	if got := big.String(); len(got) != 501 || got[0] != '1' {
		t.Errorf("String() length %d, want 501 digits starting with '1'", len(got))
	}

	// Forcing dense then re-optimizing goes back to sparse.
	big.Densify()
	if big.IsSparse() {
		t.Fatal("Densify did not switch layout")
	}
	big.OptimizeRepresentation()
	if !big.IsSparse() {
		t.Error("OptimizeRepresentation kept a 1/501-density value dense")
	}

	// A fully populated value stays dense.
	dense := mustParse(t, "123456789", 10, 0)
	defer dense.Release()
	dense.OptimizeRepresentation()
	if dense.IsSparse() {
		t.Error("fully populated value switched to sparse")
	}
	if dense.Sparsity() != 1.0 {
		t.Errorf("Sparsity() = %v, want 1.0", dense.Sparsity())
	}
}

func TestBeadLimit(t *testing.T) {
	old := BeadLimit()
	t.Cleanup(func() { SetBeadLimit(old) })

	SetBeadLimit(4)
	if n, err := Parse("123456", 10, 0); err == nil {
		n.Release()
		t.Error("Parse above the bead ceiling succeeded, want AllocError")
	}
	SetBeadLimit(old)
	n := mustParse(t, "123456", 10, 0)
	n.Release()
}

func TestSpanAndIsInteger(t *testing.T) {
	t.Parallel()

	n := mustParse(t, "120.5", 10, 2)
	defer n.Release()
	lo, hi, ok := n.Span()
	if !ok || lo != -1 || hi != 2 {
		t.Errorf("Span() = (%d, %d, %v), want (-1, 2, true)", lo, hi, ok)
	}
	if n.IsInteger() {
		t.Error("IsInteger() true for 120.5")
	}

	i := mustParse(t, "42", 10, 0)
	defer i.Release()
	if !i.IsInteger() {
		t.Error("IsInteger() false for 42")
	}
}
