package tui

import "testing"

func assertSamples(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSampleRingPushAndSlice(t *testing.T) {
	r := NewSampleRing(3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	assertSamples(t, r.Slice(), []float64{1, 2, 3})
}

func TestSampleRingEviction(t *testing.T) {
	r := NewSampleRing(3)
	for _, v := range []float64{1, 2, 3, 4} {
		r.Push(v)
	}
	assertSamples(t, r.Slice(), []float64{2, 3, 4})
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
}

func TestSampleRingLast(t *testing.T) {
	r := NewSampleRing(5)
	if r.Last() != 0 {
		t.Error("empty ring should report 0")
	}
	r.Push(10)
	r.Push(20)
	r.Push(30)
	if r.Last() != 30 {
		t.Errorf("Last = %f, want 30", r.Last())
	}
}

func TestSampleRingLastAfterWrap(t *testing.T) {
	r := NewSampleRing(2)
	r.Push(10)
	r.Push(20)
	r.Push(30)
	if r.Last() != 30 {
		t.Errorf("Last = %f, want 30", r.Last())
	}
}

func TestSampleRingReset(t *testing.T) {
	r := NewSampleRing(5)
	r.Push(1)
	r.Push(2)
	r.Reset()
	if r.Len() != 0 || r.Slice() != nil {
		t.Errorf("reset ring still holds %v", r.Slice())
	}
}

func TestSampleRingResize(t *testing.T) {
	r := NewSampleRing(3)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	r.Resize(5)
	if r.Cap() != 5 {
		t.Fatalf("Cap = %d, want 5", r.Cap())
	}
	assertSamples(t, r.Slice(), []float64{1, 2, 3})

	r.Push(4)
	r.Push(5)
	r.Resize(3)
	assertSamples(t, r.Slice(), []float64{3, 4, 5})

	r.Resize(3)
	if r.Len() != 3 {
		t.Errorf("Len = %d after same-capacity resize, want 3", r.Len())
	}
}

func TestSampleRingMinimumCapacity(t *testing.T) {
	r := NewSampleRing(0)
	if r.Cap() != 1 {
		t.Fatalf("Cap = %d, want 1", r.Cap())
	}
	r.Push(42)
	if r.Last() != 42 {
		t.Errorf("Last = %f, want 42", r.Last())
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("empty input rendered %q", got)
	}

	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"floor", []float64{0, 0, 0}, "▁▁▁"},
		{"ceiling", []float64{100, 100, 100}, "███"},
		{"clamped", []float64{-10, 150}, "▁█"},
		{"midpoint", []float64{50}, "▄"},
	}
	for _, tt := range tests {
		if got := RenderSparkline(tt.values); got != tt.want {
			t.Errorf("%s: RenderSparkline(%v) = %q, want %q", tt.name, tt.values, got, tt.want)
		}
	}
}

func TestRenderSparklineMonotone(t *testing.T) {
	values := []float64{0, 14.3, 28.6, 42.9, 57.1, 71.4, 85.7, 100}
	runes := []rune(RenderSparkline(values))
	if len(runes) != len(values) {
		t.Fatalf("rendered %d runes for %d samples", len(runes), len(values))
	}
	for i := 1; i < len(runes); i++ {
		if runes[i] < runes[i-1] {
			t.Errorf("level dropped at sample %d: %c after %c", i, runes[i], runes[i-1])
		}
	}
}

func TestRenderBrailleChart(t *testing.T) {
	if RenderBrailleChart(nil, 10, 2) != nil {
		t.Error("empty input should render nothing")
	}
	if RenderBrailleChart([]float64{50}, 0, 2) != nil {
		t.Error("zero width should render nothing")
	}

	lines := RenderBrailleChart([]float64{0, 25, 50, 75, 100}, 4, 2)
	if len(lines) != 2 {
		t.Fatalf("rendered %d rows, want 2", len(lines))
	}
	dots := 0
	for _, line := range lines {
		runes := []rune(line)
		if len(runes) != 4 {
			t.Errorf("row width %d, want 4", len(runes))
		}
		for _, r := range runes {
			if r < 0x2800 || r > 0x28FF {
				t.Fatalf("non-braille rune %q in chart", r)
			}
			for bits := r - 0x2800; bits > 0; bits &= bits - 1 {
				dots++
			}
		}
	}
	if dots != 5 {
		t.Errorf("chart plots %d dots, want one per sample (5)", dots)
	}
}
