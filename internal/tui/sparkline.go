package tui

// Block elements for one-row sparklines, lowest to highest.
var sparkLevels = [...]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SampleRing keeps the most recent resource samples for the metrics panel.
// Capacity is fixed at construction; pushing past it evicts the oldest
// sample.
type SampleRing struct {
	buf  []float64
	next int  // index the next Push writes to
	full bool // true once the buffer has wrapped
}

// NewSampleRing creates a ring holding up to capacity samples. A capacity
// below one is raised to one.
func NewSampleRing(capacity int) *SampleRing {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleRing{buf: make([]float64, capacity)}
}

// Push records a sample, evicting the oldest when the ring is full.
func (s *SampleRing) Push(v float64) {
	s.buf[s.next] = v
	s.next++
	if s.next == len(s.buf) {
		s.next = 0
		s.full = true
	}
}

// Len returns the number of recorded samples.
func (s *SampleRing) Len() int {
	if s.full {
		return len(s.buf)
	}
	return s.next
}

// Cap returns the ring capacity.
func (s *SampleRing) Cap() int { return len(s.buf) }

// Last returns the most recent sample, or 0 when empty.
func (s *SampleRing) Last() float64 {
	if s.Len() == 0 {
		return 0
	}
	if s.next == 0 {
		return s.buf[len(s.buf)-1]
	}
	return s.buf[s.next-1]
}

// Slice returns the samples oldest-first in a fresh slice, or nil when
// empty.
func (s *SampleRing) Slice() []float64 {
	n := s.Len()
	if n == 0 {
		return nil
	}
	out := make([]float64, 0, n)
	if s.full {
		out = append(out, s.buf[s.next:]...)
	}
	return append(out, s.buf[:s.next]...)
}

// Resize changes the capacity, keeping the newest samples that fit.
func (s *SampleRing) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == len(s.buf) {
		return
	}
	kept := s.Slice()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	s.buf = make([]float64, capacity)
	s.next = copy(s.buf, kept)
	s.full = s.next == capacity
	if s.full {
		s.next = 0
	}
}

// Reset drops all samples.
func (s *SampleRing) Reset() {
	s.next = 0
	s.full = false
}

// clampPercent confines a sample to the 0..100 display range.
func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// RenderSparkline draws percentage samples as a single row of block
// elements, one rune per sample.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	top := float64(len(sparkLevels) - 1)
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = sparkLevels[int(clampPercent(v)/100.0*top)]
	}
	return string(out)
}

// Braille cells pack a 2x4 dot grid into one rune: U+2800 plus the dot
// bits. dotBit gives the bit for a dot column (0 or 1) and row (0 top).
func dotBit(col, row int) rune {
	left := [4]rune{0x01, 0x02, 0x04, 0x40}
	right := [4]rune{0x08, 0x10, 0x20, 0x80}
	if col == 0 {
		return left[row]
	}
	return right[row]
}

// RenderBrailleChart plots percentage samples as a braille dot trace of the
// given character width and row count. Samples are right-aligned so the
// newest reading sits at the right edge; older samples beyond the dot
// capacity are not drawn.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}

	dotCols := width * 2
	dotRows := rows * 4
	if len(values) > dotCols {
		values = values[len(values)-dotCols:]
	}

	grid := make([]rune, rows*width)
	for i := range grid {
		grid[i] = 0x2800
	}

	firstCol := dotCols - len(values)
	for i, v := range values {
		col := firstCol + i
		row := dotRows - 1 - int(clampPercent(v)/100.0*float64(dotRows-1))
		grid[(row/4)*width+col/2] |= dotBit(col%2, row%4)
	}

	lines := make([]string, rows)
	for r := range lines {
		lines[r] = string(grid[r*width : (r+1)*width])
	}
	return lines
}
