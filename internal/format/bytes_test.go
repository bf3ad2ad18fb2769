package format

import "testing"

// TestBytes verifies unit selection at the binary boundaries.
func TestBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		b    uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1 << 10, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 20, "5.0 MB"},
		{1 << 30, "1.0 GB"},
	}

	for _, tt := range tests {
		if got := Bytes(tt.b); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}
