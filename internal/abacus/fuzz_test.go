package abacus

import "testing"

// FuzzParseStringRoundTrip checks that any accepted literal renders back to
// a string that parses to an equal value.
func FuzzParseStringRoundTrip(f *testing.F) {
	f.Add("123", uint32(10))
	f.Add("-0.5", uint32(10))
	f.Add("deadbeef", uint32(16))
	f.Add("1:30.45", uint32(60))
	f.Add("255:0:17", uint32(256))
	f.Add("101101", uint32(2))
	f.Add("+0", uint32(7))

	f.Fuzz(func(t *testing.T, text string, baseSeed uint32) {
		base := 2 + baseSeed%255
		n, err := Parse(text, base, 16)
		if err != nil {
			return // rejected literals are out of scope here
		}
		defer n.Release()

		rendered := n.String()
		back, err := Parse(rendered, base, 16)
		if err != nil {
			t.Fatalf("String() %q of accepted input %q does not re-parse: %v", rendered, text, err)
		}
		defer back.Release()
		if !n.Equal(back) {
			t.Fatalf("round trip changed the value: %q -> %q -> %q", text, rendered, back.String())
		}
		if back.String() != rendered {
			t.Fatalf("canonical form unstable: %q renders as %q", rendered, back.String())
		}
	})
}
