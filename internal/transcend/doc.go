// Package transcend provides transcendental functions over abacus Numbers:
// CORDIC sine, cosine and atan2, exponential and logarithm by range
// reduction plus series summation, and general powers.
//
// Results are correct to within about one unit in the last place of the
// requested fractional precision; they are approximations by nature, never
// exact values.
//
// Shared constants (pi, e, ln 2, ln base, the golden ratio) and the CORDIC
// arctangent tables are produced lazily per base, kept at the highest
// precision requested so far, and handed out as truncated copies. The cached
// masters are immutable, so lookups share them freely across goroutines.
package transcend
