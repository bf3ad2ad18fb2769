// Package ntt implements a number-theoretic transform over a word-sized
// prime field, used to multiply large digit vectors in O(n log n).
//
// A Context is built in stages (Uninitialized, PrimeChosen,
// RootsPrecomputed, Ready); a failure at any stage leaves the context in the
// previous state and reports the precise reason through an NTTError subcode.
// Once Ready a Context is immutable and safe for concurrent transforms.
//
// MulDigits is the high-level entry point: it sizes a transform for the two
// operands, runs both forward transforms concurrently, multiplies pointwise,
// inverse-transforms and carry-propagates back to digits in the caller's
// base. Contexts are cached per (size, base) since prime and root selection
// dominate the setup cost.
package ntt
