// Package abacus implements an arbitrary-base (2-256), arbitrary-precision,
// signed numeric type built from positional beads.
//
// A Number owns a bead store holding one digit per positional exponent,
// either densely (a contiguous digit vector) or sparsely (only non-zero
// beads). Operations are destination-oriented: z.Add(a, b) computes into the
// receiver, which may alias either operand. Operands are never mutated, and
// a destination is either left in canonical form (on success) or untouched
// (on error).
//
// Canonical form between operations:
//   - no two beads share an exponent,
//   - every digit lies in [0, base),
//   - no leading or trailing zero beads,
//   - zero is positive with an empty sparse store.
//
// Multiplication dispatches to the number-theoretic transform above a
// configurable digit threshold and falls back to schoolbook multiplication
// when NTT setup fails.
package abacus
