// Package numerr defines the structured error kinds surfaced by the abacus
// kernel, allowing callers to branch on the class of failure (domain error,
// base mismatch, parse error, etc.) and to inspect the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method where they carry a cause, and
// sentinel values support errors.Is().
package numerr
