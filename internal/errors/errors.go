package numerr

import (
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the abacus CLI.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess      = 0   // Indicates successful execution.
	ExitErrorGeneric = 1   // Indicates a generic error.
	ExitErrorConfig  = 4   // Indicates a configuration error.
	ExitErrorCancel  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinel errors for failure kinds that carry no payload beyond their class.
var (
	// ErrDivideByZero is returned when the divisor magnitude is zero.
	ErrDivideByZero = errors.New("division by zero")

	// ErrNotInteger is returned by number-theoretic operations when an
	// operand has fractional beads (min exponent below zero).
	ErrNotInteger = errors.New("operand is not an integer")

	// ErrPrecisionUnderflow is returned when an iterative algorithm reached
	// its iteration cap before converging to the requested precision. The
	// destination still holds the best iterate; callers may treat this as a
	// precision-qualified success.
	ErrPrecisionUnderflow = errors.New("iteration cap reached before convergence")

	// ErrReleased is returned when a released Number is used as an operand
	// or destination.
	ErrReleased = errors.New("number used after release")
)

// DomainError reports a mathematically undefined operation for the supplied
// operands, such as the square root of a negative number or the logarithm of
// a non-positive one.
type DomainError struct {
	// Op is the name of the operation that was attempted.
	Op string
	// Message explains why the operands are outside the operation's domain.
	Message string
}

// Error returns the error message for a DomainError.
func (e DomainError) Error() string {
	return fmt.Sprintf("%s: domain error: %s", e.Op, e.Message)
}

// NewDomainError creates a DomainError with a formatted message.
func NewDomainError(op, format string, a ...any) error {
	return DomainError{Op: op, Message: fmt.Sprintf(format, a...)}
}

// ArgMismatchError reports operands that must share a property and do not.
// In practice the property is always the base.
type ArgMismatchError struct {
	// Op is the name of the operation that was attempted.
	Op string
	// BaseA and BaseB are the conflicting operand bases.
	BaseA, BaseB uint32
}

// Error returns the error message for an ArgMismatchError.
func (e ArgMismatchError) Error() string {
	return fmt.Sprintf("%s: operand bases differ: %d vs %d", e.Op, e.BaseA, e.BaseB)
}

// InvalidBaseError reports a base outside the supported range [2, 256].
type InvalidBaseError struct {
	// Base is the rejected base value.
	Base uint32
}

// Error returns the error message for an InvalidBaseError.
func (e InvalidBaseError) Error() string {
	return fmt.Sprintf("base %d outside supported range [2, 256]", e.Base)
}

// OverflowError reports a conversion-out target that cannot represent the
// value, such as converting a negative Number to uint64.
type OverflowError struct {
	// Target names the conversion target type.
	Target string
	// Message explains what overflowed.
	Message string
}

// Error returns the error message for an OverflowError.
func (e OverflowError) Error() string {
	return fmt.Sprintf("value does not fit in %s: %s", e.Target, e.Message)
}

// ParseError reports textual input that does not parse in the stated base.
type ParseError struct {
	// Input is the rejected text (possibly truncated for display).
	Input string
	// Base is the base the text was parsed against.
	Base uint32
	// Pos is the byte offset of the first offending character.
	Pos int
}

// Error returns the error message for a ParseError.
func (e ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a base-%d number (offset %d)", e.Input, e.Base, e.Pos)
}

// AllocError reports that an operation would exceed the configured bead
// ceiling. It is the kernel's rendering of an allocation failure: the
// destination is left untouched and no partial state is observable.
type AllocError struct {
	// Requested is the number of beads the operation needed.
	Requested uint64
	// Limit is the configured bead ceiling.
	Limit uint64
}

// Error returns the error message for an AllocError.
func (e AllocError) Error() string {
	return fmt.Sprintf("allocation of %d beads exceeds ceiling of %d", e.Requested, e.Limit)
}

// NTTSubcode identifies the precise stage at which NTT context setup failed.
type NTTSubcode int

// NTT failure subcodes.
const (
	// NTTPrimeSearchExhausted: no working prime c*2^k+1 was found within the
	// search bounds for the requested transform size.
	NTTPrimeSearchExhausted NTTSubcode = iota + 1
	// NTTNoPrimitiveRoot: a prime was found but no generator of the required
	// order could be located.
	NTTNoPrimitiveRoot
	// NTTSizeNotSupported: the requested transform length is zero, not a
	// power of two, or too large for 64-bit modular arithmetic.
	NTTSizeNotSupported
)

// String returns the subcode name.
func (c NTTSubcode) String() string {
	switch c {
	case NTTPrimeSearchExhausted:
		return "PrimeSearchExhausted"
	case NTTNoPrimitiveRoot:
		return "NoPrimitiveRoot"
	case NTTSizeNotSupported:
		return "SizeNotSupported"
	default:
		return fmt.Sprintf("NTTSubcode(%d)", int(c))
	}
}

// NTTError reports a failure inside the NTT helper together with the stage
// that failed. The multiplication path treats these as a signal to fall back
// to schoolbook multiplication.
type NTTError struct {
	// Subcode identifies the failed setup stage.
	Subcode NTTSubcode
	// Message carries stage-specific detail.
	Message string
}

// Error returns the error message for an NTTError.
func (e NTTError) Error() string {
	return fmt.Sprintf("ntt: %s: %s", e.Subcode, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// The wrapped error remains visible to errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsRecoverable reports whether the REPL should keep its session alive after
// the error: every kernel error is recoverable, only I/O failures are not.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	var de DomainError
	var am ArgMismatchError
	var ib InvalidBaseError
	var ov OverflowError
	var pe ParseError
	var ae AllocError
	var ne NTTError
	return errors.Is(err, ErrDivideByZero) ||
		errors.Is(err, ErrNotInteger) ||
		errors.Is(err, ErrPrecisionUnderflow) ||
		errors.As(err, &de) || errors.As(err, &am) || errors.As(err, &ib) ||
		errors.As(err, &ov) || errors.As(err, &pe) || errors.As(err, &ae) ||
		errors.As(err, &ne)
}
