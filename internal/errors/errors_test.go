package numerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestDomainError verifies message formatting and errors.As support.
func TestDomainError(t *testing.T) {
	err := NewDomainError("sqrt", "negative operand %d", -4)

	if !strings.Contains(err.Error(), "sqrt") {
		t.Errorf("DomainError should name the operation, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "negative operand -4") {
		t.Errorf("DomainError should carry the formatted message, got %q", err.Error())
	}

	var de DomainError
	if !errors.As(err, &de) {
		t.Error("errors.As should match DomainError")
	}
	if de.Op != "sqrt" {
		t.Errorf("Op = %q, want %q", de.Op, "sqrt")
	}
}

// TestArgMismatchError verifies both bases appear in the message.
func TestArgMismatchError(t *testing.T) {
	err := ArgMismatchError{Op: "add", BaseA: 10, BaseB: 60}
	for _, want := range []string{"add", "10", "60"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message %q should contain %q", err.Error(), want)
		}
	}
}

// TestSentinelWrapping verifies sentinels survive %w wrapping.
func TestSentinelWrapping(t *testing.T) {
	wrapped := WrapError(ErrDivideByZero, "div %d/%d", 1, 0)
	if !errors.Is(wrapped, ErrDivideByZero) {
		t.Error("wrapped error should match ErrDivideByZero")
	}
	if !strings.Contains(wrapped.Error(), "div 1/0") {
		t.Errorf("wrapped message missing context: %q", wrapped.Error())
	}

	if WrapError(nil, "noop") != nil {
		t.Error("WrapError(nil) should return nil")
	}
}

// TestNTTSubcodeString verifies subcode names.
func TestNTTSubcodeString(t *testing.T) {
	tests := []struct {
		code NTTSubcode
		want string
	}{
		{NTTPrimeSearchExhausted, "PrimeSearchExhausted"},
		{NTTNoPrimitiveRoot, "NoPrimitiveRoot"},
		{NTTSizeNotSupported, "SizeNotSupported"},
		{NTTSubcode(99), "NTTSubcode(99)"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// TestIsRecoverable verifies kernel errors are recoverable and plain I/O
// errors are not.
func TestIsRecoverable(t *testing.T) {
	recoverable := []error{
		nil,
		ErrDivideByZero,
		ErrNotInteger,
		ErrPrecisionUnderflow,
		DomainError{Op: "ln", Message: "non-positive"},
		ArgMismatchError{Op: "mul", BaseA: 2, BaseB: 16},
		InvalidBaseError{Base: 1},
		OverflowError{Target: "uint64", Message: "too large"},
		ParseError{Input: "xyz", Base: 10, Pos: 0},
		AllocError{Requested: 1 << 40, Limit: 1 << 20},
		NTTError{Subcode: NTTNoPrimitiveRoot, Message: "p=17"},
		fmt.Errorf("ctx: %w", ErrDivideByZero),
	}
	for _, err := range recoverable {
		if !IsRecoverable(err) {
			t.Errorf("IsRecoverable(%v) = false, want true", err)
		}
	}

	if IsRecoverable(errors.New("broken pipe")) {
		t.Error("plain I/O error should not be recoverable")
	}
}
