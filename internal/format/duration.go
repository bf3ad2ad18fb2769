package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders an operation timing at a precision that
// reads well in the REPL: whole microseconds below a millisecond, whole
// milliseconds below a second, Go's default rendering above that.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}
