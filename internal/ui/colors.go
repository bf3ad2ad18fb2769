package ui

// Color accessor functions return the ANSI escape code for the named role in
// the currently active theme. They are safe for concurrent use and return
// empty strings when colors are disabled.

// ColorPrimary returns the primary accent color code.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorCyan returns the informational accent color code.
func ColorCyan() string { return GetCurrentTheme().Info }

// ColorGreen returns the success color code.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color code.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorRed returns the error color code.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorMagenta returns the secondary accent color code.
func ColorMagenta() string { return GetCurrentTheme().Primary }

// ColorGrey returns the de-emphasis color code.
func ColorGrey() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold text code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorReset returns the formatting reset code.
func ColorReset() string { return GetCurrentTheme().Reset }
