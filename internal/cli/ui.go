//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"time"

	"github.com/briandowns/spinner"
)

const (
	// TruncationLimit is the digit threshold from which a result is truncated
	// in standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the beginning
	// and end of a truncated number.
	DisplayEdges = 25
	// SpinnerRefreshRate defines the refresh frequency of the busy spinner.
	// 200ms keeps terminal updates cheap while staying visibly alive.
	SpinnerRefreshRate = 200 * time.Millisecond
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of evaluation display from a specific
// spinner implementation, facilitating easier testing and maintenance.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// noopSpinner satisfies Spinner without emitting any terminal output. It is
// used in quiet mode and when output is not a terminal.
type noopSpinner struct{}

func (noopSpinner) Start()              {}
func (noopSpinner) Stop()               {}
func (noopSpinner) UpdateSuffix(string) {}

// TruncateForDisplay shortens a digit string that exceeds TruncationLimit,
// keeping DisplayEdges characters from each end. Short strings are returned
// unchanged.
func TruncateForDisplay(s string) string {
	if len(s) <= TruncationLimit {
		return s
	}
	return s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:]
}
