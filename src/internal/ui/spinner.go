package ui

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps briandowns/spinner and resolves into the same symbol-prefixed
// result lines the rest of this package prints.
type Spinner struct {
	inner *spinner.Spinner
}

// NewSpinner creates a spinner for a long-running step
func NewSpinner(message string) *Spinner {
	s := spinner.New(
		spinner.CharSets[14],
		80*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+message),
	)
	return &Spinner{inner: s}
}

// Start begins the animation
func (s *Spinner) Start() {
	s.inner.Start()
}

// Stop halts the animation without printing a result line
func (s *Spinner) Stop() {
	s.inner.Stop()
}

// UpdateMessage swaps the message while the spinner is running
func (s *Spinner) UpdateMessage(message string) {
	s.inner.Suffix = " " + message
}

// Success stops the spinner and prints the message as a success line
func (s *Spinner) Success(message string) {
	s.inner.Stop()
	Success("%s", message)
}

// Error stops the spinner and prints the message as an error line
func (s *Spinner) Error(message string) {
	s.inner.Stop()
	Error("%s", message)
}

// Warning stops the spinner and prints the message as a warning line
func (s *Spinner) Warning(message string) {
	s.inner.Stop()
	Warning("%s", message)
}

// WithSpinner runs fn behind a spinner and reports its result
func WithSpinner(message string, fn func() error) error {
	s := NewSpinner(message)
	s.Start()

	if err := fn(); err != nil {
		s.Error(message + " failed")
		return err
	}

	s.Success(message)
	return nil
}
