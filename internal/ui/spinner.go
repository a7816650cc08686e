package ui

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// StartSpinner shows msg with a spinner on w until the returned stop
// function is called. A disabled spinner only returns a no-op.
func StartSpinner(w io.Writer, msg string, enabled bool) (stop func()) {
	if !enabled {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}
