package ui

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Spinner shows an animated progress indicator. It only animates when
// writing to a terminal; otherwise the message is printed once.
type Spinner struct {
	out     io.Writer
	spinner *spinner.Spinner
}

// NewSpinner creates a Spinner writing to out.
func NewSpinner(out io.Writer) *Spinner {
	s := &Spinner{out: out}
	if IsTerminal(out) {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return s
}

// Start shows message next to the spinner.
func (s *Spinner) Start(message string) {
	if s.spinner == nil {
		_, _ = io.WriteString(s.out, message+"\n")
		return
	}
	s.spinner.Suffix = " " + message
	s.spinner.Start()
}

// Stop removes the spinner.
func (s *Spinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
