package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// Prompt asks the user to acknowledge a message by pressing Enter.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Acknowledge prints message and blocks until a line is read or ctx is done.
// A closed input counts as acknowledged so the tool can run unattended.
//
// When ctx ends first the pending read is abandoned and ctx.Err() is
// returned; the prompt must not be used again after that.
func (p *Prompt) Acknowledge(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprint(p.out, message); err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() {
		_, err := p.in.ReadString('\n')
		readErr <- err
	}()

	select {
	case err := <-readErr:
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(p.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		return nil
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return ctx.Err()
	}
}
