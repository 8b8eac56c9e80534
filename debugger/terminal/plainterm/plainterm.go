// This file is part of devicecore.
//
// devicecore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// devicecore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with devicecore.  If not, see <https://www.gnu.org/licenses/>.

// Package plainterm implements terminal.Terminal for a plain, cooked-mode
// terminal. It's as simple as it can be: no line editing, no history, no tab
// completion. It's a reasonable default when no richer host capability is
// available — line editing is a capability of the host, not the core.
package plainterm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/oclgrind-go/devicecore/debugger/terminal"
)

// PlainTerminal reads command lines from an io.Reader and writes debugger
// output to one io.Writer and diagnostic output to another. They may be the
// same writer.
type PlainTerminal struct {
	input  *bufio.Scanner
	output io.Writer
	diag   io.Writer

	// realInput is true when input is attached to an actual terminal device,
	// in which case the prompt is worth printing at all.
	realInput bool
}

// NewPlainTerminal constructs a PlainTerminal around the given streams.
func NewPlainTerminal(input io.Reader, output, diag io.Writer) *PlainTerminal {
	return &PlainTerminal{
		input:  bufio.NewScanner(input),
		output: output,
		diag:   diag,
	}
}

// NewStdTerminal constructs a PlainTerminal around os.Stdin/os.Stdout and
// os.Stderr for the diagnostic channel.
func NewStdTerminal() *PlainTerminal {
	pt := NewPlainTerminal(os.Stdin, os.Stdout, os.Stderr)
	pt.realInput = term.IsTerminal(int(os.Stdin.Fd()))
	return pt
}

// Initialise implements terminal.Terminal.
func (pt *PlainTerminal) Initialise() error {
	return nil
}

// CleanUp implements terminal.Terminal.
func (pt *PlainTerminal) CleanUp() {
}

// TermPrintLine implements terminal.Output. Error-styled output always goes
// to the diagnostic stream; everything else goes to the output stream.
func (pt *PlainTerminal) TermPrintLine(style terminal.Style, s string) {
	if style == terminal.StyleError {
		fmt.Fprintln(pt.diag, s)
		return
	}
	fmt.Fprintln(pt.output, s)
}

// TermRead implements terminal.Input.
func (pt *PlainTerminal) TermRead(prompt string) (string, error) {
	if pt.realInput {
		fmt.Fprint(pt.output, prompt)
	}

	if !pt.input.Scan() {
		if err := pt.input.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return pt.input.Text(), nil
}

// IsInteractive implements terminal.Input.
func (pt *PlainTerminal) IsInteractive() bool {
	return pt.realInput
}
