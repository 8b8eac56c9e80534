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

// Package terminal defines the input/output boundary between the debugger
// front-end (package debugger) and whatever reads command lines and
// displays their results. The core is single-threaded and cooperative:
// there are no event channels here, only a synchronous read and a
// synchronous print.
package terminal

// Input defines the operations required to read a command line.
type Input interface {
	// TermRead blocks until a line is available, returning it without its
	// trailing newline. io.EOF (wrapped or otherwise) signals end-of-input,
	// at which point the debugger prints "(quit)" and terminates the run.
	TermRead(prompt string) (string, error)

	// IsInteractive reports whether this implementation requires a human at
	// the other end. Implementations used for scripted or test input should
	// return false.
	IsInteractive() bool
}

// Output defines the operations required to display debugger output.
type Output interface {
	// TermPrintLine writes s, styled, to the output stream. Diagnostic
	// (StyleError) output goes to a different physical stream than the rest;
	// everything else is user-facing debugger output.
	TermPrintLine(style Style, s string)
}

// Terminal is the full interface required by the debugger front-end.
type Terminal interface {
	Input
	Output

	// Initialise performs any set-up required before the first TermRead.
	// Implementations that need nothing special can make this a no-op.
	Initialise() error

	// CleanUp restores the terminal to whatever state it was in before
	// Initialise, if applicable.
	CleanUp()
}

// Style identifies the kind of content being printed, so a richer terminal
// implementation can colour or otherwise decorate it. A plain
// implementation is free to ignore it entirely except for StyleError, which
// must always be emitted even while silenced.
type Style int

// Styles used by the debugger front-end.
const (
	StyleEcho Style = iota
	StyleHelp
	StylePrompt
	StyleFeedback
	StyleError
	StyleInstrument
)
