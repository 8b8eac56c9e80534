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

// Package debugger is the interactive front-end driving a Scheduler: it
// reads command lines, dispatches them through a data-driven name->handler
// table, and owns the breakpoint map and list cursor across the lifetime of
// the process (breakpoints persist across runs of the same Program; the
// list cursor does not).
package debugger

import (
	"fmt"
	"strings"

	"github.com/oclgrind-go/devicecore/debugger/terminal"
	"github.com/oclgrind-go/devicecore/kernel"
	"github.com/oclgrind-go/devicecore/scheduler"
	"github.com/oclgrind-go/devicecore/simerr"
)

// breakSignal is the subset of errorrouter.Router this package depends on.
// Defined locally, like scheduler.BreakSignal, so debugger never imports
// errorrouter.
type breakSignal interface {
	ForceBreak() bool
	ClearBreak()
}

// Debugger is the interactive command loop over one Scheduler.
type Debugger struct {
	term    terminal.Terminal
	breaks  breakSignal
	printer kernel.TypePrinter

	sched *scheduler.Scheduler

	// breakpoints is keyed by Program identity, then by monotonically
	// assigned id, to source line.
	breakpoints      map[string]map[int]int
	nextBreakpointID int

	listPosition int
	running      bool
}

// New constructs a Debugger. printer renders print command output; it may
// be nil if the caller never intends to use `print`.
func New(term terminal.Terminal, breaks breakSignal, printer kernel.TypePrinter) *Debugger {
	return &Debugger{
		term:             term,
		breaks:           breaks,
		printer:          printer,
		breakpoints:      make(map[string]map[int]int),
		nextBreakpointID: 1,
	}
}

// RunLoop is the interactive command loop. It is passed as the
// Scheduler.Run interactive callback. A returned error is always an
// invocation-fatal error raised by a command that stepped the current
// work-item; RunLoop has already printed it as a labeled fatal block before
// returning it. That block holds the error message only, not the current
// work-item's error context.
func (d *Debugger) RunLoop(s *scheduler.Scheduler) error {
	d.sched = s
	d.running = true
	d.listPosition = 0

	for d.running {
		line, err := d.term.TermRead("(oclgrind) ")
		if err != nil {
			d.term.TermPrintLine(terminal.StyleFeedback, "(quit)")
			return nil
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		cmd, ok := commandTable[strings.ToLower(tokens[0])]
		if !ok {
			d.term.TermPrintLine(terminal.StyleError, simerr.Errorf(simerr.PatternUnknownCommand, tokens[0]).Error())
			continue
		}

		if err := cmd.handler(d, tokens[1:]); err != nil {
			d.reportFatal(err)
			return err
		}
	}

	return nil
}

// reportFatal prints the labeled fatal block for an invocation-fatal error
// raised mid-run, then lets RunLoop's caller unwind.
func (d *Debugger) reportFatal(err error) {
	d.term.TermPrintLine(terminal.StyleError, fmt.Sprintf("OCLGRIND FATAL ERROR\n%s", err))
}

// feedback is a small convenience over TermPrintLine(StyleFeedback, ...).
func (d *Debugger) feedback(format string, args ...interface{}) {
	d.term.TermPrintLine(terminal.StyleFeedback, fmt.Sprintf(format, args...))
}

func (d *Debugger) errorLine(format string, args ...interface{}) {
	d.term.TermPrintLine(terminal.StyleError, fmt.Sprintf(format, args...))
}

// programID returns the breakpoint-map key for the currently running
// program, or "" if there is none.
func (d *Debugger) programID() string {
	if d.sched == nil {
		return ""
	}
	p := d.sched.Program()
	if p == nil {
		return ""
	}
	return p.ID()
}

// sourceLines splits the current program's source text into 1-based lines.
// Returns nil if there is no program or no source.
func (d *Debugger) sourceLines() []string {
	p := d.sched.Program()
	if p == nil {
		return nil
	}
	src := p.Source()
	if src == "" {
		return nil
	}
	return strings.Split(src, "\n")
}

// currentLine returns the current work-item's current source line, and
// whether a current work-item exists at all.
func (d *Debugger) currentLine() (line int, ok bool) {
	item, ok := d.sched.CurrentWorkItem()
	if !ok {
		return 0, false
	}
	instr := item.CurrentInstruction()
	if instr == nil {
		return 0, true
	}
	return instr.Line(), true
}
