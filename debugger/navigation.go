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

package debugger

import (
	"strconv"
	"strings"

	"github.com/oclgrind-go/devicecore/simerr"
	"github.com/oclgrind-go/devicecore/workitem"
)

const listLength = 10

// cmdBacktrace implements `backtrace`.
func cmdBacktrace(d *Debugger, args []string) error {
	item, ok := d.sched.CurrentWorkItem()
	if !ok {
		d.errorLine("All work-items finished.")
		return nil
	}
	frames := item.CallStack()
	for i, f := range frames {
		d.feedback("#%d %s at line %d", i, f.Function, f.Line)
	}
	return nil
}

// cmdContinue implements `continue`. The breakpoint latch lives entirely
// inside Scheduler.Continue, so a fresh continue always resets it.
func cmdContinue(d *Debugger, args []string) error {
	if err := d.sched.Continue(d.breaks, d.checkBreakpoint); err != nil {
		return err
	}
	d.listPosition = 0
	if _, ok := d.sched.CurrentWorkItem(); !ok {
		d.feedback("All work-items finished.")
	}
	return nil
}

// stepBlockedMessage reports the message Device.cpp's step() prints for a
// current work-item that is not Ready, and whether stepping must be skipped
// entirely because of it.
func stepBlockedMessage(item workitem.WorkItem) (string, bool) {
	switch item.CurrentState() {
	case workitem.Barrier:
		return "Work-item is at a barrier.", true
	case workitem.Finished:
		return "Work-item has finished execution.", true
	default:
		return "", false
	}
}

// cmdStep implements `step`.
func cmdStep(d *Debugger, args []string) error {
	item, ok := d.sched.CurrentWorkItem()
	if !ok {
		d.errorLine("All work-items finished.")
		return nil
	}
	if msg, blocked := stepBlockedMessage(item); blocked {
		d.feedback("%s", msg)
		return nil
	}
	depth := len(item.CallStack())

	if err := d.sched.StepLine(); err != nil {
		return err
	}

	d.afterStep(depth)
	return nil
}

// cmdNext implements `next`: step, but treat a call as atomic
// by single-line-stepping until the call stack depth returns to what it was
// before the step.
func cmdNext(d *Debugger, args []string) error {
	item, ok := d.sched.CurrentWorkItem()
	if !ok {
		d.errorLine("All work-items finished.")
		return nil
	}
	if msg, blocked := stepBlockedMessage(item); blocked {
		d.feedback("%s", msg)
		return nil
	}
	depth := len(item.CallStack())

	for {
		if err := d.sched.StepLine(); err != nil {
			return err
		}
		item, ok = d.sched.CurrentWorkItem()
		if !ok || item.CurrentState() != workitem.Ready {
			break
		}
		if len(item.CallStack()) <= depth {
			break
		}
	}

	d.afterStep(depth)
	return nil
}

// afterStep implements the shared tail of step/next: print a new frame
// header if the call-stack depth changed and the item is still running,
// then print the current line (or completion message), then reset the
// list cursor.
func (d *Debugger) afterStep(previousDepth int) {
	item, ok := d.sched.CurrentWorkItem()
	if !ok || item.CurrentState() == workitem.Finished {
		d.feedback("Work-item has finished execution.")
		d.listPosition = 0
		return
	}

	if len(item.CallStack()) != previousDepth {
		if frames := item.CallStack(); len(frames) > 0 {
			d.feedback("%s", frames[0].Function)
		}
	}

	d.printCurrentLine()
	d.listPosition = 0
}

func (d *Debugger) printCurrentLine() {
	item, ok := d.sched.CurrentWorkItem()
	if !ok || item.CurrentState() == workitem.Finished {
		d.feedback("Work-item has finished execution.")
		return
	}

	line, ok := d.currentLine()
	if !ok {
		d.feedback("Work-item has finished execution.")
		return
	}
	if line == 0 {
		d.feedback("Debugging information not available.")
		return
	}
	lines := d.sourceLines()
	if line-1 < len(lines) {
		d.feedback("%d\t%s", line, lines[line-1])
	} else {
		d.feedback("%d", line)
	}
}

// cmdList implements `list`. list_position == 0 means "not set".
func cmdList(d *Debugger, args []string) error {
	lines := d.sourceLines()
	if len(lines) == 0 {
		d.errorLine("No source available.")
		return nil
	}

	var start int
	switch {
	case len(args) == 1 && args[0] == "-":
		anchor := d.listPosition
		if anchor == 0 {
			if l, ok := d.currentLine(); ok {
				anchor = l
			}
		}
		start = anchor - listLength
		if start < 1 {
			start = 1
		}
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			d.errorLine(simerr.Errorf(simerr.PatternInvalidLineNumber).Error())
			return nil
		}
		start = n - listLength/2
		if start < 1 {
			start = 1
		}
	default:
		if d.listPosition != 0 {
			start = d.listPosition + listLength
		} else if l, ok := d.currentLine(); ok && l != 0 {
			start = l + 1
		} else {
			start = 1
		}
	}

	if start > len(lines) {
		d.listPosition = len(lines) + 1
		return nil
	}

	end := start + listLength
	if end > len(lines)+1 {
		end = len(lines) + 1
	}
	for i := start; i < end; i++ {
		d.feedback("%d\t%s", i, lines[i-1])
	}
	d.listPosition = start
	return nil
}

// cmdWorkItem implements `workitem [gx [gy [gz]]]`.
func cmdWorkItem(d *Debugger, args []string) error {
	if len(args) > 3 {
		d.errorLine("Too many arguments.")
		return nil
	}

	var global [3]uint64
	for i, a := range args {
		n, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			d.errorLine("Invalid global id.")
			return nil
		}
		global[i] = n
	}

	item, err := d.sched.SwitchToGlobalID(global)
	if err != nil {
		d.errorLine("%s", err)
		return nil
	}

	d.feedback("Switched to work-item: (%d, %d, %d)", global[0], global[1], global[2])
	if item == nil || item.CurrentState() == workitem.Finished {
		d.feedback("Work-item has finished execution.")
		return nil
	}
	d.printCurrentLine()
	d.listPosition = 0
	return nil
}

// cmdQuit implements `quit`: leave interactive mode, clear every
// breakpoint, and drain the run to completion non-interactively.
func cmdQuit(d *Debugger, args []string) error {
	d.running = false
	for k := range d.breakpoints {
		delete(d.breakpoints, k)
	}
	return d.sched.Continue(d.breaks, nil)
}

// cmdHelp implements `help [command]`.
func cmdHelp(d *Debugger, args []string) error {
	if len(args) == 0 {
		for _, c := range commands {
			d.feedback("%-24s %s", strings.Join(c.names, "/"), c.summary)
		}
		return nil
	}

	c, ok := commandTable[args[0]]
	if !ok {
		d.errorLine("Unrecognized command '%s'.", args[0])
		return nil
	}
	d.feedback("%s", c.help)
	return nil
}
