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
	"sort"
	"strconv"

	"github.com/oclgrind-go/devicecore/simerr"
)

// cmdBreak implements `break [line]`. With no argument it installs at the
// current line, erroring if there isn't one. With a numeric argument, the
// line must satisfy 1 <= N <= len(source)+1 and the argument must fully
// consume its input. Breakpoints require a loaded program's source, like
// Device.cpp's addBreakpoint.
func cmdBreak(d *Debugger, args []string) error {
	lines := d.sourceLines()
	if len(lines) == 0 {
		d.errorLine("Breakpoints only valid when source is available.")
		return nil
	}

	var line int

	if len(args) == 0 {
		l, ok := d.currentLine()
		if !ok || l == 0 {
			d.errorLine("No current line to break at.")
			return nil
		}
		line = l
	} else {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(lines)+1 {
			d.errorLine(simerr.Errorf(simerr.PatternInvalidLineNumber).Error())
			return nil
		}
		line = n
	}

	id := d.nextBreakpointID
	d.nextBreakpointID++

	progID := d.programID()
	if d.breakpoints[progID] == nil {
		d.breakpoints[progID] = make(map[int]int)
	}
	d.breakpoints[progID][id] = line

	d.feedback("Breakpoint %d set at line %d.", id, line)
	return nil
}

// cmdDelete implements `delete [id]`. A numeric argument
// deletes that breakpoint id wherever it lives (ids are unique across
// programs, drawn from one shared counter). With no argument it prompts
// for confirmation before clearing every breakpoint in every program.
func cmdDelete(d *Debugger, args []string) error {
	if len(args) == 0 {
		line, err := d.term.TermRead("Delete all breakpoints? (y or n) ")
		if err != nil || (line != "y" && line != "yes") {
			return nil
		}
		for k := range d.breakpoints {
			delete(d.breakpoints, k)
		}
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		d.errorLine("Invalid breakpoint id.")
		return nil
	}

	for _, byID := range d.breakpoints {
		if _, ok := byID[id]; ok {
			delete(byID, id)
			return nil
		}
	}
	d.errorLine("No breakpoint with id %d.", id)
	return nil
}

// checkBreakpoint is the BreakpointHook passed to Scheduler.Continue: it
// reports whether a breakpoint matches the current program at the given
// line, printing the standard "Breakpoint N hit" message on a match. Ties
// between multiple breakpoints at the same line resolve to the lowest id,
// matching "insertion order is acceptable" read as a stable tie-break.
func (d *Debugger) checkBreakpoint(line int) bool {
	byID := d.breakpoints[d.programID()]
	best := bestBreakpointID(byID, line)
	if best == -1 {
		return false
	}

	item, _ := d.sched.CurrentWorkItem()
	var g [3]uint64
	if item != nil {
		g = item.GlobalID()
	}
	d.feedback("Breakpoint %d hit at line %d by work-item (%d, %d, %d)", best, line, g[0], g[1], g[2])
	d.printCurrentLine()
	return true
}

// bestBreakpointID returns the lowest id among byID entries at the given
// line, or -1 if none match.
func bestBreakpointID(byID map[int]int, line int) int {
	best := -1
	for id, l := range byID {
		if l == line && (best == -1 || id < best) {
			best = id
		}
	}
	return best
}

// infoBreakpoints implements `info break`: list the current program's
// breakpoints in ascending id order.
func (d *Debugger) infoBreakpoints() {
	byID := d.breakpoints[d.programID()]
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		d.feedback("Breakpoint %d: Line %d", id, byID[id])
	}
}
