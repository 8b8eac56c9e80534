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

import "github.com/oclgrind-go/devicecore/memory"

// handlerFunc implements one command. A non-nil error is always
// invocation-fatal; every other failure mode (bad syntax, unknown variable,
// out-of-range address) is reported directly via d.errorLine and returns
// nil.
type handlerFunc func(d *Debugger, args []string) error

// commandSpec is one entry of the data-driven dispatch table: name ->
// handler, with aliases mapping to the same handler.
type commandSpec struct {
	names   []string
	summary string
	help    string
	handler handlerFunc
}

// commands is the master list; commandTable (built in init) is what
// RunLoop actually dispatches through, keyed by every name (long and
// short) an entry declares.
var commands []*commandSpec

// commandTable maps every declared name (long and short) to its spec,
// built once at package init from the commands slice above.
var commandTable map[string]*commandSpec

func init() {
	commands = []*commandSpec{
		{
			names:   []string{"backtrace", "bt"},
			summary: "dump current call stack, innermost first",
			help:    "backtrace (bt): print the current work-item's call stack, innermost frame first.",
			handler: cmdBacktrace,
		},
		{
			names:   []string{"break", "b"},
			summary: "add breakpoint at current line or numeric arg",
			help:    "break (b) [line]: add a breakpoint at the given line, or the current line if omitted.",
			handler: cmdBreak,
		},
		{
			names:   []string{"continue", "c"},
			summary: "free-run until break, error, or completion",
			help:    "continue (c): run freely until a breakpoint fires, an error forces a break, or the kernel finishes.",
			handler: cmdContinue,
		},
		{
			names:   []string{"delete", "d"},
			summary: "delete breakpoint by id or (with confirmation) all",
			help:    "delete (d) [id]: delete the breakpoint with the given id, or prompt to delete all breakpoints.",
			handler: cmdDelete,
		},
		{
			names:   []string{"gmem", "gm"},
			summary: "dump or read the global address space",
			help:    "gmem (gm) [addr [size]]: dump the global address space, or size bytes at addr.",
			handler: memCmd(memory.Global),
		},
		{
			names:   []string{"lmem", "lm"},
			summary: "dump or read the local address space",
			help:    "lmem (lm) [addr [size]]: dump the current work-group's local address space, or size bytes at addr.",
			handler: memCmd(memory.Local),
		},
		{
			names:   []string{"pmem", "pm"},
			summary: "dump or read the private address space",
			help:    "pmem (pm) [addr [size]]: dump the current work-item's private address space, or size bytes at addr.",
			handler: memCmd(memory.Private),
		},
		{
			names:   []string{"help", "h"},
			summary: "command list, or per-command help",
			help:    "help (h) [command]: list every command, or print detailed help for one command.",
			handler: cmdHelp,
		},
		{
			names:   []string{"info", "i"},
			summary: "general info, or 'info break' to list breakpoints",
			help:    "info (i) [break]: print invocation and current work-item status, or the current program's breakpoints.",
			handler: cmdInfo,
		},
		{
			names:   []string{"list", "l"},
			summary: "list source lines; no arg advances, '-' steps back, numeric arg centers",
			help:    "list (l) [line|-]: list source lines around line, or continue from the list cursor, or step back with '-'.",
			handler: cmdList,
		},
		{
			names:   []string{"next", "n"},
			summary: "step, treating calls as atomic",
			help:    "next (n): advance one source line, stepping over any call the line makes.",
			handler: cmdNext,
		},
		{
			names:   []string{"print", "p"},
			summary: "print one or more variables; subscript name[index] supported",
			help:    "print (p) name... : print the current value of one or more variables; name[index] dereferences a pointer.",
			handler: cmdPrint,
		},
		{
			names:   []string{"quit", "q"},
			summary: "leave interactive mode; run continues non-interactively",
			help:    "quit (q): leave interactive mode and let the kernel run to completion without further prompts.",
			handler: cmdQuit,
		},
		{
			names:   []string{"step", "s"},
			summary: "advance one source line (or one instruction if no source)",
			help:    "step (s): advance the current work-item by one source line.",
			handler: cmdStep,
		},
		{
			names:   []string{"workitem", "wi"},
			summary: "switch current item to given global id",
			help:    "workitem (wi) [gx [gy [gz]]]: switch the current work-item to the one at the given global id (missing components default to 0).",
			handler: cmdWorkItem,
		},
	}

	t := make(map[string]*commandSpec)
	for _, c := range commands {
		for _, name := range c.names {
			t[name] = c
		}
	}
	commandTable = t
}
