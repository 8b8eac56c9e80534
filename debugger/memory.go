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
	"fmt"
	"strconv"
	"strings"

	"github.com/oclgrind-go/devicecore/debugger/terminal"
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/simerr"
	"github.com/oclgrind-go/devicecore/workitem"
)

// memoryFor resolves an address space to the Memory object backing it right
// now: global/constant share the scheduler's global memory, local belongs
// to the current work-group, private to the current work-item.
func (d *Debugger) memoryFor(space memory.AddressSpace) memory.Memory {
	switch space {
	case memory.Global, memory.Constant:
		return d.sched.GlobalMemory()
	case memory.Local:
		if g, ok := d.sched.CurrentGroup(); ok {
			return g.LocalMemory()
		}
		return nil
	case memory.Private:
		if it, ok := d.sched.CurrentWorkItem(); ok {
			return it.PrivateMemory()
		}
		return nil
	default:
		return nil
	}
}

// memCmd builds the shared handler for gmem/lmem/pmem, parameterized by
// address space rather than branching on the command's first character.
func memCmd(space memory.AddressSpace) handlerFunc {
	return func(d *Debugger, args []string) error {
		mem := d.memoryFor(space)
		if mem == nil {
			d.errorLine("No %s memory available.", space)
			return nil
		}

		if len(args) == 0 {
			mem.Dump(termWriter{d})
			return nil
		}

		addr, err := strconv.ParseUint(args[0], 16, 64)
		if err != nil || addr%4 != 0 {
			d.errorLine(simerr.Errorf(simerr.PatternInvalidAddress).Error())
			return nil
		}

		size := 8
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n == 0 {
				d.errorLine("Invalid size.")
				return nil
			}
			size = n
		}

		if !mem.IsValid(addr, size) {
			d.errorLine(simerr.Errorf(simerr.PatternInvalidAddress).Error())
			return nil
		}

		buf := make([]byte, size)
		if err := mem.Load(buf, addr); err != nil {
			d.errorLine("%s", err)
			return nil
		}
		d.dumpRows(addr, buf)
		return nil
	}
}

// dumpRows prints rows of 4 bytes: address in hex (width 16), then the
// bytes as uppercase hex.
func (d *Debugger) dumpRows(base uint64, data []byte) {
	for i := 0; i < len(data); i += 4 {
		row := data[i:]
		if len(row) > 4 {
			row = row[:4]
		}
		hexBytes := make([]string, len(row))
		for j, b := range row {
			hexBytes[j] = fmt.Sprintf("%02X", b)
		}
		d.feedback("%016x  %s", base+uint64(i), strings.Join(hexBytes, " "))
	}
}

// termWriter adapts Debugger's line-oriented terminal output to the
// io.Writer Memory.Dump expects.
type termWriter struct{ d *Debugger }

func (w termWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.d.term.TermPrintLine(terminal.StyleFeedback, line)
	}
	return len(p), nil
}

// parseSubscript splits "name[index]" strictly: exactly one '[', the
// string must end in ']', and the index must fully parse as a decimal
// integer.
func parseSubscript(arg string) (name string, index int, ok bool) {
	open := strings.IndexByte(arg, '[')
	if open < 0 || !strings.HasSuffix(arg, "]") {
		return "", 0, false
	}
	n, err := strconv.Atoi(arg[open+1 : len(arg)-1])
	if err != nil {
		return "", 0, false
	}
	return arg[:open], n, true
}

// resolvePrintSpace maps constant to global, matching `print`'s address
// space resolution.
func resolvePrintSpace(space memory.AddressSpace) memory.AddressSpace {
	if space == memory.Constant {
		return memory.Global
	}
	return space
}

// cmdPrint implements `print name...`.
func cmdPrint(d *Debugger, args []string) error {
	if len(args) == 0 {
		d.errorLine("print requires at least one argument.")
		return nil
	}

	item, ok := d.sched.CurrentWorkItem()
	if !ok {
		d.errorLine("All work-items finished.")
		return nil
	}

	for _, arg := range args {
		if strings.Contains(arg, "[") {
			d.printSubscript(item, arg)
			continue
		}
		if !item.PrintVariable(termWriter{d}, arg) {
			d.errorLine("%s: not found", arg)
		}
	}
	return nil
}

func (d *Debugger) printSubscript(item workitem.WorkItem, arg string) {
	name, index, ok := parseSubscript(arg)
	if !ok {
		d.errorLine("%s: invalid subscript.", arg)
		return
	}

	v, ok := item.GetVariable(name)
	if !ok {
		d.errorLine("%s: not found", name)
		return
	}

	ptr, ok := v.Pointer()
	if !ok {
		d.errorLine("%s: not a pointer.", name)
		return
	}

	addr := ptr.Base + uint64(index)*uint64(ptr.ElementSize)
	mem := d.memoryFor(resolvePrintSpace(ptr.AddressSpace))
	if mem == nil || !mem.IsValid(addr, ptr.ElementSize) {
		d.errorLine("%s: invalid address.", arg)
		return
	}

	buf := make([]byte, ptr.ElementSize)
	if err := mem.Load(buf, addr); err != nil {
		d.errorLine("%s: %s", arg, err)
		return
	}

	if d.printer == nil {
		d.errorLine("%s: no type printer available.", arg)
		return
	}
	d.feedback("%s", d.printer.PrintTypedData(ptr.ElementType, buf))
}

// cmdInfo implements `info [break]`: with no argument it prints the full
// invocation summary; with `break` it lists the current program's
// breakpoints.
func cmdInfo(d *Debugger, args []string) error {
	if len(args) == 1 && args[0] == "break" {
		d.infoBreakpoints()
		return nil
	}

	d.feedback("Kernel: %s", d.sched.KernelName())
	gs, off, ls := d.sched.GlobalSize(), d.sched.GlobalOffset(), d.sched.LocalSize()
	d.feedback("Global size: (%d, %d, %d)", gs[0], gs[1], gs[2])
	d.feedback("Global offset: (%d, %d, %d)", off[0], off[1], off[2])
	d.feedback("Local size: (%d, %d, %d)", ls[0], ls[1], ls[2])

	item, ok := d.sched.CurrentWorkItem()
	if !ok {
		d.feedback("All work-items finished.")
		return nil
	}
	g := item.GlobalID()
	d.feedback("Current work-item: (%d, %d, %d)", g[0], g[1], g[2])
	d.printCurrentLine()
	return nil
}
