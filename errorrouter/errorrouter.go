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

// Package errorrouter is the single sink for runtime diagnostics raised
// while a kernel invocation is executing: memory errors, data races,
// control-flow divergence, and generic errors. Every notification writes a
// uniform context block to the diagnostic stream and sets ForceBreak,
// handing control back to the debugger front-end.
package errorrouter

import (
	"fmt"
	"io"

	"github.com/oclgrind-go/devicecore/coord"
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/workgroup"
	"github.com/oclgrind-go/devicecore/workitem"
)

// ContextProvider answers the questions the router needs to print an error
// context block: who is currently executing. The Scheduler implements this;
// the router never depends on the scheduler package directly so the two
// packages stay decoupled.
type ContextProvider interface {
	CurrentWorkItem() (workitem.WorkItem, bool)
	CurrentGroup() (workgroup.WorkGroup, bool)
	KernelName() string
}

// RaceKind distinguishes the two data-race shapes the router reports.
type RaceKind int

const (
	ReadWrite RaceKind = iota
	WriteWrite
)

func (k RaceKind) String() string {
	if k == WriteWrite {
		return "write-write"
	}
	return "read-write"
}

// OtherEntityKind tags which form (if any) a race's "other entity" takes.
type OtherEntityKind int

const (
	OtherNone OtherEntityKind = iota
	OtherItem
	OtherGroup
)

// OtherEntity identifies the other side of a data race, in whichever form
// the interpreter was able to determine.
type OtherEntity struct {
	Kind OtherEntityKind
	ID   uint64
}

// Router is the error router. It must be told the invocation's global_size
// and num_groups before use, so it can decode an OtherEntity's linear id
// with the module's bit-exact delinearization convention, see coord.
type Router struct {
	ctx        ContextProvider
	diag       io.Writer
	forceBreak bool

	globalSize coord.Size
	numGroups  coord.Size
}

// New constructs a Router reporting through diag and answering context
// questions via ctx.
func New(ctx ContextProvider, diag io.Writer) *Router {
	return &Router{ctx: ctx, diag: diag}
}

// SetSizes tells the router the invocation's global_size and num_groups, so
// it can decode an other-entity linear id. The scheduler does not call this
// itself (it only depends on the router through the narrower BreakSignal
// interface); the driver wiring Router to a running invocation is
// responsible for calling SetSizes before routing any NotifyDataRace whose
// OtherEntity is OtherItem or OtherGroup.
func (r *Router) SetSizes(globalSize, numGroups coord.Size) {
	r.globalSize = globalSize
	r.numGroups = numGroups
}

// ForceBreak reports whether a notification has requested a break since the
// last ClearBreak. Satisfies scheduler.BreakSignal.
func (r *Router) ForceBreak() bool { return r.forceBreak }

// ClearBreak resets the break request, called on entry to a free-run.
func (r *Router) ClearBreak() { r.forceBreak = false }

// NotifyMemoryError reports an out-of-bounds or misaligned memory access.
// The notification-specific line comes first, then the error context, then
// a trailing blank line, matching Device.cpp's notifyMemoryError.
func (r *Router) NotifyMemoryError(isRead bool, space memory.AddressSpace, address uint64, size int) {
	direction := "write"
	if isRead {
		direction = "read"
	}
	fmt.Fprintf(r.diag, "Invalid %s of size %d at %s memory address %x\n", direction, size, space, address)

	r.printErrorContext()
	fmt.Fprintln(r.diag)

	r.forceBreak = true
}

// NotifyDataRace reports two work-items or work-groups accessing the same
// address without synchronization. lastInstr may be nil if the interpreter
// could not determine the other access's instruction.
func (r *Router) NotifyDataRace(kind RaceKind, space memory.AddressSpace, address uint64, other OtherEntity, lastInstr workitem.Instruction) {
	fmt.Fprintf(r.diag, "Data race (%s) on %s memory address %x\n", kind, space, address)
	fmt.Fprintf(r.diag, "  with %s\n", r.describeOtherEntity(other))
	if lastInstr != nil {
		fmt.Fprintf(r.diag, "  last instruction: %s\n", lastInstr.Disassemble())
	}

	r.printErrorContext()
	fmt.Fprintln(r.diag)

	r.forceBreak = true
}

// NotifyDivergence reports work-items disagreeing about control flow at a
// point the model expects them to agree.
func (r *Router) NotifyDivergence(instr workitem.Instruction, kindText, currentInfo, previousInfo string) {
	fmt.Fprintf(r.diag, "Work-items diverged in %s:\n", kindText)
	fmt.Fprintf(r.diag, "  current:  %s\n", currentInfo)
	fmt.Fprintf(r.diag, "  previous: %s\n", previousInfo)
	if instr != nil {
		fmt.Fprintf(r.diag, "  at: %s\n", instr.Disassemble())
	}

	r.printErrorContext()
	fmt.Fprintln(r.diag)

	r.forceBreak = true
}

// NotifyError reports a generic error with a free-form title and detail,
// used by interpreter conditions that don't fit the other notification
// shapes.
func (r *Router) NotifyError(title, info string) {
	fmt.Fprintf(r.diag, "%s: %s\n", title, info)

	r.printErrorContext()
	fmt.Fprintln(r.diag)

	r.forceBreak = true
}

func (r *Router) describeOtherEntity(other OtherEntity) string {
	switch other.Kind {
	case OtherItem:
		if !nonZero(r.globalSize) {
			return "unknown entity (sizes not set)"
		}
		x, y, z := coord.Delinearize(other.ID, r.globalSize)
		return fmt.Sprintf("work-item (%d, %d, %d)", x, y, z)
	case OtherGroup:
		if !nonZero(r.numGroups) {
			return "unknown entity (sizes not set)"
		}
		x, y, z := coord.Delinearize(other.ID, r.numGroups)
		return fmt.Sprintf("work-group (%d, %d, %d)", x, y, z)
	default:
		return "unknown entity"
	}
}

// nonZero reports whether every component of size is non-zero, guarding
// coord.Delinearize's divisions against a Router that was never told its
// invocation's sizes via SetSizes.
func nonZero(size coord.Size) bool {
	return size[0] != 0 && size[1] != 0 && size[2] != 0
}

func (r *Router) printErrorContext() {
	item, haveItem := r.ctx.CurrentWorkItem()
	group, haveGroup := r.ctx.CurrentGroup()

	if haveItem {
		g := item.GlobalID()
		l := item.LocalID()
		fmt.Fprintf(r.diag, "Work-item: global (%d, %d, %d), local (%d, %d, %d)\n",
			g[0], g[1], g[2], l[0], l[1], l[2])
	}
	if haveGroup {
		w := group.GroupID()
		fmt.Fprintf(r.diag, "Work-group: (%d, %d, %d)\n", w[0], w[1], w[2])
	}
	fmt.Fprintf(r.diag, "Kernel: %s\n", r.ctx.KernelName())

	if haveItem {
		instr := item.CurrentInstruction()
		if instr != nil {
			fmt.Fprintf(r.diag, "%s\n", instr.Disassemble())
			if line := instr.Line(); line != 0 {
				fmt.Fprintf(r.diag, "At line %d of %s.\n", line, instr.File())
			} else {
				fmt.Fprintln(r.diag, "Debugging information not available.")
			}
		}
	}
}
