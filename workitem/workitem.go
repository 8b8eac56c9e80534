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

// Package workitem defines the contract for a single lane of data-parallel
// execution. The instruction-level interpreter behind it is an external
// collaborator — this package only names the interface the scheduler and
// debugger depend on.
package workitem

import (
	"io"

	"github.com/oclgrind-go/devicecore/memory"
)

// State is a work-item's position in its execution state machine.
type State int

const (
	// Ready work-items may be stepped.
	Ready State = iota
	// Barrier work-items are waiting for the rest of their work-group to
	// reach the same synchronization point.
	Barrier
	// Finished work-items have completed the kernel and will not be
	// scheduled again.
	Finished
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Barrier:
		return "at a barrier"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Frame is one entry of a work-item's call stack, innermost first when the
// stack is walked by the debugger's backtrace command.
type Frame struct {
	Function string
	Line     int
}

// Instruction is the disassembler/debug-info contract consumed by the
// debugger front-end.
type Instruction interface {
	// Disassemble renders the instruction the way dump_instruction() would.
	Disassemble() string

	// Line returns the source line associated with this instruction, or 0
	// if no debug information is available.
	Line() int

	// File returns the source file the instruction's debug info points at,
	// or the empty string if unavailable.
	File() string
}

// PointerInfo describes a pointer-typed variable resolved by the print
// command's subscript form.
type PointerInfo struct {
	AddressSpace memory.AddressSpace
	ElementType  string
	ElementSize  int
	Base         uint64
}

// Variable is the result of a successful WorkItem.GetVariable lookup.
type Variable interface {
	// Pointer reports the variable's resolved pointer information, and
	// whether the variable is in fact pointer-typed. A non-pointer
	// variable's ok is false; the print command reports "not a pointer" in
	// this case.
	Pointer() (info PointerInfo, ok bool)
}

// WorkItem is a single lane of data-parallel execution.
type WorkItem interface {
	// Step advances execution by one low-level instruction, returning the
	// resulting state. An error returned here that is marked fatal (see
	// package simerr) unwinds the current Scheduler.Run invocation.
	Step() (State, error)

	// CurrentState reports the work-item's state without stepping it.
	CurrentState() State

	// CurrentInstruction returns the instruction the work-item is about to
	// execute (or just executed, for reporting purposes).
	CurrentInstruction() Instruction

	// CallStack returns the work-item's call stack, innermost frame first.
	CallStack() []Frame

	// GlobalID returns the work-item's global id, one component per
	// dimension (unused dimensions report 0).
	GlobalID() [3]uint64

	// LocalID returns the work-item's id within its work-group.
	LocalID() [3]uint64

	// GetVariable looks up a named variable in the current scope.
	GetVariable(name string) (Variable, bool)

	// PrintVariable writes the current value of a named variable to w,
	// using the type-directed printer, and reports whether the variable was
	// found.
	PrintVariable(w io.Writer, name string) bool

	// PrivateMemory returns the work-item's own private address space.
	PrivateMemory() memory.Memory
}
