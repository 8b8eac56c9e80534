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

// Package kernel defines the contracts for the kernel/program representation
// and the type-directed printer the debugger front-end uses to display
// loaded memory. Both the compilation pipeline and the printer's rendering
// logic are external collaborators — this package only names the interfaces
// the scheduler and debugger depend on.
package kernel

import (
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/workgroup"
)

// Program is the kernel/program representation. Its identity (ID) is the
// key used by the debugger's breakpoint map, so that breakpoints persist
// across runs of the same program and are disjoint across programs.
type Program interface {
	// ID returns a stable identity for this program, used as a map key.
	// Two Program values with the same ID are considered the same program
	// for the purposes of breakpoint persistence.
	ID() string

	// Source returns the program's source text, or the empty string if
	// unavailable. The debugger splits it into lines on '\n'.
	Source() string
}

// Kernel is one compiled entry point within a Program, invoked with a
// specific work size.
type Kernel interface {
	// Name returns the kernel's name, used in error context and the
	// instruction-count report.
	Name() string

	// Program returns the program this kernel was compiled from.
	Program() Program

	// AllocateConstants sets up the kernel's constant memory inside the
	// given global memory object. A non-nil error here is treated as an
	// invocation-fatal error.
	AllocateConstants(global memory.Memory) error

	// DeallocateConstants releases whatever AllocateConstants set up.
	DeallocateConstants(global memory.Memory)

	// NewWorkGroup constructs the work-group owning the given coordinate.
	// dim is the invocation's work dimensionality (1, 2, or 3); components
	// of coord/globalOffset/globalSize/localSize beyond dim are 1 or 0 and
	// ignored by a well-behaved implementation.
	NewWorkGroup(dim int, coord, globalOffset, globalSize, localSize [3]uint64) workgroup.WorkGroup
}

// TypePrinter renders a typed value loaded from memory. Used by the print
// command's subscript form.
type TypePrinter interface {
	PrintTypedData(typeName string, data []byte) string
}
