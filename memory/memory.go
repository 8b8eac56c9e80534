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

// Package memory defines the contract that simulated address-space memory
// objects must satisfy. The implementation of those objects (the byte
// storage, the allocator, bounds tracking) is an external collaborator —
// out of scope for this module — this package only names the interface the
// scheduler and debugger depend on.
package memory

import "io"

// AddressSpace identifies which of the four OpenCL-style address spaces a
// memory object backs.
type AddressSpace int

// The closed set of address spaces a simulated kernel can address. Constant
// addresses are backed by the same Memory object as Global.
const (
	Private AddressSpace = iota
	Global
	Constant
	Local
)

// String names the address space the way error and diagnostic text expects
// it, e.g. "Invalid read of size 4 at global memory address".
func (a AddressSpace) String() string {
	switch a {
	case Private:
		return "private"
	case Global:
		return "global"
	case Constant:
		return "constant"
	case Local:
		return "local"
	default:
		return "unsupported address space"
	}
}

// Memory is a byte-addressable region tagged with an address space.
type Memory interface {
	// Load reads len(dst) bytes starting at addr into dst.
	Load(dst []byte, addr uint64) error

	// Store writes src into the region starting at addr.
	Store(src []byte, addr uint64) error

	// Dump writes a human-readable representation of the entire region to w.
	Dump(w io.Writer)

	// IsValid reports whether a size-byte access at addr is entirely within
	// bounds and otherwise permitted.
	IsValid(addr uint64, size int) bool

	// Synchronize is a coherence barrier for external consumers of the
	// simulated memory snapshot. Called at run start and end.
	Synchronize()
}
