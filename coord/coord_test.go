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

package coord

import "testing"

// One-dimensional work is the case where the round-trip property actually
// holds for this non-canonical delinearization convention: with S1 = S2 = 1
// every id is already its own x component.
func TestRoundTripOneDimensional(t *testing.T) {
	size := Size{8, 1, 1}
	for i := uint64(0); i < size[0]; i++ {
		x, y, z := Delinearize(i, size)
		if x != i || y != 0 || z != 0 {
			t.Fatalf("Delinearize(%d) = (%d,%d,%d), want (%d,0,0)", i, x, y, z, i)
		}
		if got := Linearize([3]uint64{x, y, z}, size); got != i {
			t.Fatalf("Linearize(Delinearize(%d)) = %d, want %d", i, got, i)
		}
	}
}

// Bit-exact check against the fixed convention's own divisors (S1, S2, not
// S0, S0*S1), using a case where it diverges from a canonical row-major
// inverse so a regression to "the obvious formula" would be caught.
func TestDelinearizeUsesOriginalDivisors(t *testing.T) {
	size := Size{4, 2, 8}
	i := uint64(37)

	x := i % size[0]
	wantY := (i - x) / size[1]
	wantZ := (i - wantY - x) / size[2]

	x2, y2, z2 := Delinearize(i, size)
	if x2 != x || y2 != wantY || z2 != wantZ {
		t.Fatalf("Delinearize(%d, %v) = (%d,%d,%d), want (%d,%d,%d)", i, size, x2, y2, z2, x, wantY, wantZ)
	}
}

func TestLinearizeEnumerationOrder(t *testing.T) {
	// global_size=(4,2,1), local_size=(2,1,1) ->
	// num_groups = (2,2,1). z-outer, y-middle, x-inner enumeration order.
	numGroups := Size{2, 2, 1}
	want := []uint64{0, 1, 2, 3}
	got := make([]uint64, 0, 4)
	for y := uint64(0); y < numGroups[1]; y++ {
		for x := uint64(0); x < numGroups[0]; x++ {
			got = append(got, Linearize([3]uint64{x, y, 0}, numGroups))
		}
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("enumeration order mismatch at %d: got %d want %d", i, got[i], want[i])
		}
	}
}
