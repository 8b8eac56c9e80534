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

import "testing"

func TestParseSubscriptStrict(t *testing.T) {
	cases := []struct {
		arg      string
		wantName string
		wantIdx  int
		wantOK   bool
	}{
		{"a[2]", "a", 2, true},
		{"buf[0]", "buf", 0, true},
		{"a[2", "", 0, false},
		{"a2]", "", 0, false},
		{"a[2x]", "", 0, false},
		{"a[]", "", 0, false},
	}

	for _, c := range cases {
		name, idx, ok := parseSubscript(c.arg)
		if ok != c.wantOK {
			t.Errorf("parseSubscript(%q) ok = %v, want %v", c.arg, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if name != c.wantName || idx != c.wantIdx {
			t.Errorf("parseSubscript(%q) = (%q, %d), want (%q, %d)", c.arg, name, idx, c.wantName, c.wantIdx)
		}
	}
}

type fixedBreaks struct{ forced bool }

func (f *fixedBreaks) ForceBreak() bool { return f.forced }
func (f *fixedBreaks) ClearBreak()      { f.forced = false }

func TestBestBreakpointIDPicksLowestOnTie(t *testing.T) {
	byID := map[int]int{5: 3, 2: 3, 9: 4}
	if got := bestBreakpointID(byID, 3); got != 2 {
		t.Fatalf("bestBreakpointID(..., 3) = %d, want 2", got)
	}
	if got := bestBreakpointID(byID, 4); got != 9 {
		t.Fatalf("bestBreakpointID(..., 4) = %d, want 9", got)
	}
	if got := bestBreakpointID(byID, 99); got != -1 {
		t.Fatalf("bestBreakpointID(..., 99) = %d, want -1", got)
	}
}

func TestInfoBreakpointsHandlesEmptyMap(t *testing.T) {
	d := New(nil, &fixedBreaks{}, nil)
	// Must not panic when the current program has no breakpoints yet.
	d.infoBreakpoints()
}

func TestDeleteByIDRemovesAcrossPrograms(t *testing.T) {
	d := New(nil, &fixedBreaks{}, nil)
	d.breakpoints["progA"] = map[int]int{1: 10}
	d.breakpoints["progB"] = map[int]int{2: 20}

	if err := cmdDelete(d, []string{"2"}); err != nil {
		t.Fatalf("cmdDelete: %v", err)
	}
	if _, ok := d.breakpoints["progB"][2]; ok {
		t.Fatal("breakpoint 2 should have been deleted")
	}
	if _, ok := d.breakpoints["progA"][1]; !ok {
		t.Fatal("breakpoint 1 in a different program should be untouched")
	}
}
