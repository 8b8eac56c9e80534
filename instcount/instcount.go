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

// Package instcount implements the post-run instruction-count summary: a
// caller-supplied, already-indexed counter vector filtered, sorted, and
// formatted for the diagnostic stream.
package instcount

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Entry pairs an opcode's printable name with how many times it executed.
type Entry struct {
	Name  string
	Count uint64
}

// Source is the indexed counter vector kept by the interpreter, which is an
// external collaborator; this interface is the whole of this module's
// contract with it.
type Source interface {
	Counts() []Entry
}

// debugCallPrefix names are dropped from the report; they are debug-info
// bookkeeping calls rather than kernel instructions.
const debugCallPrefix = "call llvm.dbg."

// Report writes the filtered, descending-by-count summary to w. Zero counts
// and debugCallPrefix-prefixed names are dropped. Ties keep the order Counts
// returned them in (sort.SliceStable).
//
// The original formats counts under the process's current C locale, so a
// build running under a European locale gets "1.234" instead of "1,234",
// then restores the previous locale. Go has no equivalent global locale
// state, and no library in this module's retrieved corpus provides one
// (documented in DESIGN.md) — this implementation always groups with a
// comma, which is the common case and avoids depending on process-global
// mutable state for a diagnostic report.
func Report(w io.Writer, src Source, kernelName string) {
	if src == nil {
		return
	}

	entries := src.Counts()
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Count == 0 {
			continue
		}
		if strings.HasPrefix(e.Name, debugCallPrefix) {
			continue
		}
		kept = append(kept, e)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Count > kept[j].Count })

	fmt.Fprintf(w, "Instructions executed for kernel '%s':\n", kernelName)
	for _, e := range kept {
		fmt.Fprintf(w, "%16s - %s\n", groupThousands(e.Count), e.Name)
	}
	fmt.Fprintln(w)
}

func groupThousands(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	rem := len(s) % 3
	if rem > 0 {
		b.WriteString(s[:rem])
		if len(s) > rem {
			b.WriteByte(',')
		}
	}
	for i := rem; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
