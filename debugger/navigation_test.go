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
	"io"
	"strings"
	"testing"

	"github.com/oclgrind-go/devicecore/debugger/terminal"
	"github.com/oclgrind-go/devicecore/kernel"
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/scheduler"
	"github.com/oclgrind-go/devicecore/workgroup"
	"github.com/oclgrind-go/devicecore/workitem"
)

// fakeMemory is a trivial Memory that always reports addr 0..size as valid
// and returns zeroed bytes, enough to exercise the debugger's formatting.
type fakeMemory struct{ dumped bool }

func (m *fakeMemory) Load(dst []byte, addr uint64) error  { return nil }
func (m *fakeMemory) Store(src []byte, addr uint64) error { return nil }
func (m *fakeMemory) Dump(w io.Writer)                    { m.dumped = true; io.WriteString(w, "dump\n") }
func (m *fakeMemory) IsValid(addr uint64, size int) bool  { return addr%4 == 0 }
func (m *fakeMemory) Synchronize()                        {}

type fakeInstr struct {
	line int
	file string
}

func (f fakeInstr) Disassemble() string { return "nop" }
func (f fakeInstr) Line() int           { return f.line }
func (f fakeInstr) File() string        { return f.file }

type navItem struct {
	line   int
	frames []workitem.Frame
	state  workitem.State
	global [3]uint64
}

func (it *navItem) Step() (workitem.State, error) {
	it.line++
	if it.line > 3 {
		it.state = workitem.Finished
	}
	return it.state, nil
}
func (it *navItem) CurrentState() workitem.State { return it.state }
func (it *navItem) CurrentInstruction() workitem.Instruction {
	return fakeInstr{line: it.line, file: "kernel.cl"}
}
func (it *navItem) CallStack() []workitem.Frame                  { return it.frames }
func (it *navItem) GlobalID() [3]uint64                          { return it.global }
func (it *navItem) LocalID() [3]uint64                           { return [3]uint64{} }
func (it *navItem) GetVariable(string) (workitem.Variable, bool) { return nil, false }
func (it *navItem) PrintVariable(io.Writer, string) bool         { return false }
func (it *navItem) PrivateMemory() memory.Memory                 { return &fakeMemory{} }

type navGroup struct {
	item   *navItem
	served bool
	local  memory.Memory
}

func (g *navGroup) NextReadyItem() workitem.WorkItem {
	if g.served || g.item.CurrentState() != workitem.Ready {
		return nil
	}
	g.served = true
	return g.item
}
func (g *navGroup) HasBarrier() bool                                { return false }
func (g *navGroup) ClearBarrier()                                   {}
func (g *navGroup) LocalMemory() memory.Memory                      { return g.local }
func (g *navGroup) GroupID() [3]uint64                              { return [3]uint64{} }
func (g *navGroup) GetWorkItem(localID [3]uint64) workitem.WorkItem { return g.item }

type navProgram struct{ src string }

func (p navProgram) ID() string     { return "prog-1" }
func (p navProgram) Source() string { return p.src }

type navKernel struct {
	program navProgram
	group   *navGroup
}

func (k *navKernel) Name() string                          { return "vecadd" }
func (k *navKernel) Program() kernel.Program               { return k.program }
func (k *navKernel) AllocateConstants(memory.Memory) error { return nil }
func (k *navKernel) DeallocateConstants(memory.Memory)     {}
func (k *navKernel) NewWorkGroup(dim int, c, offset, global, local [3]uint64) workgroup.WorkGroup {
	return k.group
}

// newTestDebugger builds a Debugger whose scheduler has already primed a
// single current work-item, by driving a real scheduler.Scheduler through
// Run with an interactive callback that just captures it.
func newTestDebugger(t *testing.T, src string) *Debugger {
	t.Helper()

	item := &navItem{state: workitem.Ready}
	group := &navGroup{item: item, local: &fakeMemory{}}
	k := &navKernel{program: navProgram{src: src}, group: group}

	d := New(nil, &fixedBreaks{}, nil)

	sched := scheduler.New(&fakeMemory{})
	inv := scheduler.Invocation{
		Dim:        1,
		GlobalSize: [3]uint64{1, 1, 1},
		LocalSize:  [3]uint64{1, 1, 1},
	}

	interactive := func(s *scheduler.Scheduler) error {
		d.sched = s
		return nil
	}

	if err := sched.Run(k, inv, false, &fixedBreaks{}, interactive, false, nil, io.Discard); err != nil {
		t.Fatalf("Run: %v", err)
	}

	return d
}

func TestCmdListNoSourceReportsError(t *testing.T) {
	d := newTestDebugger(t, "")
	var captured []string
	d.term = capturingTerm{&captured}

	if err := cmdList(d, nil); err != nil {
		t.Fatalf("cmdList: %v", err)
	}
	if len(captured) != 1 || !strings.Contains(captured[0], "No source available") {
		t.Fatalf("got %v, want a single 'No source available' line", captured)
	}
}

func TestCmdListNumericArgSetsListPosition(t *testing.T) {
	src := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\n"
	d := newTestDebugger(t, src)
	var captured []string
	d.term = capturingTerm{&captured}

	if err := cmdList(d, []string{"5"}); err != nil {
		t.Fatalf("cmdList: %v", err)
	}
	if len(captured) == 0 {
		t.Fatal("expected listed source lines")
	}
	if d.listPosition == 0 {
		t.Fatal("expected list_position to be set after a successful list")
	}
}

// capturingTerm is a terminal.Terminal that records every printed line and
// never actually reads input.
type capturingTerm struct{ lines *[]string }

func (c capturingTerm) TermRead(prompt string) (string, error) { return "", io.EOF }
func (c capturingTerm) TermPrintLine(style terminal.Style, s string) {
	*c.lines = append(*c.lines, s)
}
func (c capturingTerm) Initialise() error   { return nil }
func (c capturingTerm) CleanUp()            {}
func (c capturingTerm) IsInteractive() bool { return false }
