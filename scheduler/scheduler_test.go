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

package scheduler

import (
	"io"
	"testing"

	"github.com/oclgrind-go/devicecore/kernel"
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/workgroup"
	"github.com/oclgrind-go/devicecore/workitem"
)

// fakeMemory is a no-op Memory used where the scheduler only needs
// something to call Synchronize on.
type fakeMemory struct{}

func (fakeMemory) Load([]byte, uint64) error       { return nil }
func (fakeMemory) Store([]byte, uint64) error      { return nil }
func (fakeMemory) Dump(io.Writer)                  {}
func (fakeMemory) IsValid(uint64, int) bool        { return true }
func (fakeMemory) Synchronize()                    {}

type noSourceInstruction struct{}

func (noSourceInstruction) Disassemble() string { return "nop" }
func (noSourceInstruction) Line() int           { return 0 }
func (noSourceInstruction) File() string        { return "" }

// oneShotItem finishes after a single Step call, for tests that only care
// about group scheduling order, not per-item execution.
type oneShotItem struct {
	done bool
}

func (it *oneShotItem) Step() (workitem.State, error) {
	it.done = true
	return workitem.Finished, nil
}
func (it *oneShotItem) CurrentState() workitem.State {
	if it.done {
		return workitem.Finished
	}
	return workitem.Ready
}
func (it *oneShotItem) CurrentInstruction() workitem.Instruction     { return noSourceInstruction{} }
func (it *oneShotItem) CallStack() []workitem.Frame                  { return nil }
func (it *oneShotItem) GlobalID() [3]uint64                          { return [3]uint64{} }
func (it *oneShotItem) LocalID() [3]uint64                           { return [3]uint64{} }
func (it *oneShotItem) GetVariable(string) (workitem.Variable, bool) { return nil, false }
func (it *oneShotItem) PrintVariable(io.Writer, string) bool         { return false }
func (it *oneShotItem) PrivateMemory() memory.Memory                 { return fakeMemory{} }

// oneItemGroup hands out exactly one oneShotItem, then reports finished.
type oneItemGroup struct {
	id     [3]uint64
	item   *oneShotItem
	served bool
}

func (g *oneItemGroup) NextReadyItem() workitem.WorkItem {
	if g.served {
		return nil
	}
	g.served = true
	return g.item
}
func (g *oneItemGroup) HasBarrier() bool                                { return false }
func (g *oneItemGroup) ClearBarrier()                                  {}
func (g *oneItemGroup) LocalMemory() memory.Memory                     { return fakeMemory{} }
func (g *oneItemGroup) GroupID() [3]uint64                             { return g.id }
func (g *oneItemGroup) GetWorkItem(localID [3]uint64) workitem.WorkItem { return g.item }

type recordingKernel struct {
	name      string
	order     [][3]uint64
}

func (k *recordingKernel) Name() string           { return k.name }
func (k *recordingKernel) Program() kernel.Program { return nil }
func (k *recordingKernel) AllocateConstants(memory.Memory) error { return nil }
func (k *recordingKernel) DeallocateConstants(memory.Memory)     {}
func (k *recordingKernel) NewWorkGroup(dim int, c, offset, global, local [3]uint64) workgroup.WorkGroup {
	k.order = append(k.order, c)
	return &oneItemGroup{id: c, item: &oneShotItem{}}
}

type fixedBreaks struct{ forced bool }

func (f *fixedBreaks) ForceBreak() bool { return f.forced }
func (f *fixedBreaks) ClearBreak()      { f.forced = false }

func TestEnumerationOrderNonQuick(t *testing.T) {
	k := &recordingKernel{name: "vecadd"}
	s := New(fakeMemory{})
	inv := Invocation{
		Dim:          2,
		GlobalSize:   [3]uint64{4, 2, 1},
		LocalSize:    [3]uint64{2, 1, 1},
		GlobalOffset: [3]uint64{0, 0, 0},
	}

	if err := s.Run(k, inv, false, &fixedBreaks{}, nil, false, nil, io.Discard); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := [][3]uint64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	if len(k.order) != len(want) {
		t.Fatalf("scheduled %d groups, want %d: %v", len(k.order), len(want), k.order)
	}
	for i := range want {
		if k.order[i] != want[i] {
			t.Fatalf("group %d = %v, want %v (full: %v)", i, k.order[i], want[i], k.order)
		}
	}
}

func TestQuickModeSchedulesOnlyCorners(t *testing.T) {
	k := &recordingKernel{name: "vecadd"}
	s := New(fakeMemory{})
	inv := Invocation{
		Dim:        2,
		GlobalSize: [3]uint64{4, 2, 1},
		LocalSize:  [3]uint64{2, 1, 1},
	}

	if err := s.Run(k, inv, true, &fixedBreaks{}, nil, false, nil, io.Discard); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := [][3]uint64{{0, 0, 0}, {1, 1, 0}}
	if len(k.order) != len(want) {
		t.Fatalf("scheduled %d groups, want %d: %v", len(k.order), len(want), k.order)
	}
	for i := range want {
		if k.order[i] != want[i] {
			t.Fatalf("group %d = %v, want %v", i, k.order[i], want[i])
		}
	}
}

// barrierItem becomes Barrier after its first step, then Finished after its
// second, modelling all-items-hit-the-same-barrier.
type barrierItem struct {
	steps int
}

func (it *barrierItem) Step() (workitem.State, error) {
	it.steps++
	return it.CurrentState(), nil
}
func (it *barrierItem) CurrentState() workitem.State {
	switch it.steps {
	case 0:
		return workitem.Ready
	case 1:
		return workitem.Barrier
	default:
		return workitem.Finished
	}
}
func (it *barrierItem) CurrentInstruction() workitem.Instruction     { return noSourceInstruction{} }
func (it *barrierItem) CallStack() []workitem.Frame                  { return nil }
func (it *barrierItem) GlobalID() [3]uint64                          { return [3]uint64{} }
func (it *barrierItem) LocalID() [3]uint64                           { return [3]uint64{} }
func (it *barrierItem) GetVariable(string) (workitem.Variable, bool) { return nil, false }
func (it *barrierItem) PrintVariable(io.Writer, string) bool         { return false }
func (it *barrierItem) PrivateMemory() memory.Memory                 { return fakeMemory{} }

type barrierGroup struct {
	items    []*barrierItem
	idx      int
	cleared  bool
}

func (g *barrierGroup) NextReadyItem() workitem.WorkItem {
	for g.idx < len(g.items) {
		it := g.items[g.idx]
		g.idx++
		if it.CurrentState() == workitem.Ready {
			return it
		}
	}
	return nil
}
func (g *barrierGroup) HasBarrier() bool {
	for _, it := range g.items {
		if it.CurrentState() == workitem.Barrier {
			return true
		}
	}
	return false
}
func (g *barrierGroup) ClearBarrier() {
	g.cleared = true
	g.idx = 0
	for _, it := range g.items {
		if it.CurrentState() == workitem.Barrier {
			it.steps = 0
		}
	}
}
func (g *barrierGroup) LocalMemory() memory.Memory         { return fakeMemory{} }
func (g *barrierGroup) GroupID() [3]uint64                 { return [3]uint64{} }
func (g *barrierGroup) GetWorkItem([3]uint64) workitem.WorkItem { return nil }

func TestBarrierClearMakesItemsReadyAgain(t *testing.T) {
	items := []*barrierItem{{}, {}, {}, {}}
	group := &barrierGroup{items: items}

	k := &recordingKernel{name: "barrier-kernel"}
	s := New(fakeMemory{})
	s.kernel = k
	s.groups = map[groupHandle]workgroup.WorkGroup{0: group}
	s.current = 0
	s.inv = Invocation{Dim: 1, GlobalSize: [3]uint64{4, 1, 1}, LocalSize: [3]uint64{4, 1, 1}}

	// Drive every item to the barrier.
	for i := 0; i < 4; i++ {
		if !s.NextWorkItem() {
			t.Fatalf("NextWorkItem() = false before barrier, iteration %d", i)
		}
		if err := s.stepCurrent(); err != nil {
			t.Fatalf("stepCurrent: %v", err)
		}
	}

	if !group.HasBarrier() {
		t.Fatal("expected HasBarrier() true once all items reach the barrier")
	}
	if item := group.NextReadyItem(); item != nil {
		t.Fatalf("NextReadyItem() before clear = %v, want nil", item)
	}

	if !s.NextWorkItem() {
		t.Fatal("NextWorkItem() should clear the barrier and return true (P4)")
	}
	if s.currentItem == nil {
		t.Fatal("expected a current item after barrier clear")
	}
	if !group.cleared {
		t.Fatal("expected ClearBarrier to have been called")
	}
}

// addressableGroup serves work-items keyed by local id, for exercising the
// workitem-switch relocation logic.
type addressableGroup struct {
	id    [3]uint64
	items map[[3]uint64]*oneShotItem
}

func (g *addressableGroup) NextReadyItem() workitem.WorkItem { return nil }
func (g *addressableGroup) HasBarrier() bool                 { return false }
func (g *addressableGroup) ClearBarrier()                    {}
func (g *addressableGroup) LocalMemory() memory.Memory       { return fakeMemory{} }
func (g *addressableGroup) GroupID() [3]uint64                { return g.id }
func (g *addressableGroup) GetWorkItem(localID [3]uint64) workitem.WorkItem {
	return g.items[localID]
}

func TestSwitchToGlobalIDRelocatesFromPending(t *testing.T) {
	s := New(fakeMemory{})
	s.kernel = &recordingKernel{name: "k"}
	s.groups = map[groupHandle]workgroup.WorkGroup{}
	s.current = noGroup
	s.inv = Invocation{Dim: 1, GlobalSize: [3]uint64{8, 1, 1}, LocalSize: [3]uint64{4, 1, 1}}
	s.pending = [][3]uint64{{0, 0, 0}, {1, 0, 0}}

	// Replace the kernel's real NewWorkGroup-driven instantiation with one
	// that hands back an addressable group so GetWorkItem resolves.
	target := &oneShotItem{}
	s.kernel = &addressableKernel{group: &addressableGroup{
		id:    [3]uint64{1, 0, 0},
		items: map[[3]uint64]*oneShotItem{{2, 0, 0}: target},
	}}

	item, err := s.SwitchToGlobalID([3]uint64{6, 0, 0})
	if err != nil {
		t.Fatalf("SwitchToGlobalID: %v", err)
	}
	if item != target {
		t.Fatalf("got item %v, want the addressable group's local-id (2,0,0) item", item)
	}
	if s.current == noGroup {
		t.Fatal("expected a current group after relocation")
	}
	if len(s.pending) != 1 {
		t.Fatalf("pending = %v, want the (1,0,0) entry consumed", s.pending)
	}
}

func TestSwitchToGlobalIDOutOfRange(t *testing.T) {
	s := New(fakeMemory{})
	s.inv = Invocation{Dim: 1, GlobalSize: [3]uint64{8, 1, 1}, LocalSize: [3]uint64{4, 1, 1}}
	s.current = noGroup

	if _, err := s.SwitchToGlobalID([3]uint64{99, 0, 0}); err == nil {
		t.Fatal("expected an error for an out-of-range global id")
	}
}

func TestSwitchToGlobalIDFinishedGroupReportsError(t *testing.T) {
	s := New(fakeMemory{})
	s.kernel = &recordingKernel{name: "k"}
	s.groups = map[groupHandle]workgroup.WorkGroup{}
	s.current = noGroup
	s.inv = Invocation{Dim: 1, GlobalSize: [3]uint64{8, 1, 1}, LocalSize: [3]uint64{4, 1, 1}}
	s.pending = nil

	if _, err := s.SwitchToGlobalID([3]uint64{6, 0, 0}); err == nil {
		t.Fatal("expected a finished-work-item error")
	}
}

type addressableKernel struct {
	group *addressableGroup
}

func (k *addressableKernel) Name() string            { return "k" }
func (k *addressableKernel) Program() kernel.Program  { return nil }
func (k *addressableKernel) AllocateConstants(memory.Memory) error { return nil }
func (k *addressableKernel) DeallocateConstants(memory.Memory)     {}
func (k *addressableKernel) NewWorkGroup(dim int, c, offset, global, local [3]uint64) workgroup.WorkGroup {
	return k.group
}
