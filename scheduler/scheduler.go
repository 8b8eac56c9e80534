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

// Package scheduler drives WorkGroups through a pending->running->done
// lifecycle and selects the current work-item each tick. It is the arena
// that owns every live WorkGroup for the duration of a run: group and item
// pointers are arena-owned values rather than raw pointers.
package scheduler

import (
	"fmt"
	"io"

	"github.com/oclgrind-go/devicecore/coord"
	"github.com/oclgrind-go/devicecore/instcount"
	"github.com/oclgrind-go/devicecore/kernel"
	"github.com/oclgrind-go/devicecore/logger"
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/simerr"
	"github.com/oclgrind-go/devicecore/workgroup"
	"github.com/oclgrind-go/devicecore/workitem"
)

// groupHandle is an arena index into Scheduler.groups, standing in for a
// raw WorkGroup pointer. noGroup marks "no current group".
type groupHandle int

const noGroup groupHandle = -1

// BreakSignal is the force_break flag. The error router implements this;
// Scheduler only depends on the two methods it needs, keeping the two
// packages from importing one another.
type BreakSignal interface {
	ForceBreak() bool
	ClearBreak()
}

// BreakpointHook lets the debugger front-end fire a breakpoint without the
// scheduler knowing anything about Program identity or the breakpoint map.
// During Continue it is consulted with the current item's line after every
// instruction that leaves the item Ready, and returns whether a breakpoint
// fired on that line.
type BreakpointHook func(line int) bool

// Invocation is the immutable-during-a-run descriptor.
type Invocation struct {
	Dim                                 int
	GlobalOffset, GlobalSize, LocalSize [3]uint64
}

// normalize fills dimensions beyond Dim with fixed values: local/global
// size 1, offset 0.
func (inv Invocation) normalize() Invocation {
	out := inv
	for i := inv.Dim; i < 3; i++ {
		out.GlobalOffset[i] = 0
		out.GlobalSize[i] = 1
		out.LocalSize[i] = 1
	}
	return out
}

func (inv Invocation) numGroups() coord.Size {
	var n coord.Size
	for i := 0; i < 3; i++ {
		n[i] = inv.GlobalSize[i] / inv.LocalSize[i]
	}
	return n
}

// Scheduler is the single-threaded cooperative scheduler. Its state exists
// only for the duration of one Run.
type Scheduler struct {
	globalMemory memory.Memory

	kernel kernel.Kernel
	inv    Invocation
	quick  bool

	groups    map[groupHandle]workgroup.WorkGroup
	nextGroup groupHandle

	current     groupHandle
	currentItem workitem.WorkItem

	running []groupHandle
	pending [][3]uint64

	instantiations int
}

// New constructs a Scheduler over the given global memory object, which it
// owns exclusively for the lifetime of any run.
func New(globalMemory memory.Memory) *Scheduler {
	return &Scheduler{globalMemory: globalMemory}
}

// CurrentWorkItem, CurrentGroup and KernelName satisfy
// errorrouter.ContextProvider without this package importing errorrouter.
func (s *Scheduler) CurrentWorkItem() (workitem.WorkItem, bool) {
	if s.currentItem == nil {
		return nil, false
	}
	return s.currentItem, true
}

func (s *Scheduler) CurrentGroup() (workgroup.WorkGroup, bool) {
	if s.current == noGroup {
		return nil, false
	}
	return s.groups[s.current], true
}

func (s *Scheduler) KernelName() string {
	if s.kernel == nil {
		return ""
	}
	return s.kernel.Name()
}

// Program returns the current kernel's Program, for the debugger's
// Program-identity-keyed breakpoint map and its `list` command's source
// text.
func (s *Scheduler) Program() kernel.Program {
	if s.kernel == nil {
		return nil
	}
	return s.kernel.Program()
}

// GlobalMemory returns the global address space the scheduler owns for the
// duration of the run, for the debugger's gmem/print commands.
func (s *Scheduler) GlobalMemory() memory.Memory { return s.globalMemory }

// GlobalSize and NumGroups expose the invocation's sizes for callers (the
// debugger's workitem command, the error router's SetSizes) that need them
// outside of Run itself.
func (s *Scheduler) GlobalSize() coord.Size   { return coord.Size(s.inv.GlobalSize) }
func (s *Scheduler) GlobalOffset() coord.Size { return coord.Size(s.inv.GlobalOffset) }
func (s *Scheduler) LocalSize() coord.Size    { return coord.Size(s.inv.LocalSize) }
func (s *Scheduler) NumGroups() coord.Size    { return s.inv.numGroups() }

// Run executes kernel to completion or to interactive termination. counts
// may be nil; when non-nil and showInstCounts is true, its report is
// written to diag after teardown.
func (s *Scheduler) Run(k kernel.Kernel, inv Invocation, quick bool, breaks BreakSignal, interactive func(*Scheduler) error, showInstCounts bool, counts instcount.Source, diag io.Writer) error {
	s.kernel = k
	s.inv = inv.normalize()
	s.quick = quick
	s.groups = make(map[groupHandle]workgroup.WorkGroup)
	s.nextGroup = 0
	s.current = noGroup
	s.currentItem = nil
	s.running = nil
	s.pending = nil
	s.instantiations = 0

	s.globalMemory.Synchronize()

	if err := k.AllocateConstants(s.globalMemory); err != nil {
		err = simerr.FatalErrorf(simerr.PatternAllocateConstants, k.Name())
		fmt.Fprintf(diag, "OCLGRIND FATAL ERROR\n%s\nWhen allocating kernel constants for '%s'\n", err, k.Name())
		return err
	}

	s.enumerateGroups()
	s.NextWorkItem()

	var runErr error
	if interactive != nil {
		runErr = interactive(s)
	} else {
		runErr = s.Continue(breaks, nil)
	}

	s.teardown(diag)

	if showInstCounts {
		instcount.Report(diag, counts, s.KernelName())
	}

	return runErr
}

func (s *Scheduler) enumerateGroups() {
	n := s.inv.numGroups()

	if s.quick {
		s.pending = append(s.pending,
			[3]uint64{0, 0, 0},
			[3]uint64{n[0] - 1, n[1] - 1, n[2] - 1},
		)
		return
	}

	for z := uint64(0); z < n[2]; z++ {
		for y := uint64(0); y < n[1]; y++ {
			for x := uint64(0); x < n[0]; x++ {
				s.pending = append(s.pending, [3]uint64{x, y, z})
			}
		}
	}
}

func (s *Scheduler) teardown(diag io.Writer) {
	for _, h := range s.running {
		logger.Logf("scheduler", "destroying work-group %v (teardown)", s.groups[h].GroupID())
		delete(s.groups, h)
	}
	s.running = nil

	if s.current != noGroup {
		logger.Logf("scheduler", "destroying work-group %v (teardown)", s.groups[s.current].GroupID())
		delete(s.groups, s.current)
		s.current = noGroup
	}

	s.kernel.DeallocateConstants(s.globalMemory)
	s.globalMemory.Synchronize()
}

// NextWorkItem advances the scheduling cursor to the next ready work-item,
// clearing a group's barrier and retiring finished groups along the way. It
// returns whether a new current item is now available.
func (s *Scheduler) NextWorkItem() bool {
	s.currentItem = nil

	if s.current != noGroup {
		g := s.groups[s.current]

		if item := g.NextReadyItem(); item != nil {
			s.currentItem = item
			return true
		}

		if g.HasBarrier() {
			g.ClearBarrier()
			// Must succeed: every item just became Ready together.
			s.currentItem = g.NextReadyItem()
			return true
		}

		logger.Logf("scheduler", "destroying work-group %v", g.GroupID())
		delete(s.groups, s.current)
		s.current = noGroup
	}

	if len(s.running) > 0 {
		s.current = s.running[0]
		s.running = s.running[1:]
	} else if len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		if s.quick && s.instantiations > 0 && s.inv.numGroups() == (coord.Size{1, 1, 1}) {
			// Both quick-mode corners are the single group, which has
			// already been scheduled: the second dequeue is a no-op.
			return s.NextWorkItem()
		}
		s.current = s.instantiate(next)
	} else {
		return false
	}

	g := s.groups[s.current]
	if item := g.NextReadyItem(); item != nil {
		s.currentItem = item
		return true
	}

	// The freshly created group was vacuous; skip and continue.
	return s.NextWorkItem()
}

func (s *Scheduler) instantiate(coordinate [3]uint64) groupHandle {
	g := s.kernel.NewWorkGroup(s.inv.Dim, coordinate, s.inv.GlobalOffset, s.inv.GlobalSize, s.inv.LocalSize)

	h := s.nextGroup
	s.nextGroup++
	s.groups[h] = g
	s.instantiations++

	logger.Logf("scheduler", "instantiated work-group %v", coordinate)
	return h
}

// Instantiations reports how many distinct (gx,gy,gz) groups have been
// created so far this run.
func (s *Scheduler) Instantiations() int { return s.instantiations }

// stepCurrent advances the current item by one low-level instruction. A
// fatal error (simerr.Fatal) unwinds the caller; anything else the
// interpreter reports through the error router out of band, not through
// this return value.
func (s *Scheduler) stepCurrent() error {
	_, err := s.currentItem.Step()
	if err == nil {
		return nil
	}
	if !simerr.Fatal(err) {
		err = simerr.FatalErrorf(simerr.PatternMidRunFatal, s.KernelName())
	}
	return err
}

// Continue free-runs the scheduler until force_break, a breakpoint fires,
// or the run completes. onLine may be nil (non-interactive drain); its
// latch (refusing to re-fire on the same line) lives entirely in this
// call's local state, so a fresh Continue always resets it.
func (s *Scheduler) Continue(breaks BreakSignal, onLine BreakpointHook) error {
	breaks.ClearBreak()
	lastBreakLine := -1

	for {
		if s.currentItem == nil {
			return nil
		}
		if s.currentItem.CurrentState() != workitem.Ready {
			if !s.NextWorkItem() {
				return nil
			}
			continue
		}

		if err := s.stepCurrent(); err != nil {
			return err
		}

		if breaks.ForceBreak() {
			return nil
		}

		if s.currentItem != nil && s.currentItem.CurrentState() == workitem.Ready {
			line := s.currentItem.CurrentInstruction().Line()
			if onLine != nil && line != lastBreakLine {
				if onLine(line) {
					lastBreakLine = line
					return nil
				}
			}
		} else if !s.NextWorkItem() {
			return nil
		}
	}
}

// SwitchToGlobalID relocates the scheduler's current cursor to the
// work-item at the given global id. It validates each component against
// global_size, then locates the owning
// group: current, then running (displacing the previous current to the
// running tail), then pending (instantiating it). Returns
// simerr.PatternWorkItemFinished if the group is nowhere to be found.
func (s *Scheduler) SwitchToGlobalID(globalID [3]uint64) (workitem.WorkItem, error) {
	for i := 0; i < 3; i++ {
		if globalID[i] >= s.inv.GlobalSize[i] {
			return nil, simerr.Errorf("global id component %d (%d) out of range", i, globalID[i])
		}
	}

	var target [3]uint64
	for i := 0; i < 3; i++ {
		target[i] = globalID[i] / s.inv.LocalSize[i]
	}

	if s.current != noGroup && s.groups[s.current].GroupID() == target {
		return s.workItemAt(s.current, globalID), nil
	}

	for idx, h := range s.running {
		if s.groups[h].GroupID() == target {
			s.running = append(s.running[:idx], s.running[idx+1:]...)
			s.displaceCurrent()
			s.current = h
			return s.workItemAt(s.current, globalID), nil
		}
	}

	for idx, c := range s.pending {
		if c == target {
			s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
			h := s.instantiate(c)
			s.displaceCurrent()
			s.current = h
			return s.workItemAt(s.current, globalID), nil
		}
	}

	return nil, simerr.Errorf(simerr.PatternWorkItemFinished)
}

// displaceCurrent stashes the current group at the tail of the running set
// as an arena handle move, leaving current unset.
func (s *Scheduler) displaceCurrent() {
	if s.current != noGroup {
		s.running = append(s.running, s.current)
	}
	s.current = noGroup
}

func (s *Scheduler) workItemAt(h groupHandle, globalID [3]uint64) workitem.WorkItem {
	var localID [3]uint64
	for i := 0; i < 3; i++ {
		localID[i] = globalID[i] % s.inv.LocalSize[i]
	}
	item := s.groups[h].GetWorkItem(localID)
	s.currentItem = item
	return item
}

// StepLine steps the current item by low-level instructions until a new
// source line is reached, or the item leaves Ready. Source-less kernels
// step one instruction at a time. A current item that is not Ready (at a
// barrier, or already finished) is left untouched: it is the caller's job
// to report why, matching Device.cpp's step() early return.
func (s *Scheduler) StepLine() error {
	if s.currentItem == nil || s.currentItem.CurrentState() != workitem.Ready {
		return nil
	}

	hasSource := s.currentItem.CurrentInstruction() != nil && s.currentItem.CurrentInstruction().File() != ""
	previousLine := 0
	if hasSource {
		previousLine = s.currentItem.CurrentInstruction().Line()
	}

	for {
		if err := s.stepCurrent(); err != nil {
			return err
		}
		if s.currentItem == nil || s.currentItem.CurrentState() != workitem.Ready {
			return nil
		}
		if !hasSource {
			return nil
		}
		line := s.currentItem.CurrentInstruction().Line()
		if line != previousLine && line != 0 {
			return nil
		}
	}
}
