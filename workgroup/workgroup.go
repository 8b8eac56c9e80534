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

// Package workgroup defines the contract for a fixed collection of
// WorkItems sharing local memory and barrier synchronization. Concrete
// work-groups are constructed by an external collaborator (the
// kernel/interpreter layer) and owned exclusively by the scheduler for the
// duration of a run.
package workgroup

import (
	"github.com/oclgrind-go/devicecore/memory"
	"github.com/oclgrind-go/devicecore/workitem"
)

// WorkGroup owns a fixed set of WorkItems for one group coordinate.
type WorkGroup interface {
	// NextReadyItem round-robins the group's Ready work-items, returning
	// nil when none remain (all are at a Barrier, or Finished).
	NextReadyItem() workitem.WorkItem

	// HasBarrier reports whether any work-item in the group is currently
	// waiting at a barrier.
	HasBarrier() bool

	// ClearBarrier flips every Barrier work-item back to Ready. Called once
	// every item in the group has reached the same barrier.
	ClearBarrier()

	// LocalMemory returns the address space shared by every work-item in
	// this group.
	LocalMemory() memory.Memory

	// GroupID returns this work-group's coordinate.
	GroupID() [3]uint64

	// GetWorkItem returns the work-item at the given local id.
	GetWorkItem(localID [3]uint64) workitem.WorkItem
}
