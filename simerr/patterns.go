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

package simerr

// Patterns used throughout the module for Errorf/FatalErrorf. Kept as named
// constants, rather than literals, so that Is()/Has() call sites don't have
// to repeat the exact wording.
const (
	// PatternAllocateConstants is used when Kernel.AllocateConstants fails
	// during Scheduler.Run setup.
	PatternAllocateConstants = "allocating constants for kernel '%s'"

	// PatternMidRunFatal wraps a fatal error raised by WorkItem.Step() once
	// the run is already underway.
	PatternMidRunFatal = "fatal error during execution of kernel '%s'"

	// PatternInvalidLineNumber is a user-input error from the break/list
	// commands.
	PatternInvalidLineNumber = "invalid line number"

	// PatternInvalidAddress is a user-input error from the gmem/lmem/pmem
	// commands.
	PatternInvalidAddress = "invalid address"

	// PatternUnknownCommand is reported when a debugger input line's first
	// token has no registered handler.
	PatternUnknownCommand = "unrecognized command '%s'"

	// PatternWorkItemFinished is reported by the workitem command when the
	// requested global id belongs to a group that has already run to
	// completion and was torn down.
	PatternWorkItemFinished = "work-item has already finished, unable to load state"
)
