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

// Command devicecore is a thin demonstration entry point. The command-line
// front end, the kernel compiler, and the instruction-level interpreter are
// all external collaborators that this module deliberately does not
// implement; a real driver program supplies a kernel.Kernel and its
// WorkItem/WorkGroup backing and calls scheduler.Scheduler.Run directly.
//
// This file only shows how the pieces wire together: the three environment
// switches, a plain terminal, an error router, and a debugger bound to a
// scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/oclgrind-go/devicecore/debugger"
	"github.com/oclgrind-go/devicecore/debugger/terminal/plainterm"
	"github.com/oclgrind-go/devicecore/errorrouter"
	"github.com/oclgrind-go/devicecore/logger"
	"github.com/oclgrind-go/devicecore/scheduler"
)

// modes holds the three environment-variable switches.
type modes struct {
	instCounts  bool
	interactive bool
	quick       bool
}

func modesFromEnv() modes {
	on := func(name string) bool { return os.Getenv(name) == "1" }
	return modes{
		instCounts:  on("OCLGRIND_INST_COUNTS"),
		interactive: on("OCLGRIND_INTERACTIVE"),
		quick:       on("OCLGRIND_QUICK"),
	}
}

func main() {
	m := modesFromEnv()

	term := plainterm.NewStdTerminal()
	if err := term.Initialise(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer term.CleanUp()

	sched := scheduler.New(nil)
	router := errorrouter.New(sched, os.Stderr)
	dbg := debugger.New(term, router, nil)

	logger.Logf("main", "modes: inst_counts=%v interactive=%v quick=%v", m.instCounts, m.interactive, m.quick)

	fmt.Fprintln(os.Stdout, "devicecore: no kernel supplied; nothing to run.")
	fmt.Fprintln(os.Stdout, "link a kernel.Kernel implementation and call scheduler.Scheduler.Run.")
	_ = dbg
}
