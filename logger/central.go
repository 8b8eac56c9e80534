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

package logger

import (
	"fmt"
	"io"
)

// only one central log for the whole process. there's no need for more.
var central = newLogger(maxCentral)

// maximum number of entries retained by the central logger.
const maxCentral = 256

// Log adds an entry to the central logger.
func Log(tag, detail string) {
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(tag, format string, args ...interface{}) {
	central.log(tag, fmt.Sprintf(format, args...))
}

// Clear removes all entries from the central logger.
func Clear() {
	central.clear()
}

// Write writes the contents of the central logger to output. Returns false
// if there was nothing to write.
func Write(output io.Writer) bool {
	return central.write(output)
}

// Tail writes the last n entries to output.
func Tail(output io.Writer, n int) {
	central.tail(output, n)
}

// SetEcho causes every new log entry to also be written to stderr as it is
// created. Useful when running without an interactive debugger attached.
func SetEcho(echo bool) {
	central.echo = echo
}
