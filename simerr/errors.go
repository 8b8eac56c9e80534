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

import (
	"fmt"
	"strings"
)

// curated is an implementation of the go language error interface. it lets
// the rest of the module test error identity by pattern rather than by
// comparing formatted strings.
type curated struct {
	pattern string
	values  []interface{}
	fatal   bool
}

// Errorf creates a new curated error. Unlike fmt.Errorf the first argument
// is named "pattern" rather than "format" because it is also the key used
// by Is() and Has() to identify the error.
func Errorf(pattern string, values ...interface{}) error {
	return curated{pattern: pattern, values: values}
}

// FatalErrorf creates a curated error marked as fatal. A fatal error unwinds
// the current invocation of Scheduler.Run after its context has been
// reported, rather than simply requesting a debugger break.
func FatalErrorf(pattern string, values ...interface{}) error {
	return curated{pattern: pattern, values: values, fatal: true}
}

// Error returns the normalised error message: duplicate adjacent parts of
// the message chain (separated by ": ") are collapsed to one.
func (er curated) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}

	return strings.Join(p, ": ")
}

// Fatal reports whether the error was created with FatalErrorf, or wraps one
// that was.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(curated); ok {
		if er.fatal {
			return true
		}
		for _, v := range er.values {
			if e, ok := v.(curated); ok && Fatal(e) {
				return true
			}
		}
	}
	return false
}

// IsAny reports whether err is a curated error.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is reports whether err is a curated error created with the given pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(curated); ok {
		return er.pattern == pattern
	}
	return false
}

// Has reports whether err is a curated error with the given pattern
// somewhere in its chain.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if !IsAny(err) {
		return false
	}
	if Is(err, pattern) {
		return true
	}
	for _, v := range err.(curated).values {
		if e, ok := v.(curated); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}
	return false
}
