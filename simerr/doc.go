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

// Package simerr is a helper package for the plain Go error type, used for
// every error value that crosses a package boundary inside this module.
//
// Curated errors are created with Errorf(), or FatalErrorf() for the
// "invocation fatal" kind that unwinds a run. The Is() and Has() functions
// let callers test error identity by pattern instead of comparing formatted
// strings:
//
//	err := Errorf(PatternInvalidAddress)
//	if Is(err, PatternInvalidAddress) {
//		...
//	}
//
// Has() is the same but also matches if the pattern occurs anywhere in a
// chain of wrapped curated errors. Error() normalises the message so that
// wrapping a curated error inside another with the same leading part does
// not duplicate it.
package simerr
