// This file is part of Zxbus.
//
// Zxbus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zxbus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zxbus.  If not, see <https://www.gnu.org/licenses/>.

package test

import (
	"strings"
	"sync"
)

// Writer collects everything written to it so that output can be compared
// with an expected string. It is safe to write to from more than one
// goroutine, which is useful when it is used as a log echo.
type Writer struct {
	crit sync.Mutex
	b    strings.Builder
}

// Write implements the io.Writer interface.
func (tw *Writer) Write(p []byte) (int, error) {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	return tw.b.Write(p)
}

// Clear forgets everything written so far.
func (tw *Writer) Clear() {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	tw.b.Reset()
}

// Compare returns true if the output so far is exactly s.
func (tw *Writer) Compare(s string) bool {
	return tw.String() == s
}

// String returns the output so far.
func (tw *Writer) String() string {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	return tw.b.String()
}
