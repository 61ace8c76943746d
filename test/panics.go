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

import "testing"

// ExpectPanic runs the function and checks that it panics. Useful for testing
// that programming constraints are enforced
func ExpectPanic(t *testing.T, f func(), tags ...any) bool {
	t.Helper()

	panicked := func() (p bool) {
		defer func() {
			if r := recover(); r != nil {
				p = true
			}
		}()
		f()
		return false
	}()

	if !panicked {
		t.Errorf("%sexpected panic did not happen", id(tags...))
		return false
	}
	return true
}
