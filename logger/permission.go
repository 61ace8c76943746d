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

package logger

// Permission indicates whether the caller of Log() or Logf() may create new
// log entries. The emulation environment implements it so that secondary
// emulations, such as those used for previews or tests, stay quiet.
type Permission interface {
	AllowLogging() bool
}

// PermissionFunc adapts a function to the Permission interface.
type PermissionFunc func() bool

// AllowLogging implements the Permission interface.
func (f PermissionFunc) AllowLogging() bool {
	return f()
}

type fixed bool

func (p fixed) AllowLogging() bool {
	return bool(p)
}

// Allow permits every logging request.
var Allow Permission = fixed(true)

// Deny refuses every logging request.
var Deny Permission = fixed(false)
