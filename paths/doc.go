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

// Package paths contains functions to prepare paths to zxbus resources.
//
// The ResourcePath() function modifies the supplied resource string such that
// it is prepended with the appropriate config directory. For example, the
// following will return the path to the DivIDE firmware image.
//
//	d := paths.ResourcePath("roms", "divide.rom")
//
// The resource directory is the value of ZXBUS_HOME if that is set. Otherwise
// it is ".zxbus" when that directory exists in the current directory, and
// "zxbus" in the user's config directory when it does not.
package paths
