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

package paths

import (
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// UniqueFilename returns a name for a generated file, such as a memory map
// dump, built from the prefix, the machine name and the current time:
//
//	prefix_machine_YYYYMMDD_HHMMSS
//
// The machine part is omitted if it is blank and any spaces in it are
// replaced with hyphens. The name is unique only as long as no two files with
// the same prefix are created in the same second. Existing files are not
// checked.
func UniqueFilename(prefix string, machine string) string {
	parts := []string{prefix}
	if m := strings.Join(strings.Fields(machine), "-"); m != "" {
		parts = append(parts, m)
	}
	parts = append(parts, time.Now().Format(timestampLayout))
	return strings.Join(parts, "_")
}
