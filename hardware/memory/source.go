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

package memory

import "sync"

// Source identifies the origin of a page of memory. For example, the
// machine's ROM, the machine's RAM or a peripheral's EPROM.
type Source int

// names of every registered source. the table only grows and a name always
// maps to the same Source, so it is shared by every emulation in the process
// rather than owned by a Pool
var sources struct {
	crit  sync.Mutex
	names []string
}

// List of sources that are always registered.
var (
	SourceNone = RegisterSource("None")
	SourceROM  = RegisterSource("ROM")
	SourceRAM  = RegisterSource("RAM")
)

// RegisterSource returns the Source for the name, registering it if it has
// not been seen before. Sources are shared by every emulation in the process.
func RegisterSource(name string) Source {
	sources.crit.Lock()
	defer sources.crit.Unlock()

	for i, n := range sources.names {
		if n == name {
			return Source(i)
		}
	}
	sources.names = append(sources.names, name)
	return Source(len(sources.names) - 1)
}

func (s Source) String() string {
	sources.crit.Lock()
	defer sources.crit.Unlock()

	if s < 0 || int(s) >= len(sources.names) {
		return "Unknown"
	}
	return sources.names[s]
}
