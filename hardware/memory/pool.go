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

import "fmt"

// ArenaID identifies an allocation in the Pool.
type ArenaID int

type arena struct {
	data       []uint8
	persistent bool
}

// Pool owns all backing memory used by the page table.
type Pool struct {
	arenas []arena
}

// NewPool is the preferred method of initialisation for the Pool type.
func NewPool() *Pool {
	return &Pool{}
}

// Allocate a new arena of size bytes. Persistent arenas survive a call to
// Clear(). The arena is zero filled.
func (p *Pool) Allocate(size int, persistent bool) ArenaID {
	if size <= 0 {
		panic(fmt.Sprintf("memory: illegal arena size (%d)", size))
	}
	p.arenas = append(p.arenas, arena{
		data:       make([]uint8, size),
		persistent: persistent,
	})
	return ArenaID(len(p.arenas) - 1)
}

// Bytes returns the backing memory for the arena. Using an arena that has
// been released by Clear() will cause a panic.
func (p *Pool) Bytes(id ArenaID) []uint8 {
	if id < 0 || int(id) >= len(p.arenas) || p.arenas[id].data == nil {
		panic(fmt.Sprintf("memory: unallocated arena (%d)", id))
	}
	return p.arenas[id].data
}

// Persistent returns true if the arena survives a call to Clear().
func (p *Pool) Persistent(id ArenaID) bool {
	return p.arenas[id].persistent
}

// Clear releases all non-persistent arenas. Used when the machine is changed.
// ArenaID values are never reused.
func (p *Pool) Clear() {
	for i := range p.arenas {
		if !p.arenas[i].persistent {
			p.arenas[i].data = nil
		}
	}
}

// Size returns the total number of bytes currently allocated.
func (p *Pool) Size() int {
	var n int
	for _, a := range p.arenas {
		n += len(a.data)
	}
	return n
}
