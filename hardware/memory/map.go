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

import (
	"fmt"
	"strings"
)

// Quantum is the size of a mapping window in bytes.
type Quantum int

// List of valid Quantum values.
const (
	Window2K  Quantum = 0x0800
	Window4K  Quantum = 0x1000
	Window8K  Quantum = 0x2000
	Window16K Quantum = 0x4000
)

func (q Quantum) String() string {
	return fmt.Sprintf("%dK", int(q)/1024)
}

// pages returns the number of pages required to fill a window of the quantum
func (q Quantum) pages() int {
	return int(q) / PageSize
}

// Map is the page table for the 64K address space.
type Map struct {
	pool *Pool

	read  [NumPages]Page
	write [NumPages]Page

	// the pages installed by MapHome(). Restore() copies from here
	home [NumPages]Page
}

// NewMap is the preferred method of initialisation for the Map type. Every
// slot is initially unmapped.
func NewMap(pool *Pool) *Map {
	return &Map{pool: pool}
}

// checkWindow panics if the window is not aligned to its quantum or if the
// wrong number of pages has been supplied
func checkWindow(addr uint16, q Quantum, n int) {
	switch q {
	case Window2K, Window4K, Window8K, Window16K:
	default:
		panic(fmt.Sprintf("memory: illegal window quantum (%d)", int(q)))
	}
	if int(addr)%int(q) != 0 {
		panic(fmt.Sprintf("memory: %s window at %04x is not aligned", q, addr))
	}
	if n != q.pages() {
		panic(fmt.Sprintf("memory: %s window requires %d pages (not %d)", q, q.pages(), n))
	}
}

// MapHome installs the pages as the home mapping beginning at addr. The
// installed pages are also made live. The address must be page aligned.
func (m *Map) MapHome(addr uint16, pages []Page) {
	if int(addr)%PageSize != 0 {
		panic(fmt.Sprintf("memory: home mapping at %04x is not page aligned", addr))
	}
	slot := int(addr) / PageSize
	if slot+len(pages) > NumPages {
		panic(fmt.Sprintf("memory: home mapping at %04x overflows address space", addr))
	}
	for i, pg := range pages {
		m.home[slot+i] = pg
		m.read[slot+i] = pg
		m.write[slot+i] = pg
	}
}

// Overlay installs the pages over a window of the address space. The window
// is returned to the home mapping by Restore() or RestoreAll().
func (m *Map) Overlay(addr uint16, q Quantum, pages []Page) {
	checkWindow(addr, q, len(pages))
	slot := int(addr) / PageSize
	for i, pg := range pages {
		m.read[slot+i] = pg
		m.write[slot+i] = pg
	}
}

// Restore the home mapping for a window of the address space.
func (m *Map) Restore(addr uint16, q Quantum) {
	checkWindow(addr, q, q.pages())
	slot := int(addr) / PageSize
	for i := 0; i < q.pages(); i++ {
		m.read[slot+i] = m.home[slot+i]
		m.write[slot+i] = m.home[slot+i]
	}
}

// RestoreAll restores the home mapping for the entire address space.
func (m *Map) RestoreAll() {
	m.read = m.home
	m.write = m.home
}

// Read returns the byte at the address. An unmapped address reads as 0xff.
func (m *Map) Read(addr uint16) uint8 {
	pg := &m.read[addr/PageSize]
	if pg.Source == SourceNone {
		return 0xff
	}
	return m.pool.Bytes(pg.Arena)[pg.Offset+int(addr%PageSize)]
}

// Write the byte to the address. The write is dropped if the page is not
// writable.
func (m *Map) Write(addr uint16, data uint8) {
	pg := &m.write[addr/PageSize]
	if !pg.Writable || pg.Source == SourceNone {
		return
	}
	m.pool.Bytes(pg.Arena)[pg.Offset+int(addr%PageSize)] = data
}

// ReadPage returns the page used for reading the address.
func (m *Map) ReadPage(addr uint16) Page {
	return m.read[addr/PageSize]
}

// WritePage returns the page used for writing to the address.
func (m *Map) WritePage(addr uint16) Page {
	return m.write[addr/PageSize]
}

// Contended returns true if access to the address is subject to memory
// contention.
func (m *Map) Contended(addr uint16) bool {
	return m.read[addr/PageSize].Contended
}

// Summary of the live read mapping. Consecutive slots from the same source
// bank with the same flags are collapsed into a single line.
func (m *Map) Summary() string {
	s := strings.Builder{}

	same := func(a, b Page) bool {
		return a.Source == b.Source && a.PageNum == b.PageNum && a.Writable == b.Writable && a.Contended == b.Contended
	}

	start := 0
	for i := 1; i <= NumPages; i++ {
		if i < NumPages && same(m.read[start], m.read[i]) {
			continue // for loop
		}
		pg := m.read[start]
		s.WriteString(fmt.Sprintf("%04x -> %04x\t%s\n", start*PageSize, i*PageSize-1, pg))
		start = i
	}

	return s.String()
}
