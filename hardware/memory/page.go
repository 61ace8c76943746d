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

// PageSize is the size of a single page in bytes.
const PageSize = 0x0800

// NumPages is the number of pages required to cover the 64K address space.
const NumPages = 0x10000 / PageSize

// Page of memory.
type Page struct {
	Source Source

	// the bank within the source that the page belongs to
	PageNum int

	// the backing memory of the page is at Offset in the arena
	Arena  ArenaID
	Offset int

	// offset of the page from the start of its bank
	ByteOffset int

	Writable  bool
	Contended bool

	// whether the contents of the page should be included in a snapshot
	SaveToSnapshot bool
}

func (pg Page) String() string {
	if pg.Source == SourceNone {
		return "unmapped"
	}
	s := fmt.Sprintf("%s %d+%04x", pg.Source, pg.PageNum, pg.ByteOffset)
	if pg.Writable {
		s = fmt.Sprintf("%s rw", s)
	} else {
		s = fmt.Sprintf("%s ro", s)
	}
	if pg.Contended {
		s = fmt.Sprintf("%s contended", s)
	}
	return s
}

// Pages is a series of consecutive pages.
type Pages []Page

// NewPages returns the pages for bank of count pages in the arena. In other
// words, the bank begins at bank*count*PageSize bytes into the arena. Pages
// are returned read-only and uncontended.
func NewPages(pool *Pool, src Source, arena ArenaID, bank int, count int) Pages {
	start := bank * count * PageSize
	if start+count*PageSize > len(pool.Bytes(arena)) {
		panic(fmt.Sprintf("memory: bank %d of %s does not fit in arena", bank, src))
	}

	pgs := make(Pages, count)
	for i := range pgs {
		pgs[i] = Page{
			Source:         src,
			PageNum:        bank,
			Arena:          arena,
			Offset:         start + i*PageSize,
			ByteOffset:     i * PageSize,
			SaveToSnapshot: true,
		}
	}
	return pgs
}

// Writable returns a copy of the pages with the Writable flag set as
// specified.
func (pgs Pages) Writable(writable bool) Pages {
	c := make(Pages, len(pgs))
	copy(c, pgs)
	for i := range c {
		c[i].Writable = writable
	}
	return c
}

// Contended returns a copy of the pages with the Contended flag set as
// specified.
func (pgs Pages) Contended(contended bool) Pages {
	c := make(Pages, len(pgs))
	copy(c, pgs)
	for i := range c {
		c[i].Contended = contended
	}
	return c
}
