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

// Package memory is the page table of the emulated machine's 64K address
// space.
//
// Backing memory is allocated from a Pool as arenas. A Page refers to a
// PageSize region of an arena by ArenaID and offset; pages never own memory.
// The Map holds one read page and one write page for every PageSize slot of
// the address space.
//
// The machine installs its normal ROM and RAM banks with MapHome(). A
// peripheral that asserts the ROMCS signal installs its own pages over a
// window of the address space with Overlay(). The window is returned to the
// home pages with Restore() or RestoreAll().
//
// Each page carries its own Writable and Contended flags so a single overlay
// can mix read-only and writable halves.
package memory
