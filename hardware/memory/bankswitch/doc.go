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

// Package bankswitch implements the memory controller shared by the DivIDE
// and DivMMC interfaces.
//
// The controller has an 8K EPROM and a power of two number of 8K RAM banks.
// When the controller is paged in it overlays the lower 16K of the address
// space: the EPROM (or RAM bank 3 in MAPRAM mode) at 0x0000 and the selected
// RAM bank at 0x2000.
//
// Paging is decided by the control register and the automap signal. The
// automap signal is raised by the CPU fetching instructions from particular
// addresses (see BeforeFetch() and AfterFetch()).
//
// The control register bits of interest are:
//
//	bit 7  CONMEM   page in unconditionally. the EPROM is writable unless
//	                write protected
//	bit 6  MAPRAM   RAM bank 3 replaces the EPROM. once set the bit can only
//	                be cleared by a hard reset
//	bits 0-5        RAM bank selected for 0x2000 to 0x3fff, masked by the
//	                number of banks
package bankswitch
