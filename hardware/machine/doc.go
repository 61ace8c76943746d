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

// Package machine is the emulated ZX Spectrum: the home memory map of the
// selected model and the wiring between the CPU's memory and I/O accesses and
// the attached peripherals.
//
// Peripherals register themselves with the machine's peripheral registry
// (port decoding) and module registry (reset, ROMCS and snapshot hooks). A
// peripheral that needs to overlay memory asserts the ROMCS signal with
// AssertROMCS(). While the signal is asserted by any owner, every rebuild of
// the memory map is followed by a ROMCS() broadcast so that each owner can
// reinstall its overlay.
//
// The CPU core (which is not part of this package) accesses memory with
// Read(), Write() and Fetch() and the I/O ports with In() and Out().
package machine
