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

// Package periph is the registry of peripherals attached to the machine and
// the dispatcher of the CPU's I/O port reads and writes.
//
// A peripheral is registered with a Descriptor listing the port rules it
// responds to. A rule matches a port address when:
//
//	port & rule.Mask == rule.Value
//
// Reads are passed to every matching rule of every active peripheral and the
// results are combined with a bitwise AND. Data lines that no responder
// claims take their value from the floating bus. Writes are broadcast to
// every matching rule of every active peripheral. In both cases peripherals
// are visited in registration order.
//
// Whether a peripheral can be active is decided by its Presence for the
// current machine. An Optional peripheral is active when its configuration
// flag is set.
package periph
