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

// Package ula implements the keyboard and border port of the ULA.
package ula

import (
	"fmt"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/snapshot"
)

// the number of keyboard half-rows and the keys in each half-row
const (
	Rows    = 8
	Columns = 5
)

// data lines driven by the ULA on a port read. bits 5 and 7 are not
// connected
const (
	keyLines = 0x1f
	earLine  = 0x40
	attached = keyLines | earLine
)

// bits of a port write
const (
	borderBits = 0x07
	outputBits = 0x18
)

// ULA is the keyboard and border port of the machine.
type ULA struct {
	m *machine.Machine

	// one bit for each key held down in the half-row
	keys [Rows]uint8

	border uint8
	output uint8
}

// NewULA is the preferred method of initialisation for the ULA type. The
// ULA is registered with the machine.
func NewULA(m *machine.Machine) *ULA {
	u := &ULA{m: m}
	m.Peripherals().Register(periph.ULA, periph.Descriptor{
		Ports: []periph.PortRule{
			{Mask: 0x0001, Value: 0x0000, Read: u.read, Write: u.write},
		},
	})
	m.Modules().Register(u)
	return u
}

func (u *ULA) String() string {
	return fmt.Sprintf("ULA: border=%d output=%02x", u.border, u.output)
}

// Label implements the module.Labeller interface.
func (u *ULA) Label() string {
	return "ULA"
}

// KeyDown presses or releases the key. An out of range key will cause a
// panic.
func (u *ULA) KeyDown(row int, col int, down bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		panic(fmt.Sprintf("ula: no key at row %d column %d", row, col))
	}
	if down {
		u.keys[row] |= 1 << col
	} else {
		u.keys[row] &^= 1 << col
	}
}

// Border returns the border colour.
func (u *ULA) Border() uint8 {
	return u.border
}

// Output returns the MIC and beeper bits of the last port write.
func (u *ULA) Output() uint8 {
	return u.output
}

// each zero bit of the address high byte selects a half-row. keys held down
// in any selected half-row pull their data line low
func (u *ULA) read(port uint16) (uint8, uint8) {
	sel := uint8(port >> 8)
	data := uint8(0xff)
	for r := 0; r < Rows; r++ {
		if sel&(1<<r) == 0 {
			data &^= u.keys[r]
		}
	}
	return data, attached
}

func (u *ULA) write(_ uint16, data uint8) {
	u.border = data & borderBits
	u.output = data & outputBits
}

// Reset implements the module.Resetter interface. Keys are released on both
// hard and soft resets.
func (u *ULA) Reset(hard bool) {
	u.keys = [Rows]uint8{}
	if hard {
		u.border = 0
		u.output = 0
	}
}

// SnapshotTo implements the module.SnapshotSaver interface.
func (u *ULA) SnapshotTo(s *snapshot.Snapshot) {
	s.ULA = &snapshot.ULA{
		Border: u.border,
		Output: u.output,
	}
}

// SnapshotFrom implements the module.SnapshotLoader interface.
func (u *ULA) SnapshotFrom(s *snapshot.Snapshot) {
	if s.ULA == nil {
		return
	}
	u.border = s.ULA.Border & borderBits
	u.output = s.ULA.Output & outputBits
}
