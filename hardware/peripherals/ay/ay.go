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

// Package ay implements the register interface of the AY-3-8912 sound chip.
// Sound generation is not emulated.
package ay

import (
	"fmt"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/snapshot"
)

// NumRegisters is the number of registers in the chip.
const NumRegisters = 16

// the significant bits of each register
var masks = [NumRegisters]uint8{
	0xff, 0x0f, 0xff, 0x0f, 0xff, 0x0f, // tone period
	0x1f,             // noise period
	0xff,             // mixer
	0x1f, 0x1f, 0x1f, // amplitude
	0xff, 0xff, // envelope period
	0x0f,       // envelope shape
	0xff, 0xff, // I/O ports
}

// AY sound chip.
type AY struct {
	m *machine.Machine

	selected  uint8
	registers [NumRegisters]uint8
}

// NewAY is the preferred method of initialisation for the AY type. The chip
// is registered with the machine.
//
// Port 0xfffd selects a register (and reads the selected register) and port
// 0xbffd writes to the selected register. Both are partially decoded.
func NewAY(m *machine.Machine) *AY {
	ay := &AY{m: m}
	m.Peripherals().Register(periph.AY, periph.Descriptor{
		Option: &m.Env().Prefs.AY,
		Ports: []periph.PortRule{
			{Mask: 0xc002, Value: 0xc000, Read: ay.read, Write: ay.selectRegister},
			{Mask: 0xc002, Value: 0x8000, Write: ay.write},
		},
	})
	m.Modules().Register(ay)
	return ay
}

func (ay *AY) String() string {
	return fmt.Sprintf("AY: selected=%d % 02x", ay.selected, ay.registers)
}

// Label implements the module.Labeller interface.
func (ay *AY) Label() string {
	return "AY"
}

// Selected returns the selected register.
func (ay *AY) Selected() uint8 {
	return ay.selected
}

// Register returns the value of the register. An out of range register will
// cause a panic.
func (ay *AY) Register(reg int) uint8 {
	if reg < 0 || reg >= NumRegisters {
		panic(fmt.Sprintf("ay: no register %d", reg))
	}
	return ay.registers[reg]
}

// selecting a register outside of the register range deselects the chip
func (ay *AY) selectRegister(_ uint16, data uint8) {
	ay.selected = data
}

func (ay *AY) read(_ uint16) (uint8, uint8) {
	if ay.selected >= NumRegisters {
		return 0xff, 0x00
	}
	return ay.registers[ay.selected], 0xff
}

func (ay *AY) write(_ uint16, data uint8) {
	if ay.selected >= NumRegisters {
		return
	}
	ay.registers[ay.selected] = data & masks[ay.selected]
}

// Reset implements the module.Resetter interface.
func (ay *AY) Reset(_ bool) {
	ay.selected = 0
	ay.registers = [NumRegisters]uint8{}
}

// SnapshotEnabled implements the module.SnapshotEnabler interface.
func (ay *AY) SnapshotEnabled(s *snapshot.Snapshot) {
	if s.AY != nil {
		_ = ay.m.Env().Prefs.AY.Set(true)
	}
}

// SnapshotTo implements the module.SnapshotSaver interface.
func (ay *AY) SnapshotTo(s *snapshot.Snapshot) {
	if !ay.m.Peripherals().IsActive(periph.AY) {
		return
	}
	s.AY = &snapshot.AY{
		Selected:  ay.selected,
		Registers: ay.registers,
	}
}

// SnapshotFrom implements the module.SnapshotLoader interface.
func (ay *AY) SnapshotFrom(s *snapshot.Snapshot) {
	if s.AY == nil {
		return
	}
	ay.selected = s.AY.Selected
	for i, v := range s.AY.Registers {
		ay.registers[i] = v & masks[i]
	}
}
