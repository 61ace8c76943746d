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

// Package kempston implements the Kempston joystick interface.
package kempston

import (
	"fmt"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/snapshot"
)

// Direction and fire bits. A set bit means the direction is held.
const (
	Right uint8 = 0x01
	Left  uint8 = 0x02
	Down  uint8 = 0x04
	Up    uint8 = 0x08
	Fire  uint8 = 0x10
)

// Kempston joystick interface.
type Kempston struct {
	m     *machine.Machine
	state uint8
}

// NewKempston is the preferred method of initialisation for the Kempston
// type. The interface is registered with the machine.
func NewKempston(m *machine.Machine) *Kempston {
	k := &Kempston{m: m}
	m.Peripherals().Register(periph.Kempston, periph.Descriptor{
		Option: &m.Env().Prefs.Kempston,
		Ports: []periph.PortRule{
			{Mask: 0x00e0, Value: 0x0000, Read: k.read},
		},
	})
	m.Modules().Register(k)
	return k
}

func (k *Kempston) String() string {
	return fmt.Sprintf("Kempston: %05b", k.state)
}

// Label implements the module.Labeller interface.
func (k *Kempston) Label() string {
	return "Kempston"
}

// Set or clear the stick bits.
func (k *Kempston) Set(bits uint8, held bool) {
	if held {
		k.state |= bits & 0x1f
	} else {
		k.state &^= bits
	}
}

// State returns the stick bits.
func (k *Kempston) State() uint8 {
	return k.state
}

// the unused upper bits of the interface read as zero
func (k *Kempston) read(_ uint16) (uint8, uint8) {
	return k.state, 0xff
}

// Reset implements the module.Resetter interface.
func (k *Kempston) Reset(_ bool) {
	k.state = 0
}

// SnapshotEnabled implements the module.SnapshotEnabler interface.
func (k *Kempston) SnapshotEnabled(s *snapshot.Snapshot) {
	if s.Kempston != nil {
		_ = k.m.Env().Prefs.Kempston.Set(true)
	}
}

// SnapshotTo implements the module.SnapshotSaver interface.
func (k *Kempston) SnapshotTo(s *snapshot.Snapshot) {
	if k.m.Peripherals().IsActive(periph.Kempston) {
		s.Kempston = &snapshot.Kempston{}
	}
}
