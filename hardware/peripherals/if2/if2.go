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

// Package if2 implements the ROM cartridge slot of the Interface 2. The
// joystick ports of the interface are mapped to the keyboard and are not
// emulated here.
package if2

import (
	"fmt"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/hardware/peripherals"
	"github.com/zxbus/zxbus/snapshot"
)

// CartridgeSize is the maximum size of a ROM cartridge.
const CartridgeSize = 0x4000

// owner of the ROMCS signal
const owner = "IF2"

// IF2 is the Interface 2.
type IF2 struct {
	m      *machine.Machine
	source memory.Source

	// backing memory is allocated on the first insertion
	allocated bool
	arena     memory.ArenaID
	pages     memory.Pages

	inserted bool

	// the cartridge will be inserted from the snapshot being loaded
	fromSnapshot bool
}

// NewIF2 is the preferred method of initialisation for the IF2 type. The
// interface is registered with the machine.
//
// Activation of the interface loads the cartridge named by the IF2Cartridge
// preference. A failure to load disables the interface.
func NewIF2(m *machine.Machine) *IF2 {
	i := &IF2{
		m:      m,
		source: memory.RegisterSource("IF2 cartridge"),
	}
	m.Peripherals().Register(periph.IF2, periph.Descriptor{
		Option:    &m.Env().Prefs.IF2,
		HardReset: true,
		Activate:  i.activate,
	})
	m.Modules().Register(i)
	return i
}

func (i *IF2) String() string {
	if !i.inserted {
		return "IF2: no cartridge"
	}
	return "IF2: cartridge inserted"
}

// Label implements the module.Labeller interface.
func (i *IF2) Label() string {
	return owner
}

func (i *IF2) activate() {
	if i.fromSnapshot {
		i.fromSnapshot = false
		return
	}

	path := i.m.Env().Prefs.IF2Cartridge.String()
	if path == "" {
		return
	}

	d, err := peripherals.ReadFile(path, CartridgeSize)
	if err == nil {
		err = i.Insert(d)
	}
	if err != nil {
		peripherals.Disable(i.m, periph.IF2, &i.m.Env().Prefs.IF2, fmt.Errorf("cartridge: %w", err))
	}
}

func (i *IF2) active() bool {
	return i.m.Peripherals().IsActive(periph.IF2)
}

// Insert the cartridge. Cartridges smaller than CartridgeSize are padded
// with 0xff.
func (i *IF2) Insert(data []uint8) error {
	if len(data) > CartridgeSize {
		return fmt.Errorf("if2: cartridge too large (%d bytes)", len(data))
	}

	if !i.allocated {
		i.allocated = true
		i.arena = i.m.Pool().Allocate(CartridgeSize, true)
		i.pages = memory.NewPages(i.m.Pool(), i.source, i.arena, 0, CartridgeSize/memory.PageSize)
	}

	b := i.m.Pool().Bytes(i.arena)
	n := copy(b, data)
	for j := n; j < len(b); j++ {
		b[j] = 0xff
	}

	i.inserted = true
	if i.active() {
		i.m.AssertROMCS(owner, true)
	}
	return nil
}

// Eject the cartridge.
func (i *IF2) Eject() {
	i.inserted = false
	i.m.AssertROMCS(owner, false)
}

// Inserted returns true if a cartridge is inserted.
func (i *IF2) Inserted() bool {
	return i.inserted
}

// ROMCS implements the module.ROMCSMapper interface.
func (i *IF2) ROMCS() {
	if i.inserted && i.active() {
		i.m.Map().Overlay(0x0000, memory.Window16K, i.pages)
	}
}

// Reset implements the module.Resetter interface. The ROMCS signal is cleared
// by the machine on reset and is reasserted if a cartridge is inserted.
func (i *IF2) Reset(_ bool) {
	if i.inserted && i.active() {
		i.m.AssertROMCS(owner, true)
	}
}

// SnapshotEnabled implements the module.SnapshotEnabler interface.
func (i *IF2) SnapshotEnabled(s *snapshot.Snapshot) {
	if s.IF2 == nil {
		return
	}
	if !i.active() {
		i.fromSnapshot = true
	}
	_ = i.m.Env().Prefs.IF2.Set(true)
}

// SnapshotTo implements the module.SnapshotSaver interface.
func (i *IF2) SnapshotTo(s *snapshot.Snapshot) {
	if !i.active() {
		return
	}
	s.IF2 = &snapshot.IF2{}
	if i.inserted {
		s.IF2.ROM = make([]uint8, CartridgeSize)
		copy(s.IF2.ROM, i.m.Pool().Bytes(i.arena))
	}
}

// SnapshotFrom implements the module.SnapshotLoader interface.
func (i *IF2) SnapshotFrom(s *snapshot.Snapshot) {
	i.fromSnapshot = false
	if s.IF2 == nil {
		return
	}
	if s.IF2.ROM == nil {
		i.Eject()
		return
	}
	if err := i.Insert(s.IF2.ROM); err != nil {
		i.m.Env().Logf("IF2", "snapshot: %v", err)
	}
}
