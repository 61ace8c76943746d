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

// Package divide implements the memory paging of the DivIDE interface. The
// IDE command protocol is not emulated. Media can be inserted into the
// master and slave units but only the paging hardware acts on the bus.
package divide

import (
	"fmt"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory/bankswitch"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/hardware/peripherals"
	"github.com/zxbus/zxbus/snapshot"
)

// RAMBanks is the number of 8K RAM banks fitted to the interface.
const RAMBanks = 4

// Media units.
const (
	Master = iota
	Slave
	NumUnits
)

// DivIDE interface.
type DivIDE struct {
	m    *machine.Machine
	ctrl *bankswitch.Controller

	units peripherals.Units

	// firmware for the EPROM will come from the snapshot being loaded
	fromSnapshot bool
}

// NewDivIDE is the preferred method of initialisation for the DivIDE type.
// The interface is registered with the machine.
func NewDivIDE(m *machine.Machine) *DivIDE {
	p := m.Env().Prefs
	d := &DivIDE{
		m:     m,
		ctrl:  peripherals.NewController(m, "DivIDE", RAMBanks, &p.DivIDE, &p.DivIDEWriteProtect),
		units: peripherals.NewUnits(NumUnits),
	}
	m.Peripherals().Register(periph.DivIDE, periph.Descriptor{
		Option: &p.DivIDE,
		Ports: []periph.PortRule{
			{Mask: 0x00ff, Value: 0x00e3, Write: d.control},
		},
		HardReset: true,
		Activate:  d.activate,
	})
	m.Modules().Register(d)
	m.AddFetchTrap(d)
	return d
}

func (d *DivIDE) String() string {
	return fmt.Sprintf("%s: master=%s slave=%s", d.ctrl, d.units[Master], d.units[Slave])
}

// Label implements the module.Labeller interface.
func (d *DivIDE) Label() string {
	return d.ctrl.Label()
}

// Controller returns the paging hardware of the interface.
func (d *DivIDE) Controller() *bankswitch.Controller {
	return d.ctrl
}

func (d *DivIDE) active() bool {
	return d.m.Peripherals().IsActive(periph.DivIDE)
}

func (d *DivIDE) activate() {
	d.ctrl.Activate()
	if d.fromSnapshot {
		d.fromSnapshot = false
		return
	}

	path := d.m.Env().Prefs.DivIDEFirmware.String()
	if path == "" {
		return
	}

	data, err := peripherals.ReadFile(path, bankswitch.BankSize)
	if err == nil {
		err = d.ctrl.LoadEPROM(data)
	}
	if err != nil {
		peripherals.Disable(d.m, periph.DivIDE, &d.m.Env().Prefs.DivIDE, fmt.Errorf("firmware: %w", err))
	}
}

func (d *DivIDE) control(_ uint16, data uint8) {
	d.ctrl.ControlWrite(data)
}

// Unit returns the media in the unit. An out of range unit will cause a
// panic.
func (d *DivIDE) Unit(unit int) peripherals.Media {
	return d.units.Unit(unit)
}

// Insert media into the unit. An out of range unit will cause a panic.
func (d *DivIDE) Insert(unit int, path string) error {
	if err := d.units.Insert(unit, path); err != nil {
		return fmt.Errorf("divide: %w", err)
	}
	return nil
}

// Eject media from the unit. An out of range unit will cause a panic.
func (d *DivIDE) Eject(unit int) error {
	if err := d.units.Eject(unit); err != nil {
		return fmt.Errorf("divide: %w", err)
	}
	return nil
}

// BeforeFetch implements the machine.FetchTrap interface.
func (d *DivIDE) BeforeFetch(pc uint16) {
	if d.active() {
		d.ctrl.BeforeFetch(pc)
	}
}

// AfterFetch implements the machine.FetchTrap interface.
func (d *DivIDE) AfterFetch(pc uint16) {
	if d.active() {
		d.ctrl.AfterFetch(pc)
	}
}

// ROMCS implements the module.ROMCSMapper interface.
func (d *DivIDE) ROMCS() {
	if d.active() {
		d.ctrl.MemoryMap(d.m.Map())
	}
}

// Reset implements the module.Resetter interface.
func (d *DivIDE) Reset(hard bool) {
	if d.active() {
		d.ctrl.Reset(hard)
	}
}

// SnapshotEnabled implements the module.SnapshotEnabler interface.
func (d *DivIDE) SnapshotEnabled(s *snapshot.Snapshot) {
	if s.DivIDE == nil {
		return
	}
	if !d.active() && s.DivIDE.EPROM != nil {
		d.fromSnapshot = true
	}
	_ = d.m.Env().Prefs.DivIDE.Set(true)
}

// SnapshotTo implements the module.SnapshotSaver interface.
func (d *DivIDE) SnapshotTo(s *snapshot.Snapshot) {
	if d.active() {
		s.DivIDE = &snapshot.DivIDE{Bankswitch: d.ctrl.State()}
	}
}

// SnapshotFrom implements the module.SnapshotLoader interface.
func (d *DivIDE) SnapshotFrom(s *snapshot.Snapshot) {
	d.fromSnapshot = false
	if s.DivIDE == nil || !d.active() {
		return
	}
	d.ctrl.SetState(s.DivIDE.Bankswitch)
}
