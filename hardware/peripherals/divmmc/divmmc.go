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

// Package divmmc implements the memory paging and card select of the DivMMC
// interface. The SPI protocol of the SD cards is not emulated.
package divmmc

import (
	"fmt"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory/bankswitch"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/hardware/peripherals"
	"github.com/zxbus/zxbus/snapshot"
)

// RAMBanks is the number of 8K RAM banks fitted to the interface.
const RAMBanks = 16

// NumCards is the number of card slots.
const NumCards = 2

// card select lines are active low. a value with every line high selects no
// card
const deselected = 0xff

// DivMMC interface.
type DivMMC struct {
	m    *machine.Machine
	ctrl *bankswitch.Controller

	cards      peripherals.Units
	cardSelect uint8

	// firmware for the EPROM will come from the snapshot being loaded
	fromSnapshot bool
}

// NewDivMMC is the preferred method of initialisation for the DivMMC type.
// The interface is registered with the machine.
func NewDivMMC(m *machine.Machine) *DivMMC {
	p := m.Env().Prefs
	d := &DivMMC{
		m:          m,
		ctrl:       peripherals.NewController(m, "DivMMC", RAMBanks, &p.DivMMC, &p.DivMMCWriteProtect),
		cards:      peripherals.NewUnits(NumCards),
		cardSelect: deselected,
	}
	m.Peripherals().Register(periph.DivMMC, periph.Descriptor{
		Option: &p.DivMMC,
		Ports: []periph.PortRule{
			{Mask: 0x00ff, Value: 0x00e3, Write: d.control},
			{Mask: 0x00ff, Value: 0x00e7, Write: d.selectCard},
		},
		HardReset: true,
		Activate:  d.activate,
	})
	m.Modules().Register(d)
	m.AddFetchTrap(d)
	return d
}

func (d *DivMMC) String() string {
	return fmt.Sprintf("%s: card=%d", d.ctrl, d.SelectedCard())
}

// Label implements the module.Labeller interface.
func (d *DivMMC) Label() string {
	return d.ctrl.Label()
}

// Controller returns the paging hardware of the interface.
func (d *DivMMC) Controller() *bankswitch.Controller {
	return d.ctrl
}

func (d *DivMMC) active() bool {
	return d.m.Peripherals().IsActive(periph.DivMMC)
}

func (d *DivMMC) activate() {
	d.ctrl.Activate()
	if d.fromSnapshot {
		d.fromSnapshot = false
		return
	}

	path := d.m.Env().Prefs.DivMMCFirmware.String()
	if path == "" {
		return
	}

	data, err := peripherals.ReadFile(path, bankswitch.BankSize)
	if err == nil {
		err = d.ctrl.LoadEPROM(data)
	}
	if err != nil {
		peripherals.Disable(d.m, periph.DivMMC, &d.m.Env().Prefs.DivMMC, fmt.Errorf("firmware: %w", err))
	}
}

func (d *DivMMC) control(_ uint16, data uint8) {
	d.ctrl.ControlWrite(data)
}

func (d *DivMMC) selectCard(_ uint16, data uint8) {
	d.cardSelect = data
}

// SelectedCard returns the card selected by the card select port. Returns -1
// if no card is selected.
func (d *DivMMC) SelectedCard() int {
	for c := 0; c < NumCards; c++ {
		if d.cardSelect&(1<<c) == 0 {
			return c
		}
	}
	return -1
}

// Card returns the media in the card slot. An out of range slot will cause
// a panic.
func (d *DivMMC) Card(card int) peripherals.Media {
	return d.cards.Unit(card)
}

// Insert a card image into the slot. An out of range slot will cause a
// panic.
func (d *DivMMC) Insert(card int, path string) error {
	if err := d.cards.Insert(card, path); err != nil {
		return fmt.Errorf("divmmc: %w", err)
	}
	return nil
}

// Eject the card from the slot. An out of range slot will cause a panic.
func (d *DivMMC) Eject(card int) error {
	if err := d.cards.Eject(card); err != nil {
		return fmt.Errorf("divmmc: %w", err)
	}
	return nil
}

// BeforeFetch implements the machine.FetchTrap interface.
func (d *DivMMC) BeforeFetch(pc uint16) {
	if d.active() {
		d.ctrl.BeforeFetch(pc)
	}
}

// AfterFetch implements the machine.FetchTrap interface.
func (d *DivMMC) AfterFetch(pc uint16) {
	if d.active() {
		d.ctrl.AfterFetch(pc)
	}
}

// ROMCS implements the module.ROMCSMapper interface.
func (d *DivMMC) ROMCS() {
	if d.active() {
		d.ctrl.MemoryMap(d.m.Map())
	}
}

// Reset implements the module.Resetter interface.
func (d *DivMMC) Reset(hard bool) {
	d.cardSelect = deselected
	if d.active() {
		d.ctrl.Reset(hard)
	}
}

// SnapshotEnabled implements the module.SnapshotEnabler interface.
func (d *DivMMC) SnapshotEnabled(s *snapshot.Snapshot) {
	if s.DivMMC == nil {
		return
	}
	if !d.active() && s.DivMMC.EPROM != nil {
		d.fromSnapshot = true
	}
	_ = d.m.Env().Prefs.DivMMC.Set(true)
}

// SnapshotTo implements the module.SnapshotSaver interface.
func (d *DivMMC) SnapshotTo(s *snapshot.Snapshot) {
	if d.active() {
		s.DivMMC = &snapshot.DivMMC{
			Bankswitch: d.ctrl.State(),
			CardSelect: d.cardSelect,
		}
	}
}

// SnapshotFrom implements the module.SnapshotLoader interface.
func (d *DivMMC) SnapshotFrom(s *snapshot.Snapshot) {
	d.fromSnapshot = false
	if s.DivMMC == nil || !d.active() {
		return
	}
	d.ctrl.SetState(s.DivMMC.Bankswitch)
	d.cardSelect = s.DivMMC.CardSelect
}
