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

// Package peripherals contains the support shared by the peripheral
// implementations in the sub-packages. Each peripheral registers itself with
// the machine's peripheral registry (for its port rules) and module registry
// (for reset, ROMCS and snapshot broadcasts).
package peripherals

import (
	"errors"
	"fmt"
	"os"

	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory/bankswitch"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/notifications"
	"github.com/zxbus/zxbus/prefs"
)

// ErrNoMedia is returned when a media unit is ejected with nothing inserted.
var ErrNoMedia = errors.New("no media inserted")

// NewController returns a bank-switching memory controller for a disk
// interface attached to the machine.
func NewController(m *machine.Machine, label string, ramBanks int, enabled *prefs.Bool, writeProtect *prefs.Bool) *bankswitch.Controller {
	return bankswitch.NewController(bankswitch.Config{
		Label:        label,
		Pool:         m.Pool(),
		Host:         m,
		RAMBanks:     ramBanks,
		Enabled:      enabled,
		WriteProtect: writeProtect,
		Events:       m.Events(),
	})
}

// ReadFile returns the contents of the ROM image at path. The image must be
// no larger than size bytes.
func ReadFile(path string, size int) ([]uint8, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(d) > size {
		return nil, fmt.Errorf("%s: image too large (%d bytes)", path, len(d))
	}
	return d, nil
}

// Disable a peripheral that has failed to activate. The configuration flag
// is cleared so that the peripheral is not activated again and the failure
// is sent as a notice.
func Disable(m *machine.Machine, t periph.Type, option *prefs.Bool, err error) {
	m.Env().Logf(t.String(), "disabled: %v", err)
	m.Peripherals().Activate(t, false)
	if option != nil {
		_ = option.Set(false)
	}
	if nerr := m.Env().Notice(notifications.NotifyPeripheralDisabled, t, err); nerr != nil {
		m.Env().Logf(t.String(), "notice failed: %v", nerr)
	}
}

// Media is the file inserted into a media unit of a disk interface.
type Media struct {
	Path string
}

// Inserted returns true if there is media in the unit.
func (md Media) Inserted() bool {
	return md.Path != ""
}

func (md Media) String() string {
	if md.Path == "" {
		return "empty"
	}
	return md.Path
}

// Units is a fixed number of media units.
type Units []Media

// NewUnits returns n empty units.
func NewUnits(n int) Units {
	return make(Units, n)
}

func (u Units) check(unit int) {
	if unit < 0 || unit >= len(u) {
		panic(fmt.Sprintf("peripherals: no media unit %d", unit))
	}
}

// Unit returns the media in the unit. An out of range unit will cause a
// panic.
func (u Units) Unit(unit int) Media {
	u.check(unit)
	return u[unit]
}

// Insert media into the unit. An out of range unit will cause a panic.
func (u Units) Insert(unit int, path string) error {
	u.check(unit)
	if _, err := os.Stat(path); err != nil {
		return err
	}
	u[unit].Path = path
	return nil
}

// Eject media from the unit. An out of range unit will cause a panic.
func (u Units) Eject(unit int) error {
	u.check(unit)
	if !u[unit].Inserted() {
		return fmt.Errorf("unit %d: %w", unit, ErrNoMedia)
	}
	u[unit].Path = ""
	return nil
}
