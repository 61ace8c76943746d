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

package divide_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zxbus/zxbus/debugger/events"
	"github.com/zxbus/zxbus/environment"
	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/hardware/peripherals"
	"github.com/zxbus/zxbus/hardware/peripherals/divide"
	"github.com/zxbus/zxbus/notifications"
	"github.com/zxbus/zxbus/test"
)

type notices struct {
	received []notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice, _ ...any) error {
	n.received = append(n.received, notice)
	return nil
}

type fixture struct {
	m       *machine.Machine
	d       *divide.DivIDE
	events  *events.Events
	notices *notices
}

func newFixture(t *testing.T, enabled bool, firmware string) *fixture {
	t.Helper()
	f := &fixture{
		events:  events.NewEvents(),
		notices: &notices{},
	}
	env, err := environment.NewEnvironment("test", nil, f.notices)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, env.Prefs.DivIDE.Set(enabled))
	test.DemandSuccess(t, env.Prefs.DivIDEFirmware.Set(firmware))

	pool := memory.NewPool()
	f.m, err = machine.NewMachine(env, machine.Model48K, pool, memory.NewMap(pool), f.events)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, f.m.LoadROM(0, []uint8{0xf3}))

	f.d = divide.NewDivIDE(f.m)
	if f.m.ConfigurePeripherals() {
		f.m.Reset(true)
	}
	return f
}

func writeFirmware(t *testing.T, data []uint8) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "firmware.rom")
	test.DemandSuccess(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAutomap(t *testing.T) {
	f := newFixture(t, true, writeFirmware(t, []uint8{0xdd}))
	test.DemandSuccess(t, f.m.Peripherals().IsActive(periph.DivIDE))

	page, ok := f.events.Lookup("DivIDE", "page")
	test.DemandSuccess(t, ok)
	unpage, ok := f.events.Lookup("DivIDE", "unpage")
	test.DemandSuccess(t, ok)

	// the instruction at the entry point is fetched from the ROM. the
	// interface pages in after the fetch
	test.ExpectEquality(t, f.m.Fetch(0x0000), 0xf3)
	test.ExpectEquality(t, f.m.Read(0x0000), 0xdd)
	test.ExpectEquality(t, f.events.Count(page), 1)
	test.ExpectEquality(t, f.m.ROMCSOwners()[0], "DivIDE")

	// the exit area is fetched from the interface
	test.ExpectEquality(t, f.m.Fetch(0x1ff8), 0xff)
	test.ExpectEquality(t, f.m.Read(0x0000), 0xf3)
	test.ExpectEquality(t, f.events.Count(unpage), 1)
	test.ExpectFailure(t, f.m.ROMCS())

	// 0x3dxx pages in before the fetch
	f.m.Fetch(0x3d00)
	test.ExpectSuccess(t, f.d.Controller().Active())
	test.ExpectEquality(t, f.events.Count(page), 2)

	// no paging on reset
	f.m.Reset(false)
	test.ExpectFailure(t, f.d.Controller().Active())
	test.ExpectEquality(t, f.m.Read(0x0000), 0xf3)
}

func TestConMem(t *testing.T) {
	f := newFixture(t, true, "")

	f.m.Out(0x00e3, 0x82)
	test.ExpectSuccess(t, f.d.Controller().Active())
	test.ExpectEquality(t, f.d.Controller().MappedBanks(), "Banks: EPROM, RAM 2")

	// blank EPROM is writable with CONMEM
	test.ExpectEquality(t, f.m.Read(0x0000), 0xff)
	f.m.Write(0x0000, 0x01)
	test.ExpectEquality(t, f.m.Read(0x0000), 0x01)

	f.m.Write(0x2000, 0x42)
	test.ExpectEquality(t, f.m.Read(0x2000), 0x42)

	// the bank number wraps at the number of banks
	f.m.Out(0x00e3, 0x86)
	test.ExpectEquality(t, f.m.Read(0x2000), 0x42)

	// the upper byte of the port is not decoded
	f.m.Out(0x00e2, 0x00)
	test.ExpectSuccess(t, f.d.Controller().Active())
	f.m.Out(0xffe3, 0x00)
	test.ExpectFailure(t, f.d.Controller().Active())
	test.ExpectEquality(t, f.m.Read(0x0000), 0xf3)
	test.ExpectEquality(t, f.m.Read(0x2000), 0x00)
}

func TestDisabled(t *testing.T) {
	f := newFixture(t, false, "")
	f.m.Fetch(0x0000)
	test.ExpectFailure(t, f.d.Controller().Active())
	f.m.Out(0x00e3, 0x80)
	test.ExpectFailure(t, f.d.Controller().Active())
	test.ExpectEquality(t, f.m.Read(0x0000), 0xf3)
}

func TestFirmwareFailure(t *testing.T) {
	f := newFixture(t, true, writeFirmware(t, make([]uint8, 0x4000)))
	test.ExpectFailure(t, f.m.Peripherals().IsActive(periph.DivIDE))
	test.ExpectFailure(t, f.m.Env().Prefs.DivIDE.Value())
	test.DemandEquality(t, len(f.notices.received), 1)
	test.ExpectEquality(t, f.notices.received[0], notifications.NotifyPeripheralDisabled)

	f.m.Fetch(0x0000)
	test.ExpectEquality(t, f.m.Read(0x0000), 0xf3)
}

func TestUnits(t *testing.T) {
	f := newFixture(t, true, "")

	test.ExpectFailure(t, f.d.Unit(divide.Master).Inserted())
	test.ExpectSuccess(t, f.d.Insert(divide.Slave, writeFirmware(t, nil)))
	test.ExpectSuccess(t, f.d.Unit(divide.Slave).Inserted())
	test.ExpectFailure(t, f.d.Insert(divide.Master, filepath.Join(t.TempDir(), "missing.img")))

	test.ExpectSuccess(t, f.d.Eject(divide.Slave))
	err := f.d.Eject(divide.Slave)
	test.ExpectSuccess(t, errors.Is(err, peripherals.ErrNoMedia))

	test.ExpectPanic(t, func() { f.d.Unit(2) })
	test.ExpectPanic(t, func() { _ = f.d.Eject(-1) })
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, true, writeFirmware(t, []uint8{0xdd}))
	f.m.Out(0x00e3, 0x81)
	f.m.Write(0x2000, 0x11)
	s := f.m.SnapshotTo()
	test.DemandSuccess(t, s.DivIDE != nil)
	test.ExpectSuccess(t, s.DivIDE.Paged)

	// the snapshot enables the interface and the firmware comes from the
	// snapshot
	g := newFixture(t, false, "missing.rom")
	g.m.SnapshotFrom(s)
	test.ExpectSuccess(t, g.m.Peripherals().IsActive(periph.DivIDE))
	test.DemandEquality(t, len(g.notices.received), 1)
	test.ExpectEquality(t, g.notices.received[0], notifications.NotifySnapshotLoaded)
	test.ExpectSuccess(t, g.d.Controller().Active())
	test.ExpectEquality(t, g.d.Controller().Control(), 0x81)
	test.ExpectEquality(t, g.m.Read(0x0000), 0xdd)
	test.ExpectEquality(t, g.m.Read(0x2000), 0x11)
}
