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

package machine_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zxbus/zxbus/debugger/events"
	"github.com/zxbus/zxbus/environment"
	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/notifications"
	"github.com/zxbus/zxbus/snapshot"
	"github.com/zxbus/zxbus/test"
)

func newMachine(t *testing.T, model machine.Model) *machine.Machine {
	t.Helper()
	env, err := environment.NewEnvironment("test", nil, nil)
	test.DemandSuccess(t, err)
	pool := memory.NewPool()
	m, err := machine.NewMachine(env, model, pool, memory.NewMap(pool), events.NewEvents())
	test.DemandSuccess(t, err)
	return m
}

type failingNotify struct{}

func (failingNotify) Notify(notifications.Notice, ...any) error {
	return errors.New("sink closed")
}

func TestNoticeFailureLogged(t *testing.T) {
	env, err := environment.NewEnvironment("test", nil, failingNotify{})
	test.DemandSuccess(t, err)
	pool := memory.NewPool()
	m, err := machine.NewMachine(env, machine.Model48K, pool, memory.NewMap(pool), events.NewEvents())
	test.DemandSuccess(t, err)

	m.SnapshotFrom(m.SnapshotTo())

	tw := &test.Writer{}
	env.Log.Write(tw)
	test.ExpectEquality(t, strings.Count(tw.String(), "machine: notice failed: sink closed"), 2)
}

func TestParseModel(t *testing.T) {
	m, err := machine.ParseModel("48K")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, machine.Model48K)

	m, err = machine.ParseModel("128")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, machine.Model128K)

	_, err = machine.ParseModel("16k")
	test.ExpectSuccess(t, errors.Is(err, machine.ErrUnsupportedModel))
}

func TestUnsupportedModel(t *testing.T) {
	env, err := environment.NewEnvironment("test", nil, nil)
	test.DemandSuccess(t, err)
	pool := memory.NewPool()
	_, err = machine.NewMachine(env, machine.Model(99), pool, memory.NewMap(pool), nil)
	test.ExpectSuccess(t, errors.Is(err, machine.ErrUnsupportedModel))
}

func TestLoadROM(t *testing.T) {
	m := newMachine(t, machine.Model48K)

	rom := []uint8{0xf3, 0xaf, 0x11}
	test.ExpectSuccess(t, m.LoadROM(0, rom))
	test.ExpectEquality(t, m.Read(0x0000), 0xf3)
	test.ExpectEquality(t, m.Read(0x0002), 0x11)

	// ROM is not writable
	m.Write(0x0000, 0x00)
	test.ExpectEquality(t, m.Read(0x0000), 0xf3)

	test.ExpectFailure(t, m.LoadROM(1, rom))
	err := m.LoadROM(0, make([]uint8, machine.BankSize+1))
	test.ExpectSuccess(t, errors.Is(err, machine.ErrROMSize))
}

func TestMemory48K(t *testing.T) {
	m := newMachine(t, machine.Model48K)

	m.Write(0x4000, 0x01)
	m.Write(0x8000, 0x02)
	m.Write(0xffff, 0x03)
	test.ExpectEquality(t, m.Read(0x4000), 0x01)
	test.ExpectEquality(t, m.Read(0x8000), 0x02)
	test.ExpectEquality(t, m.Read(0xffff), 0x03)

	test.ExpectSuccess(t, m.Map().Contended(0x4000))
	test.ExpectSuccess(t, m.Map().Contended(0x7fff))
	test.ExpectFailure(t, m.Map().Contended(0x8000))
	test.ExpectFailure(t, m.Map().Contended(0x0000))
}

func TestPaging128K(t *testing.T) {
	m := newMachine(t, machine.Model128K)
	test.DemandSuccess(t, m.LoadROM(0, []uint8{0x10}))
	test.DemandSuccess(t, m.LoadROM(1, []uint8{0x11}))
	m.RegisterPaging()
	m.ConfigurePeripherals()
	test.DemandSuccess(t, m.Peripherals().IsActive(periph.Paging128))

	test.ExpectEquality(t, m.Read(0x0000), 0x10)

	// bank 0 at 0xc000
	m.Write(0xc000, 0xa0)

	// bank 5 at 0x4000 is also visible at 0xc000 when paged in
	m.Write(0x4000, 0xa5)
	m.Out(0x7ffd, 0x05)
	test.ExpectEquality(t, m.Paging(), 0x05)
	test.ExpectEquality(t, m.Read(0xc000), 0xa5)
	test.ExpectSuccess(t, m.Map().Contended(0xc000))

	// select ROM 1
	m.Out(0x7ffd, 0x10)
	test.ExpectEquality(t, m.Read(0x0000), 0x11)
	test.ExpectEquality(t, m.Read(0xc000), 0xa0)
	test.ExpectFailure(t, m.Map().Contended(0xc000))

	// lock paging
	m.Out(0x7ffd, 0x23)
	m.Out(0x7ffd, 0x00)
	test.ExpectEquality(t, m.Paging(), 0x23)

	// reset unlocks
	m.Reset(false)
	test.ExpectEquality(t, m.Paging(), 0x00)
	m.Out(0x7ffd, 0x01)
	test.ExpectEquality(t, m.Paging(), 0x01)

	// 0x7ffd is only partially decoded. bit 1 must be low
	m.Out(0x7fff, 0x04)
	test.ExpectEquality(t, m.Paging(), 0x01)
}

func TestPaging48K(t *testing.T) {
	m := newMachine(t, machine.Model48K)
	m.RegisterPaging()
	m.ConfigurePeripherals()
	test.ExpectFailure(t, m.Peripherals().IsActive(periph.Paging128))

	m.Write(0xc000, 0x01)
	m.Out(0x7ffd, 0x05)
	test.ExpectEquality(t, m.Paging(), 0x00)
	test.ExpectEquality(t, m.Read(0xc000), 0x01)
}

// overlay is a module that maps its own memory over the ROM while it holds
// the ROMCS signal
type overlay struct {
	m     *machine.Machine
	pages memory.Pages
	maps  int
	reset int
}

func newOverlay(m *machine.Machine) *overlay {
	src := memory.RegisterSource("overlay test")
	arena := m.Pool().Allocate(0x4000, false)
	b := m.Pool().Bytes(arena)
	for i := range b {
		b[i] = 0x77
	}
	return &overlay{
		m:     m,
		pages: memory.NewPages(m.Pool(), src, arena, 0, 8),
	}
}

func (o *overlay) Label() string {
	return "overlay"
}

func (o *overlay) ROMCS() {
	o.maps++
	if o.m.ROMCS() {
		o.m.Map().Overlay(0x0000, memory.Window16K, o.pages)
	}
}

func (o *overlay) Reset(_ bool) {
	o.reset++
}

func TestROMCS(t *testing.T) {
	m := newMachine(t, machine.Model48K)
	test.DemandSuccess(t, m.LoadROM(0, []uint8{0x3e}))
	o := newOverlay(m)
	m.Modules().Register(o)

	test.ExpectEquality(t, m.Read(0x0000), 0x3e)

	m.AssertROMCS("overlay", true)
	test.ExpectSuccess(t, m.ROMCS())
	test.ExpectEquality(t, m.Read(0x0000), 0x77)
	test.ExpectEquality(t, o.maps, 1)

	// a second owner
	m.AssertROMCS("other", true)
	test.ExpectEquality(t, len(m.ROMCSOwners()), 2)
	test.ExpectEquality(t, o.maps, 2)

	// asserting twice does not duplicate the owner
	m.AssertROMCS("other", true)
	test.ExpectEquality(t, len(m.ROMCSOwners()), 2)

	m.AssertROMCS("overlay", false)
	test.ExpectEquality(t, m.ROMCSOwners()[0], "other")
	m.AssertROMCS("other", false)
	test.ExpectFailure(t, m.ROMCS())
	test.ExpectEquality(t, m.Read(0x0000), 0x3e)

	m.AssertROMCS("overlay", true)
	m.Reset(false)
	test.ExpectFailure(t, m.ROMCS())
	test.ExpectEquality(t, o.reset, 1)
	test.ExpectEquality(t, m.Read(0x0000), 0x3e)
}

type trap struct {
	log []string
}

func (tr *trap) BeforeFetch(_ uint16) {
	tr.log = append(tr.log, "before")
}

func (tr *trap) AfterFetch(_ uint16) {
	tr.log = append(tr.log, "after")
}

func TestFetch(t *testing.T) {
	m := newMachine(t, machine.Model48K)
	test.DemandSuccess(t, m.LoadROM(0, []uint8{0xc3}))
	tr := &trap{}
	m.AddFetchTrap(tr)
	test.ExpectEquality(t, m.Fetch(0x0000), 0xc3)
	test.ExpectEquality(t, strings.Join(tr.log, ","), "before,after")
}

func TestHardReset(t *testing.T) {
	m := newMachine(t, machine.Model48K)
	m.Write(0x8000, 0x55)
	m.Reset(false)
	test.ExpectEquality(t, m.Read(0x8000), 0x55)
	m.Reset(true)
	test.ExpectEquality(t, m.Read(0x8000), 0x00)
}

func TestSnapshot(t *testing.T) {
	m := newMachine(t, machine.Model128K)
	m.RegisterPaging()
	m.ConfigurePeripherals()

	m.Out(0x7ffd, 0x03)
	m.Write(0xc000, 0x33)
	s := m.SnapshotTo()
	test.DemandSuccess(t, s.Machine != nil)
	test.ExpectEquality(t, s.Machine.Model, "128k")
	test.ExpectEquality(t, s.Machine.Paging, 0x03)
	test.ExpectEquality(t, len(s.Machine.RAM), 8)
	test.ExpectEquality(t, s.Machine.RAM[3][0], 0x33)

	m.Reset(true)
	test.ExpectEquality(t, m.Read(0xc000), 0x00)

	m.SnapshotFrom(s)
	test.ExpectEquality(t, m.Paging(), 0x03)
	test.ExpectEquality(t, m.Read(0xc000), 0x33)

	// a snapshot for a different model restores nothing from the machine
	// section
	m48 := newMachine(t, machine.Model48K)
	m48.SnapshotFrom(s)
	test.ExpectEquality(t, m48.Read(0xc000), 0x00)

	// empty snapshots are fine
	m.SnapshotFrom(&snapshot.Snapshot{})
	m.SnapshotFrom(nil)
	test.ExpectEquality(t, m.Read(0xc000), 0x33)
}

func TestVisualise(t *testing.T) {
	m := newMachine(t, machine.Model48K)
	var b bytes.Buffer
	m.Visualise(&b)
	test.ExpectSuccess(t, strings.Contains(b.String(), "digraph"))
}

func TestString(t *testing.T) {
	m := newMachine(t, machine.Model128K)
	test.ExpectEquality(t, m.String(), "machine: 128k paging=00")
	m.AssertROMCS("a", true)
	test.ExpectEquality(t, m.String(), "machine: 128k paging=00 romcs=a")
}
