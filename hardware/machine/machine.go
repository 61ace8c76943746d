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

package machine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/exp/slices"

	"github.com/zxbus/zxbus/debugger/events"
	"github.com/zxbus/zxbus/environment"
	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/hardware/module"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/notifications"
	"github.com/zxbus/zxbus/snapshot"
)

// BankSize is the size of the machine's ROM and RAM banks.
const BankSize = 0x4000

// the paging register (port 0x7ffd) of the 128K machine
const (
	pagingRAM  = 0x07
	pagingROM  = 0x10
	pagingLock = 0x20
)

// ErrROMSize is returned by LoadROM() when the ROM image is the wrong size.
var ErrROMSize = errors.New("rom image too large")

// FetchTrap is implemented by hardware that watches the CPU's instruction
// fetches.
type FetchTrap interface {
	BeforeFetch(pc uint16)
	AfterFetch(pc uint16)
}

// Machine is the emulated machine.
type Machine struct {
	env    *environment.Environment
	model  Model
	layout layout

	pool    *memory.Pool
	mem     *memory.Map
	events  *events.Events
	periph  *periph.Registry
	modules *module.Registry

	rom      memory.ArenaID
	romPages []memory.Pages
	ram      memory.ArenaID
	ramPages []memory.Pages

	// value of the last write to the paging register
	paging uint8

	// owners currently asserting the ROMCS signal
	romcs []string

	traps []FetchTrap
}

// NewMachine is the preferred method of initialisation for the Machine type.
// ROM and RAM for the model are allocated from the pool.
func NewMachine(env *environment.Environment, model Model, pool *memory.Pool, mem *memory.Map, ev *events.Events) (*Machine, error) {
	l, ok := layouts[model]
	if !ok {
		return nil, fmt.Errorf("machine: %w (%d)", ErrUnsupportedModel, int(model))
	}

	m := &Machine{
		env:     env,
		model:   model,
		layout:  l,
		pool:    pool,
		mem:     mem,
		events:  ev,
		periph:  periph.NewRegistry(),
		modules: module.NewRegistry(),
	}

	m.rom = pool.Allocate(BankSize*l.romBanks, false)
	for b := 0; b < l.romBanks; b++ {
		m.romPages = append(m.romPages, memory.NewPages(pool, memory.SourceROM, m.rom, b, BankSize/memory.PageSize))
	}

	m.ram = pool.Allocate(BankSize*l.ramBanks, false)
	for b := 0; b < l.ramBanks; b++ {
		pgs := memory.NewPages(pool, memory.SourceRAM, m.ram, b, BankSize/memory.PageSize).Writable(true)
		pgs = pgs.Contended(slices.Contains(l.contended, b))
		m.ramPages = append(m.ramPages, pgs)
	}

	m.Remap()

	return m, nil
}

func (m *Machine) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("machine: %s", m.model))
	if m.model == Model128K {
		s.WriteString(fmt.Sprintf(" paging=%02x", m.paging))
	}
	if len(m.romcs) > 0 {
		s.WriteString(fmt.Sprintf(" romcs=%s", strings.Join(m.romcs, ",")))
	}
	return s.String()
}

// Env returns the machine's environment.
func (m *Machine) Env() *environment.Environment {
	return m.env
}

// Model returns the machine's model.
func (m *Machine) Model() Model {
	return m.model
}

// Pool returns the memory pool used by the machine.
func (m *Machine) Pool() *memory.Pool {
	return m.pool
}

// Map returns the machine's memory map.
func (m *Machine) Map() *memory.Map {
	return m.mem
}

// Events returns the debugger events registry. May be nil.
func (m *Machine) Events() *events.Events {
	return m.events
}

// Peripherals returns the peripheral registry.
func (m *Machine) Peripherals() *periph.Registry {
	return m.periph
}

// Modules returns the module registry.
func (m *Machine) Modules() *module.Registry {
	return m.modules
}

// Paging returns the value of the 128K paging register.
func (m *Machine) Paging() uint8 {
	return m.paging
}

// LoadROM copies data into the ROM bank. The data must not be larger than
// BankSize.
func (m *Machine) LoadROM(bank int, data []uint8) error {
	if bank < 0 || bank >= m.layout.romBanks {
		return fmt.Errorf("machine: no ROM bank %d in %s machine", bank, m.model)
	}
	if len(data) > BankSize {
		return fmt.Errorf("machine: %w (%d bytes)", ErrROMSize, len(data))
	}
	copy(m.pool.Bytes(m.rom)[bank*BankSize:(bank+1)*BankSize], data)
	return nil
}

// RegisterPaging adds the 128K paging register to the peripheral registry.
// The presence of the register is decided by ConfigurePeripherals().
func (m *Machine) RegisterPaging() {
	m.periph.Register(periph.Paging128, periph.Descriptor{
		Ports: []periph.PortRule{
			{Mask: 0x8002, Value: 0x0000, Write: m.writePaging},
		},
	})
}

func (m *Machine) writePaging(_ uint16, data uint8) {
	if m.paging&pagingLock != 0 {
		return
	}
	m.paging = data
	m.Remap()
}

// ConfigurePeripherals sets the presence of every registered peripheral for
// the machine's model and updates their active state. Returns true if the
// change requires a hard reset.
func (m *Machine) ConfigurePeripherals() bool {
	for t, p := range m.layout.presence {
		if m.periph.Registered(t) {
			m.periph.SetPresence(t, p)
		}
	}
	return m.periph.Update()
}

// AddFetchTrap adds hardware that should be told about instruction fetches.
func (m *Machine) AddFetchTrap(trap FetchTrap) {
	m.traps = append(m.traps, trap)
}

// AssertROMCS asserts or deasserts the ROMCS signal on behalf of the owner.
// The memory map is rebuilt in both cases.
func (m *Machine) AssertROMCS(owner string, assert bool) {
	idx := slices.Index(m.romcs, owner)
	if assert && idx == -1 {
		m.romcs = append(m.romcs, owner)
	} else if !assert && idx != -1 {
		m.romcs = slices.Delete(m.romcs, idx, idx+1)
	}
	m.Remap()
}

// ROMCS returns true if the ROMCS signal is asserted by any owner.
func (m *Machine) ROMCS() bool {
	return len(m.romcs) > 0
}

// ROMCSOwners returns the owners currently asserting the ROMCS signal.
func (m *Machine) ROMCSOwners() []string {
	return slices.Clone(m.romcs)
}

// Remap rebuilds the home memory map for the current paging and then, if the
// ROMCS signal is asserted, asks the ROMCS owners to reinstall their
// overlays.
func (m *Machine) Remap() {
	switch m.model {
	case Model48K:
		m.mem.MapHome(0x0000, m.romPages[0])
		m.mem.MapHome(0x4000, m.ramPages[0])
		m.mem.MapHome(0x8000, m.ramPages[1])
		m.mem.MapHome(0xc000, m.ramPages[2])
	case Model128K:
		rom := 0
		if m.paging&pagingROM != 0 {
			rom = 1
		}
		m.mem.MapHome(0x0000, m.romPages[rom])
		m.mem.MapHome(0x4000, m.ramPages[5])
		m.mem.MapHome(0x8000, m.ramPages[2])
		m.mem.MapHome(0xc000, m.ramPages[m.paging&pagingRAM])
	}

	if len(m.romcs) > 0 {
		m.modules.ROMCS()
	}
}

// Reset the machine and every module. A hard reset also clears RAM.
func (m *Machine) Reset(hard bool) {
	m.paging = 0
	m.romcs = m.romcs[:0]
	if hard {
		clear(m.pool.Bytes(m.ram))
	}
	m.Remap()
	m.modules.Reset(hard)
	m.Remap()

	m.env.Logf("machine", "reset (hard=%v)", hard)
}

// Read the memory at the address.
func (m *Machine) Read(addr uint16) uint8 {
	return m.mem.Read(addr)
}

// Write data to the memory at the address.
func (m *Machine) Write(addr uint16, data uint8) {
	m.mem.Write(addr, data)
}

// Fetch an instruction byte from pc. Fetch traps are told about the fetch
// before and after the memory is read.
func (m *Machine) Fetch(pc uint16) uint8 {
	for _, t := range m.traps {
		t.BeforeFetch(pc)
	}
	data := m.mem.Read(pc)
	for _, t := range m.traps {
		t.AfterFetch(pc)
	}
	return data
}

// In reads from the I/O port.
func (m *Machine) In(port uint16) uint8 {
	return m.periph.Read(port)
}

// Out writes to the I/O port.
func (m *Machine) Out(port uint16, data uint8) {
	m.periph.Write(port, data)
}

// SnapshotTo returns a snapshot of the machine and every module.
func (m *Machine) SnapshotTo() *snapshot.Snapshot {
	s := &snapshot.Snapshot{
		Machine: &snapshot.Machine{
			Model:  m.model.String(),
			Paging: m.paging,
		},
	}

	ram := m.pool.Bytes(m.ram)
	for b := 0; b < m.layout.ramBanks; b++ {
		d := make([]uint8, BankSize)
		copy(d, ram[b*BankSize:])
		s.Machine.RAM = append(s.Machine.RAM, d)
	}

	m.modules.SnapshotSave(s)

	if err := m.env.Notice(notifications.NotifySnapshotSaved); err != nil {
		m.env.Logf("machine", "notice failed: %v", err)
	}

	return s
}

// SnapshotFrom restores the machine and every module from the snapshot.
// Sections that are missing or do not fit the machine are ignored.
func (m *Machine) SnapshotFrom(s *snapshot.Snapshot) {
	if s == nil {
		return
	}

	// peripherals present in the snapshot are enabled before the snapshot
	// is loaded. a hard reset is required if any peripheral that needs one
	// has changed
	m.modules.SnapshotEnabled(s)
	if m.periph.Update() {
		m.Reset(true)
	}

	if sm := s.Machine; sm != nil {
		if sm.Model != m.model.String() {
			m.env.Logf("machine", "snapshot for %s machine ignored", sm.Model)
		} else {
			if m.model == Model128K {
				m.paging = sm.Paging
			}
			ram := m.pool.Bytes(m.ram)
			for b, d := range sm.RAM {
				if b < m.layout.ramBanks && len(d) == BankSize {
					copy(ram[b*BankSize:], d)
				}
			}
		}
	}

	m.modules.SnapshotLoad(s)
	m.Remap()

	if err := m.env.Notice(notifications.NotifySnapshotLoaded); err != nil {
		m.env.Logf("machine", "notice failed: %v", err)
	}
}

// Visualise writes a graphviz description of the machine's memory
// configuration to w.
func (m *Machine) Visualise(w io.Writer) {
	type window struct {
		Address string
		Read    string
		Write   string
	}
	type view struct {
		Model   string
		Paging  uint8
		ROMCS   []string
		Windows []window
	}

	v := view{
		Model:  m.model.String(),
		Paging: m.paging,
		ROMCS:  m.ROMCSOwners(),
	}
	for p := 0; p < memory.NumPages; p++ {
		addr := uint16(p * memory.PageSize)
		v.Windows = append(v.Windows, window{
			Address: fmt.Sprintf("%04x", addr),
			Read:    m.mem.ReadPage(addr).String(),
			Write:   m.mem.WritePage(addr).String(),
		})
	}

	memviz.Map(w, &v)
}
