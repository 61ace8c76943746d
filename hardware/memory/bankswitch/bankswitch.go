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

package bankswitch

import (
	"errors"
	"fmt"

	"github.com/zxbus/zxbus/debugger/events"
	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/prefs"
	"github.com/zxbus/zxbus/snapshot"
)

// Control register bits.
const (
	ConMem uint8 = 0x80
	MapRAM uint8 = 0x40
)

// BankSize is the size of the EPROM and of each RAM bank.
const BankSize = 0x2000

// the RAM bank that replaces the EPROM in MAPRAM mode
const aliasBank = 3

// pages in a bank
const bankPages = BankSize / memory.PageSize

// ErrEPROMSize is returned by LoadEPROM() when the image is too large.
var ErrEPROMSize = errors.New("eprom image too large")

// Host is the machine the controller is attached to.
type Host interface {
	// assert or deassert the ROMCS signal on behalf of the owner. the host
	// rebuilds the memory map when the signal changes
	AssertROMCS(owner string, assert bool)
}

// Config for a new controller.
type Config struct {
	// name of the controller. used as the ROMCS owner and the event type
	Label string

	// the pool that the EPROM and RAM banks are allocated from
	Pool *memory.Pool

	Host Host

	// number of RAM banks. must be a power of two and at least four
	RAMBanks int

	// borrowed flags. a nil Enabled flag means the controller is always
	// enabled. a nil WriteProtect flag means the EPROM is never write
	// protected
	Enabled      *prefs.Bool
	WriteProtect *prefs.Bool

	// may be nil
	Events *events.Events
}

// Controller is the memory controller.
type Controller struct {
	cfg Config

	control uint8
	mapram  latch

	active  bool
	automap bool

	// backing memory is allocated on the first call to Activate()
	allocated bool
	eprom     memory.ArenaID
	ram       memory.ArenaID

	epromSource memory.Source
	ramSource   memory.Source
	epromPages  memory.Pages
	ramPages    []memory.Pages

	pageEvent   events.ID
	unpageEvent events.ID
}

// NewController is the preferred method of initialisation for the Controller
// type. An illegal number of RAM banks will cause a panic.
func NewController(cfg Config) *Controller {
	if cfg.RAMBanks < aliasBank+1 || cfg.RAMBanks&(cfg.RAMBanks-1) != 0 {
		panic(fmt.Sprintf("bankswitch: illegal number of RAM banks (%d)", cfg.RAMBanks))
	}

	c := &Controller{
		cfg:         cfg,
		epromSource: memory.RegisterSource(fmt.Sprintf("%s EPROM", cfg.Label)),
		ramSource:   memory.RegisterSource(fmt.Sprintf("%s RAM", cfg.Label)),
	}

	if cfg.Events != nil {
		c.pageEvent = cfg.Events.Register(cfg.Label, "page")
		c.unpageEvent = cfg.Events.Register(cfg.Label, "unpage")
	}

	return c
}

func (c *Controller) String() string {
	return fmt.Sprintf("%s: control=%02x automap=%v: %s", c.cfg.Label, c.Control(), c.automap, c.MappedBanks())
}

// Label returns the name of the controller.
func (c *Controller) Label() string {
	return c.cfg.Label
}

func (c *Controller) enabled() bool {
	return c.cfg.Enabled == nil || c.cfg.Enabled.Value()
}

func (c *Controller) writeProtected() bool {
	return c.cfg.WriteProtect != nil && c.cfg.WriteProtect.Value()
}

// Activate allocates the EPROM and RAM banks. The memory is allocated from
// the pool once only. The EPROM is filled with 0xff.
func (c *Controller) Activate() {
	if c.allocated {
		return
	}
	c.allocated = true

	c.eprom = c.cfg.Pool.Allocate(BankSize, true)
	e := c.cfg.Pool.Bytes(c.eprom)
	for i := range e {
		e[i] = 0xff
	}
	c.epromPages = memory.NewPages(c.cfg.Pool, c.epromSource, c.eprom, 0, bankPages)

	c.ram = c.cfg.Pool.Allocate(BankSize*c.cfg.RAMBanks, true)
	c.ramPages = make([]memory.Pages, c.cfg.RAMBanks)
	for b := range c.ramPages {
		c.ramPages[b] = memory.NewPages(c.cfg.Pool, c.ramSource, c.ram, b, bankPages)
	}
}

// LoadEPROM copies the data into the EPROM. Any remaining EPROM space is
// filled with 0xff.
func (c *Controller) LoadEPROM(data []uint8) error {
	if len(data) > BankSize {
		return fmt.Errorf("bankswitch: %s: %w (%d bytes)", c.cfg.Label, ErrEPROMSize, len(data))
	}
	c.Activate()
	e := c.cfg.Pool.Bytes(c.eprom)
	n := copy(e, data)
	for i := n; i < len(e); i++ {
		e[i] = 0xff
	}
	return nil
}

// Active returns true if the controller's memory is paged in.
func (c *Controller) Active() bool {
	return c.active
}

// Control returns the value of the control register.
func (c *Controller) Control() uint8 {
	return c.control | c.mapram.bit(MapRAM)
}

// Automap returns the state of the automap signal.
func (c *Controller) Automap() bool {
	return c.automap
}

// ControlWrite sets the control register. The MAPRAM bit, once set, remains
// set until a hard reset.
func (c *Controller) ControlWrite(data uint8) {
	c.mapram.latch(data&MapRAM != 0)
	c.control = data &^ MapRAM
	c.refresh()
}

// SetAutomap changes the automap signal.
func (c *Controller) SetAutomap(automap bool) {
	c.automap = automap
	c.refresh()
}

// Reset the controller. The controller is always unpaged. A soft reset keeps
// the MAPRAM bit of the control register. A hard reset clears the control
// register and the contents of the RAM banks.
func (c *Controller) Reset(hard bool) {
	if c.active {
		c.active = false
		c.cfg.Host.AssertROMCS(c.cfg.Label, false)
	}

	if !c.enabled() {
		return
	}

	c.control = 0
	if hard {
		c.mapram.clear()
		if c.allocated {
			clear(c.cfg.Pool.Bytes(c.ram))
		}
	}

	c.automap = false
	c.refresh()
}

// refresh decides whether the controller's memory should be paged in
func (c *Controller) refresh() {
	switch {
	case c.control&ConMem != 0:
		c.page()
	case !c.writeProtected() || c.mapram.set:
		if c.automap {
			c.page()
		} else {
			c.unpage()
		}
	default:
		c.unpage()
	}
}

// page in the controller's memory. always reasserts ROMCS because the
// selected bank may have changed
func (c *Controller) page() {
	transition := !c.active
	c.active = true
	c.cfg.Host.AssertROMCS(c.cfg.Label, true)
	if transition && c.cfg.Events != nil {
		c.cfg.Events.Fire(c.pageEvent)
	}
}

func (c *Controller) unpage() {
	if !c.active {
		return
	}
	c.active = false
	c.cfg.Host.AssertROMCS(c.cfg.Label, false)
	if c.cfg.Events != nil {
		c.cfg.Events.Fire(c.unpageEvent)
	}
}

// upperBank returns the RAM bank selected by the control register
func (c *Controller) upperBank() int {
	return int(c.control) & (c.cfg.RAMBanks - 1)
}

// MemoryMap overlays the controller's memory onto the lower 16K of the
// memory map. Does nothing if the controller is not paged in.
func (c *Controller) MemoryMap(m *memory.Map) {
	if !c.active {
		return
	}
	c.Activate()

	upper := c.upperBank()

	var lower memory.Pages
	var lowerWritable, upperWritable bool

	switch {
	case c.control&ConMem != 0:
		lower = c.epromPages
		lowerWritable = !c.writeProtected()
		upperWritable = true
	case c.mapram.set:
		lower = c.ramPages[aliasBank]
		lowerWritable = false
		upperWritable = upper != aliasBank
	default:
		lower = c.epromPages
		lowerWritable = false
		upperWritable = true
	}

	m.Overlay(0x0000, memory.Window8K, lower.Writable(lowerWritable))
	m.Overlay(0x2000, memory.Window8K, c.ramPages[upper].Writable(upperWritable))
}

// MappedBanks returns a summary of the current mapping.
func (c *Controller) MappedBanks() string {
	if !c.active {
		return "unpaged"
	}
	lower := "EPROM"
	if c.control&ConMem == 0 && c.mapram.set {
		lower = fmt.Sprintf("RAM %d", aliasBank)
	}
	return fmt.Sprintf("Banks: %s, RAM %d", lower, c.upperBank())
}

// BeforeFetch should be called before an instruction is fetched from pc.
// Fetching from 0x3d00 to 0x3dff raises the automap signal immediately.
func (c *Controller) BeforeFetch(pc uint16) {
	if !c.enabled() {
		return
	}
	if pc&0xff00 == 0x3d00 {
		c.SetAutomap(true)
	}
}

// AfterFetch should be called after an instruction has been fetched from pc.
// Fetching from one of the entry points raises the automap signal and
// fetching from 0x1ff8 to 0x1fff lowers it.
func (c *Controller) AfterFetch(pc uint16) {
	if !c.enabled() {
		return
	}
	switch pc {
	case 0x0000, 0x0008, 0x0038, 0x0066, 0x04c6, 0x0562:
		c.SetAutomap(true)
	default:
		if pc&0xfff8 == 0x1ff8 {
			c.SetAutomap(false)
		}
	}
}

// State returns a copy of the controller's state for a snapshot.
func (c *Controller) State() snapshot.Bankswitch {
	s := snapshot.Bankswitch{
		Control: c.control,
		MapRAM:  c.mapram.set,
		Paged:   c.active,
		Automap: c.automap,
	}
	if c.allocated {
		s.EPROM = make([]uint8, BankSize)
		copy(s.EPROM, c.cfg.Pool.Bytes(c.eprom))

		ram := c.cfg.Pool.Bytes(c.ram)
		s.RAM = make([][]uint8, c.cfg.RAMBanks)
		for b := range s.RAM {
			s.RAM[b] = make([]uint8, BankSize)
			copy(s.RAM[b], ram[b*BankSize:])
		}
	}
	return s
}

// SetState restores the controller's state from a snapshot. Missing or
// wrongly sized memory banks in the snapshot are ignored.
func (c *Controller) SetState(s snapshot.Bankswitch) {
	c.Activate()

	if len(s.EPROM) == BankSize {
		copy(c.cfg.Pool.Bytes(c.eprom), s.EPROM)
	}
	ram := c.cfg.Pool.Bytes(c.ram)
	for b, d := range s.RAM {
		if b < c.cfg.RAMBanks && len(d) == BankSize {
			copy(ram[b*BankSize:], d)
		}
	}

	c.control = s.Control &^ MapRAM
	c.mapram.clear()
	c.mapram.latch(s.MapRAM || s.Control&MapRAM != 0)
	c.automap = s.Automap

	if s.Paged {
		c.page()
	} else {
		c.unpage()
	}
}
