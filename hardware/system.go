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

package hardware

import (
	"fmt"
	"strings"

	"github.com/zxbus/zxbus/debugger/events"
	"github.com/zxbus/zxbus/environment"
	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/hardware/peripherals"
	"github.com/zxbus/zxbus/hardware/peripherals/ay"
	"github.com/zxbus/zxbus/hardware/peripherals/divide"
	"github.com/zxbus/zxbus/hardware/peripherals/divmmc"
	"github.com/zxbus/zxbus/hardware/peripherals/if2"
	"github.com/zxbus/zxbus/hardware/peripherals/kempston"
	"github.com/zxbus/zxbus/hardware/peripherals/ula"
	"github.com/zxbus/zxbus/notifications"
	"github.com/zxbus/zxbus/startup"
)

// System is a complete instance of the emulated hardware.
type System struct {
	Env *environment.Environment

	Pool    *memory.Pool
	Mem     *memory.Map
	Events  *events.Events
	Machine *machine.Machine

	ULA      *ula.ULA
	AY       *ay.AY
	Kempston *kempston.Kempston
	IF2      *if2.IF2
	DivIDE   *divide.DivIDE
	DivMMC   *divmmc.DivMMC

	model machine.Model
	mgr   *startup.Manager
}

// NewSystem creates a new System and everything associated with the
// hardware. Sub-systems are initialised in dependency order and the machine
// is given a hard reset.
//
// An error from any sub-system is returned and the System is unusable.
func NewSystem(env *environment.Environment) (*System, error) {
	sys := &System{
		Env: env,
		mgr: startup.NewManager(),
	}
	sys.mgr.SetLogging(env, env.Log)

	sys.mgr.Register(startup.Mempool, nil, func(_ any) error {
		sys.Pool = memory.NewPool()
		return nil
	}, env, func() {
		sys.Pool.Clear()
	})

	sys.mgr.Register(startup.Memory, []startup.ModuleID{startup.Mempool}, func(_ any) error {
		sys.Mem = memory.NewMap(sys.Pool)
		return nil
	}, env, nil)

	sys.mgr.Register(startup.Settings, nil, func(ctx any) error {
		var err error
		sys.model, err = machine.ParseModel(ctx.(*environment.Environment).Prefs.Machine.String())
		return err
	}, env, nil)

	sys.mgr.Register(startup.Debugger, nil, func(_ any) error {
		sys.Events = events.NewEvents()
		return nil
	}, env, nil)

	sys.mgr.Register(startup.Machine, []startup.ModuleID{startup.Memory, startup.Settings, startup.Debugger}, func(ctx any) error {
		var err error
		sys.Machine, err = machine.NewMachine(ctx.(*environment.Environment), sys.model, sys.Pool, sys.Mem, sys.Events)
		return err
	}, env, func() {
		sys.Machine.Modules().Clear()
		sys.Machine.Peripherals().Clear()
	})

	sys.mgr.Register(startup.MachinesPeriph, []startup.ModuleID{startup.Machine}, func(_ any) error {
		sys.Machine.RegisterPaging()
		return nil
	}, env, nil)

	sys.mgr.Register(startup.ULA, []startup.ModuleID{startup.Machine}, func(_ any) error {
		sys.ULA = ula.NewULA(sys.Machine)
		return nil
	}, env, nil)

	sys.mgr.Register(startup.AY, []startup.ModuleID{startup.Machine}, func(_ any) error {
		sys.AY = ay.NewAY(sys.Machine)
		return nil
	}, env, nil)

	sys.mgr.Register(startup.Kempston, []startup.ModuleID{startup.Machine}, func(_ any) error {
		sys.Kempston = kempston.NewKempston(sys.Machine)
		return nil
	}, env, nil)

	sys.mgr.Register(startup.IF2, []startup.ModuleID{startup.Machine}, func(_ any) error {
		sys.IF2 = if2.NewIF2(sys.Machine)
		return nil
	}, env, nil)

	sys.mgr.Register(startup.DivIDE, []startup.ModuleID{startup.Machine, startup.Debugger}, func(_ any) error {
		sys.DivIDE = divide.NewDivIDE(sys.Machine)
		return nil
	}, env, nil)

	sys.mgr.Register(startup.DivMMC, []startup.ModuleID{startup.Machine, startup.Debugger}, func(_ any) error {
		sys.DivMMC = divmmc.NewDivMMC(sys.Machine)
		return nil
	}, env, nil)

	if err := sys.mgr.Run(); err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	sys.Machine.ConfigurePeripherals()
	sys.Machine.Reset(true)

	return sys, nil
}

func (sys *System) String() string {
	s := strings.Builder{}
	s.WriteString(sys.Machine.String())
	s.WriteString("\n")
	for _, t := range sys.Machine.Peripherals().Active() {
		s.WriteString(fmt.Sprintf("  %s\n", t))
	}
	return s.String()
}

// LoadROM loads the ROM image at path into the machine's ROM bank.
func (sys *System) LoadROM(bank int, path string) error {
	d, err := peripherals.ReadFile(path, machine.BankSize)
	if err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	if err := sys.Machine.LoadROM(bank, d); err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	return nil
}

// Reconfigure updates the active peripherals after a change to the
// preferences. The machine is given a hard reset if the change requires it.
// Returns true if the machine was reset.
func (sys *System) Reconfigure() bool {
	if !sys.Machine.ConfigurePeripherals() {
		return false
	}
	if err := sys.Env.Notice(notifications.NotifyHardResetRequired); err != nil {
		sys.Env.Logf("system", "notice failed: %v", err)
	}
	sys.Machine.Reset(true)
	return true
}

// Reset the machine. A hard reset also clears RAM.
func (sys *System) Reset(hard bool) {
	sys.Machine.Reset(hard)
}

// Shutdown tears down every sub-system in the reverse order of
// initialisation. The System should not be used afterwards.
func (sys *System) Shutdown() {
	sys.mgr.RunEnd()
}
