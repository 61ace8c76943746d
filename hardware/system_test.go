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

package hardware_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zxbus/zxbus/environment"
	"github.com/zxbus/zxbus/hardware"
	"github.com/zxbus/zxbus/hardware/machine"
	"github.com/zxbus/zxbus/hardware/periph"
	"github.com/zxbus/zxbus/hardware/preferences"
	"github.com/zxbus/zxbus/logger"
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

func newEnvironment(t *testing.T, n notifications.Notify) *environment.Environment {
	t.Helper()
	prefs, err := preferences.NewPreferences("")
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment("test", prefs, n)
	test.DemandSuccess(t, err)
	return env
}

// startupLog returns the startup entries of the environment's log
func startupLog(env *environment.Environment) []string {
	var l []string
	env.Log.BorrowLog(func(entries []logger.Entry) {
		for _, e := range entries {
			if e.Tag == "startup" {
				l = append(l, e.Detail)
			}
		}
	})
	return l
}

func TestNewSystem(t *testing.T) {
	env := newEnvironment(t, nil)
	sys, err := hardware.NewSystem(env)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, sys.Machine.Model(), machine.Model48K)
	test.ExpectEquality(t, sys.Machine.Modules().Len(), 6)
	test.ExpectEquality(t, strings.Join(sys.Machine.Modules().Labels(), ","),
		"ULA,AY,Kempston,IF2,DivIDE,DivMMC")

	active := sys.Machine.Peripherals().Active()
	test.DemandEquality(t, len(active), 1)
	test.ExpectEquality(t, active[0], periph.ULA)

	test.ExpectEquality(t, strings.Join(startupLog(env), ","),
		"initialised mempool,initialised memory,initialised settings,initialised debugger,"+
			"initialised machine,initialised machines periph,initialised ula,initialised ay,"+
			"initialised kempston,initialised if2,initialised divide,initialised divmmc")

	env.Log.Clear()
	sys.Shutdown()
	test.ExpectEquality(t, strings.Join(startupLog(env), ","), "ended machine,ended mempool")
	test.ExpectEquality(t, sys.Machine.Modules().Len(), 0)
}

func TestSystem128K(t *testing.T) {
	env := newEnvironment(t, nil)
	test.DemandSuccess(t, env.Prefs.Machine.Set("128K"))
	test.DemandSuccess(t, env.Prefs.Kempston.Set(true))

	sys, err := hardware.NewSystem(env)
	test.DemandSuccess(t, err)
	defer sys.Shutdown()

	test.ExpectEquality(t, sys.Machine.Model(), machine.Model128K)
	for _, p := range []periph.Type{periph.ULA, periph.Paging128, periph.AY, periph.Kempston} {
		test.ExpectSuccess(t, sys.Machine.Peripherals().IsActive(p), p)
	}
	test.ExpectFailure(t, sys.Machine.Peripherals().IsActive(periph.DivIDE))

	// paging and AY on the same bus
	sys.Machine.Out(0x7ffd, 0x07)
	test.ExpectEquality(t, sys.Machine.Paging(), 0x07)
	sys.Machine.Out(0xfffd, 0x07)
	sys.Machine.Out(0xbffd, 0x38)
	test.ExpectEquality(t, sys.AY.Register(7), 0x38)
	test.ExpectEquality(t, sys.Machine.Paging(), 0x07)
}

func TestReconfigure(t *testing.T) {
	n := &notices{}
	env := newEnvironment(t, n)
	sys, err := hardware.NewSystem(env)
	test.DemandSuccess(t, err)
	defer sys.Shutdown()

	sys.Machine.Write(0x8000, 0x12)

	// no change
	test.ExpectFailure(t, sys.Reconfigure())
	test.ExpectEquality(t, sys.Machine.Read(0x8000), 0x12)

	// the kempston interface can be added without a reset
	test.DemandSuccess(t, env.Prefs.Kempston.Set(true))
	test.ExpectFailure(t, sys.Reconfigure())
	test.ExpectSuccess(t, sys.Machine.Peripherals().IsActive(periph.Kempston))

	// the divide interface requires a hard reset
	test.DemandSuccess(t, env.Prefs.DivIDE.Set(true))
	test.ExpectSuccess(t, sys.Reconfigure())
	test.ExpectSuccess(t, sys.Machine.Peripherals().IsActive(periph.DivIDE))
	test.ExpectEquality(t, sys.Machine.Read(0x8000), 0x00)
	test.DemandEquality(t, len(n.received), 1)
	test.ExpectEquality(t, n.received[0], notifications.NotifyHardResetRequired)

	// automap on the divide interface
	sys.Machine.Fetch(0x0066)
	test.ExpectSuccess(t, sys.DivIDE.Controller().Active())
}

func TestLoadROM(t *testing.T) {
	env := newEnvironment(t, nil)
	sys, err := hardware.NewSystem(env)
	test.DemandSuccess(t, err)
	defer sys.Shutdown()

	path := filepath.Join(t.TempDir(), "48.rom")
	test.DemandSuccess(t, os.WriteFile(path, []uint8{0xf3, 0xaf}, 0o644))
	test.ExpectSuccess(t, sys.LoadROM(0, path))
	test.ExpectEquality(t, sys.Machine.Read(0x0001), 0xaf)

	test.ExpectFailure(t, sys.LoadROM(1, path))
	test.ExpectFailure(t, sys.LoadROM(0, filepath.Join(t.TempDir(), "missing.rom")))
}

func TestString(t *testing.T) {
	env := newEnvironment(t, nil)
	sys, err := hardware.NewSystem(env)
	test.DemandSuccess(t, err)
	defer sys.Shutdown()
	test.ExpectEquality(t, sys.String(), "machine: 48k\n  ULA\n")
}
