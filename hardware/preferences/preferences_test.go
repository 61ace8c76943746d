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

package preferences_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zxbus/zxbus/hardware/preferences"
	"github.com/zxbus/zxbus/prefs"
	"github.com/zxbus/zxbus/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferences("")
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.Machine.String(), "48k")
	test.ExpectFailure(t, p.DivIDE.Value())
	test.ExpectFailure(t, p.DivMMCWriteProtect.Value())

	// no disk
	test.ExpectSuccess(t, p.Save())
	test.ExpectSuccess(t, p.Load())
	test.ExpectEquality(t, p.String(), "")
}

func TestMachineValidation(t *testing.T) {
	p, err := preferences.NewPreferences("")
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, p.Machine.Set("128K"))
	test.ExpectFailure(t, p.Machine.Set("plus3"))
	test.ExpectEquality(t, p.Machine.String(), "128K")
}

func TestSaveAndLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	p, err := preferences.NewPreferences(fn)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, p.Machine.Set("128k"))
	test.ExpectSuccess(t, p.DivIDE.Set(true))
	test.ExpectSuccess(t, p.DivIDEFirmware.Set("divide.rom"))
	test.ExpectSuccess(t, p.Save())

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(data), "divide.enabled :: true\n"))
	test.ExpectSuccess(t, strings.Contains(string(data), "machine.model :: 128k\n"))

	q, err := preferences.NewPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Machine.String(), "128k")
	test.ExpectSuccess(t, q.DivIDE.Value())
	test.ExpectEquality(t, q.DivIDEFirmware.String(), "divide.rom")
	test.ExpectFailure(t, q.DivMMC.Value())
}

func TestCommandLine(t *testing.T) {
	fn := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	prefs.PushCommandLineStack("divmmc.enabled::true; machine.model::128k")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, p.DivMMC.Value())
	test.ExpectEquality(t, p.Machine.String(), "128k")
}
