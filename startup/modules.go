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

package startup

import "fmt"

// ModuleID identifies a subsystem known to the startup manager.
type ModuleID int

// List of valid ModuleID values.
const (
	Mempool ModuleID = iota
	Memory
	Settings
	Debugger
	Machine
	MachinesPeriph
	ULA
	AY
	Kempston
	IF2
	DivIDE
	DivMMC

	numModules
)

var moduleNames = [numModules]string{
	"mempool",
	"memory",
	"settings",
	"debugger",
	"machine",
	"machines periph",
	"ula",
	"ay",
	"kempston",
	"if2",
	"divide",
	"divmmc",
}

func (id ModuleID) String() string {
	if id < 0 || id >= numModules {
		return fmt.Sprintf("unknown module (%d)", int(id))
	}
	return moduleNames[id]
}
