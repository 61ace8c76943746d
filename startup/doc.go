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

// Package startup brings up the emulator's subsystems in dependency order and
// tears them down in reverse.
//
// Every subsystem registers itself with a Manager, naming the subsystems it
// depends on:
//
//	mgr := startup.NewManager()
//	mgr.Register(startup.Machine, []startup.ModuleID{startup.Memory}, machineInit, env, machineEnd)
//	mgr.Register(startup.Memory, nil, memoryInit, env, nil)
//	err := mgr.Run()
//
// Run() repeatedly scans the modules that have not yet been initialised, in
// registration order, and initialises any module whose dependencies have all
// been satisfied. Registration order therefore does not matter for
// correctness, only for the order of otherwise independent modules.
//
// A module whose dependencies can never be satisfied (a missing module or a
// cycle) is never initialised and Run() returns an error that satisfies
// errors.Is(err, ErrUnresolved).
//
// RunEnd() calls the end functions of the initialised modules in the reverse
// of the order they were initialised.
package startup
