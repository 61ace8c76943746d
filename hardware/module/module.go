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

// Package module broadcasts machine lifecycle events (reset, ROMCS remapping
// and the snapshot hooks) to every registered hardware module.
//
// A module is any value. The events it receives are decided by the
// interfaces it implements: a module that implements Resetter receives
// Reset() broadcasts, a module that implements ROMCSMapper receives ROMCS()
// broadcasts, and so on. Broadcasts visit modules in registration order.
package module

import (
	"fmt"

	"github.com/zxbus/zxbus/snapshot"
)

// Labeller is implemented by modules that can name themselves.
type Labeller interface {
	Label() string
}

// Resetter is implemented by modules that react to a machine reset.
type Resetter interface {
	Reset(hard bool)
}

// ROMCSMapper is implemented by modules that overlay memory in response to
// the ROMCS signal. ROMCS() is called whenever the machine rebuilds its
// memory map while the ROMCS signal is asserted.
type ROMCSMapper interface {
	ROMCS()
}

// SnapshotEnabler is implemented by modules that enable themselves if they
// are present in a snapshot that is about to be loaded.
type SnapshotEnabler interface {
	SnapshotEnabled(s *snapshot.Snapshot)
}

// SnapshotLoader is implemented by modules that restore their state from a
// snapshot.
type SnapshotLoader interface {
	SnapshotFrom(s *snapshot.Snapshot)
}

// SnapshotSaver is implemented by modules that add their state to a
// snapshot.
type SnapshotSaver interface {
	SnapshotTo(s *snapshot.Snapshot)
}

// Registry of modules.
type Registry struct {
	modules []any
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register a module. The registry keeps a reference to the module but never
// changes it.
func (r *Registry) Register(m any) {
	r.modules = append(r.modules, m)
}

// Clear all modules from registry.
func (r *Registry) Clear() {
	r.modules = r.modules[:0]
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// Labels returns the label of every module in registration order. Modules
// that do not implement Labeller are named by their type.
func (r *Registry) Labels() []string {
	l := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		if lb, ok := m.(Labeller); ok {
			l = append(l, lb.Label())
		} else {
			l = append(l, fmt.Sprintf("%T", m))
		}
	}
	return l
}

// Reset broadcasts a reset to every module.
func (r *Registry) Reset(hard bool) {
	for _, m := range r.modules {
		if rs, ok := m.(Resetter); ok {
			rs.Reset(hard)
		}
	}
}

// ROMCS broadcasts a memory map rebuild while the ROMCS signal is asserted.
func (r *Registry) ROMCS() {
	for _, m := range r.modules {
		if mp, ok := m.(ROMCSMapper); ok {
			mp.ROMCS()
		}
	}
}

// SnapshotEnabled gives every module the chance to enable itself before the
// snapshot is loaded.
func (r *Registry) SnapshotEnabled(s *snapshot.Snapshot) {
	for _, m := range r.modules {
		if en, ok := m.(SnapshotEnabler); ok {
			en.SnapshotEnabled(s)
		}
	}
}

// SnapshotLoad broadcasts the loading of a snapshot.
func (r *Registry) SnapshotLoad(s *snapshot.Snapshot) {
	for _, m := range r.modules {
		if ld, ok := m.(SnapshotLoader); ok {
			ld.SnapshotFrom(s)
		}
	}
}

// SnapshotSave broadcasts the saving of a snapshot.
func (r *Registry) SnapshotSave(s *snapshot.Snapshot) {
	for _, m := range r.modules {
		if sv, ok := m.(SnapshotSaver); ok {
			sv.SnapshotTo(s)
		}
	}
}
