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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"golang.org/x/exp/slices"

	"github.com/zxbus/zxbus/logger"
)

// ErrUnresolved is returned (wrapped) by Run() when one or more modules could
// not be initialised because their dependencies were never satisfied.
var ErrUnresolved = errors.New("unresolved module dependencies")

// InitFunc is called once all the dependencies of a module have been
// initialised. The ctx argument is the value given to Register().
type InitFunc func(ctx any) error

// EndFunc is called during RunEnd().
type EndFunc func()

type module struct {
	id   ModuleID
	deps []ModuleID
	init InitFunc
	ctx  any
	end  EndFunc
}

// Manager resolves the initialisation order of registered modules.
type Manager struct {
	perm logger.Permission
	log  *logger.Logger

	// modules that have been registered but not yet initialised. in
	// registration order
	pending []*module

	// every module registered since the most recent RunEnd()
	registered set.Set[ModuleID]

	// end functions in the order the modules were initialised
	ends []namedEnd
}

type namedEnd struct {
	id  ModuleID
	end EndFunc
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager() *Manager {
	return &Manager{
		perm:       logger.Allow,
		log:        logger.Central(),
		registered: set.New[ModuleID](),
	}
}

// SetLogging changes the logger and permission used by the manager to report
// initialisation and teardown.
func (mgr *Manager) SetLogging(perm logger.Permission, log *logger.Logger) {
	mgr.perm = perm
	mgr.log = log
}

// Register a module with the manager. The deps list is copied. The end
// function can be nil.
//
// Registering the same ModuleID twice (before a call to RunEnd()) will cause
// a panic.
func (mgr *Manager) Register(id ModuleID, deps []ModuleID, init InitFunc, ctx any, end EndFunc) {
	if id < 0 || id >= numModules {
		panic(fmt.Sprintf("startup: illegal module id (%d)", int(id)))
	}
	if mgr.registered.Contains(id) {
		panic(fmt.Sprintf("startup: module registered twice (%s)", id))
	}
	mgr.registered.Add(id)

	mgr.pending = append(mgr.pending, &module{
		id:   id,
		deps: slices.Clone(deps),
		init: init,
		ctx:  ctx,
		end:  end,
	})
}

// Pending returns the modules that have been registered but not initialised.
func (mgr *Manager) Pending() []ModuleID {
	p := make([]ModuleID, 0, len(mgr.pending))
	for _, m := range mgr.pending {
		p = append(p, m.id)
	}
	return p
}

// Run initialises every registered module in dependency order. An error from
// an InitFunc stops the process immediately and is returned. Modules already
// initialised remain initialised.
func (mgr *Manager) Run() error {
	for progress := true; progress; {
		progress = false

		for i := 0; i < len(mgr.pending); {
			m := mgr.pending[i]
			if len(m.deps) > 0 {
				i++
				continue // for loop
			}

			mgr.pending = slices.Delete(mgr.pending, i, i+1)

			if m.init != nil {
				if err := m.init(m.ctx); err != nil {
					return fmt.Errorf("startup: %s: %w", m.id, err)
				}
			}
			mgr.log.Logf(mgr.perm, "startup", "initialised %s", m.id)

			mgr.satisfy(m.id)

			if m.end != nil {
				mgr.ends = append(mgr.ends, namedEnd{id: m.id, end: m.end})
			}

			progress = true
		}
	}

	if len(mgr.pending) > 0 {
		names := make([]string, 0, len(mgr.pending))
		for _, m := range mgr.pending {
			deps := make([]string, 0, len(m.deps))
			for _, d := range m.deps {
				deps = append(deps, d.String())
			}
			names = append(names, fmt.Sprintf("%s <- %s", m.id, strings.Join(deps, " ")))
		}
		return fmt.Errorf("startup: %w: %d modules (%s)", ErrUnresolved, len(mgr.pending), strings.Join(names, ", "))
	}

	return nil
}

// satisfy removes the module from the dependency list of every pending module
func (mgr *Manager) satisfy(id ModuleID) {
	for _, m := range mgr.pending {
		for {
			idx := slices.Index(m.deps, id)
			if idx == -1 {
				break // for loop
			}
			m.deps = slices.Delete(m.deps, idx, idx+1)
		}
	}
}

// RunEnd calls the end function of every initialised module, in the reverse
// order of initialisation. All registrations are forgotten afterwards.
func (mgr *Manager) RunEnd() {
	for i := len(mgr.ends) - 1; i >= 0; i-- {
		mgr.ends[i].end()
		mgr.log.Logf(mgr.perm, "startup", "ended %s", mgr.ends[i].id)
	}

	mgr.ends = mgr.ends[:0]
	mgr.pending = mgr.pending[:0]
	mgr.registered = set.New[ModuleID]()
}
