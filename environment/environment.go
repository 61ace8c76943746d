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

// Package environment is the context for a single emulation. Every subsystem
// of the emulation is given the Environment when it is initialised.
package environment

import (
	"github.com/zxbus/zxbus/hardware/preferences"
	"github.com/zxbus/zxbus/logger"
	"github.com/zxbus/zxbus/notifications"
)

// Label is used to name the environment
type Label string

// MainEmulation is the label of the main emulation.
const MainEmulation = Label("")

// Environment is used to provide context for an emulation. Particularly useful
// when using multiple emulations
type Environment struct {
	Label Label

	// the emulation preferences
	Prefs *preferences.Preferences

	// the log for the emulation. the main emulation uses the central logger
	Log *logger.Logger

	// notices from the hardware are sent to the Notify implementation. may
	// be nil, in which case notices are only logged
	Notify notifications.Notify
}

// NewEnvironment is the preferred method of initialisation for the Environment type.
//
// The prefs argument can be nil and a new Preferences instance, with no disk
// backing, will be created. The notify argument can also be nil.
func NewEnvironment(label Label, prefs *preferences.Preferences, notify notifications.Notify) (*Environment, error) {
	env := &Environment{
		Label:  label,
		Notify: notify,
	}

	if prefs == nil {
		var err error
		prefs, err = preferences.NewPreferences("")
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	if env.IsMainEmulation() {
		env.Log = logger.Central()
	} else {
		env.Log = logger.NewLogger(256)
	}

	return env, nil
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Log != nil
}

// Logf adds an entry to the environment's log.
func (env *Environment) Logf(tag string, pattern string, args ...any) {
	env.Log.Logf(env, tag, pattern, args...)
}

// Notice sends a notice to the Notify implementation. The notice is always
// logged.
func (env *Environment) Notice(notice notifications.Notice, args ...any) error {
	env.Logf("notice", "%s %v", notice, args)
	if env.Notify == nil {
		return nil
	}
	return env.Notify.Notify(notice, args...)
}

// IsMainEmulation returns true if the environment is intended for the main
// emulation in the system
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the emulation label and returns true if it matches
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}
