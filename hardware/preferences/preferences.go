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

// Package preferences holds the configuration of the emulated machine and its
// peripherals. Values are stored on disk using the prefs package.
package preferences

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zxbus/zxbus/prefs"
)

// list of machine models accepted by the Machine preference
var models = []string{"48k", "128k"}

// Preferences for the emulated hardware.
type Preferences struct {
	dsk *prefs.Disk

	// the machine model. one of "48k" or "128k"
	Machine prefs.String

	// the AY sound chip is always present in the 128K machine. this flag
	// enables it on the 48K machine
	AY prefs.Bool

	Kempston prefs.Bool

	// Interface 2 and the ROM cartridge to insert
	IF2          prefs.Bool
	IF2Cartridge prefs.String

	DivIDE             prefs.Bool
	DivIDEWriteProtect prefs.Bool
	DivIDEFirmware     prefs.String

	DivMMC             prefs.Bool
	DivMMCWriteProtect prefs.Bool
	DivMMCFirmware     prefs.String
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. The values are stored in the file at path. An empty path
// means that the preferences are never loaded or saved.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}

	p.Machine.SetHookPre(func(v prefs.Value) error {
		m := strings.ToLower(v.(string))
		for _, n := range models {
			if m == n {
				return nil
			}
		}
		return fmt.Errorf("preferences: unsupported machine (%s)", v)
	})

	p.SetDefaults()

	if path == "" {
		return p, nil
	}

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	entries := []struct {
		key string
		v   prefs.Pref
	}{
		{"machine.model", &p.Machine},
		{"machine.ay", &p.AY},
		{"kempston.enabled", &p.Kempston},
		{"if2.enabled", &p.IF2},
		{"if2.cartridge", &p.IF2Cartridge},
		{"divide.enabled", &p.DivIDE},
		{"divide.writeprotect", &p.DivIDEWriteProtect},
		{"divide.firmware", &p.DivIDEFirmware},
		{"divmmc.enabled", &p.DivMMC},
		{"divmmc.writeprotect", &p.DivMMCWriteProtect},
		{"divmmc.firmware", &p.DivMMCFirmware},
	}
	for _, e := range entries {
		if err := p.dsk.Add(e.key, e.v); err != nil {
			return nil, fmt.Errorf("preferences: %w", err)
		}
	}

	if err := p.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.Machine.Set("48k")
	_ = p.AY.Set(false)
	_ = p.Kempston.Set(false)
	_ = p.IF2.Set(false)
	_ = p.IF2Cartridge.Set("")
	_ = p.DivIDE.Set(false)
	_ = p.DivIDEWriteProtect.Set(false)
	_ = p.DivIDEFirmware.Set("")
	_ = p.DivMMC.Set(false)
	_ = p.DivMMCWriteProtect.Set(false)
	_ = p.DivMMCFirmware.Set("")
}

// Load preferences from disk. A missing preferences file is not an error.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	err := p.dsk.Load(false)
	if err != nil && !errors.Is(err, prefs.NoPrefsFile) {
		return fmt.Errorf("preferences: %w", err)
	}
	return nil
}

// Save preferences to disk. Does nothing if the preferences have no disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	if err := p.dsk.Save(); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	return nil
}
