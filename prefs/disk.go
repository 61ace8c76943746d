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

package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is written at the top of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// KeySep separates the key from the value in the preferences file.
const KeySep = " :: "

// keys that are no longer used. they are removed from the preferences file on
// the next save
var defunct = []string{
	"divide.jumper",
	"divmmc.rom.writeprotect",
}

// NoPrefsFile is returned by Load() when the preferences file does not exist.
var NoPrefsFile = errors.New("no prefs file")

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]Pref
}

func (dsk Disk) String() string {
	keys := maps.Keys(dsk.entries)
	slices.Sort(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, dsk.entries[k]))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	dsk := &Disk{
		path:    path,
		entries: make(map[string]Pref),
	}
	return dsk, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the preferences file.
func (dsk *Disk) Add(key string, p Pref) error {
	if strings.Contains(key, KeySep) || strings.TrimSpace(key) == "" {
		return fmt.Errorf("prefs: illegal key (%s)", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return fmt.Errorf("prefs: key already added (%s)", key)
	}
	if slices.Contains(defunct, key) {
		return fmt.Errorf("prefs: key is defunct (%s)", key)
	}

	// command line overrides the default value for this key
	if ok, v := GetCommandLinePref(key); ok {
		if err := p.Set(v); err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
	}

	dsk.entries[key] = p
	return nil
}

// Reset all entries to their default value. No changes are made to the disk.
func (dsk *Disk) Reset() error {
	for _, v := range dsk.entries {
		if err := v.Reset(); err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
	}
	return nil
}

// readFile returns the key/value pairs in the preferences file. A missing
// file is returned as an empty map with the NoPrefsFile error.
func (dsk *Disk) readFile() (map[string]string, error) {
	data := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, NoPrefsFile
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line must be the boilerplate warning
	if !scanner.Scan() {
		return data, nil
	}
	if scanner.Text() != WarningBoilerPlate {
		return nil, fmt.Errorf("prefs: not a valid prefs file (%s)", dsk.path)
	}

	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), KeySep, 2)
		if len(kv) != 2 {
			continue
		}
		data[kv[0]] = kv[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	return data, nil
}

// Save current preference values to disk. Entries in the file that belong to
// a different Disk instance are preserved. Defunct entries are dropped.
func (dsk *Disk) Save() error {
	data, err := dsk.readFile()
	if err != nil && !errors.Is(err, NoPrefsFile) {
		return err
	}

	for _, d := range defunct {
		delete(data, d)
	}
	for k, v := range dsk.entries {
		data[k] = v.String()
	}

	keys := maps.Keys(data)
	slices.Sort(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, data[k]))
	}

	if err := os.WriteFile(dsk.path, []byte(s.String()), 0o600); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

// Load preference values from disk. If saveOnFirstUse is true and the
// preferences file does not exist then the current values are saved and no
// error is returned. Otherwise a missing file results in NoPrefsFile.
func (dsk *Disk) Load(saveOnFirstUse bool) error {
	data, err := dsk.readFile()
	if err != nil {
		if errors.Is(err, NoPrefsFile) && saveOnFirstUse {
			return dsk.Save()
		}
		return err
	}

	for k, v := range data {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %w", err)
			}
		}
	}

	return nil
}

// DoesNotHaveEntry returns true if the preferences file does not contain an
// entry for key.
func (dsk *Disk) DoesNotHaveEntry(key string) (bool, error) {
	data, err := dsk.readFile()
	if err != nil {
		if errors.Is(err, NoPrefsFile) {
			return true, nil
		}
		return false, err
	}
	_, ok := data[key]
	return !ok, nil
}
