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

package paths

import (
	"os"
	"path/filepath"
)

// directory holding the preferences file and other resources
const resourceName = ".zxbus"

// HomeEnv names the environment variable that, when set, replaces the
// resource directory.
const HomeEnv = "ZXBUS_HOME"

// ResourcePath joins the resource elements onto the resource directory. Empty
// elements are ignored.
func ResourcePath(resource ...string) string {
	return filepath.Join(append([]string{resourceDir()}, resource...)...)
}

// resourceDir chooses, in order: the HomeEnv variable, a .zxbus directory in
// the working directory, zxbus in the user's config directory. the existence
// of the chosen directory is not checked
func resourceDir() string {
	if d := os.Getenv(HomeEnv); d != "" {
		return d
	}
	if _, err := os.Stat(resourceName); err == nil {
		return resourceName
	}
	cnf, err := os.UserConfigDir()
	if err != nil {
		return resourceName
	}
	return filepath.Join(cnf, resourceName[1:])
}
