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

package paths_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/zxbus/zxbus/paths"
	"github.com/zxbus/zxbus/test"
)

func TestLocalPaths(t *testing.T) {
	t.Setenv(paths.HomeEnv, "")
	t.Chdir(t.TempDir())
	test.DemandSuccess(t, os.Mkdir(".zxbus", 0o700))

	test.ExpectEquality(t, paths.ResourcePath("foo/bar", "baz"), filepath.Join(".zxbus", "foo", "bar", "baz"))
	test.ExpectEquality(t, paths.ResourcePath("foo/bar", ""), filepath.Join(".zxbus", "foo", "bar"))
	test.ExpectEquality(t, paths.ResourcePath("", "baz"), filepath.Join(".zxbus", "baz"))
	test.ExpectEquality(t, paths.ResourcePath("", ""), ".zxbus")
}

func TestConfigPaths(t *testing.T) {
	t.Setenv(paths.HomeEnv, "")
	t.Chdir(t.TempDir())

	cnf, err := os.UserConfigDir()
	if err != nil {
		t.Skip("no user config directory")
	}
	test.ExpectEquality(t, paths.ResourcePath("roms"), filepath.Join(cnf, "zxbus", "roms"))
}

func TestHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(paths.HomeEnv, home)
	t.Chdir(t.TempDir())
	test.DemandSuccess(t, os.Mkdir(".zxbus", 0o700))
	test.ExpectEquality(t, paths.ResourcePath("preferences"), filepath.Join(home, "preferences"))
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("memmap", "128k")
	test.ExpectSuccess(t, regexp.MustCompile(`^memmap_128k_\d{8}_\d{6}$`).MatchString(fn))

	fn = paths.UniqueFilename("memmap", " ")
	test.ExpectSuccess(t, regexp.MustCompile(`^memmap_\d{8}_\d{6}$`).MatchString(fn))
}

func TestUniqueFilenameSpaces(t *testing.T) {
	fn := paths.UniqueFilename("memmap", " zx  128k ")
	test.ExpectSuccess(t, regexp.MustCompile(`^memmap_zx-128k_\d{8}_\d{6}$`).MatchString(fn))
}
