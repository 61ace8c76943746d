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

package prefs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zxbus/zxbus/prefs"
	"github.com/zxbus/zxbus/test"
)

func getTmpPrefFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "zxbus_prefs_test")
}

func cmpTmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	if err != nil {
		t.Fatalf("error reading tmp file: %v", err)
	}

	expected = prefs.WarningBoilerPlate + "\n" + expected
	test.ExpectEquality(t, string(data), expected)
}

func TestBool(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	var w prefs.Bool
	var x prefs.Bool

	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("true"))

	test.ExpectSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")

	// unsupported type
	test.ExpectFailure(t, v.Set(10))
}

func TestString(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &v))
	test.ExpectSuccess(t, v.Set("bar"))
	test.ExpectSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "foo :: bar\n")
}

func TestInt(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	var w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))
	test.ExpectSuccess(t, v.Set(10))
	test.ExpectSuccess(t, w.Set("99"))
	test.ExpectSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "number :: 10\nnumberB :: 99\n")

	// string that isn't a number
	test.ExpectFailure(t, v.Set("---"))

	// unsupported type
	test.ExpectFailure(t, v.Set(1.0))
	test.ExpectEquality(t, v.Get().(int), 10)
}

// write bool and then a string from a different prefs.Disk instance. tests
// that the second write doesn't lose the entry from the first
func TestBoolAndString(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "test :: true\n")

	dsk, err = prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var s prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &s))
	test.ExpectSuccess(t, s.Set("bar"))
	test.ExpectSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "foo :: bar\ntest :: true\n")
}

func TestLoad(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	var n prefs.Int
	test.ExpectSuccess(t, dsk.Add("enabled", &v))
	test.ExpectSuccess(t, dsk.Add("count", &n))

	// file doesn't exist yet
	err = dsk.Load(false)
	test.ExpectSuccess(t, errors.Is(err, prefs.NoPrefsFile))

	missing, err := dsk.DoesNotHaveEntry("enabled")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, missing)

	// first use creates the file with the current values
	test.ExpectSuccess(t, dsk.Load(true))
	cmpTmpFile(t, fn, "count :: 0\nenabled :: false\n")

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, n.Set(7))
	test.ExpectSuccess(t, dsk.Save())

	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, v.Value(), false)
	test.ExpectEquality(t, n.Get().(int), 0)

	test.ExpectSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, v.Value(), true)
	test.ExpectEquality(t, n.Get().(int), 7)

	missing, err = dsk.DoesNotHaveEntry("enabled")
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, missing)
}

func TestAddErrors(t *testing.T) {
	dsk, err := prefs.NewDisk(getTmpPrefFile(t))
	test.DemandSuccess(t, err)

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("key", &v))
	test.ExpectFailure(t, dsk.Add("key", &v))
	test.ExpectFailure(t, dsk.Add("bad :: key", &v))
	test.ExpectFailure(t, dsk.Add("", &v))
	test.ExpectFailure(t, dsk.Add("divide.jumper", &v))
}

func TestCommandLineOverride(t *testing.T) {
	dsk, err := prefs.NewDisk(getTmpPrefFile(t))
	test.DemandSuccess(t, err)

	prefs.PushCommandLineStack("divide.enabled::true")
	defer prefs.PopCommandLineStack()

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("divide.enabled", &v))
	test.ExpectEquality(t, v.Value(), true)
}

func TestHooks(t *testing.T) {
	var v prefs.Bool
	var pre, post, cb int

	v.SetHookPre(func(_ prefs.Value) error {
		pre++
		return nil
	})
	v.SetHookPost(func(_ prefs.Value) error {
		post++
		return nil
	})
	v.RegisterCallback(func(_ prefs.Value) error {
		cb++
		return nil
	})

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, v.Set(true))
	test.ExpectEquality(t, pre, 2)
	test.ExpectEquality(t, post, 2)
	test.ExpectEquality(t, cb, 2)

	// a failing pre hook prevents the value from changing
	v.SetHookPre(func(_ prefs.Value) error {
		return errors.New("refused")
	})
	test.ExpectFailure(t, v.Set(false))
	test.ExpectEquality(t, v.Value(), true)
}

func TestMaxStringLength(t *testing.T) {
	var s prefs.String

	test.ExpectSuccess(t, s.Set("123456789"))
	test.ExpectEquality(t, s.String(), "123456789")

	s.SetMaxLen(5)
	test.ExpectEquality(t, s.String(), "12345")

	test.ExpectSuccess(t, s.Set("abcdefghij"))
	test.ExpectEquality(t, s.String(), "abcde")

	s.SetMaxLen(0)
	test.ExpectSuccess(t, s.Set("abc"))
	test.ExpectEquality(t, s.String(), "abc")
}
