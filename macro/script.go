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

package macro

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/zxbus/zxbus/logger"
)

// ScriptExtension is the filename extension that selects a Lua script rather
// than a line based macro.
const ScriptExtension = ".lua"

// Runner is implemented by Macro and Script.
type Runner interface {
	Run(bus Bus, out io.Writer) error
}

// Load returns a Script or a Macro depending on the filename extension.
func Load(filename string) (Runner, error) {
	if strings.EqualFold(filepath.Ext(filename), ScriptExtension) {
		return NewScript(filename)
	}
	return NewMacro(filename)
}

// Script is a Lua program with access to the bus. The following globals are
// available to the program:
//
//	inp(port)            out(port, value)
//	peek(address)        poke(address, value)
//	fetch(address)       reset([hard])
//	expect(got, want)    print(...)
//
// expect() raises an error that wraps ErrExpectation.
type Script struct {
	filename string
	source   string
}

// NewScript reads the Lua program from filename.
func NewScript(filename string) (*Script, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}
	defer f.Close()
	return NewScriptFromReader(filename, f)
}

// NewScriptFromReader creates a Script from the contents of the reader. The
// name is used in error messages.
func NewScriptFromReader(name string, r io.Reader) (*Script, error) {
	buffer, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}
	return &Script{filename: name, source: string(buffer)}, nil
}

// Run the script to completion in a fresh Lua state.
func (scr *Script) Run(bus Bus, out io.Writer) error {
	L := lua.NewState()
	defer L.Close()

	// expectation failures are recorded here so that the error returned by
	// Run() can wrap ErrExpectation. the Lua error only carries a string
	var expectation error

	word := func(L *lua.LState, n int) uint16 {
		v := L.CheckInt(n)
		if v < 0 || v > 0xffff {
			L.ArgError(n, "out of range")
		}
		return uint16(v)
	}

	byt := func(L *lua.LState, n int) uint8 {
		v := L.CheckInt(n)
		if v < 0 || v > 0xff {
			L.ArgError(n, "out of range")
		}
		return uint8(v)
	}

	reader := func(f func(uint16) uint8) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(lua.LNumber(f(word(L, 1))))
			return 1
		}
	}

	writer := func(f func(uint16, uint8)) lua.LGFunction {
		return func(L *lua.LState) int {
			f(word(L, 1), byt(L, 2))
			return 0
		}
	}

	L.SetGlobal("inp", L.NewFunction(reader(bus.In)))
	L.SetGlobal("peek", L.NewFunction(reader(bus.Read)))
	L.SetGlobal("fetch", L.NewFunction(reader(bus.Fetch)))
	L.SetGlobal("out", L.NewFunction(writer(bus.Out)))
	L.SetGlobal("poke", L.NewFunction(writer(bus.Write)))

	L.SetGlobal("reset", L.NewFunction(func(L *lua.LState) int {
		bus.Reset(L.OptBool(1, false))
		return 0
	}))

	L.SetGlobal("expect", L.NewFunction(func(L *lua.LState) int {
		got := L.CheckInt(1)
		want := L.CheckInt(2)
		if got != want {
			expectation = fmt.Errorf("%w: %02x (expected %02x)", ErrExpectation, got, want)
			L.RaiseError("%v", expectation)
		}
		return 0
	}))

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		s := make([]string, L.GetTop())
		for i := range s {
			s[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		fmt.Fprintln(out, strings.Join(s, " "))
		return 0
	}))

	if err := L.DoString(scr.source); err != nil {
		if expectation != nil {
			err = expectation
		}
		err = fmt.Errorf("macro: %s: %w", scr.filename, err)
		logger.Log(logger.Allow, "macro", err)
		return err
	}

	return nil
}
