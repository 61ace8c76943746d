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
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zxbus/zxbus/logger"
)

// ErrExpectation is returned (wrapped) by Run() when a value read from the
// bus is not the expected value.
var ErrExpectation = errors.New("unexpected value")

// Bus is the emulated machine as seen by a macro.
type Bus interface {
	In(port uint16) uint8
	Out(port uint16, data uint8)
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
	Fetch(pc uint16) uint8
	Reset(hard bool)
}

// Macro is a type that allows control of an emulation from a series of instructions
type Macro struct {
	filename     string
	instructions []string
}

const (
	headerLineID = iota
	headerLineVersion
	headerNumLines
)

const headerID = "zxbusmacro"

// NewMacro is the preferred method of initialisation for the Macro type
func NewMacro(filename string) (*Macro, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}
	defer f.Close()
	return NewMacroFromReader(filename, f)
}

// NewMacroFromReader creates a new Macro from the contents of the reader. The
// name is used in error messages.
func NewMacroFromReader(name string, r io.Reader) (*Macro, error) {
	buffer, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}

	mcr := &Macro{filename: name}

	// convert file contents to an array of lines
	mcr.instructions = strings.Split(strings.ReplaceAll(string(buffer), "\r\n", "\n"), "\n")
	if len(mcr.instructions) < headerNumLines {
		return nil, fmt.Errorf("macro: %s: not a macro file", name)
	}
	if strings.TrimSpace(mcr.instructions[headerLineID]) != headerID {
		return nil, fmt.Errorf("macro: %s: not a macro file", name)
	}

	// ignore version string for now

	// we no longer need the header
	mcr.instructions = mcr.instructions[headerNumLines:]

	return mcr, nil
}

type loop struct {
	line int

	// loop counters count upwards because it is more natural when
	// referencing the counter value to think of the counter as counting
	// upwards
	count    int
	countEnd int

	// if loop counter has been named then we need to know it so that we can
	// update the entry in the variables table
	countName string
}

// Run a macro to completion. Output from the PRINT instruction and any
// values read without an expectation are written to out.
func (mcr *Macro) Run(bus Bus, out io.Writer) error {
	var loops []loop
	variables := make(map[string]int)

	fail := func(ln int, err error) error {
		err = fmt.Errorf("macro: %s: %d: %w", mcr.filename, ln+headerNumLines+1, err)
		logger.Log(logger.Allow, "macro", err)
		return err
	}

	number := func(s string, bits int) (uint64, error) {
		if s[0] == '%' {
			v, ok := variables[s[1:]]
			if !ok {
				return 0, fmt.Errorf("variable '%s' does not exist", s[1:])
			}
			if v < 0 || uint64(v) >= 1<<bits {
				return 0, fmt.Errorf("variable '%s' out of range (%d)", s[1:], v)
			}
			return uint64(v), nil
		}

		// convert hex indicator to one that ParseUint can deal with
		if s[0] == '$' {
			s = fmt.Sprintf("0x%s", s[1:])
		}
		return strconv.ParseUint(s, 0, bits)
	}

	address := func(s string) (uint16, error) {
		v, err := number(s, 16)
		return uint16(v), err
	}

	value := func(s string) (uint8, error) {
		v, err := number(s, 8)
		return uint8(v), err
	}

	// read is used by the IN, PEEK and FETCH instructions. the value is
	// compared against the optional expected value
	read := func(toks []string, f func(uint16) uint8) error {
		if len(toks) < 2 {
			return fmt.Errorf("too few arguments for %s", toks[0])
		}
		if len(toks) > 3 {
			return fmt.Errorf("too many arguments for %s", toks[0])
		}
		a, err := address(toks[1])
		if err != nil {
			return err
		}
		v := f(a)
		if len(toks) == 2 {
			fmt.Fprintf(out, "%s %04x = %02x\n", toks[0], a, v)
			return nil
		}
		e, err := value(toks[2])
		if err != nil {
			return err
		}
		if v != e {
			return fmt.Errorf("%w: %s %04x = %02x (expected %02x)", ErrExpectation, toks[0], a, v, e)
		}
		return nil
	}

	// write is used by the OUT and POKE instructions
	write := func(toks []string, f func(uint16, uint8)) error {
		if len(toks) != 3 {
			return fmt.Errorf("%s requires two arguments", toks[0])
		}
		a, err := address(toks[1])
		if err != nil {
			return err
		}
		v, err := value(toks[2])
		if err != nil {
			return err
		}
		f(a, v)
		return nil
	}

	for ln := 0; ln < len(mcr.instructions); ln++ {
		toks := strings.Fields(mcr.instructions[ln])
		if len(toks) == 0 {
			continue // for loop
		}

		var err error

		switch toks[0] {
		default:
			err = fmt.Errorf("unrecognised command: %s", toks[0])

		case "--":
			// ignore comment lines

		case "DO":
			tl := len(toks)
			switch tl {
			case 1:
				err = fmt.Errorf("too few arguments for DO")
			case 2, 3:
				var ct int
				ct, err = strconv.Atoi(toks[1])
				if err != nil {
					break // switch
				}
				lp := loop{
					line:     ln,
					countEnd: ct,
				}
				if tl == 3 {
					lp.countName = toks[2]
					variables[lp.countName] = lp.count
				}
				loops = append(loops, lp)
			default:
				err = fmt.Errorf("too many arguments for DO")
			}

		case "LOOP":
			if len(toks) > 1 {
				err = fmt.Errorf("too many arguments for LOOP")
				break // switch
			}

			idx := len(loops) - 1
			if idx == -1 {
				err = fmt.Errorf("LOOP without a DO")
				break // switch
			}

			lp := &loops[idx]
			lp.count++

			if lp.count < lp.countEnd {
				// loop is ongoing so return to start of loop
				ln = lp.line

				// update named variable
				if lp.countName != "" {
					variables[lp.countName] = lp.count
				}
			} else {
				// loop has ended. remove from loop stack and delete variable name
				delete(variables, lp.countName)
				loops = loops[:idx]
			}

		case "OUT":
			err = write(toks, bus.Out)

		case "POKE":
			err = write(toks, bus.Write)

		case "IN":
			err = read(toks, bus.In)

		case "PEEK":
			err = read(toks, bus.Read)

		case "FETCH":
			err = read(toks, bus.Fetch)

		case "RESET":
			switch len(toks) {
			case 1:
				bus.Reset(false)
			case 2:
				switch strings.ToUpper(toks[1]) {
				case "HARD":
					bus.Reset(true)
				case "SOFT":
					bus.Reset(false)
				default:
					err = fmt.Errorf("unrecognised argument for RESET: %s", toks[1])
				}
			default:
				err = fmt.Errorf("too many arguments for RESET")
			}

		case "PRINT":
			var s strings.Builder
			for _, c := range toks[1:] {
				if c[0] == '%' {
					if v, ok := variables[c[1:]]; ok {
						s.WriteString(fmt.Sprintf("%d ", v))
						continue // for loop
					}
				}
				s.WriteString(c)
				s.WriteRune(' ')
			}
			fmt.Fprintln(out, strings.TrimSpace(s.String()))
		}

		if err != nil {
			return fail(ln, err)
		}
	}

	if len(loops) > 0 {
		return fail(len(mcr.instructions)-1, fmt.Errorf("DO without a LOOP"))
	}

	return nil
}
