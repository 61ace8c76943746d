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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes (and sub-modes) and allows different
// flags for each mode.
//
// Arguments are first given with NewArgs() and then parsed, one layer at a
// time, with Parse():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "peripherals", "dump")
//	p, err := md.Parse()
//
// After a successful Parse() the selected mode is available with Mode(). If
// no mode was named on the command line the first of the sub-modes is used.
// Sub-mode comparisons are case insensitive and modes are always reported in
// upper case.
//
// A mode can then add its own flags and parse the remaining arguments:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		divide := md.AddBool("divide", false, "enable DivIDE interface")
//		p, err := md.Parse()
//		...
//	}
//
// Help (-help or -h) is handled automatically by Parse(), which returns
// ParseHelp once the help message has been written to Output.
package modalflag
