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

// Package macro runs scripts of bus operations against the emulated machine.
//
// The first line of a macro file must be the word zxbusmacro and the second
// line is a version string, which is currently ignored.
//
// The macro language is very simple and does not implement any flow control
// except basic loops.
//
//	DO loopCt [loopName]
//		...
//	LOOP
//
// The 'loopName' parameter is optional. When a loop is named the current
// counter value can be referenced as a variable with the % symbol anywhere a
// number is expected. Loops can be nested.
//
// Numbers can be written in decimal, as 0x prefixed hex or as $ prefixed hex.
//
//	OUT port value
//	IN port [expected]
//	POKE address value
//	PEEK address [expected]
//	FETCH address [expected]
//	RESET [HARD|SOFT]
//	PRINT text...
//
// IN, PEEK and FETCH print the value read unless an expected value is given,
// in which case execution stops with an error if the value read is different.
// RESET without an argument is a soft reset.
//
// Any errors in a macro script will terminate the macro execution.
//
// Lines can be commented by prefixing the line with two dashes (--). Leading
// and trailing white space is ignored.
//
// Files with the .lua extension are run as Lua programs instead. See the
// Script type for the functions available to a Lua program. Load() chooses
// between the two forms.
package macro
