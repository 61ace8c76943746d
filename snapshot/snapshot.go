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

// Package snapshot defines the in-memory snapshot of the emulated machine.
// Every section is optional and a nil section means that the hardware was
// not present (or not active) when the snapshot was taken. Encoding the
// snapshot to and from a file format is not the concern of this package.
package snapshot

// Snapshot of the emulated machine and its peripherals.
type Snapshot struct {
	Machine  *Machine
	ULA      *ULA
	AY       *AY
	Kempston *Kempston
	IF2      *IF2
	DivIDE   *DivIDE
	DivMMC   *DivMMC
}

// Machine section. RAM is a copy of every 16K RAM bank.
type Machine struct {
	Model  string
	Paging uint8
	RAM    [][]uint8
}

// ULA section.
type ULA struct {
	Border uint8
	Output uint8
}

// AY section.
type AY struct {
	Selected  uint8
	Registers [16]uint8
}

// Kempston section. The interface has no state other than its presence.
type Kempston struct{}

// IF2 section. A nil ROM means no cartridge was inserted.
type IF2 struct {
	ROM []uint8
}

// Bankswitch is the state of a DivIDE/DivMMC style memory controller.
type Bankswitch struct {
	Control uint8
	MapRAM  bool
	Paged   bool
	Automap bool
	EPROM   []uint8
	RAM     [][]uint8
}

// DivIDE section.
type DivIDE struct {
	Bankswitch
}

// DivMMC section.
type DivMMC struct {
	Bankswitch
	CardSelect uint8
}
